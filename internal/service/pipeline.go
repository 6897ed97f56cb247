package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lagerschema/lagerschema/internal/domain"
	"github.com/lagerschema/lagerschema/internal/record"
	"github.com/lagerschema/lagerschema/internal/schedule"
	"github.com/lagerschema/lagerschema/internal/slug"
)

type operation string

const (
	opAdd  operation = "add"
	opEdit operation = "edit"
)

// runPipeline turns one locally accepted mutation into a reviewable,
// auto-merged change on the base branch, using only the store's own
// primitives. Each step is one network call; a failure anywhere aborts
// the whole run, and nothing already created is rolled back. Two
// concurrent runs can never collide: each works on a branch forked from
// the exact commit it read, and only that run ever touches its branch,
// so the content-hash precondition on the write cannot conflict.
func (s *SubmissionService) runPipeline(ctx context.Context, op operation, ev domain.Event, update record.EventUpdate) error {
	// Step 1: read the registry from the base branch and pin the target
	// camp. An ambiguous target is never guessed.
	regContent, err := s.store.GetFile(ctx, s.conf.RegistryPath, s.conf.BaseBranch)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	camps, err := record.ParseRegistry(regContent.Text)
	if err != nil {
		return fmt.Errorf("parse registry: %w", err)
	}
	if err := schedule.CheckRegistry(camps); err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	camp, err := schedule.Resolve(camps, s.conf.Now().Format("2006-01-02"), s.conf.Environment)
	if err != nil {
		return fmt.Errorf("resolve camp: %w", err)
	}
	if camp.File == "" {
		return fmt.Errorf("camp %q has no record file", camp.ID)
	}

	// Step 2: read the target record file; its hash is the write
	// precondition for step 5.
	target, err := s.store.GetFile(ctx, camp.File, s.conf.BaseBranch)
	if err != nil {
		return fmt.Errorf("read %s: %w", camp.File, err)
	}

	// Step 3: build the new content entirely in memory, then run both
	// validation passes before anything is written.
	newText, err := s.transform(op, target.Text, ev, update)
	if err != nil {
		return err
	}

	// An edit may have changed the title or date; the branch name and
	// proposal describe the event as it will land, not as it was.
	if op == opEdit {
		if patched, ok := findEvent(newText, ev.ID); ok {
			ev = patched
		}
	}

	// Step 4: fork an ephemeral branch from the commit we just observed.
	// The name embeds operation, date, slug and a timestamp nonce so
	// concurrent submissions never share a branch.
	head, err := s.store.BranchHead(ctx, s.conf.BaseBranch)
	if err != nil {
		return fmt.Errorf("read head of %s: %w", s.conf.BaseBranch, err)
	}
	branch := fmt.Sprintf("submit/%s/%s-%s-%d", op, ev.Date, slug.Slugify(ev.Title), s.conf.Now().UnixMilli())
	if err := s.store.CreateBranch(ctx, branch, head); err != nil {
		return fmt.Errorf("create branch %s: %w", branch, err)
	}

	// Step 5: commit to the ephemeral branch.
	message := fmt.Sprintf("%s event %s", titleWord(op), ev.ID)
	commit, err := s.store.PutFile(ctx, camp.File, branch, message, newText, target.SHA)
	if err != nil {
		return fmt.Errorf("commit to %s: %w", branch, err)
	}

	// Step 6: open the merge proposal.
	title := fmt.Sprintf("%s event: %s (%s)", titleWord(op), ev.Title, ev.Date)
	body := proposalBody(op, ev, camp)
	pr, err := s.store.CreatePullRequest(ctx, branch, s.conf.BaseBranch, title, body)
	if err != nil {
		return fmt.Errorf("open proposal for %s: %w", branch, err)
	}

	// Step 7: let it land on its own once checks pass.
	if err := s.store.EnableAutoMerge(ctx, pr.NodeID); err != nil {
		return fmt.Errorf("enable auto-merge on #%d: %w", pr.Number, err)
	}

	zap.L().Info("submission proposed",
		zap.String("operation", string(op)),
		zap.String("event", ev.ID),
		zap.String("branch", branch),
		zap.String("commit", commit),
		zap.Int("pull_request", pr.Number),
	)
	return nil
}

func (s *SubmissionService) transform(op operation, fileText string, ev domain.Event, update record.EventUpdate) (string, error) {
	var newText string
	switch op {
	case opAdd:
		f, err := record.Parse(fileText)
		if err != nil {
			return "", fmt.Errorf("parse record file: %w", err)
		}
		newText = record.Marshal(record.AppendEvent(f, ev))
	case opEdit:
		var err error
		newText, err = record.Patch(fileText, ev.ID, update, s.conf.Now())
		if err != nil {
			return "", fmt.Errorf("patch %s: %w", ev.ID, err)
		}
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}

	if res := record.ValidateText(newText); !res.OK {
		return "", fmt.Errorf("transformed file failed validation: %v", res.Findings)
	}
	f, _ := record.Parse(newText)
	if res := record.Scan(f); !res.OK {
		return "", fmt.Errorf("transformed file failed security scan: %v", res.Findings)
	}
	return newText, nil
}

func findEvent(fileText, id string) (domain.Event, bool) {
	f, err := record.Parse(fileText)
	if err != nil {
		return domain.Event{}, false
	}
	for _, e := range f.Events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}

func titleWord(op operation) string {
	if op == opEdit {
		return "Edit"
	}
	return "Add"
}

func proposalBody(op operation, ev domain.Event, camp domain.Camp) string {
	return fmt.Sprintf(
		"Automated %s submission for %s.\n\n- Event: %s\n- Date: %s\n- Time: %s\n- Location: %s\n",
		op, camp.Name, ev.ID, ev.Date, ev.Start, ev.Location,
	)
}
