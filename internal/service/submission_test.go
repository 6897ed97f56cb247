package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagerschema/lagerschema/internal/domain"
	"github.com/lagerschema/lagerschema/internal/record"
	"github.com/lagerschema/lagerschema/internal/repository"
)

const (
	testRegistryPath = "data/camps.yml"
	testRecordPath   = "data/sommar-2026.yml"
	testBaseBranch   = "main"
)

var testNow = time.Date(2026, 6, 20, 9, 30, 0, 0, time.UTC)

func testCamp() domain.Camp {
	return domain.Camp{
		ID:              "sommar-2026",
		Name:            "Sommarlägret",
		Location:        "Ekudden",
		StartDate:       "2026-06-15",
		EndDate:         "2026-06-27",
		OpensForEditing: "2026-06-14",
		File:            testRecordPath,
	}
}

func testEvent() domain.Event {
	return domain.Event{
		ID:          "morgonsamling-2026-06-18-0900",
		Title:       "Morgonsamling",
		Date:        "2026-06-18",
		Start:       "09:00",
		End:         "09:30",
		Location:    "Stora ängen",
		Responsible: "Ledarna",
		Owner:       domain.EventOwner{Name: "Maja", Email: "maja@example.com"},
		Meta:        domain.EventMeta{CreatedAt: "2026-06-12T08:00", UpdatedAt: "2026-06-12T08:00"},
	}
}

func testRecordFile() record.File {
	header := testCamp()
	header.File = "" // the header block carries no file pointer
	return record.File{Camp: header, Events: []domain.Event{testEvent()}}
}

func testRegistryText() string {
	c := testCamp()
	return strings.Join([]string{
		"camps:",
		"  - id: " + c.ID,
		"    name: " + c.Name,
		"    location: " + c.Location,
		"    start_date: '" + c.StartDate + "'",
		"    end_date: '" + c.EndDate + "'",
		"    opens_for_editing: '" + c.OpensForEditing + "'",
		"    archived: false",
		"    file: " + c.File,
		"",
	}, "\n")
}

// fakeStore scripts the remote store and records every call, in order.
type fakeStore struct {
	files  map[string]repository.FileContent
	head   string
	failOn string

	calls     []string
	putBranch string
	putSHA    string
	putText   string
	branch    string
	branchSHA string
	prHead    string
	prBase    string
	prTitle   string
	automerge string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		files: map[string]repository.FileContent{
			testRegistryPath: {Text: testRegistryText(), SHA: "registry-sha"},
			testRecordPath:   {Text: record.Marshal(testRecordFile()), SHA: "record-sha"},
		},
		head: "head-sha",
	}
}

func (s *fakeStore) fail(method string) error {
	if s.failOn == method {
		return fmt.Errorf("scripted %s failure", method)
	}
	return nil
}

func (s *fakeStore) GetFile(_ context.Context, path, ref string) (repository.FileContent, error) {
	s.calls = append(s.calls, "GetFile "+path)
	if err := s.fail("GetFile"); err != nil {
		return repository.FileContent{}, err
	}
	fc, ok := s.files[path]
	if !ok {
		return repository.FileContent{}, fmt.Errorf("%w: %s@%s", repository.ErrFileNotFound, path, ref)
	}
	return fc, nil
}

func (s *fakeStore) PutFile(_ context.Context, path, branch, _, content, sha string) (string, error) {
	s.calls = append(s.calls, "PutFile "+path)
	if err := s.fail("PutFile"); err != nil {
		return "", err
	}
	s.putBranch = branch
	s.putSHA = sha
	s.putText = content
	return "commit-sha", nil
}

func (s *fakeStore) BranchHead(_ context.Context, branch string) (string, error) {
	s.calls = append(s.calls, "BranchHead "+branch)
	if err := s.fail("BranchHead"); err != nil {
		return "", err
	}
	return s.head, nil
}

func (s *fakeStore) CreateBranch(_ context.Context, name, sha string) error {
	s.calls = append(s.calls, "CreateBranch")
	if err := s.fail("CreateBranch"); err != nil {
		return err
	}
	s.branch = name
	s.branchSHA = sha
	return nil
}

func (s *fakeStore) CreatePullRequest(_ context.Context, head, base, title, _ string) (repository.PullRequest, error) {
	s.calls = append(s.calls, "CreatePullRequest")
	if err := s.fail("CreatePullRequest"); err != nil {
		return repository.PullRequest{}, err
	}
	s.prHead = head
	s.prBase = base
	s.prTitle = title
	return repository.PullRequest{Number: 7, NodeID: "PR_node7"}, nil
}

func (s *fakeStore) EnableAutoMerge(_ context.Context, nodeID string) error {
	s.calls = append(s.calls, "EnableAutoMerge")
	if err := s.fail("EnableAutoMerge"); err != nil {
		return err
	}
	s.automerge = nodeID
	return nil
}

// fakeView serves the synchronous checks without touching the store.
type fakeView struct {
	camp   domain.Camp
	events []domain.Event
	today  string
}

func newFakeView() *fakeView {
	return &fakeView{camp: testCamp(), events: []domain.Event{testEvent()}, today: "2026-06-20"}
}

func (v *fakeView) ActiveCamp(context.Context) (domain.Camp, error) { return v.camp, nil }

func (v *fakeView) FindEvent(_ context.Context, id string) (domain.Event, bool, error) {
	for _, e := range v.events {
		if e.ID == id {
			return e, true, nil
		}
	}
	return domain.Event{}, false, nil
}

func (v *fakeView) Today() string { return v.today }

type countingRunner struct {
	SyncRunner
	runs int
}

func (r *countingRunner) Run(name string, task func(ctx context.Context) error) {
	r.runs++
	r.SyncRunner.Run(name, task)
}

func newTestService(store *fakeStore, view *fakeView, runner TaskRunner) *SubmissionService {
	return NewSubmissionService(store, view, runner, Config{
		BaseBranch:   testBaseBranch,
		RegistryPath: testRegistryPath,
		Now:          func() time.Time { return testNow },
	})
}

func validNewEvent() NewEventInput {
	return NewEventInput{
		Title:       "Frukost",
		Date:        "2026-06-20",
		Start:       "08:00",
		End:         "09:00",
		Location:    "Matsalen",
		Responsible: "Köket",
		OwnerName:   "Anna",
		OwnerEmail:  "anna@example.com",
	}
}

func TestSubmitNewEventRunsPipelineInOrder(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	id, err := svc.SubmitNewEvent(context.Background(), validNewEvent())
	require.NoError(t, err)
	assert.Equal(t, "frukost-2026-06-20-0800", id)

	require.NoError(t, runner.Err)
	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, []string{
		"GetFile " + testRegistryPath,
		"GetFile " + testRecordPath,
		"BranchHead " + testBaseBranch,
		"CreateBranch",
		"PutFile " + testRecordPath,
		"CreatePullRequest",
		"EnableAutoMerge",
	}, store.calls)

	// The commit's precondition is the hash observed in step 2.
	assert.Equal(t, "record-sha", store.putSHA)
	assert.Equal(t, store.branch, store.putBranch)
	assert.Equal(t, "head-sha", store.branchSHA)
	assert.True(t, strings.HasPrefix(store.branch, "submit/add/2026-06-20-frukost-"), "branch %q", store.branch)
	assert.Equal(t, store.branch, store.prHead)
	assert.Equal(t, testBaseBranch, store.prBase)
	assert.Equal(t, "PR_node7", store.automerge)

	f, err := record.Parse(store.putText)
	require.NoError(t, err)
	require.Len(t, f.Events, 2)
	assert.Equal(t, "frukost-2026-06-20-0800", f.Events[1].ID)
	assert.Equal(t, "2026-06-20T09:30", f.Events[1].Meta.CreatedAt)
}

func TestSubmitNewEventValidationStopsBeforeAnyRemoteCall(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	in := validNewEvent()
	in.Start = "8:00" // not HH:MM

	_, err := svc.SubmitNewEvent(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Findings)
	assert.Empty(t, store.calls)
	assert.Zero(t, runner.runs)
}

func TestSubmitNewEventInjectionRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeView(), &SyncRunner{})

	in := validNewEvent()
	in.Description = "<script>alert(1)</script>"

	_, err := svc.SubmitNewEvent(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.calls)
}

func TestSubmitNewEventOutsideEditingWindow(t *testing.T) {
	store := newFakeStore()
	view := newFakeView()
	view.today = "2026-06-29" // two days past end
	runner := &countingRunner{}
	svc := newTestService(store, view, runner)

	_, err := svc.SubmitNewEvent(context.Background(), validNewEvent())

	assert.ErrorIs(t, err, ErrOutsideEditingPeriod)
	assert.Empty(t, store.calls)
	assert.Zero(t, runner.runs)
}

func TestSubmitNewEventDuplicateID(t *testing.T) {
	store := newFakeStore()
	view := newFakeView()
	svc := newTestService(store, view, &SyncRunner{})

	in := NewEventInput{
		Title: "Morgonsamling", Date: "2026-06-18", Start: "09:00", End: "09:30",
		Location: "Stora ängen", Responsible: "Ledarna",
		OwnerName: "Maja", OwnerEmail: "maja@example.com",
	}

	_, err := svc.SubmitNewEvent(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.calls)
}

func TestSubmitEditPatchesAndProposes(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	err := svc.SubmitEdit(context.Background(), "morgonsamling-2026-06-18-0900", EditEventInput{
		Title: "Morgonsamling med sång",
		End:   "09:45",
	})
	require.NoError(t, err)
	require.NoError(t, runner.Err)

	assert.True(t, strings.HasPrefix(store.branch, "submit/edit/2026-06-18-morgonsamling-med-sang-"), "branch %q", store.branch)
	assert.Contains(t, store.prTitle, "Morgonsamling med sång (2026-06-18)")

	f, err := record.Parse(store.putText)
	require.NoError(t, err)
	require.Len(t, f.Events, 1)
	e := f.Events[0]
	assert.Equal(t, "morgonsamling-2026-06-18-0900", e.ID)
	assert.Equal(t, "Morgonsamling med sång", e.Title)
	assert.Equal(t, "09:45", e.End)
	assert.Equal(t, "2026-06-12T08:00", e.Meta.CreatedAt)
	assert.Equal(t, "2026-06-20T09:30", e.Meta.UpdatedAt)
	assert.Equal(t, "Maja", e.Owner.Name)
}

func TestSubmitEditNamesProposalFromPatchedDate(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	err := svc.SubmitEdit(context.Background(), "morgonsamling-2026-06-18-0900", EditEventInput{
		Date: "2026-06-19",
		End:  "09:30",
	})
	require.NoError(t, err)
	require.NoError(t, runner.Err)

	assert.True(t, strings.HasPrefix(store.branch, "submit/edit/2026-06-19-morgonsamling-"), "branch %q", store.branch)
	assert.Contains(t, store.prTitle, "(2026-06-19)")
}

func TestSubmitEditUnknownEvent(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	err := svc.SubmitEdit(context.Background(), "finns-inte-2026-06-18-0900", EditEventInput{Title: "x", End: "10:00"})

	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, store.calls)
	assert.Zero(t, runner.runs)
}

func TestPipelineAbortsOnStepFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = "CreateBranch"
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	// Locally accepted: the caller still gets an id.
	id, err := svc.SubmitNewEvent(context.Background(), validNewEvent())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// The background run failed at step 4 and went no further.
	require.Error(t, runner.Err)
	assert.Equal(t, "CreateBranch", store.calls[len(store.calls)-1])
	assert.NotContains(t, store.calls, "PutFile "+testRecordPath)
	assert.NotContains(t, store.calls, "CreatePullRequest")
	assert.NotContains(t, store.calls, "EnableAutoMerge")
}

func TestPipelineRejectsAmbiguousRegistry(t *testing.T) {
	store := newFakeStore()
	duplicated := testRegistryText() + strings.Replace(testRegistryText(), "camps:\n", "", 1)
	store.files[testRegistryPath] = repository.FileContent{Text: duplicated, SHA: "registry-sha"}
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	_, err := svc.SubmitNewEvent(context.Background(), validNewEvent())
	require.NoError(t, err)

	require.Error(t, runner.Err)
	assert.ErrorIs(t, runner.Err, ErrAmbiguousCamp)
	// Pipeline stopped in step 1; the target file was never read.
	assert.Equal(t, []string{"GetFile " + testRegistryPath}, store.calls)
}

func TestPipelineValidatesBeforeWriting(t *testing.T) {
	store := newFakeStore()
	// Corrupt the stored file so the transformed result fails validation.
	broken := testRecordFile()
	broken.Events[0].End = "07:00" // before start
	store.files[testRecordPath] = repository.FileContent{Text: record.Marshal(broken), SHA: "record-sha"}
	runner := &countingRunner{}
	svc := newTestService(store, newFakeView(), runner)

	_, err := svc.SubmitNewEvent(context.Background(), validNewEvent())
	require.NoError(t, err)

	require.Error(t, runner.Err)
	assert.NotContains(t, store.calls, "CreateBranch")
	assert.NotContains(t, store.calls, "PutFile "+testRecordPath)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Findings: []string{"title: cannot be blank", "end: must be after start"}}

	assert.True(t, errors.As(error(err), new(*ValidationError)))
	assert.Contains(t, err.Error(), "title: cannot be blank")
}
