// Package slug derives stable identifiers for events.
package slug

import "strings"

const maxLength = 48

// The record corpus is Swedish; fold its extra letters onto their
// closest ASCII neighbours before slugging.
var localeLetters = strings.NewReplacer("å", "a", "ä", "a", "ö", "o")

// Slugify lowercases text, folds the Swedish letters to ASCII, collapses
// every run of other non [a-z0-9] characters to a single hyphen, strips
// leading/trailing hyphens and truncates to 48 characters. It never
// fails and is idempotent on its own output.
func Slugify(text string) string {
	s := localeLetters.Replace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	out := b.String()
	if len(out) > maxLength {
		out = strings.TrimRight(out[:maxLength], "-")
	}
	return out
}

// EventID derives the immutable event identifier from the submitted
// title, date and start time: slug(title)-date-start with the colon
// removed. Computed once, at submission time.
func EventID(title, date, start string) string {
	return Slugify(title) + "-" + date + "-" + strings.ReplaceAll(start, ":", "")
}
