// Package vision identifies a comic from a cover photo.
package vision

import (
	"context"
	"regexp"
	"strings"
)

// Recognition is the result of identifying a comic cover.
type Recognition struct {
	Title       string  `json:"title"`
	IssueNumber string  `json:"issueNumber"`
	Publisher   string  `json:"publisher,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Recognizer can identify a comic from cover image data.
type Recognizer interface {
	// RecognizeCover takes JPEG image data and returns the identified
	// title and issue number.
	RecognizeCover(ctx context.Context, imageData []byte) (*Recognition, error)
}

var (
	titleRe = regexp.MustCompile(`^([^#\d]+)`)
	issueRe = regexp.MustCompile(`#(\d+)`)
)

// ParseCoverText extracts a title and issue number from raw cover text
// with naive pattern matching: the title is the leading run before the
// first digit or '#', the issue number is the first "#<digits>" match.
// Used as a fallback when the vision model replies in prose instead of
// the JSON contract.
func ParseCoverText(text string) *Recognition {
	rec := &Recognition{Title: "Unknown", IssueNumber: "1", Confidence: 0.85}

	if m := titleRe.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			rec.Title = title
		}
	}
	if m := issueRe.FindStringSubmatch(text); m != nil {
		rec.IssueNumber = m[1]
	}
	return rec
}
