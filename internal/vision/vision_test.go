package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoverText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Recognition
	}{
		{
			name: "title and issue",
			text: "The Amazing Spider-Man #300 MAY",
			want: Recognition{Title: "The Amazing Spider-Man", IssueNumber: "300", Confidence: 0.85},
		},
		{
			name: "no issue number defaults to 1",
			text: "Saga",
			want: Recognition{Title: "Saga", IssueNumber: "1", Confidence: 0.85},
		},
		{
			name: "leading digits yield unknown title",
			text: "1988 Marvel #12",
			want: Recognition{Title: "Unknown", IssueNumber: "12", Confidence: 0.85},
		},
		{
			name: "empty text",
			text: "",
			want: Recognition{Title: "Unknown", IssueNumber: "1", Confidence: 0.85},
		},
		{
			name: "whitespace trimmed from title",
			text: "  Batman  #404",
			want: Recognition{Title: "Batman", IssueNumber: "404", Confidence: 0.85},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseCoverText(tc.text)
			assert.Equal(t, &tc.want, got)
		})
	}
}

func TestParseRecognition(t *testing.T) {
	rec, err := parseRecognition(`{"title": "Amazing Spider-Man", "issue_number": "300", "publisher": "Marvel", "confidence": 0.95}`)
	require.NoError(t, err)
	assert.Equal(t, &Recognition{
		Title:       "Amazing Spider-Man",
		IssueNumber: "300",
		Publisher:   "Marvel",
		Confidence:  0.95,
	}, rec)
}

func TestParseRecognitionStripsCodeFences(t *testing.T) {
	rec, err := parseRecognition("```json\n{\"title\": \"Saga\", \"issue_number\": \"1\", \"publisher\": \"\", \"confidence\": 0.8}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Saga", rec.Title)
}

func TestParseRecognitionDefaultsIssueNumber(t *testing.T) {
	rec, err := parseRecognition(`{"title": "Saga", "issue_number": "", "confidence": 0.5}`)
	require.NoError(t, err)
	assert.Equal(t, "1", rec.IssueNumber)
}

func TestParseRecognitionErrors(t *testing.T) {
	_, err := parseRecognition("not json at all")
	assert.Error(t, err)

	_, err = parseRecognition(`{"issue_number": "1"}`)
	assert.Error(t, err)
}

func TestRecognitionFromResponseJSON(t *testing.T) {
	rec := recognitionFromResponse(`{"title": "Saga", "issue_number": "7", "confidence": 0.9}`)
	assert.Equal(t, "Saga", rec.Title)
	assert.Equal(t, "7", rec.IssueNumber)
	assert.Equal(t, 0.9, rec.Confidence)
}

// A prose reply still yields a usable identification via text parsing.
func TestRecognitionFromResponseProseFallback(t *testing.T) {
	rec := recognitionFromResponse("The Amazing Spider-Man #300, published by Marvel")
	assert.Equal(t, "The Amazing Spider-Man", rec.Title)
	assert.Equal(t, "300", rec.IssueNumber)
	assert.Equal(t, 0.85, rec.Confidence)
}
