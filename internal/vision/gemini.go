package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

const coverPrompt = `Identify the comic book on this cover photo.

Respond in JSON format with these fields:
- title: The series title as printed on the cover, without the issue number
- issue_number: The issue number as a string (e.g. "300", "1A"). Use "1" if not visible.
- publisher: The publisher name if identifiable (empty string if unknown)
- confidence: Your confidence in the identification from 0.0 to 1.0

Example response:
{"title": "Amazing Spider-Man", "issue_number": "300", "publisher": "Marvel", "confidence": 0.95}

Respond ONLY with the JSON object, no markdown or other text.`

// GeminiRecognizer identifies comic covers with the Gemini API.
type GeminiRecognizer struct {
	client *genai.Client
}

// NewGeminiRecognizer creates a recognizer. It uses the GEMINI_API_KEY
// environment variable for authentication.
func NewGeminiRecognizer(ctx context.Context) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiRecognizer{client: client}, nil
}

var _ Recognizer = (*GeminiRecognizer)(nil)

// RecognizeCover implements Recognizer using Gemini.
func (g *GeminiRecognizer) RecognizeCover(ctx context.Context, imageData []byte) (*Recognition, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(coverPrompt),
		{InlineData: &genai.Blob{Data: imageData, MIMEType: "image/jpeg"}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	rec := recognitionFromResponse(result.Text())

	log.Info().
		Str("title", rec.Title).
		Str("issue", rec.IssueNumber).
		Float64("confidence", rec.Confidence).
		Msg("cover recognized")

	return rec, nil
}

// recognitionFromResponse parses the model reply, preferring the JSON
// contract and falling back to plain-text pattern matching when the model
// answers in prose despite the prompt.
func recognitionFromResponse(text string) *Recognition {
	rec, err := parseRecognition(text)
	if err != nil {
		log.Warn().Err(err).Msg("recognition reply is not valid JSON, parsing as text")
		return ParseCoverText(text)
	}
	return rec
}

// parseRecognition parses the model's JSON reply, tolerating markdown
// code fences around the object.
func parseRecognition(text string) (*Recognition, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		Title       string  `json:"title"`
		IssueNumber string  `json:"issue_number"`
		Publisher   string  `json:"publisher"`
		Confidence  float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recognition response: %w", err)
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("recognition response has no title")
	}

	rec := &Recognition{
		Title:       raw.Title,
		IssueNumber: raw.IssueNumber,
		Publisher:   raw.Publisher,
		Confidence:  raw.Confidence,
	}
	if rec.IssueNumber == "" {
		rec.IssueNumber = "1"
	}
	return rec, nil
}
