// Package scanner runs the scan pipeline: identify a comic from a cover
// photo or a manual title/issue pair, then fetch metadata, market pricing
// and a condition estimate and merge them into one result.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/arilahde/comicscan-bot/internal/comics"
	"github.com/arilahde/comicscan-bot/internal/grading"
	"github.com/arilahde/comicscan-bot/internal/pricing"
	"github.com/arilahde/comicscan-bot/internal/vision"
)

// DefaultLookupTimeout bounds each external call in the pipeline.
const DefaultLookupTimeout = 10 * time.Second

// MetadataSource resolves a (title, issueNumber) pair to a full comic
// record.
type MetadataSource interface {
	LookupComic(ctx context.Context, title, issueNumber string) (*comics.Comic, error)
}

// Result merges the three lookups for one scanned comic.
type Result struct {
	Comic       *comics.Comic       `json:"comic"`
	Pricing     *pricing.Record     `json:"pricing"`
	Condition   grading.Analysis    `json:"condition"`
	Recognition *vision.Recognition `json:"recognition,omitempty"`
	ScannedAt   time.Time           `json:"scannedAt"`
}

// Scanner wires the recognizer, metadata source, pricing source and
// condition estimator into one pipeline.
type Scanner struct {
	recognizer vision.Recognizer
	metadata   MetadataSource
	prices     pricing.Source
	grader     grading.Estimator
	timeout    time.Duration
	now        func() time.Time
}

// New creates a Scanner. recognizer may be nil when only manual scans are
// used; the other three dependencies are required.
func New(recognizer vision.Recognizer, metadata MetadataSource, prices pricing.Source, grader grading.Estimator) *Scanner {
	return &Scanner{
		recognizer: recognizer,
		metadata:   metadata,
		prices:     prices,
		grader:     grader,
		timeout:    DefaultLookupTimeout,
		now:        time.Now,
	}
}

// SetTimeout overrides the per-call timeout bound.
func (s *Scanner) SetTimeout(d time.Duration) {
	s.timeout = d
}

// ScanImage identifies the comic on the cover photo and runs the lookup
// pipeline on the identification.
func (s *Scanner) ScanImage(ctx context.Context, image []byte) (*Result, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("no cover recognizer configured")
	}

	recCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.recognizer.RecognizeCover(recCtx, image)
	if err != nil {
		return nil, fmt.Errorf("cover recognition failed: %w", err)
	}

	result, err := s.ScanIssue(ctx, rec.Title, rec.IssueNumber, image)
	if err != nil {
		return nil, err
	}
	result.Recognition = rec
	return result, nil
}

// ScanIssue runs the metadata, pricing and condition lookups concurrently
// and joins the results. The three lookups have no data dependency on each
// other. A metadata failure aborts the scan so the caller can offer manual
// search; pricing and condition always produce a usable value.
func (s *Scanner) ScanIssue(ctx context.Context, title, issueNumber string, image []byte) (*Result, error) {
	result := &Result{ScannedAt: s.now()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lookupCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		comic, err := s.metadata.LookupComic(lookupCtx, title, issueNumber)
		if err != nil {
			return err
		}
		result.Comic = comic
		return nil
	})

	g.Go(func() error {
		lookupCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		result.Pricing = s.prices.LookupPricing(lookupCtx, title, issueNumber)
		return nil
	})

	g.Go(func() error {
		lookupCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		result.Condition = s.grader.EstimateDetailed(lookupCtx, image)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("title", result.Comic.Title).
		Str("issue", result.Comic.IssueNumber).
		Str("pricing_source", result.Pricing.Source).
		Str("grade", string(result.Condition.Grade)).
		Msg("scan complete")

	return result, nil
}
