package grading

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"
)

// Details breaks the condition assessment down by aspect.
type Details struct {
	CoverGloss        string `json:"coverGloss"`
	SpineCondition    string `json:"spineCondition"`
	CornerCondition   string `json:"cornerCondition"`
	PageQuality       string `json:"pageQuality"`
	BindingCondition  string `json:"bindingCondition"`
	OverallAppearance string `json:"overallAppearance"`
}

// Analysis is a full condition report for one cover image.
type Analysis struct {
	Grade           Grade    `json:"grade"`
	Score           float64  `json:"score"`
	Details         Details  `json:"details"`
	Recommendations []string `json:"recommendations"`
}

// Estimator assigns a condition grade to a comic from a cover image.
// Implementations must not fail: any internal error degrades to
// DefaultGrade instead of propagating.
type Estimator interface {
	// EstimateGrade returns a grade from the 13-point scale.
	EstimateGrade(ctx context.Context, image []byte) Grade
	// EstimateDetailed returns the grade plus per-aspect assessments and
	// care recommendations.
	EstimateDetailed(ctx context.Context, image []byte) Analysis
}

// StubEstimator picks a grade uniformly at random and returns a canned
// report. It stands in for a real image classifier until one exists; the
// interface contract is what a real implementation must satisfy.
type StubEstimator struct {
	rng *rand.Rand
}

// NewStubEstimator creates a stub estimator drawing from rng. The rng is
// injected so tests can pin the output.
func NewStubEstimator(rng *rand.Rand) *StubEstimator {
	return &StubEstimator{rng: rng}
}

var _ Estimator = (*StubEstimator)(nil)

func (e *StubEstimator) EstimateGrade(ctx context.Context, image []byte) Grade {
	return e.EstimateDetailed(ctx, image).Grade
}

func (e *StubEstimator) EstimateDetailed(ctx context.Context, image []byte) Analysis {
	if e.rng == nil {
		log.Warn().Msg("condition estimator has no random source, using default grade")
		return cannedAnalysis(DefaultGrade)
	}
	row := Scale[e.rng.Intn(len(Scale))]
	return cannedAnalysis(row.Grade)
}

func cannedAnalysis(g Grade) Analysis {
	return Analysis{
		Grade: g,
		Score: ScoreFor(g),
		Details: Details{
			CoverGloss:        "Bright and glossy with minimal wear",
			SpineCondition:    "Tight with minimal stress marks",
			CornerCondition:   "Sharp with minimal rounding",
			PageQuality:       "White pages with minimal aging",
			BindingCondition:  "Secure and tight",
			OverallAppearance: "Excellent condition with minimal defects",
		},
		Recommendations: []string{
			"Consider professional grading for high-value comics",
			"Store in acid-free bags and boards",
			"Keep away from direct sunlight",
			"Maintain stable temperature and humidity",
		},
	}
}
