// Package grading holds the condition grade taxonomy and the condition
// estimator boundary. Grades follow the standard 13-point collector scale.
package grading

// Grade is an ordinal condition label from the fixed 13-point scale.
type Grade string

const (
	GemMint       Grade = "Gem Mint (9.8-10)"
	NearMintPlus  Grade = "Near Mint+ (9.6)"
	NearMint      Grade = "Near Mint (9.0-9.2)"
	VeryFinePlus  Grade = "Very Fine+ (8.5)"
	VeryFine      Grade = "Very Fine (8.0)"
	FinePlus      Grade = "Fine+ (7.5)"
	Fine          Grade = "Fine (6.0-7.0)"
	VeryGoodPlus  Grade = "Very Good+ (5.5)"
	VeryGood      Grade = "Very Good (4.0-5.0)"
	GoodPlus      Grade = "Good+ (3.5)"
	Good          Grade = "Good (2.0-3.0)"
	Fair          Grade = "Fair (1.5)"
	Poor          Grade = "Poor (0.5-1.0)"
)

// DefaultGrade is what estimation degrades to when analysis fails.
const DefaultGrade = VeryGood

// Fallback values returned for grades outside the scale.
const (
	UnknownColor       = "#999999"
	UnknownDescription = "Unknown condition"
)

// GradeInfo is one row of the grade table.
type GradeInfo struct {
	Grade       Grade
	Score       float64
	Color       string
	Description string
}

// Scale is the full grade table ordered best to worst. It is the single
// source of truth for scores, display colors and descriptions.
var Scale = []GradeInfo{
	{GemMint, 9.9, "#FFD700", "Perfect or near-perfect condition. Rarely seen."},
	{NearMintPlus, 9.6, "#FFC700", "Nearly perfect with only the slightest imperfections."},
	{NearMint, 9.1, "#FFB700", "Nearly perfect with minor wear."},
	{VeryFinePlus, 8.5, "#FFA700", "Very fine condition with minimal wear."},
	{VeryFine, 8.0, "#FF9700", "Fine condition with light wear."},
	{FinePlus, 7.5, "#FF8700", "Fine condition with some wear."},
	{Fine, 6.5, "#FF7700", "Fine condition with moderate wear."},
	{VeryGoodPlus, 5.5, "#FF6700", "Very good condition with noticeable wear."},
	{VeryGood, 4.5, "#FF5700", "Good condition with significant wear."},
	{GoodPlus, 3.5, "#FF4700", "Good condition with heavy wear."},
	{Good, 2.5, "#FF3700", "Fair condition with heavy wear."},
	{Fair, 1.5, "#FF2700", "Poor condition with very heavy wear."},
	{Poor, 0.75, "#FF0000", "Very poor condition, barely readable."},
}

func lookup(g Grade) (GradeInfo, bool) {
	for _, row := range Scale {
		if row.Grade == g {
			return row, true
		}
	}
	return GradeInfo{}, false
}

// Valid reports whether g is one of the 13 grades on the scale.
func Valid(g Grade) bool {
	_, ok := lookup(g)
	return ok
}

// ScoreFor returns the numeric score for a grade, or 0 for grades outside
// the scale.
func ScoreFor(g Grade) float64 {
	row, ok := lookup(g)
	if !ok {
		return 0
	}
	return row.Score
}

// ColorFor returns the display color for a grade.
func ColorFor(g Grade) string {
	row, ok := lookup(g)
	if !ok {
		return UnknownColor
	}
	return row.Color
}

// DescriptionFor returns the human description for a grade.
func DescriptionFor(g Grade) string {
	row, ok := lookup(g)
	if !ok {
		return UnknownDescription
	}
	return row.Description
}
