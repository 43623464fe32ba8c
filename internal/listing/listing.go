// Package listing renders marketplace-ready seller text for a comic.
// Generation is pure and deterministic: the same comic, grade and price
// always produce byte-identical output.
package listing

import (
	"fmt"
	"strings"

	"github.com/arilahde/comicscan-bot/internal/comics"
	"github.com/arilahde/comicscan-bot/internal/grading"
)

const (
	closingLine = "This is a great addition to any comic collection!"

	shippingBoilerplate = "Ships within 1-2 business days. Carefully packaged in protective materials."
	returnsBoilerplate  = "30-day money-back guarantee if not satisfied."
)

// maxKeyAppearances caps the bulleted key-appearance list in the
// description block.
const maxKeyAppearances = 5

// Generate renders the full seller listing for one comic. The output is
// plain UTF-8 text meant for copy-paste into marketplace listing forms;
// only the section headers are fixed structure.
func Generate(comic *comics.Comic, grade grading.Grade, price float64) string {
	var b strings.Builder

	b.WriteString("TITLE:\n")
	fmt.Fprintf(&b, "%s #%s - %s Comic Book\n\n", comic.Title, comic.IssueNumber, comic.Publisher)

	fmt.Fprintf(&b, "PRICE: $%.2f\n\n", price)

	fmt.Fprintf(&b, "CONDITION: %s\n\n", grade)

	b.WriteString("DESCRIPTION:\n")
	b.WriteString(description(comic, grade))
	b.WriteString("\n\n")

	b.WriteString("DETAILS:\n")
	fmt.Fprintf(&b, "• Title: %s\n", comic.Title)
	fmt.Fprintf(&b, "• Issue: #%s\n", comic.IssueNumber)
	fmt.Fprintf(&b, "• Publisher: %s\n", comic.Publisher)
	fmt.Fprintf(&b, "• Published: %s\n", comic.PublishDate)
	fmt.Fprintf(&b, "• Pages: %d\n", comic.PageCount)
	if len(comic.Writers) > 0 {
		fmt.Fprintf(&b, "• Writer(s): %s\n", strings.Join(comic.Writers, ", "))
	}
	if len(comic.Artists) > 0 {
		fmt.Fprintf(&b, "• Artist(s): %s\n", strings.Join(comic.Artists, ", "))
	}
	if len(comic.Colorists) > 0 {
		fmt.Fprintf(&b, "• Colorist(s): %s\n", strings.Join(comic.Colorists, ", "))
	}
	b.WriteString("\n")

	b.WriteString("KEYWORDS:\n")
	b.WriteString(keywords(comic))
	b.WriteString("\n\n")

	b.WriteString("SHIPPING:\n")
	b.WriteString(shippingBoilerplate)
	b.WriteString("\n\n")

	b.WriteString("RETURNS:\n")
	b.WriteString(returnsBoilerplate)

	return strings.TrimSpace(b.String())
}

// description builds the free-text description block. Creator lines are
// omitted entirely when the corresponding list is empty.
func description(comic *comics.Comic, grade grading.Grade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Issue #%s\n\n", comic.Title, comic.IssueNumber)
	fmt.Fprintf(&b, "Condition: %s\n", grade)
	fmt.Fprintf(&b, "Publisher: %s\n", comic.Publisher)
	fmt.Fprintf(&b, "Published: %s\n\n", comic.PublishDate)

	if comic.Description != "" {
		fmt.Fprintf(&b, "Synopsis:\n%s\n\n", comic.Description)
	}

	if len(comic.Writers) > 0 {
		fmt.Fprintf(&b, "Written by: %s\n", strings.Join(comic.Writers, ", "))
	}
	if len(comic.Artists) > 0 {
		fmt.Fprintf(&b, "Illustrated by: %s\n", strings.Join(comic.Artists, ", "))
	}

	if len(comic.FirstAppearances) > 0 {
		b.WriteString("\nKey Appearances:\n")
		appearances := comic.FirstAppearances
		if len(appearances) > maxKeyAppearances {
			appearances = appearances[:maxKeyAppearances]
		}
		for _, name := range appearances {
			fmt.Fprintf(&b, "• %s\n", name)
		}
	}

	b.WriteString("\n")
	b.WriteString(closingLine)

	return strings.TrimSpace(b.String())
}

// keywords builds the comma-joined keyword list. Order is fixed and
// duplicates are kept as-is.
func keywords(comic *comics.Comic) string {
	kw := []string{
		comic.Title,
		fmt.Sprintf("%s #%s", comic.Title, comic.IssueNumber),
		comic.Publisher,
		"comic book",
		"comic",
		"collectible",
	}
	kw = append(kw, comic.Writers...)
	kw = append(kw, comic.Artists...)
	return strings.Join(kw, ", ")
}

// GenerateBulk applies Generate element-wise over three parallel slices.
// The slices must have equal lengths; a mismatch is rejected outright
// rather than producing partial output.
func GenerateBulk(items []*comics.Comic, grades []grading.Grade, prices []float64) ([]string, error) {
	if len(items) != len(grades) || len(items) != len(prices) {
		return nil, fmt.Errorf("mismatched input lengths: %d comics, %d grades, %d prices",
			len(items), len(grades), len(prices))
	}
	out := make([]string, len(items))
	for i, comic := range items {
		out[i] = Generate(comic, grades[i], prices[i])
	}
	return out, nil
}
