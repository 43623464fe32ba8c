// Package metron is a thin client for the Metron comic metadata service.
package metron

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/comics"
	"github.com/arilahde/comicscan-bot/internal/restyutil"
)

const apiBaseURL = "https://metron.cloud/api"

// NotFoundError means a search returned zero results. Callers should offer
// a manual-search fallback instead of treating it as a transport failure.
type NotFoundError struct {
	Title       string
	IssueNumber string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("comic not found: %q #%s", e.Title, e.IssueNumber)
}

// ClientOpts configures a Client.
type ClientOpts struct {
	BaseURL string // override for tests
	Auth    string // basic auth header value, optional
}

// Client queries Metron for issue metadata.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a metadata client.
func NewClient(opts ClientOpts) *Client {
	baseURL := apiBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if opts.Auth != "" {
		c.SetHeader("Authorization", opts.Auth)
	}
	return &Client{httpClient: c}
}

type issueList struct {
	Results []issueSummary `json:"results"`
}

type issueSummary struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
	Series struct {
		Name      string `json:"name"`
		Publisher struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"series"`
	CoverDate string `json:"cover_date"`
}

type issueDetail struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
	Series struct {
		Name      string `json:"name"`
		VolumeSet []struct {
			Name string `json:"name"`
		} `json:"volume_set"`
		Publisher struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"series"`
	CoverDate string `json:"cover_date"`
	Credits   []struct {
		Role struct {
			Name string `json:"name"`
		} `json:"role"`
		Creator struct {
			Name string `json:"name"`
		} `json:"creator"`
	} `json:"credits"`
	Description string `json:"description"`
	PageCount   int    `json:"page_count"`
	Characters  []struct {
		Name string `json:"name"`
	} `json:"characters"`
	StoryArcs []struct {
		Name string `json:"name"`
	} `json:"story_arcs"`
	VariantSet []struct {
		Name string `json:"name"`
	} `json:"variant_set"`
	Reprints []struct {
		Issue string `json:"issue"`
	} `json:"reprints"`
	Cover struct {
		Image struct {
			OriginalURL string `json:"original_url"`
		} `json:"image"`
	} `json:"cover"`
}

// LookupComic searches for an issue by title and issue number and returns
// the full metadata record for the first match. Disambiguation is the
// caller's job via SearchComics; this takes a first-match policy.
func (c *Client) LookupComic(ctx context.Context, title, issueNumber string) (*comics.Comic, error) {
	if title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}

	list := &issueList{}
	_, err := restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(list).
		SetQueryParams(map[string]string{
			"name":   title,
			"number": issueNumber,
		}).
		Get("/issue/"))
	if err != nil {
		return nil, fmt.Errorf("issue search failed: %w", err)
	}
	if len(list.Results) == 0 {
		return nil, &NotFoundError{Title: title, IssueNumber: issueNumber}
	}

	detail, err := c.getIssue(ctx, list.Results[0].ID)
	if err != nil {
		return nil, err
	}
	return mapDetail(detail), nil
}

func (c *Client) getIssue(ctx context.Context, id int) (*issueDetail, error) {
	detail := &issueDetail{}
	_, err := restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(detail).
		SetPathParam("id", strconv.Itoa(id)).
		Get("/issue/{id}/"))
	if err != nil {
		return nil, fmt.Errorf("issue detail fetch failed: %w", err)
	}
	return detail, nil
}

// mapDetail converts the Metron wire shape to a Comic, grouping the flat
// credit list into per-role creator lists and filling documented defaults
// for absent fields.
func mapDetail(d *issueDetail) *comics.Comic {
	credits := make([]comics.Credit, len(d.Credits))
	for i, cr := range d.Credits {
		credits[i] = comics.Credit{Creator: cr.Creator.Name, Role: comics.Role(cr.Role.Name)}
	}
	grouped := comics.GroupCredits(credits)

	comic := &comics.Comic{
		ID:           strconv.Itoa(d.ID),
		Title:        d.Series.Name,
		IssueNumber:  d.Number,
		Volume:       "Unknown",
		Publisher:    "Unknown",
		PublishDate:  "Unknown",
		Writers:      grouped.Writers,
		Artists:      grouped.Artists,
		Colorists:    grouped.Colorists,
		Letterers:    grouped.Letterers,
		CoverArtists: grouped.CoverArtists,
		Editors:      grouped.Editors,
		Description:  "No description available",
		PageCount:    d.PageCount,
		CoverImage:   d.Cover.Image.OriginalURL,
	}
	if len(d.Series.VolumeSet) > 0 && d.Series.VolumeSet[0].Name != "" {
		comic.Volume = d.Series.VolumeSet[0].Name
	}
	if d.Series.Publisher.Name != "" {
		comic.Publisher = d.Series.Publisher.Name
	}
	if d.CoverDate != "" {
		comic.PublishDate = d.CoverDate
	}
	if d.Description != "" {
		comic.Description = d.Description
	}
	if d.PageCount < 0 {
		comic.PageCount = 0
	}
	for _, ch := range d.Characters {
		comic.FirstAppearances = append(comic.FirstAppearances, ch.Name)
	}
	for _, arc := range d.StoryArcs {
		comic.KeyEvents = append(comic.KeyEvents, arc.Name)
	}
	for _, v := range d.VariantSet {
		comic.Variants = append(comic.Variants, v.Name)
	}
	return comic
}

// IssueSummary is a lightweight search hit for UI disambiguation.
type IssueSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	IssueNumber string `json:"issueNumber"`
	Publisher   string `json:"publisher"`
	CoverDate   string `json:"coverDate"`
}

// SearchComics returns all issues matching the query, unfiltered.
func (c *Client) SearchComics(ctx context.Context, query string) ([]IssueSummary, error) {
	list := &issueList{}
	_, err := restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(list).
		SetQueryParam("name", query).
		Get("/issue/"))
	if err != nil {
		return nil, fmt.Errorf("issue search failed: %w", err)
	}

	out := make([]IssueSummary, len(list.Results))
	for i, r := range list.Results {
		out[i] = IssueSummary{
			ID:          r.ID,
			Title:       r.Series.Name,
			IssueNumber: r.Number,
			Publisher:   r.Series.Publisher.Name,
			CoverDate:   r.CoverDate,
		}
	}
	return out, nil
}

// FunFacts derives a short list of human-readable facts about an issue by
// template-filling from its detail record. Any failure yields an empty
// list instead of an error.
func (c *Client) FunFacts(ctx context.Context, comicID int) []string {
	detail, err := c.getIssue(ctx, comicID)
	if err != nil {
		log.Warn().Err(err).Int("comic_id", comicID).Msg("fun facts fetch failed")
		return []string{}
	}

	facts := []string{}

	if len(detail.StoryArcs) > 0 {
		names := make([]string, len(detail.StoryArcs))
		for i, arc := range detail.StoryArcs {
			names[i] = arc.Name
		}
		facts = append(facts, "Part of story arc: "+joinNames(names, len(names)))
	}

	if len(detail.Characters) > 0 {
		names := make([]string, len(detail.Characters))
		for i, ch := range detail.Characters {
			names[i] = ch.Name
		}
		facts = append(facts, "Features: "+joinNames(names, 3))
	}

	if n := len(detail.Reprints); n > 0 {
		facts = append(facts, fmt.Sprintf("This issue has been reprinted %d times", n))
	}

	if n := len(detail.VariantSet); n > 0 {
		facts = append(facts, fmt.Sprintf("%d variant covers exist for this issue", n))
	}

	facts = append(facts,
		fmt.Sprintf("Published: %s", detail.CoverDate),
		fmt.Sprintf("%d pages", detail.PageCount),
	)

	return facts
}

func joinNames(names []string, max int) string {
	if len(names) > max {
		names = names[:max]
	}
	return strings.Join(names, ", ")
}
