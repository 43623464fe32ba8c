package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/restyutil"
)

const goCollectBaseURL = "https://www.gocollect.com/api"

// GoCollectClient prices comics against GoCollect's sales aggregation.
// Unlike PriceCharting it reports explicit per-grade values, so no ladder
// spread is needed; the derived stats are still computed locally from the
// filtered price list rather than trusted from the payload.
type GoCollectClient struct {
	httpClient *resty.Client
	fallback   *Synthetic
	now        func() time.Time
}

// GoCollectOpts configures a GoCollectClient.
type GoCollectOpts struct {
	BaseURL string // override for tests
}

// NewGoCollectClient creates a client. fallback must not be nil.
func NewGoCollectClient(opts GoCollectOpts, fallback *Synthetic) *GoCollectClient {
	baseURL := goCollectBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &GoCollectClient{httpClient: c, fallback: fallback, now: time.Now}
}

var _ Source = (*GoCollectClient)(nil)

type goCollectSearchResponse struct {
	Results []struct {
		Prices struct {
			Mint     float64 `json:"mint"`
			NearMint float64 `json:"nearMint"`
			VeryFine float64 `json:"veryFine"`
			Fine     float64 `json:"fine"`
		} `json:"prices"`
	} `json:"results"`
}

// LookupPricing searches GoCollect for "{title} #{issueNumber}" and builds
// a record from the per-grade sales values. Zero results, transport
// failures and all-zero prices degrade to synthetic data.
func (c *GoCollectClient) LookupPricing(ctx context.Context, title, issueNumber string) *Record {
	record, err := c.lookup(ctx, title, issueNumber)
	if err != nil {
		log.Warn().Err(err).
			Str("title", title).
			Str("issue", issueNumber).
			Msg("gocollect lookup failed, using synthetic pricing")
		return c.fallback.Generate(title, issueNumber)
	}
	return record
}

func (c *GoCollectClient) lookup(ctx context.Context, title, issueNumber string) (*Record, error) {
	search := &goCollectSearchResponse{}
	_, err := restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(search).
		SetQueryParam("q", fmt.Sprintf("%s #%s", title, issueNumber)).
		Get("/search"))
	if err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, fmt.Errorf("no results matched %q #%s", title, issueNumber)
	}

	p := search.Results[0].Prices
	prices := []GradePrice{
		{Grade: "Gem Mint (9.8-10)", Price: p.Mint, Currency: "USD"},
		{Grade: "Near Mint (9.0-9.6)", Price: p.NearMint, Currency: "USD"},
		{Grade: "Very Fine (8.0-8.5)", Price: p.VeryFine, Currency: "USD"},
		{Grade: "Fine (6.0-7.5)", Price: p.Fine, Currency: "USD"},
	}

	record := fromPrices(title, issueNumber, prices, SourceGoCollect, c.now())
	if record == nil {
		return nil, fmt.Errorf("result for %q #%s has no positive prices", title, issueNumber)
	}
	return record, nil
}
