package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/restyutil"
)

const priceChartingBaseURL = "https://api.pricecharting.com/api/v1"

// PriceChartingClient prices comics against the PriceCharting product
// database. PriceCharting exposes a single reference price per product;
// the grade ladder spreads it across conditions.
type PriceChartingClient struct {
	httpClient *resty.Client
	fallback   *Synthetic
	now        func() time.Time
}

// PriceChartingOpts configures a PriceChartingClient.
type PriceChartingOpts struct {
	BaseURL string // override for tests
	Token   string // API token, optional
}

// NewPriceChartingClient creates a client. fallback supplies synthetic
// pricing when the service has no match and must not be nil.
func NewPriceChartingClient(opts PriceChartingOpts, fallback *Synthetic) *PriceChartingClient {
	baseURL := priceChartingBaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if opts.Token != "" {
		c.SetQueryParam("t", opts.Token)
	}
	return &PriceChartingClient{httpClient: c, fallback: fallback, now: time.Now}
}

var _ Source = (*PriceChartingClient)(nil)

type productSearchResponse struct {
	Products []struct {
		ID          string `json:"id"`
		ProductName string `json:"product-name"`
	} `json:"products"`
}

type productPricesResponse struct {
	Prices struct {
		Loose struct {
			Value float64 `json:"value"`
		} `json:"loose"`
	} `json:"prices"`
}

// LookupPricing searches for "{title} #{issueNumber}" and maps the
// product's loose reference price through the grade ladder. Zero matches
// and transport or payload failures all degrade to synthetic data; the
// caller always gets a valid record.
func (c *PriceChartingClient) LookupPricing(ctx context.Context, title, issueNumber string) *Record {
	record, err := c.lookup(ctx, title, issueNumber)
	if err != nil {
		log.Warn().Err(err).
			Str("title", title).
			Str("issue", issueNumber).
			Msg("pricecharting lookup failed, using synthetic pricing")
		return c.fallback.Generate(title, issueNumber)
	}
	return record
}

func (c *PriceChartingClient) lookup(ctx context.Context, title, issueNumber string) (*Record, error) {
	search := &productSearchResponse{}
	_, err := restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(search).
		SetQueryParams(map[string]string{
			"q":    fmt.Sprintf("%s #%s", title, issueNumber),
			"type": "comic",
		}).
		Get("/products"))
	if err != nil {
		return nil, err
	}
	if len(search.Products) == 0 {
		return nil, fmt.Errorf("no products matched %q #%s", title, issueNumber)
	}

	prices := &productPricesResponse{}
	_, err = restyutil.HandleError(c.httpClient.R().
		SetContext(ctx).
		SetResult(prices).
		SetPathParam("id", search.Products[0].ID).
		Get("/products/{id}/prices"))
	if err != nil {
		return nil, err
	}

	record := fromBase(title, issueNumber, prices.Prices.Loose.Value, SourcePriceCharting, c.now())
	if record == nil {
		return nil, fmt.Errorf("product %s has no positive prices", search.Products[0].ID)
	}
	return record, nil
}
