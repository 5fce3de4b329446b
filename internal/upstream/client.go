// Package upstream is the client for the remote product API.
package upstream

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.lumistore.ru"

	requestTimeout = 30 * time.Second
	retryCount     = 2
	retryWait      = 1 * time.Second
)

// lightingCategories is the fixed set of category search keys affected by
// the upstream 500-on-brand-mismatch inconsistency.
var lightingCategories = map[string]bool{
	"Люстра":               true,
	"Подвесная люстра":     true,
	"Потолочная люстра":    true,
	"Люстра на штанге":     true,
	"Каскадная люстра":     true,
	"Светильник":           true,
	"Подвесной светильник": true,
	"Накладной светильник": true,
	"Бра":                  true,
	"Торшер":               true,
	"Настольная лампа":     true,
	"Спот":                 true,
}

// lightingBrands are the brand contexts for which lighting categories are
// legitimate. A 500 for a lighting category under any other brand context is
// the known upstream inconsistency and is treated as an empty result.
var lightingBrands = map[string]bool{
	"KinkLight":   true,
	"Maytoni":     true,
	"Odeon Light": true,
	"ST Luce":     true,
	"Favourite":   true,
	"Lumion":      true,
	"Arte Lamp":   true,
	"all":         true,
}

// Params are the filter parameters the upstream API understands.
type Params struct {
	SearchKey     string
	Aliases       []string
	Color         string
	Material      string
	MinPrice      float64
	MaxPrice      float64
	Search        string
	SortBy        string
	SortOrder     string
	InStock       *bool
	ExcludeBrands []string
}

type ClientOpts struct {
	BaseURL string
	// Timeout and RetryWait override the 30s/1s defaults; used by tests.
	Timeout   time.Duration
	RetryWait time.Duration
}

type Client struct {
	httpClient *resty.Client
	baseURL    string
}

func NewClient(opts ClientOpts) *Client {
	c := Client{baseURL: DefaultBaseURL}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	timeout := requestTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	wait := retryWait
	if opts.RetryWait > 0 {
		wait = opts.RetryWait
	}
	c.httpClient = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(wait).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": "lumistore-catalog/1.0",
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry timeouts only, and never once the caller has
			// cancelled.
			if r != nil && r.Request != nil && r.Request.Context().Err() != nil {
				return false
			}
			return err != nil && os.IsTimeout(err)
		})

	return &c
}

func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.httpClient.
		NewRequest().
		SetContext(ctx)
	if result != nil {
		request.SetResult(result)
	}
	return request
}

// FetchPage issues one paginated request to GET /products/{brand}.
func (c *Client) FetchPage(ctx context.Context, brand string, page, pageSize int, p Params) (PageResult, error) {
	result := &PageResult{}

	res, err := c.req(ctx, result).
		SetPathParam("brand", brand).
		SetQueryParamsFromValues(p.values(page, pageSize)).
		Get("/products/{brand}")
	if err != nil {
		return PageResult{}, classifyTransport(ctx, err)
	}
	if res.IsError() {
		if res.StatusCode() == 500 && isLightingMismatch(brand, p.SearchKey) {
			log.Warn().
				Str("brand", brand).
				Str("category", p.SearchKey).
				Msg("upstream 500 for lighting category under non-lighting brand, treating as empty result")
			return PageResult{TotalPages: 1}, nil
		}
		return PageResult{}, fmt.Errorf("%w: %s %s (status %d)",
			ErrUpstreamServer, res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return *result, nil
}

// isLightingMismatch reports whether a 500 matches the known upstream
// inconsistency: a lighting category requested under a brand context that
// carries no lighting products.
func isLightingMismatch(brand, searchKey string) bool {
	return lightingCategories[searchKey] && !lightingBrands[brand]
}

func (p Params) values(page, pageSize int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(pageSize))
	if p.SearchKey != "" {
		v.Set("name", p.SearchKey)
	}
	for _, a := range p.Aliases {
		v.Add("aliases", a)
	}
	if p.Color != "" {
		v.Set("color", p.Color)
	}
	if p.Material != "" {
		v.Set("material", p.Material)
	}
	if p.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", p.SortOrder)
	}
	if p.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*p.InStock))
	}
	for _, b := range p.ExcludeBrands {
		v.Add("excludeBrands", b)
	}
	return v
}
