package backendapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// API paths on the marketplace backend
const (
	NFTsAPIPath          = "/api/nfts/"
	NFTSearchAPIPath     = "/api/nfts/search/"
	CollectionsAPIPath   = "/api/collections/"
	TrendingAPIPath      = "/api/collections/trending/"
	ByLikesAPIPath       = "/api/collections/by-likes/"
	UsersAPIPath         = "/api/users/"
	ContractInfoAPIPath  = "/api/contract/info/"
	ActivitiesAPIPath    = "/api/activities/"
	ActivityStatsAPIPath = "/api/activities/stats/"
)

// joinURL safely combines a base URL with a path
func joinURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder implements the builder pattern for backend API requests
type RequestBuilder struct {
	baseURL    string
	apiPath    string
	httpMethod string
	params     map[string]string
	headers    map[string]string
	userAgent  string
}

// NewRequestBuilder creates a request builder for the given backend path
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	rb := &RequestBuilder{
		baseURL:    baseURL,
		apiPath:    apiPath,
		httpMethod: http.MethodGet,
		params:     make(map[string]string),
		headers:    make(map[string]string),
		userAgent:  "Mozilla/5.0 Marketplace-Proxy",
	}

	rb.headers["Accept"] = "application/json"

	return rb
}

// With adds a query parameter
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// WithInt adds an integer query parameter
func (rb *RequestBuilder) WithInt(key string, value int) *RequestBuilder {
	rb.params[key] = strconv.Itoa(value)
	return rb
}

// WithPage adds the page parameter for pagination
func (rb *RequestBuilder) WithPage(page int) *RequestBuilder {
	return rb.WithInt("page", page)
}

// WithLimit adds the limit parameter for pagination
func (rb *RequestBuilder) WithLimit(limit int) *RequestBuilder {
	return rb.WithInt("limit", limit)
}

// WithUserAgent sets the User-Agent header
func (rb *RequestBuilder) WithUserAgent(userAgent string) *RequestBuilder {
	if userAgent != "" {
		rb.userAgent = userAgent
	}
	return rb
}

// WithHeader adds a custom HTTP header
func (rb *RequestBuilder) WithHeader(name, value string) *RequestBuilder {
	rb.headers[name] = value
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() string {
	fullPath := joinURL(rb.baseURL, rb.apiPath)

	query := url.Values{}
	for key, value := range rb.params {
		query.Add(key, value)
	}

	finalURL := fullPath
	if queryString := query.Encode(); queryString != "" {
		finalURL = fmt.Sprintf("%s?%s", finalURL, queryString)
	}

	return finalURL
}

// Build creates an http.Request bound to the given context
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, rb.httpMethod, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)
	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// ListingParams are the query options of the NFT listing endpoint
type ListingParams struct {
	Page       int
	Limit      int
	Category   string
	Collection string
	PriceMin   *float64
	PriceMax   *float64
	SortBy     string
	SortOrder  string
}

// NewListingRequestBuilder creates a builder for the NFT listing endpoint
func NewListingRequestBuilder(baseURL string, params ListingParams) *RequestBuilder {
	rb := NewRequestBuilder(baseURL, NFTsAPIPath)

	if params.Page > 0 {
		rb.WithPage(params.Page)
	}
	if params.Limit > 0 {
		rb.WithLimit(params.Limit)
	}
	if params.Category != "" {
		rb.With("category", params.Category)
	}
	if params.Collection != "" {
		rb.With("collection", params.Collection)
	}
	if params.PriceMin != nil {
		rb.With("price_min", strconv.FormatFloat(*params.PriceMin, 'f', -1, 64))
	}
	if params.PriceMax != nil {
		rb.With("price_max", strconv.FormatFloat(*params.PriceMax, 'f', -1, 64))
	}
	if params.SortBy != "" {
		rb.With("sort_by", params.SortBy)
	}
	if params.SortOrder != "" {
		rb.With("sort_order", params.SortOrder)
	}

	return rb
}

// ActivityParams are the query options of the activities endpoint.
// The literal value "all" for Type and TimeFilter is omitted from the query
// rather than sent literally.
type ActivityParams struct {
	Page       int
	Limit      int
	Type       string
	TimeFilter string
	Search     string
}

// NewActivitiesRequestBuilder creates a builder for the activities endpoint
func NewActivitiesRequestBuilder(baseURL string, params ActivityParams) *RequestBuilder {
	rb := NewRequestBuilder(baseURL, ActivitiesAPIPath)

	if params.Page > 0 {
		rb.WithPage(params.Page)
	}
	if params.Limit > 0 {
		rb.WithLimit(params.Limit)
	}
	if params.Type != "" && params.Type != "all" {
		rb.With("type", params.Type)
	}
	if params.TimeFilter != "" && params.TimeFilter != "all" {
		rb.With("time_filter", params.TimeFilter)
	}
	if params.Search != "" {
		rb.With("search", params.Search)
	}

	return rb
}
