package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
)

// Client is a typed client for the marketplace backend REST API
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *HTTPClient
}

// NewClient creates a backend API client on top of the given HTTP client
func NewClient(baseURL string, httpClient *HTTPClient) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  "Mozilla/5.0 Marketplace-Proxy",
		httpClient: httpClient,
	}
}

// SetUserAgent overrides the User-Agent sent with every request
func (c *Client) SetUserAgent(userAgent string) {
	if userAgent != "" {
		c.userAgent = userAgent
	}
}

// fetch executes the built request and returns the raw response body
func (c *Client) fetch(ctx context.Context, rb *RequestBuilder) ([]byte, error) {
	req, err := rb.WithUserAgent(c.userAgent).Build(ctx)
	if err != nil {
		return nil, err
	}

	body, duration, err := c.httpClient.Execute(req)
	if err != nil {
		return nil, err
	}

	log.Printf("Backend: %s completed in %.2fs", req.URL.Path, duration.Seconds())
	return body, nil
}

func decodeEnvelope[T any](body []byte) (*Response[T], error) {
	var envelope Response[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &envelope, nil
}

func decodePage[T any](body []byte) (*PaginatedResponse[T], error) {
	var envelope PaginatedResponse[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &envelope, nil
}

// GetNFTs fetches one page of the NFT listing
func (c *Client) GetNFTs(ctx context.Context, params ListingParams) (*PaginatedResponse[NFT], error) {
	body, err := c.fetch(ctx, NewListingRequestBuilder(c.baseURL, params))
	if err != nil {
		return nil, err
	}
	return decodePage[NFT](body)
}

// GetNFTDetail fetches a single NFT by token id
func (c *Client) GetNFTDetail(ctx context.Context, tokenID int64) (*Response[NFT], error) {
	path := fmt.Sprintf("%s%d/", NFTsAPIPath, tokenID)
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, path))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[NFT](body)
}

// SearchNFTs performs a free-text NFT search
func (c *Client) SearchNFTs(ctx context.Context, query string) (*Response[[]NFT], error) {
	rb := NewRequestBuilder(c.baseURL, NFTSearchAPIPath).With("q", query)
	body, err := c.fetch(ctx, rb)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]NFT](body)
}

// GetCollections fetches all collections
func (c *Client) GetCollections(ctx context.Context) (*Response[[]Collection], error) {
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, CollectionsAPIPath))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]Collection](body)
}

// GetTrendingCollections fetches the backend's trending collection ranking
func (c *Client) GetTrendingCollections(ctx context.Context) (*Response[[]Collection], error) {
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, TrendingAPIPath))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]Collection](body)
}

// GetCollectionsByLikes fetches collections ordered by like count
func (c *Client) GetCollectionsByLikes(ctx context.Context) (*Response[[]Collection], error) {
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, ByLikesAPIPath))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]Collection](body)
}

// GetUserProfile fetches a user profile by wallet address
func (c *Client) GetUserProfile(ctx context.Context, walletAddress string) (*Response[UserProfile], error) {
	path := UsersAPIPath + url.PathEscape(walletAddress) + "/"
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, path))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[UserProfile](body)
}

// GetUserNFTs fetches the NFTs owned by a wallet address
func (c *Client) GetUserNFTs(ctx context.Context, walletAddress string) (*Response[[]NFT], error) {
	path := UsersAPIPath + url.PathEscape(walletAddress) + "/nfts/"
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, path))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]NFT](body)
}

// GetContractInfo fetches metadata for the indexed marketplace contract
func (c *Client) GetContractInfo(ctx context.Context) (*Response[ContractInfo], error) {
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, ContractInfoAPIPath))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[ContractInfo](body)
}

// GetActivities fetches one page of indexed activity events
func (c *Client) GetActivities(ctx context.Context, params ActivityParams) (*PaginatedResponse[Activity], error) {
	body, err := c.fetch(ctx, NewActivitiesRequestBuilder(c.baseURL, params))
	if err != nil {
		return nil, err
	}
	return decodePage[Activity](body)
}

// GetActivityStats fetches activity counts over the fixed time windows
func (c *Client) GetActivityStats(ctx context.Context) (*Response[ActivityStats], error) {
	body, err := c.fetch(ctx, NewRequestBuilder(c.baseURL, ActivityStatsAPIPath))
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[ActivityStats](body)
}
