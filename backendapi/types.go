package backendapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Price is a numeric field that may arrive as a JSON number, a decimal-encoded
// string, or null. Unparseable values are kept (Set, not Valid) rather than
// failing the whole record.
type Price struct {
	Set   bool
	Valid bool
	Value float64
	raw   string
}

// NewPrice returns a valid, set price with the given value
func NewPrice(v float64) Price {
	return Price{Set: true, Valid: !math.IsNaN(v) && !math.IsInf(v, 0), Value: v}
}

// Float normalizes the price for comparisons: an absent price is 0,
// a parseable price is its value, and an unparseable price reports ok=false
func (p Price) Float() (float64, bool) {
	if !p.Set {
		return 0, true
	}
	if !p.Valid {
		return 0, false
	}
	return p.Value, true
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	p.Set = true

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		p.Value = num
		p.Valid = !math.IsNaN(num) && !math.IsInf(num, 0)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	p.raw = str

	parsed, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		p.Valid = false
		return nil
	}
	p.Value = parsed
	p.Valid = true
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	if !p.Valid {
		return json.Marshal(p.raw)
	}
	return json.Marshal(p.Value)
}

// CollectionInfo is the embedded-object form of an NFT's collection field
type CollectionInfo struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// CollectionRef is an NFT's collection reference, which the backend serializes
// either as a plain name string or as an embedded collection object.
type CollectionRef struct {
	Set    bool
	Name   string
	Object *CollectionInfo
}

// ResolveName returns the collection name regardless of the wire shape.
// Both the trending ranker and the filter engine go through this resolver.
func (c CollectionRef) ResolveName() string {
	if c.Object != nil {
		return c.Object.Name
	}
	return c.Name
}

func (c *CollectionRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = CollectionRef{}
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CollectionRef{Set: true, Name: name}
		return nil
	}

	var info CollectionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return err
	}
	*c = CollectionRef{Set: true, Object: &info}
	return nil
}

func (c CollectionRef) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	if c.Object != nil {
		return json.Marshal(c.Object)
	}
	return json.Marshal(c.Name)
}

// NFT is a marketplace token record as served by the backend
type NFT struct {
	ID             int64         `json:"id"`
	TokenID        int64         `json:"token_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	ImageURL       string        `json:"image_url"`
	Price          Price         `json:"price"`
	IsListed       bool          `json:"is_listed"`
	IsAuction      bool          `json:"is_auction"`
	AuctionEndTime *time.Time    `json:"auction_end_time"`
	CurrentBid     Price         `json:"current_bid"`
	HighestBidder  string        `json:"highest_bidder,omitempty"`
	OwnerAddress   string        `json:"owner_address"`
	CreatorAddress string        `json:"creator_address"`
	Collection     CollectionRef `json:"collection"`
	Category       string        `json:"category,omitempty"`
	Blockchain     string        `json:"blockchain,omitempty"`
	Status         string        `json:"status,omitempty"`
	CreatedAt      *time.Time    `json:"created_at"`
}

// Collection is a backend collection record, as returned by the
// /collections/ endpoints
type Collection struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	CreatorAddress string     `json:"creator_address"`
	ImageURL       string     `json:"image_url,omitempty"`
	BannerURL      string     `json:"banner_url,omitempty"`
	FloorPrice     Price      `json:"floor_price"`
	TotalVolume    float64    `json:"total_volume"`
	TotalItems     int        `json:"total_items"`
	TotalLikes     int        `json:"total_likes,omitempty"`
	CreatedAt      *time.Time `json:"created_at"`
}

// ActivityParty identifies one side of an activity event
type ActivityParty struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// ActivityNFT is the embedded token summary on an activity record
type ActivityNFT struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	Collection string `json:"collection,omitempty"`
	TokenID    int64  `json:"token_id"`
}

// Activity types used by the backend
const (
	ActivityMint     = "mint"
	ActivityList     = "list"
	ActivityBuy      = "buy"
	ActivityBid      = "bid"
	ActivityTransfer = "transfer"
	ActivityDelist   = "delist"
)

// Activity is an on-chain event indexed by the backend
type Activity struct {
	ID              int64         `json:"id"`
	Type            string        `json:"type"`
	NFT             ActivityNFT   `json:"nft"`
	From            ActivityParty `json:"from"`
	To              ActivityParty `json:"to"`
	Price           Price         `json:"price"`
	Timestamp       time.Time     `json:"timestamp"`
	TimeAgo         string        `json:"time_ago,omitempty"`
	TransactionHash string        `json:"transaction_hash,omitempty"`
	BlockNumber     int64         `json:"block_number,omitempty"`
}

// WindowStats holds per-type activity counts for one time window
type WindowStats struct {
	Total     int `json:"total"`
	Sales     int `json:"sales"`
	Listings  int `json:"listings"`
	Mints     int `json:"mints"`
	Transfers int `json:"transfers"`
	Offers    int `json:"offers"`
}

// ActivityStats aggregates activity counts over the three fixed windows
type ActivityStats struct {
	Last24h WindowStats `json:"last_24h"`
	Last7d  WindowStats `json:"last_7d"`
	Last30d WindowStats `json:"last_30d"`
}

// UserProfile is a backend user record
type UserProfile struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	WalletAddress  string     `json:"wallet_address"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Website        string     `json:"website,omitempty"`
	TotalCreated   int        `json:"total_created"`
	TotalCollected int        `json:"total_collected"`
	TotalVolume    float64    `json:"total_volume"`
	CreatedAt      *time.Time `json:"created_at"`
}

// ContractInfo describes the marketplace contract the backend indexes
type ContractInfo struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
	Network string `json:"network"`
}

// Response is the {success, data, error?} envelope used by every backend call
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes the page window of a paginated response
type Pagination struct {
	Page        int  `json:"page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// PaginatedResponse is the envelope plus pagination metadata
type PaginatedResponse[T any] struct {
	Response[[]T]
	Pagination Pagination `json:"pagination"`
}

// EmptyPage returns the structurally valid empty paginated envelope that the
// aggregators serve when an upstream call fails
func EmptyPage[T any]() *PaginatedResponse[T] {
	return &PaginatedResponse[T]{
		Response: Response[[]T]{Success: false, Data: []T{}},
		Pagination: Pagination{
			Page:       1,
			TotalPages: 1,
		},
	}
}
