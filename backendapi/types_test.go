package backendapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalNumber(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`2.5`), &p))

	assert.True(t, p.Set)
	assert.True(t, p.Valid)
	assert.Equal(t, 2.5, p.Value)

	v, ok := p.Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestPrice_UnmarshalDecimalString(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`"0.125"`), &p))

	assert.True(t, p.Set)
	assert.True(t, p.Valid)
	assert.Equal(t, 0.125, p.Value)
}

func TestPrice_UnmarshalNull(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`null`), &p))

	assert.False(t, p.Set)

	// Absent prices normalize to zero
	v, ok := p.Float()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestPrice_UnmarshalUnparseableString(t *testing.T) {
	var p Price
	require.NoError(t, json.Unmarshal([]byte(`"not-a-price"`), &p))

	assert.True(t, p.Set)
	assert.False(t, p.Valid)

	_, ok := p.Float()
	assert.False(t, ok)
}

func TestPrice_MarshalRoundTrip(t *testing.T) {
	cases := map[string]string{
		`2.5`:      `2.5`,
		`"bogus"`:  `"bogus"`,
		`null`:     `null`,
		`"0.5"`:    `0.5`, // parsed strings are re-encoded as numbers
	}

	for input, expected := range cases {
		var p Price
		require.NoError(t, json.Unmarshal([]byte(input), &p))

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, expected, string(out), "input %s", input)
	}
}

func TestCollectionRef_PlainString(t *testing.T) {
	var c CollectionRef
	require.NoError(t, json.Unmarshal([]byte(`"Cyber Apes"`), &c))

	assert.True(t, c.Set)
	assert.Equal(t, "Cyber Apes", c.ResolveName())
}

func TestCollectionRef_EmbeddedObject(t *testing.T) {
	var c CollectionRef
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "name": "Pixel Birds"}`), &c))

	assert.True(t, c.Set)
	require.NotNil(t, c.Object)
	assert.Equal(t, "Pixel Birds", c.ResolveName())
}

func TestCollectionRef_Null(t *testing.T) {
	var c CollectionRef
	require.NoError(t, json.Unmarshal([]byte(`null`), &c))

	assert.False(t, c.Set)
	assert.Equal(t, "", c.ResolveName())
}

func TestNFT_DecodeMixedShapes(t *testing.T) {
	payload := `{
		"id": 1,
		"token_id": 42,
		"name": "Ape #42",
		"image_url": "https://cdn.example/42.png",
		"price": "1.75",
		"is_listed": true,
		"is_auction": false,
		"auction_end_time": null,
		"current_bid": null,
		"owner_address": "0xabc",
		"creator_address": "0xdef",
		"collection": {"name": "Cyber Apes"},
		"category": "art",
		"created_at": "2024-05-01T10:00:00Z"
	}`

	var nft NFT
	require.NoError(t, json.Unmarshal([]byte(payload), &nft))

	assert.Equal(t, int64(42), nft.TokenID)
	assert.Equal(t, "Cyber Apes", nft.Collection.ResolveName())

	price, ok := nft.Price.Float()
	assert.True(t, ok)
	assert.Equal(t, 1.75, price)
	require.NotNil(t, nft.CreatedAt)
}

func TestPaginatedResponse_Decode(t *testing.T) {
	payload := `{
		"success": true,
		"data": [{"id": 1, "token_id": 1, "name": "A", "image_url": "", "price": 1,
			"owner_address": "0x1", "creator_address": "0x1", "collection": "C", "created_at": null,
			"auction_end_time": null, "current_bid": null}],
		"pagination": {"page": 2, "total_pages": 5, "total_items": 900, "has_next": true, "has_previous": true}
	}`

	var resp PaginatedResponse[NFT]
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.True(t, resp.Pagination.HasNext)
}

func TestEmptyPage_Shape(t *testing.T) {
	page := EmptyPage[Activity]()

	assert.False(t, page.Success)
	assert.Empty(t, page.Data)
	assert.Equal(t, Pagination{Page: 1, TotalPages: 1}, page.Pagination)
}
