package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nftgallery/marketplace-proxy/backendapi"
)

// MockAPIClient implements APIClient with configurable responses
type MockAPIClient struct {
	activitiesResp *backendapi.PaginatedResponse[backendapi.Activity]
	activitiesErr  error
	statsResp      *backendapi.Response[backendapi.ActivityStats]
	statsErr       error
	activityCalls  int
	lastParams     backendapi.ActivityParams
}

func (m *MockAPIClient) GetActivities(ctx context.Context, params backendapi.ActivityParams) (*backendapi.PaginatedResponse[backendapi.Activity], error) {
	m.activityCalls++
	m.lastParams = params
	return m.activitiesResp, m.activitiesErr
}

func (m *MockAPIClient) GetActivityStats(ctx context.Context) (*backendapi.Response[backendapi.ActivityStats], error) {
	return m.statsResp, m.statsErr
}

func TestGetActivities_PassesThroughOnSuccess(t *testing.T) {
	mock := &MockAPIClient{
		activitiesResp: &backendapi.PaginatedResponse[backendapi.Activity]{
			Response: backendapi.Response[[]backendapi.Activity]{
				Success: true,
				Data:    []backendapi.Activity{{ID: 1, Type: backendapi.ActivityMint}},
			},
			Pagination: backendapi.Pagination{Page: 1, TotalPages: 1, TotalItems: 1},
		},
	}
	service := NewService(mock)

	resp := service.GetActivities(context.Background(), backendapi.ActivityParams{Page: 1})

	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
}

func TestGetActivities_DegradedEnvelopeOnError(t *testing.T) {
	mock := &MockAPIClient{activitiesErr: errors.New("connection refused")}
	service := NewService(mock)

	resp := service.GetActivities(context.Background(), backendapi.ActivityParams{Page: 3})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Data)
	assert.Equal(t, backendapi.Pagination{Page: 1, TotalPages: 1}, resp.Pagination)
}

func TestGetActivityStats_ZeroedOnError(t *testing.T) {
	mock := &MockAPIClient{statsErr: errors.New("timeout")}
	service := NewService(mock)

	resp := service.GetActivityStats(context.Background())

	assert.False(t, resp.Success)
	assert.Equal(t, backendapi.ActivityStats{}, resp.Data)
}

func TestCountBuys_SumsPages(t *testing.T) {
	mock := &MockAPIClient{
		activitiesResp: &backendapi.PaginatedResponse[backendapi.Activity]{
			Response: backendapi.Response[[]backendapi.Activity]{
				Success: true,
				Data:    []backendapi.Activity{{ID: 1}, {ID: 2}},
			},
			Pagination: backendapi.Pagination{HasNext: false},
		},
	}
	service := NewService(mock)

	total := service.CountBuys(context.Background())

	assert.Equal(t, 2, total)
	assert.Equal(t, 1, mock.activityCalls)
	assert.Equal(t, backendapi.ActivityBuy, mock.lastParams.Type)
	assert.Equal(t, ActivityPageLimit, mock.lastParams.Limit)
}

func TestCountBuys_PageCapWithEndlessBackend(t *testing.T) {
	mock := &MockAPIClient{
		activitiesResp: &backendapi.PaginatedResponse[backendapi.Activity]{
			Response: backendapi.Response[[]backendapi.Activity]{
				Success: true,
				Data:    []backendapi.Activity{{ID: 1}},
			},
			Pagination: backendapi.Pagination{HasNext: true},
		},
	}
	service := NewService(mock)

	total := service.CountBuys(context.Background())

	assert.Equal(t, MaxActivityPages, total)
	assert.Equal(t, MaxActivityPages, mock.activityCalls)
}

func TestCountBuys_ErrorEndsLoop(t *testing.T) {
	mock := &MockAPIClient{activitiesErr: errors.New("backend down")}
	service := NewService(mock)

	// The degraded envelope reports no next page, so the loop stops after one call
	total := service.CountBuys(context.Background())

	assert.Equal(t, 0, total)
	assert.Equal(t, 1, mock.activityCalls)
}
