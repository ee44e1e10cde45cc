package fraud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/hispayment/internal/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAlert(id, customerID string) *Alert {
	return &Alert{
		ID:               id,
		CustomerID:       customerID,
		TransactionCount: 6,
		TimeWindow:       "2 minutes",
		CreatedAt:        epoch,
		BlockedUntil:     epoch.Add(2 * time.Minute),
	}
}

func TestWindowLabel(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{120 * time.Second, "2 minutes"},
		{time.Minute, "1 minute"},
		{90 * time.Second, "90 seconds"},
		{time.Second, "1 second"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
		{1500 * time.Millisecond, "2 seconds"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WindowLabel(tt.d), tt.d.String())
	}
}

func TestMemoryStore_AppendAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, newAlert("fa_1", "c1")))
	require.NoError(t, store.Append(ctx, newAlert("fa_2", "c2")))
	require.NoError(t, store.Append(ctx, newAlert("fa_3", "c1")))

	list, err := store.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fa_1", list[0].ID)
	assert.Equal(t, "fa_3", list[1].ID)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, newAlert("fa_1", "c1")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	list, err := reopened.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 6, list[0].TransactionCount)
	assert.True(t, epoch.Add(2*time.Minute).Equal(list[0].BlockedUntil))
}

func TestHandler_ListAlerts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	customers := customer.NewMemoryStore()
	require.NoError(t, customers.Create(ctx, &customer.Customer{ID: "c1"}))
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, newAlert("fa_1", "c1")))

	r := gin.New()
	NewHandler(store, customers).RegisterRoutes(r.Group("/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/customers/c1/fraud-alerts", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Alerts []Alert `json:"alerts"`
		Count  int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "2 minutes", resp.Alerts[0].TimeWindow)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/customers/ghost/fraud-alerts", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
