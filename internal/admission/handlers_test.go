package admission

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, customerIDs ...string) (*gin.Engine, *harness) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := newHarness(t, customerIDs...)
	r := gin.New()
	handler := NewHandler(h.pipeline)
	handler.RegisterRoutes(r.Group("/v1"))
	handler.RegisterRoutes(r)
	return r, h
}

func post(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandler_Admitted(t *testing.T) {
	r, _ := setupTestRouter(t, "c1")

	w, resp := post(r, "/v1/transactions", `{"customerId":"c1","amount":100,"currency":"USD"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, resp["transactionId"], "txn_")

	// Unversioned path serves the same pipeline; string amounts are accepted.
	w, _ = post(r, "/transactions", `{"customerId":"c1","amount":"42.50","currency":"USD"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHandler_MissingFields(t *testing.T) {
	r, _ := setupTestRouter(t, "c1")

	for _, body := range []string{
		`{"amount":10,"currency":"USD"}`,
		`{"customerId":"c1","currency":"USD"}`,
		`{"customerId":"c1","amount":0,"currency":"USD"}`,
		`{"customerId":"c1","amount":10}`,
	} {
		w, resp := post(r, "/v1/transactions", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Missing required fields", resp["message"], body)
	}
}

func TestHandler_InvalidBody(t *testing.T) {
	r, _ := setupTestRouter(t, "c1")

	w, resp := post(r, "/v1/transactions", `{"customerId":"c1","amount":"ten","currency":"USD"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", resp["error"])
}

func TestHandler_NegativeAmount(t *testing.T) {
	r, _ := setupTestRouter(t, "c1")

	w, resp := post(r, "/v1/transactions", `{"customerId":"c1","amount":-5,"currency":"USD"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", resp["error"])
}

func TestHandler_UnknownCustomer(t *testing.T) {
	r, _ := setupTestRouter(t)

	w, resp := post(r, "/v1/transactions", `{"customerId":"ghost","amount":10,"currency":"USD"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer_not_found", resp["error"])
}

func TestHandler_Duplicate(t *testing.T) {
	r, _ := setupTestRouter(t, "c2")
	body := `{"customerId":"c2","amount":50,"currency":"EUR"}`

	w, _ := post(r, "/v1/transactions", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := post(r, "/v1/transactions", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_transaction", resp["error"])
}

func TestHandler_Blocked(t *testing.T) {
	r, h := setupTestRouter(t, "c3")
	h.block(t, "c3", epoch.Add(45*time.Second))

	w, resp := post(r, "/v1/transactions", `{"customerId":"c3","amount":5,"currency":"USD"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "account_blocked", resp["error"])
	assert.Equal(t, float64(45), resp["remainingSeconds"])
	assert.Equal(t, "2026-03-01T12:00:45Z", resp["blockedUntil"])
	assert.Contains(t, resp["message"], "45 seconds")
}

func TestHandler_RateLimited(t *testing.T) {
	r, h := setupTestRouter(t, "c1")
	for i := 0; i < 5; i++ {
		h.seed(t, "c1", epoch.Add(-time.Duration(i+1)*time.Second))
	}

	w, resp := post(r, "/v1/transactions", `{"customerId":"c1","amount":5,"currency":"USD"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", resp["error"])
	assert.Equal(t, true, resp["fraudAlertRecorded"])
	assert.Equal(t, "2026-03-01T12:02:00Z", resp["blockedUntil"])
}
