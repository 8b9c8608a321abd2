package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"

	"github.com/andrewpaige1/flashcard-saas/config"
)

func newTestCheckout(t *testing.T, h http.HandlerFunc) *StripeCheckout {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})

	cfg := config.Checkout{
		StripeSecretKey: "sk_test_123",
		ProductName:     "Pro subscription",
		UnitAmount:      1000,
		Currency:        "usd",
		Interval:        "month",
	}
	return NewStripeCheckout(cfg, &stripe.Backends{API: backend})
}

func TestCreateSession(t *testing.T) {
	var form url.Values
	c := newTestCheckout(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cs_test_abc",
			"object": "checkout.session",
			"status": "open",
		})
	})

	id, err := c.CreateSession(context.Background(), "https://cards.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", id)

	assert.Equal(t, "subscription", form.Get("mode"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "1000", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "month", form.Get("line_items[0][price_data][recurring][interval]"))
	assert.Equal(t, "Pro subscription", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "https://cards.example.com/result?session_id={CHECKOUT_SESSION_ID}", form.Get("success_url"))
}

func TestGetSession(t *testing.T) {
	c := newTestCheckout(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_abc", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_abc",
			"object":         "checkout.session",
			"status":         "complete",
			"payment_status": "paid",
		})
	})

	s, err := c.GetSession(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	assert.Equal(t, &Session{ID: "cs_test_abc", Status: "complete", PaymentStatus: "paid"}, s)
}

func TestGetSession_NotFound(t *testing.T) {
	c := newTestCheckout(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	})

	_, err := c.GetSession(context.Background(), "cs_missing")
	assert.Error(t, err)
}
