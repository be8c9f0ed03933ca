package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *StripeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStripeClient("sk_test_123", srv.URL)
}

func TestCreatePaymentIntentSucceeded(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"amount":   r.PostFormValue("amount"),
			"currency": r.PostFormValue("currency"),
			"customer": r.PostFormValue("customer"),
			"confirm":  r.PostFormValue("confirm"),
			"class_id": r.PostFormValue("metadata[class_id]"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","status":"succeeded","amount":2999}`))
	})

	intent, err := client.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		AmountCents:     2999,
		CustomerID:      "cus_1",
		PaymentMethodID: "pm_card_visa",
		Metadata:        map[string]string{"class_id": "cls-9"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, int64(2999), intent.Amount)
	assert.Equal(t, map[string]string{
		"amount":   "2999",
		"currency": "usd",
		"customer": "cus_1",
		"confirm":  "true",
		"class_id": "cls-9",
	}, gotForm)
}

func TestCreatePaymentIntentCardError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := client.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		AmountCents: 1000,
		CustomerID:  "cus_1",
	})
	assert.ErrorIs(t, err, ErrCardDeclined)
}

func TestCreatePaymentIntentNotSucceededIsDeclined(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","status":"requires_action","amount":1000}`))
	})

	_, err := client.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		AmountCents: 1000,
		CustomerID:  "cus_1",
	})
	assert.ErrorIs(t, err, ErrCardDeclined)
}

func TestServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreateCustomer(context.Background(), "a@example.com", "A")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening

	client := NewStripeClient("sk_test_123", srv.URL)
	_, err := client.CreateRefund(context.Background(), "pi_123")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateCustomer(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "jane@example.com", r.PostFormValue("email"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cus_42","email":"jane@example.com"}`))
	})

	customer, err := client.CreateCustomer(context.Background(), "jane@example.com", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "cus_42", customer.ID)
}

func TestCreateSubscription(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscriptions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "price_basic_monthly", r.PostFormValue("items[0][price]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sub_7","status":"active","current_period_start":1735689600,"current_period_end":1738368000}`))
	})

	sub, err := client.CreateSubscription(context.Background(), "cus_1", "price_basic_monthly", nil)
	require.NoError(t, err)
	assert.Equal(t, "sub_7", sub.ID)
	assert.Equal(t, int64(1735689600), sub.CurrentPeriodStart)
	assert.Equal(t, int64(1738368000), sub.CurrentPeriodEnd)
}

func TestCancelSubscription(t *testing.T) {
	t.Parallel()

	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sub_7","status":"canceled"}`))
	})

	require.NoError(t, client.CancelSubscription(context.Background(), "sub_7"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/subscriptions/sub_7", path)
}

func TestCreateAccountLink(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account_links", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "acct_1", r.PostFormValue("account"))
		assert.Equal(t, "account_onboarding", r.PostFormValue("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://connect.stripe.com/setup/s/abc"}`))
	})

	link, err := client.CreateAccountLink(context.Background(), "acct_1", "http://x/refresh", "http://x/return")
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/s/abc", link.URL)
}

func TestGetPlan(t *testing.T) {
	t.Parallel()

	plan, ok := GetPlan("premium")
	require.True(t, ok)
	assert.Equal(t, 10, plan.Credits)
	assert.Equal(t, int64(3499), plan.PriceCents)

	_, ok = GetPlan("gold")
	assert.False(t, ok)
}
