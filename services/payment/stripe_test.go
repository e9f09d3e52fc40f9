package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type recordedRequest struct {
	path           string
	idempotencyKey string
	form           map[string]string
}

// fakeStripe points the stripe-go API backend at a local server for the
// duration of the test.
func fakeStripe(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *[]recordedRequest {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form := make(map[string]string)
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		mu.Lock()
		reqs = append(reqs, recordedRequest{path: r.URL.Path, idempotencyKey: r.Header.Get("Idempotency-Key"), form: form})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))

	prevKey := stripe.Key
	stripe.Key = "sk_test_123"
	stripe.SetBackend(stripe.APIBackend, stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
	}))
	t.Cleanup(func() {
		srv.Close()
		stripe.Key = prevKey
		stripe.SetBackend(stripe.APIBackend, nil)
	})
	return &reqs
}

func TestCaptureConfirmsPaymentIntent(t *testing.T) {
	reqs := fakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"succeeded"}`))
	})
	gw := NewStripeGateway(zap.NewNop(), "EUR")

	ref, err := gw.Capture(context.Background(), models.CaptureRequest{
		CustomerID: "cust-1", PaymentMethodID: "pm_card", Amount: 75, IdempotencyKey: "checkout-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", ref)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, "/v1/payment_intents", got.path)
	assert.Equal(t, "7500", got.form["amount"])
	assert.Equal(t, "eur", got.form["currency"])
	assert.Equal(t, "true", got.form["confirm"])
	assert.Equal(t, "checkout-1", got.idempotencyKey)
}

func TestCaptureRejectsIncompletePayment(t *testing.T) {
	fakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"pi_2","object":"payment_intent","status":"requires_action"}`))
	})
	gw := NewStripeGateway(zap.NewNop(), "eur")

	_, err := gw.Capture(context.Background(), models.CaptureRequest{CustomerID: "c", PaymentMethodID: "pm", Amount: 10})
	assert.Error(t, err)
}

func TestTransferUsesMissionIdempotencyKey(t *testing.T) {
	reqs := fakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/payment_intents/pi_1":
			w.Write([]byte(`{"id":"pi_1","object":"payment_intent","status":"succeeded","latest_charge":"ch_9"}`))
		case "/v1/transfers":
			w.Write([]byte(`{"id":"tr_1","object":"transfer"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	gw := NewStripeGateway(zap.NewNop(), "eur")

	ref, err := gw.Transfer(context.Background(), models.TransferRequest{
		Amount: 57.954545, Destination: "acct_1", MissionID: "m1", PaymentRef: "pi_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_1", ref)

	require.Len(t, *reqs, 2)
	tr := (*reqs)[1]
	assert.Equal(t, "/v1/transfers", tr.path)
	assert.Equal(t, "payout-m1", tr.idempotencyKey)
	assert.Equal(t, "5795", tr.form["amount"])
	assert.Equal(t, "acct_1", tr.form["destination"])
	assert.Equal(t, "ch_9", tr.form["source_transaction"])
}

func TestTransferReportsGatewayError(t *testing.T) {
	fakeStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such destination"}}`))
	})
	gw := NewStripeGateway(zap.NewNop(), "eur")

	_, err := gw.Transfer(context.Background(), models.TransferRequest{
		Amount: 10, Destination: "acct_x", MissionID: "m1", PaymentRef: "ch_1",
	})
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	assert.Error(t, validateCapture(models.CaptureRequest{Amount: 0, CustomerID: "c", PaymentMethodID: "pm"}))
	assert.Error(t, validateCapture(models.CaptureRequest{Amount: 5, PaymentMethodID: "pm"}))
	assert.Error(t, validateTransfer(models.TransferRequest{Amount: 5, MissionID: "m"}))
	assert.NoError(t, validateTransfer(models.TransferRequest{Amount: 5, MissionID: "m", Destination: "acct"}))
}
