package api

import (
	"io"
	"net/http"

	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/payments"
)

// paymentsWebhookHandler handles incoming webhook events from the payment
// provider. The signature is verified before any payload data is trusted; a
// missing or invalid signature is a 400 so the provider does not keep
// retrying a request that can never succeed, while fulfillment failures are
// a 500 so the provider redelivers the event.
func (a *API) paymentsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("payments webhook: error reading request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signatureHeader := r.Header.Get("Stripe-Signature")
	if signatureHeader == "" {
		log.Warnf("payments webhook: missing signature header")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := a.payments.ProcessWebhookEvent(payload, signatureHeader); err != nil {
		if payments.HasCode(err, payments.CodeSignatureInvalid) {
			log.Warnf("payments webhook: signature verification failed: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		log.Errorf("payments webhook: event processing failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
