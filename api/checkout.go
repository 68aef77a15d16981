package api

import (
	"encoding/json"
	"net/http"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
)

// productCheckoutHandler creates a direct-sale checkout session and returns
// the provider-hosted payment URL.
func (a *API) productCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	req := &ProductCheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.ProductID == "" || req.SuccessURL == "" || req.CancelURL == "" {
		errors.ErrInvalidCheckoutRequest.With("productId, successUrl and cancelUrl are required").Write(w)
		return
	}
	session, err := a.payments.CreateProductCheckout(req.ProductID, req.BuyerEmail, req.SuccessURL, req.CancelURL)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProductNotFound.Write(w)
			return
		}
		paymentErrToHTTP(err).Write(w)
		return
	}
	httpWriteJSON(w, session)
}

// claimCheckoutHandler creates a steward-claim checkout session. The platform
// fee must be the one obtained from the quote endpoint; it is charged as
// sent, never recomputed.
func (a *API) claimCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	req := &ClaimCheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.ListingID == "" || req.SuccessURL == "" || req.CancelURL == "" {
		errors.ErrInvalidCheckoutRequest.With("listingId, successUrl and cancelUrl are required").Write(w)
		return
	}
	session, err := a.payments.CreateStewardClaimCheckout(
		req.ListingID, req.PlatformFeeCents, req.BuyerEmail, req.SuccessURL, req.CancelURL)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrListingNotFound.Write(w)
			return
		}
		paymentErrToHTTP(err).Write(w)
		return
	}
	httpWriteJSON(w, session)
}
