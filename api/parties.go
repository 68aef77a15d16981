package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
	"github.com/greekmarket/marketplace-backend/internal"
	"github.com/greekmarket/marketplace-backend/payments"
)

// registerPartyHandler registers a new party. If a provider account id is
// given it is validated against the provider: an unknown or malformed account
// rejects the registration, while an account that exists but cannot receive
// transfers yet leaves the party unverified until onboarding completes.
func (a *API) registerPartyHandler(w http.ResponseWriter, r *http.Request) {
	info := &PartyInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if !internal.ValidEmail(info.Email) {
		errors.ErrEmailMalformed.Write(w)
		return
	}
	if len(info.Password) < 8 {
		errors.ErrPasswordTooShort.Write(w)
		return
	}
	switch info.Role {
	case db.PartyRoleSeller, db.PartyRoleChapter, db.PartyRoleSteward:
	default:
		errors.ErrInvalidPartyData.Withf("unknown role %q", info.Role).Write(w)
		return
	}
	phone := ""
	if info.Phone != "" {
		sanitized, err := internal.SanitizeAndVerifyPhoneNumber(info.Phone)
		if err != nil {
			errors.ErrInvalidPartyData.WithErr(err).Write(w)
			return
		}
		phone = sanitized
	}

	party := &db.Party{
		Role:            info.Role,
		Name:            info.Name,
		Email:           info.Email,
		Phone:           phone,
		Password:        internal.HexHashPassword(passwordSalt, info.Password),
		StripeAccountID: info.StripeAccountID,
		Country:         info.Country,
	}
	if info.StripeAccountID != "" {
		account, err := a.payments.ResolveSettlementAccount(info.StripeAccountID)
		switch {
		case err == nil:
			party.Verified = true
			party.Country = account.Country
		case payments.HasCode(err, payments.CodeAccountNotSettlementReady):
			log.Infow("registered party with account pending onboarding",
				"email", info.Email, "account", info.StripeAccountID)
		default:
			paymentErrToHTTP(err).Write(w)
			return
		}
	}

	id, err := a.db.SetParty(party)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			errors.ErrDuplicateConflict.With("email already registered").Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CreatedResponse{ID: id.Hex()})
}

// partyInfoHandler returns the public information of a party.
func (a *API) partyInfoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := internal.ObjectIDFromHex(chi.URLParam(r, "partyID"))
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	party, err := a.db.Party(id)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPartyNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &PartyResponse{
		ID:       party.ID.Hex(),
		Role:     party.Role,
		Name:     party.Name,
		Country:  party.Country,
		Verified: party.Verified,
	})
}

// partyOnboardingHandler returns a provider-hosted onboarding link for the
// authenticated party. Only the party itself can request its own link.
func (a *API) partyOnboardingHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := partyFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	if party.ID.Hex() != chi.URLParam(r, "partyID") {
		errors.ErrUnauthorized.With("cannot request onboarding for another party").Write(w)
		return
	}
	req := &OnboardingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	url, err := a.payments.OnboardingLink(party.ID.Hex(), req.RefreshURL, req.ReturnURL)
	if err != nil {
		paymentErrToHTTP(err).Write(w)
		return
	}
	httpWriteJSON(w, &OnboardingResponse{URL: url})
}
