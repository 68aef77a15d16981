package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/errors"
	"github.com/greekmarket/marketplace-backend/payments"
)

// buildLoginResponse creates a JWT token for the given party identifier.
// The token is signed with the API secret, following the JWT specification.
// The token is valid for the period specified on jwtExpiration constant.
func (a *API) buildLoginResponse(id string) (*LoginResponse, error) {
	j := jwt.New()
	if err := j.Set("partyId", id); err != nil {
		return nil, err
	}
	if err := j.Set(jwt.ExpirationKey, time.Now().Add(jwtExpiration).UnixNano()); err != nil {
		return nil, err
	}
	lr := LoginResponse{}
	lr.Expirity = time.Now().Add(jwtExpiration)
	jmap, err := j.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	_, lr.Token, _ = a.auth.Encode(jmap)
	return &lr, nil
}

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// paymentErrToHTTP maps a payments error to the HTTP error to serve. Callers
// that can name the missing resource should check db.ErrNotFound themselves
// before falling back to this mapping.
func paymentErrToHTTP(err error) errors.Error {
	switch {
	case payments.HasCode(err, payments.CodeInvalidRequest):
		return errors.ErrInvalidCheckoutRequest.WithErr(err)
	case payments.HasCode(err, payments.CodeAccountInvalid):
		return errors.ErrAccountInvalid
	case payments.HasCode(err, payments.CodeAccountNotSettlementReady):
		return errors.ErrAccountNotSettlementReady
	case payments.HasCode(err, payments.CodeInvalidConfiguration),
		payments.HasCode(err, payments.CodeAPICallFailed):
		return errors.ErrProviderError.WithErr(err)
	default:
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
}
