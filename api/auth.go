package api

import (
	"encoding/json"
	"net/http"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
	"github.com/greekmarket/marketplace-backend/internal"
)

// authLoginHandler authenticates a party by email and password and returns a
// JWT token.
func (a *API) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	loginInfo := &PartyInfo{}
	if err := json.NewDecoder(r.Body).Decode(loginInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	party, err := a.db.PartyByEmail(loginInfo.Email)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUnauthorized.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// check the password
	if pass := internal.HexHashPassword(passwordSalt, loginInfo.Password); pass != party.Password {
		errors.ErrUnauthorized.Write(w)
		return
	}
	// generate a new token with the party email as the subject
	res, err := a.buildLoginResponse(party.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, res)
}

// refreshTokenHandler refreshes the JWT token for an authenticated party.
func (a *API) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := partyFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	res, err := a.buildLoginResponse(party.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	httpWriteJSON(w, res)
}
