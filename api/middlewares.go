package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
)

type contextKey int

// partyMetadataKey is the context key that holds the authenticated party.
const partyMetadataKey contextKey = 0

// partyFromContext returns the authenticated party stored in the request
// context by the authenticator middleware.
func partyFromContext(ctx context.Context) (*db.Party, bool) {
	party, ok := ctx.Value(partyMetadataKey).(db.Party)
	if !ok {
		return nil, false
	}
	return &party, true
}

// authenticator is a middleware that authenticates the party from the JWT
// token. If successful, it decodes the party identifier (its email) from the
// token, gets the party from the database and adds it to the request context
// for the next handler.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("partyId")) != nil {
			errors.ErrUnauthorized.Withf("partyId claim not found in JWT token").Write(w)
			return
		}
		partyEmail := claims["partyId"].(string)
		party, err := a.db.PartyByEmail(partyEmail)
		if err != nil {
			if err == db.ErrNotFound {
				errors.ErrUnauthorized.Withf("party not found").Write(w)
				return
			}
			errors.ErrGenericInternalServerError.Withf("could not retrieve party from database: %v", err).Write(w)
			return
		}
		// token is authenticated, pass it through with the party attached
		ctx := context.WithValue(r.Context(), partyMetadataKey, *party)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
