package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
	"github.com/greekmarket/marketplace-backend/internal"
)

// createListingHandler creates a steward listing owned by the authenticated
// party. The chapter receiving the donation must exist.
func (a *API) createListingHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := partyFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &ListingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Name == "" || req.ChapterID == "" {
		errors.ErrInvalidData.With("name and chapter id are required").Write(w)
		return
	}
	if req.ShippingCents < 0 || req.SuggestedDonationCents < 0 {
		errors.ErrInvalidData.With("amounts cannot be negative").Write(w)
		return
	}
	chapterID, err := internal.ObjectIDFromHex(req.ChapterID)
	if err != nil {
		errors.ErrInvalidData.Withf("invalid chapter id %q", req.ChapterID).Write(w)
		return
	}
	chapter, err := a.db.Party(chapterID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPartyNotFound.With("chapter not found").Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if chapter.Role != db.PartyRoleChapter {
		errors.ErrInvalidData.With("donation beneficiary must be a chapter").Write(w)
		return
	}
	listing := &db.Listing{
		StewardID:              party.ID,
		ChapterID:              chapterID,
		Name:                   req.Name,
		Description:            req.Description,
		ShippingCents:          req.ShippingCents,
		SuggestedDonationCents: req.SuggestedDonationCents,
		ImageID:                req.ImageID,
	}
	id, err := a.db.SetListing(listing)
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrInvalidData.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CreatedResponse{ID: id.Hex()})
}

// listingsHandler lists all unclaimed listings.
func (a *API) listingsHandler(w http.ResponseWriter, _ *http.Request) {
	listings, err := a.db.Listings()
	if err != nil {
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, listings)
}

// listingInfoHandler returns the information of a listing.
func (a *API) listingInfoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := internal.ObjectIDFromHex(chi.URLParam(r, "listingID"))
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	listing, err := a.db.Listing(id)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrListingNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, listing)
}

// listingQuoteHandler returns the fee breakdown a buyer would pay to claim
// the listing right now. The platform fee in the quote must be sent back
// verbatim on checkout.
func (a *API) listingQuoteHandler(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	if _, err := internal.ObjectIDFromHex(listingID); err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	quote, err := a.payments.QuoteStewardClaim(listingID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrListingNotFound.Write(w)
			return
		}
		paymentErrToHTTP(err).Write(w)
		return
	}
	httpWriteJSON(w, quote)
}
