package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/errors"
	"github.com/greekmarket/marketplace-backend/internal"
)

// createProductHandler creates a direct-sale product owned by the
// authenticated party.
func (a *API) createProductHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := partyFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &ProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Name == "" || req.PriceCents <= 0 {
		errors.ErrInvalidData.With("name and a positive price are required").Write(w)
		return
	}
	product := &db.Product{
		SellerID:    party.ID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageID:     req.ImageID,
	}
	if req.ChapterID != "" {
		chapterID, err := internal.ObjectIDFromHex(req.ChapterID)
		if err != nil {
			errors.ErrInvalidData.Withf("invalid chapter id %q", req.ChapterID).Write(w)
			return
		}
		if _, err := a.db.Party(chapterID); err != nil {
			if err == db.ErrNotFound {
				errors.ErrPartyNotFound.With("chapter not found").Write(w)
				return
			}
			errors.ErrGenericInternalServerError.WithErr(err).Write(w)
			return
		}
		product.ChapterID = chapterID
	}
	id, err := a.db.SetProduct(product)
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

// productsHandler lists all unsold products.
func (a *API) productsHandler(w http.ResponseWriter, _ *http.Request) {
	products, err := a.db.Products()
	if err != nil {
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, products)
}

// productInfoHandler returns the information of a product.
func (a *API) productInfoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := internal.ObjectIDFromHex(chi.URLParam(r, "productID"))
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	product, err := a.db.Product(id)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProductNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, product)
}
