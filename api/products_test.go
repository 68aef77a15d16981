package api

import (
	"encoding/json"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/greekmarket/marketplace-backend/db"
)

func TestProductLifecycle(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()

	registerParty(t, &PartyInfo{
		Email:    "productseller@test.com",
		Password: testPass,
		Name:     "Product Seller",
		Role:     "seller",
	})
	token := loginParty(t, "productseller@test.com", testPass)

	// creation requires authentication
	status, _ := doRequest(t, http.MethodPost, productsEndpoint, "",
		mustMarshal(&ProductRequest{Name: "Jersey", PriceCents: 2500}))
	c.Assert(status, qt.Equals, http.StatusUnauthorized)

	// rejected payloads
	for _, req := range []*ProductRequest{
		{Name: "", PriceCents: 2500},
		{Name: "Jersey", PriceCents: 0},
		{Name: "Jersey", PriceCents: -100},
	} {
		status, _ := doRequest(t, http.MethodPost, productsEndpoint, token, mustMarshal(req))
		c.Assert(status, qt.Equals, http.StatusBadRequest)
	}

	status, body := doRequest(t, http.MethodPost, productsEndpoint, token,
		mustMarshal(&ProductRequest{Name: "Jersey", Description: "Game worn", PriceCents: 2500}))
	c.Assert(status, qt.Equals, http.StatusOK)
	created := &CreatedResponse{}
	c.Assert(json.Unmarshal(body, created), qt.IsNil)

	status, body = doRequest(t, http.MethodGet, "/products/"+created.ID, "", nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	product := &db.Product{}
	c.Assert(json.Unmarshal(body, product), qt.IsNil)
	c.Assert(product.Name, qt.Equals, "Jersey")
	c.Assert(product.PriceCents, qt.Equals, int64(2500))
	c.Assert(product.Sold, qt.IsFalse)

	status, body = doRequest(t, http.MethodGet, productsEndpoint, "", nil)
	c.Assert(status, qt.Equals, http.StatusOK)
	var products []*db.Product
	c.Assert(json.Unmarshal(body, &products), qt.IsNil)
	c.Assert(products, qt.HasLen, 1)

	status, _ = doRequest(t, http.MethodGet, "/products/ffffffffffffffffffffffff", "", nil)
	c.Assert(status, qt.Equals, http.StatusNotFound)
	status, _ = doRequest(t, http.MethodGet, "/products/not-hex", "", nil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)
}

func TestProductCheckoutValidation(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()

	// incomplete requests never reach the provider
	for _, req := range []*ProductCheckoutRequest{
		{},
		{ProductID: "ffffffffffffffffffffffff"},
		{ProductID: "ffffffffffffffffffffffff", SuccessURL: "https://app.test/ok"},
	} {
		status, _ := doRequest(t, http.MethodPost, checkoutProductEndpoint, "", mustMarshal(req))
		c.Assert(status, qt.Equals, http.StatusBadRequest)
	}

	// a well-formed request for a product that does not exist
	status, _ := doRequest(t, http.MethodPost, checkoutProductEndpoint, "",
		mustMarshal(&ProductCheckoutRequest{
			ProductID:  "ffffffffffffffffffffffff",
			SuccessURL: "https://app.test/ok",
			CancelURL:  "https://app.test/cancel",
		}))
	c.Assert(status, qt.Equals, http.StatusNotFound)
}
