package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/internal"
	"github.com/greekmarket/marketplace-backend/test"
)

var testDB *db.MongoStorage

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}

	mongoURI, err := dbContainer.ConnectionString(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB connection string: %v", err))
	}

	testDB, err = db.New(mongoURI, test.RandomDatabaseName())
	if err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}

	code := m.Run()

	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to terminate MongoDB container: %v", err))
	}
	os.Exit(code)
}

func newStorageBackedService(t *testing.T) *Service {
	t.Helper()
	config, err := NewConfig("sk_test_key", testWebhookSecret)
	if err != nil {
		t.Fatalf("failed to build payments config: %v", err)
	}
	s, err := NewService(config, testDB)
	if err != nil {
		t.Fatalf("failed to build payments service: %v", err)
	}
	return s
}

func checkoutCompletedEvent(t *testing.T, id string, session map[string]any) *stripeapi.Event {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("failed to marshal session: %v", err)
	}
	return &stripeapi.Event{
		ID:   id,
		Type: stripeapi.EventTypeCheckoutSessionCompleted,
		Data: &stripeapi.EventData{Raw: raw},
	}
}

func TestFulfillProductSale(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	sellerID, err := testDB.SetParty(&db.Party{
		Role:            db.PartyRoleSeller,
		Name:            "Sam Seller",
		Email:           "sam@example.com",
		StripeAccountID: "acct_sam",
	})
	c.Assert(err, qt.IsNil)
	productID, err := testDB.SetProduct(&db.Product{
		SellerID:   sellerID,
		Name:       "Composite Frame",
		PriceCents: 10000,
	})
	c.Assert(err, qt.IsNil)

	event := checkoutCompletedEvent(t, "evt_sale_1", map[string]any{
		"id":             "cs_sale_1",
		"amount_total":   10000,
		"customer_email": "buyer@example.com",
		"metadata": map[string]string{
			"productId": productID.Hex(),
			"chapterId": "",
		},
	})
	c.Assert(s.HandleEvent(event), qt.IsNil)

	product, err := testDB.Product(productID)
	c.Assert(err, qt.IsNil)
	c.Assert(product.Sold, qt.IsTrue)

	order, err := testDB.OrderBySessionID("cs_sale_1")
	c.Assert(err, qt.IsNil)
	c.Assert(order.Kind, qt.Equals, db.OrderKindProductSale)
	c.Assert(order.ProductID, qt.Equals, productID)
	c.Assert(order.BuyerEmail, qt.Equals, "buyer@example.com")
	c.Assert(order.AmountCents, qt.Equals, int64(10000))
	c.Assert(order.FeeCents, qt.Equals, int64(800))
	c.Assert(order.Status, qt.Equals, db.OrderStatusPaid)

	// redelivery finds the product already sold and records nothing new
	c.Assert(s.HandleEvent(event), qt.IsNil)
	orders, err := testDB.Orders()
	c.Assert(err, qt.IsNil)
	c.Assert(orders, qt.HasLen, 1)
}

func TestFulfillStewardClaim(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	stewardID, err := testDB.SetParty(&db.Party{
		Role:            db.PartyRoleSteward,
		Name:            "Sue Steward",
		Email:           "sue@example.com",
		StripeAccountID: "acct_sue",
	})
	c.Assert(err, qt.IsNil)
	chapterID, err := testDB.SetParty(&db.Party{
		Role:            db.PartyRoleChapter,
		Name:            "Alpha Chapter",
		Email:           "alpha@example.com",
		StripeAccountID: "acct_alpha",
	})
	c.Assert(err, qt.IsNil)
	listingID, err := testDB.SetListing(&db.Listing{
		StewardID:              stewardID,
		ChapterID:              chapterID,
		Name:                   "Founders Paddle",
		ShippingCents:          1200,
		SuggestedDonationCents: 1500,
	})
	c.Assert(err, qt.IsNil)

	event := checkoutCompletedEvent(t, "evt_claim_1", map[string]any{
		"id":           "cs_claim_1",
		"amount_total": 2835,
		"customer_details": map[string]any{
			"email": "claimer@example.com",
		},
		"metadata": map[string]string{
			"type":                 "steward_claim",
			"listingId":            listingID.Hex(),
			"stewardAccountId":     "acct_sue",
			"chapterAccountId":     "acct_alpha",
			"shippingCents":        "1200",
			"chapterDonationCents": "1500",
		},
	})
	c.Assert(s.HandleEvent(event), qt.IsNil)

	listing, err := testDB.Listing(listingID)
	c.Assert(err, qt.IsNil)
	c.Assert(listing.Claimed, qt.IsTrue)
	c.Assert(listing.ClaimedBy, qt.Equals, "claimer@example.com")

	order, err := testDB.OrderBySessionID("cs_claim_1")
	c.Assert(err, qt.IsNil)
	c.Assert(order.Kind, qt.Equals, db.OrderKindStewardClaim)
	c.Assert(order.ListingID, qt.Equals, listingID)
	c.Assert(order.ShippingCents, qt.Equals, int64(1200))
	c.Assert(order.DonationCents, qt.Equals, int64(1500))
	// the fee is reconstructed from the total and the metadata components
	c.Assert(order.FeeCents, qt.Equals, int64(135))

	// redelivery finds the listing already claimed and records nothing new
	c.Assert(s.HandleEvent(event), qt.IsNil)
	orders, err := testDB.Orders()
	c.Assert(err, qt.IsNil)
	c.Assert(orders, qt.HasLen, 1)
}

func TestFulfillProductSaleRecoversMissingOrder(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	sellerID, err := testDB.SetParty(&db.Party{
		Role:            db.PartyRoleSeller,
		Name:            "Sam Seller",
		Email:           "sam2@example.com",
		StripeAccountID: "acct_sam",
	})
	c.Assert(err, qt.IsNil)
	productID, err := testDB.SetProduct(&db.Product{
		SellerID:   sellerID,
		Name:       "Composite Frame",
		PriceCents: 10000,
	})
	c.Assert(err, qt.IsNil)

	// a previous delivery flipped the sold flag but died before recording
	// the order; the redelivery must still write it
	c.Assert(testDB.MarkProductSold(productID), qt.IsNil)

	event := checkoutCompletedEvent(t, "evt_sale_retry", map[string]any{
		"id":             "cs_sale_retry",
		"amount_total":   10000,
		"customer_email": "buyer@example.com",
		"metadata": map[string]string{
			"productId": productID.Hex(),
		},
	})
	c.Assert(s.HandleEvent(event), qt.IsNil)

	order, err := testDB.OrderBySessionID("cs_sale_retry")
	c.Assert(err, qt.IsNil)
	c.Assert(order.FeeCents, qt.Equals, int64(800))
	c.Assert(order.Status, qt.Equals, db.OrderStatusPaid)

	// once the order exists further redeliveries are no-ops
	c.Assert(s.HandleEvent(event), qt.IsNil)
	orders, err := testDB.Orders()
	c.Assert(err, qt.IsNil)
	c.Assert(orders, qt.HasLen, 1)
}

func TestFulfillStewardClaimRecoversMissingOrder(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	stewardID, err := testDB.SetParty(&db.Party{
		Role: db.PartyRoleSteward, Name: "Sue", Email: "sue3@example.com",
	})
	c.Assert(err, qt.IsNil)
	chapterID, err := testDB.SetParty(&db.Party{
		Role: db.PartyRoleChapter, Name: "Alpha", Email: "alpha3@example.com",
	})
	c.Assert(err, qt.IsNil)
	listingID, err := testDB.SetListing(&db.Listing{
		StewardID:              stewardID,
		ChapterID:              chapterID,
		Name:                   "Founders Paddle",
		ShippingCents:          1200,
		SuggestedDonationCents: 1500,
	})
	c.Assert(err, qt.IsNil)

	// claim flag set, order write lost
	c.Assert(testDB.ClaimListing(listingID, "claimer@example.com"), qt.IsNil)

	event := checkoutCompletedEvent(t, "evt_claim_retry", map[string]any{
		"id":             "cs_claim_retry",
		"amount_total":   2835,
		"customer_email": "claimer@example.com",
		"metadata": map[string]string{
			"type":                 "steward_claim",
			"listingId":            listingID.Hex(),
			"shippingCents":        "1200",
			"chapterDonationCents": "1500",
		},
	})
	c.Assert(s.HandleEvent(event), qt.IsNil)

	order, err := testDB.OrderBySessionID("cs_claim_retry")
	c.Assert(err, qt.IsNil)
	c.Assert(order.Kind, qt.Equals, db.OrderKindStewardClaim)
	c.Assert(order.FeeCents, qt.Equals, int64(135))

	c.Assert(s.HandleEvent(event), qt.IsNil)
	orders, err := testDB.Orders()
	c.Assert(err, qt.IsNil)
	c.Assert(orders, qt.HasLen, 1)
}

func TestHandleEventBadMetadata(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	// malformed product id fails fulfillment so the provider redelivers
	event := checkoutCompletedEvent(t, "evt_bad_1", map[string]any{
		"id":       "cs_bad_1",
		"metadata": map[string]string{"productId": "not-an-id"},
	})
	c.Assert(s.HandleEvent(event), qt.IsNotNil)

	// a session referencing a missing product fails too
	event = checkoutCompletedEvent(t, "evt_bad_2", map[string]any{
		"id":       "cs_bad_2",
		"metadata": map[string]string{"productId": internal.NewObjectID().Hex()},
	})
	c.Assert(s.HandleEvent(event), qt.IsNotNil)
}

func TestQuoteStewardClaim(t *testing.T) {
	c := qt.New(t)
	defer func() { c.Assert(testDB.Reset(), qt.IsNil) }()
	s := newStorageBackedService(t)

	stewardID, err := testDB.SetParty(&db.Party{
		Role: db.PartyRoleSteward, Name: "Sue", Email: "sue2@example.com",
	})
	c.Assert(err, qt.IsNil)
	chapterID, err := testDB.SetParty(&db.Party{
		Role: db.PartyRoleChapter, Name: "Alpha", Email: "alpha2@example.com",
	})
	c.Assert(err, qt.IsNil)
	listingID, err := testDB.SetListing(&db.Listing{
		StewardID:              stewardID,
		ChapterID:              chapterID,
		Name:                   "Pin Collection",
		ShippingCents:          1000,
		SuggestedDonationCents: 2000,
	})
	c.Assert(err, qt.IsNil)

	// default policy: 5% of shipping plus donation
	quote, err := s.QuoteStewardClaim(listingID.Hex())
	c.Assert(err, qt.IsNil)
	c.Assert(quote.PlatformFeeCents, qt.Equals, int64(150))
	c.Assert(quote.TotalCents, qt.Equals, int64(3150))

	// a percentage setting overrides the default
	c.Assert(testDB.SetPlatformSetting(SettingFeePercentage, "0.10"), qt.IsNil)
	quote, err = s.QuoteStewardClaim(listingID.Hex())
	c.Assert(err, qt.IsNil)
	c.Assert(quote.PlatformFeeCents, qt.Equals, int64(300))

	// claimed listings cannot be quoted
	c.Assert(testDB.ClaimListing(listingID, "x@example.com"), qt.IsNil)
	_, err = s.QuoteStewardClaim(listingID.Hex())
	c.Assert(HasCode(err, CodeInvalidRequest), qt.IsTrue)

	_, err = s.QuoteStewardClaim("zzz")
	c.Assert(HasCode(err, CodeInvalidRequest), qt.IsTrue)
}
