package db

import (
	"time"

	"github.com/greekmarket/marketplace-backend/internal"
)

// PartyRole identifies which side of the marketplace a party acts on.
type PartyRole string

const (
	PartyRoleSeller  PartyRole = "seller"
	PartyRoleChapter PartyRole = "chapter"
	PartyRoleSteward PartyRole = "steward"
)

// Party is any account holder capable of receiving funds: a seller listing
// products, an undergraduate chapter receiving donations, or a steward
// re-homing legacy items. The stored Stripe account id is re-validated
// against the provider before every settlement.
type Party struct {
	ID              internal.ObjectID `json:"id" bson:"_id"`
	Role            PartyRole         `json:"role" bson:"role"`
	Name            string            `json:"name" bson:"name"`
	Email           string            `json:"email" bson:"email"`
	Phone           string            `json:"phone,omitempty" bson:"phone"`
	Password        string            `json:"-" bson:"password"`
	StripeAccountID string            `json:"stripeAccountId" bson:"stripeAccountId"`
	Country         string            `json:"country" bson:"country"`
	Verified        bool              `json:"verified" bson:"verified"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
}

// Product is a direct-sale item listed by a seller. PriceCents is an integer
// number of minor currency units; no fractional amounts are stored anywhere.
type Product struct {
	ID          internal.ObjectID `json:"id" bson:"_id"`
	SellerID    internal.ObjectID `json:"sellerId" bson:"sellerId"`
	ChapterID   internal.ObjectID `json:"chapterId,omitempty" bson:"chapterId,omitempty"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description" bson:"description"`
	PriceCents  int64             `json:"priceCents" bson:"priceCents"`
	ImageID     string            `json:"imageId,omitempty" bson:"imageId,omitempty"`
	Sold        bool              `json:"sold" bson:"sold"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
}

// Listing is a legacy item offered by a steward for a free claim: the buyer
// only pays shipping, the platform fee and a chapter donation.
type Listing struct {
	ID                     internal.ObjectID `json:"id" bson:"_id"`
	StewardID              internal.ObjectID `json:"stewardId" bson:"stewardId"`
	ChapterID              internal.ObjectID `json:"chapterId" bson:"chapterId"`
	Name                   string            `json:"name" bson:"name"`
	Description            string            `json:"description" bson:"description"`
	ShippingCents          int64             `json:"shippingCents" bson:"shippingCents"`
	SuggestedDonationCents int64             `json:"suggestedDonationCents" bson:"suggestedDonationCents"`
	ImageID                string            `json:"imageId,omitempty" bson:"imageId,omitempty"`
	Claimed                bool              `json:"claimed" bson:"claimed"`
	ClaimedBy              string            `json:"claimedBy,omitempty" bson:"claimedBy,omitempty"`
	ClaimedAt              time.Time         `json:"claimedAt,omitempty" bson:"claimedAt,omitempty"`
	CreatedAt              time.Time         `json:"createdAt" bson:"createdAt"`
}

// OrderKind distinguishes the two checkout shapes.
type OrderKind string

const (
	OrderKindProductSale  OrderKind = "product_sale"
	OrderKindStewardClaim OrderKind = "steward_claim"
)

// OrderStatus values for finalized orders.
const (
	OrderStatusPaid = "paid"
)

// Order is the finalized payment record written after a verified
// checkout.session.completed webhook.
type Order struct {
	ID              internal.ObjectID `json:"id" bson:"_id"`
	Kind            OrderKind         `json:"kind" bson:"kind"`
	ProductID       internal.ObjectID `json:"productId,omitempty" bson:"productId,omitempty"`
	ListingID       internal.ObjectID `json:"listingId,omitempty" bson:"listingId,omitempty"`
	BuyerEmail      string            `json:"buyerEmail" bson:"buyerEmail"`
	AmountCents     int64             `json:"amountCents" bson:"amountCents"`
	FeeCents        int64             `json:"feeCents" bson:"feeCents"`
	ShippingCents   int64             `json:"shippingCents,omitempty" bson:"shippingCents,omitempty"`
	DonationCents   int64             `json:"donationCents,omitempty" bson:"donationCents,omitempty"`
	SessionID       string            `json:"sessionId" bson:"sessionId"`
	PaymentIntentID string            `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	Status          string            `json:"status" bson:"status"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
}

// PlatformSetting is one row of the platform key/value configuration store.
type PlatformSetting struct {
	Key   string `json:"key" bson:"_id"`
	Value string `json:"value" bson:"value"`
}

// Object is a stored binary blob (product or listing image), keyed by the
// hex digest of its contents.
type Object struct {
	ID          string    `json:"id" bson:"_id"`
	Data        []byte    `json:"data" bson:"data"`
	ContentType string    `json:"contentType" bson:"contentType"`
	UploadedBy  string    `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
