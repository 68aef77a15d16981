package api

import (
	"time"

	"github.com/greekmarket/marketplace-backend/db"
)

// PartyInfo is the registration and login request body.
type PartyInfo struct {
	Email           string       `json:"email"`
	Password        string       `json:"password"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone,omitempty"`
	Role            db.PartyRole `json:"role"`
	StripeAccountID string       `json:"stripeAccountId,omitempty"`
	Country         string       `json:"country,omitempty"`
}

// PartyResponse is the public view of a party.
type PartyResponse struct {
	ID       string       `json:"id"`
	Role     db.PartyRole `json:"role"`
	Name     string       `json:"name"`
	Country  string       `json:"country,omitempty"`
	Verified bool         `json:"verified"`
}

// LoginResponse is the response of the login and refresh endpoints.
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
}

// OnboardingRequest carries the redirect URLs for a provider onboarding link.
type OnboardingRequest struct {
	RefreshURL string `json:"refreshUrl"`
	ReturnURL  string `json:"returnUrl"`
}

// OnboardingResponse carries the provider-hosted onboarding URL.
type OnboardingResponse struct {
	URL string `json:"url"`
}

// ProductRequest is the create-product request body. The authenticated party
// becomes the seller.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	ChapterID   string `json:"chapterId,omitempty"`
	ImageID     string `json:"imageId,omitempty"`
}

// ListingRequest is the create-listing request body. The authenticated party
// becomes the steward.
type ListingRequest struct {
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	ShippingCents          int64  `json:"shippingCents"`
	SuggestedDonationCents int64  `json:"suggestedDonationCents"`
	ChapterID              string `json:"chapterId"`
	ImageID                string `json:"imageId,omitempty"`
}

// CreatedResponse returns the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ProductCheckoutRequest is the direct-sale checkout request body.
type ProductCheckoutRequest struct {
	ProductID  string `json:"productId"`
	BuyerEmail string `json:"buyerEmail,omitempty"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// ClaimCheckoutRequest is the steward-claim checkout request body. The
// platform fee must be the one returned by the quote endpoint; it is charged
// verbatim.
type ClaimCheckoutRequest struct {
	ListingID        string `json:"listingId"`
	PlatformFeeCents int64  `json:"platformFeeCents"`
	BuyerEmail       string `json:"buyerEmail,omitempty"`
	SuccessURL       string `json:"successUrl"`
	CancelURL        string `json:"cancelUrl"`
}
