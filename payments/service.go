// Package payments provides the multi-party payment orchestration core:
// connected-account validation, platform fee resolution, checkout session
// construction and webhook authentication, backed by the Stripe API.
package payments

import (
	"fmt"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/internal"
	"github.com/greekmarket/marketplace-backend/notifications"
)

// Service provides the main business logic for payment operations. It wires
// the provider client, the account directory, the two fee policies and the
// checkout builder over the marketplace storage.
type Service struct {
	client    *Client
	provider  ProviderAPI
	db        *db.MongoStorage
	directory *AccountDirectory
	fees      *FeeResolver
	builder   *CheckoutBuilder
	events    *MemoryEventStore
	locks     *LockManager
	config    *Config
	mail      notifications.NotificationService
	sms       notifications.NotificationService
}

// NewService creates a new payments service
func NewService(config *Config, database *db.MongoStorage) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	client := NewClient(config)
	directory := NewAccountDirectory(client)

	return &Service{
		client:    client,
		provider:  client,
		db:        database,
		directory: directory,
		fees:      NewFeeResolver(database),
		builder:   NewCheckoutBuilder(client, directory),
		events:    NewMemoryEventStore(0),
		locks:     NewLockManager(),
		config:    config,
	}, nil
}

// SetNotificationServices attaches optional mail and SMS services used for
// best-effort order confirmations after webhook fulfillment.
func (s *Service) SetNotificationServices(mail, sms notifications.NotificationService) {
	s.mail = mail
	s.sms = sms
}

// StewardClaimQuote is the fee breakdown shown to a buyer before redirecting
// to checkout. The platform fee quoted here is passed back verbatim on
// session creation so the charged amount matches the quote exactly.
type StewardClaimQuote struct {
	ListingID            string `json:"listingId"`
	ShippingCents        int64  `json:"shippingCents"`
	PlatformFeeCents     int64  `json:"platformFeeCents"`
	ChapterDonationCents int64  `json:"chapterDonationCents"`
	TotalCents           int64  `json:"totalCents"`
}

// CreateProductCheckout resolves the product and its seller from storage and
// creates a direct-sale checkout session for it.
func (s *Service) CreateProductCheckout(productID, buyerEmail, successURL, cancelURL string) (*CheckoutSession, error) {
	id, err := internal.ObjectIDFromHex(productID)
	if err != nil {
		return nil, NewPaymentError(CodeInvalidRequest, fmt.Sprintf("invalid product id %q", productID), err)
	}
	product, err := s.db.Product(id)
	if err != nil {
		return nil, err
	}
	if product.Sold {
		return nil, NewPaymentError(CodeInvalidRequest, "product already sold", nil)
	}
	seller, err := s.db.Party(product.SellerID)
	if err != nil {
		return nil, err
	}

	chapterID := ""
	if !product.ChapterID.IsZero() {
		chapterID = product.ChapterID.Hex()
	}

	return s.builder.CreateProductCheckout(&ProductCheckoutRequest{
		ProductID:            product.ID.Hex(),
		ProductName:          product.Name,
		PriceCents:           product.PriceCents,
		DestinationAccountID: seller.StripeAccountID,
		ChapterID:            chapterID,
		BuyerEmail:           buyerEmail,
		SuccessURL:           successURL,
		CancelURL:            cancelURL,
	})
}

// QuoteStewardClaim resolves the current platform fee for claiming the given
// listing. Shipping and the suggested chapter donation form the fee basis.
func (s *Service) QuoteStewardClaim(listingID string) (*StewardClaimQuote, error) {
	id, err := internal.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, NewPaymentError(CodeInvalidRequest, fmt.Sprintf("invalid listing id %q", listingID), err)
	}
	listing, err := s.db.Listing(id)
	if err != nil {
		return nil, err
	}
	if listing.Claimed {
		return nil, NewPaymentError(CodeInvalidRequest, "listing already claimed", nil)
	}

	basis := listing.ShippingCents + listing.SuggestedDonationCents
	fee, err := s.fees.ResolvePlatformFee(basis)
	if err != nil {
		return nil, err
	}

	return &StewardClaimQuote{
		ListingID:            listing.ID.Hex(),
		ShippingCents:        listing.ShippingCents,
		PlatformFeeCents:     fee,
		ChapterDonationCents: listing.SuggestedDonationCents,
		TotalCents:           basis + fee,
	}, nil
}

// CreateStewardClaimCheckout resolves the listing and both beneficiary
// parties and creates a claim checkout session. The platform fee is the one
// previously quoted to the buyer; it is not recomputed here, so a concurrent
// settings change cannot make the charge diverge from the quote.
func (s *Service) CreateStewardClaimCheckout(
	listingID string, platformFeeCents int64, buyerEmail, successURL, cancelURL string,
) (*CheckoutSession, error) {
	id, err := internal.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, NewPaymentError(CodeInvalidRequest, fmt.Sprintf("invalid listing id %q", listingID), err)
	}
	listing, err := s.db.Listing(id)
	if err != nil {
		return nil, err
	}
	if listing.Claimed {
		return nil, NewPaymentError(CodeInvalidRequest, "listing already claimed", nil)
	}
	chapter, err := s.db.Party(listing.ChapterID)
	if err != nil {
		return nil, err
	}
	steward, err := s.db.Party(listing.StewardID)
	if err != nil {
		return nil, err
	}

	return s.builder.CreateStewardClaimCheckout(&StewardClaimRequest{
		ListingID:            listing.ID.Hex(),
		ListingName:          listing.Name,
		ShippingCents:        listing.ShippingCents,
		PlatformFeeCents:     platformFeeCents,
		ChapterDonationCents: listing.SuggestedDonationCents,
		ChapterAccountID:     chapter.StripeAccountID,
		StewardAccountID:     steward.StripeAccountID,
		BuyerEmail:           buyerEmail,
		SuccessURL:           successURL,
		CancelURL:            cancelURL,
	})
}

// OnboardingLink returns a provider-hosted onboarding URL for the given
// party, used when its account is not settlement-ready yet.
func (s *Service) OnboardingLink(partyID, refreshURL, returnURL string) (string, error) {
	id, err := internal.ObjectIDFromHex(partyID)
	if err != nil {
		return "", NewPaymentError(CodeInvalidRequest, fmt.Sprintf("invalid party id %q", partyID), err)
	}
	party, err := s.db.Party(id)
	if err != nil {
		return "", err
	}
	return s.directory.OnboardingLink(party.StripeAccountID, refreshURL, returnURL)
}

// ResolveSettlementAccount exposes the account directory check, used by the
// API layer to validate a party's account during registration.
func (s *Service) ResolveSettlementAccount(accountID string) (*ConnectAccount, error) {
	return s.directory.ResolveSettlementAccount(accountID)
}
