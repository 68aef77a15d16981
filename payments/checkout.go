package payments

import (
	"fmt"
	"strconv"

	stripeapi "github.com/stripe/stripe-go/v82"
)

const checkoutCurrency = "usd"

// ProductCheckoutRequest describes one direct-sale purchase intent. All
// amounts are non-negative integers in minor currency units.
type ProductCheckoutRequest struct {
	ProductID            string
	ProductName          string
	PriceCents           int64
	DestinationAccountID string
	ChapterID            string
	BuyerEmail           string
	SuccessURL           string
	CancelURL            string
}

// StewardClaimRequest describes a steward claim: the buyer pays shipping,
// platform fee and chapter donation to receive a free legacy item. The
// platform fee arrives pre-computed by the caller so the quoted amount and
// the charged amount cannot diverge across a settings change.
type StewardClaimRequest struct {
	ListingID            string
	ListingName          string
	ShippingCents        int64
	PlatformFeeCents     int64
	ChapterDonationCents int64
	ChapterAccountID     string
	StewardAccountID     string
	BuyerEmail           string
	SuccessURL           string
	CancelURL            string
}

// CheckoutSession is the provider-returned session handle relayed to the
// caller, which redirects the buyer to URL.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutBuilder assembles checkout sessions that split a single payment
// across the platform and up to two connected accounts.
type CheckoutBuilder struct {
	provider  ProviderAPI
	directory *AccountDirectory
}

// NewCheckoutBuilder creates a new checkout builder
func NewCheckoutBuilder(provider ProviderAPI, directory *AccountDirectory) *CheckoutBuilder {
	return &CheckoutBuilder{
		provider:  provider,
		directory: directory,
	}
}

// CreateProductCheckout creates a one-time payment session for a direct
// product sale. The full amount is charged on behalf of the seller's account
// and transferred to it net of the fixed 8% application fee retained by the
// platform. Provider errors are surfaced as-is; no retry is attempted since
// checkout creation is a user-initiated, user-visible action.
func (b *CheckoutBuilder) CreateProductCheckout(req *ProductCheckoutRequest) (*CheckoutSession, error) {
	if req.PriceCents < 0 {
		return nil, NewPaymentError(CodeInvalidRequest, "negative product price", nil)
	}
	if req.ProductID == "" || req.ProductName == "" {
		return nil, NewPaymentError(CodeInvalidRequest, "missing product information", nil)
	}

	if _, err := b.directory.ResolveSettlementAccount(req.DestinationAccountID); err != nil {
		return nil, err
	}

	fee := DirectSaleFee(req.PriceCents)
	params := &stripeapi.CheckoutSessionParams{
		Mode: stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			lineItem(req.ProductName, req.PriceCents),
		},
		PaymentIntentData: &stripeapi.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripeapi.Int64(fee),
			OnBehalfOf:           stripeapi.String(req.DestinationAccountID),
			TransferData: &stripeapi.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripeapi.String(req.DestinationAccountID),
			},
		},
		// chapterId is always present, as an empty string when the product
		// has no sponsoring chapter, so the webhook handler can reconcile
		// without a second database round trip.
		Metadata: map[string]string{
			"productId": req.ProductID,
			"chapterId": req.ChapterID,
		},
		CustomerEmail: stripeapi.String(req.BuyerEmail),
		SuccessURL:    stripeapi.String(req.SuccessURL),
		CancelURL:     stripeapi.String(req.CancelURL),
	}

	session, err := b.provider.NewCheckoutSession(params)
	if err != nil {
		return nil, NewPaymentError(CodeAPICallFailed, "failed to create checkout session", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CreateStewardClaimCheckout creates a session charging the buyer for a
// steward claim. Both destination accounts must resolve before any session is
// created. Line items appear in fixed order (shipping, platform fee,
// donation) and zero-amount components are omitted entirely; a fully-free
// claim with zero line items is valid. The split across the steward and
// chapter accounts is a provider-level instruction (transfer group plus
// metadata); the platform fee portion has no destination and stays with the
// platform.
func (b *CheckoutBuilder) CreateStewardClaimCheckout(req *StewardClaimRequest) (*CheckoutSession, error) {
	if req.ShippingCents < 0 || req.PlatformFeeCents < 0 || req.ChapterDonationCents < 0 {
		return nil, NewPaymentError(CodeInvalidRequest,
			fmt.Sprintf("negative claim amount (shipping=%d, fee=%d, donation=%d)",
				req.ShippingCents, req.PlatformFeeCents, req.ChapterDonationCents), nil)
	}
	if req.ListingID == "" {
		return nil, NewPaymentError(CodeInvalidRequest, "missing listing id", nil)
	}

	if _, err := b.directory.ResolveSettlementAccount(req.ChapterAccountID); err != nil {
		return nil, err
	}
	if _, err := b.directory.ResolveSettlementAccount(req.StewardAccountID); err != nil {
		return nil, err
	}

	var lineItems []*stripeapi.CheckoutSessionLineItemParams
	if req.ShippingCents > 0 {
		lineItems = append(lineItems, lineItem("Shipping", req.ShippingCents))
	}
	if req.PlatformFeeCents > 0 {
		lineItems = append(lineItems, lineItem("Platform Fee", req.PlatformFeeCents))
	}
	if req.ChapterDonationCents > 0 {
		lineItems = append(lineItems, lineItem("Chapter Donation", req.ChapterDonationCents))
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:      stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: lineItems,
		PaymentIntentData: &stripeapi.CheckoutSessionPaymentIntentDataParams{
			TransferGroup: stripeapi.String("claim_" + req.ListingID),
		},
		Metadata: map[string]string{
			"listingId":            req.ListingID,
			"type":                 "steward_claim",
			"stewardAccountId":     req.StewardAccountID,
			"chapterAccountId":     req.ChapterAccountID,
			"chapterDonationCents": strconv.FormatInt(req.ChapterDonationCents, 10),
			"shippingCents":        strconv.FormatInt(req.ShippingCents, 10),
		},
		CustomerEmail: stripeapi.String(req.BuyerEmail),
		SuccessURL:    stripeapi.String(req.SuccessURL),
		CancelURL:     stripeapi.String(req.CancelURL),
	}

	session, err := b.provider.NewCheckoutSession(params)
	if err != nil {
		return nil, NewPaymentError(CodeAPICallFailed, "failed to create checkout session", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func lineItem(name string, amountCents int64) *stripeapi.CheckoutSessionLineItemParams {
	return &stripeapi.CheckoutSessionLineItemParams{
		PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripeapi.String(checkoutCurrency),
			UnitAmount: stripeapi.Int64(amountCents),
			ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripeapi.String(name),
			},
		},
		Quantity: stripeapi.Int64(1),
	}
}
