package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/internal"
	"github.com/greekmarket/marketplace-backend/notifications"
)

// VerifyWebhookEvent authenticates an inbound webhook payload. This is the
// sole trust boundary between the public internet and order fulfillment: the
// payload is parsed only after the signature check succeeds. The check is
// pure and has no side effects.
func (s *Service) VerifyWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	return s.client.ValidateWebhookEvent(payload, signatureHeader)
}

// ProcessWebhookEvent verifies and processes a webhook event with idempotency
func (s *Service) ProcessWebhookEvent(payload []byte, signatureHeader string) error {
	event, err := s.VerifyWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err
	}

	// Check if event was already processed (idempotency)
	if s.events.EventExists(event.ID) {
		log.Debugf("payments webhook: event %s already processed, skipping", event.ID)
		return nil
	}

	if err := s.HandleEvent(event); err != nil {
		return err
	}

	// Mark event as processed if successful
	s.events.MarkProcessed(event.ID)

	return nil
}

// HandleEvent dispatches a verified webhook event based on its type
func (s *Service) HandleEvent(event *stripeapi.Event) error {
	switch event.Type {
	case stripeapi.EventTypeCheckoutSessionCompleted:
		return s.handleCheckoutCompleted(event)
	default:
		log.Debugf("payments webhook: received unhandled event type %s (id %s)", event.Type, event.ID)
		return nil
	}
}

// handleCheckoutCompleted fulfills a completed checkout session. The session
// metadata written at creation time carries everything needed to reconcile
// the order without a second provider round trip.
func (s *Service) handleCheckoutCompleted(event *stripeapi.Event) error {
	session, err := parseCheckoutSessionFromEvent(event)
	if err != nil {
		return fmt.Errorf("failed to parse checkout session from event: %w", err)
	}

	if session.Metadata["type"] == "steward_claim" {
		return s.fulfillStewardClaim(session)
	}
	return s.fulfillProductSale(session)
}

// fulfillProductSale records the order and marks the product sold.
func (s *Service) fulfillProductSale(session *stripeapi.CheckoutSession) error {
	productHex := session.Metadata["productId"]
	productID, err := internal.ObjectIDFromHex(productHex)
	if err != nil {
		return fmt.Errorf("checkout session %s has invalid productId metadata %q: %v", session.ID, productHex, err)
	}

	unlock := s.locks.LockItem(productHex)
	defer unlock()

	product, err := s.db.Product(productID)
	if err != nil {
		return fmt.Errorf("product %s not found for session %s: %v", productHex, session.ID, err)
	}

	if err := s.db.MarkProductSold(productID); err != nil {
		if err != db.ErrProductSold {
			return fmt.Errorf("failed to mark product %s sold: %v", productHex, err)
		}
		// the sold flag can already be set with the order still missing if a
		// previous delivery failed between the two writes; only a recorded
		// order makes the redelivery a no-op
		if _, err := s.db.OrderBySessionID(session.ID); err == nil {
			log.Warnf("payments webhook: product %s already sold, session %s not fulfilled twice",
				productHex, session.ID)
			return nil
		} else if err != db.ErrNotFound {
			return fmt.Errorf("failed to look up order for session %s: %v", session.ID, err)
		}
	}

	order := &db.Order{
		Kind:            db.OrderKindProductSale,
		ProductID:       productID,
		BuyerEmail:      buyerEmail(session),
		AmountCents:     session.AmountTotal,
		FeeCents:        DirectSaleFee(product.PriceCents),
		SessionID:       session.ID,
		PaymentIntentID: paymentIntentID(session),
		Status:          db.OrderStatusPaid,
		CreatedAt:       time.Now(),
	}
	if _, err := s.db.SetOrder(order); err != nil {
		return fmt.Errorf("failed to record order for session %s: %v", session.ID, err)
	}

	s.notifyBuyer(order.BuyerEmail,
		"Your GreekMarket order is confirmed",
		fmt.Sprintf("Your purchase of %q is confirmed. Order total: %s.", product.Name, formatCents(order.AmountCents)))

	log.Infof("payments webhook: product sale fulfilled (product=%s, session=%s, amount=%d)",
		productHex, session.ID, session.AmountTotal)
	return nil
}

// fulfillStewardClaim claims the listing exactly once and records the order.
func (s *Service) fulfillStewardClaim(session *stripeapi.CheckoutSession) error {
	listingHex := session.Metadata["listingId"]
	listingID, err := internal.ObjectIDFromHex(listingHex)
	if err != nil {
		return fmt.Errorf("checkout session %s has invalid listingId metadata %q: %v", session.ID, listingHex, err)
	}

	unlock := s.locks.LockItem(listingHex)
	defer unlock()

	listing, err := s.db.Listing(listingID)
	if err != nil {
		return fmt.Errorf("listing %s not found for session %s: %v", listingHex, session.ID, err)
	}

	buyer := buyerEmail(session)
	if err := s.db.ClaimListing(listingID, buyer); err != nil {
		if err != db.ErrListingClaimed {
			return fmt.Errorf("failed to claim listing %s: %v", listingHex, err)
		}
		// the claim flag can already be set with the order still missing if a
		// previous delivery failed between the two writes; only a recorded
		// order makes the redelivery a no-op
		if _, err := s.db.OrderBySessionID(session.ID); err == nil {
			log.Warnf("payments webhook: listing %s already claimed, session %s not fulfilled twice",
				listingHex, session.ID)
			return nil
		} else if err != db.ErrNotFound {
			return fmt.Errorf("failed to look up order for session %s: %v", session.ID, err)
		}
	}

	donation := metadataCents(session, "chapterDonationCents")
	shipping := metadataCents(session, "shippingCents")
	order := &db.Order{
		Kind:            db.OrderKindStewardClaim,
		ListingID:       listingID,
		BuyerEmail:      buyer,
		AmountCents:     session.AmountTotal,
		ShippingCents:   shipping,
		DonationCents:   donation,
		FeeCents:        session.AmountTotal - shipping - donation,
		SessionID:       session.ID,
		PaymentIntentID: paymentIntentID(session),
		Status:          db.OrderStatusPaid,
		CreatedAt:       time.Now(),
	}
	if _, err := s.db.SetOrder(order); err != nil {
		return fmt.Errorf("failed to record order for session %s: %v", session.ID, err)
	}

	s.notifyBuyer(buyer,
		"Your GreekMarket claim is confirmed",
		fmt.Sprintf("Your claim of %q is confirmed. Total charged: %s.", listing.Name, formatCents(order.AmountCents)))
	s.notifySteward(listing, buyer)

	log.Infof("payments webhook: steward claim fulfilled (listing=%s, session=%s, amount=%d)",
		listingHex, session.ID, session.AmountTotal)
	return nil
}

// notifyBuyer sends a plain-text confirmation mail, best effort.
func (s *Service) notifyBuyer(email, subject, body string) {
	if s.mail == nil || email == "" {
		return
	}
	notification := &notifications.Notification{
		ToAddress: email,
		Subject:   subject,
		PlainBody: body,
		Body:      body,
	}
	if err := s.mail.SendNotification(context.Background(), notification); err != nil {
		log.Warnf("payments webhook: failed to send buyer notification to %s: %v", email, err)
	}
}

// notifySteward tells the steward by SMS that the item needs to ship.
func (s *Service) notifySteward(listing *db.Listing, buyer string) {
	if s.sms == nil {
		return
	}
	steward, err := s.db.Party(listing.StewardID)
	if err != nil || steward.Phone == "" {
		return
	}
	notification := &notifications.Notification{
		ToNumber: steward.Phone,
		Body:     fmt.Sprintf("GreekMarket: %q was claimed by %s. Please arrange shipping.", listing.Name, buyer),
	}
	if err := s.sms.SendNotification(context.Background(), notification); err != nil {
		log.Warnf("payments webhook: failed to send steward SMS for listing %s: %v", listing.ID, err)
	}
}

// parseCheckoutSessionFromEvent extracts the checkout session from a webhook event
func parseCheckoutSessionFromEvent(event *stripeapi.Event) (*stripeapi.CheckoutSession, error) {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %v", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session missing id")
	}
	return &session, nil
}

func buyerEmail(session *stripeapi.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}

func paymentIntentID(session *stripeapi.CheckoutSession) string {
	if session.PaymentIntent == nil {
		return ""
	}
	return session.PaymentIntent.ID
}

func metadataCents(session *stripeapi.CheckoutSession, key string) int64 {
	cents, err := strconv.ParseInt(session.Metadata[key], 10, 64)
	if err != nil {
		return 0
	}
	return cents
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
