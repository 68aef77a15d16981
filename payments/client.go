package payments

import (
	stripeapi "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// ProviderAPI is the surface of the payment provider consumed by this
// package. Components take it as a constructor argument instead of reaching
// for a global client, so tests can inject a double.
type ProviderAPI interface {
	// Account retrieves a connected account by its provider identifier.
	Account(accountID string) (*stripeapi.Account, error)
	// NewAccountLink creates an onboarding link for a connected account.
	NewAccountLink(params *stripeapi.AccountLinkParams) (*stripeapi.AccountLink, error)
	// NewCheckoutSession creates a provider-hosted checkout session.
	NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
}

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config *Config
	api    *stripeclient.API
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	api := &stripeclient.API{}
	api.Init(config.APIKey, nil)

	return &Client{
		config: config,
		api:    api,
	}
}

// Account retrieves a connected account by ID
func (c *Client) Account(accountID string) (*stripeapi.Account, error) {
	return c.api.Accounts.GetByID(accountID, &stripeapi.AccountParams{})
}

// NewAccountLink creates an account onboarding link for a connected account
func (c *Client) NewAccountLink(params *stripeapi.AccountLinkParams) (*stripeapi.AccountLink, error) {
	return c.api.AccountLinks.New(params)
}

// NewCheckoutSession creates a new checkout session.
// Overview of stripe checkout mechanics: https://docs.stripe.com/checkout/custom/quickstart
// API description https://docs.stripe.com/api/checkout/sessions
func (c *Client) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	return c.api.CheckoutSessions.New(params)
}

// ValidateWebhookEvent validates and parses a webhook event. The raw payload
// is never interpreted before the signature check succeeds.
func (c *Client) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, c.config.WebhookSecret)
	if err != nil {
		return nil, NewPaymentError(CodeSignatureInvalid, "webhook signature validation failed", err)
	}
	return &event, nil
}
