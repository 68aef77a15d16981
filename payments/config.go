package payments

import (
	"os"
	"strings"
)

// Stripe key prefixes. Server-side calls must be authenticated with a secret
// or restricted key; a publishable key here is a deployment mistake that
// would otherwise only surface on the first checkout attempt.
const (
	secretKeyPrefix      = "sk_"
	restrictedKeyPrefix  = "rk_"
	publishableKeyPrefix = "pk_"
)

// Config holds the complete Stripe configuration
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
}

// NewConfig creates a new payments configuration from the given credentials.
// The API key format is checked here, at startup, so a misconfigured service
// fails loudly before serving any traffic.
func NewConfig(apiKey, webhookSecret string) (*Config, error) {
	if err := ValidateAPIKey(apiKey); err != nil {
		return nil, err
	}
	if webhookSecret == "" {
		return nil, NewPaymentError(CodeInvalidConfiguration, "stripe webhook secret is required", nil)
	}
	return &Config{
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
	}, nil
}

// NewConfigFromEnv creates a new payments configuration from environment variables
func NewConfigFromEnv() (*Config, error) {
	return NewConfig(
		os.Getenv("GREEKMARKET_STRIPEAPISECRET"),
		os.Getenv("GREEKMARKET_STRIPEWEBHOOKSECRET"),
	)
}

// ValidateAPIKey checks that the given key is usable as a server-side Stripe
// secret key.
func ValidateAPIKey(key string) error {
	switch {
	case key == "":
		return NewPaymentError(CodeInvalidConfiguration, "stripe secret key is required", nil)
	case strings.HasPrefix(key, publishableKeyPrefix):
		return NewPaymentError(CodeInvalidConfiguration,
			"publishable key provided where a secret key is required", nil)
	case !strings.HasPrefix(key, secretKeyPrefix) && !strings.HasPrefix(key, restrictedKeyPrefix):
		return NewPaymentError(CodeInvalidConfiguration, "unrecognized stripe key format", nil)
	}
	return nil
}
