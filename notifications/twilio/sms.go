// Package twilio provides a Twilio-backed SMS implementation of the
// NotificationService interface.
package twilio

import (
	"context"
	"fmt"
	"os"

	t "github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/greekmarket/marketplace-backend/notifications"
)

const (
	AccountSidEnv = "TWILIO_ACCOUNT_SID"
	AuthTokenEnv  = "TWILIO_AUTH_TOKEN"
)

// TwilioConfig represents the configuration for the Twilio SMS service. It
// contains the account SID, the auth token and the number from which the SMS
// will be sent.
type TwilioConfig struct {
	AccountSid string
	AuthToken  string
	FromNumber string
}

// TwilioSMS is the implementation of the NotificationService interface for the
// Twilio SMS service. It contains the configuration and the Twilio REST client.
type TwilioSMS struct {
	config *TwilioConfig
	client *t.RestClient
}

// New initializes the Twilio SMS service with the configuration. The Twilio
// client reads its credentials from the environment, so the account SID and
// auth token are exported before the client is created.
func (tsms *TwilioSMS) New(rawConfig any) error {
	config, ok := rawConfig.(*TwilioConfig)
	if !ok {
		return fmt.Errorf("invalid Twilio configuration")
	}
	tsms.config = config
	if err := os.Setenv(AccountSidEnv, tsms.config.AccountSid); err != nil {
		return err
	}
	if err := os.Setenv(AuthTokenEnv, tsms.config.AuthToken); err != nil {
		return err
	}
	tsms.client = t.NewRestClient()
	return nil
}

// SendNotification sends an SMS notification to the recipient. It creates a
// message with the configured sender number and the notification data. It
// returns an error if the notification could not be sent or if the context is
// done.
func (tsms *TwilioSMS) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	params := &api.CreateMessageParams{}
	params.SetTo(notification.ToNumber)
	params.SetFrom(tsms.config.FromNumber)
	params.SetBody(notification.Body)
	// send in a goroutine so the context can cancel the wait
	errCh := make(chan error, 1)
	go func() {
		_, err := tsms.client.Api.CreateMessage(params)
		errCh <- err
		close(errCh)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
