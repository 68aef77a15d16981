package payments

import (
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
)

// CapabilityStatus represents the state of a connected account capability.
type CapabilityStatus string

const (
	CapabilityUnrequested CapabilityStatus = "unrequested"
	CapabilityPending     CapabilityStatus = "pending"
	CapabilityInactive    CapabilityStatus = "inactive"
	CapabilityActive      CapabilityStatus = "active"
)

// ConnectAccount is a validated view over a provider-hosted connected
// account. An account with Transfers != active may still complete onboarding
// but must not be used as a transfer destination.
type ConnectAccount struct {
	ID           string
	Country      string
	CardPayments CapabilityStatus
	Transfers    CapabilityStatus
}

// AccountDirectory resolves stored account ids against the provider before
// they are used as payment destinations. It holds no cache: a stale local
// record must never mask a freshly revoked account.
type AccountDirectory struct {
	provider ProviderAPI
}

// NewAccountDirectory creates a new account directory backed by the given provider
func NewAccountDirectory(provider ProviderAPI) *AccountDirectory {
	return &AccountDirectory{provider: provider}
}

// ResolveSettlementAccount looks up the account at the provider and checks it
// can receive transfers. It fails with account_invalid when the id does not
// resolve, and with account_not_settlement_ready when the account exists but
// its transfers capability is not active. It never falls back to another
// account.
func (d *AccountDirectory) ResolveSettlementAccount(accountID string) (*ConnectAccount, error) {
	if accountID == "" {
		return nil, NewPaymentError(CodeAccountInvalid, "empty settlement account id", nil)
	}

	acct, err := d.provider.Account(accountID)
	if err != nil {
		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripeapi.ErrorTypeInvalidRequest {
			return nil, NewPaymentError(CodeAccountInvalid,
				fmt.Sprintf("account %s does not resolve at the provider", accountID), err)
		}
		return nil, NewPaymentError(CodeAPICallFailed, "failed to retrieve account", err)
	}

	account := &ConnectAccount{
		ID:           acct.ID,
		Country:      acct.Country,
		CardPayments: CapabilityUnrequested,
		Transfers:    CapabilityUnrequested,
	}
	if acct.Capabilities != nil {
		account.CardPayments = capabilityStatus(acct.Capabilities.CardPayments)
		account.Transfers = capabilityStatus(acct.Capabilities.Transfers)
	}

	if account.Transfers != CapabilityActive {
		return nil, NewPaymentError(CodeAccountNotSettlementReady,
			fmt.Sprintf("account %s transfers capability is %s", accountID, account.Transfers), nil)
	}
	return account, nil
}

// OnboardingLink creates a provider-hosted onboarding link for the given
// account, so callers can offer re-onboarding to a party whose account is
// not settlement-ready.
func (d *AccountDirectory) OnboardingLink(accountID, refreshURL, returnURL string) (string, error) {
	if accountID == "" {
		return "", NewPaymentError(CodeAccountInvalid, "empty settlement account id", nil)
	}
	link, err := d.provider.NewAccountLink(&stripeapi.AccountLinkParams{
		Account:    stripeapi.String(accountID),
		RefreshURL: stripeapi.String(refreshURL),
		ReturnURL:  stripeapi.String(returnURL),
		Type:       stripeapi.String("account_onboarding"),
	})
	if err != nil {
		return "", NewPaymentError(CodeAPICallFailed, "failed to create account link", err)
	}
	return link.URL, nil
}

func capabilityStatus(status stripeapi.AccountCapabilityStatus) CapabilityStatus {
	switch status {
	case stripeapi.AccountCapabilityStatusActive:
		return CapabilityActive
	case stripeapi.AccountCapabilityStatusPending:
		return CapabilityPending
	case stripeapi.AccountCapabilityStatusInactive:
		return CapabilityInactive
	default:
		return CapabilityUnrequested
	}
}
