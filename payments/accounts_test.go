package payments

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v82"
)

// providerStub implements ProviderAPI with injectable behavior per call.
type providerStub struct {
	accounts        map[string]*stripeapi.Account
	accountErr      error
	linkErr         error
	sessionErr      error
	sessionParams   []*stripeapi.CheckoutSessionParams
	sessionResponse *stripeapi.CheckoutSession
}

func (p *providerStub) Account(accountID string) (*stripeapi.Account, error) {
	if p.accountErr != nil {
		return nil, p.accountErr
	}
	acct, ok := p.accounts[accountID]
	if !ok {
		return nil, &stripeapi.Error{
			Type: stripeapi.ErrorTypeInvalidRequest,
			Msg:  fmt.Sprintf("No such account: %s", accountID),
		}
	}
	return acct, nil
}

func (p *providerStub) NewAccountLink(params *stripeapi.AccountLinkParams) (*stripeapi.AccountLink, error) {
	if p.linkErr != nil {
		return nil, p.linkErr
	}
	return &stripeapi.AccountLink{URL: "https://connect.stripe.test/setup/" + *params.Account}, nil
}

func (p *providerStub) NewCheckoutSession(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	p.sessionParams = append(p.sessionParams, params)
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	if p.sessionResponse != nil {
		return p.sessionResponse, nil
	}
	return &stripeapi.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

// readyAccount returns a connected account whose transfers capability is
// active.
func readyAccount(id string) *stripeapi.Account {
	return &stripeapi.Account{
		ID:      id,
		Country: "US",
		Capabilities: &stripeapi.AccountCapabilities{
			CardPayments: stripeapi.AccountCapabilityStatusActive,
			Transfers:    stripeapi.AccountCapabilityStatusActive,
		},
	}
}

func TestResolveSettlementAccountEmptyID(t *testing.T) {
	c := qt.New(t)

	d := NewAccountDirectory(&providerStub{})
	_, err := d.ResolveSettlementAccount("")
	c.Assert(HasCode(err, CodeAccountInvalid), qt.IsTrue)
}

func TestResolveSettlementAccountUnknown(t *testing.T) {
	c := qt.New(t)

	d := NewAccountDirectory(&providerStub{accounts: map[string]*stripeapi.Account{}})
	_, err := d.ResolveSettlementAccount("acct_missing")
	c.Assert(HasCode(err, CodeAccountInvalid), qt.IsTrue)
}

func TestResolveSettlementAccountProviderFailure(t *testing.T) {
	c := qt.New(t)

	d := NewAccountDirectory(&providerStub{accountErr: fmt.Errorf("connection reset")})
	_, err := d.ResolveSettlementAccount("acct_1")
	c.Assert(HasCode(err, CodeAPICallFailed), qt.IsTrue)
}

func TestResolveSettlementAccountNotReady(t *testing.T) {
	c := qt.New(t)

	// capabilities never requested
	d := NewAccountDirectory(&providerStub{accounts: map[string]*stripeapi.Account{
		"acct_new": {ID: "acct_new", Country: "US"},
	}})
	_, err := d.ResolveSettlementAccount("acct_new")
	c.Assert(HasCode(err, CodeAccountNotSettlementReady), qt.IsTrue)

	// transfers still pending
	d = NewAccountDirectory(&providerStub{accounts: map[string]*stripeapi.Account{
		"acct_pending": {
			ID:      "acct_pending",
			Country: "US",
			Capabilities: &stripeapi.AccountCapabilities{
				CardPayments: stripeapi.AccountCapabilityStatusActive,
				Transfers:    stripeapi.AccountCapabilityStatusPending,
			},
		},
	}})
	_, err = d.ResolveSettlementAccount("acct_pending")
	c.Assert(HasCode(err, CodeAccountNotSettlementReady), qt.IsTrue)
}

func TestResolveSettlementAccountReady(t *testing.T) {
	c := qt.New(t)

	d := NewAccountDirectory(&providerStub{accounts: map[string]*stripeapi.Account{
		"acct_ok": readyAccount("acct_ok"),
	}})
	account, err := d.ResolveSettlementAccount("acct_ok")
	c.Assert(err, qt.IsNil)
	c.Assert(account.ID, qt.Equals, "acct_ok")
	c.Assert(account.Country, qt.Equals, "US")
	c.Assert(account.Transfers, qt.Equals, CapabilityActive)
	c.Assert(account.CardPayments, qt.Equals, CapabilityActive)
}

func TestOnboardingLink(t *testing.T) {
	c := qt.New(t)

	d := NewAccountDirectory(&providerStub{})
	url, err := d.OnboardingLink("acct_1", "https://app.test/refresh", "https://app.test/return")
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://connect.stripe.test/setup/acct_1")

	_, err = d.OnboardingLink("", "https://app.test/refresh", "https://app.test/return")
	c.Assert(HasCode(err, CodeAccountInvalid), qt.IsTrue)

	d = NewAccountDirectory(&providerStub{linkErr: fmt.Errorf("boom")})
	_, err = d.OnboardingLink("acct_1", "https://app.test/refresh", "https://app.test/return")
	c.Assert(HasCode(err, CodeAPICallFailed), qt.IsTrue)
}
