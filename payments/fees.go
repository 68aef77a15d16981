package payments

import (
	"errors"
	"math/big"
	"strconv"

	"github.com/greekmarket/marketplace-backend/db"
	"go.vocdoni.io/dvote/log"
)

// Recognized platform settings keys for the steward-claim fee policy.
const (
	SettingFeePercentage = "steward_platform_fee_percentage"
	SettingFeeFlatCents  = "steward_platform_fee_flat_cents"
)

// Two independent fee policies coexist on purpose: direct product sales pay a
// fixed 8% cut, while steward claims use the configurable policy below with a
// 5% default. They must not be unified.
const (
	directSaleFeePercent = 8
	defaultFeePercent    = 5
)

// SettingsStore supplies platform configuration values. Absence of a key is
// signaled with db.ErrNotFound.
type SettingsStore interface {
	PlatformSetting(key string) (*db.PlatformSetting, error)
}

// FeeResolver computes the platform's cut of a steward claim from external
// configuration. Settings are read per resolution; they are treated as
// eventually-consistent configuration, not a transactional ledger.
type FeeResolver struct {
	settings SettingsStore
}

// NewFeeResolver creates a fee resolver backed by the given settings store
func NewFeeResolver(settings SettingsStore) *FeeResolver {
	return &FeeResolver{settings: settings}
}

// ResolvePlatformFee returns the platform fee in cents for the given basis
// amount. Precedence is fixed: a percentage setting in (0,1] wins, then a
// non-negative flat setting, then the hard-coded default. A malformed or
// out-of-range setting is treated as absent rather than an error, so an
// operator typo never blocks checkouts.
func (fr *FeeResolver) ResolvePlatformFee(basisCents int64) (int64, error) {
	if basisCents < 0 {
		return 0, NewPaymentError(CodeInvalidRequest, "negative fee basis", nil)
	}

	value, err := fr.setting(SettingFeePercentage)
	if err != nil {
		return 0, err
	}
	if rate, ok := parsePercentage(value); ok {
		return applyRate(basisCents, rate), nil
	}

	value, err = fr.setting(SettingFeeFlatCents)
	if err != nil {
		return 0, err
	}
	if flat, ok := parseFlatCents(value); ok {
		return flat, nil
	}

	return roundedShare(basisCents, defaultFeePercent, 100), nil
}

// DirectSaleFee returns the application fee for a direct product sale: a
// fixed 8% of the item price, independent of any platform setting.
func DirectSaleFee(priceCents int64) int64 {
	return roundedShare(priceCents, directSaleFeePercent, 100)
}

// setting reads one settings row, mapping absence to an empty value.
func (fr *FeeResolver) setting(key string) (string, error) {
	setting, err := fr.settings.PlatformSetting(key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", nil
		}
		return "", NewPaymentError(CodeAPICallFailed, "failed to read platform setting", err)
	}
	return setting.Value, nil
}

// parsePercentage accepts a decimal string in (0,1]. Anything else, including
// out-of-range values like "1.5", is reported as unusable so resolution falls
// through to the next step.
func parsePercentage(value string) (*big.Rat, bool) {
	if value == "" {
		return nil, false
	}
	rate, ok := new(big.Rat).SetString(value)
	if !ok {
		log.Warnf("fee resolver: unparseable percentage setting %q, falling through", value)
		return nil, false
	}
	if rate.Sign() <= 0 || rate.Cmp(big.NewRat(1, 1)) > 0 {
		log.Warnf("fee resolver: percentage setting %q out of (0,1], falling through", value)
		return nil, false
	}
	return rate, true
}

func parseFlatCents(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	flat, err := strconv.ParseInt(value, 10, 64)
	if err != nil || flat < 0 {
		log.Warnf("fee resolver: unusable flat fee setting %q, falling through", value)
		return 0, false
	}
	return flat, true
}

// applyRate multiplies the basis by an exact rational rate, rounding half-up
// on cents. Currency math never touches floating point.
func applyRate(basisCents int64, rate *big.Rat) int64 {
	n := new(big.Int).Mul(rate.Num(), big.NewInt(basisCents))
	q, r := new(big.Int).QuoRem(n, rate.Denom(), new(big.Int))
	if r.Lsh(r, 1).Cmp(rate.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

// roundedShare returns round-half-up of amountCents*num/den using integer
// arithmetic only.
func roundedShare(amountCents, num, den int64) int64 {
	return (amountCents*num + den/2) / den
}
