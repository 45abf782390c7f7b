package loyalty

import (
	"math"
)

// Gate decides whether staff operations may mutate the ledger.
// Authorized is evaluated at call time against the current settings.
type Gate interface {
	Authorized(settings RewardSettings) bool
}

// PIN is a one-shot Gate: it authorizes when it equals the merchant PIN in
// force at the time of the call.
type PIN string

// Authorized implements Gate.
func (p PIN) Authorized(settings RewardSettings) bool {
	return Unlock(settings, string(p))
}

// Unlock reports whether entered matches the merchant PIN.
// It is a shop-floor gate, not access control: no lockout, no attempt log.
func Unlock(settings RewardSettings, entered string) bool {
	return entered == settings.MerchantPIN
}

// StampsFor returns how many stamps a qualifying transaction earns.
//
// With OneStampPerTxn set (the default) every qualifying transaction earns
// exactly one stamp. Without it, a transaction earns one stamp per whole
// multiple of the minimum spend; a zero minimum always earns one.
func StampsFor(settings RewardSettings, amount float64) int {
	if settings.OneStampPerTxn || settings.MinSpendPerStamp <= 0 {
		return 1
	}
	n := int(math.Floor(amount / settings.MinSpendPerStamp))
	if n < 1 {
		n = 1
	}
	return n
}

// AddStamp credits a qualifying transaction to the customer at phone.
//
// Checks run in order: gate, customer exists, amount is a finite number at or
// above the minimum spend. Each call is a distinct transaction; two calls earn
// twice.
func AddStamp(doc *Document, env Env, gate Gate, phone string, amount float64) (Customer, error) {
	settings := doc.Settings
	if gate == nil || !gate.Authorized(settings) {
		return Customer{}, NewUnauthorizedError()
	}

	c, ok := doc.Customers[NormalizePhone(phone)]
	if !ok {
		return Customer{}, NewNotFoundError(phone)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Customer{}, NewValidationError("amount", "transaction amount must be a number")
	}
	if amount < settings.MinSpendPerStamp {
		return Customer{}, NewBelowMinimumSpendError(amount, settings.MinSpendPerStamp)
	}

	earned := StampsFor(settings, amount)
	c.Stamps += earned
	doc.Customers[c.Phone] = c

	AppendActivity(doc, env, ActivityStamp, c.Phone, map[string]any{
		"amount": amount,
		"stamps": earned,
	})

	return c, nil
}

// Redeem spends one reward's worth of stamps and returns the discount to apply.
//
// The cost is the current StampsPerReward; any surplus carries over. A
// customer below the threshold gets InsufficientStamps and nothing changes.
func Redeem(doc *Document, env Env, gate Gate, phone string) (Customer, int, error) {
	settings := doc.Settings
	if gate == nil || !gate.Authorized(settings) {
		return Customer{}, 0, NewUnauthorizedError()
	}

	c, ok := doc.Customers[NormalizePhone(phone)]
	if !ok {
		return Customer{}, 0, NewNotFoundError(phone)
	}

	cost := settings.StampsPerReward
	if c.Stamps < cost {
		return Customer{}, 0, NewInsufficientStampsError(c.Stamps, cost)
	}

	c.Stamps -= cost
	c.RewardsRedeemed++
	doc.Customers[c.Phone] = c

	AppendActivity(doc, env, ActivityRedeem, c.Phone, map[string]any{
		"discountPercent": settings.DiscountPercent,
		"stampsUsed":      cost,
	})

	return c, settings.DiscountPercent, nil
}

// Progress is a customer's standing toward the next reward.
type Progress struct {
	Stamps    int  `json:"stamps"`
	Needed    int  `json:"needed"`
	Remaining int  `json:"remaining"`
	CanRedeem bool `json:"canRedeem"`
}

// ProgressFor computes the stamp card view for a customer.
func ProgressFor(c Customer, settings RewardSettings) Progress {
	remaining := settings.StampsPerReward - c.Stamps
	if remaining < 0 {
		remaining = 0
	}
	return Progress{
		Stamps:    c.Stamps,
		Needed:    settings.StampsPerReward,
		Remaining: remaining,
		CanRedeem: c.Stamps >= settings.StampsPerReward,
	}
}

// Card is a customer as shown at the counter: the record, its derived code
// and its progress toward the next reward.
type Card struct {
	Customer
	Code     string   `json:"code"`
	Progress Progress `json:"progress"`
}

// CardFor builds the card view of c under settings.
func CardFor(c Customer, settings RewardSettings) Card {
	return Card{
		Customer: c,
		Code:     DeriveCode(c.Phone),
		Progress: ProgressFor(c, settings),
	}
}
