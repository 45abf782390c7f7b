package engine

import (
	"context"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// AddStamp credits a transaction of amount to the customer matching query
// (a phone or a derived code).
//
// The gate is checked before the customer is resolved, so a locked caller
// learns nothing about who exists.
func (e *Engine) AddStamp(ctx context.Context, gate loyalty.Gate, query string, amount float64) (loyalty.Customer, error) {
	var c loyalty.Customer
	err := e.mutate(ctx, "stamp", func(doc *loyalty.Document, env loyalty.Env) error {
		phone, err := resolve(doc, gate, query)
		if err != nil {
			return err
		}
		c, err = loyalty.AddStamp(doc, env, gate, phone, amount)
		return err
	})
	return c, err
}

// Redeem spends one reward for the customer matching query and returns the
// discount percent to apply.
func (e *Engine) Redeem(ctx context.Context, gate loyalty.Gate, query string) (loyalty.Customer, int, error) {
	var (
		c        loyalty.Customer
		discount int
	)
	err := e.mutate(ctx, "redeem", func(doc *loyalty.Document, env loyalty.Env) error {
		phone, err := resolve(doc, gate, query)
		if err != nil {
			return err
		}
		c, discount, err = loyalty.Redeem(doc, env, gate, phone)
		return err
	})
	return c, discount, err
}

// resolve maps a phone-or-code query to a phone key for an authorized gate.
func resolve(doc *loyalty.Document, gate loyalty.Gate, query string) (string, error) {
	if gate == nil || !gate.Authorized(doc.Settings) {
		return "", loyalty.NewUnauthorizedError()
	}
	c, err := loyalty.Lookup(doc, query)
	if err != nil {
		return "", err
	}
	return c.Phone, nil
}
