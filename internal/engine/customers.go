package engine

import (
	"context"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// SignIn returns the customer for phone, creating it on first sign-in.
// created reports whether a new record was made; only then is anything saved.
func (e *Engine) SignIn(ctx context.Context, phone, name string) (c loyalty.Customer, created bool, err error) {
	err = e.mutate(ctx, "signin", func(doc *loyalty.Document, env loyalty.Env) error {
		var err error
		c, created, err = loyalty.SignIn(doc, env, phone, name)
		if err != nil {
			return err
		}
		if !created {
			return errNoChange
		}
		return nil
	})
	return c, created, err
}

// Lookup finds a customer by phone or derived code.
func (e *Engine) Lookup(query string) (loyalty.Customer, error) {
	var (
		c   loyalty.Customer
		err error
	)
	e.read(func(doc *loyalty.Document) { c, err = loyalty.Lookup(doc, query) })
	return c, err
}

// Code returns the derived display code for phone. The phone need not belong
// to a customer.
func (e *Engine) Code(phone string) (string, error) {
	p := loyalty.NormalizePhone(phone)
	if p == "" {
		return "", loyalty.NewValidationError("phone", "phone number is required")
	}
	return loyalty.DeriveCode(p), nil
}

// Customers returns every customer ordered by phone.
func (e *Engine) Customers() []loyalty.Customer {
	var out []loyalty.Customer
	e.read(func(doc *loyalty.Document) { out = doc.SortedCustomers() })
	return out
}

// Progress returns c's standing under the current settings.
func (e *Engine) Progress(c loyalty.Customer) loyalty.Progress {
	return loyalty.ProgressFor(c, e.Settings())
}

// Card returns c's counter view under the current settings.
func (e *Engine) Card(c loyalty.Customer) loyalty.Card {
	return loyalty.CardFor(c, e.Settings())
}
