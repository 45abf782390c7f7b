package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// AddSpecial schedules a special. It is an admin action and needs an
// authorized gate.
func (e *Engine) AddSpecial(ctx context.Context, gate loyalty.Gate, in loyalty.SpecialInput) (loyalty.Special, error) {
	var sp loyalty.Special
	err := e.mutate(ctx, "special", func(doc *loyalty.Document, env loyalty.Env) error {
		if gate == nil || !gate.Authorized(doc.Settings) {
			return loyalty.NewUnauthorizedError()
		}
		var err error
		sp, err = loyalty.AddSpecial(doc, env, in)
		return err
	})
	return sp, err
}

// ImportSpecials adds every input in order as one mutation.
//
// If any input is rejected nothing is added and the error names its
// position (1-based). Retention still applies, so importing more than
// loyalty.MaxSpecials keeps only the newest.
func (e *Engine) ImportSpecials(ctx context.Context, gate loyalty.Gate, inputs []loyalty.SpecialInput) ([]loyalty.Special, error) {
	var added []loyalty.Special
	err := e.mutate(ctx, "import-specials", func(doc *loyalty.Document, env loyalty.Env) error {
		if gate == nil || !gate.Authorized(doc.Settings) {
			return loyalty.NewUnauthorizedError()
		}
		added = make([]loyalty.Special, 0, len(inputs))
		for i, in := range inputs {
			sp, err := loyalty.AddSpecial(doc, env, in)
			if err != nil {
				var le *loyalty.Error
				if errors.As(err, &le) {
					le.Message = fmt.Sprintf("special %d: %s", i+1, le.Message)
				}
				return err
			}
			added = append(added, sp)
		}
		if len(added) == 0 {
			return errNoChange
		}
		return nil
	})
	return added, err
}

// SpecialsToday returns the specials scheduled for the clock's current day.
func (e *Engine) SpecialsToday() []loyalty.Special {
	var out []loyalty.Special
	e.read(func(doc *loyalty.Document) { out = loyalty.ListToday(doc, e.clock.Now()) })
	return out
}

// SpecialsForDay returns the specials scheduled for a date-key.
func (e *Engine) SpecialsForDay(key string) []loyalty.Special {
	var out []loyalty.Special
	e.read(func(doc *loyalty.Document) { out = loyalty.SpecialsForDay(doc, key) })
	return out
}

// Specials returns every retained special, newest first.
func (e *Engine) Specials() []loyalty.Special {
	var out []loyalty.Special
	e.read(func(doc *loyalty.Document) { out = append([]loyalty.Special{}, doc.Specials...) })
	return out
}
