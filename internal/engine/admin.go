package engine

import (
	"context"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// Settings returns the reward settings in force.
func (e *Engine) Settings() loyalty.RewardSettings {
	var s loyalty.RewardSettings
	e.read(func(doc *loyalty.Document) { s = doc.Settings })
	return s
}

// SaveSettings replaces the reward settings. Needs an authorized gate,
// checked against the settings being replaced.
func (e *Engine) SaveSettings(ctx context.Context, gate loyalty.Gate, s loyalty.RewardSettings) (loyalty.RewardSettings, error) {
	var saved loyalty.RewardSettings
	err := e.mutate(ctx, "settings", func(doc *loyalty.Document, env loyalty.Env) error {
		if gate == nil || !gate.Authorized(doc.Settings) {
			return loyalty.NewUnauthorizedError()
		}
		var err error
		saved, err = loyalty.SaveSettings(doc, env, s)
		return err
	})
	return saved, err
}

// SetPlaySound toggles the launch-sound preference. No gate is needed.
func (e *Engine) SetPlaySound(ctx context.Context, on bool) error {
	return e.mutate(ctx, "sound", func(doc *loyalty.Document, _ loyalty.Env) error {
		if doc.Settings.PlaySound == on {
			return errNoChange
		}
		loyalty.SetPlaySound(doc, on)
		return nil
	})
}

// Bakery returns the shop display information.
func (e *Engine) Bakery() loyalty.BakeryConfig {
	var b loyalty.BakeryConfig
	e.read(func(doc *loyalty.Document) { b = doc.Bakery })
	return b
}

// SaveBakery replaces the shop display information. Needs an authorized gate.
func (e *Engine) SaveBakery(ctx context.Context, gate loyalty.Gate, cfg loyalty.BakeryConfig) (loyalty.BakeryConfig, error) {
	var saved loyalty.BakeryConfig
	err := e.mutate(ctx, "bakery", func(doc *loyalty.Document, _ loyalty.Env) error {
		if gate == nil || !gate.Authorized(doc.Settings) {
			return loyalty.NewUnauthorizedError()
		}
		var err error
		saved, err = loyalty.SaveBakery(doc, cfg)
		return err
	})
	return saved, err
}

// Activity returns up to limit of the newest activity entries; a
// non-positive limit returns everything retained.
func (e *Engine) Activity(limit int) []loyalty.ActivityEntry {
	var out []loyalty.ActivityEntry
	e.read(func(doc *loyalty.Document) { out = loyalty.RecentActivity(doc, limit) })
	return out
}
