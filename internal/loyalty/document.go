package loyalty

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// StorageKey is the fixed key the document is persisted under.
const StorageKey = "gibbs-bakehouse-loyalty"

// DefaultSettings are the reward rules of a fresh install.
func DefaultSettings() RewardSettings {
	return RewardSettings{
		StampsPerReward:  10,
		MinSpendPerStamp: 10,
		OneStampPerTxn:   true,
		DiscountPercent:  10,
		MerchantPIN:      DefaultMerchantPIN,
		PlaySound:        true,
	}
}

// DefaultBakery is the shop information of a fresh install.
func DefaultBakery() BakeryConfig {
	return BakeryConfig{
		Name:    "The Gibbs Family Bakehouse",
		Address: "Shop 16, 44 Toyon Rd, Kalkallo VIC",
		Hours:   "7:00am – 5:00pm, 7 days",
	}
}

// DefaultDocument builds the document used when nothing usable is stored:
// default settings, no customers, no activity and one special for today.
func DefaultDocument(env Env) *Document {
	return &Document{
		Bakery:    DefaultBakery(),
		Settings:  DefaultSettings(),
		Customers: map[string]Customer{},
		Activity:  []ActivityEntry{},
		Specials: []Special{{
			ID:    env.IDs.Generate(),
			Title: "Morning Croissant + Coffee",
			Price: "$9.90",
			Desc:  "Buttery croissant & small flat white",
			Day:   DateKey(env.Clock.Now()),
		}},
	}
}

// Clone returns a copy that shares nothing mutable with d.
// Activity meta maps are shared; entries are immutable once created.
func (d *Document) Clone() *Document {
	return &Document{
		Bakery:    d.Bakery,
		Settings:  d.Settings,
		Customers: maps.Clone(d.Customers),
		Activity:  slices.Clone(d.Activity),
		Specials:  slices.Clone(d.Specials),
	}
}

// normalize replaces nil collections with empty ones so the encoded document
// always has the full shape.
func (d *Document) normalize() {
	if d.Customers == nil {
		d.Customers = map[string]Customer{}
	}
	if d.Activity == nil {
		d.Activity = []ActivityEntry{}
	}
	if d.Specials == nil {
		d.Specials = []Special{}
	}
}

// Encode serializes the document for storage.
func Encode(d *Document) ([]byte, error) {
	c := d.Clone()
	c.normalize()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses a stored document. It checks JSON syntax and Go types only;
// shape rules are enforced by the schema package before Decode is called.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	d.normalize()
	return &d, nil
}
