package harness

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// actionFunc runs one scenario action and returns its result fields.
// A *loyalty.Error is a rule outcome; any other error aborts the scenario.
type actionFunc func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error)

var actions = map[string]actionFunc{
	"signin":        signinAction,
	"lookup":        lookupAction,
	"unlock":        unlockAction,
	"lock":          lockAction,
	"stamp":         stampAction,
	"redeem":        redeemAction,
	"add_special":   addSpecialAction,
	"save_settings": saveSettingsAction,
	"save_bakery":   saveBakeryAction,
	"set_sound":     setSoundAction,
	"advance_clock": advanceClockAction,
}

func signinAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	phone, err := argString(args, "phone")
	if err != nil {
		return nil, err
	}
	name, err := argString(args, "name")
	if err != nil {
		return nil, err
	}

	c, created, err := h.engine.SignIn(ctx, phone, name)
	if err != nil {
		return nil, err
	}
	h.session.Remember(c.Phone)

	res := customerResult(c)
	res["created"] = created
	res["code"] = loyalty.DeriveCode(c.Phone)
	return res, nil
}

func lookupAction(_ context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	query, err := argString(args, "query")
	if err != nil {
		return nil, err
	}
	c, err := h.engine.Lookup(query)
	if err != nil {
		return nil, err
	}
	return customerResult(c), nil
}

func unlockAction(_ context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	pin, err := argString(args, "pin")
	if err != nil {
		return nil, err
	}
	return map[string]any{"unlocked": h.session.Unlock(pin)}, nil
}

func lockAction(_ context.Context, h *Harness, _ map[string]any) (map[string]any, error) {
	h.session.Lock()
	return map[string]any{"unlocked": false}, nil
}

func stampAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	phone, err := h.phoneArg(args)
	if err != nil {
		return nil, err
	}
	amount, err := argFloat(args, "amount")
	if err != nil {
		return nil, err
	}

	c, err := h.engine.AddStamp(ctx, h.session, phone, amount)
	if err != nil {
		return nil, err
	}
	return customerResult(c), nil
}

func redeemAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	phone, err := h.phoneArg(args)
	if err != nil {
		return nil, err
	}

	c, discount, err := h.engine.Redeem(ctx, h.session, phone)
	if err != nil {
		return nil, err
	}
	res := customerResult(c)
	res["discountPercent"] = discount
	return res, nil
}

func addSpecialAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var in loyalty.SpecialInput
	if err := overlay(args, &in); err != nil {
		return nil, err
	}

	sp, err := h.engine.AddSpecial(ctx, h.session, in)
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": sp.ID, "title": sp.Title, "day": sp.Day}, nil
}

func saveSettingsAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	s := h.engine.Settings()
	if err := overlay(args, &s); err != nil {
		return nil, err
	}

	saved, err := h.engine.SaveSettings(ctx, h.session, s)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"stampsPerReward":  saved.StampsPerReward,
		"minSpendPerStamp": saved.MinSpendPerStamp,
		"oneStampPerTxn":   saved.OneStampPerTxn,
		"discountPercent":  saved.DiscountPercent,
	}, nil
}

func saveBakeryAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	b := h.engine.Bakery()
	if err := overlay(args, &b); err != nil {
		return nil, err
	}

	saved, err := h.engine.SaveBakery(ctx, h.session, b)
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": saved.Name}, nil
}

func setSoundAction(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	on, ok := args["on"].(bool)
	if !ok {
		return nil, fmt.Errorf("arg %q must be a bool", "on")
	}
	if err := h.engine.SetPlaySound(ctx, on); err != nil {
		return nil, err
	}
	return map[string]any{"playSound": on}, nil
}

func advanceClockAction(_ context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	by, err := argString(args, "by")
	if err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(by)
	if err != nil {
		return nil, fmt.Errorf("arg %q: %w", "by", err)
	}
	h.clock.Advance(d)
	return map[string]any{"today": loyalty.DateKey(h.clock.Now())}, nil
}

// phoneArg returns args.phone, or the session's last signed-in phone.
func (h *Harness) phoneArg(args map[string]any) (string, error) {
	phone, err := argString(args, "phone")
	if err != nil {
		return "", err
	}
	if phone == "" {
		phone = h.session.LastPhone()
	}
	return phone, nil
}

func customerResult(c loyalty.Customer) map[string]any {
	return map[string]any{
		"phone":           c.Phone,
		"name":            c.Name,
		"stamps":          c.Stamps,
		"rewardsRedeemed": c.RewardsRedeemed,
	}
}

// argString returns a string arg; a missing arg is "".
// Numbers are accepted so unquoted phones and PINs in YAML still work.
func argString(args map[string]any, key string) (string, error) {
	switch v := args[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int:
		return fmt.Sprintf("%d", v), nil
	default:
		return "", fmt.Errorf("arg %q must be a string, got %T", key, v)
	}
}

// argFloat returns a numeric arg.
func argFloat(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("arg %q must be a number, got %T", key, v)
	}
}

// overlay decodes args onto dst through YAML, so only the given fields change.
func overlay(args map[string]any, dst any) error {
	if len(args) == 0 {
		return nil
	}
	data, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
