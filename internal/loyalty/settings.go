package loyalty

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMerchantPIN is the PIN of a fresh install, and the PIN an admin save
// falls back to when the field is left blank.
const DefaultMerchantPIN = "1357"

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags and reports the first failure as a
// validation *Error naming the field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, fmt.Sprintf("%s is required", field))
	case "min":
		return NewValidationError(field, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max":
		return NewValidationError(field, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	default:
		return NewValidationError(field, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// SaveSettings replaces the reward settings after validation.
//
// A blank PIN falls back to DefaultMerchantPIN. When anything changed a
// settings activity entry lists the changed field names; the PIN value itself
// is never written to the log.
func SaveSettings(doc *Document, env Env, s RewardSettings) (RewardSettings, error) {
	s.MerchantPIN = strings.TrimSpace(s.MerchantPIN)
	if s.MerchantPIN == "" {
		s.MerchantPIN = DefaultMerchantPIN
	}
	if err := validateStruct(s); err != nil {
		return RewardSettings{}, err
	}

	changed := changedSettings(doc.Settings, s)
	doc.Settings = s
	if len(changed) > 0 {
		AppendActivity(doc, env, ActivitySettings, "admin", map[string]any{
			"changed": changed,
		})
	}

	return s, nil
}

func changedSettings(old, next RewardSettings) []string {
	var changed []string
	if old.StampsPerReward != next.StampsPerReward {
		changed = append(changed, "stampsPerReward")
	}
	if old.MinSpendPerStamp != next.MinSpendPerStamp {
		changed = append(changed, "minSpendPerStamp")
	}
	if old.OneStampPerTxn != next.OneStampPerTxn {
		changed = append(changed, "oneStampPerTxn")
	}
	if old.DiscountPercent != next.DiscountPercent {
		changed = append(changed, "discountPercent")
	}
	if old.MerchantPIN != next.MerchantPIN {
		changed = append(changed, "merchantPIN")
	}
	if old.PlaySound != next.PlaySound {
		changed = append(changed, "playSound")
	}
	sort.Strings(changed)
	return changed
}

// SetPlaySound flips the launch-sound preference without touching the rest
// of the settings.
func SetPlaySound(doc *Document, on bool) {
	doc.Settings.PlaySound = on
}

// SaveBakery replaces the bakery display information. Name is required.
func SaveBakery(doc *Document, cfg BakeryConfig) (BakeryConfig, error) {
	cfg = BakeryConfig{
		Name:    normalizeText(cfg.Name),
		Address: normalizeText(cfg.Address),
		Hours:   normalizeText(cfg.Hours),
	}
	if err := validateStruct(cfg); err != nil {
		return BakeryConfig{}, err
	}
	doc.Bakery = cfg
	return cfg, nil
}

// PublicSettings is RewardSettings without the merchant PIN, for display.
type PublicSettings struct {
	StampsPerReward  int     `json:"stampsPerReward"`
	MinSpendPerStamp float64 `json:"minSpendPerStamp"`
	OneStampPerTxn   bool    `json:"oneStampPerTxn"`
	DiscountPercent  int     `json:"discountPercent"`
	PlaySound        bool    `json:"playSound"`
}

// Public drops the PIN.
func (s RewardSettings) Public() PublicSettings {
	return PublicSettings{
		StampsPerReward:  s.StampsPerReward,
		MinSpendPerStamp: s.MinSpendPerStamp,
		OneStampPerTxn:   s.OneStampPerTxn,
		DiscountPercent:  s.DiscountPercent,
		PlaySound:        s.PlaySound,
	}
}
