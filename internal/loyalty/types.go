package loyalty

import "time"

// BakeryConfig is the static display information for the shop.
type BakeryConfig struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Address string `json:"address" yaml:"address"`
	Hours   string `json:"hours" yaml:"hours"`
}

// RewardSettings are the rules the ledger applies. There is one instance per
// document and it changes only through SaveSettings.
type RewardSettings struct {
	StampsPerReward  int     `json:"stampsPerReward" yaml:"stampsPerReward" validate:"min=1"`
	MinSpendPerStamp float64 `json:"minSpendPerStamp" yaml:"minSpendPerStamp" validate:"min=0"`
	OneStampPerTxn   bool    `json:"oneStampPerTxn" yaml:"oneStampPerTxn"`
	DiscountPercent  int     `json:"discountPercent" yaml:"discountPercent" validate:"min=0,max=100"`
	MerchantPIN      string  `json:"merchantPIN" yaml:"merchantPIN"`
	PlaySound        bool    `json:"playSound" yaml:"playSound"`
}

// Customer is a loyalty card holder keyed by normalized phone.
type Customer struct {
	Phone           string `json:"phone"`
	Name            string `json:"name"`
	Stamps          int    `json:"stamps"`
	RewardsRedeemed int    `json:"rewardsRedeemed"`
	CreatedAt       int64  `json:"createdAt"` // unix milliseconds
}

// ActivityType names the kind of event recorded in the activity log.
type ActivityType string

const (
	ActivitySignup   ActivityType = "signup"
	ActivityStamp    ActivityType = "stamp"
	ActivityRedeem   ActivityType = "redeem"
	ActivitySettings ActivityType = "settings"
)

// ActivityEntry is one immutable audit record.
type ActivityEntry struct {
	ID   string         `json:"id"`
	TS   int64          `json:"ts"` // unix milliseconds
	Type ActivityType   `json:"type"`
	Who  string         `json:"who"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Special is a promotional item shown on its day.
type Special struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Desc  string `json:"desc"`
	Day   string `json:"day"`
}

// Document is the whole persisted state of the application.
type Document struct {
	Bakery    BakeryConfig        `json:"bakery"`
	Settings  RewardSettings      `json:"settings"`
	Customers map[string]Customer `json:"customers"`
	Activity  []ActivityEntry     `json:"activity"`
	Specials  []Special           `json:"specials"`
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies unique identifiers for activity entries and specials.
type IDGenerator interface {
	Generate() string
}

// Env bundles the collaborators update functions need.
type Env struct {
	Clock Clock
	IDs   IDGenerator
}

func (e Env) nowMillis() int64 {
	return e.Clock.Now().UnixMilli()
}
