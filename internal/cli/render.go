package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// CustomerView is the JSON payload for a customer card.
type CustomerView struct {
	loyalty.Card
	Created bool `json:"created,omitempty"`
}

// RedeemView is the JSON payload for a redemption.
type RedeemView struct {
	CustomerView
	DiscountPercent int `json:"discountPercent"`
}

func writeCustomer(w io.Writer, v CustomerView) {
	name := v.Name
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(w, "%s  %s  code %s\n", v.Phone, name, v.Code)
	fmt.Fprintf(w, "  stamps %d/%d  %s\n", v.Progress.Stamps, v.Progress.Needed, stampBar(v.Progress))
	if v.Progress.CanRedeem {
		fmt.Fprintln(w, "  reward ready")
	} else {
		fmt.Fprintf(w, "  %d more for a reward\n", v.Progress.Remaining)
	}
	if v.RewardsRedeemed > 0 {
		fmt.Fprintf(w, "  rewards redeemed %d\n", v.RewardsRedeemed)
	}
}

// stampBar draws filled and empty stamp slots for one card.
func stampBar(p loyalty.Progress) string {
	filled := p.Stamps
	if filled > p.Needed {
		filled = p.Needed
	}
	return strings.Repeat("●", filled) + strings.Repeat("○", p.Needed-filled)
}

func writeSpecials(w io.Writer, specials []loyalty.Special) {
	if len(specials) == 0 {
		fmt.Fprintln(w, "No specials.")
		return
	}
	for _, s := range specials {
		line := fmt.Sprintf("%s  %s", s.Day, s.Title)
		if s.Price != "" {
			line += "  " + s.Price
		}
		fmt.Fprintln(w, line)
		if s.Desc != "" {
			fmt.Fprintf(w, "  %s\n", s.Desc)
		}
	}
}

func writeActivity(w io.Writer, entries []loyalty.ActivityEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity yet.")
		return
	}
	for _, e := range entries {
		ts := time.UnixMilli(e.TS).UTC().Format("2006-01-02 15:04")
		who := e.Who
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(w, "%s  %-8s  %s%s\n", ts, e.Type, who, formatMeta(e.Meta))
	}
}

// formatMeta renders meta as " k=v k=v" with sorted keys.
func formatMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, meta[k])
	}
	return sb.String()
}

func writeSettings(w io.Writer, s loyalty.RewardSettings) {
	fmt.Fprintf(w, "stamps per reward   %d\n", s.StampsPerReward)
	fmt.Fprintf(w, "min spend per stamp $%.2f\n", s.MinSpendPerStamp)
	fmt.Fprintf(w, "one stamp per txn   %t\n", s.OneStampPerTxn)
	fmt.Fprintf(w, "discount            %d%%\n", s.DiscountPercent)
	fmt.Fprintf(w, "play sound          %t\n", s.PlaySound)
}

func writeBakery(w io.Writer, b loyalty.BakeryConfig) {
	fmt.Fprintln(w, b.Name)
	if b.Address != "" {
		fmt.Fprintln(w, b.Address)
	}
	if b.Hours != "" {
		fmt.Fprintln(w, b.Hours)
	}
}
