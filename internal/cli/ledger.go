package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// StaffOptions holds the flags shared by PIN-guarded commands.
type StaffOptions struct {
	*RootOptions
	PIN string
}

func (o *StaffOptions) gate() loyalty.Gate {
	return loyalty.PIN(o.PIN)
}

func addPINFlag(cmd *cobra.Command, opts *StaffOptions) {
	cmd.Flags().StringVar(&opts.PIN, "pin", "", "merchant PIN")
}

// StampOptions holds flags for the stamp command.
type StampOptions struct {
	StaffOptions
	Amount float64
}

// NewStampCommand creates the stamp command.
func NewStampCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StampOptions{StaffOptions: StaffOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "stamp <phone-or-code>",
		Short: "Record a purchase and add stamps",
		Long: `Record a purchase for a customer and add stamps to their card.

A purchase below the minimum spend earns nothing. Whether a purchase earns
one stamp or one per minimum-spend multiple depends on the settings.

Example:
  stampcard stamp 209254 --amount 12.50 --pin 1357`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				before, _ := a.engine.Lookup(args[0])
				c, err := a.engine.AddStamp(cmd.Context(), opts.gate(), args[0], opts.Amount)
				view := CustomerView{Card: a.engine.Card(c)}
				return a.out.Result(view, err, func(w io.Writer) {
					fmt.Fprintf(w, "Added %d stamp(s).\n", c.Stamps-before.Stamps)
					writeCustomer(w, view)
				})
			})
		},
	}

	addPINFlag(cmd, &opts.StaffOptions)
	cmd.Flags().Float64Var(&opts.Amount, "amount", 0, "purchase amount in dollars")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// NewRedeemCommand creates the redeem command.
func NewRedeemCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StaffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "redeem <phone-or-code>",
		Short: "Spend a full card for the reward discount",
		Long: `Redeem one reward for a customer. Removes one card's worth of stamps
and prints the discount to apply.

Example:
  stampcard redeem 5551234567 --pin 1357`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				c, discount, err := a.engine.Redeem(cmd.Context(), opts.gate(), args[0])
				view := RedeemView{
					CustomerView:    CustomerView{Card: a.engine.Card(c)},
					DiscountPercent: discount,
				}
				return a.out.Result(view, err, func(w io.Writer) {
					fmt.Fprintf(w, "Reward redeemed: %d%% off.\n", discount)
					writeCustomer(w, view.CustomerView)
				})
			})
		},
	}

	addPINFlag(cmd, opts)

	return cmd
}
