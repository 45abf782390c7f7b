package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// NewActivityCommand creates the activity command.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the newest activity entries",
		Long: `Show the newest entries of the activity log: sign-ups, stamps,
redemptions and settings changes. The log keeps the last 200 entries.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				entries := a.engine.Activity(limit)
				return a.out.Result(entries, nil, func(w io.Writer) { writeActivity(w, entries) })
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", loyalty.RecentActivityDisplay, "number of entries (0 for all)")

	return cmd
}

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the reward rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the reward rules in force",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				s := a.engine.Settings()
				return a.out.Result(s.Public(), nil, func(w io.Writer) { writeSettings(w, s) })
			})
		},
	})
	cmd.AddCommand(newSettingsSetCommand(rootOpts))

	return cmd
}

type settingsSetOptions struct {
	StaffOptions
	next   loyalty.RewardSettings
	newPIN string
}

func newSettingsSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &settingsSetOptions{StaffOptions: StaffOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the reward rules",
		Long: `Change one or more reward rules. Rules without a flag keep their
current value. The change applies to the next stamp or redeem.

Example:
  stampcard settings set --stamps-per-reward 8 --discount 15 --pin 1357`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				s := a.engine.Settings()
				flags := cmd.Flags()
				if flags.Changed("stamps-per-reward") {
					s.StampsPerReward = opts.next.StampsPerReward
				}
				if flags.Changed("min-spend") {
					s.MinSpendPerStamp = opts.next.MinSpendPerStamp
				}
				if flags.Changed("one-stamp-per-txn") {
					s.OneStampPerTxn = opts.next.OneStampPerTxn
				}
				if flags.Changed("discount") {
					s.DiscountPercent = opts.next.DiscountPercent
				}
				if flags.Changed("new-pin") {
					s.MerchantPIN = opts.newPIN
				}

				saved, err := a.engine.SaveSettings(cmd.Context(), opts.gate(), s)
				return a.out.Result(saved.Public(), err, func(w io.Writer) {
					fmt.Fprintln(w, "Settings saved.")
					writeSettings(w, saved)
				})
			})
		},
	}

	addPINFlag(cmd, &opts.StaffOptions)
	f := cmd.Flags()
	f.IntVar(&opts.next.StampsPerReward, "stamps-per-reward", 0, "stamps needed for one reward")
	f.Float64Var(&opts.next.MinSpendPerStamp, "min-spend", 0, "minimum purchase in dollars for a stamp")
	f.BoolVar(&opts.next.OneStampPerTxn, "one-stamp-per-txn", true, "award one stamp per purchase instead of one per minimum-spend multiple")
	f.IntVar(&opts.next.DiscountPercent, "discount", 0, "reward discount percent (0-100)")
	f.StringVar(&opts.newPIN, "new-pin", "", "new merchant PIN (blank resets to the default)")

	return cmd
}

// NewBakeryCommand creates the bakery command group.
func NewBakeryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bakery",
		Short: "Show or change the bakery details",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the bakery name, address and hours",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				b := a.engine.Bakery()
				return a.out.Result(b, nil, func(w io.Writer) { writeBakery(w, b) })
			})
		},
	})
	cmd.AddCommand(newBakerySetCommand(rootOpts))

	return cmd
}

type bakerySetOptions struct {
	StaffOptions
	next loyalty.BakeryConfig
}

func newBakerySetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &bakerySetOptions{StaffOptions: StaffOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:           "set",
		Short:         "Change the bakery details",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				b := a.engine.Bakery()
				flags := cmd.Flags()
				if flags.Changed("name") {
					b.Name = opts.next.Name
				}
				if flags.Changed("address") {
					b.Address = opts.next.Address
				}
				if flags.Changed("hours") {
					b.Hours = opts.next.Hours
				}

				saved, err := a.engine.SaveBakery(cmd.Context(), opts.gate(), b)
				return a.out.Result(saved, err, func(w io.Writer) {
					fmt.Fprintln(w, "Bakery saved.")
					writeBakery(w, saved)
				})
			})
		},
	}

	addPINFlag(cmd, &opts.StaffOptions)
	cmd.Flags().StringVar(&opts.next.Name, "name", "", "bakery name")
	cmd.Flags().StringVar(&opts.next.Address, "address", "", "street address")
	cmd.Flags().StringVar(&opts.next.Hours, "hours", "", "opening hours")

	return cmd
}

// NewSoundCommand creates the sound command.
func NewSoundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sound <on|off>",
		Short:         "Turn the launch sound on or off",
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{"on", "off"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				err := a.engine.SetPlaySound(cmd.Context(), args[0] == "on")
				s := a.engine.Settings()
				return a.out.Result(s.Public(), err, func(w io.Writer) {
					fmt.Fprintf(w, "Sound %s.\n", args[0])
				})
			})
		},
	}
}
