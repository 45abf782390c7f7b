package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// SpecialsFile is the YAML layout read by specials import.
type SpecialsFile struct {
	Specials []loyalty.SpecialInput `yaml:"specials"`
}

// LoadSpecialsFile reads a specials import file. Unknown keys are errors.
func LoadSpecialsFile(path string) ([]loyalty.SpecialInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specials file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var sf SpecialsFile
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("specials file %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse specials file: %w", err)
	}
	if len(sf.Specials) == 0 {
		return nil, fmt.Errorf("specials file %s lists no specials", path)
	}
	return sf.Specials, nil
}

// NewSpecialsCommand creates the specials command group.
func NewSpecialsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specials",
		Short: "Manage the specials board",
	}

	cmd.AddCommand(newSpecialsAddCommand(rootOpts))
	cmd.AddCommand(newSpecialsTodayCommand(rootOpts))
	cmd.AddCommand(newSpecialsListCommand(rootOpts))
	cmd.AddCommand(newSpecialsImportCommand(rootOpts))

	return cmd
}

type specialsAddOptions struct {
	StaffOptions
	input loyalty.SpecialInput
}

func newSpecialsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &specialsAddOptions{StaffOptions: StaffOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a special",
		Long: `Schedule a special for a day (YYYY-MM-DD, default today). The board
keeps the 20 newest specials.

Example:
  stampcard specials add --title "Cardamom Bun" --price '$4' --day 2024-03-02 --pin 1357`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				s, err := a.engine.AddSpecial(cmd.Context(), opts.gate(), opts.input)
				return a.out.Result(s, err, func(w io.Writer) {
					fmt.Fprintf(w, "Special added (%s).\n", s.ID)
					writeSpecials(w, []loyalty.Special{s})
				})
			})
		},
	}

	addPINFlag(cmd, &opts.StaffOptions)
	cmd.Flags().StringVar(&opts.input.Title, "title", "", "special title")
	cmd.Flags().StringVar(&opts.input.Price, "price", "", "display price")
	cmd.Flags().StringVar(&opts.input.Desc, "desc", "", "description")
	cmd.Flags().StringVar(&opts.input.Day, "day", "", "day as YYYY-MM-DD (default today)")

	return cmd
}

func newSpecialsTodayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "today",
		Short:         "Show today's specials",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				specials := a.engine.SpecialsToday()
				return a.out.Result(specials, nil, func(w io.Writer) { writeSpecials(w, specials) })
			})
		},
	}
}

func newSpecialsListCommand(rootOpts *RootOptions) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List scheduled specials, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				specials := a.engine.Specials()
				if day != "" {
					specials = a.engine.SpecialsForDay(day)
				}
				return a.out.Result(specials, nil, func(w io.Writer) { writeSpecials(w, specials) })
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "only show this day (YYYY-MM-DD)")

	return cmd
}

func newSpecialsImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StaffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Schedule several specials from a YAML file",
		Long: `Schedule every special listed in a YAML file. Either all of them are
added or, if any is invalid, none are.

File format:
  specials:
    - title: Cardamom Bun
      price: $4
      desc: Fresh at 7
      day: 2024-03-02`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := LoadSpecialsFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to import specials", err)
			}
			return opts.withApp(cmd, func(a *app) error {
				added, err := a.engine.ImportSpecials(cmd.Context(), opts.gate(), inputs)
				return a.out.Result(added, err, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %d special(s).\n", len(added))
					writeSpecials(w, added)
				})
			})
		},
	}

	addPINFlag(cmd, opts)

	return cmd
}
