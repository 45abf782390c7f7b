package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SignInOptions holds flags for the signin command.
type SignInOptions struct {
	*RootOptions
	Name string
}

// NewSignInCommand creates the signin command.
func NewSignInCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignInOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signin <phone>",
		Short: "Sign a customer in, creating the card on first visit",
		Long: `Sign a customer in by phone number.

The phone is reduced to its digits. A new card starts with zero stamps;
an existing card is returned unchanged and the name is ignored.

Example:
  stampcard signin "(555) 123-4567" --name Ada`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				c, created, err := a.engine.SignIn(cmd.Context(), args[0], opts.Name)
				view := CustomerView{Card: a.engine.Card(c)}
				view.Created = created
				return a.out.Result(view, err, func(w io.Writer) {
					if created {
						fmt.Fprintln(w, "Welcome! New card created.")
					} else {
						fmt.Fprintln(w, "Welcome back!")
					}
					writeCustomer(w, view)
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "customer name (first visit only)")

	return cmd
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phone-or-code>",
		Short: "Find a customer by phone or code",
		Long: `Find a customer by phone number or by the 6-digit code shown on
their card.

Example:
  stampcard lookup 5551234567
  stampcard lookup 209254`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				c, err := a.engine.Lookup(args[0])
				if err != nil {
					return a.out.Fail(err)
				}
				view := CustomerView{Card: a.engine.Card(c)}
				return a.out.Result(view, nil, func(w io.Writer) { writeCustomer(w, view) })
			})
		},
	}
}

// CodeView is the JSON payload of the code command.
type CodeView struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// NewCodeCommand creates the code command.
func NewCodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "code <phone>",
		Short: "Print the card code for a phone number",
		Long: `Print the 6-digit code derived from a phone number. The phone does
not need to belong to a customer.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				code, err := a.engine.Code(args[0])
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Result(CodeView{Phone: args[0], Code: code}, nil, func(w io.Writer) {
					fmt.Fprintln(w, code)
				})
			})
		},
	}
}

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Inspect customer cards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List every customer ordered by phone",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				customers := a.engine.Customers()
				views := make([]CustomerView, 0, len(customers))
				for _, c := range customers {
					views = append(views, CustomerView{Card: a.engine.Card(c)})
				}
				return a.out.Result(views, nil, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "No customers yet.")
						return
					}
					for _, v := range views {
						writeCustomer(w, v)
					}
				})
			})
		},
	})

	return cmd
}
