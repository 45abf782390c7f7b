package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

const shellPrompt = "stampcard> "

const shellHelp = `Commands:
  signin <phone> [name]       sign a customer in (remembered for stamp/redeem)
  lookup <phone-or-code>      show a card
  unlock <pin>                unlock staff commands
  lock                        lock staff commands
  stamp <amount> [who]        add stamps (who defaults to the last sign-in)
  redeem [who]                redeem a reward
  specials                    today's specials
  activity [n]                newest activity entries
  sound on|off                launch sound
  help                        this list
  exit                        leave (locks the session)`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive counter session",
		Long: `Start an interactive counter session.

Staff unlock with the merchant PIN once and stay unlocked until they lock
or leave the shell. The phone of the last sign-in is remembered, so
"stamp 12" credits the customer who just signed in.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(a *app) error {
				sh := &shell{app: a, session: a.engine.NewSession(), out: cmd.OutOrStdout()}
				return sh.run(cmd.Context(), cmd.InOrStdin())
			})
		},
	}
}

type shell struct {
	app     *app
	session *engine.Session
	out     io.Writer
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	defer s.session.Lock()

	fmt.Fprintf(s.out, "%s loyalty counter. Type help for commands.\n", s.app.engine.Bakery().Name)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		if err := s.exec(ctx, fields[0], fields[1:]); err != nil && !IsReported(err) {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, name string, args []string) error {
	e := s.app.engine
	out := s.app.out

	switch name {
	case "help":
		fmt.Fprintln(s.out, shellHelp)
		return nil

	case "signin":
		if len(args) == 0 {
			return fmt.Errorf("usage: signin <phone> [name]")
		}
		c, created, err := e.SignIn(ctx, args[0], strings.Join(args[1:], " "))
		if err == nil || engine.IsSaveError(err) {
			s.session.Remember(c.Phone)
		}
		view := CustomerView{Card: e.Card(c), Created: created}
		return out.Result(view, err, func(w io.Writer) { writeCustomer(w, view) })

	case "lookup":
		if len(args) != 1 {
			return fmt.Errorf("usage: lookup <phone-or-code>")
		}
		c, err := e.Lookup(args[0])
		if err != nil {
			return out.Fail(err)
		}
		view := CustomerView{Card: e.Card(c)}
		return out.Result(view, nil, func(w io.Writer) { writeCustomer(w, view) })

	case "unlock":
		if len(args) != 1 {
			return fmt.Errorf("usage: unlock <pin>")
		}
		if !s.session.Unlock(args[0]) {
			return out.Fail(loyalty.NewUnauthorizedError())
		}
		fmt.Fprintln(s.out, "Unlocked.")
		return nil

	case "lock":
		s.session.Lock()
		fmt.Fprintln(s.out, "Locked.")
		return nil

	case "stamp":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: stamp <amount> [who]")
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return out.Fail(loyalty.NewValidationError("amount", "amount must be a number"))
		}
		who := s.who(args[1:])
		c, err := e.AddStamp(ctx, s.session, who, amount)
		view := CustomerView{Card: e.Card(c)}
		return out.Result(view, err, func(w io.Writer) { writeCustomer(w, view) })

	case "redeem":
		if len(args) > 1 {
			return fmt.Errorf("usage: redeem [who]")
		}
		c, discount, err := e.Redeem(ctx, s.session, s.who(args))
		view := RedeemView{CustomerView: CustomerView{Card: e.Card(c)}, DiscountPercent: discount}
		return out.Result(view, err, func(w io.Writer) {
			fmt.Fprintf(w, "Reward redeemed: %d%% off.\n", discount)
			writeCustomer(w, view.CustomerView)
		})

	case "specials":
		specials := e.SpecialsToday()
		return out.Result(specials, nil, func(w io.Writer) { writeSpecials(w, specials) })

	case "activity":
		limit := loyalty.RecentActivityDisplay
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("usage: activity [n]")
			}
			limit = n
		}
		entries := e.Activity(limit)
		return out.Result(entries, nil, func(w io.Writer) { writeActivity(w, entries) })

	case "sound":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("usage: sound on|off")
		}
		err := e.SetPlaySound(ctx, args[0] == "on")
		return out.Result(e.Settings().Public(), err, func(w io.Writer) {
			fmt.Fprintf(w, "Sound %s.\n", args[0])
		})

	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
}

// who returns the explicit customer argument or the remembered phone.
func (s *shell) who(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return s.session.LastPhone()
}
