// stampcard is the counter-side loyalty card ledger for the bakery.
//
// Usage:
//
//	stampcard signin <phone> [--name]      Sign a customer in
//	stampcard stamp <who> --amount --pin   Add stamps for a purchase
//	stampcard redeem <who> --pin           Redeem a reward
//	stampcard shell                        Interactive counter session
//	stampcard serve [--addr]               Serve the HTTP API
//
// Run "stampcard --help" for the full command list.
package main

import (
	"os"

	"github.com/gibbs-bakehouse/stampcard/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
