// Package loyalty holds the bakery's loyalty ledger: the root document and the
// update functions that change it.
//
// The document is the unit of persistence. Every update function takes a
// *Document that the caller owns (the engine passes a clone of its current
// snapshot) and mutates it in place; on error the caller discards the clone,
// so a failed operation never leaves a partial change behind.
//
// # Components
//
//   - Directory: customers keyed by normalized phone, lookup by phone or
//     derived code, create on first sign-in (directory.go, code.go)
//   - Ledger: stamp accrual and redemption behind a staff Gate (ledger.go)
//   - Specials: day-keyed promotions, newest 20 kept (specials.go)
//   - Activity: newest-first audit entries, newest 200 kept (activity.go)
//   - Settings: reward rules and bakery info, validated on save (settings.go)
//
// Settings are always read from the document handed to the call, never from a
// copy taken earlier, so an admin change applies to the very next operation.
package loyalty
