// Package harness runs loyalty scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: first_reward
//	description: "Ten qualifying visits earn one discount"
//	flow:
//	  - invoke: signin
//	    args: { phone: "0412345678", name: Ava }
//	  - invoke: unlock
//	    args: { pin: "1357" }
//	  - invoke: stamp
//	    args: { phone: "0412345678", amount: 15 }
//	    repeat: 10
//	  - invoke: redeem
//	    args: { phone: "0412345678" }
//	    expect:
//	      case: ok
//	      result: { stamps: 0, discountPercent: 10 }
//	assertions:
//	  - type: trace_count
//	    action: stamp
//	    count: 10
//	  - type: final_state
//	    table: customers
//	    where: { phone: "0412345678" }
//	    expect: { rewardsRedeemed: 1 }
//
// # Actions
//
// signin, lookup, unlock, lock, stamp, redeem, add_special, save_settings,
// save_bakery, set_sound and advance_clock. Staff and admin actions use the
// scenario's session as their gate, so a scenario unlocks before it stamps.
// stamp and redeem fall back to the last signed-in phone when phone is omitted.
//
// A step's case is "ok" or the error code it returned (VALIDATION,
// INSUFFICIENT_STAMPS, NOT_FOUND, UNAUTHORIZED). A step without an expect
// clause must succeed.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: rows of a document table (customers, settings, bakery,
//     specials_today, activity) match a where filter and expected fields
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a frozen
// clock (testutil.DefaultTestTime) and sequential ids, so the trace is
// identical across runs and can be compared against a golden file.
package harness
