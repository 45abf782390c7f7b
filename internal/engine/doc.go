// Package engine owns the loyalty document at runtime.
//
// The engine is the single writer between the surfaces (CLI, shell, HTTP) and
// the persisted document. Every mutation follows the same path:
//
//  1. Lock the engine
//  2. Clone the current document
//  3. Run a pure update function from package loyalty on the clone
//  4. On success, swap the clone in and write the whole document to the KV store
//
// A rejected update leaves the live document untouched. A failed write keeps
// the change in memory and is reported as a *SaveError next to the result;
// the next successful write persists everything.
//
// Loading never fails on bad data: a missing, unparsable or ill-shaped stored
// document is replaced by the default document and the reason is logged.
//
// Staff authorization is a loyalty.Gate. One-shot surfaces pass a loyalty.PIN;
// the interactive shell keeps a Session, which remembers its unlock state and
// the last phone signed in until the process ends.
package engine
