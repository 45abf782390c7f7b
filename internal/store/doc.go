// Package store provides SQLite-backed local storage for the loyalty document.
//
// The store is a plain key-value table. The application keeps its entire state
// in one JSON document under a fixed key and overwrites it after every
// mutation, so the table usually holds a single row.
//
// # Database Configuration
//
//   - WAL mode: readers never block the single writer
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Two processes writing the same file is not supported as a feature: each
// Put replaces the whole value, so the last writer wins.
package store
