// Package osingleton provides explicit single-instance holders for Go, plus a
// small bank-branch domain built on them.
//
// The repository is split into:
//
//   - singleton: Holder[T] (construct-or-fetch, first constructor wins) and a
//     type-keyed Registry of holders
//   - branch: the one BankBranch of a process; read-only info copies and a
//     single authorization-gated telephone update
//   - internal/config: env + YAML seed loading for the demo
//   - cmd/branchdemo: runnable walkthrough of the pattern
//
// Holders are created in your composition root (main/bootstrap) and passed
// down; nothing depends on hidden package state, so tests build fresh ones.
package osingleton
