// Package singleton provides explicit, injectable single-instance holders for Go.
//
// This package intentionally supports two layers:
//
//   - Holder[T]: one lazily constructed value. The first Get call runs its
//     constructor and every later call returns that same pointer, ignoring the
//     constructor it was given. Concurrent first calls construct exactly once.
//
//   - Registry: a type-keyed set of holders. Of[T] returns the one holder for
//     T in that registry, so a registry owns at most one instance per type.
//
// Neither layer hides state in package globals. Callers create a holder or
// registry in their composition root (main/bootstrap) and pass it down; tests
// get isolation by creating a fresh one. Default exists for programs that want
// a process-wide registry anyway.
//
// Quick guidance
//
// Use Holder[T] when:
//   - one component owns the value and can hold the holder directly
//
// Use Registry when:
//   - several components must agree on one instance per type without
//     threading each holder through by hand
//
// Import
//
//	"github.com/sghaida/osingleton/singleton"
package singleton
