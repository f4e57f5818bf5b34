// Package branch holds the single bank branch of a process.
//
// A Registry hands out exactly one *Branch: the first Construct call stores
// its Record, and every later Construct returns that same branch and silently
// discards the Record it was given. The branch name never changes after
// construction. The telephone changes only through UpdateTelephone, and only
// when the caller says it is authorized.
//
// Branch fields are unexported, so code outside this package can only read a
// branch through GetInfo (a copy) and write it through UpdateTelephone.
package branch

import (
	"sync"

	"github.com/sghaida/osingleton/singleton"
	"go.uber.org/zap"
)

// FieldTelephone names the only mutable Record field.
const FieldTelephone = "telephone"

// Branch is the one branch owned by a Registry.
type Branch struct {
	mu     sync.RWMutex
	record Record
	// sealed is set once the registry has stored the branch; only sealed
	// branches accept updates.
	sealed bool
	log    *zap.Logger
}

// GetInfo returns a copy of the held record.
func (b *Branch) GetInfo() Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.record
}

// Name returns the branch name.
func (b *Branch) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.record.Name
}

// Telephone returns the current telephone.
func (b *Branch) Telephone() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.record.Telephone
}

// UpdateTelephone replaces the telephone when authorized is true.
//
// Without authorization it returns a *PermissionDeniedError and changes
// nothing. A Branch that was not obtained from a Registry rejects every update.
func (b *Branch) UpdateTelephone(newTel string, authorized bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !authorized || !b.sealed {
		b.logger().Warn("telephone update denied",
			zap.String("branch", b.record.Name),
			zap.Bool("authorized", authorized),
		)
		return &PermissionDeniedError{Field: FieldTelephone}
	}

	old := b.record.Telephone
	b.record.Telephone = newTel
	b.logger().Info("telephone updated",
		zap.String("branch", b.record.Name),
		zap.String("from", old),
		zap.String("to", newTel),
	)
	return nil
}

func (b *Branch) logger() *zap.Logger {
	if b.log == nil {
		return zap.NewNop()
	}
	return b.log
}

// Registry constructs-or-fetches the single Branch.
type Registry struct {
	holder *singleton.Holder[Branch]
	log    *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and its branch.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithHolders makes the registry share the Branch holder of a type-keyed
// singleton.Registry, so every branch.Registry built on the same holders sees
// the same Branch. A nil registry is ignored.
//
// The Branch keeps the logger of the Registry that constructed it. Registries
// that later fetch it through the same holders log their own Construct calls
// with their own logger, but the Branch's update logs still go to the first one.
func WithHolders(holders *singleton.Registry) Option {
	return func(r *Registry) {
		if holders != nil {
			r.holder = singleton.Of[Branch](holders)
		}
	}
}

// NewRegistry returns a Registry with no branch yet.
//
// By default the registry owns a private holder, which keeps tests isolated.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.holder == nil {
		r.holder = singleton.New[Branch]()
	}
	return r
}

// Construct returns the registry's branch, creating it from initial on the
// first call. Later calls return the same *Branch and ignore initial.
func (r *Registry) Construct(initial Record) *Branch {
	created := false
	b := r.holder.Get(func() *Branch {
		created = true
		return &Branch{record: initial, sealed: true, log: r.log}
	})

	if created {
		r.log.Debug("branch constructed", zap.String("branch", initial.Name))
	} else {
		r.log.Debug("branch already constructed, payload discarded",
			zap.String("branch", b.Name()),
			zap.String("discarded", initial.Name),
		)
	}
	return b
}

// Instance returns the branch without constructing it.
func (r *Registry) Instance() (*Branch, bool) {
	return r.holder.Load()
}
