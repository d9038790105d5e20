package catalog

import (
	"context"
	"sync"

	"github.com/goliatone/go-metafields/pkg/meta"
)

// Registration is one call captured by RecordingRegistrar.
type Registration struct {
	ObjectType meta.ObjectType       `json:"objectType" yaml:"objectType"`
	Key        string                `json:"key" yaml:"key"`
	Args       meta.RegistrationArgs `json:"args" yaml:"args"`
}

// RecordingRegistrar captures registrations in memory. It backs dry runs and
// tests where no host framework is available.
type RecordingRegistrar struct {
	mu    sync.Mutex
	calls []Registration
	Err   func(objectType meta.ObjectType, key string) error
}

var _ Registrar = (*RecordingRegistrar)(nil)

// RegisterMeta records the call, or returns the error produced by Err.
func (r *RecordingRegistrar) RegisterMeta(_ context.Context, objectType meta.ObjectType, key string, args meta.RegistrationArgs) error {
	if r.Err != nil {
		if err := r.Err(objectType, key); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Registration{ObjectType: objectType, Key: key, Args: args})
	return nil
}

// Registrations returns a copy of the recorded calls.
func (r *RecordingRegistrar) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Registration(nil), r.calls...)
}
