package rolecontext

import (
	"sync"

	"infera-console/internal/constants"
	roles "infera-console/internal/pkg/constants"
)

// Change is delivered to listeners after the current role has been replaced.
type Change struct {
	From         roles.Role
	To           roles.Role
	Capabilities constants.Capabilities
}

// Listener is called synchronously by SetRole on the caller's goroutine.
type Listener func(Change)

// Snapshot is the role, its label and its capabilities read together.
type Snapshot struct {
	Role         roles.Role             `json:"role"`
	Label        string                 `json:"label"`
	Capabilities constants.Capabilities `json:"capabilities"`
}

// RoleContext holds the current role of one session and the capabilities derived from it.
// SetRole is the only writer.
type RoleContext struct {
	mu        sync.RWMutex
	role      roles.Role
	caps      constants.Capabilities
	listeners []*listenerEntry
}

type listenerEntry struct {
	fn Listener
}

// New returns a RoleContext starting at initial. It panics if initial is outside the catalog.
func New(initial roles.Role) *RoleContext {
	caps := constants.Resolve(initial)
	role, _ := roles.ParseRole(string(initial))
	return &RoleContext{role: role, caps: caps}
}

// NewDefault returns a RoleContext starting at the default role.
func NewDefault() *RoleContext {
	return New(roles.DefaultRole)
}

// Role returns the current role.
func (rc *RoleContext) Role() roles.Role {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.role
}

// Capabilities returns the capability set of the current role.
func (rc *RoleContext) Capabilities() constants.Capabilities {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.caps
}

// Snapshot returns role, label and capabilities consistent with each other.
func (rc *RoleContext) Snapshot() Snapshot {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return Snapshot{Role: rc.role, Label: roles.Label(rc.role), Capabilities: rc.caps}
}

// SetRole replaces the current role and notifies listeners before returning.
// Setting the role already in effect is a no-op and notifies nobody.
func (rc *RoleContext) SetRole(role roles.Role) error {
	// Keep the catalog constant rather than the caller's string, which may be request-scoped.
	role, ok := roles.ParseRole(string(role))
	if !ok {
		return ErrInvalidRole
	}
	rc.mu.Lock()
	if rc.role == role {
		rc.mu.Unlock()
		return nil
	}
	change := Change{From: rc.role, To: role, Capabilities: constants.Resolve(role)}
	rc.role = change.To
	rc.caps = change.Capabilities
	listeners := make([]*listenerEntry, len(rc.listeners))
	copy(listeners, rc.listeners)
	rc.mu.Unlock()

	for _, l := range listeners {
		l.fn(change)
	}
	return nil
}

// Subscribe registers fn for role changes. The returned func removes it; calling it twice is safe.
func (rc *RoleContext) Subscribe(fn Listener) (unsubscribe func()) {
	entry := &listenerEntry{fn: fn}
	rc.mu.Lock()
	rc.listeners = append(rc.listeners, entry)
	rc.mu.Unlock()

	return func() {
		rc.mu.Lock()
		defer rc.mu.Unlock()
		for i, l := range rc.listeners {
			if l == entry {
				rc.listeners = append(rc.listeners[:i], rc.listeners[i+1:]...)
				return
			}
		}
	}
}
