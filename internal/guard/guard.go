// internal/guard/guard.go
package guard

import "github.com/richgang/fxpulse/internal/core"

// Decision is the outcome of an access check.
type Decision string

const (
	// DecisionAllow grants access to the requested view.
	DecisionAllow Decision = "allow"
	// DecisionLogin sends an unauthenticated caller to login.
	DecisionLogin Decision = "login"
	// DecisionHome sends an under-privileged caller to the default
	// authenticated view.
	DecisionHome Decision = "home"
)

// Session is the slice of the auth context the guard reads.
// *session.Manager satisfies it.
type Session interface {
	IsAuthenticated() bool
	Identity() (core.Identity, bool)
}

// Check derives the access decision for a view. required is the role
// the view demands; an empty role means any authenticated caller.
// The guard holds no state of its own.
func Check(s Session, required core.Role) Decision {
	if !s.IsAuthenticated() {
		return DecisionLogin
	}
	if required == core.RoleOwner {
		id, ok := s.Identity()
		if !ok || !id.IsOwner() {
			return DecisionHome
		}
	}
	return DecisionAllow
}
