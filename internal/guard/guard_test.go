package guard

import (
	"testing"

	"github.com/richgang/fxpulse/internal/core"
)

// fakeSession is a guard.Session with fixed answers.
type fakeSession struct {
	authed bool
	role   core.Role
}

func (f fakeSession) IsAuthenticated() bool { return f.authed }

func (f fakeSession) Identity() (core.Identity, bool) {
	if !f.authed {
		return core.Identity{}, false
	}
	return core.Identity{Role: f.role, Name: "x"}, true
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		session  fakeSession
		required core.Role
		want     Decision
	}{
		{"anonymous, open view", fakeSession{}, "", DecisionLogin},
		{"anonymous, owner view", fakeSession{}, core.RoleOwner, DecisionLogin},
		{"client, open view", fakeSession{authed: true, role: core.RoleClient}, "", DecisionAllow},
		{"client, owner view", fakeSession{authed: true, role: core.RoleClient}, core.RoleOwner, DecisionHome},
		{"owner, owner view", fakeSession{authed: true, role: core.RoleOwner}, core.RoleOwner, DecisionAllow},
		{"owner, open view", fakeSession{authed: true, role: core.RoleOwner}, "", DecisionAllow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Check(tc.session, tc.required); got != tc.want {
				t.Errorf("Check() = %s, want %s", got, tc.want)
			}
		})
	}
}
