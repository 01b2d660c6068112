// internal/client/guard/guard.go
package guard

import (
	"tracksafe-service/internal/client/session"
)

// Decision is what a protected screen should do with the current auth
// state.
type Decision int

const (
	// DecisionNotice: no backend is wired; show the setup notice, there
	// is nothing to sign in to.
	DecisionNotice Decision = iota
	// DecisionWait: restore has not finished; show nothing yet rather
	// than flashing the login screen at a user who is actually signed in.
	DecisionWait
	// DecisionAllow: a live session exists.
	DecisionAllow
	// DecisionRedirect: signed out; send the user to the login screen.
	DecisionRedirect
)

// Evaluate maps an auth snapshot to a routing decision.
func Evaluate(snap session.Snapshot) Decision {
	if !snap.Configured {
		return DecisionNotice
	}
	if snap.IsLoading {
		return DecisionWait
	}
	if snap.SignedIn() {
		return DecisionAllow
	}
	return DecisionRedirect
}
