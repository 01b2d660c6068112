// internal/client/guard/guard_test.go
package guard

import (
	"testing"

	"tracksafe-service/internal/client/session"
	"tracksafe-service/internal/domain/auth"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	assert.Equal(t, DecisionNotice, Evaluate(session.Snapshot{}))

	assert.Equal(t, DecisionWait, Evaluate(session.Snapshot{Configured: true, IsLoading: true}))

	assert.Equal(t, DecisionRedirect, Evaluate(session.Snapshot{Configured: true}))

	assert.Equal(t, DecisionAllow, Evaluate(session.Snapshot{
		Configured: true,
		User:       &auth.UserInfo{AccountID: "acc-1"},
	}))
}

func TestEvaluateLoadingWinsOverSession(t *testing.T) {
	// A stale user pointer during restore must not leak an Allow
	d := Evaluate(session.Snapshot{
		Configured: true,
		IsLoading:  true,
		User:       &auth.UserInfo{AccountID: "acc-1"},
	})
	assert.Equal(t, DecisionWait, d)
}
