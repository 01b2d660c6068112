package xerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationFailuresHaveDistinctMessages(t *testing.T) {
	// Each acquisition failure must tell the user something different
	msgs := map[string]bool{}
	for _, err := range []error{
		ErrPermissionDenied,
		ErrPositionUnavailable,
		ErrAcquisitionTimeout,
		ErrUnsupportedPlatform,
	} {
		msgs[UserMessage(err)] = true
	}
	assert.Len(t, msgs, 4)
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := Wrap(ErrPermissionDenied, "while opening the SOS screen")
	assert.Equal(t, "permission_denied", Kind(err))
	assert.True(t, Is(err, ErrPermissionDenied))
}

func TestFromKindInvertsKind(t *testing.T) {
	for _, err := range []error{
		ErrInvalidCredentials,
		ErrSessionExpired,
		ErrProfileWriteFailed,
		ErrAcquisitionTimeout,
		ErrBackendNotConfigured,
	} {
		assert.Equal(t, err, FromKind(Kind(err)))
	}
}

func TestUnknownKindDegradesToInternal(t *testing.T) {
	assert.Equal(t, ErrInternal, FromKind("something_new"))
}
