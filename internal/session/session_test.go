package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.ParticipantID())

	s.Set("p1")
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "p1", s.ParticipantID())

	s.Clear()
	assert.False(t, s.LoggedIn())
}
