package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair(9, 5)
	assert.Equal(t, int64(5), a)
	assert.Equal(t, int64(9), b)

	a, b = CanonicalPair(5, 9)
	assert.Equal(t, int64(5), a)
	assert.Equal(t, int64(9), b)
}

func TestConversationParticipants(t *testing.T) {
	c := Conversation{User1ID: 5, User2ID: 9}

	assert.Equal(t, int64(9), c.OtherParticipant(5))
	assert.Equal(t, int64(5), c.OtherParticipant(9))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Amine Benali", User{Firstname: "Amine", Name: "Benali"}.DisplayName())
	assert.Equal(t, "Benali", User{Name: "Benali"}.DisplayName())
	assert.Equal(t, "Amine", User{Firstname: "Amine"}.DisplayName())
}
