package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("nidra-vaidya-22")
	require.NoError(t, err)
	assert.NotEqual(t, "nidra-vaidya-22", hash)

	assert.NoError(t, h.Compare(hash, "nidra-vaidya-22"))
	assert.Error(t, h.Compare(hash, "nidra-vaidya-23"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestOutOfRangeCostFallsBackToDefault(t *testing.T) {
	h := NewBcryptHasher(0)

	hash, err := h.Hash("nidra-vaidya-22")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
