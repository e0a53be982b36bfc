package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDemoHash(t *testing.T) {
	// "a" = 97, "ab" = 97*31+98 = 3105
	assert.Equal(t, "demo_0", DemoHash(""))
	assert.Equal(t, "demo_97", DemoHash("a"))
	assert.Equal(t, "demo_3105", DemoHash("ab"))
	assert.Equal(t, DemoHash("admin123"), DemoHash("admin123"))
	assert.NotEqual(t, DemoHash("admin123"), DemoHash("admin124"))
}

func TestDemoHasherVerify(t *testing.T) {
	h := DemoHasher{}
	hash, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw123", hash))
	assert.False(t, h.Verify("wrongpw", hash))
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw123", hash))
	assert.False(t, h.Verify("wrongpw", hash))
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("", 0)
	require.NoError(t, err)
	assert.IsType(t, DemoHasher{}, h)

	h, err = NewHasher("BCRYPT", 0)
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = NewHasher("md5", 0)
	assert.Error(t, err)
}
