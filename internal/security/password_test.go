package security

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	ph := NewPasswordHasher()

	hash, err := ph.Hash("P@ssw0rd!")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	valid, err := ph.Verify("P@ssw0rd!", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = ph.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	ph := NewPasswordHasher()

	first, err := ph.Hash("P@ssw0rd!")
	require.NoError(t, err)
	second, err := ph.Hash("P@ssw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	ph := NewPasswordHasher()

	_, err := ph.Verify("P@ssw0rd!", "not-a-hash")
	assert.Error(t, err)
}

func TestPasswordHasher_NeedsRehash(t *testing.T) {
	ph := NewPasswordHasher()

	current, err := ph.Hash("P@ssw0rd!")
	require.NoError(t, err)
	assert.False(t, ph.NeedsRehash(current))

	// Same password hashed with weaker parameters
	assert.True(t, ph.NeedsRehash(legacyHash("P@ssw0rd!")))

	// Unparseable hashes are replaced on next login
	assert.True(t, ph.NeedsRehash("garbage"))
}

func TestPasswordHasher_VerifyLegacyHash(t *testing.T) {
	ph := NewPasswordHasher()

	// Old hashes must keep verifying with their own embedded parameters
	valid, err := ph.Verify("P@ssw0rd!", legacyHash("P@ssw0rd!"))
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestPasswordHasher_DummyHash(t *testing.T) {
	ph := NewPasswordHasher()

	dummy := ph.DummyHash()

	// Must be well-formed so the burn verification takes the normal path
	valid, err := ph.Verify("any-guess", dummy)
	require.NoError(t, err)
	assert.False(t, valid)
}

// legacyHash encodes password with deliberately weaker parameters than
// the current configuration.
func legacyHash(password string) string {
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte(password), salt, 1, 32*1024, 1, 32)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		32*1024,
		1,
		1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}
