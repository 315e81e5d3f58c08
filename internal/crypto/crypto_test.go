package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *Encryptor {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	enc, err := NewEncryptorFromBase64(key)
	require.NoError(t, err)
	return enc
}

func TestNewEncryptor(t *testing.T) {
	t.Run("valid key size", func(t *testing.T) {
		enc, err := NewEncryptor(make([]byte, 32))
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})

	t.Run("invalid key size - too short", func(t *testing.T) {
		enc, err := NewEncryptor(make([]byte, 16))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, enc)
	})

	t.Run("invalid key size - too long", func(t *testing.T) {
		enc, err := NewEncryptor(make([]byte, 64))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, enc)
	})
}

func TestNewEncryptorFromBase64(t *testing.T) {
	t.Run("invalid base64", func(t *testing.T) {
		enc, err := NewEncryptorFromBase64("not-valid-base64!!!")
		assert.Error(t, err)
		assert.Nil(t, enc)
	})

	t.Run("valid base64 but wrong size", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString(make([]byte, 16))
		enc, err := NewEncryptorFromBase64(encoded)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, enc)
	})
}

func TestSealOpen(t *testing.T) {
	enc := newTestEncryptor(t)
	image := append([]byte("SQLite format 3\x00"), bytes.Repeat([]byte{0x42}, 4096)...)

	sealed, err := enc.Seal(image)
	require.NoError(t, err)
	assert.NotEqual(t, image, sealed)
	assert.False(t, bytes.HasPrefix(sealed, []byte("SQLite")))

	opened, err := enc.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, image, opened)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	enc := newTestEncryptor(t)

	first, err := enc.Seal([]byte("same"))
	require.NoError(t, err)
	second, err := enc.Seal([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestOpen_Errors(t *testing.T) {
	enc := newTestEncryptor(t)

	t.Run("too short", func(t *testing.T) {
		_, err := enc.Open([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrCiphertextTooShort)
	})

	t.Run("tampered", func(t *testing.T) {
		sealed, err := enc.Seal([]byte("payload"))
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xFF

		_, err = enc.Open(sealed)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})

	t.Run("wrong key", func(t *testing.T) {
		sealed, err := enc.Seal([]byte("payload"))
		require.NoError(t, err)

		_, err = newTestEncryptor(t).Open(sealed)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})
}
