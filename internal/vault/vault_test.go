package vault

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "pixflow/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		encodedKey string
		wantErr    bool
	}{
		{
			name: "valid 32-byte key",
			encodedKey: func() string {
				key, _ := GenerateKey()
				return key
			}(),
			wantErr: false,
		},
		{
			name:       "not base64",
			encodedKey: "not-valid-base64!!!",
			wantErr:    true,
		},
		{
			name:       "wrong key length",
			encodedKey: base64.StdEncoding.EncodeToString([]byte("short")),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.encodedKey)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, v)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, v)
			}
		})
	}
}

func TestVault_EncryptDecrypt(t *testing.T) {
	key, err := GenerateKey()
	assert.NoError(t, err)
	v, err := New(key)
	assert.NoError(t, err)

	plaintext := "sk_live_very_secret_gateway_token"

	sealed, err := v.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	// Same plaintext seals to different blobs thanks to the random nonce.
	sealed2, err := v.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.NotEqual(t, sealed, sealed2)

	recovered, err := v.Decrypt(sealed)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

func TestVault_DecryptFailures(t *testing.T) {
	key, _ := GenerateKey()
	v, _ := New(key)

	sealed, err := v.Encrypt("payload")
	assert.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := v.Decrypt("%%%not base64%%%")
		assert.Equal(t, apperrors.ErrCredentialUnreadable, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := v.Decrypt(base64.StdEncoding.EncodeToString([]byte{0x01, 0x02}))
		assert.Equal(t, apperrors.ErrCredentialUnreadable, err)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		raw, _ := base64.StdEncoding.DecodeString(sealed)
		raw[len(raw)-1] ^= 0xFF
		_, err := v.Decrypt(base64.StdEncoding.EncodeToString(raw))
		assert.Equal(t, apperrors.ErrCredentialUnreadable, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKey, _ := GenerateKey()
		other, _ := New(otherKey)
		_, err := other.Decrypt(sealed)
		assert.Equal(t, apperrors.ErrCredentialUnreadable, err)
	})
}
