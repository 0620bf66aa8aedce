package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	adapters "gochat/internal/chat/adapters/services"
	"gochat/internal/chat/domain/services"
)

const testIterations = 1_000

func TestPBKDF2_HashAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewPBKDF2WithIterations(testIterations)

	for _, password := range []string{"Secr3t!pass", "пароль", " ", "a"} {
		stored, err := svc.Hash(ctx, password)
		require.NoError(t, err)

		assert.True(t, svc.Verify(ctx, password, *stored), "password must verify against its own hash")
		assert.False(t, svc.Verify(ctx, password+"x", *stored), "different password must not verify")
	}
}

func TestPBKDF2_HashFormat(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewPBKDF2WithIterations(testIterations)

	first, err := svc.Hash(ctx, "password")
	require.NoError(t, err)
	second, err := svc.Hash(ctx, "password")
	require.NoError(t, err)

	salt, err := hex.DecodeString(first.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, services.SaltLength)

	hash, err := hex.DecodeString(first.Hash)
	require.NoError(t, err)
	assert.Len(t, hash, services.PBKDF2KeyLength)

	assert.NotEqual(t, first.Salt, second.Salt, "salt must be fresh per hash")
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestPBKDF2_FixedIterations(t *testing.T) {
	ctx := context.Background()
	stored, err := adapters.NewPBKDF2().Hash(ctx, "password")
	require.NoError(t, err)

	salt, err := hex.DecodeString(stored.Salt)
	require.NoError(t, err)
	expected := pbkdf2.Key([]byte("password"), salt, services.PBKDF2Iterations, services.PBKDF2KeyLength, sha256.New)
	assert.Equal(t, hex.EncodeToString(expected), stored.Hash)

	assert.True(t, adapters.NewPBKDF2().Verify(ctx, "password", *stored), "a fresh instance must verify existing hashes")
	assert.False(t, adapters.NewPBKDF2WithIterations(testIterations).Verify(ctx, "password", *stored))
}

func TestPBKDF2_VerifyMalformed(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewPBKDF2WithIterations(testIterations)

	stored, err := svc.Hash(ctx, "password")
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored services.PasswordHash
	}{
		{name: "salt is not hex", stored: services.PasswordHash{Salt: "zz", Hash: stored.Hash}},
		{name: "hash is not hex", stored: services.PasswordHash{Salt: stored.Salt, Hash: "not-hex"}},
		{name: "empty salt", stored: services.PasswordHash{Salt: "", Hash: stored.Hash}},
		{name: "empty hash", stored: services.PasswordHash{Salt: stored.Salt, Hash: ""}},
		{name: "truncated hash", stored: services.PasswordHash{Salt: stored.Salt, Hash: stored.Hash[:32]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, svc.Verify(ctx, "password", tt.stored))
			})
		})
	}
}
