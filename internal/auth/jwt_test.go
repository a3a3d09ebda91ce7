package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestMintAndVerify(t *testing.T) {
	m := NewJWTManagerFromKeys(testKey(t), nil, Issuer)

	tok, err := m.MintAgentToken("planner-agent", time.Hour, []string{ScopeRead})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.JTI)

	claims, err := m.VerifyToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "planner-agent", claims.Subject)
	assert.Equal(t, tok.JTI, claims.ID)
	assert.True(t, claims.HasScope(ScopeRead))
	assert.False(t, claims.HasScope(ScopeAnalyze))
}

func TestVerifyRejects(t *testing.T) {
	m := NewJWTManagerFromKeys(testKey(t), nil, Issuer)
	other := NewJWTManagerFromKeys(testKey(t), nil, Issuer)

	foreign, err := other.MintAgentToken("a", time.Hour, nil)
	require.NoError(t, err)
	_, err = m.VerifyToken(foreign.Token)
	assert.Error(t, err, "signed with another key")

	expired, err := m.MintAgentToken("a", -time.Hour, nil)
	require.NoError(t, err)
	_, err = m.VerifyToken(expired.Token)
	assert.Error(t, err)

	wrongIssuer := NewJWTManagerFromKeys(m.privateKey, nil, "someone-else")
	tok, err := wrongIssuer.MintAgentToken("a", time.Hour, nil)
	require.NoError(t, err)
	_, err = m.VerifyToken(tok.Token)
	assert.Error(t, err)
}

func TestVerifyOnlyManager(t *testing.T) {
	key := testKey(t)
	dir := t.TempDir()
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPath := filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o644))

	m, err := NewJWTManager(filepath.Join(dir, "missing.pem"), pubPath, Issuer)
	require.NoError(t, err)
	_, err = m.MintAgentToken("a", time.Hour, nil)
	assert.ErrorIs(t, err, ErrNoSigningKey)

	signer := NewJWTManagerFromKeys(key, nil, Issuer)
	tok, err := signer.MintAgentToken("a", time.Hour, nil)
	require.NoError(t, err)
	_, err = m.VerifyToken(tok.Token)
	assert.NoError(t, err)

	_, err = NewJWTManager("", filepath.Join(dir, "nope.pem"), Issuer)
	assert.Error(t, err)
}
