package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the iss claim of agent tokens.
const Issuer = "energy-tools"

var ErrNoSigningKey = errors.New("no private key loaded, cannot sign tokens")

// Scopes an agent token can carry.
const (
	ScopeRead    = "tools:read"
	ScopeAnalyze = "tools:analyze"
)

// AgentClaims are the claims of a token minted for one agent.
type AgentClaims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope.
func (c *AgentClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type JWTManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

type AgentToken struct {
	Token     string
	ExpiresAt time.Time
	JTI       string
}

// NewJWTManager loads the RSA key pair. The public key is required; the
// private key may be absent on hosts that only verify tokens.
func NewJWTManager(privatePath, publicPath, issuer string) (*JWTManager, error) {
	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	var privKey *rsa.PrivateKey
	privPem, err := os.ReadFile(privatePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read private key: %w", err)
	default:
		if privKey, err = jwt.ParseRSAPrivateKeyFromPEM(privPem); err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
	}

	return NewJWTManagerFromKeys(privKey, pubKey, issuer), nil
}

func NewJWTManagerFromKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey, issuer string) *JWTManager {
	if pub == nil && priv != nil {
		pub = &priv.PublicKey
	}
	return &JWTManager{privateKey: priv, publicKey: pub, issuer: issuer}
}

// MintAgentToken signs an RS256 token for agent with a fresh jti.
func (m *JWTManager) MintAgentToken(agent string, ttl time.Duration, scopes []string) (*AgentToken, error) {
	if m.privateKey == nil {
		return nil, ErrNoSigningKey
	}
	if agent == "" {
		return nil, errors.New("agent name is required")
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.New().String()

	claims := AgentClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   agent,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenStr, err := token.SignedString(m.privateKey)
	if err != nil {
		return nil, err
	}
	return &AgentToken{Token: tokenStr, ExpiresAt: exp, JTI: jti}, nil
}

// VerifyToken checks the RS256 signature, expiry and issuer and returns the
// claims.
func (m *JWTManager) VerifyToken(tokenStr string) (*AgentClaims, error) {
	claims := &AgentClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
