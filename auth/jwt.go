package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/content-architect/outbound/clock"
)

// JWTSignerConfig configures a self-signed JWT credential.
type JWTSignerConfig struct {
	// Key is the HMAC signing key.
	Key []byte

	// Issuer is the iss claim.
	Issuer string

	// Audience is the aud claim.
	Audience string

	// Subject is the sub claim (optional).
	Subject string

	// TTL is the token lifetime.
	// Default: 5 minutes
	TTL time.Duration

	// RefreshSkew is how long before expiry a fresh token is minted, so
	// in-flight requests never carry a token about to expire.
	// Default: 30 seconds
	RefreshSkew time.Duration

	// Clock is the time source. Default: the real clock.
	Clock clock.Clock
}

// JWTSigner mints short-lived HS256 tokens and sends them as bearer
// tokens. Tokens are cached until close to expiry; concurrent callers
// needing a refresh share a single minting operation.
type JWTSigner struct {
	config JWTSignerConfig
	clock  clock.Clock
	group  singleflight.Group

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewJWTSigner creates a JWT signing credential.
func NewJWTSigner(config JWTSignerConfig) (*JWTSigner, error) {
	if len(config.Key) == 0 {
		return nil, ErrMissingKey
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.RefreshSkew <= 0 || config.RefreshSkew >= config.TTL {
		config.RefreshSkew = 30 * time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.New()
	}

	return &JWTSigner{
		config: config,
		clock:  config.Clock,
	}, nil
}

// Apply attaches a freshly minted or cached token to the request.
func (s *JWTSigner) Apply(ctx context.Context, req *http.Request) error {
	token, err := s.tokenFor(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Name identifies the credential scheme.
func (s *JWTSigner) Name() string {
	return "jwt"
}

func (s *JWTSigner) tokenFor(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.token, s.expiresAt
	s.mu.RUnlock()

	now := s.clock.Now()
	if token != "" && now.Add(s.config.RefreshSkew).Before(expiresAt) {
		return token, nil
	}

	// Concurrent refreshes collapse into one mint.
	v, err, _ := s.group.Do("mint", func() (any, error) {
		return s.mint()
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMintFailed, err)
	}
	return v.(string), nil
}

func (s *JWTSigner) mint() (string, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   s.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()

	return token, nil
}

var _ Credential = (*JWTSigner)(nil)
