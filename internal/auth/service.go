package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-carwash/internal/common"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour

	claimRole = "role"
	claimUse  = "use"

	useAccess  = "access"
	useRefresh = "refresh"
)

// Service issues, validates and revokes the JWTs used by employees and customers.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	signer     jwa.SignatureAlgorithm
	validator  TokenValidator
	issuer     string
	audience   string
	clockSkew  time.Duration
	revoked    Revocations
}

// Config configures the auth service.
type Config struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        string
	ClockSkew       time.Duration
	// Revocations is optional. Without it logout only clears cookies.
	Revocations Revocations
}

// Claims are the validated contents of a token.
type Claims struct {
	Subject   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenPair bundles token material returned after a successful login or refresh.
type TokenPair struct {
	AccessToken   string    `json:"access_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshToken  string    `json:"refresh_token"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-carwash"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "carwash-clients"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}

	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		signer:     jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
		revoked:   cfg.Revocations,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Issue signs a fresh access/refresh pair for subject acting as role.
func (s *Service) Issue(subject, role string) (TokenPair, error) {
	if strings.TrimSpace(subject) == "" {
		return TokenPair{}, errors.New("auth: subject is required")
	}
	if !validRole(role) {
		return TokenPair{}, fmt.Errorf("auth: unknown role %q", role)
	}
	access, accessExp, err := s.sign(subject, role, useAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.sign(subject, role, useRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:   access,
		AccessExpiry:  accessExp,
		RefreshToken:  refresh,
		RefreshExpiry: refreshExp,
	}, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (s *Service) ParseAccessToken(ctx context.Context, token string) (Claims, error) {
	return s.parse(ctx, token, useAccess)
}

// Refresh validates a refresh token, revokes it and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(ctx, refreshToken, useRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return TokenPair{}, err
	}
	return s.Issue(claims.Subject, claims.Role)
}

// Logout revokes whichever of the supplied tokens are still valid.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var joined error
	if strings.TrimSpace(accessToken) != "" {
		if claims, err := s.parse(ctx, accessToken, useAccess); err == nil {
			joined = errors.Join(joined, s.revoke(ctx, claims))
		}
	}
	if strings.TrimSpace(refreshToken) != "" {
		if claims, err := s.parse(ctx, refreshToken, useRefresh); err == nil {
			joined = errors.Join(joined, s.revoke(ctx, claims))
		}
	}
	return joined
}

func (s *Service) revoke(ctx context.Context, claims Claims) error {
	if s.revoked == nil || claims.TokenID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) parse(ctx context.Context, token, use string) (Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, common.NewAppError("UNAUTHORIZED", "missing token", httpStatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return Claims{}, common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return Claims{}, common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	v := s.validator
	v.Use = use
	if err := v.Validate(parsed, algorithm, s.now()); err != nil {
		return Claims{}, common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	claims := Claims{
		Subject:   parsed.Subject(),
		Role:      stringClaim(parsed, claimRole),
		TokenID:   parsed.JwtID(),
		ExpiresAt: parsed.Expiration(),
	}
	if s.revoked != nil && claims.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return Claims{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return Claims{}, common.NewAppError("UNAUTHORIZED", "token revoked", httpStatusUnauthorized, nil)
		}
	}
	return claims, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", fmt.Errorf("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) sign(subject, role, use string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Subject(subject).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Claim(claimRole, role).
		Claim(claimUse, use).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func stringClaim(tok jwt.Token, name string) string {
	raw, ok := tok.Get(name)
	if !ok {
		return ""
	}
	value, _ := raw.(string)
	return value
}

func validRole(role string) bool {
	switch role {
	case common.RoleAdmin, common.RoleEmployee, common.RoleCustomer:
		return true
	}
	return false
}

const httpStatusUnauthorized = 401
