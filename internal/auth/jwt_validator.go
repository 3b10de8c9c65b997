package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	errMissingSubject = errors.New("auth: token missing subject")
	errUnknownRole    = errors.New("auth: token carries an unknown role")
)

// TokenValidator checks a session token issued to an admin, employee or
// customer.
type TokenValidator struct {
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
	// Use, when set, must match the token's "use" claim (access or refresh).
	Use string
}

// Validate verifies the signing algorithm, the principal (subject and role)
// and the registered claims as of now.
func (v TokenValidator) Validate(tok jwt.Token, algorithm jwa.SignatureAlgorithm, now time.Time) error {
	switch {
	case tok == nil:
		return errors.New("auth: token is nil")
	case algorithm == "":
		return errors.New("auth: token missing algorithm")
	case v.Algorithm != "" && algorithm != v.Algorithm:
		return fmt.Errorf("auth: unexpected token algorithm %s", algorithm)
	case tok.Subject() == "":
		return errMissingSubject
	}

	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(v.ClockSkew),
		jwt.WithValidator(principalRole),
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	if v.Use != "" {
		options = append(options, jwt.WithClaimValue(claimUse, v.Use))
	}
	return jwt.Validate(tok, options...)
}

// principalRole rejects tokens whose role the API would not know how to
// authorise.
var principalRole = jwt.ValidatorFunc(func(_ context.Context, tok jwt.Token) jwt.ValidationError {
	if !validRole(stringClaim(tok, claimRole)) {
		return jwt.NewValidationError(errUnknownRole)
	}
	return nil
})
