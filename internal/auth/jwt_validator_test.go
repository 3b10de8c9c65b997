package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-carwash/internal/common"
)

var validatorNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

// sessionToken builds the claims Service.sign would issue for an employee's
// access token; edit tweaks them before the token is built.
func sessionToken(t *testing.T, edit func(b *jwt.Builder) *jwt.Builder) jwt.Token {
	t.Helper()
	b := jwt.NewBuilder().
		Issuer("carwash-api").
		Audience([]string{"carwash-clients"}).
		Subject("emp-42").
		IssuedAt(validatorNow).
		NotBefore(validatorNow).
		Expiration(validatorNow.Add(15*time.Minute)).
		Claim(claimRole, common.RoleEmployee).
		Claim(claimUse, useAccess)
	if edit != nil {
		b = edit(b)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	return tok
}

func TestTokenValidatorSessionClaims(t *testing.T) {
	access := TokenValidator{
		Issuer:    "carwash-api",
		Audience:  "carwash-clients",
		ClockSkew: 30 * time.Second,
		Algorithm: jwa.HS256,
		Use:       useAccess,
	}

	cases := []struct {
		name      string
		edit      func(b *jwt.Builder) *jwt.Builder
		algorithm jwa.SignatureAlgorithm
		at        time.Time
		wantErr   string
	}{
		{name: "employee access token"},
		{
			name: "customer access token",
			edit: func(b *jwt.Builder) *jwt.Builder { return b.Claim(claimRole, common.RoleCustomer) },
		},
		{
			name:    "refresh token used as access token",
			edit:    func(b *jwt.Builder) *jwt.Builder { return b.Claim(claimUse, useRefresh) },
			wantErr: claimUse,
		},
		{
			name:    "blank subject",
			edit:    func(b *jwt.Builder) *jwt.Builder { return b.Subject("") },
			wantErr: errMissingSubject.Error(),
		},
		{
			name:    "role the API does not know",
			edit:    func(b *jwt.Builder) *jwt.Builder { return b.Claim(claimRole, "manager") },
			wantErr: errUnknownRole.Error(),
		},
		{
			name:    "another audience",
			edit:    func(b *jwt.Builder) *jwt.Builder { return b.Audience([]string{"toko-clients"}) },
			wantErr: "aud",
		},
		{
			name:      "signed with RS256",
			algorithm: jwa.RS256,
			wantErr:   "unexpected token algorithm",
		},
		{
			name: "expired within clock skew",
			at:   validatorNow.Add(15*time.Minute + 10*time.Second),
		},
		{
			name:    "expired past clock skew",
			at:      validatorNow.Add(16 * time.Minute),
			wantErr: "exp",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			algorithm := tc.algorithm
			if algorithm == "" {
				algorithm = jwa.HS256
			}
			at := tc.at
			if at.IsZero() {
				at = validatorNow
			}
			err := access.Validate(sessionToken(t, tc.edit), algorithm, at)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestTokenValidatorWithoutUseAcceptsRefresh(t *testing.T) {
	tok := sessionToken(t, func(b *jwt.Builder) *jwt.Builder {
		return b.Claim(claimUse, useRefresh).Claim(claimRole, common.RoleAdmin)
	})
	require.NoError(t, TokenValidator{Algorithm: jwa.HS256}.Validate(tok, jwa.HS256, validatorNow))
	require.Error(t, TokenValidator{Algorithm: jwa.HS256, Use: useAccess}.Validate(tok, jwa.HS256, validatorNow))
}

func TestTokenValidatorNilToken(t *testing.T) {
	require.Error(t, TokenValidator{}.Validate(nil, jwa.HS256, validatorNow))
}
