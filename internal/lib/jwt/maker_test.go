package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_IssueAndVerify_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)

	tests := []struct {
		name      string
		subjectID int64
		email     string
		role      string
	}{
		{
			name:      "admin account",
			subjectID: 1,
			email:     "admin@example.com",
			role:      "admin",
		},
		{
			name:      "vendor account",
			subjectID: 42,
			email:     "vendor@example.com",
			role:      "vendor",
		},
		{
			name:      "founder account",
			subjectID: 7,
			email:     "founder@example.com",
			role:      "founder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.Issue(tt.subjectID, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.Verify(token)
			require.NoError(t, err)

			id, err := claims.SubjectID()
			require.NoError(t, err)
			assert.Equal(t, tt.subjectID, id)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_Verify_ErrorTaxonomy(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewMaker(secretKey, 15*time.Minute)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "garbage token",
			token:   "invalid.token.here",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "expired token",
			token:   issueWith(t, NewMaker(secretKey, -time.Hour)),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "wrong secret key",
			token:   issueWith(t, NewMaker("wrong_secret_key", 15*time.Minute)),
			wantErr: ErrTokenSignatureInvalid,
		},
		{
			name:    "unexpected signing algorithm",
			token:   issueUnsigned(t),
			wantErr: ErrTokenSignatureInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMaker_Issue_NotIdempotent(t *testing.T) {
	maker := NewMaker("test_secret_key", 15*time.Minute)

	first, err := maker.Issue(1, "a@b.com", "vendor")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	second, err := maker.Issue(1, "a@b.com", "vendor")
	require.NoError(t, err)

	// IssuedAt меняется, токены различаются.
	assert.NotEqual(t, first, second)
}

func issueWith(t *testing.T, maker *MakerImpl) string {
	token, err := maker.Issue(1, "test@example.com", "vendor")
	require.NoError(t, err)
	return token
}

// issueUnsigned собирает токен с alg=none: сервер обязан отклонить его
// до проверки подписи.
func issueUnsigned(t *testing.T) string {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{
		Email: "test@example.com",
		Role:  "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}
