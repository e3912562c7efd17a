package security

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"instapay-callback/internal/domain"
)

// TokenTTL is the validity window of an issued token.
const TokenTTL = time.Hour

// AccessClaims is the payload of a GetToken token.
type AccessClaims struct {
	Identity string `json:"identity"`
	Fresh    bool   `json:"fresh"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and checks HS256 tokens with a shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs an access token for subject, valid for TokenTTL.
func (s *TokenService) Issue(subject string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(TokenTTL)
	claims := AccessClaims{
		Identity: subject,
		Fresh:    false,
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        ulid.Make().String(),
		},
	}
	signed, err := s.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Sign produces header.payload.signature for arbitrary claims.
func (s *TokenService) Sign(claims jwt.Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrSigningUnavailable
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature only. Expiry is not looked at; callers that
// need it use Parse.
func (s *TokenService) Verify(token string) bool {
	if len(s.secret) == 0 {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	sig, err := jwt.SigningMethodHS256.Sign(parts[0]+"."+parts[1], s.secret)
	if err != nil {
		return false
	}
	expected := base64.RawURLEncoding.EncodeToString(sig)
	return hmac.Equal([]byte(expected), []byte(parts[2]))
}

var ErrInvalidToken = errors.New("invalid token")

// Parse verifies the signature and the time claims (exp, nbf, iat).
func (s *TokenService) Parse(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
