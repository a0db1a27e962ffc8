package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"noteful-server/internal/domain"
)

var (
	// ErrTokenExpired marks an otherwise well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens, wrong signatures and wrong
	// signing algorithms. Handlers answer both errors with the same 401.
	ErrTokenInvalid = errors.New("token invalid")
)

// UserClaim is the sanitized identity projection embedded in every token.
type UserClaim struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

// Claims carries the registered claim set plus the user projection,
// with subject set to the username.
type Claims struct {
	jwt.RegisteredClaims
	User UserClaim `json:"user"`
}

// TokenService issues and verifies stateless HS256 bearer tokens. There
// is no server-side session store or revocation; expiry is the only
// lifetime bound.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user. Only the sanitized projection
// is embedded; the password hash never reaches a token.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		User: UserClaim{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
		},
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry together and returns the
// embedded identity. Expired and forged tokens yield distinct errors so
// the failure can be logged precisely, but callers map both to the same
// unauthenticated response.
func (s *TokenService) Verify(tokenString string) (*domain.User, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &domain.User{
		ID:       claims.User.ID,
		Username: claims.User.Username,
		FullName: claims.User.FullName,
	}, nil
}

// Refresh re-issues a token for an already verified identity with a
// fresh expiry. Trust is transferred from the prior valid token, so the
// password is not re-checked; the new expiry is never earlier than the
// old one because the old token was issued in the past with the same TTL.
func (s *TokenService) Refresh(identity *domain.User) (string, error) {
	return s.Issue(identity)
}
