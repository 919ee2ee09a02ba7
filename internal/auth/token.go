package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Verification failures. Signature mismatches and structural problems are not
// distinguished from each other; expiry is.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// IdentityClaims is the identity snapshot embedded in an issued token.
type IdentityClaims struct {
	SubjectID int64
	Phone     string
	Role      string
	Name      string
	Language  string
}

// Claims describes the JWT payload.
type Claims struct {
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
	Language string `json:"language,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the numeric account id carried in the sub claim.
func (c *Claims) SubjectID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenManager issues and verifies signed bearer tokens. It holds no state
// beyond the signing secret and is safe for concurrent use.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a manager around the shared signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token carrying the identity, valid for the given ttl.
func (tm *TokenManager) Issue(id IdentityClaims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Phone:    id.Phone,
		Role:     id.Role,
		Name:     id.Name,
		Language: id.Language,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.SubjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry and returns the decoded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
