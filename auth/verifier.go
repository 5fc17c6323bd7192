package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the payload of a bearer token. UserID falls back to the
// registered subject for tokens minted by other issuers.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verifier checks HMAC signed tokens against a shared secret.
type Verifier struct {
	secret []byte
	method jwt.SigningMethod
}

func NewVerifier(secret, alg string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("unsupported signing algorithm %q", alg)
	}

	return &Verifier{secret: []byte(secret), method: method}, nil
}

func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{v.method.Alg()}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse jwt token")
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("jwt token carries no user id")
	}

	return claims, nil
}

// Sign mints a token for userID. A zero ttl mints a token that never expires.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token, err := jwt.NewWithClaims(v.method, claims).SignedString(v.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign jwt token")
	}

	return token, nil
}
