package helpers

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("the token is invalid")
	ErrExpiredToken = errors.New("token is expired")
)

type SignedDetails struct {
	Email    string
	Name     string
	Uid      string
	UserRole string
	jwt.StandardClaims
}

// Tokens signs and checks staff session tokens with one HS256 secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateAllTokens returns an access token carrying the user's claims and a
// bare refresh token with the same lifetime.
func (t *Tokens) GenerateAllTokens(email, name, uid, userRole string) (signedToken string, refreshSignedToken string, err error) {
	expires := t.now().Add(t.ttl).Unix()
	claim := SignedDetails{
		Email:    email,
		Name:     name,
		Uid:      uid,
		UserRole: userRole,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expires,
		},
	}
	refreshClaim := SignedDetails{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expires,
		},
	}

	signedToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString(t.secret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign token")
	}
	refreshSignedToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaim).SignedString(t.secret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign refresh token")
	}
	return signedToken, refreshSignedToken, nil
}

func (t *Tokens) ValidateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(tok *jwt.Token) (interface{}, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return t.secret, nil
		},
	)
	if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
		return nil, ErrExpiredToken
	}
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt < t.now().Unix() {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
