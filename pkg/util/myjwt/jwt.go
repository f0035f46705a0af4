package myjwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type CustomClaims struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer HS256 签发与校验
type Signer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(key, issuer string, expireHours int) (*Signer, error) {
	if key == "" {
		return nil, errors.New("jwt key is empty")
	}
	if expireHours <= 0 {
		expireHours = 24
	}
	return &Signer{
		key:    []byte(key),
		issuer: issuer,
		ttl:    time.Duration(expireHours) * time.Hour,
		now:    time.Now,
	}, nil
}

func (s *Signer) GenerateToken(uuid, username string) (string, error) {
	now := s.now()
	claims := CustomClaims{
		Uuid:     uuid,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *Signer) ParseToken(tokenString string) (*CustomClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Uuid == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
