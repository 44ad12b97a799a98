package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/taskboard/internal/model"
)

const signingMethod = "HS256"

// JWTIssuer はHS256で署名したアクセストークンを発行・検証する。
// subjectにユーザーIDの10進文字列を格納する。
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer はJWTIssuerを生成する。
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はuserIDをsubjectとするアクセストークンを発行する。
func (j *JWTIssuer) Issue(userID int64) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("アクセストークンの署名に失敗しました: %w", err)
	}
	return signed, nil
}

// Verify はアクセストークンを検証し、ユーザーIDを返す。
// 期限切れの場合はExpiredToken、それ以外の不正はInvalidTokenを返す。
func (j *JWTIssuer) Verify(tokenString string) (int64, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, model.NewExpiredTokenError()
		}
		return 0, model.NewInvalidTokenError()
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, model.NewInvalidTokenError()
	}
	return userID, nil
}
