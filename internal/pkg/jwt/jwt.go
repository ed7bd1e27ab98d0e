package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

// sseTokenTTL bounds how long a stream token may be used to open a connection.
const sseTokenTTL = 5 * time.Minute

type Service interface {
	GenerateAccessToken(claims auth.Claims) (token string, expiresAt int64, err error)

	// GenerateSSEToken issues a short-lived token passed as a query parameter,
	// since EventSource cannot send an Authorization header.
	GenerateSSEToken(claims auth.Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (auth.Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) encode(c auth.Claims, tokenType string, expiresAt int64) (string, error) {
	claims := map[string]interface{}{
		"user_id": c.UserID,
		"role":    string(c.Role),
		"type":    tokenType,
		"exp":     expiresAt,
	}
	if c.EmployeeID != "" {
		claims["employee_id"] = c.EmployeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}

func (j *JWTService) GenerateAccessToken(claims auth.Claims) (token string, expiresAt int64, err error) {
	if !claims.Role.Valid() {
		return "", 0, fmt.Errorf("invalid role %q", claims.Role)
	}
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()
	token, err = j.encode(claims, TokenTypeAccess, expiresAt)
	return token, expiresAt, err
}

func (j *JWTService) GenerateSSEToken(claims auth.Claims) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenTTL).Unix()
	token, err = j.encode(claims, TokenTypeSSE, expiresAt)
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (auth.Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	return auth.ClaimsFromMap(token.PrivateClaims())
}
