package security

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService wraps JWT creation and validation. Access tokens carry the
// user id as subject plus email and role claims; reset tokens carry only the
// email and a short TTL.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	resetTTL  time.Duration
}

func NewTokenService(secret string, expiresIn, resetTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		resetTTL:  resetTTL,
	}
}

// CreateForUser creates an access token for the given user identity.
func (t *TokenService) CreateForUser(userID int64, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(t.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token and returns its claims.
func (t *TokenService) Parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		return claims, nil
	}
	return nil, jwt.ErrTokenMalformed
}

// UserID extracts the numeric subject from parsed claims.
func (t *TokenService) UserID(claims jwt.MapClaims) (int64, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return 0, fmt.Errorf("token has no subject")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q", sub)
	}
	return id, nil
}

// CreateResetToken creates a short-lived password-reset token for an email.
func (t *TokenService) CreateResetToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(t.resetTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseResetToken validates a reset token and returns the email it was
// issued for.
func (t *TokenService) ParseResetToken(tokenStr string) (string, error) {
	claims, err := t.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("reset token has no email claim")
	}
	return email, nil
}
