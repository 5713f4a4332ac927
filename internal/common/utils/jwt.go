package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CognitoClaims represents the claims of a Cognito access or id token
type CognitoClaims struct {
	jwt.RegisteredClaims
	Username    string `json:"username"`
	Email       string `json:"email"`
	CompanyID   string `json:"custom:companyId"`
	CompanyName string `json:"custom:companyName"`
	TokenUse    string `json:"token_use"`
	ClientID    string `json:"client_id"`
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header format must be: Bearer {token}")
	}

	return parts[1], nil
}

// ParseUnverifiedClaims decodes the claims of a token whose signature has
// already been checked by API Gateway.
func ParseUnverifiedClaims(tokenString string) (*CognitoClaims, error) {
	claims := &CognitoClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// SubjectFromBearer returns the caller's user id from an Authorization header.
// Cognito access tokens carry the user name in "username"; id tokens only in "sub".
func SubjectFromBearer(authHeader string) (string, error) {
	token, err := ExtractBearerToken(authHeader)
	if err != nil {
		return "", err
	}
	claims, err := ParseUnverifiedClaims(token)
	if err != nil {
		return "", err
	}
	if claims.Username != "" {
		return claims.Username, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", errors.New("token has no subject")
}
