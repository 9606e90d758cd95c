// Package utils provides token and password helpers for admin login.
package utils

import (
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
    Token string    `json:"access_token"`
    Exp   time.Time `json:"expires_at"`
}

// NewAccessToken signs an HS256 token for subject with the given role that
// expires ttlMin minutes after now.
func NewAccessToken(secret, subject, role string, ttlMin int, now time.Time) (AccessToken, error) {
    exp := now.UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  subject,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.UTC().Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
