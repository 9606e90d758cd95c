package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("hunter2", bcrypt.MinCost)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "hunter2"))
    assert.False(t, VerifyPassword(hash, "hunter3"))
    assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}

func TestNewAccessToken(t *testing.T) {
    now := time.Now()
    tok, err := NewAccessToken("secret", "admin", "ADMIN", 30, now)
    require.NoError(t, err)
    assert.WithinDuration(t, now.Add(30*time.Minute), tok.Exp, time.Second)

    claims := jwt.MapClaims{}
    parsed, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    assert.True(t, parsed.Valid)
    assert.Equal(t, "admin", claims["sub"])
    assert.Equal(t, "ADMIN", claims["role"])
}

func TestCredentialsCheck(t *testing.T) {
    hash, err := HashPassword("letmein", bcrypt.MinCost)
    require.NoError(t, err)
    creds := Credentials{Username: "manager", PasswordHash: hash}

    assert.True(t, creds.Check("manager", "letmein"))
    assert.False(t, creds.Check("manager", "nope"))
    assert.False(t, creds.Check("someone", "letmein"))
    assert.False(t, Credentials{PasswordHash: hash}.Check("", "letmein"))
}
