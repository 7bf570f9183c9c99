package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
)

// The middleware reads "sub" and "role" straight from the parsed
// claims, so the issuing side must keep producing them.
func TestAccessTokenRoundTrip(t *testing.T) {
    at, err := NewAccessToken("secret", 42, "CONSULTANT", 5)
    if err != nil {
        t.Fatalf("issue: %v", err)
    }
    if at.Token == "" {
        t.Fatalf("empty token")
    }

    tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    }, jwt.WithValidMethods([]string{"HS256"}))
    if err != nil || !tok.Valid {
        t.Fatalf("parse: %v", err)
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        t.Fatalf("claims are not a map")
    }
    if claims["sub"] != "42" {
        t.Fatalf("sub = %v, want \"42\"", claims["sub"])
    }
    if claims["role"] != "CONSULTANT" {
        t.Fatalf("role = %v, want CONSULTANT", claims["role"])
    }
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
    at, err := NewAccessToken("secret", 1, "CUSTOMER", 5)
    if err != nil {
        t.Fatalf("issue: %v", err)
    }
    _, err = jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("other"), nil
    }, jwt.WithValidMethods([]string{"HS256"}))
    if err == nil {
        t.Fatalf("token verified under the wrong secret")
    }
}

func TestHashRefreshRaw(t *testing.T) {
    h := HashRefreshRaw("abc")
    if len(h) != 64 {
        t.Fatalf("hash length = %d, want 64 hex chars", len(h))
    }
    if h != HashRefreshRaw("abc") {
        t.Fatalf("hash is not deterministic")
    }
    if h == HashRefreshRaw("abd") {
        t.Fatalf("different tokens must not collide trivially")
    }
}

func TestNewRefreshTokenUnique(t *testing.T) {
    a, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("issue: %v", err)
    }
    b, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("issue: %v", err)
    }
    if a.Raw == b.Raw {
        t.Fatalf("refresh tokens must be unique")
    }
    if len(a.Raw) != 96 {
        t.Fatalf("raw length = %d, want 96 hex chars", len(a.Raw))
    }
}
