package utils

import (
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("hunter2", bcrypt.MinCost)
    if err != nil {
        t.Fatalf("hash: %v", err)
    }
    if !VerifyPassword(hash, "hunter2") {
        t.Fatalf("correct password rejected")
    }
    if VerifyPassword(hash, "hunter3") {
        t.Fatalf("wrong password accepted")
    }
}

// A bad BCRYPT_COST from the environment must not break registration.
func TestHashPasswordClampsCost(t *testing.T) {
    hash, err := HashPassword("pw", 99)
    if err != nil {
        t.Fatalf("out-of-range cost: %v", err)
    }
    if !VerifyPassword(hash, "pw") {
        t.Fatalf("clamped hash does not verify")
    }
}
