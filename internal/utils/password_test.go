package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == "admin" {
		t.Error("hash should be non-empty and not the plaintext")
	}

	// bcrypt salts each call
	again, _ := HashPassword("admin")
	if hash == again {
		t.Error("same password should produce different hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, _ := HashPassword("correct-horse")

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "correct-horse", true},
		{"wrong password", "battery-staple", false},
		{"empty password", "", false},
		{"near miss", "correct-horse1", false},
		{"case sensitive", "Correct-Horse", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, hash); got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	if CheckPassword("password", "not-a-bcrypt-hash") {
		t.Error("malformed hash should never verify")
	}
	if CheckPassword("password", "") {
		t.Error("empty hash should never verify")
	}
}
