package models

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestComparePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &User{Password: string(hash)}

	if !u.ComparePassword("correct horse") {
		t.Error("expected matching password to compare true")
	}
	if u.ComparePassword("battery staple") {
		t.Error("expected wrong password to compare false")
	}

	empty := &User{}
	if empty.ComparePassword("") {
		t.Error("user without a loaded hash must never match")
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{Email: "a@b.c", Password: "$2a$10$secret", Role: RolePatient}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secret") || strings.Contains(string(out), "password") {
		t.Errorf("password leaked into JSON: %s", out)
	}
	if strings.Contains(string(out), "docAvatar") {
		t.Errorf("non-doctor should not carry docAvatar: %s", out)
	}
}
