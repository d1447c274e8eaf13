package models

import (
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Admin@Example.COM ", " Admin ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "admin@example.com" || u.Name != "Admin" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}

	for _, tt := range []struct{ email, name string }{
		{"not-an-email", "A"},
		{"", "A"},
		{"a@b.co", ""},
		{"a@b.co", strings.Repeat("n", 101)},
	} {
		if _, err := NewUser(tt.email, tt.name); err == nil {
			t.Errorf("expected error for %q/%q", tt.email, tt.name)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for overlong password")
	}
	if err := ValidatePassword("correct horse"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
