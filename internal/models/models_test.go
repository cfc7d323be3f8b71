package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"ADMIN", true},
		{"USER", true},
		{"", false},
		{"admin", false},
		{"ROOT", false},
	}

	for _, tc := range cases {
		role, ok := ParseRole(tc.in)
		if ok != tc.valid {
			t.Fatalf("ParseRole(%q) validity = %v, want %v", tc.in, ok, tc.valid)
		}
		if ok && string(role) != tc.in {
			t.Fatalf("ParseRole(%q) = %q", tc.in, role)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Fatal("expected admin")
	}

	user := &User{Role: RoleUser}
	if user.IsAdmin() {
		t.Fatal("expected non-admin")
	}

	var nilUser *User
	if nilUser.IsAdmin() {
		t.Fatal("nil user must not be admin")
	}
}
