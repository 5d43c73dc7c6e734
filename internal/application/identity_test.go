package application

import "testing"

func TestIsAdministrator(t *testing.T) {
	cases := []struct {
		name     string
		identity Identity
		want     bool
	}{
		{name: "admin role", identity: Identity{Email: "ops@example.com", Role: RoleAdmin}, want: true},
		{name: "bootstrap address with user role", identity: Identity{Email: "admin@gmail.com", Role: RoleUser}, want: true},
		{name: "bootstrap address case insensitive", identity: Identity{Email: "Admin@Gmail.com", Role: RoleUser}, want: true},
		{name: "regular user", identity: Identity{Email: "user@example.com", Role: RoleUser}, want: false},
		{name: "empty identity", identity: Identity{}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAdministrator(tc.identity); got != tc.want {
				t.Fatalf("IsAdministrator(%+v) = %v, want %v", tc.identity, got, tc.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	if got := NormalizeRole("ADMIN"); got != RoleAdmin {
		t.Fatalf("NormalizeRole(ADMIN) = %q, want %q", got, RoleAdmin)
	}
	if got := NormalizeRole("user"); got != RoleUser {
		t.Fatalf("NormalizeRole(user) = %q, want %q", got, RoleUser)
	}
	if got := NormalizeRole("banana"); got != RoleUser {
		t.Fatalf("NormalizeRole(banana) = %q, want %q", got, RoleUser)
	}
}
