package session

import (
	"testing"

	"hospitalcms/internal/domain/role"
)

// TestContext_Expired verifies only token-requiring roles expire without a token.
func TestContext_Expired(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want bool
	}{
		{"guest without token", Context{Role: role.GuestPatient}, false},
		{"admin with token", Context{Role: role.Admin, Token: "t"}, false},
		{"admin without token", Context{Role: role.Admin}, true},
		{"doctor without token", Context{Role: role.Doctor}, true},
		{"logged patient without token", Context{Role: role.LoggedPatient}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
