package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short text unchanged", "hola", "hola"},
		{"exactly twenty chars unchanged", "12345678901234567890", "12345678901234567890"},
		{"long text truncated", "como trato los pulgones en mis tomates", "como trato los pulgo..."},
		{"multibyte counted as characters", "¿qué plaga ataca a mis árboles frutales?", "¿qué plaga ataca a m..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.in))
		})
	}
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleBot))
	assert.False(t, IsValidRole("assistant"))
	assert.False(t, IsValidRole(""))
}
