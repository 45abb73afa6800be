package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want []string
	}{
		{name: "strong", pw: "Secur3!pw"},
		{name: "short and plain", pw: "abc", want: []string{"at least 8 characters", "an uppercase letter", "a digit", "a special character"}},
		{name: "no special", pw: "Password1", want: []string{"a special character"}},
		{name: "no upper", pw: "password1!", want: []string{"an uppercase letter"}},
		{name: "no lower", pw: "PASSWORD1!", want: []string{"a lowercase letter"}},
		{name: "no digit", pw: "Password!", want: []string{"a digit"}},
		{name: "special outside list", pw: "Password1~", want: []string{"a special character"}},
		{name: "72 bytes", pw: "Aa1!" + strings.Repeat("x", 68)},
		{name: "over 72 bytes", pw: "Aa1!" + strings.Repeat("x", 76), want: []string{"at most 72 bytes"}},
		{name: "multibyte over 72 bytes", pw: "Aa1!" + strings.Repeat("é", 35), want: []string{"at most 72 bytes"}},
		{name: "empty", pw: "", want: []string{"at least 8 characters", "an uppercase letter", "a lowercase letter", "a digit", "a special character"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.pw)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var pe *PasswordPolicyError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, pe.Violations)
		})
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("Secur3!pw")
	require.NoError(t, err)
	assert.NotEqual(t, "Secur3!pw", h)
	assert.True(t, CompareHashAndPassword(h, "Secur3!pw"))
	assert.False(t, CompareHashAndPassword(h, "wrong"))
}

func TestHashPassword_AcceptsEveryPolicyPassword(t *testing.T) {
	pw := "Aa1!" + strings.Repeat("x", 68)
	require.NoError(t, CheckPasswordPolicy(pw))
	_, err := HashPassword(pw)
	assert.NoError(t, err)
}
