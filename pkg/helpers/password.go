package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSpecials lists the characters accepted as "special" by the policy.
const PasswordSpecials = `!@#$%^&*(),.?":{}|<>`

const PasswordMinLength = 8

// PasswordMaxBytes is the longest input bcrypt accepts.
const PasswordMaxBytes = 72

// PasswordPolicyError lists every rule a candidate password broke.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password must contain " + strings.Join(e.Violations, ", ")
}

// CheckPasswordPolicy returns a *PasswordPolicyError when pw is weak, nil otherwise.
func CheckPasswordPolicy(pw string) error {
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	var v []string
	if len([]rune(pw)) < PasswordMinLength {
		v = append(v, "at least 8 characters")
	}
	if len(pw) > PasswordMaxBytes {
		v = append(v, "at most 72 bytes")
	}
	if !upper {
		v = append(v, "an uppercase letter")
	}
	if !lower {
		v = append(v, "a lowercase letter")
	}
	if !digit {
		v = append(v, "a digit")
	}
	if !special {
		v = append(v, "a special character")
	}
	if len(v) > 0 {
		return &PasswordPolicyError{Violations: v}
	}
	return nil
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
