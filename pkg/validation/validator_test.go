package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
	Confirm  string `json:"confirm_password" validate:"required"`
	Quantity int    `json:"quantity" validate:"qty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_Validation(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerReq{Email: "nope", Password: "abc", Quantity: 5000})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details["password"], "uppercase")
	assert.Equal(t, "is required", details["confirm_password"])
	assert.Equal(t, "must be a quantity between 0 and 1000", details["quantity"])
}

func TestStrongPwd_Accepts(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerReq{Email: "a@b.test", Password: "Secur3!pw", Confirm: "x", Quantity: 1})
	assert.NoError(t, err)
}

func TestToDetails_JSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte(`{"a":`), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
