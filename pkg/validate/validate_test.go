package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=80"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"nullable,in=ADMIN,EDITOR,CUSTOMER"`
	Age      int    `json:"age"      validate:"nullable,integer,gte=13,lte=120"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerForm{
		Username: "neha_01",
		Email:    "neha@example.com",
		Password: "supersecret",
		Role:     "CUSTOMER",
		Age:      30,
	})
	assert.False(t, HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructCollectsFirstFailurePerField(t *testing.T) {
	errs := Struct(&registerForm{
		Username: "n!", // fails alpha_dash before min
		Email:    "not-an-email",
		Password: "short",
		Role:     "OVERLORD",
	})

	assert.Contains(t, errs["username"], "letters, numbers, dashes")
	assert.Contains(t, errs["email"], "valid email")
	assert.Contains(t, errs["password"], "at least 8")
	assert.Contains(t, errs["role"], "invalid")
}

func TestNullableSkipsEmptyFields(t *testing.T) {
	errs := Struct(&registerForm{
		Username: "neha",
		Email:    "neha@example.com",
		Password: "supersecret",
		// Role and Age empty — nullable, so no errors.
	})
	assert.False(t, HasErrors(errs))
}

func TestRequiredZeroValues(t *testing.T) {
	errs := Struct(&registerForm{})
	assert.Equal(t, "The username field is required.", errs["username"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Equal(t, "The password field is required.", errs["password"])
}

func TestNumericBounds(t *testing.T) {
	errs := Struct(&registerForm{
		Username: "neha",
		Email:    "neha@example.com",
		Password: "supersecret",
		Age:      7,
	})
	assert.Contains(t, errs["age"], "greater than or equal to 13")
}

func TestConfirmedRule(t *testing.T) {
	type form struct {
		Password             string `json:"password"              validate:"required,confirmed"`
		PasswordConfirmation string `json:"password_confirmation"`
	}

	ok := Struct(&form{Password: "secret123", PasswordConfirmation: "secret123"})
	assert.False(t, HasErrors(ok))

	bad := Struct(&form{Password: "secret123", PasswordConfirmation: "different"})
	assert.Contains(t, bad["password"], "confirmation does not match")
}

func TestSplitRulesKeepsInParams(t *testing.T) {
	rules := splitRules("required,in=ADMIN,EDITOR,CUSTOMER,max=100")
	assert.Equal(t, []string{"required", "in=ADMIN,EDITOR,CUSTOMER", "max=100"}, rules)
}
