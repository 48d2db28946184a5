package validate

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Username string `json:"username" validate:"required,max=10,alpha_dash"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Note     string `json:"-"`
}

func TestStructCollectsAllFailures(t *testing.T) {
	errs := Struct(&registration{Username: "has spaces!", Email: "nope", Password: "ab"})

	require.Contains(t, errs, "username")
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "password")
	assert.Contains(t, errs["username"], "Ensure this field has no more than 10 characters.")
	assert.Contains(t, errs["username"], "The username may only contain letters, numbers, dashes, and underscores.")
	assert.Contains(t, errs["email"][0], "valid email address")
	assert.Contains(t, errs["password"][0], "at least 4 characters")
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registration{Username: "ravi_01", Email: "ravi@example.com", Password: "secret"})
	assert.False(t, errs.Any())
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&registration{})
	assert.Equal(t, []string{"The username field is required."}, errs["username"])
	assert.Equal(t, []string{"The email field is required."}, errs["email"])
	assert.Equal(t, []string{"The password field is required."}, errs["password"])
}

func TestStructReportsJSONNames(t *testing.T) {
	type payload struct {
		DisplayName string `json:"display_name,omitempty" validate:"required"`
	}
	errs := Struct(&payload{})
	assert.Contains(t, errs, "display_name")
}

func TestMerge(t *testing.T) {
	a := Errors{"x": {"one"}}
	b := Errors{"x": {"two"}, "y": {"three"}}
	a.Merge(b)

	assert.Equal(t, []string{"one", "two"}, a["x"])
	assert.Equal(t, []string{"three"}, a["y"])
}

func TestMaxLen(t *testing.T) {
	errs := Errors{}
	MaxLen(errs, "desc", "short", 50)
	assert.False(t, errs.Any())

	MaxLen(errs, "desc", strings.Repeat("x", 51), 50)
	assert.Contains(t, errs["desc"], "Ensure this field has no more than 50 characters.")
}

func TestMoney(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"ok", "999.99", ""},
		{"ok integer", "999", ""},
		{"ok fraction only", "0.99", ""},
		{"too many decimal places", "1.999", "Ensure that there are no more than 2 decimal places."},
		{"too many total digits", "1000.00", "Ensure that there are no more than 5 digits in total."},
		{"too many total digits integer", "1000", "Ensure that there are no more than 5 digits in total."},
		{"negative within budget", "-999.99", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Errors{}
			Money(errs, "price", decimal.RequireFromString(tc.value), 5, 2)

			if tc.want == "" {
				assert.False(t, errs.Any(), "unexpected: %v", errs)
			} else {
				require.Contains(t, errs, "price")
				assert.Contains(t, errs["price"], tc.want)
			}
		})
	}
}
