package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCapitalized(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"John", true},
		{"john", false},
		{"J", true},
		{"j", false},
		{"JOHN", true}, // only the first rune is constrained
		{"jOHN", false},
		{"", true}, // presence is the required rule's job
		{"Élise", true},
		{"élise", false},
		{"1abc", true}, // no letter to capitalize
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsCapitalized(c.in), "input %q", c.in)
	}
}

func TestToDetailsValidatorErrors(t *testing.T) {
	v := validator.New()

	type payload struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"gte=1"`
	}
	err := v.Struct(payload{Email: "nope", Age: 0})
	require.Error(t, err)

	details := ToDetails(err)
	require.Contains(t, details, "Email")
	require.Contains(t, details, "Age")
	assert.Equal(t, "must be a valid email", details["Email"])
	assert.Equal(t, "must be greater than or equal to 1", details["Age"])
}

func TestToDetailsNilAndUnknown(t *testing.T) {
	require.Nil(t, ToDetails(nil))

	details := ToDetails(assert.AnError)
	require.Equal(t, map[string]string{"payload": "invalid payload"}, details)
}
