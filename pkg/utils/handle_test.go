package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHandle(t *testing.T) {
	tt := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "plain", input: "miacappuccino", ok: true},
		{name: "with at", input: "@alexdrip", ok: true},
		{name: "too short", input: "@ab", ok: false},
		{name: "too long", input: "abcdefghijklmnopqrstu", ok: false},
		{name: "bad chars", input: "mia-coffee", ok: false},
		{name: "leading underscore", input: "_mia", ok: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateHandle(tc.input)
			if tc.ok {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "handle", verr.Field)
		})
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "@mariecoffeelove", NormalizeHandle("MarieCoffeeLove"))
	assert.Equal(t, "@mariecoffeelove", NormalizeHandle("  @@MarieCoffeeLove "))
}
