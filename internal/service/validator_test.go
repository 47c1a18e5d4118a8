package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/civic/internal/domain"
)

func TestValidator(t *testing.T) {
	type body struct {
		Action string `json:"action" validate:"required,oneof=a b"`
		Note   string `json:"note,omitempty" validate:"omitempty,max=3"`
		Plain  string `validate:"required"`
	}
	v := NewValidator()

	tests := []struct {
		name    string
		in      body
		field   string
		message string
	}{
		{"required uses json name", body{Plain: "x"}, "action", "Missing action"},
		{"oneof", body{Action: "c", Plain: "x"}, "action", `Invalid action "c"`},
		{"other tags", body{Action: "a", Note: "long", Plain: "x"}, "note", "note failed on 'max' validation"},
		{"untagged field keeps Go name", body{Action: "a"}, "Plain", "Missing Plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *domain.ValidationError
			require.ErrorAs(t, v.Validate(tt.in), &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}

	assert.NoError(t, v.Validate(body{Action: "b", Plain: "x"}))
	assert.ErrorIs(t, v.Validate(42), domain.ErrInvalidInput)
}
