package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", NotFoundError("Listing", "listing not found"), ErrNotFound},
		{"validation", ValidationError("Listing", "title is required"), ErrValidation},
		{"duplicate", DuplicateError("Role", "role already exists"), ErrDuplicate},
		{"not deletable", NotDeletableError("Amenity", "amenity in use"), ErrNotDeletable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
			assert.NotErrorIs(t, wrapped, errors.New("other"))
		})
	}
}

func TestEntityError_MessageIncludesEntity(t *testing.T) {
	err := NotFoundError("User", "user %s not found", "42")

	assert.Equal(t, "User: user 42 not found", err.Error())
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.NotErrorIs(t, err, ErrValidation)
}
