package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		err  *ConfigError
		want string
	}{
		{NewConfigError("Workers", -1, "workers must be positive"), "aqlgen: config Workers=-1: workers must be positive"},
		{NewConfigError("Package", nil, "package cannot be empty"), "aqlgen: config Package: package cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Option, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrMissingConfig)
			assert.NotErrorIs(t, tt.err, ErrGenerationFailed)
			assert.True(t, IsConfigError(fmt.Errorf("reading: %w", tt.err)))
		})
	}
	assert.False(t, IsConfigError(errors.New("other")))
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  *GenerationError
		want string
	}{
		{"all fields", NewGenerationError("Person", "person/person.go", "write", cause), "aqlgen: generate Person (person/person.go): write: disk full"},
		{"message only", &GenerationError{Message: "create output directory"}, "aqlgen: generate: create output directory"},
		{"cause only", NewGenerationError("Person", "", "", cause), "aqlgen: generate Person: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrGenerationFailed)
		})
	}

	err := NewGenerationError("Person", "", "format", cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsGenerationError(fmt.Errorf("gen: %w", err)))
	assert.False(t, IsGenerationError(NewConfigError("Target", nil, "x")))
}
