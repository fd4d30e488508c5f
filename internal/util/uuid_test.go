package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "lowercase", input: "550e8400-e29b-41d4-a716-446655440000", expected: true},
		{name: "uppercase", input: "550E8400-E29B-41D4-A716-446655440000", expected: true},
		{name: "empty", input: "", expected: false},
		{name: "no dashes", input: "550e8400e29b41d4a716446655440000", expected: false},
		{name: "braces", input: "{550e8400-e29b-41d4-a716-446655440000}", expected: false},
		{name: "urn", input: "urn:uuid:550e8400-e29b-41d4-a716-446655440000", expected: false},
		{name: "bad character", input: "550e8400-e29b-41d4-a716-44665544000g", expected: false},
		{name: "plain id", input: "42", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUUID(tt.input))
		})
	}
}

func TestAbbreviateUUID(t *testing.T) {
	assert.Equal(t, "550e8400…", AbbreviateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "42", AbbreviateUUID("42"))
}
