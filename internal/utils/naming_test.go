package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifier(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{"simple name", "users", true},
		{"camel case", "getUser", true},
		{"underscore prefix", "_private", true},
		{"dollar prefix", "$state", true},
		{"digits after first", "v2", true},
		{"empty", "", false},
		{"kebab case", "user-profile", false},
		{"leading digit", "2fast", false},
		{"contains space", "user name", false},
		{"reserved word", "delete", false},
		{"reserved word class", "class", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsIdentifier(tc.input))
		})
	}
}

func TestCamel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"users", "users"},
		{"user-profile", "userProfile"},
		{"audit_log", "auditLog"},
		{"GetUser", "getUser"},
		{"a.b.c", "aBC"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Camel(tc.input))
		})
	}
}

func TestPascal(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"getUser", "GetUser"},
		{"user-profile", "UserProfile"},
		{"audit_log", "AuditLog"},
		{"users", "Users"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Pascal(tc.input))
		})
	}
}
