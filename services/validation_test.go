// ABOUTME: Tests for input validation functions
// ABOUTME: Verifies region, model identifier, and component id validation

package services

import (
	"strings"
	"testing"
)

func TestValidateRegion_ValidRegions(t *testing.T) {
	for _, region := range []string{"us-east-1", "eu-west-2", "westeurope", "us-central1", "ap-southeast-2"} {
		t.Run(region, func(t *testing.T) {
			if err := ValidateRegion(region); err != nil {
				t.Errorf("ValidateRegion(%q) returned error: %v, expected nil", region, err)
			}
		})
	}
}

func TestValidateRegion_InvalidRegions(t *testing.T) {
	tests := []struct {
		name   string
		region string
	}{
		{"empty", ""},
		{"path traversal", "../../etc"},
		{"uppercase", "US-EAST-1"},
		{"newline injection", "us-east-1\nmalicious"},
		{"spaces", "us east 1"},
		{"single char", "u"},
		{"too long", "a" + strings.Repeat("b", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRegion(tt.region); err == nil {
				t.Errorf("ValidateRegion(%q) returned nil, expected error", tt.region)
			}
		})
	}
}

func TestValidateModelIdentifier(t *testing.T) {
	valid := []string{
		"anthropic.claude-3-haiku-20240307-v1:0",
		"anthropic.claude-3-5-sonnet-20240620-v1:0",
		"amazon.titan-text-express-v1",
	}
	for _, id := range valid {
		if err := ValidateModelIdentifier(id); err != nil {
			t.Errorf("ValidateModelIdentifier(%q) returned error: %v, expected nil", id, err)
		}
	}

	invalid := []string{"", "../model", "model id", "anthropic.claude\x00", "model:0:1", "Model.Upper"}
	for _, id := range invalid {
		if err := ValidateModelIdentifier(id); err == nil {
			t.Errorf("ValidateModelIdentifier(%q) returned nil, expected error", id)
		}
	}
}

func TestValidateComponentID(t *testing.T) {
	valid := []string{"web-01", "orders_db", "vm/app server 2", "10.0.0.12"}
	for _, id := range valid {
		if err := ValidateComponentID(id); err != nil {
			t.Errorf("ValidateComponentID(%q) returned error: %v, expected nil", id, err)
		}
	}

	invalid := []string{"", "   ", "-leading-dash", "name\nwith newline", strings.Repeat("x", 200)}
	for _, id := range invalid {
		if err := ValidateComponentID(id); err == nil {
			t.Errorf("ValidateComponentID(%q) returned nil, expected error", id)
		}
	}
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal string", "hello world", "hello world"},
		{"newline removed", "hello\nworld", "helloworld"},
		{"carriage return removed", "hello\rworld", "helloworld"},
		{"null byte removed", "hello\x00world", "helloworld"},
		{"tab removed", "hello\tworld", "helloworld"},
		{"DEL removed", "hello\x7fworld", "helloworld"},
		{"unicode preserved", "héllo wörld", "héllo wörld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeForLog(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeForLog(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
