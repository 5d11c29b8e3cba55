// ABOUTME: Input validation for request parameters and configured identifiers
// ABOUTME: Prevents log injection and rejects malformed regions, model ids, and component ids

package services

import (
	"fmt"
	"regexp"
	"strings"
)

// regionPattern matches provider region names such as us-east-1, westeurope, or us-central1.
var regionPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{1,40}$`)

// modelIdentifierPattern matches foundation model ids such as anthropic.claude-3-haiku-20240307-v1:0.
var modelIdentifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*(:[a-z0-9]+)?$`)

// componentIDPattern matches inventory keys (server ids, database and share names).
var componentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/ -]{0,127}$`)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateRegion checks that a region name has a safe format.
func ValidateRegion(region string) error {
	if !regionPattern.MatchString(region) {
		return fmt.Errorf("invalid region format: %s", sanitizeForLog(region))
	}
	return nil
}

// ValidateModelIdentifier checks a configured model id before it is sent upstream.
func ValidateModelIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("model identifier cannot be empty")
	}
	if !modelIdentifierPattern.MatchString(id) {
		return fmt.Errorf("invalid model identifier format: %s", sanitizeForLog(id))
	}
	return nil
}

// ValidateComponentID checks an inventory key from an external source.
func ValidateComponentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("component id cannot be empty")
	}
	if !componentIDPattern.MatchString(id) {
		return fmt.Errorf("invalid component id format: %s", sanitizeForLog(id))
	}
	return nil
}
