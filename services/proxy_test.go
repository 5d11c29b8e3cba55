// ABOUTME: Tests for the SSH+SOCKS5 provider proxy dialer
// ABOUTME: Covers private key path validation and proxy URL parsing

package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSSHKeyPath_RejectsPathTraversal(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"simple traversal", "../../../etc/passwd"},
		{"traversal in middle", "/home/user/../../../etc/shadow"},
		{"encoded traversal", "/home/user/..%2F..%2F..%2Fetc%2Fpasswd"},
		{"dot-dot at end", "/home/user/.."},
		{"traversal from tmp", "/tmp/../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateSSHKeyPath(tt.path); err == nil {
				t.Errorf("ValidateSSHKeyPath(%q) should return error for path traversal", tt.path)
			}
		})
	}
}

func TestValidateSSHKeyPath_AcceptsValidPaths(t *testing.T) {
	tmpDir := t.TempDir()
	keyPath := filepath.Join(tmpDir, "jumpbox_key")
	if err := os.WriteFile(keyPath, []byte("test-key-content"), 0600); err != nil {
		t.Fatalf("Failed to create test key file: %v", err)
	}

	validPath, err := ValidateSSHKeyPath(keyPath)
	if err != nil {
		t.Errorf("ValidateSSHKeyPath(%q) returned unexpected error: %v", keyPath, err)
	}
	if validPath != keyPath {
		t.Errorf("Expected %s, got %s", keyPath, validPath)
	}
}

func TestValidateSSHKeyPath_RejectsDirectory(t *testing.T) {
	if _, err := ValidateSSHKeyPath(t.TempDir()); err == nil {
		t.Error("ValidateSSHKeyPath should reject directory paths")
	}
}

func TestValidateSSHKeyPath_RejectsNonExistent(t *testing.T) {
	if _, err := ValidateSSHKeyPath("/nonexistent/path/to/key"); err == nil {
		t.Error("ValidateSSHKeyPath should reject non-existent paths")
	}
}

func TestNewSOCKS5DialContext_Errors(t *testing.T) {
	tests := []struct {
		name     string
		proxy    string
		contains string
	}{
		{"traversal in key", "ssh+socks5://ubuntu@jumpbox:22?private-key=../../../etc/passwd", "'..'"},
		{"missing key", "ssh+socks5://ubuntu@jumpbox:22", "private-key"},
		{"missing host", "ssh+socks5:///?private-key=/tmp/key", "no host"},
		{"bad query", "ssh+socks5://ubuntu@jumpbox:22?private-key=%zz", "parsing proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dial, err := NewSOCKS5DialContext(tt.proxy)
			if err == nil {
				t.Fatalf("Expected error for %q", tt.proxy)
			}
			if dial != nil {
				t.Error("Expected nil dialer on error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestNewSOCKS5DialContext_ValidURL(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "jumpbox_key")
	if err := os.WriteFile(keyPath, []byte("not-a-real-key"), 0600); err != nil {
		t.Fatalf("Failed to create test key file: %v", err)
	}

	dial, err := NewSOCKS5DialContext("ssh+socks5://ubuntu@jumpbox.example.com:22?private-key=" + keyPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dial == nil {
		t.Fatal("Expected a dial function")
	}
}
