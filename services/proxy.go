// ABOUTME: SSH+SOCKS5 dialer for reaching the model provider through a jumpbox
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=/path URLs

package services

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cloudfoundry/socks5-proxy"
)

// DialContextFunc matches http.Transport.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ValidateSSHKeyPath rejects traversal and anything that is not a regular file.
// It returns the cleaned absolute path.
func ValidateSSHKeyPath(path string) (string, error) {
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("invalid private key path: %w", err)
	}
	for _, part := range strings.Split(filepath.ToSlash(decoded), "/") {
		if part == ".." {
			return "", fmt.Errorf("private key path must not contain '..': %s", sanitizeForLog(path))
		}
	}

	abs, err := filepath.Abs(filepath.Clean(decoded))
	if err != nil {
		return "", fmt.Errorf("resolving private key path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("private key not readable: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("private key path is not a regular file: %s", sanitizeForLog(abs))
	}
	return abs, nil
}

// NewSOCKS5DialContext creates a dial function for SSH+SOCKS5 proxy connections.
// The SSH tunnel is opened lazily on the first dial and reused afterwards.
func NewSOCKS5DialContext(allProxy string) (DialContextFunc, error) {
	proxyURL, err := url.Parse(strings.TrimPrefix(allProxy, "ssh+"))
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy URL has no host")
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy query params: %w", err)
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	keyParam := queryMap.Get("private-key")
	if keyParam == "" {
		return nil, fmt.Errorf("proxy URL missing required 'private-key' query param")
	}
	keyPath, err := ValidateSSHKeyPath(keyParam)
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading SSH private key: %w", err)
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(key), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}, nil
}
