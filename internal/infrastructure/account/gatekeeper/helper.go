package gatekeeper

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// errGatekeeperTransient marks failures that should count against the circuit
// breaker: timeouts, connection errors, 5xx responses. Token rejections are
// deliberate answers and must not trip the breaker.
var errGatekeeperTransient = crerr.New("gatekeeper transient failure")

func isTransient(err error) bool {
	return errors.Is(err, errGatekeeperTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
