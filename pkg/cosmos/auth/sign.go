package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidKey is returned when the signing key is empty or is not valid
// base64.
var ErrInvalidKey = errors.New("invalid signing key")

// KeyType identifies the kind of key used to sign a request.
type KeyType string

const (
	// KeyTypeMaster is an account master key.
	KeyTypeMaster KeyType = "master"

	// DefaultTokenVersion is the only token version the service accepts.
	DefaultTokenVersion = "1.0"
)

// Resource type keywords, in the order they nest in a resource path.
const (
	ResourceDatabases   = "dbs"
	ResourceCollections = "colls"
	ResourceDocuments   = "docs"
)

func isResourceType(segment string) bool {
	switch segment {
	case ResourceDatabases, ResourceCollections, ResourceDocuments:
		return true
	}
	return false
}

// ParseResourcePath derives the resource type and resource link of a
// slash-delimited resource path.
//
// Segments are scanned from the tail and the first resource type keyword wins.
// The resource link is every segment before that keyword, in original order.
// A path holding no keyword yields an empty type and the whole path as link.
func ParseResourcePath(resourcePath string) (resourceType, resourceLink string) {
	var segments []string
	for _, s := range strings.Split(resourcePath, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if isResourceType(segments[i]) {
			return segments[i], strings.Join(segments[:i], "/")
		}
	}

	return "", strings.Join(segments, "/")
}

// Payload builds the canonical string that gets signed.
func Payload(verb, resourceType, resourceLink, date string) string {
	return strings.ToLower(strings.TrimSpace(verb)) + "\n" +
		resourceType + "\n" +
		resourceLink + "\n" +
		strings.ToLower(date) + "\n\n"
}

// Sign computes the form-encoded authorization token for one request.
//
// date must be the same string sent in the x-ms-date header. An empty keyType
// defaults to master and an empty tokenVersion to DefaultTokenVersion.
func Sign(verb, resourcePath, date, key string, keyType KeyType, tokenVersion string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	if keyType == "" {
		keyType = KeyTypeMaster
	}
	if tokenVersion == "" {
		tokenVersion = DefaultTokenVersion
	}

	resourceType, resourceLink := ParseResourcePath(resourcePath)
	payload := Payload(verb, resourceType, resourceLink, date)

	mac := hmac.New(sha256.New, decoded)
	mac.Write([]byte(payload))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	token := fmt.Sprintf("type=%s&ver=%s&sig=%s", keyType, tokenVersion, signature)
	return url.QueryEscape(token), nil
}

// FormatDate renders t as the lower-cased RFC 7231 GMT date used both in the
// x-ms-date header and in the signed payload.
func FormatDate(t time.Time) string {
	return strings.ToLower(t.UTC().Format(http.TimeFormat))
}

// Credentials holds the secret used to sign requests.
type Credentials struct {
	// Key is the base64-encoded account key.
	Key string

	// KeyType defaults to master.
	KeyType KeyType

	// TokenVersion defaults to DefaultTokenVersion.
	TokenVersion string
}

// Sign signs one request with these credentials.
func (c Credentials) Sign(verb, resourcePath, date string) (string, error) {
	return Sign(verb, resourcePath, date, c.Key, c.KeyType, c.TokenVersion)
}

// String hides the key so credentials can be passed to loggers safely.
func (c Credentials) String() string {
	return fmt.Sprintf("auth.Credentials{KeyType: %q, TokenVersion: %q, Key: <redacted>}", c.KeyType, c.TokenVersion)
}
