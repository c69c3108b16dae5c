package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Auth header names per the Kalshi API specification.
const (
	HeaderAccessKey       = "KALSHI-ACCESS-KEY"
	HeaderAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
	HeaderAccessSignature = "KALSHI-ACCESS-SIGNATURE"
)

// SigningError indicates the cryptographic signing call itself failed despite
// a successfully loaded key. The request must not be sent: an unsigned or
// garbage-signed request produces a confusing server-side 401 instead of a
// clear local error.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing request: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// Signer produces Kalshi request authentication headers.
//
// The key is read-only after construction; one Signer may be shared by any
// number of goroutines signing different requests.
type Signer struct {
	keyID string
	key   *rsa.PrivateKey
}

// NewSigner creates a Signer from an API key ID and a loaded private key.
func NewSigner(keyID string, key *rsa.PrivateKey) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("api key id is empty")
	}
	if key == nil {
		return nil, fmt.Errorf("private key is nil")
	}
	return &Signer{keyID: keyID, key: key}, nil
}

// canonicalMessage builds the exact byte string that gets signed:
// timestamp + upper-cased method + path + body, concatenated with no
// separators. The path must match what goes on the wire verbatim,
// including the /trade-api/v2 prefix and any query string, and the body
// must be byte-identical to the transmitted JSON. The server verifies
// against this exact ordering.
func canonicalMessage(timestamp, method, path, body string) string {
	return timestamp + strings.ToUpper(method) + path + body
}

// Sign produces the base64 signature for one request.
//
// timestamp is decimal milliseconds since epoch, generated by the caller
// immediately before signing. The message is hashed with SHA-256 and signed
// with RSA PKCS1v15, which is deterministic: identical inputs always yield
// identical signatures. The result is standard-alphabet base64, non-empty
// on success.
func (s *Signer) Sign(timestamp, method, path, body string) (string, error) {
	msg := canonicalMessage(timestamp, method, path, body)
	digest := sha256.Sum256([]byte(msg))

	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", &SigningError{Err: err}
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// Headers generates a fresh millisecond timestamp, signs the request, and
// returns the three KALSHI-ACCESS-* headers. The timestamp is taken at call
// time so the server's clock-skew window is not wasted; callers should
// attach the headers and send immediately.
func (s *Signer) Headers(method, path, body string) (map[string]string, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	sig, err := s.Sign(timestamp, method, path, body)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		HeaderAccessKey:       s.keyID,
		HeaderAccessTimestamp: timestamp,
		HeaderAccessSignature: sig,
	}, nil
}

// KeyID returns the API key identifier this signer was built with.
func (s *Signer) KeyID() string { return s.keyID }
