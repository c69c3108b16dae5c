package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"sync"
	"testing"
)

// Shared test key: 2048-bit generation is slow enough to do once.
var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatalf("generating test key: %v", testKeyErr)
	}
	return testKey
}

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("test-key-id", testRSAKey(t))
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return s
}

func TestCanonicalMessage(t *testing.T) {
	got := canonicalMessage(
		"1700000000000",
		"POST",
		"/trade-api/v2/portfolio/orders",
		`{"side":"yes","count":10}`,
	)
	want := `1700000000000POST/trade-api/v2/portfolio/orders{"side":"yes","count":10}`
	if got != want {
		t.Errorf("canonical message = %q, want %q", got, want)
	}
}

func TestCanonicalMessageUppercasesMethod(t *testing.T) {
	got := canonicalMessage("1", "post", "/p", "")
	if got != "1POST/p" {
		t.Errorf("canonical message = %q, want %q", got, "1POST/p")
	}
}

func TestNewSignerRejectsBadInputs(t *testing.T) {
	if _, err := NewSigner("", testRSAKey(t)); err == nil {
		t.Error("expected error for empty key ID")
	}
	if _, err := NewSigner("id", nil); err == nil {
		t.Error("expected error for nil key")
	}
}

func TestSignDeterministic(t *testing.T) {
	s := newTestSigner(t)

	sig1, err := s.Sign("1700000000000", "GET", "/trade-api/v2/portfolio/balance", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig2, err := s.Sign("1700000000000", "GET", "/trade-api/v2/portfolio/balance", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if sig1 == "" {
		t.Fatal("signature is empty")
	}
	if sig1 != sig2 {
		t.Error("PKCS1v15 signatures should be deterministic for identical inputs")
	}
}

func TestSignMethodCaseInsensitive(t *testing.T) {
	s := newTestSigner(t)

	lower, err := s.Sign("1700000000000", "get", "/trade-api/v2/portfolio/balance", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	upper, err := s.Sign("1700000000000", "GET", "/trade-api/v2/portfolio/balance", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if lower != upper {
		t.Error("method casing should not change the signature")
	}
}

func TestSignSensitivity(t *testing.T) {
	s := newTestSigner(t)

	base, err := s.Sign("1700000000000", "POST", "/trade-api/v2/portfolio/orders", `{"side":"yes","count":10}`)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name                          string
		timestamp, method, path, body string
	}{
		{"timestamp changed", "1700000000001", "POST", "/trade-api/v2/portfolio/orders", `{"side":"yes","count":10}`},
		{"path changed", "1700000000000", "POST", "/trade-api/v2/portfolio/order", `{"side":"yes","count":10}`},
		{"path whitespace", "1700000000000", "POST", "/trade-api/v2/portfolio/orders ", `{"side":"yes","count":10}`},
		{"body changed", "1700000000000", "POST", "/trade-api/v2/portfolio/orders", `{"side":"yes","count":11}`},
		{"body whitespace", "1700000000000", "POST", "/trade-api/v2/portfolio/orders", `{"side":"yes", "count":10}`},
		{"method changed", "1700000000000", "PUT", "/trade-api/v2/portfolio/orders", `{"side":"yes","count":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := s.Sign(tt.timestamp, tt.method, tt.path, tt.body)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}
			if sig == base {
				t.Error("changed input produced an unchanged signature")
			}
		})
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	pub := &testRSAKey(t).PublicKey

	timestamp := "1700000000000"
	method := "POST"
	path := "/trade-api/v2/portfolio/orders"
	body := `{"side":"yes","count":10}`

	sigB64, err := s.Sign(timestamp, method, path, body)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("signature is not standard base64: %v", err)
	}

	digest := sha256.Sum256([]byte(timestamp + method + path + body))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		t.Errorf("signature did not verify against the canonical message: %v", err)
	}

	// Any byte difference must fail verification
	tampered := sha256.Sum256([]byte(timestamp + method + path + body + "x"))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, tampered[:], sig); err == nil {
		t.Error("signature verified against a different message")
	}
}

func TestHeaders(t *testing.T) {
	s := newTestSigner(t)
	pub := &testRSAKey(t).PublicKey

	if s.KeyID() != "test-key-id" {
		t.Errorf("KeyID = %q, want %q", s.KeyID(), "test-key-id")
	}

	headers, err := s.Headers("get", "/trade-api/v2/portfolio/balance", "")
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}

	if headers[HeaderAccessKey] != "test-key-id" {
		t.Errorf("%s = %q, want %q", HeaderAccessKey, headers[HeaderAccessKey], "test-key-id")
	}

	timestamp := headers[HeaderAccessTimestamp]
	if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
		t.Errorf("timestamp %q is not decimal milliseconds: %v", timestamp, err)
	}

	sigB64 := headers[HeaderAccessSignature]
	if sigB64 == "" {
		t.Fatal("signature header is empty")
	}

	// The signature must verify against the same timestamp sent in the
	// timestamp header, with the method upper-cased.
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	digest := sha256.Sum256([]byte(timestamp + "GET" + "/trade-api/v2/portfolio/balance"))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		t.Errorf("header signature did not verify: %v", err)
	}
}
