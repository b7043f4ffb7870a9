package auth

import (
	"encoding/base64"
	"errors"
	"testing"
)

func basic(payload string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestDecodeBasic_RoundTrip(t *testing.T) {
	cred, err := DecodeBasic(basic("alice:secret"))
	if err != nil {
		t.Fatalf("DecodeBasic failed: %v", err)
	}
	if cred.User != "alice" {
		t.Errorf("expected user %q, got %q", "alice", cred.User)
	}
	if cred.Token != "secret" {
		t.Errorf("expected token %q, got %q", "secret", cred.Token)
	}
}

func TestDecodeBasic_TokenKeepsColons(t *testing.T) {
	cred, err := DecodeBasic(basic("alice:se:cr:et"))
	if err != nil {
		t.Fatalf("DecodeBasic failed: %v", err)
	}
	if cred.User != "alice" || cred.Token != "se:cr:et" {
		t.Errorf("expected split at first colon, got %+v", cred)
	}
}

func TestDecodeBasic_Failures(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"empty header", "", ErrMalformedAuth},
		{"missing payload", "Basic", ErrMalformedAuth},
		{"missing payload with space", "Basic ", ErrMalformedAuth},
		{"wrong scheme", "Bearer " + base64.StdEncoding.EncodeToString([]byte("alice:secret")), ErrMalformedAuth},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret")), ErrMalformedAuth},
		{"extra space", "Basic a b", ErrMalformedAuth},
		{"unparseable base64", "Basic !!!not-base64!!!", ErrMalformedAuth},
		{"no colon", basic("alicesecret"), ErrInvalidCredential},
		{"control char in user", basic("ali\x01ce:secret"), ErrInvalidCredential},
		{"control char in token", basic("alice:sec\x1fret"), ErrInvalidCredential},
		{"DEL in token", basic("alice:sec\x7fret"), ErrInvalidCredential},
		{"newline in payload", basic("alice:sec\nret"), ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBasic(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeBasic(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeBasic_NFCNormalization(t *testing.T) {
	// "é" as e + combining acute accent normalizes to the precomposed form.
	decomposed := "_useré:secret"
	precomposed := "_useré"

	cred, err := DecodeBasic(basic(decomposed))
	if err != nil {
		t.Fatalf("DecodeBasic failed: %v", err)
	}
	if cred.User != precomposed {
		t.Errorf("expected NFC-normalized user %q, got %q", precomposed, cred.User)
	}
}

func TestDecodeBasic_EmptyUserAndToken(t *testing.T) {
	// A lone colon is valid per the format: empty user, empty token.
	cred, err := DecodeBasic(basic(":"))
	if err != nil {
		t.Fatalf("DecodeBasic failed: %v", err)
	}
	if cred.User != "" || cred.Token != "" {
		t.Errorf("expected empty user and token, got %+v", cred)
	}
}
