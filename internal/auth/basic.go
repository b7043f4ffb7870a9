// Package auth decodes Basic authorization credentials for the update endpoint.
package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Errors for credential decoding failures. Both map to client errors;
// the caller decides the HTTP status.
var (
	// ErrMalformedAuth indicates a missing header, wrong scheme, or
	// unparseable base64 payload.
	ErrMalformedAuth = errors.New("auth: malformed authorization header")
	// ErrInvalidCredential indicates a decoded payload without a colon
	// separator or containing control characters.
	ErrInvalidCredential = errors.New("auth: invalid credential format")
)

// Credential is the user/token pair decoded from an Authorization header.
// It lives for a single request and is never persisted.
type Credential struct {
	User  string
	Token string
}

// DecodeBasic parses the value of an Authorization header into a Credential.
//
// The value must be "Basic <base64>" with exactly one space. The decoded
// payload is normalized to Unicode NFC before splitting (RFC 7613 guidance
// for internationalized usernames and passwords), then split at the first
// colon: user before, token after (the token may itself contain colons).
// ASCII control characters (0x00-0x1F, 0x7F) anywhere in the decoded payload
// are rejected.
//
// Pure function of its input; no side effects.
func DecodeBasic(header string) (Credential, error) {
	if header == "" {
		return Credential{}, ErrMalformedAuth
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Basic" || parts[1] == "" {
		return Credential{}, ErrMalformedAuth
	}

	payload, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Credential{}, ErrMalformedAuth
	}

	decoded := norm.NFC.String(string(payload))

	for _, c := range decoded {
		if c < 0x20 || c == 0x7F {
			return Credential{}, ErrInvalidCredential
		}
	}

	user, token, found := strings.Cut(decoded, ":")
	if !found {
		return Credential{}, ErrInvalidCredential
	}

	return Credential{User: user, Token: token}, nil
}
