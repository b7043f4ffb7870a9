package storage

import "strings"

// Key namespace shared with the previous deployment of this service.
// Existing entries must stay readable, so the layout is fixed:
//
//	subdomains:<user>:token          expected credential secret
//	subdomains:<user>:current-ip     last IP applied to DNS
//	subdomains:<user>:dns-record-id  provider record id, set on first create
const keyPrefix = "subdomains:"

const (
	suffixToken     = ":token"
	suffixCurrentIP = ":current-ip"
	suffixRecordID  = ":dns-record-id"
)

func tokenKey(user string) string {
	return keyPrefix + user + suffixToken
}

func currentIPKey(user string) string {
	return keyPrefix + user + suffixCurrentIP
}

func recordIDKey(user string) string {
	return keyPrefix + user + suffixRecordID
}

// userFromTokenKey extracts the username from a token key.
// Returns "" if the key is not a token key.
func userFromTokenKey(key string) string {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, suffixToken) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), suffixToken)
}
