package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrMissingSignature = errors.New("init data has no hash field")
	ErrInvalidSignature = errors.New("init data signature mismatch")
	ErrMissingIdentity  = errors.New("init data has no usable user id")
)

// VerifyInitData checks the signed launch payload the Telegram mini app
// hands to the backend and returns the user id embedded in it.
//
// The payload is a URL-encoded query string. Everything except the hash
// field is rendered as sorted "key=value" lines joined by newlines, and
// that check string is signed with HMAC-SHA256 using a key derived from
// the bot token. Nothing in the payload is trusted until the signature
// matches.
func VerifyInitData(raw, botToken string) (int64, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse init data: %w", err)
	}

	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0] // first occurrence wins
		}
	}

	received, ok := fields["hash"]
	if !ok || received == "" {
		return 0, ErrMissingSignature
	}
	delete(fields, "hash")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	checkString := strings.Join(lines, "\n")

	mac := hmac.New(sha256.New, []byte(botToken))
	mac.Write([]byte("WebAppData"))
	secret := mac.Sum(nil)

	mac = hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	computed := hex.EncodeToString(mac.Sum(nil))

	// constant-time compare
	if !hmac.Equal([]byte(computed), []byte(received)) {
		return 0, ErrInvalidSignature
	}

	rawUser := fields["user"]
	if rawUser == "" {
		return 0, ErrMissingIdentity
	}
	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID <= 0 {
		return 0, ErrMissingIdentity
	}
	return user.ID, nil
}
