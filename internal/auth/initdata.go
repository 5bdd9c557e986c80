// Package auth extracts and optionally verifies the identity embedded in a
// connection's init data payload. The payload is a URL-encoded form whose
// "user" field holds a JSON object with the numeric user id, and whose "hash"
// field (when verification is enabled) is an HMAC over the remaining fields.
package auth

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

// ErrInvalidInitData reports a missing, malformed, or (when a bot token is
// configured) forged init data payload. Callers reject the connection or
// request; this is never a server fault.
var ErrInvalidInitData = errors.New("invalid init data")

type Extractor struct {
	botToken string
}

// NewExtractor returns an Extractor. With an empty botToken any well-formed
// payload is accepted without a signature check.
func NewExtractor(botToken string) *Extractor {
	return &Extractor{botToken: botToken}
}

// UserID parses initData and returns the embedded user id.
func (e *Extractor) UserID(initData string) (int64, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	if e.botToken != "" {
		if err := verify(values, e.botToken); err != nil {
			return 0, err
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return 0, fmt.Errorf("%w: missing user field", ErrInvalidInitData)
	}

	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}
	if user.ID == 0 {
		return 0, fmt.Errorf("%w: missing user id", ErrInvalidInitData)
	}

	return user.ID, nil
}

// verify checks the payload's hash field against the bot token using the
// Telegram Web App scheme: the data-check-string is every field except hash,
// sorted by key and joined with newlines, keyed by HMAC-SHA256(bot token)
// under the constant "WebAppData".
func verify(values url.Values, botToken string) error {
	gotHash := values.Get("hash")
	if gotHash == "" {
		return fmt.Errorf("%w: missing hash field", ErrInvalidInitData)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidInitData)
	}
	return nil
}
