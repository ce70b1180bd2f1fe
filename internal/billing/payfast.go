// Package billing verifies PayFast subscription webhooks (ITN messages).
// PayFast signs the url-encoded payload with an md5 digest over the
// fields sorted by name, spaces encoded as '+', with an optional
// passphrase appended.
package billing

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Signer computes and verifies PayFast payload signatures.
type Signer struct {
	passphrase string
}

// NewSigner creates a signer with the merchant passphrase. An empty
// passphrase is valid for sandbox accounts.
func NewSigner(passphrase string) *Signer {
	return &Signer{passphrase: passphrase}
}

// Sign computes the signature for a payload. The "signature" field itself
// is excluded from the digest.
func (s *Signer) Sign(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "signature" || payload[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encode(payload[k]))
	}

	if s.passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(encode(s.passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the payload's signature field matches the
// computed signature, compared in constant time.
func (s *Signer) Verify(payload map[string]string) bool {
	provided, ok := payload["signature"]
	if !ok || provided == "" {
		return false
	}
	expected := s.Sign(payload)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// encode applies PayFast's encoding: php-style urlencode, spaces as '+'.
func encode(v string) string {
	return url.QueryEscape(v)
}

// StatusFromPayment maps a PayFast payment_status to a subscription state.
func StatusFromPayment(paymentStatus string) string {
	switch paymentStatus {
	case "COMPLETE":
		return "active"
	case "FAILED":
		return "past_due"
	default:
		return "inactive"
	}
}
