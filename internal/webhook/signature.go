// Package webhook verifies engine callback deliveries and normalizes
// their payloads into the canonical shape the services consume.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the HTTP header carrying the payload signature.
const SignatureHeader = "X-Webhook-Signature"

const signaturePrefix = "sha256="

// Sign computes the signature for a payload: "sha256=" followed by the
// hex HMAC-SHA256 of the exact body bytes.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a delivery signature against the raw body in constant
// time. The header must carry the "sha256=" prefix; any other scheme
// fails closed.
func Verify(secret string, body []byte, header string) bool {
	if secret == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}
	want, err := hex.DecodeString(header[len(signaturePrefix):])
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
