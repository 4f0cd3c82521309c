package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_Format(t *testing.T) {
	body := []byte(`{"job_id":"abc"}`)
	sig := Sign("topsecret", body)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, sig)
}

func TestVerify(t *testing.T) {
	secret := "topsecret"
	body := []byte(`{"job_id":"abc","event":"workflow_completed"}`)
	sig := Sign(secret, body)

	tests := []struct {
		name   string
		secret string
		body   []byte
		header string
		want   bool
	}{
		{"valid", secret, body, sig, true},
		{"wrong secret", "other", body, sig, false},
		{"tampered body", secret, []byte(`{"job_id":"abd"}`), sig, false},
		{"missing prefix", secret, body, sig[len("sha256="):], false},
		{"wrong scheme", secret, body, "sha1=" + sig[len("sha256="):], false},
		{"not hex", secret, body, "sha256=zzzz", false},
		{"empty header", secret, body, "", false},
		{"empty secret fails closed", "", body, Sign("", body), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.secret, tt.body, tt.header))
		})
	}
}

func TestVerify_ExactBytes(t *testing.T) {
	// Re-serialized JSON with different whitespace must not verify.
	secret := "topsecret"
	body := []byte(`{"a": 1}`)
	sig := Sign(secret, body)

	require.True(t, Verify(secret, body, sig))
	assert.False(t, Verify(secret, []byte(`{"a":1}`), sig))
}
