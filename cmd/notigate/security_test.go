package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWhatsAppSignature(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"entry":[]}`)

	t.Run("valid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))
		req.Header.Set("X-Hub-Signature-256", signBody(secret, body))

		got, err := verifyWhatsAppSignature(req, secret)
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("wrong signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))
		req.Header.Set("X-Hub-Signature-256", signBody("other-secret", body))

		_, err := verifyWhatsAppSignature(req, secret)
		assert.ErrorContains(t, err, "signature mismatch")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))

		_, err := verifyWhatsAppSignature(req, secret)
		assert.ErrorContains(t, err, "missing signature header")
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))
		req.Header.Set("X-Hub-Signature-256", "md5=abcdef")

		_, err := verifyWhatsAppSignature(req, secret)
		assert.ErrorContains(t, err, "invalid signature format")
	})

	t.Run("tampered body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBufferString(`{"entry":[1]}`))
		req.Header.Set("X-Hub-Signature-256", signBody(secret, body))

		_, err := verifyWhatsAppSignature(req, secret)
		assert.ErrorContains(t, err, "signature mismatch")
	})

	t.Run("no secret skips verification", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))

		got, err := verifyWhatsAppSignature(req, "")
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("no secret fails in production", func(t *testing.T) {
		t.Setenv("NOTIGATE_ENV", "production")
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))

		_, err := verifyWhatsAppSignature(req, "")
		assert.ErrorContains(t, err, "required in production")
	})

	t.Run("body is replayable after verification", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewBuffer(body))
		req.Header.Set("X-Hub-Signature-256", signBody(secret, body))

		_, err := verifyWhatsAppSignature(req, secret)
		require.NoError(t, err)

		replay := make([]byte, len(body))
		n, _ := req.Body.Read(replay)
		assert.Equal(t, len(body), n)
		assert.Equal(t, body, replay)
	})
}

func TestVerifyTelegramSecret(t *testing.T) {
	body := []byte(`{"update_id":1}`)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "secret")

		got, err := verifyTelegramSecret(req, "secret")
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")

		_, err := verifyTelegramSecret(req, "secret")
		assert.ErrorContains(t, err, "mismatch")
	})

	t.Run("no secret fails in production", func(t *testing.T) {
		t.Setenv("NOTIGATE_ENV", "production")
		req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))

		_, err := verifyTelegramSecret(req, "")
		assert.ErrorContains(t, err, "required in production")
	})
}
