package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// verifyWhatsAppSignature validates the X-Hub-Signature-256 header on
// a WhatsApp webhook and returns the request body. An empty secret
// skips verification outside production.
func verifyWhatsAppSignature(r *http.Request, secretKey string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	if secretKey == "" {
		if os.Getenv("NOTIGATE_ENV") == "production" {
			return nil, fmt.Errorf("webhook secret is required in production mode")
		}
		return body, nil
	}

	signatureHeader := r.Header.Get("X-Hub-Signature-256")
	if signatureHeader == "" {
		return nil, fmt.Errorf("missing signature header: X-Hub-Signature-256")
	}

	parts := strings.SplitN(signatureHeader, "=", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "sha256" {
		return nil, fmt.Errorf("invalid signature format in header X-Hub-Signature-256")
	}
	expectedSignatureHex := parts[1]

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(body)
	computedSignatureHex := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computedSignatureHex), []byte(expectedSignatureHex)) {
		return nil, fmt.Errorf("signature mismatch")
	}

	return body, nil
}

// verifyTelegramSecret validates the X-Telegram-Bot-Api-Secret-Token
// header and returns the request body. An empty secret skips
// verification outside production.
func verifyTelegramSecret(r *http.Request, secretToken string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	if secretToken == "" {
		if os.Getenv("NOTIGATE_ENV") == "production" {
			return nil, fmt.Errorf("webhook secret is required in production mode")
		}
		return body, nil
	}

	header := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
	if header == "" {
		return nil, fmt.Errorf("missing secret token header")
	}
	if !hmac.Equal([]byte(header), []byte(secretToken)) {
		return nil, fmt.Errorf("secret token mismatch")
	}

	return body, nil
}
