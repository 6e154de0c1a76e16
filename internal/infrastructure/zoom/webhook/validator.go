// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package webhook contains Zoom webhook signature validation.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ZoomWebhookValidator handles validation of Zoom webhook signatures
type ZoomWebhookValidator struct {
	secretToken string
}

// NewZoomWebhookValidator creates a new Zoom webhook validator
func NewZoomWebhookValidator(secretToken string) *ZoomWebhookValidator {
	return &ZoomWebhookValidator{
		secretToken: secretToken,
	}
}

// ValidateSignature validates the Zoom webhook signature. Validation is
// fail closed: a missing secret, signature, or timestamp rejects the
// request before the body is ever parsed.
func (v *ZoomWebhookValidator) ValidateSignature(body []byte, signature, timestamp string) error {
	if v.secretToken == "" {
		return fmt.Errorf("webhook secret token not configured")
	}

	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	if timestamp == "" {
		return fmt.Errorf("missing webhook timestamp")
	}

	// The signed message is v0:{timestamp}:{body}
	message := fmt.Sprintf("v0:%s:%s", timestamp, body)

	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(message))
	expectedSignature := "v0=" + hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return fmt.Errorf("zoom webhook signature does not match expected signature")
	}

	return nil
}

// SignChallenge computes the encrypted token Zoom expects back for an
// endpoint.url_validation challenge.
func (v *ZoomWebhookValidator) SignChallenge(plainToken string) string {
	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(plainToken))
	return hex.EncodeToString(h.Sum(nil))
}
