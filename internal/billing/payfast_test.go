package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePayload() map[string]string {
	return map[string]string{
		"m_payment_id":   "ps-0001",
		"pf_payment_id":  "1089250",
		"payment_status": "COMPLETE",
		"item_name":      "Propstream Pro",
		"amount_gross":   "199.00",
		"custom_str1":    "user-42",
	}
}

func TestSigner_SignVerify(t *testing.T) {
	signer := NewSigner("test-passphrase")

	payload := samplePayload()
	payload["signature"] = signer.Sign(payload)

	assert.True(t, signer.Verify(payload))
}

func TestSigner_TamperedPayloadFails(t *testing.T) {
	signer := NewSigner("test-passphrase")

	payload := samplePayload()
	payload["signature"] = signer.Sign(payload)
	payload["amount_gross"] = "1.00"

	assert.False(t, signer.Verify(payload))
}

func TestSigner_MissingSignatureFails(t *testing.T) {
	signer := NewSigner("test-passphrase")

	assert.False(t, signer.Verify(samplePayload()))
}

func TestSigner_SignatureExcludedFromDigest(t *testing.T) {
	signer := NewSigner("")

	payload := samplePayload()
	without := signer.Sign(payload)
	payload["signature"] = "anything"
	with := signer.Sign(payload)

	assert.Equal(t, without, with)
}

func TestSigner_EmptyFieldsExcluded(t *testing.T) {
	signer := NewSigner("")

	payload := samplePayload()
	base := signer.Sign(payload)
	payload["email_address"] = ""

	assert.Equal(t, base, signer.Sign(payload))
}

func TestSigner_PassphraseChangesSignature(t *testing.T) {
	payload := samplePayload()

	assert.NotEqual(t, NewSigner("a").Sign(payload), NewSigner("b").Sign(payload))
}

func TestStatusFromPayment(t *testing.T) {
	assert.Equal(t, "active", StatusFromPayment("COMPLETE"))
	assert.Equal(t, "past_due", StatusFromPayment("FAILED"))
	assert.Equal(t, "inactive", StatusFromPayment("PENDING"))
	assert.Equal(t, "inactive", StatusFromPayment(""))
}
