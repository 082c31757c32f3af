package core

import "time"

// Credential is a WebAuthn public-key credential registered by an
// authenticator and bound to a single user. The ID is assigned by the
// authenticator and stored as raw bytes.
type Credential struct {
	ID              []byte    // Credential identifier, authenticator-assigned
	UserID          string    // Owning user, cascade-deleted with the user
	PublicKey       []byte    // COSE-encoded verification key
	AttestationType string    // Attestation format reported at registration
	Transports      []string  // Advisory transport hints (usb, nfc, ble, internal)
	SignCount       uint32    // Last accepted signature counter
	CreatedAt       time.Time // When the credential was registered
	LastUsedAt      time.Time // Last successful assertion
}
