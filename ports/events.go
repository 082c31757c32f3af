package ports

import "context"

// EventPublisher publishes auth events for other systems to observe.
type EventPublisher interface {
	// PublishLogin publishes a successful authentication. Method is
	// "password" or "webauthn".
	PublishLogin(ctx context.Context, userID, method string) error

	// PublishSecurityEvent publishes a failed verification treated as a
	// security event (bad signature, origin mismatch, clone-counter anomaly).
	PublishSecurityEvent(ctx context.Context, userID, reason string) error
}
