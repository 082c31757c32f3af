package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
)

// WebAuthnConfig is the static per-deployment relying-party configuration.
// Origin and RPID are never taken from the request: letting a request assert
// its own expected origin would make verification trivially bypassable.
type WebAuthnConfig struct {
	RPID          string        // Registrable domain the credentials are scoped to
	RPDisplayName string        // Human-readable relying party name
	RPOrigin      string        // Exact frontend origin, scheme and port included
	ChallengeTTL  time.Duration // Lifetime of a pending ceremony, default 5m
}

// WebAuthnService orchestrates the registration and authentication
// ceremonies: challenge issuance, response verification and the counter
// anti-clone check.
type WebAuthnService struct {
	webAuthn   *webauthn.WebAuthn
	creds      ports.CredentialStore
	challenges ports.ChallengeStore
	eventPub   ports.EventPublisher

	challengeTTL time.Duration
}

// NewWebAuthnService creates a new ceremony engine
func NewWebAuthnService(
	cfg WebAuthnConfig,
	creds ports.CredentialStore,
	challenges ports.ChallengeStore,
	eventPub ports.EventPublisher,
) (*WebAuthnService, error) {
	if cfg.RPID == "" || cfg.RPOrigin == "" {
		return nil, errors.New("webauthn: relying party id and origin are required")
	}
	if cfg.RPDisplayName == "" {
		cfg.RPDisplayName = cfg.RPID
	}
	if cfg.ChallengeTTL == 0 {
		cfg.ChallengeTTL = 5 * time.Minute
	}

	webAuthn, err := webauthn.New(&webauthn.Config{
		RPID:          cfg.RPID,
		RPDisplayName: cfg.RPDisplayName,
		RPOrigins:     []string{cfg.RPOrigin},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn instance: %w", err)
	}

	return &WebAuthnService{
		webAuthn:     webAuthn,
		creds:        creds,
		challenges:   challenges,
		eventPub:     eventPub,
		challengeTTL: cfg.ChallengeTTL,
	}, nil
}

func registrationKey(userID string) string {
	return "webauthn:register:" + userID
}

func loginKey(userID string) string {
	return "webauthn:login:" + userID
}

// BeginRegistration starts a registration ceremony for the user. The
// returned options carry the challenge and the user's existing credential
// ids as exclusions, so the same authenticator cannot be registered twice.
func (s *WebAuthnService) BeginRegistration(ctx context.Context, user *core.User) (*protocol.CredentialCreation, error) {
	existing, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	exclusions := make([]protocol.CredentialDescriptor, len(existing))
	for i, cred := range existing {
		exclusions[i] = protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: cred.ID,
			Transport:    transportsFromStrings(cred.Transports),
		}
	}

	options, session, err := s.webAuthn.BeginRegistration(
		newCeremonyUser(user, existing),
		webauthn.WithExclusions(exclusions),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to begin registration: %w", err)
	}

	if err := s.saveSession(ctx, registrationKey(user.ID), session); err != nil {
		return nil, err
	}

	return options, nil
}

// FinishRegistration verifies the authenticator's attestation response and
// persists the new credential. The pending challenge is consumed first,
// whatever the outcome: a failed attempt requires a fresh BeginRegistration.
func (s *WebAuthnService) FinishRegistration(ctx context.Context, user *core.User, body io.Reader) (*core.Credential, error) {
	session, err := s.consumeSession(ctx, registrationKey(user.ID))
	if err != nil {
		return nil, err
	}

	parsed, err := protocol.ParseCredentialCreationResponseBody(body)
	if err != nil {
		s.reportSecurityEvent(ctx, user.ID, fmt.Sprintf("malformed registration response: %v", err))
		return nil, core.ErrVerificationFailed
	}

	existing, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	credential, err := s.webAuthn.CreateCredential(newCeremonyUser(user, existing), *session, parsed)
	if err != nil {
		s.reportSecurityEvent(ctx, user.ID, fmt.Sprintf("registration verification failed: %v", err))
		return nil, core.ErrVerificationFailed
	}

	cred := credentialFromLibrary(user.ID, credential)
	if err := s.creds.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}

	return cred, nil
}

// BeginLogin starts an authentication ceremony for the user. The returned
// options allow every credential the user owns; the server does not need to
// know in advance which one the client will use.
func (s *WebAuthnService) BeginLogin(ctx context.Context, user *core.User) (*protocol.CredentialAssertion, error) {
	existing, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if len(existing) == 0 {
		return nil, core.ErrNoCredentials
	}

	options, session, err := s.webAuthn.BeginLogin(newCeremonyUser(user, existing))
	if err != nil {
		return nil, fmt.Errorf("failed to begin login: %w", err)
	}

	if err := s.saveSession(ctx, loginKey(user.ID), session); err != nil {
		return nil, err
	}

	return options, nil
}

// FinishLogin verifies the authenticator's assertion. The credential lookup
// is scoped to (credential id, user), which is the binding that prevents one
// user's credential from authenticating another. The stored signature counter
// is advanced atomically with the verification outcome: no success is
// reported unless the counter update also commits.
func (s *WebAuthnService) FinishLogin(ctx context.Context, user *core.User, body io.Reader) error {
	session, err := s.consumeSession(ctx, loginKey(user.ID))
	if err != nil {
		return err
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(body)
	if err != nil {
		s.reportSecurityEvent(ctx, user.ID, fmt.Sprintf("malformed assertion response: %v", err))
		return core.ErrVerificationFailed
	}

	stored, err := s.creds.GetByCredentialID(ctx, parsed.RawID, user.ID)
	if err != nil {
		return err
	}

	validated, err := s.webAuthn.ValidateLogin(newCeremonyUser(user, []*core.Credential{stored}), *session, parsed)
	if err != nil {
		s.reportSecurityEvent(ctx, user.ID, fmt.Sprintf("assertion verification failed: %v", err))
		return core.ErrVerificationFailed
	}

	if validated.Authenticator.CloneWarning {
		s.reportSecurityEvent(ctx, user.ID, fmt.Sprintf(
			"non-increasing signature counter: stored %d, reported %d",
			stored.SignCount, validated.Authenticator.SignCount))
		return core.ErrClonedAuthenticator
	}

	// Serialized re-check inside the store: a concurrent assertion that
	// already advanced the counter makes this one fail as a clone.
	if err := s.creds.UpdateSignCount(ctx, parsed.RawID, user.ID, validated.Authenticator.SignCount); err != nil {
		if errors.Is(err, core.ErrClonedAuthenticator) {
			s.reportSecurityEvent(ctx, user.ID, "signature counter regression on update")
		}
		return err
	}

	if err := s.eventPub.PublishLogin(ctx, user.ID, "webauthn"); err != nil {
		log.Printf("warning: failed to publish login event: %v", err)
	}

	return nil
}

// IsRegistered reports whether the user has any registered credential
func (s *WebAuthnService) IsRegistered(ctx context.Context, user *core.User) (bool, error) {
	creds, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load credentials: %w", err)
	}
	return len(creds) > 0, nil
}

func (s *WebAuthnService) saveSession(ctx context.Context, key string, session *webauthn.SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.challenges.Save(ctx, key, data, s.challengeTTL); err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}
	return nil
}

func (s *WebAuthnService) consumeSession(ctx context.Context, key string) (*webauthn.SessionData, error) {
	data, err := s.challenges.Consume(ctx, key)
	if err != nil {
		return nil, err
	}
	var session webauthn.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// reportSecurityEvent logs the full detail server-side and publishes it for
// other systems; the caller reports only a generic failure to the client.
func (s *WebAuthnService) reportSecurityEvent(ctx context.Context, userID, reason string) {
	log.Printf("security event: user=%s %s", userID, reason)
	if err := s.eventPub.PublishSecurityEvent(ctx, userID, reason); err != nil {
		log.Printf("warning: failed to publish security event: %v", err)
	}
}

// ceremonyUser adapts a core.User and its credentials to the webauthn.User
// interface the library verifies against.
type ceremonyUser struct {
	user  *core.User
	creds []*core.Credential
}

func newCeremonyUser(user *core.User, creds []*core.Credential) *ceremonyUser {
	return &ceremonyUser{user: user, creds: creds}
}

func (u *ceremonyUser) WebAuthnID() []byte {
	return []byte(u.user.ID)
}

func (u *ceremonyUser) WebAuthnName() string {
	return u.user.Email
}

func (u *ceremonyUser) WebAuthnDisplayName() string {
	if u.user.Name == "" {
		return u.user.Email
	}
	return u.user.Name
}

func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential {
	creds := make([]webauthn.Credential, len(u.creds))
	for i, c := range u.creds {
		creds[i] = webauthn.Credential{
			ID:              c.ID,
			PublicKey:       c.PublicKey,
			AttestationType: c.AttestationType,
			Transport:       transportsFromStrings(c.Transports),
			Authenticator: webauthn.Authenticator{
				SignCount: c.SignCount,
			},
		}
	}
	return creds
}

func credentialFromLibrary(userID string, wc *webauthn.Credential) *core.Credential {
	transports := make([]string, len(wc.Transport))
	for i, t := range wc.Transport {
		transports[i] = string(t)
	}
	return &core.Credential{
		ID:              wc.ID,
		UserID:          userID,
		PublicKey:       wc.PublicKey,
		AttestationType: wc.AttestationType,
		Transports:      transports,
		SignCount:       wc.Authenticator.SignCount,
		CreatedAt:       time.Now().UTC(),
	}
}

func transportsFromStrings(transports []string) []protocol.AuthenticatorTransport {
	out := make([]protocol.AuthenticatorTransport, len(transports))
	for i, t := range transports {
		out[i] = protocol.AuthenticatorTransport(t)
	}
	return out
}
