package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/sharebite/sharebite-api/internal/config"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"google.golang.org/api/option"
)

// ProviderFirebase names identities produced by FirebaseVerifier.
const ProviderFirebase = "firebase"

// idTokenVerifier is the part of *fbauth.Client the verifier uses.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// Ensure FirebaseVerifier implements IdentityVerifier interface
var _ IdentityVerifier = (*FirebaseVerifier)(nil)

// NewFirebaseVerifier initializes the Admin SDK from the base64-encoded
// service account in cfg.FirebaseServiceKey.
func NewFirebaseVerifier(ctx context.Context, cfg config.AuthConfig) (*FirebaseVerifier, error) {
	credentials, err := DecodeServiceKey(cfg.FirebaseServiceKey)
	if err != nil {
		return nil, err
	}

	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

// DecodeServiceKey returns the service account JSON from its base64 form.
// A value that is already a JSON object is returned unchanged.
func DecodeServiceKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errors.New("firebase service key is empty")
	}
	if strings.HasPrefix(encoded, "{") {
		return validateServiceKey([]byte(encoded))
	}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if decoded, err := enc.DecodeString(encoded); err == nil {
			return validateServiceKey(decoded)
		}
	}
	return nil, errors.New("firebase service key is not valid base64")
}

func validateServiceKey(data []byte) ([]byte, error) {
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.New("firebase service key is not a JSON object")
	}
	return data, nil
}

// Verify implements IdentityVerifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	if token == "" {
		return nil, ErrMissingToken
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		mapped := mapFirebaseError(ctx, err)
		log.Debug("firebase token verification failed",
			"error", err,
			"mapped_error", mapped)
		return nil, mapped
	}

	identity := &Identity{
		UID:      decoded.UID,
		Provider: ProviderFirebase,
	}
	if email, ok := decoded.Claims["email"].(string); ok {
		identity.Email = email
	}
	if verified, ok := decoded.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	return identity, nil
}

func mapFirebaseError(ctx context.Context, err error) error {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return ErrExpiredToken
	case fbauth.IsCertificateFetchFailed(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	default:
		return ErrInvalidToken
	}
}
