package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// Codec serializes a session as an HMAC-signed token. A snapshot that fails
// signature or claim validation is indistinguishable from corruption, so
// stores treat any decode error as "no session".
type Codec struct {
	key []byte
}

// NewCodec creates a codec signing with the given key.
func NewCodec(key []byte) *Codec {
	return &Codec{key: key}
}

type sessionClaims struct {
	DisplayName      string `json:"display_name,omitempty"`
	MailboxConnected bool   `json:"mailbox_connected"`
	jwt.RegisteredClaims
}

// Encode signs the session into a compact token string.
func (c *Codec) Encode(s *models.Session) (string, error) {
	claims := sessionClaims{
		DisplayName:      s.DisplayName,
		MailboxConnected: s.MailboxConnected,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: s.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and reconstructs the session.
func (c *Codec) Decode(raw string) (*models.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}

	return &models.Session{
		Email:            claims.Subject,
		DisplayName:      claims.DisplayName,
		MailboxConnected: claims.MailboxConnected,
	}, nil
}
