// Package token issues and validates the admin session credential.
//
// The token is stateless: the server keeps no session table. A token is a
// base64url-encoded claims payload joined with an HMAC-SHA256 signature,
// and is valid iff the signature verifies and the embedded issue time is
// within the configured TTL. Logout is purely a client-side cookie clear.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/util"
)

// ErrInvalid is returned for every validation failure. Callers must not be
// able to distinguish a tampered token from an expired one.
var ErrInvalid = errors.New("invalid session token")

type claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IssuedAt int64  `json:"iat"`
}

type Service struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue serializes the identity with the current issue time and signs it.
func (s *Service) Issue(identity model.AdminIdentity) (string, error) {
	payload, err := json.Marshal(claims{
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		IssuedAt: s.now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	sig := util.HmacSHA256(s.secret, encoded)

	return encoded + "." + sig, nil
}

// Validate checks the signature, decodes the claims and enforces the TTL.
func (s *Service) Validate(token string) (*model.AdminIdentity, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" {
		return nil, ErrInvalid
	}

	if !util.ConstantTimeEqual(util.HmacSHA256(s.secret, encoded), sig) {
		return nil, ErrInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalid
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, ErrInvalid
	}

	if c.ID == "" || c.Username == "" {
		return nil, ErrInvalid
	}

	issued := time.UnixMilli(c.IssuedAt)
	now := s.now()
	if issued.After(now) || now.Sub(issued) > s.ttl {
		return nil, ErrInvalid
	}

	return &model.AdminIdentity{
		ID:       c.ID,
		Username: c.Username,
		Email:    c.Email,
	}, nil
}
