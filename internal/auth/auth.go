// Package auth issues and verifies the bearer tokens carried by
// participants and admins.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/teckzite/round2/internal/contest"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credential is what a verified token says about its bearer.
type Credential struct {
	Subject   string
	Role      contest.Role
	ExpiresAt time.Time
}

type claims struct {
	Role contest.Role `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret         []byte
	participantTTL time.Duration
	adminTTL       time.Duration
	clock          clockwork.Clock
}

func NewIssuer(secret string, participantTTL, adminTTL time.Duration, clock clockwork.Clock) *Issuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{
		secret:         []byte(secret),
		participantTTL: participantTTL,
		adminTTL:       adminTTL,
		clock:          clock,
	}
}

func (i *Issuer) ttl(role contest.Role) time.Duration {
	if role == contest.RoleAdmin {
		return i.adminTTL
	}
	return i.participantTTL
}

// Issue signs a token for subject. The lifetime depends on role.
func (i *Issuer) Issue(role contest.Role, subject string) (string, time.Time, error) {
	now := i.clock.Now()
	exp := now.Add(i.ttl(role))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, exp, nil
}

func (i *Issuer) Parse(raw string) (Credential, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || (c.Role != contest.RoleParticipant && c.Role != contest.RoleAdmin) {
		return Credential{}, ErrInvalidToken
	}
	return Credential{Subject: c.Subject, Role: c.Role, ExpiresAt: c.ExpiresAt.Time}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
