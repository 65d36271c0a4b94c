package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenBytes is 256 bits of entropy, double the required minimum.
const tokenBytes = 32

// NewTokenID generates a cryptographically random session identifier.
func NewTokenID() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Codec converts between the internal session identifier and the outward
// token a caller holds.
type Codec interface {
	Encode(id string) (string, error)
	Decode(token string) (string, error)
}

// Codec modes accepted by NewCodec.
const (
	CodecOpaque = "opaque"
	CodecHS256  = "hs256"
)

// NewCodec selects the outward token format from configuration.
func NewCodec(mode, secret string) (Codec, error) {
	switch mode {
	case "", CodecOpaque:
		return opaqueCodec{}, nil
	case CodecHS256:
		if secret == "" {
			return nil, errors.New("hs256 codec requires a signing secret")
		}
		return &jwtCodec{secret: []byte(secret)}, nil
	default:
		return nil, fmt.Errorf("unsupported token mode: %s", mode)
	}
}

// opaqueCodec passes the random identifier through unchanged.
type opaqueCodec struct{}

func (opaqueCodec) Encode(id string) (string, error) {
	return id, nil
}

func (opaqueCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

// jwtCodec wraps the session identifier in an HS256-signed JWT. Lifecycle
// state (expiry, revocation) stays authoritative in the store, so the JWT
// carries no exp claim of its own.
type jwtCodec struct {
	secret []byte
}

func (c *jwtCodec) Encode(id string) (string, error) {
	claims := jwt.MapClaims{
		"sid": id,
		"iat": jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *jwtCodec) Decode(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("invalid sid claim")
	}
	return sid, nil
}
