package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type claims struct {
	JTI      string `json:"jti"`
	UserName string `json:"user_name"`
}

// AccessToken is the OAuth bearer token handed to us by Alexa or Google.
// Its jti claim wraps "<environment>_<backend token>".
type AccessToken struct {
	raw          string
	environment  string
	backendToken string
	userName     string
}

func ParseAccessToken(raw string) (AccessToken, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return AccessToken{}, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	encoded := strings.TrimSpace(strings.TrimPrefix(raw, "Basic"))
	c, err := decodeClaims(encoded)
	if err != nil {
		return AccessToken{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if c.JTI == "" {
		return AccessToken{}, fmt.Errorf("%w: missing jti claim", ErrMalformedToken)
	}
	jti, err := decodeLenient(c.JTI)
	if err != nil {
		return AccessToken{}, fmt.Errorf("%w: jti: %v", ErrMalformedToken, err)
	}

	env, backendToken, ok := strings.Cut(string(jti), "_")
	if !ok {
		return AccessToken{}, fmt.Errorf("%w: jti has no environment prefix", ErrMalformedToken)
	}

	t := AccessToken{
		raw:          raw,
		environment:  env,
		backendToken: backendToken,
		userName:     c.UserName,
	}
	return t, nil
}

// decodeClaims reads a JWT's payload without verifying it; the backend
// verifies. Anything else is a base64 encoded claims object.
func decodeClaims(encoded string) (claims, error) {
	var c claims
	if strings.Count(encoded, ".") == 2 {
		mc := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(encoded, mc); err != nil {
			return c, err
		}
		c.JTI, _ = mc["jti"].(string)
		c.UserName, _ = mc["user_name"].(string)
		return c, nil
	}

	raw, err := decodeLenient(encoded)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("decode claims: %w", err)
	}
	return c, nil
}

func (t AccessToken) String() string       { return t.raw }
func (t AccessToken) Environment() string  { return t.environment }
func (t AccessToken) BackendToken() string { return t.backendToken }
func (t AccessToken) UserName() string     { return t.userName }

// decodeLenient accepts standard and url-safe alphabets, with or without padding.
func decodeLenient(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
