package app

import (
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

const redacted = "[redacted]"

// Redacted returns a copy safe to print: secrets are masked and connection
// URLs lose their passwords.
func (c Config) Redacted() Config {
	out := c
	out.JWTSecretKey = mask(c.JWTSecretKey)
	out.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	out.SendgridAPIKey = mask(c.SendgridAPIKey)
	out.OtelHeaders = mask(c.OtelHeaders)
	out.DatabaseURL = stripPassword(c.DatabaseURL)
	out.RedisURL = stripPassword(c.RedisURL)
	if len(c.CORSOrigins) > 0 {
		out.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	}
	return out
}

// YAML renders the redacted config.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

func mask(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return redacted
}

func stripPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
