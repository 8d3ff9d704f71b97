package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

const mask = "****"

// connInfo is a connection string in either URI or key=value form. Keys
// compare case-insensitively.
type connInfo struct {
	u  *url.URL
	kv [][2]string
}

// IsConnString reports whether s looks like a PostgreSQL URI or key/value DSN.
func IsConnString(s string) bool {
	return isURI(s) || strings.Contains(s, "host=")
}

func isURI(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func parseConnInfo(s string) (*connInfo, error) {
	s = strings.TrimSpace(s)
	if isURI(s) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		return &connInfo{u: u}, nil
	}

	c := &connInfo{}
	for _, field := range strings.Fields(s) {
		k, v, ok := strings.Cut(field, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", ErrInvalidConnectionString, field)
		}
		c.kv = append(c.kv, [2]string{k, v})
	}
	return c, nil
}

func (c *connInfo) get(key string) (string, bool) {
	if c.u != nil {
		if strings.EqualFold(key, "password") && c.u.User != nil {
			if p, ok := c.u.User.Password(); ok {
				return p, true
			}
		}
		for k, vs := range c.u.Query() {
			if strings.EqualFold(k, key) && len(vs) > 0 {
				return vs[0], true
			}
		}
		return "", false
	}
	for _, p := range c.kv {
		if strings.EqualFold(p[0], key) {
			return p[1], true
		}
	}
	return "", false
}

func (c *connInfo) setDefault(key, value string) {
	if _, ok := c.get(key); ok {
		return
	}
	if c.u != nil {
		q := c.u.Query()
		q.Set(key, value)
		c.u.RawQuery = q.Encode()
		return
	}
	c.kv = append(c.kv, [2]string{key, value})
}

func (c *connInfo) hasPassword() bool {
	p, ok := c.get("password")
	return ok && p != ""
}

func (c *connInfo) String() string {
	if c.u != nil {
		return c.u.String()
	}
	parts := make([]string, len(c.kv))
	for i, p := range c.kv {
		parts[i] = p[0] + "=" + p[1]
	}
	return strings.Join(parts, " ")
}

func (c *connInfo) masked() string {
	if c.u == nil {
		out := &connInfo{kv: make([][2]string, len(c.kv))}
		for i, p := range c.kv {
			if strings.EqualFold(p[0], "password") {
				p[1] = mask
			}
			out.kv[i] = p
		}
		return out.String()
	}

	u := *c.u
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), mask)
		}
	}
	q := u.Query()
	for k := range q {
		if strings.EqualFold(k, "password") {
			q.Set(k, mask)
		}
	}
	u.RawQuery = q.Encode()
	// url.String escapes the mask
	return strings.ReplaceAll(u.String(), url.QueryEscape(mask), mask)
}

// ValidateConnString accepts a URI or DSN that lib/pq can parse.
// ErrEmbeddedCredentials means it is well formed but carries a password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	c, err := parseConnInfo(connStr)
	if err != nil {
		return err
	}
	if c.u != nil && c.u.Host == "" && c.u.User == nil && strings.Trim(c.u.Path, "/") == "" {
		return fmt.Errorf("%w: connection URL names no host, user or database", ErrInvalidConnectionString)
	}
	if c.hasPassword() {
		return ErrEmbeddedCredentials
	}
	return nil
}

// HasEmbeddedCredentials reports whether connStr carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	c, err := parseConnInfo(connStr)
	return err == nil && c.hasPassword()
}

// MaskPassword hides any password in connStr for display.
func MaskPassword(connStr string) string {
	c, err := parseConnInfo(connStr)
	if err != nil {
		return connStr
	}
	return c.masked()
}
