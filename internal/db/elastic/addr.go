package elastic

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// DefaultPort is appended to hosts given without a port.
const DefaultPort = "9200"

// NormalizeAddr turns a loosely specified engine host ("es.local",
// "user:pass@host", "http://host:9201") into a full URL. A missing scheme
// defaults to https and a missing port to 9200. Credentials embedded in the
// URL are stripped from addr and returned separately.
func NormalizeAddr(raw string) (addr, username, password string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", "", fmt.Errorf("empty elasticsearch address")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("parse elasticsearch address: %w", err)
	}
	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("elasticsearch address %q has no host", raw)
	}
	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
		u.User = nil
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), DefaultPort)
	}
	return u.String(), username, password, nil
}
