// Package safeurl validates the URLs picturemaker is pointed at: the page
// to capture and the webhooks that receive log events. It also bounds reads
// of remote response bodies.
package safeurl

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
)

// MaxErrorBody caps how much of a failed webhook response is kept for logs.
const MaxErrorBody int64 = 4 << 10

var (
	// ErrUnsafeScheme is returned when a URL uses a scheme Chrome or the
	// webhook client should not be given.
	ErrUnsafeScheme = errors.New("safeurl: unsupported scheme")

	// ErrPrivateHost is returned when a webhook targets a private or
	// loopback address and private hosts are not allowed.
	ErrPrivateHost = errors.New("safeurl: URL targets a private or loopback address")
)

// Target checks a capture address. http and https need a host; file URLs
// are accepted for local pages. Private hosts are allowed: capturing an
// intranet dashboard is a normal use.
func Target(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("safeurl: invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Hostname() == "" {
			return fmt.Errorf("safeurl: %q has no host", raw)
		}
		return nil
	case "file":
		if u.Path == "" {
			return fmt.Errorf("safeurl: %q has no path", raw)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsafeScheme, u.Scheme)
	}
}

// Webhook checks a webhook endpoint: http or https with a host. Unless
// allowPrivate is set, the host must not be or resolve to a private,
// loopback or link-local address.
func Webhook(raw string, allowPrivate bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("safeurl: invalid URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: %q", ErrUnsafeScheme, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("safeurl: %q has no host", raw)
	}
	if allowPrivate {
		return nil
	}

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return ErrPrivateHost
		}
		return nil
	}

	// An unresolvable host fails later at connect time.
	addrs, err := net.LookupHost(host)
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && isPrivateIP(ip) {
			return ErrPrivateHost
		}
	}
	return nil
}

// LimitedReadAll reads at most maxBytes from r and fails past that.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return data[:maxBytes], fmt.Errorf("safeurl: body exceeds %d bytes", maxBytes)
	}
	return data, nil
}

var privateNets = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"fc00::/7",
	} {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}()

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, n := range privateNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
