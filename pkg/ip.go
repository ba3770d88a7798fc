package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// ReadUserIP returns the client IP used for rate limiting. X-Forwarded-For is only read when the
// request comes from a loopback or private address (the gateway), and then only its last hop,
// the one the gateway appended. X-Real-Ip is never trusted.
func ReadUserIP(r *http.Request) (string, error) {
	ip, err := parseIP(r.RemoteAddr)
	if err != nil {
		return "", err
	}

	if ip.IsLoopback() || ip.IsPrivate() {
		if hop := lastForwardedHop(r.Header.Get("X-Forwarded-For")); hop != "" {
			if hopIP, err := parseIP(hop); err == nil {
				ip = hopIP
			}
		}
	}

	if ip.IsLoopback() || IPIsLocal(net.JoinHostPort(ip.String(), "0")) {
		return "localhost", nil
	}

	return ip.String(), nil
}

func lastForwardedHop(forwardedFor string) string {
	hops := strings.Split(forwardedFor, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

func parseIP(addr string) (net.IP, error) {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, fmt.Errorf("ip addr %s is invalid", addr)
	}
	return ip, nil
}
