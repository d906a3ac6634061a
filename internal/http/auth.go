package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"log/slog"
)

type contextKey string

const ownerContextKey contextKey = "owner_id"

// ownerHeader carries the authenticated user identity, set by the reverse
// proxy after it has verified the session. The service itself never sees
// credentials.
const ownerHeader = "X-User-ID"

// authed rejects requests without an identity and stores the owner in the
// request context for the handler.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(ownerHeader))
		if owner == "" {
			slog.WarnContext(r.Context(), "Rejected request without identity",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", extractClientIP(r))
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		ctx := context.WithValue(r.Context(), ownerContextKey, owner)
		next(w, r.WithContext(ctx))
	})
}

// ownerFrom returns the authenticated owner stored by authed.
func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerContextKey).(string)
	return owner
}

// trustedProxies defines networks that are trusted to set forwarding headers.
var trustedProxies = []*net.IPNet{
	parsecidr("127.0.0.0/8"),    // localhost
	parsecidr("10.0.0.0/8"),     // private networks
	parsecidr("172.16.0.0/12"),  // private networks
	parsecidr("192.168.0.0/16"), // private networks
}

func parsecidr(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

func isTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP extracts the real client IP, honoring forwarding headers
// only when the direct peer is a trusted proxy.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if parsedIP := net.ParseIP(clientIP); parsedIP != nil {
					return clientIP
				}
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if parsedIP := net.ParseIP(xri); parsedIP != nil {
				return xri
			}
		}
	}

	return directIP
}
