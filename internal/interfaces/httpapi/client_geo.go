package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// Client address headers in trust order. Fly's edge proxy sets the first;
// the others cover deployments behind a different front.
var clientIPHeaders = [...]string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

var clientCountryHeaders = [...]string{"Fly-Client-Country", "CF-IPCountry"}

func resolveClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip := normalizeIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}
	return normalizeIP(r.RemoteAddr)
}

// resolveCountryCode falls back to the ISO user-assigned "ZZ" code when no
// proxy header supplies a country.
func resolveCountryCode(r *http.Request) string {
	for _, header := range clientCountryHeaders {
		if code := normalizeCountry(r.Header.Get(header)); code != "" {
			return code
		}
	}
	return "ZZ"
}

func normalizeIP(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	// X-Forwarded-For carries a proxy chain; the client is the first hop.
	if head, _, ok := strings.Cut(value, ","); ok {
		value = strings.TrimSpace(head)
	}

	if addrPort, err := netip.ParseAddrPort(value); err == nil {
		return addrPort.Addr().String()
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return ""
	}
	return addr.String()
}

func normalizeCountry(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return ""
	}
	return code
}
