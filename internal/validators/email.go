package validators

import (
	"net"
	"strings"
)

// HasResolvableEmailDomain checks that the address's domain publishes
// MX or A/AAAA records. Format validation happens at binding time;
// this only filters out obviously dead domains at registration.
func HasResolvableEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
