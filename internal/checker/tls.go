package checker

import (
	"crypto/tls"
	"crypto/x509"
	"net/url"
	"strings"
	"time"
)

// AnalyzeTLS summarizes the TLS state of the page. The connection state comes
// from the page fetch; nothing is re-verified cryptographically here.
// Returns nil for an https page whose connection state is unknown.
func AnalyzeTLS(pageURL string, state *tls.ConnectionState, now time.Time) *SSLCertificate {
	u, err := url.Parse(pageURL)
	if err != nil || !strings.EqualFold(u.Scheme, "https") {
		return &SSLCertificate{
			Valid: false,
			Error: "page is not served over HTTPS",
		}
	}

	if state == nil {
		return nil
	}

	info := &SSLCertificate{
		Protocol: tlsVersionString(state.Version),
	}

	if len(state.PeerCertificates) == 0 {
		info.Error = "no peer certificate presented"
		return info
	}

	// First cert is the server's certificate
	cert := state.PeerCertificates[0]
	info.Valid = now.After(cert.NotBefore) && now.Before(cert.NotAfter)
	info.ExpiresAt = cert.NotAfter.UTC().Format(time.RFC3339)
	info.DaysRemaining = int(cert.NotAfter.Sub(now).Hours() / 24)
	info.Issuer = extractIssuerCN(cert)

	if !info.Valid {
		if now.Before(cert.NotBefore) {
			info.Error = "certificate is not yet valid"
		} else {
			info.Error = "certificate has expired"
		}
	}

	return info
}

// tlsVersionString converts TLS version constant to string
func tlsVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS1.0"
	case tls.VersionTLS11:
		return "TLS1.1"
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	default:
		return "unknown"
	}
}

// extractIssuerCN falls back to Organization, then the full DN
func extractIssuerCN(cert *x509.Certificate) string {
	if cert.Issuer.CommonName != "" {
		return cert.Issuer.CommonName
	}
	if len(cert.Issuer.Organization) > 0 {
		return strings.Join(cert.Issuer.Organization, ", ")
	}
	return cert.Issuer.String()
}
