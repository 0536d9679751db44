// Package vpncheck verifies that the VPN container's egress IP differs from
// the host's direct egress IP, i.e. that the proxy actually masks traffic.
package vpncheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/arrbiter/arrctl/pkg/ui/notify"
	"github.com/sirupsen/logrus"
)

// Error definitions for egress verification.
var (
	// ErrNoEndpointResponded is returned when no IP-echo endpoint yields a
	// syntactically valid IPv4 address.
	ErrNoEndpointResponded = errors.New("no IP-echo endpoint returned a valid address")

	// ErrEgressNotMasked is returned when the proxied egress IP equals the
	// local egress IP, meaning the VPN is not masking traffic.
	ErrEgressNotMasked = errors.New("VPN egress IP equals local egress IP")
)

// ipv4Pattern matches a bare dotted-quad response body. Only syntactically
// valid IPv4-looking strings are accepted as observations.
var ipv4Pattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// Prober issues a single bounded-timeout probe against an echo endpoint and
// returns the trimmed response body.
type Prober interface {
	Probe(ctx context.Context, endpoint string) (string, error)
}

// Report holds the observations gathered during a verification run.
type Report struct {
	LocalIP        string
	LocalCountry   string
	ProxiedIP      string
	ProxiedCountry string
}

// Verifier compares the host's direct egress IP with the VPN container's
// proxied egress IP.
type Verifier struct {
	// Direct probes endpoints from the host's own network context.
	Direct Prober
	// Proxied probes endpoints from within the VPN container's network context.
	Proxied Prober
	// Endpoints is the ordered list of IP-echo endpoints. List order is the
	// priority order; the first valid match short-circuits the rest.
	Endpoints []string
	// GeoEndpoint returns a plaintext country identifier. Lookups against it
	// are best-effort.
	GeoEndpoint string
	// Writer receives progress and result messages. Nil means os.Stdout.
	Writer io.Writer
}

// Verify resolves both egress IPs and compares them. IP resolution failures
// are fatal; country lookups only warn. Equal IPs are reported as a security
// failure via ErrEgressNotMasked.
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	report := &Report{}

	notify.Activityf(v.Writer, "resolving local egress IP")

	localIP, err := ResolveIP(ctx, v.Direct, v.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local egress IP: %w", err)
	}

	report.LocalIP = localIP
	report.LocalCountry = v.resolveCountry(ctx, v.Direct, "local")

	notify.Infof(v.Writer, "local egress: %s (%s)", report.LocalIP, orUnknown(report.LocalCountry))

	notify.Activityf(v.Writer, "resolving VPN egress IP")

	proxiedIP, err := ResolveIP(ctx, v.Proxied, v.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve VPN egress IP: %w", err)
	}

	report.ProxiedIP = proxiedIP
	report.ProxiedCountry = v.resolveCountry(ctx, v.Proxied, "VPN")

	notify.Infof(v.Writer, "VPN egress: %s (%s)", report.ProxiedIP, orUnknown(report.ProxiedCountry))

	if report.ProxiedIP == report.LocalIP {
		notify.Errorf(v.Writer, "SECURITY: VPN egress IP matches local egress IP, traffic is NOT masked")

		return report, ErrEgressNotMasked
	}

	notify.Successf(v.Writer, "VPN egress verified: %s is masked behind %s",
		report.LocalIP, report.ProxiedIP)

	return report, nil
}

// ResolveIP iterates the ordered endpoint list and returns the first response
// matching the IPv4 pattern. Exhausting the list without a match fails the
// whole resolution.
func ResolveIP(ctx context.Context, prober Prober, endpoints []string) (string, error) {
	for _, endpoint := range endpoints {
		body, err := prober.Probe(ctx, endpoint)
		if err != nil {
			logrus.WithField("endpoint", endpoint).WithError(err).Debug("endpoint probe failed")

			continue
		}

		if ipv4Pattern.MatchString(body) {
			return body, nil
		}

		logrus.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"body":     body,
		}).Debug("endpoint returned non-IPv4 response")
	}

	return "", ErrNoEndpointResponded
}

// resolveCountry performs the best-effort geolocation lookup. Failures warn
// and return an empty country.
func (v *Verifier) resolveCountry(ctx context.Context, prober Prober, label string) string {
	if v.GeoEndpoint == "" {
		return ""
	}

	country, err := prober.Probe(ctx, v.GeoEndpoint)
	if err != nil || country == "" {
		notify.Warningf(v.Writer, "could not determine %s country, continuing", label)

		return ""
	}

	return country
}

func orUnknown(country string) string {
	if country == "" {
		return "unknown"
	}

	return country
}
