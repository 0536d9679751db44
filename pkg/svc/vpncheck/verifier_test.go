package vpncheck_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/arrbiter/arrctl/pkg/svc/vpncheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProbeTimeout = errors.New("probe failed: i/o timeout")

// fakeProber returns canned responses per endpoint and records the order in
// which endpoints were probed.
type fakeProber struct {
	responses map[string]string
	errs      map[string]error
	probed    []string
}

func (f *fakeProber) Probe(_ context.Context, endpoint string) (string, error) {
	f.probed = append(f.probed, endpoint)

	if err, ok := f.errs[endpoint]; ok {
		return "", err
	}

	return f.responses[endpoint], nil
}

func TestResolveIPFirstMatchShortCircuits(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		responses: map[string]string{
			"https://a.example": "1.2.3.4",
			"https://b.example": "5.6.7.8",
		},
	}

	ip, err := vpncheck.ResolveIP(
		context.Background(),
		prober,
		[]string{"https://a.example", "https://b.example"},
	)

	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", ip)
	assert.Equal(t, []string{"https://a.example"}, prober.probed,
		"later endpoints must never be queried once one matches")
}

func TestResolveIPSkipsFailingEndpoint(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		responses: map[string]string{"https://b.example": "1.2.3.4"},
		errs:      map[string]error{"https://a.example": errProbeTimeout},
	}

	ip, err := vpncheck.ResolveIP(
		context.Background(),
		prober,
		[]string{"https://a.example", "https://b.example"},
	)

	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", ip)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, prober.probed)
}

func TestResolveIPSkipsNonIPv4Responses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "html error page", body: "<html>rate limited</html>"},
		{name: "empty body", body: ""},
		{name: "ipv6 address", body: "2001:db8::1"},
		{name: "trailing text", body: "1.2.3.4 via proxy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prober := &fakeProber{
				responses: map[string]string{
					"https://a.example": tc.body,
					"https://b.example": "9.8.7.6",
				},
			}

			ip, err := vpncheck.ResolveIP(
				context.Background(),
				prober,
				[]string{"https://a.example", "https://b.example"},
			)

			require.NoError(t, err)
			assert.Equal(t, "9.8.7.6", ip)
		})
	}
}

func TestResolveIPFailsWhenAllEndpointsExhausted(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		errs: map[string]error{
			"https://a.example": errProbeTimeout,
			"https://b.example": errProbeTimeout,
		},
	}

	ip, err := vpncheck.ResolveIP(
		context.Background(),
		prober,
		[]string{"https://a.example", "https://b.example"},
	)

	require.Error(t, err)
	require.ErrorIs(t, err, vpncheck.ErrNoEndpointResponded)
	assert.Empty(t, ip)
}

func TestVerifyReportsSecurityFailureOnEqualIPs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	endpoints := []string{"https://echo.example"}
	verifier := &vpncheck.Verifier{
		Direct:  &fakeProber{responses: map[string]string{"https://echo.example": "1.2.3.4"}},
		Proxied: &fakeProber{responses: map[string]string{"https://echo.example": "1.2.3.4"}},

		Endpoints: endpoints,
		Writer:    &out,
	}

	report, err := verifier.Verify(context.Background())

	require.Error(t, err)
	require.ErrorIs(t, err, vpncheck.ErrEgressNotMasked)
	require.NotNil(t, report, "report is still returned so callers can show both observations")
	assert.Equal(t, "1.2.3.4", report.LocalIP)
	assert.Equal(t, "1.2.3.4", report.ProxiedIP)
	assert.Contains(t, out.String(), "NOT masked")
}

func TestVerifySucceedsWhenIPsDiffer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	endpoints := []string{"https://echo.example"}
	verifier := &vpncheck.Verifier{
		Direct:  &fakeProber{responses: map[string]string{"https://echo.example": "1.2.3.4"}},
		Proxied: &fakeProber{responses: map[string]string{"https://echo.example": "5.6.7.8"}},

		Endpoints: endpoints,
		Writer:    &out,
	}

	report, err := verifier.Verify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", report.LocalIP)
	assert.Equal(t, "5.6.7.8", report.ProxiedIP)
}

func TestVerifySucceedsDespiteCountryLookupFailures(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	geoErr := map[string]error{"https://geo.example": errProbeTimeout}
	verifier := &vpncheck.Verifier{
		Direct: &fakeProber{
			responses: map[string]string{"https://echo.example": "1.2.3.4"},
			errs:      geoErr,
		},
		Proxied: &fakeProber{
			responses: map[string]string{"https://echo.example": "5.6.7.8"},
			errs:      geoErr,
		},
		Endpoints:   []string{"https://echo.example"},
		GeoEndpoint: "https://geo.example",
		Writer:      &out,
	}

	report, err := verifier.Verify(context.Background())

	require.NoError(t, err, "country lookups are best-effort and never fail the check")
	assert.Empty(t, report.LocalCountry)
	assert.Empty(t, report.ProxiedCountry)
	assert.Contains(t, out.String(), "could not determine")
}

func TestVerifyPopulatesCountries(t *testing.T) {
	t.Parallel()

	verifier := &vpncheck.Verifier{
		Direct: &fakeProber{responses: map[string]string{
			"https://echo.example": "1.2.3.4",
			"https://geo.example":  "US",
		}},
		Proxied: &fakeProber{responses: map[string]string{
			"https://echo.example": "5.6.7.8",
			"https://geo.example":  "NL",
		}},
		Endpoints:   []string{"https://echo.example"},
		GeoEndpoint: "https://geo.example",
		Writer:      &bytes.Buffer{},
	}

	report, err := verifier.Verify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "US", report.LocalCountry)
	assert.Equal(t, "NL", report.ProxiedCountry)
}

func TestVerifyFatalWhenLocalResolutionFails(t *testing.T) {
	t.Parallel()

	proxied := &fakeProber{responses: map[string]string{"https://echo.example": "5.6.7.8"}}
	verifier := &vpncheck.Verifier{
		Direct:    &fakeProber{errs: map[string]error{"https://echo.example": errProbeTimeout}},
		Proxied:   proxied,
		Endpoints: []string{"https://echo.example"},
		Writer:    &bytes.Buffer{},
	}

	report, err := verifier.Verify(context.Background())

	require.Error(t, err)
	require.ErrorIs(t, err, vpncheck.ErrNoEndpointResponded)
	assert.Nil(t, report)
	assert.Empty(t, proxied.probed, "proxied resolution must not run when local resolution fails")
}
