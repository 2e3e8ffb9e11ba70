package certdump

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/11090815/x509cert/common/crypto/tlsgen"
	"github.com/11090815/x509cert/common/metrics/disabled"
	"github.com/11090815/x509cert/common/metrics/prometheus"
	"github.com/11090815/x509cert/common/metrics/statsd"
	"github.com/11090815/x509cert/core/config"
	"github.com/11090815/x509cert/vars"
	"github.com/11090815/x509cert/x509cert"
	"github.com/11090815/x509cert/x509cert/cache"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir    string
	ca     *tlsgen.CA
	server *tlsgen.CertKeyPair
}

func newFixture(t *testing.T) *fixture {
	ca, err := tlsgen.NewCA(tlsgen.WithCommonName("certdump CA"))
	require.NoError(t, err)
	server, err := ca.NewServerCertKeyPair("www.example.com", "*.api.example.com", "10.0.0.1")
	require.NoError(t, err)

	f := &fixture{dir: t.TempDir(), ca: ca, server: server}
	f.write(t, "ca.pem", ca.CertPEM())
	f.write(t, "server.der", server.CertDER())
	f.write(t, "bundle.pem", append(server.CertPEM(), ca.CertPEM()...))
	f.write(t, "garbage.der", []byte{0x30, 0x03, 0x02, 0x01})
	return f
}

func (f *fixture) write(t *testing.T, name string, data []byte) {
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), data, 0o600))
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "show", f.path("bundle.pem"))
	require.NoError(t, err)
	server, err := x509cert.Load(f.server.CertDER())
	require.NoError(t, err)
	ca, err := x509cert.Load(f.ca.CertPEM())
	require.NoError(t, err)
	require.Equal(t, server.String()+"\n"+ca.String(), out)

	out, err = run(t, f.server.CertPEM(), "show", "-")
	require.NoError(t, err)
	require.Equal(t, server.String(), out)

	_, err = run(t, nil, "show", f.path("garbage.der"))
	var fault vars.DecodingFault
	require.ErrorAs(t, err, &fault)
	require.Contains(t, err.Error(), "garbage.der")

	_, err = run(t, nil, "show", f.path("missing.pem"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInfoJSON(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "info", "--json", f.path("server.der"))
	require.NoError(t, err)

	var info certInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, 3, info.Version)
	require.Contains(t, info.Issuer, `CN="certdump CA"`)
	require.False(t, info.IsCA)
	require.Nil(t, info.PathLimit)
	require.False(t, info.SelfSigned)
	require.Equal(t, []string{"Digital Signature", "Key Encipherment"}, info.KeyUsage)
	require.Equal(t, []string{"PKIX.ClientAuth", "PKIX.ServerAuth"}, info.ExtKeyUsage)
	require.Equal(t, []string{"DNS:www.example.com", "DNS:*.api.example.com", "IP:10.0.0.1"}, info.SubjectAltNames)
	require.Equal(t, "ECDSA/EMSA1(SHA-256)", info.SignatureAlgorithm)
	require.Len(t, strings.Split(info.FingerprintSHA256, ":"), 32)
	require.NotEmpty(t, info.SubjectKeyID)
	require.NotEmpty(t, info.AuthorityKeyID)

	out, err = run(t, nil, "info", "--json", f.path("ca.pem"))
	require.NoError(t, err)
	info = certInfo{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.True(t, info.IsCA)
	require.True(t, info.SelfSigned)
	require.NotNil(t, info.PathLimit)
	require.Equal(t, x509cert.NoCertPathLimit, *info.PathLimit)
	require.Contains(t, info.KeyUsage, "Cert Sign")

	out, err = run(t, nil, "info", f.path("ca.pem"))
	require.NoError(t, err)
	require.Contains(t, out, "Subject:     ")
	require.Contains(t, out, "CA:          true\n")
}

func TestMatch(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "match", f.path("server.der"), "www.example.com")
	require.NoError(t, err)
	require.Contains(t, out, "matches www.example.com")

	_, err = run(t, nil, "match", f.path("server.der"), "v1.api.example.com")
	require.NoError(t, err)

	out, err = run(t, nil, "match", f.path("server.der"), "example.com")
	require.Equal(t, errNoMatch, err)
	require.Contains(t, out, "does not match example.com")
}

func TestCompareAndSort(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "compare", f.path("server.der"), f.path("bundle.pem"))
	require.Error(t, err)
	require.Empty(t, out)

	out, err = run(t, nil, "compare", f.path("server.der"), f.path("server.der"))
	require.NoError(t, err)
	require.Equal(t, "equal: true\norder: 0\n", out)

	out, err = run(t, nil, "compare", f.path("server.der"), f.path("ca.pem"))
	require.NoError(t, err)
	require.Contains(t, out, "equal: false\n")

	out, err = run(t, nil, "sort", f.path("bundle.pem"), f.path("server.der"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	server, err := x509cert.Load(f.server.CertDER())
	require.NoError(t, err)
	ca, err := x509cert.Load(f.ca.CertDER())
	require.NoError(t, err)

	// 同一张服务端证书的两份副本保持输入顺序。
	expected := []string{"bundle.pem", "server.der", "bundle.pem"}
	if ca.Less(server) {
		expected = []string{"bundle.pem", "bundle.pem", "server.der"}
		require.Contains(t, lines[0], `CN="certdump CA"`)
	} else {
		require.Contains(t, lines[2], `CN="certdump CA"`)
	}
	for i, line := range lines {
		require.Contains(t, line, "\t"+f.path(expected[i])+"\t")
	}
}

func TestConfigFlags(t *testing.T) {
	f := newFixture(t)

	conf := "Decoder:\n  Strict: true\nCache:\n  Size: 0\nLogging:\n  Format: json\n  Spec: debug\n"
	f.write(t, "x509cert.yaml", []byte(conf))
	_, err := run(t, nil, "--config", f.path("x509cert.yaml"), "show", f.path("ca.pem"))
	require.NoError(t, err)

	f.write(t, "broken.yaml", []byte("Metrics:\n  Provider: graphite\n"))
	_, err = run(t, nil, "--config", f.path("broken.yaml"), "show", f.path("ca.pem"))
	require.ErrorContains(t, err, "unknown metrics provider")

	e := &env{strict: true}
	cmd := NewRootCmd()
	require.NoError(t, e.setup(cmd))
	require.True(t, e.conf.Decoder.Strict)
	require.IsType(t, &cache.CachedDecoder{}, e.cached)
	require.NoError(t, e.teardown())
}

func TestMetricsProviders(t *testing.T) {
	provider, shutdown, err := newMetricsProvider(config.Metrics{Provider: "disabled"}, "")
	require.NoError(t, err)
	require.IsType(t, &disabled.Provider{}, provider)
	require.NoError(t, shutdown())

	_, _, err = newMetricsProvider(config.Metrics{Provider: "graphite"}, "")
	require.ErrorContains(t, err, "unknown metrics provider [graphite]")

	provider, shutdown, err = newMetricsProvider(config.Metrics{Provider: "prometheus"}, "")
	require.NoError(t, err)
	require.IsType(t, &prometheus.Provider{}, provider)
	require.NoError(t, shutdown())
}

func TestStatsdFlush(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	provider, shutdown, err := newMetricsProvider(config.Metrics{
		Provider: "statsd",
		Statsd: config.Statsd{
			Network:       "udp",
			Address:       conn.LocalAddr().String(),
			WriteInterval: time.Hour,
			Prefix:        "certdump.",
		},
	}, "")
	require.NoError(t, err)
	require.IsType(t, &statsd.Provider{}, provider)

	ca, err := tlsgen.NewCA()
	require.NoError(t, err)
	_, err = x509cert.NewDecoder(x509cert.Options{}, provider).Decode(ca.CertDER())
	require.NoError(t, err)
	require.NoError(t, shutdown())

	buf := make([]byte, 4096)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), "certdump.x509cert.decoder.decode_total.success:1.000000|c")
}

func TestServeMetrics(t *testing.T) {
	addr, shutdown, err := serveMetrics("127.0.0.1:0")
	require.NoError(t, err)
	defer shutdown()

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")
}
