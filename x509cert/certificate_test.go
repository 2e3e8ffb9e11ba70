package x509cert

import (
	"encoding/asn1"
	"encoding/pem"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/oids"
	"github.com/11090815/x509cert/vars"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

func fullTemplate(t *testing.T) *certTemplate {
	return newTemplate(t).withExtensions(
		append([]ext{
			basicConstraintsExt(true, 3),
			keyUsageExt(0, 5),
			oidSequenceExt(oids.ExtendedKeyUsage, asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}),
			oidSequenceExt(oids.CertificatePolicies, oids.AnyPolicy),
			sanDNSExt("leaf.example.com"),
		}, keyIDExts([]byte{0xAA, 0xBB}, []byte{0xCC, 0xDD})...)...,
	)
}

func TestAccessors(t *testing.T) {
	cert := fullTemplate(t).parse(t)

	require.Equal(t, 3, cert.Version())
	require.Equal(t, "2023/01/02 03:04:05 UTC", cert.StartTime())
	require.Equal(t, "2033/01/02 03:04:05 UTC", cert.EndTime())
	require.True(t, cert.ValidAt(time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.True(t, cert.ValidAt(time.Date(2033, 1, 2, 3, 4, 5, 999, time.UTC)))
	require.False(t, cert.ValidAt(time.Date(2023, 1, 2, 3, 4, 4, 0, time.UTC)))
	require.False(t, cert.ValidAt(time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.True(t, cert.IsCACert())
	require.Equal(t, uint64(3), cert.PathLimit())
	require.Equal(t, DigitalSignature|KeyCertSign, cert.Constraints())
	require.Equal(t, []string{"PKIX.ServerAuth"}, cert.ExConstraints())
	require.Equal(t, []string{"X509v3.AnyPolicy"}, cert.Policies())
	require.Equal(t, []byte{0xAA, 0xBB}, cert.AuthorityKeyID())
	require.Equal(t, []byte{0xCC, 0xDD}, cert.SubjectKeyID())
	require.Equal(t, []byte{0x12, 0x34}, cert.SerialNumber())
	require.Equal(t, spki(t), cert.SubjectPublicKeyDER())
	require.Equal(t, []string{"leaf.example.com"}, cert.SubjectAltName().Get("DNS"))
	require.True(t, cert.IssuerAltName().Empty())
	require.Equal(t, "", cert.OCSPResponder())
	require.Empty(t, cert.CAIssuers())
	require.Empty(t, cert.CRLDistributionPoints())
	require.Equal(t, "ECDSA/EMSA1(SHA-256)", cert.SignatureAlgorithm().Name())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, cert.Signature())

	// 返回的切片是副本。
	cert.Signature()[0] = 0xFF
	cert.SignatureAlgorithm().OID[0] = 9
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, cert.Signature())
	require.Equal(t, "ECDSA/EMSA1(SHA-256)", cert.SignatureAlgorithm().Name())
}

func TestFingerprint(t *testing.T) {
	cert := newTemplate(t).parse(t)
	fp, err := cert.Fingerprint(&bccsp.SHA256Opts{})
	require.NoError(t, err)

	digest, err := bccsp.Default().Hash(cert.Raw(), &bccsp.SHA256Opts{})
	require.NoError(t, err)
	require.Len(t, strings.Split(fp, ":"), len(digest))
	require.Equal(t, upperHex(digest), strings.ReplaceAll(fp, ":", ""))
}

func TestMatchesDNSName(t *testing.T) {
	wildcard := newTemplate(t).withExtensions(sanDNSExt("*.example.com")).parse(t)
	cases := []struct {
		name     string
		expected bool
	}{
		{"mail.example.com", true},
		{"a.b.example.com", true},
		{"example.com", false},
		{".example.com", false},
		{"mail.example.org", false},
		{"", false},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, wildcard.MatchesDNSName(c.name), c.name)
	}

	// 没有 SAN 时使用主体的通用名，比较区分大小写。
	byCN := newTemplate(t).parse(t)
	require.True(t, byCN.MatchesDNSName("leaf.example.com"))
	require.False(t, byCN.MatchesDNSName("LEAF.example.com"))
	require.False(t, byCN.MatchesDNSName("www.leaf.example.com"))

	require.False(t, matchDNSName("example.com", []string{"*."}))
	require.True(t, matchDNSName("xy.example.com", []string{"other.com", "*.example.com"}))
	// 主机名必须严格长于通配符名称。
	require.False(t, matchDNSName("x.example.com", []string{"*.example.com"}))
}

func TestCompare(t *testing.T) {
	low := newTemplate(t)
	low.signature = []byte{0x01, 0x02}
	high := newTemplate(t)
	high.signature = []byte{0x01, 0x03}

	a, b := low.parse(t), high.parse(t)
	require.Equal(t, -1, Compare(a, b))
	require.Equal(t, 1, Compare(b, a))
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Equal(b))

	same := low.parse(t)
	require.Equal(t, 0, Compare(a, same))
	require.True(t, a.Equal(same))
	require.False(t, a.Less(same))

	// 签名相同时比较文本表示。
	other := newTemplate(t)
	other.signature = low.signature
	other.serial.SetInt64(0x9999)
	c := other.parse(t)
	require.False(t, a.Equal(c))
	require.Equal(t, strings.Compare(a.String(), c.String()), Compare(a, c))

	certs := []*Certificate{b, c, a}
	sort.Slice(certs, func(i, j int) bool { return certs[i].Less(certs[j]) })
	require.True(t, certs[len(certs)-1].Equal(b))

	var nilCert *Certificate
	require.True(t, nilCert.Equal(nil))
	require.False(t, a.Equal(nil))
}

func TestEqualIgnoresNameOrder(t *testing.T) {
	first := newTemplate(t).parse(t)

	reordered := newTemplate(t)
	reordered.issuer = []attr{org("Example"), cn("Test CA")}
	second := reordered.parse(t)
	require.True(t, first.Equal(second))

	renamed := newTemplate(t)
	renamed.issuer = []attr{cn("Other CA"), org("Example")}
	require.False(t, first.Equal(renamed.parse(t)))
}

func TestString(t *testing.T) {
	cert := fullTemplate(t).parse(t)
	keyPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: spki(t)}))

	expected := "Subject Name: leaf.example.com\n" +
		"Subject Organization: Example\n" +
		"Subject DNS: leaf.example.com\n" +
		"Issuer Name: Test CA\n" +
		"Issuer Organization: Example\n" +
		"Version: 3\n" +
		"Not valid before: 2023/01/02 03:04:05 UTC\n" +
		"Not valid after: 2033/01/02 03:04:05 UTC\n" +
		"Constraints:\n" +
		"   Digital Signature\n" +
		"   Cert Sign\n" +
		"Policies: \n" +
		"   X509v3.AnyPolicy\n" +
		"Extended Constraints:\n" +
		"   PKIX.ServerAuth\n" +
		"Signature algorithm: ECDSA/EMSA1(SHA-256)\n" +
		"Serial number: 1234\n" +
		"Authority keyid: AABB\n" +
		"Subject keyid: CCDD\n" +
		"Public Key:\n" +
		keyPEM
	require.Equal(t, expected, cert.String())

	v1 := newTemplate(t).withVersion(0).parse(t)
	out := v1.String()
	require.Contains(t, out, "Version: 1\n")
	require.Contains(t, out, "Constraints:\n None\n")
	require.NotContains(t, out, "Policies")
	require.NotContains(t, out, "keyid")
}

func TestStringWithUnparseableKey(t *testing.T) {
	tmpl := newTemplate(t)
	unknownKey := build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			addAlgorithm(b, asn1.ObjectIdentifier{1, 2, 3, 4, 5}, nil)
			b.AddASN1BitString([]byte{0x01, 0x02})
		})
	})
	tmpl.spki = unknownKey
	cert := tmpl.parse(t)

	_, err := cert.SubjectPublicKey()
	require.Error(t, err)
	require.True(t, strings.HasSuffix(cert.String(), string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: unknownKey}))))
}

func TestPEMInput(t *testing.T) {
	der := newTemplate(t).der()

	for _, label := range []string{"CERTIFICATE", "X509 CERTIFICATE"} {
		data := pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der})
		cert, err := ParsePEM(data)
		require.NoError(t, err, label)
		require.Equal(t, der, cert.Raw())

		cert, err = Load(append(data, "\n\n"...))
		require.NoError(t, err, label)
		require.Equal(t, der, cert.Raw())
	}

	_, err := ParsePEM(nil)
	require.Equal(t, vars.ErrorDecodePEMFormatCertificate{MaterialIsNil: true}, err)

	_, err = Load([]byte("not a certificate"))
	require.Equal(t, vars.ErrorDecodePEMFormatCertificate{BlockIsNil: true}, err)

	twice := append(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})...)
	_, err = ParsePEM(twice)
	require.Equal(t, vars.ErrorDecodePEMFormatCertificate{RestIsNotNil: true}, err)

	_, err = ParsePEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.Equal(t, vars.ErrorInvalidPEMLabel{Label: "PRIVATE KEY"}, err)
}

func TestLoadBundle(t *testing.T) {
	first := newTemplate(t).der()
	secondTmpl := newTemplate(t)
	secondTmpl.serial.SetInt64(7)
	second := secondTmpl.der()

	var bundle []byte
	for _, der := range [][]byte{first, second} {
		bundle = append(bundle, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})...)
	}
	certs, err := LoadBundle(bundle)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	require.Equal(t, []byte{0x07}, certs[1].SerialNumber())

	certs, err = LoadBundle(first)
	require.NoError(t, err)
	require.Len(t, certs, 1)

	broken := append(bundle, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{0x30, 0x00}})...)
	_, err = LoadBundle(broken)
	require.Error(t, err)
	require.Contains(t, err.Error(), "certificate #2 in bundle")
	var fault vars.DecodingFault
	require.ErrorAs(t, err, &fault)

	mixed := append(bundle, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: spki(t)})...)
	_, err = LoadBundle(mixed)
	require.Equal(t, vars.ErrorInvalidPEMLabel{Label: "PUBLIC KEY"}, err)
}
