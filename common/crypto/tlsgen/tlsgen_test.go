package tlsgen

import (
	"crypto/ecdsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCAChain(t *testing.T) {
	ca, err := NewCA(WithCommonName("root"))
	require.NoError(t, err)
	require.True(t, ca.X509Cert().IsCA)
	require.Equal(t, "root", ca.X509Cert().Subject.CommonName)

	inter, err := ca.NewIntermediateCA(WithCommonName("intermediate"), WithMaxPathLen(0))
	require.NoError(t, err)
	require.True(t, inter.X509Cert().MaxPathLenZero)
	require.NoError(t, inter.X509Cert().CheckSignatureFrom(ca.X509Cert()))

	leaf, err := inter.NewServerCertKeyPair("localhost", "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, []string{"localhost"}, leaf.X509Cert().DNSNames)
	require.Len(t, leaf.X509Cert().IPAddresses, 1)

	roots := x509.NewCertPool()
	roots.AddCert(ca.X509Cert())
	intermediates := x509.NewCertPool()
	intermediates.AddCert(inter.X509Cert())
	_, err = leaf.X509Cert().Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		DNSName:       "localhost",
	})
	require.NoError(t, err)
}

func TestEncodings(t *testing.T) {
	ca, err := NewCA()
	require.NoError(t, err)

	block, _ := pem.Decode(ca.CertPEM())
	require.NotNil(t, block)
	require.Equal(t, "CERTIFICATE", block.Type)
	require.Equal(t, ca.CertDER(), block.Bytes)

	block, _ = pem.Decode(ca.PrivateKeyPEM())
	require.NotNil(t, block)
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.True(t, key.(*ecdsa.PrivateKey).Equal(ca.Endorser()))
}

func TestOptions(t *testing.T) {
	ca, err := NewCA(WithKeyType(Ed25519), WithKeyUsage(x509.KeyUsageCertSign))
	require.NoError(t, err)
	require.Equal(t, x509.Ed25519, ca.X509Cert().PublicKeyAlgorithm)

	notBefore := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	notAfter := notBefore.Add(time.Hour)
	policy := asn1.ObjectIdentifier{2, 23, 140, 1, 2, 1}
	ckp, err := ca.NewCertKeyPair(
		WithKeyType(ECDSAP384),
		WithSubject(pkix.Name{CommonName: "leaf", Organization: []string{"Org"}}),
		WithValidity(notBefore, notAfter),
		WithPolicies(policy),
		WithOCSPServers("http://ocsp.example.com"),
		WithCRLDistributionPoints("http://crl.example.com/ca.crl"),
		WithEmails("leaf@example.com"),
		WithoutSubjectKeyID(),
		WithKeyUsage(0),
	)
	require.NoError(t, err)

	cert := ckp.X509Cert()
	require.Equal(t, x509.ECDSA, cert.PublicKeyAlgorithm)
	require.Equal(t, notBefore, cert.NotBefore)
	require.Equal(t, notAfter, cert.NotAfter)
	require.Equal(t, []asn1.ObjectIdentifier{policy}, cert.PolicyIdentifiers)
	require.Equal(t, []string{"http://ocsp.example.com"}, cert.OCSPServer)
	require.Equal(t, []string{"http://crl.example.com/ca.crl"}, cert.CRLDistributionPoints)
	require.Equal(t, []string{"leaf@example.com"}, cert.EmailAddresses)
	require.Empty(t, cert.SubjectKeyId)
	require.Equal(t, x509.KeyUsage(0), cert.KeyUsage)
	require.NoError(t, cert.CheckSignatureFrom(ca.X509Cert()))
}

func TestTLSHandshake(t *testing.T) {
	ca, err := NewCA()
	require.NoError(t, err)
	server, err := ca.NewServerCertKeyPair("127.0.0.1")
	require.NoError(t, err)
	client, err := ca.NewClientCertKeyPair()
	require.NoError(t, err)

	serverCert, err := tls.X509KeyPair(server.CertPEM(), server.PrivateKeyPEM())
	require.NoError(t, err)
	clientCert, err := tls.X509KeyPair(client.CertPEM(), client.PrivateKeyPEM())
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(ca.CertPEM())

	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
	})
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.(*tls.Conn).Handshake()
	}()

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: time.Second}, "tcp", listener.Addr().String(), &tls.Config{
		Certificates: []tls.Certificate{clientCert},
		RootCAs:      pool,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Handshake())
	conn.Close()
}
