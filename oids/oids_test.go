package oids

import (
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameLookup(t *testing.T) {
	require.Equal(t, "X520.CommonName", Name(CommonName))
	require.Equal(t, "PKCS9.EmailAddress", Name(EmailAddress))
	require.Equal(t, "PKIX.ServerAuth", NameOf("1.3.6.1.5.5.7.3.1"))
	require.Equal(t, "ECDSA/EMSA1(SHA-256)", NameOf("1.2.840.10045.4.3.2"))
	require.Equal(t, "RSA/EMSA3(SHA-256)", NameOf("1.2.840.113549.1.1.11"))
	require.Equal(t, "X509v3.BasicConstraints", Name(BasicConstraints))
	require.Equal(t, "PKIX.XMPPAddr", Name(XMPPAddr))
}

func TestUnknownPassesThrough(t *testing.T) {
	require.Equal(t, "1.2.3.4.5", Name(asn1.ObjectIdentifier{1, 2, 3, 4, 5}))
	require.False(t, HaveOID("1.2.3.4.5"))
	require.Equal(t, "Some.Unknown", OIDOf("Some.Unknown"))
	require.False(t, HaveName("Some.Unknown"))
}

func TestBidirectional(t *testing.T) {
	for _, e := range table {
		require.True(t, HaveOID(e.oid))
		require.True(t, HaveName(e.name))
		require.Equal(t, e.oid, OIDOf(NameOf(e.oid)), "round trip of %s", e.oid)
	}
}
