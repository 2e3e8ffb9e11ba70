package bccsp

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPKIXPublicKeyImport(t *testing.T) {
	csp := NewBCCSP()

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cases := []struct {
		name      string
		pub       interface{}
		algorithm string
	}{
		{"ecdsa", &ecKey.PublicKey, ECDSA},
		{"rsa", &rsaKey.PublicKey, RSA},
		{"ed25519", edPub, ED25519},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			der, err := x509.MarshalPKIXPublicKey(tc.pub)
			require.NoError(t, err)

			key, err := csp.KeyImport(der, &PKIXPublicKeyImportOpts{Temporary: true})
			require.NoError(t, err)
			require.Equal(t, tc.algorithm, key.Algorithm())
			require.False(t, key.IsPrivate())
			require.False(t, key.Symmetric())
			require.NotEmpty(t, key.SKI())

			raw, err := key.Bytes()
			require.NoError(t, err)
			require.Equal(t, der, raw)

			pub, err := key.PublicKey()
			require.NoError(t, err)
			require.Equal(t, key, pub)

			pemBytes, err := PublicKeyToPEM(key)
			require.NoError(t, err)
			require.Contains(t, string(pemBytes), "-----BEGIN PUBLIC KEY-----")

			back, err := pemToPublicKey(pemBytes)
			require.NoError(t, err)
			require.Equal(t, tc.pub, back)
		})
	}
}

func TestPKIXPublicKeyImportErrors(t *testing.T) {
	csp := NewBCCSP()

	_, err := csp.KeyImport(nil, nil)
	require.Error(t, err)

	_, err = csp.KeyImport("not bytes", &PKIXPublicKeyImportOpts{})
	require.ErrorContains(t, err, "want bytes")

	_, err = csp.KeyImport([]byte{}, &PKIXPublicKeyImportOpts{})
	require.ErrorContains(t, err, "the content is empty")

	_, err = csp.KeyImport([]byte{0x30, 0x03, 0x02, 0x01, 0x01}, &PKIXPublicKeyImportOpts{})
	require.ErrorContains(t, err, "failed converting pkix to public key")
}

func TestHash(t *testing.T) {
	csp := NewBCCSP()
	msg := []byte("hello, world")

	digest, err := csp.Hash(msg, &SHA256Opts{})
	require.NoError(t, err)
	expected := sha256.Sum256(msg)
	require.Equal(t, expected[:], digest)

	h, err := csp.GetHash(&SHA384Opts{})
	require.NoError(t, err)
	require.Equal(t, 48, h.Size())

	_, err = csp.Hash(msg, nil)
	require.Error(t, err)

	opts, err := GetHashOpt("SHA-1")
	require.NoError(t, err)
	digest, err = csp.Hash(msg, opts)
	require.NoError(t, err)
	require.Len(t, digest, 20)

	_, err = GetHashOpt("MD5")
	require.ErrorContains(t, err, "MD5")
}

func TestAddWrapper(t *testing.T) {
	csp := NewCSP()
	require.Error(t, csp.AddWrapper(nil, &hasher{hash: sha256.New}))
	require.Error(t, csp.AddWrapper(reflect.TypeOf(&SHA256Opts{}), nil))
	require.Error(t, csp.AddWrapper(reflect.TypeOf(&SHA256Opts{}), "nope"))
	require.NoError(t, csp.AddWrapper(reflect.TypeOf(&SHA256Opts{}), &hasher{hash: sha256.New}))

	_, err := csp.Hash([]byte("x"), &SHA384Opts{})
	require.ErrorContains(t, err, "no hasher")
}

func TestPublicKeyToPEMRejectsNil(t *testing.T) {
	_, err := PublicKeyToPEM(nil)
	require.Error(t, err)
}
