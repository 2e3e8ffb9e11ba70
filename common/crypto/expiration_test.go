package crypto_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/11090815/x509cert/common/crypto"
	"github.com/11090815/x509cert/common/crypto/tlsgen"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recorder) log(format string, args ...interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func TestExpiresAt(t *testing.T) {
	notAfter := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	ca, err := tlsgen.NewCA(tlsgen.WithValidity(notAfter.Add(-time.Hour*24*365), notAfter))
	require.NoError(t, err)

	require.Equal(t, notAfter, crypto.ExpiresAt(ca.CertPEM()))
	require.Equal(t, notAfter, crypto.ExpiresAt(ca.CertDER()))

	bad := ca.CertDER()
	bad[len(bad)/2] ^= 0xFF
	bad = bad[:len(bad)-3]
	require.Equal(t, time.Time{}, crypto.ExpiresAt(bad))
	require.Equal(t, time.Time{}, crypto.ExpiresAt(nil))
}

func TestTrackExpiration(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	ca, err := tlsgen.NewCA(tlsgen.WithValidity(now.Add(-time.Hour), now.Add(time.Hour*24*30)))
	require.NoError(t, err)
	soon, err := ca.NewCertKeyPair(tlsgen.WithValidity(now.Add(-time.Hour), now.Add(time.Hour*24*3)))
	require.NoError(t, err)
	expired, err := ca.NewCertKeyPair(tlsgen.WithValidity(now.Add(-time.Hour*48), now.Add(-time.Hour)))
	require.NoError(t, err)

	info, warn := &recorder{}, &recorder{}
	var scheduled []time.Duration
	sched := func(d time.Duration, f func()) *time.Timer {
		scheduled = append(scheduled, d)
		f()
		return nil
	}

	crypto.TrackExpiration([]crypto.TrackedCert{
		{Role: "enrollment", Bytes: ca.CertPEM()},
		{Role: "server TLS", Bytes: soon.CertDER()},
		{Role: "client TLS", Bytes: expired.CertPEM()},
		{Role: "missing"},
		{Role: "garbage", Bytes: []byte("garbage")},
	}, info.log, warn.log, now, sched)

	require.Equal(t, []time.Duration{time.Hour * 24 * 23}, scheduled)
	require.Len(t, info.messages, 3)
	require.Contains(t, info.messages[0], "The certificate of enrollment will expire on")
	require.Equal(t, []string{
		"The certificate of enrollment will expire within one week",
		"The certificate of server TLS will expire within one week",
		"The certificate of client TLS has expired",
		"The certificate of client TLS will expire within one week",
	}, warn.messages)
}

func TestCertificateWithSamePublicKey(t *testing.T) {
	ca, err := tlsgen.NewCA()
	require.NoError(t, err)
	leaf, err := ca.NewClientCertKeyPair()
	require.NoError(t, err)
	other, err := ca.NewClientCertKeyPair()
	require.NoError(t, err)

	// 同一个密钥对重新签发的证书。
	again, err := tlsgen.NewCA()
	require.NoError(t, err)
	require.ErrorIs(t, crypto.CertificateWithSamePublicKey(ca.CertDER(), again.CertDER()), crypto.ErrPublicKeyMismatch)

	require.NoError(t, crypto.CertificateWithSamePublicKey(leaf.CertDER(), leaf.CertPEM()))
	require.ErrorIs(t, crypto.CertificateWithSamePublicKey(leaf.CertDER(), other.CertDER()), crypto.ErrPublicKeyMismatch)
	require.Error(t, crypto.CertificateWithSamePublicKey([]byte{0x30, 0x00}, leaf.CertDER()))
}
