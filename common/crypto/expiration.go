package crypto

import (
	"bytes"
	"errors"
	"time"

	"github.com/11090815/x509cert/x509cert"
)

// ExpiresAt 给定一张 DER 或 PEM 编码的证书，返回证书的过期时间，证书无法解码时返回零值。
func ExpiresAt(certBytes []byte) time.Time {
	cert, err := x509cert.Load(certBytes)
	if err != nil {
		return time.Time{}
	}
	return cert.NotAfter()
}

type MessageFunc func(format string, args ...interface{})

type Scheduler func(d time.Duration, f func()) *time.Timer

// TrackedCert 是需要跟踪过期时间的一张证书，Role 用于在日志中说明证书的用途，例如 "server TLS"。
type TrackedCert struct {
	Role  string
	Bytes []byte
}

// TrackExpiration 依次跟踪每张证书的过期时间，内容为空的证书会被跳过。
func TrackExpiration(certs []TrackedCert, info MessageFunc, warn MessageFunc, now time.Time, s Scheduler) {
	for _, tc := range certs {
		if len(tc.Bytes) == 0 {
			continue
		}
		trackCertExpiration(tc.Bytes, tc.Role, info, warn, now, s)
	}
}

// trackCertExpiration 跟踪证书的过期时间，在证书还有一个星期就过期的时候，会通过日志发出一个证书即将在一周内过期的警告。
func trackCertExpiration(raw []byte, role string, info MessageFunc, warn MessageFunc, now time.Time, sched Scheduler) {
	expirationTime := ExpiresAt(raw)
	if expirationTime.IsZero() {
		// 给的证书数据有问题
		return
	}

	timeLeftUntilExpiration := expirationTime.Sub(now) // 距离证书过期还剩下的时间
	if timeLeftUntilExpiration < 0 {
		warn("The certificate of %s has expired", role)
	}

	info("The certificate of %s will expire on %s", role, expirationTime)

	if timeLeftUntilExpiration < time.Hour*24*7 {
		warn("The certificate of %s will expire within one week", role)
		return
	}

	timeLeftUntilOneWeekBeforeExpiration := timeLeftUntilExpiration - time.Hour*24*7
	sched(timeLeftUntilOneWeekBeforeExpiration, func() {
		warn("The certificate of %s will expire within one week", role)
	})
}

var ErrPublicKeyMismatch = errors.New("public keys do not match")

// CertificateWithSamePublicKey 判断两张证书中的 SubjectPublicKeyInfo 是否相同，不相同的话则会返回 ErrPublicKeyMismatch。
func CertificateWithSamePublicKey(cert1, cert2 []byte) error {
	c1, err := x509cert.Load(cert1)
	if err != nil {
		return err
	}
	c2, err := x509cert.Load(cert2)
	if err != nil {
		return err
	}

	if !bytes.Equal(c1.SubjectPublicKeyDER(), c2.SubjectPublicKeyDER()) {
		return ErrPublicKeyMismatch
	}
	return nil
}
