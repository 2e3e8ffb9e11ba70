package tlsgen

import (
	"crypto"
	"crypto/x509"
)

type CA struct {
	*CertKeyPair
}

// NewCA 生成一个自签名的根 CA，CA 证书默认带有 keyCertSign 与 cRLSign 两种密钥用途，有效期为十年。
func NewCA(opts ...Option) (*CA, error) {
	certKeyPair, err := newCertKeyPair(true, nil, nil, opts...)
	if err != nil {
		return nil, err
	}
	return &CA{CertKeyPair: certKeyPair}, nil
}

// NewIntermediateCA 用自己的私钥签发一个中级 CA。
func (ca *CA) NewIntermediateCA(opts ...Option) (*CA, error) {
	certKeyPair, err := newCertKeyPair(true, ca.endorser, ca.x509Cert, opts...)
	if err != nil {
		return nil, err
	}
	return &CA{CertKeyPair: certKeyPair}, nil
}

// NewClientCertKeyPair 签发一张客户端证书。
func (ca *CA) NewClientCertKeyPair(opts ...Option) (*CertKeyPair, error) {
	return newCertKeyPair(false, ca.endorser, ca.x509Cert, opts...)
}

// NewServerCertKeyPair 签发一张服务端证书，hosts 中的 IP 地址与域名会写入 SubjectAltName。
func (ca *CA) NewServerCertKeyPair(hosts ...string) (*CertKeyPair, error) {
	return ca.NewCertKeyPair(WithHosts(hosts...), WithExtKeyUsage(x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth))
}

// NewCertKeyPair 签发一张终端实体证书，证书内容完全由 opts 决定。
func (ca *CA) NewCertKeyPair(opts ...Option) (*CertKeyPair, error) {
	return newCertKeyPair(false, ca.endorser, ca.x509Cert, opts...)
}

// Endorser 返回该 CA 的签名私钥。
func (ca *CA) Endorser() crypto.Signer {
	return ca.endorser
}
