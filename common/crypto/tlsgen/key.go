package tlsgen

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"net"
	"net/url"
	"time"
)

// CertKeyPair 是一张证书以及与之对应的私钥。
type CertKeyPair struct {
	// cert 是 PEM 编码的证书。
	cert []byte

	// key 是 PEM 编码的 PKCS#8 私钥。
	key []byte

	// endorser 是证书中公钥对应的私钥，由它签发的下级证书可以用这张证书验证。
	endorser crypto.Signer

	x509Cert *x509.Certificate
}

// CertDER 返回证书的 ASN.1 DER 编码。
func (ckp *CertKeyPair) CertDER() []byte {
	raw := make([]byte, len(ckp.x509Cert.Raw))
	copy(raw, ckp.x509Cert.Raw)
	return raw
}

// CertPEM 返回证书的 PEM 编码。
func (ckp *CertKeyPair) CertPEM() []byte {
	pem := make([]byte, len(ckp.cert))
	copy(pem, ckp.cert)
	return pem
}

func (ckp *CertKeyPair) PrivateKeyPEM() []byte {
	pem := make([]byte, len(ckp.key))
	copy(pem, ckp.key)
	return pem
}

func (ckp *CertKeyPair) Signer() crypto.Signer {
	return ckp.endorser
}

// X509Cert 返回标准库解析得到的证书，测试中用于与其他解码结果做对照。
func (ckp *CertKeyPair) X509Cert() *x509.Certificate {
	return ckp.x509Cert
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// KeyType 决定新生成的证书使用哪一种密钥。
type KeyType int

const (
	ECDSAP256 KeyType = iota
	ECDSAP384
	Ed25519
)

type config struct {
	template x509.Certificate
	keyType  KeyType
	noSKI    bool
}

// Option 用于定制证书模板。
type Option func(*config)

func WithKeyType(kt KeyType) Option {
	return func(c *config) { c.keyType = kt }
}

func WithSubject(name pkix.Name) Option {
	return func(c *config) { c.template.Subject = name }
}

// WithCommonName 只修改主体的 CommonName。
func WithCommonName(cn string) Option {
	return func(c *config) { c.template.Subject.CommonName = cn }
}

// WithHosts 把 IP 形式的主机名写入 IPAddresses，其余写入 DNSNames。
func WithHosts(hosts ...string) Option {
	return func(c *config) {
		for _, host := range hosts {
			if ip := net.ParseIP(host); ip != nil {
				c.template.IPAddresses = append(c.template.IPAddresses, ip)
			} else {
				c.template.DNSNames = append(c.template.DNSNames, host)
			}
		}
	}
}

func WithEmails(emails ...string) Option {
	return func(c *config) { c.template.EmailAddresses = append(c.template.EmailAddresses, emails...) }
}

func WithURIs(uris ...*url.URL) Option {
	return func(c *config) { c.template.URIs = append(c.template.URIs, uris...) }
}

// WithKeyUsage 覆盖默认的密钥用途，传入 0 表示证书不包含 KeyUsage 扩展。
func WithKeyUsage(usage x509.KeyUsage) Option {
	return func(c *config) { c.template.KeyUsage = usage }
}

func WithExtKeyUsage(usages ...x509.ExtKeyUsage) Option {
	return func(c *config) { c.template.ExtKeyUsage = usages }
}

func WithUnknownExtKeyUsage(oids ...asn1.ObjectIdentifier) Option {
	return func(c *config) { c.template.UnknownExtKeyUsage = oids }
}

func WithPolicies(oids ...asn1.ObjectIdentifier) Option {
	return func(c *config) { c.template.PolicyIdentifiers = oids }
}

// WithMaxPathLen 为 CA 证书设置路径长度限制，n 为 0 时也会被写入证书。
func WithMaxPathLen(n int) Option {
	return func(c *config) {
		c.template.MaxPathLen = n
		c.template.MaxPathLenZero = n == 0
	}
}

func WithValidity(notBefore, notAfter time.Time) Option {
	return func(c *config) {
		c.template.NotBefore = notBefore
		c.template.NotAfter = notAfter
	}
}

func WithSerialNumber(serial *big.Int) Option {
	return func(c *config) { c.template.SerialNumber = serial }
}

func WithOCSPServers(servers ...string) Option {
	return func(c *config) { c.template.OCSPServer = servers }
}

func WithIssuingCertificateURLs(urls ...string) Option {
	return func(c *config) { c.template.IssuingCertificateURL = urls }
}

func WithCRLDistributionPoints(urls ...string) Option {
	return func(c *config) { c.template.CRLDistributionPoints = urls }
}

func WithExtraExtensions(exts ...pkix.Extension) Option {
	return func(c *config) { c.template.ExtraExtensions = append(c.template.ExtraExtensions, exts...) }
}

// WithoutSubjectKeyID 让生成的证书不包含 SubjectKeyIdentifier 扩展（只对非 CA 证书有效，标准库会为 CA 证书自动生成该扩展）。
func WithoutSubjectKeyID() Option {
	return func(c *config) { c.noSKI = true }
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

func newCertKeyPair(isCA bool, certSigner crypto.Signer, parent *x509.Certificate, opts ...Option) (*CertKeyPair, error) {
	template, err := newCertTemplate()
	if err != nil {
		return nil, err
	}
	cfg := &config{template: template}

	if isCA {
		cfg.template.NotAfter = time.Now().Add(time.Hour * 24 * 365 * 10)
		cfg.template.IsCA = true
		cfg.template.KeyUsage |= x509.KeyUsageCertSign | x509.KeyUsageCRLSign
		cfg.template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth}
		cfg.template.BasicConstraintsValid = true
	} else {
		cfg.template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	privateKey, publicKey, privateKeyBytes, err := newPrivateKey(cfg.keyType)
	if err != nil {
		return nil, err
	}

	if !cfg.noSKI {
		publicKeyBytes, err := x509.MarshalPKIXPublicKey(publicKey)
		if err != nil {
			return nil, err
		}
		digest := sha256.Sum256(publicKeyBytes)
		cfg.template.SubjectKeyId = digest[:]
	}

	if parent == nil || certSigner == nil {
		// 自签名证书
		parent = &cfg.template
		certSigner = privateKey
	}

	raw, err := x509.CreateCertificate(rand.Reader, &cfg.template, parent, publicKey, certSigner)
	if err != nil {
		return nil, err
	}

	x509Cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, err
	}

	return &CertKeyPair{
		cert:     pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: raw}),
		key:      pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateKeyBytes}),
		endorser: privateKey,
		x509Cert: x509Cert,
	}, nil
}

func newCertTemplate() (x509.Certificate, error) {
	serialNum, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return x509.Certificate{}, err
	}

	return x509.Certificate{
		Subject:      pkix.Name{SerialNumber: serialNum.String()},
		NotBefore:    time.Now().Add(time.Hour * (-24)).Truncate(time.Second),
		NotAfter:     time.Now().Add(time.Hour * 24).Truncate(time.Second),
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		SerialNumber: serialNum,
	}, nil
}

// newPrivateKey 生成指定类型的私钥，并将其编码成 PKCS#8 ASN.1 DER 格式。
func newPrivateKey(kt KeyType) (crypto.Signer, crypto.PublicKey, []byte, error) {
	var (
		signer crypto.Signer
		err    error
	)
	switch kt {
	case ECDSAP384:
		signer, err = ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case Ed25519:
		_, signer, err = ed25519.GenerateKey(rand.Reader)
	default:
		signer, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(signer)
	if err != nil {
		return nil, nil, nil, err
	}
	return signer, signer.Public(), privateKeyBytes, nil
}
