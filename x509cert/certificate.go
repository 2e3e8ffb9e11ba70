package x509cert

import (
	"bytes"
	"encoding/hex"
	"strings"
	"time"

	"github.com/11090815/x509cert/attrstore"
	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/oids"
)

// KeyConstraints 是 KeyUsage 扩展对应的比特掩码。
type KeyConstraints uint64

const (
	NoConstraints    KeyConstraints = 0
	DigitalSignature KeyConstraints = 1 << 15
	NonRepudiation   KeyConstraints = 1 << 14
	KeyEncipherment  KeyConstraints = 1 << 13
	DataEncipherment KeyConstraints = 1 << 12
	KeyAgreement     KeyConstraints = 1 << 11
	KeyCertSign      KeyConstraints = 1 << 10
	CRLSign          KeyConstraints = 1 << 9
	EncipherOnly     KeyConstraints = 1 << 8
	DecipherOnly     KeyConstraints = 1 << 7
)

// Certificate 是一张解码完成的 X.509 证书。证书在构造时一次性完成解码，之后不可修改，可以被多个 goroutine 并发读取。
//
// 除了签名、签名算法和原始字节之外，所有信息都保存在主体和颁发者两个事实库中，访问器只是对事实库的投影。
type Certificate struct {
	raw        []byte
	tbs        []byte
	sigAlg     AlgorithmIdentifier
	signature  []byte
	selfSigned bool
	subject    *attrstore.Store
	issuer     *attrstore.Store
	csp        bccsp.BCCSP
}

// Version 返回证书的版本号 1、2 或 3。
func (c *Certificate) Version() int {
	return int(mustUint(c.subject.Get1Uint(keyVersion, 0))) + 1
}

// StartTime 返回有效期起始时间，格式为 TimeLayout。
func (c *Certificate) StartTime() string {
	return c.get1String(keyStart)
}

func (c *Certificate) EndTime() string {
	return c.get1String(keyEnd)
}

func (c *Certificate) NotBefore() time.Time {
	return mustTime(c.StartTime())
}

func (c *Certificate) NotAfter() time.Time {
	return mustTime(c.EndTime())
}

// ValidAt 判断 t 是否落在证书的有效期内（包含两端）。
func (c *Certificate) ValidAt(t time.Time) bool {
	t = t.UTC().Truncate(time.Second)
	return !t.Before(c.NotBefore()) && !t.After(c.NotAfter())
}

// SubjectInfo 返回主体中指定字段的所有值，字段名可以是 "DNS"、"Email"、"Organization" 这样的别名。
func (c *Certificate) SubjectInfo(what string) []string {
	return c.subject.Get(DerefInfoField(what))
}

func (c *Certificate) IssuerInfo(what string) []string {
	return c.issuer.Get(DerefInfoField(what))
}

// SubjectPublicKey 每次调用都会重新解析公钥，返回的密钥归调用者所有。
func (c *Certificate) SubjectPublicKey() (bccsp.Key, error) {
	return c.csp.KeyImport(c.SubjectPublicKeyDER(), &bccsp.PKIXPublicKeyImportOpts{Temporary: true})
}

// SubjectPublicKeyDER 返回 DER 编码的 SubjectPublicKeyInfo。
func (c *Certificate) SubjectPublicKeyDER() []byte {
	return c.get1Bytes(keyPublicKey)
}

func (c *Certificate) IsCACert() bool {
	return isCA(c.subject)
}

// PathLimit 返回路径长度限制，证书中没有这一信息时返回 0。
func (c *Certificate) PathLimit() uint64 {
	return mustUint(c.subject.Get1Uint(keyPathConstraint, 0))
}

// Constraints 返回 KeyUsage 的比特掩码，没有 KeyUsage 扩展时返回 NoConstraints。
func (c *Certificate) Constraints() KeyConstraints {
	return constraintsOf(c.subject)
}

// ExConstraints 返回扩展密钥用途的名称列表，未登记的用途以点分形式的 OID 给出。
func (c *Certificate) ExConstraints() []string {
	return lookupOIDs(c.subject.Get(keyExtKeyUsage))
}

func (c *Certificate) Policies() []string {
	return lookupOIDs(c.subject.Get(keyPolicies))
}

func (c *Certificate) AuthorityKeyID() []byte {
	return mustBytes(c.issuer.Get1Bytes(keyAuthorityKeyID))
}

func (c *Certificate) SubjectKeyID() []byte {
	return c.get1Bytes(keySubjectKeyID)
}

// SerialNumber 返回序列号的大端字节表示。
func (c *Certificate) SerialNumber() []byte {
	return c.get1Bytes(keySerial)
}

func (c *Certificate) IssuerDN() DistinguishedName {
	return CreateDN(c.issuer)
}

func (c *Certificate) SubjectDN() DistinguishedName {
	return CreateDN(c.subject)
}

func (c *Certificate) SubjectAltName() AlternativeName {
	return CreateAltName(c.subject)
}

func (c *Certificate) IssuerAltName() AlternativeName {
	return CreateAltName(c.issuer)
}

// OCSPResponder 返回 AuthorityInfoAccess 中的第一个 OCSP 服务地址，没有时返回空字符串。
func (c *Certificate) OCSPResponder() string {
	if values := c.subject.Get(keyOCSPResponder); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (c *Certificate) CAIssuers() []string {
	return c.subject.Get(keyCAIssuers)
}

func (c *Certificate) CRLDistributionPoints() []string {
	return c.subject.Get(keyCRLDistPoint)
}

func (c *Certificate) SignatureAlgorithm() AlgorithmIdentifier {
	return AlgorithmIdentifier{
		OID:        append(c.sigAlg.OID[:0:0], c.sigAlg.OID...),
		Parameters: cloneBytes(c.sigAlg.Parameters),
	}
}

func (c *Certificate) Signature() []byte {
	return cloneBytes(c.signature)
}

// TBSData 返回 TBSCertificate 的 DER 编码，也就是被签名的数据。
func (c *Certificate) TBSData() []byte {
	return cloneBytes(c.tbs)
}

func (c *Certificate) Raw() []byte {
	return cloneBytes(c.raw)
}

func (c *Certificate) IsSelfSigned() bool {
	return c.selfSigned
}

// SubjectStore 返回只读的主体事实库，需要按类型读取任意键的调用者可以从中得到 vars.ErrorWrongKind 这类查询错误。
func (c *Certificate) SubjectStore() *attrstore.Store {
	return c.subject
}

func (c *Certificate) IssuerStore() *attrstore.Store {
	return c.issuer
}

// Fingerprint 计算证书 DER 编码的摘要，以冒号分隔的大写十六进制形式返回。
func (c *Certificate) Fingerprint(opts bccsp.HashOpts) (string, error) {
	digest, err := c.csp.Hash(c.raw, opts)
	if err != nil {
		return "", err
	}
	encoded := strings.ToUpper(hex.EncodeToString(digest))
	pairs := make([]string, 0, len(digest))
	for i := 0; i < len(encoded); i += 2 {
		pairs = append(pairs, encoded[i:i+2])
	}
	return strings.Join(pairs, ":"), nil
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

func (c *Certificate) get1String(key string) string {
	if values := c.subject.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (c *Certificate) get1Bytes(key string) []byte {
	return mustBytes(c.subject.Get1Bytes(key))
}

func lookupOIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, oids.NameOf(id))
	}
	return out
}

func mustBytes(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}

func mustTime(s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return bytes.Clone(b)
}
