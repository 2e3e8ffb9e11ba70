// Package x509cert 解码 DER 或 PEM 编码的 X.509 证书，并把证书中的信息整理成主体与颁发者两个只读的事实库，
// 证书的各项属性（版本、有效期、密钥用途、是否为 CA 等）都是这两个事实库上的投影。
//
// 该包不负责签名验证、证书链构建以及吊销检查。
package x509cert

import (
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/11090815/x509cert/bccsp"
	"github.com/11090815/x509cert/common/hlogging"
	"github.com/11090815/x509cert/common/metrics"
	"github.com/11090815/x509cert/common/metrics/disabled"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var logger = hlogging.MustGetLogger("x509cert")

// Options 控制解码器的行为。
type Options struct {
	// Strict 为 true 时，v1 证书中出现 unique identifier、v1/v2 证书中出现扩展都会导致解码失败。
	Strict bool
}

type Decoder struct {
	opts    Options
	csp     bccsp.BCCSP
	metrics *Metrics
}

// NewDecoder 创建一个解码器，provider 为 nil 时不采集指标。
func NewDecoder(opts Options, provider metrics.Provider) *Decoder {
	if provider == nil {
		provider = &disabled.Provider{}
	}
	return &Decoder{
		opts:    opts,
		csp:     bccsp.Default(),
		metrics: NewMetrics(provider),
	}
}

var defaultDecoder = NewDecoder(Options{}, nil)

// Parse 解码一张 DER 编码的证书。
func Parse(der []byte) (*Certificate, error) {
	return defaultDecoder.decodeDER(der)
}

// ParsePEM 解码一张 PEM 编码的证书，PEM 块的类型必须是 "CERTIFICATE" 或 "X509 CERTIFICATE"。
func ParsePEM(data []byte) (*Certificate, error) {
	der, err := pemToDER(data)
	if err != nil {
		defaultDecoder.observe(time.Now(), err)
		return nil, err
	}
	return defaultDecoder.decodeDER(der)
}

// Load 自动识别 DER 与 PEM 编码。
func Load(data []byte) (*Certificate, error) {
	return defaultDecoder.Decode(data)
}

// LoadBundle 解码一个 PEM 文件中的所有证书，输入是 DER 编码时只包含一张证书。
func LoadBundle(data []byte) ([]*Certificate, error) {
	return defaultDecoder.DecodeBundle(data)
}

// Decode 自动识别 DER 与 PEM 编码并解码证书。解码失败时返回 nil 以及具体的错误，所有解码错误都实现了 vars.DecodingFault。
func (d *Decoder) Decode(data []byte) (*Certificate, error) {
	der := data
	if isPEM(data) {
		var err error
		if der, err = pemToDER(data); err != nil {
			d.observe(time.Now(), err)
			return nil, err
		}
	}
	return d.decodeDER(der)
}

func (d *Decoder) DecodeBundle(data []byte) ([]*Certificate, error) {
	if !isPEM(data) {
		cert, err := d.decodeDER(data)
		if err != nil {
			return nil, err
		}
		return []*Certificate{cert}, nil
	}

	ders, err := splitPEMBundle(data)
	if err != nil {
		d.observe(time.Now(), err)
		return nil, err
	}
	certs := make([]*Certificate, 0, len(ders))
	for i, der := range ders {
		cert, err := d.decodeDER(der)
		if err != nil {
			return nil, fmt.Errorf("certificate #%d in bundle: %w", i, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

func (d *Decoder) decodeDER(der []byte) (*Certificate, error) {
	start := time.Now()
	cert, err := d.parse(der)
	d.observe(start, err)
	if err != nil {
		logger.Warnf("Failed decoding certificate: %s.", err)
		return nil, err
	}
	logger.Debugf("Decoded certificate [%s], version %d, serial [%X].", cert.SubjectDN(), cert.Version(), cert.SerialNumber())
	return cert, nil
}

func (d *Decoder) observe(start time.Time, err error) {
	d.metrics.DecodeTotal.With("outcome", outcomeOf(err)).Add(1)
	d.metrics.DecodeDuration.Observe(time.Since(start).Seconds())
}

// parse 解码 Certificate ::= SEQUENCE { tbsCertificate, signatureAlgorithm, signatureValue }。
func (d *Decoder) parse(der []byte) (*Certificate, error) {
	input := cryptobyte.String(der)
	var outer cryptobyte.String
	if err := readASN1(&input, &outer, cbasn1.SEQUENCE, "certificate"); err != nil {
		return nil, err
	}
	if err := expectEnd(input, "certificate"); err != nil {
		return nil, err
	}

	var tbs cryptobyte.String
	if err := readASN1Element(&outer, &tbs, cbasn1.SEQUENCE, "tbs certificate"); err != nil {
		return nil, err
	}
	sigAlg, err := readAlgorithmIdentifier(&outer, "signature algorithm")
	if err != nil {
		return nil, err
	}
	var sig asn1.BitString
	if err = readBitString(&outer, &sig, "signature"); err != nil {
		return nil, err
	}
	if err = expectEnd(outer, "certificate"); err != nil {
		return nil, err
	}

	st, err := decodeTBS(tbs, sigAlg, d.opts.Strict)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		raw:        cloneBytes(der),
		tbs:        cloneBytes(tbs),
		sigAlg:     sigAlg,
		signature:  sig.RightAlign(),
		selfSigned: st.selfSigned,
		subject:    st.subject,
		issuer:     st.issuer,
		csp:        d.csp,
	}, nil
}
