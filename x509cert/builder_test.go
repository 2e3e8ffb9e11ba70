package x509cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/asn1"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/11090815/x509cert/oids"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidECDSAWithSHA256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	oidSHA256WithRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	oidUnknownExt      = asn1.ObjectIdentifier{1, 2, 3, 4}
)

var (
	testSPKIOnce sync.Once
	testSPKI     []byte
)

// spki 返回一个固定的 P-256 公钥的 SubjectPublicKeyInfo。
func spki(t *testing.T) []byte {
	testSPKIOnce.Do(func() {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		testSPKI, err = x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)
	})
	return testSPKI
}

type attr struct {
	oid   asn1.ObjectIdentifier
	value string
	tag   cbasn1.Tag
}

func cn(value string) attr {
	return attr{oid: oids.CommonName, value: value}
}

func org(value string) attr {
	return attr{oid: oids.Organization, value: value}
}

type ext struct {
	oid      asn1.ObjectIdentifier
	critical bool
	value    []byte
}

// certTemplate 描述一张手工构造的证书，用于产生标准库无法生成的畸形输入。
type certTemplate struct {
	version     *int64
	bigVersion  *big.Int
	serial      *big.Int
	innerAlg    asn1.ObjectIdentifier
	innerParams []byte
	outerAlg    asn1.ObjectIdentifier
	outerParams []byte
	issuer      []attr
	subject     []attr
	notBefore   time.Time
	notAfter    time.Time
	spki        []byte
	issuerUID   []byte
	subjectUID  []byte
	hasExts     bool
	exts        []ext
	tbsTrailing []byte
	signature   []byte
}

func newTemplate(t *testing.T) *certTemplate {
	v3 := int64(2)
	return &certTemplate{
		version:   &v3,
		serial:    big.NewInt(0x1234),
		innerAlg:  oidECDSAWithSHA256,
		outerAlg:  oidECDSAWithSHA256,
		issuer:    []attr{cn("Test CA"), org("Example")},
		subject:   []attr{cn("leaf.example.com"), org("Example")},
		notBefore: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		notAfter:  time.Date(2033, 1, 2, 3, 4, 5, 0, time.UTC),
		spki:      spki(t),
		signature: []byte{0x01, 0x02, 0x03, 0x04},
	}
}

func (ct *certTemplate) withExtensions(exts ...ext) *certTemplate {
	ct.hasExts = true
	ct.exts = append(ct.exts, exts...)
	return ct
}

func (ct *certTemplate) withVersion(v int64) *certTemplate {
	ct.version = &v
	return ct
}

func (ct *certTemplate) withoutVersion() *certTemplate {
	ct.version = nil
	return ct
}

func addAlgorithm(b *cryptobyte.Builder, oid asn1.ObjectIdentifier, params []byte) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(oid)
		if params != nil {
			b.AddBytes(params)
		}
	})
}

func addName(b *cryptobyte.Builder, attrs []attr) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, a := range attrs {
			a := a
			b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(a.oid)
					tag := a.tag
					if tag == 0 {
						tag = cbasn1.UTF8String
					}
					b.AddASN1(tag, func(b *cryptobyte.Builder) {
						b.AddBytes([]byte(a.value))
					})
				})
			})
		}
	})
}

func addImplicitBitString(b *cryptobyte.Builder, tag cbasn1.Tag, data []byte) {
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		b.AddUint8(0)
		b.AddBytes(data)
	})
}

func (ct *certTemplate) tbs() []byte {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		switch {
		case ct.bigVersion != nil:
			b.AddASN1(tagVersion, func(b *cryptobyte.Builder) {
				b.AddASN1BigInt(ct.bigVersion)
			})
		case ct.version != nil:
			b.AddASN1(tagVersion, func(b *cryptobyte.Builder) {
				b.AddASN1Int64(*ct.version)
			})
		}
		b.AddASN1BigInt(ct.serial)
		addAlgorithm(b, ct.innerAlg, ct.innerParams)
		addName(b, ct.issuer)
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1UTCTime(ct.notBefore)
			b.AddASN1GeneralizedTime(ct.notAfter)
		})
		addName(b, ct.subject)
		b.AddBytes(ct.spki)
		if ct.issuerUID != nil {
			addImplicitBitString(b, tagIssuerUID, ct.issuerUID)
		}
		if ct.subjectUID != nil {
			addImplicitBitString(b, tagSubjectUID, ct.subjectUID)
		}
		if ct.hasExts {
			b.AddASN1(tagExtensions, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					for _, e := range ct.exts {
						e := e
						b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
							b.AddASN1ObjectIdentifier(e.oid)
							if e.critical {
								b.AddASN1Boolean(true)
							}
							b.AddASN1OctetString(e.value)
						})
					}
				})
			})
		}
		b.AddBytes(ct.tbsTrailing)
	})
	return b.BytesOrPanic()
}

func (ct *certTemplate) der() []byte {
	tbs := ct.tbs()
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(tbs)
		addAlgorithm(b, ct.outerAlg, ct.outerParams)
		b.AddASN1BitString(ct.signature)
	})
	return b.BytesOrPanic()
}

func (ct *certTemplate) parse(t *testing.T) *Certificate {
	cert, err := Parse(ct.der())
	require.NoError(t, err)
	return cert
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

func build(f func(b *cryptobyte.Builder)) []byte {
	var b cryptobyte.Builder
	f(&b)
	return b.BytesOrPanic()
}

func basicConstraintsExt(isCA bool, pathLen int64) ext {
	return ext{oid: oids.BasicConstraints, critical: true, value: build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			if isCA {
				b.AddASN1Boolean(true)
			}
			if pathLen >= 0 {
				b.AddASN1Int64(pathLen)
			}
		})
	})}
}

// keyUsageExt 按照 DER 的要求去掉末尾的零比特。
func keyUsageExt(bits ...int) ext {
	highest := -1
	var raw [2]byte
	for _, bit := range bits {
		raw[bit/8] |= 0x80 >> uint(bit%8)
		if bit > highest {
			highest = bit
		}
	}
	return ext{oid: oids.KeyUsage, critical: true, value: build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.BIT_STRING, func(b *cryptobyte.Builder) {
			if highest < 0 {
				b.AddUint8(0)
				return
			}
			b.AddUint8(uint8(7 - highest%8))
			b.AddBytes(raw[:highest/8+1])
		})
	})}
}

func generalNames(add func(b *cryptobyte.Builder)) []byte {
	return build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, add)
	})
}

func addGeneralName(b *cryptobyte.Builder, tag cbasn1.Tag, value []byte) {
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		b.AddBytes(value)
	})
}

func sanDNSExt(names ...string) ext {
	return ext{oid: oids.SubjectAltName, value: generalNames(func(b *cryptobyte.Builder) {
		for _, name := range names {
			addGeneralName(b, tagGeneralDNS, []byte(name))
		}
	})}
}

func oidSequenceExt(id asn1.ObjectIdentifier, members ...asn1.ObjectIdentifier) ext {
	return ext{oid: id, value: build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, m := range members {
				if id.Equal(oids.CertificatePolicies) {
					m := m
					b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1ObjectIdentifier(m)
					})
					continue
				}
				b.AddASN1ObjectIdentifier(m)
			}
		})
	})}
}

func keyIDExts(aki, ski []byte) []ext {
	return []ext{
		{oid: oids.AuthorityKeyIdentifier, value: build(func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				addGeneralName(b, tagImplicit0, aki)
			})
		})},
		{oid: oids.SubjectKeyIdentifier, value: build(func(b *cryptobyte.Builder) {
			b.AddASN1OctetString(ski)
		})},
	}
}
