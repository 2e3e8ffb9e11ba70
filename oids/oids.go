// Package oids 维护对象标识符与可读名称之间的双向映射表。查不到的标识符与名称会原样返回。
package oids

import (
	"encoding/asn1"
	"sync"
)

// 目录属性与 PKCS#9 属性。
var (
	CommonName          = asn1.ObjectIdentifier{2, 5, 4, 3}
	Surname             = asn1.ObjectIdentifier{2, 5, 4, 4}
	SerialNumber        = asn1.ObjectIdentifier{2, 5, 4, 5}
	Country             = asn1.ObjectIdentifier{2, 5, 4, 6}
	Locality            = asn1.ObjectIdentifier{2, 5, 4, 7}
	State               = asn1.ObjectIdentifier{2, 5, 4, 8}
	StreetAddress       = asn1.ObjectIdentifier{2, 5, 4, 9}
	Organization        = asn1.ObjectIdentifier{2, 5, 4, 10}
	OrganizationalUnit  = asn1.ObjectIdentifier{2, 5, 4, 11}
	Title               = asn1.ObjectIdentifier{2, 5, 4, 12}
	PostalCode          = asn1.ObjectIdentifier{2, 5, 4, 17}
	GivenName           = asn1.ObjectIdentifier{2, 5, 4, 42}
	Initials            = asn1.ObjectIdentifier{2, 5, 4, 43}
	GenerationQualifier = asn1.ObjectIdentifier{2, 5, 4, 44}
	DNQualifier         = asn1.ObjectIdentifier{2, 5, 4, 46}
	Pseudonym           = asn1.ObjectIdentifier{2, 5, 4, 65}
	DomainComponent     = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}
	EmailAddress        = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
)

// 证书扩展。
var (
	SubjectKeyIdentifier   = asn1.ObjectIdentifier{2, 5, 29, 14}
	KeyUsage               = asn1.ObjectIdentifier{2, 5, 29, 15}
	SubjectAltName         = asn1.ObjectIdentifier{2, 5, 29, 17}
	IssuerAltName          = asn1.ObjectIdentifier{2, 5, 29, 18}
	BasicConstraints       = asn1.ObjectIdentifier{2, 5, 29, 19}
	NameConstraints        = asn1.ObjectIdentifier{2, 5, 29, 30}
	CRLDistributionPoints  = asn1.ObjectIdentifier{2, 5, 29, 31}
	CertificatePolicies    = asn1.ObjectIdentifier{2, 5, 29, 32}
	AnyPolicy              = asn1.ObjectIdentifier{2, 5, 29, 32, 0}
	AuthorityKeyIdentifier = asn1.ObjectIdentifier{2, 5, 29, 35}
	PolicyConstraints      = asn1.ObjectIdentifier{2, 5, 29, 36}
	ExtendedKeyUsage       = asn1.ObjectIdentifier{2, 5, 29, 37}
	AuthorityInfoAccess    = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
)

// PKIX 访问方法与其他名称。
var (
	OCSP      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1}
	CAIssuers = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
	XMPPAddr  = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 8, 5}
)

type entry struct {
	oid  string
	name string
}

var table = []entry{
	{"2.5.4.3", "X520.CommonName"},
	{"2.5.4.4", "X520.Surname"},
	{"2.5.4.5", "X520.SerialNumber"},
	{"2.5.4.6", "X520.Country"},
	{"2.5.4.7", "X520.Locality"},
	{"2.5.4.8", "X520.State"},
	{"2.5.4.9", "X520.StreetAddress"},
	{"2.5.4.10", "X520.Organization"},
	{"2.5.4.11", "X520.OrganizationalUnit"},
	{"2.5.4.12", "X520.Title"},
	{"2.5.4.17", "X520.PostalCode"},
	{"2.5.4.42", "X520.GivenName"},
	{"2.5.4.43", "X520.Initials"},
	{"2.5.4.44", "X520.GenerationalQualifier"},
	{"2.5.4.46", "X520.DNQualifier"},
	{"2.5.4.65", "X520.Pseudonym"},
	{"0.9.2342.19200300.100.1.25", "X520.DomainComponent"},
	{"1.2.840.113549.1.9.1", "PKCS9.EmailAddress"},

	{"2.5.29.14", "X509v3.SubjectKeyIdentifier"},
	{"2.5.29.15", "X509v3.KeyUsage"},
	{"2.5.29.17", "X509v3.SubjectAlternativeName"},
	{"2.5.29.18", "X509v3.IssuerAlternativeName"},
	{"2.5.29.19", "X509v3.BasicConstraints"},
	{"2.5.29.20", "X509v3.CRLNumber"},
	{"2.5.29.21", "X509v3.ReasonCode"},
	{"2.5.29.30", "X509v3.NameConstraints"},
	{"2.5.29.31", "X509v3.CRLDistributionPoints"},
	{"2.5.29.32", "X509v3.CertificatePolicies"},
	{"2.5.29.32.0", "X509v3.AnyPolicy"},
	{"2.5.29.35", "X509v3.AuthorityKeyIdentifier"},
	{"2.5.29.36", "X509v3.PolicyConstraints"},
	{"2.5.29.37", "X509v3.ExtendedKeyUsage"},
	{"1.3.6.1.5.5.7.1.1", "PKIX.AuthorityInformationAccess"},

	{"1.3.6.1.5.5.7.3.1", "PKIX.ServerAuth"},
	{"1.3.6.1.5.5.7.3.2", "PKIX.ClientAuth"},
	{"1.3.6.1.5.5.7.3.3", "PKIX.CodeSigning"},
	{"1.3.6.1.5.5.7.3.4", "PKIX.EmailProtection"},
	{"1.3.6.1.5.5.7.3.5", "PKIX.IPsecEndSystem"},
	{"1.3.6.1.5.5.7.3.6", "PKIX.IPsecTunnel"},
	{"1.3.6.1.5.5.7.3.7", "PKIX.IPsecUser"},
	{"1.3.6.1.5.5.7.3.8", "PKIX.TimeStamping"},
	{"1.3.6.1.5.5.7.3.9", "PKIX.OCSPSigning"},
	{"2.5.29.37.0", "X509v3.AnyExtendedKeyUsage"},

	{"1.3.6.1.5.5.7.48.1", "PKIX.OCSP"},
	{"1.3.6.1.5.5.7.48.2", "PKIX.CertificateAuthorityIssuers"},
	{"1.3.6.1.5.5.7.8.5", "PKIX.XMPPAddr"},

	{"1.2.840.113549.1.1.1", "RSA"},
	{"1.2.840.10045.2.1", "ECDSA"},
	{"1.2.840.10040.4.1", "DSA"},
	{"1.3.101.110", "X25519"},
	{"1.3.101.112", "Ed25519"},

	{"1.2.840.113549.1.1.4", "RSA/EMSA3(MD5)"},
	{"1.2.840.113549.1.1.5", "RSA/EMSA3(SHA-160)"},
	{"1.2.840.113549.1.1.10", "RSA/EMSA4"},
	{"1.2.840.113549.1.1.11", "RSA/EMSA3(SHA-256)"},
	{"1.2.840.113549.1.1.12", "RSA/EMSA3(SHA-384)"},
	{"1.2.840.113549.1.1.13", "RSA/EMSA3(SHA-512)"},
	{"1.2.840.113549.1.1.14", "RSA/EMSA3(SHA-224)"},
	{"1.2.840.10040.4.3", "DSA/EMSA1(SHA-160)"},
	{"2.16.840.1.101.3.4.3.2", "DSA/EMSA1(SHA-256)"},
	{"1.2.840.10045.4.1", "ECDSA/EMSA1(SHA-160)"},
	{"1.2.840.10045.4.3.1", "ECDSA/EMSA1(SHA-224)"},
	{"1.2.840.10045.4.3.2", "ECDSA/EMSA1(SHA-256)"},
	{"1.2.840.10045.4.3.3", "ECDSA/EMSA1(SHA-384)"},
	{"1.2.840.10045.4.3.4", "ECDSA/EMSA1(SHA-512)"},
}

var (
	once     sync.Once
	oid2name map[string]string
	name2oid map[string]string
)

func load() {
	oid2name = make(map[string]string, len(table))
	name2oid = make(map[string]string, len(table))
	for _, e := range table {
		if _, ok := oid2name[e.oid]; !ok {
			oid2name[e.oid] = e.name
		}
		if _, ok := name2oid[e.name]; !ok {
			name2oid[e.name] = e.oid
		}
	}
}

// NameOf 返回点分形式的 oid 对应的名称，未登记的 oid 原样返回。
func NameOf(oid string) string {
	once.Do(load)
	if name, ok := oid2name[oid]; ok {
		return name
	}
	return oid
}

// Name 与 NameOf 相同，只是参数是 asn1.ObjectIdentifier。
func Name(oid asn1.ObjectIdentifier) string {
	return NameOf(oid.String())
}

// OIDOf 返回名称对应的点分形式的 oid，未登记的名称原样返回。
func OIDOf(name string) string {
	once.Do(load)
	if oid, ok := name2oid[name]; ok {
		return oid
	}
	return name
}

func HaveOID(oid string) bool {
	once.Do(load)
	_, ok := oid2name[oid]
	return ok
}

func HaveName(name string) bool {
	once.Do(load)
	_, ok := name2oid[name]
	return ok
}
