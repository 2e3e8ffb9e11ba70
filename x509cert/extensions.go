package x509cert

import (
	"encoding/asn1"
	"math"
	"net"

	"github.com/11090815/x509cert/attrstore"
	"github.com/11090815/x509cert/oids"
	"github.com/11090815/x509cert/vars"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// NoCertPathLimit 表示 CA 证书没有路径长度限制。
const NoCertPathLimit uint64 = 0xFFFFFFF0

// 事实库中使用的键。
const (
	keyVersion        = "X509.Certificate.version"
	keySerial         = "X509.Certificate.serial"
	keyStart          = "X509.Certificate.start"
	keyEnd            = "X509.Certificate.end"
	keyV2KeyID        = "X509.Certificate.v2.key_id"
	keyPublicKey      = "X509.Certificate.public_key"
	keyIsCA           = "X509v3.BasicConstraints.is_ca"
	keyPathConstraint = "X509v3.BasicConstraints.path_constraint"
	keyKeyUsage       = "X509v3.KeyUsage"
	keyExtKeyUsage    = "X509v3.ExtendedKeyUsage"
	keyPolicies       = "X509v3.CertificatePolicies"
	keyAuthorityKeyID = "X509v3.AuthorityKeyIdentifier"
	keySubjectKeyID   = "X509v3.SubjectKeyIdentifier"
	keyOCSPResponder  = "OCSP.responder"
	keyCAIssuers      = "PKIX.CAIssuers"
	keyCRLDistPoint   = "CRL.DistributionPoint"
)

var (
	tagGeneralOtherName  = cbasn1.Tag(0).ContextSpecific().Constructed()
	tagGeneralRFC822     = cbasn1.Tag(1).ContextSpecific()
	tagGeneralDNS        = cbasn1.Tag(2).ContextSpecific()
	tagGeneralURI        = cbasn1.Tag(6).ContextSpecific()
	tagGeneralIP         = cbasn1.Tag(7).ContextSpecific()
	tagExplicit0         = cbasn1.Tag(0).ContextSpecific().Constructed()
	tagImplicit0         = cbasn1.Tag(0).ContextSpecific()
	tagAKIIssuer         = cbasn1.Tag(1).ContextSpecific().Constructed()
	tagAKISerial         = cbasn1.Tag(2).ContextSpecific()
	tagDistPointFullName = cbasn1.Tag(0).ContextSpecific().Constructed()
)

// extensionDecoder 解析一个扩展的 extnValue（OCTET STRING 的内容），把得到的事实写入主体或颁发者的事实库。
type extensionDecoder func(value cryptobyte.String, subject, issuer *attrstore.Store) error

var extensionDecoders = map[string]extensionDecoder{
	oids.BasicConstraints.String():       decodeBasicConstraints,
	oids.KeyUsage.String():               decodeKeyUsage,
	oids.ExtendedKeyUsage.String():       decodeExtendedKeyUsage,
	oids.CertificatePolicies.String():    decodeCertificatePolicies,
	oids.SubjectAltName.String():         decodeSubjectAltName,
	oids.IssuerAltName.String():          decodeIssuerAltName,
	oids.AuthorityKeyIdentifier.String(): decodeAuthorityKeyID,
	oids.SubjectKeyIdentifier.String():   decodeSubjectKeyID,
	oids.AuthorityInfoAccess.String():    decodeAuthorityInfoAccess,
	oids.CRLDistributionPoints.String():  decodeCRLDistributionPoints,
}

// extension 是证书中的一个扩展项。
type extension struct {
	id       asn1.ObjectIdentifier
	critical bool
	value    cryptobyte.String
}

// decodeExtensions 解析 Extensions（SEQUENCE OF Extension），并把每个已知扩展交给对应的解码器处理。
func decodeExtensions(der cryptobyte.String, subject, issuer *attrstore.Store) error {
	var seq cryptobyte.String
	if err := readASN1(&der, &seq, cbasn1.SEQUENCE, "extensions"); err != nil {
		return err
	}
	if err := expectEnd(der, "extensions"); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for !seq.Empty() {
		ext, err := readExtension(&seq)
		if err != nil {
			return err
		}

		id := ext.id.String()
		if _, ok := seen[id]; ok {
			return vars.ErrorDuplicateExtension{OID: id}
		}
		seen[id] = struct{}{}

		decode, ok := extensionDecoders[id]
		if !ok {
			if ext.critical {
				return vars.ErrorUnknownCriticalExtension{OID: id}
			}
			logger.Debugf("Skipping unknown non-critical extension %s.", oids.NameOf(id))
			continue
		}
		if err := decode(ext.value, subject, issuer); err != nil {
			return err
		}
	}
	return nil
}

func readExtension(s *cryptobyte.String) (extension, error) {
	ext := extension{}
	var seq cryptobyte.String
	if err := readASN1(s, &seq, cbasn1.SEQUENCE, "extension"); err != nil {
		return ext, err
	}
	if err := readOID(&seq, &ext.id, "extension id"); err != nil {
		return ext, err
	}
	if seq.PeekASN1Tag(cbasn1.BOOLEAN) {
		if err := readBoolean(&seq, &ext.critical, "extension critical flag"); err != nil {
			return ext, err
		}
	}
	field := oids.Name(ext.id)
	if err := readASN1(&seq, &ext.value, cbasn1.OCTET_STRING, field); err != nil {
		return ext, err
	}
	if err := expectEnd(seq, field); err != nil {
		return ext, err
	}
	return ext, nil
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// decodeBasicConstraints 解析 BasicConstraints。非 CA 证书的路径长度被记为 0，没有给出长度的 CA 证书被记为 NoCertPathLimit。
func decodeBasicConstraints(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.BasicConstraints"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}

	isCA := false
	if seq.PeekASN1Tag(cbasn1.BOOLEAN) {
		if err := readBoolean(&seq, &isCA, field+" cA"); err != nil {
			return err
		}
	}
	pathLimit := NoCertPathLimit
	if seq.PeekASN1Tag(cbasn1.INTEGER) {
		if err := readUint(&seq, &pathLimit, field+" pathLenConstraint"); err != nil {
			return err
		}
		if pathLimit > math.MaxUint32 {
			return vars.ErrorMalformed{Field: field + " pathLenConstraint", Reason: "value out of range"}
		}
	}
	if err := expectEnd(seq, field); err != nil {
		return err
	}

	if !isCA {
		pathLimit = 0
	}
	if err := subject.AddUint(keyIsCA, boolToUint(isCA)); err != nil {
		return err
	}
	return subject.AddUint(keyPathConstraint, pathLimit)
}

// decodeKeyUsage 把 KeyUsage 的第 i 个比特映射为 0x8000>>i，与 KeyConstraints 中各常量的取值一致。
func decodeKeyUsage(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.KeyUsage"
	var bits asn1.BitString
	if err := readBitString(&value, &bits, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}

	var usage uint64
	for i := 0; i < bits.BitLength && i < 16; i++ {
		if bits.At(i) == 1 {
			usage |= 0x8000 >> uint(i)
		}
	}
	if usage == 0 {
		return vars.ErrorMalformed{Field: field, Reason: "no key usage bits set"}
	}
	return subject.AddUint(keyKeyUsage, usage)
}

func decodeExtendedKeyUsage(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.ExtendedKeyUsage"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}
	for !seq.Empty() {
		var id asn1.ObjectIdentifier
		if err := readOID(&seq, &id, field); err != nil {
			return err
		}
		if err := subject.AddString(keyExtKeyUsage, id.String()); err != nil {
			return err
		}
	}
	return nil
}

// decodeCertificatePolicies 只记录策略标识符，策略限定符被忽略。
func decodeCertificatePolicies(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.CertificatePolicies"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}
	for !seq.Empty() {
		var info cryptobyte.String
		if err := readASN1(&seq, &info, cbasn1.SEQUENCE, field+" policy information"); err != nil {
			return err
		}
		var id asn1.ObjectIdentifier
		if err := readOID(&info, &id, field+" policy identifier"); err != nil {
			return err
		}
		if !info.Empty() {
			var qualifiers cryptobyte.String
			if err := readASN1(&info, &qualifiers, cbasn1.SEQUENCE, field+" policy qualifiers"); err != nil {
				return err
			}
		}
		if err := expectEnd(info, field+" policy information"); err != nil {
			return err
		}
		if err := subject.AddString(keyPolicies, id.String()); err != nil {
			return err
		}
	}
	return nil
}

func decodeSubjectAltName(value cryptobyte.String, subject, _ *attrstore.Store) error {
	return decodeAltName(value, "X509v3.SubjectAlternativeName", subject)
}

func decodeIssuerAltName(value cryptobyte.String, _, issuer *attrstore.Store) error {
	return decodeAltName(value, "X509v3.IssuerAlternativeName", issuer)
}

func decodeAltName(value cryptobyte.String, field string, store *attrstore.Store) error {
	var names cryptobyte.String
	if err := readASN1(&value, &names, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}
	return readGeneralNames(names, field, store)
}

// readGeneralNames 解析 GeneralNames 的内容，能够识别的名称写入 store。
func readGeneralNames(names cryptobyte.String, field string, store *attrstore.Store) error {
	for !names.Empty() {
		key, val, err := readGeneralName(&names, field)
		if err != nil {
			return err
		}
		if key == "" {
			continue
		}
		if err := store.AddString(key, val); err != nil {
			return err
		}
	}
	return nil
}

// readGeneralName 读取一个 GeneralName。返回的 key 为空表示该名称的类型不被记录。
func readGeneralName(s *cryptobyte.String, field string) (key, value string, err error) {
	orig := *s
	var content cryptobyte.String
	var tag cbasn1.Tag
	if !s.ReadAnyASN1(&content, &tag) {
		return "", "", tagFault(orig, tagGeneralDNS, field+" general name")
	}

	switch tag {
	case tagGeneralRFC822, tagGeneralDNS, tagGeneralURI:
		str := string(content)
		if err := isIA5String(str); err != nil {
			return "", "", vars.ErrorMalformed{Field: field, Reason: err.Error()}
		}
		switch tag {
		case tagGeneralRFC822:
			return "RFC822", str, nil
		case tagGeneralDNS:
			return "DNS", str, nil
		default:
			return "URI", str, nil
		}
	case tagGeneralIP:
		if len(content) != net.IPv4len && len(content) != net.IPv6len {
			return "", "", vars.ErrorMalformed{Field: field, Reason: "invalid IP address length"}
		}
		return "IP", net.IP(content).String(), nil
	case tagGeneralOtherName:
		return readOtherName(content, field)
	}
	return "", "", nil
}

// readOtherName 解析 OtherName，只有值为字符串类型时才会被记录，键为类型标识符的名称，例如 "PKIX.XMPPAddr"。
func readOtherName(content cryptobyte.String, field string) (string, string, error) {
	var id asn1.ObjectIdentifier
	if err := readOID(&content, &id, field+" other name type"); err != nil {
		return "", "", err
	}
	var explicit cryptobyte.String
	if err := readASN1(&content, &explicit, tagExplicit0, field+" other name value"); err != nil {
		return "", "", err
	}
	if err := expectEnd(content, field+" other name"); err != nil {
		return "", "", err
	}

	var (
		tag     cbasn1.Tag
		skipped cryptobyte.String
	)
	peek := explicit
	if !peek.ReadAnyASN1(&skipped, &tag) || !isStringTag(tag) {
		return "", "", nil
	}
	str, err := readDirectoryString(&explicit, field+" other name value")
	if err != nil {
		return "", "", err
	}
	if err := expectEnd(explicit, field+" other name value"); err != nil {
		return "", "", err
	}
	return oids.Name(id), str, nil
}

// decodeAuthorityKeyID 只记录 keyIdentifier，authorityCertIssuer 和 authorityCertSerialNumber 被忽略。
func decodeAuthorityKeyID(value cryptobyte.String, _, issuer *attrstore.Store) error {
	const field = "X509v3.AuthorityKeyIdentifier"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}

	var keyID cryptobyte.String
	if seq.PeekASN1Tag(tagImplicit0) {
		if err := readASN1(&seq, &keyID, tagImplicit0, field+" keyIdentifier"); err != nil {
			return err
		}
	}
	for _, t := range []cbasn1.Tag{tagAKIIssuer, tagAKISerial} {
		if seq.PeekASN1Tag(t) {
			var skipped cryptobyte.String
			if err := readASN1(&seq, &skipped, t, field); err != nil {
				return err
			}
		}
	}
	if err := expectEnd(seq, field); err != nil {
		return err
	}

	if len(keyID) == 0 {
		return nil
	}
	return issuer.AddBytes(keyAuthorityKeyID, keyID)
}

func decodeSubjectKeyID(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.SubjectKeyIdentifier"
	var keyID cryptobyte.String
	if err := readASN1(&value, &keyID, cbasn1.OCTET_STRING, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}
	return subject.AddBytes(keySubjectKeyID, keyID)
}

// decodeAuthorityInfoAccess 记录 OCSP 服务地址与颁发者证书的获取地址，只接受 URI 形式的位置。
func decodeAuthorityInfoAccess(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "PKIX.AuthorityInformationAccess"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}

	for !seq.Empty() {
		var desc cryptobyte.String
		if err := readASN1(&seq, &desc, cbasn1.SEQUENCE, field+" access description"); err != nil {
			return err
		}
		var method asn1.ObjectIdentifier
		if err := readOID(&desc, &method, field+" access method"); err != nil {
			return err
		}
		key, location, err := readGeneralName(&desc, field+" access location")
		if err != nil {
			return err
		}
		if err := expectEnd(desc, field+" access description"); err != nil {
			return err
		}
		if key != "URI" {
			continue
		}

		switch {
		case method.Equal(oids.OCSP):
			err = subject.AddString(keyOCSPResponder, location)
		case method.Equal(oids.CAIssuers):
			err = subject.AddString(keyCAIssuers, location)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeCRLDistributionPoints 只记录 distributionPoint 中 fullName 给出的 URI。
func decodeCRLDistributionPoints(value cryptobyte.String, subject, _ *attrstore.Store) error {
	const field = "X509v3.CRLDistributionPoints"
	var seq cryptobyte.String
	if err := readASN1(&value, &seq, cbasn1.SEQUENCE, field); err != nil {
		return err
	}
	if err := expectEnd(value, field); err != nil {
		return err
	}

	for !seq.Empty() {
		var point cryptobyte.String
		if err := readASN1(&seq, &point, cbasn1.SEQUENCE, field+" distribution point"); err != nil {
			return err
		}
		if !point.PeekASN1Tag(tagExplicit0) {
			continue
		}
		var name cryptobyte.String
		if err := readASN1(&point, &name, tagExplicit0, field+" distribution point name"); err != nil {
			return err
		}
		if !name.PeekASN1Tag(tagDistPointFullName) {
			continue
		}
		var fullName cryptobyte.String
		if err := readASN1(&name, &fullName, tagDistPointFullName, field+" full name"); err != nil {
			return err
		}
		for !fullName.Empty() {
			key, uri, err := readGeneralName(&fullName, field+" full name")
			if err != nil {
				return err
			}
			if key != "URI" {
				continue
			}
			if err := subject.AddString(keyCRLDistPoint, uri); err != nil {
				return err
			}
		}
	}
	return nil
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
