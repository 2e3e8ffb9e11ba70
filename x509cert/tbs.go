package x509cert

import (
	"encoding/asn1"
	"math/big"
	"time"

	"github.com/11090815/x509cert/attrstore"
	"github.com/11090815/x509cert/vars"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	tagVersion    = cbasn1.Tag(0).ContextSpecific().Constructed()
	tagIssuerUID  = cbasn1.Tag(1).ContextSpecific()
	tagSubjectUID = cbasn1.Tag(2).ContextSpecific()
	tagExtensions = cbasn1.Tag(3).ContextSpecific().Constructed()
)

// tbsState 是 TBSCertificate 解码过程中的中间状态，每个步骤读取 input 的一部分并填写对应的字段。
type tbsState struct {
	input    cryptobyte.String
	outerAlg AlgorithmIdentifier
	strict   bool

	version    uint64
	serial     *big.Int
	issuerDN   DistinguishedName
	subjectDN  DistinguishedName
	notBefore  time.Time
	notAfter   time.Time
	publicKey  []byte
	issuerUID  *asn1.BitString
	subjectUID *asn1.BitString
	extensions cryptobyte.String
	hasExts    bool

	selfSigned bool
	subject    *attrstore.Store
	issuer     *attrstore.Store
}

type tbsStep func(*tbsState) error

// tbsSteps 中的步骤按顺序执行，前一步成功是后一步执行的前提，第一个失败的步骤终止整个解码过程。
var tbsSteps = []tbsStep{
	(*tbsState).readVersion,
	(*tbsState).readSerial,
	(*tbsState).readSignatureAlgorithm,
	(*tbsState).readIssuer,
	(*tbsState).readValidity,
	(*tbsState).readSubject,
	(*tbsState).readPublicKey,
	(*tbsState).readUniqueIDs,
	(*tbsState).readExtensions,
	(*tbsState).expectEnd,
	(*tbsState).absorbExtensions,
	(*tbsState).synthesize,
}

// decodeTBS 解码 TBSCertificate（包含外层 SEQUENCE 的标签与长度），成功时返回的两个事实库已经被冻结。
func decodeTBS(tbs []byte, outerAlg AlgorithmIdentifier, strict bool) (*tbsState, error) {
	input := cryptobyte.String(tbs)
	st := &tbsState{
		outerAlg: outerAlg,
		strict:   strict,
		subject:  attrstore.New(),
		issuer:   attrstore.New(),
	}
	if err := readASN1(&input, &st.input, cbasn1.SEQUENCE, "tbs certificate"); err != nil {
		return nil, err
	}
	if err := expectEnd(input, "tbs certificate"); err != nil {
		return nil, err
	}

	for _, step := range tbsSteps {
		if err := step(st); err != nil {
			return nil, err
		}
	}

	st.subject.Freeze()
	st.issuer.Freeze()
	return st, nil
}

func (st *tbsState) readVersion() error {
	if !st.input.PeekASN1Tag(tagVersion) {
		return nil
	}
	var explicit cryptobyte.String
	if err := readASN1(&st.input, &explicit, tagVersion, "version"); err != nil {
		return err
	}
	version := new(big.Int)
	if err := readBigInt(&explicit, version, "version"); err != nil {
		return err
	}
	if err := expectEnd(explicit, "version"); err != nil {
		return err
	}
	if version.Sign() < 0 || version.Cmp(big.NewInt(2)) > 0 {
		return vars.ErrorUnknownVersion{Version: version.String()}
	}
	st.version = version.Uint64()
	return nil
}

func (st *tbsState) readSerial() error {
	st.serial = new(big.Int)
	return readBigInt(&st.input, st.serial, "serial number")
}

func (st *tbsState) readSignatureAlgorithm() error {
	inner, err := readAlgorithmIdentifier(&st.input, "tbs signature algorithm")
	if err != nil {
		return err
	}
	if !inner.Equal(st.outerAlg) {
		return vars.ErrorAlgorithmMismatch{Inner: inner.String(), Outer: st.outerAlg.String()}
	}
	return nil
}

func (st *tbsState) readIssuer() (err error) {
	st.issuerDN, err = readName(&st.input, "issuer")
	return err
}

func (st *tbsState) readValidity() (err error) {
	var validity cryptobyte.String
	if err = readASN1(&st.input, &validity, cbasn1.SEQUENCE, "validity"); err != nil {
		return err
	}
	if st.notBefore, err = readTime(&validity, "validity notBefore"); err != nil {
		return err
	}
	if st.notAfter, err = readTime(&validity, "validity notAfter"); err != nil {
		return err
	}
	return expectEnd(validity, "validity")
}

func (st *tbsState) readSubject() (err error) {
	if st.subjectDN, err = readName(&st.input, "subject"); err != nil {
		return err
	}
	st.selfSigned = st.subjectDN.Equal(st.issuerDN)

	if err = st.subjectDN.storeTo(st.subject); err != nil {
		return err
	}
	return st.issuerDN.storeTo(st.issuer)
}

// readPublicKey 保留 SubjectPublicKeyInfo 的内容，并重新包装成一个独立的 SEQUENCE。
func (st *tbsState) readPublicKey() error {
	var spki cryptobyte.String
	if err := readASN1(&st.input, &spki, cbasn1.SEQUENCE, "subject public key info"); err != nil {
		return err
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(child *cryptobyte.Builder) {
		child.AddBytes(spki)
	})
	der, err := b.Bytes()
	if err != nil {
		return vars.ErrorMalformed{Field: "subject public key info", Reason: err.Error()}
	}
	st.publicKey = der
	return nil
}

func (st *tbsState) readUniqueIDs() error {
	for _, uid := range []struct {
		tag   cbasn1.Tag
		field string
		out   **asn1.BitString
	}{
		{tagIssuerUID, "issuer unique identifier", &st.issuerUID},
		{tagSubjectUID, "subject unique identifier", &st.subjectUID},
	} {
		if !st.input.PeekASN1Tag(uid.tag) {
			continue
		}
		if st.strict && st.version < 1 {
			return vars.ErrorVersionField{Field: uid.field, Version: int(st.version) + 1}
		}
		bits := new(asn1.BitString)
		if err := readImplicitBitString(&st.input, bits, uid.tag, uid.field); err != nil {
			return err
		}
		*uid.out = bits
	}
	return nil
}

// readExtensions 只读取扩展块，扩展的内容在确认没有多余数据之后再解析。
func (st *tbsState) readExtensions() error {
	if st.input.Empty() {
		return nil
	}
	if !st.input.PeekASN1Tag(tagExtensions) {
		return tagFault(st.input, tagExtensions, "extensions")
	}
	if st.strict && st.version < 2 {
		return vars.ErrorVersionField{Field: "extensions", Version: int(st.version) + 1}
	}
	st.hasExts = true
	return readASN1(&st.input, &st.extensions, tagExtensions, "extensions")
}

func (st *tbsState) expectEnd() error {
	return expectEnd(st.input, "tbs certificate")
}

func (st *tbsState) absorbExtensions() error {
	if !st.hasExts {
		return nil
	}
	return decodeExtensions(st.extensions, st.subject, st.issuer)
}

// synthesize 把解码得到的基本字段写入事实库，之后的访问器只需要读取事实库。
func (st *tbsState) synthesize() error {
	serial := st.serial.Bytes()
	if len(serial) == 0 {
		serial = []byte{0}
	}

	writes := []func() error{
		func() error { return st.subject.AddUint(keyVersion, st.version) },
		func() error { return st.subject.AddBytes(keySerial, serial) },
		func() error { return st.subject.AddString(keyStart, formatTime(st.notBefore)) },
		func() error { return st.subject.AddString(keyEnd, formatTime(st.notAfter)) },
		func() error { return st.subject.AddBytes(keyPublicKey, st.publicKey) },
	}
	if st.issuerUID != nil {
		writes = append(writes, func() error { return st.issuer.AddBytes(keyV2KeyID, st.issuerUID.Bytes) })
	}
	if st.subjectUID != nil {
		writes = append(writes, func() error { return st.subject.AddBytes(keyV2KeyID, st.subjectUID.Bytes) })
	}
	for _, write := range writes {
		if err := write(); err != nil {
			return err
		}
	}

	if isCA(st.subject) && !st.subject.Has(keyPathConstraint) {
		limit := uint64(0)
		if st.version+1 < 3 {
			limit = NoCertPathLimit
		}
		return st.subject.AddUint(keyPathConstraint, limit)
	}
	return nil
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// isCA 要求 BasicConstraints 声明了 cA，并且 KeyUsage 包含 keyCertSign 或者证书根本没有 KeyUsage 扩展。
func isCA(subject *attrstore.Store) bool {
	if mustUint(subject.Get1Uint(keyIsCA, 0)) == 0 {
		return false
	}
	usage := constraintsOf(subject)
	return usage&KeyCertSign != 0 || usage == NoConstraints
}

func constraintsOf(subject *attrstore.Store) KeyConstraints {
	return KeyConstraints(mustUint(subject.Get1Uint(keyKeyUsage, uint64(NoConstraints))))
}

// mustUint 用于读取解码器自己写入的整数，这些值的类型在解码时已经确定，读取失败说明程序存在缺陷。
func mustUint(u uint64, err error) uint64 {
	if err != nil {
		panic(err)
	}
	return u
}
