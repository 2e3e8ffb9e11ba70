package vars

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

const PrefixPath = "github.com/11090815/"

type PathError struct {
	err  string
	path string
}

func (pe PathError) Error() string {
	return fmt.Sprintf("[%s] => {%s}", pe.path, pe.err)
}

func NewPathError(err string) PathError {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		return PathError{
			err:  err,
			path: "unknown path",
		}
	}

	index := strings.Index(file, PrefixPath)
	if index == -1 {
		file = "unknown file"
	} else {
		file = file[index+len(PrefixPath):]
	}

	funcName := runtime.FuncForPC(pc).Name()
	index = strings.LastIndex(funcName, ".")
	if index == -1 {
		funcName = "unknown function"
	} else {
		funcName = funcName[index+1:]
	}

	return PathError{
		err:  err,
		path: fmt.Sprintf("\"%s\" \"%s\" #%d", file, funcName, line),
	}
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// DecodingFault 由所有解码阶段的错误实现，调用者可以通过 errors.As 把解码错误与语义查询错误区分开。
type DecodingFault interface {
	error
	DecodingFault()
}

// Class 是 ASN.1 标签的类别。
type Class uint8

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT_SPECIFIC"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return fmt.Sprintf("CLASS(%d)", uint8(c))
	}
}

// ErrorBadTag 表示在解码某个字段时，读到的 ASN.1 标签与期望的不一致。
type ErrorBadTag struct {
	Field            string
	ExpectedTag      uint
	ExpectedClass    Class
	ExpectedCompound bool
	FoundTag         uint
	FoundClass       Class
	FoundCompound    bool
	// Missing 为 true 表示输入已经读完，根本没有读到任何元素。
	Missing bool
}

func (err ErrorBadTag) Error() string {
	if err.Missing {
		return fmt.Sprintf("unexpected end of input while decoding %s: expected tag [%d/%s]", err.Field, err.ExpectedTag, err.ExpectedClass)
	}
	return fmt.Sprintf("unexpected tag while decoding %s: expected [%d/%s constructed=%t], but got [%d/%s constructed=%t]",
		err.Field, err.ExpectedTag, err.ExpectedClass, err.ExpectedCompound, err.FoundTag, err.FoundClass, err.FoundCompound)
}

func (ErrorBadTag) DecodingFault() {}

// ErrorMalformed 表示某个字段的标签正确，但是内容无法解析（长度被截断、编码不规范等）。
type ErrorMalformed struct {
	Field  string
	Reason string
}

func (err ErrorMalformed) Error() string {
	if err.Reason == "" {
		return fmt.Sprintf("malformed %s", err.Field)
	}
	return fmt.Sprintf("malformed %s: [%s]", err.Field, err.Reason)
}

func (ErrorMalformed) DecodingFault() {}

type ErrorUnknownVersion struct {
	Version string
}

func (err ErrorUnknownVersion) Error() string {
	return fmt.Sprintf("unknown X.509 certificate version %s", err.Version)
}

func (ErrorUnknownVersion) DecodingFault() {}

// ErrorAlgorithmMismatch 表示 TBSCertificate 内部的签名算法标识符与证书外层的签名算法标识符不一致。
type ErrorAlgorithmMismatch struct {
	Inner string
	Outer string
}

func (err ErrorAlgorithmMismatch) Error() string {
	return fmt.Sprintf("algorithm identifier mismatch: tbs certificate says [%s], but signature says [%s]", err.Inner, err.Outer)
}

func (ErrorAlgorithmMismatch) DecodingFault() {}

type ErrorTrailingData struct {
	Field     string
	Remaining int
}

func (err ErrorTrailingData) Error() string {
	return fmt.Sprintf("%s has %d bytes of trailing data", err.Field, err.Remaining)
}

func (ErrorTrailingData) DecodingFault() {}

type ErrorUnknownCriticalExtension struct {
	OID string
}

func (err ErrorUnknownCriticalExtension) Error() string {
	return fmt.Sprintf("encountered unknown X.509 extension marked as critical, OID = %s", err.OID)
}

func (ErrorUnknownCriticalExtension) DecodingFault() {}

type ErrorDuplicateExtension struct {
	OID string
}

func (err ErrorDuplicateExtension) Error() string {
	return fmt.Sprintf("certificate contains duplicate extension %s", err.OID)
}

func (ErrorDuplicateExtension) DecodingFault() {}

// ErrorVersionField 只在严格模式下出现：v1 证书出现了 unique identifier，或者 v1/v2 证书出现了扩展。
type ErrorVersionField struct {
	Field   string
	Version int
}

func (err ErrorVersionField) Error() string {
	return fmt.Sprintf("%s is not allowed in a version %d certificate", err.Field, err.Version)
}

func (ErrorVersionField) DecodingFault() {}

type ErrorInvalidPEMLabel struct {
	Label string
}

func (err ErrorInvalidPEMLabel) Error() string {
	return fmt.Sprintf("invalid PEM label [%s], want \"CERTIFICATE\" or \"X509 CERTIFICATE\"", err.Label)
}

func (ErrorInvalidPEMLabel) DecodingFault() {}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

type ErrorDecodePEMFormatCertificate struct {
	BlockIsNil    bool
	RestIsNotNil  bool
	MaterialIsNil bool
}

func (err ErrorDecodePEMFormatCertificate) Error() string {
	if err.BlockIsNil {
		return "failed converting PEM-encoded certificate to ASN.1 DER"
	}
	if err.RestIsNotNil {
		return "decoding PEM-encoded certificate may be failed, because rest is not nil"
	}
	if err.MaterialIsNil {
		return "if you want to converting PEM-encoded certificate to ASN.1 DER, you should provide non-nil material raw"
	}
	return ""
}

func (ErrorDecodePEMFormatCertificate) DecodingFault() {}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// ErrorWrongKind 表示调用者请求的类型无法由存储的值提供，例如从一个非数字的字符串中读取整数。
type ErrorWrongKind struct {
	Key    string
	Stored string
	Wanted string
}

func (err ErrorWrongKind) Error() string {
	return fmt.Sprintf("value of [%s] is stored as %s, cannot be read as %s", err.Key, err.Stored, err.Wanted)
}

type ErrorNoValue struct {
	Key string
}

func (err ErrorNoValue) Error() string {
	return fmt.Sprintf("no value set for [%s]", err.Key)
}

type ErrorStoreFrozen struct {
	Key string
}

func (err ErrorStoreFrozen) Error() string {
	return fmt.Sprintf("store is read-only, cannot add value for [%s]", err.Key)
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

type ErrorGettingHashOption struct {
	Reason string
}

func (err ErrorGettingHashOption) Error() string {
	return fmt.Sprintf("failed getting hash function option: [%s]", err.Reason)
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

type ErrorShouldNotBeNil struct {
	Type reflect.Type
}

func (err ErrorShouldNotBeNil) Error() string {
	return fmt.Sprintf("%s should not be nil", err.Type.String())
}
