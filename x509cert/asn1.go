package x509cert

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
	"time"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/11090815/x509cert/vars"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const (
	tagNumericString   = cbasn1.Tag(asn1.TagNumericString)
	tagVisualString    = cbasn1.Tag(26)
	tagUniversalString = cbasn1.Tag(28)
	tagBMPString       = cbasn1.Tag(asn1.TagBMPString)
)

// TimeLayout 是证书有效期在事实库中的存储格式。
const TimeLayout = "2006/01/02 15:04:05 UTC"

func describeTag(t cbasn1.Tag) (number uint, class vars.Class, constructed bool) {
	return uint(t & 0x1f), vars.Class(t >> 6), t&0x20 != 0
}

// tagFault 根据读取失败前的输入 s 判断失败原因：输入耗尽、标签不符，或者标签正确但内容格式错误。
func tagFault(s cryptobyte.String, want cbasn1.Tag, field string) error {
	wantNum, wantClass, wantCompound := describeTag(want)
	if s.Empty() {
		return vars.ErrorBadTag{
			Field:            field,
			ExpectedTag:      wantNum,
			ExpectedClass:    wantClass,
			ExpectedCompound: wantCompound,
			Missing:          true,
		}
	}

	found := cbasn1.Tag(s[0])
	if found != want {
		num, class, compound := describeTag(found)
		return vars.ErrorBadTag{
			Field:            field,
			ExpectedTag:      wantNum,
			ExpectedClass:    wantClass,
			ExpectedCompound: wantCompound,
			FoundTag:         num,
			FoundClass:       class,
			FoundCompound:    compound,
		}
	}

	return vars.ErrorMalformed{Field: field, Reason: "invalid length or content encoding"}
}

func readASN1(s *cryptobyte.String, out *cryptobyte.String, tag cbasn1.Tag, field string) error {
	orig := *s
	if !s.ReadASN1(out, tag) {
		return tagFault(orig, tag, field)
	}
	return nil
}

func readASN1Element(s *cryptobyte.String, out *cryptobyte.String, tag cbasn1.Tag, field string) error {
	orig := *s
	if !s.ReadASN1Element(out, tag) {
		return tagFault(orig, tag, field)
	}
	return nil
}

func readBigInt(s *cryptobyte.String, out *big.Int, field string) error {
	orig := *s
	if !s.ReadASN1Integer(out) {
		return tagFault(orig, cbasn1.INTEGER, field)
	}
	return nil
}

func readUint(s *cryptobyte.String, out *uint64, field string) error {
	orig := *s
	if !s.ReadASN1Integer(out) {
		return tagFault(orig, cbasn1.INTEGER, field)
	}
	return nil
}

func readOID(s *cryptobyte.String, out *asn1.ObjectIdentifier, field string) error {
	orig := *s
	if !s.ReadASN1ObjectIdentifier(out) {
		return tagFault(orig, cbasn1.OBJECT_IDENTIFIER, field)
	}
	return nil
}

func readBitString(s *cryptobyte.String, out *asn1.BitString, field string) error {
	orig := *s
	if !s.ReadASN1BitString(out) {
		return tagFault(orig, cbasn1.BIT_STRING, field)
	}
	return nil
}

// readImplicitBitString 读取一个被隐式标记为 tag 的 BIT STRING。
func readImplicitBitString(s *cryptobyte.String, out *asn1.BitString, tag cbasn1.Tag, field string) error {
	var content cryptobyte.String
	if err := readASN1(s, &content, tag, field); err != nil {
		return err
	}

	// 第一个字节表示末尾未使用的比特数。
	if len(content) == 0 || content[0] > 7 || (len(content) == 1 && content[0] != 0) {
		return vars.ErrorMalformed{Field: field, Reason: "invalid bit string padding"}
	}
	padding := int(content[0])
	bytes := content[1:]
	if padding > 0 && bytes[len(bytes)-1]&(1<<padding-1) != 0 {
		return vars.ErrorMalformed{Field: field, Reason: "non-zero padding bits in bit string"}
	}
	out.Bytes = append([]byte(nil), bytes...)
	out.BitLength = len(bytes)*8 - padding
	return nil
}

func readBoolean(s *cryptobyte.String, out *bool, field string) error {
	orig := *s
	if !s.ReadASN1Boolean(out) {
		return tagFault(orig, cbasn1.BOOLEAN, field)
	}
	return nil
}

// expectEnd 要求 s 已经被完全读取。
func expectEnd(s cryptobyte.String, field string) error {
	if !s.Empty() {
		return vars.ErrorTrailingData{Field: field, Remaining: len(s)}
	}
	return nil
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

func isStringTag(tag cbasn1.Tag) bool {
	switch tag {
	case cbasn1.UTF8String, cbasn1.PrintableString, cbasn1.T61String, cbasn1.IA5String,
		tagNumericString, tagVisualString, tagUniversalString, tagBMPString:
		return true
	}
	return false
}

// readDirectoryString 读取任意一种 ASN.1 字符串类型，并将其转换为 UTF-8 字符串。
func readDirectoryString(s *cryptobyte.String, field string) (string, error) {
	orig := *s
	var value cryptobyte.String
	var tag cbasn1.Tag
	if !s.ReadAnyASN1(&value, &tag) {
		if orig.Empty() {
			return "", tagFault(orig, cbasn1.UTF8String, field)
		}
		return "", vars.ErrorMalformed{Field: field, Reason: "truncated string value"}
	}
	if !isStringTag(tag) {
		return "", tagFault(orig, cbasn1.UTF8String, field)
	}

	str, err := parseASN1String(tag, value)
	if err != nil {
		return "", vars.ErrorMalformed{Field: field, Reason: err.Error()}
	}
	return str, nil
}

func parseASN1String(tag cbasn1.Tag, value []byte) (string, error) {
	switch tag {
	case cbasn1.T61String:
		return string(value), nil
	case cbasn1.PrintableString:
		for _, b := range value {
			if !isPrintable(b) {
				return "", errors.New("invalid PrintableString")
			}
		}
		return string(value), nil
	case cbasn1.UTF8String:
		if !utf8.Valid(value) {
			return "", errors.New("invalid UTF-8 string")
		}
		return string(value), nil
	case tagBMPString:
		if len(value)%2 != 0 {
			return "", errors.New("invalid BMPString")
		}

		// 去掉末尾的结束符。
		if l := len(value); l >= 2 && value[l-1] == 0 && value[l-2] == 0 {
			value = value[:l-2]
		}

		s := make([]uint16, 0, len(value)/2)
		for len(value) > 0 {
			s = append(s, uint16(value[0])<<8+uint16(value[1]))
			value = value[2:]
		}
		return string(utf16.Decode(s)), nil
	case tagUniversalString:
		if len(value)%4 != 0 {
			return "", errors.New("invalid UniversalString")
		}
		runes := make([]rune, 0, len(value)/4)
		for len(value) > 0 {
			r := rune(value[0])<<24 | rune(value[1])<<16 | rune(value[2])<<8 | rune(value[3])
			if !utf8.ValidRune(r) {
				return "", errors.New("invalid UniversalString")
			}
			runes = append(runes, r)
			value = value[4:]
		}
		return string(runes), nil
	case cbasn1.IA5String, tagVisualString:
		s := string(value)
		if err := isIA5String(s); err != nil {
			return "", err
		}
		return s, nil
	case tagNumericString:
		for _, b := range value {
			if !('0' <= b && b <= '9' || b == ' ') {
				return "", errors.New("invalid NumericString")
			}
		}
		return string(value), nil
	}
	return "", fmt.Errorf("unsupported string type: %v", tag)
}

func isIA5String(s string) error {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return fmt.Errorf("%q cannot be encoded as an IA5String", s)
		}
	}
	return nil
}

// isPrintable 判断 b 是否属于 PrintableString 字符集，'*' 和 '&' 在实际签发的证书中很常见，因此也被接受。
func isPrintable(b byte) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?' ||
		b == '*' ||
		b == '&'
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

func readTime(der *cryptobyte.String, field string) (time.Time, error) {
	var t time.Time
	switch {
	case der.PeekASN1Tag(cbasn1.UTCTime):
		if !der.ReadASN1UTCTime(&t) {
			return t, vars.ErrorMalformed{Field: field, Reason: "invalid UTCTime"}
		}
	case der.PeekASN1Tag(cbasn1.GeneralizedTime):
		if !der.ReadASN1GeneralizedTime(&t) {
			return t, vars.ErrorMalformed{Field: field, Reason: "invalid GeneralizedTime"}
		}
	default:
		return t, tagFault(*der, cbasn1.UTCTime, field)
	}
	return t.UTC(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
