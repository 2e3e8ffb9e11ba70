package attrstore

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/11090815/x509cert/vars"
)

// Kind 标识 Value 中实际存放的是哪一种数据。
type Kind uint8

const (
	KindString Kind = iota + 1
	KindUint
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindUint:
		return "uint"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Value 是存储在 Store 中的一个值，它只可能是字符串、无符号整数或者字节切片三者之一。
type Value struct {
	kind Kind
	s    string
	u    uint64
	b    []byte
}

func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

func UintValue(u uint64) Value {
	return Value{kind: KindUint, u: u}
}

// BytesValue 会拷贝一份 b，之后对 b 的修改不会影响 Value。
func BytesValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, b: cp}
}

func (v Value) Kind() Kind {
	return v.kind
}

// String 返回值的字符串形式：整数按十进制输出，字节切片按大写十六进制输出。
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindBytes:
		return strings.ToUpper(hex.EncodeToString(v.b))
	default:
		return ""
	}
}

// AsUint 只有当值是整数，或者是一个十进制数字字符串时才会成功。
func (v Value) AsUint(key string) (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.u, nil
	case KindString:
		u, err := strconv.ParseUint(v.s, 10, 64)
		if err != nil {
			return 0, vars.ErrorWrongKind{Key: key, Stored: "non-numeric string", Wanted: KindUint.String()}
		}
		return u, nil
	default:
		return 0, vars.ErrorWrongKind{Key: key, Stored: v.kind.String(), Wanted: KindUint.String()}
	}
}

func (v Value) AsBytes(key string) ([]byte, error) {
	if v.kind != KindBytes {
		return nil, vars.ErrorWrongKind{Key: key, Stored: v.kind.String(), Wanted: KindBytes.String()}
	}
	cp := make([]byte, len(v.b))
	copy(cp, v.b)
	return cp, nil
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindUint:
		return v.u == other.u
	case KindBytes:
		return bytes.Equal(v.b, other.b)
	default:
		return true
	}
}

// sortKey 用于在比较多重集合时对值排序。
func (v Value) sortKey() string {
	return v.kind.String() + ":" + v.String()
}
