package x509cert

import (
	"bytes"
	"strings"
)

// Equal 要求签名、签名算法、自签名标志以及两个事实库全部相同。
func (c *Certificate) Equal(other *Certificate) bool {
	if c == nil || other == nil {
		return c == other
	}
	return bytes.Equal(c.signature, other.signature) &&
		c.sigAlg.Equal(other.sigAlg) &&
		c.selfSigned == other.selfSigned &&
		c.issuer.Equal(other.issuer) &&
		c.subject.Equal(other.subject)
}

// Less 首先按签名字节的字典序比较，签名相同时再比较 String() 的结果。
func (c *Certificate) Less(other *Certificate) bool {
	return Compare(c, other) < 0
}

// Compare 返回 -1、0 或 1，可以作为 sort.Slice 的比较函数。签名与文本表示都相同的两张证书被认为是相等的。
func Compare(a, b *Certificate) int {
	if cmp := bytes.Compare(a.signature, b.signature); cmp != 0 {
		return cmp
	}
	return strings.Compare(a.String(), b.String())
}
