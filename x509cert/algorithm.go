package x509cert

import (
	"bytes"
	"encoding/asn1"

	"github.com/11090815/x509cert/oids"
	"github.com/11090815/x509cert/vars"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var asn1Null = []byte{0x05, 0x00}

// AlgorithmIdentifier 是签名算法或公钥算法的标识符，Parameters 保存参数元素完整的 DER 编码（包括标签和长度）。
type AlgorithmIdentifier struct {
	OID        asn1.ObjectIdentifier
	Parameters []byte
}

// Equal 认为缺省的参数与 NULL 参数等价。
func (ai AlgorithmIdentifier) Equal(other AlgorithmIdentifier) bool {
	if !ai.OID.Equal(other.OID) {
		return false
	}
	if nullOrEmpty(ai.Parameters) && nullOrEmpty(other.Parameters) {
		return true
	}
	return bytes.Equal(ai.Parameters, other.Parameters)
}

// Name 返回算法的可读名称，未登记的算法返回点分形式的 OID。
func (ai AlgorithmIdentifier) Name() string {
	return oids.Name(ai.OID)
}

func (ai AlgorithmIdentifier) String() string {
	return ai.Name()
}

func nullOrEmpty(params []byte) bool {
	return len(params) == 0 || bytes.Equal(params, asn1Null)
}

// parseAlgorithmIdentifier 解析 AlgorithmIdentifier 的内容，der 已经去掉了外层 SEQUENCE 的标签与长度。
func parseAlgorithmIdentifier(der cryptobyte.String, field string) (AlgorithmIdentifier, error) {
	ai := AlgorithmIdentifier{}
	if err := readOID(&der, &ai.OID, field); err != nil {
		return ai, err
	}
	if der.Empty() {
		return ai, nil
	}

	var params cryptobyte.String
	var tag cbasn1.Tag
	if !der.ReadAnyASN1Element(&params, &tag) {
		return ai, vars.ErrorMalformed{Field: field, Reason: "invalid algorithm parameters"}
	}
	ai.Parameters = append([]byte(nil), params...)

	if err := expectEnd(der, field); err != nil {
		return ai, err
	}
	return ai, nil
}

func readAlgorithmIdentifier(s *cryptobyte.String, field string) (AlgorithmIdentifier, error) {
	var seq cryptobyte.String
	if err := readASN1(s, &seq, cbasn1.SEQUENCE, field); err != nil {
		return AlgorithmIdentifier{}, err
	}
	return parseAlgorithmIdentifier(seq, field)
}
