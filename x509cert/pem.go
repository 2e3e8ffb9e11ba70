package x509cert

import (
	"bytes"
	"encoding/pem"

	"github.com/11090815/x509cert/vars"
)

const (
	pemLabel       = "CERTIFICATE"
	pemLabelLegacy = "X509 CERTIFICATE"
)

// isPEM 通过第一个字节区分 DER 与 PEM：DER 编码的证书总是以 SEQUENCE 标签 0x30 开头。
func isPEM(data []byte) bool {
	return len(data) > 0 && data[0] != 0x30
}

// pemToDER 要求输入恰好包含一个证书 PEM 块，块之后只允许出现空白字符。
func pemToDER(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, vars.ErrorDecodePEMFormatCertificate{MaterialIsNil: true}
	}
	block, rest := pem.Decode(data)
	if block == nil {
		return nil, vars.ErrorDecodePEMFormatCertificate{BlockIsNil: true}
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, vars.ErrorDecodePEMFormatCertificate{RestIsNotNil: true}
	}
	if block.Type != pemLabel && block.Type != pemLabelLegacy {
		return nil, vars.ErrorInvalidPEMLabel{Label: block.Type}
	}
	return block.Bytes, nil
}

// splitPEMBundle 依次取出 data 中所有的证书 PEM 块，遇到其他类型的块时返回错误。
func splitPEMBundle(data []byte) ([][]byte, error) {
	var ders [][]byte
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != pemLabel && block.Type != pemLabelLegacy {
			return nil, vars.ErrorInvalidPEMLabel{Label: block.Type}
		}
		ders = append(ders, block.Bytes)
	}
	if len(ders) == 0 {
		return nil, vars.ErrorDecodePEMFormatCertificate{BlockIsNil: true}
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, vars.ErrorDecodePEMFormatCertificate{RestIsNotNil: true}
	}
	return ders, nil
}
