package x509cert

import (
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/11090815/x509cert/bccsp"
)

// renderFields 是 String() 中主体与颁发者字段的输出顺序。
var renderFields = []string{
	"Name",
	"Email",
	"Organization",
	"Organizational Unit",
	"Locality",
	"State",
	"Country",
	"IP",
	"DNS",
	"URI",
	"PKIX.XMPPAddr",
}

var constraintLabels = []struct {
	bit   KeyConstraints
	label string
}{
	{DigitalSignature, "Digital Signature"},
	{NonRepudiation, "Non-Repudiation"},
	{KeyEncipherment, "Key Encipherment"},
	{DataEncipherment, "Data Encipherment"},
	{KeyAgreement, "Key Agreement"},
	{KeyCertSign, "Cert Sign"},
	{CRLSign, "CRL Sign"},
}

// Labels 返回掩码中已设置的用途名称，EncipherOnly 与 DecipherOnly 不在其中。
func (kc KeyConstraints) Labels() []string {
	var labels []string
	for _, cl := range constraintLabels {
		if kc&cl.bit != 0 {
			labels = append(labels, cl.label)
		}
	}
	return labels
}

// String 返回证书的多行文本表示。字段的顺序与格式是固定的，Compare 在签名相同时依赖这一文本进行排序。
func (c *Certificate) String() string {
	var out strings.Builder

	writeInfo := func(prefix string, info func(string) []string) {
		for _, field := range renderFields {
			values := info(field)
			if len(values) == 0 {
				continue
			}
			fmt.Fprintf(&out, "%s %s:", prefix, field)
			for _, v := range values {
				out.WriteString(" " + v)
			}
			out.WriteString("\n")
		}
	}
	writeInfo("Subject", c.SubjectInfo)
	writeInfo("Issuer", c.IssuerInfo)

	fmt.Fprintf(&out, "Version: %d\n", c.Version())
	fmt.Fprintf(&out, "Not valid before: %s\n", c.StartTime())
	fmt.Fprintf(&out, "Not valid after: %s\n", c.EndTime())

	out.WriteString("Constraints:\n")
	if constraints := c.Constraints(); constraints == NoConstraints {
		out.WriteString(" None\n")
	} else {
		for _, label := range constraints.Labels() {
			out.WriteString("   " + label + "\n")
		}
	}

	if policies := c.Policies(); len(policies) > 0 {
		out.WriteString("Policies: \n")
		for _, p := range policies {
			out.WriteString("   " + p + "\n")
		}
	}

	if exConstraints := c.ExConstraints(); len(exConstraints) > 0 {
		out.WriteString("Extended Constraints:\n")
		for _, ex := range exConstraints {
			out.WriteString("   " + ex + "\n")
		}
	}

	fmt.Fprintf(&out, "Signature algorithm: %s\n", c.sigAlg.Name())
	fmt.Fprintf(&out, "Serial number: %s\n", upperHex(c.SerialNumber()))
	if aki := c.AuthorityKeyID(); len(aki) > 0 {
		fmt.Fprintf(&out, "Authority keyid: %s\n", upperHex(aki))
	}
	if ski := c.SubjectKeyID(); len(ski) > 0 {
		fmt.Fprintf(&out, "Subject keyid: %s\n", upperHex(ski))
	}

	out.WriteString("Public Key:\n")
	out.Write(c.publicKeyPEM())

	return out.String()
}

// publicKeyPEM 优先使用解析后的公钥进行编码，无法识别的公钥算法直接对保存的 SubjectPublicKeyInfo 编码。
func (c *Certificate) publicKeyPEM() []byte {
	if key, err := c.SubjectPublicKey(); err == nil {
		if encoded, err := bccsp.PublicKeyToPEM(key); err == nil {
			return encoded
		}
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: c.SubjectPublicKeyDER()})
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
