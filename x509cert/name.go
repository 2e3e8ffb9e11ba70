package x509cert

import (
	"encoding/asn1"
	"fmt"
	"strings"

	"github.com/11090815/x509cert/attrstore"
	"github.com/11090815/x509cert/oids"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Attribute 是名称中的一个 (类型, 值) 对，类型是属性 OID 的可读名称，例如 "X520.CommonName"。
type Attribute struct {
	Type  string
	Value string
}

// DistinguishedName 保留属性在证书中出现的顺序用于展示，比较时不考虑顺序。
type DistinguishedName []Attribute

// AlternativeName 由主体或颁发者事实库中 RFC822、DNS、URI、IP 四类键投影而来。
type AlternativeName []Attribute

var altNameKeys = map[string]struct{}{
	"RFC822": {},
	"DNS":    {},
	"URI":    {},
	"IP":     {},
}

// CreateDN 从事实库中挑选所有包含 "X520." 的键，按插入顺序构造出 DistinguishedName。
func CreateDN(store *attrstore.Store) DistinguishedName {
	pairs := store.SearchFor(func(key string, _ attrstore.Value) bool {
		return strings.Contains(key, "X520.")
	})
	dn := make(DistinguishedName, 0, len(pairs))
	for _, p := range pairs {
		dn = dn.add(p.Key, p.Value.String())
	}
	return dn
}

// CreateAltName 从事实库中挑选 RFC822、DNS、URI、IP 四类键构造出 AlternativeName。
func CreateAltName(store *attrstore.Store) AlternativeName {
	pairs := store.SearchFor(func(key string, _ attrstore.Value) bool {
		_, ok := altNameKeys[key]
		return ok
	})
	an := make(AlternativeName, 0, len(pairs))
	for _, p := range pairs {
		an = append(an, Attribute{Type: p.Key, Value: p.Value.String()})
	}
	return an
}

// DerefInfoField 把人类可读的字段名转换为事实库中的键，无法识别的字段名原样返回。
func DerefInfoField(info string) string {
	switch info {
	case "Name", "CommonName":
		return "X520.CommonName"
	case "SerialNumber":
		return "X520.SerialNumber"
	case "Country":
		return "X520.Country"
	case "Organization":
		return "X520.Organization"
	case "Organizational Unit", "OrgUnit":
		return "X520.OrganizationalUnit"
	case "Locality":
		return "X520.Locality"
	case "State", "Province":
		return "X520.State"
	case "Email":
		return "RFC822"
	}
	return info
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// add 忽略空值以及重复的 (类型, 值) 对。
func (dn DistinguishedName) add(attrType, value string) DistinguishedName {
	if value == "" {
		return dn
	}
	for _, attr := range dn {
		if attr.Type == attrType && attr.Value == value {
			return dn
		}
	}
	return append(dn, Attribute{Type: attrType, Value: value})
}

// Get 返回指定类型的所有值，类型可以是 DerefInfoField 能识别的别名。
func (dn DistinguishedName) Get(attrType string) []string {
	return getValues(dn, DerefInfoField(attrType))
}

func (dn DistinguishedName) Empty() bool {
	return len(dn) == 0
}

// Equal 把两个名称看作 (类型, 值) 对的集合进行比较，值按照 X.500 的规则规范化：忽略大小写，合并连续空白。
func (dn DistinguishedName) Equal(other DistinguishedName) bool {
	a := dn.normalizedSet()
	b := other.normalizedSet()
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func (dn DistinguishedName) normalizedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(dn))
	for _, attr := range dn {
		set[attr.Type+"\x00"+normalizeX500(attr.Value)] = struct{}{}
	}
	return set
}

func normalizeX500(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

var shortNames = map[string]string{
	"X520.CommonName":         "CN",
	"X520.SerialNumber":       "SN",
	"X520.Country":            "C",
	"X520.Locality":           "L",
	"X520.State":              "ST",
	"X520.Organization":       "O",
	"X520.OrganizationalUnit": "OU",
	"X520.DomainComponent":    "DC",
	"PKCS9.EmailAddress":      "Email",
}

func (dn DistinguishedName) String() string {
	fields := make([]string, 0, len(dn))
	for _, attr := range dn {
		name, ok := shortNames[attr.Type]
		if !ok {
			name = attr.Type
		}
		fields = append(fields, fmt.Sprintf("%s=%q", name, attr.Value))
	}
	return strings.Join(fields, ", ")
}

func (an AlternativeName) Get(attrType string) []string {
	return getValues(an, attrType)
}

func (an AlternativeName) Empty() bool {
	return len(an) == 0
}

func (an AlternativeName) String() string {
	fields := make([]string, 0, len(an))
	for _, attr := range an {
		fields = append(fields, attr.Type+":"+attr.Value)
	}
	return strings.Join(fields, ", ")
}

func getValues(attrs []Attribute, attrType string) []string {
	var values []string
	for _, attr := range attrs {
		if attr.Type == attrType {
			values = append(values, attr.Value)
		}
	}
	return values
}

/*⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓⛓*/

// readName 读取一个 Name（RDNSequence），属性类型被转换成可读名称，未登记的类型保留点分形式的 OID。
func readName(s *cryptobyte.String, field string) (DistinguishedName, error) {
	var rdnSeq cryptobyte.String
	if err := readASN1(s, &rdnSeq, cbasn1.SEQUENCE, field); err != nil {
		return nil, err
	}

	var dn DistinguishedName
	for !rdnSeq.Empty() {
		var set cryptobyte.String
		if err := readASN1(&rdnSeq, &set, cbasn1.SET, field+" relative distinguished name"); err != nil {
			return nil, err
		}
		for !set.Empty() {
			var atav cryptobyte.String
			if err := readASN1(&set, &atav, cbasn1.SEQUENCE, field+" attribute"); err != nil {
				return nil, err
			}
			var attrType asn1.ObjectIdentifier
			if err := readOID(&atav, &attrType, field+" attribute type"); err != nil {
				return nil, err
			}
			value, err := readDirectoryString(&atav, field+" attribute value")
			if err != nil {
				return nil, err
			}
			if err := expectEnd(atav, field+" attribute"); err != nil {
				return nil, err
			}
			dn = dn.add(oids.Name(attrType), value)
		}
	}
	return dn, nil
}

func (dn DistinguishedName) storeTo(store *attrstore.Store) error {
	for _, attr := range dn {
		if err := store.AddString(attr.Type, attr.Value); err != nil {
			return err
		}
	}
	return nil
}
