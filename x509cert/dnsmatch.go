package x509cert

import "strings"

// MatchesDNSName 判断证书是否为 name 作证，依次检查主体的 "DNS" 与 "Name" 字段。
//
// 通配符只支持最左侧的单个标签，例如 "*.example.com" 可以匹配 "mail.example.com" 与 "a.b.example.com"，但不能匹配 "example.com"。
func (c *Certificate) MatchesDNSName(name string) bool {
	if name == "" {
		return false
	}
	return matchDNSName(name, c.SubjectInfo("DNS")) || matchDNSName(name, c.SubjectInfo("Name"))
}

func matchDNSName(name string, certNames []string) bool {
	for _, cn := range certNames {
		if cn == name {
			return true
		}
		if len(cn) > 2 && cn[0] == '*' && cn[1] == '.' && len(name) > len(cn) {
			if strings.HasSuffix(name, cn[1:]) {
				return true
			}
		}
	}
	return false
}
