package sms

import "strings"

// Normalizer 把本地号码转换为带国家码的 E.164 形式
type Normalizer struct {
	// DefaultCountryCode 用于 10 位纯数字号码，例如 "1"
	DefaultCountryCode string
	// RegionCountryCode 用于本地格式（0 开头的 10 位、移动号段开头的 9 位），例如 "251"
	RegionCountryCode string
	// MobilePrefixes 9 位本地号码允许的首位数字
	MobilePrefixes []string
}

// Normalize 纯函数且幂等：Normalize(Normalize(x)) == Normalize(x)
func (n Normalizer) Normalize(raw string) string {
	s := clean(raw)
	if s == "" || strings.HasPrefix(s, "+") {
		return s
	}
	if !isDigits(s) {
		return s
	}

	switch {
	case strings.HasPrefix(s, "00") && len(s) > 2:
		return "+" + s[2:]
	case len(s) == 10 && s[0] == '0' && n.RegionCountryCode != "":
		return "+" + n.RegionCountryCode + s[1:]
	case len(s) == 10 && s[0] != '0' && n.DefaultCountryCode != "":
		return "+" + n.DefaultCountryCode + s
	case len(s) == 9 && n.isMobilePrefix(s[:1]) && n.RegionCountryCode != "":
		return "+" + n.RegionCountryCode + s
	}
	return s
}

func (n Normalizer) isMobilePrefix(first string) bool {
	for _, p := range n.MobilePrefixes {
		if p == first {
			return true
		}
	}
	return false
}

// clean 去掉空白和常见分隔符
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case ' ', '\t', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
