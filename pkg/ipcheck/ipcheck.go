// Package ipcheck classifies strings as IPv4 or IPv6 address literals.
package ipcheck

import "strings"

// Kind is the classification of an address literal.
type Kind int

const (
	// Invalid means the string is neither an IPv4 nor an IPv6 literal.
	Invalid Kind = iota
	// V4 is a dotted-decimal IPv4 literal.
	V4
	// V6 is a colon-hex IPv6 literal.
	V6
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case V4:
		return "ipv4"
	case V6:
		return "ipv6"
	default:
		return "invalid"
	}
}

const (
	ipv4Groups    = 4
	ipv6Groups    = 8
	maxHexDigits  = 4
	maxDecDigits  = 3
	maxOctetValue = 255
)

// Classify reports whether s is an IPv4 literal, an IPv6 literal or neither.
// It never panics.
func Classify(s string) Kind {
	if isIPv4(s) {
		return V4
	}
	if isIPv6(s) {
		return V6
	}
	return Invalid
}

// Valid reports whether s is a syntactically valid IPv4 or IPv6 literal.
func Valid(s string) bool {
	return Classify(s) != Invalid
}

// IsIPv4 reports whether s is a dotted-decimal IPv4 literal.
func IsIPv4(s string) bool {
	return isIPv4(s)
}

// IsIPv6 reports whether s is a full or compressed IPv6 literal.
func IsIPv6(s string) bool {
	return isIPv6(s)
}

func isIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != ipv4Groups {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > maxDecDigits {
			return false
		}
		n := 0
		for i := 0; i < len(p); i++ {
			c := p[i]
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > maxOctetValue {
			return false
		}
	}
	return true
}

func isIPv6(s string) bool {
	// Unspecified and loopback are accepted unconditionally.
	if s == "::" || s == "::1" {
		return true
	}
	if s == "" {
		return false
	}

	switch strings.Count(s, "::") {
	case 0:
		groups := strings.Split(s, ":")
		return len(groups) == ipv6Groups && validHexGroups(groups)
	case 1:
		head, tail, _ := strings.Cut(s, "::")
		var groups []string
		if head != "" {
			groups = append(groups, strings.Split(head, ":")...)
		}
		if tail != "" {
			groups = append(groups, strings.Split(tail, ":")...)
		}
		// "::" must stand for at least one zero group.
		if len(groups) > ipv6Groups-1 {
			return false
		}
		return validHexGroups(groups)
	default:
		return false
	}
}

// validHexGroups reports whether every group holds one to four hex digits.
// An empty group means a stray colon.
func validHexGroups(groups []string) bool {
	for _, g := range groups {
		if len(g) == 0 || len(g) > maxHexDigits {
			return false
		}
		for i := 0; i < len(g); i++ {
			if !isHexDigit(g[i]) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
