package main

import "strings"

const maxNickLength = 9
const maxUserLength = 10
const maxChannelLength = 50
const maxTopicLength = 307
const maxKeyLength = 23
const maxUserLimit = 999
const maxChannelsPerUser = 20

// reservedNicks may never be claimed, regardless of whether they are
// currently in use. These correspond to service pseudo-users and
// privileged-sounding names.
var reservedNicks = map[string]struct{}{
	"root":      {},
	"admin":     {},
	"operator":  {},
	"op":        {},
	"oper":      {},
	"server":    {},
	"service":   {},
	"chanserv":  {},
	"nickserv":  {},
	"memoserv":  {},
	"operserv":  {},
	"hostserv":  {},
	"anonymous": {},
	"guest":     {},
	"null":      {},
	"nobody":    {},
	"bot":       {},
}

// foldRune implements RFC 1459 case folding: {}|^ are the lowercase
// equivalents of []\~ in addition to the usual ASCII a-z/A-Z pairing.
func foldRune(r rune) rune {
	switch r {
	case '[':
		return '{'
	case ']':
		return '}'
	case '\\':
		return '|'
	case '~':
		return '^'
	}
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

// canonicalizeNick converts a nickname to its canonical (RFC 1459 folded)
// representation, used as the registry's lookup key. It does not validate
// or trim the input.
func canonicalizeNick(n string) string {
	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

// canonicalizeChannel converts a channel name to its canonical
// representation the same way canonicalizeNick does for nicknames.
func canonicalizeChannel(c string) string {
	return canonicalizeNick(c)
}

func isNickFirstChar(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	switch r {
	case '_', '[', ']', '{', '}', '\\', '|':
		return true
	}
	return false
}

func isNickRestChar(r rune) bool {
	if isNickFirstChar(r) {
		return true
	}
	if r >= '0' && r <= '9' {
		return true
	}
	return r == '-'
}

// isValidNick reports whether n satisfies spec's nickname grammar: 1-9
// characters, a letter or one of _[]{}\| first, then letters/digits/-/the
// same symbol set, and not one of the reserved service names.
func isValidNick(n string) bool {
	runes := []rune(n)
	if len(runes) == 0 || len(runes) > maxNickLength {
		return false
	}
	if !isNickFirstChar(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !isNickRestChar(r) {
			return false
		}
	}
	if _, reserved := reservedNicks[strings.ToLower(n)]; reserved {
		return false
	}
	return true
}

// isValidUser reports whether u is an acceptable USER-command username.
func isValidUser(u string) bool {
	if len(u) == 0 || len(u) > maxUserLength {
		return false
	}
	for _, r := range u {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

// isValidChannel reports whether c is a well formed channel name: begins
// with # or &, at most maxChannelLength bytes, and contains no space,
// comma, BEL, CR, or LF.
func isValidChannel(c string) bool {
	if len(c) == 0 || len(c) > maxChannelLength {
		return false
	}
	if c[0] != '#' && c[0] != '&' {
		return false
	}
	for _, r := range c {
		switch r {
		case ' ', ',', '\x07', '\r', '\n':
			return false
		}
	}
	return true
}

// isValidKey reports whether a channel key is acceptable: non-empty, at
// most maxKeyLength bytes (truncated by the caller if longer), and free of
// space/comma/BEL.
func isValidKey(k string) bool {
	if len(k) == 0 {
		return false
	}
	for _, r := range k {
		switch r {
		case ' ', ',', '\x07':
			return false
		}
	}
	return true
}

// normalizeChannelTarget prepends # to a bare channel name missing a
// channel prefix, per spec's JOIN target handling.
func normalizeChannelTarget(name string) string {
	if len(name) == 0 {
		return name
	}
	if name[0] == '#' || name[0] == '&' {
		return name
	}
	return "#" + name
}
