package referral

import (
	"strings"
	"unicode"
)

type CodeKind int

const (
	// CodeNone means no code was supplied.
	CodeNone CodeKind = iota
	CodeValid
	CodeMalformed
	CodeSelfReference
)

func (k CodeKind) String() string {
	switch k {
	case CodeNone:
		return "none"
	case CodeValid:
		return "valid"
	case CodeMalformed:
		return "malformed"
	case CodeSelfReference:
		return "self_reference"
	default:
		return "unknown"
	}
}

// Code is the parsed form of a referral code. ReferrerID is set only for
// CodeValid.
type Code struct {
	Kind       CodeKind
	ReferrerID string
}

// Err maps the non-valid kinds onto the error taxonomy. CodeValid and
// CodeNone return nil.
func (c Code) Err() error {
	switch c.Kind {
	case CodeMalformed:
		return ErrMalformedReferralCode
	case CodeSelfReference:
		return ErrSelfReferral
	default:
		return nil
	}
}

// ParseCode parses raw as prefix+userID. selfID is the id of the user that is
// registering with the code.
func ParseCode(prefix, raw, selfID string) Code {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Code{Kind: CodeNone}
	}
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return Code{Kind: CodeMalformed}
	}
	id := raw[len(prefix):]
	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return Code{Kind: CodeMalformed}
	}
	if id == selfID {
		return Code{Kind: CodeSelfReference}
	}
	return Code{Kind: CodeValid, ReferrerID: id}
}

func FormatCode(prefix, userID string) string {
	return prefix + userID
}
