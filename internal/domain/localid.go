package domain

import (
	"encoding/json"
	"strings"
)

// LocalID is a model-assigned identifier, unique only within the document
// that produced it. Models emit these inconsistently as JSON numbers or
// strings; LocalID normalizes both to a trimmed decimal string so junction
// resolution can compare them reliably. It is never a join key on its own:
// lookups always pair it with the enclosing incident scope.
type LocalID string

// UnmarshalJSON accepts a JSON number, string, or null.
func (id *LocalID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = LocalID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = LocalID(n.String())
	return nil
}

func (id LocalID) String() string {
	return string(id)
}

// IsZero reports whether the id is absent or blank.
func (id LocalID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// SplitDelimited splits a semicolon-delimited list into trimmed, non-blank
// tokens.
func SplitDelimited(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// SplitLocalIDs splits a semicolon-delimited local-id list into trimmed,
// non-blank ids.
func SplitLocalIDs(s string) []LocalID {
	toks := SplitDelimited(s)
	ids := make([]LocalID, 0, len(toks))
	for _, tok := range toks {
		ids = append(ids, LocalID(tok))
	}
	return ids
}
