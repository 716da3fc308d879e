package entity

import "strings"

// ParseIDList splits a comma-delimited id list into individual ids.
// Tokens are trimmed of surrounding whitespace and empty tokens are
// discarded. Order is preserved; duplicates are not removed.
func ParseIDList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ids = append(ids, tok)
	}
	return ids
}

// JoinIDList renders ids back into the comma-delimited storage form.
func JoinIDList(ids []string) string {
	return strings.Join(ids, ",")
}

// ContainsID reports whether the comma-delimited list contains id as an
// exact token. Matching is case-sensitive after whitespace trimming.
func ContainsID(list, id string) bool {
	for _, tok := range ParseIDList(list) {
		if tok == id {
			return true
		}
	}
	return false
}

// AppendID appends id to the comma-delimited list unless it is already
// present as an exact token. It returns the resulting list and whether the
// id was appended. Repeated appends of the same id never grow the list.
func AppendID(list, id string) (string, bool) {
	ids := ParseIDList(list)
	for _, tok := range ids {
		if tok == id {
			return JoinIDList(ids), false
		}
	}
	return JoinIDList(append(ids, id)), true
}
