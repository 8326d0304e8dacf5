package canonicalize

import "golang.org/x/text/unicode/norm"

// NormalizeStrings walks a JSON-decoded value (as produced by json.Decoder
// with UseNumber) and NFC-normalizes every string it finds, in place for
// maps and slices. Two manifests that differ only in Unicode representation
// (e.g. a display name typed with a precomposed accent on one editor and a
// combining-mark sequence on another) must hash identically; JCS alone does
// not guarantee this since RFC 8785 is silent on Unicode normalization.
func NormalizeStrings(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return norm.NFC.String(t)
	case []interface{}:
		for i, elem := range t {
			t[i] = NormalizeStrings(elem)
		}
		return t
	case map[string]interface{}:
		for k, val := range t {
			t[k] = NormalizeStrings(val)
		}
		return t
	default:
		return v
	}
}
