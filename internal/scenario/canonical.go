package scenario

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for byte-stable golden
// comparison. Trace snapshots round-trip through this encoding, so two
// identical runs produce identical bytes.
//
// Constraints (vs standard json.Marshal):
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping (< > & pass through)
//  3. Strings NFC normalized at the serialization boundary
//  4. Floats and nulls are forbidden (returns error) - snapshot values are
//     pre-formatted to strings so float formatting never leaks in
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		marshalCanonicalString(buf, val)
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeysRFC8785(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			marshalCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString writes a canonical JSON string. NFC normalizes
// first, then escapes only what RFC 8785 requires: quote, backslash, and
// control characters (with the two-character forms where JSON defines them).
// No HTML escaping, and U+2028/U+2029 pass through unescaped.
func marshalCanonicalString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)

	buf.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// sortedKeysRFC8785 returns the map's keys in UTF-16 code unit order.
// Go's default string comparison orders by UTF-8 bytes, which diverges for
// characters above the BMP.
func sortedKeysRFC8785(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	if isASCII(a) && isASCII(b) {
		return bytes.Compare([]byte(a), []byte(b))
	}
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
