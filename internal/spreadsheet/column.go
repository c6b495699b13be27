package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ColumnLetter converts a 0-based column index to its letter address:
// 0 -> "A", 25 -> "Z", 26 -> "AA". Bijective base-26, so there is no zero
// digit and the carry works out as index+1 in each round.
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	n := index + 1
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// ColumnIndex is the inverse of ColumnLetter: "A" -> 0, "AA" -> 26.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column letters")
	}
	n := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column letters %q", letters)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n - 1, nil
}

// Ref is a parsed A1-style range fragment. Zero bounds mean "unbounded" on
// that side; columns are 0-based indexes, rows 1-based.
type Ref struct {
	StartRow, EndRow int // 0 = unbounded
	StartCol, EndCol int // -1 = unbounded
}

// ParseRef understands the small grammar the service actually uses:
// "" (whole sheet), "1:1", "7:7", "C2:C", "A1:K1000", "D7".
func ParseRef(ref string) (Ref, error) {
	out := Ref{StartCol: -1, EndCol: -1}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return out, nil
	}

	parts := strings.SplitN(ref, ":", 2)
	sc, sr, err := parseEndpoint(parts[0])
	if err != nil {
		return Ref{}, err
	}
	out.StartCol, out.StartRow = sc, sr

	if len(parts) == 1 {
		// Single cell: both bounds collapse onto it.
		if sc < 0 || sr == 0 {
			return Ref{}, fmt.Errorf("invalid cell ref %q", ref)
		}
		out.EndCol, out.EndRow = sc, sr
		return out, nil
	}

	ec, er, err := parseEndpoint(parts[1])
	if err != nil {
		return Ref{}, err
	}
	out.EndCol, out.EndRow = ec, er
	return out, nil
}

// parseEndpoint splits one endpoint like "C2", "C", or "7" into a column
// index (-1 if absent) and row number (0 if absent).
func parseEndpoint(s string) (col, row int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty range endpoint")
	}
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	col = -1
	if i > 0 {
		col, err = ColumnIndex(s[:i])
		if err != nil {
			return 0, 0, err
		}
	}
	row = 0
	if i < len(s) {
		row, err = strconv.Atoi(s[i:])
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid row in range endpoint %q", s)
		}
	}
	return col, row, nil
}
