package models

import (
	"fmt"
	"strings"
	"time"
)

// Exhibit designates exactly one record as a legal exhibit. Codes are
// allocated sequentially per owner and never reused, even after removal.
type Exhibit struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	OwnerUserID string    `json:"owner_user_id"`
	ExhibitCode string    `json:"exhibit_code"`
	Label       string    `json:"label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExhibitCodeForIndex converts a zero-based index to a spreadsheet-column
// style code: 0 -> "A", 25 -> "Z", 26 -> "AA", 27 -> "AB". This is bijective
// base-26, not plain positional base-26: each code has exactly one index.
func ExhibitCodeForIndex(index int) string {
	var b []byte
	n := index
	for n >= 0 {
		b = append([]byte{byte('A' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

// ExhibitCodeIndex converts a code back to its zero-based index.
func ExhibitCodeIndex(code string) (int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, fmt.Errorf("exhibit code is required")
	}
	index := 0
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid exhibit code: %s", code)
		}
		index = index*26 + int(r-'A'+1)
	}
	return index - 1, nil
}

// CompareExhibitCodes orders codes by allocation order: shorter codes come
// first, equal lengths compare lexicographically ("Z" < "AA" < "AB").
func CompareExhibitCodes(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
