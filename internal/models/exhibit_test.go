package models

import "testing"

func TestExhibitCodeForIndex(t *testing.T) {
	cases := []struct {
		index int
		code  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tc := range cases {
		if got := ExhibitCodeForIndex(tc.index); got != tc.code {
			t.Errorf("ExhibitCodeForIndex(%d) = %q, want %q", tc.index, got, tc.code)
		}
	}
}

func TestExhibitCodeRoundTrip(t *testing.T) {
	for n := 0; n < 20000; n++ {
		code := ExhibitCodeForIndex(n)
		back, err := ExhibitCodeIndex(code)
		if err != nil {
			t.Fatalf("decode %q: %v", code, err)
		}
		if back != n {
			t.Fatalf("round trip %d -> %q -> %d", n, code, back)
		}
	}
}

func TestExhibitCodeIndexInvalid(t *testing.T) {
	for _, code := range []string{"", "A1", "a-b", "Ä"} {
		if _, err := ExhibitCodeIndex(code); err == nil {
			t.Errorf("expected error for %q", code)
		}
	}
}

func TestCompareExhibitCodes(t *testing.T) {
	ordered := []string{"A", "B", "Z", "AA", "AB", "AZ", "BA", "ZZ", "AAA"}
	for i := 1; i < len(ordered); i++ {
		if CompareExhibitCodes(ordered[i-1], ordered[i]) >= 0 {
			t.Errorf("expected %q < %q", ordered[i-1], ordered[i])
		}
	}
	if CompareExhibitCodes("AA", "AA") != 0 {
		t.Error("expected AA == AA")
	}
}

func TestParseRecordStatus(t *testing.T) {
	if _, err := ParseRecordStatus("active"); err != nil {
		t.Errorf("lowercase active should parse: %v", err)
	}
	if _, err := ParseRecordStatus("deleted"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParseChangeType(t *testing.T) {
	for _, raw := range []string{"ADDED", "modified", "System"} {
		if _, err := ParseChangeType(raw); err != nil {
			t.Errorf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParseChangeType("DELETED"); err == nil {
		t.Error("expected error for unknown change type")
	}
}
