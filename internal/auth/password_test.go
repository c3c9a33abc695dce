package auth

import "testing"

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Counsel.One", "counsel.one", false},
		{"  paralegal-2 ", "paralegal-2", false},
		{"", "", true},
		{"-leading", "", true},
		{"trailing.", "", true},
		{"has space", "", true},
		{"system", "", true},
		{"Admin", "", true},
		{"evault", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeUsername(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeUsername(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeUsername(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for short password")
	}

	hash, err := HashPassword("a-long-enough-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "a-long-enough-password") {
		t.Error("expected password to verify")
	}
	if VerifyPassword(hash, "the-wrong-password") {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword("", "anything") {
		t.Error("expected empty hash to fail")
	}
}
