package signature

import "testing"

func TestOf_StableAndSensitive(t *testing.T) {
	t.Parallel()

	a := Of("Title", "Summary", "Details")
	if len(a) != Len {
		t.Fatalf("len = %d, want %d", len(a), Len)
	}
	if b := Of("Title", "Summary", "Details"); a != b {
		t.Fatalf("signature not stable: %q vs %q", a, b)
	}
	if c := Of("Title", "Summary", "Details!"); a == c {
		t.Fatal("signature ignored a details change")
	}
	// field boundaries matter
	if Of("ab", "c", "") == Of("a", "bc", "") {
		t.Fatal("signature collided across field boundaries")
	}
}

func TestTagRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		model, sig, want string
	}{
		{"llm", "abc", "llm;sig=abc"},
		{"", "abc", "sig=abc"},
		{"llm", "", "llm"},
	}
	for _, tc := range cases {
		got := Tag(tc.model, tc.sig)
		if got != tc.want {
			t.Fatalf("Tag(%q,%q) = %q, want %q", tc.model, tc.sig, got, tc.want)
		}
		if FromTag(got) != tc.sig {
			t.Fatalf("FromTag(%q) = %q, want %q", got, FromTag(got), tc.sig)
		}
	}
	if FromTag("gpt-4o-mini; sig=ff00 ;x=1") != "ff00" {
		t.Fatal("FromTag should tolerate spaces around parts")
	}
}
