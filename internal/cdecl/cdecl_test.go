package cdecl

import "testing"

func TestSanitizeIdent_LeadingDigitEscaped(t *testing.T) {
	got := SanitizeIdent("0x1000")
	if got[0] != '_' {
		t.Fatalf("SanitizeIdent(%q) = %q, want leading underscore", "0x1000", got)
	}
}

func TestSanitizeIdent_ReplacesInvalidChars(t *testing.T) {
	got := SanitizeIdent("foo.bar$baz")
	want := "foo_bar_baz"
	if got != want {
		t.Fatalf("SanitizeIdent = %q, want %q", got, want)
	}
}

func TestSanitizeIdent_NFCNormalizes(t *testing.T) {
	// decomposed spells "cafe" with a trailing combining acute accent
	// (U+0065 U+0301, NFD); precomposed spells it with a single precomposed
	// codepoint (U+00E9, NFC). Both must sanitize identically.
	decomposed := "café"
	precomposed := "café"
	if SanitizeIdent(decomposed) != SanitizeIdent(precomposed) {
		t.Fatalf("expected NFD and NFC forms to sanitize identically: %q vs %q",
			SanitizeIdent(decomposed), SanitizeIdent(precomposed))
	}
}

func TestModel_DeclareFunc_RejectsDuplicate(t *testing.T) {
	m := NewModel()
	m.DeclareFunc("foo", nil, Void())

	defer func() {
		if recover() == nil {
			t.Fatal("expected a fault when redeclaring a function name")
		}
	}()
	m.DeclareFunc("foo", nil, Void())
}

func TestModel_MustAbort_IsLazyAndStable(t *testing.T) {
	m := NewModel()
	a := m.MustAbort()
	b := m.MustAbort()
	if a != b {
		t.Fatal("expected MustAbort to return the same declaration on repeated calls")
	}
}

func TestCType_Equal(t *testing.T) {
	if !UnsignedInt(32).Equal(UnsignedInt(32)) {
		t.Fatal("expected identical unsigned ints to be equal")
	}
	if UnsignedInt(32).Equal(SignedInt(32)) {
		t.Fatal("expected signedness mismatch to break equality")
	}
	if !PointerTo(UnsignedInt(8)).Equal(CharPointer()) {
		t.Fatal("expected PointerTo(u8) to equal CharPointer()")
	}
}

func TestCType_String(t *testing.T) {
	if got := UnsignedInt(32).String(); got != "uint32_t" {
		t.Errorf("UnsignedInt(32).String() = %q, want %q", got, "uint32_t")
	}
	if got := SignedInt(32).String(); got != "int32_t" {
		t.Errorf("SignedInt(32).String() = %q, want %q", got, "int32_t")
	}
}
