package validator

// Route and snapshot names become directories under the routes root, so
// these tests guard against traversal (., .., /, \), control characters
// and names Windows refuses to create.

import (
	"errors"
	"testing"

	"github.com/example/hades-route-manager/internal/routes/domain"
)

func TestValidateName_ValidNames(t *testing.T) {
	v := New()

	validNames := []string{
		"RunA",
		"Boss1",
		"Tartarus - Meg",
		"heat_32",
		"v1.2.3",
		"Asphodel.after-hydra",
		"  padded  ",
		"Exit.",
		"Profile1",
		"Profile1.sav.bak",
	}

	for _, name := range validNames {
		t.Run(name, func(t *testing.T) {
			valid, err := v.ValidateName(name)
			if !valid || err != nil {
				t.Errorf("expected valid for %q, got valid=%v err=%v", name, valid, err)
			}
		})
	}
}

func TestValidateName_Rejections(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty string", "", domain.ErrNameEmpty},
		{"only spaces", "   ", domain.ErrNameEmpty},
		{"only tab", "\t", domain.ErrNameEmpty},
		{"single dot", ".", domain.ErrNameDot},
		{"double dot", "..", domain.ErrNameDot},
		{"null byte", "Run\x00A", domain.ErrNameNullByte},
		{"control char", "Run\x01A", domain.ErrNameNonPrintable},
		{"delete char", "Run\x7fA", domain.ErrNameNonPrintable},
		{"unicode", "Hadès", domain.ErrNameNonPrintable},
		{"forward slash", "Run/A", domain.ErrNameInvalidChars},
		{"backslash", `Run\A`, domain.ErrNameInvalidChars},
		{"colon", "Run:A", domain.ErrNameInvalidChars},
		{"question mark", "Run?", domain.ErrNameInvalidChars},
		{"reserved CON", "CON", domain.ErrNameReserved},
		{"reserved lowercase", "lpt1", domain.ErrNameReserved},
		{"reserved COM9", "COM9", domain.ErrNameReserved},
		{"hidden", ".RunA", domain.ErrNameLeadingDot},
		{"leading dots", "...", domain.ErrNameLeadingDot},
		{"primary save", "Profile1.sav", domain.ErrNamePayload},
		{"temp save", "Profile3_Temp.sav", domain.ErrNamePayload},
		{"v save lowercase", "profile2.v.sav", domain.ErrNamePayload},
		{"descriptor", "PROFILE0.SJSON", domain.ErrNamePayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := v.ValidateName(tt.input)
			if valid {
				t.Fatalf("expected invalid for %q", tt.input)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected error to match ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateName_ReservedPrefixesAllowed(t *testing.T) {
	v := New()
	for _, name := range []string{"CONSOLE", "COM10", "LPT0", "auxiliary"} {
		if ok, err := v.ValidateName(name); !ok {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	v := New()

	got, err := v.NormalizeName("  Boss1 \t")
	if err != nil {
		t.Fatalf("NormalizeName: %v", err)
	}
	if got != "Boss1" {
		t.Errorf("expected trimmed name, got %q", got)
	}

	if _, err := v.NormalizeName("a/b"); !errors.Is(err, domain.ErrNameInvalidChars) {
		t.Errorf("expected ErrNameInvalidChars, got %v", err)
	}
}
