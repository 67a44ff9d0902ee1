package validator

import (
	"regexp"
	"strings"

	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/payload"
)

var (
	reservedNamePattern = regexp.MustCompile(`^(?i)(con|prn|aux|nul|com[1-9]|lpt[1-9])$`)
	invalidCharsPattern = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Validator checks route and snapshot names before they become directories.
type Validator struct{}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{}
}

// ValidateName reports whether name can be used as a route or snapshot
// directory on every platform the game ships on.
//
// The function checks for:
//   - Empty names or whitespace-only names
//   - Dot navigation (. or ..) and hidden names starting with a dot
//   - Null bytes
//   - Non-printable ASCII characters
//   - Invalid filesystem characters (<>:"/\|?*)
//   - Reserved Windows filenames (CON, PRN, AUX, NUL, COM1-9, LPT1-9)
//   - Payload filenames, which would clash with the files stored next to
//     child snapshots
//
// Every returned error matches domain.ErrInvalidInput.
func (v *Validator) ValidateName(name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 {
		return false, domain.ErrNameEmpty
	}
	if trimmed == "." || trimmed == ".." {
		return false, domain.ErrNameDot
	}
	if strings.HasPrefix(trimmed, ".") {
		return false, domain.ErrNameLeadingDot
	}
	if strings.ContainsRune(trimmed, 0) {
		return false, domain.ErrNameNullByte
	}
	for _, r := range trimmed {
		if r < 0x20 || r >= 0x7f {
			return false, domain.ErrNameNonPrintable
		}
	}
	if invalidCharsPattern.MatchString(trimmed) {
		return false, domain.ErrNameInvalidChars
	}
	if reservedNamePattern.MatchString(trimmed) {
		return false, domain.ErrNameReserved
	}
	if payload.IsPayloadName(trimmed) {
		return false, domain.ErrNamePayload
	}
	return true, nil
}

// NormalizeName trims whitespace and validates the name.
func (v *Validator) NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if ok, err := v.ValidateName(trimmed); !ok {
		return "", err
	}
	return trimmed, nil
}
