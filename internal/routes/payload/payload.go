// Package payload names the fixed set of files that make up one game state.
package payload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/example/hades-route-manager/internal/routes/domain"
)

// SavePattern matches the primary save file of a numbered profile.
const SavePattern = "Profile[0-9].sav"

// CheckpointLine is removed from the descriptor after a load so the game
// accepts the restored state as a valid checkpoint.
const CheckpointLine = "  ValidCheckpoint = false\n"

var (
	saveGlob    = glob.MustCompile(SavePattern)
	payloadGlob = glob.MustCompile("profile[0-9]{.sav,_temp.sav,.v.sav,.sjson}")
)

// Files holds every well-known filename of one profile.
type Files struct {
	Digit      int
	Save       string
	Temp       string
	V          string
	Descriptor string
}

// ForDigit returns the payload filenames for profile digit d.
func ForDigit(d int) (Files, error) {
	if d < 0 || d > 9 {
		return Files{}, fmt.Errorf("%w: profile digit %d out of range", domain.ErrInvalidInput, d)
	}
	base := "Profile" + strconv.Itoa(d)
	return Files{
		Digit:      d,
		Save:       base + ".sav",
		Temp:       base + "_Temp.sav",
		V:          base + ".v.sav",
		Descriptor: base + ".sjson",
	}, nil
}

// FromSaveName derives the payload filenames from a primary save filename
// such as "Profile1.sav".
func FromSaveName(name string) (Files, error) {
	if !IsSaveName(name) {
		return Files{}, fmt.Errorf("%w: %q is not a profile save file", domain.ErrInvalidInput, name)
	}
	return ForDigit(int(name[len("Profile")] - '0'))
}

// IsSaveName reports whether name is a primary save filename.
func IsSaveName(name string) bool {
	return saveGlob.Match(name)
}

// IsPayloadName reports whether name is any payload filename, ignoring case
// since the game's platforms use case-insensitive filesystems.
func IsPayloadName(name string) bool {
	return payloadGlob.Match(strings.ToLower(name))
}

// Companions returns the files stored in a non-root snapshot, in copy order.
func (f Files) Companions() []string {
	return []string{f.Temp, f.V}
}
