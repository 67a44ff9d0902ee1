package paths

import (
	"path/filepath"
	"testing"
)

func TestPathBuilder(t *testing.T) {
	p := New("Routes/", "/saves/Hades", "/data/hrm/backups")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"routes root", p.RoutesRoot(), "Routes"},
		{"route path", p.RoutePath("RunA"), filepath.Join("Routes", "RunA")},
		{"save dir", p.SaveDir(), filepath.Clean("/saves/Hades")},
		{"live file", p.LiveFile("Profile1.sav"), filepath.Join("/saves/Hades", "Profile1.sav")},
		{"backup dir", p.BackupDir(), filepath.Clean("/data/hrm/backups")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}
}
