package paths

import "path/filepath"

// PathBuilder resolves the directories the route manager works with.
type PathBuilder struct {
	routesRoot string
	saveDir    string
	backupDir  string
}

// New creates a new PathBuilder.
func New(routesRoot, saveDir, backupDir string) *PathBuilder {
	return &PathBuilder{
		routesRoot: filepath.Clean(routesRoot),
		saveDir:    filepath.Clean(saveDir),
		backupDir:  filepath.Clean(backupDir),
	}
}

// RoutesRoot returns the directory whose children are routes.
func (p *PathBuilder) RoutesRoot() string {
	return p.routesRoot
}

// RoutePath returns the directory of the named route.
func (p *PathBuilder) RoutePath(name string) string {
	return filepath.Join(p.routesRoot, name)
}

// SaveDir returns the game's live save directory.
func (p *PathBuilder) SaveDir() string {
	return p.saveDir
}

// LiveFile returns the path of a file inside the live save directory.
func (p *PathBuilder) LiveFile(name string) string {
	return filepath.Join(p.saveDir, name)
}

// BackupDir returns the directory where overwritten live files are kept.
func (p *PathBuilder) BackupDir() string {
	return p.backupDir
}
