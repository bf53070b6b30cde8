package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default scanboard data directory name (relative to home).
	DefaultDataDir = ".scanboard"
	// DBFile is the history database filename.
	DBFile = "scanboard.db"
	// ProfilesFile is the optional kind profiles filename inside the data directory.
	ProfilesFile = "profiles.yaml"
)

// DBPath returns the history database path inside a home directory.
func DBPath(home string) string {
	return filepath.Join(home, DefaultDataDir, DBFile)
}

// ProfilesPath returns the profiles file path inside a home directory.
func ProfilesPath(home string) string {
	return filepath.Join(home, DefaultDataDir, ProfilesFile)
}
