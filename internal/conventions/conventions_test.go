package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/scanboard/internal/conventions"
)

func TestPaths(t *testing.T) {
	tests := map[string]struct {
		path    func(home string) string
		home    string
		expPath string
	}{
		"DB path should be inside the data dir.": {
			path:    conventions.DBPath,
			home:    "/home/user",
			expPath: "/home/user/.scanboard/scanboard.db",
		},
		"Profiles path should be inside the data dir.": {
			path:    conventions.ProfilesPath,
			home:    "/home/user",
			expPath: "/home/user/.scanboard/profiles.yaml",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expPath, test.path(test.home))
		})
	}
}
