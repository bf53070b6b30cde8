package io

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

func TestProfilesYAMLRepository_GetProfiles(t *testing.T) {
	defaults := tracker.DefaultProfiles()

	tests := map[string]struct {
		fs          fstest.MapFS
		path        string
		expProfiles func() map[model.Kind]tracker.Profile
		expErr      bool
	}{
		"An empty file should return the default profiles.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte("---\n")},
			},
			path:        "profiles.yaml",
			expProfiles: tracker.DefaultProfiles,
		},

		"A full profile should override the default one.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  analysis:
    tick_interval: 250ms
    max_increment: 5
    finalize_after: 10s
    saturation: display
`)},
			},
			path: "profiles.yaml",
			expProfiles: func() map[model.Kind]tracker.Profile {
				p := tracker.DefaultProfiles()
				p[model.KindAnalysis] = tracker.Profile{
					TickInterval:  250 * time.Millisecond,
					MaxIncrement:  5,
					FinalizeAfter: 10 * time.Second,
					Saturation:    tracker.SaturationDisplay,
				}
				return p
			},
		},

		"A partial profile should keep the default missing fields.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  repository-scan:
    finalize_after: 1s
  code-quality:
    saturation: finalize
`)},
			},
			path: "profiles.yaml",
			expProfiles: func() map[model.Kind]tracker.Profile {
				p := tracker.DefaultProfiles()
				rs := p[model.KindRepositoryScan]
				rs.FinalizeAfter = time.Second
				p[model.KindRepositoryScan] = rs
				cq := p[model.KindCodeQuality]
				cq.Saturation = tracker.SaturationFinalize
				p[model.KindCodeQuality] = cq
				return p
			},
		},

		"An unknown kind should fail.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  lint:
    finalize_after: 1s
`)},
			},
			path:   "profiles.yaml",
			expErr: true,
		},

		"An invalid duration should fail.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  scan:
    tick_interval: often
`)},
			},
			path:   "profiles.yaml",
			expErr: true,
		},

		"An invalid resulting profile should fail.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  scan:
    max_increment: 0
`)},
			},
			path:   "profiles.yaml",
			expErr: true,
		},

		"An unknown saturation mode should fail.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte(`
profiles:
  scan:
    saturation: overflow
`)},
			},
			path:   "profiles.yaml",
			expErr: true,
		},

		"Invalid YAML should fail.": {
			fs: fstest.MapFS{
				"profiles.yaml": &fstest.MapFile{Data: []byte("profiles: [\n")},
			},
			path:   "profiles.yaml",
			expErr: true,
		},

		"A missing file should fail.": {
			fs:     fstest.MapFS{},
			path:   "profiles.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewProfilesYAMLRepository(test.fs)
			got, err := repo.GetProfiles(context.Background(), test.path)

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expProfiles(), got)
			assert.Len(got, len(defaults))
		})
	}
}
