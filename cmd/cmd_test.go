package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/plycrop/ply"
)

// isolate keeps user configuration out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	homedir.DisableCache = true
	t.Setenv("HOME", home)
	for _, k := range []string{"PLYCROP_CONFIG", "PLYCROP_SAMPLE_SIZE", "PLYCROP_CHUNK_SIZE", "PLYCROP_VERBOSE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOutput(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// writeGrid writes n^3 points on an integer grid from 0 to n-1.
func writeGrid(t *testing.T, n int) string {
	t.Helper()
	fields := []ply.FieldSpec{
		{Type: ply.Float, Name: "x"}, {Type: ply.Float, Name: "y"}, {Type: ply.Float, Name: "z"},
		{Type: ply.Uchar, Name: "red"},
	}
	var recs []ply.Record
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				recs = append(recs, ply.Record{float64(x), float64(y), float64(z), float64(x * 10)})
			}
		}
	}
	path := filepath.Join(t.TempDir(), "grid.ply")
	require.NoError(t, ply.WriteFile(path, fields, recs, []string{"test grid"}))
	return path
}

func TestAnalyze(t *testing.T) {
	isolate(t)
	in := writeGrid(t, 5)

	out, err := run(t, "analyze", in)
	require.NoError(t, err)
	assert.Contains(t, out, "from 125 sample points")
	assert.Contains(t, out, "X range: [0.000, 4.000] (range: 4.000)")
	assert.Contains(t, out, "Center: (2.000, 2.000, 2.000)")

	t.Run("YAML", func(t *testing.T) {
		out, err := run(t, "analyze", in, "--output", "yaml", "--sample-size", "5")
		require.NoError(t, err)
		var r analysisReport
		require.NoError(t, yaml.Unmarshal([]byte(out), &r))
		assert.Equal(t, "binary_little_endian", r.Format)
		assert.Equal(t, "1.0", r.Version)
		assert.Equal(t, []string{"test grid"}, r.Comments)
		assert.Equal(t, 125, r.Vertices)
		assert.Equal(t, 5, r.Samples)
		assert.Equal(t, []float64{0, 0, 0}, r.Min)
		assert.Len(t, r.Fields, 4)
		assert.Equal(t, fieldReport{Name: "red", Type: "uchar"}, r.Fields[3])
	})
	t.Run("UnknownOutput", func(t *testing.T) {
		_, err := run(t, "analyze", in, "--output", "json")
		assert.Error(t, err)
	})
	t.Run("Malformed", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.ply")
		require.NoError(t, os.WriteFile(bad, []byte("ply\nformat binary_little_endian 1.0\n"), 0644))
		_, err := run(t, "analyze", bad)
		assert.ErrorIs(t, err, ply.ErrMalformedHeader)
	})
}

func TestAnalyze_Config(t *testing.T) {
	home := isolate(t)
	in := writeGrid(t, 5)

	t.Run("DefaultPath", func(t *testing.T) {
		dir := filepath.Join(home, ".plycrop")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sample_size: 3\n"), 0644))
		defer os.RemoveAll(dir)

		out, err := run(t, "analyze", in)
		require.NoError(t, err)
		assert.Contains(t, out, "from 3 sample points")
	})
	t.Run("FlagOverridesEnv", func(t *testing.T) {
		t.Setenv("PLYCROP_SAMPLE_SIZE", "7")
		out, err := run(t, "analyze", in)
		require.NoError(t, err)
		assert.Contains(t, out, "from 7 sample points")

		out, err = run(t, "analyze", in, "--sample-size", "9")
		require.NoError(t, err)
		assert.Contains(t, out, "from 9 sample points")
	})
	t.Run("ExplicitFile", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "plycrop.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("sample_size: 4\n"), 0644))
		out, err := run(t, "analyze", in, "--config", cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "from 4 sample points")
	})
	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := run(t, "analyze", in, "--config", filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}

func TestCrop(t *testing.T) {
	isolate(t)
	in := writeGrid(t, 5)

	testCases := map[string]struct {
		args             []string
		expectedRetained int
	}{
		"Explicit": {
			args:             []string{"--x-min", "1", "--x-max", "2", "--y-min", "0", "--y-max", "4", "--z-min", "0", "--z-max", "0"},
			expectedRetained: 2 * 5 * 1,
		},
		"PartialAxis": {
			args:             []string{"--x-min", "3", "--x-max", "10"},
			expectedRetained: 2 * 5 * 5,
		},
		"CenterCrop": {
			args:             []string{"--center-crop", "0.5"},
			expectedRetained: 3 * 3 * 3,
		},
		"Interactive": {
			args:             []string{"--interactive", "--chunk-size", "7"},
			expectedRetained: 3 * 3 * 3,
		},
		"NoRanges": {
			expectedRetained: 125,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "out.ply")
			out, err := run(t, append([]string{"crop", in, dst}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, "Original vertices: 125")

			f, err := ply.Open(dst)
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, tt.expectedRetained, f.Len())
		})
	}
}

func TestCrop_Errors(t *testing.T) {
	isolate(t)
	in := writeGrid(t, 3)

	testCases := map[string]struct {
		args []string
		err  error
	}{
		"MissingMax": {
			args: []string{"--x-min", "0"},
		},
		"MissingMin": {
			args: []string{"--z-max", "0"},
		},
		"CenterAndInteractive": {
			args: []string{"--center-crop", "0.5", "--interactive"},
		},
		"RangesAndCenter": {
			args: []string{"--center-crop", "0.5", "--x-min", "0", "--x-max", "1"},
		},
		"InvalidRatio": {
			args: []string{"--center-crop", "2"},
			err:  ply.ErrInvalidRatio,
		},
		"ZeroChunk": {
			args: []string{"--chunk-size", "0"},
		},
		"EmptyResult": {
			args: []string{"--x-min", "10", "--x-max", "20"},
			err:  ply.ErrEmptyResult,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "out.ply")
			_, err := run(t, append([]string{"crop", in, dst}, tt.args...)...)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			_, statErr := os.Stat(dst)
			assert.True(t, os.IsNotExist(statErr), "output must not be written")
		})
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := run(t, "version", "--clean")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
