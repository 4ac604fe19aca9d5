package analyze

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"csi/archive"
	"csi/bcd"
	"csi/config"
	"csi/state"
)

const testDataPath = "../bcd/testdata/data.json"

func testConfig() *config.Config {
	return &config.Config{
		Version: 1,
		Analysis: config.AnalysisConfig{
			Language:   "en",
			Workers:    2,
			Extensions: []string{".css", ".html", ".htm", ".xhtml"},
		},
	}
}

func newTestEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	kb, err := bcd.LoadFile(testDataPath, zap.NewNop())
	if err != nil {
		t.Fatalf("unable to load test data: %v", err)
	}
	return &state.LocalEnv{
		Cfg:      testConfig(),
		Log:      zap.NewNop(),
		KB:       kb,
		Format:   config.OutputFmtText,
		Language: language.English,
	}
}

func newTestDiscoverer() *discoverer {
	return &discoverer{
		filter: archive.Extensions(testConfig().Analysis.Extensions...),
		log:    zap.NewNop(),
	}
}

// writeFiles creates files under dir, names use forward slashes.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// writeZip creates archive with entries in the given order.
func writeZip(t *testing.T, p string, entries ...[2]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := zip.NewWriter(f)
	for _, e := range entries {
		fw, err := w.Create(e[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(e[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func sourceNames(sources []source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.name)
	}
	return names
}
