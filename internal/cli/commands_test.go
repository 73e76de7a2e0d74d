package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/config"
)

func writeSolidPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{config.EnvColours, config.EnvTargets, config.EnvFilter, config.EnvSeed, config.EnvWorkers, config.EnvNoColour, config.EnvAllowLAN} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestBestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writeSolidPNG(t, path, color.NRGBA{R: 0xFF, A: 255})

	t.Run("hex", func(t *testing.T) {
		out, _, err := run(t, "best", path)
		if err != nil {
			t.Fatalf("best error = %v", err)
		}
		if out != "FF0000\n" {
			t.Errorf("best output = %q, want %q", out, "FF0000\n")
		}
	})

	t.Run("explain", func(t *testing.T) {
		out, _, err := run(t, "best", "--explain", path)
		if err != nil {
			t.Fatalf("best --explain error = %v", err)
		}
		if !strings.Contains(out, "rule") || !strings.Contains(out, "VIBRANT") {
			t.Errorf("best --explain output = %q, want the deciding rule", out)
		}
		if !strings.Contains(out, "overlay") {
			t.Errorf("best --explain output = %q, want the overlay colour", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "best", "-f", "json", path)
		if err != nil {
			t.Fatalf("best -f json error = %v", err)
		}
		var got struct {
			Hex  string `json:"hex"`
			Clip string `json:"clip"`
			Rule string `json:"rule"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if got.Hex != "#ff0000" || got.Clip != "FF0000" || got.Rule != "VIBRANT" {
			t.Errorf("best JSON = %+v, want #ff0000 / FF0000 / VIBRANT", got)
		}
	})

	t.Run("detail", func(t *testing.T) {
		out, _, err := run(t, "best", "--detail", path)
		if err != nil {
			t.Fatalf("best --detail error = %v", err)
		}
		if !strings.Contains(out, "#ff0000") || !strings.Contains(out, "body #") {
			t.Errorf("best --detail output = %q, want the swatch and text colours", out)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if _, _, err := run(t, "best", "-f", "xml", path); err == nil {
			t.Error("best -f xml succeeded")
		}
	})

	t.Run("missing image", func(t *testing.T) {
		if _, _, err := run(t, "best", filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("best of a missing image succeeded")
		}
	})
}

func TestCardCommand(t *testing.T) {
	dir := t.TempDir()
	writeSolidPNG(t, filepath.Join(dir, "red.png"), color.NRGBA{R: 0xFF, A: 255})
	writeSolidPNG(t, filepath.Join(dir, "blue.png"), color.NRGBA{B: 0xFF, A: 255})

	t.Run("text", func(t *testing.T) {
		out, _, err := run(t, "card", "--no-colour", dir)
		if err != nil {
			t.Fatalf("card error = %v", err)
		}
		if strings.Contains(out, "\033[") {
			t.Error("card --no-colour output contains ANSI sequences")
		}
		for _, want := range []string{"blue.png", "red.png", "LIGHT_VIBRANT (null)", "VIBRANT 64  (dominant)", "DOMINANT 64"} {
			if !strings.Contains(out, want) {
				t.Errorf("card output missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "blue.png") > strings.Index(out, "red.png") {
			t.Error("cards not in directory order")
		}
	})

	t.Run("json to file", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "cards.json")
		out, _, err := run(t, "card", "-f", "json", "-o", output, "--targets", "vibrant", dir)
		if err != nil {
			t.Fatalf("card -f json error = %v", err)
		}
		if out != "" {
			t.Errorf("stdout = %q, want nothing when writing to a file", out)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		var cards []struct {
			Name    string `json:"name"`
			Columns [2][]struct {
				Title string `json:"title"`
			} `json:"columns"`
		}
		if err := json.Unmarshal(data, &cards); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(cards) != 2 {
			t.Fatalf("cards = %d, want 2", len(cards))
		}
		// VIBRANT was requested, the light targets are always added after it.
		if got := cards[0].Columns[0][0].Title; got != "VIBRANT" {
			t.Errorf("first row = %s, want VIBRANT", got)
		}
	})

	t.Run("xz compressed json", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "cards.json.xz")
		if _, _, err := run(t, "card", "-f", "json", "-o", output, dir); err != nil {
			t.Fatalf("card -o cards.json.xz error = %v", err)
		}
		f, err := os.Open(output)
		if err != nil {
			t.Fatalf("failed to open output: %v", err)
		}
		defer f.Close()
		r, err := xz.NewReader(f)
		if err != nil {
			t.Fatalf("output is not xz: %v", err)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("failed to decompress output: %v", err)
		}
		if !json.Valid(data) || !strings.Contains(string(data), `"DOMINANT"`) {
			t.Errorf("decompressed output = %q, want card JSON", data)
		}
	})

	t.Run("invalid colours", func(t *testing.T) {
		if _, _, err := run(t, "card", "--colours", "0", dir); err == nil {
			t.Error("card --colours 0 succeeded")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if _, _, err := run(t, "card", filepath.Join(dir, "nope")); err == nil {
			t.Error("card with a missing path succeeded")
		}
	})
}

func TestSwatchesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "green.png")
	writeSolidPNG(t, path, color.NRGBA{G: 0xFF, A: 255})

	out, _, err := run(t, "swatches", "--no-colour", path)
	if err != nil {
		t.Fatalf("swatches error = %v", err)
	}
	if !strings.Contains(out, "#00ff00") || !strings.Contains(out, "VIBRANT,DOMINANT") {
		t.Errorf("swatches output = %q, want the swatch and its targets", out)
	}

	out, _, err = run(t, "swatches", "-f", "json", path)
	if err != nil {
		t.Fatalf("swatches -f json error = %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("swatches -f json output is not JSON: %q", out)
	}
}

func TestImportCommand(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{R: 0xFF, A: 255})
		}
	}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	dir := t.TempDir()
	out, _, err := run(t, "import", "--dir", dir, "--allow-private-hosts", "--no-colour", server.URL+"/photo.png")
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "VIBRANT 16") {
		t.Errorf("import output = %q, want the imported card", out)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Errorf("import dir has %d entries (%v), want 1", len(entries), err)
	}

	if _, _, err := run(t, "import", "--dir", dir, server.URL+"/photo.png"); err == nil {
		t.Error("import from a private host succeeded without --allow-private-hosts")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "swatch version ") {
		t.Errorf("version output = %q, want swatch version prefix", out)
	}
}

func TestVerboseLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writeSolidPNG(t, path, color.NRGBA{R: 0xFF, A: 255})

	_, errOut, err := run(t, "best", "-v", path)
	if err != nil {
		t.Fatalf("best -v error = %v", err)
	}
	if !strings.Contains(errOut, "best swatch selected") {
		t.Errorf("stderr = %q, want debug logs with --verbose", errOut)
	}

	_, errOut, err = run(t, "best", "-q", path)
	if err != nil {
		t.Fatalf("best -q error = %v", err)
	}
	if errOut != "" {
		t.Errorf("stderr = %q, want nothing with --quiet", errOut)
	}
}
