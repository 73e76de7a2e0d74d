package imagecache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jmylchreest/swatch/internal/security"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{url: "https://example.com/photo.PNG", wantExt: ".png"},
		{url: "https://example.com/photo.webp?size=large", wantExt: ".webp"},
		{url: "https://example.com/photo", wantExt: ".jpg"},
		{url: "https://example.com/archive.backup", wantExt: ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Filename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename() = %q, want extension %s", got, tt.wantExt)
			}
			if len(got) != 32+len(tt.wantExt) {
				t.Errorf("Filename() = %q, want 32 hex digits plus extension", got)
			}
			if Filename(tt.url) != got {
				t.Error("Filename() is not deterministic")
			}
		})
	}

	if Filename("https://example.com/a.png") == Filename("https://example.com/b.png") {
		t.Error("Filename() collides for different URLs")
	}
}

func TestImport(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("photo"))
	}))
	defer server.Close()

	dir := t.TempDir()
	opts := Options{
		Dir:    dir,
		Policy: security.URLPolicy{AllowHTTP: true, AllowPrivateHosts: true},
	}
	url := server.URL + "/photo.png"

	path, err := Import(context.Background(), url, opts)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Base(path) != Filename(url) {
		t.Errorf("Import() = %s, want %s", path, filepath.Join(dir, Filename(url)))
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "photo" {
		t.Errorf("imported file = %q, %v, want photo", data, err)
	}
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Error("partial download left behind")
	}

	if _, err := Import(context.Background(), url, opts); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 after reusing the import", hits.Load())
	}

	opts.Overwrite = true
	if _, err := Import(context.Background(), url, opts); err != nil {
		t.Fatalf("Import() with Overwrite error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 after overwrite", hits.Load())
	}
}

func TestImportRejects(t *testing.T) {
	dir := t.TempDir()

	if _, err := Import(context.Background(), "/local/photo.png", Options{Dir: dir}); !errors.Is(err, ErrNotRemote) {
		t.Errorf("Import(local path) error = %v, want ErrNotRemote", err)
	}
	if _, err := Import(context.Background(), "http://127.0.0.1/photo.png", Options{Dir: dir}); err == nil {
		t.Error("Import() of a private http URL succeeded with the default policy")
	}
}
