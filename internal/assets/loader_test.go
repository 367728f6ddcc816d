package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplate(t *testing.T, base, name, content string) {
	t.Helper()

	dir := filepath.Join(base, "templates")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create templates dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"iframe", false},
		{"my-page_2", false},
		{"", true},
		{"a/b", true},
		{`a\b`, true},
		{"..", true},
		{"iframe.html", true},
		{"-iframe", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error = %v", tt.input, err)
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	got, err := loader.LoadTemplate(IframeTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(got, "{{.ID}}") {
		t.Error("iframe template should reference the leaf ID")
	}

	if _, err := loader.LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := loader.LoadTemplate("../iframe"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(../iframe) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid directory", path: tmpDir},
		{name: "empty path", path: "", wantErr: true},
		{name: "nonexistent directory", path: filepath.Join(tmpDir, "missing"), wantErr: true},
		{name: "file instead of directory", path: filePath, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if tt.wantErr && !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewFilesystemLoader(%q) unexpected error = %v", tt.path, err)
			}
		})
	}
}

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeTemplate(t, base, "iframe", "custom {{.ID}}")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.LoadTemplate("iframe")
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if got != "custom {{.ID}}" {
		t.Errorf("LoadTemplate() = %q", got)
	}

	if _, err := loader.LoadTemplate("other"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(other) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.html")
	if err := os.WriteFile(secret, []byte("secret"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(base, "templates"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.Symlink(secret, filepath.Join(base, "templates", "evil.html")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadTemplate("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadTemplate(evil) error = %v, want ErrPathTraversal", err)
	}
}

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("HasCustomLoader() = true, want false")
		}
		if _, err := r.LoadTemplate(IframeTemplateName); err != nil {
			t.Errorf("LoadTemplate() error = %v", err)
		}
	})

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		writeTemplate(t, base, IframeTemplateName, "override")

		r, err := NewAssetResolver(base)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		got, err := r.LoadTemplate(IframeTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != "override" {
			t.Errorf("LoadTemplate() = %q, want override", got)
		}
	})

	t.Run("falls back when custom lacks template", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		got, err := r.LoadTemplate(IframeTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if !strings.Contains(got, "iFrameResize") {
			t.Error("expected the embedded iframe template")
		}
	})

	t.Run("invalid base path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewAssetResolver("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}
