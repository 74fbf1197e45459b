package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_PrefersXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallsBackWithoutXDG(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	uid := os.Getuid()
	if got != fmt.Sprintf("/run/user/%d", uid) && got != fmt.Sprintf("/tmp/curtain-runtime-%d", uid) {
		t.Fatalf("Dir() = %q, want /run/user or /tmp fallback", got)
	}
}

func TestPrivateDir_CreatesAndTightens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rt")
	if _, err := privateDir(dir, os.Getuid()); err != nil {
		t.Fatalf("privateDir: %v", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if _, err := privateDir(dir, os.Getuid()); err != nil {
		t.Fatalf("privateDir on existing dir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o700 {
		t.Fatalf("mode = %v, want 0700", info.Mode().Perm())
	}
}

func TestPrivateDir_RejectsForeignOwner(t *testing.T) {
	if _, err := privateDir(t.TempDir(), os.Getuid()+1); err == nil {
		t.Fatalf("expected error for a directory owned by another uid")
	}
}

func TestPrivateDir_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := privateDir(path, os.Getuid()); err == nil {
		t.Fatalf("expected error for a non-directory")
	}
}

func TestSocketPath_UnderRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv("CURTAIN_SOCKET", "")

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, SocketName); got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
}

func TestSocketPath_EnvOverride(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("CURTAIN_SOCKET", "/tmp/custom.sock")

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if got != "/tmp/custom.sock" {
		t.Fatalf("SocketPath() = %q, want the CURTAIN_SOCKET value", got)
	}
}
