package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// SocketName is the daemon socket's file name inside Dir.
const SocketName = "curtain.sock"

// Dir returns the directory holding the daemon socket: $XDG_RUNTIME_DIR,
// else /run/user/<uid>, else a private /tmp/curtain-runtime-<uid>.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if run := fmt.Sprintf("/run/user/%d", uid); isDir(run) {
		return run, nil
	}
	return privateDir(fmt.Sprintf("/tmp/curtain-runtime-%d", uid), uid)
}

// privateDir creates dir with mode 0700. An existing dir must belong to uid;
// its mode is tightened to 0700.
func privateDir(dir string, uid int) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to stat runtime dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("runtime dir %s is not a directory", dir)
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok && int(st.Uid) != uid {
		return "", fmt.Errorf("runtime dir %s is owned by uid %d", dir, st.Uid)
	}
	if info.Mode().Perm() != 0o700 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("failed to secure runtime dir: %w", err)
		}
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path. CURTAIN_SOCKET overrides it.
func SocketPath() (string, error) {
	if p := os.Getenv("CURTAIN_SOCKET"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SocketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
