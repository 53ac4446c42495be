package world

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// Layout names the fixed subdirectories of a world directory, per §6:
// Chunks/ (codec-owned, only used by chunkio.FileCodec), Blobs/ (opaque
// application-owned binary blobs, e.g. cached meshes), Scripts/ (NFC
// normalized .txt files) and Debug/ (diagnostic dumps, never read back by
// the engine).
type Layout struct {
	Root string
}

func (l Layout) Chunks() string  { return filepath.Join(l.Root, "Chunks") }
func (l Layout) Blobs() string   { return filepath.Join(l.Root, "Blobs") }
func (l Layout) Scripts() string { return filepath.Join(l.Root, "Scripts") }
func (l Layout) Debug() string   { return filepath.Join(l.Root, "Debug") }

func (l Layout) infoPath() string { return filepath.Join(l.Root, "info.json") }

// EnsureDirs creates every Layout subdirectory (and the root itself) if
// absent.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.Root, l.Chunks(), l.Blobs(), l.Scripts(), l.Debug()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("world: create %s: %w", dir, err)
		}
	}
	return nil
}

// ScriptPath returns the on-disk path for a script named name, after
// normalizing name to Unicode NFC so two visually identical names (e.g.
// combining-diacritic vs precomposed forms) always resolve to the same
// file instead of silently diverging.
func (l Layout) ScriptPath(name string) string {
	return filepath.Join(l.Scripts(), norm.NFC.String(name)+".txt")
}

// WriteScript writes contents to the script named name, creating the
// Scripts directory if necessary.
func (l Layout) WriteScript(name, contents string) error {
	if err := os.MkdirAll(l.Scripts(), 0o755); err != nil {
		return fmt.Errorf("world: create scripts dir: %w", err)
	}
	if err := os.WriteFile(l.ScriptPath(name), []byte(contents), 0o644); err != nil {
		return fmt.Errorf("world: write script %s: %w", name, err)
	}
	return nil
}

// ReadScript reads the script named name.
func (l Layout) ReadScript(name string) (string, error) {
	data, err := os.ReadFile(l.ScriptPath(name))
	if err != nil {
		return "", fmt.Errorf("world: read script %s: %w", name, err)
	}
	return string(data), nil
}
