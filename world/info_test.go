package world

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestInfoSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "info.json")

	want := NewInfo("overworld", 1234, mgl64.Vec3{1, 64, -2})
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadInfo(path)
	if err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}
	if got != want {
		t.Fatalf("LoadInfo() = %+v, want %+v", got, want)
	}
}

func TestLoadInfoMissingReportsNotExist(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadInfo(filepath.Join(dir, "info.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadInfo err = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadInfoRejectsIncompatibleMajorVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "info.json")
	info := NewInfo("overworld", 1, mgl64.Vec3{})
	info.Version = "v2.0.0"
	if err := info.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := LoadInfo(path)
	if !errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("LoadInfo err = %v, want ErrIncompatibleVersion", err)
	}
}
