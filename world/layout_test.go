package world

import (
	"os"
	"testing"
)

func TestLayoutEnsureDirs(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	if err := l.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{l.Root, l.Chunks(), l.Blobs(), l.Scripts(), l.Debug()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s exists but is not a directory", dir)
		}
	}
}

func TestScriptPathNormalizesToNFC(t *testing.T) {
	l := Layout{Root: t.TempDir()}

	// "e" + combining acute accent (NFD) should resolve to the same path as
	// the precomposed "é" (NFC).
	nfd := "café"
	nfc := "café"

	if l.ScriptPath(nfd) != l.ScriptPath(nfc) {
		t.Fatalf("ScriptPath(%q) = %q, want equal to ScriptPath(%q) = %q", nfd, l.ScriptPath(nfd), nfc, l.ScriptPath(nfc))
	}
}

func TestWriteReadScriptRoundTrip(t *testing.T) {
	l := Layout{Root: t.TempDir()}
	if err := l.WriteScript("hello", "print('hi')"); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	got, err := l.ReadScript("hello")
	if err != nil {
		t.Fatalf("ReadScript: %v", err)
	}
	if got != "print('hi')" {
		t.Fatalf("ReadScript() = %q, want %q", got, "print('hi')")
	}
}
