package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "datos.xlsx")
	if err := WriteOutput(path, []byte("uno"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	err := WriteOutput(path, []byte("dos"), false)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := WriteOutput(path, []byte("dos"), true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "dos" {
		t.Errorf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"sitios": 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  \"sitios\": 2") {
		t.Errorf("not indented: %s", b)
	}
	if _, err := PrettyJSON(func() {}); err == nil {
		t.Error("expected error for unsupported value")
	}
}
