package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "run.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), FilePerm); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0755); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0755 {
			t.Errorf("permissions = %o, want %o", perm, 0755)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    os.FileMode
		wantErr bool
	}{
		{"", FilePerm, false},
		{"0755", 0755, false},
		{"644", 0644, false},
		{"0600", 0600, false},
		{"0888", 0, true},
		{"rwx", 0, true},
		{"4755", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %o, want %o", tt.in, got, tt.want)
		}
	}
}

func TestFormatMode(t *testing.T) {
	if got := FormatMode(0755); got != "0755" {
		t.Errorf("FormatMode(0755) = %q", got)
	}
	if got := FormatMode(0644); got != "0644" {
		t.Errorf("FormatMode(0644) = %q", got)
	}
}

func TestPermMatches(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on Windows")
	}
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, nil, FilePerm); err != nil {
		t.Fatal(err)
	}
	if err := Chmod(path, 0640); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if !PermMatches(info, 0640) {
		t.Error("PermMatches(0640) = false, want true")
	}
	if PermMatches(info, 0644) {
		t.Error("PermMatches(0644) = true, want false")
	}
}
