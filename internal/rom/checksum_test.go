package rom

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

func TestChecksumFile(t *testing.T) {
	dir := t.TempDir()

	// All byte values 0x00-0xFF repeated four times; the expected value
	// comes from an independent CRC-32 implementation
	allBytes := make([]byte, 1024)
	for i := range allBytes {
		allBytes[i] = byte(i % 256)
	}

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		// "hello world" has a well-known IEEE CRC-32
		{"hello.nes", []byte("hello world"), "0D4A1185"},
		{"bytes.smc", allBytes, "B70B4C26"},
		{"empty.gb", []byte{}, "00000000"},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, tt.data, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		result := Checksum(path)
		if result != tt.expected {
			t.Errorf("Checksum(%s) = %q, expected %q", tt.name, result, tt.expected)
		}
	}
}

func TestChecksumLargeFile(t *testing.T) {
	// Larger than one read chunk so the streaming path is exercised
	data := make([]byte, 3*checksumChunkSize+17)
	for i := range data {
		data[i] = byte(i % 251)
	}

	path := filepath.Join(t.TempDir(), "large.smc")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	expected := fmt.Sprintf("%08X", crc32.ChecksumIEEE(data))
	result := Checksum(path)
	if result != expected {
		t.Errorf("Checksum(large) = %q, expected %q", result, expected)
	}
}

func TestChecksumZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "game.zip")

	romData := []byte("rom payload bytes")
	wantCRC := crc32.ChecksumIEEE(romData)

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	zw := zip.NewWriter(f)

	// A non-ROM member first: it must be skipped
	w, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("failed to add zip member: %v", err)
	}
	if _, err := w.Write([]byte("documentation")); err != nil {
		t.Fatalf("failed to write zip member: %v", err)
	}

	w, err = zw.Create("game.nes")
	if err != nil {
		t.Fatalf("failed to add zip member: %v", err)
	}
	if _, err := w.Write(romData); err != nil {
		t.Fatalf("failed to write zip member: %v", err)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	f.Close()

	result := Checksum(zipPath)
	expected := fmt.Sprintf("%08X", wantCRC)
	if result != expected {
		t.Errorf("Checksum(zip) = %q, expected %q", result, expected)
	}
}

func TestChecksumZipNoRomMember(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "docs.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("failed to add zip member: %v", err)
	}
	if _, err := w.Write([]byte("no roms here")); err != nil {
		t.Fatalf("failed to write zip member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	f.Close()

	if result := Checksum(zipPath); result != "" {
		t.Errorf("Checksum(no ROM member) = %q, expected empty", result)
	}
}

func TestChecksumCorrupt7z(t *testing.T) {
	// An unreadable archive must degrade to no checksum, leaving the
	// file on name-based matching, never surface an error
	dir := t.TempDir()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage.7z", []byte("this is not a 7z archive")},
		{"truncated.7z", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}},
		{"empty.7z", []byte{}},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, tt.data, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		if result := Checksum(path); result != "" {
			t.Errorf("Checksum(%s) = %q, expected empty", tt.name, result)
		}
	}
}

func TestChecksumMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.nes")
	if result := Checksum(path); result != "" {
		t.Errorf("Checksum(missing) = %q, expected empty", result)
	}
}
