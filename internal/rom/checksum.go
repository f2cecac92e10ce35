package rom

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/franz/rom-janitor/internal/util"
)

// checksumChunkSize is the read size for streaming CRC computation
const checksumChunkSize = 64 * 1024

// romExtensions is the allowlist used when picking which archive member
// to checksum. Save states, docs and artwork inside archives are skipped.
var romExtensions = map[string]bool{
	".nes": true,
	".smc": true,
	".sfc": true,
	".gb":  true,
	".gbc": true,
	".gba": true,
	".md":  true,
	".smd": true,
	".gen": true,
	".bin": true,
}

// Checksum returns the CRC-32 of a ROM file as an uppercase 8-hex-digit
// string, dispatching on the container format. Failures are logged and
// reported as "", never as an error: a missing checksum only downgrades
// the file to name-based matching.
func Checksum(path string) string {
	var crc string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		crc, err = checksumZip(path)
	case ".7z":
		crc, err = checksum7z(path)
	default:
		crc, err = checksumFile(path)
	}

	if err != nil {
		util.WarnLog("Checksum failed for %s: %v", path, err)
		return ""
	}
	if crc == "" {
		util.DebugLog("No checksum candidate in %s", path)
	}
	return crc
}

// checksumFile streams a plain file through a running CRC-32 accumulator
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	h := crc32.NewIEEE()
	buf := make([]byte, checksumChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to read: %w", err)
	}

	return fmt.Sprintf("%08X", h.Sum32()), nil
}

// checksumZip reads the stored CRC-32 from the central directory entry of
// the first ROM member. The archive's own checksum is trusted rather than
// recomputed, so no decompression happens at all.
func checksumZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to read zip: %w", err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if !romExtensions[strings.ToLower(filepath.Ext(member.Name))] {
			continue
		}
		return fmt.Sprintf("%08X", member.CRC32), nil
	}

	return "", nil
}

// checksum7z decompresses the first ROM member fully into memory and runs
// the same accumulator over its bytes. Decode failures degrade to
// no-result; they are surfaced by the caller as a warning, not a crash.
func checksum7z(path string) (string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to read 7z: %w", err)
	}
	defer r.Close()

	for _, member := range r.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if !romExtensions[strings.ToLower(filepath.Ext(member.Name))] {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open member %s: %w", member.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to decompress %s: %w", member.Name, err)
		}

		return fmt.Sprintf("%08X", crc32.ChecksumIEEE(data)), nil
	}

	return "", nil
}
