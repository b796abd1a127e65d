package fsutil

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers crypto.SHA512.
	_ "crypto/sha512"
)

// ChecksumHash is the hash used for launcher verification and release manifests.
const ChecksumHash = crypto.SHA512

var errHashUnavailable = errors.New("hash function is not available")

// Checksum returns the ChecksumHash digest of data.
func Checksum(data []byte) ([]byte, error) {
	if !ChecksumHash.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ChecksumHash.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// FileChecksum returns the base64 encoded ChecksumHash digest of a file.
func FileChecksum(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	sum, err := Checksum(contents)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sum), nil
}
