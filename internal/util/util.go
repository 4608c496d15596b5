// Package util holds small helpers shared by the infrastructure adapters.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"vidhub/internal/errors"
)

// FileDigest returns the hex SHA-256 of the file content and its size in bytes.
func FileDigest(filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to hash file")
	}

	return hex.EncodeToString(hash.Sum(nil)), size, nil
}

// FormatBytes renders a size with binary units, e.g. "512 B" or "1.5 MB".
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size)
	suffix := ""
	for _, prefix := range "KMGTPE" {
		value /= unit
		suffix = string(prefix) + "B"
		if value < unit {
			break
		}
	}

	return fmt.Sprintf("%.1f %s", value, suffix)
}

// FormatDuration renders upload timings, e.g. "850ms", "2.4s" or "1m05s".
func FormatDuration(duration time.Duration) string {
	switch {
	case duration < time.Second:
		return fmt.Sprintf("%dms", duration.Milliseconds())
	case duration < time.Minute:
		return fmt.Sprintf("%.1fs", duration.Seconds())
	default:
		duration = duration.Round(time.Second)

		return fmt.Sprintf("%dm%02ds", int(duration.Minutes()), int(duration.Seconds())%60)
	}
}
