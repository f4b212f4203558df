package journal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ulikunitz/xz"
)

// Archive rotates an append log: the current content is compressed into
// <path>.<stamp>.xz and the log is truncated. Returns the archive path.
// An empty or missing log is left alone.
func Archive(path string, now time.Time) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	dst := fmt.Sprintf("%s.%s.xz", path, now.Format("20060102-150405"))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}

	w, err := xz.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("xz writer: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("finish %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}

	// Truncate only after the archive is safely on disk.
	if err := os.Truncate(path, 0); err != nil {
		return "", fmt.Errorf("truncate %s: %w", path, err)
	}
	return dst, nil
}
