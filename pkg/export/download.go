package export

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// FileName is the name of every downloaded prediction.
	FileName = "prediction.txt"
	// ContentType is the media type of the downloaded file.
	ContentType = "text/plain; charset=utf-8"
)

// WriteFile saves message as dir/prediction.txt and returns the path written.
// An empty dir writes to the working directory.
func WriteFile(dir, message string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create download dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(message), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", FileName, err)
	}
	return path, nil
}

// WriteAttachment streams message as a prediction.txt attachment.
func WriteAttachment(w http.ResponseWriter, message string) error {
	if w == nil {
		return errors.New("export: missing response writer")
	}
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Content-Disposition", `attachment; filename="`+FileName+`"`)
	h.Set("Content-Length", strconv.Itoa(len(message)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, message)
	return err
}
