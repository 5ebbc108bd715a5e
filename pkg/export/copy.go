package export

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

const (
	// CopiedMessage is shown after a successful copy.
	CopiedMessage = "Copied to clipboard!"
	// CopyFailedMessage is shown when the clipboard is unavailable or denied.
	CopyFailedMessage = "Copy failed, try selecting and copying manually."
)

// ErrClipboardUnavailable is returned when the host has no clipboard utility.
var ErrClipboardUnavailable = errors.New("export: clipboard unavailable")

// CopyText builds the shareable line for message, prefixed with name when one
// was entered.
func CopyText(name, message string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name + ", your prediction: " + message
	}
	return "Prediction: " + message
}

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes through github.com/atotto/clipboard.
type SystemClipboard struct{}

// clipboardWriteAll is swapped in tests.
var clipboardWriteAll = clipboard.WriteAll

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboardWriteAll(text)
}

// Copy writes the copy text to cb and returns the notification to show. The
// error is returned alongside the failure notification so callers may log it.
func Copy(cb Clipboard, name, message string) (string, error) {
	if cb == nil {
		return CopyFailedMessage, ErrClipboardUnavailable
	}
	if err := cb.WriteAll(CopyText(name, message)); err != nil {
		return CopyFailedMessage, err
	}
	return CopiedMessage, nil
}
