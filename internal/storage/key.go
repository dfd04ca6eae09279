package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SanitizeFilename makes an uploaded filename safe for use inside an object
// key. Path separators and NUL bytes are stripped, spaces become underscores,
// and an empty result falls back to "receipt".
func SanitizeFilename(name string) string {
	// Strip any client-supplied directory components first.
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	replacer := strings.NewReplacer(" ", "_", "\x00", "", "/", "", "\\", "")
	name = replacer.Replace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "receipt"
	}
	return name
}

// BuildReceiptKey derives the object key for a submission's receipt:
// receipts/{category}/{submission}/{timestamp}_{filename}. Keys are unique per
// submission, so re-uploads can never clobber another student's receipt.
func BuildReceiptKey(categoryID, submissionID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("receipts/%s/%s/%s_%s",
		categoryID, submissionID,
		now.UTC().Format("20060102_150405"),
		SanitizeFilename(filename))
}
