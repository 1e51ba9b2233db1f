package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewProjectID generates a project id of the form "proj_<unix-ms>_<suffix>".
// The millisecond prefix keeps ids roughly sortable by creation time; the
// random suffix disambiguates records created in the same instant.
func NewProjectID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively unheard of; fall back to the
		// nanosecond clock rather than erroring the write path.
		return fmt.Sprintf("proj_%d_%d", time.Now().UnixMilli(), time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("proj_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
