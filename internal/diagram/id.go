package diagram

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns "{prefix}-{unixMillis}-{random}" where random is 12 hex
// characters of a v4 UUID.
func NewID(prefix string) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + r[:12]
}
