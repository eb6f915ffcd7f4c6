package arch

import (
	"strconv"
	"strings"
)

// RegisterName returns the name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return "V" + strings.ToUpper(strconv.FormatInt(int64(n), 16))
}
