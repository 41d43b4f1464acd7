package countdown

import (
	"fmt"
	"strings"
)

// Format renders a signed second count as [-][HH:][MM:]SS.
//
// The hours group is dropped while it is zero and the minutes group is dropped
// while both hours and minutes are zero, unless leadingZeros is set.
func Format(seconds int64, leadingZeros bool) string {
	var b strings.Builder
	abs := seconds
	if seconds < 0 {
		b.WriteByte('-')
		abs = -seconds
	}
	hours := abs / 3600
	minutes := abs / 60 % 60
	secs := abs % 60

	if hours > 0 || leadingZeros {
		fmt.Fprintf(&b, "%02d:", hours)
	}
	if hours > 0 || minutes > 0 || leadingZeros {
		fmt.Fprintf(&b, "%02d:", minutes)
	}
	fmt.Fprintf(&b, "%02d", secs)
	return b.String()
}
