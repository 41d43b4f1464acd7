package countdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name         string
		seconds      int64
		leadingZeros bool
		want         string
	}{
		{name: "seconds only", seconds: 45, want: "45"},
		{name: "zero", seconds: 0, want: "00"},
		{name: "zero with groups", seconds: 0, leadingZeros: true, want: "00:00:00"},
		{name: "minutes", seconds: 75, want: "01:15"},
		{name: "negative minutes", seconds: -75, want: "-01:15"},
		{name: "hours", seconds: 3*3600 + 2*60 + 1, want: "03:02:01"},
		{name: "hours keep zero minutes", seconds: 3600, want: "01:00:00"},
		{name: "leading groups", seconds: 5, leadingZeros: true, want: "00:00:05"},
		{name: "negative leading groups", seconds: -3, leadingZeros: true, want: "-00:00:03"},
		{name: "negative compact", seconds: -3, want: "-03"},
		{name: "wide hours", seconds: 100 * 3600, want: "100:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.seconds, tc.leadingZeros))
		})
	}
}

func TestFormatSignMatchesSign(t *testing.T) {
	for secs := int64(-4000); secs <= 4000; secs += 7 {
		for _, lz := range []bool{false, true} {
			text := Format(secs, lz)
			assert.Equal(t, secs < 0, strings.HasPrefix(text, "-"), "seconds=%d", secs)
			if secs >= 0 {
				assert.NotContains(t, text, "-")
			}
		}
	}
}

func TestFormatMagnitude(t *testing.T) {
	for secs := int64(-7300); secs < 0; secs += 13 {
		abs := -secs
		text := Format(secs, true)
		var h, m, s int64
		_, err := fmt.Sscanf(strings.TrimPrefix(text, "-"), "%d:%d:%d", &h, &m, &s)
		assert.NoError(t, err)
		assert.Equal(t, abs, h*3600+m*60+s, "text=%s", text)
	}
}
