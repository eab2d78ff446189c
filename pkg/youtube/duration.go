package youtube

import (
	"regexp"
	"strconv"
	"time"
)

var isoDurationRe = regexp.MustCompile(`PT(\d+H)?(\d+M)?(\d+S)?`)

// parseDuration converts ISO-8601 durations like PT1H2M3S. Formats without a time part,
// like P0D reported for live streams, give zero.
func parseDuration(s string) time.Duration {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	part := func(v string) time.Duration {
		if len(v) < 2 {
			return 0
		}
		n, err := strconv.Atoi(v[:len(v)-1])
		if err != nil {
			return 0
		}
		return time.Duration(n)
	}
	return part(m[1])*time.Hour + part(m[2])*time.Minute + part(m[3])*time.Second
}
