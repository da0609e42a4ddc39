package results

import "fmt"

// DeriveDuration returns the stored duration, or Finished - Opened when
// the record carries the zero "not recorded" sentinel. Inconsistent data
// can yield a negative value; callers display it rather than reject it.
func DeriveDuration(rec ResultRecord) int64 {
	if rec.Time == 0 {
		return rec.Finished - rec.Opened
	}
	return rec.Time
}

// FormatDuration renders seconds as M:SS. Minutes are not zero-padded,
// seconds are.
func FormatDuration(seconds int64) string {
	min := seconds / 60
	sec := seconds % 60
	if sec >= 0 && sec < 10 {
		return fmt.Sprintf("%d:0%d", min, sec)
	}
	return fmt.Sprintf("%d:%d", min, sec)
}
