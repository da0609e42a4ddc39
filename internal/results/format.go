package results

import (
	"html"
	"time"
)

// Formatter turns raw records into display-ready rows for the data-view
// widget. TZOffsetSeconds shifts stored epochs into the site's local
// time; Layout is a Go time layout used for both timestamp columns.
type Formatter struct {
	TZOffsetSeconds int64
	Layout          string
}

// FormatRow builds one table row in the fixed column order the widget
// expects: name, score, max score, opened, finished, time spent. The
// display text is HTML-escaped; scores are coerced to plain ints.
func (f Formatter) FormatRow(rec ResultRecord) []any {
	return []any{
		html.EscapeString(rec.Name),
		int(rec.Score),
		int(rec.MaxScore),
		f.formatTimestamp(rec.Opened),
		f.formatTimestamp(rec.Finished),
		FormatDuration(DeriveDuration(rec)),
	}
}

func (f Formatter) formatTimestamp(epoch int64) string {
	return time.Unix(epoch+f.TZOffsetSeconds, 0).UTC().Format(f.Layout)
}
