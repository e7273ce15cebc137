// Package export renders a session's messages as CSV for the review
// flow. The format tracks the store exactly: one row per message in
// insertion order.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Boltio1992/BottleMessage/pkg/types"
)

const header = "Timestamp,Name,Anonymous,Option,Message,Word Count"

// WriteCSV writes the session's messages to w. Timestamps are RFC
// 3339. The name column is "Anonymous" for anonymous messages, the
// display name otherwise, "Unknown" when neither is present. The
// message field is always quoted with internal quotes doubled; other
// text fields are quoted only when they need it.
func WriteCSV(w io.Writer, session *types.Session) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, m := range session.Messages {
		row := strings.Join([]string{
			m.CreatedAt.UTC().Format(time.RFC3339),
			quoteIfNeeded(displayName(m)),
			fmt.Sprintf("%t", m.Anonymous),
			m.SelectedOption,
			quote(m.Text),
			fmt.Sprintf("%d", m.WordCount),
		}, ",")
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func displayName(m *types.Message) string {
	switch {
	case m.Anonymous:
		return "Anonymous"
	case m.DisplayName != "":
		return m.DisplayName
	default:
		return "Unknown"
	}
}

// quote always wraps the field in double quotes, doubling internal
// quotes.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// quoteIfNeeded quotes only fields that contain a quote, comma, or
// newline.
func quoteIfNeeded(field string) string {
	if strings.ContainsAny(field, "\",\n") {
		return quote(field)
	}
	return field
}
