package dstat

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"heartbeat-agent/internal/domain"
)

const (
	headerMarker = "-"
	groupSep     = "|"
)

// cleanLine drops terminal control sequences (dstat emits ESC[7l even with
// --nocolor) and surrounding whitespace.
func cleanLine(line string) string {
	return strings.TrimSpace(ansi.Strip(line))
}

// Parse decodes a dstat report: a decorative header, the legend row, the
// average row and the sample row. Anything after the sample row is ignored.
func Parse(lines []string) (domain.Status, error) {
	next := func(what string) (string, error) {
		if len(lines) == 0 {
			return "", domain.Errorf(domain.KindFormat, "dstat parse", "missing %s line", what)
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}

	hdr, err := next("header")
	if err != nil {
		return domain.Status{}, err
	}
	if !strings.HasPrefix(hdr, headerMarker) {
		return domain.Status{}, domain.Errorf(domain.KindFormat, "dstat parse", "expected a header: %q", hdr)
	}

	legendLine, err := next("legend")
	if err != nil {
		return domain.Status{}, err
	}
	legend := strings.Split(legendLine, groupSep)
	if len(legend) != len(domain.Columns) {
		return domain.Status{}, domain.Errorf(domain.KindFormat, "dstat parse",
			"unexpected legend %q for columns %q", legend, domain.Columns[:])
	}

	avg, err := next("average")
	if err != nil {
		return domain.Status{}, err
	}
	sample, err := next("sample")
	if err != nil {
		return domain.Status{}, err
	}

	return domain.Status{
		Average: parseRow(legend, avg),
		Sample:  parseRow(legend, sample),
	}, nil
}

func parseRow(legend []string, line string) domain.Snapshot {
	cells := strings.Split(line, groupSep)

	snap := make(domain.Snapshot, len(domain.Columns))
	for i, col := range domain.Columns {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		snap[col] = extractGroup(legend[i], cell)
	}
	return snap
}

// extractGroup zips legend sub-field names with data tokens. If the token
// counts differ the data cell is treated as absent and every field is nil.
func extractGroup(legend, data string) domain.GroupRecord {
	names := strings.Fields(legend)
	values := strings.Fields(data)

	rec := make(domain.GroupRecord, len(names))
	if len(names) != len(values) {
		for _, name := range names {
			rec[name] = nil
		}
		return rec
	}

	for i, name := range names {
		v := values[i]
		rec[name] = &v
	}
	return rec
}
