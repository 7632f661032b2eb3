package navlog

import (
	"fmt"
	"regexp"
	"strings"
)

// Structural parse failures. Callers must treat these as hard failures: no
// partial waypoint list is ever produced past them.
var (
	startMarkerPattern = regexp.MustCompile(`PIC\s*\.{10,}`)

	// The two physical header lines that anchor per-row parsing, compared
	// case/whitespace-normalized.
	headerLine1 = "IDENT DIST MC FL WIND CMP TAS/MAC TIME ETA ATA TBO FRMG EFB"
	headerLine2 = "FRQ DTGO MH W/S OAT G/S T/TME REV REM ABO AFOB DSTN"
)

const (
	fplOpenMarker      = "(FPL-"
	alternateEndMarker = "----------------------- ALTERNATE"
)

// SliceSection finds the sub-range of rows bounding the navlog table: from
// the start marker (a PIC dotted signature line or the flight-plan opening
// token) up to but excluding the dashed ALTERNATE label
func SliceSection(rows []Row) ([]Row, error) {
	start := -1
	end := -1

	for i := range rows {
		text := rows[i].Text()
		if start < 0 && (startMarkerPattern.MatchString(text) || strings.Contains(text, fplOpenMarker)) {
			start = i
		}
		if end < 0 && strings.Contains(text, alternateEndMarker) {
			end = i
		}
	}

	switch {
	case start < 0 && end < 0:
		return nil, fmt.Errorf("navlog section not found: missing start marker (PIC signature or %q) and end marker (%q)", fplOpenMarker, alternateEndMarker)
	case start < 0:
		return nil, fmt.Errorf("navlog section not found: missing start marker (PIC signature or %q)", fplOpenMarker)
	case end < 0:
		return nil, fmt.Errorf("navlog section not found: missing end marker (%q)", alternateEndMarker)
	case end <= start:
		return nil, fmt.Errorf("navlog section malformed: end marker at row %d precedes start marker at row %d", end, start)
	}

	return rows[start:end], nil
}

// LocateHeader scans consecutive row pairs for an exact normalized match of
// the two-line column header and returns the index of the first line. The
// header anchors all column-position assumptions, so no approximate match is
// attempted.
func LocateHeader(rows []Row) (int, error) {
	want1 := normalizeHeader(headerLine1)
	want2 := normalizeHeader(headerLine2)

	for i := 0; i+1 < len(rows); i++ {
		if normalizeHeader(rows[i].Text()) == want1 && normalizeHeader(rows[i+1].Text()) == want2 {
			return i, nil
		}
	}

	return 0, fmt.Errorf("navlog column header not found in %d rows", len(rows))
}

// normalizeHeader uppercases and collapses whitespace for header comparison
func normalizeHeader(s string) string {
	return strings.ToUpper(normalizeSpace(s))
}
