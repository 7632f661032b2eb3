package navlog

import (
	"regexp"
	"strings"
)

// LineKind tags the classification outcome for one physical table line
type LineKind int

const (
	// KindOther lines carry no navlog data and are discarded
	KindOther LineKind = iota
	// KindFIR is a flight information region boundary label
	KindFIR
	// KindFrequency is a second physical line led by a radio frequency
	KindFrequency
	// KindContinuation is a second physical line without a frequency
	KindContinuation
	// KindMain is the identifying first line of a waypoint
	KindMain
	// KindCoordinate is a line holding only a lat/lon position
	KindCoordinate
	// KindSkip is a formatting-only line (banners, dashes, page breaks)
	KindSkip
	// KindFieldHeading opens an "xxx FIELD" block whose lines are skipped
	KindFieldHeading
)

// Schema field names. The record schema is locked to exactly this list; the
// assembler rejects anything else.
const (
	FieldCoordinate = "coordinate"
	FieldIdent      = "ident"
	FieldDist       = "dist"
	FieldMC         = "mc"
	FieldFL         = "fl"
	FieldWind       = "wind"
	FieldCMP        = "cmp"
	FieldTASMach    = "tas_mach"
	FieldTime       = "time"
	FieldETA        = "eta"
	FieldATA        = "ata"
	FieldTBO        = "tbo"
	FieldFRMG       = "frmg"
	FieldEFB        = "efb"
	FieldFRQ        = "frq"
	FieldDTGO       = "dtgo"
	FieldMH         = "mh"
	FieldWS         = "ws"
	FieldOAT        = "oat"
	FieldGS         = "gs"
	FieldTTME       = "ttme"
	FieldREV        = "rev"
	FieldREM        = "rem"
	FieldABO        = "abo"
	FieldAFOB       = "afob"
	FieldDSTN       = "dstn"
)

// Positional field orders for the three data line shapes. A main line carries
// the first header row's columns; frequency and continuation lines carry the
// second header row's columns (the continuation shape simply lacks FRQ).
var (
	mainFieldOrder = []string{
		FieldIdent, FieldDist, FieldMC, FieldFL, FieldWind, FieldCMP,
		FieldTASMach, FieldTime, FieldETA, FieldATA, FieldTBO, FieldFRMG, FieldEFB,
	}
	secondLineFieldOrder = []string{
		FieldDTGO, FieldMH, FieldWS, FieldOAT, FieldGS, FieldTTME,
		FieldREV, FieldREM, FieldABO, FieldAFOB, FieldDSTN,
	}
)

// FieldValue is one positional field contribution from a classified line
type FieldValue struct {
	Name  string
	Value string
}

// ClassifiedLine is the tagged outcome of classifying one physical line
type ClassifiedLine struct {
	Kind LineKind
	Text string
	// FIR is the region identifier on KindFIR lines
	FIR string
	// Coordinate is set whenever the line contains a lat/lon substring,
	// regardless of kind; it updates the running coordinate context.
	Coordinate string
	// Fields are the line's positional field contributions, in print order
	Fields []FieldValue
}

var (
	firPattern        = regexp.MustCompile(`\b([A-Z]{4})\s+FIR\b|\bFIR\s+([A-Z]{4})\b`)
	frequencyPattern  = regexp.MustCompile(`^[0-9]{3}\.[0-9]{2}$`)
	bareIntPattern    = regexp.MustCompile(`^[0-9]+$`)
	identShapePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,7}$`)
	heading3Pattern   = regexp.MustCompile(`^[0-9]{3}$`)
	windCompPattern   = regexp.MustCompile(`^[+-][0-9]{1,3}$`)
	flightLevelShape  = regexp.MustCompile(`^(?:FL)?[0-9]{3}$`)
	machTASShape      = regexp.MustCompile(`^(?:M?\.[0-9]{2,3}|[0-9]{3}/M?\.?[0-9]{2,3})$`)
	flBannerPattern   = regexp.MustCompile(`^FL[0-9]{3}$`)
	fieldHeadPattern  = regexp.MustCompile(`^[A-Z0-9/ ]+ FIELD$`)
	// Positions print as "N45 23.5 W075 12.0": hemisphere, degrees, minutes
	// with an optional tenths digit, for latitude then longitude.
	coordinatePattern = regexp.MustCompile(`[NS][0-9]{2} [0-9]{2}(?:\.[0-9])? [EW][0-9]{3} [0-9]{2}(?:\.[0-9])?`)
)

// ClassifyLine classifies one normalized table line. Checks run in fixed
// precedence order and the first match wins; the result is a pure function of
// the line text, with identifier/coordinate carry-forward left to the caller.
func ClassifyLine(text string) ClassifiedLine {
	text = normalizeSpace(text)
	line := ClassifiedLine{Kind: KindOther, Text: text}

	if text == "" || text == PageBreakText {
		line.Kind = KindSkip
		return line
	}

	// Coordinate context updates are orthogonal to classification: any line
	// containing a position substring refreshes the running coordinate.
	line.Coordinate = coordinatePattern.FindString(text)

	tokens := strings.Fields(text)

	if m := firPattern.FindStringSubmatch(text); m != nil {
		line.Kind = KindFIR
		if m[1] != "" {
			line.FIR = m[1]
		} else {
			line.FIR = m[2]
		}
		return line
	}

	if frequencyPattern.MatchString(tokens[0]) {
		line.Kind = KindFrequency
		line.Fields = append(line.Fields, FieldValue{FieldFRQ, tokens[0]})
		line.Fields = append(line.Fields, positionalFields(tokens[1:], secondLineFieldOrder)...)
		return line
	}

	if isContinuationLine(tokens) {
		line.Kind = KindContinuation
		line.Fields = positionalFields(tokens, secondLineFieldOrder)
		return line
	}

	if isMainLine(tokens) {
		line.Kind = KindMain
		line.Fields = positionalFields(tokens, mainFieldOrder)
		return line
	}

	if line.Coordinate != "" && line.Coordinate == text {
		line.Kind = KindCoordinate
		return line
	}

	if flBannerPattern.MatchString(text) {
		line.Kind = KindSkip
		return line
	}

	if fieldHeadPattern.MatchString(text) {
		line.Kind = KindFieldHeading
		return line
	}

	return line
}

// isContinuationLine reports whether tokens form a continuation line: a bare
// integer lead token, at least 5 tokens, and either a 3-digit heading in the
// second position or a signed wind component in the third
func isContinuationLine(tokens []string) bool {
	if len(tokens) < 5 || !bareIntPattern.MatchString(tokens[0]) {
		return false
	}
	return heading3Pattern.MatchString(tokens[1]) || windCompPattern.MatchString(tokens[2])
}

// isMainLine reports whether tokens form a waypoint main line: an
// identifier-shaped lead token, a numeric second token, and a flight-level or
// mach/airspeed shaped token somewhere in the next up-to-8 tokens. The
// lookahead disambiguates real waypoint lines from stray numeric lines.
func isMainLine(tokens []string) bool {
	if len(tokens) < 2 {
		return false
	}
	if !identShapePattern.MatchString(tokens[0]) || bareIntPattern.MatchString(tokens[0]) {
		return false
	}
	if !bareIntPattern.MatchString(tokens[1]) {
		return false
	}
	end := len(tokens)
	if end > 10 {
		end = 10
	}
	for _, token := range tokens[2:end] {
		if flightLevelShape.MatchString(token) || machTASShape.MatchString(token) {
			return true
		}
	}
	return false
}

// positionalFields maps tokens onto field names by position, tolerating short
// lines: missing trailing tokens simply contribute nothing
func positionalFields(tokens []string, order []string) []FieldValue {
	n := len(tokens)
	if n > len(order) {
		n = len(order)
	}
	fields := make([]FieldValue, 0, n)
	for i := 0; i < n; i++ {
		fields = append(fields, FieldValue{order[i], tokens[i]})
	}
	return fields
}
