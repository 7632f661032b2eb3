package navlog

import (
	"regexp"
	"strings"

	"github.com/yegors/navlog/pkg/logger"
)

// FlightPlanExtractor pulls the four scalar fields the derivation needs out
// of the bracketed ICAO flight-plan string, plus the estimated landing fuel
// label printed elsewhere in the release. The flight-plan grammar is consumed
// as a simple tokenizer only.
type FlightPlanExtractor struct {
	logger *logger.Logger
}

// NewFlightPlanExtractor creates a new flight plan extractor
func NewFlightPlanExtractor(logger *logger.Logger) *FlightPlanExtractor {
	return &FlightPlanExtractor{
		logger: logger.Named("flightplan"),
	}
}

var (
	// Item 13 is "-AAAA HHHH" (departure aerodrome and time); item 16 is
	// "-AAAA HHHH BBBB" (destination, total EET, alternate). The space
	// between aerodrome and time is optional in practice.
	fplItemPattern = regexp.MustCompile(`-([A-Z]{4})\s?([0-9]{4})(?:\s+([A-Z]{4}))?`)
	eetPattern     = regexp.MustCompile(`EET/((?:[A-Z]{4}[0-9]{4}\s*)+)`)
	eetPairPattern = regexp.MustCompile(`([A-Z]{4})([0-9]{4})`)
	// The estimated landing fuel figure is free text anywhere in the
	// document, not part of the bracketed plan.
	landingFuelPattern = regexp.MustCompile(`EST\.?\s+LANDING\s+FUEL\s*:?\s*([0-9]+(?:\.[0-9])?)`)
)

// Extract parses the flight plan out of the full row stream. A missing
// bracketed plan is not a failure: the result is an empty plan with only the
// estimated landing fuel possibly set, and derivation falls back to the
// actual takeoff time as its time base.
func (e *FlightPlanExtractor) Extract(rows []Row) *FlightPlan {
	var lines []string
	for i := range rows {
		if rows[i].IsPageBreak() {
			continue
		}
		lines = append(lines, rows[i].Text())
	}
	docText := strings.Join(lines, "\n")

	plan := &FlightPlan{EETByFIR: make(map[string]string)}

	if m := landingFuelPattern.FindStringSubmatch(docText); m != nil {
		if tenths, ok := ParseDecimalTenths(m[1]); ok {
			plan.EstLandingFuelTenths = tenths
			plan.HasEstLandingFuel = true
		}
	}

	raw := bracketedPlan(docText)
	if raw == "" {
		e.logger.Info("No bracketed flight plan found in document")
		return plan
	}
	plan.Raw = raw

	// Items are parsed off the plan flattened to one line
	flat := normalizeSpace(strings.ReplaceAll(raw, "\n", " "))

	for _, m := range fplItemPattern.FindAllStringSubmatch(flat, -1) {
		if m[3] == "" {
			if plan.Dep == "" {
				plan.Dep = m[1]
				plan.DepTime = m[2]
			}
		} else if plan.Dest == "" {
			plan.Dest = m[1]
			plan.Alt = m[3]
		}
	}

	if m := eetPattern.FindStringSubmatch(flat); m != nil {
		for _, pair := range eetPairPattern.FindAllStringSubmatch(m[1], -1) {
			plan.EETByFIR[pair[1]] = pair[2]
		}
	}

	e.logger.Debug("Extracted flight plan",
		logger.String("dep", plan.Dep),
		logger.String("dep_time", plan.DepTime),
		logger.String("dest", plan.Dest),
		logger.String("alt", plan.Alt),
		logger.Int("eet_firs", len(plan.EETByFIR)),
		logger.Bool("has_landing_fuel", plan.HasEstLandingFuel),
	)

	return plan
}

// bracketedPlan returns the "(FPL-...)" substring, or empty when absent. An
// unterminated plan runs to the end of the document.
func bracketedPlan(docText string) string {
	start := strings.Index(docText, fplOpenMarker)
	if start < 0 {
		return ""
	}
	rest := docText[start:]
	if end := strings.Index(rest, ")"); end >= 0 {
		return rest[:end+1]
	}
	return rest
}
