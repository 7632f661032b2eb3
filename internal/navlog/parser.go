package navlog

import (
	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/pkg/logger"
)

// Document is the parsed output of one flight release: the ordered waypoint
// records and the flight plan. Immutable after parsing except for the two
// pilot-entry fields on each record.
type Document struct {
	Records []*WaypointRecord
	Plan    *FlightPlan
}

// Parser runs the full layout-reconstruction pipeline: positioned tokens to
// rows, section slice, header anchor, line classification, and record
// assembly, plus flight-plan extraction over the whole document
type Parser struct {
	rowBuilder *RowBuilder
	assembler  *Assembler
	flightPlan *FlightPlanExtractor
	logger     *logger.Logger
}

// NewParser creates a new release parser with the given layout tolerances
func NewParser(yTolerance, xGapMax float64, logger *logger.Logger) *Parser {
	return &Parser{
		rowBuilder: NewRowBuilder(yTolerance, xGapMax, logger),
		assembler:  NewAssembler(logger),
		flightPlan: NewFlightPlanExtractor(logger),
		logger:     logger.Named("parser"),
	}
}

// Parse turns an extraction result into a parsed document. Structural
// failures (missing section markers or header) return an error and no
// partial waypoint list; a missing flight plan is not a failure.
func (p *Parser) Parse(result *extraction.Result) (*Document, error) {
	rows := p.rowBuilder.Build(result)

	// The flight plan and landing fuel label may sit outside the navlog
	// section, so extraction scans the full row stream
	plan := p.flightPlan.Extract(rows)

	section, err := SliceSection(rows)
	if err != nil {
		return nil, err
	}

	headerIdx, err := LocateHeader(section)
	if err != nil {
		return nil, err
	}

	// Per-row parsing starts immediately after the two header lines
	records := p.assembler.Assemble(section[headerIdx+2:])

	p.logger.Info("Parsed flight release",
		logger.Int("rows", len(rows)),
		logger.Int("section_rows", len(section)),
		logger.Int("waypoints", len(records)),
		logger.String("dep", plan.Dep),
		logger.String("dest", plan.Dest),
	)

	return &Document{Records: records, Plan: plan}, nil
}
