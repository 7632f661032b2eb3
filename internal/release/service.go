package release

import (
	"fmt"
	"sync"

	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/internal/navlog"
	"github.com/yegors/navlog/pkg/logger"
)

// Service is the command layer over the parsing and derivation core. It owns
// the current document state under a single writer lock; every accepted
// mutation recomputes the entire derived-row list from scratch, which is
// cheap at navlog sizes and rules out stale-derivation bugs.
type Service struct {
	mu        sync.Mutex
	parser    *navlog.Parser
	engine    *navlog.DerivationEngine
	fuelUnit  string
	doc       *navlog.Document
	takeoff   *navlog.ActualTakeoff
	derived   []navlog.DerivedRow
	status    string
	nextEntry int
	logger    *logger.Logger
}

// Snapshot is the output contract to the presentation layer: the ordered
// derived rows, the flight plan, the actual takeoff if entered, the display
// unit label for fuel figures, a human-readable status for the last
// operation, and the index of the next waypoint needing a pilot entry (-1
// when none)
type Snapshot struct {
	Rows      []navlog.DerivedRow   `json:"rows"`
	Plan      *navlog.FlightPlan    `json:"plan,omitempty"`
	Takeoff   *navlog.ActualTakeoff `json:"takeoff,omitempty"`
	FuelUnit  string                `json:"fuel_unit"`
	Status    string                `json:"status"`
	NextEntry int                   `json:"next_entry"`
}

// NewService creates a new release service. fuelUnit is the display unit
// label attached to the snapshot's fuel figures, e.g. "100KG".
func NewService(parser *navlog.Parser, engine *navlog.DerivationEngine, fuelUnit string, logger *logger.Logger) *Service {
	return &Service{
		parser:    parser,
		engine:    engine,
		fuelUnit:  fuelUnit,
		status:    "No release loaded",
		nextEntry: -1,
		logger:    logger.Named("release"),
	}
}

// SubmitDocument replaces the current document with a freshly parsed one,
// resetting all pilot entries. A structural parse failure leaves the previous
// document untouched and records the failure reason as the status.
func (s *Service) SubmitDocument(result *extraction.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.parser.Parse(result)
	if err != nil {
		s.status = err.Error()
		s.logger.Warn("Release parse failed", logger.Error(err))
		return err
	}

	s.doc = doc
	s.takeoff = nil
	s.status = fmt.Sprintf("Parsed %d waypoints", len(doc.Records))
	s.recompute()
	s.nextEntry = s.firstIncomplete(0)

	s.logger.Info("Release submitted",
		logger.Int("waypoints", len(doc.Records)),
		logger.String("dep", doc.Plan.Dep),
		logger.String("dest", doc.Plan.Dest),
	)

	return nil
}

// SetActualTakeoff records the pilot-observed takeoff time and fuel, then
// recomputes all derived rows
func (s *Service) SetActualTakeoff(timeOff, fuel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("no release loaded")
	}
	if err := validateEntry(timeOff, fuel); err != nil {
		return err
	}

	s.takeoff = &navlog.ActualTakeoff{Time: timeOff, Fuel: fuel}
	s.recompute()
	s.nextEntry = s.firstIncomplete(0)
	s.status = fmt.Sprintf("Takeoff recorded at %s with %s", timeOff, fuel)

	s.logger.Info("Actual takeoff recorded",
		logger.String("time", timeOff),
		logger.String("fuel", fuel),
	)

	return nil
}

// SetActualWaypoint records a pilot-observed arrival time and fuel for the
// waypoint at the given index, then recomputes all derived rows and advances
// the entry pointer to the next incomplete waypoint
func (s *Service) SetActualWaypoint(index int, timeAt, fuel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("no release loaded")
	}
	if index < 0 || index >= len(s.doc.Records) {
		return fmt.Errorf("waypoint index %d out of range (have %d)", index, len(s.doc.Records))
	}
	if err := validateEntry(timeAt, fuel); err != nil {
		return err
	}

	record := s.doc.Records[index]
	record.ActualTime = timeAt
	record.ActualFuel = fuel
	s.recompute()
	s.nextEntry = s.firstIncomplete(index + 1)
	s.status = fmt.Sprintf("Recorded %s at %s with %s", record.Ident, timeAt, fuel)

	s.logger.Info("Actual waypoint entry recorded",
		logger.Int("index", index),
		logger.String("ident", record.Ident),
		logger.String("time", timeAt),
		logger.String("fuel", fuel),
	)

	return nil
}

// Snapshot returns the current derived state
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		Rows:      s.derived,
		Takeoff:   s.takeoff,
		FuelUnit:  s.fuelUnit,
		Status:    s.status,
		NextEntry: s.nextEntry,
	}
	if s.doc != nil {
		snapshot.Plan = s.doc.Plan
	}
	return snapshot
}

// recompute rebuilds the derived rows from the current inputs. Caller holds
// the lock.
func (s *Service) recompute() {
	if s.doc == nil {
		s.derived = nil
		return
	}
	s.derived = s.engine.Derive(s.doc.Records, s.doc.Plan, s.takeoff)
}

// firstIncomplete returns the index of the first waypoint at or after `from`
// missing either actual field, or -1 when every waypoint is complete. Caller
// holds the lock.
func (s *Service) firstIncomplete(from int) int {
	if s.doc == nil {
		return -1
	}
	for i := from; i < len(s.doc.Records); i++ {
		if !s.doc.Records[i].HasActuals() {
			return i
		}
	}
	for i := 0; i < from && i < len(s.doc.Records); i++ {
		if !s.doc.Records[i].HasActuals() {
			return i
		}
	}
	return -1
}

// validateEntry rejects invalid pilot input at the command boundary: no state
// is mutated and no recomputation runs
func validateEntry(timeValue, fuelValue string) error {
	if timeValue == "" || fuelValue == "" {
		return fmt.Errorf("time and fuel are both required")
	}
	if _, ok := navlog.ParseHHMM(timeValue); !ok {
		return fmt.Errorf("invalid time %q: expected HHMM", timeValue)
	}
	if _, ok := navlog.ParseDecimalTenths(fuelValue); !ok {
		return fmt.Errorf("invalid fuel %q: expected a decimal value", fuelValue)
	}
	return nil
}
