package navlog

import (
	"github.com/yegors/navlog/pkg/logger"
)

// DerivationEngine computes planned/updated/actual time and fuel figures for
// the ordered waypoint records. It is a stateful left-to-right fold carrying
// two independently anchored propagation mechanisms: a time bias and a fuel
// anchor, each re-baselined whenever the pilot supplies a new actual
// observation.
type DerivationEngine struct {
	logger *logger.Logger
}

// NewDerivationEngine creates a new derivation engine
func NewDerivationEngine(logger *logger.Logger) *DerivationEngine {
	return &DerivationEngine{
		logger: logger.Named("derivation"),
	}
}

// fuelAnchor is the most recent waypoint with a pilot-entered actual fuel,
// used as the re-baseline point for subsequent updated-fuel values
type fuelAnchor struct {
	plannedBurn int
	actualFuel  int
}

// Derive recomputes the full derived-row list from scratch. The computation
// is a pure function of its inputs; records are not mutated.
func (e *DerivationEngine) Derive(records []*WaypointRecord, plan *FlightPlan, takeoff *ActualTakeoff) []DerivedRow {
	// The time base is the flight-plan departure time, falling back to the
	// actual takeoff time when no plan was found.
	baseTime, baseTimeOK := 0, false
	if plan != nil && plan.DepTime != "" {
		baseTime, baseTimeOK = ParseHHMM(plan.DepTime)
	}
	if !baseTimeOK && takeoff != nil {
		baseTime, baseTimeOK = ParseHHMM(takeoff.Time)
	}

	takeoffFuel, takeoffFuelOK := 0, false
	if takeoff != nil {
		takeoffFuel, takeoffFuelOK = ParseDecimalTenths(takeoff.Fuel)
	}

	timeBias := 0
	var anchor *fuelAnchor

	rows := make([]DerivedRow, 0, len(records))
	for _, record := range records {
		row := DerivedRow{WaypointRecord: *record}
		d := &row.Derived

		// Planned ETA: departure time plus the printed elapsed time to this
		// waypoint, wrapping modulo 24h.
		ttme, ttmeOK := ParseClock(record.TTME)
		plannedETA, plannedETAOK := 0, false
		if baseTimeOK && ttmeOK {
			plannedETA = baseTime + ttme
			plannedETAOK = true
			d.PlannedETA = FormatHHMM(plannedETA)
		}

		// Updated ETA: planned plus the running bias. A pilot-entered actual
		// arrival re-anchors the bias and replaces the updated value, so the
		// correction propagates to every later waypoint until the next entry.
		updatedETA, updatedETAOK := 0, false
		if plannedETAOK {
			updatedETA = plannedETA + timeBias
			updatedETAOK = true
		}
		if actual, ok := ParseHHMM(record.ActualTime); ok {
			if plannedETAOK {
				timeBias = WrapMinutesDelta(actual - plannedETA)
			}
			updatedETA = actual
			updatedETAOK = true
		}
		if updatedETAOK {
			d.UpdatedETA = FormatHHMM(updatedETA)
		}
		if plannedETAOK && updatedETAOK {
			d.ETADelta = FormatSignedMinutes(WrapMinutesDelta(plannedETA - updatedETA))
		}

		// Printed fuel figures are digit fields already in tenths
		plannedFuel, plannedFuelOK := ParseTenths(record.FRMG)
		if plannedFuelOK {
			d.PlannedFuel = FormatTenths(plannedFuel)
		}
		plannedBurn, plannedBurnOK := ParseTenths(record.TBO)
		if plannedBurnOK {
			d.PlannedBurn = FormatTenths(plannedBurn)
		}
		// A zero or absent planned burn disables fuel derivation for the row
		burnUsable := plannedBurnOK && plannedBurn != 0

		// Updated fuel: anchor-relative when an earlier actual entry exists,
		// otherwise straight off the takeoff fuel. Subtracting burn deltas
		// from the anchor instead of always re-subtracting from the single
		// takeoff value keeps estimation error from compounding.
		if takeoffFuelOK && burnUsable {
			if anchor != nil {
				d.UpdatedFuel = FormatTenths(anchor.actualFuel - (plannedBurn - anchor.plannedBurn))
			} else {
				d.UpdatedFuel = FormatTenths(takeoffFuel - plannedBurn)
			}
		}

		actualFuel, actualFuelOK := ParseDecimalTenths(record.ActualFuel)
		if takeoffFuelOK && actualFuelOK {
			actualBurn := takeoffFuel - actualFuel
			d.ActualBurn = FormatTenths(actualBurn)
			d.ActualBurnFromTakeoff = FormatTenths(actualBurn)

			if plannedBurnOK {
				delta := plannedBurn - actualBurn
				d.FuelDelta = FormatTenths(delta)
				d.FuelDeltaSig = classifyBurnDelta(delta)
				d.BurnDiff = FormatTenths(plannedBurn - actualBurn)
			}
		}

		if actualFuelOK && plannedFuelOK {
			d.FuelDiff = FormatTenths(actualFuel - plannedFuel)
		}

		// Estimated fuel over the alternate: actual fuel on board less the
		// printed fuel to destination
		if dstn, ok := ParseTenths(record.DSTN); ok && actualFuelOK {
			efoa := actualFuel - dstn
			d.EFOA = FormatTenths(efoa)

			if plan != nil && plan.HasEstLandingFuel {
				delta := efoa - plan.EstLandingFuelTenths
				d.LandingFuelDelta = FormatTenths(delta)
				d.LandingFuelSig = classifyLandingDelta(delta)
			}
		}

		// A new actual fuel entry re-anchors the fuel chain for later rows
		if actualFuelOK && burnUsable {
			anchor = &fuelAnchor{plannedBurn: plannedBurn, actualFuel: actualFuel}
		}

		rows = append(rows, row)
	}

	e.logger.Debug("Derived navlog rows",
		logger.Int("records", len(records)),
		logger.Bool("time_base", baseTimeOK),
		logger.Bool("takeoff_fuel", takeoffFuelOK),
	)

	return rows
}

// classifyBurnDelta classifies planned-minus-actual burn: negative means more
// fuel burned than planned. The classification is advisory only; out-of-plan
// values are flagged, never rejected.
func classifyBurnDelta(delta int) string {
	switch {
	case delta < 0:
		return SigOverPlan
	case delta > 0:
		return SigUnderPlan
	default:
		return SigNeutral
	}
}

// classifyLandingDelta classifies estimated-over-alternate fuel against the
// planned landing fuel
func classifyLandingDelta(delta int) string {
	switch {
	case delta < 0:
		return SigShort
	case delta > 0:
		return SigExcess
	default:
		return SigNeutral
	}
}
