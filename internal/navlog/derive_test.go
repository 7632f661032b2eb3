package navlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/navlog/pkg/logger"
)

func newTestEngine() *DerivationEngine {
	return NewDerivationEngine(logger.NewNop())
}

func planWithDeparture(depTime string) *FlightPlan {
	return &FlightPlan{Dep: "CYUL", Dest: "KLAX", Alt: "KONT", DepTime: depTime, EETByFIR: map[string]string{}}
}

func TestDerivePlannedETA(t *testing.T) {
	// Departure 1230 plus an elapsed time of 0.34 arrives at 1304
	engine := newTestEngine()
	records := []*WaypointRecord{{Ident: "ELBOW", TTME: "0.34"}}

	rows := engine.Derive(records, planWithDeparture("1230"), nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "1304", rows[0].Derived.PlannedETA)
	assert.Equal(t, "1304", rows[0].Derived.UpdatedETA)
	assert.Equal(t, "0", rows[0].Derived.ETADelta)
}

func TestDerivePlannedETAWrapsMidnight(t *testing.T) {
	engine := newTestEngine()
	records := []*WaypointRecord{{Ident: "ELBOW", TTME: "2.30"}}

	rows := engine.Derive(records, planWithDeparture("2300"), nil)
	assert.Equal(t, "0130", rows[0].Derived.PlannedETA)
}

func TestDeriveLongElapsedTime(t *testing.T) {
	// The hour component of T/TME may exceed 9
	engine := newTestEngine()
	records := []*WaypointRecord{{Ident: "FAR", TTME: "10.15"}}

	rows := engine.Derive(records, planWithDeparture("0800"), nil)
	assert.Equal(t, "1815", rows[0].Derived.PlannedETA)
}

func TestDeriveFallsBackToTakeoffTime(t *testing.T) {
	// With no flight plan the actual takeoff time is the time base
	engine := newTestEngine()
	records := []*WaypointRecord{{Ident: "ELBOW", TTME: "0.34"}}
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}

	rows := engine.Derive(records, &FlightPlan{}, takeoff)
	assert.Equal(t, "1304", rows[0].Derived.PlannedETA)
}

func TestDeriveTimeBiasStaysZeroWithoutActuals(t *testing.T) {
	// No actual arrival entries: every updated ETA equals its planned ETA
	engine := newTestEngine()
	records := []*WaypointRecord{
		{Ident: "A", TTME: "0.34"},
		{Ident: "B", TTME: "1.02"},
		{Ident: "C", TTME: "2.10"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), nil)
	for _, row := range rows {
		assert.Equal(t, row.Derived.PlannedETA, row.Derived.UpdatedETA, row.Ident)
		assert.Equal(t, "0", row.Derived.ETADelta, row.Ident)
	}
}

func TestDeriveTimeBiasPropagation(t *testing.T) {
	engine := newTestEngine()
	records := []*WaypointRecord{
		{Ident: "A", TTME: "0.34", ActualTime: "1310"}, // planned 1304, 6 late
		{Ident: "B", TTME: "1.02"},
		{Ident: "C", TTME: "2.10", ActualTime: "1438"}, // planned 1440, 2 early
		{Ident: "D", TTME: "3.00"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), nil)

	// The actual value replaces the updated ETA at the entry waypoint
	assert.Equal(t, "1304", rows[0].Derived.PlannedETA)
	assert.Equal(t, "1310", rows[0].Derived.UpdatedETA)
	assert.Equal(t, "-6", rows[0].Derived.ETADelta)

	// The bias carries forward until the next actual entry
	assert.Equal(t, "1332", rows[1].Derived.PlannedETA)
	assert.Equal(t, "1338", rows[1].Derived.UpdatedETA)
	assert.Equal(t, "-6", rows[1].Derived.ETADelta)

	// A new entry re-anchors the bias
	assert.Equal(t, "1440", rows[2].Derived.PlannedETA)
	assert.Equal(t, "1438", rows[2].Derived.UpdatedETA)
	assert.Equal(t, "+2", rows[2].Derived.ETADelta)

	assert.Equal(t, "1530", rows[3].Derived.PlannedETA)
	assert.Equal(t, "1528", rows[3].Derived.UpdatedETA)
}

func TestDeriveUpdatedFuelFromTakeoff(t *testing.T) {
	// Takeoff fuel 152.0 and a printed burn of 0180 tenths gives 134.0
	engine := newTestEngine()
	records := []*WaypointRecord{{Ident: "ELBOW", TBO: "0180", FRMG: "1340"}}
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	d := rows[0].Derived
	assert.Equal(t, "134.0", d.UpdatedFuel)
	assert.Equal(t, "134.0", d.PlannedFuel)
	assert.Equal(t, "18.0", d.PlannedBurn)
}

func TestDeriveFuelAnchorPropagation(t *testing.T) {
	engine := newTestEngine()
	records := []*WaypointRecord{
		{Ident: "A", TBO: "0180", FRMG: "1340"},
		{Ident: "B", TBO: "0260", FRMG: "1260", ActualFuel: "125.0"},
		{Ident: "C", TBO: "0400", FRMG: "1120"},
	}
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)

	// Before any entry the chain hangs off the takeoff fuel
	assert.Equal(t, "134.0", rows[0].Derived.UpdatedFuel)
	assert.Equal(t, "126.0", rows[1].Derived.UpdatedFuel)

	// After the entry at B, C's updated fuel comes from B's anchor alone:
	// 125.0 - (40.0 - 26.0)
	assert.Equal(t, "111.0", rows[2].Derived.UpdatedFuel)
}

func TestDeriveFuelAnchorIndependentOfEarlierBurns(t *testing.T) {
	// The anchored value must not depend on waypoints before the anchor
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}

	short := []*WaypointRecord{
		{Ident: "B", TBO: "0260", ActualFuel: "125.0"},
		{Ident: "C", TBO: "0400"},
	}
	long := []*WaypointRecord{
		{Ident: "A", TBO: "0999"},
		{Ident: "B", TBO: "0260", ActualFuel: "125.0"},
		{Ident: "C", TBO: "0400"},
	}

	shortRows := engine.Derive(short, planWithDeparture("1230"), takeoff)
	longRows := engine.Derive(long, planWithDeparture("1230"), takeoff)

	assert.Equal(t, shortRows[1].Derived.UpdatedFuel, longRows[2].Derived.UpdatedFuel)
}

func TestDeriveZeroBurnDisablesFuelDerivation(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	records := []*WaypointRecord{
		{Ident: "A", TBO: "0000"},
		{Ident: "B", TBO: "----"},
		{Ident: "C"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	for _, row := range rows {
		assert.Empty(t, row.Derived.UpdatedFuel, row.Ident)
	}
}

func TestDeriveZeroBurnDoesNotAnchor(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	records := []*WaypointRecord{
		// An actual fuel entry on a zero-burn row must not re-anchor
		{Ident: "A", TBO: "0000", ActualFuel: "140.0"},
		{Ident: "B", TBO: "0260"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	assert.Equal(t, "126.0", rows[1].Derived.UpdatedFuel)
}

func TestDeriveActualBurnAndDeltas(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	records := []*WaypointRecord{
		{Ident: "A", TBO: "0180", FRMG: "1340", ActualFuel: "133.0"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	d := rows[0].Derived

	// 152.0 - 133.0 burned
	assert.Equal(t, "19.0", d.ActualBurn)
	assert.Equal(t, "19.0", d.ActualBurnFromTakeoff)
	// Planned 18.0 minus actual 19.0: burned more than planned
	assert.Equal(t, "-1.0", d.FuelDelta)
	assert.Equal(t, SigOverPlan, d.FuelDeltaSig)
	assert.Equal(t, "-1.0", d.BurnDiff)
	// Actual on board versus printed remaining
	assert.Equal(t, "-1.0", d.FuelDiff)
}

func TestDeriveUnderPlanClassification(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	records := []*WaypointRecord{
		{Ident: "A", TBO: "0180", FRMG: "1340", ActualFuel: "135.0"},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	assert.Equal(t, "1.0", rows[0].Derived.FuelDelta)
	assert.Equal(t, SigUnderPlan, rows[0].Derived.FuelDeltaSig)
}

func TestDeriveEFOAAndLandingComparison(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	plan := planWithDeparture("1230")
	plan.EstLandingFuelTenths = 125
	plan.HasEstLandingFuel = true

	records := []*WaypointRecord{
		{Ident: "A", TBO: "0180", DSTN: "1200", ActualFuel: "134.5"},
	}

	rows := engine.Derive(records, plan, takeoff)
	d := rows[0].Derived
	// 134.5 on board less 120.0 to destination
	assert.Equal(t, "14.5", d.EFOA)
	// 14.5 against a planned landing fuel of 12.5
	assert.Equal(t, "2.0", d.LandingFuelDelta)
	assert.Equal(t, SigExcess, d.LandingFuelSig)
}

func TestDeriveLandingShortClassification(t *testing.T) {
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	plan := planWithDeparture("1230")
	plan.EstLandingFuelTenths = 125
	plan.HasEstLandingFuel = true

	records := []*WaypointRecord{
		{Ident: "A", TBO: "0180", DSTN: "1300", ActualFuel: "134.5"},
	}

	rows := engine.Derive(records, plan, takeoff)
	assert.Equal(t, "-8.0", rows[0].Derived.LandingFuelDelta)
	assert.Equal(t, SigShort, rows[0].Derived.LandingFuelSig)
}

func TestDeriveUnknownNeverSilentZero(t *testing.T) {
	// Placeholder and malformed fields propagate as indeterminate, not as
	// zero-valued deltas
	engine := newTestEngine()
	takeoff := &ActualTakeoff{Time: "1230", Fuel: "152.0"}
	records := []*WaypointRecord{
		{Ident: "A", TTME: "....", TBO: "--/---", FRMG: "xx", DSTN: "...."},
	}

	rows := engine.Derive(records, planWithDeparture("1230"), takeoff)
	d := rows[0].Derived
	assert.Empty(t, d.PlannedETA)
	assert.Empty(t, d.UpdatedETA)
	assert.Empty(t, d.ETADelta)
	assert.Empty(t, d.PlannedFuel)
	assert.Empty(t, d.PlannedBurn)
	assert.Empty(t, d.UpdatedFuel)
	assert.Empty(t, d.FuelDelta)
	assert.Equal(t, "", d.FuelDeltaSig)
}

func TestDeriveRecordsNotMutated(t *testing.T) {
	engine := newTestEngine()
	record := &WaypointRecord{Ident: "A", TTME: "0.34", TBO: "0180"}
	original := *record

	engine.Derive([]*WaypointRecord{record}, planWithDeparture("1230"), &ActualTakeoff{Time: "1230", Fuel: "152.0"})
	assert.Equal(t, original, *record)
}
