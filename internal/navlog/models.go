package navlog

// PageBreakText is the sentinel cell text marking a page boundary in the row
// stream. Sentinel rows are never classified as data.
const PageBreakText = "__PAGE_BREAK__"

// Cell is one horizontally merged fragment within a visual row
type Cell struct {
	X    float64 `json:"x"`
	Text string  `json:"text"`
}

// Row is one visual line of the document: cells ordered by x
type Row struct {
	Page  int     `json:"page"`
	Y     float64 `json:"y"`
	Cells []Cell  `json:"cells"`
}

// Text returns the row's cells joined with single spaces
func (r *Row) Text() string {
	text := ""
	for i, cell := range r.Cells {
		if i > 0 {
			text += " "
		}
		text += cell.Text
	}
	return text
}

// IsPageBreak reports whether this is the page-boundary sentinel row
func (r *Row) IsPageBreak() bool {
	return len(r.Cells) == 1 && r.Cells[0].Text == PageBreakText
}

// WaypointRecord is the canonical per-waypoint record assembled from one or
// more physical navlog lines. All 27 schema fields are strings defaulting to
// empty; absence is always representable and distinct from a parsed zero.
// Field names follow the printed column headers.
type WaypointRecord struct {
	Coordinate string `json:"coordinate"` // carried forward from coordinate lines
	Ident      string `json:"ident"`      // merge key, unique per record
	Dist       string `json:"dist"`       // leg distance
	MC         string `json:"mc"`         // magnetic course
	FL         string `json:"fl"`         // flight level
	Wind       string `json:"wind"`       // forecast wind dir/speed
	CMP        string `json:"cmp"`        // wind compass component
	TASMach    string `json:"tas_mach"`   // true airspeed or mach
	Time       string `json:"time"`       // leg time
	ETA        string `json:"eta"`        // planned ETA as printed
	ATA        string `json:"ata"`        // actual time of arrival as printed
	TBO        string `json:"tbo"`        // planned burn to waypoint
	FRMG       string `json:"frmg"`       // planned fuel remaining at waypoint
	EFB        string `json:"efb"`        // estimated fuel burned
	FRQ        string `json:"frq"`        // radio frequency
	DTGO       string `json:"dtgo"`       // distance to go
	MH         string `json:"mh"`         // magnetic heading
	WS         string `json:"ws"`         // wind component
	OAT        string `json:"oat"`        // outside air temperature
	GS         string `json:"gs"`         // ground speed
	TTME       string `json:"ttme"`       // time to go from departure
	REV        string `json:"rev"`        // revision
	REM        string `json:"rem"`        // remaining
	ABO        string `json:"abo"`        // actual burn from takeoff as printed
	AFOB       string `json:"afob"`       // actual fuel on board as printed
	DSTN       string `json:"dstn"`       // distance/fuel to destination

	// Raw is the pipe-joined audit trail of every physical line that
	// contributed to this record.
	Raw string `json:"raw"`

	// Pilot-entered observations. These are the only mutable fields after
	// parsing; both empty until an actual observation is recorded.
	ActualTime string `json:"actual_time"`
	ActualFuel string `json:"actual_fuel"`
}

// HasActuals reports whether both pilot-entry fields are filled
func (w *WaypointRecord) HasActuals() bool {
	return w.ActualTime != "" && w.ActualFuel != ""
}

// FlightPlan holds the four scalar fields consumed from the ICAO flight-plan
// string plus the FIR EET table. Immutable after extraction.
type FlightPlan struct {
	Dep                  string            `json:"dep"`
	Dest                 string            `json:"dest"`
	Alt                  string            `json:"alt"`
	DepTime              string            `json:"dep_time"` // HHMM
	EETByFIR             map[string]string `json:"eet_by_fir"`
	EstLandingFuelTenths int               `json:"est_landing_fuel_tenths"`
	HasEstLandingFuel    bool              `json:"has_est_landing_fuel"`
	Raw                  string            `json:"raw"`
}

// ActualTakeoff is the pilot-entered takeoff observation
type ActualTakeoff struct {
	Time string `json:"time"` // HHMM
	Fuel string `json:"fuel"` // decimal display units, e.g. "152.0"
}

// Derived is the computed time/fuel block attached to each waypoint record.
// All values are pre-formatted strings; empty means indeterminate. Formatting
// happens only here, at the output boundary - the engine works in integer
// minutes and tenths throughout.
type Derived struct {
	PlannedETA string `json:"planned_eta"` // HHMM
	UpdatedETA string `json:"updated_eta"` // HHMM
	ETADelta   string `json:"eta_delta"`   // signed minutes, "+" explicit

	PlannedFuel  string `json:"planned_fuel"`
	PlannedBurn  string `json:"planned_burn"`
	UpdatedFuel  string `json:"updated_fuel"`
	ActualBurn   string `json:"actual_burn"`
	FuelDelta    string `json:"fuel_delta"`
	FuelDeltaSig string `json:"fuel_delta_sig"` // over-plan, under-plan, neutral

	ActualBurnFromTakeoff string `json:"actual_burn_from_takeoff"`
	BurnDiff              string `json:"burn_diff"`
	FuelDiff              string `json:"fuel_diff"`
	EFOA                  string `json:"efoa"` // estimated fuel over alternate

	LandingFuelDelta string `json:"landing_fuel_delta"`
	LandingFuelSig   string `json:"landing_fuel_sig"` // short, excess, neutral
}

// Fuel/time sign classifications for the presentation layer
const (
	SigNeutral   = "neutral"
	SigOverPlan  = "over-plan"
	SigUnderPlan = "under-plan"
	SigShort     = "short"
	SigExcess    = "excess"
)

// DerivedRow is a waypoint record with its derived block
type DerivedRow struct {
	WaypointRecord
	Derived Derived `json:"derived"`
}
