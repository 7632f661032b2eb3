package navlog

import (
	"github.com/yegors/navlog/pkg/logger"
)

// Assembler folds classified table lines into one canonical record per
// waypoint identifier, in order of first appearance
type Assembler struct {
	logger *logger.Logger
}

// NewAssembler creates a new waypoint assembler
func NewAssembler(logger *logger.Logger) *Assembler {
	return &Assembler{
		logger: logger.Named("assembler"),
	}
}

// assembleState is the fold state threaded through line classification: the
// identifier and coordinate carry-forward plus the FIELD-block flag. Only
// main and FIR lines may change the current identifier; frequency and
// continuation lines always attach to whatever identifier is active.
type assembleState struct {
	currentIdent string
	currentCoord string
	inFieldBlock bool
}

// Assemble walks the table lines following the column header and produces the
// ordered, fully merged waypoint records
func (a *Assembler) Assemble(rows []Row) []*WaypointRecord {
	records := make(map[string]*WaypointRecord)
	var order []string
	var state assembleState

	for i := range rows {
		line := ClassifyLine(rows[i].Text())

		// Formatting-only lines and FIELD headings never touch the
		// identifier or coordinate context.
		switch line.Kind {
		case KindSkip:
			continue
		case KindFieldHeading:
			state.inFieldBlock = true
			continue
		}

		// A new waypoint or FIR boundary ends any FIELD block; every other
		// line inside one is dropped before it can touch the identifier or
		// coordinate context
		if line.Kind == KindMain || line.Kind == KindFIR {
			state.inFieldBlock = false
		} else if state.inFieldBlock {
			continue
		}

		if line.Coordinate != "" {
			state.currentCoord = line.Coordinate
		}

		switch line.Kind {
		case KindCoordinate, KindOther:
			continue
		case KindFIR:
			state.currentIdent = line.FIR
		case KindMain:
			state.currentIdent = line.Fields[0].Value
		}

		// Frequency and continuation lines before any identifying line have
		// nothing to attach to
		if state.currentIdent == "" {
			a.logger.Debug("Dropping line with no active identifier",
				logger.String("text", line.Text))
			continue
		}

		record, exists := records[state.currentIdent]
		if !exists {
			record = &WaypointRecord{Ident: state.currentIdent}
			mergeField(&record.Coordinate, state.currentCoord)
			records[state.currentIdent] = record
			order = append(order, state.currentIdent)
		}

		for _, field := range line.Fields {
			a.mergeInto(record, field.Name, field.Value)
		}

		// Every contributing physical line lands in the raw audit trail
		if record.Raw == "" {
			record.Raw = line.Text
		} else {
			record.Raw += "|" + line.Text
		}
	}

	result := make([]*WaypointRecord, 0, len(order))
	for _, ident := range order {
		result = append(result, records[ident])
	}

	a.logger.Debug("Assembled waypoint records",
		logger.Int("lines", len(rows)),
		logger.Int("records", len(result)),
	)

	return result
}

// mergeInto applies one field contribution to a record, rejecting anything
// outside the locked schema
func (a *Assembler) mergeInto(record *WaypointRecord, name, value string) {
	ref := fieldRef(record, name)
	if ref == nil {
		a.logger.Warn("Ignoring field outside record schema", logger.String("field", name))
		return
	}
	mergeField(ref, value)
}

// mergeField applies the fill-empty-or-replace-placeholder rule: a field is
// overwritten only when it is empty, or when it holds a placeholder and the
// incoming value is a non-empty non-placeholder. Previously captured real
// data is never discarded, and re-applying the same contribution is a no-op.
func mergeField(field *string, value string) {
	if value == "" {
		return
	}
	if *field == "" {
		*field = value
		return
	}
	if IsPlaceholder(*field) && !IsPlaceholder(value) {
		*field = value
	}
}

// fieldRef resolves a schema field name to the record field it names, or nil
// for anything outside the schema
func fieldRef(r *WaypointRecord, name string) *string {
	switch name {
	case FieldCoordinate:
		return &r.Coordinate
	case FieldIdent:
		return &r.Ident
	case FieldDist:
		return &r.Dist
	case FieldMC:
		return &r.MC
	case FieldFL:
		return &r.FL
	case FieldWind:
		return &r.Wind
	case FieldCMP:
		return &r.CMP
	case FieldTASMach:
		return &r.TASMach
	case FieldTime:
		return &r.Time
	case FieldETA:
		return &r.ETA
	case FieldATA:
		return &r.ATA
	case FieldTBO:
		return &r.TBO
	case FieldFRMG:
		return &r.FRMG
	case FieldEFB:
		return &r.EFB
	case FieldFRQ:
		return &r.FRQ
	case FieldDTGO:
		return &r.DTGO
	case FieldMH:
		return &r.MH
	case FieldWS:
		return &r.WS
	case FieldOAT:
		return &r.OAT
	case FieldGS:
		return &r.GS
	case FieldTTME:
		return &r.TTME
	case FieldREV:
		return &r.REV
	case FieldREM:
		return &r.REM
	case FieldABO:
		return &r.ABO
	case FieldAFOB:
		return &r.AFOB
	case FieldDSTN:
		return &r.DSTN
	}
	return nil
}
