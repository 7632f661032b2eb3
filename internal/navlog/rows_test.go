package navlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/pkg/logger"
)

func newTestRowBuilder() *RowBuilder {
	return NewRowBuilder(2.0, 10.0, logger.NewNop())
}

func TestRowBuilderGroupsByY(t *testing.T) {
	builder := newTestRowBuilder()
	result := &extraction.Result{Pages: []extraction.Page{{
		Number: 1,
		Tokens: []extraction.Token{
			{Text: "SECOND", X: 0, Y: 500.0},
			{Text: "FIRST", X: 0, Y: 700.0},
			// Same visual line as FIRST, slightly offset y
			{Text: "LINE", X: 50, Y: 700.4},
		},
	}}}

	rows := builder.Build(result)
	// Two data rows plus the page-break sentinel
	require.Len(t, rows, 3)
	assert.Equal(t, "FIRST LINE", rows[0].Text())
	assert.Equal(t, "SECOND", rows[1].Text())
	assert.True(t, rows[2].IsPageBreak())
}

func TestRowBuilderMergesAdjacentFragments(t *testing.T) {
	builder := newTestRowBuilder()
	result := &extraction.Result{Pages: []extraction.Page{{
		Number: 1,
		Tokens: []extraction.Token{
			// Fragments within the gap threshold merge into one cell
			{Text: "ELB", X: 10, Y: 100},
			{Text: "OW", X: 15, Y: 100},
			// A fragment past the threshold starts a new cell
			{Text: "0045", X: 60, Y: 100},
		},
	}}}

	rows := builder.Build(result)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Cells, 2)
	assert.Equal(t, "ELB OW", rows[0].Cells[0].Text)
	assert.Equal(t, "0045", rows[0].Cells[1].Text)
}

func TestRowBuilderSortsCellsByX(t *testing.T) {
	builder := newTestRowBuilder()
	result := &extraction.Result{Pages: []extraction.Page{{
		Number: 1,
		Tokens: []extraction.Token{
			{Text: "RIGHT", X: 200, Y: 100},
			{Text: "LEFT", X: 10, Y: 100},
		},
	}}}

	rows := builder.Build(result)
	require.Len(t, rows, 2)
	assert.Equal(t, "LEFT RIGHT", rows[0].Text())
}

func TestRowBuilderDropsBlankTokens(t *testing.T) {
	builder := newTestRowBuilder()
	result := &extraction.Result{Pages: []extraction.Page{{
		Number: 1,
		Tokens: []extraction.Token{
			{Text: "  ", X: 0, Y: 100},
			{Text: "DATA", X: 50, Y: 100},
		},
	}}}

	rows := builder.Build(result)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Cells, 1)
	assert.Equal(t, "DATA", rows[0].Cells[0].Text)
}

func TestRowBuilderPreservesReadingOrderAcrossPages(t *testing.T) {
	builder := newTestRowBuilder()
	result := &extraction.Result{Pages: []extraction.Page{
		{Number: 1, Tokens: []extraction.Token{{Text: "PAGE1", X: 0, Y: 100}}},
		{Number: 2, Tokens: []extraction.Token{{Text: "PAGE2", X: 0, Y: 100}}},
	}}

	rows := builder.Build(result)
	require.Len(t, rows, 4)
	assert.Equal(t, "PAGE1", rows[0].Text())
	assert.True(t, rows[1].IsPageBreak())
	assert.Equal(t, "PAGE2", rows[2].Text())
	assert.True(t, rows[3].IsPageBreak())
	assert.Equal(t, 1, rows[0].Page)
	assert.Equal(t, 2, rows[2].Page)
}
