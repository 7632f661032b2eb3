package navlog

import (
	"math"
	"sort"
	"strings"

	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/pkg/logger"
)

// RowBuilder groups positioned tokens into visually ordered rows and merges
// horizontally adjacent fragments into cells
type RowBuilder struct {
	yTolerance float64
	xGapMax    float64
	logger     *logger.Logger
}

// NewRowBuilder creates a new row builder with the given layout tolerances
func NewRowBuilder(yTolerance, xGapMax float64, logger *logger.Logger) *RowBuilder {
	return &RowBuilder{
		yTolerance: yTolerance,
		xGapMax:    xGapMax,
		logger:     logger.Named("row-builder"),
	}
}

// Build converts the extraction result into rows in reading order across all
// pages. Rows within a page are ordered top to bottom (descending y), and a
// page-break sentinel row follows each page. Non-blank tokens are never
// dropped and cell text is never empty.
func (b *RowBuilder) Build(result *extraction.Result) []Row {
	var rows []Row

	for _, page := range result.Pages {
		pageRows := b.buildPage(page)
		rows = append(rows, pageRows...)
		rows = append(rows, Row{
			Page:  page.Number,
			Cells: []Cell{{Text: PageBreakText}},
		})
	}

	b.logger.Debug("Built rows from extraction result",
		logger.Int("pages", len(result.Pages)),
		logger.Int("rows", len(rows)),
	)

	return rows
}

// buildPage groups one page's tokens into rows
func (b *RowBuilder) buildPage(page extraction.Page) []Row {
	// Bucket tokens by rounded y so fragments within the tolerance share a row
	buckets := make(map[int][]extraction.Token)
	for _, token := range page.Tokens {
		if strings.TrimSpace(token.Text) == "" {
			continue
		}
		key := int(math.Round(token.Y / b.yTolerance))
		buckets[key] = append(buckets[key], token)
	}

	// Document reading order is top to bottom: descending y
	keys := make([]int, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		tokens := buckets[key]
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].X < tokens[j].X
		})
		rows = append(rows, Row{
			Page:  page.Number,
			Y:     tokens[0].Y,
			Cells: b.mergeCells(tokens),
		})
	}

	return rows
}

// mergeCells merges x-adjacent fragments into cells. Two fragments belong to
// the same cell when the x-gap between them is below the gap threshold.
func (b *RowBuilder) mergeCells(tokens []extraction.Token) []Cell {
	var cells []Cell
	var current *Cell
	lastX := 0.0

	for _, token := range tokens {
		text := normalizeSpace(token.Text)
		if current != nil && token.X-lastX < b.xGapMax {
			current.Text += " " + text
		} else {
			cells = append(cells, Cell{X: token.X, Text: text})
			current = &cells[len(cells)-1]
		}
		lastX = token.X
	}

	return cells
}

// normalizeSpace collapses runs of whitespace to single spaces and trims
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
