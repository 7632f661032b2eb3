package extraction

// Token is a single positioned text fragment from the extraction service.
// Coordinates are in the service's page space, y increasing upward.
type Token struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Page represents one document page of positioned tokens, in service order
type Page struct {
	Number int     `json:"number"`
	Tokens []Token `json:"tokens"`
}

// Result is the complete output of the extraction service for one document
type Result struct {
	Pages []Page `json:"pages"`
}

// TokenCount returns the total number of tokens across all pages
func (r *Result) TokenCount() int {
	count := 0
	for _, page := range r.Pages {
		count += len(page.Tokens)
	}
	return count
}
