package request

// HistoryFilterRequest represents bill history query parameters. Dates are
// day-first, e.g. 31/12/2025.
type HistoryFilterRequest struct {
	Search  string `form:"search"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// AnalyticsFilterRequest represents analytics query parameters
type AnalyticsFilterRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}
