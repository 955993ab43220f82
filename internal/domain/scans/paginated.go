package scans

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []AnalysisResult `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int64            `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
}

// Paginate slices history into 1-based pages.
func Paginate(history []AnalysisResult, page, pageSize int) PaginatedResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultHistoryLimit
	}
	total := len(history)
	res := PaginatedResult{
		Data:       []AnalysisResult{},
		Page:       page,
		PageSize:   pageSize,
		Total:      int64(total),
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	start := (page - 1) * pageSize
	if start >= total {
		return res
	}
	end := min(start+pageSize, total)
	res.Data = append(res.Data, history[start:end]...)
	return res
}
