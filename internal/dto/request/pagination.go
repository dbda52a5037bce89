package request

import "pizza-service/pkg/utils"

// ListRequest is the query of a paged, name-filtered listing.
type ListRequest struct {
	Page  int
	Limit int
	Name  string
}

// Offset for 1-based pages
func (p ListRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit)
}

// ZeroBasedOffset for 0-based pages
func (p ListRequest) ZeroBasedOffset() int {
	if p.Page < 0 {
		return 0
	}
	return utils.CalculateOffset(min(p.Page, utils.MaxPage-1)+1, p.Limit)
}
