package utils

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage caps page numbers so offsets cannot overflow; anything past it is an empty page anyway.
	MaxPage = 1 << 20
)

// ClampLimit bounds a requested page size to 1..MaxPageLimit, DefaultPageLimit when unset.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// CalculateOffset returns the row offset of a 1-based page.
func CalculateOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	return (page - 1) * min(perPage, MaxPageLimit)
}
