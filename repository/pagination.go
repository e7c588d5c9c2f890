package repository

// DefaultPageSize matches the listing grid of the site.
const DefaultPageSize = 9

// normalizePaging clamps a caller-supplied page to >= 1 and substitutes the
// default page size for non-positive ones.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// pageCount is ceil(total/pageSize); zero matches yield zero pages.
func pageCount(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
