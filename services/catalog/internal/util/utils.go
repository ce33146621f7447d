package util

import "strconv"

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns json-server style _page/_limit into offset and limit.
// A non-positive limit means no paging at all.
func Calculate(page, limit int) (offset int, size int) {
	if limit < 1 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit, limit
}
