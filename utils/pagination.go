package utils

import (
	"math"
	"strconv"
)

const MaxPageLimit = 100

type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page/limit query values; anything unparsable or out of range
// falls back to page 1 and defaultLimit. Pages whose offset would exceed
// math.MaxInt32 are out of range.
func ParsePage(rawPage, rawLimit string, defaultLimit int) Page {
	p := Page{Page: 1, Limit: defaultLimit}

	if n, err := strconv.Atoi(rawLimit); err == nil && n > 0 && n <= MaxPageLimit {
		p.Limit = n
	}
	if n, err := strconv.Atoi(rawPage); err == nil && n > 0 && n-1 <= math.MaxInt32/p.Limit {
		p.Page = n
	}

	return p
}

// NewPage normalizes programmatic page values the same way ParsePage does.
func NewPage(page, limit, defaultLimit int) Page {
	return ParsePage(strconv.Itoa(page), strconv.Itoa(limit), defaultLimit)
}
