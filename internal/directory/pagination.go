package directory

import (
	"strconv"
	"strings"
)

const (
	ParamPage = "page"

	DefaultPage = 1
	LastPage    = "last"
)

// Page describes one resolved page of a paginated listing.
type Page struct {
	Number     int
	Size       int
	TotalItems int64
}

// TotalPages is at least 1 so that page 1 of an empty listing is valid.
func (p Page) TotalPages() int {
	if p.Size <= 0 || p.TotalItems == 0 {
		return 1
	}
	return int((p.TotalItems + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages()
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// ResolvePage turns the raw "page" parameter into a page number. An empty
// value means the first page and "last" the final one; anything that is not
// a positive integer within range is rejected.
func ResolvePage(raw string, size int, totalItems int64) (Page, bool) {
	page := Page{Number: DefaultPage, Size: size, TotalItems: totalItems}

	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return page, true
	case LastPage:
		page.Number = page.TotalPages()
		return page, true
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return page, false
	}
	page.Number = number
	if number > page.TotalPages() {
		return page, false
	}
	return page, true
}
