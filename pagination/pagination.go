// Package pagination computes the page buttons of the list view.
package pagination

import "strconv"

const (
	// DefaultNumRows rows per page when the request doesn't say
	DefaultNumRows = 15
	// MaxButtons size of the numbered window
	MaxButtons = 9
	// JumpPages pages skipped by the << and >> buttons
	JumpPages = 10
)

// Button one paging control, Offset is the list offset it navigates to
type Button struct {
	Label    string
	Offset   int
	Selected bool
}

// Page navigation for one list page
type Page struct {
	Offset      int
	NumRows     int
	TotalRows   int
	NumPages    int
	CurrentPage int

	JumpBack    *Button
	Previous    *Button
	Pages       []Button
	Next        *Button
	JumpForward *Button
}

// Compute builds the paging window around the current page, extending left before right
// until MaxButtons are placed or both ends are reached
func Compute(offset, numRows, totalRows int) Page {
	if numRows <= 0 {
		numRows = DefaultNumRows
	}
	if offset < 0 {
		offset = 0
	}
	if totalRows < 0 {
		totalRows = 0
	}

	numPages := (totalRows + numRows - 1) / numRows
	if numPages < 1 {
		numPages = 1
	}
	lastOffset := (numPages - 1) * numRows
	// an offset past the last page is shown as the last page
	if offset > lastOffset {
		offset = lastOffset
	}
	currentPage := offset/numRows + 1

	page := Page{
		Offset:      offset,
		NumRows:     numRows,
		TotalRows:   totalRows,
		NumPages:    numPages,
		CurrentPage: currentPage,
	}

	startPage, finishPage := currentPage, currentPage
	numButtons, left := 1, true
	for numButtons < MaxButtons {
		if left && startPage-1 >= 1 {
			numButtons++
			startPage--
		} else if !left && finishPage+1 <= numPages {
			numButtons++
			finishPage++
		}

		if left && finishPage+1 <= numPages {
			left = false
		} else if !left && startPage-1 >= 1 {
			left = true
		} else if finishPage+1 > numPages && startPage-1 < 1 {
			break
		}
	}

	if offset > 0 {
		page.JumpBack = &Button{Label: "<<", Offset: clamp(offset-numRows*JumpPages, 0, lastOffset)}
		page.Previous = &Button{Label: "<", Offset: clamp(offset-numRows, 0, lastOffset)}
	}

	for i := startPage; i <= finishPage; i++ {
		page.Pages = append(page.Pages, Button{
			Label:    strconv.Itoa(i),
			Offset:   (i - 1) * numRows,
			Selected: i == currentPage,
		})
	}

	if offset+numRows < totalRows {
		page.Next = &Button{Label: ">", Offset: clamp(offset+numRows, 0, lastOffset)}
		page.JumpForward = &Button{Label: ">>", Offset: clamp(offset+numRows*JumpPages, 0, lastOffset)}
	}

	return page
}

// Buttons all buttons in display order
func (page Page) Buttons() []Button {
	var buttons []Button
	for _, b := range []*Button{page.JumpBack, page.Previous} {
		if b != nil {
			buttons = append(buttons, *b)
		}
	}
	buttons = append(buttons, page.Pages...)
	for _, b := range []*Button{page.Next, page.JumpForward} {
		if b != nil {
			buttons = append(buttons, *b)
		}
	}
	return buttons
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
