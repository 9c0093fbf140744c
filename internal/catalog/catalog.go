// internal/catalog/catalog.go
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Month groups the posts of one month, newest day first.
type Month struct {
	Month string
	Posts []Post
}

// Year groups the months of one year, newest month first.
type Year struct {
	Year   string
	Months []Month
}

// Catalog is the year → month → post grouping rendered into the index.
type Catalog struct {
	Years []Year
}

// Len returns the number of posts in the catalog.
func (c Catalog) Len() int {
	n := 0
	for _, y := range c.Years {
		for _, m := range y.Months {
			n += len(m.Posts)
		}
	}
	return n
}

// Group sorts posts into a Catalog: years, months and days all descending.
// Posts published on the same day keep their input order.
func Group(posts []Post) Catalog {
	sorted := slices.Clone(posts)
	// Date parts are fixed-width digit strings, so comparing them as
	// strings is the same as comparing them as numbers.
	slices.SortStableFunc(sorted, func(a, b Post) int {
		return cmp.Or(
			cmp.Compare(b.Year, a.Year),
			cmp.Compare(b.Month, a.Month),
			cmp.Compare(b.Day, a.Day),
		)
	})

	var c Catalog
	for _, p := range sorted {
		if n := len(c.Years); n == 0 || c.Years[n-1].Year != p.Year {
			c.Years = append(c.Years, Year{Year: p.Year})
		}
		y := &c.Years[len(c.Years)-1]
		if n := len(y.Months); n == 0 || y.Months[n-1].Month != p.Month {
			y.Months = append(y.Months, Month{Month: p.Month})
		}
		m := &y.Months[len(y.Months)-1]
		m.Posts = append(m.Posts, p)
	}
	return c
}

// Render formats the catalog as markdown: a "### <year> 年" heading per
// year, a "#### <month> 月" heading per month and a numbered list of
// links that restarts at 1 for every month.
func Render(c Catalog) string {
	var b strings.Builder
	for _, y := range c.Years {
		fmt.Fprintf(&b, "\n### %s 年\n\n", y.Year)
		for _, m := range y.Months {
			fmt.Fprintf(&b, "#### %s 月\n\n", monthLabel(m.Month))
			for i, p := range m.Posts {
				fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, p.Title, p.URL)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// monthLabel drops the leading zero: "01" → "1".
func monthLabel(month string) string {
	n, err := strconv.Atoi(month)
	if err != nil {
		return month
	}
	return strconv.Itoa(n)
}
