package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
)

const (
	defaultWidth = 100
	columnGap    = "  "
)

type column struct {
	title string
	// sort is the field this column sorts by, if any.
	sort  models.SortField
	min   int
	value func(st services.State, u models.User) string
}

var columns = []column{
	{title: "", min: 3, value: func(st services.State, u models.User) string { return checkbox(st.IsSelected(u.ID)) }},
	{title: "ID", sort: models.SortByID, min: 2, value: func(_ services.State, u models.User) string { return strconv.FormatInt(u.ID, 10) }},
	{title: "", min: 3, value: func(_ services.State, u models.User) string { return "(" + models.AvatarLetter(u.Name) + ")" }},
	{title: "Name", sort: models.SortByName, min: 6, value: func(_ services.State, u models.User) string { return u.Name }},
	{title: "Username", min: 6, value: func(_ services.State, u models.User) string { return u.Username }},
	{title: "Email", min: 8, value: func(_ services.State, u models.User) string { return u.Email }},
	{title: "Phone", min: 8, value: func(_ services.State, u models.User) string { return u.Phone }},
	{title: "Zipcode", sort: models.SortByZipcode, min: 5, value: func(_ services.State, u models.User) string { return u.Zipcode }},
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func headerTitle(st services.State, i int, c column) string {
	if i == 0 {
		return checkbox(st.AllSelected())
	}
	if c.sort != "" && c.sort == st.Sort.Field {
		if st.Sort.Order == models.OrderDesc {
			return c.title + " ↓"
		}
		return c.title + " ↑"
	}
	return c.title
}

// renderTable writes the user list of st, fitted to width columns.
// Loading, error and empty states replace or precede the table.
func renderTable(w io.Writer, st services.State, width int) {
	if st.Loading() {
		fmt.Fprintln(w, "loading...")
		return
	}
	if st.Err != "" {
		fmt.Fprintf(w, "error: %s\n", st.Err)
	}
	if len(st.Users) == 0 {
		if st.Err == "" {
			fmt.Fprintln(w, "no users found")
		}
		return
	}

	if n := len(st.Selected); n > 0 {
		fmt.Fprintf(w, "%d selected (type 'delete' to remove)\n", n)
	}

	rows := make([][]string, 0, len(st.Users)+1)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = headerTitle(st, i, c)
	}
	rows = append(rows, header)
	for _, u := range st.Users {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = c.value(st, u)
		}
		rows = append(rows, row)
	}

	widths := fitWidths(rows, width)
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString(columnGap)
			}
			b.WriteString(pad(truncate(cell, widths[i]), widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// fitWidths returns the natural width of each column, shrinking the widest
// columns one rune at a time until the row fits or every column is at its
// minimum.
func fitWidths(rows [][]string, width int) []int {
	widths := make([]int, len(columns))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	total := len(columnGap) * (len(widths) - 1)
	for _, wd := range widths {
		total += wd
	}

	for total > width {
		widest := -1
		for i, wd := range widths {
			if wd > columns[i].min && (widest < 0 || wd > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-1]) + "…"
}

func pad(s string, n int) string {
	if d := n - utf8.RuneCountInString(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
