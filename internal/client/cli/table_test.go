package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
)

func sampleUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "Ann Lee", Username: "ann", Email: "ann@example.com", Phone: "+7 999 111-22-33", Zipcode: "101000"},
		{ID: 2, Name: "bob", Username: "bobby", Email: "bob@example.com", Phone: "+7 999 444-55-66", Zipcode: "190000"},
	}
}

func render(st services.State, width int) string {
	var b bytes.Buffer
	renderTable(&b, st, width)
	return b.String()
}

func TestRenderTable_States(t *testing.T) {
	tests := []struct {
		name  string
		state services.State
		want  string
	}{
		{"loading", services.State{Status: services.StatusLoading}, "loading...\n"},
		{"empty", services.State{Status: services.StatusLoaded}, "no users found\n"},
		{"error without users", services.State{Status: services.StatusError, Err: services.LoadErrorMessage}, "error: failed to load users\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.state, 120))
		})
	}
}

func TestRenderTable_ErrorKeepsStaleRows(t *testing.T) {
	out := render(services.State{
		Status: services.StatusError,
		Err:    services.LoadErrorMessage,
		Users:  sampleUsers(),
		Sort:   models.DefaultSort(),
	}, 120)

	assert.True(t, strings.HasPrefix(out, "error: failed to load users\n"))
	assert.Contains(t, out, "Ann Lee")
}

func TestRenderTable_Rows(t *testing.T) {
	st := services.State{
		Status:   services.StatusLoaded,
		Users:    sampleUsers(),
		Sort:     models.Sort{Field: models.SortByName, Order: models.OrderDesc},
		Selected: []int64{2},
	}
	out := render(st, 200)
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, rows, 4)

	assert.Equal(t, "1 selected (type 'delete' to remove)", rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "[ ]"), "not every user is selected")
	assert.Contains(t, rows[1], "Name ↓")
	assert.NotContains(t, rows[1], "ID ↑")

	assert.True(t, strings.HasPrefix(rows[2], "[ ]"))
	assert.Contains(t, rows[2], "(A)")
	assert.Contains(t, rows[2], "ann@example.com")

	assert.True(t, strings.HasPrefix(rows[3], "[x]"))
	assert.Contains(t, rows[3], "(B)", "avatar letter is upper-cased")
}

func TestRenderTable_AllSelectedHeader(t *testing.T) {
	st := services.State{
		Status:   services.StatusLoaded,
		Users:    sampleUsers(),
		Sort:     models.DefaultSort(),
		Selected: []int64{1, 2},
	}
	rows := strings.Split(render(st, 200), "\n")
	assert.True(t, strings.HasPrefix(rows[1], "[x]"))
}

func TestRenderTable_FitsNarrowTerminal(t *testing.T) {
	st := services.State{Status: services.StatusLoaded, Users: sampleUsers(), Sort: models.DefaultSort()}

	const width = 60
	out := render(st, width)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), width, line)
	}
	assert.Contains(t, out, "…")
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "а", truncate("абв", 1))
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "abc", pad("abc", 2))
}
