package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_Toggle(t *testing.T) {
	s := DefaultSort()
	require.Equal(t, Sort{Field: SortByName, Order: OrderAsc}, s)

	s = s.Toggle(SortByName)
	assert.Equal(t, Sort{Field: SortByName, Order: OrderDesc}, s)

	s = s.Toggle(SortByName)
	assert.Equal(t, Sort{Field: SortByName, Order: OrderAsc}, s)

	s = s.Toggle(SortByName).Toggle(SortByZipcode)
	assert.Equal(t, Sort{Field: SortByZipcode, Order: OrderAsc}, s, "other field resets to asc")
}

func TestParseSortField(t *testing.T) {
	for _, in := range []string{"id", "NAME", " zipcode "} {
		_, err := ParseSortField(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseSortField("email")
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, o)
	assert.Equal(t, OrderAsc, o.Reverse())

	_, err = ParseOrder("up")
	assert.ErrorIs(t, err, ErrInvalidOrder)
}
