package cli

import (
	"errors"
	"fmt"
	"strings"

	"go.einride.tech/aip/ordering"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

var errSingleSortField = errors.New("sort accepts a single field")

type sortSpec struct {
	field models.SortField
	order models.Order
	// explicit is set when the order was typed rather than implied.
	explicit bool
}

// parseSortArgs reads "field", "field asc" or "field desc" through the
// AIP-132 order_by grammar. Ascending is the grammar's default, so a
// trailing asc is dropped before parsing.
func parseSortArgs(args []string) (sortSpec, error) {
	explicit := len(args) > 1
	if len(args) == 2 {
		if _, err := models.ParseOrder(strings.ToLower(args[1])); err != nil {
			return sortSpec{}, err
		}
	}
	raw := strings.ToLower(strings.Join(args, " "))
	raw = strings.TrimSuffix(raw, " "+string(models.OrderAsc))

	var orderBy ordering.OrderBy
	if err := orderBy.UnmarshalString(raw); err != nil {
		return sortSpec{}, fmt.Errorf("%w: %q", models.ErrInvalidSortField, strings.Join(args, " "))
	}
	if len(orderBy.Fields) != 1 {
		return sortSpec{}, errSingleSortField
	}

	paths := make([]string, 0, len(models.SortFields))
	for _, f := range models.SortFields {
		paths = append(paths, string(f))
	}
	if err := orderBy.ValidateForPaths(paths...); err != nil {
		return sortSpec{}, fmt.Errorf("%w: %q", models.ErrInvalidSortField, orderBy.Fields[0].Path)
	}

	spec := sortSpec{
		field:    models.SortField(orderBy.Fields[0].Path),
		order:    models.OrderAsc,
		explicit: explicit,
	}
	if orderBy.Fields[0].Desc {
		spec.order = models.OrderDesc
	}
	return spec, nil
}
