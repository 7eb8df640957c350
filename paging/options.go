package paging

import (
	"fmt"

	"github.com/ncobase/keyset/types"
	"github.com/ncobase/keyset/validation/validator"
)

// Defaults applied by DefaultConfig.
const (
	DefaultLimit     = 10
	DefaultMaxLimit  = 100
	DefaultSortField = "createdAt"
	DefaultIDField   = "_id"
)

// Config holds the paginator settings, usually read from the "paging"
// section of the application config.
type Config struct {
	DefaultLimit     int      `mapstructure:"default_limit" json:"default_limit" validate:"gte=1"`
	MaxLimit         int      `mapstructure:"max_limit" json:"max_limit" validate:"gte=1"`
	DefaultSortField string   `mapstructure:"default_sort_field" json:"default_sort_field" validate:"required,fieldname"`
	IDField          string   `mapstructure:"id_field" json:"id_field" validate:"required,fieldname"`
	SortableFields   []string `mapstructure:"sortable_fields" json:"sortable_fields" validate:"dive,fieldname"`
	CursorSecret     string   `mapstructure:"cursor_secret" json:"cursor_secret"`
}

// DefaultConfig returns the default paginator settings.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:     DefaultLimit,
		MaxLimit:         DefaultMaxLimit,
		DefaultSortField: DefaultSortField,
		IDField:          DefaultIDField,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	fields := validator.ValidateStruct(c)
	if c.DefaultLimit > c.MaxLimit && c.MaxLimit > 0 {
		fields["default_limit"] = fmt.Sprintf("must not exceed max_limit (%d)", c.MaxLimit)
	}
	if len(c.SortableFields) > 0 && !contains(c.SortableFields, c.DefaultSortField) {
		fields["default_sort_field"] = "must be one of sortable_fields"
	}
	return invalidArguments(fields)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ByIDOptions are the arguments of PaginateByID. A zero Limit selects the
// configured default; an empty Direction selects desc.
type ByIDOptions struct {
	Cursor    string      `json:"cursor"`
	Limit     int         `json:"limit" validate:"gte=0"`
	Direction types.Order `json:"direction" validate:"omitempty,oneof=asc desc"`
	Filter    Expr        `json:"-"`
}

// ByFieldOptions are the arguments of PaginateByField. An empty SortField
// selects the configured default sort field.
type ByFieldOptions struct {
	Cursor    string      `json:"cursor"`
	Limit     int         `json:"limit" validate:"gte=0"`
	SortField string      `json:"sort_field" validate:"omitempty,fieldname"`
	Direction types.Order `json:"direction" validate:"omitempty,oneof=asc desc"`
	Filter    Expr        `json:"-"`
}

// ConnectionArgs are the arguments of BidirectionalPaginate. After pairs
// with First and walks forward; Before pairs with Last and walks backward.
// Exactly one of First and Last must be set.
type ConnectionArgs struct {
	After     string      `json:"after"`
	Before    string      `json:"before"`
	First     *int        `json:"first" validate:"omitempty,gte=1"`
	Last      *int        `json:"last" validate:"omitempty,gte=1"`
	SortField string      `json:"sort_field" validate:"omitempty,fieldname"`
	Direction types.Order `json:"direction" validate:"omitempty,oneof=asc desc"`
	Filter    Expr        `json:"-"`
}

func (a *ConnectionArgs) check() error {
	fields := validator.ValidateStruct(a)
	switch {
	case a.First != nil && a.Last != nil:
		fields["last"] = "cannot be combined with first"
	case a.First == nil && a.Last == nil:
		fields["first"] = "one of first or last is required"
	}
	switch {
	case a.After != "" && a.Before != "":
		fields["before"] = "cannot be combined with after"
	case a.After != "" && a.Last != nil:
		fields["after"] = "pairs with first, not last"
	case a.Before != "" && a.First != nil:
		fields["before"] = "pairs with last, not first"
	}
	return invalidArguments(fields)
}
