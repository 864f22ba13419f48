// Package requisition wraps the purchase-requisition authoring endpoints:
// reference data lookups for the requisition form and the create/update
// mutations.
package requisition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
	"github.com/constrogen/procure/internal/envelope"
)

// Project is a construction project a requisition can be raised against.
type Project struct {
	Key   int    `json:"key,omitempty"`
	Name  string `json:"name,omitempty"`
	Descr string `json:"descr,omitempty"`
}

// ItemType is a procurement category.
type ItemType struct {
	Key   int    `json:"key,omitempty"`
	Descr string `json:"descr,omitempty"`
}

// Item is an orderable inventory item.
type Item struct {
	Key   int    `json:"key,omitempty"`
	Descr string `json:"descr,omitempty"`
}

// UOM is a unit of measure valid for an item type.
type UOM struct {
	Key   int    `json:"key,omitempty"`
	Descr string `json:"descr,omitempty"`
}

// Line is a single requested item on a requisition.
type Line struct {
	ItemKey    int    `json:"item_key"`
	Name       string `json:"name,omitempty"`
	Qty        string `json:"qty"`
	ItemUOMKey int    `json:"item_uom_key"`
	UOM        string `json:"uom,omitempty"`
	UnitPrice  string `json:"unitPrice,omitempty"`
	TotalPrice string `json:"totalPrice,omitempty"`
}

// Requisition is the create/update payload for a purchase requisition.
type Requisition struct {
	ProjectKey   int    `json:"proj_key"`
	ItemTypeKey  int    `json:"item_type_key"`
	DocID        string `json:"docid"`
	Number       int    `json:"number"`
	Stage        string `json:"stage,omitempty"`
	RequiredDate string `json:"requiredDate,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Items        []Line `json:"items"`
}

// Service exposes the requisition endpoints over the shared gateway.
type Service struct {
	client *client.Client
	logger procure.Logger
}

// Option mutates Service.
type Option func(*Service)

// WithLogger overrides the logger used for absorbed read failures.
func WithLogger(logger procure.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a requisition service.
func New(c *client.Client, options ...Option) *Service {
	s := &Service{client: c, logger: procure.DefaultLogger}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// list fetches a reference collection, absorbing failures into an empty
// result so the requisition form renders with no data instead of an error.
func list[T any](ctx context.Context, s *Service, endpoint string, params url.Values, what string) []T {
	raw, err := client.Get[json.RawMessage](ctx, s.client, endpoint, params)
	if err != nil {
		s.logger.Errorf("failed to fetch %s: %v", what, err)
		return []T{}
	}
	var items []T
	if err = envelope.Unmarshal(raw, &items); err != nil {
		s.logger.Errorf("failed to decode %s: %v", what, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Projects returns the active projects.
func (s *Service) Projects(ctx context.Context) []Project {
	return list[Project](ctx, s, "api/project/project/all/active", nil, "projects")
}

// ItemTypes returns all procurement categories.
func (s *Service) ItemTypes(ctx context.Context) []ItemType {
	params := url.Values{"without_pagination": {"1"}}
	return list[ItemType](ctx, s, "api/inventory/item_type/", params, "item types")
}

// Items returns the items belonging to an item type.
func (s *Service) Items(ctx context.Context, itemTypeKey int) []Item {
	params := url.Values{
		"item_types":         {strconv.Itoa(itemTypeKey)},
		"without_pagination": {"1"},
	}
	return list[Item](ctx, s, "api/inventory/item/", params, "items")
}

// UOMs returns the units of measure valid for an item type.
func (s *Service) UOMs(ctx context.Context, itemTypeKey int) []UOM {
	params := url.Values{
		"item_type":          {strconv.Itoa(itemTypeKey)},
		"without_pagination": {"1"},
	}
	return list[UOM](ctx, s, "api/inventory/item_uom/", params, "units of measure")
}

// NextDocID returns the next requisition document number, zero on failure.
func (s *Service) NextDocID(ctx context.Context) int {
	params := url.Values{"docid": {"PR"}}
	raw, err := client.Get[json.RawMessage](ctx, s.client, "api/transaction/doc/id/next", params)
	if err != nil {
		s.logger.Errorf("failed to fetch next doc id: %v", err)
		return 0
	}
	result := struct {
		NextDocID int `json:"next_doc_id"`
	}{}
	if err = envelope.Unmarshal(raw, &result); err != nil {
		s.logger.Errorf("failed to decode next doc id: %v", err)
		return 0
	}
	return result.NextDocID
}

// Submit creates a new requisition. Failures propagate to the caller.
func (s *Service) Submit(ctx context.Context, requisition *Requisition) (json.RawMessage, error) {
	result, err := client.Post[json.RawMessage](ctx, s.client, "api/transaction/purchase/requisition/", requisition)
	if err != nil {
		s.logger.Errorf("failed to submit requisition: %v", err)
		return nil, err
	}
	return result, nil
}

// Update rewrites an existing requisition. Failures propagate to the caller.
func (s *Service) Update(ctx context.Context, key int, requisition *Requisition) (json.RawMessage, error) {
	result, err := client.Put[json.RawMessage](ctx, s.client, fmt.Sprintf("api/transaction/purchase/requisition/%d", key), requisition)
	if err != nil {
		s.logger.Errorf("failed to update requisition %d: %v", key, err)
		return nil, err
	}
	return result, nil
}
