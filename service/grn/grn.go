// Package grn wraps the goods-receipt-note endpoints.
package grn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
	"github.com/constrogen/procure/internal/envelope"
)

// GRN status codes used by the backend.
const (
	StatusPending           = "P"
	StatusPartiallyReceived = "PR"
	StatusClosed            = "C"
	StatusApproved          = "A"
	StatusRejected          = "R"
)

// Item is a received line of a goods receipt note.
type Item struct {
	Key         int    `json:"key,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
	ModelNumber string `json:"model_number,omitempty"`
	OrderedQty  string `json:"ordered_qty,omitempty"`
	ReceivedQty string `json:"received_qty,omitempty"`
	Unit        string `json:"unit,omitempty"`
	CreatedBy   string `json:"createdby,omitempty"`
	HeaderKey   int    `json:"hdr_key,omitempty"`
	ItemKey     int    `json:"item_key,omitempty"`
	ItemUOMKey  int    `json:"item_uom_key,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Company     int64  `json:"company,omitempty"`
	ClientID    int64  `json:"client_id,omitempty"`
}

// Image is an attachment on a goods receipt note.
type Image struct {
	Key      int    `json:"key,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// GRN is a goods receipt note tracked against a purchase order.
type GRN struct {
	Key         int             `json:"key,omitempty"`
	Vendor      json.RawMessage `json:"vendor,omitempty"`
	Project     json.RawMessage `json:"project,omitempty"`
	Items       []Item          `json:"grn_items,omitempty"`
	Images      []Image         `json:"grn_imgs,omitempty"`
	Date        string          `json:"date,omitempty"`
	Number      string          `json:"number,omitempty"`
	Status      string          `json:"status,omitempty"`
	Comments    string          `json:"comments,omitempty"`
	CreatedBy   string          `json:"createdby,omitempty"`
	OrderKey    int             `json:"po_key,omitempty"`
	Requisition int             `json:"pr_number,omitempty"`
	CompanyID   int64           `json:"company_id,omitempty"`
	ClientID    int64           `json:"client_id,omitempty"`
}

// Service exposes the GRN endpoints over the shared gateway.
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

// New creates a GRN service.
func New(c *client.Client, options ...Option) *Service {
	s := &Service{client: c, logger: procure.DefaultLogger}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// List fetches goods receipt notes from the given endpoint, which carries
// the caller's filter query. Failures resolve to an empty collection.
func (s *Service) List(ctx context.Context, endpoint string) []GRN {
	raw, err := client.Get[json.RawMessage](ctx, s.client, endpoint, nil)
	if err != nil {
		s.logger.Errorf("failed to list goods receipt notes: %v", err)
		return []GRN{}
	}
	var notes []GRN
	if err = envelope.Unmarshal(raw, &notes); err != nil {
		s.logger.Errorf("failed to decode goods receipt notes: %v", err)
		return []GRN{}
	}
	if notes == nil {
		notes = []GRN{}
	}
	return notes
}

// Update rewrites a goods receipt note. Failures propagate to the caller.
func (s *Service) Update(ctx context.Context, key int, body interface{}) (*GRN, error) {
	raw, err := client.Put[json.RawMessage](ctx, s.client, fmt.Sprintf("api/transaction/grn/%d/", key), body)
	if err != nil {
		s.logger.Errorf("failed to update goods receipt note %d: %v", key, err)
		return nil, err
	}
	updated := &GRN{}
	if err = envelope.Unmarshal(raw, updated); err != nil {
		return nil, procure.NewTransportError(fmt.Sprintf("failed to decode goods receipt note: %v", err))
	}
	return updated, nil
}
