// Package approval wraps the purchase-requisition approval endpoints. List
// reads absorb failures into empty collections; mutations propagate them.
package approval

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
	"github.com/constrogen/procure/internal/envelope"
)

// Requisition status codes used by the backend.
const (
	StatusPending  = "P"
	StatusApproved = "A"
	StatusRejected = "R"
	StatusClosed   = "C"
)

// StatusLabel returns the display name for a status code.
func StatusLabel(status string) string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Project is the project summary nested in a purchase request.
type Project struct {
	Key  int    `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
	Addr string `json:"addr1,omitempty"`
}

// Item is a single line of a purchase request.
type Item struct {
	Key            int             `json:"key,omitempty"`
	CreatedDttm    string          `json:"createddttm,omitempty"`
	Items          json.RawMessage `json:"items,omitempty"`
	UOM            string          `json:"uom,omitempty"`
	Qty            string          `json:"qty,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	CreatedBy      string          `json:"createdby,omitempty"`
	RequisitionKey int             `json:"pr_key,omitempty"`
	ItemKey        int             `json:"item_key,omitempty"`
	ItemUOMKey     int             `json:"item_uom_key,omitempty"`
	Company        int64           `json:"company,omitempty"`
	ClientID       int64           `json:"client_id,omitempty"`
}

// PurchaseRequest is a purchase requisition awaiting or past approval.
type PurchaseRequest struct {
	Key         int      `json:"key,omitempty"`
	Date        string   `json:"date,omitempty"`
	CreatedDttm string   `json:"createddttm,omitempty"`
	Project     *Project `json:"project,omitempty"`
	Items       []Item   `json:"purchs_req_items,omitempty"`
	ItemType    string   `json:"item_type,omitempty"`
	Number      string   `json:"number,omitempty"`
	Desc        string   `json:"desc,omitempty"`
	Status      string   `json:"status,omitempty"`
	CreatedBy   string   `json:"createdby,omitempty"`
	ProjectKey  int      `json:"proj_key,omitempty"`
	ItemTypeKey int      `json:"item_type_key,omitempty"`
	Company     int64    `json:"company,omitempty"`
	ClientID    int64    `json:"client_id,omitempty"`
}

// Service exposes the approval endpoints over the shared gateway.
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

// New creates an approval service.
func New(c *client.Client, options ...Option) *Service {
	s := &Service{client: c, logger: procure.DefaultLogger}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// List fetches purchase requests from the given endpoint, which carries the
// caller's filter query. Failures resolve to an empty collection.
func (s *Service) List(ctx context.Context, endpoint string) []PurchaseRequest {
	raw, err := client.Get[json.RawMessage](ctx, s.client, endpoint, nil)
	if err != nil {
		s.logger.Errorf("failed to list purchase requests: %v", err)
		return []PurchaseRequest{}
	}
	var requests []PurchaseRequest
	if err = envelope.Unmarshal(raw, &requests); err != nil {
		s.logger.Errorf("failed to decode purchase requests: %v", err)
		return []PurchaseRequest{}
	}
	if requests == nil {
		requests = []PurchaseRequest{}
	}
	return requests
}

// Update rewrites a purchase request. Failures propagate to the caller.
func (s *Service) Update(ctx context.Context, key int, body interface{}) (json.RawMessage, error) {
	result, err := client.Put[json.RawMessage](ctx, s.client, fmt.Sprintf("api/transaction/purchase/requisition/%d", key), body)
	if err != nil {
		s.logger.Errorf("failed to update purchase request %d: %v", key, err)
		return nil, err
	}
	return result, nil
}

// Approve rewrites the full record with status forced to approved.
func (s *Service) Approve(ctx context.Context, request *PurchaseRequest) (json.RawMessage, error) {
	return s.transition(ctx, request, StatusApproved)
}

// Reject rewrites the full record with status forced to rejected.
func (s *Service) Reject(ctx context.Context, request *PurchaseRequest) (json.RawMessage, error) {
	return s.transition(ctx, request, StatusRejected)
}

// transition sends the full record with the status overwritten, the line
// items copied under "items" and the record key stripped from the body.
func (s *Service) transition(ctx context.Context, request *PurchaseRequest, status string) (json.RawMessage, error) {
	payload, err := transitionPayload(request, status)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, request.Key, payload)
}

func transitionPayload(request *PurchaseRequest, status string) (map[string]interface{}, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err = json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	payload["status"] = status
	payload["items"] = payload["purchs_req_items"]
	delete(payload, "key")
	return payload, nil
}
