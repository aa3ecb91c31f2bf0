// Package hubspot provides a client for the HubSpot CRM v3 tickets API.
// Tickets map onto sync records: the subject property is the identity key,
// content carries the description, and the pipeline stage and ticket
// priority properties carry status and priority.
package hubspot

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/SophieMSL/hubspot-monday-sync/internal/transport"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Ticket property names used by the CRM v3 objects API.
const (
	propSubject  = "subject"
	propContent  = "content"
	propStage    = "hs_pipeline_stage"
	propPriority = "hs_ticket_priority"
)

// propertyNames maps sync fields to HubSpot ticket properties.
var propertyNames = map[records.Field]string{
	records.FieldTitle:       propSubject,
	records.FieldDescription: propContent,
	records.FieldStatus:      propStage,
	records.FieldPriority:    propPriority,
}

// ticket represents a ticket object in the CRM v3 API response.
type ticket struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// listResponse represents the CRM v3 list tickets response.
type listResponse struct {
	Results []ticket `json:"results"`
	Paging  *paging  `json:"paging,omitempty"`
}

// paging carries the cursor for the next page of results.
type paging struct {
	Next *pagingNext `json:"next,omitempty"`
}

type pagingNext struct {
	After string `json:"after"`
}

// ticketRequest is the request body for create and update calls.
type ticketRequest struct {
	Properties map[string]string `json:"properties"`
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithPageSize overrides the list page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 && size <= constants.MaxPageSize {
			c.pageSize = size
		}
	}
}

// Client implements the reconciler.Platform interface for HubSpot tickets.
type Client struct {
	transport *transport.Client
	baseURL   string
	pageSize  int
}

// NewClient creates a new HubSpot tickets client authenticated with a
// private app access token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		transport: transport.New(&transport.BearerAuth{}, token),
		baseURL:   constants.HubspotAPIURL,
		pageSize:  constants.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the platform identifier.
func (c *Client) Name() records.Platform {
	return records.Hubspot
}

// List retrieves all tickets, following the paging cursor until exhausted.
func (c *Client) List(ctx context.Context) ([]records.Record, error) {
	var all []records.Record
	after := ""

	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprintf("%d", c.pageSize))
		query.Set("properties", strings.Join([]string{propSubject, propContent, propStage, propPriority}, ","))
		if after != "" {
			query.Set("after", after)
		}

		resp, err := c.transport.Get(ctx, c.baseURL+"/crm/v3/objects/tickets?"+query.Encode())
		if err != nil {
			return nil, &errors.APIError{
				Platform:   records.Hubspot.String(),
				StatusCode: 0,
				Message:    "list tickets request failed",
				Err:        err,
			}
		}

		var page listResponse
		if err := transport.DecodeResponse(records.Hubspot.String(), resp, &page); err != nil {
			return nil, err
		}

		for _, t := range page.Results {
			all = append(all, recordFromTicket(t))
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		after = page.Paging.Next.After
	}

	return all, nil
}

// Create creates a new ticket with the given field values and returns its ID.
func (c *Client) Create(ctx context.Context, fields records.FieldSet) (string, error) {
	body := ticketRequest{Properties: propertiesFromFields(fields)}

	resp, err := c.transport.Post(ctx, c.baseURL+"/crm/v3/objects/tickets", body)
	if err != nil {
		return "", &errors.APIError{
			Platform:   records.Hubspot.String(),
			StatusCode: 0,
			Message:    "create ticket request failed",
			Err:        err,
		}
	}

	var created ticket
	if err := transport.DecodeResponse(records.Hubspot.String(), resp, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Update patches the given properties on an existing ticket. Properties not
// named in fields keep their current values.
func (c *Client) Update(ctx context.Context, remoteID string, fields records.FieldSet) error {
	body := ticketRequest{Properties: propertiesFromFields(fields)}

	resp, err := c.transport.Patch(ctx, c.baseURL+"/crm/v3/objects/tickets/"+url.PathEscape(remoteID), body)
	if err != nil {
		return &errors.APIError{
			Platform:   records.Hubspot.String(),
			StatusCode: 0,
			Message:    "update ticket request failed",
			Err:        err,
		}
	}

	return transport.DecodeResponse(records.Hubspot.String(), resp, nil)
}

// recordFromTicket converts a CRM ticket to a sync record.
func recordFromTicket(t ticket) records.Record {
	return records.Record{
		Title:       t.Properties[propSubject],
		Description: t.Properties[propContent],
		Status:      t.Properties[propStage],
		Priority:    t.Properties[propPriority],
		RemoteID:    t.ID,
	}
}

// propertiesFromFields converts a field set to ticket properties.
func propertiesFromFields(fields records.FieldSet) map[string]string {
	props := make(map[string]string, len(fields))
	for field, value := range fields {
		if name, ok := propertyNames[field]; ok {
			props[name] = value
		}
	}
	return props
}
