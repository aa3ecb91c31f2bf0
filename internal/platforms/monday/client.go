// Package monday provides a client for the Monday.com GraphQL API.
// Board items map onto sync records: the item name is the identity key and
// three board columns carry description, status, and priority. Status and
// priority columns are written as labels, the description column as text.
package monday

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/SophieMSL/hubspot-monday-sync/internal/transport"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

const listQuery = `query ($boardID: ID!, $limit: Int!) {
  boards(ids: [$boardID]) {
    items_page(limit: $limit) {
      cursor
      items { id name column_values { id text } }
    }
  }
}`

const listNextQuery = `query ($cursor: String!, $limit: Int!) {
  next_items_page(cursor: $cursor, limit: $limit) {
    cursor
    items { id name column_values { id text } }
  }
}`

const createMutation = `mutation ($boardID: ID!, $name: String!, $values: JSON) {
  create_item(board_id: $boardID, item_name: $name, column_values: $values) { id }
}`

const updateMutation = `mutation ($boardID: ID!, $itemID: ID!, $values: JSON!) {
  change_multiple_column_values(board_id: $boardID, item_id: $itemID, column_values: $values) { id }
}`

// Columns holds the board column ids for the three non-name fields.
type Columns struct {
	Description string
	Status      string
	Priority    string
}

// DefaultColumns returns the column ids used when none are configured.
func DefaultColumns() Columns {
	return Columns{
		Description: "description",
		Status:      "status",
		Priority:    "priority",
	}
}

// gqlRequest is the GraphQL request envelope.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// gqlError is a single error in a GraphQL response.
type gqlError struct {
	Message string `json:"message"`
}

// item represents a board item in API responses.
type item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []columnValue `json:"column_values"`
}

type columnValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// itemsPage is one page of board items with the cursor for the next page.
type itemsPage struct {
	Cursor string `json:"cursor"`
	Items  []item `json:"items"`
}

type listResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
		NextItemsPage *itemsPage `json:"next_items_page"`
	} `json:"data"`
	Errors []gqlError `json:"errors,omitempty"`
}

type createResponse struct {
	Data struct {
		CreateItem *item `json:"create_item"`
	} `json:"data"`
	Errors []gqlError `json:"errors,omitempty"`
}

type updateResponse struct {
	Data struct {
		ChangedItem *item `json:"change_multiple_column_values"`
	} `json:"data"`
	Errors []gqlError `json:"errors,omitempty"`
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithColumns overrides the board column ids.
func WithColumns(columns Columns) Option {
	return func(c *Client) {
		if columns.Description != "" {
			c.columns.Description = columns.Description
		}
		if columns.Status != "" {
			c.columns.Status = columns.Status
		}
		if columns.Priority != "" {
			c.columns.Priority = columns.Priority
		}
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

// Client implements the reconciler.Platform interface for a Monday.com board.
type Client struct {
	transport *transport.Client
	baseURL   string
	boardID   string
	columns   Columns
	pageSize  int
}

// NewClient creates a new Monday.com client for a single board. The token
// goes in the Authorization header without a scheme prefix.
func NewClient(token, boardID string, opts ...Option) *Client {
	c := &Client{
		transport: transport.New(&transport.HeaderAuth{Header: "Authorization"}, token),
		baseURL:   constants.MondayAPIURL,
		boardID:   boardID,
		columns:   DefaultColumns(),
		pageSize:  constants.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the platform identifier.
func (c *Client) Name() records.Platform {
	return records.Monday
}

// List retrieves all items on the board, following the items_page cursor
// until exhausted.
func (c *Client) List(ctx context.Context) ([]records.Record, error) {
	var all []records.Record
	cursor := ""

	for {
		var query string
		variables := map[string]any{"limit": c.pageSize}
		if cursor == "" {
			query = listQuery
			variables["boardID"] = c.boardID
		} else {
			query = listNextQuery
			variables["cursor"] = cursor
		}

		var result listResponse
		if err := c.post(ctx, query, variables, &result); err != nil {
			return nil, err
		}
		if err := apiError(result.Errors); err != nil {
			return nil, err
		}

		var page itemsPage
		switch {
		case result.Data.NextItemsPage != nil:
			page = *result.Data.NextItemsPage
		case len(result.Data.Boards) > 0:
			page = result.Data.Boards[0].ItemsPage
		default:
			return nil, &errors.APIError{
				Platform: records.Monday.String(),
				Message:  "board not found: " + c.boardID,
			}
		}

		for _, it := range page.Items {
			all = append(all, c.recordFromItem(it))
		}

		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	return all, nil
}

// Create creates a new board item with the given field values and returns
// its ID. The title becomes the item name; the rest go in as column values.
func (c *Client) Create(ctx context.Context, fields records.FieldSet) (string, error) {
	values, err := c.columnValuesJSON(fields, false)
	if err != nil {
		return "", err
	}

	variables := map[string]any{
		"boardID": c.boardID,
		"name":    fields[records.FieldTitle],
		"values":  values,
	}

	var result createResponse
	if err := c.post(ctx, createMutation, variables, &result); err != nil {
		return "", err
	}
	if err := apiError(result.Errors); err != nil {
		return "", err
	}
	if result.Data.CreateItem == nil {
		return "", &errors.APIError{
			Platform: records.Monday.String(),
			Message:  "create_item returned no item",
		}
	}
	return result.Data.CreateItem.ID, nil
}

// Update writes the given column values to an existing item. The title, when
// present, is written through the reserved name column.
func (c *Client) Update(ctx context.Context, remoteID string, fields records.FieldSet) error {
	values, err := c.columnValuesJSON(fields, true)
	if err != nil {
		return err
	}

	variables := map[string]any{
		"boardID": c.boardID,
		"itemID":  remoteID,
		"values":  values,
	}

	var result updateResponse
	if err := c.post(ctx, updateMutation, variables, &result); err != nil {
		return err
	}
	return apiError(result.Errors)
}

// post executes one GraphQL request and decodes the response envelope.
func (c *Client) post(ctx context.Context, query string, variables map[string]any, out any) error {
	resp, err := c.transport.Post(ctx, c.baseURL, gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return &errors.APIError{
			Platform:   records.Monday.String(),
			StatusCode: 0,
			Message:    "request failed",
			Err:        err,
		}
	}
	return transport.DecodeResponse(records.Monday.String(), resp, out)
}

// columnValuesJSON encodes a field set as the JSON string the column_values
// argument expects. Status and priority become labels, description plain
// text, and the name only when includeName is set.
func (c *Client) columnValuesJSON(fields records.FieldSet, includeName bool) (string, error) {
	values := make(map[string]any, len(fields))
	for field, value := range fields {
		switch field {
		case records.FieldTitle:
			if includeName {
				values["name"] = value
			}
		case records.FieldDescription:
			values[c.columns.Description] = value
		case records.FieldStatus:
			values[c.columns.Status] = map[string]string{"label": value}
		case records.FieldPriority:
			values[c.columns.Priority] = map[string]string{"label": value}
		}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "", errors.WrapParse("json", "column values", err)
	}
	return string(data), nil
}

// recordFromItem converts a board item to a sync record.
func (c *Client) recordFromItem(it item) records.Record {
	rec := records.Record{
		Title:    it.Name,
		RemoteID: it.ID,
	}
	for _, cv := range it.ColumnValues {
		switch cv.ID {
		case c.columns.Description:
			rec.Description = cv.Text
		case c.columns.Status:
			rec.Status = cv.Text
		case c.columns.Priority:
			rec.Priority = cv.Text
		}
	}
	return rec
}

// apiError converts GraphQL errors to an APIError, or nil when there are none.
func apiError(errs []gqlError) error {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return &errors.APIError{
		Platform: records.Monday.String(),
		Message:  strings.Join(messages, "; "),
	}
}
