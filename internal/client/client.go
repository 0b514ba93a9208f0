package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"boardsync/internal/model"
)

var (
	// ErrNotFound is returned when the persistence API reports a missing
	// board, column or task.
	ErrNotFound = errors.New("resource not found")
)

// Client talks to the remote persistence API. All operations carry the
// caller's context; a canceled context surfaces as context.Canceled so the
// reconciliation layer can treat aborted requests as non-errors.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *log.Entry
}

func New(baseURL, token string, logger *log.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logger.WithField("component", "client"),
	}
	if token != "" && tokenExpired(token, time.Now()) {
		c.log.Warn("API token is already expired, requests will be rejected")
	}
	return c
}

// GetBoard fetches the full board snapshot with nested columns and tasks.
func (c *Client) GetBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	data, err := c.do(ctx, http.MethodGet, "/boards/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	return model.ParseBoard(data)
}

type taskMovePatch struct {
	ColumnID uuid.UUID `json:"column_id"`
	Position int       `json:"position"`
}

// MoveTask persists a task's new column and position and returns the
// server-confirmed task.
func (c *Client) MoveTask(ctx context.Context, id, columnID uuid.UUID, position int) (*model.Task, error) {
	data, err := c.do(ctx, http.MethodPatch, "/tasks/"+id.String(), taskMovePatch{ColumnID: columnID, Position: position})
	if err != nil {
		return nil, err
	}
	return model.ParseTask(data)
}

type columnMovePatch struct {
	Position int `json:"position"`
}

// MoveColumn persists a column's new position.
func (c *Client) MoveColumn(ctx context.Context, id uuid.UUID, position int) (*model.Column, error) {
	data, err := c.do(ctx, http.MethodPatch, "/columns/"+id.String(), columnMovePatch{Position: position})
	if err != nil {
		return nil, err
	}
	var col model.Column
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("decode column: %w", err)
	}
	return &col, nil
}

// CreateTask persists a new task and returns it with its server-assigned
// identity.
func (c *Client) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	data, err := c.do(ctx, http.MethodPost, "/tasks", task)
	if err != nil {
		return nil, err
	}
	return model.ParseTask(data)
}

// UpdateTask patches the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, edit model.TaskEdit) (*model.Task, error) {
	data, err := c.do(ctx, http.MethodPatch, "/tasks/"+id.String(), edit)
	if err != nil {
		return nil, err
	}
	return model.ParseTask(data)
}

// DeleteTask removes a task permanently.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil)
	return err
}

// ArchiveTask moves a task to the archive.
func (c *Client) ArchiveTask(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodPost, "/tasks/"+id.String()+"/archive", nil)
	return err
}

// ArchiveSweep asks the store to archive every task whose lock duration
// exceeds the server-side threshold. The call is idempotent.
func (c *Client) ArchiveSweep(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/archive-sweep", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Unwrap the url.Error so callers can match context.Canceled.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.WithFields(log.Fields{"method": method, "path": path, "status": resp.StatusCode}).
			Debug("request rejected")
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return data, nil
}
