package api

import (
	"context"
	"time"

	"github.com/overlaphq/overlap-cli/logging"
)

// StartSession registers a session and returns the Overlap session ID the
// server assigned. An empty ID with no error means the server accepted
// the call but did not issue a session; callers treat that as
// not-registered.
func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (string, error) {
	var resp envelope[startSessionData]
	if err := c.post(ctx, "/api/v1/sessions/start", req, &resp, callOptions{}); err != nil {
		return "", err
	}
	return resp.Data.SessionID, nil
}

// Heartbeat reports file activity for a registered session. The check is
// bounded tightly; retries is the caller's retry budget (0 = single
// attempt).
func (c *Client) Heartbeat(ctx context.Context, sessionID string, req HeartbeatRequest, retries int) (HeartbeatResult, error) {
	var resp envelope[HeartbeatResult]
	err := c.post(ctx, "/api/v1/sessions/"+sessionID+"/heartbeat", req, &resp, callOptions{
		timeout: 4 * time.Second,
		retries: retries,
	})
	return resp.Data, err
}

// EndSession tells the server the session is over.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	return c.post(ctx, "/api/v1/sessions/"+sessionID+"/end", struct{}{}, nil, callOptions{})
}

// Check asks which other sessions are touching the given files. The call
// is advisory: short timeout, no retry, so it can never hold up a tool.
func (c *Client) Check(ctx context.Context, files []string) ([]Overlap, error) {
	var resp envelope[checkData]
	err := c.post(ctx, "/api/v1/check", CheckRequest{Files: files}, &resp, callOptions{
		timeout: 3 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.Overlaps, nil
}

// UploadLogs ships buffered log entries to the server, best-effort.
func (c *Client) UploadLogs(ctx context.Context, entries []logging.BufferedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return c.post(ctx, "/api/v1/logs", LogUploadRequest{Logs: entries}, nil, callOptions{})
}
