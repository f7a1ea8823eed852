package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Response is the outcome of a request to the agent.
type Response struct {
	Path string
	// Body is the JSON body of the response. It is empty when the agent did
	// not respond with JSON.
	Body json.RawMessage
	// OK reports whether the agent responded with a 2xx status and, if it sent
	// JSON, the JSON was valid.
	OK        bool
	Status    int
	RequestID string
	// Err is set when the request could not be made or its response could
	// not be read.
	Err error
}

// StatusError is the error of a response that the agent did not accept.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: agent responded with status %d %s", e.Path, e.Status, http.StatusText(e.Status))
}

// Check returns an error if the response is not OK.
func (r Response) Check() error {
	if r.Err != nil {
		return r.Err
	}
	if !r.OK {
		return &StatusError{Path: r.Path, Status: r.Status}
	}
	return nil
}

// Decode decodes the JSON body of an OK response into v.
func (r Response) Decode(v interface{}) error {
	err := r.Check()
	if err != nil {
		return err
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("%s: response has no json body", r.Path)
	}
	err = json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("%s: decoding response: %w", r.Path, err)
	}
	return nil
}

// loginPath answers 401 to bad credentials, which says nothing about the
// current session.
const loginPath = "/api/login"

// post sends data as JSON to the agent. A 401 from any RPC other than login
// means the session is gone.
func (c *Client) post(ctx context.Context, path string, data interface{}) Response {
	r := c.do(ctx, path, data)
	if c.responseHook != nil {
		r = c.responseHook(r)
	}
	if r.Status == http.StatusUnauthorized && path != loginPath {
		c.sessionLost()
	}
	return r
}

func (c *Client) do(ctx context.Context, path string, data interface{}) Response {
	requestID := uuid.New().String()
	r := Response{Path: path, RequestID: requestID}

	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		r.Err = fmt.Errorf("%s: encoding request: %w", path, err)
		return r
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(body))
	if err != nil {
		r.Err = fmt.Errorf("%s: creating request: %w", path, err)
		return r
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-Id", requestID)

	log := c.log.WithField("path", path).WithField("request_id", requestID)
	log.Debug("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		r.Err = fmt.Errorf("%s: sending request: %w", path, err)
		return r
	}
	defer resp.Body.Close()

	r.Status = resp.StatusCode
	r.OK = resp.StatusCode >= 200 && resp.StatusCode < 300

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		r.OK = false
		r.Err = fmt.Errorf("%s: reading response: %w", path, err)
		return r
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		log.WithField("status", r.Status).Debug("received non-json response")
		return r
	}
	if !json.Valid(respBody) {
		r.OK = false
		r.Err = fmt.Errorf("%s: response is not valid json", path)
		return r
	}
	r.Body = respBody
	log.WithField("status", r.Status).Debug("received response")
	return r
}
