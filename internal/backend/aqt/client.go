package aqt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// defaultHTTPTimeout bounds a single request, not a whole job.
const defaultHTTPTimeout = 30 * time.Second

// maxErrorBody is how much of a non-2xx response body ends up in the error.
const maxErrorBody = 512

// ResourceResponse is the body of GET resources/{resource}.
type ResourceResponse struct {
	Status          string `json:"status"`
	AvailableQubits int    `json:"available_qubits"`
}

// JobInfo identifies a submitted job.
type JobInfo struct {
	JobID       string `json:"job_id"`
	JobType     string `json:"job_type,omitempty"`
	Label       string `json:"label,omitempty"`
	ResourceID  string `json:"resource_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// SubmitResponse is the body returned by a submission.
type SubmitResponse struct {
	Job      JobInfo `json:"job"`
	Response struct {
		Status string `json:"status"`
	} `json:"response"`
}

// ResultStatus is the response part of a result query. Result maps the
// decimal index of each submitted circuit to its shots.
type ResultStatus struct {
	Status  string                `json:"status"`
	Message string                `json:"message,omitempty"`
	Result  map[string][][]uint64 `json:"result,omitempty"`
}

// ResultResponse is the body of GET result/{job_id}.
type ResultResponse struct {
	Job      JobInfo      `json:"job"`
	Response ResultStatus `json:"response"`
}

// client talks to one AQT API root.
type client struct {
	endpoint   string
	token      string
	httpsOnly  bool
	httpClient *http.Client
}

func newClient(endpoint, token string, httpsOnly bool, hc *http.Client) *client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &client{
		endpoint:   normalizeEndpoint(endpoint),
		token:      token,
		httpsOnly:  httpsOnly,
		httpClient: hc,
	}
}

func normalizeEndpoint(endpoint string) string {
	if !strings.HasSuffix(endpoint, "/") {
		return endpoint + "/"
	}
	return endpoint
}

func isHTTPSURL(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && strings.EqualFold(u.Scheme, "https")
}

func (c *client) resource(ctx context.Context, resource string) (ResourceResponse, error) {
	var out ResourceResponse
	err := c.do(ctx, http.MethodGet, "resources/"+url.PathEscape(resource), nil, &out)
	return out, err
}

func (c *client) submit(ctx context.Context, resource string, req SubmitRequest) (SubmitResponse, error) {
	var out SubmitResponse
	path := "submit/" + Workspace + "/" + url.PathEscape(resource)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return SubmitResponse{}, err
	}
	if out.Job.JobID == "" {
		return SubmitResponse{}, &backend.NetworkError{Msg: "submission response carries no job id", Permanent: true}
	}
	return out, nil
}

func (c *client) result(ctx context.Context, jobID string) (ResultResponse, error) {
	var out ResultResponse
	err := c.do(ctx, http.MethodGet, "result/"+url.PathEscape(jobID), nil, &out)
	return out, err
}

// do sends one request and decodes the JSON response into out. Every failure
// is returned as a *backend.NetworkError.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	if c.httpsOnly && !isHTTPSURL(c.endpoint) {
		return &backend.NetworkError{Msg: fmt.Sprintf("refusing non-https endpoint %s", c.endpoint), Permanent: true}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &backend.NetworkError{Msg: fmt.Sprintf("encode request: %v", err), Permanent: true}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return &backend.NetworkError{Msg: fmt.Sprintf("create request: %v", err), Permanent: true}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return &backend.NetworkError{Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &backend.NetworkError{
			StatusCode: resp.StatusCode,
			Msg:        strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &backend.NetworkError{Msg: fmt.Sprintf("decode %s response: %v", path, err), Permanent: true}
	}
	return nil
}
