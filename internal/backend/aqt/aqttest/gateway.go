// Package aqttest provides an in-process fake of the AQT REST API for tests
// and local development.
package aqttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
)

// BasePath is the API root the gateway serves under.
const BasePath = "/api/v1/"

// Sampler produces the shots of a finished circuit. Each shot is either a
// single integer-encoded sample or one outcome per qubit.
type Sampler func(c aqt.CircuitPayload) [][]uint64

// AllOnes measures every qubit as 1 in every shot.
func AllOnes(c aqt.CircuitPayload) [][]uint64 {
	shots := make([][]uint64, c.Repetitions)
	for i := range shots {
		shot := make([]uint64, c.NumberOfQubits)
		for q := range shot {
			shot[q] = 1
		}
		shots[i] = shot
	}
	return shots
}

// Constant returns a Sampler that reports sample for every shot.
func Constant(sample uint64) Sampler {
	return func(c aqt.CircuitPayload) [][]uint64 {
		shots := make([][]uint64, c.Repetitions)
		for i := range shots {
			shots[i] = []uint64{sample}
		}
		return shots
	}
}

// Gateway is a fake AQT API. The zero value is not usable; create one with New.
type Gateway struct {
	mu sync.Mutex

	token           string
	resourceStatus  string
	availableQubits int
	statuses        []string
	finalStatus     string
	message         string
	sampler         Sampler
	failSubmit      int
	failResult      int
	failResource    int

	jobs        map[string]aqt.SubmitRequest
	polls       map[string]int
	submissions []aqt.SubmitRequest
	resourceReq int
	resultReq   int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithToken makes the gateway reject requests without "Bearer token".
func WithToken(token string) Option {
	return func(g *Gateway) { g.token = token }
}

// WithResource sets the reported resource status and qubit capacity.
func WithResource(status string, availableQubits int) Option {
	return func(g *Gateway) {
		g.resourceStatus = status
		g.availableQubits = availableQubits
	}
}

// WithStatuses sets the job statuses returned by successive result queries.
// Once they are used up every query returns final.
func WithStatuses(final string, statuses ...string) Option {
	return func(g *Gateway) {
		g.finalStatus = final
		g.statuses = statuses
	}
}

// WithMessage sets the message reported alongside an "error" status.
func WithMessage(msg string) Option {
	return func(g *Gateway) { g.message = msg }
}

// WithSampler sets how shots of finished jobs are produced.
func WithSampler(s Sampler) Option {
	return func(g *Gateway) { g.sampler = s }
}

// WithHTTPFailures makes the given endpoints answer with an HTTP status.
// Zero leaves an endpoint healthy.
func WithHTTPFailures(resource, submit, result int) Option {
	return func(g *Gateway) {
		g.failResource = resource
		g.failSubmit = submit
		g.failResult = result
	}
}

// New returns a gateway whose resource is online with 20 qubits and whose
// jobs finish on the first query with every qubit measured as 1.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		resourceStatus:  aqt.ResourceOnline,
		availableQubits: 20,
		finalStatus:     aqt.StatusFinished,
		sampler:         AllOnes,
		jobs:            make(map[string]aqt.SubmitRequest),
		polls:           make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetResource changes the reported resource state.
func (g *Gateway) SetResource(status string, availableQubits int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resourceStatus = status
	g.availableQubits = availableQubits
}

// Submissions returns every accepted submission body in arrival order.
func (g *Gateway) Submissions() []aqt.SubmitRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]aqt.SubmitRequest, len(g.submissions))
	copy(out, g.submissions)
	return out
}

// ResourceRequests returns the number of resource queries served.
func (g *Gateway) ResourceRequests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resourceReq
}

// ResultRequests returns the number of result queries served.
func (g *Gateway) ResultRequests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resultReq
}

// Handler returns the HTTP handler serving the API under BasePath.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route(BasePath[:len(BasePath)-1], func(r chi.Router) {
		r.Use(g.authorize)
		r.Get("/resources/{resourceID}", g.handleResource)
		r.Post("/submit/{workspace}/{resourceID}", g.handleSubmit)
		r.Get("/result/{jobID}", g.handleResult)
	})
	return r
}

// NewServer starts g on a local httptest server. The caller closes it.
// The returned endpoint ends in BasePath.
func NewServer(g *Gateway) (*httptest.Server, string) {
	srv := httptest.NewServer(g.Handler())
	return srv, srv.URL + BasePath
}

func (g *Gateway) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		token := g.token
		g.mu.Unlock()
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, "invalid access token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) handleResource(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.resourceReq++
	fail := g.failResource
	resp := aqt.ResourceResponse{Status: g.resourceStatus, AvailableQubits: g.availableQubits}
	g.mu.Unlock()

	if fail != 0 {
		writeError(w, fail, "resource unavailable")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req aqt.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	g.mu.Lock()
	fail := g.failSubmit
	if fail != 0 {
		g.mu.Unlock()
		writeError(w, fail, "submission rejected")
		return
	}
	id := ulid.Make().String()
	g.jobs[id] = req
	g.submissions = append(g.submissions, req)
	g.mu.Unlock()

	var resp aqt.SubmitResponse
	resp.Job = aqt.JobInfo{
		JobID:       id,
		JobType:     req.JobType,
		Label:       req.Label,
		ResourceID:  chi.URLParam(r, "resourceID"),
		WorkspaceID: chi.URLParam(r, "workspace"),
	}
	resp.Response.Status = aqt.StatusQueued
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) handleResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	g.mu.Lock()
	g.resultReq++
	if g.failResult != 0 {
		fail := g.failResult
		g.mu.Unlock()
		writeError(w, fail, "result query failed")
		return
	}
	req, ok := g.jobs[jobID]
	if !ok {
		g.mu.Unlock()
		writeError(w, http.StatusNotFound, "unknown job "+jobID)
		return
	}
	g.polls[jobID]++
	poll := g.polls[jobID]
	status := g.finalStatus
	if poll <= len(g.statuses) {
		status = g.statuses[poll-1]
	}
	message := g.message
	sampler := g.sampler
	g.mu.Unlock()

	resp := aqt.ResultResponse{
		Job:      aqt.JobInfo{JobID: jobID, JobType: req.JobType, Label: req.Label},
		Response: aqt.ResultStatus{Status: status},
	}
	switch status {
	case aqt.StatusFinished:
		resp.Response.Result = make(map[string][][]uint64, len(req.Payload.Circuits))
		for i, c := range req.Payload.Circuits {
			resp.Response.Result[strconv.Itoa(i)] = sampler(c)
		}
	case aqt.StatusError:
		resp.Response.Message = message
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
