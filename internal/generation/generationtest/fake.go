// Package generationtest provides a scripted generation.Service for tests.
package generationtest

import (
	"context"
	"errors"
	"sync"

	"ghostwood/internal/generation"
)

// Response is one scripted reply.
type Response struct {
	Text  string
	Links []generation.Link
	Err   error
}

// Fake replays scripted responses per call shape and records every request.
// When a shape's script is exhausted, its last response repeats.
type Fake struct {
	mu       sync.Mutex
	scripts  map[string][]Response
	requests []generation.Request
	// Block, when non-nil, is received from before each call returns.
	Block chan struct{}
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{scripts: make(map[string][]Response)}
}

// On appends scripted responses for op.
func (f *Fake) On(op string, responses ...Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[op] = append(f.scripts[op], responses...)
	return f
}

// Reply is shorthand for a successful text response.
func (f *Fake) Reply(op, text string) *Fake {
	return f.On(op, Response{Text: text})
}

// Fail is shorthand for an error response.
func (f *Fake) Fail(op string, err error) *Fake {
	if err == nil {
		err = errors.New("scripted failure")
	}
	return f.On(op, Response{Err: err})
}

// Requests returns a copy of every request received.
func (f *Fake) Requests() []generation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]generation.Request(nil), f.requests...)
}

// Calls counts requests for op.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Op == op {
			n++
		}
	}
	return n
}

// LastPrompt returns the prompt of the most recent request for op.
func (f *Fake) LastPrompt(op string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Op == op {
			return f.requests[i].Prompt
		}
	}
	return ""
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Generate(ctx context.Context, req generation.Request) (string, error) {
	resp, err := f.next(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Text, resp.Err
}

func (f *Fake) SearchGrounded(ctx context.Context, req generation.Request) (generation.Grounded, error) {
	resp, err := f.next(ctx, req)
	if err != nil {
		return generation.Grounded{}, err
	}
	if resp.Err != nil {
		return generation.Grounded{}, resp.Err
	}
	return generation.Grounded{Text: resp.Text, Links: append([]generation.Link(nil), resp.Links...)}, nil
}

func (f *Fake) next(ctx context.Context, req generation.Request) (Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var resp Response
	script := f.scripts[req.Op]
	switch {
	case len(script) == 0:
		resp = Response{Err: errors.New("generationtest: no response scripted for " + req.Op)}
	case len(script) == 1:
		resp = script[0]
	default:
		resp = script[0]
		f.scripts[req.Op] = script[1:]
	}
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
	return resp, nil
}
