// Package mock provides a test-double apiclient.Client with per-request-type
// canned responses, hand-written rather than mockery-generated since its
// behavior (queued responses, call counting) is bespoke to the caching
// scenarios it exercises.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdcf-go/gdcf/apiclient"
	"github.com/gdcf-go/gdcf/request"
)

type queuedResponse struct {
	value any
	err   error
}

// Client is an apiclient.Client whose responses are scripted ahead of time
// by fingerprint. Each fingerprint has its own FIFO queue of responses; once
// the queue is exhausted, the last entry repeats indefinitely, which is
// convenient for tests that only care about the first N calls (e.g. cold
// fetch then steady-state hits).
type Client struct {
	mu        sync.Mutex
	responses map[string][]queuedResponse
	calls     map[string]int
}

// New returns an empty Client. Use On to script responses before exercising it.
func New() *Client {
	return &Client{
		responses: make(map[string][]queuedResponse),
		calls:     make(map[string]int),
	}
}

// On scripts the next response for requests whose Fingerprint matches req's.
// Multiple calls to On for the same fingerprint queue additional responses.
func (c *Client) On(req request.Request, value any, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	fp := req.Fingerprint()
	c.responses[fp] = append(c.responses[fp], queuedResponse{value: value, err: err})
	return c
}

// OnNoData scripts a backend-confirmed-absent response for req.
func (c *Client) OnNoData(req request.Request) *Client {
	return c.On(req, nil, &apiclient.Error{NoData: true, Status: 404})
}

// MakeRequest implements apiclient.Client.
func (c *Client) MakeRequest(ctx context.Context, req request.Request) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fp := req.Fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[fp]++

	queue := c.responses[fp]
	if len(queue) == 0 {
		return nil, fmt.Errorf("mock: no response scripted for %s", fp)
	}
	next := queue[0]
	if len(queue) > 1 {
		c.responses[fp] = queue[1:]
	}
	return next.value, next.err
}

// CallCount returns how many times MakeRequest was called for a request
// matching req's fingerprint. Tests use this to assert single-flight
// collapse: N concurrent callers for the same fingerprint should still
// produce exactly one call.
func (c *Client) CallCount(req request.Request) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[req.Fingerprint()]
}
