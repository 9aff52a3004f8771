// Package apiclient declares the boundary between the framework and
// whatever actually talks to the Geometry Dash servers. The framework ships
// no HTTP implementation and no wire-format parser; callers provide a
// Client and the framework only ever sees already-decoded Go values.
package apiclient

import (
	"context"
	"fmt"

	"github.com/gdcf-go/gdcf/model"
	"github.com/gdcf-go/gdcf/request"
)

// Client performs a single request against the backend and returns the
// decoded response as an untyped value; callers of apiclient.MakeRequest
// assert it back to the concrete response type the Request implies.
//
// A Client implementation owns everything the framework explicitly leaves
// out: HTTP (or any other) transport, request signing, retries, rate
// limiting and auth. The framework calls MakeRequest at most as often as
// its refresh policy decides is necessary.
type Client interface {
	MakeRequest(ctx context.Context, req request.Request) (any, error)
}

// Error is returned by a Client to distinguish a backend-confirmed "no such
// object" response from a transport or protocol failure. Plain transport
// errors should be returned unwrapped; IsNoData only special-cases this
// type, and MakeRequest passes every error through unchanged.
type Error struct {
	NoData bool
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("apiclient: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("apiclient: status %d", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNoData reports whether err (or a wrapped *Error within it) signals a
// backend-confirmed absence rather than a failure.
func IsNoData(err error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.NoData
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ListResult is the decoded shape of any listing endpoint (LevelsRequest):
// the requested page of items plus the side objects the boomlings protocol
// embeds inline with every list response. Harvesting Creators/Songs here,
// rather than re-requesting them individually, is the entire reason list
// endpoints populate the creator/song side-stores as a refresh byproduct.
type ListResult[T any] struct {
	Items    []T
	Creators []model.Creator
	Songs    []model.NewgroundsSong
	Total    int32
}

// MakeRequest calls c.MakeRequest and asserts the result to Res, wrapping a
// type-assertion failure as a programmer error rather than a silent zero
// value: a Client that returns the wrong response shape for a request type
// is a bug in that Client, not a recoverable runtime condition.
func MakeRequest[Res any](ctx context.Context, c Client, req request.Request) (Res, error) {
	var zero Res
	raw, err := c.MakeRequest(ctx, req)
	if err != nil {
		return zero, err
	}
	res, ok := raw.(Res)
	if !ok {
		return zero, fmt.Errorf("apiclient: client returned %T for request %T, want %T", raw, req, zero)
	}
	return res, nil
}
