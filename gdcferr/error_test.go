package gdcferr_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gdcf-go/gdcf/gdcferr"
)

func TestNoDataDetectsKindNoData(t *testing.T) {
	err := gdcferr.New(gdcferr.KindNoData, "future.doFetch", nil)
	if !gdcferr.NoData(err) {
		t.Fatalf("NoData(%v) = false, want true", err)
	}
}

func TestNoDataRejectsOtherKinds(t *testing.T) {
	err := gdcferr.New(gdcferr.KindAPI, "apiclient.MakeRequest", errors.New("boom"))
	if gdcferr.NoData(err) {
		t.Fatalf("NoData(%v) = true, want false", err)
	}
}

func TestNoDataUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := gdcferr.New(gdcferr.KindNoData, "apiclient.MakeRequest", nil)
	wrapped := fmt.Errorf("resolving song: %w", inner)

	if !gdcferr.NoData(wrapped) {
		t.Fatalf("NoData did not see through fmt.Errorf wrapping")
	}
}

func TestErrorUnwrapReturnsUnderlyingCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := gdcferr.New(gdcferr.KindAPI, "apiclient.MakeRequest", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find the wrapped cause")
	}
}

func TestAggregateErrorOrNilWithNoFailures(t *testing.T) {
	var agg gdcferr.Aggregate
	agg.Add(0, nil)
	agg.Add(1, nil)

	if err := agg.ErrorOrNil(); err != nil {
		t.Fatalf("ErrorOrNil() = %v, want nil", err)
	}
}

func TestAggregateCollectsEveryFailure(t *testing.T) {
	var agg gdcferr.Aggregate
	agg.Add(0, nil)
	agg.Add(1, errors.New("first failure"))
	agg.Add(2, nil)
	agg.Add(3, errors.New("second failure"))

	err := agg.ErrorOrNil()
	if err == nil {
		t.Fatalf("expected a non-nil aggregate error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first failure") || !strings.Contains(msg, "second failure") {
		t.Fatalf("aggregate message missing an element: %s", msg)
	}
}
