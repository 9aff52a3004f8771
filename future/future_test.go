package future_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdcf-go/gdcf/apiclient"
	"github.com/gdcf-go/gdcf/apiclient/mock"
	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/future"
	"github.com/gdcf-go/gdcf/model"
	"github.com/gdcf-go/gdcf/request"
)

const kindLevel = "level"

func levelFetch(client *mock.Client) future.FetchFunc[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]] {
	return func(ctx context.Context, req request.LevelRequest) (model.Level[model.ThinSong, model.ThinCreator], []model.Creator, []model.NewgroundsSong, error) {
		res, err := apiclient.MakeRequest[model.Level[model.ThinSong, model.ThinCreator]](ctx, client, req)
		return res, nil, nil, err
	}
}

func TestColdFetchBlocksAndStores(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(100)
	want := model.Level[model.ThinSong, model.ThinCreator]{Base: model.PartialLevel[model.ThinSong, model.ThinCreator]{LevelID: 100, Name: "Stereo Madness"}}
	client.On(req, want, nil)

	f := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
	if f.State() != future.Uncached {
		t.Fatalf("State() = %v, want Uncached", f.State())
	}

	entry, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if entry.State != cache.Cached || entry.Value.Base.Name != "Stereo Madness" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if got := client.CallCount(req); got != 1 {
		t.Fatalf("CallCount = %d, want 1", got)
	}
}

func TestWarmFetchServesWithoutBackendCall(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(1)
	client.On(req, model.Level[model.ThinSong, model.ThinCreator]{Base: model.PartialLevel[model.ThinSong, model.ThinCreator]{LevelID: 1}}, nil)

	first := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
	if _, err := first.Poll(context.Background()); err != nil {
		t.Fatalf("first Poll: %v", err)
	}

	second := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
	if second.State() != future.UpToDate {
		t.Fatalf("second.State() = %v, want UpToDate", second.State())
	}
	if _, err := second.Poll(context.Background()); err != nil {
		t.Fatalf("second Poll: %v", err)
	}
	if got := client.CallCount(req); got != 1 {
		t.Fatalf("CallCount = %d, want 1 (no extra backend call for a fresh entry)", got)
	}
}

// TestOutdatedPollWaitsForFreshValue exercises the Outdated path: Poll does
// not return the stale value it started with. It blocks until the refresh
// completes and returns the fresh one, making exactly one new backend call.
// Peek is the only way to observe the stale value, and only before Poll.
func TestOutdatedPollWaitsForFreshValue(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(7)
	client.On(req, model.Level[model.ThinSong, model.ThinCreator]{Base: model.PartialLevel[model.ThinSong, model.ThinCreator]{LevelID: 7, Name: "v1"}}, nil)
	client.On(req, model.Level[model.ThinSong, model.ThinCreator]{Base: model.PartialLevel[model.ThinSong, model.ThinCreator]{LevelID: 7, Name: "v2"}}, nil)

	freshFor := 10 * time.Millisecond
	first := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, freshFor, levelFetch(client))
	if _, err := first.Poll(context.Background()); err != nil {
		t.Fatalf("first Poll: %v", err)
	}

	time.Sleep(2 * freshFor)

	second := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, freshFor, levelFetch(client))
	if second.State() != future.Outdated {
		t.Fatalf("second.State() = %v, want Outdated", second.State())
	}
	if stale := second.Peek(); stale.Value.Base.Name != "v1" {
		t.Fatalf("Peek() before Poll should still show the stale value, got %q", stale.Value.Base.Name)
	}

	before := client.CallCount(req)
	entry, err := second.Poll(context.Background())
	if err != nil {
		t.Fatalf("second Poll: %v", err)
	}
	if entry.Value.Base.Name != "v2" {
		t.Fatalf("Outdated Poll should return the fresh value, got %q", entry.Value.Base.Name)
	}
	if got := client.CallCount(req) - before; got != 1 {
		t.Fatalf("Poll made %d new backend calls, want exactly 1", got)
	}
}

func TestNoDataMarksAbsent(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(999)
	client.OnNoData(req)

	f := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
	entry, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if entry.State != cache.MarkedAbsent {
		t.Fatalf("State = %v, want MarkedAbsent", entry.State)
	}
}

func TestPollTwiceReturnsErrAlreadyResolved(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(1)
	client.On(req, model.Level[model.ThinSong, model.ThinCreator]{}, nil)

	f := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
	if _, err := f.Poll(context.Background()); err != nil {
		t.Fatalf("first Poll: %v", err)
	}
	if _, err := f.Poll(context.Background()); err == nil {
		t.Fatalf("second Poll succeeded, want ErrAlreadyResolved")
	}
}

func TestSingleFlightCollapsesConcurrentPolls(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelRequest(55)
	client.On(req, model.Level[model.ThinSong, model.ThinCreator]{Base: model.PartialLevel[model.ThinSong, model.ThinCreator]{LevelID: 55}}, nil)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := future.New[request.LevelRequest, model.Level[model.ThinSong, model.ThinCreator]](c, kindLevel, req, time.Minute, levelFetch(client))
			if _, err := f.Poll(context.Background()); err != nil {
				t.Errorf("Poll: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := client.CallCount(req); got != 1 {
		t.Fatalf("CallCount = %d, want 1", got)
	}
}
