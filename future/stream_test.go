package future_test

import (
	"context"
	"testing"
	"time"

	"github.com/gdcf-go/gdcf/apiclient"
	"github.com/gdcf-go/gdcf/apiclient/mock"
	"github.com/gdcf-go/gdcf/cache"
	"github.com/gdcf-go/gdcf/future"
	"github.com/gdcf-go/gdcf/model"
	"github.com/gdcf-go/gdcf/request"
)

const kindLevels = "levels"

type thinLevel = model.PartialLevel[model.ThinSong, model.ThinCreator]

func levelsFetch(client *mock.Client) future.FetchFunc[request.LevelsRequest, []thinLevel] {
	return func(ctx context.Context, req request.LevelsRequest) ([]thinLevel, []model.Creator, []model.NewgroundsSong, error) {
		res, err := apiclient.MakeRequest[apiclient.ListResult[thinLevel]](ctx, client, req)
		if err != nil {
			return nil, nil, nil, err
		}
		return res.Items, res.Creators, res.Songs, nil
	}
}

func TestLevelsHarvestsSideObjects(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	req := request.NewLevelsRequest()
	client.On(req, apiclient.ListResult[thinLevel]{
		Items:    []thinLevel{{LevelID: 1, Creator: 9, CustomSong: ptr(uint64(40))}},
		Creators: []model.Creator{{UserID: 9, Name: "RobTop"}},
		Songs:    []model.NewgroundsSong{{SongID: 40, Name: "Press Start"}},
	}, nil)

	f := future.New[request.LevelsRequest, []thinLevel](c, kindLevels, req, time.Minute, levelsFetch(client))
	if _, err := f.Poll(context.Background()); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	creator := cache.Lookup[model.Creator](c, cache.CreatorKey{UserID: 9})
	if creator.State != cache.Cached || creator.Value.Name != "RobTop" {
		t.Fatalf("creator side-store not populated: %+v", creator)
	}
	song := cache.Lookup[model.NewgroundsSong](c, cache.NewgroundsSongKey{SongID: 40})
	if song.State != cache.Cached || song.Value.Name != "Press Start" {
		t.Fatalf("song side-store not populated: %+v", song)
	}
}

func TestPageStreamTerminatesOnNoData(t *testing.T) {
	c := cache.New(cache.Options{TTL: time.Minute})
	defer c.Close()

	client := mock.New()
	first := request.NewLevelsRequest()
	second := first.NextPage()

	client.On(first, apiclient.ListResult[thinLevel]{Items: []thinLevel{{LevelID: 1}}}, nil)
	client.OnNoData(second)

	stream := future.NewPageStream[request.LevelsRequest, []thinLevel](c, kindLevels, first, time.Minute, levelsFetch(client))

	_, done, err := stream.Next(context.Background())
	if err != nil || done {
		t.Fatalf("first page: done=%v err=%v, want done=false err=nil", done, err)
	}

	_, done, err = stream.Next(context.Background())
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if !done {
		t.Fatalf("expected stream to terminate on NoData")
	}

	_, done, err = stream.Next(context.Background())
	if err != nil || !done {
		t.Fatalf("stream should stay terminated: done=%v err=%v", done, err)
	}
}

func ptr[T any](v T) *T { return &v }
