package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func samplePartialLevel() PartialLevel[uint64, uint64] {
	return PartialLevel[uint64, uint64]{
		LevelID:      1234,
		Name:         "Bloodbath",
		Creator:      5,
		Difficulty:   RatingInsane,
		DemonRating:  DemonRatingExtreme,
		CustomSong:   40,
		Length:       LengthLong,
		Stars:        10,
		Featured:     Featured,
		ObjectAmount: 98765,
	}
}

func TestChangePartialLevelSongRoundtrip(t *testing.T) {
	original := samplePartialLevel()

	upgraded, evicted := ChangePartialLevelSong[uint64, string, uint64](original, "song-object")
	if evicted != original.CustomSong {
		t.Fatalf("evicted = %v, want %v", evicted, original.CustomSong)
	}
	if upgraded.CustomSong != "song-object" {
		t.Fatalf("upgraded.CustomSong = %v, want song-object", upgraded.CustomSong)
	}

	downgraded, evictedThick := ChangePartialLevelSong[string, uint64, uint64](upgraded, evicted)
	if evictedThick != "song-object" {
		t.Fatalf("evictedThick = %v, want song-object", evictedThick)
	}
	if diff := cmp.Diff(original, downgraded); diff != "" {
		t.Fatalf("roundtrip mismatch (-original +downgraded):\n%s", diff)
	}
}

func TestChangePartialLevelCreatorRoundtrip(t *testing.T) {
	original := samplePartialLevel()

	upgraded, evicted := ChangePartialLevelCreator[uint64, uint64, string](original, "creator-object")
	if evicted != original.Creator {
		t.Fatalf("evicted = %v, want %v", evicted, original.Creator)
	}

	downgraded, evictedThick := ChangePartialLevelCreator[uint64, string, uint64](upgraded, evicted)
	if evictedThick != "creator-object" {
		t.Fatalf("evictedThick = %v, want creator-object", evictedThick)
	}
	if diff := cmp.Diff(original, downgraded); diff != "" {
		t.Fatalf("roundtrip mismatch (-original +downgraded):\n%s", diff)
	}
}

func TestChangeLevelSongPreservesLevelFields(t *testing.T) {
	l := Level[uint64, uint64]{
		Base:            samplePartialLevel(),
		LevelData:       "H4sIAAAAAAAA",
		TimeSinceUpload: "3 months",
		TimeSinceUpdate: "1 month",
	}

	upgraded, evicted := ChangeLevelSong[uint64, string, uint64](l, "song-object")
	if evicted != l.Base.CustomSong {
		t.Fatalf("evicted = %v, want %v", evicted, l.Base.CustomSong)
	}
	if upgraded.LevelData != l.LevelData || upgraded.TimeSinceUpload != l.TimeSinceUpload {
		t.Fatalf("ChangeLevelSong altered non-song fields: %+v", upgraded)
	}
}
