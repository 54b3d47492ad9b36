package filter

import (
	"testing"
	"time"

	"cinetrack/models"
)

var watchlistDisplay = []MovieFilter{Upcoming, Soon, Released, Seen}
var watchlistProcessing = []MovieFilter{Upcoming, Soon, Seen, Released}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func rulesAt(now time.Time) Rules {
	return Rules{
		Now:                func() time.Time { return now },
		SoonThreshold:      DefaultSoonThreshold,
		HighlyRatedPercent: DefaultHighlyRatedPercent,
	}
}

func titles(items []ListItem) []string {
	var out []string
	for _, item := range items {
		if item.IsHeader() {
			out = append(out, "#"+item.Section.String())
			continue
		}
		out = append(out, item.Movie.Title)
	}
	return out
}

func TestSectioned_ProcessingOrderBeatsDisplayOrder(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	movies := []*models.Movie{
		{Title: "M1", Watched: true, ReleasedAt: date(2000, time.January, 1)},
		{Title: "M2", ReleasedAt: date(2999, time.January, 1)},
		{Title: "M3", ReleasedAt: date(2020, time.June, 10)},
		{Title: "M4", ReleasedAt: date(2010, time.March, 3)},
	}

	got := titles(rules.Sectioned(movies, watchlistDisplay, watchlistProcessing))
	want := []string{"#upcoming", "M2", "#soon", "M3", "#released", "M4", "#seen", "M1"}

	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestSectioned_SeenReleasedGoesToSeenOnly(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	movies := []*models.Movie{
		{Title: "M1", Watched: true, ReleasedAt: date(2000, time.January, 1)},
	}

	got := titles(rules.Sectioned(movies, watchlistDisplay, watchlistProcessing))
	if len(got) != 2 || got[0] != "#seen" || got[1] != "M1" {
		t.Fatalf("Expected M1 only in the seen section, got %v", got)
	}
}

func TestSectioned_SortsByReleaseDateAndDropsUnmatched(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	movies := []*models.Movie{
		{Title: "Later", ReleasedAt: date(2015, time.January, 1)},
		{Title: "Earlier", ReleasedAt: date(1999, time.January, 1)},
		{Title: "Undated"},
	}

	got := titles(rules.Sectioned(movies, watchlistDisplay, watchlistProcessing))
	want := []string{"#released", "Earlier", "Later"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestSectioned_Empty(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	got := rules.Sectioned(nil, watchlistDisplay, watchlistProcessing)
	if got == nil || len(got) != 0 {
		t.Fatalf("Expected empty non-nil result, got %#v", got)
	}
}

func TestApply_AdultAlwaysRemoved(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	movies := []*models.Movie{
		{Title: "Adult", Adult: true},
		{Title: "Regular"},
	}

	for _, active := range []Set{NewSet(), NewSet(Collection), NewSet(Seen, HighlyRated)} {
		got := rules.Apply(movies, active)
		for _, m := range got {
			if m.Adult {
				t.Fatalf("Adult movie kept with filters %v", active.Filters())
			}
		}
	}
}

func TestApply_MatchedIsExcluded(t *testing.T) {
	rules := rulesAt(date(2020, time.June, 1))
	seen := &models.Movie{Title: "Seen", Watched: true}
	unseen := &models.Movie{Title: "Unseen"}
	collected := &models.Movie{Title: "Collected", InCollection: true}

	got := rules.Apply([]*models.Movie{seen, unseen, collected}, NewSet(Seen, Collection))
	if len(got) != 1 || got[0] != unseen {
		t.Fatalf("Expected only the unseen movie to remain, got %d movies", len(got))
	}
}

func TestSet_MutualExclusion(t *testing.T) {
	s := NewSet(Unseen)
	s.Add(Seen)
	if s.Contains(Unseen) || !s.Contains(Seen) {
		t.Fatalf("Adding SEEN should remove UNSEEN, got %v", s.Filters())
	}

	s.Add(Unseen)
	if s.Contains(Seen) || !s.Contains(Unseen) {
		t.Fatalf("Adding UNSEEN should remove SEEN, got %v", s.Filters())
	}
}

func TestSet_NoOtherExclusivePairs(t *testing.T) {
	for _, a := range All {
		for _, b := range All {
			if a == b {
				continue
			}
			s := NewSet(a)
			s.Add(b)
			exclusive := (a == Seen && b == Unseen) || (a == Unseen && b == Seen)
			if s.Contains(a) == exclusive {
				t.Errorf("Adding %s after %s: contains %s = %v", b, a, a, s.Contains(a))
			}
		}
	}
}

func TestSet_AddRemoveClear(t *testing.T) {
	var s Set
	if !s.Add(Collection) {
		t.Fatal("first Add should report a change")
	}
	if s.Add(Collection) {
		t.Fatal("second Add should be a no-op")
	}
	if !s.Remove(Collection) || s.Remove(Collection) {
		t.Fatal("Remove should report a change exactly once")
	}
	s.Add(Released)
	if !s.Clear() || s.Clear() {
		t.Fatal("Clear should report a change exactly once")
	}
}

func TestMatches_Thresholds(t *testing.T) {
	now := date(2020, time.June, 1)
	rules := rulesAt(now)

	cases := []struct {
		name   string
		filter MovieFilter
		movie  models.Movie
		want   bool
	}{
		{"soon within threshold", Soon, models.Movie{ReleasedAt: now.Add(10 * 24 * time.Hour)}, true},
		{"soon beyond threshold", Soon, models.Movie{ReleasedAt: now.Add(40 * 24 * time.Hour)}, false},
		{"upcoming beyond threshold", Upcoming, models.Movie{ReleasedAt: now.Add(40 * 24 * time.Hour)}, true},
		{"not released future", NotReleased, models.Movie{ReleasedAt: now.Add(time.Hour)}, true},
		{"released past", Released, models.Movie{ReleasedAt: now.Add(-time.Hour)}, true},
		{"undated not released", NotReleased, models.Movie{}, false},
		{"undated released", Released, models.Movie{}, false},
		{"highly rated public", HighlyRated, models.Movie{TraktRatingPercent: 70}, true},
		{"highly rated user", HighlyRated, models.Movie{TraktRatingPercent: 10, UserRating: 8}, true},
		{"not highly rated", HighlyRated, models.Movie{TraktRatingPercent: 69, UserRating: 6}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			movie := tc.movie
			if got := rules.Matches(tc.filter, &movie); got != tc.want {
				t.Errorf("Matches(%s) = %v, want %v", tc.filter, got, tc.want)
			}
		})
	}
}
