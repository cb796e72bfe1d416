package crossref

import (
	"reflect"
	"slices"
	"testing"

	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/testutil"
)

func TestFindSimilarSongs_SharedPhrases(t *testing.T) {
	a := testutil.NewSong("a", "A", "X", "dil naal pyar", "tera naal pyar hai", "yaari vich pyar")
	b := testutil.NewSong("b", "B", "X", "dil naal pyar")

	got := FindSimilarSongs(&a, []song.Song{a, b}, 1)
	if len(got) != 1 {
		t.Fatalf("FindSimilarSongs() returned %d matches, want 1", len(got))
	}
	if got[0].Song.ID != "b" {
		t.Errorf("match song = %s, want b", got[0].Song.ID)
	}
	if got[0].MatchCount < 1 {
		t.Errorf("MatchCount = %d, want >= 1", got[0].MatchCount)
	}
	if !slices.Contains(got[0].Phrases, "dil naal") {
		t.Errorf("Phrases = %q, want to contain %q", got[0].Phrases, "dil naal")
	}

	want := []string{"dil naal", "naal pyar", "dil naal pyar"}
	if !reflect.DeepEqual(got[0].Phrases, want) {
		t.Errorf("Phrases = %q, want %q", got[0].Phrases, want)
	}
	if got[0].MatchCount != len(got[0].Phrases) {
		t.Errorf("MatchCount = %d, want %d", got[0].MatchCount, len(got[0].Phrases))
	}
}

func TestFindSimilarSongs_ExcludesTargetByID(t *testing.T) {
	a := testutil.NewSong("a", "A", "X", "dil naal pyar")

	// A different value with the same ID must still be skipped
	copyOfA := testutil.NewSong("a", "A copy", "Z", "dil naal pyar")

	got := FindSimilarSongs(&a, []song.Song{copyOfA, a}, 1)
	if len(got) != 0 {
		t.Errorf("FindSimilarSongs() = %+v, want no matches", got)
	}
}

func TestFindSimilarSongs_MinMatchCount(t *testing.T) {
	target := testutil.NewSong("t", "T", "X", "ik do tin char")
	exact := testutil.NewSong("exact", "E", "X", "ik do", "tin char")
	unrelated := testutil.NewSong("none", "N", "Y", "kuch hor gal", "bilkul vakhra")
	single := testutil.NewSong("single", "S", "Y", "ik do nahi")

	got := FindSimilarSongs(&target, []song.Song{unrelated, exact, single}, 2)

	if len(got) != 1 {
		t.Fatalf("FindSimilarSongs() returned %d matches, want 1: %+v", len(got), got)
	}
	if got[0].Song.ID != "exact" || got[0].MatchCount != 2 {
		t.Errorf("match = %s/%d, want exact/2", got[0].Song.ID, got[0].MatchCount)
	}
}

func TestFindSimilarSongs_OrderingIsStable(t *testing.T) {
	target := testutil.NewSong("t", "T", "X", "ik do tin char panj")
	low1 := testutil.NewSong("low1", "L1", "X", "ik do")
	high := testutil.NewSong("high", "H", "X", "ik do tin char")
	low2 := testutil.NewSong("low2", "L2", "X", "char panj")

	got := FindSimilarSongs(&target, []song.Song{low1, high, low2}, 1)

	var ids []string
	for _, m := range got {
		ids = append(ids, m.Song.ID)
	}
	want := []string{"high", "low1", "low2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestFindSimilarSongs_PhraseMultiplicityIgnored(t *testing.T) {
	target := testutil.NewSong("t", "T", "X", "dil naal")
	repeat := testutil.NewSong("r", "R", "X", "dil naal", "dil naal", "Dil, naal!")

	got := FindSimilarSongs(&target, []song.Song{repeat}, 1)
	if len(got) != 1 || got[0].MatchCount != 1 {
		t.Fatalf("FindSimilarSongs() = %+v, want one match with count 1", got)
	}
}

func TestFindSimilarSongs_EmptyInputs(t *testing.T) {
	a := testutil.NewSong("a", "A", "X", "dil naal pyar")

	if got := FindSimilarSongs(nil, []song.Song{a}, 1); len(got) != 0 {
		t.Errorf("nil target returned %+v", got)
	}
	if got := FindSimilarSongs(&a, nil, 1); len(got) != 0 {
		t.Errorf("empty collection returned %+v", got)
	}
}

func TestFindSimilarSongs_SkipsLinesWithoutSource(t *testing.T) {
	target := testutil.NewSong("t", "T", "X", "dil naal pyar")
	target.Lyrics = append(target.Lyrics, song.Line{English: "only english here"})

	noLyrics := song.Song{ID: "empty", SongName: "E", Artist: "X"}
	blank := song.Song{ID: "blank", SongName: "B", Artist: "X", Lyrics: []song.Line{{English: "dil naal pyar"}}}

	got := FindSimilarSongs(&target, []song.Song{noLyrics, blank}, 1)
	if len(got) != 0 {
		t.Errorf("FindSimilarSongs() = %+v, want no matches", got)
	}
}

func TestFindSimilarSongs_DoesNotMutateInput(t *testing.T) {
	songs := testutil.SampleLibrary()
	before := make([]song.Song, len(songs))
	copy(before, songs)

	FindSimilarSongs(&songs[0], songs, 1)

	if !reflect.DeepEqual(songs, before) {
		t.Error("FindSimilarSongs modified its input")
	}
}

func TestFindSongsWithPhrase(t *testing.T) {
	songs := testutil.SampleLibrary()

	tests := []struct {
		name   string
		phrase string
		want   [][2]any // song id, line index
	}{
		{
			name:   "phrase across songs",
			phrase: "Naal Pyar",
			want:   [][2]any{{"song-a", 0}, {"song-a", 1}, {"song-b", 0}},
		},
		{
			name:   "substring inside a word",
			phrase: "aar",
			want:   [][2]any{{"song-a", 2}, {"song-c", 1}},
		},
		{
			name:   "no match",
			phrase: "bhangra",
			want:   nil,
		},
		{
			name:   "punctuation only",
			phrase: "!!",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := FindSongsWithPhrase(tt.phrase, songs)

			var got [][2]any
			for _, h := range hits {
				got = append(got, [2]any{h.Song.ID, h.LineIndex})
				if h.Line != h.Song.Lyrics[h.LineIndex] {
					t.Errorf("hit line %+v does not match song line %d", h.Line, h.LineIndex)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindSongsWithPhrase(%q) = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestFindSongsWithPhrase_Gurmukhi(t *testing.T) {
	s := testutil.NewSong("g", "G", "X", "ਦਿਲਦਾਰ ਯਾਰ", "ਤੇਰੇ ਨਾਲ")

	hits := FindSongsWithPhrase("ਦਿਲ", []song.Song{s})
	if len(hits) != 1 || hits[0].LineIndex != 0 {
		t.Errorf("FindSongsWithPhrase() = %+v, want a single hit on line 0", hits)
	}
}
