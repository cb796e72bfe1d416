package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"codeberg.org/snonux/geet/internal/crossref"
	"codeberg.org/snonux/geet/internal/song"
	"codeberg.org/snonux/geet/internal/stats"
	"codeberg.org/snonux/geet/internal/suggest"
)

const dateLayout = "2006-01-02"

func printSongs(w io.Writer, songs []song.Song) {
	if len(songs) == 0 {
		fmt.Fprintln(w, "No songs saved yet")
		return
	}
	for _, s := range songs {
		fmt.Fprintf(w, "%s  %s - %s (%d lines, %s)\n",
			s.ID, s.SongName, s.ArtistName(), s.LineCount(), s.SavedAt.Format(dateLayout))
	}
}

func printSong(w io.Writer, s song.Song) {
	fmt.Fprintf(w, "%s - %s\n", s.SongName, s.ArtistName())
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", len(s.SongName)+len(s.ArtistName())+3))
	for i, line := range s.Lyrics {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, line.Punjabi)
		if line.Pronunciation != "" {
			fmt.Fprintf(w, "   [%s]\n", line.Pronunciation)
		}
		if line.Hindi != "" {
			fmt.Fprintf(w, "   Hindi:   %s\n", line.Hindi)
		}
		if line.English != "" {
			fmt.Fprintf(w, "   English: %s\n", line.English)
		}
		if line.Context != "" {
			fmt.Fprintf(w, "   Context: %s\n", line.Context)
		}
	}
}

func printMatches(w io.Writer, matches []crossref.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No similar songs found")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s - %s: %d shared phrases\n", m.Song.SongName, m.Song.ArtistName(), m.MatchCount)
		for _, phrase := range m.Phrases {
			fmt.Fprintf(w, "  %q\n", phrase)
		}
	}
}

func printHits(w io.Writer, hits []crossref.PhraseHit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No lines found")
		return
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%s - %s, line %d: %s\n", h.Song.SongName, h.Song.ArtistName(), h.LineIndex+1, h.Line.Punjabi)
		if h.Line.English != "" {
			fmt.Fprintf(w, "  %s\n", h.Line.English)
		}
	}
}

func printThemes(w io.Writer, themes []crossref.Theme) {
	if len(themes) == 0 {
		fmt.Fprintln(w, "No themes yet")
		return
	}
	for i, t := range themes {
		fmt.Fprintf(w, "%2d. %-20s %d\n", i+1, t.Word, t.Count)
	}
}

func printStats(w io.Writer, st stats.Stats, artists []stats.ArtistCount) {
	fmt.Fprintf(w, "Songs:           %d\n", st.TotalSongs)
	fmt.Fprintf(w, "Lines:           %d\n", st.TotalLines)
	fmt.Fprintf(w, "Artists:         %d\n", st.ArtistCount)
	fmt.Fprintf(w, "This week:       %d\n", st.ThisWeek)
	fmt.Fprintf(w, "This month:      %d\n", st.ThisMonth)
	fmt.Fprintf(w, "Lines per song:  %d\n", st.AverageLinesPerSong)
	if st.MostTranslatedArtist != nil {
		fmt.Fprintf(w, "Top artist:      %s (%d)\n", st.MostTranslatedArtist.Name, st.MostTranslatedArtist.Count)
	}

	if len(artists) > 0 {
		fmt.Fprintln(w, "\nArtists:")
		for _, a := range artists {
			fmt.Fprintf(w, "  %-30s %d\n", a.Name, a.Count)
		}
	}
}

func printTimeline(w io.Writer, period stats.Period, songs []song.Song) {
	fmt.Fprintf(w, "Songs saved (%s): %d\n", period, len(songs))

	byDate := stats.SongsByDate(songs)
	days := make([]string, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	for _, day := range days {
		fmt.Fprintf(w, "\n%s\n", day)
		for _, s := range byDate[day] {
			fmt.Fprintf(w, "  %s - %s\n", s.SongName, s.ArtistName())
		}
	}
}

// printCalendar prints only the days with activity, oldest first
func printCalendar(w io.Writer, calendar map[string]int) {
	days := make([]string, 0, len(calendar))
	total := 0
	for day, n := range calendar {
		total += n
		if n > 0 {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	for _, day := range days {
		fmt.Fprintf(w, "%s %s %d\n", day, strings.Repeat("#", calendar[day]), calendar[day])
	}
	fmt.Fprintf(w, "%d songs on %d of %d days\n", total, len(days), len(calendar))
}

func printSuggestions(w io.Writer, s suggest.Suggestions) {
	if len(s.ByArtist) == 0 && len(s.ByTheme) == 0 {
		fmt.Fprintln(w, "Save a few songs to get suggestions")
		return
	}
	for _, sg := range s.ByArtist {
		fmt.Fprintf(w, "%s: %s\n", sg.Artist, sg.Reason)
	}
	for _, sg := range s.ByTheme {
		fmt.Fprintf(w, "%s (%s): %s\n", sg.Artist, sg.Theme, sg.Reason)
	}
}
