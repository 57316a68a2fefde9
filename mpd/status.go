package mpd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// State is the player state.
type State int

const (
	StateStop State = iota
	StatePlay
	StatePause
)

func (s State) String() string {
	switch s {
	case StatePlay:
		return "play"
	case StatePause:
		return "pause"
	}
	return "stop"
}

// Status is the reply to the status command.
type Status struct {
	State   State
	// Volume is 0-100, or -1 when the output has no mixer.
	Volume  int
	Repeat  bool
	Random  bool
	Single  bool
	Consume bool

	// Song is the queue position of the current song, or -1.
	Song           int
	SongID         int
	PlaylistLength int

	Elapsed  time.Duration
	Duration time.Duration
	Bitrate  int
	Error    string
}

// Song is the reply to currentsong.
type Song struct {
	File     string
	Title    string
	Artist   []string
	Album    string
	Duration time.Duration
	Pos      int
	ID       int
}

// Artists joins all artist tags.
func (s Song) Artists() string { return strings.Join(s.Artist, ", ") }

// DisplayTitle returns the title tag, or the file name when untagged.
func (s Song) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if i := strings.LastIndexByte(s.File, '/'); i >= 0 {
		return s.File[i+1:]
	}
	return s.File
}

func parseStatus(attrs []attr) (Status, error) {
	st := Status{Volume: -1, Song: -1, SongID: -1}
	for _, a := range attrs {
		var err error
		switch a.key {
		case "state":
			switch a.value {
			case "play":
				st.State = StatePlay
			case "pause":
				st.State = StatePause
			default:
				st.State = StateStop
			}
		case "volume":
			st.Volume, err = strconv.Atoi(a.value)
		case "repeat":
			st.Repeat = a.value == "1"
		case "random":
			st.Random = a.value == "1"
		case "single":
			// "oneshot" is also a form of on.
			st.Single = a.value != "0"
		case "consume":
			st.Consume = a.value != "0"
		case "song":
			st.Song, err = strconv.Atoi(a.value)
		case "songid":
			st.SongID, err = strconv.Atoi(a.value)
		case "playlistlength":
			st.PlaylistLength, err = strconv.Atoi(a.value)
		case "elapsed":
			st.Elapsed, err = parseSeconds(a.value)
		case "duration":
			st.Duration, err = parseSeconds(a.value)
		case "time":
			// Older servers: "elapsed:total" in whole seconds.
			if st.Duration == 0 {
				if _, total, ok := strings.Cut(a.value, ":"); ok {
					st.Duration, err = parseSeconds(total)
				}
			}
		case "bitrate":
			st.Bitrate, err = strconv.Atoi(a.value)
		case "error":
			st.Error = a.value
		}
		if err != nil {
			return Status{}, fmt.Errorf("mpd: status %s: %w", a.key, err)
		}
	}
	return st, nil
}

func parseSong(attrs []attr) (Song, bool, error) {
	if len(attrs) == 0 {
		return Song{}, false, nil
	}
	s := Song{Pos: -1, ID: -1}
	for _, a := range attrs {
		var err error
		switch a.key {
		case "file":
			s.File = a.value
		case "Title":
			s.Title = a.value
		case "Artist":
			s.Artist = append(s.Artist, a.value)
		case "Album":
			s.Album = a.value
		case "duration":
			s.Duration, err = parseSeconds(a.value)
		case "Time":
			if s.Duration == 0 {
				s.Duration, err = parseSeconds(a.value)
			}
		case "Pos":
			s.Pos, err = strconv.Atoi(a.value)
		case "Id":
			s.ID, err = strconv.Atoi(a.value)
		}
		if err != nil {
			return Song{}, false, fmt.Errorf("mpd: song %s: %w", a.key, err)
		}
	}
	return s, s.File != "", nil
}

func parseSeconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)).Round(time.Millisecond), nil
}
