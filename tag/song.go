package tag

import (
	"strconv"
	"strings"
	"time"

	"github.com/famish99/mpdc/protocol"
)

// Song is a typed view over a "file: ..." response frame such as the ones
// returned by currentsong, playlistinfo, or find. Repeated tags (an album
// with two artists, say) are preserved in wire order.
type Song struct {
	File     string
	Tags     map[string][]string
	Duration time.Duration
	HasDur   bool
	Pos      int
	HasPos   bool
	ID       int
	HasID    bool
}

// SongFromFrame decodes a single song entry out of a response frame. It
// tolerates either a "Time" or "duration" field, per MPD's own backward
// compatibility handling: "duration" (sub-second precision) always wins if
// present, "Time" (whole seconds) is used only as a fallback.
func SongFromFrame(f *protocol.Frame) Song {
	return SongFromPairs(f.All())
}

// SongFromPairs decodes a single song entry out of an already-extracted
// slice of pairs, the same rule set as SongFromFrame. Callers that split a
// multi-song frame (playlistinfo, find, ...) into per-song pair slices use
// this directly.
func SongFromPairs(pairs []protocol.Pair) Song {
	s := Song{Tags: make(map[string][]string)}

	var timeDuration time.Duration
	var haveTime bool

	for _, pair := range pairs {
		switch pair.Key {
		case "file":
			s.File = pair.Value
		case "duration":
			if d, err := parseFloatSeconds(pair.Value); err == nil {
				s.Duration = d
				s.HasDur = true
			}
		case "Time":
			if d, err := parseFloatSeconds(pair.Value); err == nil {
				timeDuration = d
				haveTime = true
			}
		case "Pos":
			if n, err := strconv.Atoi(pair.Value); err == nil {
				s.Pos = n
				s.HasPos = true
			}
		case "Id":
			if n, err := strconv.Atoi(pair.Value); err == nil {
				s.ID = n
				s.HasID = true
			}
		default:
			s.Tags[pair.Key] = append(s.Tags[pair.Key], pair.Value)
		}
	}

	if !s.HasDur && haveTime {
		s.Duration = timeDuration
		s.HasDur = true
	}

	return s
}

// TagValues returns every value recorded for t, in wire order.
func (s Song) TagValues(t Tag) []string {
	return s.Tags[t.String()]
}

// TagValue returns the first value recorded for t, if any.
func (s Song) TagValue(t Tag) (string, bool) {
	vals := s.Tags[t.String()]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func parseFloatSeconds(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}
