// Package commands provides typed wrappers over the protocol package's raw
// command/response primitives, in the spirit of mpd_client's commands
// module: each MPD command gets a small constructor for its RawCommand plus
// a parser for its response frame.
package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/famish99/mpdc/protocol"
)

// PlayState is the playback state reported by Status.
type PlayState int

const (
	PlayStateStopped PlayState = iota
	PlayStatePlaying
	PlayStatePaused
)

func (s PlayState) String() string {
	switch s {
	case PlayStatePlaying:
		return "playing"
	case PlayStatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

func parsePlayState(v string) (PlayState, error) {
	switch v {
	case "stop":
		return PlayStateStopped, nil
	case "play":
		return PlayStatePlaying, nil
	case "pause":
		return PlayStatePaused, nil
	default:
		return 0, fmt.Errorf("commands: invalid state %q", v)
	}
}

// SingleMode mirrors MPD's "single" playback option, which gained a third
// "oneshot" value in newer protocol versions alongside the original boolean.
type SingleMode int

const (
	SingleDisabled SingleMode = iota
	SingleEnabled
	SingleOneshot
)

func parseSingleMode(v string) (SingleMode, error) {
	switch v {
	case "0":
		return SingleDisabled, nil
	case "1":
		return SingleEnabled, nil
	case "oneshot":
		return SingleOneshot, nil
	default:
		return 0, fmt.Errorf("commands: invalid single mode %q", v)
	}
}

// Status is the response to the "status" command.
type Status struct {
	Volume          int
	State           PlayState
	Repeat          bool
	Random          bool
	Consume         bool
	Single          SingleMode
	PlaylistVersion uint32
	PlaylistLength  int
	SongPos         int
	HasSongPos      bool
	SongID          int
	HasSongID       bool
	Elapsed         time.Duration
	HasElapsed      bool
	Duration        time.Duration
	HasDuration     bool
	Bitrate         uint64
	HasBitrate      bool
	Crossfade       time.Duration
	UpdateJobID     uint64
	HasUpdateJobID  bool
	Error           string
}

// StatusCommand builds the "status" command.
func StatusCommand() *protocol.RawCommand {
	return protocol.NewRawCommand("status")
}

// ParseStatus decodes a Status from the frame returned by StatusCommand.
func ParseStatus(frame *protocol.Frame) (Status, error) {
	var st Status

	if v, ok := frame.Take("volume"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: volume: %w", err)
		}
		st.Volume = n
	}

	state, ok := frame.Take("state")
	if !ok {
		return Status{}, fmt.Errorf("commands: status frame missing state")
	}
	ps, err := parsePlayState(state)
	if err != nil {
		return Status{}, err
	}
	st.State = ps

	st.Repeat = takeBool(frame, "repeat")
	st.Random = takeBool(frame, "random")
	st.Consume = takeBool(frame, "consume")

	single := SingleDisabled
	if v, ok := frame.Take("single"); ok {
		single, err = parseSingleMode(v)
		if err != nil {
			return Status{}, err
		}
	}
	st.Single = single

	if v, ok := frame.Take("playlist"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Status{}, fmt.Errorf("commands: playlist: %w", err)
		}
		st.PlaylistVersion = uint32(n)
	}
	if v, ok := frame.Take("playlistlength"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: playlistlength: %w", err)
		}
		st.PlaylistLength = n
	}

	if v, ok := frame.Take("song"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: song: %w", err)
		}
		st.SongPos, st.HasSongPos = n, true
	}
	if v, ok := frame.Take("songid"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: songid: %w", err)
		}
		st.SongID, st.HasSongID = n, true
	}

	if v, ok := frame.Take("elapsed"); ok {
		d, err := parseSeconds(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: elapsed: %w", err)
		}
		st.Elapsed, st.HasElapsed = d, true
	}

	// "duration" wins over the legacy "time" field when both are present,
	// matching the song frame's own resolution rule.
	haveTime, timeDuration := false, time.Duration(0)
	if v, ok := frame.Take("time"); ok {
		if _, rest, found := cutLast(v, ":"); found {
			d, err := parseSeconds(rest)
			if err == nil {
				haveTime, timeDuration = true, d
			}
		}
	}
	if v, ok := frame.Take("duration"); ok {
		d, err := parseSeconds(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: duration: %w", err)
		}
		st.Duration, st.HasDuration = d, true
	} else if haveTime {
		st.Duration, st.HasDuration = timeDuration, true
	}

	if v, ok := frame.Take("bitrate"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Status{}, fmt.Errorf("commands: bitrate: %w", err)
		}
		st.Bitrate, st.HasBitrate = n, true
	}

	if v, ok := frame.Take("xfade"); ok {
		d, err := parseSeconds(v)
		if err != nil {
			return Status{}, fmt.Errorf("commands: xfade: %w", err)
		}
		st.Crossfade = d
	}

	if v, ok := frame.Take("updating_db"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Status{}, fmt.Errorf("commands: updating_db: %w", err)
		}
		st.UpdateJobID, st.HasUpdateJobID = n, true
	}

	if v, ok := frame.Take("error"); ok {
		st.Error = v
	}

	return st, nil
}

func takeBool(f *protocol.Frame, key string) bool {
	v, ok := f.Take(key)
	return ok && v == "1"
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := -1
	for j := 0; j+len(sep) <= len(s); j++ {
		if s[j:j+len(sep)] == sep {
			i = j
		}
	}
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
