package commands

import (
	"context"
	"strconv"

	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/protocol"
	"github.com/famish99/mpdc/tag"
)

// CurrentSong returns the song currently loaded into the player, or a zero
// Song with ok false if nothing is playing.
func CurrentSong(ctx context.Context, client *mpdnet.Client) (tag.Song, bool, error) {
	frame, err := client.Command(ctx, protocol.NewRawCommand("currentsong"))
	if err != nil {
		return tag.Song{}, false, err
	}
	if frame.IsEmpty() {
		return tag.Song{}, false, nil
	}
	return tag.SongFromFrame(frame), true, nil
}

// PlaylistInfo returns the full contents of the queue.
func PlaylistInfo(ctx context.Context, client *mpdnet.Client) ([]tag.Song, error) {
	frame, err := client.Command(ctx, protocol.NewRawCommand("playlistinfo"))
	if err != nil {
		return nil, err
	}
	return songsFromFrame(frame), nil
}

// PlChanges returns the queue entries that changed since playlistVersion
// (the Status.PlaylistVersion of a previous call).
func PlChanges(ctx context.Context, client *mpdnet.Client, playlistVersion uint32) ([]tag.Song, error) {
	cmd := protocol.NewRawCommand("plchanges").Argument(strconv.FormatUint(uint64(playlistVersion), 10))
	frame, err := client.Command(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return songsFromFrame(frame), nil
}

// songsFromFrame splits a frame containing several songs (each starting
// with a "file" field) back into individual tag.Song values.
func songsFromFrame(frame *protocol.Frame) []tag.Song {
	var out []tag.Song
	var current []protocol.Pair

	flush := func() {
		if current == nil {
			return
		}
		out = append(out, tag.SongFromPairs(current))
		current = nil
	}

	for _, pair := range frame.All() {
		if pair.Key == "file" {
			flush()
		}
		current = append(current, pair)
	}
	flush()
	return out
}
