package commands

import (
	"context"

	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/protocol"
	"github.com/famish99/mpdc/tag"
)

// Find performs an exact-match database query using the given filter
// expression, returning every matching song.
func Find(ctx context.Context, client *mpdnet.Client, filter tag.Filter) ([]tag.Song, error) {
	return runFilterCommand(ctx, client, "find", filter)
}

// Search is like Find but MPD performs the match case-insensitively.
func Search(ctx context.Context, client *mpdnet.Client, filter tag.Filter) ([]tag.Song, error) {
	return runFilterCommand(ctx, client, "search", filter)
}

func runFilterCommand(ctx context.Context, client *mpdnet.Client, verb string, filter tag.Filter) ([]tag.Song, error) {
	escaped, err := protocol.Escape(filter.Render())
	if err != nil {
		return nil, err
	}
	cmd := protocol.NewRawCommand(verb).Argument(escaped)
	frame, err := client.Command(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return songsFromFrame(frame), nil
}
