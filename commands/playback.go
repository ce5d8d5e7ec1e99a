package commands

import (
	"context"
	"strconv"

	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/protocol"
)

// Ping sends a no-op command; useful as a liveness check or to flush a
// pending idle subscription without waiting on a real state change.
func Ping(ctx context.Context, client *mpdnet.Client) error {
	_, err := client.Command(ctx, protocol.NewRawCommand("ping"))
	return err
}

// Play resumes playback. If pos is non-negative it starts at that queue
// position instead of resuming wherever playback was paused.
func Play(ctx context.Context, client *mpdnet.Client, pos int) error {
	cmd := protocol.NewRawCommand("play")
	if pos >= 0 {
		cmd.Argument(strconv.Itoa(pos))
	}
	_, err := client.Command(ctx, cmd)
	return err
}

// Pause sets the pause state explicitly rather than toggling it.
func Pause(ctx context.Context, client *mpdnet.Client, paused bool) error {
	arg := "0"
	if paused {
		arg = "1"
	}
	_, err := client.Command(ctx, protocol.NewRawCommand("pause").Argument(arg))
	return err
}

// Stop stops playback entirely, clearing the current song.
func Stop(ctx context.Context, client *mpdnet.Client) error {
	_, err := client.Command(ctx, protocol.NewRawCommand("stop"))
	return err
}

// Next skips to the next song in the queue.
func Next(ctx context.Context, client *mpdnet.Client) error {
	_, err := client.Command(ctx, protocol.NewRawCommand("next"))
	return err
}

// Previous returns to the previous song in the queue.
func Previous(ctx context.Context, client *mpdnet.Client) error {
	_, err := client.Command(ctx, protocol.NewRawCommand("previous"))
	return err
}
