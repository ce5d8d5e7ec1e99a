package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/protocol"
)

// ackUnknownCommand is the ACK code MPD reports for a command name it does
// not recognize (spec §8 scenario 6: older servers predate "readpicture").
const ackUnknownCommand = 5

// AlbumArt fetches the cover art associated with uri, paging through MPD's
// chunked binary response and concatenating the pieces into a single
// buffer. It prefers "readpicture" (the embedded-tag picture, which also
// reports a MIME type) and falls back transparently to "albumart" (the
// folder-level art file, no type reported) when the server is too old to
// know "readpicture" at all.
//
// The returned MIME type is the server's own "type:" field when present;
// otherwise the image bytes are sniffed with mimetype, since "albumart"
// never reports one and a server's "readpicture" reply may omit it too.
func AlbumArt(ctx context.Context, client *mpdnet.Client, uri string) ([]byte, string, error) {
	data, mimeType, err := fetchPicture(ctx, client, "readpicture", uri)
	if err != nil {
		var cmdErr *mpdnet.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Frame.Code == ackUnknownCommand {
			data, mimeType, err = fetchPicture(ctx, client, "albumart", uri)
		}
		if err != nil {
			return nil, "", err
		}
	}
	if mimeType == "" && len(data) > 0 {
		mimeType = mimetype.Detect(data).String()
	}
	return data, mimeType, nil
}

// fetchPicture pages through one of "readpicture"/"albumart" starting at
// offset 0, using the "size" field each reply reports to know when every
// chunk has arrived. It returns as soon as the server sends a reply with no
// binary payload (either because the picture is empty or offset has
// reached size).
func fetchPicture(ctx context.Context, client *mpdnet.Client, verb, uri string) ([]byte, string, error) {
	escaped, err := protocol.Escape(uri)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	var mimeType string
	offset := 0

	for {
		cmd := protocol.NewRawCommand(verb).
			Argument(escaped).
			Argument(strconv.Itoa(offset))
		frame, err := client.Command(ctx, cmd)
		if err != nil {
			return nil, "", err
		}

		if t, ok := frame.Find("type"); ok && mimeType == "" {
			mimeType = t
		}
		sizeStr, ok := frame.Find("size")
		if !ok {
			return nil, "", fmt.Errorf("commands: %s reply missing size field", verb)
		}
		total, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, "", fmt.Errorf("commands: %s reply has non-numeric size %q: %w", verb, sizeStr, err)
		}

		chunk, ok := frame.TakeBinary()
		if !ok || len(chunk) == 0 {
			break
		}
		data = append(data, chunk...)
		offset += len(chunk)
		if offset >= total {
			break
		}
	}

	return data, mimeType, nil
}
