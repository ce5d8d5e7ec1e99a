// Command mpdc is a small example client built on package mpdnet: it
// connects to one server named in a YAML config file (or given on the
// command line), runs a one-shot command, or streams idle events until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/famish99/mpdc/commands"
	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/tag"
)

var (
	configPath = flag.String("config", getDefaultConfigPath(), "Path to configuration file")
	serverName = flag.String("server", "", "Server name from the config file (default: the preferred one)")
	addrFlag   = flag.String("addr", "", "Connect to host:port or a unix socket path, bypassing the config file")
	verbose    = flag.Bool("verbose", false, "Log idle-loop state transitions to stderr")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	server, err := resolveServer()
	if err != nil {
		log.Fatalf("mpdc: %v", err)
	}

	conn, client, err := connect(server, logger)
	if err != nil {
		log.Fatalf("mpdc: connecting to %s: %v", server.Address, err)
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	var runErr error
	switch cmd {
	case "idle":
		runErr = runIdleWatch(ctx, conn, client)
	case "status":
		runErr = runStatus(ctx, client)
	case "current":
		runErr = runCurrentSong(ctx, client)
	case "play":
		runErr = runPlay(ctx, client, rest)
	case "pause":
		runErr = commands.Pause(ctx, client, true)
	case "resume":
		runErr = commands.Pause(ctx, client, false)
	case "stop":
		runErr = commands.Stop(ctx, client)
	case "next":
		runErr = commands.Next(ctx, client)
	case "previous":
		runErr = commands.Previous(ctx, client)
	case "add":
		runErr = runAdd(ctx, client, rest)
	case "find":
		runErr = runFind(ctx, client, rest)
	case "albumart":
		runErr = runAlbumArt(ctx, client, rest)
	default:
		usage()
		os.Exit(1)
	}

	client.Close()
	if runErr != nil {
		log.Fatalf("mpdc: %s: %v", cmd, runErr)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  status                 print the current playback status\n")
	fmt.Fprintf(os.Stderr, "  current                print the current song\n")
	fmt.Fprintf(os.Stderr, "  play [pos]             resume playback, optionally from a queue position\n")
	fmt.Fprintf(os.Stderr, "  pause | resume | stop | next | previous\n")
	fmt.Fprintf(os.Stderr, "  add <uri>              append a URI to the queue\n")
	fmt.Fprintf(os.Stderr, "  find <tag> <value>     exact-match database search\n")
	fmt.Fprintf(os.Stderr, "  albumart <uri> <file>  fetch cover art and write it to a file\n")
	fmt.Fprintf(os.Stderr, "  idle                   stream subsystem change notifications until interrupted\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func resolveServer() (Server, error) {
	if *addrFlag != "" {
		return Server{Name: "cli", Address: *addrFlag}, nil
	}
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return Server{}, err
	}
	if *serverName != "" {
		s := cfg.GetServer(*serverName)
		if s == nil {
			return Server{}, fmt.Errorf("no server named %q in %s", *serverName, *configPath)
		}
		return *s, nil
	}
	s := cfg.GetPreferredServer()
	if s == nil {
		return Server{}, fmt.Errorf("no servers configured in %s (use -addr host:port)", *configPath)
	}
	return *s, nil
}

func connect(server Server, logger zerolog.Logger) (*mpdnet.Connection, *mpdnet.Client, error) {
	transport, err := dial(server.Address)
	if err != nil {
		return nil, nil, err
	}
	return mpdnet.Connect(transport, mpdnet.ConnectOptions{Logger: &logger, Password: server.Password})
}

func dial(address string) (mpdnet.Transport, error) {
	network := "tcp"
	if strings.HasPrefix(address, "/") {
		network = "unix"
	}
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return mpdnet.NetConnTransport(conn), nil
}

func getDefaultConfigPath() string {
	locations := []string{
		"./mpdc.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "mpdc", "config.yaml"),
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return locations[0]
}

// runIdleWatch prints every SubsystemChange until the connection closes or
// the process receives an interrupt, whichever comes first. The
// event-printing loop and the signal handler run as two goroutines under a
// single errgroup so that either one's exit (event channel closed, signal
// received) shuts the other down and the command returns the first error.
func runIdleWatch(ctx context.Context, conn *mpdnet.Connection, client *mpdnet.Client) error {
	fmt.Printf("watching %s for subsystem changes; press ctrl-C to stop\n", client.ProtocolVersion())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case ev, ok := <-conn.Events():
				if !ok {
					return nil
				}
				switch e := ev.(type) {
				case mpdnet.SubsystemChange:
					fmt.Printf("changed: %s\n", e.Subsystem)
				case mpdnet.ConnectionClosed:
					if e.Err != nil {
						return e.Err
					}
					return nil
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigCh:
			client.Close()
			return nil
		case <-conn.Closed():
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	return g.Wait()
}

func runStatus(ctx context.Context, client *mpdnet.Client) error {
	frame, err := client.Command(ctx, commands.StatusCommand())
	if err != nil {
		return err
	}
	st, err := commands.ParseStatus(frame)
	if err != nil {
		return err
	}
	fmt.Printf("state: %s\nvolume: %d\nrepeat: %v\nrandom: %v\n", st.State, st.Volume, st.Repeat, st.Random)
	if st.HasSongPos {
		fmt.Printf("song: %d\n", st.SongPos)
	}
	if st.HasElapsed && st.HasDuration {
		fmt.Printf("time: %s / %s\n", st.Elapsed, st.Duration)
	}
	return nil
}

func runCurrentSong(ctx context.Context, client *mpdnet.Client) error {
	song, ok, err := commands.CurrentSong(ctx, client)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("(nothing playing)")
		return nil
	}
	fmt.Println(song.File)
	if title, ok := song.TagValue(tag.TagTitle); ok {
		fmt.Printf("title: %s\n", title)
	}
	if artist, ok := song.TagValue(tag.TagArtist); ok {
		fmt.Printf("artist: %s\n", artist)
	}
	return nil
}

func runPlay(ctx context.Context, client *mpdnet.Client, args []string) error {
	pos := -1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid queue position %q: %w", args[0], err)
		}
		pos = p
	}
	return commands.Play(ctx, client, pos)
}

func runAdd(ctx context.Context, client *mpdnet.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add <uri>")
	}
	return commands.Add(ctx, client, args[0])
}

func runFind(ctx context.Context, client *mpdnet.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: find <tag> <value>")
	}
	t, err := tag.OtherTag(args[0])
	if err != nil {
		return err
	}
	songs, err := commands.Find(ctx, client, tag.TagFilter(t, args[1]))
	if err != nil {
		return err
	}
	for _, s := range songs {
		fmt.Println(s.File)
	}
	return nil
}

func runAlbumArt(ctx context.Context, client *mpdnet.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: albumart <uri> <output-file>")
	}
	data, mimeType, err := commands.AlbumArt(ctx, client, args[0])
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no art found for %s", args[0])
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes (%s) to %s\n", len(data), mimeType, args[1])
	return nil
}
