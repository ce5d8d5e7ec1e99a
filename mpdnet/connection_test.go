package mpdnet

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/famish99/mpdc/protocol"
	"github.com/famish99/mpdc/tag"
)

// fakeServer wraps the server half of a net.Pipe with a line reader, so
// tests can script exact request/response exchanges byte for byte.
type fakeServer struct {
	conn net.Conn
	r    *bufio.Reader
}

func newFakeServer(t *testing.T) (*fakeServer, net.Conn) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	return &fakeServer{conn: serverSide, r: bufio.NewReader(serverSide)}, clientSide
}

func (f *fakeServer) expectLine(t *testing.T, want string) {
	t.Helper()
	line, err := f.r.ReadString('\n')
	if err != nil {
		t.Fatalf("reading expected line %q: %v", want, err)
	}
	if line != want+"\n" {
		t.Fatalf("got line %q, want %q", line, want)
	}
}

func (f *fakeServer) write(t *testing.T, s string) {
	t.Helper()
	if _, err := f.conn.Write([]byte(s)); err != nil {
		t.Fatalf("writing %q: %v", s, err)
	}
}

func connectTestClient(t *testing.T, server *fakeServer, clientSide net.Conn) (*Connection, *Client) {
	t.Helper()
	server.write(t, "OK MPD 0.23.5\n")
	conn, client, err := Connect(NetConnTransport(clientSide), ConnectOptions{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if conn.ProtocolVersion() != "0.23.5" {
		t.Fatalf("protocol version = %q", conn.ProtocolVersion())
	}
	server.expectLine(t, "idle")
	return conn, client
}

func TestIdleNotificationThenCleanClose(t *testing.T) {
	server, clientSide := newFakeServer(t)
	conn, _ := connectTestClient(t, server, clientSide)

	go func() {
		server.write(t, "changed: player\nOK\n")
		server.expectLine(t, "idle")
		server.conn.Close()
	}()

	ev1 := <-conn.Events()
	sc, ok := ev1.(SubsystemChange)
	if !ok || sc.Subsystem != tag.SubsystemPlayer {
		t.Fatalf("got %#v, want SubsystemChange{Player}", ev1)
	}

	ev2 := <-conn.Events()
	cc, ok := ev2.(ConnectionClosed)
	if !ok || cc.Err != nil {
		t.Fatalf("got %#v, want ConnectionClosed{Err: nil}", ev2)
	}

	if _, ok := <-conn.Events(); ok {
		t.Fatal("events channel should be closed")
	}
}

func TestCommandDuringIdle(t *testing.T) {
	server, clientSide := newFakeServer(t)
	conn, client := connectTestClient(t, server, clientSide)

	done := make(chan struct{})
	go func() {
		defer close(done)
		server.expectLine(t, "noidle")
		server.write(t, "changed: playlist\nOK\n")
		server.expectLine(t, "hello")
		server.write(t, "foo: bar\nOK\n")
	}()

	frame, err := client.Command(context.Background(), protocol.NewRawCommand("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := frame.Find("foo"); v != "bar" {
		t.Fatalf("foo = %q, want bar", v)
	}

	ev := <-conn.Events()
	sc, ok := ev.(SubsystemChange)
	if !ok || sc.Subsystem != tag.SubsystemQueue {
		t.Fatalf("got %#v, want SubsystemChange{Queue}", ev)
	}

	<-done
	client.Close()
	server.conn.Close()
}

func TestCommandListPartialFailure(t *testing.T) {
	server, clientSide := newFakeServer(t)
	conn, client := connectTestClient(t, server, clientSide)

	go func() {
		server.expectLine(t, "noidle")
		server.write(t, "OK\n")
		server.expectLine(t, "command_list_ok_begin")
		server.expectLine(t, "foo")
		server.expectLine(t, "bar")
		server.expectLine(t, "command_list_end")
		server.write(t, "foo: asdf\nlist_OK\n")
		server.write(t, "ACK [2@1] {bar} oops\n")
	}()

	list := protocol.NewRawCommandList(protocol.NewRawCommand("foo"), protocol.NewRawCommand("bar"))
	resp, err := client.CommandList(context.Background(), list)
	if err == nil {
		t.Fatal("expected an error")
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("got %T, want *CommandError", err)
	}
	if cmdErr.Frame.Code != 2 || cmdErr.Frame.CommandIndex != 1 || cmdErr.Frame.CurrentCommand != "bar" {
		t.Fatalf("got %+v", cmdErr.Frame)
	}
	if len(resp.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(resp.Frames))
	}
	if v, _ := resp.Frames[0].Find("foo"); v != "asdf" {
		t.Fatalf("foo = %q", v)
	}

	client.Close()
	server.conn.Close()
}

func TestConnectWithPasswordSucceedsBeforeIdle(t *testing.T) {
	server, clientSide := newFakeServer(t)

	go func() {
		server.write(t, "OK MPD 0.23.5\n")
		server.expectLine(t, "password secret")
		server.write(t, "OK\n")
		server.expectLine(t, "idle")
	}()

	conn, client, err := Connect(NetConnTransport(clientSide), ConnectOptions{Password: "secret"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	_ = conn

	client.Close()
	server.conn.Close()
}

func TestConnectWithWrongPasswordFailsBeforeIdle(t *testing.T) {
	server, clientSide := newFakeServer(t)

	go func() {
		server.write(t, "OK MPD 0.23.5\n")
		server.expectLine(t, "password wrong")
		server.write(t, `ACK [3@0] {password} incorrect password`+"\n")
	}()

	_, _, err := Connect(NetConnTransport(clientSide), ConnectOptions{Password: "wrong"})
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("Connect err = %v, want ErrIncorrectPassword", err)
	}

	server.conn.Close()
}

func TestClientCommandCoalescesDuringGracePeriod(t *testing.T) {
	server, clientSide := newFakeServer(t)
	conn, client := connectTestClient(t, server, clientSide)
	_ = conn

	go func() {
		server.expectLine(t, "noidle")
		server.write(t, "OK\n")
		server.expectLine(t, "ping")
		server.write(t, "OK\n")
		// A second command arrives within the grace period: no idle/noidle
		// round trip should be observed in between.
		server.expectLine(t, "ping")
		server.write(t, "OK\n")
		server.conn.Close()
	}()

	if _, err := client.Command(context.Background(), protocol.NewRawCommand("ping")); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Command(context.Background(), protocol.NewRawCommand("ping")); err != nil {
		t.Fatal(err)
	}

	client.Close()
	time.Sleep(10 * time.Millisecond)
}
