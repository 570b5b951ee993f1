package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMpv is a scripted stand-in for mpv's IPC endpoint listening on a real
// unix socket. The script inspects each received command and returns the
// reply error string ("success" by default). Returning drop=true closes the
// connection without replying.
type fakeMpv struct {
	listener net.Listener
	script   func(cmd []interface{}) (errText string, drop bool)

	mu       sync.Mutex
	received [][]interface{}
}

func newFakeMpv(t *testing.T, script func(cmd []interface{}) (string, bool)) (*fakeMpv, string) {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "mpv.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	f := &fakeMpv{listener: listener, script: script}
	go f.serve()
	t.Cleanup(func() { _ = listener.Close() })

	return f, socket
}

func (f *fakeMpv) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMpv) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd struct {
			Command   []interface{} `json:"command"`
			RequestID int           `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}

		f.mu.Lock()
		f.received = append(f.received, cmd.Command)
		f.mu.Unlock()

		errText := "success"
		if f.script != nil {
			var drop bool
			errText, drop = f.script(cmd.Command)
			if drop {
				return
			}
		}

		reply := map[string]interface{}{
			"error":      errText,
			"request_id": cmd.RequestID,
		}
		if cmd.Command[0] == "get_property" {
			reply["data"] = 1337.0
		}

		payload, _ := json.Marshal(reply)
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			return
		}
	}
}

func (f *fakeMpv) commands() [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]interface{}, len(f.received))
	copy(out, f.received)
	return out
}

func TestConn(t *testing.T) {
	Convey("Conn", t, func() {
		Convey("GetProperty completes a correlated round-trip", func() {
			_, socket := newFakeMpv(t, nil)

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			data, err := conn.GetProperty("pid")
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 1337.0)
		})

		Convey("Replies are matched by request identifier, skipping events", func() {
			socket := filepath.Join(t.TempDir(), "mpv.sock")
			listener, err := net.Listen("unix", socket)
			So(err, ShouldBeNil)
			defer listener.Close()

			go func() {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				defer conn.Close()

				scanner := bufio.NewScanner(conn)
				if !scanner.Scan() {
					return
				}
				var cmd struct {
					RequestID int `json:"request_id"`
				}
				_ = json.Unmarshal(scanner.Bytes(), &cmd)

				// An async event and a stale reply precede the real one.
				_, _ = conn.Write([]byte(`{"event":"property-change"}` + "\n"))
				_, _ = conn.Write([]byte(`{"error":"success","request_id":999}` + "\n"))
				reply, _ := json.Marshal(map[string]interface{}{
					"error": "success", "data": true, "request_id": cmd.RequestID,
				})
				_, _ = conn.Write(append(reply, '\n'))
			}()

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			data, err := conn.GetProperty("pause")
			So(err, ShouldBeNil)
			So(data, ShouldEqual, true)
		})

		Convey("A rejected command surfaces as CommandError", func() {
			_, socket := newFakeMpv(t, func([]interface{}) (string, bool) {
				return "property unavailable", false
			})

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			_, err = conn.GetProperty("time-pos")
			var cmdErr *CommandError
			So(errors.As(err, &cmdErr), ShouldBeTrue)
			So(errors.Is(err, ErrChannel), ShouldBeFalse)
		})

		Convey("Dialing a missing socket wraps ErrChannel", func() {
			_, err := Dial(filepath.Join(t.TempDir(), "absent.sock"))
			So(errors.Is(err, ErrChannel), ShouldBeTrue)
		})
	})
}

func TestEnqueueBatch(t *testing.T) {
	items := []Item{
		{URL: "https://cdn.example.com/a.m3u8", Title: "A"},
		{URL: "https://cdn.example.com/b.m3u8", Title: "B"},
		{URL: "https://cdn.example.com/c.m3u8", Title: "C"},
	}

	Convey("EnqueueBatch", t, func() {
		Convey("Preserves input order with strict sequencing", func() {
			fake, socket := newFakeMpv(t, nil)

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			result, err := conn.EnqueueBatch(items)
			So(err, ShouldBeNil)
			So(result.Enqueued(), ShouldEqual, 3)

			var loads []string
			for _, cmd := range fake.commands() {
				if cmd[0] == "loadfile" {
					loads = append(loads, cmd[1].(string))
					So(cmd[2], ShouldEqual, "append")
				}
			}
			So(loads, ShouldResemble, []string{items[0].URL, items[1].URL, items[2].URL})
		})

		Convey("Continues past a per-item rejection", func() {
			fake, socket := newFakeMpv(t, func(cmd []interface{}) (string, bool) {
				if cmd[0] == "loadfile" && cmd[1] == items[1].URL {
					return "error running command", false
				}
				return "success", false
			})

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			result, err := conn.EnqueueBatch(items)
			So(err, ShouldBeNil)
			So(result.Statuses, ShouldResemble, []ItemStatus{StatusEnqueued, StatusRejected, StatusEnqueued})
			So(result.Rejected(), ShouldEqual, 1)

			// The rejected item must still have been attempted after A's ack
			// and before C's attempt.
			So(len(fake.commands()), ShouldBeGreaterThan, 3)
		})

		Convey("Aborts the batch on transport failure", func() {
			fake, socket := newFakeMpv(t, func(cmd []interface{}) (string, bool) {
				// Drop the connection mid-batch, after A was acknowledged.
				return "success", cmd[0] == "loadfile" && cmd[1] == items[1].URL
			})

			conn, err := Dial(socket)
			So(err, ShouldBeNil)
			defer conn.Close()

			result, err := conn.EnqueueBatch(items)
			So(errors.Is(err, ErrChannel), ShouldBeTrue)
			So(result.Statuses, ShouldResemble, []ItemStatus{StatusEnqueued, StatusNotAttempted, StatusNotAttempted})

			first := fake.commands()[0]
			So(first[0], ShouldEqual, "loadfile")
			So(first[1], ShouldEqual, items[0].URL)
		})
	})
}

func TestProbe(t *testing.T) {
	Convey("Probe", t, func() {
		Convey("Reports a live session", func() {
			_, socket := newFakeMpv(t, nil)
			So(Probe(socket), ShouldBeTrue)
		})

		Convey("Never reports a session for a missing socket", func() {
			So(Probe(filepath.Join(t.TempDir(), "absent.sock")), ShouldBeFalse)
		})

		Convey("Never reports a session for a stale socket artifact", func() {
			// A plain file at the socket address: exists, but refuses dial.
			stale := filepath.Join(t.TempDir(), "stale.sock")
			So(os.WriteFile(stale, nil, 0o600), ShouldBeNil)
			So(Probe(stale), ShouldBeFalse)
		})

		Convey("Never reports a session for a listener that accepts but stays silent", func() {
			socket := filepath.Join(t.TempDir(), "silent.sock")
			listener, err := net.Listen("unix", socket)
			So(err, ShouldBeNil)
			defer listener.Close()
			go func() {
				conn, err := listener.Accept()
				if err == nil {
					// Hold the connection open without ever replying.
					time.Sleep(2 * time.Second)
					conn.Close()
				}
			}()

			restore := replyTimeout
			replyTimeout = 200 * time.Millisecond
			defer func() { replyTimeout = restore }()

			start := time.Now()
			So(Probe(socket), ShouldBeFalse)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})
}

func TestSpawner(t *testing.T) {
	Convey("Spawner", t, func() {
		Convey("A missing binary surfaces ErrSpawn", func() {
			s := &Spawner{Binary: filepath.Join(t.TempDir(), "no-such-mpv")}
			err := s.Launch(nil, "https://example.com/v")
			So(errors.Is(err, ErrSpawn), ShouldBeTrue)
		})
	})
}
