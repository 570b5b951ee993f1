package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const dialTimeout = 500 * time.Millisecond

// replyTimeout bounds one request/reply exchange. Variable so tests can
// shorten the wait when exercising unresponsive endpoints.
var replyTimeout = 5 * time.Second

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int           `json:"request_id"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Asynchronous events carry an event name and no request identifier.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int         `json:"request_id"`
	Event     string      `json:"event"`
}

// CommandError is a reply from mpv rejecting a single command. The channel
// itself stays usable after one of these.
type CommandError struct {
	Reason string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv rejected command: %s", e.Reason)
}

// Conn is a single live connection to mpv's control channel.
// It is used by exactly one client for sequential request/reply exchanges;
// commands are correlated with replies by request identifier.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

// Dial opens the control channel at the given socket address.
func Dial(socketPath string) (*Conn, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %s", ErrChannel, socketPath, err)
	}

	return &Conn{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close releases the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// roundTrip sends one command and waits for its correlated reply.
// A reply with a non-success error field yields a *CommandError; any
// transport-level failure yields an error wrapping ErrChannel.
func (c *Conn) roundTrip(command []interface{}) (interface{}, error) {
	c.nextID++
	id := c.nextID

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %s", ErrChannel, err)
	}

	deadline := time.Now().Add(replyTimeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: set deadline: %s", ErrChannel, err)
	}

	// mpv requires newline-delimited JSON
	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("%w: write: %s", ErrChannel, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: read: %s", ErrChannel, err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("%w: unmarshal: %s", ErrChannel, err)
		}

		// Skip asynchronous events and any stale replies.
		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, &CommandError{Reason: resp.Error}
		}

		return resp.Data, nil
	}
}

// GetProperty queries a single mpv property value.
func (c *Conn) GetProperty(name string) (interface{}, error) {
	return c.roundTrip([]interface{}{"get_property", name})
}

// LoadFileAppend appends one item to the play queue without interrupting
// current playback, then labels the freshly appended playlist entry.
func (c *Conn) LoadFileAppend(item Item) error {
	options := map[string]interface{}{}
	if item.Title != "" {
		options["title"] = item.Title
	}
	if item.AudioURL != "" {
		options["audio-file"] = item.AudioURL
	}

	if _, err := c.roundTrip([]interface{}{"loadfile", item.URL, "append", options}); err != nil {
		return err
	}

	if item.Title != "" {
		if _, err := c.roundTrip([]interface{}{"set_property", "playlist/-1/title", item.Title}); err != nil {
			return err
		}
	}

	return nil
}
