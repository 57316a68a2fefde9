// Package mpd is a client for the Music Player Daemon text protocol.
package mpd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a call whose context has no deadline.
const DefaultTimeout = 5 * time.Second

const greetingPrefix = "OK MPD "

// Options configures Dial.
type Options struct {
	Password string
	// Timeout applies to dialing and to each call without a ctx deadline.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Stats holds client statistics for monitoring.
type Stats struct {
	Connected    bool
	Commands     uint64
	Errors       uint64
	BytesRead    uint64
	BytesWritten uint64
	LastCommand  time.Time
}

// Client is one connection to an MPD server. Calls are serialized; it is
// safe for concurrent use. Once a call fails with a transport error the
// client is broken and every later call returns ErrClosed.
type Client struct {
	addr    string
	version string
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	conn   net.Conn
	r      *bufio.Reader
	closed bool

	// Stats (atomic for lock-free reads)
	commands     atomic.Uint64
	errors       atomic.Uint64
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	lastCommand  atomic.Int64 // Unix nano
}

// Dial connects to addr, reads the server greeting and authenticates when a
// password is set.
func Dial(ctx context.Context, addr string, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	d := net.Dialer{Timeout: opts.Timeout, KeepAlive: 30 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mpd: dial %s: %w", addr, err)
	}
	c, err := NewClient(ctx, conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.addr = addr
	return c, nil
}

// NewClient runs the handshake over an established connection.
func NewClient(ctx context.Context, conn net.Conn, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Client{
		addr:    conn.RemoteAddr().String(),
		conn:    conn,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	c.r = bufio.NewReader(countingReader{conn, &c.bytesRead})

	stop := c.arm(ctx)
	line, err := c.readLine()
	stop()
	if err != nil {
		return nil, fmt.Errorf("mpd: read greeting: %w", err)
	}
	version, ok := strings.CutPrefix(line, greetingPrefix)
	if !ok {
		return nil, fmt.Errorf("mpd: unexpected greeting %q", line)
	}
	c.version = version

	if opts.Password != "" {
		if _, err := c.call(ctx, "password", opts.Password); err != nil {
			return nil, fmt.Errorf("mpd: authenticate: %w", err)
		}
	}
	c.logger.Debug("mpd connected", "addr", c.addr, "version", c.version)
	return c, nil
}

// Version returns the protocol version announced by the server.
func (c *Client) Version() string { return c.version }

// Addr returns the server address.
func (c *Client) Addr() string { return c.addr }

// Stats returns current client statistics.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	connected := !c.closed
	c.mu.Unlock()

	var last time.Time
	if ns := c.lastCommand.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Connected:    connected,
		Commands:     c.commands.Load(),
		Errors:       c.errors.Load(),
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
		LastCommand:  last,
	}
}

// Close says goodbye and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	io.WriteString(c.conn, "close\n")
	return c.conn.Close()
}

// call sends one command and returns its attribute lines.
func (c *Client) call(ctx context.Context, cmd string, args ...string) ([]attr, error) {
	var resp []attr
	err := c.exchange(ctx, cmd, args, func() error {
		var err error
		resp, err = c.readResponse()
		return err
	})
	return resp, err
}

// exchange writes a command and lets read consume the response while the
// connection is held. A transport failure breaks the client.
func (c *Client) exchange(ctx context.Context, cmd string, args []string, read func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	c.commands.Add(1)
	c.lastCommand.Store(time.Now().UnixNano())

	stop := c.arm(ctx)
	defer stop()

	line := formatCommand(cmd, args...)
	n, err := io.WriteString(c.conn, line)
	c.bytesWritten.Add(uint64(n))
	if err == nil {
		err = read()
	}
	if err == nil {
		return nil
	}

	c.errors.Add(1)
	var ack *Error
	if errors.As(err, &ack) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	c.logger.Warn("mpd connection broken", "command", cmd, "error", err)
	c.closed = true
	c.conn.Close()
	return fmt.Errorf("%w: %s: %w", ErrClosed, cmd, err)
}

// arm sets the connection deadline from ctx, or the default timeout, and
// interrupts blocked I/O when ctx is cancelled. The returned func disarms.
func (c *Client) arm(ctx context.Context) func() {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	c.conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Now())
	})
	return func() {
		stop()
		c.conn.SetDeadline(time.Time{})
	}
}

func (c *Client) readLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// readResponse reads attribute lines up to OK or ACK.
func (c *Client) readResponse() ([]attr, error) {
	var resp []attr
	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "OK" {
			return resp, nil
		}
		if rest, ok := strings.CutPrefix(line, "ACK "); ok {
			ack, err := parseAck(rest)
			if err != nil {
				return nil, err
			}
			return nil, ack
		}
		key, value, ok := cut(line)
		if !ok {
			return nil, fmt.Errorf("mpd: malformed line %q", line)
		}
		resp = append(resp, attr{key, value})
	}
}

// readBinary reads a chunk announced by a "binary: n" line, followed by
// its trailing newline.
func (c *Client) readBinary(n int) ([]byte, error) {
	buf := make([]byte, n+1)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, err
	}
	if buf[n] != '\n' {
		return nil, errors.New("mpd: binary chunk not newline terminated")
	}
	return buf[:n], nil
}

type attr struct {
	key, value string
}

// formatCommand renders a command line, quoting every argument.
func formatCommand(cmd string, args ...string) string {
	var sb strings.Builder
	sb.WriteString(cmd)
	for _, a := range args {
		sb.WriteByte(' ')
		sb.WriteString(quote(a))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// quote wraps s in double quotes, escaping backslashes and quotes.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func intArg(n int) string { return strconv.Itoa(n) }

type countingReader struct {
	r io.Reader
	n *atomic.Uint64
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(uint64(n))
	return n, err
}

func cut(line string) (key, value string, ok bool) {
	return strings.Cut(line, ": ")
}
