package mpd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status returns the player status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	attrs, err := c.call(ctx, "status")
	if err != nil {
		return Status{}, err
	}
	return parseStatus(attrs)
}

// CurrentSong returns the current song. ok is false when nothing is
// selected.
func (c *Client) CurrentSong(ctx context.Context) (song Song, ok bool, err error) {
	attrs, err := c.call(ctx, "currentsong")
	if err != nil {
		return Song{}, false, err
	}
	return parseSong(attrs)
}

// Ping checks that the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "ping")
	return err
}

// Play starts playback at the current song.
func (c *Client) Play(ctx context.Context) error {
	_, err := c.call(ctx, "play")
	return err
}

// Pause pauses or resumes playback.
func (c *Client) Pause(ctx context.Context, pause bool) error {
	_, err := c.call(ctx, "pause", boolArg(pause))
	return err
}

// TogglePause pauses when playing, resumes when paused and starts
// playback when stopped.
func (c *Client) TogglePause(ctx context.Context) error {
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	switch st.State {
	case StatePlay:
		return c.Pause(ctx, true)
	case StatePause:
		return c.Pause(ctx, false)
	default:
		return c.Play(ctx)
	}
}

// Next skips to the next song in the queue.
func (c *Client) Next(ctx context.Context) error {
	_, err := c.call(ctx, "next")
	return err
}

// Previous goes back to the previous song in the queue.
func (c *Client) Previous(ctx context.Context) error {
	_, err := c.call(ctx, "previous")
	return err
}

// SeekCur seeks within the current song. When relative is set, d is an
// offset from the current position and may be negative.
func (c *Client) SeekCur(ctx context.Context, d time.Duration, relative bool) error {
	secs := strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
	if relative && d >= 0 {
		secs = "+" + secs
	} else if !relative && d < 0 {
		secs = "0"
	}
	_, err := c.call(ctx, "seekcur", secs)
	return err
}

// SetVolume sets the volume, clamped to 0-100.
func (c *Client) SetVolume(ctx context.Context, volume int) error {
	_, err := c.call(ctx, "setvol", intArg(min(max(volume, 0), 100)))
	return err
}

// Repeat sets repeat mode.
func (c *Client) Repeat(ctx context.Context, on bool) error {
	_, err := c.call(ctx, "repeat", boolArg(on))
	return err
}

// Random sets random mode.
func (c *Client) Random(ctx context.Context, on bool) error {
	_, err := c.call(ctx, "random", boolArg(on))
	return err
}

// Single sets single mode.
func (c *Client) Single(ctx context.Context, on bool) error {
	_, err := c.call(ctx, "single", boolArg(on))
	return err
}

// Consume sets consume mode.
func (c *Client) Consume(ctx context.Context, on bool) error {
	_, err := c.call(ctx, "consume", boolArg(on))
	return err
}

// AlbumArt returns the cover for the song at uri. It asks for a cover file
// in the song's directory first and falls back to a picture embedded in
// the song. ErrNoArt is returned when neither exists.
func (c *Client) AlbumArt(ctx context.Context, uri string) ([]byte, error) {
	data, err := c.readChunked(ctx, "albumart", uri)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !IsAck(err, AckNoExist) {
		return nil, err
	}

	data, err = c.readChunked(ctx, "readpicture", uri)
	if err != nil {
		if IsAck(err, AckNoExist) {
			return nil, ErrNoArt
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoArt
	}
	return data, nil
}

// MaxArtSize bounds the cover size AlbumArt accepts.
const MaxArtSize = 8 << 20

// readChunked fetches a binary payload with repeated offset requests until
// size bytes have arrived.
func (c *Client) readChunked(ctx context.Context, cmd, uri string) ([]byte, error) {
	var data []byte
	total := -1
	for total < 0 || len(data) < total {
		var size, chunk int
		var payload []byte
		err := c.exchange(ctx, cmd, []string{uri, intArg(len(data))}, func() error {
			size, chunk = -1, 0
			for {
				line, err := c.readLine()
				if err != nil {
					return err
				}
				if line == "OK" {
					return nil
				}
				if rest, ok := strings.CutPrefix(line, "ACK "); ok {
					ack, err := parseAck(rest)
					if err != nil {
						return err
					}
					return ack
				}
				key, value, ok := cut(line)
				if !ok {
					return fmt.Errorf("mpd: malformed line %q", line)
				}
				switch key {
				case "size":
					size, err = strconv.Atoi(value)
				case "binary":
					chunk, err = strconv.Atoi(value)
					if err == nil && (chunk < 0 || chunk > MaxArtSize) {
						err = fmt.Errorf("%w: %d byte chunk", ErrArtTooLarge, chunk)
					}
					if err == nil {
						payload, err = c.readBinary(chunk)
					}
				}
				if err != nil {
					return err
				}
			}
		})
		if err != nil {
			return nil, err
		}
		if size < 0 {
			// readpicture answers a bare OK when there is no picture.
			return nil, nil
		}
		if size > MaxArtSize {
			return nil, fmt.Errorf("%w: %s declared %d bytes", ErrArtTooLarge, cmd, size)
		}
		if chunk == 0 {
			return nil, fmt.Errorf("mpd: %s returned an empty chunk at offset %d of %d", cmd, len(data), size)
		}
		if total < 0 {
			total = size
			data = make([]byte, 0, size)
		}
		data = append(data, payload...)
	}
	return data, nil
}
