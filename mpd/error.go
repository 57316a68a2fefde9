package mpd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrClosed is returned by calls on a closed or broken client.
	ErrClosed = errors.New("mpd: connection closed")
	// ErrNoArt is returned by AlbumArt when the song has no cover.
	ErrNoArt = errors.New("mpd: no album art")
	// ErrArtTooLarge is returned by AlbumArt when the cover exceeds MaxArtSize.
	ErrArtTooLarge = errors.New("mpd: album art too large")
)

// ACK codes sent by the server.
const (
	AckNotList       = 1
	AckArg           = 2
	AckPassword      = 3
	AckPermission    = 4
	AckUnknown       = 5
	AckNoExist       = 50
	AckPlaylistMax   = 51
	AckSystem        = 52
	AckPlaylistLoad  = 53
	AckUpdateAlready = 54
	AckPlayerSync    = 55
	AckExist         = 56
)

// Error is a failure reported by the server in an ACK line:
//
//	ACK [code@index] {command} message
type Error struct {
	Code    int
	Index   int
	Command string
	Message string
}

func (e *Error) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("mpd: %s (code %d)", e.Message, e.Code)
	}
	return fmt.Sprintf("mpd: %s: %s (code %d)", e.Command, e.Message, e.Code)
}

// IsAck reports whether err is a server error with the given code.
func IsAck(err error, code int) bool {
	var me *Error
	return errors.As(err, &me) && me.Code == code
}

// parseAck parses the text after "ACK ".
func parseAck(line string) (*Error, error) {
	rest, ok := strings.CutPrefix(line, "[")
	if !ok {
		return nil, fmt.Errorf("mpd: malformed ACK %q", line)
	}
	codes, rest, ok := strings.Cut(rest, "]")
	if !ok {
		return nil, fmt.Errorf("mpd: malformed ACK %q", line)
	}
	codeStr, indexStr, ok := strings.Cut(codes, "@")
	if !ok {
		return nil, fmt.Errorf("mpd: malformed ACK %q", line)
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return nil, fmt.Errorf("mpd: malformed ACK code %q", codeStr)
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return nil, fmt.Errorf("mpd: malformed ACK index %q", indexStr)
	}

	e := &Error{Code: code, Index: index}
	rest = strings.TrimSpace(rest)
	if cmd, ok := strings.CutPrefix(rest, "{"); ok {
		if name, msg, ok := strings.Cut(cmd, "}"); ok {
			e.Command = name
			rest = strings.TrimSpace(msg)
		}
	}
	e.Message = rest
	return e, nil
}
