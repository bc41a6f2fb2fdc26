// Package input feeds post requests into the scheduler from external
// sources. The stdin reader accepts one request per line:
//
//	[!]kind[:duration] text
//
// kind is one of activity, finish, error (default activity); duration is a
// Go duration or integer milliseconds; a leading "!" posts immediately.
// Examples:
//
//	compiling
//	activity: building pkg/foo
//	finish:2s build succeeded
//	!error:5s build failed
package input

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/statusstrip/statusstrip/internal/model"
)

// Poster is the scheduler surface the reader posts into.
type Poster interface {
	Post(text string, kind model.Kind, duration time.Duration, animated bool)
	PostImmediate(text string, kind model.Kind, duration time.Duration, animated, canRemoveImmediate bool)
}

// Request is one parsed post request.
type Request struct {
	Text      string
	Kind      model.Kind
	Duration  time.Duration
	Immediate bool
}

// StdinReader reads post requests line by line and forwards them.
type StdinReader struct {
	reader io.Reader
	poster Poster
	logger *slog.Logger
}

// NewStdinReader creates a reader feeding the given poster.
func NewStdinReader(r io.Reader, poster Poster, logger *slog.Logger) *StdinReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StdinReader{reader: r, poster: poster, logger: logger}
}

// Run reads until EOF or a read error. Malformed lines are logged and
// skipped.
func (r *StdinReader) Run() error {
	scanner := bufio.NewScanner(r.reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		req, ok := ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				r.logger.Warn("skipping malformed input line", "line", line)
			}
			continue
		}

		if req.Immediate {
			r.poster.PostImmediate(req.Text, req.Kind, req.Duration, true, false)
		} else {
			r.poster.Post(req.Text, req.Kind, req.Duration, true)
		}
	}
	return scanner.Err()
}

// ParseLine parses one input line. Returns false for blank or malformed
// lines.
func ParseLine(line string) (Request, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Request{}, false
	}

	req := Request{Kind: model.KindActivity}

	if strings.HasPrefix(line, "!") {
		req.Immediate = true
		line = strings.TrimSpace(line[1:])
	}

	// A prefix is only a directive when it parses as a known kind;
	// otherwise the colon belongs to the message text.
	if head, rest, found := strings.Cut(line, ":"); found && !strings.ContainsAny(head, " \t") {
		if kind, ok := parseKind(head); ok {
			if dur, text, hasDuration := cutDuration(rest); hasDuration {
				req.Duration = dur
				rest = text
			}
			req.Kind = kind
			line = strings.TrimSpace(rest)
		}
	}

	if line == "" {
		return Request{}, false
	}
	req.Text = line
	return req, true
}

// cutDuration splits "2s text" style remainders: a leading token that parses
// as a duration is consumed, everything else is message text.
func cutDuration(rest string) (dur time.Duration, text string, ok bool) {
	rest = strings.TrimSpace(rest)
	head, tail, found := strings.Cut(rest, " ")
	if !found {
		return 0, rest, false
	}
	dur, ok = parseDuration(head)
	if !ok {
		return 0, rest, false
	}
	return dur, tail, true
}

func parseKind(s string) (model.Kind, bool) {
	switch strings.ToLower(s) {
	case "activity":
		return model.KindActivity, true
	case "finish":
		return model.KindFinish, true
	case "error":
		return model.KindError, true
	}
	return model.KindActivity, false
}

func parseDuration(s string) (time.Duration, bool) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
