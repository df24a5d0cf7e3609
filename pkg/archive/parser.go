package archive

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/davidthor/evlog/pkg/logs"
)

// entryStart matches the first line of an archive entry:
// "<YYYY-MM-DD HH:MM:SS.ffffff>\t<source>\t<message>".
var entryStart = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+)\t+(\S.*?)\t+(.*)$`)

// accumulator holds the entry being reassembled while scanning a file.
type accumulator struct {
	entries []logs.Entry
	current *logs.Entry
	message strings.Builder
}

// start flushes the open entry and begins a new one.
func (a *accumulator) start(timestamp, source, message string) {
	a.flush()
	a.current = &logs.Entry{
		Timestamp: timestamp,
		Source:    source,
		Severity:  logs.ArchiveSeverity,
	}
	a.message.Reset()
	a.message.WriteString(message)
}

// continueWith appends a continuation line to the open entry. Lines seen
// before the first entry have nothing to attach to and are dropped.
func (a *accumulator) continueWith(line string) {
	if a.current == nil {
		return
	}
	a.message.WriteByte('\n')
	a.message.WriteString(line)
}

func (a *accumulator) flush() {
	if a.current == nil {
		return
	}
	a.current.Message = a.message.String()
	a.entries = append(a.entries, *a.current)
	a.current = nil
}

func (a *accumulator) line(line string) {
	if m := entryStart.FindStringSubmatch(line); m != nil {
		a.start(m[1], m[2], m[3])
		return
	}
	a.continueWith(line)
}

// Parse reads one day's archive text and returns its entries oldest-first.
// Invalid UTF-8 is replaced with U+FFFD and a leading byte order mark is
// dropped.
func Parse(r io.Reader) ([]logs.Entry, error) {
	br := bufio.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))

	acc := &accumulator{}
	for {
		raw, err := br.ReadString('\n')
		if len(raw) > 0 {
			acc.line(trimTerminator(raw))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	acc.flush()

	if acc.entries == nil {
		return []logs.Entry{}, nil
	}
	return acc.entries, nil
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
