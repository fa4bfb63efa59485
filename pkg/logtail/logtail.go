// Package logtail prints the newest server log lines, optionally following
// the file as it grows.
package logtail

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nxadm/tail"
)

// LogError is raised when the server log cannot be read
type LogError struct {
	Message string
	Err     error
}

func (e *LogError) Error() string {
	return e.Message
}

func (e *LogError) Unwrap() error {
	return e.Err
}

// Tail writes the last n lines of the log file at path to w. With follow
// set it keeps streaming new lines until the tail is interrupted.
func Tail(w io.Writer, path string, n int, follow bool) error {
	if _, err := os.Stat(path); err != nil {
		return &LogError{Message: fmt.Sprintf("log file not found: %s", path), Err: err}
	}

	if err := printLast(w, path, n); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return &LogError{Message: "failed to follow log file", Err: err}
	}
	defer t.Cleanup()

	for line := range t.Lines {
		if line.Err != nil {
			return &LogError{Message: "failed to follow log file", Err: line.Err}
		}
		fmt.Fprintln(w, line.Text)
	}
	return nil
}

func printLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		return &LogError{Message: fmt.Sprintf("failed to open log file: %s", path), Err: err}
	}
	defer file.Close()

	// Ring buffer over the whole file; server logs rotate daily so this
	// stays reasonable.
	buffer := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n > 0 && len(buffer) == n {
			buffer = buffer[1:]
		}
		buffer = append(buffer, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return &LogError{Message: "failed to read log file", Err: err}
	}

	for _, line := range buffer {
		fmt.Fprintln(w, line)
	}
	return nil
}
