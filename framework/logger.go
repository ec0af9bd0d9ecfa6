package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger receives diagnostic output: the fixture's print and printStatus calls, function tracing, and
// harness notes such as panic stacks. It never receives section reports.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger discards everything.
func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the diagnostic output of one fixture run, in the order it was written.
type CapturedOutput []CapturedMessage

// CapturingLogger accumulates the diagnostic output of one fixture (print, printStatus and the
// like) so that it can be shown only when it is useful.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Dump writes each message with its timestamp. Continuation lines of a multi-line message, such as
// a printed object, are indented under the first line.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		stamp := "[" + m.Time.Format(timestampFormat) + "] "
		for i, line := range strings.Split(m.Message, "\n") {
			if i > 0 {
				stamp = strings.Repeat(" ", len(stamp))
			}
			fmt.Fprintf(dest, "%s%s%s\n", prefix, stamp, line)
		}
	}
}

// teeLogger sends each message to the fixture's captured output and to the main debug logger.
type teeLogger struct {
	captured *CapturingLogger
	main     Logger
	prefix   string
}

func (t teeLogger) Printf(message string, args ...interface{}) {
	t.captured.Printf(message, args...)
	t.main.Printf(t.prefix+message, args...)
}
