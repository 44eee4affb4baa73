package server

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
)

// ConsoleMessage is one line of render output shown in the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Level     string    `json:"level"` // "info" or "warning"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WebLogger sends the log lines of one render to its SSE console and mirrors
// them to the server log, tagged with a short form of the render id.
type WebLogger struct {
	renderID string
	console  chan<- ConsoleMessage
	server   *log.Logger
}

// NewWebLogger creates a logger for one render. A nil console only writes the server log.
func NewWebLogger(renderID string, console chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
		server:   log.New(os.Stdout, "["+shortID(renderID)+"] ", log.LstdFlags),
	}
}

// Printf implements core.Logger. Lines are dropped from the console when it is full.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.server.Print(message)

	if wl.console == nil {
		return
	}
	select {
	case wl.console <- ConsoleMessage{
		RenderID:  wl.renderID,
		Level:     levelOf(message),
		Message:   message,
		Timestamp: time.Now(),
	}:
	default:
	}
}

func levelOf(message string) string {
	if strings.HasPrefix(message, "Warning:") {
		return "warning"
	}
	return "info"
}

// shortID is the first block of a UUID, enough to tell concurrent renders apart
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
