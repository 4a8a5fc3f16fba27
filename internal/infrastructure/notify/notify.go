// Package notify provides the notification collaborator implementation used
// by the CLI: messages are rendered through the structured logger. The core
// only decides content and severity; this package decides how they look.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/ports"
)

// LogNotifier renders notifications as log lines, error severity at error
// level and everything else at info.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(note ports.Notification) {
	ev := n.log.Info()
	if note.Severity == ports.SeverityError {
		ev = n.log.Error()
	}
	ev.Str("notification_id", note.ID).Msg(note.Message)
}
