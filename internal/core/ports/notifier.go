package ports

// Severity classifies a notification for the presenting collaborator.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a user-facing message. The core decides content and
// severity only; rendering belongs to the implementation.
type Notification struct {
	ID       string
	Message  string
	Severity Severity
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(n Notification)
}
