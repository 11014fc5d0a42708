package export

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Kind separates success from failure notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notification is a user-visible title and description pair.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Description: description}
}

// Failure builds a failure notification.
func Failure(title, description string) Notification {
	return Notification{Kind: KindFailure, Title: title, Description: description}
}

// Notifications exactly as users see them.
const (
	SuccessTitle       = "Download Complete"
	successDescription = "Your presentation with %s theme has been downloaded successfully."
	FailureTitle       = "Download Failed"
	FailureDescription = "Failed to download presentation. Please try again."
)

func successFor(themeName string) Notification {
	return Success(SuccessTitle, fmt.Sprintf(successDescription, themeName))
}

func failure() Notification { return Failure(FailureTitle, FailureDescription) }

// Notifier surfaces notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to a logger, failures at warn level.
type LogNotifier struct {
	Logger *log.Logger
}

// Notify implements [Notifier].
func (l LogNotifier) Notify(_ context.Context, n Notification) {
	if l.Logger == nil {
		return
	}
	if n.Kind == KindFailure {
		l.Logger.Warn(n.Title, "detail", n.Description)
		return
	}
	l.Logger.Info(n.Title, "detail", n.Description)
}
