package datagrid

import (
	"time"

	"github.com/google/uuid"
)

// NoticeLevel grades a notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a fire-and-forget message for the user.
type Notice struct {
	ID      string
	Level   NoticeLevel
	Message string
	Err     error
	At      time.Time
}

// Notifier receives notices. The table never waits on it.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

func newNotice(level NoticeLevel, msg string, err error) Notice {
	return Notice{
		ID:      uuid.NewString(),
		Level:   level,
		Message: msg,
		Err:     err,
		At:      time.Now(),
	}
}
