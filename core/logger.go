package core

// Logger is any leveled logger that can report to an error tracker.
// Implementations may inspect args for a user.User to attach the person
// to the report.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
