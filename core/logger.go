package core

// Logger is the application-wide logging contract.
// Implementations may forward to an error reporting service; args may carry
// an error, extra context maps and the acting user's email.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
