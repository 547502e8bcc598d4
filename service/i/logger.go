package i

// Logger is the leveled logger the service components write to.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}
