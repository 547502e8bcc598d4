package logger

// Color constants for log prefixes.
const (
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorPurple  = "\033[95m"
	ColorReset   = "\033[0m"
)

const (
	levelInfoColor  = ColorGreen
	levelWarnColor  = ColorYellow
	levelErrorColor = ColorRed
)
