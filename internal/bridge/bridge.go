// Package bridge abstracts the host platform the app is embedded in: user
// identity, theme variables, link opening, and the alert primitive used for
// every user-visible success or error message.
package bridge

// User is the host-provided identity of the current session.
type User struct {
	ID       int64
	Username string
}

// Theme carries the host's color variables. Values are CSS-style hex
// strings; zero values mean the host supplied no theme.
type Theme struct {
	Background string
	Text       string
	Hint       string
	Button     string
	ButtonText string
}

// Severity classifies a notification.
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

// Bridge is the host-platform surface the engine talks to. Implementations
// must be safe for concurrent use.
type Bridge interface {
	// Identity returns the current user, reporting false when the host
	// provided none.
	Identity() (User, bool)

	// Theme returns the host's theme variables.
	Theme() Theme

	// OpenLink asks the host to open an external URL.
	OpenLink(url string) error

	// Notify shows a blocking alert to the user.
	Notify(severity Severity, message string)
}
