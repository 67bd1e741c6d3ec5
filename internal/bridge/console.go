package bridge

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console is the terminal host bridge used by the CLI front end. Identity
// comes from configuration; notifications print to stderr; links print
// rather than launch, since a terminal has no embedded browser to hand off
// to.
type Console struct {
	User    User
	HasUser bool
	Out     io.Writer // defaults to os.Stderr
}

var _ Bridge = (*Console)(nil)

// Identity returns the configured user.
func (c *Console) Identity() (User, bool) {
	return c.User, c.HasUser
}

// Theme returns the default light theme; a terminal host has no theme
// variables to forward.
func (c *Console) Theme() Theme {
	return Theme{
		Background: "#ffffff",
		Text:       "#000000",
		Hint:       "#999999",
		Button:     "#2481cc",
		ButtonText: "#ffffff",
	}
}

// OpenLink prints the URL for the user to follow.
func (c *Console) OpenLink(url string) error {
	_, err := fmt.Fprintf(c.out(), "→ %s\n", url)
	return err
}

// Notify prints a colorized alert line.
func (c *Console) Notify(severity Severity, message string) {
	var prefix string
	switch severity {
	case Success:
		prefix = color.GreenString("✓")
	case Error:
		prefix = color.RedString("✗")
	default:
		prefix = color.CyanString("•")
	}
	fmt.Fprintf(c.out(), "%s %s\n", prefix, message)
}

func (c *Console) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stderr
}
