// Package present writes the human-readable crash message.
//
// The message has three sections (head, body and footer). Each one either
// uses its built-in wording or a user template filled through the
// placeholder package, and is optionally wrapped in a foreground color.
package present

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"oops/internal/placeholder"
)

// FailedPath replaces the report path when the report could not be stored.
const FailedPath = "<Failed to store file to disk>"

// Placeholder keys available to section templates.
const (
	KeyName       = "name"
	KeyShortName  = "short_name"
	KeyVersion    = "version"
	KeyRepository = "repository"
	KeyFilePath   = "file_path"
)

// Section is the template and color of one part of the message.
// An empty Text selects the built-in wording, a zero Color the section's
// default color.
type Section struct {
	Text  string
	Color color.Attribute
}

// Messages configures the three sections.
type Messages struct {
	Head   Section
	Body   Section
	Footer Section
}

// DefaultMessages returns the built-in wording in red, white and green.
func DefaultMessages() Messages {
	return Messages{
		Head:   Section{Color: color.FgRed},
		Body:   Section{Color: color.FgWhite},
		Footer: Section{Color: color.FgGreen},
	}
}

// Metadata describes the program that crashed.
type Metadata struct {
	Name       string
	ShortName  string
	Version    string
	Repository string
	Messages   Messages
}

// Presenter writes crash messages to Out.
type Presenter struct {
	Out   io.Writer
	Color bool
}

// Render writes head, body and footer in order. An empty filePath means the
// report was not stored. Every section is attempted; the first write error
// is returned.
func (p Presenter) Render(filePath string, meta Metadata) error {
	if filePath == "" {
		filePath = FailedPath
	}
	table := map[string]string{
		KeyName:       meta.Name,
		KeyShortName:  meta.ShortName,
		KeyVersion:    meta.Version,
		KeyRepository: meta.Repository,
		KeyFilePath:   filePath,
	}

	defaults := DefaultMessages()
	sections := []struct {
		section Section
		color   color.Attribute
		builtin func(map[string]string) string
	}{
		{meta.Messages.Head, defaults.Head.Color, defaultHead},
		{meta.Messages.Body, defaults.Body.Color, defaultBody},
		{meta.Messages.Footer, defaults.Footer.Color, defaultFooter},
	}

	var firstErr error
	for _, s := range sections {
		if s.section.Color == 0 {
			s.section.Color = s.color
		}
		if err := p.write(s.section, s.builtin, table); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p Presenter) write(s Section, builtin func(map[string]string) string, table map[string]string) error {
	var text string
	if s.Text == "" {
		text = builtin(table)
	} else {
		text = placeholder.Render(s.Text, table) + "\n"
	}

	if p.Color {
		c := color.New(s.Color)
		c.EnableColor()
		text = c.Sprint(text)
	}

	_, err := io.WriteString(p.Out, text)
	return err
}

func defaultHead(t map[string]string) string {
	return fmt.Sprintf("Well, this is embarrassing.\n"+
		"%s v%s had a problem and crashed. To help us diagnose the "+
		"problem you can send us a crash report.\n\n",
		t[KeyName], t[KeyVersion])
}

func defaultBody(t map[string]string) string {
	return fmt.Sprintf("We have generated a report file at \"%s\". Submit an "+
		"issue or email with the subject of \"%s v%s crash report\" and include the "+
		"report as an attachment at %s/issues.\n",
		t[KeyFilePath], t[KeyShortName], t[KeyVersion], t[KeyRepository])
}

func defaultFooter(map[string]string) string {
	return "\nWe take privacy seriously, and do not perform any " +
		"automated error collection. In order to improve the software, we rely on " +
		"people to submit reports.\nThank you!\n"
}
