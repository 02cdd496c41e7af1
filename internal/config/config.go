// Package config loads crash reporter settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"oops/internal/present"
	"oops/internal/report"
)

// File mirrors the TOML layout:
//
//	name = "The justjs runtime"
//	short_name = "justjs"
//	version = "0.1.0"
//	repository = "https://github.com/exact-rs/just"
//	format = "toml"
//	color = "auto"
//
//	[messages.head]
//	text = "%(name) crashed"
//	color = "red"
type File struct {
	Name       string       `toml:"name"`
	ShortName  string       `toml:"short_name"`
	Version    string       `toml:"version"`
	Repository string       `toml:"repository"`
	Format     string       `toml:"format"`
	Color      string       `toml:"color"`
	Dir        string       `toml:"dir"`
	Messages   messagesFile `toml:"messages"`
}

type messagesFile struct {
	Head   sectionFile `toml:"head"`
	Body   sectionFile `toml:"body"`
	Footer sectionFile `toml:"footer"`
}

type sectionFile struct {
	Text  string `toml:"text"`
	Color string `toml:"color"`
}

// Load reads and validates a config file.
func Load(path string) (File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("name") || strings.TrimSpace(f.Name) == "" {
		return File{}, fmt.Errorf("%s: missing name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if _, err := f.ReportFormat(); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := ParseColorMode(f.Color); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := f.Metadata(); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Metadata converts the file into presenter metadata. A missing short name
// falls back to the name; missing section colors keep their defaults.
func (f File) Metadata() (present.Metadata, error) {
	msgs := present.DefaultMessages()
	sections := []struct {
		src *sectionFile
		dst *present.Section
	}{
		{&f.Messages.Head, &msgs.Head},
		{&f.Messages.Body, &msgs.Body},
		{&f.Messages.Footer, &msgs.Footer},
	}
	for _, s := range sections {
		s.dst.Text = s.src.Text
		if s.src.Color == "" {
			continue
		}
		attr, err := ParseColor(s.src.Color)
		if err != nil {
			return present.Metadata{}, err
		}
		s.dst.Color = attr
	}

	short := f.ShortName
	if short == "" {
		short = f.Name
	}
	return present.Metadata{
		Name:       f.Name,
		ShortName:  short,
		Version:    f.Version,
		Repository: f.Repository,
		Messages:   msgs,
	}, nil
}

// ReportFormat returns the configured report encoding.
func (f File) ReportFormat() (report.Format, error) {
	return report.ParseFormat(f.Format)
}

var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,

	"bright-black":   color.FgHiBlack,
	"bright-red":     color.FgHiRed,
	"bright-green":   color.FgHiGreen,
	"bright-yellow":  color.FgHiYellow,
	"bright-blue":    color.FgHiBlue,
	"bright-magenta": color.FgHiMagenta,
	"bright-cyan":    color.FgHiCyan,
	"bright-white":   color.FgHiWhite,
}

// ParseColor converts a color name ("red", "bright-blue", ...) to a
// foreground attribute.
func ParseColor(name string) (color.Attribute, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if attr, ok := colorNames[key]; ok {
		return attr, nil
	}
	return 0, fmt.Errorf("invalid color %q", name)
}

// ColorMode selects when messages are colored.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode converts a string to ColorMode. An empty string is auto.
func ParseColorMode(value string) (ColorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ColorAuto, nil
	case "on":
		return ColorOn, nil
	case "off":
		return ColorOff, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (expected auto|on|off)", value)
	}
}

// Enabled resolves the mode for output written to f. Auto colors terminals
// unless NO_COLOR is set.
func (m ColorMode) Enabled(f *os.File) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}
