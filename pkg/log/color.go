package log

import (
	"strings"

	"github.com/gookit/color"
)

type Color struct {
	Open     func(a ...any) string
	Closed   func(a ...any) string
	Filtered func(a ...any) string
	Info     func(a ...any) string
	Time     func(a ...any) string
	Title    func(a ...any) string
	Banner   func(a ...any) string
	Bold     func(a ...any) string
	Red      func(a ...any) string
	Green    func(a ...any) string
}

var LogColor *Color

func init() {
	if LogColor == nil {
		LogColor = NewColor()
	}
}

func NewColor() *Color {
	return &Color{
		Open:     color.FgLightGreen.Render,
		Closed:   color.FgLightRed.Render,
		Filtered: color.FgYellow.Render,
		Info:     color.HiCyan.Render,
		Time:     color.Gray.Render,
		Title:    color.FgLightBlue.Render,
		Banner:   color.FgLightGreen.Render,
		Bold:     color.Bold.Render,
		Red:      color.FgLightRed.Render,
		Green:    color.FgLightGreen.Render,
	}
}

// GetColor renders log in the color conventional for a port state.
func (c *Color) GetColor(state string, log string) string {
	switch strings.ToLower(state) {
	case "open":
		return c.Open(log)
	case "closed":
		return c.Closed(log)
	case "filtered":
		return c.Filtered(log)
	case "time":
		return c.Time(log)
	default:
		return c.Info(log)
	}
}
