package command

import (
	"chardiff/lib/command/print_diff"
	"chardiff/lib/config"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// NewStyle builds the rendering style from the configured highlight colors.
func NewStyle(settings config.Settings, useColor bool) (print_diff.Style, error) {
	style := print_diff.DefaultStyle(useColor)

	if settings.InsertColor != "" {
		attr, err := print_diff.ParseColor(settings.InsertColor)
		if err != nil {
			return style, errors.Wrap(err, "insertColor")
		}
		style.Insert = []color.Attribute{attr}
	}
	if settings.DeleteColor != "" {
		attr, err := print_diff.ParseColor(settings.DeleteColor)
		if err != nil {
			return style, errors.Wrap(err, "deleteColor")
		}
		style.Delete = []color.Attribute{attr}
	}

	return style, nil
}

// UseColor decides whether output is colored for a --color mode. Auto colors
// only a terminal.
func UseColor(mode string, isTTY bool) (bool, error) {
	switch mode {
	case "", config.ColorAuto:
		return isTTY, nil
	case config.ColorAlways:
		return true, nil
	case config.ColorNever:
		return false, nil
	}
	return false, errors.Errorf("invalid color mode %q (want auto, always or never)", mode)
}
