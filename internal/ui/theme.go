// Package ui provides the CoverPlan viewer UI components.
package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CoverPlanTheme wraps the default Fyne theme with compact sizing so large
// fields leave room for the covering canvas.
type CoverPlanTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewCoverPlanTheme creates a theme for the named variant: "light", "dark",
// or anything else to follow the system setting.
func NewCoverPlanTheme(variant string) *CoverPlanTheme {
	t := &CoverPlanTheme{base: theme.DefaultTheme()}
	switch strings.ToLower(variant) {
	case "light":
		t.variant = theme.VariantLight
	case "dark":
		t.variant = theme.VariantDark
	default:
		t.system = true
	}
	return t
}

func (t *CoverPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.system {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *CoverPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *CoverPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *CoverPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 5
	default:
		return t.base.Size(name)
	}
}
