package home

import (
	"strings"

	"allocation-wallet-tui/config"
	"allocation-wallet-tui/styles"

	"github.com/charmbracelet/huh"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form
func CreateForm() *huh.Form {
	TempSelection = ""

	options := make([]huh.Option[string], 0, len(config.Pages))
	for _, p := range config.Pages {
		options = append(options, huh.NewOption(p.String(), p.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(options...).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Selected maps the menu selection back to its page
func Selected() (config.Page, bool) {
	for _, p := range config.Pages {
		if p.String() == TempSelection {
			return p, true
		}
	}
	return config.PageHome, false
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("l") + " logger",
		styles.Key("q") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
