package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}

func (a *App) printPrefs() {
	p := a.prefs.Get()
	printlnFn(fmt.Sprintf("dark  %t", p.DarkMode))
	printlnFn(fmt.Sprintf("font  %s", map[bool]string{false: "normal", true: "large"}[p.LargeFont]))
	for i, c := range models.CardColors {
		mark := " "
		if c == p.CardColor {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("color %s %d #%08X", mark, i+1, c))
	}
}

// Prefs shows the preferences, or sets one:
//
//	prefs dark on|off
//	prefs font on|off
//	prefs color <n>
func (a *App) Prefs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printPrefs()
		return nil
	}
	if len(args) != 2 {
		printlnFn("Usage: prefs [dark on|off | font on|off | color <n>]")
		return nil
	}

	var err error
	switch args[0] {
	case "dark":
		var on bool
		if on, err = parseSwitch(args[1]); err == nil {
			err = a.prefs.SetDarkMode(ctx, on)
		}
	case "font":
		var on bool
		if on, err = parseSwitch(args[1]); err == nil {
			err = a.prefs.SetLargeFont(ctx, on)
		}
	case "color":
		var n int
		if n, err = strconv.Atoi(args[1]); err == nil {
			if n < 1 || n > len(models.CardColors) {
				err = fmt.Errorf("color must be 1..%d", len(models.CardColors))
			} else {
				err = a.prefs.SetCardColor(ctx, models.CardColors[n-1])
			}
		}
	default:
		err = fmt.Errorf("unknown preference %q", args[0])
	}

	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.printPrefs()
	return nil
}
