// CoverView is the desktop viewer for CoverPlan coverings.
//
// Build:
//
//	go build -o coverview ./cmd/coverview
//
// Using fyne-cross for packaged builds:
//
//	fyne-cross windows -arch=amd64
//	fyne-cross darwin  -arch=amd64,arm64
//
// Usage:
//
//	coverview [fields file]
package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	applog "github.com/piwi3910/CoverPlan/internal/log"
	"github.com/piwi3910/CoverPlan/internal/project"
	"github.com/piwi3910/CoverPlan/internal/ui"
)

func main() {
	cfg, err := project.LoadConfig(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := applog.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer applog.Close()

	application := app.NewWithID("com.piwi3910.coverplan")
	application.Settings().SetTheme(ui.NewCoverPlanTheme(cfg.Theme))
	window := application.NewWindow("CoverView")

	appUI := ui.NewApp(window, cfg, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		appUI.LoadFields(os.Args[1])
	}
	window.ShowAndRun()
}
