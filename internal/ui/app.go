package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CoverPlan/internal/engine"
	"github.com/piwi3910/CoverPlan/internal/export"
	fieldimporter "github.com/piwi3910/CoverPlan/internal/importer"
	"github.com/piwi3910/CoverPlan/internal/model"
	"github.com/piwi3910/CoverPlan/internal/project"
	"github.com/piwi3910/CoverPlan/internal/ui/widgets"
)

// App holds all viewer state and UI references.
type App struct {
	window  fyne.Window
	config  model.AppConfig
	logger  *slog.Logger
	history *History

	source   string
	problems []model.Problem
	batch    *model.Batch
	tabs     *container.AppTabs

	fieldsContainer  *fyne.Container
	resultContainer  *fyne.Container
	compareContainer *fyne.Container
}

// NewApp creates the viewer. A nil logger falls back to slog.Default.
func NewApp(window fyne.Window, config model.AppConfig, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		window:  window,
		config:  config,
		logger:  logger,
		history: NewHistory(),
	}
	a.record("Start")
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	exportItems := make([]*fyne.MenuItem, 0, len(export.Formats))
	for _, format := range export.Formats {
		exportItems = append(exportItems, fyne.NewMenuItem(strings.ToUpper(format)+"...", func() {
			a.exportBatch(format)
		}))
	}
	exportItem := fyne.NewMenuItem("Export", nil)
	exportItem.ChildMenu = fyne.NewMenu("", exportItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Fields...", func() {
			a.openFields()
		}),
		fyne.NewMenuItem("Open Saved Coverings...", func() {
			a.openBatch()
		}),
		fyne.NewMenuItem("Save Coverings...", func() {
			a.saveBatch()
		}),
		fyne.NewMenuItemSeparator(),
		exportItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("History...", func() {
			dialog.ShowInformation("History", strings.Join(a.history.Timeline(), "\n"), a.window)
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Optimize", func() {
			a.runOptimize()
		}),
		fyne.NewMenuItem("Compare Bounds", func() {
			a.runCompare()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation(
				"About CoverPlan",
				"CoverPlan covers the marked cells of a grid with\n"+
					"labeled rectangles at minimum total cost.\n\n"+
					"Each rectangle costs 10 plus its area.",
				a.window,
			)
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Fields", a.buildFieldsPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Coverings", a.buildResultsPanel()),
		container.NewTabItem("Compare", a.buildComparePanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return a.tabs
}

// ─── Fields Panel ──────────────────────────────────────────

func (a *App) buildFieldsPanel() fyne.CanvasObject {
	a.fieldsContainer = container.NewVBox()
	a.refreshFieldsList()

	openBtn := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), a.openFields)
	optimizeBtn := widget.NewButtonWithIcon("Optimize", theme.MediaPlayIcon(), a.runOptimize)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Fields", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			openBtn,
			optimizeBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.fieldsContainer),
	)
}

func (a *App) refreshFieldsList() {
	a.fieldsContainer.RemoveAll()
	if len(a.problems) == 0 {
		a.fieldsContainer.Add(widget.NewLabel("No fields loaded. Use File > Open Fields."))
		a.fieldsContainer.Refresh()
		return
	}

	header := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Field", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Marked", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Max Rectangles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	a.fieldsContainer.Add(header)

	for i := range a.problems {
		p := &a.problems[i]
		bound := widget.NewEntry()
		bound.SetText(strconv.Itoa(p.MaxRectangles))
		bound.Validator = validateBound
		bound.OnChanged = func(text string) {
			if v, err := parseBound(text); err == nil {
				p.MaxRectangles = v
			}
		}
		a.fieldsContainer.Add(container.NewGridWithColumns(4,
			widget.NewLabel(strconv.Itoa(p.Index)),
			widget.NewLabel(fmt.Sprintf("%d x %d", p.Field.Rows(), p.Field.Cols())),
			widget.NewLabel(strconv.Itoa(p.Field.MarkedCount())),
			bound,
		))
	}
	a.fieldsContainer.Refresh()
}

// parseBound reads a rectangle bound; 0 means unbounded.
func parseBound(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("bound must be a whole number")
	}
	if v < 0 {
		return 0, fmt.Errorf("bound must not be negative")
	}
	return v, nil
}

func validateBound(text string) error {
	_, err := parseBound(text)
	return err
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	c := &a.config

	boundEntry := widget.NewEntry()
	boundEntry.SetText(strconv.Itoa(c.DefaultMaxRectangles))
	boundEntry.Validator = validateBound
	boundEntry.OnChanged = func(text string) {
		if v, err := parseBound(text); err == nil {
			c.DefaultMaxRectangles = v
		}
	}

	charEntry := func(val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) {
			if len(text) == 1 {
				*val = text
			}
		}
		return e
	}

	appendCheck := widget.NewCheck("", func(b bool) { c.AppendOutput = b })
	appendCheck.Checked = c.AppendOutput

	optimizerSection := widget.NewCard("Optimizer", "", container.NewGridWithColumns(2,
		widget.NewLabel("Default Max Rectangles (0 = unbounded)"), boundEntry,
		widget.NewLabel("Empty Cell Marker"), charEntry(&c.EmptyMarker),
		widget.NewLabel("Fallback Label"), charEntry(&c.FallbackLabel),
	))
	outputSection := widget.NewCard("Output", "", container.NewGridWithColumns(2,
		widget.NewLabel("Append Text Report"), appendCheck,
	))

	saveBtn := widget.NewButtonWithIcon("Save as Defaults", theme.DocumentSaveIcon(), func() {
		path := project.DefaultConfigPath()
		if err := project.SaveConfig(path, a.config); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Settings Saved", fmt.Sprintf("Defaults written to %s", path), a.window)
	})

	return container.NewVScroll(container.NewVBox(optimizerSection, outputSection, saveBtn))
}

// ─── Results Panels ────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(widgets.RenderCoverResults(nil))
	return a.resultContainer
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderCoverResults(a.batch))
	a.resultContainer.Refresh()
}

func (a *App) buildComparePanel() fyne.CanvasObject {
	a.compareContainer = container.NewStack(
		widget.NewLabel("Use Tools > Compare Bounds to try alternative rectangle bounds."),
	)
	return a.compareContainer
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) optimizer() *engine.Optimizer {
	settings := model.DefaultSettings()
	a.config.ApplyToSettings(&settings)
	opt := engine.New(settings)
	opt.Logger = a.logger
	return opt
}

// record adds the current state to the history after a change.
func (a *App) record(label string) {
	a.history.Record(MakeSnapshot(label, a.source, a.problems, a.batch))
}

// restore shows a recorded state. It works on a copy since bound edits
// write into the problem list.
func (a *App) restore(s Snapshot) {
	s = MakeSnapshot(s.Label, s.Source, s.Problems, s.Batch)
	a.source = s.Source
	a.problems = s.Problems
	a.batch = s.Batch
	a.refreshFieldsList()
	a.refreshResults()
	a.logger.Debug("history restored", "state", s.Label, "batch", s.BatchID)
}

func (a *App) undo() {
	if s, ok := a.history.Undo(); ok {
		a.restore(s)
	}
}

func (a *App) redo() {
	if s, ok := a.history.Redo(); ok {
		a.restore(s)
	}
}

func (a *App) runOptimize() {
	if len(a.problems) == 0 {
		dialog.ShowInformation("Nothing to optimize", "Open a field file first.", a.window)
		return
	}

	batch := a.optimizer().OptimizeAll(a.source, a.problems)
	a.batch = &batch
	a.record("Optimize")
	a.refreshResults()
	a.tabs.SelectIndex(2)
}

func (a *App) runCompare() {
	if len(a.problems) == 0 {
		dialog.ShowInformation("Nothing to compare", "Open a field file first.", a.window)
		return
	}

	opt := a.optimizer()
	var items []fyne.CanvasObject
	for _, p := range a.problems {
		items = append(items, widget.NewLabelWithStyle(
			fmt.Sprintf("Field %d (%d x %d)", p.Index, p.Field.Rows(), p.Field.Cols()),
			fyne.TextAlignLeading, fyne.TextStyle{Bold: true},
		))
		grid := container.NewGridWithColumns(4,
			widget.NewLabel("Scenario"), widget.NewLabel("Rectangles"),
			widget.NewLabel("Cost"), widget.NewLabel("Delta"),
		)
		for _, cr := range engine.CompareBounds(opt, p) {
			grid.Add(widget.NewLabel(cr.Scenario.Name))
			grid.Add(widget.NewLabel(strconv.Itoa(cr.Cardinality)))
			grid.Add(widget.NewLabel(strconv.Itoa(cr.Cost)))
			grid.Add(widget.NewLabel(fmt.Sprintf("%+d", cr.CostDelta)))
		}
		items = append(items, grid, widget.NewSeparator())
	}

	a.compareContainer.RemoveAll()
	a.compareContainer.Add(container.NewVScroll(container.NewVBox(items...)))
	a.compareContainer.Refresh()
	a.tabs.SelectIndex(3)
}

// LoadFields imports a field file and shows its fields. Previous coverings
// are discarded.
func (a *App) LoadFields(path string) {
	result := fieldimporter.Import(path, fieldimporter.Options{
		DefaultMaxRectangles: a.config.DefaultMaxRectangles,
	})
	a.handleImportResult(path, result)
}

func (a *App) openFields() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.LoadFields(reader.URI().Path())
	}, a.window)
}

func (a *App) handleImportResult(path string, result fieldimporter.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
		return
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import warning", "path", path, "warning", w)
	}

	a.source = filepath.Base(path)
	a.problems = result.Problems
	a.batch = nil
	a.record("Open Fields")
	a.refreshFieldsList()
	a.refreshResults()
	a.tabs.SelectIndex(0)
}

func (a *App) openBatch() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		batch, err := project.LoadBatch(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.source = batch.Source
		a.problems = nil
		a.batch = &batch
		a.record("Open Coverings")
		a.refreshFieldsList()
		a.refreshResults()
		a.tabs.SelectIndex(2)
	}, a.window)
}

func (a *App) saveBatch() {
	if a.batch == nil {
		dialog.ShowInformation("No coverings", "Run the optimizer first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := project.SaveBatch(writer.URI().Path(), *a.batch); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName("coverings" + project.BatchExt)
	d.Show()
}

func (a *App) exportBatch(format string) {
	if a.batch == nil {
		dialog.ShowInformation("No coverings", "Run the optimizer first before exporting.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// Exporters write by path
		writer.Close()
		files, err := export.Write(format, path, *a.batch, export.Options{AppendText: a.config.AppendOutput})
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Saved %s", strings.Join(files, ", ")), a.window)
	}, a.window)
	d.SetFileName(filepath.Base(export.OutputPath("optimal_covering.txt", format)))
	d.Show()
}
