package ui

import (
	"log/slog"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/engine"
)

// ShowYearsWindow displays every Tết date of the table with the days left.
// It implements a singleton pattern: if the window is already open, it requests focus.
// It uses native Fyne table headers for sorting interaction.
func (app *GoTetApp) ShowYearsWindow() {
	if app.yearsWindow != nil {
		app.yearsWindow.RequestFocus()
		return
	}

	app.yearsWindow = app.App.NewWindow(app.GetMsg(config.TKeyWinYears))
	app.yearsWindow.Resize(fyne.NewSize(config.YearsWinWidth, config.YearsWinHeight))

	// Local copy for sorting/display; the worker replaces app.Entries concurrently.
	app.EntriesMut.RLock()
	rows := slices.Clone(app.Entries)
	app.EntriesMut.RUnlock()

	slog.Info(config.LogMsgOpenYears,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(rows))

	currentSortCol := config.ColIDYear
	sortAsc := true

	var refreshTable func()

	table := widget.NewTable(
		func() (int, int) {
			return len(rows), 3
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row >= len(rows) {
				return
			}
			o.(*widget.Label).SetText(app.formatCell(rows[id.Row], id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		var titleKey string
		switch id.Col {
		case config.ColIDYear:
			titleKey = config.TKeyColYear
		case config.ColIDDate:
			titleKey = config.TKeyColDate
		case config.ColIDDays:
			titleKey = config.TKeyColDays
		}

		text := app.GetMsg(titleKey)
		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			refreshTable()
		}
	}

	table.SetColumnWidth(config.ColIDYear, config.ColWidthYear)
	table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	table.SetColumnWidth(config.ColIDDays, config.ColWidthDays)

	refreshTable = func() {
		sortEntries(rows, currentSortCol, sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
		table.Refresh()
	}
	sortEntries(rows, currentSortCol, sortAsc)

	app.yearsWindow.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	app.yearsWindow.SetOnClosed(func() {
		app.yearsWindow = nil
	})
	app.yearsWindow.Show()
}

// formatCell renders one table cell.
func (app *GoTetApp) formatCell(e engine.TetEntry, col int) string {
	switch col {
	case config.ColIDYear:
		return strconv.Itoa(e.Year)
	case config.ColIDDate:
		return e.Date.Format(app.dateLayout())
	default:
		switch {
		case e.IsToday:
			return app.GetMsg(config.TKeyDaysToday)
		case e.DaysUntil < 0:
			return app.GetMsg(config.TKeyDaysPast)
		default:
			return strconv.Itoa(e.DaysUntil)
		}
	}
}

// sortEntries orders rows by the given column. Year and date columns share
// the same order; the days column always lists upcoming years before past ones.
func sortEntries(rows []engine.TetEntry, col int, asc bool) {
	slices.SortStableFunc(rows, func(a, b engine.TetEntry) int {
		if col == config.ColIDDays && (a.DaysUntil < 0) != (b.DaysUntil < 0) {
			if a.DaysUntil < 0 {
				return 1
			}
			return -1
		}
		c := a.Date.Compare(b.Date)
		if !asc {
			c = -c
		}
		return c
	})
}
