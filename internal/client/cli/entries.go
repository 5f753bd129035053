package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mymoment/internal/client/geo"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/filex"
	"github.com/dmitrijs2005/mymoment/internal/netx"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// findEntry resolves ref as a full ID or a unique ID prefix.
func findEntry(entries []models.Entry, ref string) (models.Entry, error) {
	var found []models.Entry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return models.Entry{}, fmt.Errorf("no entry %q", ref)
	case 1:
		return found[0], nil
	default:
		return models.Entry{}, fmt.Errorf("%q matches %d entries", ref, len(found))
	}
}

func weatherText(e models.Entry) string {
	var parts []string
	if e.Weather != "" {
		parts = append(parts, e.Weather)
	}
	if e.Temperature != nil {
		parts = append(parts, fmt.Sprintf("%.0f°C", *e.Temperature))
	}
	return strings.Join(parts, " ")
}

func placeText(e models.Entry) string {
	if e.LocationName != "" {
		return e.LocationName
	}
	if e.Location != nil {
		return fmt.Sprintf("%.4f,%.4f", e.Location.Latitude, e.Location.Longitude)
	}
	return ""
}

func (a *App) printEntries(title string, entries []models.Entry) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(a.out, title)
	_, _ = c.Fprintf(a.out, " - %d\n", len(entries))

	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(a.out, " none")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 40
	tbl.Wrap = true
	tbl.AddRow("ID", "WHEN", "TITLE", "WEATHER", "PLACE")
	for _, e := range entries {
		tbl.AddRow(shortID(e.ID), e.Timestamp.Format("2006-01-02 15:04"), e.Title, weatherText(e), placeText(e))
	}
	_, _ = fmt.Fprintln(a.out, tbl)
}

// List prints the entries passing the current search filter.
func (a *App) List(ctx context.Context) error {
	st := a.list.State()
	title := "Entries"
	if strings.TrimSpace(st.Query) != "" {
		title = fmt.Sprintf("Entries matching %q", st.Query)
	}
	a.printEntries(title, st.Visible)
	if st.Error != "" {
		printlnFn("Error:", st.Error)
	}
	return nil
}

// Search sets the list filter; no words clears it.
func (a *App) Search(ctx context.Context, words []string) error {
	a.list.SetSearchQuery(strings.Join(words, " "))
	return a.List(ctx)
}

func (a *App) Show(ctx context.Context, ref string) error {
	e, err := findEntry(a.list.State().All, ref)
	if err != nil {
		printlnFn(err)
		return err
	}

	_, _ = color.New(color.Bold).Fprintln(a.out, e.Title)
	_, _ = color.New(color.Faint).Fprintln(a.out, e.Timestamp.Format("Mon, 02 Jan 2006 15:04"), weatherText(e), placeText(e))
	_, _ = fmt.Fprintln(a.out, e.Content)
	return nil
}

// fillDraft prompts for every draft field, offering the current values.
func (a *App) fillDraft(ctx context.Context) error {
	d := a.editor.State().Draft

	title, err := GetWithDefault(a.reader, "Title", d.Title, a.out)
	if err != nil {
		return err
	}
	a.editor.SetTitle(title)

	content, err := GetMultiline(a.reader, "Text:", a.out)
	if err != nil {
		return err
	}
	if content != "" || d.EditingID == "" {
		a.editor.SetContent(content)
	}

	weather, err := GetWithDefault(a.reader, "Weather (e.g. Sunny)", d.Weather, a.out)
	if err != nil {
		return err
	}
	cur := ""
	if d.Temperature != nil {
		cur = fmt.Sprintf("%g", *d.Temperature)
	}
	rawTemp, err := GetWithDefault(a.reader, "Temperature °C", cur, a.out)
	if err != nil {
		return err
	}
	temp, err := parseTemperature(rawTemp)
	if err != nil {
		printlnFn(err)
		temp = d.Temperature
	}
	a.editor.SetWeather(weather, temp)

	if err := a.editor.Locate(ctx); err != nil && !errors.Is(err, geo.ErrNoFix) {
		printlnFn(a.editor.State().Error)
	}

	name, err := GetWithDefault(a.reader, "Place name", a.editor.State().Draft.LocationName, a.out)
	if err != nil {
		return err
	}
	a.editor.SetLocationName(name)
	return nil
}

func (a *App) save(ctx context.Context) error {
	if err := a.editor.Save(ctx); err != nil {
		printlnFn("Error:", a.editor.State().Error)
		return err
	}

	select {
	case r := <-a.editor.Saved():
		if r.Created {
			printlnFn("Created", shortID(r.ID))
		} else {
			printlnFn("Updated", shortID(r.ID))
		}
	default:
	}
	return nil
}

// New walks the user through a fresh entry and saves it.
func (a *App) New(ctx context.Context) error {
	a.editor.StartNew()
	if err := a.fillDraft(ctx); err != nil {
		return err
	}
	return a.save(ctx)
}

// Edit loads an entry into the editor, prompts for changes and saves it.
func (a *App) Edit(ctx context.Context, ref string) error {
	e, err := findEntry(a.list.State().All, ref)
	if err != nil {
		printlnFn(err)
		return err
	}

	a.editor.StartEdit(e)
	if err := a.fillDraft(ctx); err != nil {
		return err
	}
	return a.save(ctx)
}

func (a *App) Delete(ctx context.Context, ref string) error {
	e, err := findEntry(a.list.State().All, ref)
	if err != nil {
		printlnFn(err)
		return err
	}
	if err := a.list.Delete(ctx, e.ID); err != nil {
		printlnFn(a.list.State().Error)
		return err
	}
	printlnFn("Deleted", shortID(e.ID))
	return nil
}

// Markers prints the map pins of entries with a location.
func (a *App) Markers(ctx context.Context) error {
	markers := a.mapView.Markers()
	tbl := uitable.New()
	tbl.AddRow("ID", "TITLE", "LAT", "LON")
	for _, m := range markers {
		tbl.AddRow(shortID(m.EntryID), m.Title, fmt.Sprintf("%.5f", m.Location.Latitude), fmt.Sprintf("%.5f", m.Location.Longitude))
	}
	_, _ = color.New(color.Bold, color.Underline).Fprintln(a.out, "Map")
	_, _ = fmt.Fprintln(a.out, tbl)
	return nil
}

// Export uploads a JSON backup of all entries; remote backend only.
func (a *App) Export(ctx context.Context) error {
	if a.exporter == nil {
		printlnFn("Export needs the remote backend")
		return nil
	}
	key, url, err := a.exporter.ExportEntries(ctx)
	if err != nil {
		printlnFn("Export failed:", err)
		return err
	}
	printlnFn("Exported", key)
	printlnFn(url)

	saved, err := a.saveExport(ctx, key, url)
	if err != nil {
		printlnFn("Download failed:", err)
		return err
	}
	printlnFn("Saved to", saved)
	return nil
}

// saveExport copies the exported document into DataDir/exports.
func (a *App) saveExport(ctx context.Context, key, url string) (string, error) {
	dir, err := filex.EnsureDir(filepath.Join(a.config.DataDir, "exports"))
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, path.Base(key))

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := netx.Download(ctx, a.httpClient, url, f); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}

