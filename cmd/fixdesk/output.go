package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/view"
)

var out io.Writer = color.Output

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.GreenString("✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.RedString("✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("⚠ "+fmt.Sprintf(format, args...)))
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}

// emptyLabel maps the snapshot's empty reason to the placeholder line.
func emptyLabel(snap view.Snapshot) string {
	switch snap.Empty {
	case view.NeverLoaded:
		return "not loaded yet"
	case view.NoResults:
		return fmt.Sprintf("nothing matches %q", snap.Query)
	default:
		return "none"
	}
}

func renderDevices(snap view.Snapshot) {
	if snap.Empty != view.NotEmpty {
		fmt.Fprintln(out, faint(emptyLabel(snap)))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("ID"), bold("Device"), bold("Instructions"), bold("Recipes"), bold("Tags"))
	for _, row := range snap.Devices {
		tbl.AddRow(row.Device.ID, row.Device.Name, row.InstructionCount, row.RecipeCount, row.Device.Tags)
	}
	fmt.Fprintln(out, tbl)
}

func renderGuides(snap view.Snapshot) {
	if snap.Empty != view.NotEmpty {
		fmt.Fprintln(out, faint(emptyLabel(snap)))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("ID"), bold("Title"), bold("Content"), bold("Devices"))
	for _, g := range snap.Guides {
		tbl.AddRow(g.ID, g.Title, guideContentLabel(g), len(g.Models))
	}
	fmt.Fprintln(out, tbl)
}

func guideContentLabel(g catalog.Guide) string {
	switch g.Content() {
	case catalog.ContentFile:
		return "file"
	case catalog.ContentLink:
		return "link"
	default:
		return "-"
	}
}

func renderTickets(snap view.Snapshot) {
	if snap.Empty != view.NotEmpty {
		fmt.Fprintln(out, faint(emptyLabel(snap)))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("ID"), bold("Status"), bold("Subject"), bold("Messages"))
	for _, t := range snap.Tickets {
		tbl.AddRow(t.ID, statusLabel(t.Status), t.Subject, t.MessageCount())
	}
	fmt.Fprintln(out, tbl)
}

func statusLabel(s catalog.TicketStatus) string {
	switch s {
	case catalog.StatusOpen:
		return color.GreenString(s.Label())
	case catalog.StatusInProgress:
		return color.YellowString(s.Label())
	case catalog.StatusClosed:
		return faint(s.Label())
	default:
		return s.Label()
	}
}

func renderDeviceDetail(d view.DeviceDetail) {
	fmt.Fprintln(out, bold(d.Device.Name))
	if d.Device.Description != "" {
		fmt.Fprintln(out, d.Device.Description)
	}
	if d.Device.Tags != "" {
		fmt.Fprintln(out, faint(d.Device.Tags))
	}

	renderGuideSection("Instructions", d.Instructions)
	renderGuideSection("Recipes", d.Recipes)
}

func renderGuideSection(title string, guides []catalog.Guide) {
	fmt.Fprintf(out, "\n%s\n", bold(title))
	if len(guides) == 0 {
		fmt.Fprintln(out, faint("  none"))
		return
	}
	for _, g := range guides {
		line := fmt.Sprintf("  %d  %s", g.ID, g.Title)
		if g.Content() == catalog.ContentLink && g.URL != "" {
			line += "  " + faint(g.URL)
		}
		fmt.Fprintln(out, line)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
