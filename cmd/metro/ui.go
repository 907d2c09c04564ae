package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"metropolis/internal/city"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
	header      = color.New(color.FgMagenta, color.Bold)
)

var zoneColors = map[city.ZoneType]lipgloss.Color{
	city.Residential: lipgloss.Color("#2ecc71"),
	city.Commercial:  lipgloss.Color("#9b59b6"),
	city.Industrial:  lipgloss.Color("#a0522d"),
	city.School:      lipgloss.Color("#f1c40f"),
	city.Hospital:    lipgloss.Color("#e74c3c"),
}

var (
	emptyCell   = lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Foreground(lipgloss.Color("#7f8c8d"))
	labelStyle  = lipgloss.NewStyle().Width(3).Align(lipgloss.Right).Foreground(lipgloss.Color("#95a5a6"))
	boardBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5dade2")).Padding(0, 1)
)

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func clearScreen() {
	if !isTTY() {
		return
	}
	fmt.Print("\033[H\033[2J")
}

// typewrite prints text one rune at a time on a terminal and all at once
// otherwise.
func typewrite(c *color.Color, text string, delay time.Duration) {
	if !isTTY() || delay <= 0 {
		c.Print(text)
		return
	}
	for _, r := range text {
		c.Print(string(r))
		time.Sleep(delay)
	}
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func readLine() (string, error) {
	text, err := stdinReader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	return readLine()
}

func promptYesNo(label string) (bool, error) {
	for {
		text, err := promptOptional(label + " (yes/no)")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(text) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		printWarn("Please type 'yes' or 'no'.")
	}
}

func promptInt(label string, lo, hi int) (int, error) {
	for {
		text, err := promptOptional(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < lo || v > hi {
			printWarn(fmt.Sprintf("Value must be between %d and %d.", lo, hi))
			continue
		}
		return v, nil
	}
}

func promptZone() (city.ZoneType, error) {
	for {
		text, err := promptOptional("Zone type - R (Residential), C (Commercial), I (Industrial), S (School), H (Hospital)")
		if err != nil {
			return city.Empty, err
		}
		z, err := city.ParseZoneType(text)
		if err != nil {
			printWarn("Invalid zone. Please use R, C, I, S or H.")
			continue
		}
		return z, nil
	}
}

func renderGrid(g *city.Grid) string {
	var b strings.Builder
	cols := make([]string, 0, g.Size()+1)
	cols = append(cols, labelStyle.Render(""))
	for y := 0; y < g.Size(); y++ {
		cols = append(cols, emptyCell.Render(strconv.Itoa(y)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	for x := 0; x < g.Size(); x++ {
		row := make([]string, 0, g.Size()+1)
		row = append(row, labelStyle.Render(strconv.Itoa(x)))
		for y := 0; y < g.Size(); y++ {
			row = append(row, renderCell(g.At(x, y)))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return boardBorder.Render(b.String())
}

func renderCell(z city.ZoneType) string {
	c, ok := zoneColors[z]
	if !ok {
		return emptyCell.Render("·")
	}
	spec, _ := city.SpecFor(z)
	return lipgloss.NewStyle().Width(3).Align(lipgloss.Center).Bold(true).Foreground(c).Render(spec.Code)
}

func renderKey() string {
	parts := []string{emptyCell.Render("·") + " Empty"}
	for _, spec := range city.ZoneCatalog() {
		parts = append(parts, renderCell(spec.Type)+" "+spec.Name)
	}
	return "Key: " + strings.Join(parts, "  ")
}

func renderCity(st *city.State) {
	accent.Println("McGee Metropolis City Map")
	fmt.Println(renderGrid(st.Grid))
	fmt.Println(renderKey())
	fmt.Println()
	renderResources(st.Resources)
	renderMetrics(st.Metrics)
}

func renderResources(l *city.Ledger) {
	accent.Println("Resources")
	header.Printf("%-18s %14s %18s\n", "RESOURCE", "CURRENT", "REGEN / DAY")
	for _, b := range l.Snapshot() {
		fmt.Printf("%-18s %14s %18s\n", b.Resource, formatAmount(b.Current), formatAmount(b.Regen))
	}
	fmt.Println()
}

func renderMetrics(board *city.MetricsBoard) {
	accent.Println("Metrics")
	header.Printf("%-18s %8s %14s\n", "METRIC", "VALUE", "CRITICAL")
	for _, m := range city.Metrics() {
		v := board.Value(m)
		t := city.ThresholdFor(m)
		limit := fmt.Sprintf("< %d", t.Limit)
		if t.Ceiling {
			limit = fmt.Sprintf("> %d", t.Limit)
		}
		value := success.Sprintf("%7d%%", v)
		if t.Breached(v) {
			value = danger.Sprintf("%7d%%", v)
		}
		fmt.Printf("%-18s %s %14s\n", m, value, limit)
	}
	fmt.Println()
}

func renderDawn(report city.DayReport, days int) {
	accent.Printf("Day %d of %d: Good morning! A new day has started...\n", report.Day, days)
	ev := report.Event
	if ev.Ended != "" {
		printInfo(fmt.Sprintf("The city has recovered from: %s.", ev.Ended))
	}
	switch {
	case ev.Active == "":
	case ev.Started:
		warn.Printf("Oh no, a new event has started: %s, resulting in %s of %s for %d more day(s).\n",
			ev.Active, ev.ImpactType, ev.Impact, ev.Remaining)
	default:
		warn.Printf("An event is still impacting the city: %s, resulting in %s of %s. Days left: %d\n",
			ev.Active, ev.ImpactType, ev.Impact, ev.Remaining)
	}
	if report.Outcome.Over {
		renderOutcome(report.Outcome)
	}
}

func renderBuild(r city.BuildReport) {
	printSuccess(fmt.Sprintf("Congratulations, you built a %s zone at %d, %d for %s.", r.Zone, r.X, r.Y, formatAmount(r.Cost)))
	if r.Bonus > 0 {
		printSuccess(fmt.Sprintf("New shops brought in a bonus of %s.", formatAmount(r.Bonus)))
	}
	printInfo(fmt.Sprintf("Remaining money: %s", formatAmount(r.Money)))
}

func renderOutcome(out city.Outcome) {
	fmt.Println()
	if out.Won {
		success.Println("Congratulations! You reached your goals and won!")
		return
	}
	danger.Println("Game over: " + out.Reason)
	for _, b := range out.Breaches {
		danger.Println("  - " + b.String())
	}
}

func renderZoneCatalog() {
	accent.Println("\n== ZONES ==")
	header.Printf("%-6s %-12s %10s %12s\n", "CODE", "ZONE", "COST", "INCOME/DAY")
	for _, spec := range city.ZoneCatalog() {
		fmt.Printf("%-6s %-12s %10s %12s\n", spec.Code, spec.Name, formatAmount(spec.BuildCost), formatAmount(spec.DailyIncome))
	}
	fmt.Println()
}

func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}
	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := fmt.Sprintf("%s.%02d", b.String(), frac)
	if neg {
		return "-" + out
	}
	return out
}
