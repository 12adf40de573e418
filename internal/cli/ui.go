package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal output for humans. Machine output (--json) bypasses all of this.

var (
	teal  = lipgloss.Color("36")
	green = lipgloss.Color("35")
	amber = lipgloss.Color("220")
	white = lipgloss.Color("255")
	gray  = lipgloss.Color("245")
	muted = lipgloss.Color("240")
)

var (
	dim     = lipgloss.NewStyle().Foreground(muted)
	bright  = lipgloss.NewStyle().Foreground(white)
	nonceFg = lipgloss.NewStyle().Foreground(teal)
	good    = lipgloss.NewStyle().Foreground(green)
	warn    = lipgloss.NewStyle().Foreground(amber)
	labelFg = lipgloss.NewStyle().Foreground(gray).Width(10)
	spin    = lipgloss.NewStyle().Foreground(teal)
)

// sep joins the fields of a detail line.
var sep = dim.Render(" · ")

func printSuccess(format string, args ...any) {
	fmt.Println(good.Render("✓"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(warn.Render("!"), warn.Render(fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + dim.Render(fmt.Sprintf(format, args...)))
}

// printFile shows where output was written.
func printFile(path string) {
	fmt.Println("  "+dim.Render("→"), bright.Render(path))
}

func printSolution(nonces string) {
	fmt.Println(labelFg.Render("cycle"), nonceFg.Render(nonces))
}

// printStats prints the graph size and whether the result was cached.
func printStats(nodes, edges int, cached bool) {
	origin := dim.Render("searched")
	if cached {
		origin = good.Render("cached")
	}
	fields := []string{
		dim.Render(fmt.Sprintf("%d nodes", nodes)),
		dim.Render(fmt.Sprintf("%d edges", edges)),
		origin,
	}
	fmt.Println("  " + strings.Join(fields, sep))
}
