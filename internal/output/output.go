// Package output formats CLI results for terminals and pipes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/marcus/userdash/internal/models"
	"golang.org/x/term"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

// Stdout and Stderr are swapped out by tests
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Error prints an error line to stderr
func Error(format string, args ...any) {
	fmt.Fprintln(Stderr, errorStyle.Render("ERROR:")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning line to stderr
func Warning(format string, args ...any) {
	fmt.Fprintln(Stderr, warnStyle.Render("WARNING:")+" "+fmt.Sprintf(format, args...))
}

// Success prints a status line to stdout
func Success(format string, args ...any) {
	fmt.Fprintln(Stdout, successStyle.Render(fmt.Sprintf(format, args...)))
}

// JSON writes v as indented JSON
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var userHeaders = []string{"ID", "FIRST NAME", "LAST NAME", "EMAIL", "DEPARTMENT"}

func userRow(u models.User) []string {
	return []string{u.ID.String(), u.FirstName, u.LastName, u.Email, u.DepartmentLabel()}
}

// Users writes a table of users. Terminals get a bordered table; pipes get
// tab-separated columns.
func Users(w io.Writer, users []models.User) error {
	if !IsTerminal(w) {
		return usersPlain(w, users)
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = userRow(u)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(userHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(users) && users[row].DepartmentLabel() == models.NoDepartment {
				return mutedStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func usersPlain(w io.Writer, users []models.User) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(userHeaders, "\t"))
	for _, u := range users {
		fmt.Fprintln(tw, strings.Join(userRow(u), "\t"))
	}
	return tw.Flush()
}

// User writes a single user as key/value lines
func User(w io.Writer, u models.User) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "First name:\t%s\n", u.FirstName)
	fmt.Fprintf(tw, "Last name:\t%s\n", u.LastName)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Department:\t%s\n", u.DepartmentLabel())
	return tw.Flush()
}

// Activity writes journal entries, newest first
func Activity(w io.Writer, entries []models.ActivityEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tUSER\tRESULT\tSUMMARY")
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed"
			if e.Error != "" {
				result += ": " + e.Error
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Action, e.UserID, result, e.Summary)
	}
	return tw.Flush()
}

// PageFooter summarizes the position within a paginated listing
func PageFooter(w io.Writer, page, totalPages, totalCount int) {
	if totalPages == 0 {
		fmt.Fprintln(w, "No users")
		return
	}
	fmt.Fprintf(w, "Page %d of %d (%d users)\n", page, totalPages, totalCount)
}
