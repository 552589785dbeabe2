package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dimitrije/projectboard/internal/deadline"
	"github.com/dimitrije/projectboard/internal/labels"
	"github.com/dimitrije/projectboard/pkg/dto"
)

const (
	colorBorder    = "#3A3F55"
	colorMuted     = "#6D7383"
	colorAccent    = "#7C3AED"
	colorError     = "#EF4444"
	colorSuccess   = "#22C55E"
	colorWarning   = "#F59E0B"
	columnWidth    = 28
	maxTitleLength = 20
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess))
	columnStyle  = lipgloss.NewStyle().
			Width(columnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder))
)

// timeStatusStyle colours a deadline the same way everywhere pmctl shows one.
func timeStatusStyle(status string) lipgloss.Style {
	switch deadline.Status(status) {
	case deadline.Overdue:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorError))
	case deadline.DueToday, deadline.Urgent:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning))
	case deadline.OnTime:
		return successStyle
	}
	return mutedStyle
}

func renderUser(u dto.UserResponse) string {
	return fmt.Sprintf("%s %s %s", titleStyle.Render("["+u.Initials+"]"), u.Name, mutedStyle.Render("<"+u.Email+">"))
}

func renderProjects(projects []dto.ProjectResponse) string {
	if len(projects) == 0 {
		return mutedStyle.Render("No projects yet. Use 'pmctl project create' to start one.")
	}
	lines := make([]string, len(projects))
	for i, p := range projects {
		lines[i] = projectLine(p)
	}
	return strings.Join(lines, "\n")
}

func projectLine(p dto.ProjectResponse) string {
	owner := ""
	if p.IsOwner {
		owner = titleStyle.Render(" *")
	}
	deadlineText := p.Banner
	if deadlineText == "" {
		deadlineText = "closed"
	}
	return fmt.Sprintf("%s  %s%s  %s  %s  %s",
		mutedStyle.Render(p.ID.String()[:8]),
		p.Name,
		owner,
		mutedStyle.Render(p.StatusLabel),
		timeStatusStyle(p.TimeStatus).Render(deadlineText),
		mutedStyle.Render(p.MemberCount),
	)
}

func renderProject(p dto.ProjectResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name))
	b.WriteString("  " + mutedStyle.Render(p.ID.String()) + "\n")
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	fmt.Fprintf(&b, "%s  %s -> %s", p.StatusLabel, displayDate(p.StartDate), displayDate(p.EstimatedEndDate))
	if p.ActualEndDate != nil {
		fmt.Fprintf(&b, " (ended %s)", displayDate(*p.ActualEndDate))
	}
	if p.Banner != "" {
		b.WriteString("  " + timeStatusStyle(p.TimeStatus).Render(p.Banner))
	}
	fmt.Fprintf(&b, "\nOwner: %s  %s", p.OwnerName, mutedStyle.Render(p.MemberCount))
	return b.String()
}

// displayDate shows a wire date as "Mar 5, 2025", or as-is if it does not parse.
func displayDate(s string) string {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return s
	}
	return labels.Date(t)
}

func renderMembers(members []dto.MemberResponse) string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = fmt.Sprintf("%s %s  %s", titleStyle.Render("["+m.Initials+"]"), m.Name, mutedStyle.Render(m.RoleLabel))
	}
	return strings.Join(lines, "\n")
}

func renderTask(t dto.TaskResponse) string {
	title := t.Title
	if len([]rune(title)) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength-3]) + "..."
	}
	line := fmt.Sprintf("%s %s", priorityMark(t.Priority), title)
	meta := mutedStyle.Render(t.ID.String()[:8] + " " + t.StatusLabel)
	if t.AssigneeName != nil {
		meta += " " + mutedStyle.Render("@"+*t.AssigneeName)
	}
	return line + "\n" + meta
}

func priorityMark(priority string) string {
	switch priority {
	case "high":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Render("!!")
	case "low":
		return mutedStyle.Render("..")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning)).Render("! ")
}

// renderBoard lays the columns out side by side in board order.
func renderBoard(board dto.BoardResponse) string {
	columns := make([]string, len(board.Columns))
	for i, col := range board.Columns {
		var b strings.Builder
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", col.Label, col.Count)))
		for _, t := range col.Tasks {
			b.WriteString("\n\n" + renderTask(t))
		}
		columns[i] = columnStyle.Render(b.String())
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d tasks", board.Total))
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, columns...), summary)
}
