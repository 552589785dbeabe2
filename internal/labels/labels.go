package labels

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dimitrije/projectboard/internal/models"
)

var projectStatusLabels = map[models.ProjectStatus]string{
	models.ProjectActive:    "Active",
	models.ProjectPaused:    "Paused",
	models.ProjectCompleted: "Completed",
	models.ProjectCancelled: "Cancelled",
}

var taskStatusLabels = map[models.TaskStatus]string{
	models.TaskPending: "Pending",
	models.TaskTodo:    "To Do",
	models.TaskDoing:   "Doing",
	models.TaskDone:    "Done",
}

var priorityLabels = map[models.TaskPriority]string{
	models.PriorityLow:    "Low",
	models.PriorityMedium: "Medium",
	models.PriorityHigh:   "High",
}

var roleLabels = map[string]string{
	models.RoleOwner:     "Owner",
	models.RoleDeveloper: "Developer",
	models.RoleTester:    "Tester",
	models.RoleDesigner:  "Designer",
	models.RoleLead:      "Team Lead",
}

// ProjectStatus returns the display label for s. Like the other label
// helpers it returns unknown values unchanged.
func ProjectStatus(s models.ProjectStatus) string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func TaskStatus(s models.TaskStatus) string {
	if l, ok := taskStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func Priority(p models.TaskPriority) string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

func Role(role string) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return role
}

// Date formats a calendar date as "Mar 5, 2025".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Initials returns up to two upper-cased leading letters of the words in name.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// MemberCount renders "1 member" / "3 members".
func MemberCount(n int) string {
	if n == 1 {
		return "1 member"
	}
	return strconv.Itoa(n) + " members"
}
