package labels

import (
	"testing"
	"time"

	"github.com/dimitrije/projectboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProjectStatus(t *testing.T) {
	assert.Equal(t, "Active", ProjectStatus(models.ProjectActive))
	assert.Equal(t, "Cancelled", ProjectStatus(models.ProjectCancelled))
	assert.Equal(t, "archived", ProjectStatus("archived"))
}

func TestTaskStatusAndPriority(t *testing.T) {
	assert.Equal(t, "To Do", TaskStatus(models.TaskTodo))
	assert.Equal(t, "High", Priority(models.PriorityHigh))
	assert.Equal(t, "urgent", Priority("urgent"))
}

func TestRole(t *testing.T) {
	assert.Equal(t, "Team Lead", Role(models.RoleLead))
	assert.Equal(t, "Owner", Role(models.RoleOwner))
	assert.Equal(t, "intern", Role("intern"))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", Initials("ada lovelace"))
	assert.Equal(t, "GB", Initials("Grace Brewster Hopper"))
	assert.Equal(t, "Á", Initials("ángel"))
	assert.Equal(t, "", Initials("   "))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "Mar 5, 2025", Date(time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)))
}

func TestMemberCount(t *testing.T) {
	assert.Equal(t, "1 member", MemberCount(1))
	assert.Equal(t, "0 members", MemberCount(0))
	assert.Equal(t, "4 members", MemberCount(4))
}
