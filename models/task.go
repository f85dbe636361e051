package models

import "time"

// Task may be standalone or belong to a goal, and may nest one level under a
// parent task. A goal-scoped task's parent must belong to the same goal; a
// standalone task's parent must also be standalone.
type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint       `gorm:"index;not null" json:"user_id"`
	GoalID       *uint      `gorm:"index" json:"goal_id,omitempty"`
	ParentTaskID *uint      `gorm:"index" json:"parent_task_id,omitempty"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`

	Goal     *Goal  `json:"goal,omitempty"`
	Parent   *Task  `gorm:"foreignKey:ParentTaskID" json:"parent,omitempty"`
	Children []Task `gorm:"foreignKey:ParentTaskID" json:"children,omitempty"`
}
