package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Mood struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_mood_user_recorded,priority:1" json:"userId"`
	JournalID  *uuid.UUID `gorm:"type:uuid;index" json:"journalId,omitempty"`
	Value      MoodValue  `gorm:"column:value;not null" json:"value"`
	Label      string     `gorm:"column:label" json:"label"`
	Note       string     `gorm:"type:text" json:"note"`
	Confidence float64    `gorm:"not null;default:1" json:"confidence"`
	Source     string     `gorm:"not null;default:'manual'" json:"source"`
	RecordedAt time.Time  `gorm:"not null;index:idx_mood_user_recorded,priority:2" json:"recordedAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Mood) TableName() string { return "mood_entry" }

type Todo struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_todo_user_open,priority:1" json:"userId"`
	JournalID   *uuid.UUID `gorm:"type:uuid;index" json:"journalId,omitempty"`
	Title       string     `gorm:"not null" json:"title"`
	Priority    string     `gorm:"not null;default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `gorm:"not null;default:false;index:idx_todo_user_open,priority:2" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Confidence  float64    `gorm:"not null;default:1" json:"confidence"`
	Reasoning   string     `gorm:"type:text" json:"reasoning,omitempty"`
	Source      string     `gorm:"not null;default:'manual'" json:"source"`

	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Todo) TableName() string { return "todo_item" }

// TodoPatch is the complete set of fields a client may change on a todo.
type TodoPatch struct {
	Completed *bool      `json:"completed,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}

func (p TodoPatch) Empty() bool {
	return p.Completed == nil && p.Priority == nil && p.DueDate == nil
}

type Media struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_media_user_created,priority:1" json:"userId"`
	JournalID  *uuid.UUID `gorm:"type:uuid;index" json:"journalId,omitempty"`
	Title      string     `gorm:"not null" json:"title"`
	MediaType  string     `gorm:"column:media_type" json:"type"`
	Status     string     `gorm:"not null;default:'planned'" json:"status"`
	Confidence float64    `gorm:"not null;default:1" json:"confidence"`
	Reasoning  string     `gorm:"type:text" json:"reasoning,omitempty"`
	Source     string     `gorm:"not null;default:'manual'" json:"source"`

	CreatedAt time.Time      `gorm:"index:idx_media_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Media) TableName() string { return "media_item" }

// Habit is one logged occurrence (done or missed) of a named habit.
type Habit struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_habit_user_logged,priority:1" json:"userId"`
	JournalID  *uuid.UUID `gorm:"type:uuid;index" json:"journalId,omitempty"`
	Name       string     `gorm:"not null" json:"name"`
	Status     string     `gorm:"not null" json:"status"`
	Frequency  string     `gorm:"not null;default:'daily'" json:"frequency"`
	LoggedOn   time.Time  `gorm:"not null;index:idx_habit_user_logged,priority:2" json:"loggedOn"`
	Confidence float64    `gorm:"not null;default:1" json:"confidence"`
	Reasoning  string     `gorm:"type:text" json:"reasoning,omitempty"`
	Source     string     `gorm:"not null;default:'manual'" json:"source"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Habit) TableName() string { return "habit_entry" }
