package extraction

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
)

// Provenance is stamped onto every record the gate commits.
type Provenance struct {
	UserID    uuid.UUID
	JournalID *uuid.UUID
	At        time.Time
}

func (c MoodCandidate) Record(p Provenance) *journal.Mood {
	return &journal.Mood{
		ID:         uuid.New(),
		UserID:     p.UserID,
		JournalID:  p.JournalID,
		Value:      journal.CanonicalMood(c.Value),
		Label:      c.Value,
		Note:       c.Reasoning,
		Confidence: c.Confidence,
		Source:     journal.SourceJournal,
		RecordedAt: p.At,
	}
}

func (c TodoCandidate) Record(p Provenance) *journal.Todo {
	priority := c.Priority
	if priority == "" {
		priority = journal.DefaultPriority
	}
	t := &journal.Todo{
		ID:         uuid.New(),
		UserID:     p.UserID,
		JournalID:  p.JournalID,
		Title:      c.Title,
		Priority:   priority,
		Confidence: c.Confidence,
		Reasoning:  c.Reasoning,
		Source:     journal.SourceJournal,
	}
	if c.DueDate != "" {
		if d, err := time.Parse(dateLayout, c.DueDate); err == nil {
			t.DueDate = &d
		}
	}
	// something the writer says they already did lands as done
	if c.Time == "past" {
		done := p.At
		t.Completed = true
		t.CompletedAt = &done
	}
	return t
}

func (c MediaCandidate) Record(p Provenance) *journal.Media {
	status := c.Status
	if status == "" {
		status = journal.DefaultMediaState
	}
	return &journal.Media{
		ID:         uuid.New(),
		UserID:     p.UserID,
		JournalID:  p.JournalID,
		Title:      c.Title,
		MediaType:  c.Type,
		Status:     status,
		Confidence: c.Confidence,
		Reasoning:  c.Reasoning,
		Source:     journal.SourceJournal,
	}
}

func (c HabitCandidate) Record(p Provenance) *journal.Habit {
	status := c.Status
	if status == "" {
		status = "done"
	}
	freq := c.Frequency
	if freq == "" {
		freq = journal.DefaultFrequency
	}
	y, m, d := p.At.UTC().Date()
	return &journal.Habit{
		ID:         uuid.New(),
		UserID:     p.UserID,
		JournalID:  p.JournalID,
		Name:       c.Name,
		Status:     status,
		Frequency:  freq,
		LoggedOn:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Confidence: c.Confidence,
		Reasoning:  c.Reasoning,
		Source:     journal.SourceJournal,
	}
}
