package entity

import (
	"math"
	"sort"
	"time"
)

const (
	TaskStatusPending    = "Pending"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"

	DefaultTaskCategory = "General"
)

type Task struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Status      string    `json:"status" firestore:"status"`
	DueDate     time.Time `json:"due_date" firestore:"dueDate"`
	Progress    int       `json:"progress" firestore:"progress"`
	Priority    string    `json:"priority" firestore:"priority"`
	Category    string    `json:"category" firestore:"category"`
	AssignedTo  string    `json:"assigned_to" firestore:"assignedTo"`
	CreatedBy   string    `json:"created_by" firestore:"createdBy"`
	FarmID      string    `json:"farm_id,omitempty" firestore:"farmId,omitempty"`
	FieldID     string    `json:"field_id,omitempty" firestore:"fieldId,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ProgressLabel is the text form of a task's numeric progress.
type ProgressLabel string

const (
	ProgressNotStarted    ProgressLabel = "Not Started"
	ProgressJustBeginning ProgressLabel = "Just Beginning"
	ProgressInProgress    ProgressLabel = "In Progress"
	ProgressAlmostDone    ProgressLabel = "Almost Done"
	ProgressComplete      ProgressLabel = "Complete"
)

// ProgressLabels lists the buckets in increasing order.
var ProgressLabels = []ProgressLabel{
	ProgressNotStarted,
	ProgressJustBeginning,
	ProgressInProgress,
	ProgressAlmostDone,
	ProgressComplete,
}

var progressValues = map[ProgressLabel]int{
	ProgressNotStarted:    0,
	ProgressJustBeginning: 25,
	ProgressInProgress:    50,
	ProgressAlmostDone:    75,
	ProgressComplete:      100,
}

// ProgressValue returns the number for a label and whether the label is known.
func ProgressValue(label ProgressLabel) (int, bool) {
	v, ok := progressValues[label]
	return v, ok
}

// LabelForProgress maps any number onto its bucket.
func LabelForProgress(progress int) ProgressLabel {
	switch {
	case progress <= 0:
		return ProgressNotStarted
	case progress <= 25:
		return ProgressJustBeginning
	case progress <= 50:
		return ProgressInProgress
	case progress <= 75:
		return ProgressAlmostDone
	default:
		return ProgressComplete
	}
}

type TaskFilter string

const (
	TaskFilterAll       TaskFilter = "all"
	TaskFilterPending   TaskFilter = "pending"
	TaskFilterCompleted TaskFilter = "completed"
)

func FilterTasks(tasks []*Task, filter TaskFilter) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		switch filter {
		case TaskFilterPending:
			if t.Status != TaskStatusPending {
				continue
			}
		case TaskFilterCompleted:
			if t.Status != TaskStatusCompleted {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

type TaskSort string

const (
	TaskSortDate     TaskSort = "date"
	TaskSortStatus   TaskSort = "status"
	TaskSortPriority TaskSort = "priority"
)

var statusRank = map[string]int{
	TaskStatusCompleted:  1,
	TaskStatusInProgress: 2,
	TaskStatusPending:    3,
}

var priorityRank = map[string]int{
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

func rank(m map[string]int, key string) int {
	if r, ok := m[key]; ok {
		return r
	}
	return len(m) + 1
}

// SortTasks orders tasks in place. Ties keep their existing order.
func SortTasks(tasks []*Task, by TaskSort) {
	sort.SliceStable(tasks, func(i, j int) bool {
		switch by {
		case TaskSortStatus:
			return rank(statusRank, tasks[i].Status) < rank(statusRank, tasks[j].Status)
		case TaskSortPriority:
			return rank(priorityRank, tasks[i].Priority) < rank(priorityRank, tasks[j].Priority)
		default:
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
	})
}

// OverallProgress is the share of completed tasks as a whole percentage.
func OverallProgress(tasks []*Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}
