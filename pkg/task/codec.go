package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Keys the three collections are stored under.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
	KeyClasses    = "customClasses"
)

// taskRecord is the stored shape of a task. Timestamps are kept as RFC 3339
// text because adapters only hold byte payloads.
type taskRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Completed   bool     `json:"completed"`
	CategoryID  string   `json:"categoryId,omitempty"`
	ClassIDs    []string `json:"classIds"`
	CreatedAt   string   `json:"createdAt"`
	Order       int      `json:"order"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

type labelRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func EncodeTasks(ts []Task) ([]byte, error) {
	records := make([]taskRecord, len(ts))
	for i, t := range ts {
		r := taskRecord{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CategoryID:  t.CategoryID,
			ClassIDs:    t.ClassIDs,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
			Order:       t.Order,
			Priority:    t.Priority,
		}
		if r.ClassIDs == nil {
			r.ClassIDs = []string{}
		}
		if t.DueDate != nil {
			r.DueDate = t.DueDate.Format(time.RFC3339Nano)
		}
		records[i] = r
	}
	return json.Marshal(records)
}

func DecodeTasks(bs []byte) ([]Task, error) {
	var records []taskRecord
	if err := decodeArray(bs, &records); err != nil {
		return nil, err
	}
	ts := make([]Task, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.New("task without id")
		}
		created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, err
		}
		t := Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Completed:   r.Completed,
			CategoryID:  r.CategoryID,
			ClassIDs:    r.ClassIDs,
			CreatedAt:   created,
			Order:       r.Order,
			Priority:    r.Priority,
		}
		if t.ClassIDs == nil {
			t.ClassIDs = []string{}
		}
		if r.DueDate != "" {
			due, err := time.Parse(time.RFC3339Nano, r.DueDate)
			if err != nil {
				return nil, err
			}
			t.DueDate = &due
		}
		if !t.Priority.Valid() {
			t.Priority = PriorityNone
		}
		ts[i] = t
	}
	return ts, nil
}

func EncodeCategories(cs []Category) ([]byte, error) {
	records := make([]labelRecord, len(cs))
	for i, c := range cs {
		records[i] = labelRecord(c)
	}
	return json.Marshal(records)
}

func DecodeCategories(bs []byte) ([]Category, error) {
	var records []labelRecord
	if err := decodeArray(bs, &records); err != nil {
		return nil, err
	}
	cs := make([]Category, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.New("category without id")
		}
		cs[i] = Category(r)
	}
	return cs, nil
}

func EncodeClasses(cs []Class) ([]byte, error) {
	records := make([]labelRecord, len(cs))
	for i, c := range cs {
		records[i] = labelRecord(c)
	}
	return json.Marshal(records)
}

func DecodeClasses(bs []byte) ([]Class, error) {
	var records []labelRecord
	if err := decodeArray(bs, &records); err != nil {
		return nil, err
	}
	cs := make([]Class, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.New("class without id")
		}
		cs[i] = Class(r)
	}
	return cs, nil
}

// decodeArray only accepts a JSON array, so that null, objects and scalars
// are reported as malformed instead of decoding to an empty collection.
func decodeArray(bs []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(bs)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errors.New("expected a JSON array")
	}
	return json.Unmarshal(trimmed, v)
}

// Snapshot is a read-only copy of all three collections, used for exports.
type Snapshot struct {
	Tasks      []SnapshotTask `json:"tasks" yaml:"tasks"`
	Categories []Category     `json:"categories" yaml:"categories"`
	Classes    []Class        `json:"customClasses" yaml:"customClasses"`
}

type SnapshotTask struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CategoryID  string     `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	ClassIDs    []string   `json:"classIds" yaml:"classIds"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	Order       int        `json:"order" yaml:"order"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority    Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
}

func NewSnapshot(ts []Task, cs []Category, cls []Class) Snapshot {
	out := Snapshot{
		Tasks:      make([]SnapshotTask, len(ts)),
		Categories: cs,
		Classes:    cls,
	}
	for i, t := range ts {
		out.Tasks[i] = SnapshotTask(t)
	}
	return out
}
