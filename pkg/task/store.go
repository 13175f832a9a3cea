package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persistor is the durable key-value store the collections are written to.
// Load reports ok=false when nothing was stored under the key yet.
type Persistor interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
}

// Notifier receives a human readable event after each mutation.
// It must not call back into the store.
type Notifier interface {
	Notify(title, detail string)
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithClock sets the time source used for creation timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDFunc sets the generator for new entity ids
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store is the only mutator of the task, category and class collections.
// Every operation holds the lock for its whole mutate, persist and notify
// sequence, so a Store can be shared between goroutines.
type Store struct {
	mu sync.RWMutex

	tasks      []Task
	categories []Category
	classes    []Class

	activeCategory string
	activeTask     string

	persist Persistor
	notify  Notifier
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Open creates a store and loads its collections from p. Malformed stored
// data is logged and replaced by the defaults, only adapter failures are
// returned.
func Open(p Persistor, n Notifier, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, errors.New("task: nil persistor")
	}
	s := &Store{
		persist: p,
		notify:  n,
		log:     slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var err error
	s.tasks, err = loadCollection(s, KeyTasks, DecodeTasks, func() []Task { return []Task{} })
	if err != nil {
		return err
	}
	s.categories, err = loadCollection(s, KeyCategories, DecodeCategories, DefaultCategories)
	if err != nil {
		return err
	}
	s.classes, err = loadCollection(s, KeyClasses, DecodeClasses, DefaultClasses)
	if err != nil {
		return err
	}
	if s.categoryIndex(DefaultCategoryID) < 0 {
		s.log.Warn("restoring missing default category")
		s.categories = append([]Category{DefaultCategories()[0]}, s.categories...)
	}
	s.repair()
	return nil
}

func loadCollection[T any](s *Store, key string, decode func([]byte) ([]T, error), fallback func() []T) ([]T, error) {
	bs, ok, err := s.persist.Load(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fallback(), nil
	}
	out, err := decode(bs)
	if err != nil {
		s.log.Warn("using defaults instead of stored data", "err", &MalformedStorageError{Key: key, Err: err})
		return fallback(), nil
	}
	return out, nil
}

// repair points dangling references of loaded tasks back at existing
// entities, the same way deleting a category or class would have.
func (s *Store) repair() {
	for i, t := range s.tasks {
		if t.CategoryID != "" && s.categoryIndex(t.CategoryID) < 0 {
			s.log.Warn("task references unknown category", "task", t.ID, "category", t.CategoryID)
			s.tasks[i].CategoryID = DefaultCategoryID
		}
		kept := make([]string, 0, len(t.ClassIDs))
		for _, id := range t.ClassIDs {
			if s.classIndex(id) < 0 {
				s.log.Warn("task references unknown class", "task", t.ID, "class", id)
				continue
			}
			kept = append(kept, id)
		}
		s.tasks[i].ClassIDs = dedupe(kept)
	}
}

// commit writes the given collections and, once they are durable, emits the
// notification. An empty title means the operation does not notify.
func (s *Store) commit(title, detail string, keys ...string) error {
	for _, key := range keys {
		var (
			bs  []byte
			err error
		)
		switch key {
		case KeyTasks:
			bs, err = EncodeTasks(s.tasks)
		case KeyCategories:
			bs, err = EncodeCategories(s.categories)
		case KeyClasses:
			bs, err = EncodeClasses(s.classes)
		}
		if err == nil {
			err = s.persist.Save(key, bs)
		}
		if err != nil {
			s.log.Error("failed to persist collection", "key", key, "err", err)
			return &PersistError{Key: key, Err: err}
		}
	}
	if title != "" && s.notify != nil {
		s.notify.Notify(title, detail)
	}
	return nil
}

func (s *Store) validateTask(title, categoryID string, classIDs []string, p Priority) (string, []string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if categoryID != "" && s.categoryIndex(categoryID) < 0 {
		return "", nil, &ValidationError{Field: "categoryId", Reason: fmt.Sprintf("unknown category %q", categoryID)}
	}
	for _, id := range classIDs {
		if s.classIndex(id) < 0 {
			return "", nil, &ValidationError{Field: "classIds", Reason: fmt.Sprintf("unknown class %q", id)}
		}
	}
	if !p.Valid() {
		return "", nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", p)}
	}
	return title, dedupe(classIDs), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return name, nil
}

// AddTask appends a new task at the end of the whole collection, regardless
// of the active category. If only the save fails, the created task is
// returned together with a *PersistError.
func (s *Store) AddTask(in TaskInput) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title, classIDs, err := s.validateTask(in.Title, in.CategoryID, in.ClassIDs, in.Priority)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          s.newID(),
		Title:       title,
		Description: in.Description,
		Completed:   in.Completed,
		CategoryID:  in.CategoryID,
		ClassIDs:    classIDs,
		CreatedAt:   s.now(),
		Order:       len(s.tasks),
		DueDate:     in.DueDate,
		Priority:    in.Priority,
	}
	t = t.clone()
	s.tasks = append(s.tasks, t)
	s.log.Debug("task added", "id", t.ID, "order", t.Order)

	detail := fmt.Sprintf(`"%s" has been added to your tasks`, t.Title)
	return t.clone(), s.commit("Task created", detail, KeyTasks)
}

// UpdateTask replaces the stored task with the same id. Every field but the
// creation time is taken from t.
func (s *Store) UpdateTask(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(t.ID)
	if i < 0 {
		return &NotFoundError{Kind: "task", ID: t.ID}
	}
	title, classIDs, err := s.validateTask(t.Title, t.CategoryID, t.ClassIDs, t.Priority)
	if err != nil {
		return err
	}
	t = t.clone()
	t.Title = title
	t.ClassIDs = classIDs
	t.CreatedAt = s.tasks[i].CreatedAt
	s.tasks[i] = t
	s.log.Debug("task updated", "id", t.ID)

	return s.commit("Task updated", fmt.Sprintf(`"%s" has been updated`, t.Title), KeyTasks)
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "task", ID: id}
	}
	deleted := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.activeTask == id {
		s.activeTask = ""
	}
	s.log.Debug("task deleted", "id", id)

	return s.commit("Task deleted", fmt.Sprintf(`"%s" has been removed`, deleted.Title), KeyTasks)
}

// ToggleTaskCompletion flips the completed flag. Unlike the other mutations
// it does not notify.
func (s *Store) ToggleTaskCompletion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "task", ID: id}
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.log.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return s.commit("", "", KeyTasks)
}

func (s *Store) AddCategory(in CategoryInput) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validateName(in.Name)
	if err != nil {
		return Category{}, err
	}
	c := Category{ID: s.newID(), Name: name, Color: in.Color}
	s.categories = append(s.categories, c)
	s.log.Debug("category added", "id", c.ID)

	detail := fmt.Sprintf(`"%s" category has been created`, c.Name)
	return c, s.commit("Category created", detail, KeyCategories)
}

func (s *Store) UpdateCategory(c Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(c.ID)
	if i < 0 {
		return &NotFoundError{Kind: "category", ID: c.ID}
	}
	name, err := validateName(c.Name)
	if err != nil {
		return err
	}
	c.Name = name
	s.categories[i] = c
	s.log.Debug("category updated", "id", c.ID)

	return s.commit("Category updated", fmt.Sprintf(`"%s" category has been updated`, c.Name), KeyCategories)
}

// DeleteCategory removes a category and moves its tasks to the default one.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == DefaultCategoryID {
		return ErrDefaultCategory
	}
	i := s.categoryIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "category", ID: id}
	}
	deleted := s.categories[i]
	s.categories = append(s.categories[:i], s.categories[i+1:]...)

	moved := 0
	for j := range s.tasks {
		if s.tasks[j].CategoryID == id {
			s.tasks[j].CategoryID = DefaultCategoryID
			moved++
		}
	}
	if s.activeCategory == id {
		s.activeCategory = ""
	}
	s.log.Debug("category deleted", "id", id, "tasks_moved", moved)

	detail := fmt.Sprintf(`"%s" category has been removed`, deleted.Name)
	return s.commit("Category deleted", detail, KeyCategories, KeyTasks)
}

func (s *Store) AddCustomClass(in ClassInput) (Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validateName(in.Name)
	if err != nil {
		return Class{}, err
	}
	c := Class{ID: s.newID(), Name: name, Color: in.Color}
	s.classes = append(s.classes, c)
	s.log.Debug("class added", "id", c.ID)

	return c, s.commit("Class created", fmt.Sprintf(`"%s" class has been created`, c.Name), KeyClasses)
}

func (s *Store) UpdateCustomClass(c Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.classIndex(c.ID)
	if i < 0 {
		return &NotFoundError{Kind: "class", ID: c.ID}
	}
	name, err := validateName(c.Name)
	if err != nil {
		return err
	}
	c.Name = name
	s.classes[i] = c
	s.log.Debug("class updated", "id", c.ID)

	return s.commit("Class updated", fmt.Sprintf(`"%s" class has been updated`, c.Name), KeyClasses)
}

// DeleteCustomClass removes a class and strips it from every task.
func (s *Store) DeleteCustomClass(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.classIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "class", ID: id}
	}
	deleted := s.classes[i]
	s.classes = append(s.classes[:i], s.classes[i+1:]...)

	for j, t := range s.tasks {
		kept := make([]string, 0, len(t.ClassIDs))
		for _, c := range t.ClassIDs {
			if c != id {
				kept = append(kept, c)
			}
		}
		s.tasks[j].ClassIDs = kept
	}
	s.log.Debug("class deleted", "id", id)

	detail := fmt.Sprintf(`"%s" class has been removed`, deleted.Name)
	return s.commit("Class deleted", detail, KeyClasses, KeyTasks)
}

// ReorderTasks moves the task at src to dst within the active view (see
// ActiveView) and renumbers the view's orders from zero. Tasks outside the
// active category keep their order.
func (s *Store) ReorderTasks(src, dst int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewIndexes(Filter{Category: s.activeCategory})
	n := len(view)
	if src < 0 || src >= n {
		return indexError("source index", src, n)
	}
	if dst < 0 || dst >= n {
		return indexError("destination index", dst, n)
	}

	moved := view[src]
	view = append(view[:src], view[src+1:]...)
	view = insert(view, dst, moved)
	for order, i := range view {
		s.tasks[i].Order = order
	}

	// the unfiltered view covers every task, so the collection takes its order
	if s.activeCategory == "" {
		reordered := make([]Task, len(view))
		for pos, i := range view {
			reordered[pos] = s.tasks[i]
		}
		s.tasks = reordered
	}
	s.log.Debug("tasks reordered", "from", src, "to", dst, "category", s.activeCategory)
	return s.commit("", "", KeyTasks)
}

// SetActiveCategory selects the category filter reorders apply to. An empty
// id selects all tasks.
func (s *Store) SetActiveCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.categoryIndex(id) < 0 {
		return &NotFoundError{Kind: "category", ID: id}
	}
	s.activeCategory = id
	return nil
}

func (s *Store) ActiveCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCategory
}

// SetActiveTask selects the task the focus timer runs for. An empty id
// clears it.
func (s *Store) SetActiveTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.taskIndex(id) < 0 {
		return &NotFoundError{Kind: "task", ID: id}
	}
	s.activeTask = id
	return nil
}

func (s *Store) ActiveTask() (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.taskIndex(s.activeTask)
	if s.activeTask == "" || i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Tasks returns a copy of all tasks in collection order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category{}, s.categories...)
}

func (s *Store) Classes() []Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Class{}, s.classes...)
}

func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.taskIndex(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

func (s *Store) Category(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.categoryIndex(id)
	if i < 0 {
		return Category{}, false
	}
	return s.categories[i], true
}

func (s *Store) Class(id string) (Class, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.classIndex(id)
	if i < 0 {
		return Class{}, false
	}
	return s.classes[i], true
}

// Snapshot copies all three collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		ts[i] = t.clone()
	}
	return NewSnapshot(ts, append([]Category{}, s.categories...), append([]Class{}, s.classes...))
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryIndex(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) classIndex(id string) int {
	for i, c := range s.classes {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// viewIndexes returns the positions in s.tasks matching f, sorted by order.
// Equal orders keep their collection order.
func (s *Store) viewIndexes(f Filter) []int {
	out := []int{}
	for i, t := range s.tasks {
		if f.match(t) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return s.tasks[out[a]].Order < s.tasks[out[b]].Order
	})
	return out
}

func insert(a []int, index int, value int) []int {
	if len(a) == index { // nil or empty slice or after last element
		return append(a, value)
	}
	a = append(a[:index+1], a[index:]...) // index < len(a)
	a[index] = value
	return a
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
