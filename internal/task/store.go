package task

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"go.uber.org/zap"

	"myday/internal/clock"
	"myday/internal/storage"
)

// StorageKey is the key the collection is saved under unless overridden.
const StorageKey = "mydayTasks"

// Store is the single owner of the task collection. Every mutation is
// followed by a full write of the collection to the KV store.
//
// Store is not safe for concurrent use.
type Store struct {
	kv     storage.KV
	key    string
	clock  clock.Clock
	logger *zap.Logger

	tasks  []Task
	lastID int64
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(kv storage.KV, clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    StorageKey,
		clock:  clk,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the saved one. Missing or
// corrupt data seeds the store with DefaultTasks. A read failure also seeds
// and is returned as a *PersistenceError.
func (s *Store) Load(ctx context.Context) error {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("Failed to read saved tasks, using defaults", zap.String("key", s.key), zap.Error(err))
		s.replace(DefaultTasks(s.clock))
		return &PersistenceError{Op: "get", Key: s.key, Err: err}
	}
	if !ok {
		s.logger.Info("No saved tasks, using defaults", zap.String("key", s.key))
		s.replace(DefaultTasks(s.clock))
		return nil
	}

	tasks, err := Decode(data)
	if err != nil {
		s.logger.Warn("Saved tasks are corrupt, using defaults", zap.String("key", s.key), zap.Error(err))
		s.replace(DefaultTasks(s.clock))
		return nil
	}

	s.replace(tasks)
	s.logger.Debug("Loaded tasks", zap.Int("count", len(tasks)))
	return nil
}

func (s *Store) replace(tasks []Task) {
	s.tasks = tasks
	for _, t := range tasks {
		s.lastID = max(s.lastID, t.ID)
	}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Get(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Create appends a new task. Only an empty title is rejected; a returned
// *PersistenceError means the task was created but not saved.
func (s *Store) Create(ctx context.Context, d Draft) (Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	tags := NormalizeTags(d.Tags)
	now := s.clock.Now()
	t := Task{
		ID:          s.nextID(now.UnixMilli()),
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		DueDate:     d.DueDate,
		Priority:    normalizePriority(d.Priority),
		Category:    resolveCategory(d.Category, tags),
		Tags:        tags,
		Status:      StatusTodo,
		CreatedAt:   now.Round(0).UTC(),
	}
	s.tasks = append(s.tasks, t)
	s.logger.Debug("Created task", zap.Int64("task_id", t.ID), zap.String("title", t.Title))

	return t.clone(), s.save(ctx)
}

// nextID is time-derived but strictly greater than every id handed out so far.
func (s *Store) nextID(candidate int64) int64 {
	s.lastID = max(candidate, s.lastID+1)
	return s.lastID
}

// Update applies p to the task with the given id. An unknown id is a no-op and
// reports found=false.
func (s *Store) Update(ctx context.Context, id int64, p Patch) (Task, bool, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false, nil
	}

	t := s.tasks[i].clone()
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Task{}, true, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = normalizePriority(*p.Priority)
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if p.Category != nil {
		t.Category = resolveCategory(*p.Category, t.Tags)
	}

	s.tasks[i] = t
	s.logger.Debug("Updated task", zap.Int64("task_id", id))
	return t.clone(), true, s.save(ctx)
}

// Delete removes the task if present. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Debug("Deleted task", zap.Int64("task_id", id))
	return s.save(ctx)
}

func (s *Store) ToggleStatus(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *Task) {
		if t.Status == StatusDone {
			t.Status = StatusTodo
		} else {
			t.Status = StatusDone
		}
	})
}

func (s *Store) ToggleImportant(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(t *Task) {
		t.IsImportant = !t.IsImportant
	})
}

func (s *Store) mutate(ctx context.Context, id int64, fn func(*Task)) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	fn(&s.tasks[i])
	s.logger.Debug("Toggled task",
		zap.Int64("task_id", id),
		zap.String("status", string(s.tasks[i].Status)),
		zap.Bool("important", s.tasks[i].IsImportant),
	)
	return s.save(ctx)
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// Save writes the whole collection. Mutations call it themselves.
func (s *Store) Save(ctx context.Context) error {
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return s.saveFailed("encode", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return s.saveFailed("set", err)
	}
	return nil
}

func (s *Store) saveFailed(op string, err error) error {
	s.logger.Warn("Failed to save tasks", zap.String("op", op), zap.String("key", s.key), zap.Error(err))
	return &PersistenceError{Op: op, Key: s.key, Err: err}
}

// Encode serializes tasks as a JSON array.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(tasks)
}

func Decode(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		normalizeTask(&tasks[i])
	}
	return tasks, nil
}
