package services

import (
	"context"
	"fmt"
	"iter"
	"time"

	"ecotrack/internal/amqp"
	"ecotrack/internal/core"
	applog "ecotrack/internal/log"
	"ecotrack/internal/store"
)

// EventPublisher receives one event per persisted change.
type EventPublisher interface {
	PublishActivityEvent(ctx context.Context, event *amqp.ActivityEvent) error
}

// ActivityLog owns the in-memory activity collection. Its methods are the
// only way to change it, and every change is saved through the store before
// the method returns. Not safe for concurrent use.
type ActivityLog struct {
	store     store.Store
	publisher EventPublisher
	logger    *applog.Logger
	now       func() time.Time
	items     []core.Activity
}

// Option customizes an ActivityLog.
type Option func(*ActivityLog)

// WithPublisher publishes change events after each successful save.
func WithPublisher(p EventPublisher) Option {
	return func(l *ActivityLog) { l.publisher = p }
}

// WithLogger sets the logger used for operation records.
func WithLogger(logger *applog.Logger) Option {
	return func(l *ActivityLog) { l.logger = logger }
}

// WithClock replaces time.Now when defaulting blank dates.
func WithClock(now func() time.Time) Option {
	return func(l *ActivityLog) { l.now = now }
}

// NewActivityLog loads the collection from st.
func NewActivityLog(ctx context.Context, st store.Store, opts ...Option) (*ActivityLog, error) {
	l := &ActivityLog{
		store:  st,
		logger: applog.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent(applog.ComponentActivity)

	items, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	l.items = items

	l.logger.InfoContext(ctx, "Activity log loaded",
		applog.NewFields().WithOperation(applog.OpLoad).WithCount(len(items)).ToSlice()...)
	return l, nil
}

// Len returns the number of activities.
func (l *ActivityLog) Len() int {
	return len(l.items)
}

// All yields every activity with its 1-based position, in insertion order.
// Each call starts over from the first activity.
func (l *ActivityLog) All() iter.Seq2[int, core.Activity] {
	return func(yield func(int, core.Activity) bool) {
		for i, a := range l.items {
			if !yield(i+1, a) {
				return
			}
		}
	}
}

// Activities returns a copy of the collection.
func (l *ActivityLog) Activities() []core.Activity {
	out := make([]core.Activity, len(l.items))
	copy(out, l.items)
	return out
}

// Select resolves user input naming a 1-based position. It returns the
// zero-based index together with the activity stored there.
func (l *ActivityLog) Select(input string) (int, core.Activity, error) {
	idx, err := core.ParseIndex(input, len(l.items))
	if err != nil {
		return 0, core.Activity{}, err
	}
	return idx, l.items[idx], nil
}

// Add appends a new activity built from in and saves the collection.
func (l *ActivityLog) Add(ctx context.Context, in core.NewActivity) (core.Activity, error) {
	a := in.Build(l.now())
	l.items = append(l.items, a)

	if err := l.save(ctx); err != nil {
		l.items = l.items[:len(l.items)-1]
		return core.Activity{}, fmt.Errorf("add activity: %w", err)
	}

	position := len(l.items)
	l.logger.InfoContext(ctx, "Activity added",
		applog.NewFields().WithOperation(applog.OpCreate).WithPosition(position).WithActivity(a).ToSlice()...)
	l.publish(ctx, amqp.OpCreate, position, a)
	return a, nil
}

// Update replaces the description and impact of the activity at the
// zero-based index. Blank input keeps the current value; date and category
// never change.
func (l *ActivityLog) Update(ctx context.Context, index int, description, impact string) (core.Activity, error) {
	if index < 0 || index >= len(l.items) {
		return core.Activity{}, core.ErrInvalidSelection
	}

	prev := l.items[index]
	next := prev
	if !core.IsBlank(description) {
		next.Description = description
	}
	if !core.IsBlank(impact) {
		next.Impact = core.Capitalize(impact)
	}
	l.items[index] = next

	if err := l.save(ctx); err != nil {
		l.items[index] = prev
		return core.Activity{}, fmt.Errorf("update activity %d: %w", index+1, err)
	}

	l.logger.InfoContext(ctx, "Activity updated",
		applog.NewFields().WithOperation(applog.OpUpdate).WithPosition(index+1).WithActivity(next).ToSlice()...)
	l.publish(ctx, amqp.OpUpdate, index+1, next)
	return next, nil
}

// Delete removes the activity at the zero-based index; later activities
// move one position earlier.
func (l *ActivityLog) Delete(ctx context.Context, index int) (core.Activity, error) {
	if index < 0 || index >= len(l.items) {
		return core.Activity{}, core.ErrInvalidSelection
	}

	prev := l.items
	removed := prev[index]
	next := make([]core.Activity, 0, len(prev)-1)
	next = append(next, prev[:index]...)
	next = append(next, prev[index+1:]...)
	l.items = next

	if err := l.save(ctx); err != nil {
		l.items = prev
		return core.Activity{}, fmt.Errorf("delete activity %d: %w", index+1, err)
	}

	l.logger.InfoContext(ctx, "Activity deleted",
		applog.NewFields().WithOperation(applog.OpDelete).WithPosition(index+1).WithActivity(removed).ToSlice()...)
	l.publish(ctx, amqp.OpDelete, index+1, removed)
	return removed, nil
}

// SummaryByCategory counts activities per category in first-seen order.
func (l *ActivityLog) SummaryByCategory() []core.LabelCount {
	return core.CountBy(l.items, core.ByCategory)
}

// SummaryByDate counts activities per date string in first-seen order.
func (l *ActivityLog) SummaryByDate() []core.LabelCount {
	return core.CountBy(l.items, core.ByDate)
}

func (l *ActivityLog) save(ctx context.Context) error {
	if err := l.store.Save(ctx, l.items); err != nil {
		l.logger.ErrorContext(ctx, "Failed to save activities",
			applog.NewFields().WithOperation(applog.OpSave).WithErrorType(applog.ErrorTypeStorage).WithError(err).ToSlice()...)
		return err
	}
	return nil
}

// publish never fails the operation: the change is already saved.
func (l *ActivityLog) publish(ctx context.Context, op string, position int, a core.Activity) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishActivityEvent(ctx, amqp.NewActivityEvent(op, position, a)); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish activity event",
			applog.NewFields().WithOperation(applog.OpPublish).WithPosition(position).
				WithErrorType(applog.ErrorTypeNetwork).WithError(err).ToSlice()...)
	}
}
