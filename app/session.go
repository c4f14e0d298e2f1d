package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"annexval/domain/coercion"
	"annexval/domain/core"
	"annexval/domain/rules"
	"annexval/domain/table"
	"annexval/domain/validation"
	"annexval/ports"
)

// DefaultPreviewRows is how many leading rows a before/after preview shows.
const DefaultPreviewRows = 5

// ErrNoPendingFix is returned when a confirm, abandon or preview names a
// field with no unconfirmed coercion.
var ErrNoPendingFix = errors.New("no pending fix for field")

// DatasetSession owns the mutable working copy of one dataset for one
// operator. All access goes through the session's lock: one session is
// never shared across operators, but the HTTP layer may hit it from
// concurrent requests.
type DatasetSession struct {
	id        core.SessionID
	createdAt core.Timestamp

	spec   *rules.ValidationSpec
	states *rules.StateMaster

	mu         sync.RWMutex
	original   *table.Table // pristine copy for reset
	working    *table.Table
	before     map[string][]table.Value // unconfirmed fixes: field -> pre-coercion column
	report     *validation.Report
	lastActive core.Timestamp

	engine  *validation.Engine
	applier *coercion.Applier
}

// NewDatasetSession builds a session around its own deep copies of the
// dataset and runs the first validation pass.
func NewDatasetSession(spec *rules.ValidationSpec, states *rules.StateMaster, data *table.Table) *DatasetSession {
	s := &DatasetSession{
		id:         core.SessionID(core.NewID()),
		createdAt:  core.Now(),
		spec:       spec,
		states:     states,
		original:   data.Clone(),
		working:    data.Clone(),
		before:     make(map[string][]table.Value),
		lastActive: core.Now(),
		engine:     validation.NewEngine(),
		applier:    coercion.NewApplier(),
	}
	s.report = s.engine.Validate(s.spec, s.working)
	return s
}

// ID returns the session identifier.
func (s *DatasetSession) ID() core.SessionID {
	return s.id
}

// CreatedAt returns when the session was opened.
func (s *DatasetSession) CreatedAt() core.Timestamp {
	return s.createdAt
}

// LastActiveAt returns the time of the last operator action.
func (s *DatasetSession) LastActiveAt() core.Timestamp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// StateMaster exposes the run's reference state names.
func (s *DatasetSession) StateMaster() *rules.StateMaster {
	return s.states
}

// Report returns the findings from the latest validation pass.
func (s *DatasetSession) Report() *validation.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Snapshot returns a deep copy of the current working dataset.
func (s *DatasetSession) Snapshot() *table.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working.Clone()
}

// Validate re-runs the engine against the current working copy.
func (s *DatasetSession) Validate() *validation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = s.engine.Validate(s.spec, s.working)
	s.touch()
	return s.report
}

// ApplyCoercion coerces one column on the working copy and re-validates.
// The pre-coercion column is retained for preview until the fix is
// confirmed or abandoned; repeated coercions of the same field keep the
// earliest unconfirmed column so abandon returns to the pre-fix state.
func (s *DatasetSession) ApplyCoercion(req coercion.Request) (coercion.Result, *validation.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var retained []table.Value
	if _, pending := s.before[req.Field]; !pending {
		column, err := s.working.Column(req.Field)
		if err != nil {
			return coercion.Result{}, nil, &coercion.Error{Field: req.Field, Reason: "column not present in dataset"}
		}
		retained = column
	}

	result, err := s.applier.Apply(s.working, req)
	if err != nil {
		return result, nil, err
	}

	if retained != nil {
		s.before[req.Field] = retained
	}
	s.report = s.engine.Validate(s.spec, s.working)
	s.touch()
	return result, s.report, nil
}

// PreviewPair shows the leading rows of a column before and after an
// unconfirmed fix.
type PreviewPair struct {
	Field  string   `json:"field"`
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// Preview returns up to n rows of the pending fix's before/after columns.
func (s *DatasetSession) Preview(field string, n int) (PreviewPair, error) {
	if n <= 0 {
		n = DefaultPreviewRows
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	beforeColumn, ok := s.before[field]
	if !ok {
		return PreviewPair{}, fmt.Errorf("field %q: %w", field, ErrNoPendingFix)
	}
	afterColumn, err := s.working.Column(field)
	if err != nil {
		return PreviewPair{}, err
	}

	return PreviewPair{
		Field:  field,
		Before: headStrings(beforeColumn, n),
		After:  headStrings(afterColumn, n),
	}, nil
}

// ConfirmFix accepts a pending coercion, discarding the retained column.
func (s *DatasetSession) ConfirmFix(field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.before[field]; !ok {
		return fmt.Errorf("field %q: %w", field, ErrNoPendingFix)
	}
	delete(s.before, field)
	s.touch()
	return nil
}

// AbandonFix restores the retained column and re-validates.
func (s *DatasetSession) AbandonFix(field string) (*validation.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	column, ok := s.before[field]
	if !ok {
		return nil, fmt.Errorf("field %q: %w", field, ErrNoPendingFix)
	}
	if err := s.working.SetColumn(field, column); err != nil {
		return nil, err
	}
	delete(s.before, field)
	s.report = s.engine.Validate(s.spec, s.working)
	s.touch()
	return s.report, nil
}

// Reset discards every coercion, returning the working copy to the
// originally loaded dataset.
func (s *DatasetSession) Reset() *validation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = s.original.Clone()
	s.before = make(map[string][]table.Value)
	s.report = s.engine.Validate(s.spec, s.working)
	s.touch()
	return s.report
}

// Export serializes the current snapshot. Outstanding findings never block
// an export; validation is advisory.
func (s *DatasetSession) Export(ctx context.Context, exporter ports.Exporter, w io.Writer) error {
	snapshot := s.Snapshot()

	s.mu.Lock()
	s.touch()
	s.mu.Unlock()

	return exporter.Export(ctx, snapshot, w)
}

// PendingFields lists fields with an unconfirmed coercion, in dataset
// column order.
func (s *DatasetSession) PendingFields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fields []string
	for _, name := range s.working.Columns() {
		if _, ok := s.before[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

// Status is a read-only snapshot of the session for listings.
type Status struct {
	ID            core.SessionID `json:"id"`
	CreatedAt     core.Timestamp `json:"created_at"`
	LastActiveAt  core.Timestamp `json:"last_active_at"`
	Rows          int            `json:"rows"`
	Columns       int            `json:"columns"`
	RuleFields    int            `json:"rule_fields"`
	NonFixable    int            `json:"non_fixable"`
	Fixable       int            `json:"fixable"`
	PendingFields []string       `json:"pending_fields"`
}

// Status summarizes the session.
func (s *DatasetSession) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []string
	for _, name := range s.working.Columns() {
		if _, ok := s.before[name]; ok {
			pending = append(pending, name)
		}
	}

	return Status{
		ID:            s.id,
		CreatedAt:     s.createdAt,
		LastActiveAt:  s.lastActive,
		Rows:          s.working.NumRows(),
		Columns:       s.working.NumColumns(),
		RuleFields:    s.spec.Len(),
		NonFixable:    len(s.report.NonFixable),
		Fixable:       len(s.report.Fixable),
		PendingFields: pending,
	}
}

func (s *DatasetSession) touch() {
	s.lastActive = core.Now()
}

func headStrings(column []table.Value, n int) []string {
	if n > len(column) {
		n = len(column)
	}
	head := make([]string, 0, n)
	for _, v := range column[:n] {
		head = append(head, v.String())
	}
	return head
}
