// Package audit runs physical inventory counts and turns them into valued
// inventory records.
package audit

import (
	"fmt"
	"sync"
	"time"

	"cmvboard/internal/catalog"
	"cmvboard/internal/models"
	"cmvboard/internal/monitoring"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// State of the audit session
type State string

const (
	StateIdle     State = "idle"
	StateCounting State = "counting"
)

// Engine is the audit state machine. Finalize is irreversible: the counted
// quantities overwrite system stock and the pre-audit levels are only
// recoverable from the movement ledger.
type Engine struct {
	mu sync.Mutex

	store   *catalog.Store
	log     logrus.FieldLogger
	monitor *monitoring.Monitor
	newID   func() string

	state     State
	startedAt time.Time
	counts    map[string]float64
	order     []string
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMonitor sets the metrics sink
func WithMonitor(m *monitoring.Monitor) Option {
	return func(e *Engine) {
		e.monitor = m
	}
}

// WithIDGenerator replaces the uuid generator
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an idle audit engine over store
func NewEngine(store *catalog.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   logrus.StandardLogger(),
		newID: uuid.NewString,
		state: StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current session state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Session is a read-only view of the running audit
type Session struct {
	State     State              `json:"state"`
	StartedAt time.Time          `json:"startedAt,omitempty"`
	Counts    map[string]float64 `json:"counts,omitempty"`
}

// Session returns a copy of the current session
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Session{State: e.state, StartedAt: e.startedAt}
	if e.state == StateCounting {
		s.Counts = make(map[string]float64, len(e.counts))
		for id, q := range e.counts {
			s.Counts[id] = q
		}
	}
	return s
}

// Start opens a counting session. Every ingredient starts counted at its
// current system stock.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateCounting {
		return models.ErrAuditInProgress
	}

	ingredients := e.store.Ingredients()
	e.counts = make(map[string]float64, len(ingredients))
	e.order = make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		e.counts[ing.ID] = ing.CurrentStock
		e.order = append(e.order, ing.ID)
	}
	e.state = StateCounting
	e.startedAt = e.store.Now()

	e.log.WithField("ingredients", len(e.order)).Info("audit started")
	return nil
}

// SetCount stores the counted quantity for an ingredient. Zero is a valid count.
func (e *Engine) SetCount(ingredientID string, counted float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCounting {
		return models.ErrAuditNotStarted
	}
	if !models.IsCount(counted) {
		return fmt.Errorf("%w: %v", models.ErrInvalidQuantity, counted)
	}
	if _, ok := e.counts[ingredientID]; !ok {
		// ingredients added after Start can still be counted
		if _, exists := e.store.Ingredient(ingredientID); !exists {
			return fmt.Errorf("%w: %s", models.ErrUnknownIngredient, ingredientID)
		}
		e.order = append(e.order, ingredientID)
	}
	e.counts[ingredientID] = counted
	return nil
}

// Cancel discards the session without touching the catalog
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCounting {
		return models.ErrAuditNotStarted
	}
	e.reset()
	e.log.Info("audit cancelled")
	return nil
}

// Finalize overwrites system stock with the counted quantities and stores
// the valued inventory record. The session returns to idle.
func (e *Engine) Finalize() (models.InventoryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCounting {
		return models.InventoryRecord{}, models.ErrAuditNotStarted
	}

	var record models.InventoryRecord
	err := e.store.Update(func(tx *catalog.Tx) error {
		now := tx.Now()
		total, snapshot, missing := Valuate(e.order, e.counts, tx.Ingredient)
		for _, id := range missing {
			e.log.WithField("ingredient_id", id).Warn("counted ingredient no longer in catalog, skipped")
		}

		for _, entry := range snapshot {
			ing, _ := tx.Ingredient(entry.IngredientID)
			ing.CurrentStock = entry.Quantity
			ing.LastUpdated = now
			if err := tx.PutIngredient(ing); err != nil {
				return err
			}
		}

		record = models.InventoryRecord{
			ID:           e.newID(),
			Date:         now,
			TotalValue:   total,
			ItemsCounted: len(snapshot),
			Snapshot:     snapshot,
		}
		tx.AppendInventoryRecord(record)
		return nil
	})
	if err != nil {
		return models.InventoryRecord{}, err
	}
	e.reset()

	e.log.WithFields(logrus.Fields{
		"record_id":   record.ID,
		"items":       record.ItemsCounted,
		"total_value": record.TotalValue.StringFixed(2),
	}).Info("audit finalized")
	e.monitor.RecordAudit(record.TotalValue.InexactFloat64())

	return record, nil
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.startedAt = time.Time{}
	e.counts = nil
	e.order = nil
}

// Valuate prices a count map against current unit costs. Entries follow
// order; ids that lookup cannot resolve are returned in missing and left
// out of the snapshot.
func Valuate(order []string, counts map[string]float64, lookup func(id string) (models.Ingredient, bool)) (total decimal.Decimal, snapshot []models.SnapshotEntry, missing []string) {
	total = decimal.Zero
	snapshot = make([]models.SnapshotEntry, 0, len(order))
	for _, id := range order {
		qty, ok := counts[id]
		if !ok {
			continue
		}
		ing, ok := lookup(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		total = total.Add(ing.CostPerUnit.Mul(decimal.NewFromFloat(qty)))
		snapshot = append(snapshot, models.SnapshotEntry{
			IngredientID: id,
			Quantity:     qty,
			Cost:         ing.CostPerUnit,
		})
	}
	return total, snapshot, missing
}
