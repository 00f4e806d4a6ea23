// Package dashboard keeps transactions, analytics aggregates, budgets and the
// derived summary mutually consistent. The discipline is fetch-then-recompute:
// after any mutation the affected aggregates are re-fetched from the server
// rather than merged locally, the only exception being a single optimistic
// prepend on transaction creation that the immediate refresh reconciles.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Wellerson-M/controle-financeiro/internal/api"
	"github.com/Wellerson-M/controle-financeiro/internal/core"
	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
	"github.com/Wellerson-M/controle-financeiro/internal/session"
)

// Coordinator sequences fetches and mutations against the API and holds the
// client-side copy of dashboard state.
//
// Every refresh round gets a generation number. A setter only applies while
// its round is still the newest one, so a slow response arriving after a newer
// refresh started is provably discarded instead of clobbering fresher data.
// Requests themselves are never cancelled once dispatched; late results are
// simply ignored.
type Coordinator struct {
	api     *api.Client
	session *session.Store
	log     *applog.Logger
	group   singleflight.Group

	mu           sync.Mutex
	gen          uint64
	transactions []core.Transaction
	summary      core.Summary
	overview     api.Overview
	hasOverview  bool
	monthly      core.MonthlyAggregate
	byCategory   core.CategoryAggregate
	budgets      []core.Budget
}

// Snapshot is a point-in-time copy of coordinator state for rendering.
// Summary is the local fold over Transactions; Overview is the server's own
// aggregate, present once a refresh has fetched it. Keeping both lets a view
// show the authoritative figure next to the one derived from the data it is
// actually rendering.
type Snapshot struct {
	Transactions []core.Transaction
	Summary      core.Summary
	Overview     api.Overview
	HasOverview  bool
	Monthly      core.MonthlyAggregate
	ByCategory   core.CategoryAggregate
	Budgets      []core.Budget
}

// BudgetProgress pairs a budget with its spend-vs-goal percentage.
type BudgetProgress struct {
	Budget  core.Budget
	Percent int
}

func NewCoordinator(client *api.Client, sess *session.Store) *Coordinator {
	return &Coordinator{
		api:     client,
		session: sess,
		log:     applog.Default().WithComponent(applog.ComponentDashboard),
	}
}

// LoadAll refreshes transactions, the server overview, monthly analytics,
// category analytics and budgets, in that order. Each fetch is isolated: its
// setter applies only on its own success, so one failure leaves the other
// aggregates intact.
// Failures are logged and also returned joined, for callers that want to
// surface them; partial state is still usable either way. Concurrent calls
// collapse into a single refresh.
func (c *Coordinator) LoadAll(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		return nil, c.refreshAll(ctx)
	})
	return err
}

func (c *Coordinator) refreshAll(ctx context.Context) error {
	gen := c.beginRound()
	token := c.session.Token()

	var errs []error
	if txs, err := c.api.ListTransactions(ctx, token); err != nil {
		c.log.WarnContext(ctx, "refresh transactions failed", applog.FieldError, err)
		errs = append(errs, err)
	} else {
		c.applyTransactions(gen, txs)
	}

	if ov, err := c.api.GetOverview(ctx, token); err != nil {
		c.log.WarnContext(ctx, "refresh overview failed", applog.FieldError, err)
		errs = append(errs, err)
	} else {
		c.applyOverview(gen, ov)
	}

	if monthly, err := c.api.GetMonthlyAnalytics(ctx, token); err != nil {
		c.log.WarnContext(ctx, "refresh monthly analytics failed", applog.FieldError, err)
		errs = append(errs, err)
	} else {
		c.applyMonthly(gen, monthly)
	}

	if byCat, err := c.api.GetCategoryAnalytics(ctx, token); err != nil {
		c.log.WarnContext(ctx, "refresh category analytics failed", applog.FieldError, err)
		errs = append(errs, err)
	} else {
		c.applyCategories(gen, byCat)
	}

	if budgets, err := c.api.ListBudgets(ctx, token); err != nil {
		c.log.WarnContext(ctx, "refresh budgets failed", applog.FieldError, err)
		errs = append(errs, err)
	} else {
		c.applyBudgets(gen, budgets)
	}

	return errors.Join(errs...)
}

// AddTransaction validates the input, creates the transaction, optimistically
// prepends the returned record and then refreshes everything so the cached
// list and summary reflect server state rather than the prepend. On failure
// prior state is untouched and the error is returned for the caller to
// surface.
func (c *Coordinator) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tr, err := c.api.CreateTransaction(ctx, c.session.Token(), in)
	if err != nil {
		return core.Transaction{}, err
	}

	c.log.DebugContext(ctx, "transaction created", applog.NewFields().
		WithOperation("create transaction").
		WithTransaction(tr.Description, string(tr.Kind), tr.Category, tr.Amount.String()).
		ToSlice()...)

	c.mu.Lock()
	c.transactions = append([]core.Transaction{tr}, c.transactions...)
	c.summary = core.Summarize(c.transactions)
	c.mu.Unlock()

	if err := c.LoadAll(ctx); err != nil {
		// The mutation itself succeeded; a failed reconcile just leaves the
		// optimistic state in place until the next refresh.
		c.log.WarnContext(ctx, "post-create refresh incomplete", applog.FieldError, err)
	}
	return tr, nil
}

// UpdateTransaction replaces a transaction server-side, then refreshes.
func (c *Coordinator) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tr, err := c.api.UpdateTransaction(ctx, c.session.Token(), id, in)
	if err != nil {
		return core.Transaction{}, err
	}
	c.reloadAfterMutation(ctx, "update transaction")
	return tr, nil
}

// DeleteTransaction removes a transaction server-side, then refreshes.
func (c *Coordinator) DeleteTransaction(ctx context.Context, id int64) error {
	if err := c.api.DeleteTransaction(ctx, c.session.Token(), id); err != nil {
		return err
	}
	c.reloadAfterMutation(ctx, "delete transaction")
	return nil
}

// MarkPaid settles a transaction server-side, then refreshes.
func (c *Coordinator) MarkPaid(ctx context.Context, id int64) (core.Transaction, error) {
	tr, err := c.api.MarkPaid(ctx, c.session.Token(), id)
	if err != nil {
		return core.Transaction{}, err
	}
	c.reloadAfterMutation(ctx, "mark paid")
	return tr, nil
}

// CreateBudget creates a budget, then reloads the budget list. On failure no
// local budget state changes.
func (c *Coordinator) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	b, err := c.api.CreateBudget(ctx, c.session.Token(), in)
	if err != nil {
		return core.Budget{}, err
	}
	c.log.DebugContext(ctx, "budget created", applog.NewFields().
		WithOperation("create budget").
		WithBudget(b.Category, string(b.Period)).
		ToSlice()...)
	if err := c.RefreshBudgets(ctx); err != nil {
		c.log.WarnContext(ctx, "post-create budget refresh failed", applog.FieldError, err)
	}
	return b, nil
}

// UpdateBudget updates a budget, then reloads the budget list.
func (c *Coordinator) UpdateBudget(ctx context.Context, id int64, in core.BudgetInput) (core.Budget, error) {
	if err := in.Validate(); err != nil {
		return core.Budget{}, err
	}
	b, err := c.api.UpdateBudget(ctx, c.session.Token(), id, in)
	if err != nil {
		return core.Budget{}, err
	}
	if err := c.RefreshBudgets(ctx); err != nil {
		c.log.WarnContext(ctx, "post-update budget refresh failed", applog.FieldError, err)
	}
	return b, nil
}

// DeleteBudget deletes a budget, then reloads the budget list.
func (c *Coordinator) DeleteBudget(ctx context.Context, id int64) error {
	if err := c.api.DeleteBudget(ctx, c.session.Token(), id); err != nil {
		return err
	}
	if err := c.RefreshBudgets(ctx); err != nil {
		c.log.WarnContext(ctx, "post-delete budget refresh failed", applog.FieldError, err)
	}
	return nil
}

// RefreshBudgets reloads only the budget aggregate.
func (c *Coordinator) RefreshBudgets(ctx context.Context) error {
	gen := c.beginRound()
	budgets, err := c.api.ListBudgets(ctx, c.session.Token())
	if err != nil {
		return err
	}
	c.applyBudgets(gen, budgets)
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Transactions: make([]core.Transaction, len(c.transactions)),
		Summary:      c.summary,
		Overview:     c.overview,
		HasOverview:  c.hasOverview,
		Monthly:      make(core.MonthlyAggregate, len(c.monthly)),
		ByCategory:   make(core.CategoryAggregate, len(c.byCategory)),
		Budgets:      make([]core.Budget, len(c.budgets)),
	}
	copy(snap.Transactions, c.transactions)
	copy(snap.Budgets, c.budgets)
	for k, v := range c.monthly {
		snap.Monthly[k] = v
	}
	for k, v := range c.byCategory {
		snap.ByCategory[k] = v
	}
	return snap
}

// BudgetProgressRows derives spend-vs-goal percentages for every budget from
// the aggregates loaded by the last refresh. Purely local, no network.
func (c *Coordinator) BudgetProgressRows() []BudgetProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]BudgetProgress, 0, len(c.budgets))
	for _, b := range c.budgets {
		rows = append(rows, BudgetProgress{
			Budget:  b,
			Percent: core.ProgressPercent(b, c.byCategory, c.monthly),
		})
	}
	return rows
}

// beginRound stamps a new refresh generation, invalidating the setters of any
// still-running older round.
func (c *Coordinator) beginRound() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

func (c *Coordinator) current(gen uint64) bool {
	if gen != c.gen {
		c.log.Debug("discarding stale refresh result", "generation", gen, "current", c.gen)
		return false
	}
	return true
}

func (c *Coordinator) applyTransactions(gen uint64, txs []core.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		return
	}
	c.transactions = txs
	c.summary = core.Summarize(txs)
}

func (c *Coordinator) applyOverview(gen uint64, ov api.Overview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		return
	}
	c.overview = ov
	c.hasOverview = true
}

func (c *Coordinator) applyMonthly(gen uint64, agg core.MonthlyAggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		return
	}
	c.monthly = agg
}

func (c *Coordinator) applyCategories(gen uint64, agg core.CategoryAggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		return
	}
	c.byCategory = agg
}

func (c *Coordinator) applyBudgets(gen uint64, budgets []core.Budget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		return
	}
	c.budgets = budgets
}

func (c *Coordinator) reloadAfterMutation(ctx context.Context, op string) {
	if err := c.LoadAll(ctx); err != nil {
		c.log.WarnContext(ctx, "refresh after mutation incomplete", applog.NewFields().
			WithOperation(op).
			WithError(err).
			ToSlice()...)
	}
}
