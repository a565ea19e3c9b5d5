package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"videostudio/internal/domain"
	"videostudio/internal/providers/video"
	"videostudio/internal/storage"
)

// ledger is an in-memory account and generation store that honours the same
// settlement rules as the SQL repositories.
type ledger struct {
	mu          sync.Mutex
	profiles    map[string]*domain.Profile
	generations map[string]*domain.Generation
	order       []string
	usage       map[string]int
	txs         []domain.CreditTransaction
	owned       map[string]string
	staleCutoff time.Time
	now         func() time.Time
}

func newLedger() *ledger {
	return &ledger{
		profiles:    map[string]*domain.Profile{},
		generations: map[string]*domain.Generation{},
		usage:       map[string]int{},
		owned:       map[string]string{},
		now:         time.Now,
	}
}

func (l *ledger) addProfile(id string, credits int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles[id] = &domain.Profile{ID: id, Credits: credits}
}

func (l *ledger) credits(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profiles[id].Credits
}

func (l *ledger) records() []domain.Generation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Generation, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.generations[id])
	}
	return out
}

func (l *ledger) usageRows() []domain.CreditTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.CreditTransaction
	for _, tx := range l.txs {
		if tx.Type == domain.TransactionUsage {
			out = append(out, tx)
		}
	}
	return out
}

func (l *ledger) GetByID(ctx context.Context, userID string) (*domain.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (l *ledger) Bootstrap(ctx context.Context, profile domain.Profile, welcomeCredits int) (*domain.Profile, bool, error) {
	return nil, false, errors.New("not used")
}

func (l *ledger) Grant(ctx context.Context, grant domain.Grant) (int, error) {
	return 0, errors.New("not used")
}

func (l *ledger) Create(ctx context.Context, g *domain.Generation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if g.IdempotencyKey != "" {
		for _, existing := range l.generations {
			if existing.UserID == g.UserID && existing.IdempotencyKey == g.IdempotencyKey {
				return domain.ErrDuplicateOperation
			}
		}
	}
	l.insert(g)
	return nil
}

func (l *ledger) insert(g *domain.Generation) {
	if g.Status == "" {
		g.Status = domain.StatusPending
	}
	g.ID = uuid.NewString()
	g.CreatedAt = l.now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	l.generations[g.ID] = &cp
	l.order = append(l.order, g.ID)
}

func (l *ledger) GetForUser(ctx context.Context, id, userID string) (*domain.Generation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.generations[id]
	if !ok || g.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (l *ledger) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Generation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.generations {
		if g.UserID == userID && g.IdempotencyKey == key {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (l *ledger) ListForUser(ctx context.Context, userID string, f domain.GenerationFilter) ([]domain.Generation, error) {
	return nil, errors.New("not used")
}

func (l *ledger) MarkFailed(ctx context.Context, id, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.generations[id]
	if !ok || g.Status.Terminal() {
		return nil
	}
	g.Status = domain.StatusFailed
	g.ErrorMessage = reason
	if g.Prepaid && g.CreditsUsed > 0 {
		l.profiles[g.UserID].Credits += g.CreditsUsed
		l.txs = append(l.txs, domain.CreditTransaction{UserID: g.UserID, Amount: g.CreditsUsed, Type: domain.TransactionRefund, GenerationID: id})
	}
	return nil
}

func (l *ledger) Settle(ctx context.Context, c domain.Completion) (domain.Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.generations[c.GenerationID]
	if !ok {
		return domain.Settlement{}, domain.ErrNotFound
	}
	p := l.profiles[g.UserID]
	if g.Status == domain.StatusCompleted {
		return domain.Settlement{RemainingCredits: p.Credits}, nil
	}
	if !g.Status.CanTransition(domain.StatusCompleted) {
		return domain.Settlement{}, fmt.Errorf("%w: %s -> completed", domain.ErrInvalidTransition, g.Status)
	}
	out := domain.Settlement{RemainingCredits: p.Credits}
	if c.Charge && c.Cost > 0 && l.usage[g.ID] == 0 {
		if p.Credits < c.Cost {
			return domain.Settlement{}, domain.ErrInsufficientCredit
		}
		p.Credits -= c.Cost
		l.usage[g.ID]++
		l.txs = append(l.txs, domain.CreditTransaction{UserID: g.UserID, Amount: -c.Cost, Type: domain.TransactionUsage, Description: c.Description, GenerationID: g.ID})
		out = domain.Settlement{RemainingCredits: p.Credits, Charged: true}
	}
	g.Status = domain.StatusCompleted
	g.VideoURL = c.VideoURL
	g.ThumbnailURL = c.ThumbnailURL
	g.CreditsUsed = c.Cost
	return out, nil
}

func (l *ledger) AcceptBatch(ctx context.Context, userID string, items []domain.Generation, totalCost int, policy domain.BatchSettlement) (*domain.BatchAcceptance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if p.Credits < totalCost {
		return nil, domain.ErrInsufficientCredit
	}
	batchID := uuid.NewString()
	prepaid := policy == domain.SettleUpfront
	if prepaid {
		p.Credits -= totalCost
		l.txs = append(l.txs, domain.CreditTransaction{UserID: userID, Amount: -totalCost, Type: domain.TransactionUsage, BatchID: batchID})
	}
	out := &domain.BatchAcceptance{BatchID: batchID, TotalCost: totalCost, Remaining: p.Credits, Settlement: policy}
	for _, item := range items {
		item.UserID = userID
		item.BatchID = batchID
		item.Prepaid = prepaid
		item.Status = domain.StatusPending
		l.insert(&item)
		out.Generations = append(out.Generations, item)
	}
	return out, nil
}

func (l *ledger) ClaimPending(ctx context.Context) (*domain.Generation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.order {
		if g := l.generations[id]; g.Status == domain.StatusPending {
			g.Status = domain.StatusProcessing
			g.UpdatedAt = l.now()
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (l *ledger) FailStale(ctx context.Context, olderThan time.Time, reason string) (int64, error) {
	l.mu.Lock()
	l.staleCutoff = olderThan
	var ids []string
	for _, id := range l.order {
		g := l.generations[id]
		switch {
		case g.Status == domain.StatusPending && g.CreatedAt.Before(olderThan),
			g.Status == domain.StatusProcessing && g.UpdatedAt.Before(olderThan):
			ids = append(ids, id)
		}
	}
	l.mu.Unlock()
	for _, id := range ids {
		if err := l.MarkFailed(ctx, id, reason); err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

func (l *ledger) ProjectOwned(ctx context.Context, projectID, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owned[projectID] == userID, nil
}

type inbox struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (i *inbox) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, int, error) {
	return nil, 0, errors.New("not used")
}

func (i *inbox) Create(ctx context.Context, n *domain.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, *n)
	return nil
}

func (i *inbox) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (i *inbox) MarkRead(ctx context.Context, id, userID string) error {
	return nil
}

func (i *inbox) Delete(ctx context.Context, id, userID string) error {
	return nil
}

func (i *inbox) types() []domain.NotificationType {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]domain.NotificationType, 0, len(i.items))
	for _, n := range i.items {
		out = append(out, n.Type)
	}
	return out
}

// scriptedProvider finishes each job after donePolls polls unless told otherwise.
type scriptedProvider struct {
	mu          sync.Mutex
	submitErr   error
	donePolls   int
	never       bool
	jobErr      error
	noURI       bool
	pollErrs    int
	downloadErr error
	submitted   chan struct{}
	gate        chan struct{}

	submits int
	polls   int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Submit(ctx context.Context, req video.Request) (video.Job, error) {
	p.mu.Lock()
	p.submits++
	n := p.submits
	p.mu.Unlock()
	if p.submitted != nil {
		p.submitted <- struct{}{}
	}
	if p.submitErr != nil {
		return video.Job{}, p.submitErr
	}
	return video.Job{Name: fmt.Sprintf("operations/%d", n)}, nil
}

func (p *scriptedProvider) Poll(ctx context.Context, job video.Job) (video.Status, error) {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	if p.pollErrs > 0 {
		p.pollErrs--
		return video.Status{}, errors.New("connection reset")
	}
	if p.never || p.polls < p.donePolls {
		return video.Status{}, nil
	}
	if p.jobErr != nil {
		return video.Status{Done: true, Err: p.jobErr}, nil
	}
	if p.noURI {
		return video.Status{Done: true}, nil
	}
	return video.Status{Done: true, VideoURI: "https://provider.example/files/" + job.Name}, nil
}

func (p *scriptedProvider) Download(ctx context.Context, uri string) ([]byte, error) {
	if p.downloadErr != nil {
		return nil, p.downloadErr
	}
	return []byte("mp4"), nil
}

func (p *scriptedProvider) pollCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}

type memStore struct {
	mu   sync.Mutex
	err  error
	keys []string
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) Put(ctx context.Context, key string, data []byte, contentType string) (storage.Object, error) {
	if m.err != nil {
		return storage.Object{}, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return storage.Object{Key: key, URL: "https://cdn.example/" + key}, nil
}
