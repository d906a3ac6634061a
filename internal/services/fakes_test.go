package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// memStore is an in-memory stand-in for the SQLite repository, implementing
// AccountStore, TransactionStore and BudgetSource.
type memStore struct {
	mu       sync.Mutex
	accounts []core.Account
	txs      []core.Transaction
	budgets  map[string]core.Money
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{budgets: make(map[string]core.Money)}
}

func (m *memStore) genID() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *memStore) CreateAccount(_ context.Context, acct core.Account, requestedDefault bool) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owned := 0
	for _, a := range m.accounts {
		if a.OwnerID == acct.OwnerID {
			owned++
		}
	}
	acct.ID = m.genID()
	acct.CreatedAt = time.Now().UTC()
	acct.IsDefault = owned == 0 || requestedDefault
	if acct.IsDefault {
		for i := range m.accounts {
			if m.accounts[i].OwnerID == acct.OwnerID {
				m.accounts[i].IsDefault = false
			}
		}
	}
	m.accounts = append(m.accounts, acct)
	return acct, nil
}

func (m *memStore) GetAccount(_ context.Context, ownerID, accountID string) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == accountID && a.OwnerID == ownerID {
			return a, nil
		}
	}
	return core.Account{}, core.ErrNotFound
}

func (m *memStore) GetDefaultAccount(_ context.Context, ownerID string) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.OwnerID == ownerID && a.IsDefault {
			return a, nil
		}
	}
	return core.Account{}, core.ErrNotFound
}

func (m *memStore) ListAccounts(_ context.Context, ownerID string) ([]core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Account
	for i := len(m.accounts) - 1; i >= 0; i-- {
		if m.accounts[i].OwnerID == ownerID {
			out = append(out, m.accounts[i])
		}
	}
	return out, nil
}

func (m *memStore) SetDefaultAccount(_ context.Context, ownerID, accountID string) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := -1
	for i, a := range m.accounts {
		if a.ID == accountID && a.OwnerID == ownerID {
			target = i
			break
		}
	}
	if target == -1 {
		return core.Account{}, core.ErrNotFound
	}
	for i := range m.accounts {
		if m.accounts[i].OwnerID == ownerID {
			m.accounts[i].IsDefault = i == target
		}
	}
	return m.accounts[target], nil
}

func (m *memStore) InsertTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, a := range m.accounts {
		if a.ID == t.AccountID && a.OwnerID == t.OwnerID {
			found = true
			break
		}
	}
	if !found {
		return core.Transaction{}, core.ErrNotFound
	}
	t.ID = m.genID()
	t.CreatedAt = time.Now().UTC()
	m.txs = append(m.txs, t)
	return t, nil
}

func (m *memStore) ListTransactions(_ context.Context, ownerID string, limit, offset int) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.txs {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) SumByKind(_ context.Context, ownerID, accountID string, kind core.TransactionKind, w core.Window) (core.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total core.Money
	for _, t := range m.txs {
		if t.OwnerID == ownerID && t.AccountID == accountID && t.Kind == kind && w.Contains(t.OccurredOn) {
			var err error
			total, err = total.Add(t.Amount)
			if err != nil {
				return core.Money{}, err
			}
		}
	}
	return total, nil
}

func (m *memStore) GetBudget(_ context.Context, ownerID string) (core.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.budgets[ownerID], nil
}

func (m *memStore) SetBudget(_ context.Context, ownerID string, amount core.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[ownerID] = amount
	return nil
}

// recordingPublisher captures published messages; fail makes every publish
// error to exercise the fire-and-forget path.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []*amqp.DataChangedMessage
	fail     bool
}

func (p *recordingPublisher) PublishDataChanged(_ context.Context, msg *amqp.DataChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) published() []*amqp.DataChangedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.DataChangedMessage(nil), p.messages...)
}

// countingGenerator returns fixed text, or an error when fail is set, and
// counts invocations.
type countingGenerator struct {
	mu      sync.Mutex
	text    string
	fail    bool
	calls   int
	prompts []string
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.fail {
		return "", errors.New("model unavailable")
	}
	return g.text, nil
}

func (g *countingGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
