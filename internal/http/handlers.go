package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt"`
}

type transactionResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
}

type snapshotResponse struct {
	AccountID string `json:"accountId"`
	Month     string `json:"month"`
	Budget    string `json:"budget"`
	Expense   string `json:"expense"`
	Income    string `json:"income"`
}

type insightResponse struct {
	Advice string `json:"advice"`
}

type budgetResponse struct {
	Budget string `json:"budget"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   a.Balance.String(),
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Kind:      string(t.Kind),
		Amount:    t.Amount.String(),
		Date:      t.OccurredOn.UTC().Format("2006-01-02"),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	acct, err := s.accounts.CreateAccount(r.Context(), ownerFrom(r.Context()), req.Name, req.Type, req.Balance, req.IsDefault)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.accounts.ListAccounts(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]accountResponse, 0, len(accts))
	for _, a := range accts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetDefault(w http.ResponseWriter, r *http.Request) {
	acct, err := s.accounts.SetDefault(r.Context(), ownerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tx, err := s.ledger.Record(r.Context(), ownerFrom(r.Context()), req.AccountID, req.Kind, req.Amount, day)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)

	txs, err := s.ledger.List(r.Context(), ownerFrom(r.Context()), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleInsight serves both /api/insight (default account) and
// /api/accounts/{id}/insight; an absent path value selects the default.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	advice, err := s.insights.Generate(r.Context(), ownerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insightResponse{Advice: advice})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.insights.BuildSnapshot(r.Context(), ownerFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{
		AccountID: snap.AccountID,
		Month:     snap.Window.Start.Format("2006-01"),
		Budget:    snap.Budget.String(),
		Expense:   snap.Expense.String(),
		Income:    snap.Income.String(),
	})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.budgets.Get(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetResponse{Budget: budget.String()})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := s.budgets.Set(r.Context(), ownerFrom(r.Context()), req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetResponse{Budget: budget.String()})
}
