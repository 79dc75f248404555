// Package ledger provides the HTTP handlers and business logic for creating,
// editing, and resolving wagers, and for the derived grid/stats/activity
// views. All derivations go through the pure engine in internal/book; the
// handlers only fetch a snapshot, validate input, and write through the store.
package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/auth"
	"github.com/sidebook/wager-engine/internal/book"
	"github.com/sidebook/wager-engine/internal/metrics"
	"github.com/sidebook/wager-engine/internal/model"
	"github.com/sidebook/wager-engine/internal/odds"
	"github.com/sidebook/wager-engine/internal/store"
)

// Service handles wager operations for a fixed roster of participants.
type Service struct {
	store    store.Store
	roster   []string
	onRoster map[string]bool
}

// NewService creates a new ledger service. The roster is the injected,
// ordered participant list; it is never derived from wager data.
func NewService(st store.Store, roster []string) *Service {
	onRoster := make(map[string]bool, len(roster))
	for _, name := range roster {
		onRoster[name] = true
	}
	return &Service{
		store:    st,
		roster:   roster,
		onRoster: onRoster,
	}
}

// Routes mounts all ledger endpoints on the router.
func (s *Service) Routes(r chi.Router) {
	r.Get("/wagers", s.ListWagers)
	r.Post("/wagers", s.CreateWagers)
	r.Patch("/wagers/{wagerID}", s.UpdateWager)
	r.Post("/wagers/{wagerID}/resolve", s.ResolveWager)
	r.Get("/wagers/between/{user1}/{user2}", s.Between)
	r.Get("/grid", s.Grid)
	r.Get("/users/{user}/stats", s.UserStats)
	r.Get("/activity", s.Activity)
	r.Get("/roster", s.Roster)
}

// --- Request/Response types ---

// CreateWagersRequest is the JSON body for POST /wagers. Selecting K
// opponents creates K independent wagers, each with its own ID.
type CreateWagersRequest struct {
	FromUser    string          `json:"from_user"`
	ToUsers     []string        `json:"to_users"`
	Amount      decimal.Decimal `json:"amount"`
	Odds        int             `json:"odds"`
	Description string          `json:"description"`
}

// UpdateWagerRequest is the JSON body for PATCH /wagers/{wagerID}.
// Absent fields keep their current values. Only open wagers may be edited.
type UpdateWagerRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Odds        *int             `json:"odds,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// ResolveRequest is the JSON body for POST /wagers/{wagerID}/resolve.
type ResolveRequest struct {
	Result string `json:"result"`
}

// GridCell is one directed cell of the relationship grid.
type GridCell struct {
	FromUser string          `json:"from_user"`
	ToUser   string          `json:"to_user"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
	Bucket   string          `json:"bucket"`
}

// GridResponse is the full relationship grid plus risk standings.
type GridResponse struct {
	Roster     []string         `json:"roster"`
	Cells      []GridCell       `json:"cells"`
	Thresholds book.Thresholds  `json:"thresholds"`
	Standings  []model.Standing `json:"standings"`
}

// UserStatsResponse carries one user's derived figures.
type UserStatsResponse struct {
	User         string          `json:"user"`
	Exposure     decimal.Decimal `json:"exposure"`
	Returns      decimal.Decimal `json:"returns"`
	Record       model.Record    `json:"record"`
	TotalWagered decimal.Decimal `json:"total_wagered"`
}

// --- HTTP Handlers ---

// ListWagers handles GET /api/v1/wagers, optionally filtered by ?status=open.
func (s *Service) ListWagers(w http.ResponseWriter, r *http.Request) {
	wagers, err := s.store.ListWagers(r.Context())
	if err != nil {
		writeError(w, "failed to list wagers", http.StatusInternalServerError)
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]model.Wager, 0, len(wagers))
		for _, wg := range wagers {
			if wg.Status == status {
				filtered = append(filtered, wg)
			}
		}
		wagers = filtered
	}
	if wagers == nil {
		wagers = []model.Wager{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wagers)
}

// CreateWagers handles POST /api/v1/wagers. All validation happens before any
// store call; no partial batch is ever created.
func (s *Service) CreateWagers(w http.ResponseWriter, r *http.Request) {
	var req CreateWagersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.FromUser == "" {
		writeError(w, "from_user is required", http.StatusBadRequest)
		return
	}
	if !s.onRoster[req.FromUser] {
		writeError(w, "from_user is not on the roster", http.StatusBadRequest)
		return
	}
	if len(req.ToUsers) == 0 {
		writeError(w, "at least one opponent is required", http.StatusBadRequest)
		return
	}
	for _, to := range req.ToUsers {
		if !s.onRoster[to] {
			writeError(w, "opponent is not on the roster: "+to, http.StatusBadRequest)
			return
		}
		if to == req.FromUser {
			writeError(w, "self-wagers are not allowed", http.StatusBadRequest)
			return
		}
	}
	description, err := validateTerms(req.Amount, req.Odds, req.Description)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	createdBy, ok := auth.ParticipantFrom(r.Context())
	if !ok {
		createdBy = req.FromUser
	}

	now := time.Now().UTC()
	wagers := make([]*model.Wager, 0, len(req.ToUsers))
	for _, to := range req.ToUsers {
		wagers = append(wagers, &model.Wager{
			ID:          uuid.New().String(),
			FromUser:    req.FromUser,
			ToUser:      to,
			Amount:      req.Amount,
			Odds:        req.Odds,
			Description: description,
			Status:      model.StatusOpen,
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.store.CreateWagers(r.Context(), wagers); err != nil {
		writeError(w, "failed to create wagers", http.StatusInternalServerError)
		return
	}

	metrics.WagersCreated.Add(float64(len(wagers)))
	metrics.OpenWagers.Add(float64(len(wagers)))

	slog.Info("wagers created",
		"from", req.FromUser,
		"opponents", len(wagers),
		"amount", req.Amount.String(),
		"odds", req.Odds,
		"created_by", createdBy,
	)

	created := make([]model.Wager, 0, len(wagers))
	for _, wg := range wagers {
		created = append(created, *wg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateWager handles PATCH /api/v1/wagers/{wagerID}. Editing a resolved
// wager is rejected; there is no reopening semantic.
func (s *Service) UpdateWager(w http.ResponseWriter, r *http.Request) {
	wagerID := chi.URLParam(r, "wagerID")

	var req UpdateWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current, err := s.store.GetWager(ctx, wagerID)
	if err != nil {
		writeError(w, "wager not found", http.StatusNotFound)
		return
	}
	if !current.IsOpen() {
		writeError(w, "resolved wagers cannot be edited", http.StatusConflict)
		return
	}

	amount := current.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	oddsVal := current.Odds
	if req.Odds != nil {
		oddsVal = *req.Odds
	}
	descInput := current.Description
	if req.Description != nil {
		descInput = *req.Description
	}
	description, err := validateTerms(amount, oddsVal, descInput)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.store.UpdateTerms(ctx, wagerID, amount, oddsVal, description, time.Now().UTC())
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, "wager not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrNotOpen):
		writeError(w, "resolved wagers cannot be edited", http.StatusConflict)
		return
	case err != nil:
		writeError(w, "failed to update wager", http.StatusInternalServerError)
		return
	}

	updated, err := s.store.GetWager(ctx, wagerID)
	if err != nil {
		writeError(w, "failed to load wager", http.StatusInternalServerError)
		return
	}

	slog.Info("wager updated", "id", wagerID, "amount", amount.String(), "odds", oddsVal)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ResolveWager handles POST /api/v1/wagers/{wagerID}/resolve. The transition
// is one-way; resolving twice returns a conflict.
func (s *Service) ResolveWager(w http.ResponseWriter, r *http.Request) {
	wagerID := chi.URLParam(r, "wagerID")

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Result {
	case model.ResultFromWins, model.ResultToWins, model.ResultPush:
	default:
		writeError(w, "result must be from_wins, to_wins, or push", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := s.store.Resolve(ctx, wagerID, req.Result, time.Now().UTC())
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, "wager not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrNotOpen):
		writeError(w, "wager is already resolved", http.StatusConflict)
		return
	case err != nil:
		writeError(w, "failed to resolve wager", http.StatusInternalServerError)
		return
	}

	metrics.WagersResolved.WithLabelValues(req.Result).Inc()
	metrics.OpenWagers.Dec()

	resolved, err := s.store.GetWager(ctx, wagerID)
	if err != nil {
		writeError(w, "failed to load wager", http.StatusInternalServerError)
		return
	}

	slog.Info("wager resolved", "id", wagerID, "result", req.Result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolved)
}

// Between handles GET /api/v1/wagers/between/{user1}/{user2}. The detail
// panel omits ?open=true so resolved history stays visible.
func (s *Service) Between(w http.ResponseWriter, r *http.Request) {
	u1 := chi.URLParam(r, "user1")
	u2 := chi.URLParam(r, "user2")
	if !s.onRoster[u1] || !s.onRoster[u2] {
		writeError(w, "unknown participant", http.StatusNotFound)
		return
	}

	wagers, err := s.store.ListWagers(r.Context())
	if err != nil {
		writeError(w, "failed to list wagers", http.StatusInternalServerError)
		return
	}

	openOnly := r.URL.Query().Get("open") == "true"
	between := book.Between(wagers, u1, u2, openOnly)
	if between == nil {
		between = []model.Wager{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(between)
}

// Grid handles GET /api/v1/grid: every directed cell with its heatmap bucket,
// plus the exposure standings for row/column tinting and badges.
func (s *Service) Grid(w http.ResponseWriter, r *http.Request) {
	wagers, err := s.store.ListWagers(r.Context())
	if err != nil {
		writeError(w, "failed to list wagers", http.StatusInternalServerError)
		return
	}

	thresholds := book.HeatThresholds(wagers, s.roster)

	cells := make([]GridCell, 0, len(s.roster)*(len(s.roster)-1))
	for _, from := range s.roster {
		for _, to := range s.roster {
			if from == to {
				continue
			}
			stat := book.Cell(wagers, from, to)
			cells = append(cells, GridCell{
				FromUser: from,
				ToUser:   to,
				Amount:   stat.Amount,
				Count:    stat.Count,
				Bucket:   thresholds.Bucket(stat.Amount),
			})
		}
	}

	resp := GridResponse{
		Roster:     s.roster,
		Cells:      cells,
		Thresholds: thresholds,
		Standings:  book.Standings(wagers, s.roster),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UserStats handles GET /api/v1/users/{user}/stats.
func (s *Service) UserStats(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	if !s.onRoster[user] {
		writeError(w, "unknown participant", http.StatusNotFound)
		return
	}

	wagers, err := s.store.ListWagers(r.Context())
	if err != nil {
		writeError(w, "failed to list wagers", http.StatusInternalServerError)
		return
	}

	resp := UserStatsResponse{
		User:         user,
		Exposure:     book.Exposure(wagers, user),
		Returns:      book.Returns(wagers, user),
		Record:       book.RecordFor(wagers, user),
		TotalWagered: book.TotalWagered(wagers, user),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Activity handles GET /api/v1/activity: the most recent feed events,
// newest first.
func (s *Service) Activity(w http.ResponseWriter, r *http.Request) {
	wagers, err := s.store.ListWagers(r.Context())
	if err != nil {
		writeError(w, "failed to list wagers", http.StatusInternalServerError)
		return
	}

	limit := book.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events := book.Feed(wagers, limit, time.Now().UTC())
	if events == nil {
		events = []model.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// Roster handles GET /api/v1/roster.
func (s *Service) Roster(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"roster": s.roster})
}

// validateTerms checks the shared amount/odds/description rules for create
// and edit, returning the trimmed description.
func validateTerms(amount decimal.Decimal, n int, description string) (string, error) {
	if !amount.IsPositive() {
		return "", errors.New("amount must be positive")
	}
	if _, err := odds.New(n); err != nil {
		return "", errors.New("odds cannot be zero")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.New("description is required")
	}
	return description, nil
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
