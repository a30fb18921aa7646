package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nowmarket/internal/market"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type Server struct {
	log    *slog.Logger
	market *market.Market
	mux    *chi.Mux
}

func New(logger *slog.Logger, m *market.Market) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:    logger,
		market: m,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/market", s.handleMarket)
		r.Get("/stocks", s.handleStocksList)
		r.Get("/stocks/{id}", s.handleStockDetail)
		r.Post("/stocks/{id}/actions", s.handleCompanyAction)
		r.Post("/orders", s.handleOrder)
		r.Post("/bets", s.handleBet)
		r.Get("/news", s.handleNews)
		r.Get("/news/stream", s.handleNewsStream)
		r.Post("/watchlist/{id}", s.handleWatchlist)
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Snapshot())
}

func (s *Server) handleStocksList(w http.ResponseWriter, _ *http.Request) {
	snap := s.market.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"stocks": snap.Companies})
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	out, err := s.market.Detail(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CompanyID string `json:"company_id"`
		Side      string `json:"side"`
		Shares    int64  `json:"shares"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var receipt market.Receipt
	var err error
	switch strings.ToLower(strings.TrimSpace(in.Side)) {
	case "buy":
		receipt, err = s.market.Buy(in.CompanyID, in.Shares)
	case "sell":
		receipt, err = s.market.Sell(in.CompanyID, in.Shares)
	default:
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleBet(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CompanyID string  `json:"company_id"`
		Direction string  `json:"direction"`
		Stake     float64 `json:"stake"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.market.PlaceBet(in.CompanyID, market.Trend(strings.ToLower(strings.TrimSpace(in.Direction))), in.Stake)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"bet_id": id, "balance": s.market.Balance()})
}

func (s *Server) handleCompanyAction(w http.ResponseWriter, r *http.Request) {
	item, err := s.market.CompanyAction(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleNews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"news": s.market.News()})
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	on, err := s.market.ToggleWatchlist(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"watching": on})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleNewsStream pushes every new headline over a websocket until the
// client disconnects.
func (s *Server) handleNewsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	feed, cancel := s.market.SubscribeNews()
	defer cancel()

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case item, ok := <-feed:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(item); err != nil {
				return
			}
		}
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, market.ErrUnknownCompany):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, market.ErrInvalidShares),
		errors.Is(err, market.ErrInvalidStake),
		errors.Is(err, market.ErrInvalidDirection),
		errors.Is(err, market.ErrInsufficientFunds),
		errors.Is(err, market.ErrInsufficientShares):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, market.ErrNotController):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
