package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prash240303/Globetrotter/internal/app"
	"github.com/prash240303/Globetrotter/internal/domain"
)

// Handler exposes the directory and question bank over REST.
type Handler struct {
	directory *app.Directory
	bank      *app.QuestionBank
	log       zerolog.Logger
}

func NewHandler(directory *app.Directory, bank *app.QuestionBank, log zerolog.Logger) *Handler {
	return &Handler{directory: directory, bank: bank, log: log}
}

// Register wires the REST routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quiz/question", h.question)
	mux.HandleFunc("GET /api/quiz/verify/{questionID}/{optionID}", h.verify)
	mux.HandleFunc("POST /api/players", h.createPlayer)
	mux.HandleFunc("GET /api/players/name/{name}", h.playerByName)
	mux.HandleFunc("GET /api/players/code/{code}", h.playerByCode)
	mux.HandleFunc("PUT /api/players/score", h.updateScore)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
}

func (h *Handler) question(w http.ResponseWriter, r *http.Request) {
	question, err := h.bank.NextQuestion(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, question)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionID")
	optionID, err := strconv.ParseInt(r.PathValue("optionID"), 10, 64)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid option id")
		return
	}
	verdict, err := h.bank.Verify(r.Context(), questionID, optionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, verdict)
}

type createPlayerRequest struct {
	PlayerName string `json:"player_name"`
}

func (h *Handler) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	player, err := h.directory.CreatePlayer(r.Context(), req.PlayerName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, player)
}

func (h *Handler) playerByName(w http.ResponseWriter, r *http.Request) {
	player, err := h.directory.PlayerByName(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

func (h *Handler) playerByCode(w http.ResponseWriter, r *http.Request) {
	player, err := h.directory.PlayerByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

type updateScoreRequest struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

func (h *Handler) updateScore(w http.ResponseWriter, r *http.Request) {
	var req updateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update, err := h.directory.UpdateScore(r.Context(), req.PlayerName, req.Score)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, update)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	board, err := h.directory.Leaderboard(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, board.Entries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

type detailPayload struct {
	Detail string `json:"detail"`
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, detailPayload{Detail: detail})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrReferralNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrNoLocations):
		h.writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNameTaken):
		h.writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrOptionNotFound):
		h.writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
