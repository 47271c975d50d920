package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/rotaplan/rotaplan/internal/domain/formation"
	"github.com/rotaplan/rotaplan/internal/domain/match"
	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	req, err := decodeRequest[startMatchRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Start(ctx, usecase.StartMatchInput{
		TeamID:   req.TeamID,
		SquadIDs: req.SquadIDs,
		GoalieID: req.GoalieID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRecommendation")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	rec, err := h.planService.Recommend(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "recommendation failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationToDTO(rec))
}

func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClosePeriod")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	req, err := decodeRequest[closePeriodRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report := usecase.PeriodReport{
		MatchID:      matchID,
		NextGoalieID: req.NextGoalieID,
		Played:       formationFromDTO(req.Played),
	}
	for _, entry := range req.Entries {
		secondsByRole := make(map[player.Role]int, len(entry.SecondsByRole))
		for role, seconds := range entry.SecondsByRole {
			secondsByRole[player.Role(role)] = seconds
		}
		report.Entries = append(report.Entries, usecase.PeriodEntry{
			PlayerID:      entry.PlayerID,
			SecondsByRole: secondsByRole,
		})
	}

	item, err := h.matchService.ClosePeriod(ctx, report)
	if err != nil {
		h.logger.WarnContext(ctx, "close period failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.planService.Invalidate(ctx, matchID)

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Finish(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.planService.Invalidate(ctx, matchID)

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetMatchPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPoints")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match for points failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows, err := h.pointsService.SquadPoints(ctx, item.TeamID, item.SquadIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "match points failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsRowsToDTO(rows))
}

type startMatchRequest struct {
	TeamID   string   `json:"teamId" validate:"required"`
	SquadIDs []string `json:"squadIds" validate:"required,min=5,max=15,dive,required"`
	GoalieID string   `json:"goalieId" validate:"required"`
}

type closePeriodRequest struct {
	Entries      []periodEntryDTO `json:"entries"`
	Played       *formationDTO    `json:"played"`
	NextGoalieID string           `json:"nextGoalieId"`
}

type periodEntryDTO struct {
	PlayerID      string         `json:"playerId"`
	SecondsByRole map[string]int `json:"secondsByRole"`
}

type matchDTO struct {
	ID               string        `json:"id"`
	TeamID           string        `json:"teamId"`
	Period           int           `json:"period"`
	Status           string        `json:"status"`
	GoalieID         string        `json:"goalieId"`
	PreviousGoalieID string        `json:"previousGoalieId,omitempty"`
	Previous         *formationDTO `json:"previous,omitempty"`
	SquadIDs         []string      `json:"squadIds"`
	StartedAt        string        `json:"startedAt"`
}

type formationDTO struct {
	GoalieID string             `json:"goalieId"`
	Slots    map[string]string  `json:"slots,omitempty"`
	Pairs    map[string]pairDTO `json:"pairs,omitempty"`
}

type pairDTO struct {
	DefenderID string `json:"defenderId"`
	AttackerID string `json:"attackerId"`
}

type recommendationDTO struct {
	MatchID       string       `json:"matchId"`
	TeamID        string       `json:"teamId"`
	Period        int          `json:"period"`
	Formation     formationDTO `json:"formation"`
	RotationQueue []string     `json:"rotationQueue"`
	NextOff       string       `json:"nextOff,omitempty"`
	Degraded      bool         `json:"degraded,omitempty"`
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:               v.ID,
		TeamID:           v.TeamID,
		Period:           v.Period,
		Status:           string(v.Status),
		GoalieID:         v.GoalieID,
		PreviousGoalieID: v.PreviousGoalieID,
		Previous:         formationToDTO(v.Previous),
		SquadIDs:         append([]string(nil), v.SquadIDs...),
		StartedAt:        v.StartedAt.UTC().Format(time.RFC3339),
	}
}

func recommendationToDTO(v usecase.MatchRecommendation) recommendationDTO {
	dto := recommendationDTO{
		MatchID:       v.MatchID,
		TeamID:        v.TeamID,
		Period:        v.Period,
		RotationQueue: append([]string(nil), v.Recommendation.RotationQueue...),
		NextOff:       v.Recommendation.NextOff,
		Degraded:      v.Degraded,
	}
	if f := formationToDTO(&v.Recommendation.Formation); f != nil {
		dto.Formation = *f
	}
	return dto
}

func formationToDTO(v *formation.Formation) *formationDTO {
	if v == nil {
		return nil
	}

	dto := &formationDTO{GoalieID: v.GoalieID}
	if len(v.Slots) > 0 {
		dto.Slots = make(map[string]string, len(v.Slots))
		for pos, id := range v.Slots {
			dto.Slots[string(pos)] = id
		}
	}
	if len(v.Pairs) > 0 {
		dto.Pairs = make(map[string]pairDTO, len(v.Pairs))
		for slot, pair := range v.Pairs {
			dto.Pairs[string(slot)] = pairDTO{DefenderID: pair.DefenderID, AttackerID: pair.AttackerID}
		}
	}
	return dto
}

func formationFromDTO(v *formationDTO) *formation.Formation {
	if v == nil {
		return nil
	}

	out := &formation.Formation{GoalieID: v.GoalieID}
	if len(v.Slots) > 0 {
		out.Slots = make(map[formation.Position]string, len(v.Slots))
		for pos, id := range v.Slots {
			out.Slots[formation.Position(pos)] = id
		}
	}
	if len(v.Pairs) > 0 {
		out.Pairs = make(map[formation.PairSlot]formation.Pair, len(v.Pairs))
		for slot, pair := range v.Pairs {
			out.Pairs[formation.PairSlot(slot)] = formation.Pair{DefenderID: pair.DefenderID, AttackerID: pair.AttackerID}
		}
	}
	return out
}
