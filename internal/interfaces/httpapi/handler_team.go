package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/rotaplan/rotaplan/internal/domain/player"
	"github.com/rotaplan/rotaplan/internal/domain/team"
	"github.com/rotaplan/rotaplan/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) SaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveTeam")
	defer span.End()

	req, err := decodeRequest[saveTeamRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if pathID := strings.TrimSpace(r.PathValue("teamID")); pathID != "" {
		req.ID = pathID
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.Save(ctx, usecase.SaveTeamInput{
		ID:               req.ID,
		Name:             req.Name,
		Format:           team.Format(req.Format),
		SquadSize:        req.SquadSize,
		Shape:            team.Shape(req.Shape),
		SubstitutionType: team.SubstitutionType(req.SubstitutionType),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save team failed", "team_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	players, err := h.rosterService.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SavePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePlayer")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	req, err := decodeRequest[savePlayerRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.Save(ctx, usecase.SavePlayerInput{
		ID:     req.ID,
		TeamID: teamID,
		Name:   req.Name,
		Number: req.Number,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save player failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) SetPlayerAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerAvailability")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	req, err := decodeRequest[setAvailabilityRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Available == nil {
		writeError(ctx, w, fmt.Errorf("%w: available is required", usecase.ErrInvalidInput))
		return
	}

	item, err := h.rosterService.SetAvailability(ctx, teamID, playerID, *req.Available)
	if err != nil {
		h.logger.WarnContext(ctx, "set availability failed", "team_id", teamID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) SetTeamCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTeamCaptain")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	req, err := decodeRequest[setCaptainRequest](ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.SetCaptain(ctx, teamID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "set captain failed", "team_id", teamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) GetTeamPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPoints")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	rows, err := h.pointsService.TeamPoints(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team points failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsRowsToDTO(rows))
}

func decodeRequest[T any](ctx context.Context, r *http.Request) (T, error) {
	var req T
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

type saveTeamRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name" validate:"required,max=100"`
	Format           string `json:"format" validate:"required,oneof=5v5 7v7"`
	SquadSize        int    `json:"squadSize" validate:"required,min=5,max=15"`
	Shape            string `json:"shape" validate:"required"`
	SubstitutionType string `json:"substitutionType" validate:"required,oneof=individual pairs"`
}

type savePlayerRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required,max=100"`
	Number int    `json:"number" validate:"min=0,max=99"`
}

type setAvailabilityRequest struct {
	Available *bool `json:"available"`
}

type setCaptainRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type teamDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Format           string `json:"format"`
	SquadSize        int    `json:"squadSize"`
	Shape            string `json:"shape"`
	SubstitutionType string `json:"substitutionType"`
}

type playerDTO struct {
	ID              string         `json:"id"`
	TeamID          string         `json:"teamId"`
	Name            string         `json:"name"`
	Number          int            `json:"number"`
	Available       bool           `json:"available"`
	Captain         bool           `json:"captain"`
	SecondsByRole   map[string]int `json:"secondsByRole"`
	OutfieldSeconds int            `json:"outfieldSeconds"`
	PeriodsAsGoalie int            `json:"periodsAsGoalie"`
}

type playerPointsDTO struct {
	PlayerID  string  `json:"playerId"`
	Name      string  `json:"name"`
	Number    int     `json:"number"`
	Captain   bool    `json:"captain"`
	Available bool    `json:"available"`
	Goalie    float64 `json:"goalie"`
	Defender  float64 `json:"defender"`
	Midfield  float64 `json:"midfielder"`
	Attacker  float64 `json:"attacker"`
	Total     float64 `json:"total"`
}

func teamToDTO(v team.Config) teamDTO {
	return teamDTO{
		ID:               v.ID,
		Name:             v.Name,
		Format:           string(v.Format),
		SquadSize:        v.SquadSize,
		Shape:            string(v.Shape),
		SubstitutionType: string(v.SubstitutionType),
	}
}

func playerToDTO(v player.Player) playerDTO {
	secondsByRole := make(map[string]int, len(v.Stats.SecondsByRole))
	for role, seconds := range v.Stats.SecondsByRole {
		secondsByRole[string(role)] = seconds
	}

	return playerDTO{
		ID:              v.ID,
		TeamID:          v.TeamID,
		Name:            v.Name,
		Number:          v.Number,
		Available:       !v.Stats.Inactive,
		Captain:         v.Stats.Captain,
		SecondsByRole:   secondsByRole,
		OutfieldSeconds: v.Stats.OutfieldSeconds,
		PeriodsAsGoalie: v.Stats.PeriodsAsGoalie,
	}
}

func pointsRowsToDTO(rows []usecase.PlayerPoints) []playerPointsDTO {
	items := make([]playerPointsDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, playerPointsDTO{
			PlayerID:  row.PlayerID,
			Name:      row.Name,
			Number:    row.Number,
			Captain:   row.Captain,
			Available: !row.Inactive,
			Goalie:    row.Points.Goalie,
			Defender:  row.Points.Defender,
			Midfield:  row.Points.Midfielder,
			Attacker:  row.Points.Attacker,
			Total:     row.Points.Total(),
		})
	}
	return items
}
