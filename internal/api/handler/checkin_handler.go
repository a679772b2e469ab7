package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gymledger/internal/api/middleware"
	"gymledger/internal/app/service"
	"gymledger/internal/common"
	"gymledger/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type CheckInHandler struct {
	checkInService *service.CheckInService
}

func NewCheckInHandler(cs *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: cs}
}

func (h *CheckInHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // Every ledger route requires a session
	r.Post("/", h.recordCheckIn)
	r.Get("/", h.listCheckIns)
	r.Delete("/", h.removeCheckIn)
}

func (h *CheckInHandler) recordCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.RecordCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	checkIn, err := h.checkInService.Record(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"check_in": checkIn})
}

func (h *CheckInHandler) listCheckIns(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr == "" || yearStr == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Month and year are required")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid month: "+monthStr)
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid year: "+yearStr)
		return
	}

	checkIns, err := h.checkInService.ListMonth(r.Context(), month, year)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if checkIns == nil {
		checkIns = []model.CheckIn{}
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"check_ins": checkIns})
}

func (h *CheckInHandler) removeCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	dateStr := r.URL.Query().Get("date") // Optional, defaults to today

	if err := h.checkInService.Remove(r.Context(), userID, dateStr); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
