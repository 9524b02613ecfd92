package adapthttp

import (
	"errors"
	"net/http"
)

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)
	if identity.ID == 0 {
		writeError(w, http.StatusUnauthorized, errors.New("Unauthorized: Missing user ID"))
		return
	}

	var req struct {
		SportName string  `json:"sport_name"`
		Time      float64 `json:"time"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.daily.LogActivity(r.Context(), identity.ID, req.SportName, req.Time)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Activity logged", "data": result})
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)
	if identity.ID == 0 {
		writeError(w, http.StatusUnauthorized, errors.New("Unauthorized: Missing user ID"))
		return
	}

	var req struct {
		FoodName string  `json:"food_name"`
		Quantity float64 `json:"quantity"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.daily.LogMeal(r.Context(), identity.ID, req.FoodName, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Meal logged", "data": result})
}

func (s *Server) handleCalculateTarget(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	var req struct {
		ActivityLevel float64 `json:"activityLevel"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.daily.CalculateTarget(r.Context(), identity.ID, req.ActivityLevel)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	result, err := s.daily.Status(r.Context(), identity.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMacros(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	totals, err := s.daily.Macros(r.Context(), identity.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	points, err := s.daily.Weekly(r.Context(), identity.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": points})
}
