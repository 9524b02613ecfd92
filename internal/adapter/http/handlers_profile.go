package adapthttp

import (
	"net/http"

	"caltrack/internal/domain"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	profile, err := s.profile.Get(r.Context(), identity.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r)

	var patch struct {
		PhoneNumber *string  `json:"phone_number"`
		Age         *int     `json:"age"`
		Gender      *string  `json:"gender"`
		Height      *float64 `json:"height"`
		Weight      *float64 `json:"weight"`
		Goal        *string  `json:"goal"`
	}
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := s.profile.Update(r.Context(), identity.ID, domain.ProfilePatch{
		PhoneNumber: patch.PhoneNumber,
		Age:         patch.Age,
		Gender:      patch.Gender,
		Height:      patch.Height,
		Weight:      patch.Weight,
		Goal:        patch.Goal,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}
