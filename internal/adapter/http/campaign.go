package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

type createCampaignRequest struct {
	Name     string  `json:"name"`
	Budget   float64 `json:"budget"`
	Category string  `json:"category"`
	Source   string  `json:"source"`
	Medium   string  `json:"medium"`
	OwnerID  string  `json:"ownerId"`
}

// handleCreateCampaign creates a campaign and returns it with its
// freshly assigned tracking code. Validation problems produce HTTP 400
// with the specific field error.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	campaign, err := h.svc.CreateCampaign(r.Context(), port.CreateCampaignReq{
		Name:     req.Name,
		Budget:   req.Budget,
		Category: req.Category,
		Source:   req.Source,
		Medium:   req.Medium,
		OwnerID:  req.OwnerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, campaign)
}

// handleListCampaigns returns the owner's non-deleted campaigns. The
// owner is selected with the `owner` query parameter; absent means all.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.svc.ListCampaigns(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.svc.GetCampaign(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

type updateCampaignRequest struct {
	Name   *string  `json:"name"`
	Source *string  `json:"source"`
	Medium *string  `json:"medium"`
	Budget *float64 `json:"budget"`
	Status *string  `json:"status"`
}

func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	patch := port.CampaignPatch{
		Name:   req.Name,
		Source: req.Source,
		Medium: req.Medium,
		Budget: req.Budget,
	}
	if req.Status != nil {
		status := domain.CampaignStatus(*req.Status)
		patch.Status = &status
	}
	if err := h.svc.UpdateCampaign(r.Context(), chi.URLParam(r, "code"), patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "campaign updated"})
}

// handleDeleteCampaign soft-deletes: the campaign drops out of listings
// but its tracking code is never reused.
func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCampaign(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}
