package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
)

type ProposalHandler struct {
	proposalService services.ProposalService
	maxUploadBytes  int64
}

func NewProposalHandler(ps services.ProposalService, maxUploadBytes int64) *ProposalHandler {
	return &ProposalHandler{
		proposalService: ps,
		maxUploadBytes:  maxUploadBytes,
	}
}

type decisionInput struct {
	TeamID int                   `json:"teamId" validate:"required,gt=0"`
	Status models.ApprovalStatus `json:"status" validate:"required,oneof=pending approved rejected"`
}

type statusInput struct {
	Status models.ApprovalStatus `json:"status" validate:"required,oneof=pending approved rejected"`
}

// SubmitTeam godoc
// @Summary Submit a team with its members
// @Description One team per user, 1 to 5 members, at most one leader.
// @Tags proposals
// @Accept json
// @Produce json
// @Param body body services.SubmitTeamInput true "Team"
// @Success 201 {object} models.Envelope{data=models.TeamDetails}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Team already submitted"
// @Security BearerAuth
// @Router /teams [post]
func (h *ProposalHandler) SubmitTeam(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.SubmitTeamInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.proposalService.SubmitTeam(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, team)
}

// GetMyTeam godoc
// @Summary The current user's submitted team
// @Tags proposals
// @Produce json
// @Success 200 {object} models.Envelope{data=models.TeamDetails}
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /teams/me [get]
func (h *ProposalHandler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	team, err := h.proposalService.GetMyTeam(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, team)
}

// GetTeam godoc
// @Summary A submitted team
// @Description Visible to its owner, judges and admins.
// @Tags proposals
// @Produce json
// @Param teamId path int true "Team ID"
// @Success 200 {object} models.Envelope{data=models.TeamDetails}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /teams/{teamId} [get]
func (h *ProposalHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	team, err := h.proposalService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if team.UserID != user.ID && !user.IsAdmin && !user.IsJudge {
		forbiddenResponse(w, r, services.ErrForbiddenOperation.Error())
		return
	}
	respond(w, r, http.StatusOK, team)
}

// UploadProposal godoc
// @Summary Upload the team's proposal document
// @Description PDF only. Resets the approval status to pending.
// @Tags proposals
// @Accept multipart/form-data
// @Produce json
// @Param teamId path int true "Team ID"
// @Param file formData file true "Proposal PDF"
// @Success 200 {object} models.Envelope{data=models.TeamDetails}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /teams/{teamId}/proposal [put]
func (h *ProposalHandler) UploadProposal(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	file, contentType, err := readUpload(w, r, "file", h.maxUploadBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	team, err := h.proposalService.UploadProposal(r.Context(), user, teamID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, team)
}

// ListProposals godoc
// @Summary List submitted teams for review
// @Tags proposals
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.Envelope{data=[]models.TeamDetails}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /proposal [get]
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter := models.ProposalFilter{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.ApprovalStatus(raw)
		if !status.Valid() {
			badRequestResponse(w, r, services.ErrInvalidApprovalStatus)
			return
		}
		filter.Status = &status
	}

	teams, err := h.proposalService.ListProposals(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, teams)
}

// Decide godoc
// @Summary Approve or reject a submitted team
// @Tags proposals
// @Accept json
// @Produce json
// @Param body body decisionInput true "Decision"
// @Success 200 {object} models.Envelope{data=models.TeamDetails}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /proposal [post]
func (h *ProposalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var input decisionInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.setStatus(w, r, input.TeamID, input.Status)
}

// SetTeamStatus godoc
// @Summary Set the approval status of a submitted team
// @Tags admin
// @Accept json
// @Produce json
// @Param teamId path int true "Team ID"
// @Param body body statusInput true "Status"
// @Success 200 {object} models.Envelope{data=models.TeamDetails}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/teams/{teamId}/status [patch]
func (h *ProposalHandler) SetTeamStatus(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input statusInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.setStatus(w, r, teamID, input.Status)
}

func (h *ProposalHandler) setStatus(w http.ResponseWriter, r *http.Request, teamID int, status models.ApprovalStatus) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	team, err := h.proposalService.SetApprovalStatus(r.Context(), user, teamID, status)
	if err != nil {
		if errors.Is(err, services.ErrForbiddenOperation) {
			forbiddenResponse(w, r, "only judges and admins can change approval status")
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, team)
}
