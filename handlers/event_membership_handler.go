package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/hackathon-hub/middleware"
)

type userIDInput struct {
	UserID int `json:"userId" validate:"required,gt=0"`
}

type teamNameInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// withEventAndUser resolves the event ID from the URL and the target user from the body.
func (h *EventHandler) withEventAndUser(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, eventID, userID int) error) bool {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return false
	}

	var input userIDInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return false
	}

	if err := action(r.Context(), eventID, input.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return false
	}
	return true
}

// AddJudge godoc
// @Summary Assign a judge to the event
// @Tags event-staff
// @Accept json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 204 "Assigned"
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Already assigned"
// @Security BearerAuth
// @Router /events/{id}/judges [post]
func (h *EventHandler) AddJudge(w http.ResponseWriter, r *http.Request) {
	if h.withEventAndUser(w, r, h.eventService.AddJudgeToEvent) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveJudge godoc
// @Summary Remove a judge from the event
// @Tags event-staff
// @Accept json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 204 "Removed"
// @Failure 404 {object} models.Envelope "Event not found or judge not assigned"
// @Security BearerAuth
// @Router /events/{id}/judges [delete]
func (h *EventHandler) RemoveJudge(w http.ResponseWriter, r *http.Request) {
	if h.withEventAndUser(w, r, h.eventService.RemoveJudgeFromEvent) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddOrganiser godoc
// @Summary Assign an organiser to the event
// @Tags event-staff
// @Accept json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 204 "Assigned"
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Already assigned"
// @Security BearerAuth
// @Router /events/{id}/organisers [post]
func (h *EventHandler) AddOrganiser(w http.ResponseWriter, r *http.Request) {
	if h.withEventAndUser(w, r, h.eventService.AddOrganiserToEvent) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveOrganiser godoc
// @Summary Remove an organiser from the event
// @Tags event-staff
// @Accept json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 204 "Removed"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/organisers [delete]
func (h *EventHandler) RemoveOrganiser(w http.ResponseWriter, r *http.Request) {
	if h.withEventAndUser(w, r, h.eventService.RemoveOrganiserFromEvent) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddParticipant godoc
// @Summary Register a user for the event on their behalf
// @Tags participants
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 201 {object} models.Envelope{data=models.EventParticipant}
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Already registered"
// @Security BearerAuth
// @Router /events/{id}/participants [post]
func (h *EventHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input userIDInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.eventService.RegisterParticipantForEvent(r.Context(), eventID, input.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, participant)
}

// RemoveParticipant godoc
// @Summary Unregister a user from the event
// @Tags participants
// @Accept json
// @Param id path int true "Event ID"
// @Param body body userIDInput true "User"
// @Success 204 "Removed"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/participants [delete]
func (h *EventHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if h.withEventAndUser(w, r, h.eventService.UnregisterParticipant) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// Register godoc
// @Summary Register the current user for the event
// @Tags participants
// @Produce json
// @Param id path int true "Event ID"
// @Success 201 {object} models.Envelope{data=models.EventParticipant}
// @Failure 401 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Already registered"
// @Security BearerAuth
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participant, err := h.eventService.RegisterParticipantForEvent(r.Context(), eventID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, participant)
}

// Unregister godoc
// @Summary Cancel the current user's registration
// @Tags participants
// @Param id path int true "Event ID"
// @Success 204 "Unregistered"
// @Failure 401 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/register [delete]
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.eventService.UnregisterParticipant(r.Context(), eventID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTeams godoc
// @Summary List the event's teams with their members
// @Tags teams
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope{data=[]models.EventTeam}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/teams [get]
func (h *EventHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.eventService.ListEventTeams(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, teams)
}

// CreateTeam godoc
// @Summary Create a team in the event
// @Description Team names are unique per event, ignoring case.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body teamNameInput true "Team"
// @Success 201 {object} models.Envelope{data=models.EventTeam}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope "Name taken"
// @Security BearerAuth
// @Router /events/{id}/teams [post]
func (h *EventHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input teamNameInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.eventService.CreateTeamForEvent(r.Context(), eventID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, team)
}

// JoinTeam godoc
// @Summary Join a team
// @Description The current user must already be registered for the event.
// @Tags teams
// @Param id path int true "Event ID"
// @Param teamId path int true "Team ID"
// @Success 204 "Joined"
// @Failure 404 {object} models.Envelope "Team or participant not found"
// @Security BearerAuth
// @Router /events/{id}/teams/{teamId}/join [post]
func (h *EventHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.eventService.AssignParticipantToTeam(r.Context(), eventID, currentUserID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LeaveTeam godoc
// @Summary Leave the current team
// @Description Keeps the event registration.
// @Tags teams
// @Param id path int true "Event ID"
// @Param teamId path int true "Team ID"
// @Success 204 "Left"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/teams/{teamId}/leave [delete]
func (h *EventHandler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := getIDFromURL(r, "teamId"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.eventService.RemoveParticipantFromTeam(r.Context(), eventID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Members stay registered for the event without a team.
// @Tags teams
// @Param id path int true "Event ID"
// @Param teamId path int true "Team ID"
// @Success 204 "Deleted"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/teams/{teamId} [delete]
func (h *EventHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.DeleteTeam(r.Context(), eventID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
