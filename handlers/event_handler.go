package handlers

import (
	"net/http"

	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
)

type EventHandler struct {
	eventService   services.EventService
	maxUploadBytes int64
}

func NewEventHandler(es services.EventService, maxUploadBytes int64) *EventHandler {
	return &EventHandler{
		eventService:   es,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Newest first. Pass active=true to hide inactive events.
// @Tags events
// @Produce json
// @Param active query bool false "Only active events"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.Envelope{data=[]models.Event}
// @Failure 400 {object} models.Envelope
// @Router /events [get]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.GetEventList(r.Context(), models.EventListOptions{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Event details
// @Description Event with photos, organisers, participants, judges, teams and sponsors.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope{data=models.EventDetails}
// @Failure 404 {object} models.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.eventService.GetEventDetails(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, details)
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param body body services.CreateEventInput true "Event"
// @Success 201 {object} models.Envelope{data=models.Event}
// @Failure 400 {object} models.Envelope
// @Failure 401 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update; omitted fields keep their value.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body services.UpdateEventInput true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.Event}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateEventInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event with its teams, participant, judge and organiser links.
// @Tags events
// @Param id path int true "Event ID"
// @Success 204 "Deleted"
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPoster godoc
// @Summary Upload the event poster
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Event ID"
// @Param file formData file true "Image (jpeg, png, gif, webp)"
// @Success 200 {object} models.Envelope{data=models.Event}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/poster [put]
func (h *EventHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := readUpload(w, r, "file", h.maxUploadBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	event, err := h.eventService.UploadEventPoster(r.Context(), eventID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, event)
}

// AddPhoto godoc
// @Summary Add a photo to the event gallery
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Event ID"
// @Param file formData file true "Image (jpeg, png, gif, webp)"
// @Success 201 {object} models.Envelope{data=models.EventPhoto}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/photos [post]
func (h *EventHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := readUpload(w, r, "file", h.maxUploadBytes)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	photo, err := h.eventService.AddEventPhoto(r.Context(), eventID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, photo)
}

// ListSponsors godoc
// @Summary List event sponsors
// @Tags sponsors
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope{data=[]models.Sponsor}
// @Failure 404 {object} models.Envelope
// @Router /events/{id}/sponsors [get]
func (h *EventHandler) ListSponsors(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sponsors, err := h.eventService.ListSponsors(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, sponsors)
}

// AddSponsor godoc
// @Summary Add a sponsor to the event
// @Tags sponsors
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param body body services.SponsorInput true "Sponsor"
// @Success 201 {object} models.Envelope{data=models.Sponsor}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/sponsors [post]
func (h *EventHandler) AddSponsor(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SponsorInput
	if err := decodeAndValidate(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sponsor, err := h.eventService.AddSponsor(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, sponsor)
}

// RemoveSponsor godoc
// @Summary Remove a sponsor
// @Tags sponsors
// @Param id path int true "Event ID"
// @Param sponsorId path int true "Sponsor ID"
// @Success 204 "Removed"
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /events/{id}/sponsors/{sponsorId} [delete]
func (h *EventHandler) RemoveSponsor(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sponsorID, err := getIDFromURL(r, "sponsorId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.RemoveSponsor(r.Context(), eventID, sponsorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
