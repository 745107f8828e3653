package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventService struct {
	services.EventService

	created       *services.CreateEventInput
	registered    [][2]int
	assigned      [3]int
	posterType    string
	posterBody    string
	err           error
	detailsCalled int
}

func (f *fakeEventService) CreateEvent(_ context.Context, input services.CreateEventInput) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &input
	return &models.Event{ID: 1, Name: input.Name, StartDate: input.StartDate, EndDate: input.EndDate, IsActive: true}, nil
}

func (f *fakeEventService) GetEventDetails(_ context.Context, eventID int) (*models.EventDetails, error) {
	f.detailsCalled++
	if f.err != nil {
		return nil, f.err
	}
	return &models.EventDetails{Event: models.Event{ID: eventID, Name: "Hack"}}, nil
}

func (f *fakeEventService) RegisterParticipantForEvent(_ context.Context, eventID, userID int) (*models.EventParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = append(f.registered, [2]int{eventID, userID})
	return &models.EventParticipant{ID: 3, EventID: eventID, UserID: userID}, nil
}

func (f *fakeEventService) AssignParticipantToTeam(_ context.Context, eventID, userID, teamID int) error {
	f.assigned = [3]int{eventID, userID, teamID}
	return f.err
}

func (f *fakeEventService) AddJudgeToEvent(_ context.Context, eventID, userID int) error {
	return f.err
}

func (f *fakeEventService) UploadEventPoster(_ context.Context, eventID int, contentType string, reader io.Reader) (*models.Event, error) {
	body, _ := io.ReadAll(reader)
	f.posterType, f.posterBody = contentType, string(body)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: eventID}, nil
}

type fakeProposalService struct {
	services.ProposalService
	team      *models.TeamDetails
	setStatus models.ApprovalStatus
	filter    models.ProposalFilter
}

func (f *fakeProposalService) GetTeam(_ context.Context, teamID int) (*models.TeamDetails, error) {
	if f.team == nil {
		return nil, services.ErrProposalTeamNotFound
	}
	return f.team, nil
}

func (f *fakeProposalService) ListProposals(_ context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error) {
	f.filter = filter
	return []models.TeamDetails{}, nil
}

func (f *fakeProposalService) SetApprovalStatus(_ context.Context, actor *models.User, teamID int, status models.ApprovalStatus) (*models.TeamDetails, error) {
	if !actor.IsAdmin && !actor.IsJudge {
		return nil, services.ErrForbiddenOperation
	}
	f.setStatus = status
	return &models.TeamDetails{ID: teamID, Status: status}, nil
}

type fakeLogReader struct {
	filter models.LogFilter
}

func (f *fakeLogReader) GetLogs(_ context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	f.filter = filter
	return []models.LogEntry{{ID: 1, Level: models.LogLevelInfo, Message: "ok"}}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func serve(t *testing.T, pattern, method, target string, h http.HandlerFunc, user *models.User, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) (models.Envelope, json.RawMessage) {
	t.Helper()
	var raw struct {
		Success bool                `json:"success"`
		Data    json.RawMessage     `json:"data"`
		Error   *models.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	return models.Envelope{Success: raw.Success, Error: raw.Error}, raw.Data
}

func TestCreateEvent_SuccessEnvelope(t *testing.T) {
	svc := &fakeEventService{}
	h := NewEventHandler(svc, 1<<20)

	body := `{"name":"Spring Hack","startDate":"2026-03-01T09:00:00Z","endDate":"2026-03-02T18:00:00Z"}`
	rec := serve(t, "/events", http.MethodPost, "/events", h.CreateEvent, nil, strings.NewReader(body), "application/json")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env, data := envelopeOf(t, rec)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	var event models.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "Spring Hack", event.Name)
	require.NotNil(t, svc.created)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), svc.created.StartDate.UTC())
}

func TestCreateEvent_ValidationReturnsFirstFieldMessage(t *testing.T) {
	svc := &fakeEventService{}
	h := NewEventHandler(svc, 1<<20)

	rec := serve(t, "/events", http.MethodPost, "/events", h.CreateEvent, nil,
		strings.NewReader(`{"startDate":"2026-03-01T09:00:00Z","endDate":"2026-03-02T18:00:00Z"}`), "application/json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env, _ := envelopeOf(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, models.CodeBadRequest, env.Error.Code)
	assert.Equal(t, "name is required", env.Error.Message)
	assert.Nil(t, svc.created)
}

func TestCreateEvent_RejectsUnknownFields(t *testing.T) {
	h := NewEventHandler(&fakeEventService{}, 1<<20)
	rec := serve(t, "/events", http.MethodPost, "/events", h.CreateEvent, nil,
		strings.NewReader(`{"name":"x","bogus":1}`), "application/json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env, _ := envelopeOf(t, rec)
	assert.Contains(t, env.Error.Message, "unknown key")
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrEventNotFound, http.StatusNotFound, models.CodeNotFound},
		{services.ErrUserNotFound, http.StatusNotFound, models.CodeNotFound},
		{services.ErrJudgeNotAssigned, http.StatusNotFound, models.CodeNotFound},
		{services.ErrParticipantAlreadyExists, http.StatusConflict, models.CodeConflict},
		{services.ErrTeamAlreadyExists, http.StatusConflict, models.CodeConflict},
		{services.ErrJudgeAlreadyAssigned, http.StatusConflict, models.CodeConflict},
		{services.ErrInvalidEventDates, http.StatusBadRequest, models.CodeBadRequest},
		{fmt.Errorf("%w: bad", services.ErrValidationFailed), http.StatusBadRequest, models.CodeBadRequest},
		{services.ErrForbiddenOperation, http.StatusForbidden, models.CodeForbidden},
		{services.ErrStorageUnavailable, http.StatusServiceUnavailable, models.CodeUnavailable},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, models.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			h := NewEventHandler(&fakeEventService{err: tc.err}, 1<<20)
			rec := serve(t, "/events/{id}", http.MethodGet, "/events/5", h.GetEvent, nil, nil, "")

			assert.Equal(t, tc.status, rec.Code)
			env, _ := envelopeOf(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Error.Code)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, env.Error.Message, "pq:")
			}
		})
	}
}

func TestGetEvent_InvalidID(t *testing.T) {
	svc := &fakeEventService{}
	h := NewEventHandler(svc, 1<<20)
	rec := serve(t, "/events/{id}", http.MethodGet, "/events/abc", h.GetEvent, nil, nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.detailsCalled)
}

func TestRegister_UsesCurrentUser(t *testing.T) {
	svc := &fakeEventService{}
	h := NewEventHandler(svc, 1<<20)

	rec := serve(t, "/events/{id}/register", http.MethodPost, "/events/4/register", h.Register, &models.User{ID: 9}, nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, [][2]int{{4, 9}}, svc.registered)

	rec = serve(t, "/events/{id}/register", http.MethodPost, "/events/4/register", h.Register, nil, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJoinTeam(t *testing.T) {
	svc := &fakeEventService{}
	h := NewEventHandler(svc, 1<<20)

	rec := serve(t, "/events/{id}/teams/{teamId}/join", http.MethodPost, "/events/4/teams/8/join", h.JoinTeam, &models.User{ID: 9}, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, [3]int{4, 9, 8}, svc.assigned)
}

func TestAddJudge_RequiresUserID(t *testing.T) {
	h := NewEventHandler(&fakeEventService{}, 1<<20)

	rec := serve(t, "/events/{id}/judges", http.MethodPost, "/events/4/judges", h.AddJudge, nil, strings.NewReader(`{}`), "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env, _ := envelopeOf(t, rec)
	assert.Equal(t, "userId is required", env.Error.Message)

	h = NewEventHandler(&fakeEventService{err: services.ErrJudgeAlreadyAssigned}, 1<<20)
	rec = serve(t, "/events/{id}/judges", http.MethodPost, "/events/4/judges", h.AddJudge, nil, strings.NewReader(`{"userId":2}`), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func multipartBody(t *testing.T, field, partType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload"`, field))
	if partType != "" {
		hdr.Set("Content-Type", partType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadPoster(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	t.Run("sniffs missing content type", func(t *testing.T) {
		svc := &fakeEventService{}
		h := NewEventHandler(svc, 1<<20)
		body, ct := multipartBody(t, "file", "", png)

		rec := serve(t, "/events/{id}/poster", http.MethodPut, "/events/2/poster", h.UploadPoster, nil, body, ct)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "image/png", svc.posterType)
		assert.Equal(t, string(png), svc.posterBody)
	})

	t.Run("keeps declared content type", func(t *testing.T) {
		svc := &fakeEventService{}
		h := NewEventHandler(svc, 1<<20)
		body, ct := multipartBody(t, "file", "image/webp", []byte("RIFF....WEBP"))

		rec := serve(t, "/events/{id}/poster", http.MethodPut, "/events/2/poster", h.UploadPoster, nil, body, ct)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/webp", svc.posterType)
	})

	t.Run("missing file field", func(t *testing.T) {
		h := NewEventHandler(&fakeEventService{}, 1<<20)
		body, ct := multipartBody(t, "other", "image/png", png)

		rec := serve(t, "/events/{id}/poster", http.MethodPut, "/events/2/poster", h.UploadPoster, nil, body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		h := NewEventHandler(&fakeEventService{}, 64)
		body, ct := multipartBody(t, "file", "image/png", bytes.Repeat([]byte{1}, 1024))

		rec := serve(t, "/events/{id}/poster", http.MethodPut, "/events/2/poster", h.UploadPoster, nil, body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported type from service", func(t *testing.T) {
		h := NewEventHandler(&fakeEventService{err: services.ErrUnsupportedFileType}, 1<<20)
		body, ct := multipartBody(t, "file", "text/plain", []byte("hello"))

		rec := serve(t, "/events/{id}/poster", http.MethodPut, "/events/2/poster", h.UploadPoster, nil, body, ct)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTeam_Visibility(t *testing.T) {
	svc := &fakeProposalService{team: &models.TeamDetails{ID: 3, UserID: 10, Status: models.ApprovalPending}}
	h := NewProposalHandler(svc, 1<<20)

	cases := map[string]struct {
		user   *models.User
		status int
	}{
		"owner":    {&models.User{ID: 10}, http.StatusOK},
		"judge":    {&models.User{ID: 11, IsJudge: true}, http.StatusOK},
		"admin":    {&models.User{ID: 12, IsAdmin: true}, http.StatusOK},
		"stranger": {&models.User{ID: 13}, http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, "/teams/{teamId}", http.MethodGet, "/teams/3", h.GetTeam, tc.user, nil, "")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestProposalDecision(t *testing.T) {
	svc := &fakeProposalService{}
	h := NewProposalHandler(svc, 1<<20)
	judge := &models.User{ID: 2, IsJudge: true}

	rec := serve(t, "/proposal", http.MethodPost, "/proposal", h.Decide, judge,
		strings.NewReader(`{"teamId":3,"status":"approved"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ApprovalApproved, svc.setStatus)

	rec = serve(t, "/proposal", http.MethodPost, "/proposal", h.Decide, judge,
		strings.NewReader(`{"teamId":3,"status":"maybe"}`), "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env, _ := envelopeOf(t, rec)
	assert.Equal(t, "status must be one of: pending approved rejected", env.Error.Message)

	rec = serve(t, "/admin/teams/{teamId}/status", http.MethodPatch, "/admin/teams/3/status", h.SetTeamStatus, &models.User{ID: 5},
		strings.NewReader(`{"status":"rejected"}`), "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListProposals_StatusFilter(t *testing.T) {
	svc := &fakeProposalService{}
	h := NewProposalHandler(svc, 1<<20)

	rec := serve(t, "/proposal", http.MethodGet, "/proposal?status=pending&limit=5", h.ListProposals, nil, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Status)
	assert.Equal(t, models.ApprovalPending, *svc.filter.Status)
	assert.Equal(t, 5, svc.filter.Limit)

	rec = serve(t, "/proposal", http.MethodGet, "/proposal?status=nope", h.ListProposals, nil, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLogs(t *testing.T) {
	reader := &fakeLogReader{}
	h := NewLogHandler(reader)

	rec := serve(t, "/logs", http.MethodGet, "/logs?userId=4&level=WARN&limit=10&offset=20", h.ListLogs, nil, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reader.filter.UserID)
	assert.Equal(t, 4, *reader.filter.UserID)
	require.NotNil(t, reader.filter.Level)
	assert.Equal(t, models.LogLevelWarn, *reader.filter.Level)
	assert.Equal(t, 10, reader.filter.Limit)
	assert.Equal(t, 20, reader.filter.Offset)

	for _, q := range []string{"level=loud", "limit=-1", "userId=x"} {
		rec = serve(t, "/logs", http.MethodGet, "/logs?"+q, h.ListLogs, nil, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHealth(t *testing.T) {
	rec := serve(t, "/healthz", http.MethodGet, "/healthz", NewHealthHandler(fakePinger{}).Health, nil, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, "/healthz", http.MethodGet, "/healthz", NewHealthHandler(fakePinger{err: errors.New("down")}).Health, nil, nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestValidateInput_NestedMemberField(t *testing.T) {
	input := services.SubmitTeamInput{
		TeamName: "Rockets",
		Members:  []services.TeamMemberInput{{Name: "Ada", Email: "not-an-email"}},
	}
	err := validateInput(&input)
	require.Error(t, err)
	assert.Equal(t, "members[0].email must be a valid email address", err.Error())

	input.Members = nil
	err = validateInput(&input)
	require.Error(t, err)
	assert.Equal(t, "members is required", err.Error())
}
