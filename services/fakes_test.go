package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/repositories"
	"github.com/Dosada05/hackathon-hub/storage"
)

type pair struct{ eventID, userID int }

// memStore mimics the relational schema, including ON DELETE CASCADE / SET NULL.
type memStore struct {
	mu           sync.Mutex
	nextID       int
	users        map[int]*models.User
	events       map[int]*models.Event
	photos       map[int]*models.EventPhoto
	teams        map[int]*models.EventTeam
	participants map[pair]*models.EventParticipant
	judges       map[pair]time.Time
	organisers   map[pair]time.Time
	sponsors     map[int]*models.Sponsor
	proposals    map[int]*models.TeamDetails
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int]*models.User{},
		events:       map[int]*models.Event{},
		photos:       map[int]*models.EventPhoto{},
		teams:        map[int]*models.EventTeam{},
		participants: map[pair]*models.EventParticipant{},
		judges:       map[pair]time.Time{},
		organisers:   map[pair]time.Time{},
		sponsors:     map[int]*models.Sponsor{},
		proposals:    map[int]*models.TeamDetails{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

// users

type fakeUsers struct{ *memStore }

func (f fakeUsers) Create(_ context.Context, _ repositories.SQLExecutor, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == strings.ToLower(u.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = f.id()
	u.Email = strings.ToLower(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f fakeUsers) UpsertByEmail(ctx context.Context, u *models.User) error {
	existing, err := f.GetByEmail(ctx, u.Email)
	if err != nil {
		return f.Create(ctx, nil, u)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.users[existing.ID]
	if u.Name != "" {
		stored.Name = u.Name
	}
	if u.Image != nil {
		stored.Image = u.Image
	}
	*u = *stored
	return nil
}

func (f fakeUsers) UpdateRoles(_ context.Context, id int, isAdmin, isJudge bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	u.IsAdmin, u.IsJudge = isAdmin, isJudge
	cp := *u
	return &cp, nil
}

func (f fakeUsers) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0)
	for _, u := range f.users {
		if filter.Search == "" || strings.Contains(strings.ToLower(u.Name+u.Email), strings.ToLower(filter.Search)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f fakeUsers) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// events

type fakeEvents struct{ *memStore }

func (f fakeEvents) Create(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.EndDate.Before(e.StartDate) {
		return repositories.ErrEventInvalidDates
	}
	e.ID = f.id()
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEvents) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeEvents) sorted(keep func(*models.Event) bool) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range f.events {
		if keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

func (f fakeEvents) List(_ context.Context, opts models.EventListOptions) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(e *models.Event) bool { return !opts.ActiveOnly || e.IsActive })
	if opts.Offset > len(out) {
		return []models.Event{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f fakeEvents) ListByOrganiser(_ context.Context, userID int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(e *models.Event) bool { _, ok := f.organisers[pair{e.ID, userID}]; return ok }), nil
}

func (f fakeEvents) ListByJudge(_ context.Context, userID int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(e *models.Event) bool { _, ok := f.judges[pair{e.ID, userID}]; return ok }), nil
}

func (f fakeEvents) Update(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	e.UpdatedAt = time.Now()
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEvents) UpdatePosterKey(_ context.Context, _ repositories.SQLExecutor, id int, key *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.PosterKey = key
	return nil
}

func (f fakeEvents) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	for k, p := range f.photos {
		if p.EventID == id {
			delete(f.photos, k)
		}
	}
	for k, t := range f.teams {
		if t.EventID == id {
			delete(f.teams, k)
		}
	}
	for k := range f.participants {
		if k.eventID == id {
			delete(f.participants, k)
		}
	}
	for k := range f.judges {
		if k.eventID == id {
			delete(f.judges, k)
		}
	}
	for k := range f.organisers {
		if k.eventID == id {
			delete(f.organisers, k)
		}
	}
	for k, s := range f.sponsors {
		if s.EventID == id {
			delete(f.sponsors, k)
		}
	}
	return nil
}

func (f fakeEvents) AddPhoto(_ context.Context, _ repositories.SQLExecutor, p *models.EventPhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[p.EventID]; !ok {
		return repositories.ErrEventNotFound
	}
	p.ID = f.id()
	p.CreatedAt = time.Now()
	cp := *p
	f.photos[p.ID] = &cp
	return nil
}

func (f fakeEvents) ListPhotos(_ context.Context, eventID int) ([]models.EventPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EventPhoto, 0)
	for _, p := range f.photos {
		if p.EventID == eventID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeEvents) Count(_ context.Context, activeOnly bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if !activeOnly || e.IsActive {
			n++
		}
	}
	return n, nil
}

// teams

type fakeTeams struct{ *memStore }

func (f fakeTeams) Create(_ context.Context, _ repositories.SQLExecutor, t *models.EventTeam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[t.EventID]; !ok {
		return repositories.ErrTeamEventInvalid
	}
	for _, existing := range f.teams {
		if existing.EventID == t.EventID && strings.EqualFold(existing.Name, t.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	t.ID = f.id()
	t.CreatedAt = time.Now()
	cp := *t
	f.teams[t.ID] = &cp
	return nil
}

func (f fakeTeams) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.EventTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f fakeTeams) FindByEventAndName(_ context.Context, _ repositories.SQLExecutor, eventID int, name string) (*models.EventTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.EventID == eventID && strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f fakeTeams) ListByEvent(_ context.Context, eventID int) ([]models.EventTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EventTeam, 0)
	for _, t := range f.teams {
		if t.EventID == eventID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeTeams) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	for _, p := range f.participants {
		if p.TeamID != nil && *p.TeamID == id {
			p.TeamID = nil
		}
	}
	return nil
}

// participants

type fakeParticipants struct{ *memStore }

func (f fakeParticipants) Create(_ context.Context, _ repositories.SQLExecutor, p *models.EventParticipant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[p.EventID]; !ok {
		return repositories.ErrParticipantEventInvalid
	}
	if _, ok := f.users[p.UserID]; !ok {
		return repositories.ErrParticipantUserInvalid
	}
	key := pair{p.EventID, p.UserID}
	if _, ok := f.participants[key]; ok {
		return repositories.ErrParticipantConflict
	}
	p.ID = f.id()
	p.CreatedAt = time.Now()
	cp := *p
	f.participants[key] = &cp
	return nil
}

func (f fakeParticipants) FindByEventAndUser(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) (*models.EventParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[pair{eventID, userID}]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeParticipants) ListByEvent(_ context.Context, eventID int) ([]models.ParticipantView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0)
	for k := range f.participants {
		if k.eventID == eventID {
			ids = append(ids, k.userID)
		}
	}
	sort.Ints(ids)
	out := make([]models.ParticipantView, 0, len(ids))
	for _, uid := range ids {
		p := f.participants[pair{eventID, uid}]
		out = append(out, models.ParticipantView{SafeUser: f.users[uid].Safe(), TeamID: p.TeamID})
	}
	return out, nil
}

func (f fakeParticipants) UpdateTeam(_ context.Context, _ repositories.SQLExecutor, eventID, userID int, teamID *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[pair{eventID, userID}]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	if teamID != nil {
		if _, ok := f.teams[*teamID]; !ok {
			return repositories.ErrParticipantTeamInvalid
		}
		id := *teamID
		p.TeamID = &id
	} else {
		p.TeamID = nil
	}
	return nil
}

func (f fakeParticipants) Delete(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pair{eventID, userID}
	if _, ok := f.participants[key]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(f.participants, key)
	return nil
}

// judges and organisers

type fakeLinks struct {
	*memStore
	table    func(*memStore) map[pair]time.Time
	notFound error
	conflict error
}

func (f fakeLinks) add(eventID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return repositories.ErrAssignmentRefInvalid
	}
	if _, ok := f.users[userID]; !ok {
		return repositories.ErrAssignmentRefInvalid
	}
	links := f.table(f.memStore)
	if _, ok := links[pair{eventID, userID}]; ok {
		return f.conflict
	}
	links[pair{eventID, userID}] = time.Now()
	return nil
}

func (f fakeLinks) remove(eventID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	links := f.table(f.memStore)
	if _, ok := links[pair{eventID, userID}]; !ok {
		return f.notFound
	}
	delete(links, pair{eventID, userID})
	return nil
}

func (f fakeLinks) find(eventID, userID int) (*models.EventAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.table(f.memStore)[pair{eventID, userID}]
	if !ok {
		return nil, f.notFound
	}
	return &models.EventAssignment{EventID: eventID, UserID: userID, CreatedAt: at}, nil
}

func (f fakeLinks) usersByEvent(eventID int) []models.SafeUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, 0)
	for k := range f.table(f.memStore) {
		if k.eventID == eventID {
			ids = append(ids, k.userID)
		}
	}
	sort.Ints(ids)
	out := make([]models.SafeUser, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.users[id].Safe())
	}
	return out
}

func (f fakeLinks) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.table(f.memStore))
}

type fakeJudges struct{ fakeLinks }

func newFakeJudges(m *memStore) fakeJudges {
	return fakeJudges{fakeLinks{m, func(s *memStore) map[pair]time.Time { return s.judges }, repositories.ErrJudgeNotFound, repositories.ErrJudgeConflict}}
}

func (f fakeJudges) AddJudgeToEvent(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) error {
	return f.add(eventID, userID)
}

func (f fakeJudges) RemoveJudgeFromEvent(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) error {
	return f.remove(eventID, userID)
}

func (f fakeJudges) FindJudge(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) (*models.EventAssignment, error) {
	return f.find(eventID, userID)
}

func (f fakeJudges) FindJudgesByEvent(_ context.Context, eventID int) ([]models.SafeUser, error) {
	return f.usersByEvent(eventID), nil
}

type fakeOrganisers struct{ fakeLinks }

func newFakeOrganisers(m *memStore) fakeOrganisers {
	return fakeOrganisers{fakeLinks{m, func(s *memStore) map[pair]time.Time { return s.organisers }, repositories.ErrOrganiserNotFound, repositories.ErrOrganiserConflict}}
}

func (f fakeOrganisers) AddOrganiserToEvent(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) error {
	return f.add(eventID, userID)
}

func (f fakeOrganisers) RemoveOrganiserFromEvent(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) error {
	return f.remove(eventID, userID)
}

func (f fakeOrganisers) FindOrganiser(_ context.Context, _ repositories.SQLExecutor, eventID, userID int) (*models.EventAssignment, error) {
	return f.find(eventID, userID)
}

func (f fakeOrganisers) FindOrganisersByEvent(_ context.Context, eventID int) ([]models.SafeUser, error) {
	return f.usersByEvent(eventID), nil
}

// sponsors

type fakeSponsors struct{ *memStore }

func (f fakeSponsors) Create(_ context.Context, _ repositories.SQLExecutor, s *models.Sponsor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[s.EventID]; !ok {
		return repositories.ErrEventNotFound
	}
	s.ID = f.id()
	s.CreatedAt = time.Now()
	cp := *s
	f.sponsors[s.ID] = &cp
	return nil
}

func (f fakeSponsors) ListByEvent(_ context.Context, eventID int) ([]models.Sponsor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Sponsor, 0)
	for _, s := range f.sponsors {
		if s.EventID == eventID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeSponsors) Delete(_ context.Context, _ repositories.SQLExecutor, eventID, sponsorID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sponsors[sponsorID]
	if !ok || s.EventID != eventID {
		return repositories.ErrSponsorNotFound
	}
	delete(f.sponsors, sponsorID)
	return nil
}

// proposals

type fakeProposals struct{ *memStore }

func (f fakeProposals) CreateWithMembers(_ context.Context, _ repositories.SQLExecutor, t *models.TeamDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.proposals {
		if existing.UserID == t.UserID {
			return repositories.ErrProposalTeamConflict
		}
	}
	if _, ok := f.users[t.UserID]; !ok {
		return repositories.ErrProposalUserInvalid
	}
	t.ID = f.id()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	for i := range t.Members {
		t.Members[i].ID = f.id()
		t.Members[i].TeamID = t.ID
	}
	cp := *t
	cp.Members = append([]models.TeamMember(nil), t.Members...)
	f.proposals[t.ID] = &cp
	return nil
}

func (f fakeProposals) get(match func(*models.TeamDetails) bool) (*models.TeamDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.proposals {
		if match(t) {
			cp := *t
			cp.Members = append([]models.TeamMember(nil), t.Members...)
			return &cp, nil
		}
	}
	return nil, repositories.ErrProposalTeamNotFound
}

func (f fakeProposals) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.TeamDetails, error) {
	return f.get(func(t *models.TeamDetails) bool { return t.ID == id })
}

func (f fakeProposals) GetByUserID(_ context.Context, _ repositories.SQLExecutor, userID int) (*models.TeamDetails, error) {
	return f.get(func(t *models.TeamDetails) bool { return t.UserID == userID })
}

func (f fakeProposals) UpdateProposal(_ context.Context, _ repositories.SQLExecutor, id int, key *string, status models.ApprovalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.proposals[id]
	if !ok {
		return repositories.ErrProposalTeamNotFound
	}
	t.ProposalKey, t.Status = key, status
	return nil
}

func (f fakeProposals) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.ApprovalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.proposals[id]
	if !ok {
		return repositories.ErrProposalTeamNotFound
	}
	t.Status = status
	return nil
}

func (f fakeProposals) List(_ context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TeamDetails, 0)
	for _, t := range f.proposals {
		if filter.Status == nil || t.Status == *filter.Status {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeProposals) CountByStatus(context.Context) (models.StatusBreakdown, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b models.StatusBreakdown
	for _, t := range f.proposals {
		switch t.Status {
		case models.ApprovalPending:
			b.Pending++
		case models.ApprovalApproved:
			b.Approved++
		case models.ApprovalRejected:
			b.Rejected++
		}
	}
	return b, nil
}

func (f fakeProposals) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.proposals), nil
}

func (f fakeProposals) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.proposals {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// infrastructure

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type logRecord struct {
	level   models.LogLevel
	source  string
	message string
	fields  applog.Fields
}

type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
}

func (l *recordingLogger) add(level models.LogLevel, source, message string, fields applog.Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, logRecord{level, source, message, fields})
}

func (l *recordingLogger) Debug(_ context.Context, source, message string, fields applog.Fields) {
	l.add(models.LogLevelDebug, source, message, fields)
}

func (l *recordingLogger) Info(_ context.Context, source, message string, fields applog.Fields) {
	l.add(models.LogLevelInfo, source, message, fields)
}

func (l *recordingLogger) Warn(_ context.Context, source, message string, fields applog.Fields) {
	l.add(models.LogLevelWarn, source, message, fields)
}

func (l *recordingLogger) Error(_ context.Context, source, message string, fields applog.Fields) {
	l.add(models.LogLevelError, source, message, fields)
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, string(r.level)+": "+r.message)
	}
	return out
}

type fakeUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []realtime.Message
	rooms    []string
}

func (n *fakeNotifier) BroadcastToRoom(room string, msg realtime.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, room)
	n.messages = append(n.messages, msg)
}

func (n *fakeNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.messages))
	for _, m := range n.messages {
		out = append(out, m.Type)
	}
	return out
}

// fixture wires every service to one memStore.
type fixture struct {
	store      *memStore
	users      fakeUsers
	judges     fakeJudges
	organisers fakeOrganisers
	uploader   *fakeUploader
	notifier   *fakeNotifier
	logger     *recordingLogger

	events    EventService
	userSvc   UserService
	orgSvc    OrganiserService
	proposals ProposalService
	analytics AnalyticsService
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:      store,
		users:      fakeUsers{store},
		judges:     newFakeJudges(store),
		organisers: newFakeOrganisers(store),
		uploader:   newFakeUploader(),
		notifier:   &fakeNotifier{},
		logger:     &recordingLogger{},
	}
	repos := EventRepositories{
		Events:       fakeEvents{store},
		Users:        f.users,
		Teams:        fakeTeams{store},
		Participants: fakeParticipants{store},
		Judges:       f.judges,
		Organisers:   f.organisers,
		Sponsors:     fakeSponsors{store},
	}
	f.events = NewEventService(repos, fakeTx{}, f.uploader, f.notifier, f.logger)
	f.userSvc = NewUserService(f.users, f.logger)
	f.orgSvc = NewOrganiserService(fakeEvents{store}, f.organisers, fakeParticipants{store}, f.uploader)
	f.proposals = NewProposalService(fakeProposals{store}, fakeTx{}, f.uploader, f.logger)
	f.analytics = NewAnalyticsService(f.users, fakeEvents{store}, fakeProposals{store})
	return f
}

func (f *fixture) user(name string) *models.User {
	u := &models.User{Name: name, Email: strings.ToLower(name) + "@example.com"}
	if err := f.users.Create(context.Background(), nil, u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) event(name string) *models.Event {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e, err := f.events.CreateEvent(context.Background(), CreateEventInput{
		Name: name, StartDate: start, EndDate: start.Add(48 * time.Hour),
	})
	if err != nil {
		panic(err)
	}
	return e
}

// CreateWithMembersAt seeds a pending team for userID with a fixed creation time.
func (f fakeProposals) CreateWithMembersAt(ctx context.Context, userID int, at time.Time) (*models.TeamDetails, error) {
	t := &models.TeamDetails{
		UserID:    userID,
		TeamName:  "Seeded",
		Status:    models.ApprovalPending,
		CreatedAt: at,
		Members:   []models.TeamMember{{Name: "Lead", Email: "lead@example.com", IsLeader: true}},
	}
	return t, f.CreateWithMembers(ctx, nil, t)
}
