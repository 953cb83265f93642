package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// store is an in-memory database shared by the fake repositories so that
// preloads (Job, Seeker, Sender) resolve the way the gorm ones do.
type store struct {
	mu       sync.Mutex
	clock    time.Time
	users    map[uuid.UUID]models.User
	jobs     map[uuid.UUID]models.Job
	apps     map[uuid.UUID]models.Application
	saved    map[[2]uuid.UUID]time.Time
	notes    map[uuid.UUID]models.Notification
	messages []models.Message

	createNoteErr error
}

func newStore() *store {
	return &store{
		clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		users: map[uuid.UUID]models.User{},
		jobs:  map[uuid.UUID]models.Job{},
		apps:  map[uuid.UUID]models.Application{},
		saved: map[[2]uuid.UUID]time.Time{},
		notes: map[uuid.UUID]models.Notification{},
	}
}

// tick returns strictly increasing timestamps so newest-first ordering is deterministic.
func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) addUser(name, role string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{
		ID:              uuid.New(),
		Name:            name,
		Email:           fmt.Sprintf("%s@example.com", name),
		Role:            role,
		IsEmailVerified: true,
		Profile:         datatypes.NewJSONType(models.EmptyProfile()),
		CreatedAt:       s.tick(),
	}
	s.users[u.ID] = u
	return &u
}

func (s *store) addJob(poster *models.User, title, status string) *models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := models.Job{
		ID:          uuid.New(),
		Title:       title,
		Description: title + " description",
		Location:    "Berlin",
		CompanyName: "Acme",
		PostedBy:    poster.ID,
		JobType:     "Full-time",
		Status:      status,
		CreatedAt:   s.tick(),
	}
	s.jobs[j.ID] = j
	return &j
}

func (s *store) user(id uuid.UUID) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *store) job(id uuid.UUID) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *store) app(id uuid.UUID) models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[id]
}

func (s *store) notesFor(id uuid.UUID) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notes {
		if n.RecipientID == id {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *store) userPtr(id uuid.UUID) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *store) jobPtr(id uuid.UUID) *models.Job {
	j, ok := s.jobs[id]
	if !ok {
		return nil
	}
	return &j
}

type fakeUsers struct{ *store }

func (r fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userPtr(id), nil
}

func (r fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r fakeUsers) FindByProviderID(_ context.Context, provider, providerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if (provider == models.ProviderGoogle && u.GoogleID == providerID) ||
			(provider == models.ProviderGitHub && u.GitHubID == providerID) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r fakeUsers) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = r.tick()
	r.users[u.ID] = *u
	return nil
}

func (r fakeUsers) Save(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r fakeUsers) List(_ context.Context) ([]models.User, error) {
	return r.ListByRole(context.Background(), "")
}

func (r fakeUsers) ListByRole(_ context.Context, role string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeUsers) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeJobs struct{ *store }

func (r fakeJobs) Create(_ context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = uuid.New()
	j.CreatedAt = r.tick()
	r.jobs[j.ID] = *j
	return nil
}

func (r fakeJobs) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobPtr(id), nil
}

func (r fakeJobs) list(keep func(models.Job) bool) []models.Job {
	var out []models.Job
	for _, j := range r.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

func (r fakeJobs) ListApproved(_ context.Context, f repository.JobFilter) ([]models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.list(func(j models.Job) bool {
		return j.Status == models.JobStatusApproved && (f.JobType == "" || j.JobType == f.JobType)
	})
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r fakeJobs) ListPending(_ context.Context) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list(func(j models.Job) bool { return j.Status == models.JobStatusPending })
	for i := range out {
		out[i].Poster = r.userPtr(out[i].PostedBy)
	}
	return out, nil
}

func (r fakeJobs) ListByPoster(_ context.Context, posterID uuid.UUID) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(j models.Job) bool { return j.PostedBy == posterID }), nil
}

func (r fakeJobs) Review(_ context.Context, id uuid.UUID, status, remarks string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Status != models.JobStatusPending {
		return false, nil
	}
	j.Status = status
	j.AdminRemarks = remarks
	r.jobs[id] = j
	return true, nil
}

func (r fakeJobs) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

type fakeApps struct{ *store }

func (r fakeApps) Create(_ context.Context, a *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.SeekerID == a.SeekerID {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = r.tick()
	r.apps[a.ID] = *a
	return nil
}

func (r fakeApps) loaded(a models.Application) models.Application {
	a.Job = r.jobPtr(a.JobID)
	a.Seeker = r.userPtr(a.SeekerID)
	return a
}

func (r fakeApps) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	a = r.loaded(a)
	return &a, nil
}

func (r fakeApps) FindByJobAndSeeker(_ context.Context, jobID, seekerID uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == jobID && a.SeekerID == seekerID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r fakeApps) list(limit int, keep func(models.Application) bool) []models.Application {
	var out []models.Application
	for _, a := range r.apps {
		if keep(a) {
			out = append(out, r.loaded(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r fakeApps) ListByJob(_ context.Context, jobID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(0, func(a models.Application) bool { return a.JobID == jobID }), nil
}

func (r fakeApps) ListBySeeker(_ context.Context, seekerID uuid.UUID, limit int) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(limit, func(a models.Application) bool { return a.SeekerID == seekerID }), nil
}

func (r fakeApps) CountBySeeker(ctx context.Context, seekerID uuid.UUID) (int64, error) {
	all, _ := r.ListBySeeker(ctx, seekerID, 0)
	return int64(len(all)), nil
}

func (r fakeApps) ListForEmployer(_ context.Context, employerID uuid.UUID, limit int) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(limit, func(a models.Application) bool { return r.jobs[a.JobID].PostedBy == employerID }), nil
}

func (r fakeApps) CountForEmployer(ctx context.Context, employerID uuid.UUID) (int64, error) {
	all, _ := r.ListForEmployer(ctx, employerID, 0)
	return int64(len(all)), nil
}

func (r fakeApps) UpdateStatus(_ context.Context, id uuid.UUID, status string, interviewDate *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.apps[id]
	a.Status = status
	if interviewDate != nil {
		a.InterviewDate = interviewDate
	}
	r.apps[id] = a
	return nil
}

func (r fakeApps) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.apps)), nil
}

type fakeSaved struct{ *store }

func (r fakeSaved) Add(_ context.Context, userID, jobID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]uuid.UUID{userID, jobID}
	if _, ok := r.saved[k]; ok {
		return repository.ErrDuplicate
	}
	r.saved[k] = r.tick()
	return nil
}

func (r fakeSaved) Remove(_ context.Context, userID, jobID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.saved, [2]uuid.UUID{userID, jobID})
	return nil
}

func (r fakeSaved) Exists(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.saved[[2]uuid.UUID{userID, jobID}]
	return ok, nil
}

func (r fakeSaved) ListJobs(_ context.Context, userID uuid.UUID) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for k := range r.saved {
		if k[0] == userID {
			if j := r.jobPtr(k[1]); j != nil {
				out = append(out, *j)
			}
		}
	}
	return out, nil
}

type fakeNotes struct{ *store }

func (r fakeNotes) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createNoteErr != nil {
		return r.createNoteErr
	}
	n.ID = uuid.New()
	n.CreatedAt = r.tick()
	r.notes[n.ID] = *n
	return nil
}

func (r fakeNotes) ListByRecipient(_ context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	list := r.notesFor(recipientID)
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r fakeNotes) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	for _, note := range r.notesFor(recipientID) {
		if !note.IsRead {
			n++
		}
	}
	return n, nil
}

func (r fakeNotes) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok && n.RecipientID == recipientID {
		n.IsRead = true
		r.notes[id] = n
	}
	return nil
}

func (r fakeNotes) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notes {
		if n.RecipientID == recipientID {
			n.IsRead = true
			r.notes[id] = n
		}
	}
	return nil
}

func (r fakeNotes) Delete(_ context.Context, id, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok && n.RecipientID == recipientID {
		delete(r.notes, id)
	}
	return nil
}

type fakeMessages struct{ *store }

func (r fakeMessages) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = r.tick()
	sender := r.userPtr(m.SenderID)
	m.Sender = sender
	r.messages = append(r.messages, *m)
	return nil
}

func (r fakeMessages) ListRecent(_ context.Context, limit int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.messages[i])
	}
	return out, nil
}

var (
	_ repository.UserRepository         = fakeUsers{}
	_ repository.JobRepository          = fakeJobs{}
	_ repository.ApplicationRepository  = fakeApps{}
	_ repository.SavedJobRepository     = fakeSaved{}
	_ repository.NotificationRepository = fakeNotes{}
	_ repository.MessageRepository      = fakeMessages{}
)

type fakeFiles struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putErr     error
	presignErr error
}

func newFakeFiles() *fakeFiles { return &fakeFiles{objects: map[string][]byte{}} }

func (f *fakeFiles) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[key] = b
	f.mu.Unlock()
	return nil
}

func (f *fakeFiles) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://files.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeFiles) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type emitted struct {
	Room  string
	Event string
	Data  any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *fakeEmitter) Emit(room, event string, data any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{Room: room, Event: event, Data: data})
}

func (e *fakeEmitter) Broadcast(event string, data any) {
	e.Emit("", event, data)
}

func (e *fakeEmitter) named(event string) []emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []emitted
	for _, ev := range e.events {
		if ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

type fakeQueue struct {
	mu     sync.Mutex
	emails []mailer.Email
	err    error
}

func (q *fakeQueue) Enqueue(_ context.Context, e mailer.Email) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.emails = append(q.emails, e)
	return nil
}

func (q *fakeQueue) sent() []mailer.Email {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mailer.Email(nil), q.emails...)
}

type fakeRecorder struct {
	mu            sync.Mutex
	notifications map[string]int
	emailFailures map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{notifications: map[string]int{}, emailFailures: map[string]int{}}
}

func (r *fakeRecorder) RecordNotification(kind string) {
	r.mu.Lock()
	r.notifications[kind]++
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordEmailSent() {}

func (r *fakeRecorder) RecordEmailFailed(stage string) {
	r.mu.Lock()
	r.emailFailures[stage]++
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordRealtimeEvent(bool) {}

// env wires every service against one in-memory store.
type env struct {
	db       *store
	files    *fakeFiles
	emitter  *fakeEmitter
	queue    *fakeQueue
	recorder *fakeRecorder
	cfg      *config.Config

	notifications *NotificationService
	jobs          *JobService
	applications  *ApplicationService
	auth          *AuthService
	admin         *AdminService
	profiles      *ProfileService
	dashboard     *DashboardService
	chat          *ChatService
}

func newEnv() *env {
	e := &env{
		db:       newStore(),
		files:    newFakeFiles(),
		emitter:  &fakeEmitter{},
		queue:    &fakeQueue{},
		recorder: newFakeRecorder(),
		cfg: &config.Config{
			JWTSecret:        "test-secret",
			JWTExpiry:        24 * time.Hour,
			ResetTokenExpiry: time.Hour,
			OTPExpiry:        10 * time.Minute,
			FrontendURL:      "http://app.test",
			PublicURL:        "http://api.test",
			AdminEmails:      "boss@example.com",
		},
	}
	users, jobs, apps := fakeUsers{e.db}, fakeJobs{e.db}, fakeApps{e.db}
	saved := fakeSaved{e.db}

	e.notifications = NewNotificationService(fakeNotes{e.db}, e.emitter, e.queue, e.recorder)
	e.jobs = NewJobService(jobs, users, saved, e.notifications)
	e.applications = NewApplicationService(apps, jobs, users, e.files, e.notifications, e.cfg.FrontendURL)
	e.auth = NewAuthService(users, e.queue, e.cfg)
	e.admin = NewAdminService(users, jobs, apps)
	e.profiles = NewProfileService(users, e.files)
	e.dashboard = NewDashboardService(jobs, apps, saved)
	e.chat = NewChatService(fakeMessages{e.db}, e.emitter)
	return e
}

func pdf(name string) *Upload {
	body := []byte("%PDF-1.4 test")
	return &Upload{Filename: name, ContentType: "application/pdf", Size: int64(len(body)), Body: bytes.NewReader(body)}
}
