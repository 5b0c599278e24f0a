package printjob

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printq/printq-backend/internal/modules/pricing"
	"github.com/printq/printq-backend/internal/notify"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeRepo struct {
	jobs  map[uuid.UUID]*PrintJob
	files map[uuid.UUID]*PrintJobFile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:  make(map[uuid.UUID]*PrintJob),
		files: make(map[uuid.UUID]*PrintJobFile),
	}
}

func (r *fakeRepo) CreateJob(_ context.Context, job *PrintJob) error {
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *fakeRepo) UpdateTotalCost(_ context.Context, jobID uuid.UUID, totalCost float64) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	job.TotalCost = totalCost
	return nil
}

func (r *fakeRepo) CreateFile(_ context.Context, file *PrintJobFile) error {
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *fakeRepo) GetJobByID(_ context.Context, id string) (*PrintJob, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	job, ok := r.jobs[uid]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *job
	clone.Files = r.jobFiles(uid)
	return &clone, nil
}

func (r *fakeRepo) GetJobByToken(_ context.Context, tokenNumber string) (*PrintJob, error) {
	for _, job := range r.jobs {
		if job.TokenNumber == tokenNumber {
			clone := *job
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListJobsByShop(_ context.Context, shopOwnerID string, status JobStatus) ([]*PrintJob, error) {
	var jobs []*PrintJob
	for _, job := range r.jobs {
		if job.ShopOwnerID.String() != shopOwnerID {
			continue
		}
		if status != "" && job.Status != status {
			continue
		}
		clone := *job
		clone.Files = r.jobFiles(job.ID)
		jobs = append(jobs, &clone)
	}
	return jobs, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, jobID uuid.UUID, status JobStatus) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	return nil
}

func (r *fakeRepo) UpdateFileURL(_ context.Context, fileID uuid.UUID, fileURL string) error {
	file, ok := r.files[fileID]
	if !ok {
		return ErrNotFound
	}
	file.FileURL = fileURL
	file.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRepo) jobFiles(jobID uuid.UUID) []*PrintJobFile {
	var files []*PrintJobFile
	for _, f := range r.files {
		if f.PrintJobID == jobID {
			clone := *f
			files = append(files, &clone)
		}
	}
	return files
}

type fakeQuoter struct {
	price     float64
	err       error
	gotPages  int
	gotCopies int
	gotSide   pricing.PrintSide
}

func (q *fakeQuoter) Quote(_ context.Context, _ uuid.UUID, _ pricing.PaperType, _ pricing.PrintType, side pricing.PrintSide, totalPages, copies int) (float64, error) {
	q.gotPages = totalPages
	q.gotCopies = copies
	q.gotSide = side
	if q.err != nil {
		return 0, q.err
	}
	return q.price, nil
}

type fakeStore struct {
	uploads     map[string]string // key -> content type
	presignErr  error
	presignTTLs map[string][]time.Duration
	issued      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		uploads:     make(map[string]string),
		presignTTLs: make(map[string][]time.Duration),
	}
}

func (s *fakeStore) Upload(_ context.Context, key string, _ io.Reader, _ int64, contentType string) error {
	s.uploads[key] = contentType
	return nil
}

func (s *fakeStore) PresignURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	s.presignTTLs[key] = append(s.presignTTLs[key], ttl)
	s.issued++
	// Serial keeps every issued URL distinct, as real presigning does.
	return fmt.Sprintf("https://files.test/%s?ttl=%d&sig=%d", key, int(ttl.Seconds()), s.issued), nil
}

type fakeBroadcaster struct {
	err    error
	events []publishedEvent
}

type publishedEvent struct {
	room    string
	event   string
	payload any
}

func (b *fakeBroadcaster) Publish(_ context.Context, room, event string, payload any) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, publishedEvent{room: room, event: event, payload: payload})
	return nil
}

type fixedPages struct{ perFile int }

func (c fixedPages) CountPages(_ []byte, _ string) int { return c.perFile }

// ── harness ──────────────────────────────────────────────────────────────────

type engine struct {
	svc    Service
	repo   *fakeRepo
	quoter *fakeQuoter
	store  *fakeStore
	events *fakeBroadcaster
}

func newEngine(t *testing.T, opts ...func(*engine)) *engine {
	t.Helper()
	e := &engine{
		repo:   newFakeRepo(),
		quoter: &fakeQuoter{price: 60.00},
		store:  newFakeStore(),
		events: &fakeBroadcaster{},
	}
	for _, opt := range opts {
		opt(e)
	}
	svc, err := NewService(e.repo, e.quoter, e.store, fixedPages{perFile: 10}, e.events, nil)
	require.NoError(t, err)
	e.svc = svc
	return e
}

func validSubmit(shopID uuid.UUID) SubmitRequest {
	return SubmitRequest{
		ShopOwnerID:  shopID.String(),
		CustomerName: "Amina",
		Copies:       "3",
		PrintType:    "BLACK_WHITE",
		PaperType:    "A4",
		PrintSide:    "SINGLE_SIDED",
		Files: []FileUpload{
			{Name: "thesis.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")},
		},
	}
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestNewServiceRequiresBroadcaster(t *testing.T) {
	_, err := NewService(newFakeRepo(), &fakeQuoter{}, newFakeStore(), fixedPages{perFile: 1}, nil, nil)
	assert.ErrorIs(t, err, notify.ErrNotInitialized)
}

func TestSubmit(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)

	job, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, 10, job.TotalPages)
	assert.Equal(t, 60.00, job.TotalCost)
	assert.Equal(t, 3, job.Copies)
	assert.Regexp(t, `^PJ-\d{13}-\d{1,3}$`, job.TokenNumber)

	// The quoter saw the derived totals, not raw form values.
	assert.Equal(t, 10, e.quoter.gotPages)
	assert.Equal(t, 3, e.quoter.gotCopies)
	assert.Equal(t, pricing.SingleSided, e.quoter.gotSide)

	// One file uploaded under the shop/job scoped key, with a 24h URL.
	require.Len(t, job.Files, 1)
	key := fmt.Sprintf("shops/%s/%s_thesis.pdf", shopID, job.ID)
	assert.Contains(t, e.store.uploads, key)
	require.Len(t, e.store.presignTTLs[key], 1)
	assert.Equal(t, 24*time.Hour, e.store.presignTTLs[key][0])
	assert.Equal(t, 10, job.Files[0].Pages)

	// Shop dashboard notified.
	require.Len(t, e.events.events, 1)
	assert.Equal(t, notify.ShopRoom(shopID.String()), e.events.events[0].room)
	assert.Equal(t, "newPrintJob", e.events.events[0].event)
	payload, ok := e.events.events[0].payload.(NewPrintJobEvent)
	require.True(t, ok)
	assert.Equal(t, job.TokenNumber, payload.TokenNumber)
	assert.Equal(t, "Amina", payload.CustomerName)
}

func TestSubmitValidation(t *testing.T) {
	shopID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
		field  string
	}{
		{
			name:   "missing shop id",
			mutate: func(r *SubmitRequest) { r.ShopOwnerID = "" },
			field:  "shop_owner_id",
		},
		{
			name:   "zero copies",
			mutate: func(r *SubmitRequest) { r.Copies = "0" },
			field:  "noof_copies",
		},
		{
			name:   "non-numeric copies",
			mutate: func(r *SubmitRequest) { r.Copies = "three" },
			field:  "noof_copies",
		},
		{
			name:   "no files",
			mutate: func(r *SubmitRequest) { r.Files = nil },
			field:  "files",
		},
		{
			name:   "bad paper type",
			mutate: func(r *SubmitRequest) { r.PaperType = "B4" },
			field:  "paper_type",
		},
		{
			name:   "bad print side",
			mutate: func(r *SubmitRequest) { r.PrintSide = "TRIPLE_SIDED" },
			field:  "print_side",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			req := validSubmit(shopID)
			tt.mutate(&req)

			_, err := e.svc.Submit(context.Background(), req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			// Validation failures persist and upload nothing.
			assert.Empty(t, e.repo.jobs)
			assert.Empty(t, e.store.uploads)
			assert.Empty(t, e.events.events)
		})
	}
}

func TestSubmitRejectsUnsupportedFileType(t *testing.T) {
	e := newEngine(t)
	req := validSubmit(uuid.New())
	req.Files = append(req.Files, FileUpload{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hi"),
	})

	_, err := e.svc.Submit(context.Background(), req)
	var ufe *UnsupportedFileTypeError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "text/plain", ufe.ContentType)

	// The whole submission is rejected atomically, including the valid PDF.
	assert.Empty(t, e.repo.jobs)
	assert.Empty(t, e.repo.files)
	assert.Empty(t, e.store.uploads)
}

func TestSubmitDefaultsMedium(t *testing.T) {
	e := newEngine(t)
	req := validSubmit(uuid.New())
	req.PrintType = ""
	req.PaperType = ""
	req.PrintSide = ""

	job, err := e.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, pricing.PrintBlackWhite, job.PrintType)
	assert.Equal(t, pricing.PaperA4, job.PaperType)
	assert.Equal(t, pricing.SingleSided, job.PrintSide)
}

func TestSubmitNoPricingConfig(t *testing.T) {
	e := newEngine(t, func(e *engine) {
		e.quoter = &fakeQuoter{err: pricing.ErrConfigNotFound}
	})

	_, err := e.svc.Submit(context.Background(), validSubmit(uuid.New()))
	require.ErrorIs(t, err, pricing.ErrConfigNotFound)

	// The two-phase write is not rolled back: the job row exists in
	// PENDING with no cost, and no files were uploaded.
	require.Len(t, e.repo.jobs, 1)
	for _, job := range e.repo.jobs {
		assert.Equal(t, StatusPending, job.Status)
		assert.Zero(t, job.TotalCost)
	}
	assert.Empty(t, e.store.uploads)
}

func TestSubmitSurvivesBroadcastFailure(t *testing.T) {
	e := newEngine(t, func(e *engine) {
		e.events = &fakeBroadcaster{err: fmt.Errorf("broker down")}
	})

	job, err := e.svc.Submit(context.Background(), validSubmit(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		from    JobStatus
		to      string
		wantErr bool
	}{
		{from: StatusPending, to: "PROCESSING"},
		{from: StatusPending, to: "CANCELLED"},
		{from: StatusProcessing, to: "COMPLETED"},
		{from: StatusProcessing, to: "CANCELLED"},
		{from: StatusPending, to: "COMPLETED", wantErr: true},
		{from: StatusCompleted, to: "PENDING", wantErr: true},
		{from: StatusCompleted, to: "PROCESSING", wantErr: true},
		{from: StatusCancelled, to: "PENDING", wantErr: true},
		{from: StatusCancelled, to: "COMPLETED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			e := newEngine(t)
			job, err := e.svc.Submit(context.Background(), validSubmit(uuid.New()))
			require.NoError(t, err)
			e.repo.jobs[job.ID].Status = tt.from

			updated, err := e.svc.UpdateStatus(context.Background(), job.ID.String(), UpdateStatusRequest{Status: tt.to})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, e.repo.jobs[job.ID].Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, JobStatus(tt.to), updated.Status)
				assert.Equal(t, JobStatus(tt.to), e.repo.jobs[job.ID].Status)
			}
		})
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(uuid.New()))
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(context.Background(), job.ID.String(), UpdateStatusRequest{Status: "SHREDDED"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestUpdateStatusNotFound(t *testing.T) {
	e := newEngine(t)
	_, err := e.svc.UpdateStatus(context.Background(), uuid.New().String(), UpdateStatusRequest{Status: "PROCESSING"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteWindsDownFileAccess(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)
	e.repo.jobs[job.ID].Status = StatusProcessing

	updated, err := e.svc.UpdateStatus(context.Background(), job.ID.String(), UpdateStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	// Each attachment got a 5 minute replacement URL, persisted.
	key := fmt.Sprintf("shops/%s/%s_thesis.pdf", shopID, job.ID)
	ttls := e.store.presignTTLs[key]
	require.Len(t, ttls, 2) // intake + wind-down
	assert.Equal(t, 5*time.Minute, ttls[1])

	fileID := job.Files[0].ID
	assert.Contains(t, e.repo.files[fileID].FileURL, "ttl=300")
	assert.Contains(t, updated.Files[0].FileURL, "ttl=300")
}

func TestStatusUpdateNotifiesBothRooms(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)
	e.events.events = nil

	_, err = e.svc.UpdateStatus(context.Background(), job.ID.String(), UpdateStatusRequest{Status: "PROCESSING"})
	require.NoError(t, err)

	require.Len(t, e.events.events, 2)
	rooms := []string{e.events.events[0].room, e.events.events[1].room}
	assert.Contains(t, rooms, notify.ShopRoom(shopID.String()))
	assert.Contains(t, rooms, notify.JobRoom(job.ID.String()))
	for _, ev := range e.events.events {
		assert.Equal(t, "printJobStatusUpdate", ev.event)
		payload, ok := ev.payload.(StatusUpdateEvent)
		require.True(t, ok)
		assert.Equal(t, StatusProcessing, payload.Status)
		assert.Equal(t, job.TokenNumber, payload.TokenNumber)
	}
}

func TestGetJobByToken(t *testing.T) {
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(uuid.New()))
	require.NoError(t, err)

	found, err := e.svc.GetJobByToken(context.Background(), job.TokenNumber)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, found.Status)
	assert.Equal(t, job.ID, found.ID)
	assert.Empty(t, found.Files)

	_, err = e.svc.GetJobByToken(context.Background(), "PJ-0-0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListShopJobsRenewsStaleURLs(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)

	// Age the stored reference past the 12h staleness window.
	fileID := job.Files[0].ID
	e.repo.files[fileID].UpdatedAt = time.Now().Add(-13 * time.Hour)
	staleURL := e.repo.files[fileID].FileURL

	jobs, err := e.svc.ListShopJobs(context.Background(), shopID.String(), "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Len(t, jobs[0].Files, 1)

	// Returned and persisted references were both replaced with a fresh
	// 24h issuance.
	assert.NotEqual(t, staleURL, jobs[0].Files[0].FileURL)
	assert.Equal(t, jobs[0].Files[0].FileURL, e.repo.files[fileID].FileURL)
	assert.WithinDuration(t, time.Now(), e.repo.files[fileID].UpdatedAt, time.Minute)

	key := fmt.Sprintf("shops/%s/%s_thesis.pdf", shopID, job.ID)
	require.Len(t, e.store.presignTTLs[key], 2) // intake + renewal
	assert.Equal(t, 24*time.Hour, e.store.presignTTLs[key][1])
}

func TestListShopJobsKeepsFreshURLs(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)
	job, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)

	fileID := job.Files[0].ID
	freshURL := e.repo.files[fileID].FileURL

	jobs, err := e.svc.ListShopJobs(context.Background(), shopID.String(), "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, freshURL, jobs[0].Files[0].FileURL)
}

func TestListShopJobsStatusFilter(t *testing.T) {
	shopID := uuid.New()
	e := newEngine(t)

	first, err := e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)
	_, err = e.svc.Submit(context.Background(), validSubmit(shopID))
	require.NoError(t, err)
	_, err = e.svc.UpdateStatus(context.Background(), first.ID.String(), UpdateStatusRequest{Status: "PROCESSING"})
	require.NoError(t, err)

	pending, err := e.svc.ListShopJobs(context.Background(), shopID.String(), "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = e.svc.ListShopJobs(context.Background(), shopID.String(), "DONE")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestGenerateTokenNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^PJ-\d{13}-\d{1,3}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, generateTokenNumber())
	}
}
