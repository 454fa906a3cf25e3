package answers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/database/testutil"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/directory"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/entries"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/surveys"
)

// memStore is an in-memory Store that counts calls.
type memStore struct {
	mu    sync.Mutex
	docs  map[string]models.SubmissionDocument
	calls int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]models.SubmissionDocument{}}
}

func (m *memStore) Create(_ context.Context, doc *models.SubmissionDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID.Hex()] = *doc
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.SubmissionDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	doc, ok := m.docs[id]
	if !ok {
		return nil, apperr.NotFound("submission %s not found", id)
	}
	return &doc, nil
}

func (m *memStore) Update(_ context.Context, doc *models.SubmissionDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.docs[doc.ID.Hex()]; !ok {
		return apperr.NotFound("submission %s not found", doc.ID.Hex())
	}
	doc.UpdatedAt = time.Now()
	m.docs[doc.ID.Hex()] = *doc
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.docs[id]; !ok {
		return apperr.NotFound("submission %s not found", id)
	}
	delete(m.docs, id)
	return nil
}

func (m *memStore) ListIDs(_ context.Context, createdBefore time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id, doc := range m.docs {
		if doc.CreatedAt.Before(createdBefore) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var (
	admin = models.Caller{SubjectID: "admin", Role: models.RoleAdmin}
	u1    = models.Caller{SubjectID: "u1", Role: models.RoleUser}
	u2    = models.Caller{SubjectID: "u2", Role: models.RoleUser}
)

type fixture struct {
	svc   *Service
	store *memStore
	repo  *entries.Repository
	entry *models.SubmissionEntry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	testutil.SeedUser(t, db, "u1")
	testutil.SeedUser(t, db, "u2")
	testutil.SeedUser(t, db, "admin")
	testutil.SeedEmployee(t, db, "e1", "u1")
	testutil.SeedEmployee(t, db, "e2", "u2")
	testutil.SeedSurvey(t, db, &models.Survey{ID: "s1", Title: "Monthly", Questions: []models.Question{
		{ID: "q1", Label: "Discipline", Type: models.QuestionRadio, Required: true, Order: 1},
		{ID: "q2", Label: "Notes", Type: models.QuestionTextarea, Order: 2},
		{ID: "q3", Label: "Output", Type: models.QuestionRange, Order: 3},
	}})

	repo := entries.NewRepository(db, log)
	entry := &models.SubmissionEntry{EmployeeID: "e1", SurveyID: "s1", UserID: "u1", PeriodMonth: time.Now()}
	require.NoError(t, repo.Create(context.Background(), entry))

	store := newMemStore()
	svc := NewService(store, repo, directory.NewService(db, log), surveys.NewService(db, log), log)
	return &fixture{svc: svc, store: store, repo: repo, entry: entry}
}

func (f *fixture) request(answers ...models.Answer) models.SubmitRequest {
	return models.SubmitRequest{EntryID: f.entry.ID, SurveyID: "s1", EmployeeID: "e1", Answers: answers}
}

func TestSubmitCreatesAndLinksDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Submit(ctx, u1, f.request(
		models.Answer{QuestionID: "q1", Value: 2.0},
		models.Answer{QuestionID: "q2", Value: "x"},
		models.Answer{QuestionID: "q3", Value: nil},
	))
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 2.0, snap.TotalPoint)
	assert.Equal(t, models.QuestionRadio, snap.Answers[0].QuestionType)

	entry, err := f.repo.FindByID(ctx, f.entry.ID)
	require.NoError(t, err)
	require.NotNil(t, entry.AnswerDocumentRef)
	assert.Equal(t, snap.ID, *entry.AnswerDocumentRef)

	_, err = f.svc.Submit(ctx, u1, f.request(models.Answer{QuestionID: "q1", Value: 1.0}))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestSubmitListsEveryMissingRequiredQuestion(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), u1, f.request(models.Answer{QuestionID: "q2", Value: "ok"}))
	require.True(t, apperr.Is(err, apperr.KindBadRequest))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []models.MissingAnswer{{QuestionID: "q1", Label: "Discipline"}}, appErr.Details)
	assert.Zero(t, f.store.calls)
}

func TestSubmitTenantIsolation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), u2, f.request(models.Answer{QuestionID: "q1", Value: 1.0}))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Zero(t, f.store.calls)
}

func TestSubmitLookupFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request(models.Answer{QuestionID: "q1", Value: 1.0})
	req.SurveyID = "missing"
	_, err := f.svc.Submit(ctx, u1, req)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Submit(ctx, models.Caller{SubjectID: "ghost", Role: models.RoleAdmin}, f.request(models.Answer{QuestionID: "q1", Value: 1.0}))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	req = f.request(models.Answer{QuestionID: "q1", Value: 1.0})
	req.EntryID = "missing"
	_, err = f.svc.Submit(ctx, u1, req)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSubmitEntryOwnedByAnotherTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// admin-visible employee, but the entry's owner differs from the USER caller
	other := &models.SubmissionEntry{EmployeeID: "e1", SurveyID: "s1", UserID: "u2", PeriodMonth: time.Now().AddDate(0, 0, -40)}
	require.NoError(t, f.repo.Create(ctx, other))

	req := f.request(models.Answer{QuestionID: "q1", Value: 1.0})
	req.EntryID = other.ID
	_, err := f.svc.Submit(ctx, u1, req)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpdateRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Submit(ctx, u1, f.request(models.Answer{QuestionID: "q1", Value: 2.0}))
	require.NoError(t, err)

	answers := []models.Answer{
		{QuestionID: "q1", Value: 5.0},
		{QuestionID: "q3", Value: 40.0},
		{QuestionID: "q2", Value: "better"},
	}
	updated, err := f.svc.Update(ctx, u1, snap.ID, models.UpdateRequest{Answers: &answers})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.TotalPoint)

	// no answers in the update: total untouched
	same, err := f.svc.Update(ctx, admin, snap.ID, models.UpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 45.0, same.TotalPoint)
}

func TestUpdateAndGetTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Submit(ctx, u1, f.request(models.Answer{QuestionID: "q1", Value: 2.0}))
	require.NoError(t, err)

	answers := []models.Answer{{QuestionID: "q1", Value: 9.0}}
	_, err = f.svc.Update(ctx, u2, snap.ID, models.UpdateRequest{Answers: &answers})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Get(ctx, u2, snap.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got, err := f.svc.Get(ctx, u1, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.TotalPoint)

	_, err = f.svc.Update(ctx, u1, primitive.NewObjectID().Hex(), models.UpdateRequest{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveCascadesToDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.Submit(ctx, u1, f.request(models.Answer{QuestionID: "q1", Value: 2.0}))
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, f.entry.ID))

	_, err = f.repo.FindByID(ctx, f.entry.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.store.FindByID(ctx, snap.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveEmptyEntrySkipsDocumentStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Remove(ctx, f.entry.ID))
	assert.Zero(t, f.store.calls)

	err := f.svc.Remove(ctx, f.entry.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveReportsDanglingPointer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.AttachDocument(ctx, f.entry.ID, primitive.NewObjectID().Hex()))
	err := f.svc.Remove(ctx, f.entry.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// the ledger row is gone regardless
	_, err = f.repo.FindByID(ctx, f.entry.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSubmitBySurveyAndEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := models.SubmitRequest{SurveyID: "s1", EmployeeID: "e1", Answers: []models.Answer{{QuestionID: "q1", Value: 2.0}}}
	snap, err := f.svc.Submit(ctx, u1, req)
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.TotalPoint)

	entry, err := f.repo.FindByID(ctx, f.entry.ID)
	require.NoError(t, err)
	require.NotNil(t, entry.AnswerDocumentRef)
	assert.Equal(t, snap.ID, *entry.AnswerDocumentRef)

	// same slot again: already filled
	_, err = f.svc.Submit(ctx, u1, req)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestSubmitBySurveyAndEmployeeWithoutSlot(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time { return time.Now().AddDate(1, 0, 0) }

	_, err := f.svc.Submit(context.Background(), u1, models.SubmitRequest{
		SurveyID: "s1", EmployeeID: "e1", Answers: []models.Answer{{QuestionID: "q1", Value: 2.0}},
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Zero(t, f.store.calls)
}

// conflictingLedger loses every attach, as when another writer fills the slot first.
type conflictingLedger struct {
	*entries.Repository
}

func (conflictingLedger) AttachDocument(_ context.Context, id, _ string) error {
	return apperr.Conflict("submission entry %s is already filled", id)
}

func TestSubmitDropsDocumentWhenAttachFails(t *testing.T) {
	f := newFixture(t)
	f.svc.ledger = conflictingLedger{Repository: f.repo}

	_, err := f.svc.Submit(context.Background(), u1, f.request(models.Answer{QuestionID: "q1", Value: 2.0}))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Empty(t, f.store.docs)

	entry, err := f.repo.FindByID(context.Background(), f.entry.ID)
	require.NoError(t, err)
	assert.False(t, entry.Filled())
}
