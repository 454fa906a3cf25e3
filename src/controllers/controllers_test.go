package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/services/autofill"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

var secret = []byte("controller-secret")

func newApp(t *testing.T, register func(r fiber.Router)) *fiber.App {
	t.Helper()
	app := fiber.New()
	register(app.Group("/", middleware.AuthJWT(secret, utils.NewTokenBlacklist(nil))))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, role models.Role) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	tok, err := utils.GenerateJWT(secret, "u1", role, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

type fakeEntries struct {
	err      error
	caller   models.Caller
	lastReq  models.AssignRequest
	from, to string
	filled   bool
	removed  []string
}

func (f *fakeEntries) Create(_ context.Context, caller models.Caller, req models.AssignRequest) (*models.AssignResult, error) {
	f.caller, f.lastReq = caller, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AssignResult{Created: 3, Existing: 1}, nil
}

func (f *fakeEntries) GetAll(_ context.Context, caller models.Caller, month string) ([]models.SubmissionEntry, error) {
	f.caller = caller
	return []models.SubmissionEntry{{ID: "x"}}, f.err
}

func (f *fakeEntries) GetAllAdmin(_ context.Context, _ models.Caller, from, to string) ([]models.SubmissionEntry, error) {
	f.from, f.to = from, to
	return nil, f.err
}

func (f *fakeEntries) IsUpdate(context.Context, models.Caller, string, string, string) (bool, error) {
	return f.filled, f.err
}

func (f *fakeEntries) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return f.err
}

func entryApp(t *testing.T, f *fakeEntries) *fiber.App {
	ctl := NewEntryController(f, f)
	return newApp(t, func(r fiber.Router) {
		r.Post("/entries", ctl.CreateEntries)
		r.Get("/entries", ctl.GetEntries)
		r.Get("/entries/admin", ctl.GetEntriesAdmin)
		r.Get("/entries/is-update", ctl.IsUpdate)
		r.Delete("/entries/:id", ctl.DeleteEntry)
	})
}

func TestEntryControllerCreate(t *testing.T) {
	f := &fakeEntries{}
	app := entryApp(t, f)

	status, body := do(t, app, http.MethodPost, "/entries", `{"mode":"all","surveyId":"s1"}`, models.RoleUser)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.EqualValues(t, 3, body["created"])
	assert.Equal(t, models.Caller{SubjectID: "u1", Role: models.RoleUser}, f.caller)
	assert.Equal(t, models.AssignAll, f.lastReq.Mode)

	status, _ = do(t, app, http.MethodPost, "/entries", `{"mode":`, models.RoleUser)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestEntryControllerMapsErrorKinds(t *testing.T) {
	cases := map[int]error{
		fiber.StatusNotFound:            apperr.NotFound("employee e9 not found"),
		fiber.StatusConflict:            apperr.Conflict("invalid 'from' date"),
		fiber.StatusForbidden:           apperr.Forbidden("admin access required"),
		fiber.StatusBadRequest:          apperr.BadRequest("bad month"),
		fiber.StatusInternalServerError: apperr.Internal(assert.AnError),
	}
	for want, err := range cases {
		app := entryApp(t, &fakeEntries{err: err})
		status, body := do(t, app, http.MethodGet, "/entries/admin?from=2024-01-01", "", models.RoleAdmin)
		assert.Equal(t, want, status)
		assert.EqualValues(t, want, body["status"])
	}

	app := entryApp(t, &fakeEntries{err: apperr.Internal(assert.AnError)})
	_, body := do(t, app, http.MethodGet, "/entries?month=2024-01", "", models.RoleAdmin)
	assert.Equal(t, "internal server error", body["message"])
}

func TestEntryControllerQueries(t *testing.T) {
	f := &fakeEntries{filled: true}
	app := entryApp(t, f)

	status, _ := do(t, app, http.MethodGet, "/entries/admin?from=2024-01-01&to=2024-03-01", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "2024-01-01", f.from)
	assert.Equal(t, "2024-03-01", f.to)

	status, body := do(t, app, http.MethodGet, "/entries/is-update?employeeId=e1&surveyId=s1&periodMonth=2024-02-17", "", models.RoleUser)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["isUpdate"])

	status, _ = do(t, app, http.MethodGet, "/entries/is-update?surveyId=s1", "", models.RoleUser)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/entries/abc", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, []string{"abc"}, f.removed)
}

type fakeSubmissions struct {
	err     error
	updated *models.UpdateRequest
}

func (f *fakeSubmissions) Submit(_ context.Context, _ models.Caller, req models.SubmitRequest) (*models.SubmissionSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SubmissionSnapshot{ID: "doc1", SurveyID: req.SurveyID, EmployeeID: req.EmployeeID, TotalPoint: 7}, nil
}

func (f *fakeSubmissions) Update(_ context.Context, _ models.Caller, id string, req models.UpdateRequest) (*models.SubmissionSnapshot, error) {
	f.updated = &req
	return &models.SubmissionSnapshot{ID: id}, f.err
}

func (f *fakeSubmissions) Get(_ context.Context, _ models.Caller, id string) (*models.SubmissionSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SubmissionSnapshot{ID: id}, nil
}

func submissionApp(t *testing.T, f *fakeSubmissions) *fiber.App {
	ctl := NewSubmissionController(f)
	return newApp(t, func(r fiber.Router) {
		r.Post("/submissions", ctl.CreateSubmission)
		r.Get("/submissions/:id", ctl.GetSubmission)
		r.Patch("/submissions/:id", ctl.UpdateSubmission)
	})
}

func TestSubmissionController(t *testing.T) {
	f := &fakeSubmissions{}
	app := submissionApp(t, f)

	status, body := do(t, app, http.MethodPost, "/submissions",
		`{"entryId":"x","surveyId":"s1","employeeId":"e1","answers":[{"questionId":"q1","value":3}]}`, models.RoleUser)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "doc1", body["id"])
	assert.EqualValues(t, 7, body["totalPoint"])

	status, body = do(t, app, http.MethodGet, "/submissions/doc9", "", models.RoleUser)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "doc9", body["id"])

	status, _ = do(t, app, http.MethodPatch, "/submissions/doc9", `{}`, models.RoleUser)
	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, f.updated)
	assert.Nil(t, f.updated.Answers)
}

func TestSubmissionControllerReturnsMissingQuestions(t *testing.T) {
	missing := []models.MissingAnswer{{QuestionID: "q1", Label: "Discipline"}}
	app := submissionApp(t, &fakeSubmissions{err: apperr.BadRequest("required questions are not answered").WithDetails(missing)})

	status, body := do(t, app, http.MethodPost, "/submissions", `{"entryId":"x","surveyId":"s1","employeeId":"e1"}`, models.RoleUser)
	assert.Equal(t, fiber.StatusBadRequest, status)
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "q1", details[0].(map[string]interface{})["questionId"])
}

type fakeAutoFill struct {
	runAt []time.Time
	fixes []bool
}

func (f *fakeAutoFill) Run(_ context.Context, now time.Time) autofill.RunReport {
	f.runAt = append(f.runAt, now)
	return autofill.RunReport{Month: "2024-02", Filled: 4}
}

func (f *fakeAutoFill) Reconcile(_ context.Context, fix bool) (*autofill.ReconcileReport, error) {
	f.fixes = append(f.fixes, fix)
	return &autofill.ReconcileReport{OrphanDocuments: []string{}, DanglingEntries: []string{}, Fixed: fix}, nil
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (q *fakeQueue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func jobsApp(t *testing.T, queue Enqueuer, af *fakeAutoFill) *fiber.App {
	ctl := NewAdminJobsController(queue, af)
	ctl.now = func() time.Time { return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) }
	return newApp(t, func(r fiber.Router) {
		r.Post("/admin/jobs/autofill", ctl.TriggerAutoFill)
		r.Post("/admin/jobs/reconcile", ctl.TriggerReconcile)
	})
}

func TestAdminJobsRunInProcessWithoutQueue(t *testing.T) {
	af := &fakeAutoFill{}
	app := jobsApp(t, nil, af)

	status, body := do(t, app, http.MethodPost, "/admin/jobs/autofill?month=2023-11", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 4, body["filled"])
	require.Len(t, af.runAt, 1)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), af.runAt[0])

	status, body = do(t, app, http.MethodPost, "/admin/jobs/reconcile?fix=true", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["fixed"])

	status, _ = do(t, app, http.MethodPost, "/admin/jobs/autofill?month=11-2023", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdminJobsEnqueue(t *testing.T) {
	af, queue := &fakeAutoFill{}, &fakeQueue{}
	app := jobsApp(t, queue, af)

	status, body := do(t, app, http.MethodPost, "/admin/jobs/autofill", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, "task-1", body["taskId"])

	status, _ = do(t, app, http.MethodPost, "/admin/jobs/reconcile", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusAccepted, status)

	require.Len(t, queue.tasks, 2)
	assert.Equal(t, "answers:autofill", queue.tasks[0].Type())
	assert.Equal(t, "answers:reconcile", queue.tasks[1].Type())
	assert.Empty(t, af.runAt)

	status, _ = do(t, app, http.MethodPost, "/admin/jobs/autofill?inline=true", "", models.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, af.runAt, 1)
}

type fakeBlacklist struct {
	tokens map[string]time.Duration
}

func (b *fakeBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	b.tokens[token] = ttl
	return nil
}

func TestAuthLogoutBlacklistsToken(t *testing.T) {
	bl := &fakeBlacklist{tokens: map[string]time.Duration{}}
	ctl := NewAuthController(bl)
	app := newApp(t, func(r fiber.Router) {
		r.Get("/auth/me", ctl.Me)
		r.Post("/auth/logout", ctl.Logout)
	})

	status, body := do(t, app, http.MethodGet, "/auth/me", "", models.RoleUser)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u1", body["sub"])

	status, _ = do(t, app, http.MethodPost, "/auth/logout", "", models.RoleUser)
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, bl.tokens, 1)
	for _, ttl := range bl.tokens {
		assert.True(t, ttl > 0 && ttl <= time.Hour)
	}
}

func TestAuthLogoutWithoutBlacklist(t *testing.T) {
	ctl := NewAuthController(utils.NewTokenBlacklist(nil))
	app := newApp(t, func(r fiber.Router) {
		r.Post("/auth/logout", ctl.Logout)
	})

	status, body := do(t, app, http.MethodPost, "/auth/logout", "", models.RoleUser)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body["message"], "stays valid")
}
