package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/listview"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/store"
)

type call struct {
	Method string
	Path   string
	Body   map[string]any
}

// backend is a fake school API keyed by "METHOD /path".
type backend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]http.HandlerFunc
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (b *backend) bodies(method, path string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c.Body)
		}
	}
	return out
}

func reply(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func setup(t *testing.T, routes map[string]http.HandlerFunc) (*resourceService, *backend) {
	t.Helper()
	b := &backend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
		b.mu.Lock()
		b.calls = append(b.calls, call{Method: r.Method, Path: r.URL.Path, Body: body})
		h, ok := b.routes[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			reply(http.StatusNotFound, map[string]string{"message": "no route"})(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL+"/api", 5*time.Second)
	svc := NewResourceService(resource.Default(), client, store.NewMemoryCache(), form.NewValidator())
	return svc.(*resourceService), b
}

func openAdd(t *testing.T, svc *resourceService, name string, data *PageData) *form.Editor {
	t.Helper()
	draft, err := svc.NewDraft(context.Background(), name, data.Records)
	require.NoError(t, err)
	ed, err := svc.Editor(name, data)
	require.NoError(t, err)
	ed.OpenAdd(draft)
	return ed
}

func TestLoadPage_UnknownResource(t *testing.T) {
	svc, _ := setup(t, nil)
	_, err := svc.LoadPage(context.Background(), "lockers", nil)
	assert.ErrorIs(t, err, resource.ErrUnknownResource)
}

func TestLoadPage_PrimaryFailureDegradesToEmpty(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/classrooms": reply(http.StatusInternalServerError, map[string]string{"detail": "database offline"}),
		"GET /api/colleges":   reply(http.StatusOK, []map[string]string{{"collegeid": "COL_001", "collegename": "Main"}}),
	})

	data, err := svc.LoadPage(context.Background(), resource.Classrooms, &listview.State{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, "database offline", data.Err)
	assert.Empty(t, data.Records)
	assert.Equal(t, 1, data.Page.Page)
	assert.Equal(t, "Main", data.Lookups.Map(resource.Colleges).Label("COL_001"))
}

func TestLoadPage_LookupFailureKeepsPrimary(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/classrooms": reply(http.StatusOK, map[string]any{"data": []map[string]string{
			{"roomid": "RM_001", "roomname": "Lab A", "collegeid": "COL_009"},
			{"roomid": "RM_002", "roomname": "Hall"},
		}}),
		"GET /api/colleges": reply(http.StatusBadGateway, nil),
	})

	state := &listview.State{Page: 1}
	state.SetQuery("lab")
	data, err := svc.LoadPage(context.Background(), resource.Classrooms, state)
	require.NoError(t, err)
	assert.Empty(t, data.Err)
	assert.Contains(t, data.LookupErrors, resource.Colleges)
	require.Len(t, data.Page.Items, 1)
	assert.Equal(t, "COL_009", data.Cell(data.Page.Items[0], "collegeid"), "unresolved id shown raw")
	assert.Len(t, data.Options("roomtype"), 4)
}

func TestCourse_AddWithThreeSemestersPostsThree(t *testing.T) {
	svc, b := setup(t, map[string]http.HandlerFunc{
		"GET /api/courses/list": reply(http.StatusOK, []map[string]string{
			{"courseid": "CRS_001"}, {"courseid": "CRS_003_S01"}, {"courseid": "CRS_003_S02"},
		}),
		"GET /api/depts":        reply(http.StatusOK, []map[string]string{{"collegedept": "DEPT_01", "collegedeptdesc": "Computer Science"}}),
		"POST /api/courses/add": reply(http.StatusCreated, map[string]string{"message": "ok"}),
	})
	ctx := context.Background()

	data, err := svc.LoadPage(ctx, resource.Courses, nil)
	require.NoError(t, err)
	ed := openAdd(t, svc, resource.Courses, data)
	require.Equal(t, "CRS_004", ed.Draft().ID("courseid"))

	require.NoError(t, ed.Apply(ctx, map[string]string{
		"coursedesc":         "BSc Physics",
		"collegedept":        "DEPT_01",
		"course_totsemester": "3",
	}, nil))
	require.NoError(t, svc.Save(ctx, resource.Courses, ed))

	posts := b.bodies(http.MethodPost, "/api/courses/add")
	require.Len(t, posts, 3)
	for i, want := range []string{"CRS_004_S01", "CRS_004_S02", "CRS_004_S03"} {
		assert.Equal(t, want, posts[i]["courseid"])
		assert.Equal(t, "Computer Science", posts[i]["collegedeptdesc"])
	}
	assert.Equal(t, "BSc Physics (Sem 1)", posts[0]["coursedesc"])
	assert.Equal(t, "BSc Physics (Sem 2)", posts[1]["coursedesc"])
	assert.Equal(t, "BSc Physics (Sem 3)", posts[2]["coursedesc"])
	assert.Equal(t, form.Closed, ed.State())
}

func TestCourse_DepartmentDescription(t *testing.T) {
	svc, b := setup(t, map[string]http.HandlerFunc{
		"GET /api/courses/list": reply(http.StatusOK, []any{}),
		"GET /api/depts": reply(http.StatusOK, []map[string]string{
			{"collegedept": "DEPT_01", "collegedeptdesc": "Computer Science"},
		}),
		"GET /api/depts/DEPT_02": reply(http.StatusOK, map[string]any{"data": map[string]string{"collegedept": "DEPT_02", "collegedeptdesc": "Physics"}}),
		"GET /api/depts/DEPT_09": reply(http.StatusInternalServerError, map[string]string{"error": "boom"}),
	})
	ctx := context.Background()
	data, err := svc.LoadPage(ctx, resource.Courses, nil)
	require.NoError(t, err)

	t.Run("cached record fills without a call", func(t *testing.T) {
		ed := openAdd(t, svc, resource.Courses, data)
		require.NoError(t, ed.Set(ctx, "collegedept", "DEPT_01"))
		assert.Equal(t, "Computer Science", ed.Draft().String("collegedeptdesc"))
		assert.Zero(t, b.count(http.MethodGet, "/api/depts/DEPT_01"))
	})

	t.Run("uncached record is fetched", func(t *testing.T) {
		ed := openAdd(t, svc, resource.Courses, data)
		require.NoError(t, ed.Set(ctx, "collegedept", "DEPT_02"))
		assert.Equal(t, "Physics", ed.Draft().String("collegedeptdesc"))
		assert.Equal(t, 1, b.count(http.MethodGet, "/api/depts/DEPT_02"))
	})

	t.Run("failed fetch clears the field", func(t *testing.T) {
		ed := openAdd(t, svc, resource.Courses, data)
		require.NoError(t, ed.Set(ctx, "collegedept", "DEPT_01"))
		err := ed.Set(ctx, "collegedept", "DEPT_09")
		assert.Error(t, err)
		assert.Equal(t, "", ed.Draft().String("collegedeptdesc"))
	})
}

func TestStudent_AcademicYearFromAdmissions(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/students/list": reply(http.StatusOK, []map[string]string{
			{"stuid": "STU_001", "stucourseid": "CRS_001", "stuadmissiondt": "2022-07-01", "stusection": "B"},
			{"stuid": "STU_002", "stucourseid": "CRS_001", "stuadmissiondt": "2022-09-15", "stusection": "A"},
			{"stuid": "STU_003", "stucourseid": "CRS_001", "stuadmissiondt": "", "stusection": "A"},
			{"stuid": "STU_004", "stucourseid": "CRS_002", "stuadmissiondt": "2019-07-01", "stusection": "C"},
		}),
		"GET /api/courses/list": reply(http.StatusOK, []map[string]string{{"courseid": "CRS_001", "coursedesc": "BSc"}}),
	})
	ctx := context.Background()

	data, err := svc.LoadPage(ctx, resource.Students, nil)
	require.NoError(t, err)
	ed := openAdd(t, svc, resource.Students, data)
	assert.Equal(t, "STU_005", ed.Draft().ID("stuid"))

	require.NoError(t, ed.Set(ctx, "stucourseid", "CRS_001"))
	assert.Equal(t, "2022-2023", ed.Draft().String("stu_acad_year"))
	assert.Equal(t, "A", ed.Draft().String("stusection"))

	require.NoError(t, ed.Set(ctx, "stusection", "D"))
	require.NoError(t, ed.Set(ctx, "stucourseid", "CRS_002"))
	assert.Equal(t, "2019-2020", ed.Draft().String("stu_acad_year"))
	assert.Equal(t, "D", ed.Draft().String("stusection"), "user override survives")
}

func TestStudent_ProgramStartWins(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/students/list": reply(http.StatusOK, []map[string]string{
			{"stuid": "STU_001", "stucourseid": "CRS_001", "stuadmissiondt": "2022-07-01"},
		}),
		"GET /api/courses/list": reply(http.StatusOK, []map[string]string{
			{"courseid": "CRS_001", "coursedesc": "BSc", "course_prg_startdt": "2021-08-01"},
		}),
	})
	ctx := context.Background()
	data, err := svc.LoadPage(ctx, resource.Students, nil)
	require.NoError(t, err)

	ed := openAdd(t, svc, resource.Students, data)
	require.NoError(t, ed.Set(ctx, "stucourseid", "CRS_001"))
	assert.Equal(t, "2021-2022", ed.Draft().String("stu_acad_year"))
}

func TestFeeStructure_PeriodFromAcademicYear(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/fee-structures/list": reply(http.StatusOK, []any{}),
		"GET /api/courses/list":        reply(http.StatusOK, []any{}),
		"GET /api/academic-years": reply(http.StatusOK, []map[string]string{
			{"acad_year_id": "AY_001", "acad_year": "2024-2025"},
			{"acad_year_id": "AY_002", "acad_year": "2025-2026", "start_date": "2025-07-01T00:00:00Z", "end_date": "2026-04-30T00:00:00Z"},
		}),
	})
	ctx := context.Background()
	data, err := svc.LoadPage(ctx, resource.FeeStructures, nil)
	require.NoError(t, err)

	ed := openAdd(t, svc, resource.FeeStructures, data)
	require.NoError(t, ed.Set(ctx, "fee_acad_year", "AY_001"))
	assert.Equal(t, "2024-06-01", ed.Draft().String("fee_period_start"))
	assert.Equal(t, "2025-05-31", ed.Draft().String("fee_period_end"))

	require.NoError(t, ed.Set(ctx, "fee_acad_year", "AY_002"))
	assert.Equal(t, "2025-07-01", ed.Draft().String("fee_period_start"))
	assert.Equal(t, "2026-04-30", ed.Draft().String("fee_period_end"))
}

func TestExamRoutine_SubjectSemesterFallsBackToCache(t *testing.T) {
	var subjectsDown atomic.Bool
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/exam-routines/list": reply(http.StatusOK, []any{}),
		"GET /api/offerings/list": reply(http.StatusOK, []map[string]string{
			{"offerid": "OFR_001", "semester": "2", "section": "B", "term": "Mid"},
		}),
		"GET /api/classrooms": reply(http.StatusOK, []any{}),
		"GET /api/subjects": func(w http.ResponseWriter, r *http.Request) {
			if !subjectsDown.Load() {
				reply(http.StatusOK, []map[string]any{{"subjectid": "SUB_001", "subjectname": "Optics", "semester": 3}})(w, r)
				return
			}
			reply(http.StatusServiceUnavailable, nil)(w, r)
		},
	})
	ctx := context.Background()

	data, err := svc.LoadPage(ctx, resource.ExamRoutines, nil)
	require.NoError(t, err)
	ed := openAdd(t, svc, resource.ExamRoutines, data)
	require.NoError(t, ed.Set(ctx, "offerid", "OFR_001"))
	assert.Equal(t, "2", ed.Draft().String("semester"))
	assert.Equal(t, "B", ed.Draft().String("section"))
	assert.Equal(t, "Mid", ed.Draft().String("term"))

	subjectsDown.Store(true)
	data, err = svc.LoadPage(ctx, resource.ExamRoutines, nil)
	require.NoError(t, err)
	require.Contains(t, data.LookupErrors, resource.Subjects)

	ed = openAdd(t, svc, resource.ExamRoutines, data)
	require.NoError(t, ed.Set(ctx, "subjectid", "SUB_001"))
	assert.Equal(t, "3", ed.Draft().String("semester"))
}

func TestSave_ServerErrorKeepsEditorOpen(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"GET /api/colleges":  reply(http.StatusOK, []any{}),
		"POST /api/colleges": reply(http.StatusConflict, map[string]string{"error": "College code already used"}),
	})
	ctx := context.Background()
	data, err := svc.LoadPage(ctx, resource.Colleges, nil)
	require.NoError(t, err)

	ed := openAdd(t, svc, resource.Colleges, data)
	require.NoError(t, ed.Set(ctx, "collegename", "North Campus"))
	err = svc.Save(ctx, resource.Colleges, ed)
	require.Error(t, err)
	assert.Equal(t, form.OpenAdd, ed.State())
	assert.Equal(t, "College code already used", ed.Err())
}

func TestSave_ValidationBlocksNetwork(t *testing.T) {
	svc, b := setup(t, map[string]http.HandlerFunc{
		"GET /api/teachers": reply(http.StatusOK, []any{}),
		"GET /api/depts":    reply(http.StatusOK, []any{}),
	})
	ctx := context.Background()
	data, err := svc.LoadPage(ctx, resource.Teachers, nil)
	require.NoError(t, err)

	ed := openAdd(t, svc, resource.Teachers, data)
	require.NoError(t, ed.Apply(ctx, map[string]string{"teachername": "R. Sen", "teacherpincode": "70014"}, nil))
	err = svc.Save(ctx, resource.Teachers, ed)
	assert.ErrorIs(t, err, form.ErrValidation)
	assert.Zero(t, b.count(http.MethodPost, "/api/teachers"))
}

func TestUpdate_UsesActionPath(t *testing.T) {
	svc, b := setup(t, map[string]http.HandlerFunc{
		"PUT /api/availability/update/AVL_001": reply(http.StatusOK, map[string]string{"message": "updated"}),
	})
	ctx := context.Background()

	ed, err := svc.Editor(resource.Availability, nil)
	require.NoError(t, err)
	ed.OpenEdit("AVL_001", model.Record{"availid": "AVL_001", "teacherid": "TCH_001", "avail_day": "Mon", "updated_at": "x"})
	require.NoError(t, svc.Save(ctx, resource.Availability, ed))

	bodies := b.bodies(http.MethodPut, "/api/availability/update/AVL_001")
	require.Len(t, bodies, 1)
	assert.Equal(t, "Mon", bodies[0]["avail_day"])
	assert.NotContains(t, bodies[0], "updated_at")
}

func TestDelete_TwiceKeepsListConsistent(t *testing.T) {
	var deleted atomic.Bool
	svc, _ := setup(t, map[string]http.HandlerFunc{
		"DELETE /api/payments/PAY_001": func(w http.ResponseWriter, r *http.Request) {
			if deleted.Load() {
				reply(http.StatusNotFound, map[string]string{"message": "Payment not found"})(w, r)
				return
			}
			deleted.Store(true)
			w.WriteHeader(http.StatusNoContent)
		},
	})
	ctx := context.Background()
	records := []model.Record{{"paymentid": "PAY_001"}, {"paymentid": "PAY_002"}}

	after, err := svc.Delete(ctx, resource.Payments, "PAY_001", records)
	require.NoError(t, err)
	require.Len(t, after, 1)

	again, err := svc.Delete(ctx, resource.Payments, "PAY_001", after)
	require.Error(t, err)
	assert.Equal(t, "Payment not found", apiclient.ErrorMessage(err, "Failed to delete payment"))
	assert.Equal(t, after, again)
}

func TestNewDraft_FetchFailureStartsAtOne(t *testing.T) {
	svc, _ := setup(t, map[string]http.HandlerFunc{})
	draft, err := svc.NewDraft(context.Background(), resource.Subjects, nil)
	require.NoError(t, err)
	assert.Equal(t, "SUB_001", draft.ID("subjectid"))
}
