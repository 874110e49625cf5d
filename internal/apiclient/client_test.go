package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/model"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeBackend struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeBackend) record(r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()
}

func setup(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeBackend) {
	fb := &fakeBackend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 5*time.Second, WithToken("secret")), fb
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"plain", "http://h/api", "courses", "http://h/api/courses"},
		{"both slashes", "http://h/api/", "/courses", "http://h/api/courses"},
		{"no slashes", "http://h/api", "/courses/list", "http://h/api/courses/list"},
		{"many slashes", "http://h/api//", "//courses", "http://h/api/courses"},
		{"absolute passthrough", "http://h/api", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"empty path", "http://h/api", "", "http://h/api"},
		{"empty base", "", "/courses", "/courses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
		})
	}
}

func TestEndpointConventions(t *testing.T) {
	rest := RESTEndpoints("/depts/")
	assert.Equal(t, "/depts", rest.List)
	assert.Equal(t, "/depts/DEPT_01", WithID(rest.Get, "DEPT_01"))
	assert.Equal(t, "/depts", rest.Add)

	action := ActionEndpoints("/course")
	assert.Equal(t, "/course/list", action.List)
	assert.Equal(t, "/course/add", action.Add)
	assert.Equal(t, "/course/update/CRS_001", WithID(action.Update, "CRS_001"))
	assert.Equal(t, "/course/delete/a%2Fb", WithID(action.Delete, "a/b"))
}

func TestResource_CRUD(t *testing.T) {
	client, fb := setup(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/course/list":
			writeJSON(w, 200, map[string]any{"data": []any{
				map[string]any{"courseid": "CRS_001", "course_totsemester": 8},
			}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/course/CRS_001":
			writeJSON(w, 200, map[string]any{"data": map[string]any{"courseid": "CRS_001"}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/course/add":
			writeJSON(w, 201, map[string]any{"courseid": "CRS_002"})
		case r.Method == http.MethodPut && r.URL.Path == "/api/course/update/CRS_001":
			writeJSON(w, 200, map[string]any{"ok": true})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/course/delete/CRS_001":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	res := client.Resource("courses", ActionEndpoints("/course"))
	ctx := context.Background()

	list, err := res.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "8", list[0].String("course_totsemester"))

	rec, err := res.Get(ctx, "CRS_001")
	require.NoError(t, err)
	assert.Equal(t, "CRS_001", rec.ID("courseid"))

	_, err = res.Add(ctx, model.Record{"courseid": "CRS_002", "coursedesc": "BSc"})
	require.NoError(t, err)

	_, err = res.Update(ctx, "CRS_001", model.Record{"coursedesc": "BSc Hons"})
	require.NoError(t, err)

	require.NoError(t, res.Remove(ctx, "CRS_001"))

	require.Len(t, fb.calls, 5)
	assert.Equal(t, "BSc", fb.calls[2].Body["coursedesc"])
	assert.Equal(t, http.MethodPut, fb.calls[3].Method)
}

func TestResource_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"error field", map[string]any{"error": "Course id already exists"}, "Course id already exists"},
		{"detail string", map[string]any{"detail": "Invalid department"}, "Invalid department"},
		{"detail list", map[string]any{"detail": []any{map[string]any{"msg": "field required"}}}, "field required"},
		{"message field", map[string]any{"message": "Bad payload"}, "Bad payload"},
		{"error wins over message", map[string]any{"message": "m", "error": "e"}, "e"},
		{"no message", map[string]any{"status": "fail"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, tt.body)
			})
			_, err := client.Resource("courses", RESTEndpoints("/courses")).Add(context.Background(), model.Record{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)

			fallback := "Failed to save course"
			if tt.want == "" {
				assert.Equal(t, fallback, ErrorMessage(err, fallback))
			} else {
				assert.Equal(t, tt.want, ErrorMessage(err, fallback))
			}
		})
	}
}

func TestResource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, time.Second)
	_, err := client.Resource("courses", RESTEndpoints("/courses")).List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "Failed to fetch courses", ErrorMessage(err, "Failed to fetch courses"))
}

func TestPickArray(t *testing.T) {
	rec := map[string]any{"id": "1"}
	tests := []struct {
		name string
		body any
		want int
	}{
		{"bare array", []any{rec, rec}, 2},
		{"data", map[string]any{"data": []any{rec}}, 1},
		{"items", map[string]any{"items": []any{rec, rec, rec}}, 3},
		{"results before rows", map[string]any{"results": []any{rec}, "rows": []any{rec, rec}}, 1},
		{"nested under data", map[string]any{"data": map[string]any{"rows": []any{rec, rec}}}, 2},
		{"non-object elements skipped", []any{rec, "x", 3}, 1},
		{"scalar", "oops", 0},
		{"object without list", map[string]any{"count": 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickArray(tt.body)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestPickObject(t *testing.T) {
	assert.Equal(t, "1", PickObject(map[string]any{"data": map[string]any{"id": "1"}}).String("id"))
	assert.Equal(t, "2", PickObject(map[string]any{"id": "2"}).String("id"))
	assert.Nil(t, PickObject([]any{}))
}
