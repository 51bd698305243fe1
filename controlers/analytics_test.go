package controlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

type fakeAnalyticsStore struct {
	total   int64
	grouped []model.DepartmentCount
	recent  []model.Student
	active  []model.Student
	err     error

	recentLimit  int
	activeCutoff time.Time
}

func (f *fakeAnalyticsStore) CountAll(context.Context) (int64, error) {
	return f.total, f.err
}

func (f *fakeAnalyticsStore) CountByDepartment(context.Context) ([]model.DepartmentCount, error) {
	return f.grouped, f.err
}

func (f *fakeAnalyticsStore) Recent(_ context.Context, limit int) ([]model.Student, error) {
	f.recentLimit = limit
	return f.recent, f.err
}

func (f *fakeAnalyticsStore) ActiveSince(_ context.Context, cutoff time.Time) ([]model.Student, error) {
	f.activeCutoff = cutoff
	return f.active, f.err
}

func analyticsRouter(store *fakeAnalyticsStore) *gin.Engine {
	ac := NewAnalyticsController(store)
	r := gin.New()
	r.GET("/analytics/total-students", ac.TotalStudents)
	r.GET("/analytics/students-by-department", ac.StudentsByDepartment)
	r.GET("/analytics/students/recent", ac.RecentStudents)
	r.GET("/analytics/students/active_last_7_days", ac.ActiveStudents)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestTotalStudentsIdempotent(t *testing.T) {
	store := &fakeAnalyticsStore{total: 42}
	r := analyticsRouter(store)

	var first, second model.TotalStudentsResponse
	getJSON(t, r, "/analytics/total-students", &first)
	getJSON(t, r, "/analytics/total-students", &second)

	assert.Equal(t, int64(42), first.TotalStudents)
	assert.Equal(t, first.TotalStudents, second.TotalStudents)
}

func TestStudentsByDepartment(t *testing.T) {
	store := &fakeAnalyticsStore{grouped: []model.DepartmentCount{
		{Department: "Physics", Count: 5},
		{Department: "Unknown", Count: 3},
		{Department: "Chemistry", Count: 2},
	}}
	r := analyticsRouter(store)

	var resp model.StudentsByDeptResponse
	w := getJSON(t, r, "/analytics/students-by-department", &resp)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 3, resp.TotalDepartments)
	assert.Equal(t, int64(10), resp.TotalStudents, "grouped counts sum to the total")
	assert.Equal(t, "Physics", resp.Results[0].Department)
}

func TestRecentStudentsLimit(t *testing.T) {
	store := &fakeAnalyticsStore{recent: []model.Student{{ID: 1, Name: "A"}}}
	r := analyticsRouter(store)

	var resp model.StudentListResponse
	w := getJSON(t, r, "/analytics/students/recent", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, store.recentLimit, "default limit is 5")
	assert.Equal(t, 1, resp.Count)

	w = getJSON(t, r, "/analytics/students/recent?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, store.recentLimit)

	for _, bad := range []string{"0", "51", "-1", "abc"} {
		w = getJSON(t, r, "/analytics/students/recent?limit="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", bad)
	}
}

func TestActiveStudentsCutoff(t *testing.T) {
	store := &fakeAnalyticsStore{active: []model.Student{{ID: 1}, {ID: 2}}}
	ac := NewAnalyticsController(store)
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ac.now = func() time.Time { return fixed }

	r := gin.New()
	r.GET("/analytics/students/active_last_7_days", ac.ActiveStudents)

	var resp model.StudentListResponse
	w := getJSON(t, r, "/analytics/students/active_last_7_days", &resp)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, fixed.Add(-7*24*time.Hour), store.activeCutoff)
}

func TestAnalyticsStoreFailure(t *testing.T) {
	store := &fakeAnalyticsStore{err: fmt.Errorf("mongo down")}
	r := analyticsRouter(store)

	w := getJSON(t, r, "/analytics/total-students", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
