package controlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

const (
	recentDefaultLimit = 5
	recentMaxLimit     = 50
	activeWindow       = 7 * 24 * time.Hour
)

// AnalyticsStore is the read-side of the students collection.
type AnalyticsStore interface {
	CountAll(ctx context.Context) (int64, error)
	CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error)
	Recent(ctx context.Context, limit int) ([]model.Student, error)
	ActiveSince(ctx context.Context, cutoff time.Time) ([]model.Student, error)
}

type AnalyticsController struct {
	students AnalyticsStore
	now      func() time.Time
}

func NewAnalyticsController(students AnalyticsStore) *AnalyticsController {
	return &AnalyticsController{students: students, now: time.Now}
}

// TotalStudents handles GET /analytics/total-students.
func (ac *AnalyticsController) TotalStudents(c *gin.Context) {
	total, err := ac.students.CountAll(c.Request.Context())
	if err != nil {
		zap.S().Errorw("total students failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch total students"})
		return
	}

	c.JSON(http.StatusOK, model.TotalStudentsResponse{
		TotalStudents: total,
		AsOf:          ac.now().UTC(),
	})
}

// StudentsByDepartment handles GET /analytics/students-by-department.
// Students without a department are bucketed under "Unknown"; the grouped
// counts always sum to the total.
func (ac *AnalyticsController) StudentsByDepartment(c *gin.Context) {
	grouped, err := ac.students.CountByDepartment(c.Request.Context())
	if err != nil {
		zap.S().Errorw("students by department failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch students by department"})
		return
	}

	var total int64
	for _, g := range grouped {
		total += g.Count
	}
	if grouped == nil {
		grouped = []model.DepartmentCount{}
	}

	c.JSON(http.StatusOK, model.StudentsByDeptResponse{
		Results:          grouped,
		TotalDepartments: len(grouped),
		TotalStudents:    total,
		AsOf:             ac.now().UTC(),
	})
}

// RecentStudents handles GET /analytics/students/recent?limit=1..50.
func (ac *AnalyticsController) RecentStudents(c *gin.Context) {
	limit := recentDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > recentMaxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	students, err := ac.students.Recent(c.Request.Context(), limit)
	if err != nil {
		zap.S().Errorw("recent students failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch recent students"})
		return
	}
	if students == nil {
		students = []model.Student{}
	}

	c.JSON(http.StatusOK, model.StudentListResponse{Count: len(students), Students: students})
}

// ActiveStudents handles GET /analytics/students/active_last_7_days.
func (ac *AnalyticsController) ActiveStudents(c *gin.Context) {
	cutoff := ac.now().UTC().Add(-activeWindow)

	students, err := ac.students.ActiveSince(c.Request.Context(), cutoff)
	if err != nil {
		zap.S().Errorw("active students failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch active students"})
		return
	}
	if students == nil {
		students = []model.Student{}
	}

	c.JSON(http.StatusOK, model.StudentListResponse{Count: len(students), Students: students})
}
