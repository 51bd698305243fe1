package controlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/libs"
	"github.com/mrjawadhere/Hackthon-Smit/model"
)

// StudentStore is what the CRUD handlers need from the students collection.
type StudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	FindByID(ctx context.Context, id int) (*model.Student, error)
	Insert(ctx context.Context, student *model.Student) error
	UpdateField(ctx context.Context, id int, field string, value any) (*model.Student, error)
	Delete(ctx context.Context, id int) error
}

// WelcomeMailer sends the post-insert notification.
type WelcomeMailer interface {
	Configured() bool
	SendWelcome(toEmail, studentName, department string) error
}

type StudentController struct {
	students StudentStore
	mailer   WelcomeMailer
}

func NewStudentController(students StudentStore, mailer WelcomeMailer) *StudentController {
	return &StudentController{students: students, mailer: mailer}
}

type addStudentRequest struct {
	ID         int    `json:"id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Department string `json:"department"`
	Age        *int   `json:"age"`
}

type updateStudentRequest struct {
	Field    string `json:"field" binding:"required"`
	NewValue any    `json:"new_value"`
}

func (sc *StudentController) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid student id"))
		return 0, false
	}
	return id, true
}

// List handles GET /students.
func (sc *StudentController) List(c *gin.Context) {
	students, err := sc.students.List(c.Request.Context())
	if err != nil {
		zap.S().Errorw("list students failed", "error", err)
		c.JSON(http.StatusOK, errorBody(err.Error()))
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "All students data fetched successfully",
		Data:    model.StudentListResponse{Count: len(students), Students: students},
	})
}

// Get handles GET /students/:id.
func (sc *StudentController) Get(c *gin.Context) {
	id, ok := sc.parseID(c)
	if !ok {
		return
	}

	student, err := sc.students.FindByID(c.Request.Context(), id)
	if err == libs.ErrNotFound {
		c.JSON(http.StatusOK, errorBody("Student not found"))
		return
	}
	if err != nil {
		zap.S().Errorw("get student failed", "id", id, "error", err)
		c.JSON(http.StatusOK, errorBody(err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Student data fetched successfully",
		Data:    student,
	})
}

// Add handles POST /students: insert the record, then send the welcome
// email best-effort. The email outcome is reported alongside the student
// and never fails the insert.
func (sc *StudentController) Add(c *gin.Context) {
	var body addStudentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	student := &model.Student{
		ID:         body.ID,
		Name:       strings.TrimSpace(body.Name),
		Email:      strings.TrimSpace(body.Email),
		Department: strings.TrimSpace(body.Department),
		Age:        body.Age,
	}

	err := sc.students.Insert(c.Request.Context(), student)
	if err == libs.ErrDuplicateID {
		c.JSON(http.StatusOK, errorBody("Student with id="+strconv.Itoa(body.ID)+" already exists"))
		return
	}
	if err != nil {
		zap.S().Errorw("add student failed", "id", body.ID, "error", err)
		c.JSON(http.StatusOK, errorBody(err.Error()))
		return
	}

	emailStatus := gin.H{"sent": false, "to": student.Email}
	if sc.mailer != nil && sc.mailer.Configured() {
		if mailErr := sc.mailer.SendWelcome(student.Email, student.Name, student.Department); mailErr != nil {
			emailStatus["error"] = mailErr.Error()
		} else {
			emailStatus["sent"] = true
		}
	} else {
		emailStatus["error"] = "mail relay not configured"
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Student added successfully",
		Data:    gin.H{"student": student, "email_status": emailStatus},
	})
}

// Update handles PATCH /students/:id with a {field, new_value} body. The
// value goes through the closed set of typed setters; a bad type or an
// unknown field is rejected before any write.
func (sc *StudentController) Update(c *gin.Context) {
	id, ok := sc.parseID(c)
	if !ok {
		return
	}

	var body updateStudentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	student, err := sc.students.UpdateField(c.Request.Context(), id, body.Field, body.NewValue)
	if err == libs.ErrNotFound {
		c.JSON(http.StatusOK, errorBody("Student with id="+strconv.Itoa(id)+" not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusOK, errorBody(err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Student updated successfully",
		Data:    gin.H{"id": id, "updated_field": body.Field, "student": student},
	})
}

// Delete handles DELETE /students/:id.
func (sc *StudentController) Delete(c *gin.Context) {
	id, ok := sc.parseID(c)
	if !ok {
		return
	}

	err := sc.students.Delete(c.Request.Context(), id)
	if err == libs.ErrNotFound {
		c.JSON(http.StatusOK, errorBody("Student not found"))
		return
	}
	if err != nil {
		zap.S().Errorw("delete student failed", "id", id, "error", err)
		c.JSON(http.StatusOK, errorBody(err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "Student deleted successfully",
		Data:    gin.H{"id": id},
	})
}
