package libs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

const provisionExample = `Try: "Add a new student id is 11, my name is Ann Lee, my email is ann@example.com, department is Physics"`

type studentInserter interface {
	Insert(ctx context.Context, student *model.Student) error
}

type welcomeSender interface {
	Configured() bool
	SendWelcome(toEmail, studentName, department string) error
}

// Provisioner turns an add-student chat message into an inserted record.
// Attempt never returns an error to the orchestrator: every failure becomes
// either a reply string or a not-handled result.
type Provisioner struct {
	students studentInserter
	mailer   welcomeSender
}

func NewProvisioner(students studentInserter, mailer welcomeSender) *Provisioner {
	return &Provisioner{students: students, mailer: mailer}
}

// Attempt resolves the message if it is an add-student request. The second
// return is false when the message is not an add intent, in which case no
// store access has happened and the caller falls through to the next
// strategy.
func (p *Provisioner) Attempt(ctx context.Context, text string) (string, bool) {
	if !IsAddIntent(text) {
		return "", false
	}

	extracted := ExtractStudent(text)

	var missing []string
	if extracted.ID == nil {
		missing = append(missing, "id")
	}
	if extracted.Name == "" {
		missing = append(missing, "name")
	}
	if extracted.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Sprintf(
			"I can add that student, but I still need: %s. %s",
			strings.Join(missing, ", "), provisionExample,
		), true
	}

	student := &model.Student{
		ID:         *extracted.ID,
		Name:       extracted.Name,
		Email:      strings.TrimSpace(extracted.Email),
		Department: extracted.Department,
		Age:        extracted.Age,
	}

	if err := p.students.Insert(ctx, student); err != nil {
		if err == ErrDuplicateID {
			return fmt.Sprintf("Student with id=%d already exists.", student.ID), true
		}
		zap.S().Errorw("auto-provision insert failed", "id", student.ID, "error", err)
		return "Sorry, I could not add the student right now. Please try again in a moment.", true
	}

	return fmt.Sprintf("Student added successfully with id=%d. %s", student.ID, p.notify(student)), true
}

// notify sends the welcome email after the insert has committed. The email
// outcome is reported in the reply and never unwinds the insert.
func (p *Provisioner) notify(student *model.Student) string {
	if p.mailer == nil || !p.mailer.Configured() {
		return "Welcome email not sent."
	}
	if err := p.mailer.SendWelcome(student.Email, student.Name, student.Department); err != nil {
		return fmt.Sprintf("Welcome email failed: %v.", err)
	}
	return fmt.Sprintf("Welcome email sent to %s.", student.Email)
}
