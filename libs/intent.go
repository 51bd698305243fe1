package libs

import (
	"regexp"
	"strconv"
	"strings"
)

// ExtractedStudent holds the fields the intent extractor pulled out of a
// free-text message. Pointer fields distinguish "absent" from zero values.
type ExtractedStudent struct {
	ID         *int
	Name       string
	Email      string
	Department string
	Age        *int
}

const maxNameLength = 50

var (
	addVerbRe = regexp.MustCompile(`(?i)\b(add|create|register|enroll|enrol|admit)\b`)
	addNounRe = regexp.MustCompile(`(?i)\b(student|admission|enrollment|enrolment)\b`)

	idRe     = regexp.MustCompile(`(?i)\b(?:id|roll(?:\s*(?:no\.?|number))?)\b\s*(?:is|:|=)?\s*(\d+)`)
	nameRe   = regexp.MustCompile(`(?i)(?:my name is|name\s*:|\bi am\b)\s+([A-Za-z][A-Za-z '-]*)`)
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	deptIsRe = regexp.MustCompile(`(?i)\bdepartment\s*(?:is|:)\s*([^,.\n]+)`)
	deptInRe = regexp.MustCompile(`(?i)\bin the\s+(.+?)\s+department\b`)
	ageRe    = regexp.MustCompile(`(?i)\bage\s*(?:is|:)?\s*(\d{1,3})\b`)
)

// IsAddIntent reports whether the message reads as a request to add a
// student: an add/create/register/enroll/admit verb combined with a
// student/admission/enrollment noun.
func IsAddIntent(text string) bool {
	return addVerbRe.MatchString(text) && addNounRe.MatchString(text)
}

// ExtractStudent runs the independent per-field scans over the message.
// Each rule takes its first match; none of them consults the database.
func ExtractStudent(text string) ExtractedStudent {
	var out ExtractedStudent

	if m := idRe.FindStringSubmatch(text); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			out.ID = &id
		}
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		if len(name) > maxNameLength {
			name = strings.TrimSpace(name[:maxNameLength])
		}
		out.Name = name
	}

	if m := emailRe.FindString(text); m != "" {
		out.Email = m
	}

	if m := deptIsRe.FindStringSubmatch(text); m != nil {
		out.Department = strings.TrimSpace(m[1])
	} else if m := deptInRe.FindStringSubmatch(text); m != nil {
		out.Department = strings.TrimSpace(m[1])
	}

	if m := ageRe.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			out.Age = &age
		}
	}

	return out
}
