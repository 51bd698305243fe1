package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Student is a campus student record. ID is the numeric student id, unique
// across the collection (not the Mongo _id).
type Student struct {
	OID        bson.ObjectID `json:"-" bson:"_id,omitempty"`
	ID         int           `json:"id" bson:"id"`
	Name       string        `json:"name" bson:"name"`
	Email      string        `json:"email,omitempty" bson:"email,omitempty"`
	Department string        `json:"department,omitempty" bson:"department,omitempty"`
	Age        *int          `json:"age,omitempty" bson:"age,omitempty"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	LastActive *time.Time    `json:"last_active,omitempty" bson:"last_active,omitempty"`
}

type User struct {
	ID       bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string        `json:"name" bson:"name"`
	Email    string        `json:"email" bson:"email"`
	Password string        `json:"-" bson:"password"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry in the append-only conversation log. Messages
// are never updated or deleted; history is read back in timestamp order.
type ChatMessage struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	ThreadID  string        `json:"thread_id" bson:"thread_id"`
	Role      string        `json:"role" bson:"role"`
	Content   string        `json:"content" bson:"content"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
}

// APIResponse is the common envelope for auth and CRUD endpoints. Expected
// failures (not-found, conflict) come back as status "error" with a 200,
// real HTTP error codes are reserved for malformed requests.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type DepartmentCount struct {
	Department string `json:"department" bson:"department"`
	Count      int64  `json:"count" bson:"count"`
}

type TotalStudentsResponse struct {
	TotalStudents int64     `json:"total_students"`
	AsOf          time.Time `json:"as_of"`
}

type StudentsByDeptResponse struct {
	Results          []DepartmentCount `json:"results"`
	TotalDepartments int               `json:"total_departments"`
	TotalStudents    int64             `json:"total_students"`
	AsOf             time.Time         `json:"as_of"`
}

type StudentListResponse struct {
	Count    int       `json:"count"`
	Students []Student `json:"students"`
}

type ChatResponse struct {
	ThreadID string        `json:"thread_id"`
	Response string        `json:"response"`
	History  []ChatMessage `json:"history"`
}
