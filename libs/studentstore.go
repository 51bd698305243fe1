package libs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mrjawadhere/Hackthon-Smit/database"
	"github.com/mrjawadhere/Hackthon-Smit/model"
)

// ErrDuplicateID means a student with that numeric id already exists.
var ErrDuplicateID = fmt.Errorf("student id already exists")

// StudentStore owns the students collection. Insert relies on the unique
// index on "id" (see database.EnsureIndexes), so two concurrent inserts of
// the same id cannot both succeed.
type StudentStore struct {
	col *mongo.Collection
}

func NewStudentStore(db *mongo.Database) *StudentStore {
	return &StudentStore{col: db.Collection(database.StudentsCollection)}
}

func (s *StudentStore) List(ctx context.Context) ([]model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

func (s *StudentStore) FindByID(ctx context.Context, id int) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var student model.Student
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find student id=%d: %w", id, err)
	}
	return &student, nil
}

func (s *StudentStore) ExistsID(ctx context.Context, id int) (bool, error) {
	_, err := s.FindByID(ctx, id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert adds a new student. A duplicate numeric id surfaces as
// ErrDuplicateID via the collection's unique index, which covers the race
// two concurrent inserts would otherwise win together.
func (s *StudentStore) Insert(ctx context.Context, student *model.Student) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	student.OID = bson.NewObjectID()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}

	if _, err := s.col.InsertOne(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (s *StudentStore) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete student id=%d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// updatableFields is the closed set of fields UpdateField accepts, each
// with its own coercion rule. "id" and "_id" are immutable after creation.
var updatableFields = map[string]func(any) (any, error){
	"name":       coerceString("name"),
	"department": coerceString("department"),
	"email":      coerceEmail,
	"age":        coerceAge,
}

// CoerceUpdateValue validates and converts a raw update value for the named
// field. Unknown fields are rejected up front.
func CoerceUpdateValue(field string, value any) (any, error) {
	coerce, ok := updatableFields[field]
	if !ok {
		allowed := make([]string, 0, len(updatableFields))
		for k := range updatableFields {
			allowed = append(allowed, k)
		}
		sort.Strings(allowed)
		return nil, fmt.Errorf("invalid field '%s', allowed: %s", field, strings.Join(allowed, ", "))
	}
	return coerce(value)
}

func coerceString(field string) func(any) (any, error) {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field '%s' must be a string", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("field '%s' must not be empty", field)
		}
		return s, nil
	}
}

func coerceEmail(v any) (any, error) {
	raw, err := coerceString("email")(v)
	if err != nil {
		return nil, err
	}
	s := raw.(string)
	if !emailRe.MatchString(s) {
		return nil, fmt.Errorf("field 'email' must be a valid email address")
	}
	return s, nil
}

func coerceAge(v any) (any, error) {
	switch n := v.(type) {
	case float64: // JSON numbers decode as float64
		if n != float64(int(n)) {
			return nil, fmt.Errorf("field 'age' must be an integer")
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("field 'age' must be an integer")
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("field 'age' must be an integer")
	}
}

// UpdateField sets a single allow-listed field on the student with the
// given id. The value goes through CoerceUpdateValue first, so a bad type
// is rejected before any write happens.
func (s *StudentStore) UpdateField(ctx context.Context, id int, field string, value any) (*model.Student, error) {
	coerced, err := CoerceUpdateValue(field, value)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{field: coerced}})
	if err != nil {
		return nil, fmt.Errorf("update student id=%d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return s.FindByID(ctx, id)
}

// --- analytics (read-only aggregations) ---

func (s *StudentStore) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// CountByDepartment groups students by department, bucketing a missing
// department as "Unknown", sorted by descending count then ascending name.
func (s *StudentStore) CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$department", "Unknown"}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "department", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "department", Value: 1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate by department: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.DepartmentCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode department counts: %w", err)
	}
	return results, nil
}

// Recent returns the most recently created students, newest first.
func (s *StudentStore) Recent(ctx context.Context, limit int) ([]model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode recent students: %w", err)
	}
	return students, nil
}

// ActiveSince returns students whose last_active is at or after the cutoff.
func (s *StudentStore) ActiveSince(ctx context.Context, cutoff time.Time) ([]model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{"last_active": bson.M{"$gte": cutoff}})
	if err != nil {
		return nil, fmt.Errorf("active students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode active students: %w", err)
	}
	return students, nil
}
