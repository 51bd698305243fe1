package libs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

type fakeAgentStore struct {
	students map[int]*model.Student
}

func newFakeAgentStore() *fakeAgentStore {
	return &fakeAgentStore{students: map[int]*model.Student{}}
}

func (f *fakeAgentStore) List(_ context.Context) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.students {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeAgentStore) FindByID(_ context.Context, id int) (*model.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeAgentStore) Insert(_ context.Context, s *model.Student) error {
	if _, exists := f.students[s.ID]; exists {
		return ErrDuplicateID
	}
	f.students[s.ID] = s
	return nil
}

func (f *fakeAgentStore) UpdateField(_ context.Context, id int, field string, value any) (*model.Student, error) {
	coerced, err := CoerceUpdateValue(field, value)
	if err != nil {
		return nil, err
	}
	s, ok := f.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	if field == "name" {
		s.Name = coerced.(string)
	}
	return s, nil
}

func (f *fakeAgentStore) Delete(_ context.Context, id int) error {
	if _, ok := f.students[id]; !ok {
		return ErrNotFound
	}
	delete(f.students, id)
	return nil
}

type fakeSearcher struct{ result string }

func (f *fakeSearcher) Search(string) string { return f.result }

func newTestAgent(store *fakeAgentStore, mailer *fakeMailer, search searcher) *Agent {
	return &Agent{students: store, mailer: mailer, searcher: search}
}

func TestCallToolAddAndRead(t *testing.T) {
	store := newFakeAgentStore()
	agent := newTestAgent(store, &fakeMailer{configured: true}, nil)

	res := agent.callTool(context.Background(), "add_student", map[string]any{
		"id": float64(11), "name": "Ann Lee", "email": "ann@example.com", "department": "Physics",
	})
	require.Equal(t, false, res["Error"])
	assert.Equal(t, "Student added successfully", res["Message"])

	res = agent.callTool(context.Background(), "read_student_by_id", map[string]any{"id": float64(11)})
	require.Equal(t, false, res["Error"])
	student := res["Data"].(*model.Student)
	assert.Equal(t, "Ann Lee", student.Name)
}

func TestCallToolAddDuplicate(t *testing.T) {
	store := newFakeAgentStore()
	store.students[11] = &model.Student{ID: 11, Name: "Ann"}
	agent := newTestAgent(store, &fakeMailer{configured: true}, nil)

	res := agent.callTool(context.Background(), "add_student", map[string]any{
		"id": float64(11), "name": "Other", "email": "other@example.com",
	})
	assert.Equal(t, true, res["Error"])
	assert.Contains(t, res["Message"], "already exists")
}

func TestCallToolAddReportsEmailFailure(t *testing.T) {
	store := newFakeAgentStore()
	agent := newTestAgent(store, &fakeMailer{configured: true, err: fmt.Errorf("relay refused")}, nil)

	res := agent.callTool(context.Background(), "add_student", map[string]any{
		"id": float64(5), "name": "Ann", "email": "ann@example.com",
	})
	require.Equal(t, false, res["Error"], "insert succeeds even when the email fails")

	data := res["Data"].(map[string]any)
	status := data["email_status"].(map[string]any)
	assert.Equal(t, false, status["sent"])
	assert.Contains(t, status["error"], "relay refused")
}

func TestCallToolUpdateAndDelete(t *testing.T) {
	store := newFakeAgentStore()
	store.students[7] = &model.Student{ID: 7, Name: "Old Name"}
	agent := newTestAgent(store, nil, nil)

	res := agent.callTool(context.Background(), "update_student", map[string]any{
		"id": float64(7), "field": "name", "new_value": "New Name",
	})
	require.Equal(t, false, res["Error"])
	assert.Equal(t, "New Name", store.students[7].Name)

	res = agent.callTool(context.Background(), "delete_student", map[string]any{"id": float64(7)})
	require.Equal(t, false, res["Error"])
	assert.Empty(t, store.students)

	res = agent.callTool(context.Background(), "delete_student", map[string]any{"id": float64(7)})
	assert.Equal(t, true, res["Error"])
}

func TestCallToolSearch(t *testing.T) {
	agent := newTestAgent(newFakeAgentStore(), nil, &fakeSearcher{result: "- GCUF: campus info"})

	res := agent.callTool(context.Background(), "campus_search", map[string]any{"query": "gcuf"})
	require.Equal(t, false, res["Error"])
	assert.Contains(t, res["Data"], "GCUF")

	agent = newTestAgent(newFakeAgentStore(), nil, &fakeSearcher{result: ""})
	res = agent.callTool(context.Background(), "campus_search", map[string]any{"query": "gcuf"})
	assert.Equal(t, true, res["Error"])
}

func TestCallToolUnknown(t *testing.T) {
	agent := newTestAgent(newFakeAgentStore(), nil, nil)
	res := agent.callTool(context.Background(), "reboot_campus", nil)
	assert.Equal(t, true, res["Error"])
}

func TestHistoryToContents(t *testing.T) {
	history := []model.ChatMessage{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi there"},
		{Role: model.RoleUser, Content: ""},
	}

	contents := historyToContents(history)
	require.Len(t, contents, 2, "empty messages are skipped")
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
	assert.Equal(t, "hi there", contents[1].Parts[0].Text)
}

func TestNewAgentWithoutKey(t *testing.T) {
	_, err := NewAgent("", newFakeAgentStore(), nil, nil)
	require.Error(t, err)
}
