package libs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

type fakeInserter struct {
	inserted []*model.Student
	err      error
	calls    int
}

func (f *fakeInserter) Insert(_ context.Context, s *model.Student) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, s)
	return nil
}

type fakeMailer struct {
	configured bool
	err        error
	sentTo     []string
}

func (f *fakeMailer) Configured() bool { return f.configured }

func (f *fakeMailer) SendWelcome(to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, to)
	return nil
}

func TestAttemptNotAnAddIntent(t *testing.T) {
	store := &fakeInserter{}
	p := NewProvisioner(store, &fakeMailer{configured: true})

	reply, handled := p.Attempt(context.Background(), "show me all students")

	assert.False(t, handled)
	assert.Empty(t, reply)
	assert.Zero(t, store.calls, "no store access on gate failure")
}

func TestAttemptMissingFields(t *testing.T) {
	store := &fakeInserter{}
	p := NewProvisioner(store, &fakeMailer{configured: true})

	reply, handled := p.Attempt(context.Background(), "add a new student, my name is Ann Lee")

	require.True(t, handled)
	assert.Contains(t, reply, "id")
	assert.Contains(t, reply, "email")
	assert.NotContains(t, reply, "name,")
	assert.Contains(t, reply, "Try:")
	assert.Zero(t, store.calls, "store untouched when fields are missing")
}

func TestAttemptInsertsStudent(t *testing.T) {
	store := &fakeInserter{}
	mailer := &fakeMailer{configured: true}
	p := NewProvisioner(store, mailer)

	text := "add a new student id is 11, my name is Ann Lee, my email is ann@example.com, department is Physics"
	reply, handled := p.Attempt(context.Background(), text)

	require.True(t, handled)
	assert.Contains(t, reply, "Student added successfully with id=11")
	assert.Contains(t, reply, "Welcome email sent to ann@example.com")

	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	assert.Equal(t, 11, got.ID)
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "Physics", got.Department)
	assert.Nil(t, got.Age, "age only set when extracted")
}

func TestAttemptDuplicateID(t *testing.T) {
	store := &fakeInserter{err: ErrDuplicateID}
	p := NewProvisioner(store, &fakeMailer{configured: true})

	text := "add a new student id is 11, my name is Ann Lee, my email is ann@example.com"
	reply, handled := p.Attempt(context.Background(), text)

	require.True(t, handled)
	assert.Contains(t, reply, "id=11 already exists")
	assert.Empty(t, store.inserted)
}

func TestAttemptInsertFailureBecomesReply(t *testing.T) {
	store := &fakeInserter{err: fmt.Errorf("mongo down")}
	p := NewProvisioner(store, &fakeMailer{configured: true})

	text := "add a new student id is 11, my name is Ann Lee, my email is ann@example.com"
	reply, handled := p.Attempt(context.Background(), text)

	require.True(t, handled)
	assert.Contains(t, reply, "could not add the student")
	assert.NotContains(t, reply, "mongo down", "raw store errors stay out of replies")
}

func TestAttemptEmailOutcomes(t *testing.T) {
	text := "add a new student id is 11, my name is Ann Lee, my email is ann@example.com"

	t.Run("mailer unconfigured", func(t *testing.T) {
		p := NewProvisioner(&fakeInserter{}, &fakeMailer{configured: false})
		reply, handled := p.Attempt(context.Background(), text)
		require.True(t, handled)
		assert.Contains(t, reply, "Student added successfully with id=11")
		assert.Contains(t, reply, "not sent")
	})

	t.Run("send failure reported, insert still succeeds", func(t *testing.T) {
		store := &fakeInserter{}
		p := NewProvisioner(store, &fakeMailer{configured: true, err: fmt.Errorf("relay refused")})
		reply, handled := p.Attempt(context.Background(), text)
		require.True(t, handled)
		assert.Contains(t, reply, "Student added successfully with id=11")
		assert.Contains(t, reply, "failed")
		assert.Len(t, store.inserted, 1)
	})
}
