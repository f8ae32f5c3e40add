package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classgrid/classgrid-api/internal/models"
)

type mockTeacherStore struct {
	teachers []models.Teacher
	listErr  error
}

func (m *mockTeacherStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.teachers, nil
}

func (m *mockTeacherStore) CreateTeacher(ctx context.Context, name string) (*models.Teacher, error) {
	teacher := models.Teacher{ID: len(m.teachers) + 1, Name: name}
	m.teachers = append(m.teachers, teacher)
	return &teacher, nil
}

func TestTeacherServiceCreate(t *testing.T) {
	st := &mockTeacherStore{}
	svc := NewTeacherService(st, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "  Dr. Smith  "})
	require.NoError(t, err)
	assert.Equal(t, 1, teacher.ID)
	assert.Equal(t, "Dr. Smith", teacher.Name)
}

func TestTeacherServiceCreateRejectsBlankName(t *testing.T) {
	st := &mockTeacherStore{}
	svc := NewTeacherService(st, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{})
	requireAppError(t, err, "VALIDATION_ERROR", 400)

	_, err = svc.Create(context.Background(), CreateTeacherRequest{Name: "   "})
	appErr := requireAppError(t, err, "VALIDATION_ERROR", 400)
	assert.Equal(t, "name must not be empty", appErr.Message)
	assert.Empty(t, st.teachers)
}

func TestTeacherServiceListWrapsStoreError(t *testing.T) {
	st := &mockTeacherStore{listErr: errors.New("connection refused")}
	svc := NewTeacherService(st, nil, nil)

	_, err := svc.List(context.Background())
	requireAppError(t, err, "INTERNAL_ERROR", 500)
}
