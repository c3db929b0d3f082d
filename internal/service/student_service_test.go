package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[int64]*models.StudentDetail
	codeIndex   map[string]int64
	listResult  []models.StudentDetail
	deleted     []int64
	lastSection *int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		students:  make(map[int64]*models.StudentDetail),
		codeIndex: make(map[string]int64),
	}
}

func (m *mockStudentRepo) List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error) {
	m.lastSection = sectionID
	return m.listResult, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if student, ok := m.students[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	if owner, ok := m.codeIndex[code]; ok {
		if excludeID == 0 || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = int64(len(m.students) + 1)
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	m.codeIndex[student.Code] = student.ID
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	m.codeIndex[student.Code] = student.ID
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockSectionFinder struct {
	sections map[int64]*models.Section
}

func (m *mockSectionFinder) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	if section, ok := m.sections[id]; ok {
		return section, nil
	}
	return nil, sql.ErrNoRows
}

type mockResetter struct {
	called bool
}

func (m *mockResetter) ResetAttendance(ctx context.Context) error {
	m.called = true
	return nil
}

func newStudentService(repo *mockStudentRepo, sections *mockSectionFinder) *StudentService {
	if sections == nil {
		sections = &mockSectionFinder{sections: map[int64]*models.Section{}}
	}
	return NewStudentService(repo, sections, &mockResetter{}, nil, nil)
}

func TestStudentServiceCreate(t *testing.T) {
	repo := newMockStudentRepo()
	sections := &mockSectionFinder{sections: map[int64]*models.Section{
		3: {ID: 3, Name: "BSIT-2A", Schedule: "TTH 8:00 AM - 9:30 AM"},
	}}
	svc := newStudentService(repo, sections)

	sectionID := int64(3)
	result, err := svc.Create(context.Background(), StudentRequest{Code: "2024-0001", Name: "John Smith", SectionID: &sectionID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ID)
}

func TestStudentServiceCreateDuplicateCode(t *testing.T) {
	repo := newMockStudentRepo()
	repo.codeIndex["2024-0001"] = 9
	svc := newStudentService(repo, nil)

	_, err := svc.Create(context.Background(), StudentRequest{Code: "2024-0001", Name: "John Smith"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "student_id already used", appErr.Message)
}

func TestStudentServiceCreateUnknownSection(t *testing.T) {
	svc := newStudentService(newMockStudentRepo(), nil)

	sectionID := int64(99)
	_, err := svc.Create(context.Background(), StudentRequest{Code: "2024-0001", Name: "John Smith", SectionID: &sectionID})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "section does not exist", appErr.Message)
}

func TestStudentServiceUpdateKeepsOwnCode(t *testing.T) {
	repo := newMockStudentRepo()
	repo.codeIndex["2024-0001"] = 5
	repo.students[5] = &models.StudentDetail{Student: models.Student{ID: 5, Code: "2024-0001", Name: "John Smith"}}
	svc := newStudentService(repo, nil)

	result, err := svc.Update(context.Background(), 5, StudentRequest{Code: "2024-0001", Name: "John A. Smith"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.ID)
	assert.Equal(t, "John A. Smith", repo.students[5].Name)
}

func TestStudentServiceUpdateRejectsTakenCode(t *testing.T) {
	repo := newMockStudentRepo()
	repo.codeIndex["2024-0001"] = 5
	repo.codeIndex["2024-0002"] = 6
	svc := newStudentService(repo, nil)

	_, err := svc.Update(context.Background(), 5, StudentRequest{Code: "2024-0002", Name: "John Smith"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListForwardsSectionFilter(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newStudentService(repo, nil)

	sectionID := int64(3)
	_, err := svc.List(context.Background(), &sectionID)
	require.NoError(t, err)
	require.NotNil(t, repo.lastSection)
	assert.Equal(t, int64(3), *repo.lastSection)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newStudentService(repo, nil)

	result, err := svc.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.ID)
	assert.Equal(t, []int64{5}, repo.deleted)
}

func TestStudentServiceResetAttendance(t *testing.T) {
	resetter := &mockResetter{}
	svc := NewStudentService(newMockStudentRepo(), &mockSectionFinder{}, resetter, nil, nil)

	require.NoError(t, svc.ResetAttendance(context.Background()))
	assert.True(t, resetter.called)
}
