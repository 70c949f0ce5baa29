package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

type stubDirectory struct {
	teachers []models.TeacherWithFaculty
	err      error
}

func (s stubDirectory) ListDirectory(ctx context.Context) ([]models.TeacherWithFaculty, error) {
	return s.teachers, s.err
}

func strPtr(v string) *string { return &v }

func TestExportTeacherDirectoryCSV(t *testing.T) {
	src := stubDirectory{teachers: []models.TeacherWithFaculty{
		{Teacher: models.Teacher{FullName: "Ada Lovelace", Position: strPtr("Professor")}, FacultyName: strPtr("Mathematics")},
		{Teacher: models.Teacher{FullName: "Alan Turing"}},
	}}
	svc := NewExportService(src, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC) }

	file, err := svc.TeacherDirectory(context.Background(), testActor, "")
	require.NoError(t, err)
	assert.Equal(t, "teachers-20240506.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "Full name,Position,Faculty,Photo\nAda Lovelace,Professor,Mathematics,\nAlan Turing,,,\n", string(file.Data))
}

func TestExportTeacherDirectoryPDF(t *testing.T) {
	svc := NewExportService(stubDirectory{teachers: []models.TeacherWithFaculty{{Teacher: models.Teacher{FullName: "Ada"}}}}, nil)

	file, err := svc.TeacherDirectory(context.Background(), testActor, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportTeacherDirectoryErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewExportService(stubDirectory{}, nil).TeacherDirectory(ctx, nil, "csv")
	assert.True(t, appErrors.IsKind(err, appErrors.ErrUnauthorized))

	_, err = NewExportService(stubDirectory{}, nil).TeacherDirectory(ctx, testActor, "xlsx")
	assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))

	_, err = NewExportService(stubDirectory{err: errors.New("db")}, nil).TeacherDirectory(ctx, testActor, "csv")
	assert.True(t, appErrors.IsKind(err, appErrors.ErrPersistence))
}
