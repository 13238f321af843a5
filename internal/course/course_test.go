package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func points(v float64) *float64 { return &v }

func newAssignment(title string) models.NewAssignment {
	return models.NewAssignment{
		Title:         title,
		Content:       "write something",
		StartDateTime: t0,
		EndDateTime:   t0.Add(time.Hour),
	}
}

func threeChapterCourse(t *testing.T) *models.Course {
	t.Helper()
	c, err := New("teacher-1", models.CreateCourseRequest{
		Title:       "Go",
		Description: "Concurrency in practice",
		Chapters: []models.NewChapter{
			{Title: "Intro", Assignments: []models.NewAssignment{newAssignment("A0")}},
			{Title: "Channels", Assignments: []models.NewAssignment{newAssignment("A1")}},
			{Title: "Context", Assignments: []models.NewAssignment{newAssignment("A2")}},
		},
	}, t0)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		teacherID string
		req       models.CreateCourseRequest
		wantField string
	}{
		{
			name:      "missing title",
			teacherID: "t",
			req:       models.CreateCourseRequest{Description: "d", Chapters: []models.NewChapter{}},
			wantField: "title",
		},
		{
			name:      "blank description",
			teacherID: "t",
			req:       models.CreateCourseRequest{Title: "x", Description: "  ", Chapters: []models.NewChapter{}},
			wantField: "description",
		},
		{
			name:      "missing chapters",
			teacherID: "t",
			req:       models.CreateCourseRequest{Title: "x", Description: "d"},
			wantField: "chapters",
		},
		{
			name:      "missing teacher",
			req:       models.CreateCourseRequest{Title: "x", Description: "d", Chapters: []models.NewChapter{}},
			wantField: "teacher_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.teacherID, tt.req, t0)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			require.Len(t, appErr.Fields, 1)
			assert.Equal(t, tt.wantField, appErr.Fields[0].Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		c, err := New("teacher-1", models.CreateCourseRequest{
			Title:         " Go ",
			Description:   "d",
			EnrollmentKey: "ABC123",
			Chapters:      []models.NewChapter{{Title: "One"}},
		}, t0)
		require.NoError(t, err)

		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Go", c.Title)
		assert.Equal(t, "teacher-1", c.TeacherID)
		assert.Equal(t, "ABC123", c.EnrollmentKey)
		assert.Empty(t, c.EnrolledStudents)
		assert.NotNil(t, c.EnrolledStudents)
		require.Len(t, c.Chapters, 1)
		assert.Equal(t, t0, c.CreatedAt)
	})
}

func TestUpdateMetadataKeepsOwner(t *testing.T) {
	c := threeChapterCourse(t)
	title, key := "Advanced Go", ""

	err := UpdateMetadata(c, models.UpdateCourseRequest{Title: &title, EnrollmentKey: &key}, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", c.Title)
	assert.Equal(t, "teacher-1", c.TeacherID)
	assert.Empty(t, c.EnrollmentKey)
	assert.Equal(t, t0.Add(time.Minute), c.UpdatedAt)

	blank := " "
	err = UpdateMetadata(c, models.UpdateCourseRequest{Description: &blank}, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestAddChapter(t *testing.T) {
	c := threeChapterCourse(t)

	idx, err := AddChapter(c, "Generics", t0)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "Generics", c.Chapters[3].Title)

	_, err = AddChapter(c, "", t0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Len(t, c.Chapters, 4)
}

func TestDeleteChapterReindexes(t *testing.T) {
	c := threeChapterCourse(t)
	movedID := c.Chapters[2].Assignments[0].ID
	removedID := c.Chapters[1].Assignments[0].ID

	require.NoError(t, DeleteChapter(c, 1, t0))
	require.Len(t, c.Chapters, 2)
	assert.Equal(t, "Intro", c.Chapters[0].Title)
	assert.Equal(t, "Context", c.Chapters[1].Title)

	// Position (1, 0) now resolves to what used to live at chapter 2.
	it, err := Locate(c, models.ItemRef{Kind: models.ItemKindAssignment, ChapterIndex: 1, ItemIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, "A2", it.Title)
	assert.Equal(t, movedID, it.ID)

	_, err = Locate(c, models.ItemRef{Kind: models.ItemKindAssignment, ChapterIndex: 2, ItemIndex: 0})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// Stable IDs keep resolving to the same content.
	it, err = Locate(c, models.ItemRef{ID: movedID})
	require.NoError(t, err)
	assert.Equal(t, 1, it.ChapterIndex)
	assert.Equal(t, "A2", it.Title)

	_, err = Locate(c, models.ItemRef{ID: removedID})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	err = DeleteChapter(c, 5, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAddContentOutOfRange(t *testing.T) {
	c := threeChapterCourse(t)

	_, err := AddLesson(c, 3, models.NewLesson{Title: "L"}, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = AddAssignment(c, -1, newAssignment("A"), t0)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = AddQuiz(c, 9, models.NewQuiz{Title: "Q", StartDateTime: t0, EndDateTime: t0.Add(time.Hour)}, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAddAssignment(t *testing.T) {
	tests := []struct {
		name       string
		in         models.NewAssignment
		wantPoints float64
		wantErr    bool
	}{
		{name: "defaults to 100 points", in: newAssignment("A"), wantPoints: 100},
		{
			name: "explicit zero points",
			in: func() models.NewAssignment {
				a := newAssignment("A")
				a.TotalPoints = points(0)
				return a
			}(),
			wantPoints: 0,
		},
		{
			name: "negative points",
			in: func() models.NewAssignment {
				a := newAssignment("A")
				a.TotalPoints = points(-1)
				return a
			}(),
			wantErr: true,
		},
		{
			name: "end before start",
			in: models.NewAssignment{
				Title:         "A",
				StartDateTime: t0,
				EndDateTime:   t0.Add(-time.Second),
			},
			wantErr: true,
		},
		{
			name: "end equals start",
			in: models.NewAssignment{
				Title:         "A",
				StartDateTime: t0,
				EndDateTime:   t0,
			},
			wantErr: true,
		},
		{
			name: "relative file url",
			in: func() models.NewAssignment {
				a := newAssignment("A")
				a.Files = []models.File{{Name: "brief.pdf", URL: "/files/brief.pdf"}}
				return a
			}(),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := threeChapterCourse(t)
			a, err := AddAssignment(c, 0, tt.in, t0)
			if tt.wantErr {
				assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
				assert.Len(t, c.Chapters[0].Assignments, 1)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, a.ID)
			assert.Equal(t, tt.wantPoints, a.TotalPoints)
			assert.NotNil(t, a.Submissions)
			assert.Len(t, c.Chapters[0].Assignments, 2)
		})
	}
}

func TestUpdateAssignmentKeepsSubmissions(t *testing.T) {
	c := threeChapterCourse(t)
	a := &c.Chapters[0].Assignments[0]
	a.Submissions = append(a.Submissions, models.Submission{ID: "s1", StudentID: "st-1"})
	id := a.ID

	in := newAssignment("Renamed")
	in.TotalPoints = points(50)
	updated, err := UpdateAssignment(c, 0, 0, in, t0.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, float64(50), updated.TotalPoints)
	assert.Len(t, updated.Submissions, 1)
}

func TestUpdateAssignmentKeepsScoresInRange(t *testing.T) {
	c := threeChapterCourse(t)
	score := 90.0
	a := &c.Chapters[0].Assignments[0]
	a.Submissions = append(a.Submissions, models.Submission{ID: "s1", StudentID: "st-1", Score: &score})

	in := newAssignment("Rescaled")
	in.TotalPoints = points(10)
	_, err := UpdateAssignment(c, 0, 0, in, t0.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, float64(100), c.Chapters[0].Assignments[0].TotalPoints)

	in.TotalPoints = points(90)
	updated, err := UpdateAssignment(c, 0, 0, in, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, float64(90), updated.TotalPoints)
}

func TestWindowTruncatedToMilliseconds(t *testing.T) {
	c := threeChapterCourse(t)
	in := newAssignment("Precise")
	in.StartDateTime = t0.Add(123456789 * time.Nanosecond)
	in.EndDateTime = t0.Add(time.Hour + 987654321*time.Nanosecond)

	a, err := AddAssignment(c, 0, in, t0)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(123*time.Millisecond), a.StartDateTime)
	assert.Equal(t, t0.Add(time.Hour+987*time.Millisecond), a.EndDateTime)
}

func TestAddQuiz(t *testing.T) {
	c := threeChapterCourse(t)
	in := models.NewQuiz{
		Title:         "Quiz 1",
		Duration:      15,
		StartDateTime: t0,
		EndDateTime:   t0.Add(time.Hour),
		Questions: []models.Question{
			{Text: "2+2", Options: []string{"3", "4"}, CorrectAnswer: "4", Points: 3},
			{Text: "nil map write", Options: []string{"panic", "ok"}, CorrectAnswer: "panic", Points: 2},
		},
	}

	q, err := AddQuiz(c, 1, in, t0)
	require.NoError(t, err)
	assert.Equal(t, float64(5), q.TotalPoints)
	assert.NotEmpty(t, q.ID)

	in.Questions[0].CorrectAnswer = "5"
	_, err = AddQuiz(c, 1, in, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	in.Questions[0].CorrectAnswer = "4"
	in.Duration = -1
	_, err = AddQuiz(c, 1, in, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRemoveItems(t *testing.T) {
	c := threeChapterCourse(t)
	_, err := AddLesson(c, 0, models.NewLesson{Title: "L1"}, t0)
	require.NoError(t, err)
	_, err = AddLesson(c, 0, models.NewLesson{Title: "L2"}, t0)
	require.NoError(t, err)

	require.NoError(t, RemoveLesson(c, 0, 0, t0))
	require.Len(t, c.Chapters[0].Lessons, 1)
	assert.Equal(t, "L2", c.Chapters[0].Lessons[0].Title)

	require.NoError(t, RemoveAssignment(c, 0, 0, t0))
	assert.Empty(t, c.Chapters[0].Assignments)

	assert.True(t, apperror.IsKind(RemoveQuiz(c, 0, 0, t0), apperror.KindNotFound))
	assert.True(t, apperror.IsKind(RemoveLesson(c, 0, 4, t0), apperror.KindNotFound))
}

func TestUpdateLessonKeepsID(t *testing.T) {
	c := threeChapterCourse(t)
	created, err := AddLesson(c, 1, models.NewLesson{Title: "Buffered channels"}, t0)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	later := t0.Add(time.Hour)
	pdf := &models.File{Name: "slides.pdf", URL: "https://files.example.com/slides.pdf"}
	updated, err := UpdateLesson(c, 1, 0, models.NewLesson{Title: "Unbuffered channels", File: pdf}, later)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Unbuffered channels", updated.Title)
	assert.Equal(t, t0, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	require.NotNil(t, c.Chapters[1].Lessons[0].File)

	_, err = UpdateLesson(c, 1, 0, models.NewLesson{Title: "x", File: &models.File{Name: "a", URL: "slides.pdf"}}, later)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, "Unbuffered channels", c.Chapters[1].Lessons[0].Title)

	_, err = UpdateLesson(c, 1, 3, models.NewLesson{Title: "x"}, later)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAttachFiles(t *testing.T) {
	c := threeChapterCourse(t)
	f := models.File{Name: "syllabus.pdf", URL: "https://files.example.com/syllabus.pdf", Type: "application/pdf"}

	require.NoError(t, AddCourseFile(c, f, t0))
	assert.Equal(t, []models.File{f}, c.Files)

	require.NoError(t, AddChapterFile(c, 2, f, t0))
	assert.Equal(t, []models.File{f}, c.Chapters[2].Files)

	err := AddCourseFile(c, models.File{Name: "", URL: f.URL}, t0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.True(t, apperror.IsKind(AddChapterFile(c, 7, f, t0), apperror.KindNotFound))
	assert.Len(t, c.Files, 1)
}

func TestEnroll(t *testing.T) {
	c := threeChapterCourse(t)
	c.EnrollmentKey = "ABC123"

	err := Enroll(c, "student-1", "WRONG", t0)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidKey))
	assert.Empty(t, c.EnrolledStudents)

	require.NoError(t, Enroll(c, "student-1", "ABC123", t0))
	assert.Equal(t, []string{"student-1"}, c.EnrolledStudents)

	err = Enroll(c, "student-1", "ABC123", t0)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyEnrolled))
	assert.Len(t, c.EnrolledStudents, 1)

	// Already enrolled wins over a wrong key.
	err = Enroll(c, "student-1", "WRONG", t0)
	assert.True(t, apperror.IsKind(err, apperror.KindAlreadyEnrolled))
}

func TestEnrollWithoutKey(t *testing.T) {
	c := threeChapterCourse(t)
	require.NoError(t, Enroll(c, "student-1", "anything", t0))
	assert.True(t, c.IsEnrolled("student-1"))
}

func TestUnenroll(t *testing.T) {
	c := threeChapterCourse(t)
	require.NoError(t, Enroll(c, "a", "", t0))
	require.NoError(t, Enroll(c, "b", "", t0))

	assert.True(t, Unenroll(c, "a", t0))
	assert.Equal(t, []string{"b"}, c.EnrolledStudents)
	assert.False(t, Unenroll(c, "a", t0))
}

func TestViewFor(t *testing.T) {
	c := threeChapterCourse(t)
	c.EnrollmentKey = "secret"
	_, err := AddQuiz(c, 0, models.NewQuiz{
		Title:         "Q",
		StartDateTime: t0,
		EndDateTime:   t0.Add(time.Hour),
		Questions:     []models.Question{{Text: "?", Options: []string{"a", "b"}, CorrectAnswer: "a", Points: 1}},
	}, t0)
	require.NoError(t, err)
	require.NoError(t, Enroll(c, "s1", "secret", t0))
	require.NoError(t, Enroll(c, "s2", "secret", t0))
	c.Chapters[0].Assignments[0].Submissions = []models.Submission{
		{ID: "x", StudentID: "s1", Content: "mine"},
		{ID: "y", StudentID: "s2", Content: "theirs"},
	}
	c.Grades = []models.Grade{{StudentID: "s1", Grade: "A"}, {StudentID: "s2", Grade: "B"}}

	owner := ViewFor(c, &models.Principal{ID: "teacher-1", Role: models.RoleTeacher})
	assert.Equal(t, "secret", owner.EnrollmentKey)
	assert.Len(t, owner.EnrolledStudents, 2)
	assert.Equal(t, "a", owner.Chapters[0].Quizzes[0].Questions[0].CorrectAnswer)

	student := ViewFor(c, &models.Principal{ID: "s1", Role: models.RoleStudent})
	assert.Empty(t, student.EnrollmentKey)
	assert.Equal(t, []string{"s1"}, student.EnrolledStudents)
	assert.Empty(t, student.Chapters[0].Quizzes[0].Questions[0].CorrectAnswer)
	require.Len(t, student.Chapters[0].Assignments[0].Submissions, 1)
	assert.Equal(t, "mine", student.Chapters[0].Assignments[0].Submissions[0].Content)
	require.Len(t, student.Grades, 1)
	assert.Equal(t, "A", student.Grades[0].Grade)

	// The source document is untouched.
	assert.Equal(t, "secret", c.EnrollmentKey)
	assert.Equal(t, "a", c.Chapters[0].Quizzes[0].Questions[0].CorrectAnswer)
	assert.Len(t, c.Chapters[0].Assignments[0].Submissions, 2)
}

func TestProjections(t *testing.T) {
	c := threeChapterCourse(t)
	c.Chapters[2].Assignments[0].Submissions = []models.Submission{{ID: "s"}}

	got := Projections(c)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[2].ChapterIndex)
	assert.Equal(t, 0, got[2].ItemIndex)
	assert.Equal(t, c.ID, got[2].CourseID)
	assert.Equal(t, "A2", got[2].Assignment.Title)
	assert.Nil(t, got[2].Assignment.Submissions)
	assert.Len(t, c.Chapters[2].Assignments[0].Submissions, 1)
}
