package course

import (
	"strings"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// AddChapter appends a chapter and returns its index.
func AddChapter(c *models.Course, title string, now time.Time) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, apperror.Field("title", "this field is required")
	}

	c.Chapters = append(c.Chapters, models.Chapter{
		Title:       title,
		Lessons:     []models.Lesson{},
		Assignments: []models.Assignment{},
		Quizzes:     []models.Quiz{},
		Files:       []models.File{},
	})
	touch(c, now)
	return len(c.Chapters) - 1, nil
}

// DeleteChapter removes the chapter at index; every later chapter moves down
// by one position. Items keep their IDs, so ID-addressed references survive.
func DeleteChapter(c *models.Course, index int, now time.Time) error {
	if _, err := chapterAt(c, index); err != nil {
		return err
	}

	chapters := make([]models.Chapter, 0, len(c.Chapters)-1)
	chapters = append(chapters, c.Chapters[:index]...)
	chapters = append(chapters, c.Chapters[index+1:]...)
	c.Chapters = chapters
	touch(c, now)
	return nil
}

func AddChapterFile(c *models.Course, index int, f models.File, now time.Time) error {
	ch, err := chapterAt(c, index)
	if err != nil {
		return err
	}
	if err := ValidateFile("file", f); err != nil {
		return err
	}
	ch.Files = append(ch.Files, f)
	touch(c, now)
	return nil
}

func chapterAt(c *models.Course, index int) (*models.Chapter, error) {
	if index < 0 || index >= len(c.Chapters) {
		return nil, apperror.NotFound("chapter %d not found", index)
	}
	return &c.Chapters[index], nil
}
