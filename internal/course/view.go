package course

import (
	"github.com/RubachokBoss/course-service/internal/models"
)

// ViewFor returns a copy of c redacted for the viewer. The owner sees
// everything; anyone else loses the enrollment key, quiz answer keys, and
// every submission, grade and enrollment entry that is not their own.
func ViewFor(c *models.Course, viewer *models.Principal) *models.Course {
	out := c.Clone()
	if viewer != nil && c.IsOwner(viewer.ID) {
		return out
	}

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}

	out.EnrollmentKey = ""
	out.EnrolledStudents = onlyString(out.EnrolledStudents, viewerID)

	grades := []models.Grade{}
	for _, g := range out.Grades {
		if g.StudentID == viewerID {
			grades = append(grades, g)
		}
	}
	out.Grades = grades

	for ci := range out.Chapters {
		ch := &out.Chapters[ci]
		for ai := range ch.Assignments {
			ch.Assignments[ai].Submissions = ownSubmissions(ch.Assignments[ai].Submissions, viewerID)
		}
		for qi := range ch.Quizzes {
			q := &ch.Quizzes[qi]
			q.Submissions = ownSubmissions(q.Submissions, viewerID)
			for k := range q.Questions {
				q.Questions[k].CorrectAnswer = ""
			}
		}
	}
	return out
}

func ownSubmissions(subs []models.Submission, studentID string) []models.Submission {
	out := []models.Submission{}
	for _, s := range subs {
		if studentID != "" && s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out
}

func onlyString(in []string, keep string) []string {
	out := []string{}
	for _, s := range in {
		if keep != "" && s == keep {
			out = append(out, s)
		}
	}
	return out
}
