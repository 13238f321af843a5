package models

// Clone returns a deep copy so callers can mutate or redact it freely.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.EnrolledStudents = cloneStrings(c.EnrolledStudents)
	out.Files = cloneFiles(c.Files)
	out.Grades = append([]Grade(nil), c.Grades...)
	if c.Chapters != nil {
		out.Chapters = make([]Chapter, len(c.Chapters))
		for i := range c.Chapters {
			out.Chapters[i] = c.Chapters[i].clone()
		}
	}
	return &out
}

func (ch Chapter) clone() Chapter {
	out := ch
	out.Files = cloneFiles(ch.Files)
	if ch.Lessons != nil {
		out.Lessons = make([]Lesson, len(ch.Lessons))
		for i, l := range ch.Lessons {
			l.File = cloneFile(l.File)
			out.Lessons[i] = l
		}
	}
	if ch.Assignments != nil {
		out.Assignments = make([]Assignment, len(ch.Assignments))
		for i, a := range ch.Assignments {
			a.Files = cloneFiles(a.Files)
			a.Submissions = cloneSubmissions(a.Submissions)
			out.Assignments[i] = a
		}
	}
	if ch.Quizzes != nil {
		out.Quizzes = make([]Quiz, len(ch.Quizzes))
		for i, q := range ch.Quizzes {
			q.File = cloneFile(q.File)
			q.Submissions = cloneSubmissions(q.Submissions)
			if q.Questions != nil {
				questions := make([]Question, len(q.Questions))
				for j, question := range q.Questions {
					question.Options = cloneStrings(question.Options)
					questions[j] = question
				}
				q.Questions = questions
			}
			out.Quizzes[i] = q
		}
	}
	return out
}

func (s Submission) Clone() Submission {
	out := s
	out.Files = cloneFiles(s.Files)
	out.Answers = cloneStrings(s.Answers)
	if s.Score != nil {
		score := *s.Score
		out.Score = &score
	}
	if s.GradedAt != nil {
		at := *s.GradedAt
		out.GradedAt = &at
	}
	return out
}

func cloneSubmissions(in []Submission) []Submission {
	if in == nil {
		return nil
	}
	out := make([]Submission, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneFiles(in []File) []File {
	if in == nil {
		return nil
	}
	return append([]File(nil), in...)
}

func cloneFile(f *File) *File {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}
