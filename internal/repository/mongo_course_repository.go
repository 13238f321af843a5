package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RubachokBoss/course-service/internal/models"
)

const coursesCollection = "courses"

type mongoCourseRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

func NewMongoCourseRepository(db *mongo.Database, logger zerolog.Logger) CourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(coursesCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the lookup indexes used by List.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(coursesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "teacher_id", Value: 1}}},
		{Keys: bson.D{{Key: "enrolled_students", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *mongoCourseRepository) Create(ctx context.Context, course *models.Course) error {
	course.Version = 1
	_, err := r.collection.InsertOne(ctx, course)
	if mongo.IsDuplicateKeyError(err) {
		return ErrCourseExists
	}
	return err
}

func (r *mongoCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalizeTimes(&course)
	return &course, nil
}

func (r *mongoCourseRepository) List(ctx context.Context, filter models.CourseFilter, limit, offset int) ([]models.Course, int, error) {
	query := bson.M{}
	if filter.TeacherID != "" {
		query["teacher_id"] = filter.TeacherID
	}
	if filter.StudentID != "" {
		query["enrolled_students"] = filter.StudentID
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}
	for i := range courses {
		normalizeTimes(&courses[i])
	}

	return courses, int(total), nil
}

func (r *mongoCourseRepository) Replace(ctx context.Context, course *models.Course, expectedVersion int64) error {
	next := *course
	next.Version = expectedVersion + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": course.ID, "version": expectedVersion}, &next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": course.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCourseNotFound
		}
		return ErrVersionConflict
	}

	course.Version = next.Version
	return nil
}

func (r *mongoCourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoCourseRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

// normalizeTimes puts every decoded datetime back in UTC.
func normalizeTimes(c *models.Course) {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	for i := range c.Grades {
		c.Grades[i].UpdatedAt = c.Grades[i].UpdatedAt.UTC()
	}
	for ci := range c.Chapters {
		ch := &c.Chapters[ci]
		for i := range ch.Lessons {
			ch.Lessons[i].CreatedAt = ch.Lessons[i].CreatedAt.UTC()
			ch.Lessons[i].UpdatedAt = ch.Lessons[i].UpdatedAt.UTC()
		}
		for i := range ch.Assignments {
			a := &ch.Assignments[i]
			a.StartDateTime, a.EndDateTime = a.StartDateTime.UTC(), a.EndDateTime.UTC()
			a.CreatedAt, a.UpdatedAt = a.CreatedAt.UTC(), a.UpdatedAt.UTC()
			normalizeSubmissionTimes(a.Submissions)
		}
		for i := range ch.Quizzes {
			q := &ch.Quizzes[i]
			q.StartDateTime, q.EndDateTime = q.StartDateTime.UTC(), q.EndDateTime.UTC()
			q.CreatedAt, q.UpdatedAt = q.CreatedAt.UTC(), q.UpdatedAt.UTC()
			normalizeSubmissionTimes(q.Submissions)
		}
	}
}

func normalizeSubmissionTimes(subs []models.Submission) {
	for i := range subs {
		subs[i].SubmittedAt = subs[i].SubmittedAt.UTC()
		if subs[i].GradedAt != nil {
			at := subs[i].GradedAt.UTC()
			subs[i].GradedAt = &at
		}
	}
}
