package httpd

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/service"
)

// Pinger reports whether the content store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
	submissionService service.SubmissionService
	gradingService    service.GradingService
	auth              identity.Provider
	store             Pinger
	logger            zerolog.Logger
}

func NewHandler(
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	submissionService service.SubmissionService,
	gradingService service.GradingService,
	auth identity.Provider,
	store Pinger,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		submissionService: submissionService,
		gradingService:    gradingService,
		auth:              auth,
		store:             store,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadinessCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(Authenticate(h.auth, h.logger))

		api.Get("/assignments", h.ListAssignments)

		api.Route("/courses", func(r chi.Router) {
			r.Post("/", h.CreateCourse)
			r.Get("/", h.ListCourses)

			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", h.GetCourse)
				r.Patch("/", h.UpdateCourse)
				r.Delete("/", h.DeleteCourse)
				r.Post("/files", h.AddCourseFile)

				r.Post("/enrollments", h.Enroll)
				r.Delete("/enrollments/{studentID}", h.Unenroll)

				r.Get("/grades", h.ListGrades)
				r.Put("/grades/{studentID}", h.UpsertGrade)

				r.Post("/chapters", h.AddChapter)
				r.Route("/chapters/{chapterIndex}", func(r chi.Router) {
					r.Delete("/", h.DeleteChapter)
					r.Post("/files", h.AddChapterFile)

					r.Post("/lessons", h.AddLesson)
					r.Put("/lessons/{itemIndex}", h.UpdateLesson)
					r.Delete("/lessons/{itemIndex}", h.RemoveLesson)

					r.Post("/assignments", h.AddAssignment)
					r.Post("/quizzes", h.AddQuiz)

					r.With(itemKind(kindAssignment)).Route("/assignments/{itemIndex}", func(r chi.Router) {
						r.Put("/", h.UpdateAssignment)
						r.Delete("/", h.RemoveAssignment)
						h.registerItemRoutes(r)
					})
					r.With(itemKind(kindQuiz)).Route("/quizzes/{itemIndex}", func(r chi.Router) {
						r.Delete("/", h.RemoveQuiz)
						h.registerItemRoutes(r)
						r.Post("/submissions/{studentID}/autograde", h.AutoGrade)
					})
				})

				r.Route("/items/{itemID}", func(r chi.Router) {
					h.registerItemRoutes(r)
					r.Post("/submissions/{studentID}/autograde", h.AutoGrade)
				})
			})
		})
	})
}

// registerItemRoutes mounts the submission lifecycle routes of one
// assignment or quiz, however it is addressed.
func (h *Handler) registerItemRoutes(r chi.Router) {
	r.Get("/status", h.ItemStatus)
	r.Post("/submissions", h.Submit)
	r.Get("/submissions", h.ListSubmissions)
	r.Get("/submissions/{studentID}", h.GetSubmission)
	r.Put("/submissions/{studentID}/grade", h.GradeSubmission)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "course-service",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Content store is not reachable")
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"service":   "course-service",
		"timestamp": time.Now().UTC(),
	})
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeData(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeData(w, http.StatusCreated, data)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC(),
	})
}
