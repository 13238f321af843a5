package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

const maxBodyBytes = 1 << 20

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bind decodes the JSON body into dst and runs its validate tags.
func bind(r *http.Request, dst interface{}) error {
	return decode(r, dst, false)
}

// bindOptional is bind for endpoints whose body may be empty.
func bindOptional(r *http.Request, dst interface{}) error {
	return decode(r, dst, true)
}

func decode(r *http.Request, dst interface{}, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if !optional {
				return apperror.Validation("request body is required")
			}
		} else {
			return apperror.Validation("invalid request body: " + err.Error())
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperror.Validation(err.Error())
		}
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: fe.Translate(translator),
			})
		}
		return apperror.Validation("invalid request", fields...)
	}
	return nil
}

// fieldPath drops the struct name: "CreateCourseRequest.chapters[0].title"
// becomes "chapters[0].title".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func pathIndex(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Field(name, "must be a non-negative integer")
	}
	return n, nil
}

type itemKindKey struct{}

const (
	kindAssignment = models.ItemKindAssignment
	kindQuiz       = models.ItemKindQuiz
)

// itemKind tags a positional item route with the kind of item it addresses.
func itemKind(kind models.ItemKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), itemKindKey{}, kind)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// itemRef resolves the addressed item: a stable id from /items/{itemID},
// or kind and position from the chapter routes.
func itemRef(r *http.Request) (models.ItemRef, error) {
	if id := chi.URLParam(r, "itemID"); id != "" {
		return models.ItemRef{ID: id}, nil
	}

	kind, _ := r.Context().Value(itemKindKey{}).(models.ItemKind)
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		return models.ItemRef{}, err
	}
	itemIndex, err := pathIndex(r, "itemIndex")
	if err != nil {
		return models.ItemRef{}, err
	}
	return models.ItemRef{
		Kind:         kind,
		ChapterIndex: chapterIndex,
		ItemIndex:    itemIndex,
	}, nil
}
