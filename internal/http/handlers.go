package http

import (
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"quizdesk/app/internal/db"
	"quizdesk/app/internal/quiz"
)

const (
	jsonContentType      = "application/json; charset=utf-8"
	internalErrorMessage = "Internal Error"
)

type jsonResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type listCategoriesInput struct {
	// Accepted for API compatibility; listing is always a full scan.
	Limit  string `query:"limit"`
	Offset string `query:"offset"`
}

type categorySlugInput struct {
	Slug string `path:"slug"`
}

type createCategoryInput struct {
	RawBody []byte
}

type updateCategoryInput struct {
	Slug    string `path:"slug"`
	RawBody []byte
}

type questionCategoryInput struct {
	CategoryID string `path:"categoryId"`
}

type questionIDInput struct {
	ID string `path:"id"`
}

type createQuestionInput struct {
	RawBody []byte
}

type updateQuestionInput struct {
	ID      string `path:"id"`
	RawBody []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerIndexRoute() {
	huma.Get(s.api, "/", s.indexHandler, jsonOperation("Service banner"))
}

func (s *Server) registerCategoryRoutes() {
	huma.Get(s.api, "/categories", s.listCategoriesHandler, jsonOperation(
		"List categories",
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/categories/{slug}", s.getCategoryHandler, jsonOperation(
		"Fetch category by slug",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, "/categories", s.createCategoryHandler, jsonOperation(
		"Create category",
		stdhttp.StatusCreated,
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))
	huma.Patch(s.api, "/categories/{slug}", s.updateCategoryHandler, jsonOperation(
		"Update category",
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Delete(s.api, "/categories/{slug}", s.deleteCategoryHandler, jsonOperation(
		"Delete category",
		stdhttp.StatusNotFound,
		stdhttp.StatusConflict,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerQuestionRoutes() {
	huma.Get(s.api, "/questions", s.listQuestionsHandler, jsonOperation(
		"List questions",
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/questions/{categoryId}", s.listQuestionsByCategoryHandler, jsonOperation(
		"List questions by category",
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))
	huma.Post(s.api, "/questions", s.createQuestionHandler, jsonOperation(
		"Create question",
		stdhttp.StatusCreated,
		stdhttp.StatusBadRequest,
		stdhttp.StatusInternalServerError,
	))
	huma.Patch(s.api, "/questions/{id}", s.updateQuestionHandler, jsonOperation(
		"Update question",
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Delete(s.api, "/questions/{id}", s.deleteQuestionHandler, jsonOperation(
		"Delete question",
		stdhttp.StatusNoContent,
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) indexHandler(ctx context.Context, _ *struct{}) (*jsonResponse, error) {
	return s.respond(ctx, stdhttp.StatusOK, map[string]string{"hello": "quizdesk"}), nil
}

func (s *Server) listCategoriesHandler(ctx context.Context, _ *listCategoriesInput) (*jsonResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.recordError(ctx, err, "listing categories", nil)
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, categories), nil
}

func (s *Server) getCategoryHandler(ctx context.Context, input *categorySlugInput) (*jsonResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		s.recordError(ctx, err, "fetching category", logrus.Fields{"slug": slug})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}
	if category == nil {
		return s.respond(ctx, stdhttp.StatusNotFound, messageBody("Category not found")), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, category), nil
}

func (s *Server) createCategoryHandler(ctx context.Context, input *createCategoryInput) (*jsonResponse, error) {
	if !json.Valid(input.RawBody) {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("invalid json")), nil
	}

	payload, fieldErrs := quiz.ValidateCategory(input.RawBody)
	if len(fieldErrs) > 0 {
		return s.respond(ctx, stdhttp.StatusBadRequest, validationBody(fieldErrs)), nil
	}

	category, created, err := s.categories.Create(ctx, payload.Title)
	if err != nil {
		s.recordError(ctx, err, "creating category", nil)
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	status := stdhttp.StatusOK
	if created {
		status = stdhttp.StatusCreated
	}

	return s.respond(ctx, status, category), nil
}

func (s *Server) updateCategoryHandler(ctx context.Context, input *updateCategoryInput) (*jsonResponse, error) {
	if !json.Valid(input.RawBody) {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("invalid json")), nil
	}

	payload, fieldErrs := quiz.ValidateCategory(input.RawBody)
	if len(fieldErrs) > 0 {
		return s.respond(ctx, stdhttp.StatusBadRequest, validationBody(fieldErrs)), nil
	}

	slug := strings.TrimSpace(input.Slug)
	category, err := s.categories.Update(ctx, slug, payload.Title)
	if err != nil {
		s.recordError(ctx, err, "updating category", logrus.Fields{"slug": slug})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}
	if category == nil {
		return s.respond(ctx, stdhttp.StatusNotFound, errorBody("No category found with this slug")), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, category), nil
}

func (s *Server) deleteCategoryHandler(ctx context.Context, input *categorySlugInput) (*jsonResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	deleted, err := s.categories.Delete(ctx, slug)
	if err != nil {
		if eris.Is(err, quiz.ErrCategoryInUse) {
			return s.respond(ctx, stdhttp.StatusConflict, errorBody("Category still has questions")), nil
		}
		s.recordError(ctx, err, "deleting category", logrus.Fields{"slug": slug})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}
	if !deleted {
		return s.respond(ctx, stdhttp.StatusNotFound, errorBody("Category not found")), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, messageBody(fmt.Sprintf("Category '%s' has been deleted", slug))), nil
}

func (s *Server) listQuestionsHandler(ctx context.Context, _ *struct{}) (*jsonResponse, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		s.recordError(ctx, err, "listing questions", nil)
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, questions), nil
}

func (s *Server) listQuestionsByCategoryHandler(ctx context.Context, input *questionCategoryInput) (*jsonResponse, error) {
	categoryID, err := strconv.ParseUint(input.CategoryID, 10, 32)
	if err != nil {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("Invalid category id")), nil
	}

	questions, err := s.questions.ListByCategory(ctx, uint(categoryID))
	if err != nil {
		s.recordError(ctx, err, "listing questions by category", logrus.Fields{"category_id": categoryID})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, questions), nil
}

func (s *Server) createQuestionHandler(ctx context.Context, input *createQuestionInput) (*jsonResponse, error) {
	if !json.Valid(input.RawBody) {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("invalid json")), nil
	}

	payload, fieldErrs := quiz.ValidateQuestionCreate(input.RawBody)
	if len(fieldErrs) > 0 {
		return s.respond(ctx, stdhttp.StatusBadRequest, validationBody(fieldErrs)), nil
	}

	question, _, err := s.questions.Create(ctx, *payload)
	if err != nil {
		s.recordError(ctx, err, "creating question", logrus.Fields{"category_id": payload.CategoryID})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return s.respond(ctx, stdhttp.StatusCreated, question), nil
}

func (s *Server) updateQuestionHandler(ctx context.Context, input *updateQuestionInput) (*jsonResponse, error) {
	id, err := strconv.ParseUint(input.ID, 10, 32)
	if err != nil {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("Invalid question id")), nil
	}

	if !json.Valid(input.RawBody) {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("invalid json")), nil
	}

	payload, fieldErrs := quiz.ValidateQuestionUpdate(input.RawBody)
	if len(fieldErrs) > 0 {
		return s.respond(ctx, stdhttp.StatusBadRequest, validationBody(fieldErrs)), nil
	}

	question, err := s.questions.Update(ctx, uint(id), *payload)
	if err != nil {
		switch {
		case eris.Is(err, quiz.ErrNoFields):
			return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("no fields to update")), nil
		case eris.Is(err, quiz.ErrQuestionNotFound):
			return s.respond(ctx, stdhttp.StatusNotFound, errorBody("Question not found")), nil
		}
		s.recordError(ctx, err, "updating question", logrus.Fields{"id": id})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return s.respond(ctx, stdhttp.StatusOK, question), nil
}

func (s *Server) deleteQuestionHandler(ctx context.Context, input *questionIDInput) (*jsonResponse, error) {
	id, err := strconv.ParseUint(input.ID, 10, 32)
	if err != nil {
		return s.respond(ctx, stdhttp.StatusBadRequest, errorBody("Invalid question id")), nil
	}

	if err := s.questions.Delete(ctx, uint(id)); err != nil {
		if eris.Is(err, quiz.ErrQuestionNotFound) {
			return s.respond(ctx, stdhttp.StatusNotFound, errorBody("Question not found")), nil
		}
		s.recordError(ctx, err, "deleting question", logrus.Fields{"id": id})
		return s.respond(ctx, stdhttp.StatusInternalServerError, errorBody(internalErrorMessage)), nil
	}

	return &jsonResponse{Status: stdhttp.StatusNoContent}, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

// respond marshals the payload into a jsonResponse with the given status.
func (s *Server) respond(ctx context.Context, status int, payload any) *jsonResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		s.recordError(ctx, eris.Wrap(err, "encoding response body"), "encoding response body", nil)
		return &jsonResponse{
			Status:      stdhttp.StatusInternalServerError,
			ContentType: jsonContentType,
			Body:        []byte(`{"error":"Internal Error"}`),
		}
	}

	return &jsonResponse{Status: status, ContentType: jsonContentType, Body: body}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func messageBody(message string) map[string]string {
	return map[string]string{"message": message}
}

func validationBody(fieldErrs []quiz.FieldError) map[string]any {
	return map[string]any{"error": "invalid data", "errors": fieldErrs}
}

func jsonOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					jsonContentType: {
						Schema: &huma.Schema{Type: "object"},
					},
				},
			}
		}
	}
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
