package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// Validation bounds for user-supplied text, in runes.
const (
	titleMinLen    = 3
	titleMaxLen    = 128
	questionMinLen = 10
	questionMaxLen = 1024
	answerMinLen   = 1
	answerMaxLen   = 512
)

// FieldError describes a single validation failure on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CategoryInput is the validated payload for category create and update.
type CategoryInput struct {
	Title string
}

// AnswerInput is one validated answer choice.
type AnswerInput struct {
	Answer  string
	Correct bool
}

// QuestionInput is the validated payload for question create.
type QuestionInput struct {
	Question   string
	CategoryID uint
	Answers    []AnswerInput
}

// QuestionUpdate is the validated payload for question update. Nil fields
// were absent from the request; a nil Answers slice leaves the stored
// answers untouched.
type QuestionUpdate struct {
	Question   *string
	CategoryID *uint
	Answers    []AnswerInput
}

// ValidateCategory checks an untrusted category payload. It returns either
// the typed input or the field-level failures, never both and never a panic.
func ValidateCategory(raw []byte) (*CategoryInput, []FieldError) {
	var body struct {
		Title *json.RawMessage `json:"title"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, []FieldError{{Field: "body", Message: "invalid json"}}
	}

	title, errs := validateTitle(body.Title)
	if len(errs) > 0 {
		return nil, errs
	}

	return &CategoryInput{Title: title}, nil
}

// ValidateQuestionCreate checks an untrusted question payload. The
// at-least-one-correct rule is only evaluated once every answer passed its
// per-field rules.
func ValidateQuestionCreate(raw []byte) (*QuestionInput, []FieldError) {
	var body struct {
		Question   *json.RawMessage `json:"question"`
		CategoryID *json.RawMessage `json:"categoryId"`
		Answers    *json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, []FieldError{{Field: "body", Message: "invalid json"}}
	}

	var errs []FieldError

	question, questionErrs := validateQuestionText(body.Question, true)
	errs = append(errs, questionErrs...)

	categoryID, categoryErrs := validateCategoryID(body.CategoryID, true)
	errs = append(errs, categoryErrs...)

	var answers []AnswerInput
	if body.Answers == nil {
		errs = append(errs, FieldError{Field: "answers", Message: "at least one answer is required"})
	} else {
		var answerErrs []FieldError
		answers, answerErrs = validateAnswers(*body.Answers)
		errs = append(errs, answerErrs...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &QuestionInput{Question: *question, CategoryID: *categoryID, Answers: answers}, nil
}

// ValidateQuestionUpdate checks an untrusted partial question payload.
// Every field is optional; present fields obey the same bounds as create.
// Detecting the semantically empty update is the store's job, not a shape
// concern.
func ValidateQuestionUpdate(raw []byte) (*QuestionUpdate, []FieldError) {
	var body struct {
		Question   *json.RawMessage `json:"question"`
		CategoryID *json.RawMessage `json:"categoryId"`
		Answers    *json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, []FieldError{{Field: "body", Message: "invalid json"}}
	}

	var errs []FieldError
	update := &QuestionUpdate{}

	if body.Question != nil {
		question, questionErrs := validateQuestionText(body.Question, false)
		errs = append(errs, questionErrs...)
		update.Question = question
	}

	if body.CategoryID != nil {
		categoryID, categoryErrs := validateCategoryID(body.CategoryID, false)
		errs = append(errs, categoryErrs...)
		update.CategoryID = categoryID
	}

	if body.Answers != nil {
		answers, answerErrs := validateAnswers(*body.Answers)
		errs = append(errs, answerErrs...)
		update.Answers = answers
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return update, nil
}

func validateTitle(raw *json.RawMessage) (string, []FieldError) {
	if raw == nil {
		return "", []FieldError{{Field: "title", Message: "title is required"}}
	}

	var title string
	if err := json.Unmarshal(*raw, &title); err != nil {
		return "", []FieldError{{Field: "title", Message: "title must be a string"}}
	}

	switch length := utf8.RuneCountInString(title); {
	case length < titleMinLen:
		return "", []FieldError{{Field: "title", Message: fmt.Sprintf("title must be at least %d letters", titleMinLen)}}
	case length > titleMaxLen:
		return "", []FieldError{{Field: "title", Message: fmt.Sprintf("title must be at most %d letters", titleMaxLen)}}
	}

	// A title with no visible text left after sanitization would derive the
	// empty slug, which every other such title would then collide with. Catch
	// it here so the caller sees a field error, not a persistence failure.
	if DeriveSlug(Sanitize(title)) == "" {
		return "", []FieldError{{Field: "title", Message: "title must contain at least one visible character"}}
	}

	return title, nil
}

func validateQuestionText(raw *json.RawMessage, required bool) (*string, []FieldError) {
	if raw == nil {
		if required {
			return nil, []FieldError{{Field: "question", Message: "question is required"}}
		}
		return nil, nil
	}

	var question string
	if err := json.Unmarshal(*raw, &question); err != nil {
		return nil, []FieldError{{Field: "question", Message: "question must be a string"}}
	}

	switch length := utf8.RuneCountInString(question); {
	case length < questionMinLen:
		return nil, []FieldError{{Field: "question", Message: fmt.Sprintf("question must be at least %d characters", questionMinLen)}}
	case length > questionMaxLen:
		return nil, []FieldError{{Field: "question", Message: fmt.Sprintf("question must be at most %d characters", questionMaxLen)}}
	}

	return &question, nil
}

func validateCategoryID(raw *json.RawMessage, required bool) (*uint, []FieldError) {
	if raw == nil {
		if required {
			return nil, []FieldError{{Field: "categoryId", Message: "categoryId is required"}}
		}
		return nil, nil
	}

	var value float64
	if err := json.Unmarshal(*raw, &value); err != nil {
		return nil, []FieldError{{Field: "categoryId", Message: "categoryId must be a number"}}
	}
	// Bounded before conversion: out-of-range float-to-uint is not defined.
	if value < 0 || value > math.MaxUint32 || value != math.Trunc(value) {
		return nil, []FieldError{{Field: "categoryId", Message: "categoryId must be a number"}}
	}

	categoryID := uint(value)
	return &categoryID, nil
}

func validateAnswers(raw json.RawMessage) ([]AnswerInput, []FieldError) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, []FieldError{{Field: "answers", Message: "answers must be an array"}}
	}
	if len(items) == 0 {
		return nil, []FieldError{{Field: "answers", Message: "at least one answer is required"}}
	}

	var errs []FieldError
	answers := make([]AnswerInput, 0, len(items))

	for index, item := range items {
		field := fmt.Sprintf("answers[%d]", index)

		var body struct {
			Answer  *json.RawMessage `json:"answer"`
			Correct *json.RawMessage `json:"correct"`
		}
		if err := json.Unmarshal(item, &body); err != nil {
			errs = append(errs, FieldError{Field: field, Message: "answer must be an object"})
			continue
		}

		var answer AnswerInput

		if body.Answer == nil {
			errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must not be empty"})
		} else {
			var text string
			if err := json.Unmarshal(*body.Answer, &text); err != nil {
				errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must be a string"})
			} else {
				switch length := utf8.RuneCountInString(text); {
				case length < answerMinLen:
					errs = append(errs, FieldError{Field: field + ".answer", Message: "answer must not be empty"})
				case length > answerMaxLen:
					errs = append(errs, FieldError{Field: field + ".answer", Message: fmt.Sprintf("answer must be at most %d characters", answerMaxLen)})
				default:
					answer.Answer = text
				}
			}
		}

		if body.Correct != nil {
			var correct bool
			if err := json.Unmarshal(*body.Correct, &correct); err != nil {
				errs = append(errs, FieldError{Field: field + ".correct", Message: "correct must be a boolean"})
			} else {
				answer.Correct = correct
			}
		}

		answers = append(answers, answer)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, answer := range answers {
		if answer.Correct {
			return answers, nil
		}
	}

	return nil, []FieldError{{Field: "answers", Message: "at least one answer must be marked correct"}}
}
