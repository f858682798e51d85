package quiz

import (
	"strings"
	"testing"
)

func fieldMessages(errs []FieldError) string {
	var out strings.Builder
	for _, fieldErr := range errs {
		out.WriteString(fieldErr.Field)
		out.WriteString(": ")
		out.WriteString(fieldErr.Message)
		out.WriteString("; ")
	}
	return out.String()
}

func TestValidateCategoryAcceptsValidTitle(t *testing.T) {
	t.Parallel()

	input, errs := ValidateCategory([]byte(`{"title":"Geography"}`))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %s", fieldMessages(errs))
	}
	if input.Title != "Geography" {
		t.Fatalf("expected title preserved, got %q", input.Title)
	}
}

func TestValidateCategoryRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		message string
	}{
		{name: "invalid json", payload: `{"title":`, message: "invalid json"},
		{name: "missing title", payload: `{}`, message: "title is required"},
		{name: "wrong type", payload: `{"title":42}`, message: "title must be a string"},
		{name: "too short", payload: `{"title":"ab"}`, message: "title must be at least 3 letters"},
		{name: "too long", payload: `{"title":"` + strings.Repeat("a", 129) + `"}`, message: "title must be at most 128 letters"},
		{name: "whitespace only", payload: `{"title":"    "}`, message: "title must contain at least one visible character"},
		{name: "markup only", payload: `{"title":"<script>alert(1)</script>"}`, message: "title must contain at least one visible character"},
		{name: "markup around whitespace", payload: `{"title":"<b>   </b>"}`, message: "title must contain at least one visible character"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input, errs := ValidateCategory([]byte(tc.payload))
			if input != nil {
				t.Fatalf("expected nil input, got %#v", input)
			}
			if len(errs) == 0 {
				t.Fatalf("expected validation errors")
			}
			if !strings.Contains(fieldMessages(errs), tc.message) {
				t.Fatalf("expected message %q, got %s", tc.message, fieldMessages(errs))
			}
		})
	}
}

func TestValidateQuestionCreateAcceptsValidPayload(t *testing.T) {
	t.Parallel()

	payload := `{
		"question": "What is the capital of Iceland?",
		"categoryId": 3,
		"answers": [
			{"answer": "Reykjavik", "correct": true},
			{"answer": "Oslo"}
		]
	}`

	input, errs := ValidateQuestionCreate([]byte(payload))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %s", fieldMessages(errs))
	}
	if input.CategoryID != 3 {
		t.Fatalf("expected categoryId 3, got %d", input.CategoryID)
	}
	if len(input.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(input.Answers))
	}
	if !input.Answers[0].Correct {
		t.Fatalf("expected first answer marked correct")
	}
	if input.Answers[1].Correct {
		t.Fatalf("expected correct to default to false")
	}
}

func TestValidateQuestionCreateDistinguishesMissingFromWrongTypeCategoryID(t *testing.T) {
	t.Parallel()

	missing := `{"question":"What is the capital of Iceland?","answers":[{"answer":"a","correct":true}]}`
	_, errs := ValidateQuestionCreate([]byte(missing))
	if !strings.Contains(fieldMessages(errs), "categoryId is required") {
		t.Fatalf("expected missing message, got %s", fieldMessages(errs))
	}

	wrongType := `{"question":"What is the capital of Iceland?","categoryId":"3","answers":[{"answer":"a","correct":true}]}`
	_, errs = ValidateQuestionCreate([]byte(wrongType))
	if !strings.Contains(fieldMessages(errs), "categoryId must be a number") {
		t.Fatalf("expected wrong-type message, got %s", fieldMessages(errs))
	}
}

func TestValidateQuestionCreateRejectsUnrepresentableCategoryID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		id   string
	}{
		{name: "negative", id: `-1`},
		{name: "fractional", id: `1.5`},
		{name: "beyond uint32", id: `1e30`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload := `{"question":"What is the capital of Iceland?","categoryId":` + tc.id + `,"answers":[{"answer":"a","correct":true}]}`
			input, errs := ValidateQuestionCreate([]byte(payload))
			if input != nil {
				t.Fatalf("expected nil input, got %#v", input)
			}
			if !strings.Contains(fieldMessages(errs), "categoryId must be a number") {
				t.Fatalf("expected categoryId rejected, got %s", fieldMessages(errs))
			}
		})
	}
}

func TestValidateQuestionCreateRequiresOneCorrectAnswer(t *testing.T) {
	t.Parallel()

	payload := `{
		"question": "What is the capital of Iceland?",
		"categoryId": 1,
		"answers": [
			{"answer": "Reykjavik", "correct": false},
			{"answer": "Oslo", "correct": false}
		]
	}`

	input, errs := ValidateQuestionCreate([]byte(payload))
	if input != nil {
		t.Fatalf("expected nil input, got %#v", input)
	}
	if !strings.Contains(fieldMessages(errs), "at least one answer must be marked correct") {
		t.Fatalf("expected cross-field message, got %s", fieldMessages(errs))
	}
}

func TestValidateQuestionCreateCrossFieldRuleWaitsForPerItemRules(t *testing.T) {
	t.Parallel()

	// A broken answer must report its own error, not the cross-field one.
	payload := `{
		"question": "What is the capital of Iceland?",
		"categoryId": 1,
		"answers": [{"answer": "", "correct": false}]
	}`

	_, errs := ValidateQuestionCreate([]byte(payload))
	messages := fieldMessages(errs)
	if !strings.Contains(messages, "answer must not be empty") {
		t.Fatalf("expected per-item message, got %s", messages)
	}
	if strings.Contains(messages, "marked correct") {
		t.Fatalf("cross-field rule should not fire before per-item rules pass, got %s", messages)
	}
}

func TestValidateQuestionCreateRejectsBadAnswers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		answers string
		message string
	}{
		{name: "missing", answers: ``, message: "at least one answer is required"},
		{name: "not array", answers: `"answers": 1,`, message: "answers must be an array"},
		{name: "empty array", answers: `"answers": [],`, message: "at least one answer is required"},
		{name: "too long", answers: `"answers": [{"answer":"` + strings.Repeat("a", 513) + `","correct":true}],`, message: "answer must be at most 512 characters"},
		{name: "wrong correct type", answers: `"answers": [{"answer":"a","correct":"yes"}],`, message: "correct must be a boolean"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload := `{"question":"What is the capital of Iceland?","categoryId":1,` + tc.answers + `"extra": null}`
			_, errs := ValidateQuestionCreate([]byte(payload))
			if !strings.Contains(fieldMessages(errs), tc.message) {
				t.Fatalf("expected message %q, got %s", tc.message, fieldMessages(errs))
			}
		})
	}
}

func TestValidateQuestionUpdateAllFieldsOptional(t *testing.T) {
	t.Parallel()

	update, errs := ValidateQuestionUpdate([]byte(`{}`))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %s", fieldMessages(errs))
	}
	if update.Question != nil || update.CategoryID != nil || update.Answers != nil {
		t.Fatalf("expected empty update, got %#v", update)
	}
}

func TestValidateQuestionUpdateChecksPresentFields(t *testing.T) {
	t.Parallel()

	_, errs := ValidateQuestionUpdate([]byte(`{"question":"short"}`))
	if !strings.Contains(fieldMessages(errs), "question must be at least 10 characters") {
		t.Fatalf("expected question bound enforced, got %s", fieldMessages(errs))
	}

	update, errs := ValidateQuestionUpdate([]byte(`{"categoryId":7}`))
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %s", fieldMessages(errs))
	}
	if update.CategoryID == nil || *update.CategoryID != 7 {
		t.Fatalf("expected categoryId 7, got %#v", update.CategoryID)
	}

	_, errs = ValidateQuestionUpdate([]byte(`{"answers":[{"answer":"a","correct":false}]}`))
	if !strings.Contains(fieldMessages(errs), "at least one answer must be marked correct") {
		t.Fatalf("expected cross-field rule on update answers, got %s", fieldMessages(errs))
	}
}
