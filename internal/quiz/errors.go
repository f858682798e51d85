package quiz

import "github.com/rotisserie/eris"

// ErrQuestionNotFound indicates the targeted question row does not exist.
var ErrQuestionNotFound = eris.New("question not found")

// ErrNoFields indicates a schema-valid update request carried nothing to
// change.
var ErrNoFields = eris.New("no fields to update")

// ErrCategoryInUse indicates a category cannot be deleted while questions
// still reference it.
var ErrCategoryInUse = eris.New("category still has questions")
