package quiz

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// QuestionRepository defines persistence operations for questions and their
// owned answers.
type QuestionRepository interface {
	List(ctx context.Context) ([]Question, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]Question, error)
	Create(ctx context.Context, input QuestionInput) (*Question, bool, error)
	Update(ctx context.Context, id uint, input QuestionUpdate) (*Question, error)
	Delete(ctx context.Context, id uint) error
}

// GormQuestionRepository persists questions using a Gorm database connection.
type GormQuestionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewQuestionRepository constructs a Gorm-backed question repository.
func NewQuestionRepository(db *gorm.DB, logger *logrus.Logger) (*GormQuestionRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormQuestionRepository{db: db, logger: logger}, nil
}

var _ QuestionRepository = (*GormQuestionRepository)(nil)

// List returns every question with its answers.
func (r *GormQuestionRepository) List(ctx context.Context) ([]Question, error) {
	questions := make([]Question, 0)

	if err := r.db.WithContext(ctx).Preload("Answers").Order("id ASC").Find(&questions).Error; err != nil {
		r.logError(nil, err, "listing questions")
		return nil, eris.Wrap(err, "listing questions")
	}

	return questions, nil
}

// ListByCategory returns the questions referencing the given category, with
// answers. A category without questions yields an empty slice, not an error.
func (r *GormQuestionRepository) ListByCategory(ctx context.Context, categoryID uint) ([]Question, error) {
	questions := make([]Question, 0)

	err := r.db.WithContext(ctx).
		Preload("Answers").
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		r.logError(logrus.Fields{"category_id": categoryID}, err, "listing questions by category")
		return nil, eris.Wrapf(err, "listing questions for category: %d", categoryID)
	}

	return questions, nil
}

// Create sanitizes the question and answer texts and inserts them as one
// atomic unit. A question is never visible without its answers.
func (r *GormQuestionRepository) Create(ctx context.Context, input QuestionInput) (*Question, bool, error) {
	question := &Question{
		CategoryID: input.CategoryID,
		Question:   Sanitize(input.Question),
		Answers:    sanitizeAnswers(input.Answers),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(question).Error
	})
	if err != nil {
		r.logError(logrus.Fields{"category_id": input.CategoryID}, err, "creating question")
		return nil, false, eris.Wrap(err, "creating question")
	}

	return question, true, nil
}

// Update applies the present fields of a partial update. When answers are
// included the stored set is replaced wholesale inside the same transaction;
// the replacement passed the same cross-field validation as create, so the
// at-least-one-correct invariant holds at every commit point.
func (r *GormQuestionRepository) Update(ctx context.Context, id uint, input QuestionUpdate) (*Question, error) {
	if input.Question == nil && input.CategoryID == nil && input.Answers == nil {
		return nil, eris.Wrapf(ErrNoFields, "updating question: %d", id)
	}

	var question Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&question, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrQuestionNotFound, "updating question: %d", id)
			}
			return eris.Wrapf(err, "fetching question for update: %d", id)
		}

		if input.Question != nil {
			question.Question = Sanitize(*input.Question)
		}
		if input.CategoryID != nil {
			question.CategoryID = *input.CategoryID
		}
		if err := tx.Omit("Answers", "Category").Save(&question).Error; err != nil {
			return eris.Wrapf(err, "updating question: %d", id)
		}

		if input.Answers != nil {
			if err := tx.Where("question_id = ?", question.ID).Delete(&Answer{}).Error; err != nil {
				return eris.Wrapf(err, "clearing answers for question: %d", id)
			}
			question.Answers = sanitizeAnswers(input.Answers)
			for index := range question.Answers {
				question.Answers[index].QuestionID = question.ID
			}
			if err := tx.Create(&question.Answers).Error; err != nil {
				return eris.Wrapf(err, "recreating answers for question: %d", id)
			}
			return nil
		}

		if err := tx.Where("question_id = ?", question.ID).Order("id ASC").Find(&question.Answers).Error; err != nil {
			return eris.Wrapf(err, "loading answers for question: %d", id)
		}
		return nil
	})
	if err != nil {
		if !eris.Is(err, ErrQuestionNotFound) {
			r.logError(logrus.Fields{"id": id}, err, "updating question")
		}
		return nil, err
	}

	return &question, nil
}

// Delete removes the question and its answers together. The answers are
// deleted explicitly so the cascade does not depend on connection pragmas.
func (r *GormQuestionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question Question
		if err := tx.First(&question, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrQuestionNotFound, "deleting question: %d", id)
			}
			return eris.Wrapf(err, "fetching question for delete: %d", id)
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&Answer{}).Error; err != nil {
			return eris.Wrapf(err, "deleting answers for question: %d", id)
		}

		if err := tx.Delete(&Question{}, question.ID).Error; err != nil {
			return eris.Wrapf(err, "deleting question: %d", id)
		}

		return nil
	})
	if err != nil {
		if !eris.Is(err, ErrQuestionNotFound) {
			r.logError(logrus.Fields{"id": id}, err, "deleting question")
		}
		return err
	}

	return nil
}

func sanitizeAnswers(inputs []AnswerInput) []Answer {
	answers := make([]Answer, 0, len(inputs))
	for _, input := range inputs {
		answers = append(answers, Answer{Answer: Sanitize(input.Answer), Correct: input.Correct})
	}
	return answers
}

func (r *GormQuestionRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
