package quiz

import "time"

// Category groups questions under a URL-safe slug derived from its title.
// The unique index on Slug is load-bearing: concurrent creates of the same
// title race on check-then-insert, and the index turns the losing insert into
// a conflict the repository can resolve instead of a silent duplicate.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:128;not null"`
	Slug      string    `json:"slug" gorm:"size:128;uniqueIndex:idx_categories_slug;not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName defines the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Question is a multiple-choice question referencing a category. Its answers
// are owned exclusively by the question: they are written together with it
// and replaced or removed only through it. The Category association exists
// for its foreign key: CategoryID must reference an existing category row,
// enforced by the database on every insert and update.
type Question struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"categoryId" gorm:"not null;index"`
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Question   string    `json:"question" gorm:"type:text;not null"`
	Answers    []Answer  `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName defines the table name for the Question model.
func (Question) TableName() string {
	return "questions"
}

// Answer is a single choice belonging to a question.
type Answer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"-" gorm:"not null;index"`
	Answer     string `json:"answer" gorm:"size:512;not null"`
	Correct    bool   `json:"correct" gorm:"not null;default:false"`
}

// TableName defines the table name for the Answer model.
func (Answer) TableName() string {
	return "answers"
}
