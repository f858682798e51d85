package quiz

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for quiz categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, title string) (*Category, bool, error)
	Update(ctx context.Context, slug, title string) (*Category, error)
	Delete(ctx context.Context, slug string) (bool, error)
}

// GormCategoryRepository persists categories using a Gorm database connection.
type GormCategoryRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewCategoryRepository constructs a Gorm-backed category repository.
func NewCategoryRepository(db *gorm.DB, logger *logrus.Logger) (*GormCategoryRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormCategoryRepository{db: db, logger: logger}, nil
}

var _ CategoryRepository = (*GormCategoryRepository)(nil)

// List returns every category. Pagination parameters accepted at the HTTP
// boundary are deliberately not applied here.
func (r *GormCategoryRepository) List(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0)

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		r.logError(nil, err, "listing categories")
		return nil, eris.Wrap(err, "listing categories")
	}

	return categories, nil
}

// GetBySlug returns the category for the provided slug or nil when not found.
func (r *GormCategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("slug is required")
	}

	var category Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching category by slug")
		return nil, eris.Wrapf(err, "fetching category by slug: %s", trimmed)
	}

	return &category, nil
}

// Create sanitizes the title, derives its slug, and inserts a new row. A
// title whose slug is already taken returns the existing row with a false
// created flag: repeated creates of equivalent titles are idempotent, not
// conflicts.
func (r *GormCategoryRepository) Create(ctx context.Context, title string) (*Category, bool, error) {
	cleaned := Sanitize(title)
	slug := DeriveSlug(cleaned)
	if slug == "" {
		return nil, false, eris.Errorf("title derives an empty slug: %q", title)
	}

	existing, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	category := &Category{Title: cleaned, Slug: slug}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		// A concurrent create of the same slug won the race between our
		// lookup and insert. The unique index reports it; return the winner.
		if eris.Is(err, gorm.ErrDuplicatedKey) {
			winner, fetchErr := r.GetBySlug(ctx, slug)
			if fetchErr != nil {
				return nil, false, fetchErr
			}
			if winner != nil {
				return winner, false, nil
			}
		}
		r.logError(logrus.Fields{"slug": slug}, err, "creating category")
		return nil, false, eris.Wrapf(err, "creating category: %s", slug)
	}

	return category, true, nil
}

// Update rewrites the title and re-derived slug of the category matching the
// given slug. Returns nil without error when no row matches.
func (r *GormCategoryRepository) Update(ctx context.Context, slug, title string) (*Category, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("slug is required")
	}

	cleaned := Sanitize(title)
	newSlug := DeriveSlug(cleaned)
	if newSlug == "" {
		return nil, eris.Errorf("title derives an empty slug: %q", title)
	}

	var category Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching category for update")
		return nil, eris.Wrapf(err, "fetching category for update: %s", trimmed)
	}

	category.Title = cleaned
	category.Slug = newSlug
	if err := r.db.WithContext(ctx).Save(&category).Error; err != nil {
		r.logError(logrus.Fields{"slug": trimmed, "new_slug": newSlug}, err, "updating category")
		return nil, eris.Wrapf(err, "updating category: %s", trimmed)
	}

	return &category, nil
}

// Delete removes the category matching the slug, reporting false when no row
// matched. Categories still referenced by questions are not deletable;
// orphaned categoryId values would be observable through the question
// listing, so the conflict is surfaced instead.
func (r *GormCategoryRepository) Delete(ctx context.Context, slug string) (bool, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return false, eris.New("slug is required")
	}

	var category Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		r.logError(logrus.Fields{"slug": trimmed}, err, "fetching category for delete")
		return false, eris.Wrapf(err, "fetching category for delete: %s", trimmed)
	}

	var references int64
	if err := r.db.WithContext(ctx).Model(&Question{}).Where("category_id = ?", category.ID).Count(&references).Error; err != nil {
		r.logError(logrus.Fields{"slug": trimmed}, err, "counting category references")
		return false, eris.Wrapf(err, "counting category references: %s", trimmed)
	}
	if references > 0 {
		return false, eris.Wrapf(ErrCategoryInUse, "deleting category: %s", trimmed)
	}

	result := r.db.WithContext(ctx).Delete(&Category{}, category.ID)
	if result.Error != nil {
		r.logError(logrus.Fields{"slug": trimmed}, result.Error, "deleting category")
		return false, eris.Wrapf(result.Error, "deleting category: %s", trimmed)
	}

	return result.RowsAffected > 0, nil
}

func (r *GormCategoryRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
