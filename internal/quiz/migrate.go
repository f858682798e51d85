package quiz

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the quiz schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "quiz.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying quiz schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&Category{}, &Question{}, &Answer{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("quiz schema migration failed")
		}
		return eris.Wrap(err, "auto migrating quiz schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("quiz schema migration complete")
	}

	return nil
}
