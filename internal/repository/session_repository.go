package repository

import (
	"gorm.io/gorm"

	"mathmemo-backend/internal/db"
	"mathmemo-backend/internal/model"
)

const pointBatchSize = 500

type SessionRepository interface {
	// CreateSessionBundle writes the session and all of its strokes,
	// points and events in one transaction. Either everything lands or
	// nothing does.
	CreateSessionBundle(session *model.Session) error
	// GetSessionByUUID loads the session with its strokes, points and
	// events in capture order.
	GetSessionByUUID(sessionUUID string) (*model.Session, error)
	UpdateLabel(sessionUUID string, label *int16) error
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) CreateSessionBundle(session *model.Session) error {
	strokes := session.Strokes
	events := session.Events
	session.Strokes = nil
	session.Events = nil
	defer func() {
		session.Strokes = strokes
		session.Events = events
	}()

	return db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		// Points insert after their parent stroke so the FK chain is
		// never violated mid-transaction.
		for i := range strokes {
			points := strokes[i].Points
			strokes[i].Points = nil
			if err := tx.Create(&strokes[i]).Error; err != nil {
				return err
			}
			strokes[i].Points = points
			if len(points) == 0 {
				continue
			}
			if err := tx.CreateInBatches(points, pointBatchSize).Error; err != nil {
				return err
			}
		}

		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sessionRepository) GetSessionByUUID(sessionUUID string) (*model.Session, error) {
	var session model.Session
	err := db.GetDB().
		Preload("Strokes", func(tx *gorm.DB) *gorm.DB { return tx.Order("start_ms") }).
		Preload("Strokes.Points", func(tx *gorm.DB) *gorm.DB { return tx.Order("idx") }).
		Preload("Events", func(tx *gorm.DB) *gorm.DB { return tx.Order("ts_ms") }).
		Where("session_uuid = ?", sessionUUID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateLabel(sessionUUID string, label *int16) error {
	result := db.GetDB().Model(&model.Session{}).
		Where("session_uuid = ?", sessionUUID).
		Update("label", label)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return result.Error
}
