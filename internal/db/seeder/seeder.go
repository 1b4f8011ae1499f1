package seeder

import (
	"time"

	"backend/internal/app/board"
	"backend/internal/app/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedDemoBoard(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedDemoBoard() error {
	var count int64
	s.db.Model(&board.Board{}).Count(&count)
	if count > 0 {
		s.logger.Info("Boards already exist, skipping seed")
		return nil
	}

	demo := user.User{
		ID:       uuid.NewString(),
		Username: "demo",
	}
	if err := s.db.Create(&demo).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	welcome := board.Board{
		ID:       uuid.NewString(),
		Name:     "Welcome",
		Info:     "A public board to try things out",
		IsPublic: true,
		OwnerID:  demo.ID,
		Members:  board.StringList{},
		Tickets: board.TicketList{
			{
				ID:        uuid.NewString(),
				OwnerID:   demo.ID,
				Color:     "#eb584e",
				Heading:   "Drag me around",
				Content:   "Tickets live inside their board and move with it.",
				Position:  board.Position{X: 120, Y: 80},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
	}
	if err := s.db.Create(&welcome).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded demo board", zap.String("board_id", welcome.ID))
	return nil
}
