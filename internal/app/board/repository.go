package board

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("board not found")
	ErrVersionConflict  = errors.New("board version conflict")
	ErrAlreadyMember    = errors.New("user already exists on board")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrInvalidTicketIDs = errors.New("invalid ticket ids")
)

// listColumns is everything except the tickets jsonb: listings never carry
// ticket payloads.
var listColumns = []string{
	"id", "name", "info", "is_public", "owner_id", "members",
	"version", "created_at", "updated_at",
}

type Repository interface {
	CreateBoard(board *Board) error
	GetBoardByID(id string) (*Board, error)
	ListPublicBoards() ([]*Board, error)
	ListBoardsForUser(userID string) ([]*Board, error)
	SaveBoard(board *Board) error
	DeleteBoard(board *Board) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBoard(board *Board) error {
	return r.db.Create(board).Error
}

func (r *repository) GetBoardByID(id string) (*Board, error) {
	var board Board
	err := r.db.Where("id = ?", id).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &board, nil
}

func (r *repository) ListPublicBoards() ([]*Board, error) {
	var boards []*Board
	err := r.db.
		Select(listColumns).
		Where("is_public = ?", true).
		Order("created_at ASC").
		Find(&boards).Error
	return boards, err
}

// ListBoardsForUser returns the union of owned, joined and public boards,
// no duplicates (single query, OR'd predicates).
func (r *repository) ListBoardsForUser(userID string) ([]*Board, error) {
	var boards []*Board
	member := fmt.Sprintf(`["%s"]`, userID)
	err := r.db.
		Select(listColumns).
		Where("owner_id = ? OR is_public = ? OR members @> ?::jsonb", userID, true, member).
		Order("created_at ASC").
		Find(&boards).Error
	return boards, err
}

// SaveBoard commits the whole aggregate with an optimistic version check.
// The conditional UPDATE is the single serialization point per board: of
// two concurrent writers reading the same version, exactly one matches the
// WHERE clause. The loser gets ErrVersionConflict and must re-fetch.
func (r *repository) SaveBoard(board *Board) error {
	res := r.db.Model(&Board{}).
		Where("id = ? AND version = ?", board.ID, board.Version).
		Updates(map[string]interface{}{
			"name":       board.Name,
			"info":       board.Info,
			"is_public":  board.IsPublic,
			"members":    board.Members,
			"tickets":    board.Tickets,
			"version":    board.Version + 1,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	board.Version++
	return nil
}

// DeleteBoard removes the aggregate; embedded tickets go with the row.
func (r *repository) DeleteBoard(board *Board) error {
	return r.db.Delete(&Board{}, "id = ?", board.ID).Error
}
