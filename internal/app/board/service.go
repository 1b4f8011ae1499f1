package board

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/app/user"
	"backend/internal/providers/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publicListCacheKey = "boards:public"

// Service is the mutation engine: it applies a single logical mutation to
// a board aggregate and commits it with optimistic concurrency, or rejects
// without partial effect. Relation gating happens in the handler layer
// before any of the mutating calls run.
type Service interface {
	CreateBoard(ctx context.Context, owner *user.User, name, info string, isPublic bool) (*Board, error)
	ListBoards(ctx context.Context, userID string) ([]*Board, error)
	GetBoard(ctx context.Context, id string) (*Board, error)
	PopulateBoard(board *Board) (*BoardDetail, error)
	UpdateBoard(ctx context.Context, board *Board, name, info string, isPublic bool) error
	DeleteBoard(ctx context.Context, board *Board) error

	AddMember(ctx context.Context, board *Board, userID string) (*user.User, error)
	RemoveMember(ctx context.Context, board *Board, userID string) (*user.User, error)
	LookupMemberOrOwner(board *Board, userID string) (*user.User, error)

	CreateTicket(ctx context.Context, board *Board, actor string, req CreateTicketRequest) (*Ticket, error)
	UpdateTicket(ctx context.Context, board *Board, actor, ticketID string, patch TicketPatch) (*Ticket, error)
	RemoveTicket(ctx context.Context, board *Board, actor, ticketID string) (*Ticket, error)
	RemoveTickets(ctx context.Context, board *Board, actor string, ticketIDs []string) ([]Ticket, error)
}

type service struct {
	repo    Repository
	userSvc user.Service
	redisP  *redis.RedisProvider
	bus     Broadcaster
	logger  *zap.SugaredLogger
}

func NewService(repo Repository, userSvc user.Service, redisP *redis.RedisProvider, bus Broadcaster, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		userSvc: userSvc,
		redisP:  redisP,
		bus:     bus,
		logger:  logger.Sugar(),
	}
}

func (s *service) CreateBoard(ctx context.Context, owner *user.User, name, info string, isPublic bool) (*Board, error) {
	now := time.Now().UTC()
	board := &Board{
		ID:        uuid.NewString(),
		Name:      name,
		Info:      info,
		IsPublic:  isPublic,
		OwnerID:   owner.ID,
		Members:   StringList{},
		Tickets:   TicketList{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateBoard(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.invalidatePublicListCache(ctx)

	return board, nil
}

// ListBoards returns boards visible to the caller: public only for
// anonymous callers, the owner/member/public union otherwise. The
// anonymous listing is served from redis when warm.
func (s *service) ListBoards(ctx context.Context, userID string) ([]*Board, error) {
	if userID == "" {
		return s.listPublicBoards(ctx)
	}
	return s.repo.ListBoardsForUser(userID)
}

func (s *service) listPublicBoards(ctx context.Context) ([]*Board, error) {
	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, publicListCacheKey).Result()
		if err == nil {
			var boards []*Board
			if err := json.Unmarshal([]byte(cached), &boards); err == nil {
				return boards, nil
			}
		}
	}

	boards, err := s.repo.ListPublicBoards()
	if err != nil {
		return nil, err
	}

	if s.redisP != nil {
		if data, err := json.Marshal(boards); err == nil {
			s.redisP.SetWithDefaultTTL(ctx, publicListCacheKey, data, 0)
		}
	}

	return boards, nil
}

// GetBoard always reads the store directly. Aggregates are never cached:
// the version token a mutation later commits against must be authoritative.
func (s *service) GetBoard(ctx context.Context, id string) (*Board, error) {
	return s.repo.GetBoardByID(id)
}

func (s *service) PopulateBoard(board *Board) (*BoardDetail, error) {
	owner, err := s.userSvc.GetUserByID(board.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to populate board owner: %w", err)
	}

	members, err := s.userSvc.GetUsersByIDs(board.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to populate board members: %w", err)
	}

	tickets := board.Tickets
	if tickets == nil {
		tickets = TicketList{}
	}

	return &BoardDetail{
		ID:        board.ID,
		Name:      board.Name,
		Info:      board.Info,
		IsPublic:  board.IsPublic,
		Owner:     owner,
		Members:   members,
		Tickets:   tickets,
		Version:   board.Version,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}, nil
}

// UpdateBoard replaces the three mutable fields. All three are always
// supplied; board edits have no partial-update semantics.
func (s *service) UpdateBoard(ctx context.Context, board *Board, name, info string, isPublic bool) error {
	board.Name = name
	board.Info = info
	board.IsPublic = isPublic

	if err := s.repo.SaveBoard(board); err != nil {
		return err
	}

	s.invalidatePublicListCache(ctx)

	return nil
}

func (s *service) DeleteBoard(ctx context.Context, board *Board) error {
	if err := s.repo.DeleteBoard(board); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.invalidatePublicListCache(ctx)

	s.logger.Infow("Board deleted",
		"board_id", board.ID,
		"owner", board.OwnerID,
		"tickets_removed", len(board.Tickets),
	)

	return nil
}

// AddMember rejects duplicates outright so the caller can tell "already a
// member" apart from "successfully added".
func (s *service) AddMember(ctx context.Context, board *Board, userID string) (*user.User, error) {
	target, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if board.IsOwner(target.ID) || board.HasMember(target.ID) {
		return nil, ErrAlreadyMember
	}

	board.Members = append(board.Members, target.ID)

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	return target, nil
}

// RemoveMember resolves the target and pulls it from the member list.
// Removing a non-member commits an unchanged list and still reports
// success with the target.
func (s *service) RemoveMember(ctx context.Context, board *Board, userID string) (*user.User, error) {
	target, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	board.RemoveMember(target.ID)

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	return target, nil
}

// LookupMemberOrOwner returns the user only when it is the board's owner
// or one of its members. Anything else reads as absence so membership of
// arbitrary users never leaks.
func (s *service) LookupMemberOrOwner(board *Board, userID string) (*user.User, error) {
	target, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(target.ID) && !board.HasMember(target.ID) {
		return nil, user.ErrNotFound
	}

	return target, nil
}

func (s *service) invalidatePublicListCache(ctx context.Context) {
	if s.redisP != nil {
		s.redisP.Del(ctx, publicListCacheKey)
	}
}
