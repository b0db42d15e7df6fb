package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	reservationsrepository "roomly/internal/reservations/repository"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/events"
	"roomly/pkg/model"
)

const eventSource = "roomly"

type RoomService interface {
	ListTitles(ctx context.Context) ([]string, error)
	Create(ctx context.Context, cfg *model.RoomConfig) error
	ConfigureSchedule(ctx context.Context, title string, schedule *model.WeeklyHours) error
	Delete(ctx context.Context, title string) error
	SetCommonClosure(ctx context.Context, schedule *model.WeeklyHours) error
	ResetCommonClosure(ctx context.Context) error
}

type roomService struct {
	repo            repository.RoomRepository
	closureRepo     repository.ClosureRepository
	reservationRepo reservationsrepository.ReservationRepository
	validator       *validator.RoomValidator
	publisher       events.Publisher
	cfg             *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	closureRepo repository.ClosureRepository,
	reservationRepo reservationsrepository.ReservationRepository,
	roomValidator *validator.RoomValidator,
	publisher events.Publisher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:            repo,
		closureRepo:     closureRepo,
		reservationRepo: reservationRepo,
		validator:       roomValidator,
		publisher:       publisher,
		cfg:             cfg,
	}
}

func (s *roomService) ListTitles(ctx context.Context) ([]string, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list rooms", err)
	}

	titles := make([]string, 0, len(rooms))
	for _, room := range rooms {
		titles = append(titles, room.Title)
	}
	return titles, nil
}

func (s *roomService) Create(ctx context.Context, roomCfg *model.RoomConfig) error {
	if err := s.validator.ValidateConfig(roomCfg); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Invalid room configuration", map[string]any{"error": err.Error()})
	}

	mask, err := roomCfg.WeeklyHours.ToMask()
	if err != nil {
		return apperrors.InvalidInput("Invalid closure hours: " + err.Error())
	}

	room := &model.Room{
		Title:      roomCfg.Title,
		WeeklyMask: mask,
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrTitleOccupied) {
			return apperrors.Conflict("Room title is occupied")
		}
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "title", room.Title)
	return nil
}

func (s *roomService) ConfigureSchedule(ctx context.Context, title string, schedule *model.WeeklyHours) error {
	room, err := s.findRoom(ctx, title)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateSchedule(schedule); err != nil {
		s.cfg.Log.Warn("Schedule validation failed", "room", title, "error", err)
		return apperrors.Validation("Invalid schedule", map[string]any{"error": err.Error()})
	}

	mask, err := schedule.ToMask()
	if err != nil {
		return apperrors.InvalidInput("Invalid closure hours: " + err.Error())
	}

	// Replacing the schedule never touches existing reservations; they
	// keep their slots even if the room is now closed over them.
	if err := s.repo.ReplaceSchedule(ctx, room.Title, mask); err != nil {
		return apperrors.Internal("Failed to update room schedule", err)
	}

	s.cfg.Log.Info("Room schedule updated", "id", room.ID, "title", room.Title)
	return nil
}

func (s *roomService) Delete(ctx context.Context, title string) error {
	room, err := s.findRoom(ctx, title)
	if err != nil {
		return err
	}

	// Reservations must not outlive their room, so the cascade and the
	// room removal commit together.
	var removed int64
	err = s.repo.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		var txErr error
		removed, txErr = s.reservationRepo.DeleteAllForRoom(sc, room.ID)
		if txErr != nil {
			return txErr
		}
		return s.repo.DeleteByID(sc, room.ID)
	})
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", title)
		}
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted", "id", room.ID, "title", room.Title, "reservations_removed", removed)

	event, err := events.NewEvent(events.TypeRoomDeleted, eventSource, room.ID, events.RoomDeletedEvent{
		RoomID:              room.ID,
		RoomTitle:           room.Title,
		ReservationsRemoved: removed,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to build room deleted event", "error", err)
		return nil
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish room deleted event", "error", err)
	}

	return nil
}

func (s *roomService) SetCommonClosure(ctx context.Context, schedule *model.WeeklyHours) error {
	if err := s.validator.ValidateSchedule(schedule); err != nil {
		s.cfg.Log.Warn("Common closure validation failed", "error", err)
		return apperrors.Validation("Invalid schedule", map[string]any{"error": err.Error()})
	}

	mask, err := schedule.ToMask()
	if err != nil {
		return apperrors.InvalidInput("Invalid closure hours: " + err.Error())
	}

	if err := s.closureRepo.Replace(ctx, mask); err != nil {
		return apperrors.Internal("Failed to update common closure", err)
	}

	s.cfg.Log.Info("Common closure updated")
	return nil
}

func (s *roomService) ResetCommonClosure(ctx context.Context) error {
	if err := s.closureRepo.Reset(ctx); err != nil {
		return apperrors.Internal("Failed to reset common closure", err)
	}

	s.cfg.Log.Info("Common closure reset")
	return nil
}

func (s *roomService) findRoom(ctx context.Context, title string) (*model.Room, error) {
	room, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", title)
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}
	return room, nil
}
