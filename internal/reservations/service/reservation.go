package service

import (
	"context"
	"errors"
	"time"

	reservationserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/validator"
	roomserrors "roomly/internal/rooms/errors"
	roomsrepository "roomly/internal/rooms/repository"
	"roomly/pkg/bitmask"
	"roomly/pkg/clock"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/events"
	httputil "roomly/pkg/http"
	"roomly/pkg/model"
)

const eventSource = "roomly"

type ReservationService interface {
	RoomAvailability(ctx context.Context, roomTitle string, startDate *time.Time, dayCount int) (*model.RoomRangeAvailability, error)
	AllRoomsAvailability(ctx context.Context, date time.Time) (*model.RoomsDayAvailability, error)
	Reserve(ctx context.Context, userID string, req *model.ReservationRequest) (string, error)
	ListForUser(ctx context.Context, userID string) ([]string, error)
	GetForUser(ctx context.Context, userID, id string) (*model.ReservationParams, error)
	Cancel(ctx context.Context, userID, id string) error
}

type reservationService struct {
	repo        repository.ReservationRepository
	roomRepo    roomsrepository.RoomRepository
	closureRepo roomsrepository.ClosureRepository
	validator   *validator.ReservationValidator
	clock       clock.Clock
	publisher   events.Publisher
	cfg         *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	roomRepo roomsrepository.RoomRepository,
	closureRepo roomsrepository.ClosureRepository,
	resValidator *validator.ReservationValidator,
	clk clock.Clock,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:        repo,
		roomRepo:    roomRepo,
		closureRepo: closureRepo,
		validator:   resValidator,
		clock:       clk,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// dayKey normalizes an instant to its calendar day at 00:00 UTC. All date
// arithmetic in the engine runs on day keys; mixing in local time would
// shift the weekday and apply the wrong closed mask.
func dayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// elapsedMask marks hours that cannot be booked anymore: the whole day for
// past days, hours up to and including the current one for today, nothing
// for future days.
func elapsedMask(day, today time.Time, now time.Time) uint32 {
	switch {
	case day.Before(today):
		return bitmask.FullDay
	case day.Equal(today):
		mask, _ := bitmask.RangeToMask(0, now.UTC().Hour())
		return mask
	default:
		return 0
	}
}

func (s *reservationService) horizonEnd(today time.Time) time.Time {
	return today.AddDate(0, 0, s.cfg.HorizonDays)
}

func freeMask(room *model.Room, common *model.CommonClosure, occupied, elapsed uint32, day time.Time) uint32 {
	blocked := room.WeeklyMask.ClosedMask(day.Weekday()) |
		common.WeeklyMask.ClosedMask(day.Weekday()) |
		occupied | elapsed
	return ^blocked & bitmask.FullDay
}

func (s *reservationService) RoomAvailability(ctx context.Context, roomTitle string, startDate *time.Time, dayCount int) (*model.RoomRangeAvailability, error) {
	room, err := s.findRoom(ctx, roomTitle)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	today := dayKey(now)
	horizonEnd := s.horizonEnd(today)

	start := today
	if startDate != nil && dayKey(*startDate).After(today) {
		start = dayKey(*startDate)
	}

	queryEnd := start.AddDate(0, 0, dayCount)
	if queryEnd.After(horizonEnd.AddDate(0, 0, 1)) {
		queryEnd = horizonEnd.AddDate(0, 0, 1)
	}

	var occupied map[time.Time]uint32
	if start.Before(queryEnd) {
		occupied, err = s.repo.FindOccupiedMaskRange(ctx, room.ID, start, queryEnd)
		if err != nil {
			return nil, apperrors.Internal("Failed to load occupied hours", err)
		}
	}

	common, err := s.closureRepo.Get(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load common closure", err)
	}

	result := &model.RoomRangeAvailability{
		RoomTitle: room.Title,
		Days:      make([]model.DayAvailability, 0, dayCount),
	}

	for i := 0; i < dayCount; i++ {
		day := start.AddDate(0, 0, i)
		entry := model.DayAvailability{
			Date:      day.Format(httputil.DateLayout),
			FreeHours: []int{},
		}
		// Days beyond the horizon stay in the response with no free
		// hours, they are not an error.
		if !day.After(horizonEnd) {
			free := freeMask(room, common, occupied[day], elapsedMask(day, today, now), day)
			entry.FreeHours = bitmask.MaskToHours(free)
		}
		result.Days = append(result.Days, entry)
	}

	return result, nil
}

func (s *reservationService) AllRoomsAvailability(ctx context.Context, date time.Time) (*model.RoomsDayAvailability, error) {
	now := s.clock.Now().UTC()
	today := dayKey(now)
	day := dayKey(date)

	result := &model.RoomsDayAvailability{
		Date:  day.Format(httputil.DateLayout),
		Rooms: []model.RoomDayAvailability{},
	}

	if day.After(s.horizonEnd(today)) {
		return result, nil
	}

	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list rooms", err)
	}

	occupied, err := s.repo.FindOccupiedMaskAllRooms(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to load occupied hours", err)
	}

	common, err := s.closureRepo.Get(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load common closure", err)
	}

	elapsed := elapsedMask(day, today, now)
	for _, room := range rooms {
		free := freeMask(room, common, occupied[room.ID], elapsed, day)
		if free == 0 {
			// Fully booked or closed rooms are omitted, a display
			// policy rather than an error.
			continue
		}
		result.Rooms = append(result.Rooms, model.RoomDayAvailability{
			RoomTitle: room.Title,
			FreeHours: bitmask.MaskToHours(free),
		})
	}

	return result, nil
}

func (s *reservationService) Reserve(ctx context.Context, userID string, req *model.ReservationRequest) (string, error) {
	if userID == "" && !s.cfg.AllowAnonymous {
		return "", apperrors.InvalidInput("An authenticated user is required to reserve")
	}

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return "", apperrors.Validation("Invalid reservation request", map[string]any{"error": err.Error()})
	}

	date, err := time.Parse(httputil.DateLayout, req.Date)
	if err != nil {
		return "", apperrors.InvalidInput("date must be in YYYY-MM-DD format: " + req.Date)
	}
	day := dayKey(date)

	requestedMask, err := bitmask.RangeToMask(req.StartHour, req.EndHour)
	if err != nil {
		return "", apperrors.InvalidInput("Invalid hour range")
	}

	room, err := s.findRoom(ctx, req.RoomTitle)
	if err != nil {
		return "", err
	}

	now := s.clock.Now().UTC()
	today := dayKey(now)
	if day.After(s.horizonEnd(today)) {
		return "", apperrors.Conflict("Requested date is beyond the reservation horizon")
	}
	if elapsedMask(day, today, now)&requestedMask != 0 {
		return "", apperrors.Conflict("Requested hours have already elapsed")
	}

	common, err := s.closureRepo.Get(ctx)
	if err != nil {
		return "", apperrors.Internal("Failed to load common closure", err)
	}

	blocked := room.WeeklyMask.ClosedMask(day.Weekday()) | common.WeeklyMask.ClosedMask(day.Weekday())
	if blocked&requestedMask != 0 {
		return "", apperrors.Conflict("Requested hours fall on closed hours")
	}

	reservation := &model.Reservation{
		RoomID: room.ID,
		UserID: userID,
		Date:   day,
		Mask:   requestedMask,
		Hours:  bitmask.MaskToHours(requestedMask),
	}

	// The store's unique hour-slot index is the authoritative check; a
	// conflict here is the normal "slot just taken" outcome.
	if err := s.repo.InsertIfFree(ctx, reservation); err != nil {
		if errors.Is(err, reservationserrors.ErrConflict) {
			return "", apperrors.Conflict("Requested time is already reserved")
		}
		s.cfg.Log.Error("Failed to commit reservation", "error", err)
		return "", apperrors.Internal("Failed to commit reservation", err)
	}

	s.cfg.Log.Info("Reservation committed",
		"id", reservation.ID,
		"room_id", room.ID,
		"room_title", room.Title,
		"user_id", userID,
		"date", req.Date,
		"start_hour", req.StartHour,
		"end_hour", req.EndHour,
	)

	s.publishReservationEvent(ctx, events.TypeReservationCreated, reservation, room.Title)

	return reservation.ID, nil
}

func (s *reservationService) ListForUser(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		// Anonymous reservations carry no owner key and are not listable.
		return []string{}, nil
	}

	today := dayKey(s.clock.Now())
	ids, err := s.repo.ListActiveForUser(ctx, userID, today)
	if err != nil {
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *reservationService) GetForUser(ctx context.Context, userID, id string) (*model.ReservationParams, error) {
	if userID == "" {
		return nil, apperrors.NotFound("Reservation")
	}

	res, err := s.repo.GetByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, s.translateLookupError(err)
	}

	room, err := s.roomRepo.FindByID(ctx, res.RoomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation")
		}
		return nil, apperrors.Internal("Failed to resolve reservation room", err)
	}

	start, end, ok := bitmask.HourSpan(res.Mask)
	if !ok {
		return nil, apperrors.Internal("Reservation has an empty hour mask", nil)
	}

	return &model.ReservationParams{
		RoomTitle: room.Title,
		Date:      res.Date.UTC().Format(httputil.DateLayout),
		StartHour: start,
		EndHour:   end,
	}, nil
}

func (s *reservationService) Cancel(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperrors.NotFound("Reservation")
	}

	res, err := s.repo.DeleteByIDForUser(ctx, userID, id)
	if err != nil {
		return s.translateLookupError(err)
	}

	s.cfg.Log.Info("Reservation cancelled", "id", id, "user_id", userID)

	s.publishReservationEvent(ctx, events.TypeReservationCancelled, res, "")

	return nil
}

func (s *reservationService) findRoom(ctx context.Context, title string) (*model.Room, error) {
	room, err := s.roomRepo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", title)
		}
		return nil, apperrors.Internal("Failed to resolve room", err)
	}
	return room, nil
}

// translateLookupError hides ownership: an id owned by someone else and an
// unknown id produce the same NotFound.
func (s *reservationService) translateLookupError(err error) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFound("Reservation")
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		return apperrors.Internal("Failed to look up reservation", err)
	}
}

func (s *reservationService) publishReservationEvent(ctx context.Context, eventType string, res *model.Reservation, roomTitle string) {
	event, err := events.NewEvent(eventType, eventSource, res.RoomID, events.ReservationEvent{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomTitle:     roomTitle,
		UserID:        res.UserID,
		Date:          res.Date.UTC().Format(httputil.DateLayout),
		Hours:         res.Hours,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to build reservation event", "type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish reservation event", "type", eventType, "error", err)
	}
}
