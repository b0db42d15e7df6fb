package service

import (
	"context"
	"sync"
	"testing"
	"time"

	reservationserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/validator"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/pkg/bitmask"
	"roomly/pkg/clock"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/events"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockReservationRepository struct {
	insertIfFreeFunc             func(ctx context.Context, res *model.Reservation) error
	findOccupiedMaskFunc         func(ctx context.Context, roomID string, date time.Time) (uint32, error)
	findOccupiedMaskRangeFunc    func(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error)
	findOccupiedMaskAllRoomsFunc func(ctx context.Context, date time.Time) (map[string]uint32, error)
	listActiveForUserFunc        func(ctx context.Context, userID string, from time.Time) ([]string, error)
	getByIDForUserFunc           func(ctx context.Context, userID, id string) (*model.Reservation, error)
	deleteByIDForUserFunc        func(ctx context.Context, userID, id string) (*model.Reservation, error)
	deleteAllForRoomFunc         func(ctx context.Context, roomID string) (int64, error)
}

func (m *mockReservationRepository) InsertIfFree(ctx context.Context, res *model.Reservation) error {
	if m.insertIfFreeFunc != nil {
		return m.insertIfFreeFunc(ctx, res)
	}
	res.ID = "65f000000000000000000001"
	return nil
}

func (m *mockReservationRepository) FindOccupiedMask(ctx context.Context, roomID string, date time.Time) (uint32, error) {
	if m.findOccupiedMaskFunc != nil {
		return m.findOccupiedMaskFunc(ctx, roomID, date)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindOccupiedMaskRange(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error) {
	if m.findOccupiedMaskRangeFunc != nil {
		return m.findOccupiedMaskRangeFunc(ctx, roomID, from, until)
	}
	return map[time.Time]uint32{}, nil
}

func (m *mockReservationRepository) FindOccupiedMaskAllRooms(ctx context.Context, date time.Time) (map[string]uint32, error) {
	if m.findOccupiedMaskAllRoomsFunc != nil {
		return m.findOccupiedMaskAllRoomsFunc(ctx, date)
	}
	return map[string]uint32{}, nil
}

func (m *mockReservationRepository) ListActiveForUser(ctx context.Context, userID string, from time.Time) ([]string, error) {
	if m.listActiveForUserFunc != nil {
		return m.listActiveForUserFunc(ctx, userID, from)
	}
	return []string{}, nil
}

func (m *mockReservationRepository) GetByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	if m.getByIDForUserFunc != nil {
		return m.getByIDForUserFunc(ctx, userID, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) DeleteByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	if m.deleteByIDForUserFunc != nil {
		return m.deleteByIDForUserFunc(ctx, userID, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) DeleteAllForRoom(ctx context.Context, roomID string) (int64, error) {
	if m.deleteAllForRoomFunc != nil {
		return m.deleteAllForRoomFunc(ctx, roomID)
	}
	return 0, nil
}

type mockRoomRepository struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.Room, error)
	findByTitleFunc func(ctx context.Context, title string) (*model.Room, error)
	findAllFunc     func(ctx context.Context) ([]*model.Room, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error { return nil }

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByTitle(ctx context.Context, title string) (*model.Room, error) {
	if m.findByTitleFunc != nil {
		return m.findByTitleFunc(ctx, title)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) ReplaceSchedule(ctx context.Context, title string, mask model.WeeklyMask) error {
	return nil
}

func (m *mockRoomRepository) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockClosureRepository struct {
	getFunc func(ctx context.Context) (*model.CommonClosure, error)
}

func (m *mockClosureRepository) Get(ctx context.Context) (*model.CommonClosure, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return &model.CommonClosure{ID: model.CommonClosureID}, nil
}

func (m *mockClosureRepository) Replace(ctx context.Context, mask model.WeeklyMask) error { return nil }

func (m *mockClosureRepository) Reset(ctx context.Context) error { return nil }

func uintPtr(v uint32) *uint32 { return &v }

func mustMask(t *testing.T, start, end int) uint32 {
	t.Helper()
	mask, err := bitmask.RangeToMask(start, end)
	if err != nil {
		t.Fatalf("bad fixture range [%d, %d]: %v", start, end, err)
	}
	return mask
}

func newTestConfig() *config.Config {
	return &config.Config{
		HorizonDays: 30,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "test",
		}),
	}
}

// Monday 2026-03-02 10:30 UTC.
var testNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func newTestService(resRepo *mockReservationRepository, roomRepo *mockRoomRepository, closureRepo *mockClosureRepository, cfg *config.Config) ReservationService {
	if cfg == nil {
		cfg = newTestConfig()
	}
	return NewReservationService(
		resRepo,
		roomRepo,
		closureRepo,
		validator.NewReservationValidator(cfg.Log),
		clock.NewFixed(testNow),
		events.Nop{},
		cfg,
	)
}

func fixedRoom(closed WeeklySpec) *model.Room {
	room := &model.Room{
		ID:    "65f0000000000000000000aa",
		Title: "Blue Room",
	}
	if closed.Monday != nil {
		room.WeeklyMask.Monday = closed.Monday
	}
	if closed.Tuesday != nil {
		room.WeeklyMask.Tuesday = closed.Tuesday
	}
	return room
}

// WeeklySpec keeps fixtures short; only the days the tests touch.
type WeeklySpec struct {
	Monday  *uint32
	Tuesday *uint32
}

func assertHours(t *testing.T, got []int, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected hours %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected hours %v, got %v", want, got)
		}
	}
}

func TestRoomAvailabilityCombinesMasks(t *testing.T) {
	// Room closed Monday 0-7, common closure 22-23, hours 12-13 reserved.
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{Monday: uintPtr(mustMask(t, 0, 7))}), nil
		},
	}
	closureRepo := &mockClosureRepository{
		getFunc: func(ctx context.Context) (*model.CommonClosure, error) {
			return &model.CommonClosure{
				ID:         model.CommonClosureID,
				WeeklyMask: model.WeeklyMask{Monday: uintPtr(mustMask(t, 22, 23))},
			}, nil
		},
	}
	nextMonday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	resRepo := &mockReservationRepository{
		findOccupiedMaskRangeFunc: func(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error) {
			return map[time.Time]uint32{nextMonday: mustMask(t, 12, 13)}, nil
		},
	}

	svc := newTestService(resRepo, roomRepo, closureRepo, nil)

	got, err := svc.RoomAvailability(context.Background(), "Blue Room", &nextMonday, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RoomTitle != "Blue Room" {
		t.Errorf("expected room title Blue Room, got %s", got.RoomTitle)
	}
	if len(got.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got.Days))
	}
	if got.Days[0].Date != "2026-03-09" {
		t.Errorf("expected date 2026-03-09, got %s", got.Days[0].Date)
	}
	assertHours(t, got.Days[0].FreeHours, 8, 9, 10, 11, 14, 15, 16, 17, 18, 19, 20, 21)
}

func TestRoomAvailabilityElapsedHoursToday(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	// At 10:30, hours up to and including 10 are gone.
	got, err := svc.RoomAvailability(context.Background(), "Blue Room", nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertHours(t, got.Days[0].FreeHours, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23)
}

func TestRoomAvailabilityPastStartDateClampsToToday(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	lastWeek := testNow.AddDate(0, 0, -7)
	got, err := svc.RoomAvailability(context.Background(), "Blue Room", &lastWeek, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Days[0].Date != "2026-03-02" {
		t.Errorf("expected start clamped to today, got %s", got.Days[0].Date)
	}
}

func TestRoomAvailabilityBeyondHorizon(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	farOut := testNow.AddDate(0, 0, 40)
	got, err := svc.RoomAvailability(context.Background(), "Blue Room", &farOut, 2)
	if err != nil {
		t.Fatalf("days beyond the horizon must not error: %v", err)
	}
	if len(got.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got.Days))
	}
	for _, day := range got.Days {
		if len(day.FreeHours) != 0 {
			t.Errorf("day %s beyond horizon must have no free hours, got %v", day.Date, day.FreeHours)
		}
	}
}

func TestRoomAvailabilityUnknownRoom(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	_, err := svc.RoomAvailability(context.Background(), "No Such Room", nil, 1)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestAllRoomsAvailabilityOmitsFullRooms(t *testing.T) {
	open := fixedRoom(WeeklySpec{})
	fullyBooked := &model.Room{ID: "65f0000000000000000000bb", Title: "Busy Room"}

	roomRepo := &mockRoomRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			return []*model.Room{open, fullyBooked}, nil
		},
	}
	resRepo := &mockReservationRepository{
		findOccupiedMaskAllRoomsFunc: func(ctx context.Context, date time.Time) (map[string]uint32, error) {
			return map[string]uint32{fullyBooked.ID: bitmask.FullDay}, nil
		},
	}

	svc := newTestService(resRepo, roomRepo, &mockClosureRepository{}, nil)

	nextMonday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	got, err := svc.AllRoomsAvailability(context.Background(), nextMonday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(got.Rooms))
	}
	if got.Rooms[0].RoomTitle != "Blue Room" {
		t.Errorf("expected Blue Room, got %s", got.Rooms[0].RoomTitle)
	}
	assertHours(t, got.Rooms[0].FreeHours, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23)
}

func TestReserveSuccess(t *testing.T) {
	var inserted *model.Reservation
	resRepo := &mockReservationRepository{
		insertIfFreeFunc: func(ctx context.Context, res *model.Reservation) error {
			res.ID = "65f000000000000000000001"
			inserted = res
			return nil
		},
	}
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(resRepo, roomRepo, &mockClosureRepository{}, nil)

	id, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 14,
		EndHour:   16,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "65f000000000000000000001" {
		t.Errorf("expected stored id, got %s", id)
	}
	if inserted == nil {
		t.Fatal("expected insert to run")
	}
	if inserted.Mask != mustMask(t, 14, 16) {
		t.Errorf("expected mask %024b, got %024b", mustMask(t, 14, 16), inserted.Mask)
	}
	assertHours(t, inserted.Hours, 14, 15, 16)
	if inserted.UserID != "alice" {
		t.Errorf("expected owner alice, got %s", inserted.UserID)
	}
	if !inserted.Date.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected UTC day key, got %v", inserted.Date)
	}
}

func TestReserveStoreConflict(t *testing.T) {
	resRepo := &mockReservationRepository{
		insertIfFreeFunc: func(ctx context.Context, res *model.Reservation) error {
			return reservationserrors.ErrConflict
		},
	}
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(resRepo, roomRepo, &mockClosureRepository{}, nil)

	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 14,
		EndHour:   15,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestReserveClosedHours(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{Monday: uintPtr(mustMask(t, 0, 7))}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	// 2026-03-09 is a Monday; hour 7 is structurally closed.
	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 7,
		EndHour:   9,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestReserveCommonClosure(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}
	closureRepo := &mockClosureRepository{
		getFunc: func(ctx context.Context) (*model.CommonClosure, error) {
			return &model.CommonClosure{
				ID:         model.CommonClosureID,
				WeeklyMask: model.WeeklyMask{Monday: uintPtr(mustMask(t, 12, 13))},
			}, nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, closureRepo, nil)

	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 13,
		EndHour:   14,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestReserveElapsedHours(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	// It is 10:30 on 2026-03-02; hour 10 has already begun.
	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-02",
		StartHour: 10,
		EndHour:   11,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestReserveBeyondHorizon(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-05-01",
		StartHour: 10,
		EndHour:   11,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestReserveInvertedRange(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, nil)

	_, err := svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 16,
		EndHour:   14,
	})
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation && appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected a client error code, got %s", appErr.Code)
	}
}

func TestReserveAnonymousRejected(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	_, err := svc.Reserve(context.Background(), "", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 14,
		EndHour:   15,
	})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestReserveAnonymousAllowed(t *testing.T) {
	cfg := newTestConfig()
	cfg.AllowAnonymous = true

	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(&mockReservationRepository{}, roomRepo, &mockClosureRepository{}, cfg)

	id, err := svc.Reserve(context.Background(), "", &model.ReservationRequest{
		RoomTitle: "Blue Room",
		Date:      "2026-03-09",
		StartHour: 14,
		EndHour:   15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Error("expected a reservation id")
	}
}

// TestReserveConcurrent drives overlapping and disjoint requests through an
// in-memory store that mimics the unique hour-slot index. Exactly the
// committed reservations must be pairwise disjoint, and every disjoint
// request must have succeeded.
func TestReserveConcurrent(t *testing.T) {
	var mu sync.Mutex
	committed := make(map[time.Time]uint32)

	resRepo := &mockReservationRepository{
		insertIfFreeFunc: func(ctx context.Context, res *model.Reservation) error {
			mu.Lock()
			defer mu.Unlock()
			if committed[res.Date]&res.Mask != 0 {
				return reservationserrors.ErrConflict
			}
			committed[res.Date] |= res.Mask
			res.ID = "65f000000000000000000001"
			return nil
		},
	}
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(resRepo, roomRepo, &mockClosureRepository{}, nil)

	requests := []struct{ start, end int }{
		{12, 14}, {14, 15}, {13, 17}, {15, 16}, {18, 20}, {19, 21}, {0, 3},
	}

	var wg sync.WaitGroup
	results := make([]error, len(requests))
	for i, req := range requests {
		wg.Add(1)
		go func(i, start, end int) {
			defer wg.Done()
			_, results[i] = svc.Reserve(context.Background(), "alice", &model.ReservationRequest{
				RoomTitle: "Blue Room",
				Date:      "2026-03-09",
				StartHour: start,
				EndHour:   end,
			})
		}(i, req.start, req.end)
	}
	wg.Wait()

	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	var successMask uint32
	successes := 0
	for i, err := range results {
		if err == nil {
			successes++
			mask := mustMask(t, requests[i].start, requests[i].end)
			if successMask&mask != 0 {
				t.Fatalf("request %d overlaps an earlier success", i)
			}
			successMask |= mask
			continue
		}
		if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
			t.Fatalf("request %d: expected conflict, got %v", i, err)
		}
	}

	if successMask != committed[day] {
		t.Errorf("committed mask %024b does not match successes %024b", committed[day], successMask)
	}
	// {0,3} never overlaps anything, so at least it plus one of the
	// contested ranges must have landed.
	if successes < 2 {
		t.Errorf("expected at least 2 successes, got %d", successes)
	}
}

func TestListForUserAnonymous(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	ids, err := svc.ListForUser(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("expected empty non-nil list, got %v", ids)
	}
}

func TestGetForUserJoinsRoomTitle(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	resRepo := &mockReservationRepository{
		getByIDForUserFunc: func(ctx context.Context, userID, id string) (*model.Reservation, error) {
			return &model.Reservation{
				ID:     id,
				RoomID: "65f0000000000000000000aa",
				UserID: userID,
				Date:   day,
				Mask:   mustMask(t, 14, 16),
				Hours:  []int{14, 15, 16},
			}, nil
		},
	}
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return fixedRoom(WeeklySpec{}), nil
		},
	}

	svc := newTestService(resRepo, roomRepo, &mockClosureRepository{}, nil)

	params, err := svc.GetForUser(context.Background(), "alice", "65f000000000000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.RoomTitle != "Blue Room" {
		t.Errorf("expected Blue Room, got %s", params.RoomTitle)
	}
	if params.Date != "2026-03-09" {
		t.Errorf("expected 2026-03-09, got %s", params.Date)
	}
	if params.StartHour != 14 || params.EndHour != 16 {
		t.Errorf("expected span [14, 16], got [%d, %d]", params.StartHour, params.EndHour)
	}
}

func TestGetForUserHidesForeignReservation(t *testing.T) {
	// The repository filters on owner, so a foreign id surfaces as missing.
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	_, err := svc.GetForUser(context.Background(), "mallory", "65f000000000000000000001")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestCancelNotOwned(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	err := svc.Cancel(context.Background(), "mallory", "65f000000000000000000001")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestCancelAnonymous(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	err := svc.Cancel(context.Background(), "", "65f000000000000000000001")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestCancelSuccess(t *testing.T) {
	deleted := false
	resRepo := &mockReservationRepository{
		deleteByIDForUserFunc: func(ctx context.Context, userID, id string) (*model.Reservation, error) {
			deleted = true
			return &model.Reservation{
				ID:     id,
				RoomID: "65f0000000000000000000aa",
				UserID: userID,
				Date:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
				Mask:   mustMask(t, 14, 15),
				Hours:  []int{14, 15},
			}, nil
		},
	}

	svc := newTestService(resRepo, &mockRoomRepository{}, &mockClosureRepository{}, nil)

	if err := svc.Cancel(context.Background(), "alice", "65f000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected delete to run")
	}
}
