package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/events"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockRoomRepository struct {
	createFunc             func(ctx context.Context, room *model.Room) error
	findByTitleFunc        func(ctx context.Context, title string) (*model.Room, error)
	findAllFunc            func(ctx context.Context) ([]*model.Room, error)
	replaceScheduleFunc    func(ctx context.Context, title string, mask model.WeeklyMask) error
	deleteByIDFunc         func(ctx context.Context, id string) error
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	room.ID = "65f0000000000000000000aa"
	return nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
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
	if m.replaceScheduleFunc != nil {
		return m.replaceScheduleFunc(ctx, title, mask)
	}
	return nil
}

func (m *mockRoomRepository) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	var sc mongo.SessionContext
	return fn(sc)
}

type mockClosureRepository struct {
	replaceFunc func(ctx context.Context, mask model.WeeklyMask) error
	resetFunc   func(ctx context.Context) error
}

func (m *mockClosureRepository) Get(ctx context.Context) (*model.CommonClosure, error) {
	return &model.CommonClosure{ID: model.CommonClosureID}, nil
}

func (m *mockClosureRepository) Replace(ctx context.Context, mask model.WeeklyMask) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, mask)
	}
	return nil
}

func (m *mockClosureRepository) Reset(ctx context.Context) error {
	if m.resetFunc != nil {
		return m.resetFunc(ctx)
	}
	return nil
}

type mockReservationRepository struct {
	deleteAllForRoomFunc func(ctx context.Context, roomID string) (int64, error)
}

func (m *mockReservationRepository) InsertIfFree(ctx context.Context, res *model.Reservation) error {
	return nil
}

func (m *mockReservationRepository) FindOccupiedMask(ctx context.Context, roomID string, date time.Time) (uint32, error) {
	return 0, nil
}

func (m *mockReservationRepository) FindOccupiedMaskRange(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error) {
	return map[time.Time]uint32{}, nil
}

func (m *mockReservationRepository) FindOccupiedMaskAllRooms(ctx context.Context, date time.Time) (map[string]uint32, error) {
	return map[string]uint32{}, nil
}

func (m *mockReservationRepository) ListActiveForUser(ctx context.Context, userID string, from time.Time) ([]string, error) {
	return []string{}, nil
}

func (m *mockReservationRepository) GetByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) DeleteByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) DeleteAllForRoom(ctx context.Context, roomID string) (int64, error) {
	if m.deleteAllForRoomFunc != nil {
		return m.deleteAllForRoomFunc(ctx, roomID)
	}
	return 0, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "test",
		}),
	}
}

func newTestService(roomRepo *mockRoomRepository, closureRepo *mockClosureRepository, resRepo *mockReservationRepository) RoomService {
	cfg := newTestConfig()
	return NewRoomService(
		roomRepo,
		closureRepo,
		resRepo,
		validator.NewRoomValidator(cfg.Log),
		events.Nop{},
		cfg,
	)
}

func hoursPtr(hours ...int) *[]int { return &hours }

func TestCreateRoom(t *testing.T) {
	var created *model.Room
	roomRepo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			room.ID = "65f0000000000000000000aa"
			created = room
			return nil
		},
	}

	svc := newTestService(roomRepo, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.Create(context.Background(), &model.RoomConfig{
		Title: "  Blue Room  ",
		WeeklyHours: model.WeeklyHours{
			Monday: hoursPtr(0, 1, 2),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected create to run")
	}
	if created.Title != "Blue Room" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.WeeklyMask.Monday == nil || *created.WeeklyMask.Monday != 0b111 {
		t.Errorf("expected Monday mask %024b, got %v", 0b111, created.WeeklyMask.Monday)
	}
	if created.WeeklyMask.Tuesday != nil {
		t.Error("expected unconfigured Tuesday to stay nil")
	}
}

func TestCreateRoomEmptyTitle(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.Create(context.Background(), &model.RoomConfig{Title: "   "})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreateRoomDuplicateTitle(t *testing.T) {
	roomRepo := &mockRoomRepository{
		createFunc: func(ctx context.Context, room *model.Room) error {
			return roomserrors.ErrTitleOccupied
		},
	}

	svc := newTestService(roomRepo, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.Create(context.Background(), &model.RoomConfig{Title: "Blue Room"})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestConfigureScheduleUnknownRoom(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.ConfigureSchedule(context.Background(), "No Such Room", &model.WeeklyHours{})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestConfigureScheduleReplacesMask(t *testing.T) {
	var replaced *model.WeeklyMask
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return &model.Room{ID: "65f0000000000000000000aa", Title: title}, nil
		},
		replaceScheduleFunc: func(ctx context.Context, title string, mask model.WeeklyMask) error {
			replaced = &mask
			return nil
		},
	}

	svc := newTestService(roomRepo, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.ConfigureSchedule(context.Background(), "Blue Room", &model.WeeklyHours{
		Friday: hoursPtr(20, 21, 22, 23),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced == nil {
		t.Fatal("expected replace to run")
	}
	if replaced.Friday == nil || *replaced.Friday != 0b1111<<20 {
		t.Errorf("expected Friday mask %024b, got %v", 0b1111<<20, replaced.Friday)
	}
}

func TestDeleteRoomCascades(t *testing.T) {
	var cascadedRoomID, deletedRoomID string
	roomRepo := &mockRoomRepository{
		findByTitleFunc: func(ctx context.Context, title string) (*model.Room, error) {
			return &model.Room{ID: "65f0000000000000000000aa", Title: title}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deletedRoomID = id
			return nil
		},
	}
	resRepo := &mockReservationRepository{
		deleteAllForRoomFunc: func(ctx context.Context, roomID string) (int64, error) {
			cascadedRoomID = roomID
			return 3, nil
		},
	}

	svc := newTestService(roomRepo, &mockClosureRepository{}, resRepo)

	if err := svc.Delete(context.Background(), "Blue Room"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cascadedRoomID != "65f0000000000000000000aa" {
		t.Errorf("expected reservation cascade for the room, got %q", cascadedRoomID)
	}
	if deletedRoomID != "65f0000000000000000000aa" {
		t.Errorf("expected room delete, got %q", deletedRoomID)
	}
}

func TestDeleteRoomUnknown(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockClosureRepository{}, &mockReservationRepository{})

	err := svc.Delete(context.Background(), "No Such Room")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestListTitles(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Room, error) {
			return []*model.Room{
				{ID: "1", Title: "Blue Room"},
				{ID: "2", Title: "Red Room"},
			}, nil
		},
	}

	svc := newTestService(roomRepo, &mockClosureRepository{}, &mockReservationRepository{})

	titles, err := svc.ListTitles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 2 || titles[0] != "Blue Room" || titles[1] != "Red Room" {
		t.Errorf("expected [Blue Room, Red Room], got %v", titles)
	}
}

func TestSetCommonClosure(t *testing.T) {
	var replaced *model.WeeklyMask
	closureRepo := &mockClosureRepository{
		replaceFunc: func(ctx context.Context, mask model.WeeklyMask) error {
			replaced = &mask
			return nil
		},
	}

	svc := newTestService(&mockRoomRepository{}, closureRepo, &mockReservationRepository{})

	err := svc.SetCommonClosure(context.Background(), &model.WeeklyHours{
		Sunday: hoursPtr(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced == nil || replaced.Sunday == nil || *replaced.Sunday != (uint32(1)<<24)-1 {
		t.Errorf("expected Sunday fully closed, got %v", replaced)
	}
}

func TestResetCommonClosure(t *testing.T) {
	reset := false
	closureRepo := &mockClosureRepository{
		resetFunc: func(ctx context.Context) error {
			reset = true
			return nil
		},
	}

	svc := newTestService(&mockRoomRepository{}, closureRepo, &mockReservationRepository{})

	if err := svc.ResetCommonClosure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reset {
		t.Error("expected reset to run")
	}
}
