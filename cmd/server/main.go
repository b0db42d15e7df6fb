package main

import (
	reservationshandler "roomly/internal/reservations/handler"
	reservationsrepository "roomly/internal/reservations/repository"
	reservationsservice "roomly/internal/reservations/service"
	reservationsvalidator "roomly/internal/reservations/validator"
	roomshandler "roomly/internal/rooms/handler"
	roomsrepository "roomly/internal/rooms/repository"
	roomsservice "roomly/internal/rooms/service"
	roomsvalidator "roomly/internal/rooms/validator"
	"roomly/pkg/app"
	"roomly/pkg/clock"
	"roomly/pkg/config"
	"roomly/pkg/contracts"
	"roomly/pkg/events"
)

const ServiceName = "roomly"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Roomly service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer publisher.Close()

	roomHandler, reservationHandler := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(roomHandler, reservationHandler)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, reservation events disabled")
		return events.Nop{}
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.EventsTopic)
	return producer
}

func initHandlers(cfg *config.Config, publisher events.Publisher) (contracts.Handler, contracts.Handler) {
	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	closureRepo := roomsrepository.NewMongoClosureRepository(cfg)
	reservationRepo := reservationsrepository.NewMongoReservationRepository(cfg)

	roomService := roomsservice.NewRoomService(
		roomRepo,
		closureRepo,
		reservationRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		publisher,
		cfg,
	)

	reservationService := reservationsservice.NewReservationService(
		reservationRepo,
		roomRepo,
		closureRepo,
		reservationsvalidator.NewReservationValidator(cfg.Log),
		clock.System(),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return roomshandler.NewRoomHandler(roomService, cfg.Log),
		reservationshandler.NewReservationHandler(reservationService, cfg.Log)
}
