// Package app собирает ядро бронирования в единый фасад.
// Диалоговый слой (обработчики чата) получает Core и работает
// с сервисами и use case напрямую, внутри процесса.
package app

import (
	"context"
	"time"

	"github.com/bmwdroch/detailing-bot/internal/domain"
	appointmentsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/appointments"
	clientsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/clients"
	servicesRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/services"
	settingsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/settings"
	transactionsRepo "github.com/bmwdroch/detailing-bot/internal/infra/storage/transactions"
	"github.com/bmwdroch/detailing-bot/internal/service/analytics"
	"github.com/bmwdroch/detailing-bot/internal/service/appointments"
	"github.com/bmwdroch/detailing-bot/internal/service/catalog"
	"github.com/bmwdroch/detailing-bot/internal/service/clients"
	"github.com/bmwdroch/detailing-bot/internal/service/finance"
	"github.com/bmwdroch/detailing-bot/internal/service/reminder"
	"github.com/bmwdroch/detailing-bot/internal/service/settings"
	availableSlotsUC "github.com/bmwdroch/detailing-bot/internal/usecase/available_slots"
	createAppointmentUC "github.com/bmwdroch/detailing-bot/internal/usecase/create_appointment"
	rescheduleAppointmentUC "github.com/bmwdroch/detailing-bot/internal/usecase/reschedule_appointment"
	"github.com/bmwdroch/detailing-bot/pkg/dbmetrics"
	"github.com/bmwdroch/detailing-bot/pkg/logger"
	"github.com/bmwdroch/detailing-bot/pkg/sqlbuilder"
)

// TxManager объединяет транзакционные контракты, которые требуются ядру
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Core корневой набор сервисов и use case ядра бронирования
type Core struct {
	Clients      *clients.Service
	Catalog      *catalog.Service
	Appointments *appointments.Service
	Finance      *finance.Service
	Settings     *settings.Service
	Analytics    *analytics.Service

	CreateAppointment     *createAppointmentUC.UseCase
	RescheduleAppointment *rescheduleAppointmentUC.UseCase
	AvailableSlots        *availableSlotsUC.UseCase

	ReminderWorker *reminder.Worker
}

// New собирает ядро поверх соединения с базой.
// Все репозитории разделяют один executor и один построитель запросов;
// notifier используется только воркером напоминаний.
func New(
	db dbmetrics.DBExecutor,
	qb sqlbuilder.Builder,
	txm TxManager,
	rules domain.ScheduleRules,
	notifier reminder.Notifier,
	reminderInterval time.Duration,
	reminderLookahead time.Duration,
	log *logger.Logger,
) *Core {
	clientRepository := clientsRepo.NewRepository(db, qb)
	serviceRepository := servicesRepo.NewRepository(db, qb)
	appointmentRepository := appointmentsRepo.NewRepository(db, qb)
	transactionRepository := transactionsRepo.NewRepository(db, qb)
	settingRepository := settingsRepo.NewRepository(db, qb)

	return &Core{
		Clients:      clients.NewService(clientRepository, log),
		Catalog:      catalog.NewService(serviceRepository, log),
		Appointments: appointments.NewService(appointmentRepository, transactionRepository, txm, log),
		Finance:      finance.NewService(transactionRepository, appointmentRepository, txm, log),
		Settings:     settings.NewService(settingRepository, log),
		Analytics:    analytics.NewService(appointmentRepository, transactionRepository, log),

		CreateAppointment: createAppointmentUC.NewUseCase(
			appointmentRepository,
			clientRepository,
			serviceRepository,
			txm,
			rules,
			log,
		),
		RescheduleAppointment: rescheduleAppointmentUC.NewUseCase(
			appointmentRepository,
			txm,
			rules,
			log,
		),
		AvailableSlots: availableSlotsUC.NewUseCase(
			appointmentRepository,
			serviceRepository,
			rules,
			log,
		),

		ReminderWorker: reminder.NewWorker(
			appointmentRepository,
			notifier,
			reminderInterval,
			reminderLookahead,
			log,
		),
	}
}
