package cmd

import (
	"context"
	"encoding/json"
	"log/slog"

	"driverapp/internal/adapters/in/ws"
	"driverapp/internal/adapters/out/postgres"
	"driverapp/internal/adapters/out/postgres/feed"
	"driverapp/internal/adapters/out/postgres/storedirectory"
	"driverapp/internal/core/application/scanning"
	"driverapp/internal/core/application/usecases/commands"
	"driverapp/internal/core/application/usecases/queries"
	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/order"
	"driverapp/internal/core/domain/services"
	"driverapp/internal/jobs"
	"driverapp/internal/realtime"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	detector   *services.MultiStoreDetector
	orderFeed  *feed.PqOrderFeed
	hub        *ws.Hub
	reconciler *realtime.Reconciler
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	directory := storedirectory.NewGormStoreDirectory(gormDB)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		detector:   services.NewMultiStoreDetector(directory, logger),
		orderFeed:  feed.NewPqOrderFeed(config.DSN(), logger),
		hub:        ws.NewHub(),
		reconciler: realtime.NewReconciler(),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateAcceptMissionCommandHandler() commands.AcceptMissionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptMissionCommandHandler(f)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateSetPresenceCommandHandler() commands.SetPresenceCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPresenceCommandHandler(f)
}

func (c *CompositionRoot) CreateGetMissionQueryHandler() queries.GetMissionQueryHandler {
	return queries.NewGetMissionQueryHandler(c.gormDB, c.detector)
}

func (c *CompositionRoot) CreateGetActiveMissionsQueryHandler() queries.GetActiveMissionsQueryHandler {
	return queries.NewGetActiveMissionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateSetPresenceCommandHandler(), c.logger)
}

// OrderFeed exposes the LISTEN/NOTIFY feed so main can start and stop it.
func (c *CompositionRoot) OrderFeed() *feed.PqOrderFeed {
	return c.orderFeed
}

// Hub exposes the WebSocket hub for route registration.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Reconciler exposes the shared echo ledger: the HTTP write path marks it,
// the push path consults it.
func (c *CompositionRoot) Reconciler() *realtime.Reconciler {
	return c.reconciler
}

// CreatePusher bridges the order feed to connected driver devices.
func (c *CompositionRoot) CreatePusher() *ws.Pusher {
	repo := c.uowFactory.Create().OrderRepository()
	return ws.NewPusher(c.orderFeed, repo, c.hub, c.reconciler, c.logger)
}

// CreateListSync debounces whole-table change bursts into one refresh hint
// pushed to every connected device.
func (c *CompositionRoot) CreateListSync() *realtime.ListSync {
	return realtime.NewListSync(c.orderFeed, func(context.Context) {
		c.hub.BroadcastAll(ws.Event{Type: ws.EventMissionsRefresh, Payload: json.RawMessage(`{}`)})
	}, c.logger)
}

// CreateConfirmationSessionFactory binds scan sessions to the delivery
// completion command: a matching payload releases the camera and commits the
// terminal transition under the session's driver identity.
func (c *CompositionRoot) CreateConfirmationSessionFactory() scanning.SessionFactory {
	handler := c.CreateCompleteDeliveryCommandHandler()

	return func(sess driver.Session, mission *order.Order, device scanning.CaptureDevice) (*scanning.Session, error) {
		if err := sess.Validate(); err != nil {
			return nil, err
		}

		finalize := func(ctx context.Context, scanned string) error {
			cmd, err := commands.NewCompleteDeliveryCommand(mission.ID(), sess.DriverID(), scanned)
			if err != nil {
				return err
			}

			result, err := handler.Handle(ctx, cmd)
			if err != nil {
				return err
			}

			c.reconciler.MarkLocalWrite(mission.ID(), result.Status)
			return nil
		}

		return scanning.NewSession(mission, device, finalize, c.logger)
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
