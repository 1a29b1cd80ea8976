package driverrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"driverapp/internal/adapters/out/postgres/driverrepo"
	"driverapp/internal/core/domain/model/driver"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *driverrepo.GormDriverRepository
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&driverrepo.DriverDTO{})
	suite.Require().NoError(err)

	suite.repo = driverrepo.NewGormDriverRepository(db, &mockAggregateTracker{})
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("DELETE FROM drivers").Error
	suite.Require().NoError(err)
}

func (suite *DriverRepositoryIntegrationTestSuite) addDriver(count int) *driver.Driver {
	d, err := driver.RestoreDriver(kernel.NewUUID(), "Yassine", "+212600000001", driver.Offline, count)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), d))
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	saved := suite.addDriver(7)

	loaded, err := suite.repo.Get(ctx, saved.ID())
	suite.Require().NoError(err)

	suite.Equal(saved.ID(), loaded.ID())
	suite.Equal("Yassine", loaded.Name())
	suite.Equal(driver.Offline, loaded.Presence())
	suite.Equal(7, loaded.DeliveryCount())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetByPhone() {
	saved := suite.addDriver(0)

	loaded, err := suite.repo.GetByPhone(context.Background(), "+212600000001")
	suite.Require().NoError(err)
	suite.Equal(saved.ID(), loaded.ID())

	_, err = suite.repo.GetByPhone(context.Background(), "+212699999999")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdatePresence() {
	ctx := context.Background()
	saved := suite.addDriver(0)

	err := suite.repo.UpdatePresence(ctx, saved.ID(), driver.Available)
	suite.Require().NoError(err)

	loaded, err := suite.repo.Get(ctx, saved.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Available, loaded.Presence())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdatePresenceUnknownDriver() {
	err := suite.repo.UpdatePresence(context.Background(), kernel.NewUUID(), driver.Available)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIncrementDeliveryCount() {
	ctx := context.Background()
	saved := suite.addDriver(41)

	count, err := suite.repo.IncrementDeliveryCount(ctx, saved.ID())
	suite.Require().NoError(err)
	suite.Equal(42, count)

	loaded, err := suite.repo.Get(ctx, saved.ID())
	suite.Require().NoError(err)
	suite.Equal(42, loaded.DeliveryCount())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIncrementDeliveryCountConcurrent() {
	ctx := context.Background()
	saved := suite.addDriver(0)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.repo.IncrementDeliveryCount(ctx, saved.ID())
			suite.Require().NoError(err)
		}()
	}
	wg.Wait()

	loaded, err := suite.repo.Get(ctx, saved.ID())
	suite.Require().NoError(err)
	suite.Equal(workers, loaded.DeliveryCount())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestIncrementDeliveryCountUnknownDriver() {
	_, err := suite.repo.IncrementDeliveryCount(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
