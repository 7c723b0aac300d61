//go:build integration

package rest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hazardhub/hazardhub_api/config"
	"github.com/hazardhub/hazardhub_api/internal/db"
	deps "github.com/hazardhub/hazardhub_api/internal/debs"
	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/internal/observability"
	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/values"
)

var (
	testDB        *db.DB
	testContainer testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	name := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       name,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := testContainer.Host(ctx)
	mappedPort, _ := testContainer.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), name)

	testDB, err = db.New(dsn)
	if err != nil {
		fmt.Println("db.New:", err)
		_ = testContainer.Terminate(ctx)
		os.Exit(1)
	}

	if err := testDB.EnsureSchema(ctx); err != nil {
		fmt.Println("EnsureSchema:", err)
		testDB.Close()
		_ = testContainer.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	_ = testContainer.Terminate(ctx)
	os.Exit(code)
}

func newIntegrationAPI() *API {
	return &API{
		Config: &config.Config{},
		DB:     testDB.Pool(),
		Deps: &deps.Dependencies{
			DB:      testDB,
			Metrics: observability.NewMetricsForTesting(),
			Clock:   clockwork.NewRealClock(),
		},
	}
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Pool().Exec(context.Background(), `TRUNCATE TABLE hazards, users CASCADE`)
	require.NoError(t, err)
}

func seedReporter(t *testing.T, api *API) model.User {
	t.Helper()
	reporter := model.User{
		ID:           util.GenerateUUID(),
		Name:         "Test Reporter",
		Email:        fmt.Sprintf("reporter-%s@example.com", util.GenerateUUID()),
		AuthProvider: "email",
		Role:         model.RoleUser,
	}
	require.NoError(t, api.CreateUserRepo(context.Background(), reporter))
	return reporter
}

func seedHazard(t *testing.T, api *API, reporter model.User, lat, lon float64) model.Hazard {
	t.Helper()
	created, err := api.CreateHazardRepo(context.Background(), model.Hazard{
		ID:          util.GenerateUUID(),
		Title:       "Deep pothole",
		Description: "Large pothole near the intersection",
		Type:        model.TypeRoad,
		Severity:    "high",
		Status:      model.StatusReported,
		Location: model.Location{
			Latitude:  lat,
			Longitude: lon,
			Address:   "Test Street",
		},
		Images:            []string{},
		ReportedBy:        reporter.ID,
		ResolutionDetails: "Pending resolution",
		PredictedPriority: model.PriorityLow,
	})
	require.NoError(t, err)
	return created
}

func TestGetNearbyHazardsRepoRadiusSemantics(t *testing.T) {
	truncateTables(t)
	api := newIntegrationAPI()
	reporter := seedReporter(t, api)

	centerLat, centerLon := 35.185566, 33.382275
	center := seedHazard(t, api, reporter, centerLat, centerLon)

	// 0.054 degrees of latitude is roughly 6 km.
	far := seedHazard(t, api, reporter, centerLat+0.054, centerLon)

	t.Run("center point is inside radius zero", func(t *testing.T) {
		got, err := api.GetNearbyHazardsRepo(context.Background(), model.NearbyParams{
			Latitude: centerLat, Longitude: centerLon, RadiusKM: 0,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, center.ID, got[0].ID)
	})

	t.Run("hazard 6km away is excluded at radius 5", func(t *testing.T) {
		got, err := api.GetNearbyHazardsRepo(context.Background(), model.NearbyParams{
			Latitude: centerLat, Longitude: centerLon, RadiusKM: 5,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, center.ID, got[0].ID)
	})

	t.Run("both inside radius 7", func(t *testing.T) {
		got, err := api.GetNearbyHazardsRepo(context.Background(), model.NearbyParams{
			Latitude: centerLat, Longitude: centerLon, RadiusKM: 7,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)

		ids := []string{got[0].ID.String(), got[1].ID.String()}
		assert.Contains(t, ids, center.ID.String())
		assert.Contains(t, ids, far.ID.String())
	})
}

func TestUpdateHazardStatusHelperLifecycle(t *testing.T) {
	truncateTables(t)
	api := newIntegrationAPI()
	reporter := seedReporter(t, api)
	hazard := seedHazard(t, api, reporter, 35.18, 33.38)

	ctx := context.Background()

	inProgress, status, _, err := api.UpdateHazardStatusHelper(ctx, hazard.ID, model.UpdateStatusRequest{
		Status: model.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, inProgress.Status)

	resolved, _, _, err := api.UpdateHazardStatusHelper(ctx, hazard.ID, model.UpdateStatusRequest{
		Status:            model.StatusResolved,
		ResolutionDetails: "Filled and repaved",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)
	assert.Equal(t, "Filled and repaved", resolved.ResolutionDetails)
	require.NotNil(t, resolved.ResolutionDate)

	_, status, _, err = api.UpdateHazardStatusHelper(ctx, hazard.ID, model.UpdateStatusRequest{
		Status: model.StatusReported,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, values.Conflict, status)

	_, status, _, err = api.UpdateHazardStatusHelper(ctx, util.GenerateUUID(), model.UpdateStatusRequest{
		Status: model.StatusInProgress,
	})
	require.Error(t, err)
	assert.Equal(t, values.NotFound, status)
}
