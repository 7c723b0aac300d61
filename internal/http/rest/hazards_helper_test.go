package rest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazardhub/hazardhub_api/config"
	deps "github.com/hazardhub/hazardhub_api/internal/debs"
	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/internal/observability"
	"github.com/hazardhub/hazardhub_api/util/storage"
)

type fakeML struct {
	textClass     string
	textErr       error
	imageClass    string
	imageErr      error
	priority      string
	priorityErr   error
	imageCalled   bool
	lastTimeOfDay string
	chatReply     string
	chatErr       error
}

func (f *fakeML) ClassifyText(ctx context.Context, description string) (string, error) {
	return f.textClass, f.textErr
}

func (f *fakeML) ClassifyImage(ctx context.Context, imageBase64 string) (string, error) {
	f.imageCalled = true
	return f.imageClass, f.imageErr
}

func (f *fakeML) PredictPriority(ctx context.Context, lat, lon float64, hazardType, timeOfDay string) (string, error) {
	f.lastTimeOfDay = timeOfDay
	return f.priority, f.priorityErr
}

func (f *fakeML) Chat(ctx context.Context, message string) (map[string]interface{}, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return map[string]interface{}{"response": f.chatReply}, nil
}

func newTestAPI(t *testing.T, ml *fakeML) *API {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	return &API{
		Config: &config.Config{},
		Deps: &deps.Dependencies{
			Uploads: store,
			Metrics: observability.NewMetricsForTesting(),
			Clock:   clockwork.NewRealClock(),
		},
		ML: ml,
	}
}

func writeTestImage(t *testing.T, api *API) string {
	t.Helper()
	path := filepath.Join(api.Deps.Uploads.Dir, "hazard.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))
	return path
}

func TestEnrichHazardTextClassWins(t *testing.T) {
	ml := &fakeML{textClass: model.TypeFlooding, priority: model.PriorityHigh}
	api := newTestAPI(t, ml)
	imagePath := writeTestImage(t, api)

	finalType, priority := api.enrichHazard(context.Background(),
		"water covering the whole street", imagePath, model.TypeOther, 35.18, 33.38)

	assert.Equal(t, model.TypeFlooding, finalType)
	assert.Equal(t, model.PriorityHigh, priority)
	assert.False(t, ml.imageCalled, "image stage must be skipped when text classification succeeds")
	assert.NotEmpty(t, ml.lastTimeOfDay)
}

func TestEnrichHazardFallsBackToImage(t *testing.T) {
	ml := &fakeML{
		textErr:    assert.AnError,
		imageClass: model.TypeFallenTree,
		priority:   model.PriorityMedium,
	}
	api := newTestAPI(t, ml)
	imagePath := writeTestImage(t, api)

	finalType, priority := api.enrichHazard(context.Background(),
		"something blocking the road", imagePath, model.TypeOther, 35.18, 33.38)

	assert.Equal(t, model.TypeFallenTree, finalType)
	assert.Equal(t, model.PriorityMedium, priority)
	assert.True(t, ml.imageCalled)
}

func TestEnrichHazardSkipsImageStageWithoutImage(t *testing.T) {
	ml := &fakeML{textErr: assert.AnError, priority: model.PriorityLow}
	api := newTestAPI(t, ml)

	finalType, _ := api.enrichHazard(context.Background(),
		"hard to say what this is", "", model.TypeGarbage, 35.18, 33.38)

	assert.Equal(t, model.TypeGarbage, finalType)
	assert.False(t, ml.imageCalled)
}

func TestEnrichHazardUserTypeIsLastResort(t *testing.T) {
	ml := &fakeML{textErr: assert.AnError, imageErr: assert.AnError, priorityErr: assert.AnError}
	api := newTestAPI(t, ml)
	imagePath := writeTestImage(t, api)

	finalType, priority := api.enrichHazard(context.Background(),
		"unclassifiable report", imagePath, model.TypeGasLeak, 35.18, 33.38)

	assert.Equal(t, model.TypeGasLeak, finalType)
	assert.Equal(t, model.PriorityLow, priority)
}

func TestEnrichHazardIgnoresUnknownClasses(t *testing.T) {
	ml := &fakeML{textClass: "Sinkhole", imageClass: "Meteor", priority: model.PriorityHigh}
	api := newTestAPI(t, ml)
	imagePath := writeTestImage(t, api)

	finalType, _ := api.enrichHazard(context.Background(),
		"strange hole in the ground", imagePath, model.TypeStructuralDamage, 35.18, 33.38)

	assert.Equal(t, model.TypeStructuralDamage, finalType)
	assert.True(t, ml.imageCalled, "unknown text class should fall through to the image stage")
}

func TestEnrichHazardUnknownPriorityDefaultsToLow(t *testing.T) {
	ml := &fakeML{textClass: model.TypeRoad, priority: "urgent"}
	api := newTestAPI(t, ml)

	_, priority := api.enrichHazard(context.Background(),
		"pothole near the school", "", model.TypeRoad, 35.18, 33.38)

	assert.Equal(t, model.PriorityLow, priority)
}

func TestResolveType(t *testing.T) {
	testCases := []struct {
		name       string
		textClass  string
		imageClass string
		userType   string
		expected   string
	}{
		{"text wins over everything", model.TypeRoad, model.TypeWater, model.TypeOther, model.TypeRoad},
		{"image wins over user", "", model.TypeWater, model.TypeOther, model.TypeWater},
		{"user type as last resort", "", "", model.TypeFireHazard, model.TypeFireHazard},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, resolveType(tc.textClass, tc.imageClass, tc.userType))
		})
	}
}
