package rest

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/values"
	"github.com/hazardhub/hazardhub_api/util/websockets"
)

// Subscribers within roughly this many degrees of a new hazard get the
// hazard_created push (about 55 km at the equator).
const broadcastRadiusDeg = 0.5

// MLService is the slice of the classification client the hazard pipeline
// depends on.
type MLService interface {
	ClassifyText(ctx context.Context, description string) (string, error)
	ClassifyImage(ctx context.Context, imageBase64 string) (string, error)
	PredictPriority(ctx context.Context, lat, lon float64, hazardType, timeOfDay string) (string, error)
	Chat(ctx context.Context, message string) (map[string]interface{}, error)
}

func (api *API) CreateHazardHelper(ctx context.Context, req model.CreateHazardRequest, firstImagePath string) (model.Hazard, string, string, error) {
	finalType, priority := api.enrichHazard(ctx, req.Description, firstImagePath, req.Type, req.Location.Latitude, req.Location.Longitude)

	if req.Location.Address == "" {
		req.Location.Address = "Unknown Address"
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	hazard := model.Hazard{
		ID:                util.GenerateUUID(),
		Title:             req.Title,
		Description:       req.Description,
		Type:              finalType,
		Severity:          req.Severity,
		Status:            model.StatusReported,
		Location:          req.Location,
		Images:            images,
		ReportedBy:        req.ReportedBy,
		ResolutionDetails: "Pending resolution",
		PredictedPriority: priority,
	}

	created, err := api.CreateHazardRepo(ctx, hazard)
	if err != nil {
		return model.Hazard{}, values.Error, "Failed to create hazard report", err
	}

	if api.Deps.Metrics != nil {
		api.Deps.Metrics.HazardsCreated.Inc()
	}
	if err := api.Deps.Cache.InvalidateStats(ctx); err != nil {
		log.Println("failed to invalidate stats cache:", err)
	}
	if api.Deps.WebSocket != nil {
		api.Deps.WebSocket.BroadcastNearby(websockets.MsgTypeHazardCreated, created,
			created.Location.Latitude, created.Location.Longitude, broadcastRadiusDeg)
	}

	return created, values.Created, "Hazard reported successfully", nil
}

// enrichHazard runs the three-stage classification pipeline. Every stage is
// best effort: a failure is logged and absorbed, never propagated, so report
// creation cannot be blocked by the ML service.
func (api *API) enrichHazard(ctx context.Context, description, imagePath, userType string, lat, lon float64) (string, string) {
	textClass := api.classifyText(ctx, description)

	imageClass := ""
	if textClass == "" && imagePath != "" {
		imageClass = api.classifyImage(ctx, imagePath)
	}

	finalType := resolveType(textClass, imageClass, userType)
	if textClass == "" && imageClass == "" && api.Deps.Metrics != nil {
		api.Deps.Metrics.MLFallbacks.WithLabelValues("type").Inc()
	}

	priority := api.predictPriority(ctx, lat, lon, finalType)

	return finalType, priority
}

func (api *API) classifyText(ctx context.Context, description string) string {
	label, err := api.ML.ClassifyText(ctx, description)
	if err != nil {
		log.Println("text classification failed:", err)
		api.countMLRequest("text", "error")
		return ""
	}
	api.countMLRequest("text", "success")

	if !model.ValidHazardType(label) {
		log.Printf("text classifier returned unknown class %q, ignoring", label)
		return ""
	}
	return label
}

func (api *API) classifyImage(ctx context.Context, imagePath string) string {
	imageBase64, err := api.Deps.Uploads.ReadBase64(imagePath)
	if err != nil {
		log.Println("unable to read image for classification:", err)
		return ""
	}

	label, err := api.ML.ClassifyImage(ctx, imageBase64)
	if err != nil {
		log.Println("image classification failed:", err)
		api.countMLRequest("image", "error")
		return ""
	}
	api.countMLRequest("image", "success")

	if !model.ValidHazardType(label) {
		log.Printf("image classifier returned unknown class %q, ignoring", label)
		return ""
	}
	return label
}

func (api *API) predictPriority(ctx context.Context, lat, lon float64, hazardType string) string {
	priority, err := api.ML.PredictPriority(ctx, lat, lon, hazardType, util.TimeOfDay(api.now()))
	if err != nil {
		log.Println("priority prediction failed:", err)
		api.countMLRequest("priority", "error")
		api.countMLFallback("priority")
		return model.PriorityLow
	}
	api.countMLRequest("priority", "success")

	if !model.ValidPriority(priority) {
		log.Printf("priority predictor returned unknown label %q, defaulting to Low", priority)
		api.countMLFallback("priority")
		return model.PriorityLow
	}
	return priority
}

// resolveType applies the trust hierarchy: model-derived classes win over
// user input, the user-supplied type is the last resort.
func resolveType(textClass, imageClass, userType string) string {
	if textClass != "" {
		return textClass
	}
	if imageClass != "" {
		return imageClass
	}
	return userType
}

func (api *API) ListHazardsHelper(ctx context.Context) ([]model.Hazard, string, string, error) {
	hazards, err := api.ListHazardsRepo(ctx)
	if err != nil {
		return nil, values.Error, "Failed to fetch hazards", err
	}
	return hazards, values.Success, "Hazards fetched successfully", nil
}

func (api *API) GetHazardByIDHelper(ctx context.Context, id uuid.UUID) (model.Hazard, string, string, error) {
	hazard, err := api.GetHazardByIDRepo(ctx, id)
	if err == ErrHazardNotFound {
		return model.Hazard{}, values.NotFound, "Hazard not found", err
	}
	if err != nil {
		return model.Hazard{}, values.Error, "Failed to fetch hazard", err
	}
	return hazard, values.Success, "Hazard fetched successfully", nil
}

func (api *API) GetNearbyHazardsHelper(ctx context.Context, params model.NearbyParams) ([]model.Hazard, string, string, error) {
	hazards, err := api.GetNearbyHazardsRepo(ctx, params)
	if err != nil {
		return nil, values.Error, "Failed to fetch nearby hazards", err
	}
	return hazards, values.Success, "Nearby hazards fetched successfully", nil
}

// UpdateHazardStatusHelper applies a status change inside one transaction:
// the row is locked, the transition checked against the lifecycle table, and
// the update committed, so concurrent updates serialize instead of racing.
func (api *API) UpdateHazardStatusHelper(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (model.Hazard, string, string, error) {
	var updated model.Hazard

	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		hazard, err := getHazardByID(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if !model.CanTransition(hazard.Status, req.Status) {
			return model.ErrInvalidTransition
		}

		hazard.Status = req.Status
		if req.AssignedTo != nil {
			hazard.AssignedTo = req.AssignedTo
		}
		if req.ResolutionDetails != "" {
			hazard.ResolutionDetails = req.ResolutionDetails
		}
		if req.Status == model.StatusResolved {
			now := api.now()
			hazard.ResolutionDate = &now
		}

		updated, err = updateHazardStatus(ctx, tx, hazard)
		return err
	})
	if errors.Is(err, ErrHazardNotFound) {
		return model.Hazard{}, values.NotFound, "Hazard not found", err
	}
	if errors.Is(err, model.ErrInvalidTransition) {
		return model.Hazard{}, values.Conflict, "Status transition not allowed", err
	}
	if err != nil {
		return model.Hazard{}, values.Error, "Failed to update hazard status", err
	}

	if api.Deps.Metrics != nil {
		api.Deps.Metrics.StatusUpdates.WithLabelValues(req.Status).Inc()
	}
	if api.Deps.WebSocket != nil {
		api.Deps.WebSocket.BroadcastEvent(websockets.MsgTypeHazardStatus, updated)
	}

	return updated, values.Success, "Hazard status updated", nil
}

func (api *API) GetHazardStatsHelper(ctx context.Context) (*model.HazardStats, string, string, error) {
	if cached, err := api.Deps.Cache.GetStats(ctx); err == nil && cached != nil {
		return cached, values.Success, "Hazard stats fetched successfully", nil
	} else if err != nil {
		log.Println("stats cache lookup failed:", err)
	}

	stats, err := api.GetStatsRepo(ctx)
	if err != nil {
		return nil, values.Error, "Failed to fetch hazard stats", err
	}

	if err := api.Deps.Cache.SetStats(ctx, stats, api.Config.StatsCacheTTL); err != nil {
		log.Println("stats cache write failed:", err)
	}

	return stats, values.Success, "Hazard stats fetched successfully", nil
}

func (api *API) now() time.Time {
	if api.Deps != nil && api.Deps.Clock != nil {
		return api.Deps.Clock.Now()
	}
	return time.Now()
}

func (api *API) countMLRequest(stage, outcome string) {
	if api.Deps.Metrics != nil {
		api.Deps.Metrics.MLRequests.WithLabelValues(stage, outcome).Inc()
	}
}

func (api *API) countMLFallback(stage string) {
	if api.Deps.Metrics != nil {
		api.Deps.Metrics.MLFallbacks.WithLabelValues(stage).Inc()
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeMultipartHazard reads a multipart create request: text fields plus
// zero or more "images" files, which are stored immediately. Returns the
// request and the on-disk path of the first stored image.
func (api *API) decodeMultipartHazard(r *http.Request) (model.CreateHazardRequest, string, error) {
	if err := r.ParseMultipartForm(2 * int64(api.maxUploadBytes())); err != nil {
		return model.CreateHazardRequest{}, "", err
	}

	latitude, _ := strconv.ParseFloat(r.FormValue("latitude"), 64)
	longitude, _ := strconv.ParseFloat(r.FormValue("longitude"), 64)

	req := model.CreateHazardRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Type:        r.FormValue("type"),
		Severity:    r.FormValue("severity"),
		Location: model.Location{
			Latitude:  latitude,
			Longitude: longitude,
			Address:   r.FormValue("address"),
		},
	}

	var firstImagePath string
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				return model.CreateHazardRequest{}, "", err
			}

			imageURL, imagePath, err := api.storeImage(r.Context(), file, header)
			file.Close()
			if err != nil {
				return model.CreateHazardRequest{}, "", err
			}

			req.Images = append(req.Images, imageURL)
			if firstImagePath == "" {
				firstImagePath = imagePath
			}
		}
	}

	return req, firstImagePath, nil
}

func (api *API) maxUploadBytes() int {
	return 5 << 20
}
