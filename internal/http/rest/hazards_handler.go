package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/tracing"
	"github.com/hazardhub/hazardhub_api/util/values"
)

const defaultNearbyRadiusKM = 5

func (api *API) HazardRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreateHazard))
		r.Method(http.MethodGet, "/", Handler(api.ListHazards))
		r.Method(http.MethodGet, "/nearby", Handler(api.GetNearbyHazards))
		r.Method(http.MethodPost, "/chat", Handler(api.Chat))

		r.Group(func(r chi.Router) {
			r.Use(RequireRoles(model.RoleAuthority, model.RoleAdmin))
			r.Method(http.MethodGet, "/stats", Handler(api.GetHazardStats))
			r.Method(http.MethodPut, "/{hazardID}/status", Handler(api.UpdateHazardStatus))
		})

		r.Method(http.MethodGet, "/{hazardID}", Handler(api.GetHazardByID))
	})

	return mux
}

func (api *API) CreateHazard(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateHazardRequest
	var firstImagePath string

	if isMultipart(r) {
		decoded, imagePath, decodeErr := api.decodeMultipartHazard(r)
		if decodeErr != nil {
			return respondWithError(decodeErr, "unable to read multipart form", values.BadRequestBody, &tc)
		}
		req = decoded
		firstImagePath = imagePath
	} else {
		if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
			return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
		}

		if req.ImageBase64 != "" {
			imageURL, imagePath, saveErr := api.Deps.Uploads.SaveBase64(req.ImageBase64)
			if saveErr != nil {
				return respondWithError(saveErr, "unable to process embedded image", values.BadRequestBody, &tc)
			}
			req.Images = append([]string{imageURL}, req.Images...)
			firstImagePath = imagePath
		}
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "Missing required fields.", values.BadRequestBody, &tc)
	}
	if !model.ValidHazardType(req.Type) {
		return respondWithError(nil, "Invalid hazard type.", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	req.ReportedBy = userID

	hazard, status, message, err := api.CreateHazardHelper(r.Context(), req, firstImagePath)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       hazard,
	}
}

func (api *API) ListHazards(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	hazards, status, message, err := api.ListHazardsHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if hazards == nil {
		hazards = []model.Hazard{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       hazards,
	}
}

func (api *API) GetHazardByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	hazardID, err := util.StringToUUID(chi.URLParam(r, "hazardID"))
	if err != nil {
		return respondWithError(err, "Invalid hazard ID.", values.BadRequestBody, &tc)
	}

	hazard, status, message, err := api.GetHazardByIDHelper(r.Context(), hazardID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       hazard,
	}
}

func (api *API) GetNearbyHazards(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	latitude, err := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if err != nil {
		return respondWithError(err, "Invalid latitude or longitude values.", values.BadRequestBody, &tc)
	}

	longitude, err := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if err != nil {
		return respondWithError(err, "Invalid latitude or longitude values.", values.BadRequestBody, &tc)
	}

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return respondWithError(nil, "Invalid latitude or longitude values.", values.BadRequestBody, &tc)
	}

	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil || radius < 0 {
		radius = defaultNearbyRadiusKM
	}

	params := model.NearbyParams{
		Latitude:  latitude,
		Longitude: longitude,
		RadiusKM:  radius,
	}

	hazards, status, message, err := api.GetNearbyHazardsHelper(r.Context(), params)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if hazards == nil {
		hazards = []model.Hazard{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       hazards,
	}
}

func (api *API) UpdateHazardStatus(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	hazardID, err := util.StringToUUID(chi.URLParam(r, "hazardID"))
	if err != nil {
		return respondWithError(err, "Invalid hazard ID.", values.BadRequestBody, &tc)
	}

	var req model.UpdateStatusRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "Invalid status value.", values.BadRequestBody, &tc)
	}

	hazard, status, message, err := api.UpdateHazardStatusHelper(r.Context(), hazardID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       hazard,
	}
}

func (api *API) GetHazardStats(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	stats, status, message, err := api.GetHazardStatsHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       stats,
	}
}

func (api *API) Chat(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req struct {
		Message string `json:"message"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if !util.NotBlank(req.Message) {
		return respondWithError(nil, "Message is required.", values.BadRequestBody, &tc)
	}

	reply, err := api.ML.Chat(r.Context(), req.Message)
	if err != nil {
		return respondWithError(err, "Chatbot response failed", values.BadGateway, &tc)
	}

	return &ServerResponse{
		Message:    "Chat response",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reply,
	}
}
