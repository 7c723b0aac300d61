package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/tracing"
	"github.com/hazardhub/hazardhub_api/util/values"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/register", Handler(api.Register))
	mux.Method(http.MethodPost, "/login", Handler(api.Login))
	mux.Method(http.MethodPost, "/google/create", Handler(api.GoogleCreate))
	mux.Method(http.MethodPost, "/google/login", Handler(api.GoogleLogin))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/me", Handler(api.Me))
	})

	return mux
}

func (api *API) Register(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.RegisterRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "Missing required fields.", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.RegisterUserHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) Login(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.LoginRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "Missing required fields.", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.LoginUserHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) GoogleCreate(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	return api.googleAuth(r, true)
}

func (api *API) GoogleLogin(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	return api.googleAuth(r, false)
}

func (api *API) googleAuth(r *http.Request, createIfMissing bool) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.GoogleAuthRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}
	if req.AccessToken == "" {
		return respondWithError(nil, "Missing access token.", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.GoogleAuthHelper(r.Context(), req, createIfMissing)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) Me(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, status, message, err := api.MeHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       user,
	}
}
