package rest

import (
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/hazardhub/hazardhub_api/util"
	"github.com/hazardhub/hazardhub_api/util/tracing"
	"github.com/hazardhub/hazardhub_api/util/values"
)

type uploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}

type base64UploadRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// UploadRoutes serves both standalone photo uploads and the static files
// they produce.
func (api *API) UploadRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.UploadImage))
	})

	mux.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		http.ServeFile(w, r, filepath.Join(api.Deps.Uploads.Dir, filepath.Clean("/"+name)))
	})

	return mux
}

func (api *API) UploadImage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var photoURL string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(2 * int64(api.maxUploadBytes())); err != nil {
			return respondWithError(err, "unable to read multipart form", values.BadRequestBody, &tc)
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			return respondWithError(err, "No photo file provided.", values.BadRequestBody, &tc)
		}
		defer file.Close()

		url, _, err := api.storeImage(r.Context(), file, header)
		if err != nil {
			return respondWithError(err, "unable to store photo", values.BadRequestBody, &tc)
		}
		photoURL = url
	} else {
		var req base64UploadRequest
		if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
			return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
		}
		if req.ImageBase64 == "" {
			return respondWithError(nil, "No image data provided.", values.BadRequestBody, &tc)
		}

		url, path, err := api.Deps.Uploads.SaveBase64(req.ImageBase64)
		if err != nil {
			return respondWithError(err, "unable to process image data", values.BadRequestBody, &tc)
		}
		photoURL = api.mirrorToCloudinary(r.Context(), url, path)
	}

	return &ServerResponse{
		Message:    "Photo uploaded successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       uploadResponse{PhotoURL: photoURL},
	}
}

// storeImage writes an uploaded file to local disk and, when Cloudinary is
// configured, mirrors it there. Returns the public URL and the local path.
func (api *API) storeImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	url, path, err := api.Deps.Uploads.SaveMultipart(file, header)
	if err != nil {
		return "", "", err
	}
	return api.mirrorToCloudinary(ctx, url, path), path, nil
}

func (api *API) mirrorToCloudinary(ctx context.Context, localURL, path string) string {
	if api.Deps.Cloudinary == nil {
		return localURL
	}

	remoteURL, err := api.Deps.Cloudinary.UploadImage(ctx, path, "hazards")
	if err != nil {
		log.Println("cloudinary upload failed, keeping local copy:", err)
		return localURL
	}
	return remoteURL
}
