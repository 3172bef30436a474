package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kartia-app/kartia-server/middleware"
	"github.com/kartia-app/kartia-server/services"
)

type GarageHandler struct {
	garageService services.GarageService
}

func NewGarageHandler(garageService services.GarageService) *GarageHandler {
	return &GarageHandler{garageService: garageService}
}

func (h *GarageHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	notes, err := h.garageService.ListNotes(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notes": notes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	notes, err := h.garageService.AddNote(r.Context(), currentUserID, input.Text)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"notes": notes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) RemoveNote(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		badRequestResponse(w, r, errors.New("invalid index parameter"))
		return
	}

	notes, err := h.garageService.RemoveNote(r.Context(), currentUserID, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notes": notes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) ListLaps(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	laps, err := h.garageService.ListLaps(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"laps": laps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) AddLap(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Time string `json:"time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lap, err := h.garageService.AddLap(r.Context(), currentUserID, input.Time)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"lap": lap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) RemoveLap(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	lapID := chi.URLParam(r, "lapID")
	if lapID == "" {
		badRequestResponse(w, r, errors.New("invalid lapID parameter"))
		return
	}

	if err := h.garageService.RemoveLap(r.Context(), currentUserID, lapID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GarageHandler) BestLap(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	lap, err := h.garageService.BestLap(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"lap": lap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	videos, err := h.garageService.ListVideos(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"videos": videos}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	video, err := h.garageService.UploadVideo(r.Context(), currentUserID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"video": video}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GarageHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	videoID := chi.URLParam(r, "videoID")
	if videoID == "" {
		badRequestResponse(w, r, errors.New("invalid videoID parameter"))
		return
	}

	if err := h.garageService.RemoveVideo(r.Context(), currentUserID, videoID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
