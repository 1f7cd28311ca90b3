package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/melihemreguler/urlshortener/internal/models"
	"github.com/melihemreguler/urlshortener/internal/service"
	"github.com/melihemreguler/urlshortener/pkg/response"
)

const (
	defaultPage = 0
	defaultSize = 10
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type createURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type createURLResponse struct {
	ShortURL string `json:"short_url"`
}

type urlResponse struct {
	ID          int64     `json:"id"`
	LongURL     string    `json:"long_url"`
	ShortCode   string    `json:"short_code"`
	AccessCount int64     `json:"access_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type pageResponse struct {
	Content       []urlResponse `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"total_elements"`
	TotalPages    int           `json:"total_pages"`
	First         bool          `json:"first"`
	Last          bool          `json:"last"`
}

func toPageResponse(page *models.Page) pageResponse {
	resp := pageResponse{
		Content:       make([]urlResponse, 0, len(page.Content)),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}

	for _, url := range page.Content {
		resp.Content = append(resp.Content, urlResponse{
			ID:          url.ID,
			LongURL:     url.LongURL,
			ShortCode:   url.ShortCode,
			AccessCount: url.AccessCount,
			CreatedAt:   url.CreatedAt,
			UpdatedAt:   url.UpdatedAt,
		})
	}

	return resp
}

func handleCreateShortURL(svc URLService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateShortURL"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req createURLRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		req.URL = strings.TrimSpace(req.URL)

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		shortURL, err := svc.CreateAndSave(r.Context(), req.URL)
		if err != nil {
			var validationErr *service.ValidationError
			if errors.As(err, &validationErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.FieldErrorResponse(validationErr.Field, validationErr.Message))
				return
			}

			if errors.Is(err, service.ErrMaxRetriesExceeded) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ConflictResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, createURLResponse{ShortURL: shortURL}))
	}
}

func handleListURLs(svc URLService) http.HandlerFunc {
	const op = "api.http.handleListURLs"
	const successMsg = "The URLs were retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", defaultPage)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.FieldErrorResponse("page", "Must be an integer."))
			return
		}

		size, err := queryInt(r, "size", defaultSize)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.FieldErrorResponse("size", "Must be an integer."))
			return
		}

		term := r.URL.Query().Get("q")

		var result *models.Page
		if term == "" {
			result, err = svc.List(r.Context(), page, size)
		} else {
			result, err = svc.Search(r.Context(), term, page, size)
		}
		if err != nil {
			var validationErr *service.ValidationError
			if errors.As(err, &validationErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.FieldErrorResponse(validationErr.Field, validationErr.Message))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toPageResponse(result)))
	}
}

func handleDeleteShortURL(svc URLService) http.HandlerFunc {
	const op = "api.http.handleDeleteShortURL"
	const successMsg = "The URL was successfully deleted."

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.FieldErrorResponse("id", "Must be an integer."))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleRedirect(svc URLService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		longURL, err := svc.Resolve(r.Context(), shortCode)
		if err != nil {
			var notFoundErr *service.NotFoundError
			if errors.As(err, &notFoundErr) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{
					"error": "Short code not found",
					"url":   notFoundErr.URL,
				})
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, longURL, http.StatusFound)
	}
}

func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}

	return strconv.Atoi(raw)
}
