// Package handlers provides HTTP handlers for the recipe pipeline API
package handlers

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/ports/inbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.uber.org/zap"
)

// RecipeHandler handles recipe generation and recommendation requests
type RecipeHandler struct {
	service  inbound.RecipeService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRecipeHandler creates a recipe API handler
func NewRecipeHandler(service inbound.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.Named("recipe-handler"),
	}
}

type generateRequest struct {
	ContextType string `json:"context_type" validate:"required,oneof=mission module"`
	ContextID   string `json:"context_id" validate:"required"`
	TrackCode   string `json:"track_code" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

type recommendRequest struct {
	ContextType string `json:"context_type" validate:"required,oneof=mission module"`
	ContextID   string `json:"context_id" validate:"required"`
	TrackCode   string `json:"track_code" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

type generateResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

// Generate handles POST /api/recipes/generate
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperrors.NewBadRequestError("Invalid JSON in request body").WithCause(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	recipes, err := h.service.GenerateForContext(r.Context(), inbound.GenerateCommand{
		ContextType: recipe.ContextType(req.ContextType),
		ContextID:   req.ContextID,
		TrackCode:   req.TrackCode,
		UserID:      req.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, generateResponse{
		Recipes: recipes,
		Count:   len(recipes),
	})
}

// Recommend handles POST /api/recipes/recommend
func (h *RecipeHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperrors.NewBadRequestError("Invalid JSON in request body").WithCause(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	recommendation, err := h.service.Recommend(r.Context(), inbound.RecommendCommand{
		ContextType: recipe.ContextType(req.ContextType),
		ContextID:   req.ContextID,
		TrackCode:   req.TrackCode,
		UserID:      req.UserID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, recommendation)
}

func (h *RecipeHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *RecipeHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Wrap(err, "Request failed")
	requestID := chimiddleware.GetReqID(r.Context())

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", requestID),
			zap.Error(appErr))
	} else {
		h.logger.Warn("request rejected",
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", requestID),
			zap.Error(appErr))
	}

	h.respondJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}
