package handlers

import (
	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/internal/api/presenters"
	"Nutrilog-Backend/pkg/meal"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MealHandler interface {
		AnalyzeMeal(c *fiber.Ctx) error
		UploadMealPhoto(c *fiber.Ctx) error
		ConfirmMeal(c *fiber.Ctx) error
		LogFollowup(c *fiber.Ctx) error
		RememberDiscussion(c *fiber.Ctx) error
		UndoLastMeal(c *fiber.Ctx) error
		GetDailyTotals(c *fiber.Ctx) error
	}

	mealHandler struct {
		mealService meal.MealService
		validator   *validator.Validate
	}
)

func NewMealHandler(mealService meal.MealService, validator *validator.Validate) MealHandler {
	return &mealHandler{
		mealService: mealService,
		validator:   validator,
	}
}

func (h *mealHandler) AnalyzeMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AnalyzeMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeMeal, err)
	}

	res, err := h.mealService.RunPipeline(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedAnalyzeMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnalyzeMeal)
}

func (h *mealHandler) UploadMealPhoto(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	photo, err := c.FormFile("photo")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadMealPhotoRequest{
		Photo:   photo,
		Caption: c.FormValue("caption"),
	}

	res, err := h.mealService.AnalyzePhoto(c.Context(), req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUploadPhoto, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadPhoto)
}

func (h *mealHandler) ConfirmMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ConfirmMealRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmMeal, err)
	}

	res, err := h.mealService.ConfirmAndSave(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedConfirmMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessConfirmMeal)
}

func (h *mealHandler) LogFollowup(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.FollowupLogRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFollowupLog, err)
	}

	res, err := h.mealService.LogFollowup(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedFollowupLog, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessFollowupLog)
}

func (h *mealHandler) RememberDiscussion(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RememberDiscussionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	h.mealService.RememberDiscussion(userID, req.Items)

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRememberDiscussion)
}

func (h *mealHandler) UndoLastMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.mealService.UndoLastMeal(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUndoMeal, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUndoMeal)
}

func (h *mealHandler) GetDailyTotals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.mealService.GetDailyTotals(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetDailyTotals, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDailyTotals)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNoFollowupContext), errors.Is(err, domain.ErrMealLogNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSaveMealFailed), errors.Is(err, domain.ErrExtractionUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
