package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/request"
	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/response"
	"github.com/zumnet/numeros-sorte/internal/api/middleware"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/service"
)

type NumberService interface {
	Generate(ctx context.Context, req service.GenerateRequest) (domain.Allocation, error)
	ListByDocumento(ctx context.Context, documento string) ([]domain.LuckyNumber, error)
}

type NumberHandler struct {
	svc NumberService
}

func NewNumberHandler(svc NumberService) *NumberHandler {
	return &NumberHandler{
		svc: svc,
	}
}

// HandleGenerate godoc
// @Summary      Issue lucky numbers to a participant
// @Tags         numbers
// @Produce      json
// @Param        request   body      request.GenerateNumbersRequest true "request body"
// @Success      200      {object}   response.GenerateNumbersResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /numbers/generate [post]
// @Security BearerAuth
func (h *NumberHandler) HandleGenerate(ctx *gin.Context) {
	var req request.GenerateNumbersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	obs := domain.ObsManualIssue
	if req.Obs != nil && *req.Obs != "" {
		obs = *req.Obs
	}

	h.generate(ctx, service.GenerateRequest{
		Documento: req.Documento,
		Quantity:  req.Quantidade,
		Obs:       obs,
	})
}

// HandleGenerateOwn godoc
// @Summary      Issue lucky numbers to the logged in participant
// @Tags         participants
// @Produce      json
// @Param        request   body      request.GenerateOwnNumbersRequest true "request body"
// @Success      200      {object}   response.GenerateNumbersResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/me/numbers/generate [post]
// @Security BearerAuth
func (h *NumberHandler) HandleGenerateOwn(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	var req request.GenerateOwnNumbersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	h.generate(ctx, service.GenerateRequest{
		Documento: claims.Subject,
		Quantity:  req.Quantidade,
		Obs:       domain.ObsSelfIssue,
	})
}

func (h *NumberHandler) generate(ctx *gin.Context, req service.GenerateRequest) {
	alloc, err := h.svc.Generate(ctx.Request.Context(), req)
	if err != nil {
		response.RenderErr(ctx, generateErr(fmt.Errorf("v1.generate -> h.svc.Generate -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewGenerateNumbersResponse(alloc))
}

func generateErr(err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return response.ErrInvalidArgument(err)
	case errors.Is(err, service.ErrParticipantNotRegistered):
		return response.ErrParticipantNotRegistered(err)
	case errors.Is(err, service.ErrInsufficientCapacity):
		return response.ErrInsufficientCapacity(err)
	case errors.Is(err, service.ErrAllocationConflict):
		return response.ErrAllocationConflict(err)
	case errors.Is(err, service.ErrInvalidConfiguration):
		return response.ErrInvalidConfiguration(err)
	default:
		return response.ErrInternalServerError(err)
	}
}

// HandleListOwn godoc
// @Summary      List the numbers of the logged in participant
// @Tags         participants
// @Produce      json
// @Success      200      {object}   response.NumbersResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /participants/me/numbers [get]
// @Security BearerAuth
func (h *NumberHandler) HandleListOwn(ctx *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrPermissionDenied())
		return
	}

	numbers, err := h.svc.ListByDocumento(ctx.Request.Context(), claims.Subject)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOwn -> h.svc.ListByDocumento -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewNumbersResponse(claims.Subject, numbers))
}
