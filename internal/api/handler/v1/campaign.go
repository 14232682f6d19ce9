package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/request"
	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/response"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/service"
)

type CampaignService interface {
	GetConfig(ctx context.Context) (domain.CampaignConfig, error)
	UpdateConfig(ctx context.Context, series int) (domain.CampaignConfig, error)
	Stats(ctx context.Context) (domain.CampaignStats, error)
}

type CampaignHandler struct {
	svc CampaignService
}

func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{
		svc: svc,
	}
}

// HandleGetCampaign godoc
// @Summary      Show the campaign number range
// @Tags         admin
// @Produce      json
// @Success      200      {object}   response.CampaignResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/campaign [get]
// @Security BearerAuth
func (h *CampaignHandler) HandleGetCampaign(ctx *gin.Context) {
	conf, err := h.svc.GetConfig(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, campaignErr(fmt.Errorf("v1.HandleGetCampaign -> h.svc.GetConfig -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCampaignResponse(conf))
}

// HandleUpdateCampaign godoc
// @Summary      Change the amount of numeric series
// @Tags         admin
// @Produce      json
// @Param        request   body      request.UpdateCampaignRequest true "request body"
// @Success      200      {object}   response.CampaignResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/campaign [put]
// @Security BearerAuth
func (h *CampaignHandler) HandleUpdateCampaign(ctx *gin.Context) {
	var req request.UpdateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	conf, err := h.svc.UpdateConfig(ctx.Request.Context(), req.SeriesNumericas)
	if err != nil {
		response.RenderErr(ctx, campaignErr(fmt.Errorf("v1.HandleUpdateCampaign -> h.svc.UpdateConfig -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCampaignResponse(conf))
}

// HandleGetStats godoc
// @Summary      Show how much of the number range is issued
// @Tags         admin
// @Produce      json
// @Success      200      {object}   response.StatsResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/campaign/stats [get]
// @Security BearerAuth
func (h *CampaignHandler) HandleGetStats(ctx *gin.Context) {
	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, campaignErr(fmt.Errorf("v1.HandleGetStats -> h.svc.Stats -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, response.StatsResponse{
		Success:       true,
		CampaignStats: stats,
	})
}

func campaignErr(err error) *response.Err {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return response.ErrInvalidArgument(err)
	case errors.Is(err, service.ErrInvalidConfiguration):
		return response.ErrInvalidConfiguration(err)
	default:
		return response.ErrInternalServerError(err)
	}
}
