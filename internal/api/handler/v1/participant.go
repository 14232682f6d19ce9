package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/request"
	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/response"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/service"
)

type ParticipantService interface {
	Search(ctx context.Context, term string, limit, offset int) (domain.ParticipantPage, error)
	GetWithNumbers(ctx context.Context, documento string) (domain.ParticipantNumbers, error)
}

type ParticipantHandler struct {
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		svc: svc,
	}
}

// HandleSearch godoc
// @Summary      List participants with their numbers
// @Description  Newest registrations first. q matches part of the documento or of the name, ignoring accents.
// @Tags         admin
// @Produce      json
// @Param        q        query     string  false  "search term"
// @Param        limit    query     int     false  "page size"
// @Param        offset   query     int     false  "page offset"
// @Success      200      {object}   response.ParticipantsResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleSearch(ctx *gin.Context) {
	limit, err := queryInt(ctx, "limit", 0)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	offset, err := queryInt(ctx, "offset", 0)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := h.svc.Search(ctx.Request.Context(), ctx.Query("q"), limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleSearch -> h.svc.Search -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipantsResponse(page))
}

// HandleGetParticipantNumbers godoc
// @Summary      Show one participant with its numbers
// @Tags         admin
// @Produce      json
// @Param        documento  path  string  true  "CPF or CNPJ"
// @Success      200      {object}   response.ParticipantResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants/{documento}/numbers [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleGetParticipantNumbers(ctx *gin.Context) {
	documento := request.NormalizeDocumento(ctx.Param("documento"))
	if documento == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("documento é obrigatório")))
		return
	}

	found, err := h.svc.GetWithNumbers(ctx.Request.Context(), documento)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participante", "documento", documento))
			return
		}

		err = fmt.Errorf("v1.HandleGetParticipantNumbers -> h.svc.GetWithNumbers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ParticipantResponse{
		Success:     true,
		Participant: response.NewParticipant(found),
	})
}

func queryInt(ctx *gin.Context, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s deve ser um número inteiro", key)
	}

	return value, nil
}
