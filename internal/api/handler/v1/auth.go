package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/request"
	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/response"
	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/pkg/jwthelper"
	"github.com/zumnet/numeros-sorte/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Login(ctx context.Context, documento, senha string) (domain.Participant, error)
	ResetPassword(ctx context.Context, documento, email string) (string, error)
	AdminLogin(email, password string) error
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignup godoc
// @Summary      Register a participant
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   response.SignupResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participant, err := h.svc.Signup(ctx.Request.Context(), domain.Participant{
		Documento: req.Documento,
		Nome:      req.Nome,
		Genero:    req.Genero,
		Email:     req.Email,
		Telefone:  req.Telefone,
		Senha:     req.Senha,
		Address: domain.Address{
			Rua:         req.Rua,
			Numero:      req.Numero,
			Bairro:      req.Bairro,
			Complemento: req.Complemento,
			CEP:         req.CEP,
			Cidade:      req.Cidade,
			UF:          req.UF,
		},
	})
	if err != nil {
		if errors.Is(err, service.ErrDocumentExists) {
			response.RenderErr(ctx, response.ErrDocumentAlreadyRegistered(err))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.SignupResponse{
		Success:     true,
		Participant: participant,
	})
}

// HandleLogin godoc
// @Summary      Log a participant in
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	participant, err := h.svc.Login(ctx.Request.Context(), req.Documento, req.Senha)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participante", "documento", req.Documento))

			return
		}
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), participant.Documento,
		jwthelper.RoleParticipant, ctx.Request.UserAgent(), h.conf.TokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken() -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Success:     true,
		Token:       token,
		Participant: participant,
	})
}

// HandleResetPassword godoc
// @Summary      Reset a participant password
// @Description  Sets a random password when documento and email belong to the same participant
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResetPasswordRequest true "request body"
// @Success      200      {object}   response.ResetPasswordResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/reset-password [post]
func (h *AuthHandler) HandleResetPassword(ctx *gin.Context) {
	var req request.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	password, err := h.svc.ResetPassword(ctx.Request.Context(), req.Documento, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participante", "documento e email", req.Documento))
			return
		}

		err = fmt.Errorf("v1.HandleResetPassword -> h.svc.ResetPassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ResetPasswordResponse{
		Success:   true,
		NovaSenha: password,
	})
}

// HandleAdminLogin godoc
// @Summary      Log the administrator in
// @Tags         admin
// @Produce      json
// @Param        request   body      request.AdminLoginRequest true "request body"
// @Success      200      {object}   response.AdminLoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/login [post]
func (h *AuthHandler) HandleAdminLogin(ctx *gin.Context) {
	var req request.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.AdminLogin(req.Email, req.Password); err != nil {
		response.RenderErr(ctx, response.ErrWrongCredentials(err))
		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), req.Email,
		jwthelper.RoleAdmin, ctx.Request.UserAgent(), h.conf.TokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminLogin -> jwthelper.GenerateToken() -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AdminLoginResponse{
		Success: true,
		Token:   token,
	})
}
