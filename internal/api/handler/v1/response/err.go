package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error kinds rendered in the "error" field.
const (
	KindInvalidArgument           = "InvalidArgument"
	KindInvalidConfiguration      = "InvalidConfiguration"
	KindParticipantNotRegistered  = "ParticipantNotRegistered"
	KindInsufficientCapacity      = "InsufficientCapacity"
	KindAllocationConflict        = "AllocationConflict"
	KindInternalError             = "InternalError"
	KindDocumentAlreadyRegistered = "DocumentAlreadyRegistered"
	KindWrongCredentials          = "WrongCredentials"
	KindUnauthorized              = "Unauthorized"
	KindPermissionDenied          = "PermissionDenied"
	KindNotFound                  = "NotFound"
)

type Err struct {
	Success bool   `json:"success"`
	Kind    string `json:"error"`
	Message string `json:"message"`

	HTTPStatusCode int   `json:"-"`
	Err            error `json:"-"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return e.Kind
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr aborts the request with e. Server side causes are logged and
// never sent to the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.String("kind", e.Kind),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, kind, message string, err error) *Err {
	return &Err{
		Success:        false,
		Kind:           kind,
		Message:        message,
		HTTPStatusCode: status,
		Err:            err,
	}
}

// ErrBadRequest carries the validation detail of err, which only describes
// the client input.
func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, KindInvalidArgument, fmt.Sprintf("Dados inválidos: %v", err), err)
}

// ErrInvalidArgument hides the cause, which may carry internal call chains.
func ErrInvalidArgument(err error) *Err {
	return newErr(http.StatusBadRequest, KindInvalidArgument, "Documento ou quantidade inválidos.", err)
}

func ErrParticipantNotRegistered(err error) *Err {
	return newErr(http.StatusNotFound, KindParticipantNotRegistered,
		"Documento não encontrado. O participante precisa estar cadastrado.", err)
}

func ErrInsufficientCapacity(err error) *Err {
	return newErr(http.StatusConflict, KindInsufficientCapacity,
		"Não há números disponíveis suficientes nas séries configuradas.", err)
}

func ErrAllocationConflict(err error) *Err {
	return newErr(http.StatusConflict, KindAllocationConflict,
		"Não foi possível reservar números únicos. Tente novamente.", err)
}

func ErrDocumentAlreadyRegistered(err error) *Err {
	return newErr(http.StatusConflict, KindDocumentAlreadyRegistered, "Documento já cadastrado.", err)
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, KindWrongCredentials, "Credenciais inválidas.", err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, KindUnauthorized, "Token de acesso ausente ou inválido.", err)
}

func ErrPermissionDenied() *Err {
	return newErr(http.StatusForbidden, KindPermissionDenied, "Acesso negado.", nil)
}

func ErrNotFound(resource, key string, value any) *Err {
	return newErr(http.StatusNotFound, KindNotFound,
		fmt.Sprintf("%s com %s %v não encontrado.", resource, key, value), nil)
}

func ErrInvalidConfiguration(err error) *Err {
	return newErr(http.StatusInternalServerError, KindInvalidConfiguration,
		"Configuração da campanha inválida.", err)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, KindInternalError, "Erro interno do servidor.", err)
}
