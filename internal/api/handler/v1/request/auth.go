package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
)

var (
	errInvalidPassword         = errors.New("a senha deve ter pelo menos 8 caracteres, com ao menos 1 letra e 1 número")
	errConfirmPasswordMismatch = errors.New("a confirmação de senha não confere")

	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)
)

type SignupRequest struct {
	Nome           string  `json:"nome"`
	Documento      string  `json:"documento"`
	Senha          string  `json:"senha"`
	ConfirmarSenha string  `json:"confirmar_senha"`
	Genero         string  `json:"genero,omitempty"`
	Email          string  `json:"email,omitempty"`
	Telefone       string  `json:"telefone,omitempty"`
	Rua            string  `json:"rua,omitempty"`
	Numero         string  `json:"numero,omitempty"`
	Bairro         string  `json:"bairro,omitempty"`
	Complemento    *string `json:"complemento,omitempty"`
	CEP            string  `json:"cep,omitempty"`
	Cidade         string  `json:"cidade,omitempty"`
	UF             string  `json:"uf,omitempty"`
}

func (req *SignupRequest) Validate() error {
	req.Documento = NormalizeDocumento(req.Documento)
	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.TrimSpace(req.Email)
	req.CEP = onlyDigits(req.CEP)
	req.UF = strings.ToUpper(strings.TrimSpace(req.UF))

	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Nome, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Documento, documentoRules...),
		validation.Field(&req.Senha, validation.Required),
		validation.Field(&req.ConfirmarSenha, validation.Required),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Telefone, validation.Length(8, 20)),
		validation.Field(&req.CEP, validation.Length(8, 8)),
		validation.Field(&req.UF, validation.Length(2, 2), is.UpperCase),
	)
	if err != nil {
		return err
	}

	if ok, _ := passwordExp.MatchString(req.Senha); !ok {
		return errInvalidPassword
	}

	if req.Senha != req.ConfirmarSenha {
		return errConfirmPasswordMismatch
	}

	return nil
}

type LoginRequest struct {
	Documento string `json:"documento"`
	Senha     string `json:"senha"`
}

func (req *LoginRequest) Validate() error {
	req.Documento = NormalizeDocumento(req.Documento)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Documento, documentoRules...),
		validation.Field(&req.Senha, validation.Required),
	)
}

type ResetPasswordRequest struct {
	Documento string `json:"documento"`
	Email     string `json:"email"`
}

func (req *ResetPasswordRequest) Validate() error {
	req.Documento = NormalizeDocumento(req.Documento)
	req.Email = strings.TrimSpace(req.Email)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Documento, documentoRules...),
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *AdminLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
