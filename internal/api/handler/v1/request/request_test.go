package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDocumento(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeDocumento("123.456.789-01"))
	assert.Equal(t, "12345678000199", NormalizeDocumento(" 12.345.678/0001-99 "))
	assert.Equal(t, "", NormalizeDocumento("abc"))
}

func validSignup() SignupRequest {
	return SignupRequest{
		Nome:           "  Maria da Silva ",
		Documento:      "123.456.789-01",
		Senha:          "segredo123",
		ConfirmarSenha: "segredo123",
		Email:          "maria@example.com",
		CEP:            "01310-100",
		UF:             "sp",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	t.Run("normalizes fields", func(t *testing.T) {
		req := validSignup()

		require.NoError(t, req.Validate())
		assert.Equal(t, "12345678901", req.Documento)
		assert.Equal(t, "Maria da Silva", req.Nome)
		assert.Equal(t, "01310100", req.CEP)
		assert.Equal(t, "SP", req.UF)
	})

	tests := []struct {
		name    string
		mutate  func(req *SignupRequest)
		wantErr error
	}{
		{name: "short password", mutate: func(req *SignupRequest) {
			req.Senha, req.ConfirmarSenha = "abc123", "abc123"
		}, wantErr: errInvalidPassword},
		{name: "password without digit", mutate: func(req *SignupRequest) {
			req.Senha, req.ConfirmarSenha = "somenteletras", "somenteletras"
		}, wantErr: errInvalidPassword},
		{name: "password without letter", mutate: func(req *SignupRequest) {
			req.Senha, req.ConfirmarSenha = "12345678", "12345678"
		}, wantErr: errInvalidPassword},
		{name: "confirmation mismatch", mutate: func(req *SignupRequest) {
			req.ConfirmarSenha = "outra1234"
		}, wantErr: errConfirmPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			assert.ErrorIs(t, req.Validate(), tt.wantErr)
		})
	}

	t.Run("invalid documento", func(t *testing.T) {
		req := validSignup()
		req.Documento = "1234"

		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "documento")
	})

	t.Run("invalid email", func(t *testing.T) {
		req := validSignup()
		req.Email = "not-an-email"

		assert.Error(t, req.Validate())
	})
}

func TestGenerateNumbersRequest_Validate(t *testing.T) {
	obs := "  campanha de natal "
	req := GenerateNumbersRequest{Documento: "12.345.678/0001-99", Quantidade: 3, Obs: &obs}

	require.NoError(t, req.Validate())
	assert.Equal(t, "12345678000199", req.Documento)
	assert.Equal(t, "campanha de natal", *req.Obs)

	for _, quantidade := range []int{0, -2} {
		req := GenerateNumbersRequest{Documento: "12345678901", Quantidade: quantidade}
		assert.Error(t, req.Validate(), "quantidade %d", quantidade)
	}
}

func TestUpdateCampaignRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateCampaignRequest{SeriesNumericas: 2}).Validate())
	assert.Error(t, (&UpdateCampaignRequest{SeriesNumericas: 0}).Validate())
	assert.Error(t, (&UpdateCampaignRequest{SeriesNumericas: -1}).Validate())
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Documento: "123.456.789-01", Senha: "x"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "12345678901", req.Documento)

	assert.Error(t, (&LoginRequest{Documento: "12345678901"}).Validate())
}
