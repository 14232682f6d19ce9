package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type GenerateNumbersRequest struct {
	Documento  string  `json:"documento"`
	Quantidade int     `json:"quantidade"`
	Obs        *string `json:"obs,omitempty"`
}

func (req *GenerateNumbersRequest) Validate() error {
	req.Documento = NormalizeDocumento(req.Documento)
	if req.Obs != nil {
		obs := strings.TrimSpace(*req.Obs)
		req.Obs = &obs
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Documento, documentoRules...),
		validation.Field(&req.Quantidade, validation.Required, validation.Min(1)),
		validation.Field(&req.Obs, validation.Length(0, 255)),
	)
}

type GenerateOwnNumbersRequest struct {
	Quantidade int `json:"quantidade"`
}

func (req *GenerateOwnNumbersRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantidade, validation.Required, validation.Min(1)),
	)
}

type UpdateCampaignRequest struct {
	SeriesNumericas int `json:"series_numericas"`
}

func (req *UpdateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SeriesNumericas, validation.Required, validation.Min(1)),
	)
}
