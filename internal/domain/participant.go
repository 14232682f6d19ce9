package domain

import "time"

type Participant struct {
	ID        uint   `json:"id"`
	Documento string `json:"documento"`
	Nome      string `json:"nome"`
	Genero    string `json:"genero,omitempty"`
	Email     string `json:"email,omitempty"`
	Telefone  string `json:"telefone,omitempty"`
	Senha     string `json:"-"`

	Address Address `json:"endereco"`

	DataCadastro time.Time `json:"data_cadastro"`
}

type Address struct {
	Rua         string  `json:"rua,omitempty"`
	Numero      string  `json:"numero,omitempty"`
	Bairro      string  `json:"bairro,omitempty"`
	Complemento *string `json:"complemento,omitempty"`
	CEP         string  `json:"cep,omitempty"`
	Cidade      string  `json:"cidade,omitempty"`
	UF          string  `json:"uf,omitempty"`
}

type ParticipantNumbers struct {
	Participant
	Numeros []LuckyNumber `json:"numeros"`
}

type ParticipantPage struct {
	Participants []ParticipantNumbers `json:"participantes"`
	Total        int64         `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}
