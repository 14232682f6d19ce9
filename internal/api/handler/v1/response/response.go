package response

import (
	"time"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
)

type GenerateNumbersResponse struct {
	Success           bool     `json:"success"`
	Documento         string   `json:"documento"`
	Lote              string   `json:"lote"`
	Numeros           []int    `json:"numeros"`
	NumerosFormatados []string `json:"numeros_formatados"`
}

func NewGenerateNumbersResponse(alloc domain.Allocation) GenerateNumbersResponse {
	return GenerateNumbersResponse{
		Success:           true,
		Documento:         alloc.Documento,
		Lote:              alloc.Lote,
		Numeros:           alloc.Numbers,
		NumerosFormatados: luckynumber.FormatAll(alloc.Numbers),
	}
}

type LuckyNumber struct {
	Numero    int       `json:"numero"`
	Formatado string    `json:"formatado"`
	Lote      string    `json:"lote"`
	Obs       *string   `json:"obs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLuckyNumbers(numbers []domain.LuckyNumber) []LuckyNumber {
	out := make([]LuckyNumber, len(numbers))
	for i, n := range numbers {
		out[i] = LuckyNumber{
			Numero:    n.Numero,
			Formatado: luckynumber.Format(n.Numero),
			Lote:      n.Lote,
			Obs:       n.Obs,
			CreatedAt: n.CreatedAt,
		}
	}

	return out
}

type NumbersResponse struct {
	Success   bool          `json:"success"`
	Documento string        `json:"documento"`
	Total     int           `json:"total"`
	Numeros   []LuckyNumber `json:"numeros"`
}

func NewNumbersResponse(documento string, numbers []domain.LuckyNumber) NumbersResponse {
	return NumbersResponse{
		Success:   true,
		Documento: documento,
		Total:     len(numbers),
		Numeros:   NewLuckyNumbers(numbers),
	}
}

type LoginResponse struct {
	Success     bool               `json:"success"`
	Token       string             `json:"token"`
	Participant domain.Participant `json:"participante"`
}

type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type SignupResponse struct {
	Success     bool               `json:"success"`
	Participant domain.Participant `json:"participante"`
}

type ResetPasswordResponse struct {
	Success   bool   `json:"success"`
	NovaSenha string `json:"nova_senha"`
}

type CampaignResponse struct {
	Success           bool      `json:"success"`
	SeriesNumericas   int       `json:"series_numericas"`
	MaxNumber         int       `json:"max_number"`
	RangeStart        string    `json:"range_start"`
	RangeEnd          string    `json:"range_end"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
	UsingDefaultValue bool      `json:"default"`
}

func NewCampaignResponse(conf domain.CampaignConfig) CampaignResponse {
	return CampaignResponse{
		Success:           true,
		SeriesNumericas:   conf.SeriesNumericas,
		MaxNumber:         conf.MaxNumber,
		RangeStart:        luckynumber.Format(0),
		RangeEnd:          luckynumber.Format(conf.MaxNumber - 1),
		UpdatedAt:         conf.UpdatedAt,
		UsingDefaultValue: conf.Default,
	}
}

type StatsResponse struct {
	Success bool `json:"success"`
	domain.CampaignStats
}

type Participant struct {
	domain.Participant
	Numeros []LuckyNumber `json:"numeros"`
}

func NewParticipant(p domain.ParticipantNumbers) Participant {
	return Participant{
		Participant: p.Participant,
		Numeros:     NewLuckyNumbers(p.Numeros),
	}
}

type ParticipantsResponse struct {
	Success      bool          `json:"success"`
	Participants []Participant `json:"participantes"`
	Total        int64         `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

func NewParticipantsResponse(page domain.ParticipantPage) ParticipantsResponse {
	participants := make([]Participant, len(page.Participants))
	for i, p := range page.Participants {
		participants[i] = NewParticipant(p)
	}

	return ParticipantsResponse{
		Success:      true,
		Participants: participants,
		Total:        page.Total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
}

type ParticipantResponse struct {
	Success     bool        `json:"success"`
	Participant Participant `json:"participante"`
}
