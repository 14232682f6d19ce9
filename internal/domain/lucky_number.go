package domain

import "time"

const (
	ObsManualIssue = "Número gerado manualmente"
	ObsSelfIssue   = "Número gerado pelo participante"
)

type LuckyNumber struct {
	Numero    int       `json:"numero"`
	Documento string    `json:"documento"`
	Lote      string    `json:"lote"`
	Obs       *string   `json:"obs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Allocation is the outcome of one successful generate request.
type Allocation struct {
	Documento string
	Lote      string
	Numbers   []int
	// Registered is set when the participant was created by this request.
	Registered bool
}
