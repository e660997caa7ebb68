package dto

import "encoding/json"

// PropagateRequest cuerpo de POST /api/propagar/:nivel/:id.
type PropagateRequest struct {
	RemoveMissing bool            `json:"removeMissing"`
	OldDef        json.RawMessage `json:"oldDef"`
}

// PropagationResponse IDs de los registros reescritos por una propagación.
type PropagationResponse struct {
	OK         bool     `json:"ok"`
	Level      string   `json:"nivel"`
	SourceID   string   `json:"id"`
	Categories []string `json:"categorias"`
	Models     []string `json:"modelos"`
	Assets     []string `json:"activos"`
}
