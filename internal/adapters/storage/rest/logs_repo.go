package rest

import (
	"context"
	"net/http"
	"time"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/platform/httpclient"
)

type LogsRepo struct {
	c *httpclient.Client
}

func NewLogsRepo(c *httpclient.Client) *LogsRepo {
	return &LogsRepo{c: c}
}

func (r *LogsRepo) Create(ctx context.Context, l carelogs.Log) (carelogs.Log, error) {
	req := carelogs.CreateLogRequest{
		Type:         l.Type,
		Timestamp:    l.Timestamp.UTC().Format(time.RFC3339),
		Quantity:     l.Quantity,
		DurationMins: l.DurationMins,
	}
	if l.QuantityUnit != nil {
		req.QuantityUnit = *l.QuantityUnit
	}
	if l.Caregiver != nil {
		req.Caregiver = *l.Caregiver
	}
	if l.Notes != nil {
		req.Notes = *l.Notes
	}

	var out carelogs.LogResponse
	if err := r.c.DoJSON(ctx, http.MethodPost, "/pets/"+escape(l.PetID)+"/logs", nil, req, &out); err != nil {
		return carelogs.Log{}, mapErr(err)
	}
	return carelogs.FromResponse(out), nil
}

// GetByID no tiene endpoint propio; la API sólo lista por mascota.
func (r *LogsRepo) GetByID(ctx context.Context, id string) (carelogs.Log, error) {
	return carelogs.Log{}, errUnsupported("logs.get")
}

func (r *LogsRepo) ListByPet(ctx context.Context, petID string) ([]carelogs.Log, error) {
	var raw []carelogs.LogResponse
	if err := r.c.DoJSON(ctx, http.MethodGet, "/pets/"+escape(petID)+"/logs", nil, nil, &raw); err != nil {
		return nil, mapErr(err)
	}
	out := make([]carelogs.Log, 0, len(raw))
	for _, l := range raw {
		out = append(out, carelogs.FromResponse(l))
	}
	return out, nil
}

func (r *LogsRepo) Delete(ctx context.Context, id string) error {
	return mapErr(r.c.DoJSON(ctx, http.MethodDelete, "/logs/"+escape(id), nil, nil, nil))
}
