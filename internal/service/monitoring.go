package service

import (
	"context"

	"vedic_counter/internal/models"
)

// stateViewer turns a state into what clients render.
type stateViewer interface {
	View(models.CounterState) models.CounterView
}

type MonitoringService struct {
	session *Session
	viewer  stateViewer
}

func NewMonitoringService(session *Session, viewer stateViewer) *MonitoringService {
	return &MonitoringService{session: session, viewer: viewer}
}

// GetState returns the live counter view including the transient message flags.
func (s *MonitoringService) GetState(ctx context.Context) (models.CounterView, error) {
	if err := ctx.Err(); err != nil {
		return models.CounterView{}, err
	}
	return s.viewer.View(s.session.State()), nil
}
