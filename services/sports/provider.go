// Package sports supplies the live sports grid. Only fixed sample data is
// available; Provider lets a live feed replace it.
package sports

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"streamhub/models"
)

// Provider supplies the current sports events.
type Provider interface {
	Events(ctx context.Context) ([]models.SportEvent, error)
}

// SampleProvider always returns the six sample events.
type SampleProvider struct{}

var _ Provider = SampleProvider{}

// Events returns a copy of the sample events.
func (SampleProvider) Events(context.Context) ([]models.SportEvent, error) {
	return Samples(), nil
}

// Samples returns a copy of the fixed sample sequence.
func Samples() []models.SportEvent {
	out := make([]models.SportEvent, len(sampleEvents))
	copy(out, sampleEvents)
	return out
}

var sampleEvents = []models.SportEvent{
	{ID: 1, Sport: "Football", League: "Premier League", Team1: "Liverpool", Team2: "Manchester City", Team1Logo: logo("LIV"), Team2Logo: logo("MCI"), Score: "2-1", Time: "78'", Icon: "football-ball"},
	{ID: 2, Sport: "Basketball", League: "NBA", Team1: "Lakers", Team2: "Warriors", Team1Logo: logo("LAL"), Team2Logo: logo("GSW"), Score: "108-102", Time: "Q4 5:23", Icon: "basketball-ball"},
	{ID: 3, Sport: "Tennis", League: "Wimbledon", Team1: "Djokovic", Team2: "Nadal", Team1Logo: logo("ND"), Team2Logo: logo("RN"), Score: "6-4, 3-6", Time: "Set 3", Icon: "table-tennis"},
	{ID: 4, Sport: "Cricket", League: "IPL", Team1: "Mumbai", Team2: "Chennai", Team1Logo: logo("MI"), Team2Logo: logo("CSK"), Score: "156/4", Time: "18.2 Overs", Icon: "cricket"},
	{ID: 5, Sport: "Football", League: "La Liga", Team1: "Barcelona", Team2: "Real Madrid", Team1Logo: logo("BAR"), Team2Logo: logo("RMA"), Score: "1-1", Time: "65'", Icon: "football-ball"},
	{ID: 6, Sport: "Basketball", League: "EuroLeague", Team1: "Real Madrid", Team2: "Olympiacos", Team1Logo: logo("RMB"), Team2Logo: logo("OLY"), Score: "85-79", Time: "Q3 2:15", Icon: "basketball-ball"},
}

func logo(code string) string {
	return "https://via.placeholder.com/48?text=" + code
}

// Service loads sports events and masks provider failures with the samples.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService returns a service over provider. A nil provider uses SampleProvider.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if provider == nil {
		provider = SampleProvider{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// Load returns all current events.
func (s *Service) Load(ctx context.Context) []models.SportEvent {
	events, err := s.provider.Events(ctx)
	if err != nil {
		s.logger.Warn("sports provider unavailable, serving samples", zap.Error(err))
		return Samples()
	}
	return events
}

// Filter returns the events of sport, matched case-insensitively. An empty sport returns everything.
func (s *Service) Filter(ctx context.Context, sport string) []models.SportEvent {
	return FilterSports(s.Load(ctx), sport)
}

// FilterSports narrows events to sport without modifying events.
func FilterSports(events []models.SportEvent, sport string) []models.SportEvent {
	sport = strings.TrimSpace(sport)
	if sport == "" || strings.EqualFold(sport, "all") {
		return events
	}
	out := make([]models.SportEvent, 0, len(events))
	for _, event := range events {
		if strings.EqualFold(event.Sport, sport) {
			out = append(out, event)
		}
	}
	return out
}

// Sports lists the distinct sport names of events in first-seen order.
func Sports(events []models.SportEvent) []string {
	seen := make(map[string]bool, len(events))
	var names []string
	for _, event := range events {
		if seen[event.Sport] {
			continue
		}
		seen[event.Sport] = true
		names = append(names, event.Sport)
	}
	return names
}
