package cron

import (
	"context"
	"fmt"

	missionRepo "carebook/database/repository/mission"
	"carebook/models"
	"carebook/services/metrics"

	"go.uber.org/zap"
)

// IntegrityScanner looks for active missions of one provider and date whose
// times overlap. Overlaps are reported, never repaired.
type IntegrityScanner struct {
	Repo    missionRepo.MissionRepository
	Metrics *metrics.BookingMetrics
	Logger  *zap.Logger
}

type dayKey struct {
	providerID string
	date       string
}

func intersection(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	var out []string
	for _, t := range b {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	models.SortTimeLabels(out)
	return out
}

// Scan walks every active mission and returns each overlapping pair.
func (s *IntegrityScanner) Scan(ctx context.Context) ([]models.IntegrityViolation, error) {
	days := make(map[dayKey][]models.Mission)
	err := s.Repo.ScanActive(ctx, func(m models.Mission) error {
		k := dayKey{m.ProviderID, m.Date}
		days[k] = append(days[k], m)
		return ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("integrity scan: %w", err)
	}

	var violations []models.IntegrityViolation
	for k, ms := range days {
		for i := 0; i < len(ms); i++ {
			for j := i + 1; j < len(ms); j++ {
				shared := intersection(ms[i].Times, ms[j].Times)
				if len(shared) == 0 {
					continue
				}
				v := models.IntegrityViolation{
					ProviderID: k.providerID,
					Date:       k.date,
					MissionA:   ms[i].ID,
					MissionB:   ms[j].ID,
					Times:      shared,
				}
				violations = append(violations, v)
				s.Logger.Error("Overlapping active missions",
					zap.String("tag", "integrity"),
					zap.String("providerID", v.ProviderID),
					zap.String("date", v.Date),
					zap.String("missionA", v.MissionA),
					zap.String("missionB", v.MissionB),
					zap.Strings("times", v.Times))
			}
		}
	}

	s.Metrics.ObserveViolations(len(violations))
	s.Logger.Info("Integrity scan finished", zap.Int("days", len(days)), zap.Int("violations", len(violations)))
	return violations, nil
}
