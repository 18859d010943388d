package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/ports"
)

// geocodeConcurrency caps parallel geocoding calls so fan-out stays inside
// the provider's rate budget.
const geocodeConcurrency = 5

// GeocodeStops resolves address labels into stops, preserving input order.
// Independent lookups fan out in parallel; any failure aborts the batch,
// since a caller-supplied address that cannot be placed makes the whole
// optimization request unanswerable.
func GeocodeStops(ctx context.Context, geocoder ports.Geocoder, labels []string) ([]domain.Stop, error) {
	stops := make([]domain.Stop, len(labels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)

	for i, label := range labels {
		i, label := i, label
		g.Go(func() error {
			coord, err := geocoder.Geocode(ctx, label)
			if err != nil {
				return fmt.Errorf("geocode stop %q: %w", label, err)
			}
			stops[i] = domain.Stop{Label: label, Coord: coord}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stops, nil
}

// GeocodeBookingStops geocodes each booking's customer address, carrying the
// customer name and scheduled time onto the stop. A booking whose address
// cannot be resolved is dropped rather than failing the batch.
func GeocodeBookingStops(ctx context.Context, geocoder ports.Geocoder, bks []domain.Booking, log logger.Logger) ([]domain.Stop, error) {
	if log == nil {
		log = logger.Nop()
	}

	resolved := make([]*domain.Stop, len(bks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)

	for i, bk := range bks {
		i, bk := i, bk
		g.Go(func() error {
			coord, err := geocoder.Geocode(gctx, bk.Address)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Info("dropping booking with ungeocodable address",
					logger.String("booking_id", bk.ID), logger.Error(err))
				return nil
			}
			startAt := bk.StartAt
			resolved[i] = &domain.Stop{
				Label:        bk.Address,
				Coord:        coord,
				CustomerName: bk.CustomerName,
				ScheduledAt:  &startAt,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stops := make([]domain.Stop, 0, len(bks))
	for _, s := range resolved {
		if s != nil {
			stops = append(stops, *s)
		}
	}
	return stops, nil
}
