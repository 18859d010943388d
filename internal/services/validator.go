package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/logger"
	"route-optimizer-service/internal/ports"
)

// BookingValidator re-confirms that every booking returned by the source is
// still live. The external system can mutate or delete bookings at any time,
// so the list result is only a candidate set; the per-booking re-read is the
// authoritative check. Validated sets are cached for a short freshness window
// to collapse bursts of near-simultaneous requests into one round trip.
type BookingValidator struct {
	Source     ports.BookingSource
	Cache      ports.BookingCache
	LocationID string
	TTL        time.Duration
	Log        logger.Logger
}

func NewBookingValidator(source ports.BookingSource, cache ports.BookingCache, locationID string, ttl time.Duration, log logger.Logger) *BookingValidator {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingValidator{
		Source:     source,
		Cache:      cache,
		LocationID: locationID,
		TTL:        ttl,
		Log:        log,
	}
}

// Key derives the cache key for a validation window.
func (v *BookingValidator) Key(window domain.TimeWindow) string {
	return fmt.Sprintf("q:%s:%d-%d", v.LocationID, window.Start.Unix(), window.End.Unix())
}

// Validate returns the currently valid bookings for the window.
//
// With forceRefresh set, every cache entry is dropped before recomputing so
// the caller is guaranteed data no older than this call. Otherwise a fresh
// cache entry short-circuits the whole pipeline.
//
// A failing per-booking re-read or customer lookup drops that one booking and
// processing continues; a failing list call aborts with no cache write, since
// no data is safer than an unvalidated list.
func (v *BookingValidator) Validate(ctx context.Context, key string, window domain.TimeWindow, forceRefresh bool) ([]domain.Booking, error) {
	if forceRefresh {
		if err := v.Cache.InvalidateAll(ctx); err != nil {
			v.Log.Warn("cache invalidate failed", logger.Error(err))
		}
	} else {
		cached, ok, err := v.Cache.Get(ctx, key)
		if err != nil {
			v.Log.Warn("cache read failed", logger.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	candidates, err := v.Source.ListBookings(ctx, v.LocationID, window)
	if err != nil {
		return nil, asSourceError("list bookings", err)
	}

	valid := make([]domain.Booking, 0, len(candidates))
	for _, cand := range candidates {
		// Deliberate re-read: the list endpoint may serve entries that were
		// cancelled or rescheduled moments ago.
		fresh, err := v.Source.GetBooking(ctx, cand.ID)
		if err != nil {
			v.Log.Info("dropping booking that failed re-read",
				logger.String("booking_id", cand.ID), logger.Error(err))
			continue
		}

		if fresh.Status != domain.StatusAccepted {
			continue
		}
		if strings.TrimSpace(fresh.CustomerID) == "" {
			continue
		}
		if fresh.StartAt.IsZero() || !window.Contains(fresh.StartAt) {
			continue
		}

		customer, err := v.Source.GetCustomer(ctx, fresh.CustomerID)
		if err != nil {
			v.Log.Info("dropping booking with unresolvable customer",
				logger.String("booking_id", fresh.ID), logger.Error(err))
			continue
		}
		if strings.TrimSpace(customer.Address) == "" {
			continue
		}

		fresh.Address = customer.Address
		fresh.CustomerName = customer.DisplayName()

		if !fresh.Valid(window) {
			continue
		}
		valid = append(valid, fresh)
	}

	if err := v.Cache.Set(ctx, key, valid, v.TTL); err != nil {
		// Best effort: a failed cache write only costs the next caller a
		// revalidation pass.
		v.Log.Warn("cache write failed", logger.Error(err))
	}

	return valid, nil
}

// asSourceError preserves taxonomy errors and wraps everything else.
func asSourceError(op string, err error) error {
	var r domain.Reasoner
	if errors.As(err, &r) {
		return err
	}
	return &domain.BookingSourceError{Op: op, Err: err}
}
