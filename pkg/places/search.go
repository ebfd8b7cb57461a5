package places

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carescout/carescout/internal/model"
)

// detailConcurrency bounds parallel details lookups. The details
// endpoint is the slow leg; four in flight keeps a 20-result search
// under a few seconds without tripping rate limits.
const detailConcurrency = 4

// SearchOptions configures SearchProviders.
type SearchOptions struct {
	RadiusMeters int    // default 5000
	Keyword      string // default "daycare"
	Limit        int    // max candidates, 0 means all results
}

// SearchProviders geocodes an address, runs a nearby search around it,
// and resolves contact details for each hit. Details lookups run
// concurrently; result order follows the nearby-search ranking. A
// provider whose details lookup fails is kept with summary fields only.
func SearchProviders(ctx context.Context, c Client, address string, opts SearchOptions) ([]model.ProviderCandidate, error) {
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = 5000
	}
	if opts.Keyword == "" {
		opts.Keyword = "daycare"
	}

	origin, err := c.Geocode(ctx, address)
	if err != nil {
		return nil, eris.Wrapf(err, "places: geocode %q", address)
	}

	summaries, err := c.Nearby(ctx, origin, opts.RadiusMeters, opts.Keyword, opts.Limit)
	if err != nil {
		return nil, eris.Wrap(err, "places: nearby search")
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	candidates := make([]model.ProviderCandidate, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, s := range summaries {
		g.Go(func() error {
			cand := model.ProviderCandidate{
				Name:           s.Name,
				Address:        s.Vicinity,
				Rating:         s.Rating,
				DistanceMeters: haversineMeters(origin, s.Location),
			}

			det, err := c.Details(gctx, s.PlaceID)
			if err != nil {
				zap.L().Warn("places: details lookup failed, keeping summary fields",
					zap.String("name", s.Name),
					zap.Error(err),
				)
			} else {
				if det.FormattedAddress != "" {
					cand.Address = det.FormattedAddress
				}
				cand.Phone = det.Phone
				cand.Website = det.Website
				if det.Rating > 0 {
					cand.Rating = det.Rating
				}
			}

			candidates[i] = cand
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "places: resolve details")
	}

	zap.L().Info("places: search complete",
		zap.String("address", address),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

const earthRadiusMeters = 6371000

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
