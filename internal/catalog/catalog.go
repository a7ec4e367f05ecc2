// Package catalog supplies the advisor and consumer lists browsed in the
// matching screen, from the built-in demo data, a file, or the store.
package catalog

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/model"
)

// Catalog is an in-memory list of both sides of the marketplace.
type Catalog struct {
	Advisors  []model.AdvisorProfile  `yaml:"advisors"`
	Consumers []model.ConsumerProfile `yaml:"consumers"`
}

// Provider returns catalog entries for browsing.
type Provider interface {
	Advisors(ctx context.Context) ([]model.AdvisorProfile, error)
	Consumers(ctx context.Context) ([]model.ConsumerProfile, error)
}

// Static serves a fixed catalog.
type Static struct {
	cat *Catalog
}

// NewStatic wraps cat. A nil catalog serves the mock data.
func NewStatic(cat *Catalog) *Static {
	if cat == nil {
		cat = Mock()
	}
	return &Static{cat: cat}
}

// Advisors returns a copy of the catalog's advisors.
func (s *Static) Advisors(_ context.Context) ([]model.AdvisorProfile, error) {
	return append([]model.AdvisorProfile(nil), s.cat.Advisors...), nil
}

// Consumers returns a copy of the catalog's consumers.
func (s *Static) Consumers(_ context.Context) ([]model.ConsumerProfile, error) {
	return append([]model.ConsumerProfile(nil), s.cat.Consumers...), nil
}

// ProfileLister is the subset of the store that lists published profiles.
type ProfileLister interface {
	ListAdvisorProfiles(ctx context.Context) ([]model.AdvisorProfile, error)
	ListConsumerProfiles(ctx context.Context) ([]model.ConsumerProfile, error)
}

// StoreBacked serves the profiles users have submitted.
type StoreBacked struct {
	lister ProfileLister
}

// NewStoreBacked creates a provider reading from lister.
func NewStoreBacked(lister ProfileLister) *StoreBacked {
	return &StoreBacked{lister: lister}
}

// Advisors returns the submitted advisors that are visible and accepting
// clients.
func (s *StoreBacked) Advisors(ctx context.Context) ([]model.AdvisorProfile, error) {
	all, err := s.lister.ListAdvisorProfiles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list advisors")
	}
	out := make([]model.AdvisorProfile, 0, len(all))
	for i := range all {
		if all[i].Listed() {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Consumers returns every submitted consumer profile.
func (s *StoreBacked) Consumers(ctx context.Context) ([]model.ConsumerProfile, error) {
	out, err := s.lister.ListConsumerProfiles(ctx)
	return out, eris.Wrap(err, "catalog: list consumers")
}

// Load reads every entry from p into a Catalog.
func Load(ctx context.Context, p Provider) (*Catalog, error) {
	advisors, err := p.Advisors(ctx)
	if err != nil {
		return nil, err
	}
	consumers, err := p.Consumers(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{Advisors: advisors, Consumers: consumers}, nil
}
