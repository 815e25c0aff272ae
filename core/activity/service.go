// Package activity implements the generic, schema-driven CRUD machinery:
// a Definition describes one record type, and one Service produces uniform
// list/create/update/delete behavior for all of them, with owner-scoped
// authorization and pagination.
package activity

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
)

type (
	// Repository is the persistence contract, one collection per record
	// type. Find returns the page of matching records plus the filtered
	// total, not the full collection count.
	Repository interface {
		Find(ctx context.Context, def Definition, filter ListFilter) ([]Record, int64, error)
		Get(ctx context.Context, def Definition, id string) (Record, error)
		Create(ctx context.Context, def Definition, rec Record) (Record, error)
		Update(ctx context.Context, def Definition, id string, rec Record) (Record, error)
		Delete(ctx context.Context, def Definition, id string) error
		// NextSequence atomically increments and returns a named counter.
		NextSequence(ctx context.Context, name string) (int64, error)
	}

	Service struct {
		registry *Registry
		repo     Repository
		mailSvc  core.EmailService
	}
)

func NewService(registry *Registry, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{registry: registry, repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Registry() *Registry {
	return svc.registry
}

// Definition resolves a resource name; unknown resources map to
// core.ErrNotFound.
func (svc *Service) Definition(resource string) (Definition, error) {
	def, ok := svc.registry.Get(resource)
	if !ok {
		return Definition{}, core.ErrNotFound
	}
	return def, nil
}

// List returns the owner's records matching the filter plus the pagination
// envelope. The owner scope comes from the session, never the client.
func (svc *Service) List(ctx context.Context, def Definition, owner string, filter ListFilter) ([]Record, Pagination, error) {
	filter.CreatedBy = owner
	cleanFilter(def, &filter)

	recs, total, err := svc.repo.Find(ctx, def, filter)
	if err != nil {
		return nil, Pagination{}, errors.Wrapf(err, "listing %s", def.Name)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, NewPagination(total, filter.Page, filter.Limit), nil
}

// ListPublic serves the unauthenticated read views: no owner scoping,
// hard-filtered to published records.
func (svc *Service) ListPublic(ctx context.Context, def Definition, filter ListFilter) ([]Record, Pagination, error) {
	filter.CreatedBy = ""
	filter.PublishedOnly = true
	cleanFilter(def, &filter)

	recs, total, err := svc.repo.Find(ctx, def, filter)
	if err != nil {
		return nil, Pagination{}, errors.Wrapf(err, "listing public %s", def.Name)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, NewPagination(total, filter.Page, filter.Limit), nil
}

// Create stamps ownership and timestamps and persists the record. Beyond
// the reserved keys the payload is trusted as given; per-type validation
// happens in the form engine before submission.
func (svc *Service) Create(ctx context.Context, def Definition, owner string, rec Record) (Record, error) {
	rec = rec.Clone()
	delete(rec, KeyID)
	rec[KeyCreatedBy] = owner
	if _, ok := rec[KeyPublished].(bool); !ok {
		rec[KeyPublished] = false
	}
	now := time.Now().UTC()
	rec[KeyCreatedAt] = now
	rec[KeyUpdatedAt] = now

	created, err := svc.repo.Create(ctx, def, rec)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", def.Name)
	}
	svc.maybeNotify(def, created)
	return created, nil
}

// Update loads the existing record first and rejects unless the caller owns
// it; ownership is enforced before mutation, never inferred from the
// payload. A missing record is also rejected as not-owned.
func (svc *Service) Update(ctx context.Context, def Definition, owner, id string, rec Record) (Record, error) {
	existing, err := svc.getOwned(ctx, def, owner, id)
	if err != nil {
		return nil, err
	}

	rec = rec.Clone()
	delete(rec, KeyID)
	delete(rec, KeyCreatedBy)
	delete(rec, KeyCreatedAt)
	rec[KeyUpdatedAt] = time.Now().UTC()

	updated, err := svc.repo.Update(ctx, def, id, rec)
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s", def.Name)
	}
	if !existing.Published() && updated.Published() {
		svc.maybeNotify(def, updated)
	}
	return updated, nil
}

// Delete removes the record permanently under the same ownership check as
// Update. There is no soft delete.
func (svc *Service) Delete(ctx context.Context, def Definition, owner, id string) error {
	if _, err := svc.getOwned(ctx, def, owner, id); err != nil {
		return err
	}
	if err := svc.repo.Delete(ctx, def, id); err != nil {
		return errors.Wrapf(err, "deleting %s", def.Name)
	}
	return nil
}

// Get returns one owned record.
func (svc *Service) Get(ctx context.Context, def Definition, owner, id string) (Record, error) {
	return svc.getOwned(ctx, def, owner, id)
}

// NextSequence exposes the atomic counter, used for human-readable ids such
// as asset tags.
func (svc *Service) NextSequence(ctx context.Context, name string) (int64, error) {
	n, err := svc.repo.NextSequence(ctx, name)
	return n, errors.Wrapf(err, "incrementing sequence %q", name)
}

// cleanFilter normalizes pagination and drops per-field filters on
// anything that is not a declared search field; filters may come from
// arbitrary query parameters.
func cleanFilter(def Definition, filter *ListFilter) {
	for fld := range filter.Fields {
		if !def.HasSearchField(fld) {
			delete(filter.Fields, fld)
		}
	}
	filter.Clean()
}

func (svc *Service) getOwned(ctx context.Context, def Definition, owner, id string) (Record, error) {
	existing, err := svc.repo.Get(ctx, def, id)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return nil, core.ErrNotOwner
		}
		return nil, errors.Wrapf(err, "loading %s", def.Name)
	}
	if existing.CreatedBy() != owner {
		return nil, core.ErrNotOwner
	}
	return existing, nil
}

func (svc *Service) maybeNotify(def Definition, rec Record) {
	if !def.Notify || svc.mailSvc == nil || !rec.Published() {
		return
	}
	list := core.Conf.AnnounceList
	if len(list) == 0 {
		return
	}
	to := make([]mail.Address, 0, len(list))
	for _, addr := range list {
		to = append(to, mail.Address{Address: addr})
	}
	title, _ := rec["title"].(string)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New %s published", def.Label),
		BodyStr: fmt.Sprintf("%q was just published on the department portal by %s.", title, rec.CreatedBy()),
	})
}
