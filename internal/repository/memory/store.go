// Package memory provides an in-process storage backend. It backs the test
// suite and the STORAGE=memory development mode, so it mirrors the ordering
// and error semantics of the Postgres adapter exactly.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
)

// Store holds all wiki data in maps guarded by a single mutex.
type Store struct {
	mu       sync.RWMutex
	pages    map[int64]*models.Page
	terms    map[int64]*models.Term
	tags     map[int64]map[string]int64 // pageID -> taxonomy -> termID
	nextPage int64
	nextTerm int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		pages:    make(map[int64]*models.Page),
		terms:    make(map[int64]*models.Term),
		tags:     make(map[int64]map[string]int64),
		nextPage: 1,
		nextTerm: 1,
	}
}

// Pages returns the store's page repository view.
func (s *Store) Pages() wikirepo.PageRepository { return &pageRepo{s} }

// Terms returns the store's term repository view.
func (s *Store) Terms() wikirepo.TermRepository { return &termRepo{s} }

type pageRepo struct{ s *Store }

func (r *pageRepo) Create(_ context.Context, p *models.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextPage
	r.s.nextPage++
	cp := *p
	r.s.pages[p.ID] = &cp
	return nil
}

func (r *pageRepo) GetByID(_ context.Context, id int64) (*models.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *pageRepo) Update(_ context.Context, p *models.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pages[p.ID]; !ok {
		return fmt.Errorf("page %d: %w", p.ID, domain.ErrNotFound)
	}
	cp := *p
	r.s.pages[p.ID] = &cp
	return nil
}

func (r *pageRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pages[id]; !ok {
		return fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.pages, id)
	delete(r.s.tags, id)
	return nil
}

func (r *pageRepo) Query(_ context.Context, q *wikirepo.PageQuery) ([]models.Page, error) {
	if q == nil {
		q = &wikirepo.PageQuery{}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Page
	for _, p := range r.s.pages {
		if q.ProjectID != nil && r.s.tags[p.ID][models.TaxonomyProject] != *q.ProjectID {
			continue
		}
		if q.SectionID != nil && r.s.tags[p.ID][models.TaxonomySection] != *q.SectionID {
			continue
		}
		if len(q.ExcludeProjectIDs) > 0 {
			projectID := r.s.tags[p.ID][models.TaxonomyProject]
			excluded := false
			for _, id := range q.ExcludeProjectIDs {
				if projectID == id {
					excluded = true
					break
				}
			}
			if excluded {
				continue
			}
		}
		if q.Parent != nil && p.Parent != *q.Parent {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Content), needle) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].MenuOrder != matched[j].MenuOrder {
			return matched[i].MenuOrder < matched[j].MenuOrder
		}
		return matched[i].ID < matched[j].ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

type termRepo struct{ s *Store }

func (r *termRepo) List(_ context.Context, taxonomy string) ([]models.Term, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var terms []models.Term
	for _, t := range r.s.terms {
		if t.Taxonomy != taxonomy {
			continue
		}
		cp := *t
		cp.Count = r.s.countPages(t.ID, taxonomy)
		terms = append(terms, cp)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Name < terms[j].Name })
	return terms, nil
}

// countPages counts published pages tagged with the term. Caller holds the lock.
func (s *Store) countPages(termID int64, taxonomy string) int {
	n := 0
	for pageID, tags := range s.tags {
		if tags[taxonomy] != termID {
			continue
		}
		if p, ok := s.pages[pageID]; ok && p.Status == models.StatusPublish {
			n++
		}
	}
	return n
}

func (r *termRepo) GetBySlug(_ context.Context, taxonomy, slug string) (*models.Term, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.terms {
		if t.Taxonomy == taxonomy && t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("term %s/%s: %w", taxonomy, slug, domain.ErrNotFound)
}

func (r *termRepo) Create(_ context.Context, t *models.Term) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.terms {
		if existing.Taxonomy == t.Taxonomy && existing.Slug == t.Slug {
			return fmt.Errorf("term %s/%s already exists", t.Taxonomy, t.Slug)
		}
	}
	t.ID = r.s.nextTerm
	r.s.nextTerm++
	cp := *t
	r.s.terms[t.ID] = &cp
	return nil
}

func (r *termRepo) Update(_ context.Context, t *models.Term) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.terms[t.ID]; !ok {
		return fmt.Errorf("term %d: %w", t.ID, domain.ErrNotFound)
	}
	cp := *t
	r.s.terms[t.ID] = &cp
	return nil
}

func (r *termRepo) TagPage(_ context.Context, pageID, termID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.terms[termID]
	if !ok {
		return fmt.Errorf("term %d: %w", termID, domain.ErrNotFound)
	}
	if r.s.tags[pageID] == nil {
		r.s.tags[pageID] = make(map[string]int64)
	}
	r.s.tags[pageID][t.Taxonomy] = termID
	return nil
}

func (r *termRepo) PageTerm(_ context.Context, pageID int64, taxonomy string) (*models.Term, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	termID, ok := r.s.tags[pageID][taxonomy]
	if !ok {
		return nil, fmt.Errorf("page %d %s term: %w", pageID, taxonomy, domain.ErrNotFound)
	}
	t, ok := r.s.terms[termID]
	if !ok {
		return nil, fmt.Errorf("term %d: %w", termID, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *termRepo) HasPages(_ context.Context, projectID, sectionID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for pageID, tags := range r.s.tags {
		if tags[models.TaxonomyProject] != projectID || tags[models.TaxonomySection] != sectionID {
			continue
		}
		if p, ok := r.s.pages[pageID]; ok && p.Status == models.StatusPublish {
			return true, nil
		}
	}
	return false, nil
}
