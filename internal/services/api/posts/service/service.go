// Package service runs filter submissions against the posts store
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"postfilter/internal/core/filtersql"
	"postfilter/internal/core/filtertree"
	"postfilter/internal/modkit/repokit"
	"postfilter/internal/platform/logger"
	"postfilter/internal/services/api/posts/domain"
	"postfilter/internal/services/api/posts/repo"
)

// Service defines the service contract for post queries
type Service interface{ domain.ServicePort }

// Options configures a Svc
type Options struct {
	Codec        *filtertree.Codec
	Dialect      filtersql.Dialect
	DefaultLimit int
	Submissions  repo.SubmissionLog // optional
	Now          func() time.Time
	NewID        func() uuid.UUID
}

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo

	codec  *filtertree.Codec
	tr     *filtersql.Translator
	limit  int
	subs   repo.SubmissionLog
	now    func() time.Time
	nextID func() uuid.UUID
}

// DefaultLimit caps results when neither the request nor config sets one
const DefaultLimit = 500

// New creates a posts service; the binder decides which store answers and
// opts.Dialect must match it. Queries are single reads, so the repo is bound once to db
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("posts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("posts.Service requires a non nil Repo binder")
	}
	if opts.Codec == nil {
		opts.Codec = filtertree.NewCodec(nil, 0)
	}
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	return &Svc{
		Repo:   binder.Bind(db),
		codec:  opts.Codec,
		tr:     filtersql.New(opts.Dialect, filtersql.WithCodec(opts.Codec)),
		limit:  opts.DefaultLimit,
		subs:   opts.Submissions,
		now:    opts.Now,
		nextID: opts.NewID,
	}
}

// Filter decodes the submitted tree, renders it and returns matching posts
// nothing reaches the store unless the tree is submittable
func (s *Svc) Filter(ctx context.Context, in domain.FilterInput) (domain.FilterResult, error) {
	tree, err := s.codec.Decode(filtertree.PayloadFromJSON(in.Filters))
	if err != nil {
		return domain.FilterResult{}, err
	}
	where, args, err := s.tr.Where(tree)
	if err != nil {
		return domain.FilterResult{}, err
	}

	limit := s.limit
	if in.Limit > 0 && in.Limit < limit {
		limit = in.Limit
	}

	id := s.nextID()
	log := logger.C(ctx).With().Str("submission_id", id.String()).Str("backend", s.tr.Dialect().String()).Logger()

	start := s.now()
	rows, err := s.Repo.Find(ctx, where, args, limit)
	if err != nil {
		log.Error().Err(err).Msg("filter query failed")
		return domain.FilterResult{}, err
	}
	elapsed := s.now().Sub(start)

	out := domain.FilterResult{
		SubmissionID: id.String(),
		Backend:      s.tr.Dialect().String(),
		Count:        len(rows),
		Posts:        make([]domain.Post, 0, len(rows)),
	}
	for _, r := range rows {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Posts = append(out.Posts, domain.Post{
			ID:        r.ID,
			Title:     r.Title,
			Tags:      tags,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	log.Info().
		Int("conditions", tree.CountConditions()).
		Int("depth", tree.Depth()).
		Int("matched", out.Count).
		Dur("elapsed", elapsed).
		Msg("filter submitted")

	if s.subs != nil {
		wire, err := s.codec.Marshal(tree)
		if err != nil {
			log.Warn().Err(err).Msg("encode filter submission failed")
		}
		rec := repo.Submission{
			ID:         id,
			At:         start,
			Backend:    out.Backend,
			Filters:    string(wire),
			Where:      where,
			Conditions: tree.CountConditions(),
			Depth:      tree.Depth(),
			Matched:    out.Count,
			Elapsed:    elapsed,
		}
		// the audit row is best effort; the caller already has its answer
		if err := s.subs.Record(ctx, rec); err != nil {
			log.Warn().Err(err).Msg("record filter submission failed")
		}
	}
	return out, nil
}
