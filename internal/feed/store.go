package feed

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/normalize"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	DefaultSort     = "createdAt,desc"
)

// PostsQuery is one page request. An empty SubjectID asks for the global feed.
type PostsQuery struct {
	SubjectID model.ID
	Page      int
	Size      int
	Sort      string
}

// Fetcher returns the raw page payload for q. Errors that carry an HTTP
// status should expose it through a StatusCode() int method.
type Fetcher interface {
	FetchPosts(ctx context.Context, q PostsQuery) ([]byte, error)
}

type mutation func(PageState, time.Time) PageState

// Store is the page state of one view. Every method is safe to call from
// several goroutines; the mutex covers bookkeeping only and is never held
// during a fetch.
type Store struct {
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time

	mu         sync.Mutex
	subject    model.ID
	pageSize   int
	state      PageState
	status     Status
	inFlight   bool
	generation uuid.UUID
	closed     bool
	pending    []mutation
	lastErr    error
}

func New(fetcher Fetcher, subject model.ID, pageSize int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return &Store{
		fetcher:    fetcher,
		logger:     logger,
		now:        time.Now,
		subject:    subject,
		pageSize:   pageSize,
		state:      PageState{PageSize: pageSize},
		status:     StatusEmpty,
		generation: uuid.New(),
	}
}

func (s *Store) State() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasMore()
}

// LastError is the error of the most recent failed load, cleared by the next
// successful one.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) Subject() model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

// RequestPage loads a page and merges it by mode. Append ignores pageIndex and
// asks for the page after the current one. The call is a no-op returning the
// current state when a load is already running, or when Append has nothing
// left to load. On failure the state is kept and the error is a *FetchError
// or a *normalize.MalformedResponseError.
func (s *Store) RequestPage(ctx context.Context, pageIndex int, mode Mode) (PageState, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return PageState{}, ErrStoreClosed
	}
	if s.inFlight {
		snapshot := s.state.clone()
		s.mu.Unlock()
		return snapshot, nil
	}
	if mode == Append {
		if !s.state.HasMore() {
			snapshot := s.state.clone()
			s.mu.Unlock()
			return snapshot, nil
		}
		pageIndex = s.state.CurrentPageIndex + 1
	}
	if pageIndex < 0 {
		pageIndex = 0
	}

	s.inFlight = true
	s.status = StatusLoading
	generation := s.generation
	q := PostsQuery{
		SubjectID: s.subject,
		Page:      pageIndex,
		Size:      s.pageSize,
		Sort:      DefaultSort,
	}
	s.mu.Unlock()

	s.logger.Sugar().Debugf("fetching page %d of %q (%s)", pageIndex, string(q.SubjectID), mode)
	frag, err := s.load(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		s.logger.Sugar().Infof("discarding page %d of %q: store was reset", pageIndex, string(q.SubjectID))
		return s.state.clone(), ErrStaleResponse
	}
	s.inFlight = false

	if err != nil {
		s.status = StatusError
		s.lastErr = err
		s.drainPending()
		return s.state.clone(), err
	}

	s.state = merge(s.state, frag, pageIndex, mode, s.pageSize)
	s.status = StatusReady
	s.lastErr = nil
	s.drainPending()

	return s.state.clone(), nil
}

func (s *Store) load(ctx context.Context, q PostsQuery) (normalize.Fragment, error) {
	raw, err := s.fetcher.FetchPosts(ctx, q)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch page %d: %s", q.Page, err.Error())
		return normalize.Fragment{}, newFetchError(q.Page, err)
	}

	frag, err := normalize.Normalize(raw)
	if err != nil {
		s.logger.Sugar().Errorf("failed to normalize page %d: %s", q.Page, err.Error())
		return normalize.Fragment{}, err
	}

	return frag, nil
}

// merge folds a fetched page into the current state.
func merge(cur PageState, frag normalize.Fragment, pageIndex int, mode Mode, pageSize int) PageState {
	incoming := slices.Clone(frag.Items)
	slices.SortStableFunc(incoming, func(a, b model.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	next := PageState{
		CurrentPageIndex: pageIndex,
		TotalPages:       frag.TotalPages,
		TotalItems:       frag.TotalElements,
		PageSize:         pageSize,
	}
	if frag.PageSize > 0 {
		next.PageSize = frag.PageSize
	}

	if mode == Append {
		items := slices.Clone(cur.Items)
		for _, p := range incoming {
			if indexOf(items, p.ID) < 0 {
				items = append(items, p)
			}
		}
		next.Items = items
	} else {
		next.Items = incoming
	}

	if len(incoming) > 0 && next.TotalPages <= pageIndex {
		next.TotalPages = pageIndex + 1
	}
	if next.TotalItems < len(next.Items) {
		next.TotalItems = len(next.Items)
	}

	return next
}

func (s *Store) ApplyCreate(post model.Post) PageState {
	return s.mutate(func(st PageState, _ time.Time) PageState {
		return ApplyCreate(st, post)
	})
}

func (s *Store) ApplyUpdate(id model.ID, patch model.PostPatch) PageState {
	return s.mutate(func(st PageState, now time.Time) PageState {
		return ApplyUpdate(st, id, patch, now)
	})
}

func (s *Store) ApplyDelete(id model.ID) PageState {
	return s.mutate(func(st PageState, _ time.Time) PageState {
		return ApplyDelete(st, id)
	})
}

// mutate applies m now, or queues it until the running load resolves.
func (s *Store) mutate(m mutation) PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state.clone()
	}
	if s.inFlight {
		s.pending = append(s.pending, m)
		return s.state.clone()
	}

	s.state = m(s.state, s.now())
	return s.state.clone()
}

func (s *Store) drainPending() {
	for _, m := range s.pending {
		s.state = m(s.state, s.now())
	}
	s.pending = nil
}

// Reset empties the store for a new subject. A load still running for the
// previous subject is discarded when it returns.
func (s *Store) Reset(subject model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subject = subject
	s.state = PageState{PageSize: s.pageSize}
	s.status = StatusEmpty
	s.inFlight = false
	s.generation = uuid.New()
	s.pending = nil
	s.lastErr = nil
}

// Close detaches the store from its view. Late responses are dropped and
// further requests fail with ErrStoreClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.inFlight = false
	s.generation = uuid.New()
	s.pending = nil
}
