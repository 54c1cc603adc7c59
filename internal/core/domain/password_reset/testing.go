package passwordreset

import (
	"aiexchange/internal/core/domain/user"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type FakeCodeGenerator struct {
	Codes       []Code
	ReturnError bool
	ix          int
	lock        sync.Mutex
}

// NewFakeCodeGenerator returns the given codes in order and repeats the last one.
func NewFakeCodeGenerator(codes ...string) *FakeCodeGenerator {
	g := &FakeCodeGenerator{}
	for _, code := range codes {
		g.Codes = append(g.Codes, Code(code))
	}
	return g
}

func (g *FakeCodeGenerator) GenerateCode() (Code, error) {
	if g.ReturnError {
		return Code(""), fmt.Errorf("could not generate code")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	if len(g.Codes) == 0 {
		panic("no codes configured")
	}
	code := g.Codes[g.ix]
	if g.ix < len(g.Codes)-1 {
		g.ix++
	}
	return code, nil
}

type FakeResetRequestRepository struct {
	Requests    []ResetRequest
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeResetRequestRepository() *FakeResetRequestRepository {
	return &FakeResetRequestRepository{Requests: make([]ResetRequest, 0, 10)}
}

func (r *FakeResetRequestRepository) Create(
	ctx context.Context,
	input CreateResetRequestInput,
) (req ResetRequest, err error) {
	if r.ReturnError {
		return req, fmt.Errorf("could not create reset request for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	req = ResetRequest{
		ID:        input.ID,
		UserID:    input.UserID,
		Code:      input.Code,
		IssuedAt:  input.IssuedAt,
		ExpiresAt: input.ExpiresAt,
	}
	r.Requests = append(r.Requests, req)
	return req, nil
}

func (r *FakeResetRequestRepository) FindByUserAndCode(
	ctx context.Context,
	userID user.ID,
	code Code,
	now time.Time,
) (req ResetRequest, err error) {
	if r.ReturnError {
		return req, fmt.Errorf("could not find reset request for user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	matches := make([]ResetRequest, 0)
	for _, candidate := range r.Requests {
		if candidate.UserID == userID && candidate.Code == code {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return req, ErrCodeNotFound
	}
	sort.SliceStable(matches, func(i, j int) bool {
		iValid, jValid := matches[i].IsValid(now), matches[j].IsValid(now)
		if iValid != jValid {
			return iValid
		}
		return matches[i].IssuedAt.After(matches[j].IssuedAt)
	})
	return matches[0], nil
}

func (r *FakeResetRequestRepository) MarkUsed(ctx context.Context, id ID) error {
	if r.ReturnError {
		return fmt.Errorf("could not mark reset request %s used", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, req := range r.Requests {
		if req.ID == id {
			if req.Used {
				return ErrCodeAlreadyUsed
			}
			r.Requests[ix].Used = true
			return nil
		}
	}
	return ErrCodeNotFound
}

func (r *FakeResetRequestRepository) PurgeStale(ctx context.Context, input PurgeInput) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not purge reset requests")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := make([]ResetRequest, 0, len(r.Requests))
	deleted := int64(0)
	for _, req := range r.Requests {
		if req.IssuedAt.Before(input.IssuedBefore) && !req.IsValid(input.Now) {
			deleted++
			continue
		}
		kept = append(kept, req)
	}
	r.Requests = kept
	return deleted, nil
}

func (r *FakeResetRequestRepository) Snapshot() []ResetRequest {
	r.lock.Lock()
	defer r.lock.Unlock()
	requests := make([]ResetRequest, len(r.Requests))
	copy(requests, r.Requests)
	return requests
}

func (r *FakeResetRequestRepository) Restore(requests []ResetRequest) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Requests = requests
}

func (r *FakeResetRequestRepository) CountByUser(userID user.ID) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, req := range r.Requests {
		if req.UserID == userID {
			count++
		}
	}
	return count
}
