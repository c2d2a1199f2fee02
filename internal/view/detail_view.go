package view

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"

	"catalog-browser/internal/client"
	"catalog-browser/internal/models"
)

// DetailState is the lifecycle of a DetailView.
type DetailState string

const (
	DetailIdle     DetailState = "idle"
	DetailFetching DetailState = "fetching"
	DetailLoaded   DetailState = "loaded"
	DetailNotFound DetailState = "not-found"
	DetailFailed   DetailState = "failed"
)

// DetailSnapshot is a copy of a DetailView. Product is nil unless State is
// DetailLoaded.
type DetailSnapshot struct {
	State   DetailState     `json:"state"`
	ID      int             `json:"id"`
	Product *models.Product `json:"product"`
	Err     error           `json:"-"`
	Error   string          `json:"error,omitempty"`
}

// DetailView shows a single product selected by a navigation parameter.
// A newer navigation cancels the fetch of the previous one, and only the
// latest navigation's result is kept.
type DetailView struct {
	src Source

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	state   DetailState
	id      int
	product *models.Product
	err     error
}

func NewDetailView(src Source) *DetailView {
	return &DetailView{
		src:   src,
		state: DetailIdle,
	}
}

// ParseID coerces a navigation parameter into a product id.
func ParseID(param string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil || id <= 0 {
		return 0, client.ErrInvalidID
	}
	return id, nil
}

// Navigate selects the product named by param and fetches it. It returns
// the view as it stands once this navigation has settled, or the newer
// state if another navigation superseded it.
func (v *DetailView) Navigate(ctx context.Context, param string) DetailSnapshot {
	id, err := ParseID(param)

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	seq := v.seq
	v.id = id
	v.product = nil
	if err != nil {
		v.state = DetailFailed
		v.err = err
		s := v.snapshot()
		v.mu.Unlock()
		return s
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state = DetailFetching
	v.err = nil
	v.mu.Unlock()

	product, err := v.src.FetchProductByID(fetchCtx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()

	if seq != v.seq {
		// Superseded by a later navigation.
		return v.snapshot()
	}
	v.cancel = nil

	switch {
	case err == nil && product != nil:
		v.state = DetailLoaded
		v.product = product
	case err == nil || errors.Is(err, client.ErrNotFound):
		v.state = DetailNotFound
		v.err = client.ErrNotFound
	default:
		log.Printf("❌ Error fetching product %d: %v", id, err)
		v.state = DetailFailed
		v.err = err
	}
	return v.snapshot()
}

// Snapshot returns the current state of the view.
func (v *DetailView) Snapshot() DetailSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

// Product returns the loaded product, or nil.
func (v *DetailView) Product() *models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.product
}

func (v *DetailView) snapshot() DetailSnapshot {
	s := DetailSnapshot{
		State:   v.state,
		ID:      v.id,
		Product: v.product,
		Err:     v.err,
	}
	if v.err != nil {
		s.Error = v.err.Error()
	}
	return s
}
