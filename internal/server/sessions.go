package server

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"ghostwood/internal/wizard"
)

const defaultMaxSessions = 256

// sessionRegistry maps session ids to controllers. When full, the least
// recently used session is evicted.
type sessionRegistry struct {
	items *lru.Cache[string, *wizard.Controller]
	build func() *wizard.Controller
}

func newSessionRegistry(max int, build func() *wizard.Controller) *sessionRegistry {
	if max <= 0 {
		max = defaultMaxSessions
	}
	items, err := lru.New[string, *wizard.Controller](max)
	if err != nil {
		// Only a non-positive size fails, which is ruled out above.
		panic(err)
	}
	return &sessionRegistry{items: items, build: build}
}

func (r *sessionRegistry) create() (string, *wizard.Controller) {
	id := uuid.NewString()
	ctl := r.build()
	r.items.Add(id, ctl)
	return id, ctl
}

func (r *sessionRegistry) get(id string) (*wizard.Controller, bool) {
	return r.items.Get(id)
}

func (r *sessionRegistry) remove(id string) bool {
	return r.items.Remove(id)
}

func (r *sessionRegistry) len() int {
	return r.items.Len()
}
