// Package provider resolves which completion backend and model a send
// targets, and persists the user's selection across restarts.
package provider

import (
	"context"
	"sync"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/config"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

// PlaceholderModel is substituted when a provider advertises no models at
// all, so a selection is never undefined.
const PlaceholderModel = "default"

// Selection is the resolved send target
type Selection struct {
	ProviderID int
	Model      string
}

// Listener is notified after a selection change has been persisted
type Listener func(Selection)

// Selector resolves the active provider and model. Resolution order:
// the persisted selection when it is still valid against the live provider
// list, else the default-flagged provider, else the first one. The model
// falls back through the provider's default model, its first available
// model, and the placeholder.
type Selector struct {
	client api.ClientInterface
	state  config.StateStore

	mu        sync.Mutex
	providers []models.Provider
	current   Selection
	resolved  bool
	listeners []Listener
}

// NewSelector creates a selector backed by the given client and state store
func NewSelector(client api.ClientInterface, state config.StateStore) *Selector {
	return &Selector{client: client, state: state}
}

// Resolve fetches the active provider list and determines the selection.
// Returns a ResolutionError when the server has no active providers.
func (s *Selector) Resolve(ctx context.Context) (Selection, error) {
	providers, err := s.client.ListProviders(ctx, true)
	if err != nil {
		return Selection{}, err
	}
	if len(providers) == 0 {
		return Selection{}, apierrors.NewResolutionError("no active providers configured")
	}

	st, err := s.state.Load()
	if err != nil {
		return Selection{}, err
	}

	sel := resolve(providers, st.ProviderID, st.Model)

	s.mu.Lock()
	s.providers = providers
	s.current = sel
	s.resolved = true
	s.mu.Unlock()

	return sel, nil
}

// resolve applies the fallback chain against a concrete provider list
func resolve(providers []models.Provider, persistedID int, persistedModel string) Selection {
	if p, ok := findProvider(providers, persistedID); ok {
		if persistedModel != "" && hasModel(p, persistedModel) {
			return Selection{ProviderID: p.ID, Model: persistedModel}
		}
		// persisted model is gone; keep the provider, refit the model
		return Selection{ProviderID: p.ID, Model: modelFor(p)}
	}

	chosen := providers[0]
	for _, p := range providers {
		if p.IsDefault {
			chosen = p
			break
		}
	}
	return Selection{ProviderID: chosen.ID, Model: modelFor(chosen)}
}

func findProvider(providers []models.Provider, id int) (models.Provider, bool) {
	if id == 0 {
		return models.Provider{}, false
	}
	for _, p := range providers {
		if p.ID == id {
			return p, true
		}
	}
	return models.Provider{}, false
}

func hasModel(p models.Provider, model string) bool {
	for _, m := range p.AvailableModels {
		if m == model {
			return true
		}
	}
	return false
}

func modelFor(p models.Provider) string {
	if p.DefaultModel != "" {
		return p.DefaultModel
	}
	if len(p.AvailableModels) > 0 {
		return p.AvailableModels[0]
	}
	return PlaceholderModel
}

// Current returns the resolved selection. ok is false before Resolve has
// succeeded.
func (s *Selector) Current() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.resolved
}

// Providers returns the provider list from the last successful Resolve
func (s *Selector) Providers() []models.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Subscribe registers a listener for selection changes
func (s *Selector) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Use overrides the in-memory selection for the current invocation without
// persisting it. Zero values keep the resolved counterpart.
func (s *Selector) Use(providerID int, model string) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if providerID != 0 {
		s.current.ProviderID = providerID
	}
	if model != "" {
		s.current.Model = model
	}
	s.resolved = true
	return s.current
}

// Select applies a user selection: the state is persisted first, then
// listeners are notified. There is no debounce; the write happens on the
// calling goroutine before Select returns.
func (s *Selector) Select(providerID int, model string) error {
	s.mu.Lock()
	p, ok := findProvider(s.providers, providerID)
	s.mu.Unlock()
	if !ok {
		return apierrors.NewResolutionError("unknown provider")
	}

	if model == "" || (!hasModel(p, model) && model != p.DefaultModel) {
		model = modelFor(p)
	}

	if err := config.SetSelection(s.state, providerID, model); err != nil {
		return err
	}

	sel := Selection{ProviderID: providerID, Model: model}
	s.mu.Lock()
	s.current = sel
	s.resolved = true
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sel)
	}
	return nil
}
