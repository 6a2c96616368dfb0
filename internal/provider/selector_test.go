package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/config"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

func testProviders() []models.Provider {
	return []models.Provider{
		{ID: 1, ProviderName: "OpenAI", DefaultModel: "gpt-4o", AvailableModels: []string{"gpt-4o", "gpt-4o-mini"}, IsActive: true},
		{ID: 2, ProviderName: "Anthropic", DefaultModel: "claude-sonnet", AvailableModels: []string{"claude-sonnet", "claude-haiku"}, IsActive: true, IsDefault: true},
		{ID: 3, ProviderName: "Local", IsActive: true},
	}
}

func newTestSelector(t *testing.T, providers []models.Provider, persisted config.State) (*Selector, *config.FileStateStore) {
	t.Helper()
	store := config.NewStateStore(t.TempDir())
	if persisted != (config.State{}) {
		if err := store.Save(persisted); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	mock := &api.MockClient{ProvidersVal: providers}
	return NewSelector(mock, store), store
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		persisted config.State
		want      Selection
	}{
		{
			name:      "persisted selection still valid",
			persisted: config.State{ProviderID: 1, Model: "gpt-4o-mini"},
			want:      Selection{ProviderID: 1, Model: "gpt-4o-mini"},
		},
		{
			name:      "persisted model gone keeps provider",
			persisted: config.State{ProviderID: 1, Model: "gpt-3.5-turbo"},
			want:      Selection{ProviderID: 1, Model: "gpt-4o"},
		},
		{
			name:      "persisted provider gone falls back to default",
			persisted: config.State{ProviderID: 99, Model: "gpt-4o"},
			want:      Selection{ProviderID: 2, Model: "claude-sonnet"},
		},
		{
			name: "no persisted state picks default provider",
			want: Selection{ProviderID: 2, Model: "claude-sonnet"},
		},
		{
			name:      "provider without models gets placeholder",
			persisted: config.State{ProviderID: 3},
			want:      Selection{ProviderID: 3, Model: PlaceholderModel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, _ := newTestSelector(t, testProviders(), tt.persisted)
			got, err := sel.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveNoDefaultFlag(t *testing.T) {
	providers := []models.Provider{
		{ID: 5, ProviderName: "Only", DefaultModel: "m1", AvailableModels: []string{"m1"}},
	}
	sel, _ := newTestSelector(t, providers, config.State{})

	got, err := sel.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.ProviderID != 5 || got.Model != "m1" {
		t.Errorf("Resolve() = %+v, want first provider", got)
	}
}

func TestResolveNoProviders(t *testing.T) {
	sel, _ := newTestSelector(t, nil, config.State{})

	_, err := sel.Resolve(context.Background())
	if !errors.Is(err, apierrors.ErrNoProvider) {
		t.Errorf("Resolve() error = %v, want ErrNoProvider", err)
	}
	if _, ok := sel.Current(); ok {
		t.Error("Current() ok = true after failed resolve")
	}
}

func TestSelect(t *testing.T) {
	sel, store := newTestSelector(t, testProviders(), config.State{Token: "tok"})
	if _, err := sel.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	var notified []Selection
	sel.Subscribe(func(s Selection) { notified = append(notified, s) })

	if err := sel.Select(1, "gpt-4o-mini"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	got, ok := sel.Current()
	if !ok || got != (Selection{ProviderID: 1, Model: "gpt-4o-mini"}) {
		t.Errorf("Current() = %+v, %v", got, ok)
	}
	if len(notified) != 1 || notified[0] != got {
		t.Errorf("listeners notified = %v", notified)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.ProviderID != 1 || st.Model != "gpt-4o-mini" {
		t.Errorf("persisted state = %+v", st)
	}
	if st.Token != "tok" {
		t.Errorf("token = %q, want preserved", st.Token)
	}
}

func TestSelectInvalidModel(t *testing.T) {
	sel, _ := newTestSelector(t, testProviders(), config.State{})
	if _, err := sel.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if err := sel.Select(2, "no-such-model"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	got, _ := sel.Current()
	if got.Model != "claude-sonnet" {
		t.Errorf("Model = %q, want provider default", got.Model)
	}
}

func TestSelectUnknownProvider(t *testing.T) {
	sel, _ := newTestSelector(t, testProviders(), config.State{})
	if _, err := sel.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if err := sel.Select(42, "m"); !errors.Is(err, apierrors.ErrNoProvider) {
		t.Errorf("Select() error = %v, want ErrNoProvider", err)
	}
}
