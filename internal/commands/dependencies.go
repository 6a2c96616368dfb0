package commands

import (
	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/config"
	"github.com/diogo/docchat/internal/provider"
	"github.com/diogo/docchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ClientInterface, selector *provider.Selector, cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the DocChat API client.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ClientInterface, selector *provider.Selector, cfg config.Config) error {
	return tui.RunChat(client, selector, cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI: &DefaultTUI{},
	}
}

// deps is the package-level dependency set used by the commands.
var deps = NewDependencies()
