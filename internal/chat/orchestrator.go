package chat

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/docchat/internal/api"
	"github.com/diogo/docchat/internal/attach"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
	"github.com/diogo/docchat/internal/provider"
)

// SendState is the orchestrator's phase within a send
type SendState int

const (
	StateIdle SendState = iota
	StateValidating
	StateUploading
	StateDispatching
	StateAwaitingResponse
	StateApplying
	StateFailed
)

// String returns the state name for logs and status lines
func (s SendState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingResponse:
		return "awaiting response"
	case StateApplying:
		return "applying"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Input is one composed user message: the literal text plus attachment
// references from the library and local files to upload.
type Input struct {
	Text   string
	Refs   []attach.FileRef
	Locals []attach.LocalFile
}

// Hooks are optional observer callbacks invoked during a send. All of them
// run on the sending goroutine. OnError fires exactly once per failed send;
// validation rejections do not count as failures since nothing was
// attempted.
type Hooks struct {
	OnState    func(SendState)
	OnStatus   func(status string)
	OnProgress func(percent int)
	OnError    func(err error)
}

// Orchestrator drives a send from composed input to an applied assistant
// reply. At most one send is in flight at a time; the user message is
// inserted optimistically and either confirmed with the assistant reply or
// rolled back on failure, leaving no partial state.
type Orchestrator struct {
	client   api.ClientInterface
	store    *SessionStore
	selector *provider.Selector
	hooks    Hooks

	inFlight atomic.Bool
}

// NewOrchestrator wires the orchestrator to its collaborators
func NewOrchestrator(client api.ClientInterface, store *SessionStore, selector *provider.Selector, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		client:   client,
		store:    store,
		selector: selector,
		hooks:    hooks,
	}
}

// InFlight reports whether a send is currently outstanding
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// Send runs the full send pipeline. It returns ErrSendInFlight when a send
// is already outstanding and a ValidationError for empty input; neither
// touches the timeline or the network. The returned response is the
// server's reply after it has been applied to the timeline.
func (o *Orchestrator) Send(ctx context.Context, input Input) (*models.ChatResponse, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apierrors.ErrSendInFlight
	}
	defer o.inFlight.Store(false)
	defer o.setState(StateIdle)

	o.setState(StateValidating)
	text := strings.TrimSpace(input.Text)
	if text == "" && len(input.Refs) == 0 && len(input.Locals) == 0 {
		return nil, apierrors.NewValidationError("message is empty and no files are attached")
	}

	sel, ok := o.selector.Current()
	if !ok {
		resolved, err := o.selector.Resolve(ctx)
		if err != nil {
			return nil, o.fail(err)
		}
		sel = resolved
	}

	if err := ctx.Err(); err != nil {
		return nil, o.fail(err)
	}

	payload := attach.BuildPayload(input.Refs, input.Locals)
	display := attach.AppendMarkers(text, input.Refs, input.Locals)

	pendingID := o.store.insertPending(models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   display,
		CreatedAt: time.Now(),
	})

	resp, err := o.dispatch(ctx, display, sel, payload)
	if err != nil {
		o.store.rollback(pendingID)
		return nil, o.fail(err)
	}

	o.setState(StateApplying)
	adopted := o.store.ActiveID() == ""
	o.store.confirm(pendingID, resp.SessionID, models.Message{
		ID:         resp.MessageID,
		Role:       models.RoleAssistant,
		Content:    resp.Content,
		TokensUsed: resp.TokensUsed,
		Citations:  resp.Citations,
		CreatedAt:  resp.CreatedAt,
	})
	if adopted {
		// a fresh session now exists server-side; best effort refresh,
		// the send itself already succeeded
		_ = o.store.Refresh(ctx)
	}

	return resp, nil
}

// dispatch picks the transport from the payload shape and executes the
// completion request.
func (o *Orchestrator) dispatch(ctx context.Context, message string, sel provider.Selection, payload attach.Payload) (*models.ChatResponse, error) {
	sessionID := o.store.ActiveID()

	if !payload.Multipart {
		o.setState(StateDispatching)
		o.setState(StateAwaitingResponse)
		return o.client.SendChat(ctx, models.ChatRequest{
			Message:    message,
			SessionID:  sessionID,
			FileIDs:    payload.FileIDs,
			ProviderID: sel.ProviderID,
			Model:      sel.Model,
		})
	}

	o.setState(StateUploading)
	o.setStatus("uploading")

	resp, err := o.client.SendChatWithFiles(ctx, api.ChatUploadRequest{
		Message:    message,
		SessionID:  sessionID,
		Files:      payload.Files,
		FileIDs:    payload.FileIDs,
		ProviderID: sel.ProviderID,
		Model:      sel.Model,
		Progress:   o.uploadProgress(),
	})
	if err != nil {
		return nil, err
	}
	o.setState(StateAwaitingResponse)
	return resp, nil
}

// uploadProgress relays monotonic percentages and flips the status line
// from "uploading" to "processing" when the last byte has left.
func (o *Orchestrator) uploadProgress() api.ProgressFunc {
	done := false
	return func(pct int) {
		if o.hooks.OnProgress != nil {
			o.hooks.OnProgress(pct)
		}
		if pct >= 100 && !done {
			done = true
			o.setStatus("processing")
		}
	}
}

func (o *Orchestrator) fail(err error) error {
	o.setState(StateFailed)
	if o.hooks.OnError != nil {
		o.hooks.OnError(err)
	}
	return err
}

func (o *Orchestrator) setState(s SendState) {
	if o.hooks.OnState != nil {
		o.hooks.OnState(s)
	}
}

func (o *Orchestrator) setStatus(status string) {
	if o.hooks.OnStatus != nil {
		o.hooks.OnStatus(status)
	}
}
