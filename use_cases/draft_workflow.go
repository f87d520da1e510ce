// Package use_cases contains the application workflows the host UI drives:
// saving drafts, confirming generation and keeping the content list current.
package use_cases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
	"github.com/pedrops164/ShortsCreator/editor"
)

var (
	// ErrSaveInFlight - กด save ซ้ำระหว่างที่ request เดิมยังไม่กลับ
	ErrSaveInFlight = errors.New("save already in progress")
	// ErrValidationFailed carries no field detail; callers get the field map
	// from the SaveResult.
	ErrValidationFailed = errors.New("draft failed validation")
)

// SaveResult is what one save attempt produced.
type SaveResult struct {
	// Saved is the server's record after a successful create or update.
	Saved *models.Content
	// FieldErrors is non-nil when local validation rejected the params; no
	// request was made.
	FieldErrors map[string]string
}

// DraftWorkflow persists editor sessions through the gateway. The create
// /update decision is made here, once, from the session's draft id: a
// session that has never been saved creates, everything after updates.
type DraftWorkflow struct {
	gateway ports.ContentGateway
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
	// the session currently bound to the editor surface; set via Rebind.
	// A save that completes after the host rebound to a different session
	// must not mark the old one clean.
	active *editor.Session
}

func NewDraftWorkflow(gateway ports.ContentGateway) *DraftWorkflow {
	return &DraftWorkflow{
		gateway: gateway,
		logger:  slog.Default().With("component", "draft_workflow"),
	}
}

// Save validates the session's working copy and persists it. On validation
// failure it returns (result with FieldErrors, ErrValidationFailed) without
// touching the network. On success the session is marked clean with the
// server's record installed as the new snapshot.
//
// Only one save may be in flight at a time; a second call while the first
// is pending returns ErrSaveInFlight.
func (w *DraftWorkflow) Save(ctx context.Context, session *editor.Session) (*SaveResult, error) {
	if session.ReadOnly() {
		return nil, editor.ErrReadOnly
	}

	params, fieldErrs := session.ValidatedParams()
	if fieldErrs != nil {
		return &SaveResult{FieldErrors: fieldErrs}, ErrValidationFailed
	}

	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	w.inFlight = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	var saved *models.Content
	var err error
	if id := session.DraftID(); id == "" {
		w.logger.InfoContext(ctx, "Creating draft", "template", session.Template().ID)
		saved, err = w.gateway.CreateDraft(ctx, session.Template().ID, params)
	} else {
		w.logger.InfoContext(ctx, "Updating draft", "content_id", id)
		saved, err = w.gateway.UpdateDraft(ctx, id, params)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	// The editor may have been rebound to another draft while the request
	// was out; a stale result must not overwrite the new session.
	w.mu.Lock()
	stale := w.active != nil && w.active != session
	w.mu.Unlock()
	if stale {
		w.logger.WarnContext(ctx, "Dropping save result for replaced session", "content_id", saved.ID)
		return &SaveResult{Saved: saved}, nil
	}

	session.MarkSaved(saved)
	return &SaveResult{Saved: saved}, nil
}

// Rebind tells the workflow which session the editor surface is showing
// now. Results of a save started on a previously bound session are still
// returned to the caller but no longer applied to that session.
func (w *DraftWorkflow) Rebind(session *editor.Session) {
	w.mu.Lock()
	w.active = session
	w.mu.Unlock()
}

// SaveInFlight reports whether a save is currently pending, for disabling
// the save control.
func (w *DraftWorkflow) SaveInFlight() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Load fetches a record and opens an editor session on it.
func (w *DraftWorkflow) Load(ctx context.Context, id string) (*editor.Session, error) {
	record, err := w.gateway.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	session, err := editor.ResumeSession(record)
	if err != nil {
		return nil, err
	}
	if presets, perr := w.gateway.ListCharacterPresets(ctx); perr == nil && len(presets) > 0 {
		session.SetPresets(presets)
	} else if perr != nil {
		w.logger.WarnContext(ctx, "Falling back to built-in presets", "error", perr)
	}
	return session, nil
}

// GenerateText asks the backend's writing assistant for a field value. The
// call is billable server-side, so it is never fired implicitly.
func (w *DraftWorkflow) GenerateText(ctx context.Context, req models.GenerateTextRequest) (*models.GeneratedContent, error) {
	out, err := w.gateway.GenerateText(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}
	return out, nil
}
