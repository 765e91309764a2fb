// Package mutate turns user-initiated writes into confirmed state changes.
//
// Each mutation runs Pending -> Confirmed or Pending -> Failed. Creates are
// optimistic with a placeholder record that is rolled back on failure.
// Updates are optimistic and deliberately left as-is on failure (the error
// is surfaced instead; see DESIGN.md). Deletes are conservative: the local
// record is only removed after the remote confirms.
//
// Begin*/Finish* split each mutation around its single suspension point so
// the TUI can apply the optimistic half synchronously on its update loop
// and reconcile when the remote response message arrives. The blocking
// Create/Update/Delete wrappers serve the CLI.
package mutate

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"taskdeck/internal/api"
	"taskdeck/internal/apperr"
	"taskdeck/internal/collection"
	"taskdeck/internal/log"
	"taskdeck/internal/model"
)

type Pipeline struct {
	client api.Client
	col    *collection.Store

	inflight map[string]bool
	gen      uint64
}

func NewPipeline(client api.Client, col *collection.Store) *Pipeline {
	return &Pipeline{client: client, col: col, inflight: map[string]bool{}}
}

// Ticket identifies one pending mutation. Finish* calls holding a ticket
// from a previous generation (e.g. raced with logout) are discarded.
type Ticket struct {
	TaskID string
	gen    uint64
}

// Reset drops all pending mutations, invalidating outstanding tickets.
// Called on logout so late responses cannot touch the next session's state.
func (p *Pipeline) Reset() {
	p.inflight = map[string]bool{}
	p.gen++
}

func (p *Pipeline) Pending(id string) bool { return p.inflight[id] }

func (p *Pipeline) ticket(id string) Ticket {
	p.inflight[id] = true
	return Ticket{TaskID: id, gen: p.gen}
}

func (p *Pipeline) settle(t Ticket) bool {
	if t.gen != p.gen {
		log.Debugf("mutate: discarding stale ticket for %s", t.TaskID)
		return false
	}
	delete(p.inflight, t.TaskID)
	return true
}

// BeginCreate validates the draft and inserts an optimistic placeholder.
// The placeholder id is local; the confirmed record replaces it.
func (p *Pipeline) BeginCreate(draft model.TaskDraft) (model.Task, Ticket, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return model.Task{}, Ticket{}, apperr.Validation("title", ErrTitleRequired.Error())
	}
	if draft.Priority == "" {
		draft.Priority = model.PriorityMedium
	}
	if !draft.Priority.Valid() {
		return model.Task{}, Ticket{}, apperr.Validation("priority", "invalid priority")
	}

	placeholder := model.Task{
		ID:          "local-" + uuid.NewString(),
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		Status:      model.StatusTodo,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		AssigneeID:  draft.AssigneeID,
	}
	p.col.UpsertLocal(placeholder)
	return placeholder, p.ticket(placeholder.ID), nil
}

// FinishCreate reconciles a create: the placeholder is replaced by the
// confirmed record, or rolled back so the collection returns to its
// pre-mutation state.
func (p *Pipeline) FinishCreate(t Ticket, confirmed model.Task, remoteErr error) error {
	if !p.settle(t) {
		return nil
	}
	if remoteErr != nil {
		p.col.RemoveLocal(t.TaskID)
		return remoteErr
	}
	p.col.RemoveLocal(t.TaskID)
	p.col.UpsertLocal(confirmed)
	return nil
}

// Create runs the full create mutation, blocking on the remote call.
func (p *Pipeline) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	placeholder, t, err := p.BeginCreate(draft)
	if err != nil {
		return model.Task{}, err
	}
	confirmed, remoteErr := p.client.CreateTask(ctx, model.TaskDraft{
		Title:       placeholder.Title,
		Description: placeholder.Description,
		Priority:    placeholder.Priority,
		DueDate:     placeholder.DueDate,
		AssigneeID:  placeholder.AssigneeID,
	})
	if err := p.FinishCreate(t, confirmed, remoteErr); err != nil {
		return model.Task{}, err
	}
	return confirmed, nil
}

// BeginUpdate applies the new field values to the store immediately so the
// UI reflects the change without perceptible delay.
func (p *Pipeline) BeginUpdate(task model.Task) (Ticket, error) {
	id := strings.TrimSpace(task.ID)
	if id == "" {
		return Ticket{}, NotFoundError{TaskID: task.ID}
	}
	if _, ok := p.col.Get(id); !ok {
		return Ticket{}, NotFoundError{TaskID: id}
	}
	if p.inflight[id] {
		return Ticket{}, InFlightError{TaskID: id}
	}
	if strings.TrimSpace(task.Title) == "" {
		return Ticket{}, apperr.Validation("title", ErrTitleRequired.Error())
	}
	if !task.Status.Valid() {
		return Ticket{}, apperr.Validation("status", "invalid status")
	}
	if !task.Priority.Valid() {
		return Ticket{}, apperr.Validation("priority", "invalid priority")
	}

	p.col.UpsertLocal(task)
	return p.ticket(id), nil
}

// FinishUpdate reconciles an update. On success the confirmed record
// replaces the optimistic one. On failure the optimistic value is kept
// (leave-stale policy) and the error surfaced.
func (p *Pipeline) FinishUpdate(t Ticket, confirmed model.Task, remoteErr error) error {
	if !p.settle(t) {
		return nil
	}
	if remoteErr != nil {
		return remoteErr
	}
	p.col.UpsertLocal(confirmed)
	return nil
}

// Update runs the full update mutation, blocking on the remote call.
func (p *Pipeline) Update(ctx context.Context, task model.Task) (model.Task, error) {
	t, err := p.BeginUpdate(task)
	if err != nil {
		return model.Task{}, err
	}
	confirmed, remoteErr := p.client.UpdateTask(ctx, task)
	if err := p.FinishUpdate(t, confirmed, remoteErr); err != nil {
		return model.Task{}, err
	}
	return confirmed, nil
}

// BeginDelete marks the task pending without touching the store. Deletion
// is irreversible, so there is no optimistic removal.
func (p *Pipeline) BeginDelete(id string) (Ticket, error) {
	id = strings.TrimSpace(id)
	if _, ok := p.col.Get(id); !ok {
		return Ticket{}, NotFoundError{TaskID: id}
	}
	if p.inflight[id] {
		return Ticket{}, InFlightError{TaskID: id}
	}
	return p.ticket(id), nil
}

// FinishDelete removes the local record only on confirmed success.
func (p *Pipeline) FinishDelete(t Ticket, remoteErr error) error {
	if !p.settle(t) {
		return nil
	}
	if remoteErr != nil {
		return remoteErr
	}
	p.col.RemoveLocal(t.TaskID)
	return nil
}

// Delete runs the full delete mutation, blocking on the remote call.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	t, err := p.BeginDelete(id)
	if err != nil {
		return err
	}
	return p.FinishDelete(t, p.client.DeleteTask(ctx, t.TaskID))
}

// AddComment appends a comment through the update path (comments are
// append-only strings on the task record).
func (p *Pipeline) AddComment(ctx context.Context, id, comment string) (model.Task, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return model.Task{}, apperr.Validation("comment", "comment is empty")
	}
	task, ok := p.col.Get(id)
	if !ok {
		return model.Task{}, NotFoundError{TaskID: id}
	}
	task.Comments = append(append([]string{}, task.Comments...), comment)
	return p.Update(ctx, task)
}

// AddAttachment records attachment metadata on the task.
func (p *Pipeline) AddAttachment(ctx context.Context, id, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, apperr.Validation("attachment", "file name is empty")
	}
	task, ok := p.col.Get(id)
	if !ok {
		return model.Task{}, NotFoundError{TaskID: id}
	}
	task.Attachments = append(append([]model.Attachment{}, task.Attachments...), model.Attachment{Name: name})
	return p.Update(ctx, task)
}

// ToggleAttachment flips the checked flag on the attachment at idx.
func (p *Pipeline) ToggleAttachment(ctx context.Context, id string, idx int) (model.Task, error) {
	task, ok := p.col.Get(id)
	if !ok {
		return model.Task{}, NotFoundError{TaskID: id}
	}
	if idx < 0 || idx >= len(task.Attachments) {
		return model.Task{}, apperr.Validation("attachment", "no such attachment")
	}
	atts := append([]model.Attachment{}, task.Attachments...)
	atts[idx].Checked = !atts[idx].Checked
	task.Attachments = atts
	return p.Update(ctx, task)
}
