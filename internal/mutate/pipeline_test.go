package mutate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskdeck/internal/apperr"
	"taskdeck/internal/collection"
	"taskdeck/internal/model"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *mockClient) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *mockClient) RegisterAdmin(ctx context.Context, reg model.AdminRegistration) (model.AdminAccount, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(model.AdminAccount), args.Error(1)
}

func (m *mockClient) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.Session, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *mockClient) ListTasks(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	var tasks []model.Task
	if v := args.Get(0); v != nil {
		tasks = v.([]model.Task)
	}
	return tasks, args.Error(1)
}

func (m *mockClient) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockClient) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockClient) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClient) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	args := m.Called(ctx)
	var users []model.UserAccount
	if v := args.Get(0); v != nil {
		users = v.([]model.UserAccount)
	}
	return users, args.Error(1)
}

func (m *mockClient) SearchUsers(ctx context.Context, keyword string) ([]model.UserAccount, error) {
	args := m.Called(ctx, keyword)
	var users []model.UserAccount
	if v := args.Get(0); v != nil {
		users = v.([]model.UserAccount)
	}
	return users, args.Error(1)
}

func (m *mockClient) UpdateUser(ctx context.Context, u model.UserAccount) (model.UserAccount, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.UserAccount), args.Error(1)
}

func (m *mockClient) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClient) SetUserActive(ctx context.Context, id string, active bool) (model.UserAccount, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(model.UserAccount), args.Error(1)
}

func (m *mockClient) ListAdmins(ctx context.Context) ([]model.AdminAccount, error) {
	args := m.Called(ctx)
	var admins []model.AdminAccount
	if v := args.Get(0); v != nil {
		admins = v.([]model.AdminAccount)
	}
	return admins, args.Error(1)
}

func (m *mockClient) DeleteAdmin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClient) SetAdminActive(ctx context.Context, id string, active bool) (model.AdminAccount, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(model.AdminAccount), args.Error(1)
}

func newFixture(seed ...model.Task) (*mockClient, *collection.Store, *Pipeline) {
	client := new(mockClient)
	col := collection.NewStore(client)
	col.ReplaceAll(seed)
	return client, col, NewPipeline(client, col)
}

func TestCreateValidatesBeforeRemote(t *testing.T) {
	client, col, p := newFixture()

	_, err := p.Create(context.Background(), model.TaskDraft{Title: "   "})

	assert.True(t, apperr.IsValidation(err), "want a validation error, got %v", err)
	assert.Equal(t, 0, col.Len(), "no placeholder for an invalid draft")
	client.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestCreateDefaultsPriority(t *testing.T) {
	client, col, p := newFixture()
	confirmed := model.Task{ID: "srv-1", Title: "Buy milk", Status: model.StatusTodo, Priority: model.PriorityMedium}
	client.On("CreateTask", mock.Anything, mock.MatchedBy(func(d model.TaskDraft) bool {
		return d.Priority == model.PriorityMedium
	})).Return(confirmed, nil)

	got, err := p.Create(context.Background(), model.TaskDraft{Title: "Buy milk"})

	assert.NoError(t, err)
	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, 1, col.Len())
	client.AssertExpectations(t)
}

func TestCreateReplacesPlaceholderWithConfirmed(t *testing.T) {
	client, col, p := newFixture()
	confirmed := model.Task{ID: "srv-9", Title: "Plan retro", Status: model.StatusTodo, Priority: model.PriorityHigh}
	client.On("CreateTask", mock.Anything, mock.Anything).Return(confirmed, nil)

	placeholder, ticket, err := p.BeginCreate(model.TaskDraft{Title: "Plan retro", Priority: model.PriorityHigh})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(placeholder.ID, "local-"), "placeholder id %q", placeholder.ID)
	assert.Equal(t, 1, col.Len(), "placeholder visible while pending")
	assert.True(t, p.Pending(placeholder.ID))

	remote, remoteErr := client.CreateTask(context.Background(), model.TaskDraft{Title: "Plan retro"})
	assert.NoError(t, p.FinishCreate(ticket, remote, remoteErr))

	_, stillThere := col.Get(placeholder.ID)
	assert.False(t, stillThere, "placeholder must be gone")
	got, ok := col.Get("srv-9")
	assert.True(t, ok)
	assert.Equal(t, "Plan retro", got.Title)
	assert.False(t, p.Pending(placeholder.ID))
}

func TestCreateRollsBackPlaceholderOnFailure(t *testing.T) {
	client, col, p := newFixture(model.Task{ID: "keep", Title: "existing"})
	client.On("CreateTask", mock.Anything, mock.Anything).
		Return(model.Task{}, errors.New("503 unavailable"))

	_, err := p.Create(context.Background(), model.TaskDraft{Title: "Doomed"})

	assert.Error(t, err)
	assert.Equal(t, 1, col.Len(), "collection must return to its pre-mutation state")
	_, ok := col.Get("keep")
	assert.True(t, ok)
}

func TestUpdateOptimisticThenConfirmed(t *testing.T) {
	client, col, p := newFixture(model.Task{ID: "t1", Title: "Draft", Status: model.StatusTodo, Priority: model.PriorityLow})

	edited := model.Task{ID: "t1", Title: "Draft v2", Status: model.StatusInProgress, Priority: model.PriorityLow}
	ticket, err := p.BeginUpdate(edited)
	assert.NoError(t, err)

	// The optimistic value is visible before any remote round trip.
	got, _ := col.Get("t1")
	assert.Equal(t, "Draft v2", got.Title)
	assert.Equal(t, model.StatusInProgress, got.Status)

	confirmed := edited
	confirmed.Title = "Draft v2 (server-normalized)"
	assert.NoError(t, p.FinishUpdate(ticket, confirmed, nil))

	got, _ = col.Get("t1")
	assert.Equal(t, "Draft v2 (server-normalized)", got.Title)
	client.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestUpdateFailureLeavesOptimisticValue(t *testing.T) {
	_, col, p := newFixture(model.Task{ID: "t1", Title: "Before", Status: model.StatusTodo, Priority: model.PriorityLow})

	edited := model.Task{ID: "t1", Title: "After", Status: model.StatusTodo, Priority: model.PriorityLow}
	ticket, err := p.BeginUpdate(edited)
	assert.NoError(t, err)

	err = p.FinishUpdate(ticket, model.Task{}, errors.New("timeout"))
	assert.Error(t, err, "the failure must be surfaced")

	got, _ := col.Get("t1")
	assert.Equal(t, "After", got.Title, "optimistic value is deliberately kept")
	assert.False(t, p.Pending("t1"), "the task is no longer in flight")
}

func TestSecondMutationOnSameTaskRejected(t *testing.T) {
	_, _, p := newFixture(model.Task{ID: "t1", Title: "One", Status: model.StatusTodo, Priority: model.PriorityLow})

	first, err := p.BeginUpdate(model.Task{ID: "t1", Title: "One a", Status: model.StatusTodo, Priority: model.PriorityLow})
	assert.NoError(t, err)

	_, err = p.BeginUpdate(model.Task{ID: "t1", Title: "One b", Status: model.StatusTodo, Priority: model.PriorityLow})
	var inflight InFlightError
	assert.ErrorAs(t, err, &inflight)
	assert.Equal(t, "t1", inflight.TaskID)

	_, err = p.BeginDelete("t1")
	assert.ErrorAs(t, err, &inflight, "delete is also blocked while pending")

	// Once the first settles, the task is mutable again.
	assert.NoError(t, p.FinishUpdate(first, model.Task{ID: "t1", Title: "One a", Status: model.StatusTodo, Priority: model.PriorityLow}, nil))
	_, err = p.BeginDelete("t1")
	assert.NoError(t, err)
}

func TestUpdateUnknownTask(t *testing.T) {
	_, _, p := newFixture()
	_, err := p.BeginUpdate(model.Task{ID: "ghost", Title: "x", Status: model.StatusTodo, Priority: model.PriorityLow})
	var nf NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteIsConservative(t *testing.T) {
	client, col, p := newFixture(model.Task{ID: "t1", Title: "Doomed"})

	ticket, err := p.BeginDelete("t1")
	assert.NoError(t, err)
	_, ok := col.Get("t1")
	assert.True(t, ok, "no optimistic removal for deletes")

	assert.Error(t, p.FinishDelete(ticket, errors.New("409 conflict")))
	_, ok = col.Get("t1")
	assert.True(t, ok, "failed delete leaves the record")

	ticket, err = p.BeginDelete("t1")
	assert.NoError(t, err)
	assert.NoError(t, p.FinishDelete(ticket, nil))
	_, ok = col.Get("t1")
	assert.False(t, ok)
	client.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestResetDiscardsStaleTickets(t *testing.T) {
	_, col, p := newFixture(model.Task{ID: "t1", Title: "Old session", Status: model.StatusTodo, Priority: model.PriorityLow})

	ticket, err := p.BeginUpdate(model.Task{ID: "t1", Title: "Edited", Status: model.StatusDone, Priority: model.PriorityLow})
	assert.NoError(t, err)

	// Logout while the response is in flight.
	p.Reset()
	col.Clear()
	col.ReplaceAll([]model.Task{{ID: "t1", Title: "Next session's copy", Status: model.StatusTodo, Priority: model.PriorityLow}})

	// The late response must not touch the new session's collection.
	assert.NoError(t, p.FinishUpdate(ticket, model.Task{ID: "t1", Title: "Stale write"}, nil))
	got, _ := col.Get("t1")
	assert.Equal(t, "Next session's copy", got.Title)
}

func TestAddCommentAppends(t *testing.T) {
	client, col, p := newFixture(model.Task{ID: "t1", Title: "Talk", Status: model.StatusTodo, Priority: model.PriorityLow, Comments: []string{"first"}})
	client.On("UpdateTask", mock.Anything, mock.MatchedBy(func(task model.Task) bool {
		return len(task.Comments) == 2 && task.Comments[1] == "second"
	})).Return(model.Task{ID: "t1", Title: "Talk", Status: model.StatusTodo, Priority: model.PriorityLow, Comments: []string{"first", "second"}}, nil)

	got, err := p.AddComment(context.Background(), "t1", "  second  ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got.Comments)

	stored, _ := col.Get("t1")
	assert.Equal(t, 2, len(stored.Comments))
	client.AssertExpectations(t)
}

func TestToggleAttachment(t *testing.T) {
	client, col, p := newFixture(model.Task{
		ID: "t1", Title: "Files", Status: model.StatusTodo, Priority: model.PriorityLow,
		Attachments: []model.Attachment{{Name: "spec.pdf"}},
	})
	client.On("UpdateTask", mock.Anything, mock.MatchedBy(func(task model.Task) bool {
		return len(task.Attachments) == 1 && task.Attachments[0].Checked
	})).Return(model.Task{
		ID: "t1", Title: "Files", Status: model.StatusTodo, Priority: model.PriorityLow,
		Attachments: []model.Attachment{{Name: "spec.pdf", Checked: true}},
	}, nil)

	_, err := p.ToggleAttachment(context.Background(), "t1", 0)
	assert.NoError(t, err)

	stored, _ := col.Get("t1")
	assert.True(t, stored.Attachments[0].Checked)

	_, err = p.ToggleAttachment(context.Background(), "t1", 5)
	assert.True(t, apperr.IsValidation(err))
}
