package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boardsync/internal/cache"
	"boardsync/internal/config"
	"boardsync/internal/controller"
	"boardsync/internal/events"
	"boardsync/internal/model"
	"boardsync/internal/server"
)

var (
	boardID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	colTodo = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	colDone = uuid.MustParse("00000000-0000-0000-0000-000000000030")
	taskA   = uuid.MustParse("00000000-0000-0000-0000-000000000011")
	taskD   = uuid.MustParse("00000000-0000-0000-0000-000000000031")
)

type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) GetBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*model.Board); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersistence) MoveTask(ctx context.Context, id, columnID uuid.UUID, position int) (*model.Task, error) {
	args := m.Called(ctx, id, columnID, position)
	if t, ok := args.Get(0).(*model.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersistence) MoveColumn(ctx context.Context, id uuid.UUID, position int) (*model.Column, error) {
	args := m.Called(ctx, id, position)
	if c, ok := args.Get(0).(*model.Column); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersistence) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	args := m.Called(ctx, task)
	if t, ok := args.Get(0).(*model.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersistence) UpdateTask(ctx context.Context, id uuid.UUID, edit model.TaskEdit) (*model.Task, error) {
	args := m.Called(ctx, id, edit)
	if t, ok := args.Get(0).(*model.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPersistence) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPersistence) ArchiveTask(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestBoard() *model.Board {
	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.Board{
		ID:    boardID,
		Title: "Sprint",
		Columns: []model.Column{
			{
				ID: colTodo, BoardID: boardID, Title: "To-Do", Role: model.RoleTodo, Position: 0,
				Tasks: []model.Task{
					{ID: taskA, ColumnID: colTodo, Title: "A", Priority: model.PriorityNormal, Position: 0},
				},
			},
			{
				ID: colDone, BoardID: boardID, Title: "Done", Role: model.RoleTerminal, Position: 1,
				Tasks: []model.Task{
					{ID: taskD, ColumnID: colDone, Title: "D", Priority: model.PriorityNormal, Position: 0, Locked: true, MovedToDoneAt: &completed},
				},
			},
		},
	}
}

func newTestServer(t *testing.T, api *MockPersistence) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	bus := events.NewBus()
	ctrl := controller.New(api, bus, cache.NewLastBoard(nil, 0), "tester", log.StandardLogger())
	return server.Init(&config.Config{ServerPort: "0"}, ctrl, bus, log.StandardLogger())
}

func doRequest(s *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func selectBoard(t *testing.T, s *server.Server, api *MockPersistence) {
	t.Helper()
	api.On("GetBoard", mock.Anything, boardID).Return(newTestBoard(), nil).Once()
	w := doRequest(s, http.MethodPost, "/boards/"+boardID.String()+"/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, new(MockPersistence))

	w := doRequest(s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBoard_BeforeSelectReturnsNotFound(t *testing.T) {
	s := newTestServer(t, new(MockPersistence))

	w := doRequest(s, http.MethodGet, "/board", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectBoard_ThenGetServesSnapshot(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodGet, "/board", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Sprint", got.Title)
	assert.Len(t, got.Columns, 2)
}

func TestSelectBoard_InvalidIDReturnsBadRequest(t *testing.T) {
	s := newTestServer(t, new(MockPersistence))

	w := doRequest(s, http.MethodPost, "/boards/not-a-uuid/select", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDragEnd_MovesTaskAndReturnsSnapshot(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	doneAt := time.Now().UTC()
	api.On("MoveTask", mock.Anything, taskA, colDone, 1).
		Return(&model.Task{ID: taskA, ColumnID: colDone, Title: "A", Position: 1, Locked: true, MovedToDoneAt: &doneAt}, nil).Once()

	w := doRequest(s, http.MethodPost, "/dragend", gin.H{
		"dragged_id": taskA.String(),
		"target_id":  colDone.String(),
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Columns[1].Tasks, 2)
	assert.Equal(t, taskA, got.Columns[1].Tasks[1].ID)
	assert.True(t, got.Columns[1].Tasks[1].Locked)
	api.AssertExpectations(t)
}

func TestDragEnd_MalformedRequestRejected(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodPost, "/dragend", gin.H{"dragged_id": "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.AssertNotCalled(t, "MoveTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDragEnd_LockedTaskIsNoop(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodPost, "/dragend", gin.H{
		"dragged_id": taskD.String(),
		"target_id":  colTodo.String(),
	})

	assert.Equal(t, http.StatusOK, w.Code, "a rejected drag still answers with the snapshot")
	api.AssertNotCalled(t, "MoveTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTask_OutsideTodoRejected(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodPost, "/tasks", gin.H{
		"column_id": colDone.String(),
		"title":     "sneaky",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	api.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestCreateTask_InvalidPriorityRejected(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodPost, "/tasks", gin.H{
		"column_id": colTodo.String(),
		"title":     "t",
		"priority":  "urgent",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_AppendsToTodo(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	serverID := uuid.New()
	api.On("CreateTask", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.ColumnID == colTodo && task.Position == 1
	})).Return(&model.Task{ID: serverID, ColumnID: colTodo, Title: "t", Position: 1}, nil).Once()

	w := doRequest(s, http.MethodPost, "/tasks", gin.H{
		"column_id": colTodo.String(),
		"title":     "t",
		"priority":  "high",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var got model.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Columns[0].Tasks, 2)
	api.AssertExpectations(t)
}

func TestUpdateTask_LockedConflicts(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodPut, "/tasks/"+taskD.String(), gin.H{"title": "tamper"})

	assert.Equal(t, http.StatusConflict, w.Code)
	api.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteTask_InvalidIDRejected(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodDelete, "/tasks/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask_UnknownTaskNotFound(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)

	w := doRequest(s, http.MethodDelete, "/tasks/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveTask(t *testing.T) {
	api := new(MockPersistence)
	s := newTestServer(t, api)
	selectBoard(t, s, api)
	api.On("ArchiveTask", mock.Anything, taskD).Return(nil).Once()

	w := doRequest(s, http.MethodPost, "/tasks/"+taskD.String()+"/archive", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Columns[1].Tasks)
	api.AssertExpectations(t)
}
