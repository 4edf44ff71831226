package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todo-api/internal/dto"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/password"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	accessToken string
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	hasher := password.NewHasher(password.Params{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens, err := token.NewManager("test-secret")
	suite.Require().NoError(err)

	authService := services.NewAuthService(repository.NewUserRepository(suite.db), hasher, tokens, 30*time.Minute)
	taskService := services.NewTaskService(repository.NewTaskRepository(suite.db))
	handler := NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	tasks := suite.router.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth(authService))
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.PUT("/bulk", handler.BulkUpdateTasks)
		tasks.PUT("/reorder", handler.ReorderTasks)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.DELETE("/:id", handler.DeleteTask)
	}

	// Authenticated caller shared by the tests.
	_, err = authService.Register(services.RegisterInput{
		Email:    "tester@example.com",
		Password: "supersecret",
	})
	suite.Require().NoError(err)
	result, err := authService.Login(services.LoginInput{
		Email:    "tester@example.com",
		Password: "supersecret",
	})
	suite.Require().NoError(err)
	suite.accessToken = result.AccessToken
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper to perform an authenticated request
func (suite *TaskHandlerTestSuite) request(method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.accessToken)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) createTask(title string, completed bool, position, priority int) *models.Task {
	task := &models.Task{
		Title:     title,
		Completed: completed,
		Position:  position,
		Priority:  priority,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) TestRequiresAuth() {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Write report",
		"description": "quarterly numbers",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Write report", response.Title)
	suite.Equal(0, response.Position)
	suite.Equal(1, response.Priority)
	suite.False(response.Completed)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Envelope() {
	for i := 0; i < 7; i++ {
		suite.createTask(fmt.Sprintf("task %d", i), i%2 == 0, i, 1)
	}

	w := suite.request(http.MethodGet, "/api/tasks?page=2&limit=3", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(7), response.Total)
	suite.Equal(2, response.Page)
	suite.Equal(3, response.Limit)
	suite.Equal(3, response.TotalPages)
	suite.Len(response.Data, 3)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	suite.createTask("Buy milk", true, 0, 1)
	suite.createTask("buy bread", false, 1, 1)
	suite.createTask("Clean house", true, 2, 1)

	w := suite.request(http.MethodGet, "/api/tasks?status=completed&search=buy", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(int64(1), response.Total)
	suite.Equal("Buy milk", response.Data[0].Title)
}

func (suite *TaskHandlerTestSuite) TestListTasks_BadStatus() {
	w := suite.request(http.MethodGet, "/api/tasks?status=done", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	task := suite.createTask("old title", false, 0, 1)

	w := suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"title":     "new title",
		"completed": true,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("new title", response.Title)
	suite.True(response.Completed)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	w := suite.request(http.MethodPut, "/api/tasks/9999", map[string]any{
		"title": "ghost",
	})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "NOT_FOUND")
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask("doomed", false, 0, 1)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("doomed", response.Title)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestBulkUpdate() {
	a := suite.createTask("a", false, 0, 1)
	b := suite.createTask("b", false, 1, 1)

	w := suite.request(http.MethodPut, "/api/tasks/bulk", map[string]any{
		"task_ids": []uint64{a.ID, b.ID},
		"action":   "complete",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Updated 2 tasks successfully")

	w = suite.request(http.MethodPut, "/api/tasks/bulk", map[string]any{
		"task_ids": []uint64{a.ID, b.ID, 9999},
		"action":   "delete",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Deleted 2 tasks successfully")
}

func (suite *TaskHandlerTestSuite) TestBulkUpdate_InvalidAction() {
	task := suite.createTask("a", false, 0, 1)

	w := suite.request(http.MethodPut, "/api/tasks/bulk", map[string]any{
		"task_ids": []uint64{task.ID},
		"action":   "bogus",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "INVALID_OPERATION")
}

func (suite *TaskHandlerTestSuite) TestBulkUpdate_EmptyIDs() {
	w := suite.request(http.MethodPut, "/api/tasks/bulk", map[string]any{
		"task_ids": []uint64{},
		"action":   "complete",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestReorder() {
	a := suite.createTask("a", false, 10, 1)
	b := suite.createTask("b", false, 20, 1)
	c := suite.createTask("c", false, 30, 1)

	w := suite.request(http.MethodPut, "/api/tasks/reorder", map[string]any{
		"task_ids": []uint64{c.ID, b.ID, a.ID},
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var reordered models.Task
	suite.Require().NoError(suite.db.First(&reordered, c.ID).Error)
	suite.Equal(10, reordered.Position)
}

func (suite *TaskHandlerTestSuite) TestReorder_UnknownID() {
	a := suite.createTask("a", false, 10, 1)

	w := suite.request(http.MethodPut, "/api/tasks/reorder", map[string]any{
		"task_ids": []uint64{a.ID, 9999},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
