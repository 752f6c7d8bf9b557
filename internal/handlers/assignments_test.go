package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"volunteer-hub/backend/internal/handlers"
	"volunteer-hub/backend/internal/models"
	"volunteer-hub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockAssignmentService struct {
	shouldReturnError bool
	returnErr         error
	assignments       []models.TaskAssignment
	lastDecision      string
}

func (m *MockAssignmentService) CreateOrUpdateAssignment(db *gorm.DB, taskID, volunteerID, eventID uuid.UUID) (*models.TaskAssignment, error) {
	if m.shouldReturnError {
		return nil, m.returnErr
	}
	assignment := models.TaskAssignment{
		ID:               uuid.Must(uuid.NewV4()),
		TaskID:           taskID,
		VolunteerID:      volunteerID,
		EventID:          eventID,
		Status:           models.AssignmentStatusPending,
		ResponseDeadline: time.Now().Add(24 * time.Hour),
	}
	m.assignments = append(m.assignments, assignment)
	return &assignment, nil
}

func (m *MockAssignmentService) RespondToAssignment(db *gorm.DB, assignmentID, volunteerID uuid.UUID, decision string) error {
	if m.shouldReturnError {
		return m.returnErr
	}
	m.lastDecision = decision
	return nil
}

func (m *MockAssignmentService) CompleteAssignment(db *gorm.DB, assignmentID uuid.UUID) error {
	if m.shouldReturnError {
		return m.returnErr
	}
	return nil
}

func (m *MockAssignmentService) GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.TaskAssignment, error) {
	if m.shouldReturnError {
		return models.TaskAssignment{}, m.returnErr
	}
	return models.TaskAssignment{ID: id, Status: models.AssignmentStatusPending}, nil
}

func (m *MockAssignmentService) GetAssignmentsByVolunteer(db *gorm.DB, volunteerID uuid.UUID) ([]models.TaskAssignment, error) {
	if m.shouldReturnError {
		return nil, m.returnErr
	}
	return m.assignments, nil
}

func (m *MockAssignmentService) ExpireOverdueAssignments(db *gorm.DB, now time.Time) (int64, error) {
	if m.shouldReturnError {
		return 0, m.returnErr
	}
	return 0, nil
}

func setupAssignmentHandler() (*handlers.AssignmentHandler, *MockAssignmentService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockAssignmentService{}
	handler := handlers.NewAssignmentHandler(nil, mockService)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()).String())
		c.Next()
	})

	return handler, mockService, router
}

func assignBody() []byte {
	body, _ := json.Marshal(handlers.AssignRequest{
		TaskID:      uuid.Must(uuid.NewV4()).String(),
		VolunteerID: uuid.Must(uuid.NewV4()).String(),
		EventID:     uuid.Must(uuid.NewV4()).String(),
	})
	return body
}

func TestAssign(t *testing.T) {
	handler, _, router := setupAssignmentHandler()

	router.POST("/assignments", handler.Assign)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(assignBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}
}

func TestAssignMissingFields(t *testing.T) {
	handler, _, router := setupAssignmentHandler()

	router.POST("/assignments", handler.Assign)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer([]byte(`{"task_id":"x"}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAssignInvalidUUID(t *testing.T) {
	handler, _, router := setupAssignmentHandler()

	router.POST("/assignments", handler.Assign)

	body, _ := json.Marshal(handlers.AssignRequest{
		TaskID:      "not-a-uuid",
		VolunteerID: uuid.Must(uuid.NewV4()).String(),
		EventID:     uuid.Must(uuid.NewV4()).String(),
	})
	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAssignUnknownTask(t *testing.T) {
	handler, mockService, router := setupAssignmentHandler()
	mockService.shouldReturnError = true
	mockService.returnErr = services.ErrTaskNotFound

	router.POST("/assignments", handler.Assign)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(assignBody()))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRespond(t *testing.T) {
	handler, mockService, router := setupAssignmentHandler()

	router.POST("/assignments/:id/respond", handler.Respond)

	body, _ := json.Marshal(handlers.RespondRequest{Decision: "accept"})
	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/respond", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if mockService.lastDecision != "accept" {
		t.Errorf("Expected decision accept, got %s", mockService.lastDecision)
	}
}

func TestRespondInvalidDecision(t *testing.T) {
	handler, mockService, router := setupAssignmentHandler()
	mockService.shouldReturnError = true
	mockService.returnErr = services.ErrInvalidDecision

	router.POST("/assignments/:id/respond", handler.Respond)

	body, _ := json.Marshal(handlers.RespondRequest{Decision: "maybe"})
	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/respond", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRespondExpired(t *testing.T) {
	handler, mockService, router := setupAssignmentHandler()
	mockService.shouldReturnError = true
	mockService.returnErr = services.ErrAssignmentExpired

	router.POST("/assignments/:id/respond", handler.Respond)

	body, _ := json.Marshal(handlers.RespondRequest{Decision: "accept"})
	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/respond", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestRespondWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewAssignmentHandler(nil, &MockAssignmentService{})
	router := gin.New()
	router.POST("/assignments/:id/respond", handler.Respond)

	body, _ := json.Marshal(handlers.RespondRequest{Decision: "accept"})
	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/respond", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestComplete(t *testing.T) {
	handler, _, router := setupAssignmentHandler()

	router.POST("/assignments/:id/complete", handler.Complete)

	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCompleteNotFound(t *testing.T) {
	handler, mockService, router := setupAssignmentHandler()
	mockService.shouldReturnError = true
	mockService.returnErr = services.ErrAssignmentNotFound

	router.POST("/assignments/:id/complete", handler.Complete)

	req, _ := http.NewRequest("POST", "/assignments/"+uuid.Must(uuid.NewV4()).String()+"/complete", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetMyAssignments(t *testing.T) {
	handler, _, router := setupAssignmentHandler()

	router.GET("/assignments/mine", handler.GetMyAssignments)

	req, _ := http.NewRequest("GET", "/assignments/mine", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}
