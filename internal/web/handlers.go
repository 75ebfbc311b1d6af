package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/export"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/state"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type projectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type dropRequest struct {
	Payload state.DragPayload `json:"payload"`
	Target  model.Status      `json:"target"`
}

type generateRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	ProjectID string `json:"projectId"`
	// Accept adds the draft to ProjectID right away
	Accept bool `json:"accept"`
}

type messageRequest struct {
	Message   string `json:"message" binding:"required"`
	ProjectID string `json:"projectId"`
}

// bind decodes the JSON body and answers 400 on failure
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validTask(status *model.Status, priority *model.Priority) error {
	if status != nil && !status.Valid() {
		return fmt.Errorf("invalid status %q", *status)
	}
	if priority != nil && !priority.Valid() {
		return fmt.Errorf("invalid priority %q", *priority)
	}
	return nil
}

// Auth

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	if !s.state.Login(c.Request.Context(), req.Email, req.Password) {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	ok(c, http.StatusOK, s.state.User())
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	created, err := s.state.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, api.ErrUserExists) {
		fail(c, http.StatusConflict, "user already exists")
		return
	}
	if !created {
		fail(c, http.StatusInternalServerError, "registration failed")
		return
	}
	ok(c, http.StatusCreated, s.state.User())
}

func (s *Server) handleMe(c *gin.Context) {
	user := s.state.User()
	if user == nil {
		fail(c, http.StatusUnauthorized, "not signed in")
		return
	}
	ok(c, http.StatusOK, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	if !s.state.Logout(c.Request.Context()) {
		fail(c, http.StatusInternalServerError, "logout failed")
		return
	}
	ok(c, http.StatusOK, nil)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req api.UserUpdate
	if !bind(c, &req) {
		return
	}
	if (req.Name != nil && blank(*req.Name)) || (req.Email != nil && blank(*req.Email)) {
		fail(c, http.StatusBadRequest, "name and email cannot be empty")
		return
	}

	user, err := s.state.UpdateProfile(c.Request.Context(), req)
	if errors.Is(err, api.ErrUserExists) {
		fail(c, http.StatusConflict, "email already in use")
		return
	}
	if user == nil {
		fail(c, http.StatusInternalServerError, "profile update failed")
		return
	}
	ok(c, http.StatusOK, user)
}

// Dashboard

func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	if !s.state.RefreshProjects(ctx) {
		fail(c, http.StatusInternalServerError, "failed to load projects")
		return
	}
	stats, loaded := s.state.Stats(ctx)
	if !loaded {
		fail(c, http.StatusInternalServerError, "failed to load stats")
		return
	}

	ok(c, http.StatusOK, gin.H{
		"user":     s.state.User(),
		"stats":    stats,
		"projects": s.state.Projects(),
	})
}

// Projects

func (s *Server) handleListProjects(c *gin.Context) {
	if !s.state.RefreshProjects(c.Request.Context()) {
		fail(c, http.StatusInternalServerError, "failed to load projects")
		return
	}
	ok(c, http.StatusOK, s.state.Projects())
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if !bind(c, &req) {
		return
	}
	if blank(req.Name) {
		fail(c, http.StatusBadRequest, "project name is required")
		return
	}

	project := s.state.CreateProject(c.Request.Context(), strings.TrimSpace(req.Name), req.Description)
	if project == nil {
		fail(c, http.StatusInternalServerError, "failed to create project")
		return
	}
	ok(c, http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	ctx := c.Request.Context()
	project := s.state.SelectProject(ctx, c.Param("id"))
	if project == nil {
		fail(c, http.StatusNotFound, "project not found")
		return
	}

	stats, _ := s.state.ProjectStats(ctx, project.ID)
	ok(c, http.StatusOK, gin.H{
		"project": project,
		"stats":   stats,
	})
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req api.ProjectUpdate
	if !bind(c, &req) {
		return
	}
	if req.Name != nil && blank(*req.Name) {
		fail(c, http.StatusBadRequest, "project name cannot be empty")
		return
	}

	project := s.state.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if project == nil {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	ok(c, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if !s.state.DeleteProject(c.Request.Context(), c.Param("id")) {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	ok(c, http.StatusOK, nil)
}

// Board

func (s *Server) handleBoard(c *gin.Context) {
	project := s.state.SelectProject(c.Request.Context(), c.Param("id"))
	if project == nil {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	ok(c, http.StatusOK, gin.H{
		"project": project,
		"columns": state.BuildBoard(project),
	})
}

func (s *Server) handleDrop(c *gin.Context) {
	var req dropRequest
	if !bind(c, &req) {
		return
	}
	if blank(req.Payload.TaskID) {
		fail(c, http.StatusBadRequest, "payload.taskId is required")
		return
	}
	if err := validTask(&req.Target, nil); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	projectID := c.Param("id")
	if !s.state.Drop(c.Request.Context(), projectID, req.Payload, req.Target) {
		fail(c, http.StatusNotFound, "task not found")
		return
	}

	columns, found := s.state.Board(projectID)
	if !found {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"columns": columns})
}

// Tasks

func (s *Server) handleCreateTask(c *gin.Context) {
	var req api.TaskInput
	if !bind(c, &req) {
		return
	}
	if blank(req.Title) {
		fail(c, http.StatusBadRequest, "task title is required")
		return
	}
	if req.Status == "" {
		req.Status = model.StatusTodo
	}
	if err := validTask(&req.Status, &req.Priority); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task := s.state.AddTask(c.Request.Context(), c.Param("id"), req)
	if task == nil {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	ok(c, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req api.TaskUpdate
	if !bind(c, &req) {
		return
	}
	if req.Title != nil && blank(*req.Title) {
		fail(c, http.StatusBadRequest, "task title cannot be empty")
		return
	}
	if err := validTask(req.Status, req.Priority); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task := s.state.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), req)
	if task == nil {
		fail(c, http.StatusNotFound, "task not found")
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if !s.state.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("taskId")) {
		fail(c, http.StatusNotFound, "task not found")
		return
	}
	ok(c, http.StatusOK, nil)
}

// Assistant

func (s *Server) loadedProject(c *gin.Context) *model.Project {
	project := s.state.SelectProject(c.Request.Context(), c.Param("id"))
	if project == nil {
		fail(c, http.StatusNotFound, "project not found")
	}
	return project
}

func (s *Server) handleSummary(c *gin.Context) {
	project := s.loadedProject(c)
	if project == nil {
		return
	}

	summary, err := s.assistant.Summarize(c.Request.Context(), project)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{
		"summary":        summary,
		"completionRate": assistant.CompletionRate(project),
	})
}

func (s *Server) handleInsights(c *gin.Context) {
	project := s.loadedProject(c)
	if project == nil {
		return
	}

	insights, err := s.assistant.Insights(c.Request.Context(), project)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	ok(c, http.StatusOK, insights)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if !bind(c, &req) {
		return
	}
	if blank(req.Prompt) {
		fail(c, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.Accept && req.ProjectID == "" {
		fail(c, http.StatusBadRequest, "projectId is required to accept a task")
		return
	}

	ctx := c.Request.Context()
	generated, err := s.assistant.GenerateTask(ctx, req.Prompt)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !req.Accept {
		ok(c, http.StatusOK, generated)
		return
	}

	task := s.state.AddGeneratedTask(ctx, req.ProjectID, generated)
	if task == nil {
		fail(c, http.StatusNotFound, "project not found")
		return
	}
	generated.Task = *task
	ok(c, http.StatusCreated, generated)
}

func (s *Server) handleSuggestions(c *gin.Context) {
	ctx := c.Request.Context()
	if !s.state.RefreshProjects(ctx) {
		fail(c, http.StatusInternalServerError, "failed to load projects")
		return
	}

	suggestions, err := s.assistant.Suggest(ctx, s.state.Projects())
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	ok(c, http.StatusOK, suggestions)
}

// Messages

func (s *Server) handleMessagesIntro(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"welcome":      assistant.Welcome,
		"quickPrompts": assistant.QuickPrompts(),
	})
}

func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if !bind(c, &req) {
		return
	}
	if blank(req.Message) {
		fail(c, http.StatusBadRequest, "message is required")
		return
	}

	ctx := c.Request.Context()
	var project *model.Project
	if req.ProjectID != "" {
		project = s.state.SelectProject(ctx, req.ProjectID)
	}

	reply, err := s.assistant.Chat(ctx, strings.TrimSpace(req.Message), project)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	var projectContext string
	if project != nil {
		projectContext = project.Name
	}
	ok(c, http.StatusOK, gin.H{
		"reply":          reply,
		"projectContext": projectContext,
		"timestamp":      s.now().UTC().Format(time.RFC3339),
	})
}

// Export

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.state.RefreshProjects(c.Request.Context()) {
		fail(c, http.StatusInternalServerError, "failed to load projects")
		return
	}

	now := s.now()
	data := export.Build(s.state.User(), s.state.Projects(), now)

	contentType := "application/json"
	if format == export.FormatYAML {
		contentType = "application/yaml"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(now, format)))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, data, format); err != nil {
		s.log.Error("export failed", "error", err.Error())
	}
}
