package server

import "github.com/labstack/echo/v4"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects/:id", s.handleGetProject)
	api.PATCH("/projects/:id", s.handleUpdateProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)
	api.POST("/projects/:id/restore", s.handleRestoreProject)

	api.POST("/projects/:id/tasks", s.handleAddTask)
	api.POST("/projects/:id/tasks/:task/toggle", s.handleToggleTask)
	api.DELETE("/projects/:id/tasks/:task", s.handleRemoveTask)

	api.GET("/bin", s.handleListBin)
	api.DELETE("/bin", s.handleEmptyBin)
	api.DELETE("/bin/:id", s.handlePurgeProject)

	api.GET("/tags", s.handleListTags)
	api.POST("/tags", s.handleAddTag)
	api.PATCH("/tags/:name", s.handleRenameTag)
	api.DELETE("/tags/:name", s.handleRemoveTag)

	api.GET("/focus", s.handleListFocus)
	api.POST("/focus", s.handleLogFocus)

	api.GET("/dashboard", s.handleDashboard)
	api.GET("/insights", s.handleInsights)
	api.GET("/review", s.handleReview)
	api.GET("/report", s.handleReport)
	api.GET("/backup", s.handleBackup)
}
