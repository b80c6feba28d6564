// Package http exposes the dispatch and route execution API over echo, plus
// the per-job WebSocket endpoint. The servicer acting on a request is
// identified by the X-Servicer-ID header, which the API gateway sets after
// authentication.
package http

import (
	"net/http"

	"curbside/internal/adapters/in/ws"
	"curbside/internal/core/application/usecases/commands"
	"curbside/internal/core/application/usecases/queries"
	"curbside/internal/core/domain/model/job"
	"curbside/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// ServicerIDHeader names the authenticated servicer on every servicer-side
// request.
const ServicerIDHeader = "X-Servicer-ID"

// Server wires HTTP requests to the command and query handlers.
type Server struct {
	claimJobHandler       commands.ClaimJobCommandHandler
	createRouteHandler    commands.CreateRouteCommandHandler
	startRouteHandler     commands.StartRouteCommandHandler
	markArrivedHandler    commands.MarkArrivedCommandHandler
	completeStopHandler   commands.CompleteStopCommandHandler
	skipStopHandler       commands.SkipStopCommandHandler
	completeJobHandler    commands.CompleteJobCommandHandler
	reportLocationHandler commands.ReportLocationCommandHandler

	queuePositionHandler queries.QueuePositionQueryHandler
	activeRouteHandler   queries.GetActiveRouteQueryHandler

	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewServer creates the HTTP server over its handlers and the realtime hub.
func NewServer(
	claimJobHandler commands.ClaimJobCommandHandler,
	createRouteHandler commands.CreateRouteCommandHandler,
	startRouteHandler commands.StartRouteCommandHandler,
	markArrivedHandler commands.MarkArrivedCommandHandler,
	completeStopHandler commands.CompleteStopCommandHandler,
	skipStopHandler commands.SkipStopCommandHandler,
	completeJobHandler commands.CompleteJobCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	queuePositionHandler queries.QueuePositionQueryHandler,
	activeRouteHandler queries.GetActiveRouteQueryHandler,
	hub *ws.Hub,
) *Server {
	return &Server{
		claimJobHandler:       claimJobHandler,
		createRouteHandler:    createRouteHandler,
		startRouteHandler:     startRouteHandler,
		markArrivedHandler:    markArrivedHandler,
		completeStopHandler:   completeStopHandler,
		skipStopHandler:       skipStopHandler,
		completeJobHandler:    completeJobHandler,
		reportLocationHandler: reportLocationHandler,
		queuePositionHandler:  queuePositionHandler,
		activeRouteHandler:    activeRouteHandler,
		hub:                   hub,
	}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/jobs/:jobId/claim", s.ClaimJob)
	api.POST("/jobs/:jobId/complete", s.CompleteJob)
	api.GET("/jobs/:jobId/queue-position", s.GetQueuePosition)

	api.POST("/routes", s.CreateRoute)
	api.GET("/routes/active", s.GetActiveRoute)
	api.POST("/routes/:routeId/start", s.StartRoute)
	api.POST("/routes/:routeId/arrive", s.MarkArrived)
	api.POST("/routes/:routeId/stops/current/complete", s.CompleteCurrentStop)
	api.POST("/routes/:routeId/stops/current/skip", s.SkipCurrentStop)

	api.POST("/locations", s.ReportLocation)

	e.GET("/ws/jobs/:jobId", s.SubscribeJobEvents)
	e.GET("/health", s.Health)
}

// ClaimJob handles POST /api/v1/jobs/:jobId/claim.
func (s *Server) ClaimJob(ctx echo.Context) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}
	jobID, err := kernel.UUIDFromString(ctx.Param("jobId"))
	if err != nil {
		return badRequest(ctx, "invalid_job_id", err.Error())
	}

	command, err := commands.NewClaimJobCommand(jobID, servicerID)
	if err != nil {
		return renderError(ctx, err)
	}
	if err = s.claimJobHandler.Handle(ctx.Request().Context(), command); err != nil {
		return renderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"jobId":  jobID.String(),
		"status": "confirmed",
	})
}

// createRouteRequest is the body of POST /api/v1/routes.
type createRouteRequest struct {
	Date   string   `json:"date"`
	JobIDs []string `json:"jobIds"`
}

// CreateRoute handles POST /api/v1/routes.
func (s *Server) CreateRoute(ctx echo.Context) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}

	var body createRouteRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid_body", "request body is not valid JSON")
	}

	date, err := parseServiceDate(body.Date)
	if err != nil {
		return badRequest(ctx, "invalid_date", err.Error())
	}

	jobIDs := make([]kernel.UUID, 0, len(body.JobIDs))
	for _, raw := range body.JobIDs {
		jobID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "invalid_job_id", idErr.Error())
		}
		jobIDs = append(jobIDs, jobID)
	}

	command, err := commands.NewCreateRouteCommand(servicerID, date, jobIDs)
	if err != nil {
		return renderError(ctx, err)
	}
	if err = s.createRouteHandler.Handle(ctx.Request().Context(), command); err != nil {
		return renderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"routeId": command.RouteID().String(),
	})
}

// StartRoute handles POST /api/v1/routes/:routeId/start.
func (s *Server) StartRoute(ctx echo.Context) error {
	return s.handleRouteAction(ctx, func(routeID, servicerID kernel.UUID) error {
		command, err := commands.NewStartRouteCommand(routeID, servicerID)
		if err != nil {
			return err
		}
		return s.startRouteHandler.Handle(ctx.Request().Context(), command)
	})
}

// MarkArrived handles POST /api/v1/routes/:routeId/arrive.
func (s *Server) MarkArrived(ctx echo.Context) error {
	return s.handleRouteAction(ctx, func(routeID, servicerID kernel.UUID) error {
		command, err := commands.NewMarkArrivedCommand(routeID, servicerID)
		if err != nil {
			return err
		}
		return s.markArrivedHandler.Handle(ctx.Request().Context(), command)
	})
}

// CompleteCurrentStop handles POST /api/v1/routes/:routeId/stops/current/complete.
func (s *Server) CompleteCurrentStop(ctx echo.Context) error {
	return s.handleRouteAction(ctx, func(routeID, servicerID kernel.UUID) error {
		command, err := commands.NewCompleteStopCommand(routeID, servicerID)
		if err != nil {
			return err
		}
		return s.completeStopHandler.Handle(ctx.Request().Context(), command)
	})
}

// SkipCurrentStop handles POST /api/v1/routes/:routeId/stops/current/skip.
func (s *Server) SkipCurrentStop(ctx echo.Context) error {
	return s.handleRouteAction(ctx, func(routeID, servicerID kernel.UUID) error {
		command, err := commands.NewSkipStopCommand(routeID, servicerID)
		if err != nil {
			return err
		}
		return s.skipStopHandler.Handle(ctx.Request().Context(), command)
	})
}

// handleRouteAction factors the shared shape of the stop progression
// endpoints: route id from the path, servicer from the header, 204 on
// success.
func (s *Server) handleRouteAction(ctx echo.Context, action func(routeID, servicerID kernel.UUID) error) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "invalid_route_id", err.Error())
	}

	if err = action(routeID, servicerID); err != nil {
		return renderError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// completeJobRequest is the optional body of POST /api/v1/jobs/:jobId/complete.
// An absent body or status means completed; cancelled and no_show resolve
// the job the same way, and progress statuses serve jobs worked off-route.
type completeJobRequest struct {
	Status string `json:"status"`
}

// CompleteJob handles POST /api/v1/jobs/:jobId/complete, the direct status
// update path for jobs worked outside a formal route.
func (s *Server) CompleteJob(ctx echo.Context) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}
	jobID, err := kernel.UUIDFromString(ctx.Param("jobId"))
	if err != nil {
		return badRequest(ctx, "invalid_job_id", err.Error())
	}

	var request completeJobRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid_body", err.Error())
	}

	target := job.Completed
	if request.Status != "" {
		if target, err = job.StatusFromString(request.Status); err != nil {
			return renderError(ctx, err)
		}
	}

	command, err := commands.NewCompleteJobCommand(jobID, servicerID, target)
	if err != nil {
		return renderError(ctx, err)
	}
	if err = s.completeJobHandler.Handle(ctx.Request().Context(), command); err != nil {
		return renderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"jobId":  jobID.String(),
		"status": target.String(),
	})
}

// reportLocationRequest is the body of POST /api/v1/locations. Exactly one
// of routeId and jobId must be set.
type reportLocationRequest struct {
	RouteID   *string `json:"routeId"`
	JobID     *string `json:"jobId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Heading   float64 `json:"heading"`
	Speed     float64 `json:"speed"`
}

// ReportLocation handles POST /api/v1/locations.
func (s *Server) ReportLocation(ctx echo.Context) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}

	var body reportLocationRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid_body", "request body is not valid JSON")
	}

	point, err := kernel.NewGeoPoint(body.Latitude, body.Longitude)
	if err != nil {
		return renderError(ctx, err)
	}

	routeID, err := optionalUUID(body.RouteID)
	if err != nil {
		return badRequest(ctx, "invalid_route_id", err.Error())
	}
	jobID, err := optionalUUID(body.JobID)
	if err != nil {
		return badRequest(ctx, "invalid_job_id", err.Error())
	}

	command, err := commands.NewReportLocationCommand(servicerID, routeID, jobID, point, body.Heading, body.Speed)
	if err != nil {
		return renderError(ctx, err)
	}
	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), command); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// queueLocationResponse is the last known servicer position in a queue view.
type queueLocationResponse struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Heading    float64 `json:"heading"`
	Speed      float64 `json:"speed"`
	RecordedAt string  `json:"recordedAt"`
}

// queuePositionResponse is the body of GET /api/v1/jobs/:jobId/queue-position.
type queuePositionResponse struct {
	JobID       string                 `json:"jobId"`
	State       string                 `json:"state"`
	Position    int                    `json:"position,omitempty"`
	Total       int                    `json:"total,omitempty"`
	IsNext      bool                   `json:"isNext"`
	JobStatus   string                 `json:"jobStatus"`
	RouteStatus string                 `json:"routeStatus,omitempty"`
	Location    *queueLocationResponse `json:"location,omitempty"`
}

// GetQueuePosition handles GET /api/v1/jobs/:jobId/queue-position.
func (s *Server) GetQueuePosition(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("jobId"))
	if err != nil {
		return badRequest(ctx, "invalid_job_id", err.Error())
	}

	query, err := queries.NewQueuePositionQuery(jobID)
	if err != nil {
		return renderError(ctx, err)
	}

	view, err := s.queuePositionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return renderError(ctx, err)
	}

	response := queuePositionResponse{
		JobID:       view.JobID.String(),
		State:       view.State,
		Position:    view.Position,
		Total:       view.Total,
		IsNext:      view.IsNext,
		JobStatus:   view.JobStatus,
		RouteStatus: view.RouteStatus,
	}
	if view.Location != nil {
		response.Location = &queueLocationResponse{
			Latitude:   view.Location.Latitude,
			Longitude:  view.Location.Longitude,
			Heading:    view.Location.Heading,
			Speed:      view.Location.Speed,
			RecordedAt: view.Location.RecordedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// activeRouteStopResponse is one stop of the active route view.
type activeRouteStopResponse struct {
	JobID    string `json:"jobId"`
	Position int    `json:"position"`
	Status   string `json:"status"`
}

// activeRouteResponse is the body of GET /api/v1/routes/active.
type activeRouteResponse struct {
	RouteID      string                    `json:"routeId"`
	Status       string                    `json:"status"`
	CurrentIndex int                       `json:"currentIndex"`
	Stops        []activeRouteStopResponse `json:"stops"`
}

// GetActiveRoute handles GET /api/v1/routes/active?date=YYYY-MM-DD. The date
// defaults to today when omitted.
func (s *Server) GetActiveRoute(ctx echo.Context) error {
	servicerID, err := servicerFromHeader(ctx)
	if err != nil {
		return badRequest(ctx, "missing_servicer", err.Error())
	}

	date, err := parseServiceDateOrToday(ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, "invalid_date", err.Error())
	}

	query, err := queries.NewGetActiveRouteQuery(servicerID, date)
	if err != nil {
		return renderError(ctx, err)
	}

	view, err := s.activeRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return renderError(ctx, err)
	}

	response := activeRouteResponse{
		RouteID:      view.RouteID.String(),
		Status:       view.Status,
		CurrentIndex: view.CurrentIndex,
		Stops:        make([]activeRouteStopResponse, 0, len(view.Stops)),
	}
	for _, stop := range view.Stops {
		response.Stops = append(response.Stops, activeRouteStopResponse{
			JobID:    stop.JobID.String(),
			Position: stop.Position,
			Status:   stop.Status,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// SubscribeJobEvents handles GET /ws/jobs/:jobId, upgrading the connection
// and subscribing it to the job's event stream.
func (s *Server) SubscribeJobEvents(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("jobId"))
	if err != nil {
		return badRequest(ctx, "invalid_job_id", err.Error())
	}

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		return nil
	}

	s.hub.Subscribe(jobID, conn)
	return nil
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
