package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
)

// streamKeepalive is how often an idle live stream sends a ping.
const streamKeepalive = 30 * time.Second

type DashboardHandler interface {
	// GetStats handles GET /dashboard/stats?period=today|week|month
	GetStats(w http.ResponseWriter, r *http.Request)
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetLiveStatus(w http.ResponseWriter, r *http.Request)

	// GetStreamToken issues the short-lived token used by LiveStream
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	LiveStream(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	jwtService       jwt.Service
	hub              *sse.Hub
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, jwtService jwt.Service, hub *sse.Hub) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		jwtService:       jwtService,
		hub:              hub,
	}
}

// GetStats implements DashboardHandler.
func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	req := dashboard.StatsRequest{Period: calendar.Period(r.URL.Query().Get("period"))}

	result, err := h.dashboardService.GetStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func attendanceReportRequest(r *http.Request) dashboard.AttendanceReportRequest {
	return dashboard.AttendanceReportRequest{
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
		EmployeeID: optionalQuery(r, "employee_id"),
		Department: optionalQuery(r, "department"),
	}
}

// GetAttendanceReport implements DashboardHandler.
func (h *dashboardHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAttendanceReport(r.Context(), attendanceReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLiveStatus implements DashboardHandler.
func (h *dashboardHandlerImpl) GetLiveStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetLiveStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStreamToken implements DashboardHandler.
func (h *dashboardHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	token, expiresIn, err := h.jwtService.GenerateSSEToken(claims)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// LiveStream implements DashboardHandler. It pushes check-in and check-out
// events until the client disconnects.
func (h *dashboardHandlerImpl) LiveStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicAttendance)
	defer cleanup()

	claims, _ := middleware.ClaimsFromContext(r.Context())
	slog.Info("Live stream connected", "user_id", claims.UserID, "subscribers", h.hub.SubscriberCount(sse.TopicAttendance))

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode live event", "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
