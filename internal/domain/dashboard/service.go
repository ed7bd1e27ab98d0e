package dashboard

import "context"

type DashboardService interface {
	GetStats(ctx context.Context, req StatsRequest) (StatsResponse, error)
	GetAttendanceReport(ctx context.Context, req AttendanceReportRequest) (AttendanceReportResponse, error)

	// GetLiveStatus reports every active employee's state for today.
	GetLiveStatus(ctx context.Context) (LiveStatusResponse, error)
}
