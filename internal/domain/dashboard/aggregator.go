package dashboard

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
)

// StatsInput is everything AggregateStats needs, fetched by the service.
type StatsInput struct {
	Period         PeriodStats
	TotalEmployees int
	Today          []attendance.Attendance
	PeriodRecords  []attendance.Attendance
	Departments    []employee.DepartmentStat
	Location       *time.Location
	LateHour       int
}

// AggregateStats folds today's and the period's records into dashboard stats.
func AggregateStats(in StatsInput) StatsResponse {
	resp := StatsResponse{
		PeriodStats: in.Period,
		Departments: make([]DepartmentStats, 0, len(in.Departments)),
		Today:       make([]TodayDetail, 0, len(in.Today)),
	}

	summary := SummaryStats{TotalEmployees: in.TotalEmployees}
	for _, rec := range in.Today {
		summary.PresentToday++
		if rec.CheckOut != nil {
			summary.CheckedOut++
		}
		if IsLate(rec.CheckIn, in.Location, in.LateHour) {
			summary.LateToday++
		}
		resp.Today = append(resp.Today, todayDetail(rec, in.Location))
	}
	summary.StillPresent = summary.PresentToday - summary.CheckedOut
	summary.AbsentToday = max(summary.TotalEmployees-summary.PresentToday, 0)

	var totalHours float64
	completed := 0
	for _, rec := range in.PeriodRecords {
		if rec.Status != attendance.StatusCompleted {
			continue
		}
		completed++
		totalHours += rec.WorkHours
	}
	resp.PeriodStats.TotalAttendances = completed
	resp.PeriodStats.TotalHoursWorked = attendance.Round2(totalHours)
	if completed > 0 {
		resp.PeriodStats.AverageHoursPerDay = attendance.Round2(totalHours / float64(completed))
	}

	expected := summary.TotalEmployees * in.Period.WorkingDays
	if expected > 0 {
		summary.AttendanceRate = attendance.Round2(float64(completed) / float64(expected) * 100)
	}
	resp.Summary = summary

	for _, d := range in.Departments {
		resp.Departments = append(resp.Departments, DepartmentStats{
			Department:    d.Department,
			Count:         d.Count,
			AverageSalary: d.AverageSalary.Round(2),
		})
	}
	sort.SliceStable(resp.Departments, func(i, j int) bool {
		if resp.Departments[i].Count != resp.Departments[j].Count {
			return resp.Departments[i].Count > resp.Departments[j].Count
		}
		return resp.Departments[i].Department < resp.Departments[j].Department
	})

	return resp
}

func todayDetail(rec attendance.Attendance, loc *time.Location) TodayDetail {
	d := TodayDetail{
		EmployeeID: rec.EmployeeID,
		CheckIn:    rec.CheckIn.In(loc).Format(time.RFC3339),
		WorkHours:  rec.WorkHours,
		Status:     rec.Status,
	}
	if rec.CheckOut != nil {
		out := rec.CheckOut.In(loc).Format(time.RFC3339)
		d.CheckOut = &out
	}
	return d
}

// BuildAttendanceReport groups records per employee. Employees with no
// records in range still get an entry with a zero summary.
func BuildAttendanceReport(employees []employee.Employee, records []attendance.Attendance, loc *time.Location) []EmployeeReport {
	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	report := make([]EmployeeReport, 0, len(employees))
	for _, emp := range employees {
		recs := byEmployee[emp.ID]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })

		entry := EmployeeReport{
			Employee:     InfoOf(emp),
			DailyRecords: make([]DailyRecord, 0, len(recs)),
		}
		var total float64
		for _, rec := range recs {
			entry.Summary.TotalDays++
			if rec.Status == attendance.StatusCompleted {
				entry.Summary.CompletedDays++
				total += rec.WorkHours
			}

			status, color := ClassifyDay(rec.WorkHours)
			switch status {
			case DayFull:
				entry.Summary.FullDays++
			case DayIncomplete:
				entry.Summary.IncompleteDays++
			}

			daily := DailyRecord{
				Date:      rec.Date,
				CheckIn:   rec.CheckIn.In(loc).Format(time.RFC3339),
				WorkHours: rec.WorkHours,
				Status:    status,
				Color:     color,
			}
			if rec.CheckOut != nil {
				out := rec.CheckOut.In(loc).Format(time.RFC3339)
				daily.CheckOut = &out
			}
			entry.DailyRecords = append(entry.DailyRecords, daily)
		}
		entry.Summary.TotalHours = attendance.Round2(total)
		if entry.Summary.CompletedDays > 0 {
			entry.Summary.AverageHours = attendance.Round2(total / float64(entry.Summary.CompletedDays))
		}
		report = append(report, entry)
	}
	return report
}

// BuildLiveStatus produces one row per employee from today's records.
func BuildLiveStatus(employees []employee.Employee, today []attendance.Attendance, now time.Time, loc *time.Location) []LiveEmployeeStatus {
	byEmployee := make(map[string]attendance.Attendance, len(today))
	for _, rec := range today {
		byEmployee[rec.EmployeeID] = rec
	}

	out := make([]LiveEmployeeStatus, 0, len(employees))
	for _, emp := range employees {
		var rec *attendance.Attendance
		if r, ok := byEmployee[emp.ID]; ok {
			rec = &r
		}

		state, color, hours := LiveStatusOf(rec, now)
		row := LiveEmployeeStatus{
			Employee:         InfoOf(emp),
			Status:           state,
			StatusColor:      color,
			CurrentWorkHours: hours,
		}
		if rec != nil {
			in := rec.CheckIn.In(loc).Format(time.RFC3339)
			row.CheckInTime = &in
			if rec.CheckOut != nil {
				o := rec.CheckOut.In(loc).Format(time.RFC3339)
				row.CheckOutTime = &o
			}
		}
		out = append(out, row)
	}
	return out
}

func InfoOf(emp employee.Employee) EmployeeInfo {
	return EmployeeInfo{
		ID:           emp.ID,
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.FullName(),
		Department:   emp.Department,
		Position:     emp.Position,
	}
}
