package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/service"
)

// AttendanceHandler exposes clock-in, clock-out and record queries
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

type attendanceResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Date       string  `json:"date"`
	ClockIn    string  `json:"clock_in"`
	ClockOut   *string `json:"clock_out"`
	TotalHours string  `json:"total_hours"`
}

func recordToResponse(rec *core.AttendanceRecord) attendanceResponse {
	out := attendanceResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Date:       rec.Date.Format("2006-01-02"),
		ClockIn:    rec.ClockIn.UTC().Format(time.RFC3339),
		TotalHours: rec.TotalHours.StringFixed(2),
	}
	if rec.ClockOut != nil {
		s := rec.ClockOut.UTC().Format(time.RFC3339)
		out.ClockOut = &s
	}
	return out
}

// ClockIn handles POST /api/attendance/clock-in
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.attendanceService.ClockIn(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, core.ErrAlreadyClockedIn) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already clocked in today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clock in"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": recordToResponse(rec)})
}

// ClockOut handles POST /api/attendance/clock-out
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.attendanceService.ClockOut(c.Request.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotClockedIn):
			c.JSON(http.StatusConflict, gin.H{"error": "Not clocked in today"})
		case errors.Is(err, core.ErrAlreadyClockedOut):
			c.JSON(http.StatusConflict, gin.H{"error": "Already clocked out today"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clock out"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": recordToResponse(rec)})
}

// ListMine handles GET /api/attendance/me
func (h *AttendanceHandler) ListMine(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := core.AttendanceFilter{UserID: user.ID}
	if err := parseDateRange(c, &filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.writeRecords(c, filter)
}

// List handles GET /api/attendance, admin and hr only. Records can be
// filtered by user and date range.
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := core.AttendanceFilter{UserID: c.Query("userId")}
	if err := parseDateRange(c, &filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.writeRecords(c, filter)
}

func (h *AttendanceHandler) writeRecords(c *gin.Context, filter core.AttendanceFilter) {
	records, err := h.attendanceService.Query(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query records"})
		return
	}

	out := make([]attendanceResponse, len(records))
	for i, rec := range records {
		out[i] = recordToResponse(rec)
	}

	c.JSON(http.StatusOK, gin.H{"records": out})
}

func parseDateRange(c *gin.Context, filter *core.AttendanceFilter) error {
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return errors.New("from must be a YYYY-MM-DD date")
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return errors.New("to must be a YYYY-MM-DD date")
		}
		filter.To = t
	}
	return nil
}
