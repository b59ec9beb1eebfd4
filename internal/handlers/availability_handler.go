package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
	"github.com/slotline/slotline-api/internal/httperr"
	"github.com/slotline/slotline-api/internal/httpresp"
	"github.com/slotline/slotline-api/internal/middleware"
	ucSchedule "github.com/slotline/slotline-api/internal/usecase/schedule"
)

type AvailabilityHandler struct {
	repo          domain.Repository
	saveWindow    *ucSchedule.SaveWindow
	deleteWindow  *ucSchedule.DeleteWindow
	generateSlots *ucSchedule.GenerateSlots
}

func NewAvailabilityHandler(
	repo domain.Repository,
	saveWindow *ucSchedule.SaveWindow,
	deleteWindow *ucSchedule.DeleteWindow,
	generateSlots *ucSchedule.GenerateSlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		repo:          repo,
		saveWindow:    saveWindow,
		deleteWindow:  deleteWindow,
		generateSlots: generateSlots,
	}
}

// --------- Requests ---------

type WindowRequest struct {
	TenantID  uint      `json:"tenant_id" binding:"required"`
	StaffID   *uint     `json:"staff_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Note      string    `json:"note"`
}

// --------- Handlers ---------

// GET /api/availability?tenant_id&staff_id&from&to
func (h *AvailabilityHandler) List(c *gin.Context) {
	tenantID, ok := queryUint(c, "tenant_id", true)
	if !ok {
		return
	}
	staffID, ok := optionalQueryUint(c, "staff_id")
	if !ok {
		return
	}

	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_range", "from/to must be RFC3339 timestamps")
		return
	}

	windows, err := h.repo.ListWindows(c.Request.Context(), tenantID, staffID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_windows", "could not list availability")
		return
	}

	httpresp.List(c, windows)
}

// GET /api/availability/:id
func (h *AvailabilityHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	window, err := h.repo.GetWindow(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "window_not_found", businessMessages["window_not_found"])
		return
	}

	httpresp.OK(c, window)
}

// POST /api/availability
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req WindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !h.tenantAllowed(c, req.TenantID) {
		return
	}

	window, err := h.saveWindow.Execute(c.Request.Context(), ucSchedule.SaveWindowInput{
		TenantID: req.TenantID,
		Staff:    domain.StaffRefFromID(req.StaffID),
		Start:    req.StartTime,
		End:      req.EndTime,
		Note:     req.Note,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"id": window.ID})
}

// PUT /api/availability/:id
func (h *AvailabilityHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req WindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !h.tenantAllowed(c, req.TenantID) {
		return
	}

	window, err := h.saveWindow.Execute(c.Request.Context(), ucSchedule.SaveWindowInput{
		TenantID: req.TenantID,
		Staff:    domain.StaffRefFromID(req.StaffID),
		Start:    req.StartTime,
		End:      req.EndTime,
		Note:     req.Note,
		WindowID: id,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.OK(c, window)
}

// DELETE /api/availability/:id
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	tenantID, ok := tenantFromToken(c)
	if !ok {
		return
	}
	if err := h.deleteWindow.Execute(c.Request.Context(), tenantID, id); err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

// GET /api/availability/slots?tenant_id&date&service_id&staff_id
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	tenantID, ok := queryUint(c, "tenant_id", true)
	if !ok {
		return
	}

	tenant, err := h.repo.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		httperr.BadRequest(c, "tenant_not_found", businessMessages["tenant_not_found"])
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}
	date, err := parseDateInTenant(tenant, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	serviceID, ok := optionalQueryUint(c, "service_id")
	if !ok {
		return
	}
	staffID, ok := optionalQueryUint(c, "staff_id")
	if !ok {
		return
	}

	slots, err := h.generateSlots.Execute(c.Request.Context(), ucSchedule.GenerateSlotsInput{
		TenantID:  tenantID,
		Date:      date,
		ServiceID: serviceID,
		StaffID:   staffID,
	})
	if err != nil {
		httperr.Internal(c, "slots_failed", "could not compute slots")
		return
	}

	httpresp.List(c, slots)
}

// GET /api/availability/week?tenant_id&start_date
func (h *AvailabilityHandler) Week(c *gin.Context) {
	tenantID, ok := queryUint(c, "tenant_id", true)
	if !ok {
		return
	}

	tenant, err := h.repo.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		httperr.BadRequest(c, "tenant_not_found", businessMessages["tenant_not_found"])
		return
	}

	start, err := parseDateInTenant(tenant, c.Query("start_date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "start_date must be YYYY-MM-DD")
		return
	}

	windows, err := h.repo.ListWindows(
		c.Request.Context(),
		tenantID,
		nil,
		start,
		start.AddDate(0, 0, 7),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_windows", "could not list availability")
		return
	}

	httpresp.List(c, windows)
}

// tenantAllowed enforces that authenticated writes stay inside the
// caller's own tenant. Unauthenticated routes carry no tenant claim
// and pass through.
func (h *AvailabilityHandler) tenantAllowed(c *gin.Context, tenantID uint) bool {
	claim, exists := c.Get(middleware.ContextTenantID)
	if !exists {
		return true
	}
	claimed, ok := claim.(uint)
	if !ok || claimed != tenantID {
		httperr.Forbidden(c, "tenant_mismatch", "token does not grant access to this tenant")
		return false
	}
	return true
}

// --------- Param helpers ---------

// tenantFromToken reads the tenant claim set by the auth middleware.
// A route reaching here without one is rejected, not assumed.
func tenantFromToken(c *gin.Context) (uint, bool) {
	claim, exists := c.Get(middleware.ContextTenantID)
	if !exists {
		httperr.Unauthorized(c, "missing_tenant_claim", "authentication required")
		return 0, false
	}
	id, ok := claim.(uint)
	if !ok {
		httperr.Unauthorized(c, "missing_tenant_claim", "authentication required")
		return 0, false
	}
	return id, true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

func queryUint(c *gin.Context, name string, required bool) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			httperr.BadRequest(c, "missing_"+name, name+" is required")
		}
		return 0, !required
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

func optionalQueryUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, name+" must be a positive integer")
		return nil, false
	}
	id := uint(v)
	return &id, true
}
