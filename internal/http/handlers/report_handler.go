package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
	"warehouse/internal/validate"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// dayParam reads a YYYY-MM-DD query value, falling back to def when absent.
func dayParam(c *fiber.Ctx, name string, def time.Time, loc *time.Location) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	t, ok := validate.Date(raw, loc)
	if !ok {
		return time.Time{}, domain.Invalid(name, "date must be YYYY-MM-DD")
	}
	return t, nil
}

// GET /api/v1/reports/period?start=&end=
// Defaults to the current month up to today.
func (h *ReportHandler) Period(c *fiber.Ctx) error {
	loc := h.Reports.Location()
	now := time.Now().In(loc)
	start, err := dayParam(c, "start", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), loc)
	if err != nil {
		return respondError(c, "reports.period", err)
	}
	end, err := dayParam(c, "end", now, loc)
	if err != nil {
		return respondError(c, "reports.period", err)
	}
	rep, err := h.Reports.Period(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, "reports.period", err)
	}
	return c.JSON(rep)
}

// GET /api/v1/reports/daily-closing
func (h *ReportHandler) DailyClosing(c *fiber.Ctx) error {
	dc, err := h.Reports.DailyClosing(c.UserContext())
	if err != nil {
		return respondError(c, "reports.closing", err)
	}
	return c.JSON(dc)
}

// POST /api/v1/reports/daily-closing
func (h *ReportHandler) SaveDailyClosing(c *fiber.Ctx) error {
	dc, err := h.Reports.SaveDailyClosing(c.UserContext())
	if err != nil {
		return respondError(c, "reports.closing.save", err)
	}
	applog.Audit(c, "reports.closing.save", map[string]any{"report_id": dc.ID, "date": dc.Date, "sales": dc.SalesCount, "revenue": dc.Revenue})
	return c.Status(fiber.StatusCreated).JSON(dc)
}

// GET /api/v1/reports
func (h *ReportHandler) List(c *fiber.Ctx) error {
	list, err := h.Reports.ListReports(c.UserContext())
	if err != nil {
		return respondError(c, "reports.list", err)
	}
	return c.JSON(list)
}

// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, "dashboard", err)
	}
	return c.JSON(d)
}

// GET /reports/daily-closing
func (h *ReportHandler) ClosingPage(c *fiber.Ctx) error {
	dc, err := h.Reports.DailyClosing(c.UserContext())
	if err != nil {
		applog.Error(c, "reports.closing.page.fail", err, nil)
		return c.Status(statusFor(domain.Kind(err))).Render("notfound", fiber.Map{"Message": "Could not load the daily closing"})
	}
	return render(c, "closing", fiber.Map{"Closing": dc, "Zone": h.Reports.Location().String()})
}
