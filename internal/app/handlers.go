package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vapi-glue/internal/config"
)

// Tool identifiers form a closed set; anything else is a 400. Keeping them
// typed makes the dispatch switch exhaustive to the eye.
type Tool string

const (
	ToolCheckServiceArea    Tool = "checkServiceArea"
	ToolBookVirtualEstimate Tool = "bookVirtualEstimate"
	ToolSendPhotoLink       Tool = "sendPhotoLink"
	ToolEscalateCall        Tool = "escalateCall"
)

// App wires the gateways and config together. One instance serves all
// requests; it holds no per-request state.
type App struct {
	Cfg      *config.Config
	Calendar CalendarGateway
	Notifier NotificationGateway
	Location *time.Location
	Log      *zap.Logger

	// Now returns the current instant; nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// GET /
func (a *App) LivenessHandler(c *gin.Context) {
	c.String(http.StatusOK, "Refresh Painting glue server OK")
}

// POST /vapi-tool
// Validates the envelope, routes to the matching tool handler, and
// normalizes outcomes: 400 for unknown tools or missing arguments, 500 with
// a generic body for provider faults, 200 for everything else including
// soft failures the voice agent speaks aloud.
func (a *App) ToolHandler(c *gin.Context) {
	var inv ToolInvocation
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch Tool(inv.Tool) {
	case ToolCheckServiceArea:
		a.checkServiceArea(c, inv.Arguments)
	case ToolBookVirtualEstimate:
		a.bookVirtualEstimate(c, inv.Arguments)
	case ToolSendPhotoLink:
		a.sendPhotoLink(c, inv.Arguments)
	case ToolEscalateCall:
		a.escalateCall(c, inv.Arguments)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tool"})
	}
}

// decodeArgs unmarshals the raw arguments object into the tool's typed
// struct. A nil arguments object decodes to zero values so required-field
// checks still fire.
func decodeArgs(c *gin.Context, raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arguments"})
		return false
	}
	return true
}

func requireArgs(c *gin.Context, fields map[string]string) bool {
	for name, val := range fields {
		if val == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is required", name)})
			return false
		}
	}
	return true
}

func (a *App) checkServiceArea(c *gin.Context, raw json.RawMessage) {
	var args ServiceAreaArgs
	if !decodeArgs(c, raw, &args) {
		return
	}

	// Prefix guess only; anything outside 232/231 gets a human follow-up.
	inArea := strings.HasPrefix(args.Zip, "232") || strings.HasPrefix(args.Zip, "231")
	c.JSON(http.StatusOK, gin.H{
		"in_area_guess":             inArea,
		"needs_manual_verification": !inArea,
	})
}

func (a *App) bookVirtualEstimate(c *gin.Context, raw json.RawMessage) {
	var req BookingRequest
	if !decodeArgs(c, raw, &req) {
		return
	}
	if !requireArgs(c, map[string]string{
		"caller_name":   req.CallerName,
		"caller_phone":  req.CallerPhone,
		"job_type":      req.JobType,
		"address_line1": req.AddressLine1,
		"city":          req.City,
		"state":         req.State,
		"zip":           req.Zip,
	}) {
		return
	}

	conf, err := a.Book(c.Request.Context(), req)
	if err != nil {
		a.Log.Error("booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if conf == nil {
		// Soft failure: the agent speaks this to the caller.
		c.JSON(http.StatusOK, gin.H{"error": "No availability in next 3 weeks"})
		return
	}

	a.Log.Info("estimate booked",
		zap.String("event_id", conf.EventID),
		zap.Time("start", conf.Start))
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"start":     conf.Start.Format(time.RFC3339),
		"end":       conf.End.Format(time.RFC3339),
		"event_id":  conf.EventID,
		"meet_link": conf.MeetLink,
	})
}

func (a *App) sendPhotoLink(c *gin.Context, raw json.RawMessage) {
	var args PhotoLinkArgs
	if !decodeArgs(c, raw, &args) {
		return
	}
	if !requireArgs(c, map[string]string{
		"to_number": args.ToNumber,
		"form_url":  args.FormURL,
	}) {
		return
	}

	msg := fmt.Sprintf("Here’s the photo upload link for your virtual estimate: %s\nWe’ll text confirmations & reminders. Reply STOP to opt-out.", args.FormURL)
	if err := a.Notifier.Send(c.Request.Context(), args.ToNumber, msg); err != nil {
		// Fire and forget: delivery problems never fail the tool call.
		a.Log.Warn("photo link sms failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) escalateCall(c *gin.Context, raw json.RawMessage) {
	var args EscalateArgs
	if !decodeArgs(c, raw, &args) {
		return
	}
	if !requireArgs(c, map[string]string{
		"caller_name":     args.CallerName,
		"caller_phone":    args.CallerPhone,
		"callback_window": args.CallbackWindow,
	}) {
		return
	}

	if a.Cfg.EscalationSMS != "" {
		reason := args.Reason
		if reason == "" {
			reason = "n/a"
		}
		msg := fmt.Sprintf("Callback request: %s %s\nWhen: %s\nReason: %s",
			args.CallerName, args.CallerPhone, args.CallbackWindow, reason)
		if err := a.Notifier.Send(c.Request.Context(), a.Cfg.EscalationSMS, msg); err != nil {
			a.Log.Warn("escalation sms failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
