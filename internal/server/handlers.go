package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ghostwood/internal/catalog"
	"ghostwood/internal/design"
	"ghostwood/internal/generation"
	"ghostwood/internal/heritage"
	"ghostwood/internal/history"
	"ghostwood/internal/intake"
	"ghostwood/internal/pickup"
	"ghostwood/internal/wizard"
)

type catalogResponse struct {
	Category catalog.Category `json:"category,omitempty"`
	Lists    []catalog.List   `json:"lists"`
}

type heritageResponse struct {
	Ready    bool               `json:"ready"`
	Heritage *heritage.Heritage `json:"heritage,omitempty"`
	Persona  heritage.Persona   `json:"persona"`
}

type demosResponse struct {
	Ready bool              `json:"ready"`
	Demos []generation.Link `json:"demos"`
}

type sessionResponse struct {
	ID       string          `json:"id"`
	Snapshot wizard.Snapshot `json:"snapshot"`
}

type saveResponse struct {
	Design    design.Final `json:"design"`
	Persisted bool         `json:"persisted"`
	Warning   string       `json:"warning,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	_, ready := s.loadedStartup()
	c.JSON(http.StatusOK, gin.H{"ok": true, "startupReady": ready, "sessions": s.sessions.len()})
}

func (s *Server) handleCatalog(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("category"))
	if raw == "" {
		c.JSON(http.StatusOK, catalogResponse{Lists: catalog.All()})
		return
	}
	category, err := catalog.ParseCategory(raw)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	c.JSON(http.StatusOK, catalogResponse{Category: category, Lists: catalog.ForCategory(category)})
}

func (s *Server) handleOfferings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offerings": catalog.Offerings})
}

func (s *Server) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.WorkshopManifest())
}

func (s *Server) handlePaymentMethods(c *gin.Context) {
	pricing := s.opts.Wizard.Pricing
	c.JSON(http.StatusOK, gin.H{
		"methods":  wizard.PaymentMethods,
		"price":    wizard.FormatPrice(pricing.Cents, pricing.Currency),
		"leadTime": pricing.LeadTime,
	})
}

func (s *Server) handleHeritage(c *gin.Context) {
	st, ready := s.loadedStartup()
	c.JSON(http.StatusOK, heritageResponse{Ready: ready, Heritage: st.Heritage, Persona: st.PersonaOrDefault()})
}

func (s *Server) handleDemos(c *gin.Context) {
	st, ready := s.loadedStartup()
	demos := st.Demos
	if demos == nil {
		demos = []generation.Link{}
	}
	c.JSON(http.StatusOK, demosResponse{Ready: ready, Demos: demos})
}

func (s *Server) handleListDesigns(c *gin.Context) {
	designs := []design.Final{}
	if s.opts.History != nil {
		designs = s.opts.History.List()
	}
	c.JSON(http.StatusOK, gin.H{"designs": designs})
}

func (s *Server) handleGetDesign(c *gin.Context) {
	if s.opts.History == nil {
		s.writeError(c, history.ErrNotFound)
		return
	}
	d, err := s.opts.History.Find(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleDeleteDesign(c *gin.Context) {
	if s.opts.History == nil {
		s.writeError(c, history.ErrNotFound)
		return
	}
	if err := s.opts.History.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	id, ctl := s.sessions.create()
	c.JSON(http.StatusCreated, sessionResponse{ID: id, Snapshot: ctl.Snapshot()})
}

// controller resolves the session in the path, writing a 404 when it is gone.
func (s *Server) controller(c *gin.Context) (*wizard.Controller, bool) {
	ctl, ok := s.sessions.get(c.Param("id"))
	if !ok {
		s.writeError(c, fmt.Errorf("%w: %s", errSessionNotFound, c.Param("id")))
		return nil, false
	}
	return ctl, true
}

// bind decodes the JSON body, writing a 400 on failure.
func (s *Server) bind(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid json: %w", errBadRequest, err))
		return false
	}
	return true
}

func (s *Server) handleSnapshot(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if !s.sessions.remove(c.Param("id")) {
		s.writeError(c, fmt.Errorf("%w: %s", errSessionNotFound, c.Param("id")))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpdateIntake(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var rec intake.Record
	if !s.bind(c, &rec) {
		return
	}
	if err := ctl.UpdateDraft(rec); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleSetCategory(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var body struct {
		Category string `json:"category"`
	}
	if !s.bind(c, &body) {
		return
	}
	category, err := catalog.ParseCategory(body.Category)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if _, err := ctl.EditDraft(func(r *intake.Record) { r.SetCategory(category) }); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleToggleToneGoal(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var body struct {
		Goal string `json:"goal"`
	}
	if !s.bind(c, &body) {
		return
	}
	if !catalog.ToneGoals.Contains(body.Goal) {
		s.writeError(c, fmt.Errorf("%w: unknown tone goal %q", errBadRequest, body.Goal))
		return
	}
	if _, err := ctl.EditDraft(func(r *intake.Record) { r.ToggleToneGoal(body.Goal) }); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleCompleteIntake(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if err := ctl.CompleteIntake(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleGenerate(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.Generate(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleAdjust(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var override pickup.Override
	if !s.bind(c, &override) {
		return
	}
	if err := override.Validate(); err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if _, err := ctl.AdjustSpec(c.Request.Context(), override); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleConfirm(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.ConfirmPickup(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

// handleSave reports storage failures as a warning: the design stays listed
// for the lifetime of the process.
func (s *Server) handleSave(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	d, err := ctl.Save(c.Request.Context())
	var storageErr *history.StorageError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, saveResponse{Design: d, Persisted: true})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusOK, saveResponse{Design: d, Persisted: false, Warning: storageErr.Error()})
	default:
		s.writeError(c, err)
	}
}

func (s *Server) handleCheckout(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.Checkout(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleSelectPayment(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var body struct {
		Method string `json:"method"`
	}
	if !s.bind(c, &body) {
		return
	}
	if _, known := wizard.LookupPaymentMethod(body.Method); !known {
		s.writeError(c, fmt.Errorf("%w: unknown payment method %q", errBadRequest, body.Method))
		return
	}
	if _, err := ctl.SelectPaymentMethod(body.Method); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleConfirmPayment(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.ConfirmPayment(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleBack(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if err := ctl.Back(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	ctl.Reset()
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleSetView(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var body struct {
		View string `json:"view"`
	}
	if !s.bind(c, &body) {
		return
	}
	view, err := wizard.ParseView(body.View)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if err := ctl.SetView(view); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleOpenDesign(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.OpenDesign(c.Param("designID")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

func (s *Server) handleToggleCompare(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if !s.bind(c, &body) {
		return
	}
	if _, err := ctl.ToggleCompare(body.ID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}

// handleCompare answers 200 even when the analysis failed; the table is
// always present and the failure is carried on the comparison.
func (s *Server) handleCompare(c *gin.Context) {
	ctl, ok := s.controller(c)
	if !ok {
		return
	}
	if _, err := ctl.Compare(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Snapshot())
}
