package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/email"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/preview"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loadRequest struct {
	Sheet string `json:"sheet" binding:"required"`
}

type sendRequest struct {
	DryRun bool `json:"dry_run"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.store.Create()
	s.logger.Info("Session created", zap.String("session_id", sess.ID))
	c.JSON(http.StatusCreated, gin.H{
		"id":    sess.ID,
		"state": sess.Machine.State().String(),
	})
}

func (s *Server) handleSessionStatus(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	resp := gin.H{
		"id":          sess.ID,
		"state":       sess.Machine.State().String(),
		"has_mapping": len(sess.emailMap) > 0,
	}
	if sess.sheet != "" {
		resp["sheet"] = sess.sheet
		resp["people"] = len(sess.entries)
	}
	if sess.generated != nil {
		resp["batch_id"] = sess.generated.BatchID
		resp["generated"] = len(sess.generated.Items)
	}
	c.JSON(http.StatusOK, resp)
}

// handleUploadWorkbook stores the raw workbook and reports its sheet
// names. No state transition happens yet: the operator still has to
// pick a sheet to load.
func (s *Server) handleUploadWorkbook(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	data, ok := s.formFile(c, "file")
	if !ok {
		return
	}

	names, err := s.reader.SheetNames(data)
	if err != nil {
		if errors.Is(err, excel.ErrNotSpreadsheet) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	sess.workbook = data
	sess.mu.Unlock()

	s.logger.Info("Workbook uploaded",
		zap.String("session_id", sess.ID),
		zap.Int("bytes", len(data)),
		zap.Strings("sheets", names))
	c.JSON(http.StatusOK, gin.H{"sheets": names})
}

// handleLoadSheet parses the chosen sheet, validates the required
// columns and assembles the person list. Loading is permitted from any
// state and discards previously generated output.
func (s *Server) handleLoadSheet(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet is required"})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.workbook == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no workbook uploaded"})
		return
	}
	if !sess.Machine.CanFire(session.TriggerLoad) {
		s.rejectTransition(c, sess, session.TriggerLoad)
		return
	}

	table, err := s.reader.ReadSheet(sess.workbook, req.Sheet)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, excel.ErrSheetNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := excel.ValidateRequired(table, false); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	entries, err := s.assembler.People(table)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := sess.Machine.Fire(c.Request.Context(), session.TriggerLoad); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	sess.sheet = req.Sheet
	sess.table = table
	sess.entries = entries
	sess.clearResults()

	s.logger.Info("Sheet loaded",
		zap.String("session_id", sess.ID),
		zap.String("sheet", req.Sheet),
		zap.Int("rows", table.RowCount()),
		zap.Int("people", len(entries)))

	c.JSON(http.StatusOK, gin.H{
		"state":      sess.Machine.State().String(),
		"sheet":      req.Sheet,
		"rows":       table.RowCount(),
		"people":     len(entries),
		"has_emails": table.EmailColumn() != "",
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.Machine.CanFire(session.TriggerGenerate) {
		s.rejectTransition(c, sess, session.TriggerGenerate)
		return
	}

	result, err := s.generator.Generate(c.Request.Context(), sess.entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := sess.Machine.Fire(c.Request.Context(), session.TriggerGenerate); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	sess.clearResults()
	sess.generated = result

	c.JSON(http.StatusOK, gin.H{
		"state":    sess.Machine.State().String(),
		"batch_id": result.BatchID,
		"ok":       result.Report.CountStatus(model.StatusOK),
		"fail":     result.Report.CountStatus(model.StatusFail),
		"report":   result.Report.Rows(),
	})
}

func (s *Server) handleDownloadArchive(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no generated batch"})
		return
	}

	name := fmt.Sprintf("SPTJM_%s.zip", sess.generated.BatchID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/zip", sess.generated.Archive)
}

func (s *Server) handleGenerateReport(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no generated batch"})
		return
	}
	s.writeCSV(c, "laporan_generate.csv", sess.generated.Report)
}

func (s *Server) handleEmailReport(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.emailReport == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no email run"})
		return
	}
	s.writeCSV(c, "laporan_kirim_email.csv", sess.emailReport)
}

// handlePreview renders the first page of one generated statement as a
// PNG.
func (s *Server) handlePreview(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no generated batch"})
		return
	}

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(sess.generated.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such document"})
		return
	}

	png, err := preview.FirstPagePNG(sess.generated.Items[idx].PDF)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// handleUploadMapping accepts a NIP→email workbook. A mapping may
// arrive at any point before or after generation; it only affects the
// next send.
func (s *Server) handleUploadMapping(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	data, ok := s.formFile(c, "file")
	if !ok {
		return
	}

	names, err := s.reader.SheetNames(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	table, err := s.reader.ReadSheet(data, names[0])
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	emailMap, err := excel.BuildEmailMap(table, s.logger)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	sess.emailMap = emailMap
	sess.mu.Unlock()

	s.logger.Info("Email mapping uploaded",
		zap.String("session_id", sess.ID),
		zap.Int("entries", len(emailMap)))
	c.JSON(http.StatusOK, gin.H{"entries": len(emailMap)})
}

// handleConfirm records the operator's explicit go-ahead for sending.
func (s *Server) handleConfirm(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Machine.Fire(c.Request.Context(), session.TriggerConfirm); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sess.Machine.State().String()})
}

// handleSend distributes the generated statements. A dry run walks the
// full recipient resolution without touching the relay and leaves the
// session state untouched; it only needs a generated batch, not a
// confirmation, so the operator can rehearse before committing.
func (s *Server) handleSend(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var transport email.Transport
	if req.DryRun {
		if sess.generated == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "no generated batch"})
			return
		}
	} else {
		if !sess.Machine.CanFire(session.TriggerSend) {
			s.rejectTransition(c, sess, session.TriggerSend)
			return
		}
		t, err := s.newTransport()
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("mail relay not configured: %v", err)})
			return
		}
		transport = t
	}

	distributor := email.NewDistributor(transport, s.logger)
	rep := distributor.Distribute(c.Request.Context(), sess.generated.Items, email.Options{
		SubjectTemplate: s.cfg.Email.SubjectTemplate,
		BodyTemplate:    s.cfg.Email.BodyTemplate,
		DryRun:          req.DryRun,
		EmailMap:        sess.emailMap,
	})
	sess.emailReport = rep

	if !req.DryRun {
		if err := sess.Machine.Fire(c.Request.Context(), session.TriggerSend); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"state":   sess.Machine.State().String(),
		"dry_run": req.DryRun,
		"ok":      rep.CountStatus(model.StatusOK),
		"fail":    rep.CountStatus(model.StatusFail),
		"skip":    rep.CountStatus(model.StatusSkip),
		"report":  rep.Rows(),
	})
}

// handleReset returns the session to idle and drops all working data.
func (s *Server) handleReset(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Machine.Fire(c.Request.Context(), session.TriggerReset); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	sess.workbook = nil
	sess.sheet = ""
	sess.table = nil
	sess.entries = nil
	sess.emailMap = nil
	sess.clearResults()

	c.JSON(http.StatusOK, gin.H{"state": sess.Machine.State().String()})
}

// session resolves the path session or writes a 404.
func (s *Server) session(c *gin.Context) *Session {
	sess := s.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	}
	return sess
}

// formFile reads one uploaded multipart file fully into memory.
func (s *Server) formFile(c *gin.Context, field string) ([]byte, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing %s upload", field)})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}

func (s *Server) rejectTransition(c *gin.Context, sess *Session, trigger session.Trigger) {
	c.JSON(http.StatusConflict, gin.H{
		"error": fmt.Sprintf("cannot %s from state %s",
			trigger.String(), sess.Machine.State().String()),
	})
}

func (s *Server) writeCSV(c *gin.Context, name string, rep csvWriter) {
	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type csvWriter interface {
	WriteCSV(w io.Writer) error
}
