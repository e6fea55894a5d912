package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/config"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/email"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MockGenerator returns a canned result without touching soffice.
type MockGenerator struct {
	result    *batch.GenerateResult
	callCount int
}

func (m *MockGenerator) Generate(ctx context.Context, entries []assemble.Entry) (*batch.GenerateResult, error) {
	m.callCount++
	return m.result, nil
}

// MockTransport records sends and always succeeds.
type MockTransport struct {
	sent []email.Message
}

func (m *MockTransport) Send(ctx context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:          "127.0.0.1",
			Port:          8080,
			ReadTimeout:   time.Minute,
			WriteTimeout:  time.Minute,
			MaxUploadSize: 32 << 20,
		},
		Email: config.EmailConfig{
			SubjectTemplate: "SPTJM - {nama} ({nip})",
			BodyTemplate:    "Yth. {nama}",
			Delay:           time.Millisecond,
			Retries:         0,
		},
	}
}

func cannedResult() *batch.GenerateResult {
	rep := report.New()
	rep.Add(model.ResultRow{
		Nama: "Budi Santoso", NIP: "100", Email: "budi@kampus.ac.id",
		Status: model.StatusOK, Message: "PDF dibuat",
	})
	return &batch.GenerateResult{
		BatchID: "batch-1",
		Items: []batch.GeneratedItem{{
			Filename: "SPTJM_budi-santoso_100.pdf",
			PDF:      []byte("%PDF-1.4 fake"),
			Person: model.Person{
				Nama: "Budi Santoso", NIP: "100", Fakultas: "Teknik",
				Rekening: "123", Bank: "BSI", Email: "budi@kampus.ac.id",
			},
		}},
		Report:  rep,
		Archive: []byte("PK\x03\x04fake"),
	}
}

func newTestServer(t *testing.T, gen Generator, transport email.Transport, transportErr error) *Server {
	t.Helper()
	logger := zap.NewNop()
	factory := func() (email.Transport, error) {
		if transportErr != nil {
			return nil, transportErr
		}
		return transport, nil
	}
	return NewServer(testConfig(), excel.NewReader(logger), assemble.NewAssembler(logger), gen, factory, logger)
}

func workbookUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{
		"NIP", "Nama", "Fakultas", "Norek", "Email",
		"NoProp1", "Judul1", "Skema1", "Jumlah_dana1",
	}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{
		"100", "Budi Santoso", "Teknik", "123", "budi@kampus.ac.id",
		"P-1", "Penelitian Dasar", "PDP", "1500000",
	}))
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "data.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func do(t *testing.T, s *Server, method, path, contentType string, body *bytes.Buffer) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var resp map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func doJSON(t *testing.T, s *Server, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body := &bytes.Buffer{}
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}
	return do(t, s, method, path, "application/json", body)
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	w, resp := doJSON(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "IDLE", resp["state"])
	return resp["id"].(string)
}

func TestServer_FullFlow(t *testing.T) {
	transport := &MockTransport{}
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, transport, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	// upload
	body, ct := workbookUpload(t)
	w, resp := do(t, s, http.MethodPost, base+"/workbook", ct, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Sheet1"}, resp["sheets"])

	// load
	w, resp = doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LOADED", resp["state"])
	assert.Equal(t, float64(1), resp["people"])
	assert.Equal(t, true, resp["has_emails"])

	// generate
	w, resp = doJSON(t, s, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GENERATED", resp["state"])
	assert.Equal(t, "batch-1", resp["batch_id"])
	assert.Equal(t, float64(1), resp["ok"])

	// archive
	w, _ = do(t, s, http.MethodGet, base+"/archive", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))

	// generation report CSV
	w, _ = do(t, s, http.MethodGet, base+"/reports/generate", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "name,id_number,email,status,message")
	assert.Contains(t, w.Body.String(), "PDF dibuat")

	// confirm, then send
	w, resp = doJSON(t, s, http.MethodPost, base+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", resp["state"])

	w, resp = doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SENT", resp["state"])
	assert.Equal(t, float64(1), resp["ok"])
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "budi@kampus.ac.id", transport.sent[0].To)
	assert.Equal(t, "SPTJM - Budi Santoso (100)", transport.sent[0].Subject)

	// email report CSV
	w, _ = do(t, s, http.MethodGet, base+"/reports/email", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email terkirim")
}

func TestServer_SendRequiresConfirmation(t *testing.T) {
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, &MockTransport{}, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	w, _ := do(t, s, http.MethodPost, base+"/workbook", ct, body)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, s, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp["error"], "cannot SEND")
}

func TestServer_DryRunAllowedBeforeConfirmation(t *testing.T) {
	transport := &MockTransport{}
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, transport, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	do(t, s, http.MethodPost, base+"/workbook", ct, body)
	doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	doJSON(t, s, http.MethodPost, base+"/generate", nil)

	// the rehearsal works straight from the generated batch
	w, resp := doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GENERATED", resp["state"])
	assert.Equal(t, true, resp["dry_run"])
	assert.Empty(t, transport.sent)

	// but a real send still demands the explicit confirmation
	w, resp = doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp["error"], "cannot SEND")
	assert.Empty(t, transport.sent)
}

func TestServer_DryRunKeepsConfirmedState(t *testing.T) {
	transport := &MockTransport{}
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, transport, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	do(t, s, http.MethodPost, base+"/workbook", ct, body)
	doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	doJSON(t, s, http.MethodPost, base+"/generate", nil)
	doJSON(t, s, http.MethodPost, base+"/confirm", nil)

	w, resp := doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", resp["state"])
	assert.Empty(t, transport.sent)

	// the same confirmation still covers the real send
	w, resp = doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SENT", resp["state"])
	require.Len(t, transport.sent, 1)
}

func TestServer_SendFailsWithoutRelayConfig(t *testing.T) {
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, nil,
		fmt.Errorf("smtp.host is required"))
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	do(t, s, http.MethodPost, base+"/workbook", ct, body)
	doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	doJSON(t, s, http.MethodPost, base+"/generate", nil)
	doJSON(t, s, http.MethodPost, base+"/confirm", nil)

	w, resp := doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, resp["error"], "mail relay not configured")

	// dry run never needs the relay
	w, resp = doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["fail"])
}

func TestServer_ReloadInvalidatesGeneration(t *testing.T) {
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, &MockTransport{}, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	do(t, s, http.MethodPost, base+"/workbook", ct, body)
	doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	doJSON(t, s, http.MethodPost, base+"/generate", nil)

	w, _ := doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, s, http.MethodGet, base+"/archive", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_LoadRejectsMissingColumns(t *testing.T) {
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, &MockTransport{}, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"NIP", "Nama"}))
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "data.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, _ := do(t, s, http.MethodPost, base+"/workbook", mw.FormDataContentType(), body)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, resp["error"], "Kolom wajib tidak ditemukan")
}

func TestServer_MappingBackfillsRecipient(t *testing.T) {
	transport := &MockTransport{}
	result := cannedResult()
	result.Items[0].Person.Email = ""
	s := newTestServer(t, &MockGenerator{result: result}, transport, nil)
	id := createSession(t, s)
	base := "/api/sessions/" + id

	body, ct := workbookUpload(t)
	do(t, s, http.MethodPost, base+"/workbook", ct, body)
	doJSON(t, s, http.MethodPost, base+"/load", map[string]string{"sheet": "Sheet1"})
	doJSON(t, s, http.MethodPost, base+"/generate", nil)

	// mapping workbook: NIP → email
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"NIP", "Email"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"100", "cadangan@kampus.ac.id"}))
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)
	mbody := &bytes.Buffer{}
	mw := multipart.NewWriter(mbody)
	fw, err := mw.CreateFormFile("file", "mapping.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, resp := do(t, s, http.MethodPost, base+"/mapping", mw.FormDataContentType(), mbody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["entries"])

	doJSON(t, s, http.MethodPost, base+"/confirm", nil)
	w, _ = doJSON(t, s, http.MethodPost, base+"/send", map[string]bool{"dry_run": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "cadangan@kampus.ac.id", transport.sent[0].To)
}

func TestServer_UnknownSessionIs404(t *testing.T) {
	s := newTestServer(t, &MockGenerator{result: cannedResult()}, &MockTransport{}, nil)
	w, resp := doJSON(t, s, http.MethodGet, "/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session not found", resp["error"])
}
