package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/artifact"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/handler"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/knowledge"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/llm"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/pipeline"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/server"
)

const specText = "Design a UART transmitter module with AXI interface: baud_rate = 115200"

func newTestServer(t *testing.T, client llm.Client) (*httptest.Server, *pipeline.Pipeline) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	store := knowledge.NewMemoryStore()
	require.NoError(t, knowledge.Seed(context.Background(), store))
	artifacts, err := artifact.NewStore(t.TempDir(), 0, logger)
	require.NoError(t, err)
	p := pipeline.New(knowledge.NewRetriever(store, logger), client, artifacts,
		pipeline.NewStats(), pipeline.NewEventHub(), logger)
	srv := httptest.NewServer(server.NewMux(handler.NewService(p, logger), logger))
	t.Cleanup(srv.Close)
	return srv, p
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGenerateRTL_FallbackWhenUnconfigured(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})
	resp := postJSON(t, srv.URL+"/api/v1/generate-rtl", map[string]any{
		"spec_text": specText,
		"language":  "Verilog",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "sample_module", body["module_name"])
	require.Equal(t, true, body["fallback_used"])
	require.NotEmpty(t, body["code"])
}

func TestGenerateRTL_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	resp, err := http.Post(srv.URL+"/api/v1/generate-rtl", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/generate-rtl", map[string]any{"spec_text": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "INVALID_REQUEST", body["error"])
	require.NotEmpty(t, body["suggestion"])
}

func TestGenerateRTL_ShortSpecFailsValidation(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})
	resp := postJSON(t, srv.URL+"/api/v1/generate-rtl", map[string]any{"spec_text": "too short"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "SPEC_VALIDATION_FAILED", body["error"])
}

func TestGenerateTestbench(t *testing.T) {
	raw := "MODULE_NAME: tb_top\nCODE:\n```systemverilog\nmodule tb_top;\nendmodule\n```\nEXPLANATION: tb\n"
	srv, _ := newTestServer(t, &llm.FakeClient{Response: raw})
	resp := postJSON(t, srv.URL+"/api/v1/generate-testbench", map[string]any{
		"rtl_code":    "module top; endmodule",
		"module_name": "top",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "tb_top", body["module_name"])
	require.Contains(t, body["testbench_code"], "module tb_top")
}

func TestBatchGenerate(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})
	resp := postJSON(t, srv.URL+"/api/v1/batch/generate-rtl", map[string]any{
		"specifications": []map[string]any{
			{"spec_text": specText},
			{"spec_text": specText},
		},
		"parallel": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.EqualValues(t, 2, body["successful"])
	require.NotEmpty(t, body["batch_id"])
}

func TestUploadSpec(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "design.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(specText))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/upload-spec", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	parsed := body["parsed_data"].(map[string]any)
	require.Contains(t, parsed["protocols"], "UART")

	// Disallowed extension is rejected at the door.
	buf.Reset()
	mw = multipart.NewWriter(&buf)
	part, err = mw.CreateFormFile("file", "tool.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	resp, err = http.Post(srv.URL+"/api/v1/upload-spec", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProjectLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	resp := postJSON(t, srv.URL+"/api/v1/projects", map[string]any{
		"name":        "uart bridge",
		"description": "serial frontend",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	project := decodeBody(t, resp)
	id := project["project_id"].(string)
	require.Len(t, id, 12)

	resp, err := http.Get(srv.URL + "/api/v1/projects")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.EqualValues(t, 1, body["total_projects"])

	resp, err = http.Get(srv.URL + "/api/v1/projects/" + id + "/files")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/projects/unknown/files")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDownload(t *testing.T) {
	srv, p := newTestServer(t, llm.Unconfigured{})
	ref, err := p.Artifacts.SaveRTL(context.Background(), "module m; endmodule", "m", "", nil)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/v1/download/rtl/" + ref.Filename)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "module m; endmodule", string(data))

	resp, err = http.Get(srv.URL + "/api/v1/download/rtl/missing.v")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/download/secrets/x")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSearch_KnowledgeAndFiles(t *testing.T) {
	srv, p := newTestServer(t, llm.Unconfigured{})

	resp, err := http.Get(srv.URL + "/api/v1/search?query=AXI4")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.NotEmpty(t, body["results"])

	_, err = p.Artifacts.SaveRTL(context.Background(), "module uart_rx; endmodule", "uart_rx", "", nil)
	require.NoError(t, err)
	resp, err = http.Get(srv.URL + "/api/v1/search?query=uart_rx&scope=files")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	require.EqualValues(t, 1, body["total_results"])

	resp, err = http.Get(srv.URL + "/api/v1/search")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAnalyzeRTL(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})
	resp := postJSON(t, srv.URL+"/api/v1/analyze-rtl", map[string]any{
		"rtl_code": "module m (input clk);\nendmodule",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	results := body["results"].(map[string]any)
	require.Contains(t, results, "syntax")
	require.Contains(t, results, "complexity")
	require.Contains(t, results, "ppa_estimation")
	require.NotEmpty(t, body["analysis_id"])
}

func TestValidateSpecAndSuggestName(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	resp := postJSON(t, srv.URL+"/api/v1/utils/validate-spec", map[string]any{"spec_text": specText})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	validation := body["validation"].(map[string]any)
	require.Equal(t, true, validation["valid"])

	resp, err := http.Get(srv.URL + "/api/v1/utils/suggest-module-name?spec_text=" + "UART+transmitter+with+fifo")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	require.Contains(t, body["suggested_name"], "uart")
	require.Len(t, body["alternative_names"], 3)
}

func TestHealthAndStats(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, "degraded", body["status"])
	services := body["services"].(map[string]any)
	require.Equal(t, "degraded", services["llm"].(map[string]any)["status"])

	resp = postJSON(t, srv.URL+"/api/v1/generate-rtl", map[string]any{"spec_text": specText})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/stats")
	require.NoError(t, err)
	stats := decodeBody(t, resp)["requests"].(map[string]any)
	require.EqualValues(t, 1, stats["requests_processed"])
	require.EqualValues(t, 1, stats["rtl_generated"])
}

func TestInfo(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	resp, err := http.Get(srv.URL + "/api/v1/info")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	require.Equal(t, "RTL Generation API", body["name"])
	require.Equal(t, "1.0.0", body["version"])
	require.Contains(t, body["supported_languages"], "Verilog")
	require.Contains(t, body["supported_protocols"], "AXI")
	require.Contains(t, body["supported_protocols"], "UART")

	endpoints := body["endpoints"].([]any)
	paths := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		paths = append(paths, e.(map[string]any)["path"].(string))
	}
	require.Contains(t, paths, "/api/v1/generate-rtl")
	require.Contains(t, paths, "/api/v1/info")
}

func TestWatchStreamsEvents(t *testing.T) {
	srv, _ := newTestServer(t, llm.Unconfigured{})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/watch"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if wsResp != nil {
		wsResp.Body.Close()
	}
	defer conn.Close()
	// Give the handler a moment to register its event subscription.
	time.Sleep(100 * time.Millisecond)

	resp := postJSON(t, srv.URL+"/api/v1/generate-rtl", map[string]any{"spec_text": specText})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev pipeline.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, pipeline.StageReceived, ev.Stage)
	require.NotEmpty(t, ev.RequestID)
}
