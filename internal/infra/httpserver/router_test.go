package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	. "github.com/onsi/gomega"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	"github.com/bryanwahyu/vital360/internal/application/ai/aitest"
	appbodyscan "github.com/bryanwahyu/vital360/internal/application/bodyscan"
	"github.com/bryanwahyu/vital360/internal/application/insight"
	"github.com/bryanwahyu/vital360/internal/application/scanner"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/application/voicelog"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
)

type fixture struct {
	srv    *httptest.Server
	client *aitest.Client
	visits *visit.Registry
}

func newFixture(t *testing.T, client *aitest.Client, repo *aitest.AuditRepo) *fixture {
	t.Helper()
	clock := &application.FixedClock{T: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	var gw *appai.Service
	if repo != nil {
		gw = appai.NewService(client, &aitest.Transcriber{Text: "my knee hurts"}, repo, time.Second, clock)
	} else {
		gw = appai.NewService(client, &aitest.Transcriber{Text: "my knee hurts"}, nil, time.Second, clock)
	}
	visits := visit.NewRegistry(clock, time.Hour, 0)
	h := NewRouter(Deps{
		Visits:   visits,
		BodyScan: &appbodyscan.Service{Gateway: gw, Clock: clock},
		Scanner:  &scanner.Service{Gateway: gw, Clock: clock},
		VoiceLog: &voicelog.Service{Gateway: gw, Clock: clock},
		Insight:  &insight.Service{Gateway: gw},
		AI:       gw,
		Clock:    clock,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, client: client, visits: visits}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req, _ := http.NewRequest(method, f.srv.URL+path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (f *fixture) newVisit(t *testing.T) string {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/v1/visits", "")
	if code != http.StatusCreated {
		t.Fatalf("create visit: %d", code)
	}
	return body["id"].(string)
}

func TestVisitLifecycle(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{Reply: "{}"}, nil)

	code, body := f.do(t, http.MethodPost, "/v1/visits", "")
	g.Expect(code).To(Equal(http.StatusCreated))
	g.Expect(body["activeTab"]).To(Equal("dashboard"))
	g.Expect(body["organs"]).To(HaveLen(5))
	id := body["id"].(string)

	code, _ = f.do(t, http.MethodGet, "/v1/visits/"+id+"/organs", "")
	g.Expect(code).To(Equal(http.StatusOK))

	code, _ = f.do(t, http.MethodDelete, "/v1/visits/"+id, "")
	g.Expect(code).To(Equal(http.StatusNoContent))

	code, _ = f.do(t, http.MethodGet, "/v1/visits/"+id+"/organs", "")
	g.Expect(code).To(Equal(http.StatusNotFound))

	code, _ = f.do(t, http.MethodGet, "/v1/visits/not-a-uuid/organs", "")
	g.Expect(code).To(Equal(http.StatusNotFound))
}

func TestProfileWriteOnce(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{}, nil)
	id := f.newVisit(t)

	code, body := f.do(t, http.MethodGet, "/v1/visits/"+id+"/profile", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["completed"]).To(BeFalse())

	code, _ = f.do(t, http.MethodPut, "/v1/visits/"+id+"/profile", `{"name":"","age":"30"}`)
	g.Expect(code).To(Equal(http.StatusBadRequest))

	code, body = f.do(t, http.MethodPut, "/v1/visits/"+id+"/profile", `{"name":"Ada","age":"36","goal":"Mental Focus"}`)
	g.Expect(code).To(Equal(http.StatusCreated))
	g.Expect(body["gender"]).To(Equal("Other"))

	code, _ = f.do(t, http.MethodPut, "/v1/visits/"+id+"/profile", `{"name":"Bob","age":"40"}`)
	g.Expect(code).To(Equal(http.StatusConflict))
}

func TestDiagnoseAndViews(t *testing.T) {
	g := NewWithT(t)
	client := &aitest.Client{Fn: func(_ context.Context, p ai.Prompt) (string, error) {
		if strings.Contains(p.User, "the liver") {
			return `{"issue":"Fatty Liver","severity":"low","description":"d","remedy":"r"}`, nil
		}
		return `{}`, nil
	}}
	f := newFixture(t, client, nil)
	id := f.newVisit(t)
	base := "/v1/visits/" + id

	code, body := f.do(t, http.MethodPost, base+"/organs/liver/diagnose", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["entry"]).To(HaveKeyWithValue("status", "warning"))
	g.Expect(body["issue"]).To(HaveKeyWithValue("issueName", "Fatty Liver"))

	code, body = f.do(t, http.MethodPost, base+"/organs/heart/touch", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["diagnosed"]).To(BeTrue())

	code, body = f.do(t, http.MethodPost, base+"/organs/heart/touch", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["diagnosed"]).To(BeFalse())
	g.Expect(client.Calls()).To(Equal(2))

	code, body = f.do(t, http.MethodGet, base+"/organs/liver", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["history"]).To(HaveLen(1))

	code, body = f.do(t, http.MethodGet, base+"/timeline", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["entries"]).To(HaveLen(2))

	code, body = f.do(t, http.MethodGet, base+"/issues", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["issues"]).To(HaveLen(1))

	code, _ = f.do(t, http.MethodPost, base+"/organs/spleen/diagnose", "")
	g.Expect(code).To(Equal(http.StatusBadRequest))

	code, body = f.do(t, http.MethodPut, base+"/organs/lungs/select", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["history"]).To(BeEmpty())
}

func TestDiagnoseConflictWhileInFlight(t *testing.T) {
	g := NewWithT(t)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	client := &aitest.Client{Fn: func(ctx context.Context, _ ai.Prompt) (string, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return `{}`, nil
	}}
	f := newFixture(t, client, nil)
	id := f.newVisit(t)

	done := make(chan int, 1)
	go func() {
		code, _ := f.do(t, http.MethodPost, "/v1/visits/"+id+"/organs/heart/diagnose", "")
		done <- code
	}()
	<-started

	code, _ := f.do(t, http.MethodPost, "/v1/visits/"+id+"/organs/lungs/diagnose", "")
	g.Expect(code).To(Equal(http.StatusConflict))

	close(release)
	g.Expect(<-done).To(Equal(http.StatusOK))
}

func TestTabLayerAndCheckup(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{}, nil)
	base := "/v1/visits/" + f.newVisit(t)

	code, body := f.do(t, http.MethodPut, base+"/tab", `{"tab":"checkup"}`)
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["active"]).To(Equal("checkup"))

	code, _ = f.do(t, http.MethodPut, base+"/tab", `{"tab":"settings"}`)
	g.Expect(code).To(Equal(http.StatusBadRequest))

	code, body = f.do(t, http.MethodPut, base+"/layer", `{"layer":"skeletal"}`)
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["layer"]).To(Equal("skeletal"))

	code, body = f.do(t, http.MethodPost, base+"/checkup/2/toggle", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["done"]).To(BeNumerically("==", 3))

	code, _ = f.do(t, http.MethodPost, base+"/checkup/99/toggle", "")
	g.Expect(code).To(Equal(http.StatusNotFound))
}

func TestScannerAndPanels(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{Reply: "Heart rhythm steady at 72 BPM."}, nil)
	base := "/v1/visits/" + f.newVisit(t)

	code, body := f.do(t, http.MethodPost, base+"/scanner/capture", `{"error":"NotAllowedError"}`)
	g.Expect(code).To(Equal(http.StatusForbidden))
	g.Expect(body["blocked"]).To(BeTrue())

	code, body = f.do(t, http.MethodPost, base+"/scanner/capture", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["summary"]).To(Equal("Heart rhythm steady at 72 BPM."))

	_, body = f.do(t, http.MethodGet, base+"/tab", "")
	g.Expect(body["active"]).To(Equal("body"))

	code, body = f.do(t, http.MethodGet, base+"/dashboard", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["scan"]).NotTo(BeNil())

	code, body = f.do(t, http.MethodGet, "/v1/recommendations", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["yoga"]).To(HaveLen(2))

	code, body = f.do(t, http.MethodGet, "/v1/personality", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["brainEfficiency"]).To(BeNumerically("==", 88))

	code, body = f.do(t, http.MethodPost, "/v1/media/failures", `{"kind":"microphone","name":"NotReadableError"}`)
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["blocked"]).To(BeFalse())
	g.Expect(body["retry"]).To(BeTrue())
}

func TestVoiceLog(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{Reply: "Report: knee pain."}, nil)
	path := f.srv.URL + "/v1/visits/" + f.newVisit(t) + "/voice-log"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="audio"; filename="clip.webm"`)
	h.Set("Content-Type", "audio/webm")
	part, _ := mw.CreatePart(h)
	_, _ = part.Write([]byte("opus"))
	_ = mw.Close()

	resp, err := f.srv.Client().Post(path, mw.FormDataContentType(), &buf)
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))
	var rep voicelog.Report
	g.Expect(json.NewDecoder(resp.Body).Decode(&rep)).To(Succeed())
	g.Expect(rep.Text).To(Equal("Report: knee pain."))
	g.Expect(rep.Transcript).To(Equal("my knee hurts"))

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	other, _ := mw.CreateFormFile("audio", "clip.bin")
	_, _ = other.Write([]byte("??"))
	_ = mw.Close()
	resp3, err := f.srv.Client().Post(path, mw.FormDataContentType(), &buf)
	g.Expect(err).NotTo(HaveOccurred())
	defer resp3.Body.Close()
	g.Expect(resp3.StatusCode).To(Equal(http.StatusBadRequest))

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	_ = mw.WriteField("error", "PermissionDismissedError")
	_ = mw.Close()
	resp2, err := f.srv.Client().Post(path, mw.FormDataContentType(), &buf)
	g.Expect(err).NotTo(HaveOccurred())
	defer resp2.Body.Close()
	g.Expect(resp2.StatusCode).To(Equal(http.StatusForbidden))
}

func TestVoiceLogWithoutTranscription(t *testing.T) {
	g := NewWithT(t)
	clock := &application.FixedClock{T: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	gw := appai.NewService(&aitest.Client{Reply: "unused"}, nil, nil, time.Second, clock)
	visits := visit.NewRegistry(clock, time.Hour, 0)
	srv := httptest.NewServer(NewRouter(Deps{
		Visits:   visits,
		VoiceLog: &voicelog.Service{Gateway: gw, Clock: clock},
		AI:       gw,
		Clock:    clock,
	}))
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="audio"; filename="clip.webm"`)
	h.Set("Content-Type", "audio/webm")
	part, _ := mw.CreatePart(h)
	_, _ = part.Write([]byte("opus"))
	_ = mw.Close()

	resp, err := srv.Client().Post(srv.URL+"/v1/visits/"+visits.Create().ID+"/voice-log", mw.FormDataContentType(), &buf)
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	g.Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
	var body map[string]string
	g.Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	g.Expect(body["error"]).To(ContainSubstring("transcription not configured"))
}

func TestAuditEndpoint(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{Reply: "{}"}, nil)
	base := "/v1/visits/" + f.newVisit(t)
	code, _ := f.do(t, http.MethodGet, base+"/audit", "")
	g.Expect(code).To(Equal(http.StatusNotFound))

	f = newFixture(t, &aitest.Client{Reply: "{}"}, &aitest.AuditRepo{})
	base = "/v1/visits/" + f.newVisit(t)
	_, _ = f.do(t, http.MethodPost, base+"/organs/kidneys/diagnose", "")
	code, body := f.do(t, http.MethodGet, base+"/audit", "")
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(body["records"]).To(HaveLen(1))
}

func TestEventsFeed(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{Reply: "{}"}, nil)
	id := f.newVisit(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/v1/visits/" + id + "/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	g.Expect(err).NotTo(HaveOccurred())
	defer conn.CloseNow()

	v, _ := f.visits.Get(id)
	g.Eventually(v.Events.Subscribers).Should(Equal(1))

	code, _ := f.do(t, http.MethodPut, "/v1/visits/"+id+"/organs/liver/select", "")
	g.Expect(code).To(Equal(http.StatusOK))

	var ev visit.Event
	g.Expect(wsjson.Read(ctx, conn, &ev)).To(Succeed())
	g.Expect(ev.Type).To(Equal(visit.EventOrganSelected))
	g.Expect(string(ev.Organ)).To(Equal("liver"))

	code, _ = f.do(t, http.MethodDelete, "/v1/visits/"+id, "")
	g.Expect(code).To(Equal(http.StatusNoContent))
	_, _, err = conn.Read(ctx)
	g.Expect(websocket.CloseStatus(err)).To(Equal(websocket.StatusGoingAway))
}

func TestOperationalEndpoints(t *testing.T) {
	g := NewWithT(t)
	f := newFixture(t, &aitest.Client{}, nil)
	for _, p := range []string{"/health", "/livez", "/readyz", "/metrics"} {
		resp, err := f.srv.Client().Get(f.srv.URL + p)
		g.Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		g.Expect(resp.StatusCode).To(Equal(http.StatusOK), p)
	}
}
