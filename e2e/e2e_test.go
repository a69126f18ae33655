package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/facetouch/internal/app"
	"github.com/ayusman/facetouch/internal/capture"
	"github.com/ayusman/facetouch/internal/detector"
	"github.com/ayusman/facetouch/internal/server"
	"github.com/ayusman/facetouch/internal/store"
)

// startApp runs the full pipeline over a looping mock camera and a mock
// detector, fast enough that a touch crosses the threshold within a second.
func startApp(t *testing.T) (*app.App, *detector.MockDetector) {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	a := app.New(app.Config{
		Threshold:   200 * time.Millisecond,
		EnableSound: false,
		FPS:         100,
	})

	mock := detector.NewMockDetector()
	a.SetDetector(mock)
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	if err := a.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	t.Cleanup(a.Stop)

	return a, mock
}

func getStatus(t *testing.T, client *http.Client, url string) app.Status {
	t.Helper()

	resp, err := client.Get(url + "/api/status")
	if err != nil {
		t.Fatalf("get status error = %v", err)
	}
	defer resp.Body.Close()

	var status app.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status error = %v", err)
	}
	return status
}

func waitForAlert(t *testing.T, client *http.Client, url string) app.Status {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status := getStatus(t, client, url)
		if status.AlertActive {
			return status
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("alert did not fire within deadline")
	return app.Status{}
}

func TestE2E_TouchAlertOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, mock := startApp(t)

	srv := server.New(server.Config{Store: s, App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("ClearBeforeTouch", func(t *testing.T) {
		status := getStatus(t, client, ts.URL)
		if status.Touching || status.AlertActive {
			t.Errorf("expected clear state, got %+v", status)
		}
	})

	t.Run("HandOnFaceRaisesAlert", func(t *testing.T) {
		face := detector.CenteredFace()
		mock.SetFaces([]detector.FaceRegion{face})
		mock.SetHands([]detector.HandLandmarks{detector.HandOnFace(face)})

		status := waitForAlert(t, client, ts.URL)
		if !status.Touching {
			t.Error("alerting state should imply touching")
		}
		if status.State != "alerting" {
			t.Errorf("state = %s, want alerting", status.State)
		}
	})

	t.Run("StreamServesAnnotatedFrames", func(t *testing.T) {
		if a.LatestFrame() == nil {
			t.Error("pipeline should have published an annotated frame")
		}
	})

	t.Run("HandLeavingClears", func(t *testing.T) {
		face := detector.CenteredFace()
		mock.SetHands([]detector.HandLandmarks{detector.HandAwayFromFace(face)})

		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			status := getStatus(t, client, ts.URL)
			if !status.Touching && !status.AlertActive {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatal("state did not clear after the hand left")
	})
}

func TestE2E_EventsWebsocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	a, mock := startApp(t)

	srv := server.New(server.Config{App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	face := detector.CenteredFace()
	mock.SetFaces([]detector.FaceRegion{face})
	mock.SetHands([]detector.HandLandmarks{detector.HandOnFace(face)})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event error = %v", err)
	}

	var event struct {
		ID    string `json:"id"`
		Event string `json:"event"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("decode event error = %v", err)
	}

	if event.Event != "touch_started" {
		t.Errorf("first event = %s, want touch_started", event.Event)
	}
	if event.ID == "" {
		t.Error("event should carry an id")
	}
}

func TestE2E_SettingsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, _ := startApp(t)

	srv := server.New(server.Config{Store: s, App: a})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings",
		strings.NewReader(`{"touch_threshold_seconds": 3, "proximity_threshold": 0.15}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("put settings error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put settings status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// Persisted
	if got := s.Settings().Threshold(); got != 3*time.Second {
		t.Errorf("stored threshold = %v, want 3s", got)
	}

	// Applied live
	status := getStatus(t, client, ts.URL)
	if status.ThresholdSeconds != 3 {
		t.Errorf("live threshold = %v, want 3", status.ThresholdSeconds)
	}
	if status.Margin != 0.15 {
		t.Errorf("live margin = %v, want 0.15", status.Margin)
	}
}
