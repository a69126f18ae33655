package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ayusman/facetouch/internal/app"
	"github.com/ayusman/facetouch/internal/server"
	"github.com/ayusman/facetouch/internal/store"
	"github.com/ayusman/facetouch/internal/touch"
	"github.com/ayusman/facetouch/internal/tray"
)

func main() {
	os.Exit(run())
}

func run() int {
	cameraID := pflag.Int("camera", 0, "camera device index")
	threshold := pflag.Float64("threshold", 0, "seconds a touch must persist before the alert fires")
	margin := pflag.Float64("margin", 0, "proximity margin added around the face box (fraction of frame)")
	noSound := pflag.Bool("no-sound", false, "disable the alarm sound")
	addr := pflag.String("addr", ":8080", "HTTP listen address")
	headless := pflag.Bool("headless", false, "run without the system tray")
	dbPath := pflag.String("db", "", "settings database path (default ~/.facetouch/facetouch.db)")
	mirror := pflag.Bool("mirror", true, "mirror the camera frame")
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithField("component", "main")

	fmt.Println("FaceTouch - Face Touch Detection")

	st, err := openStore(*dbPath)
	if err != nil {
		log.WithError(err).Error("failed to initialize settings store")
		return 1
	}
	defer st.Close()
	settings := st.Settings()

	// Explicit flags win over stored settings and are persisted for next run.
	thresholdDur := settings.Threshold()
	if pflag.CommandLine.Changed("threshold") && *threshold > 0 {
		thresholdDur = time.Duration(*threshold * float64(time.Second))
		settings.SetThreshold(thresholdDur)
	}

	marginVal := settings.Margin()
	if pflag.CommandLine.Changed("margin") && *margin > 0 && *margin <= 1 {
		marginVal = *margin
		settings.SetMargin(marginVal)
	}

	soundEnabled := settings.SoundEnabled()
	if pflag.CommandLine.Changed("no-sound") {
		soundEnabled = !*noSound
		settings.SetSoundEnabled(soundEnabled)
	}

	a := app.New(app.Config{
		CameraID:    *cameraID,
		Threshold:   thresholdDur,
		Margin:      marginVal,
		EnableSound: soundEnabled,
		Mirror:      *mirror,
	})

	if err := a.Start(); err != nil {
		log.WithError(err).Error("could not start detection")
		return 1
	}
	defer a.Stop()

	srv := server.New(server.Config{Store: st, App: a})
	go func() {
		log.WithField("addr", *addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(*addr); err != nil {
			log.WithError(err).Error("HTTP server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *headless {
		select {
		case <-sigCh:
			log.Info("shutting down")
			return 0
		case <-a.Done():
			log.WithError(a.Err()).Error("detection pipeline failed")
			return 1
		}
	}

	t := tray.New(soundEnabled)
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnSound(func(enabled bool) {
		a.Coordinator().SetSoundEnabled(enabled)
		settings.SetSoundEnabled(enabled)
	})
	a.OnTransition(func(tr app.Transition) {
		switch tr.Event.Kind {
		case touch.TouchStarted:
			t.SetStatus("Touching")
		case touch.AlertStarted:
			t.SetStatus("HANDS ON FACE!")
		case touch.TouchEnded:
			t.SetStatus("Clear")
		}
	})

	go func() {
		select {
		case <-sigCh:
		case <-a.Done():
		}
		t.Quit()
	}()

	// Blocks until quit is chosen from the menu or t.Quit is called.
	t.Run()

	if a.Err() != nil {
		log.WithError(a.Err()).Error("detection pipeline failed")
		return 1
	}
	log.Info("shutting down")
	return 0
}

// openStore opens the settings database, creating the data directory when
// the default path is used.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(homeDir, ".facetouch")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "facetouch.db")
	}
	return store.New(path)
}
