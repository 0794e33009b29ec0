package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/shapesketch/internal/app"
	"github.com/ayusman/shapesketch/internal/capture"
	"github.com/ayusman/shapesketch/internal/config"
	"github.com/ayusman/shapesketch/internal/detector"
	"github.com/ayusman/shapesketch/internal/hook"
	"github.com/ayusman/shapesketch/internal/server"
	"github.com/ayusman/shapesketch/internal/store"
	"github.com/ayusman/shapesketch/internal/tray"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "classify" {
		os.Exit(runClassify(os.Args[2:]))
	}
	runApp(os.Args[1:])
}

func runApp(args []string) {
	cfg := config.Default()

	fs := flag.NewFlagSet("shapesketch", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera device index")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the database and saved frames")
	fs.BoolVar(&cfg.Tray, "tray", cfg.Tray, "show the system tray menu")
	fs.Parse(args)
	cfg.SaveDir = filepath.Join(cfg.DataDir, "frames")

	fmt.Println("ShapeSketch - sketch shape classifier")

	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := openStore(&cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Store:    st,
		Camera:   capture.NewCamera(capture.Config{DeviceID: cfg.CameraID}),
		Detector: detector.NewShapeDetector(cfg.Detector),
		SaveDir:  cfg.SaveDir,
		Pen:      cfg.Pen,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	if err := a.Start(); err != nil {
		log.Printf("Camera unavailable, drawing on a blank canvas: %v", err)
		if err := a.InitCanvas(capture.DefaultWidth, capture.DefaultHeight); err != nil {
			log.Fatalf("Failed to create canvas: %v", err)
		}
	}

	hooks := hook.NewManager(filepath.Join(cfg.DataDir, "hooks"))
	if err := hooks.Discover(); err != nil {
		log.Printf("Failed to discover hooks: %v", err)
	}
	log.Printf("Loaded %d hooks from %s", len(hooks.List()), hooks.HookDir())
	a.OnDetect(hook.NewDispatcher(hooks, hook.NewExecutor(hook.DefaultTimeout)).Dispatch)

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
		Hooks:     hooks,
		Settings:  cfg,
		Apply: func(c config.Config) error {
			return a.Reconfigure(c.Detector, c.Pen)
		},
	})

	a.OnDetect(func(d store.Detection) {
		log.Printf("Detected %s (%d vertices)", d.Label, d.Vertices)
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)

	if !cfg.Tray {
		go handleSignals(a)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			a.Stop()
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.SetMode(a.Mode())
	a.OnModeChange(t.SetMode)
	t.OnToggleMode(a.ToggleMode)
	t.OnSave(func() {
		if _, err := a.Save(); err != nil {
			log.Printf("Save failed: %v", err)
		}
	})
	t.OnClear(func() {
		if err := a.Clear(); err != nil {
			log.Printf("Clear failed: %v", err)
		}
	})
	t.OnViewer(func() {
		if err := openBrowser(viewerURL(cfg.Addr)); err != nil {
			log.Printf("Failed to open viewer: %v", err)
		}
	})
	t.OnQuit(a.Stop)
	a.OnDetect(func(d store.Detection) { t.SetLastLabel(d.Label) })

	t.Run()
}

// openStore opens the database in cfg.DataDir and folds persisted settings
// into cfg. Invalid persisted settings are logged and skipped.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	values, err := st.Settings().All()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := cfg.ApplySettings(values); err != nil {
		log.Printf("Ignoring persisted settings: %v", err)
	}
	return st, nil
}

func handleSignals(a *app.App) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	log.Println("Shutting down")
	a.Stop()
	os.Exit(0)
}

func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
