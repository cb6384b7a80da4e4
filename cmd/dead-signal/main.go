package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/audio"
	"github.com/lixenwraith/dead-signal/config"
	"github.com/lixenwraith/dead-signal/engine"
	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/service"
	"github.com/lixenwraith/dead-signal/status"
)

var (
	configFlag   = flag.String("config", "", "YAML config file (defaults when empty)")
	keysFlag     = flag.String("keys", "", "YAML keymap override file")
	saveFlag     = flag.String("save", "dead-signal.save", "Save file path")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/dead-signal.log and show metrics")
	muteFlag     = flag.Bool("mute", false, "Disable audio cues")
	headlessFlag = flag.Bool("headless", false, "Run without a terminal and print the outcome")
	ticksFlag    = flag.Int("ticks", 3600, "Ticks to simulate in headless mode")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}
	logger := log.Default()

	cfg, adjusted, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	for _, a := range adjusted {
		fmt.Fprintf(os.Stderr, "config adjusted: %s\n", a)
	}

	metrics := status.NewRegistry()

	if *headlessFlag {
		if err := runHeadless(cfg, metrics, logger, *ticksFlag); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	table, err := loadKeys(*keysFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keymap: %v\n", err)
		os.Exit(1)
	}

	// Pose reads the player on the runner goroutine inside Tick
	var sim *engine.Simulation
	sink := audio.NewSink(func() (mgl64.Vec3, float64) {
		if sim == nil {
			return mgl64.Vec3{}, 0
		}
		st := sim.Player().State()
		return sim.Player().Eye(), st.Yaw
	}, logger)
	sink.SetMuted(*muteFlag)

	sim, err = engine.NewSimulation(cfg,
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
		engine.WithSoundListener(sink),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	sim.Router().Subscribe(event.EventPlayerDamaged, sink.OnEvent)
	notes := event.NewQueue()
	sim.Router().AttachQueue(notes)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	// Restore the terminal before printing any crash
	crash := func(where string, r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\n\x1b[31mDEAD-SIGNAL %s CRASHED: %v\x1b[0m\n", where, r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		os.Exit(1)
	}
	defer func() {
		if r := recover(); r != nil {
			crash("MAIN", r)
		}
	}()
	defer screen.Fini()

	keys := input.NewKeyMap(table)
	runner, updates := engine.NewRunner(sim, cfg.Engine.TickInterval, keys.Poll)
	runner.SetCrashHandler(func(r any) { crash("SIMULATION", r) })

	services := service.NewGroup(logger)
	if !*muteFlag {
		services.AddOptional(sink)
	}
	services.Add(runner)
	if err := services.Start(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := services.Stop(); err != nil {
			logger.Printf("[main] %v", err)
		}
	}()

	app := &app{
		screen:  screen,
		runner:  runner,
		keys:    keys,
		view:    newView(),
		story:   newStory(notes),
		metrics: metrics,
		debug:   *debugFlag,
		save:    *saveFlag,
		logger:  logger,
	}
	app.run(updates)
}

// loadConfig reads path over defaults, or returns defaults when path is empty
func loadConfig(path string) (config.Config, []string, error) {
	if path == "" {
		cfg := config.Default()
		adjusted, err := cfg.Validate()
		return cfg, adjusted, err
	}
	return config.Load(path)
}

// loadKeys merges an optional override file onto the default bindings
func loadKeys(path string) (*input.KeyTable, error) {
	base := input.DefaultKeyTable()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	override, err := input.LoadKeyConfig(data)
	if err != nil {
		return nil, err
	}
	return input.MergeKeyTable(base, override), nil
}

// runHeadless steps the simulation with idle input at the configured tick interval
func runHeadless(cfg config.Config, metrics *status.Registry, logger *log.Logger, ticks int) error {
	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger), engine.WithMetrics(metrics))
	if err != nil {
		return err
	}
	dt := cfg.Engine.TickInterval.Seconds()
	start := time.Now()
	var out engine.Outcome
	for i := 0; i < ticks; i++ {
		out = sim.Tick(input.Intents{}, dt)
		if out.Over() {
			break
		}
	}
	fmt.Printf("state=%s ending=%s t=%.2f wall=%s\n", out.State, out.Ending, out.Time, time.Since(start).Round(time.Millisecond))
	for _, line := range metrics.Lines() {
		fmt.Println(line)
	}
	return nil
}
