package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/ingwaz/featureflag"
	ingwazhttp "github.com/aukilabs/ingwaz/http"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/scenario"
	"github.com/aukilabs/ingwaz/selfcheck"
	iwebsocket "github.com/aukilabs/ingwaz/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The Ingwaz version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "ingwaz_info",
		Help:        "Ingwaz information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr              string        `cli:""        env:"INGWAZ_ADDR"                help:"Listening address for the world endpoints."`
	AdminAddr         string        `cli:""        env:"INGWAZ_ADMIN_ADDR"          help:"Admin listening address."`
	Scenarios         []string      `cli:""        env:"INGWAZ_SCENARIOS"           help:"Comma separated scenario files (.yaml, .yml or .toml)."`
	LogLevel          string        `cli:""        env:"INGWAZ_LOG_LEVEL"           help:"Log level (debug|info|warning|error)."`
	LogIndent         bool          `cli:""        env:"INGWAZ_LOG_INDENT"          help:"Indent logs."`
	FrameDuration     time.Duration `cli:",hidden" env:"INGWAZ_FRAME_DURATION"      help:"Overrides the frame duration of every scenario."`
	DebugStreamFrames int           `cli:",hidden" env:"INGWAZ_DEBUG_STREAM_FRAMES" help:"The number of frames between two debug stream snapshots."`
	Events            eventsConfig  `cli:",hidden" env:"-"                          help:"Event pusher configuration."`
	FeatureFlags      []string      `cli:",hidden" env:"INGWAZ_FEATURE_FLAGS"       help:"Comma separated feature flags"`
	Version           bool          `cli:""        env:"-"                          help:"Show version."`
	Help              bool          `cli:""        env:"-"                          help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"INGWAZ_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed. Events are disabled when empty."`
	FlushInterval time.Duration `cli:",hidden" env:"INGWAZ_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"INGWAZ_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"INGWAZ_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:              ":4100",
		AdminAddr:         ":18191",
		Scenarios:         []string{"scenarios/asteroids.yaml"},
		LogLevel:          logs.InfoLevel.String(),
		DebugStreamFrames: 5,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts Ingwaz worlds.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "ingwaz",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)

	var worlds models.WorldStore
	if err := loadWorlds(&worlds, conf, flags); err != nil {
		logs.Fatal(err)
	}

	var wg sync.WaitGroup
	for _, w := range worlds.List() {
		wg.Add(1)
		go func(w *models.World) {
			defer wg.Done()
			w.StartDispatchFrames()
		}(w)
	}

	readinessCheck := func() bool {
		return worlds.Len() != 0
	}

	worldHandler := ingwazhttp.WorldHandler{Worlds: &worlds}

	var service http.ServeMux
	service.Handle("/health", ingwazhttp.HandleWithCORS(http.HandlerFunc(ingwazhttp.HandleHealthCheck)))
	service.Handle("/version", ingwazhttp.HandleWithCORS(http.HandlerFunc(ingwazhttp.HandleVersion(version))))
	service.Handle("/ready", ingwazhttp.HandleWithCORS(http.HandlerFunc(ingwazhttp.HandleReadyCheck(readinessCheck))))
	service.Handle("/worlds", ingwazhttp.HandleWithCORS(http.HandlerFunc(worldHandler.HandleList)))
	service.Handle("/worlds/debug", ingwazhttp.HandleWithCORS(http.HandlerFunc(worldHandler.HandleDebug)))
	service.Handle("/worlds/query", ingwazhttp.HandleWithCORS(http.HandlerFunc(worldHandler.HandleQuery)))
	service.Handle("/worlds/search", ingwazhttp.HandleWithCORS(http.HandlerFunc(worldHandler.HandleSearch)))

	flags.IfSet(featureflag.FlagDebugStream, func() {
		service.Handle("/debug/stream", iwebsocket.Handler{
			Worlds:   &worlds,
			Interval: conf.DebugStreamFrames,
		}.Server())
	})

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", ingwazhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", ingwazhttp.HandleReadyCheck(readinessCheck))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	flags.IfSet(featureflag.FlagSelfCheck, func() {
		admin.HandleFunc("/selfcheck", selfcheck.HandleSelfCheck(&worlds))
	})

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("worlds", worlds.Len()).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting ingwaz server")

	ingwazhttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			ingwazhttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)

	for _, w := range worlds.List() {
		worlds.Remove(w)
	}
	wg.Wait()
}

// loadWorlds builds a world for each scenario file and adds it to the store.
func loadWorlds(worlds *models.WorldStore, conf config, flags featureflag.FeatureFlag) error {
	for _, path := range conf.Scenarios {
		sc, err := scenario.Load(path)
		if err != nil {
			return errors.New("loading scenario failed").
				WithTag("path", path).
				Wrap(err)
		}

		if conf.FrameDuration > 0 {
			sc.FrameDuration = conf.FrameDuration
		}

		w, err := scenario.Build(worlds.NewID(), sc)
		if err != nil {
			return errors.New("building world failed").
				WithTag("path", path).
				Wrap(err)
		}
		w.ValidateFrames = flags.IsSet(featureflag.FlagValidateFrames)

		if err := worlds.Add(w); err != nil {
			w.Close()
			return err
		}
	}
	return nil
}

func validateConfig(conf config) error {
	if len(conf.Scenarios) == 0 {
		return errors.New("have to specify at least one scenario")
	}

	if conf.FrameDuration < 0 {
		return errors.New("frame duration cannot be negative").
			WithTag("frame_duration", conf.FrameDuration)
	}

	if conf.DebugStreamFrames < 1 {
		return errors.New("debug stream frames must be positive").
			WithTag("debug_stream_frames", conf.DebugStreamFrames)
	}

	return nil
}
