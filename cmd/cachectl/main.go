// Command cachectl is a small diagnostic launcher for the cache: it
// loads a config, starts a Facade, and serves /metrics and a
// /debug/snapshot endpoint until interrupted. It is not a resolver —
// no UDP/TCP DNS server is started, per spec.md's Non-goals — only a
// harness for exercising and inspecting the cache in isolation.
//
// Its cobra root/start command shape and its http.Server-under-
// safe_close.SafeClose lifecycle are adapted from
// coremain/run.go's rootCmd/startCmd and coremain/mosdns.go's api
// http server goroutine.
package main

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/istra-dns/istra/cache"
	"github.com/istra-dns/istra/pkg/cachestore"
	"github.com/istra-dns/istra/pkg/clock"
	"github.com/istra-dns/istra/pkg/config"
	"github.com/istra-dns/istra/pkg/logsink"
	"github.com/istra-dns/istra/pkg/policy"
	"github.com/istra-dns/istra/pkg/safe_close"
)

var rootCmd = &cobra.Command{
	Use:   "cachectl",
	Short: "Run and inspect the RRSet cache in isolation.",
}

type startFlags struct {
	configFile string
}

func init() {
	sf := new(startFlags)
	startCmd := &cobra.Command{
		Use:                   "start [-c config_file]",
		Short:                 "Start the cache and its debug/metrics HTTP endpoint.",
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(sf)
		},
	}
	startCmd.Flags().StringVarP(&sf.configFile, "config", "c", "", "config file")
	rootCmd.AddCommand(startCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func start(sf *startFlags) error {
	cfg, fileUsed, err := config.Load(sf.configFile)
	if err != nil {
		return fmt.Errorf("cachectl: load config: %w", err)
	}

	lg, err := logsink.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("cachectl: build logger: %w", err)
	}
	defer lg.Sync()
	lg.Info("config loaded", zap.String("file", fileUsed))

	src := clock.System{}
	c := cache.NewCache(cache.Options{
		MaxSize: cfg.MaxCacheSize,
		Clamp:   cachestore.TTLClamp{Min: cfg.MinTTL, Max: cfg.MaxTTL},
		Clock:   src,
		Sink:    logsink.NewZap(lg),
	})
	defer c.Shutdown()

	// Facade-only operations (metrics, hot-reloadable bypass, snapshot
	// dump) have no NoOp equivalent: max_cache_size: 0 means there is
	// nothing to meter, bypass, or dump.
	f, isLive := c.(*cache.Facade)
	if isLive {
		f.AttachMetrics(cache.NewMetrics(f))
	} else {
		lg.Info("cache disabled (max_cache_size: 0); running as a no-op")
	}

	sc := safe_close.NewSafeClose()

	if isLive && cfg.BypassFile != "" {
		stop := make(chan struct{})
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			close(stop)
		})
		if err := config.WatchBypassFile(cfg.BypassFile, stop, func(b *policy.Bypass, err error) {
			if err != nil {
				lg.Error("bypass policy reload failed", zap.Error(err))
				return
			}
			f.SetBypass(b)
			lg.Info("bypass policy reloaded", zap.String("file", cfg.BypassFile))
		}); err != nil {
			return fmt.Errorf("cachectl: watch bypass file: %w", err)
		}
	}

	if addr := cfg.Metrics.Listen; addr != "" {
		mux := http.NewServeMux()
		if isLive {
			mux.Handle("/metrics", promhttp.HandlerFor(f.MetricsRegisterer(), promhttp.HandlerOpts{}))
			mux.HandleFunc("/debug/snapshot", snapshotHandler(f, src))
		}
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

		httpServer := &http.Server{Addr: addr, Handler: mux}
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			errChan := make(chan error, 1)
			go func() {
				lg.Info("starting debug http server", zap.String("addr", addr))
				errChan <- httpServer.ListenAndServe()
			}()
			select {
			case err := <-errChan:
				if err != nil && err != http.ErrServerClosed {
					sc.SendCloseSignal(err)
				}
			case <-closeSignal:
				httpServer.Close()
			}
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		lg.Info("received shutdown signal")
		sc.SendCloseSignal(nil)
	case <-sc.ReceiveCloseSignal():
	}
	sc.Done()
	sc.CloseWait()
	return sc.Err()
}

// snapshotHandler serves the cache's current contents as a
// snappy-compressed dump (see cache/snapshot.go), for `curl
// localhost:PORT/debug/snapshot > dump.snappy`-style inspection.
func snapshotHandler(f *cache.Facade, src clock.System) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blob, err := f.DumpSnapshot(src.GetSec())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(blob)
	}
}
