// Command stratum is a small admin CLI for the storage engine: ping the
// backend and manage indexes and collections.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"stratum/internal/config"
	"stratum/internal/logging"
	"stratum/internal/metrics"
	"stratum/internal/storage"
	"stratum/internal/storage/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

const usage = `Usage: stratum [flags] <command> [args]

Commands:
  ping                                  verify backend connectivity
  indexes <collection>                  list indexes
  create-index <collection> <field...>  create an index (prefix field with - for descending)
  drop-index <collection> <name>        drop an index
  rename <old> <new>                    rename a collection
  drop-collection <name>                drop a collection
`

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file")
	timeout := pflag.Duration("timeout", 10*time.Second, "per-command timeout")
	unique := pflag.Bool("unique", false, "create a unique index")
	metricsAddr := pflag.String("metrics-listen", "", "expose Prometheus metrics on this address (empty disables)")
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	metrics.Register(prometheus.DefaultRegisterer)
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	engine, err := storage.New(cfg.Storage)
	if err != nil {
		slog.Error("Storage construction failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := engine.Connect(ctx); err != nil {
		slog.Error("Connect failed", "error", err)
		os.Exit(1)
	}
	defer engine.Close(context.Background())

	if err := run(ctx, engine, args, *unique); err != nil {
		slog.Error("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics listener failed", "addr", addr, "error", err)
	}
}

func run(ctx context.Context, engine types.Engine, args []string, unique bool) error {
	switch args[0] {
	case "ping":
		fmt.Println("ok")
		return nil

	case "indexes":
		if len(args) != 2 {
			return fmt.Errorf("indexes requires a collection")
		}
		indexes, err := engine.GetIndexes(ctx, args[1])
		if err != nil {
			return err
		}
		for _, index := range indexes {
			fields := make([]string, 0, len(index.Fields))
			for _, f := range index.Fields {
				if f.Descending {
					fields = append(fields, "-"+f.Field)
				} else {
					fields = append(fields, f.Field)
				}
			}
			fmt.Printf("%s\t[%s]\tunique=%v\n", index.Name, strings.Join(fields, ","), index.Unique)
		}
		return nil

	case "create-index":
		if len(args) < 3 {
			return fmt.Errorf("create-index requires a collection and at least one field")
		}
		index := types.Index{Unique: unique}
		for _, field := range args[2:] {
			if strings.HasPrefix(field, "-") {
				index.Fields = append(index.Fields, types.IndexField{Field: field[1:], Descending: true})
			} else {
				index.Fields = append(index.Fields, types.IndexField{Field: field})
			}
		}
		names, err := engine.CreateIndexes(ctx, args[1], []types.Index{index})
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil

	case "drop-index":
		if len(args) != 3 {
			return fmt.Errorf("drop-index requires a collection and an index name")
		}
		return engine.DropIndex(ctx, args[1], args[2])

	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("rename requires the old and new collection names")
		}
		return engine.RenameCollection(ctx, args[1], args[2])

	case "drop-collection":
		if len(args) != 2 {
			return fmt.Errorf("drop-collection requires a collection name")
		}
		return engine.RemoveCollection(ctx, args[1])

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
