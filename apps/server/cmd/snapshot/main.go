// Command snapshot builds one profile summary and prints it to stdout.
//
//	snapshot [-format json|yaml] [-timeout 30s]
//
// Credentials come from GITHUB_TOKEN and GITHUB_USERNAME (or .env).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tilsley/insights/apps/server/internal/platform/config"
	platformgh "github.com/tilsley/insights/apps/server/internal/platform/github"
	"github.com/tilsley/insights/apps/server/internal/platform/logger"
	"github.com/tilsley/insights/apps/server/internal/profile"
	"github.com/tilsley/insights/apps/server/internal/profile/adapters/github"
)

func main() {
	format := flag.String("format", "json", "output format: json or yaml")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the snapshot")
	flag.Parse()

	if err := run(*format, *timeout, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "snapshot:", err)
		var cfgErr profile.ConfigurationError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var formats = map[string]bool{"json": true, "yaml": true}

func run(format string, timeout time.Duration, out io.Writer) error {
	if !formats[format] {
		return fmt.Errorf("unknown format %q", format)
	}
	log := logger.NewTo(os.Stderr, "insights-snapshot")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := profile.NewService(func(token string) profile.GitHub {
		return github.New(platformgh.NewTokenClient(token, cfg.GitHub.APIURL))
	}, log,
		profile.WithPageSize(cfg.GitHub.PageSize),
		profile.WithEstimatorOptions(profile.WithCutoff(cfg.Estimate.Cutoff)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	summary, err := svc.BuildProfileSummary(ctx, cfg.Credentials())
	if err != nil {
		return err
	}
	return render(out, format, summary)
}

func render(w io.Writer, format string, s *profile.ProfileSummary) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
