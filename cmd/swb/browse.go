package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/client"
	"github.com/jvanvinkenroye/swb/cmd/swb/internal/render"
	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/state"
)

func runScan(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scan")

	if cmd.Args().Len() == 0 {
		return errors.New("no scan clause has been specified")
	}
	clause := strings.Join(cmd.Args().Slice(), " ")

	opts := []client.ScanOption{}
	if n := cmd.Int("max"); n > 0 {
		opts = append(opts, client.WithMaximumTerms(n))
	}
	if n := cmd.Int("position"); n > 0 {
		opts = append(opts, client.WithResponsePosition(n))
	}

	log.Info("Index browse starting", zap.String("clause", clause))
	defer func(start time.Time) {
		log.Info("Index browse completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.Scan(ctx, clause, opts...)
	if err != nil {
		return apiHint(err)
	}

	var out string
	if env.Cfg.Output.Mode == config.OutputModeJSON {
		if out, err = render.JSON(resp); err != nil {
			return err
		}
	} else {
		out = render.ScanResponse(resp)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func runExplain(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("explain")

	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	log.Info("Requesting server self-description", zap.String("url", env.Client.BaseURL()))
	defer func(start time.Time) {
		log.Info("Server self-description completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.Explain(ctx)
	if err != nil {
		return apiHint(err)
	}

	var out string
	if env.Cfg.Output.Mode == config.OutputModeJSON {
		if out, err = render.JSON(resp); err != nil {
			return err
		}
	} else {
		out = render.ExplainResponse(resp)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}
