package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/client"
	"github.com/jvanvinkenroye/swb/cmd/swb/internal/render"
	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/export"
	"github.com/jvanvinkenroye/swb/sru"
	"github.com/jvanvinkenroye/swb/state"
)

// searchFlags are shared by every command that runs a searchRetrieve
// operation. Zero values mean "take it from configuration".
func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, DefaultText: "from configuration",
			Usage: "record `SCHEMA` (supported schemas: " + joinValues(sru.KnownFormats()) + ")"},
		&cli.IntFlag{Name: "max", Aliases: []string{"n"}, DefaultText: "from configuration", Usage: "`NUMBER` of records per request"},
		&cli.IntFlag{Name: "start", Aliases: []string{"s"}, DefaultText: "1", Usage: "`POSITION` of the first record to return, 1-based"},
		&cli.StringFlag{Name: "packing", DefaultText: "from configuration", Usage: "record `PACKING` (xml, string)"},
		&cli.StringFlag{Name: "sort", Usage: "sort results by `FIELD` (supported fields: " + joinValues(sru.KnownSortFields()) + ")"},
		&cli.StringFlag{Name: "order", Value: string(sru.SortDescending), Usage: "sort `ORDER` (ascending, descending)"},
		&cli.StringSliceFlag{Name: "facets", Usage: "request facet counts for `FIELDS`, needs SRU 2.0 and switches to it"},
		&cli.IntFlag{Name: "facet-limit", DefaultText: "10", Usage: "maximum `NUMBER` of values per facet"},
		&cli.BoolFlag{Name: "raw", Usage: "output raw record XML instead of parsed fields"},
		&cli.StringFlag{Name: "save", Usage: "additionally save every record into `DIR` as a separate XML file"},
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// searchOptions translates shared search flags into client options, falling
// back to configured defaults where flags were not given.
func searchOptions(cmd *cli.Command, cfg *config.Config) ([]client.SearchOption, error) {
	name := cfg.Defaults.Format
	if s := cmd.String("format"); len(s) > 0 {
		name = s
	}
	format, err := sru.ParseRecordFormat(name)
	if err != nil {
		return nil, err
	}
	opts := []client.SearchOption{client.WithFormat(format)}

	maximum := cfg.Defaults.MaximumRecords
	if n := cmd.Int("max"); n > 0 {
		maximum = n
	}
	opts = append(opts, client.WithMaximumRecords(maximum))

	if n := cmd.Int("start"); n > 0 {
		opts = append(opts, client.WithStartRecord(n))
	}

	name = cfg.Defaults.RecordPacking
	if s := cmd.String("packing"); len(s) > 0 {
		name = s
	}
	packing, err := sru.ParseRecordPacking(name)
	if err != nil {
		return nil, err
	}
	opts = append(opts, client.WithRecordPacking(packing))

	if s := cmd.String("sort"); len(s) > 0 {
		by, err := sru.ParseSortBy(s)
		if err != nil {
			return nil, err
		}
		order, err := sru.ParseSortOrder(cmd.String("order"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithSort(by, order))
	}

	if fields := facetFields(cmd.StringSlice("facets")); len(fields) > 0 {
		opts = append(opts, client.WithFacets(fields...))
		if n := cmd.Int("facet-limit"); n > 0 {
			opts = append(opts, client.WithFacetLimit(n))
		}
	}
	return opts, nil
}

// facetFields flattens repeated --facets flags, each occurrence may carry a
// comma separated list.
func facetFields(values []string) []string {
	var fields []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); len(f) > 0 {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// apiHint attaches the troubleshooting hint carried by API errors, so the
// user sees "check your api key" next to the 401 and not just the code.
func apiHint(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if hint := apiErr.Hint(); len(hint) > 0 {
			return fmt.Errorf("%w (%s)", err, hint)
		}
	}
	return err
}

// outputSearchResponse renders the response according to output mode and
// flags and saves records to disk when requested.
func outputSearchResponse(cmd *cli.Command, env *state.LocalEnv, resp *sru.SearchResponse) error {
	if dir := cmd.String("save"); len(dir) > 0 {
		if err := saveRecords(env, resp, dir); err != nil {
			return err
		}
	}

	var (
		out string
		err error
	)
	switch {
	case cmd.Bool("raw"):
		out = render.RawRecords(resp)
	case env.Cfg.Output.Mode == config.OutputModeJSON:
		if out, err = render.JSON(resp); err != nil {
			return err
		}
	default:
		out = render.SearchResponse(resp)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

// saveRecords writes every record of the response into dir, one XML file per
// record. Failing records do not stop the rest, errors are combined.
func saveRecords(env *state.LocalEnv, resp *sru.SearchResponse, dir string) (err error) {
	saver, er := export.NewSaver(dir, env.Cfg.Output.SaveNameTemplate, env.Log.Named("export"))
	if er != nil {
		return fmt.Errorf("unable to prepare record saver: %w", er)
	}
	for i := range resp.Results {
		if _, er := saver.Save(&resp.Results[i], i+1); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to save record %d: %w", i+1, er))
		}
	}
	return
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("search")

	if cmd.Args().Len() == 0 {
		return errors.New("no search term has been specified")
	}
	term := strings.Join(cmd.Args().Slice(), " ")

	index, err := sru.ParseSearchIndex(cmd.String("index"))
	if err != nil {
		return err
	}

	opts, err := searchOptions(cmd, env.Cfg)
	if err != nil {
		return err
	}
	opts = append(opts, client.WithIndex(index))

	log.Info("Search starting", zap.String("term", term), zap.String("index", string(index)))
	defer func(start time.Time) {
		log.Info("Search completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.Search(ctx, term, opts...)
	if err != nil {
		return apiHint(err)
	}
	return outputSearchResponse(cmd, env, resp)
}

func runISBN(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("isbn")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	number := cmd.Args().Get(0)
	if len(number) == 0 {
		return errors.New("no ISBN has been specified")
	}

	opts, err := searchOptions(cmd, env.Cfg)
	if err != nil {
		return err
	}

	log.Info("ISBN lookup starting", zap.String("isbn", number))
	defer func(start time.Time) {
		log.Info("ISBN lookup completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.SearchByISBN(ctx, number, opts...)
	if err != nil {
		return apiHint(err)
	}
	return outputSearchResponse(cmd, env, resp)
}

func runISSN(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("issn")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	number := cmd.Args().Get(0)
	if len(number) == 0 {
		return errors.New("no ISSN has been specified")
	}

	opts, err := searchOptions(cmd, env.Cfg)
	if err != nil {
		return err
	}

	log.Info("ISSN lookup starting", zap.String("issn", number))
	defer func(start time.Time) {
		log.Info("ISSN lookup completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.SearchByISSN(ctx, number, opts...)
	if err != nil {
		return apiHint(err)
	}
	return outputSearchResponse(cmd, env, resp)
}

func runRelated(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("related")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	ppn := cmd.Args().Get(0)
	if len(ppn) == 0 {
		return errors.New("no PPN has been specified")
	}

	relation, err := sru.ParseRelationType(cmd.String("relation"))
	if err != nil {
		return err
	}
	recordType, err := sru.ParseRecordType(cmd.String("record-type"))
	if err != nil {
		return err
	}

	opts, err := searchOptions(cmd, env.Cfg)
	if err != nil {
		return err
	}
	opts = append(opts, client.WithRecordType(recordType))

	log.Info("Related record search starting", zap.String("ppn", ppn), zap.String("relation", string(relation)))
	defer func(start time.Time) {
		log.Info("Related record search completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	resp, err := env.Client.SearchRelated(ctx, ppn, relation, opts...)
	if err != nil {
		return apiHint(err)
	}
	return outputSearchResponse(cmd, env, resp)
}
