package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/jvanvinkenroye/swb/cmd/swb/internal/render"
	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/profiles"
	"github.com/jvanvinkenroye/swb/sru"
	"github.com/jvanvinkenroye/swb/state"
)

// namedValue pairs a friendly name with the wire value behind it for JSON
// listings.
type namedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func output(env *state.LocalEnv, text string, jsonPayload any) error {
	var (
		out string
		err error
	)
	if env.Cfg.Output.Mode == config.OutputModeJSON {
		if out, err = render.JSON(jsonPayload); err != nil {
			return err
		}
	} else {
		out = text
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func runFormats(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)
	return output(env, render.Formats(), sru.KnownFormats())
}

func runIndices(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	payload := struct {
		Indices    []namedValue `json:"indices"`
		SortFields []string     `json:"sort_fields"`
		Relations  []namedValue `json:"relations"`
	}{}

	for _, name := range sru.KnownIndexNames() {
		idx, _ := sru.IndexByName(name)
		payload.Indices = append(payload.Indices, namedValue{Name: name, Value: string(idx)})
	}
	for _, f := range sru.KnownSortFields() {
		payload.SortFields = append(payload.SortFields, string(f))
	}
	for _, name := range sru.KnownRelationNames() {
		rel, _ := sru.ParseRelationType(name)
		payload.Relations = append(payload.Relations, namedValue{Name: name, Value: string(rel)})
	}
	return output(env, render.Indices(), payload)
}

func runProfiles(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)
	return output(env, render.Profiles(profiles.List(), env.Cfg.Client.Profile), profiles.List())
}
