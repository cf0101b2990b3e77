package main

import (
	"fmt"

	"github.com/goliatone/go-kbadmin/pkg/console"
	"github.com/goliatone/go-kbadmin/pkg/kb"
	"github.com/goliatone/go-kbadmin/pkg/render"
	"github.com/goliatone/go-kbadmin/pkg/renderers/html"
)

// buildConsole assembles the console from the resolved config: the given kb
// client, the file keystore, optional catalog overrides and the themed HTML
// renderer. Extra renderers join the registry next to the HTML one.
func buildConsole(client *kb.Client, extra ...render.Renderer) (*console.Console, error) {
	store, err := keyStore()
	if err != nil {
		return nil, err
	}
	overrides, err := catalogStore()
	if err != nil {
		return nil, err
	}
	themeCfg, err := themeConfig(cfg)
	if err != nil {
		return nil, err
	}

	var htmlOpts []html.Option
	if themeCfg != nil {
		htmlOpts = append(htmlOpts, html.WithTheme(themeCfg))
	}
	renderer, err := html.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("build html renderer: %w", err)
	}

	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return nil, err
	}
	for _, r := range extra {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}

	opts := []console.Option{
		console.WithClient(client),
		console.WithKeystore(store),
		console.WithRegistry(registry),
		console.WithHTMLRenderer(renderer),
		console.WithLogger(logger),
	}
	if overrides != nil {
		opts = append(opts, console.WithCatalog(overrides))
	}
	return console.New(opts...)
}
