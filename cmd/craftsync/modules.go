package main

import (
	"github.com/JaimeStill/craftsync/internal/config"
	"github.com/JaimeStill/craftsync/internal/content"
	"github.com/JaimeStill/craftsync/internal/images"
	"github.com/JaimeStill/craftsync/internal/metadata"
	"github.com/JaimeStill/craftsync/internal/posts"
	"github.com/JaimeStill/craftsync/internal/references"
	"github.com/JaimeStill/craftsync/internal/syncer"
	"github.com/JaimeStill/craftsync/pkg/keys"
)

type Modules struct {
	Extractor *metadata.Extractor
	Resolver  *references.Resolver
	Converter *content.Converter
	Upserter  *posts.Upserter
	Syncer    *syncer.Syncer
}

func NewModules(rt *Runtime, cfg *config.Config) *Modules {
	gen := keys.Random()
	matcher := metadata.NewMatcher(cfg.Markers.Markers())

	extractor := metadata.New(matcher, cfg.Defaults.Metadata())

	resolver := references.New(
		references.NewRepository(rt.Sanity, rt.Logger),
		references.Config{
			Author:    cfg.Schema.Author.Resolver(),
			Category:  cfg.Schema.Category.Resolver(),
			Threshold: cfg.Matching.ThresholdValue(),
		},
		gen,
		rt.Logger,
	)

	uploader := images.New(rt.Sanity, cfg.Images.Uploader(), rt.Logger)
	converter := content.New(matcher, uploader, rt.Logger)

	upserter := posts.New(posts.NewRepository(rt.Sanity), cfg.Schema.Post.Upsert(), rt.Logger)

	return &Modules{
		Extractor: extractor,
		Resolver:  resolver,
		Converter: converter,
		Upserter:  upserter,
		Syncer: syncer.New(syncer.Deps{
			Source:    rt.Craft,
			Extractor: extractor,
			Resolver:  resolver,
			Converter: converter,
			Writer:    upserter,
			Keys:      gen,
			Journal:   rt.Journal,
			Snapshots: rt.Snapshots,
		}, rt.Logger),
	}
}
