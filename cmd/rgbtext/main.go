package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"

	"github.com/bodgit/rgbtext"
	"github.com/bodgit/rgbtext/display"
	"github.com/bodgit/rgbtext/evolve"
	"github.com/urfave/cli/v2"
)

const (
	defaultRaw    = "raw.dat"
	defaultOutput = "c_raw.dat"
	defaultOutDir = "out"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type settings struct {
	cfg    *rgbtext.Config
	logger *log.Logger
}

func setup(c *cli.Context) (*settings, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := rgbtext.ReadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	// Flags take precedence over the configuration file
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("background") {
		cfg.Background = c.String("background")
	}
	if c.IsSet("polygons") {
		cfg.Polygons = c.Int("polygons")
	}
	if c.IsSet("points") {
		cfg.Points = c.Int("points")
	}
	if c.IsSet("weight") {
		cfg.Weight = c.Float64("weight")
	}
	if c.IsSet("palette") {
		cfg.Palette = c.Int("palette")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &settings{
		cfg:    cfg,
		logger: logger,
	}, nil
}

func sizeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Usage: "width of the image in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "height of the image in pixels",
		},
	}
}

func historyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		EnvVars: []string{"RGBTEXT_DB"},
		Usage:   "path to history database",
	}
}

func encodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	s, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	dst := defaultRaw
	if c.NArg() > 1 {
		dst = c.Args().Get(1)
	}

	if err := rgbtext.New(s.logger).EncodeFile(c.Args().First(), dst); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func decodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	s, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	bg, err := rgbtext.ParseColor(s.cfg.Background)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := rgbtext.New(s.logger).DecodeFile(c.Args().First(), s.cfg.Width, s.cfg.Height, bg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	scale := c.Int("scale")
	if scale < 1 {
		return cli.NewExitError(errors.New("scale must be positive"), 1)
	}
	width, height := s.cfg.Width*scale, s.cfg.Height*scale

	var p display.Presenter = display.Viewer{Width: width, Height: height}
	if output := c.String("output"); output != "" {
		p = display.File{Path: output, Width: width, Height: height}
	}

	if err := p.Present(m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func batchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	s, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rgbtext.New(s.logger).EncodeDir(ctx, c.Args().First(), c.Int("workers")); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func evolveAction(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	src := defaultRaw
	if c.NArg() > 0 {
		src = c.Args().First()
	}

	opts := []evolve.Option{
		evolve.WithPolygons(s.cfg.Polygons),
		evolve.WithPoints(s.cfg.Points),
		evolve.WithWeight(s.cfg.Weight),
		evolve.WithMaxTries(c.Int("max-tries")),
	}
	if c.IsSet("seed") {
		opts = append(opts, evolve.WithRand(rand.New(rand.NewSource(c.Int64("seed")))))
	}

	var h *rgbtext.History
	if db := c.String("db"); db != "" {
		if h, err = rgbtext.NewHistory(db); err != nil {
			return cli.NewExitError(err, 1)
		}
		defer h.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conv := rgbtext.New(s.logger)

	canvas, err := conv.Evolve(ctx, src, rgbtext.EvolveOptions{
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
		Dir:     c.String("out"),
		History: h,
		Palette: s.cfg.Palette,
		Options: opts,
	})
	if canvas != nil {
		if werr := conv.WriteFile(c.String("output"), canvas); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func openHistory(c *cli.Context) (*rgbtext.History, error) {
	db := c.String("db")
	if db == "" {
		return nil, errors.New("no history database given")
	}
	if _, err := os.Stat(db); err != nil {
		return nil, err
	}
	return rgbtext.NewHistory(db)
}

func historyListAction(c *cli.Context) error {
	h, err := openHistory(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer h.Close()

	runs, err := h.Runs()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, r := range runs {
		best := "-"
		if r.Best.Valid {
			best = strconv.FormatInt(r.Best.Int64, 10)
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%dx%d\t%d\t%s\n", r.ID, r.SHA1, r.Width, r.Height, r.Generations, best)
	}

	return nil
}

func historyExportAction(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	run, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid run: %w", err), 1)
	}
	index, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid generation: %w", err), 1)
	}

	h, err := openHistory(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer h.Close()

	frame, err := h.Frame(run, index)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if frame == nil {
		return cli.NewExitError(fmt.Errorf("no generation %d in run %d", index, run), 1)
	}

	if err := os.WriteFile(c.Args().Get(2), frame, 0o644); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "rgbtext"
	app.Usage = "Convert images to and from raw RGB text"
	app.Version = "1.0.0"

	configPath, err := rgbtext.DefaultConfigPath()
	if err != nil {
		configPath = rgbtext.ConfigFilename
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"RGBTEXT_CONFIG"},
			Value:   configPath,
			Usage:   "path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Write the pixels of an image as raw RGB text",
			ArgsUsage: "IMAGE [OUTPUT]",
			Action:    encodeAction,
		},
		{
			Name:      "decode",
			Usage:     "Rebuild an image from raw RGB text",
			ArgsUsage: "FILE",
			Flags: append(sizeFlags(),
				&cli.StringFlag{
					Name:  "background",
					Usage: "color of pixels missing from the input, as \"R, G, B\"",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "save the image instead of showing it, format is chosen by extension",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "enlarge the image by this factor",
				},
			),
			Action: decodeAction,
		},
		{
			Name:      "batch",
			Usage:     "Encode every image under a directory",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of images to encode at once",
				},
			},
			Action: batchAction,
		},
		{
			Name:      "evolve",
			Usage:     "Approximate raw RGB text with random polygons",
			ArgsUsage: "[FILE]",
			Flags: append(sizeFlags(),
				&cli.StringFlag{
					Name:  "out",
					Value: defaultOutDir,
					Usage: "directory for every accepted generation",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "file for the final canvas",
				},
				&cli.IntFlag{
					Name:  "polygons",
					Usage: "number of polygons to keep",
				},
				&cli.IntFlag{
					Name:  "points",
					Usage: "number of points in each polygon",
				},
				&cli.Float64Flag{
					Name:  "weight",
					Usage: "opacity of each polygon between 0 and 1",
				},
				&cli.IntFlag{
					Name:  "palette",
					Usage: "pick polygon colors from a palette of this size taken from the image",
				},
				&cli.IntFlag{
					Name:  "max-tries",
					Usage: "give up after this many polygons, 0 for no limit",
				},
				&cli.Int64Flag{
					Name:  "seed",
					Usage: "seed for the random number generator",
				},
				historyFlag(),
			),
			Action: evolveAction,
		},
		{
			Name:  "history",
			Usage: "Inspect recorded evolution runs",
			Flags: []cli.Flag{
				historyFlag(),
			},
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List runs",
					Action: historyListAction,
				},
				{
					Name:      "export",
					Usage:     "Write a generation as raw RGB text",
					ArgsUsage: "RUN GENERATION FILE",
					Action:    historyExportAction,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
