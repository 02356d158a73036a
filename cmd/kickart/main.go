package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/kickart"
	"github.com/bodgit/kickart/palette"
	"github.com/urfave/cli/v2"
)

const (
	defaultPNG    = "logo.png"
	defaultSVG    = "logo.svg"
	defaultOutput = "kick-patch.bin"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func reducer(name string) (palette.Reducer, error) {
	switch name {
	case "median-cut":
		return palette.MedianCut{}, nil
	case "colorquant":
		return palette.ColorQuant{}, nil
	default:
		return nil, fmt.Errorf("unknown reducer %q", name)
	}
}

func newKickArt(c *cli.Context) (*kickart.KickArt, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	options := kickart.Options{
		Strict: c.Bool("strict"),
	}
	if name := c.String("reducer"); name != "" {
		r, err := reducer(name)
		if err != nil {
			return nil, err
		}
		options.Reducer = r
	}

	return kickart.New(c.String("db"), logger, options)
}

func writeFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}

	return f.Close()
}

func decode(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	k, err := newKickArt(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer k.Close()

	logo, err := k.DecodeFile(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	outputs := []struct {
		flag string
		fn   func(io.Writer) error
	}{
		{"png", logo.WritePNG},
		{"bmp", logo.WriteBMP},
		{"svg", logo.WriteSVG},
	}

	for _, o := range outputs {
		file := c.String(o.flag)
		if file == "" {
			continue
		}
		if err := writeFile(file, o.fn); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}

func encode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	k, err := newKickArt(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer k.Close()

	logo, err := k.EncodeFile(c.Args().Get(0), c.Args().Get(1), c.String("output"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if file := c.String("png"); file != "" {
		if err := writeFile(file, logo.WritePNG); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	k, err := newKickArt(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer k.Close()

	for _, file := range c.Args().Slice() {
		logo, err := k.DecodeFile(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		if c.NArg() > 1 {
			fmt.Fprintf(c.App.Writer, "%s:\n", file)
		}
		if err := logo.WriteInfo(c.App.Writer); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}

func history(c *cli.Context) error {
	if c.String("db") == "" {
		return cli.NewExitError("no history database, use --db or KICKART_DB", 1)
	}

	k, err := newKickArt(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer k.Close()

	var patches []kickart.Patch
	if c.NArg() == 0 {
		if patches, err = k.Patches(); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	for _, file := range c.Args().Slice() {
		found, err := k.Provenance(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if len(found) == 0 {
			fmt.Fprintf(c.App.Writer, "%s: no recorded patches\n", file)
		}
		patches = append(patches, found...)
	}

	for _, p := range patches {
		fmt.Fprintf(c.App.Writer, "%s %s (%s) + %s -> %s (%s), %d vector bytes, palette %s\n", p.Time.Format("2006-01-02 15:04:05"), p.Source, p.SourceCRC, p.Artwork, p.Target, p.TargetCRC, p.Vectors, p.Palette)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "kickart"
	app.Usage = "Amiga Kickstart 1.3 boot logo converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"KICKART_DB"},
			Usage:   "path to patch history database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "decode",
			Usage:       "Export the boot logo from a ROM image",
			Description: "",
			ArgsUsage:   "ROM",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "png",
					Value: defaultPNG,
					Usage: "write rendered logo as PNG to `FILE`",
				},
				&cli.StringFlag{
					Name:  "bmp",
					Usage: "write rendered logo as BMP to `FILE`",
				},
				&cli.StringFlag{
					Name:  "svg",
					Value: defaultSVG,
					Usage: "write logo as SVG to `FILE`",
				},
			},
			Action: decode,
		},
		{
			Name:        "encode",
			Usage:       "Patch a ROM image with a boot logo drawn in SVG",
			Description: "",
			ArgsUsage:   "ROM SVG",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "output",
					Value: defaultOutput,
					Usage: "write patched ROM image to `FILE`",
				},
				&cli.StringFlag{
					Name:  "png",
					Usage: "write a preview of the encoded logo as PNG to `FILE`",
				},
				&cli.StringFlag{
					Name:  "reducer",
					Value: "median-cut",
					Usage: "color reducer, median-cut or colorquant",
				},
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "fail if the logo does not fit",
				},
			},
			Action: encode,
		},
		{
			Name:        "info",
			Usage:       "Describe the boot logo in one or more ROM images",
			Description: "",
			ArgsUsage:   "ROM...",
			Action:      info,
		},
		{
			Name:        "history",
			Usage:       "List patched ROM images",
			Description: "With no arguments every recorded patch is listed, otherwise the patches that produced each ROM",
			ArgsUsage:   "[ROM...]",
			Action:      history,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
