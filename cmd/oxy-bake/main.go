// Command oxy-bake bakes animated asset folders into skinning textures, data blobs and prefabs.
//
// Usage:
//
//	oxy-bake [-config oxy.yaml] [-out Resources] [-preview] <folder>...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gpuanim/engine/config"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("oxy-bake", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (yaml, json or toml)")
	outDir := fs.String("out", "", "output root, overrides export.output_dir")
	preview := fs.Bool("preview", false, "also write a TIFF preview of each skinning texture")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: oxy-bake [-config file] [-out dir] [-preview] <folder>...")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}
	cfg.Export.Preview = cfg.Export.Preview || *preview

	log, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	reports, err := cfg.NewExporter(log).ExportAll(fs.Args())
	for _, r := range reports {
		log.Info("exported",
			zap.String("asset", r.Asset),
			zap.String("out", r.OutputDir),
			zap.Int("bones", r.Bones),
			zap.Int("clips", r.Clips),
			zap.Int("textureSize", r.TextureSize),
			zap.Strings("skipped", r.Skipped),
		)
	}
	if err != nil {
		log.Error("some folders failed", zap.Error(err))
	}
	if len(reports) == 0 {
		log.Error("nothing exported", zap.Strings("folders", fs.Args()))
		return 1
	}
	return 0
}
