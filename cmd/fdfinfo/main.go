// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// fdfinfo prints the resolved header of one or more FDF files.
//
// Usage:
//
//	fdfinfo [flags] file.fdf...
//
// The report is written to stdout as YAML (default), JSON or hex encoded CBOR.
// With --dump the payload of a single file is written in native byte order,
// zstd compressed when the target ends in .zst.
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bep/fdf"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// report is the output for one file.
type report struct {
	File   string      `json:"file" yaml:"file" cbor:"file"`
	Header *fdf.Header `json:"header" yaml:"header" cbor:"header"`

	// Storage is the storage keyword as written in the header, e.g. "unsigned short".
	Storage string `json:"storage" yaml:"storage" cbor:"storage"`
	Signed  bool   `json:"signed" yaml:"signed" cbor:"signed"`

	Digest string `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Stats  *stats `json:"stats,omitempty" yaml:"stats,omitempty" cbor:"stats,omitempty"`
}

type stats struct {
	Min    float64 `json:"min" yaml:"min" cbor:"min"`
	Max    float64 `json:"max" yaml:"max" cbor:"max"`
	Mean   float64 `json:"mean" yaml:"mean" cbor:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev" cbor:"stddev"`
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		dumpPath   string
		format     string
		digest     bool
		withStats  bool
		verbose    bool
		limit      int64
	)

	flagSet := pflag.NewFlagSet("fdfinfo", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "read settings from this YAML file")
	flagSet.StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or cbor")
	flagSet.BoolVar(&digest, "digest", false, "add a BLAKE3 digest of the payload")
	flagSet.BoolVar(&withStats, "stats", false, "add pixel value statistics")
	flagSet.StringVar(&dumpPath, "dump", "", "write the native order payload to this file (.zst to compress)")
	flagSet.Int64Var(&limit, "limit-header-bytes", 0, "maximum number of header bytes to scan (0 for the default)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fdfinfo [flags] file.fdf...\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}
	if flagSet.Changed("format") {
		cfg.Format = format
	}
	if flagSet.Changed("digest") {
		cfg.Digest = digest
	}
	if flagSet.Changed("stats") {
		cfg.Stats = withStats
	}
	if flagSet.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flagSet.Changed("limit-header-bytes") {
		cfg.LimitHeaderBytes = limit
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	filenames := flagSet.Args()
	if len(filenames) == 0 {
		flagSet.Usage()
		return errors.New("no input files")
	}
	if dumpPath != "" && len(filenames) != 1 {
		return fmt.Errorf("--dump needs exactly one input file, got %d", len(filenames))
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var (
		reports []*report
		errs    []error
	)
	for _, filename := range filenames {
		r, err := inspect(logger, cfg, filename, dumpPath)
		if err != nil {
			logger.Error("failed to read file", "file", filename, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", filename, err))
			continue
		}
		reports = append(reports, r)
	}

	if len(reports) > 0 {
		if err := render(stdout, cfg.Format, reports); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

func inspect(logger *slog.Logger, cfg *Config, filename, dumpPath string) (*report, error) {
	fileLogger := logger.With("file", filename)
	d := fdf.NewDecoder(fdf.Options{
		LimitHeaderBytes: cfg.LimitHeaderBytes,
		Warnf: func(format string, args ...any) {
			fileLogger.Warn(fmt.Sprintf(format, args...))
		},
		HandleField: func(f fdf.Field) error {
			fileLogger.Debug("field", "type", f.Type, "name", f.Name, "value", f.Value)
			return nil
		},
	})

	r := &report{File: filename}

	if !cfg.Digest && !cfg.Stats && dumpPath == "" {
		h, err := d.ReadHeader(filename)
		if err != nil {
			return nil, err
		}
		r.setHeader(h)
		return r, nil
	}

	img, err := d.ReadImage(filename)
	if err != nil {
		return nil, err
	}
	r.setHeader(img.Header)
	fileLogger.Debug("read payload", "bytes", len(img.Pixels), "offset", img.Header.DataOffset)

	if cfg.Digest {
		sum := blake3.Sum256(img.Pixels)
		r.Digest = hex.EncodeToString(sum[:])
	}

	if cfg.Stats {
		r.Stats = computeStats(img.Float64s())
	}

	if dumpPath != "" {
		if err := dump(dumpPath, img.Pixels); err != nil {
			return nil, err
		}
		fileLogger.Info("wrote payload", "path", dumpPath)
	}

	return r, nil
}

func (r *report) setHeader(h *fdf.Header) {
	r.Header = h
	r.Storage = h.ComponentType.Keyword()
	r.Signed = h.ComponentType.IsSigned()
}

func computeStats(values []float64) *stats {
	if len(values) == 0 {
		return nil
	}
	mean, stddev := stat.MeanStdDev(values, nil)
	return &stats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: stddev,
	}
}

func dump(path string, pixels []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		_, err = f.Write(pixels)
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(pixels); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func render(w io.Writer, format string, reports []*report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "cbor":
		b, err := cbor.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, hex.EncodeToString(b))
		return err
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}
}
