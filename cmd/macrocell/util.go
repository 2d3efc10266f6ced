package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/jrhy/macrocell"
	"github.com/jrhy/macrocell/persist/file"
	s3Persist "github.com/jrhy/macrocell/persist/s3"
	"github.com/urfave/cli/v2"
)

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// openInput opens the named file, or stdin for "" and "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readBoard decodes a macrocell text file, logging any warnings.
func readBoard(path string) (macrocell.Board, error) {
	f, err := openInput(path)
	if err != nil {
		return macrocell.Board{}, err
	}
	defer f.Close()
	decoded, err := macrocell.DecodeReader(f, nil)
	if err != nil {
		if ferr, ok := err.(*macrocell.FormatError); ok {
			for _, w := range ferr.Warnings {
				slog.Warn("macrocell input", "path", path, "warning", w.String())
			}
			for _, e := range ferr.Errors {
				slog.Error("macrocell input", "path", path, "error", e.String())
			}
		}
		return macrocell.Board{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	for _, w := range decoded.Warnings {
		slog.Warn("macrocell input", "path", path, "warning", w.String())
	}
	return decoded.Board, nil
}

// readPoints reads "x y" lines (comma separated also accepted) into a set.
// Blank lines and lines starting with # are skipped.
func readPoints(r io.Reader) (macrocell.PointSet, error) {
	set := macrocell.PointSet{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected two coordinates, got %q", lineNo, line)
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", lineNo, err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", lineNo, err)
		}
		set[macrocell.Point{X: x, Y: y}] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// parseWindow parses "x,y,w,h".
func parseWindow(s string) (macrocell.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return macrocell.Rect{}, fmt.Errorf("window %q: expected x,y,width,height", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return macrocell.Rect{}, fmt.Errorf("window %q: %w", s, err)
		}
		v[i] = n
	}
	return macrocell.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

var storeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "dir",
		Usage:   "directory holding stored boards",
		EnvVars: []string{"MACROCELL_STORE_DIR"},
	},
	&cli.StringFlag{
		Name:    "s3-bucket",
		Usage:   "S3 bucket holding stored boards (uses the standard AWS environment)",
		EnvVars: []string{"MACROCELL_S3_BUCKET"},
	},
	&cli.StringFlag{
		Name:    "s3-prefix",
		Usage:   "key prefix for boards in the S3 bucket",
		Value:   "boards/",
		EnvVars: []string{"MACROCELL_S3_PREFIX"},
	},
	&cli.StringFlag{
		Name:    "s3-endpoint",
		Usage:   "S3-compatible endpoint URL, for non-AWS object stores",
		EnvVars: []string{"MACROCELL_S3_ENDPOINT"},
	},
	&cli.BoolFlag{
		Name:  "binary",
		Usage: "store boards in the binary record format",
	},
}

func openStore(cctx *cli.Context) (*macrocell.Store, error) {
	store := &macrocell.Store{
		NodeCache: macrocell.NewNodeCache(1024),
		Logger:    slog.Default(),
	}
	if cctx.Bool("binary") {
		store.Format = macrocell.BinaryFormat
	}
	switch {
	case cctx.String("dir") != "" && cctx.String("s3-bucket") != "":
		return nil, fmt.Errorf("--dir and --s3-bucket are mutually exclusive")
	case cctx.String("dir") != "":
		dir := cctx.String("dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		store.Persist = file.NewPersistForPath(dir)
	case cctx.String("s3-bucket") != "":
		config := aws.NewConfig()
		if endpoint := cctx.String("s3-endpoint"); endpoint != "" {
			config = config.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
		}
		sess, err := session.NewSessionWithOptions(session.Options{
			Config:            *config,
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
		store.Persist = s3Persist.NewPersist(s3.New(sess), cctx.String("s3-bucket"), cctx.String("s3-prefix"))
	default:
		return nil, fmt.Errorf("need --dir or --s3-bucket")
	}
	return store, nil
}
