// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/windframe/db"
	"github.com/stockparfait/windframe/shape"
	"github.com/stockparfait/windframe/stats"
	"github.com/stockparfait/windframe/table"
	"github.com/stockparfait/windframe/wind"

	toml "github.com/pelletier/go-toml/v2"
)

// KeyEnv is the environment variable overriding the bridge key.
const KeyEnv = "WINDFRAME_KEY"

type Flags struct {
	Config   string // default: ~/.windframe/config.toml
	EnvFile  string // default: .env
	LogLevel logging.Level
	Func     string
	Codes    shape.Names
	Fields   shape.Names
	Start    string
	End      string
	Date     string
	Report   string
	Options  wind.Options
	CSV      bool // dump CSV format; default: text.
	Summary  bool // print column statistics instead of the data
	Returns  int  // if > 0, print statistics of log-profits over this many rows
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var codes, fields, options string
	fs := flag.NewFlagSet("windframe", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config",
		filepath.Join(os.Getenv("HOME"), ".windframe", "config.toml"),
		"TOML config file")
	fs.StringVar(&flags.EnvFile, "env", ".env", "file with environment overrides")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Func, "func", "", "query: wsd, wsi, wst, wss, wset, tdays (required)")
	fs.StringVar(&codes, "codes", "", "comma-separated instrument codes")
	fs.StringVar(&fields, "fields", "", "comma-separated field names")
	fs.StringVar(&flags.Start, "start", "", "start date or time")
	fs.StringVar(&flags.End, "end", "", "end date or time")
	fs.StringVar(&flags.Date, "date", "", "snapshot date for wss")
	fs.StringVar(&flags.Report, "report", "", "report name for wset")
	fs.StringVar(&options, "options", "", "extra options as k=v;k=v")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.BoolVar(&flags.Summary, "summary", false, "print column statistics")
	fs.IntVar(&flags.Returns, "returns", 0,
		"print statistics of N-period log-profits within [-start, -end] (wsd, wsi, wst)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.Codes = shape.Split(codes)
	flags.Fields = shape.Split(fields)
	var err error
	if flags.Options, err = wind.ParseOptions(options); err != nil {
		return nil, errors.Annotate(err, "invalid -options")
	}

	switch flags.Func {
	case "":
		return nil, errors.Reason("missing required -func argument")
	case "wsd", "wsi", "wst", "wss":
		if len(flags.Codes) == 0 || len(flags.Fields) == 0 {
			return nil, errors.Reason("-func %s requires -codes and -fields", flags.Func)
		}
	case "wset":
		if flags.Report == "" {
			return nil, errors.Reason("-func wset requires -report")
		}
	case "tdays":
	default:
		return nil, errors.Reason("unsupported -func %s", flags.Func)
	}
	switch flags.Func {
	case "wsd", "wsi", "wst", "tdays":
		if flags.Start == "" || flags.End == "" {
			return nil, errors.Reason("-func %s requires -start and -end", flags.Func)
		}
	}
	if flags.Returns != 0 {
		switch {
		case flags.Returns < 0:
			return nil, errors.Reason("-returns must be positive, got %d", flags.Returns)
		case flags.Summary:
			return nil, errors.Reason("-returns and -summary are mutually exclusive")
		case flags.Func != "wsd" && flags.Func != "wsi" && flags.Func != "wst":
			return nil, errors.Reason("-returns requires a time series -func, not %s", flags.Func)
		}
	}
	return &flags, nil
}

type Config struct {
	Bridge string `toml:"bridge"` // base URL of the terminal bridge
	Key    string `toml:"key"`    // bridge key, if the bridge requires one
}

// parseConfig reads the config file when it exists, and applies the key
// overrides: first from the env file, then from the process environment.
func parseConfig(ctx context.Context, flags *Flags) (*Config, error) {
	c := Config{Bridge: wind.URL}
	f, err := os.Open(flags.Config)
	switch {
	case err == nil:
		defer f.Close()
		if err := toml.NewDecoder(f).Decode(&c); err != nil {
			return nil, errors.Annotate(err, "failed to read config file %s", flags.Config)
		}
	case errors.Is(err, os.ErrNotExist):
		logging.Debugf(ctx, "config file %s does not exist, using defaults", flags.Config)
	default:
		return nil, errors.Annotate(err, "failed to open config file %s", flags.Config)
	}

	if flags.EnvFile != "" {
		env, err := godotenv.Read(flags.EnvFile)
		switch {
		case err == nil:
			if k, ok := env[KeyEnv]; ok {
				c.Key = k
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, errors.Annotate(err, "failed to read env file %s", flags.EnvFile)
		}
	}
	if k := os.Getenv(KeyEnv); k != "" {
		c.Key = k
	}
	if c.Bridge == "" {
		c.Bridge = wind.URL
	}
	return &c, nil
}

func parseRange(flags *Flags) (start, end time.Time, err error) {
	s, err := db.NewTimeFromString(flags.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Annotate(err, "invalid -start")
	}
	e, err := db.NewTimeFromString(flags.End)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Annotate(err, "invalid -end")
	}
	return s.ToTime(), e.ToTime(), nil
}

func query(ctx context.Context, flags *Flags) (*table.Frame, error) {
	switch flags.Func {
	case "wss":
		var date db.Date
		if flags.Date != "" {
			var err error
			if date, err = db.NewDateFromString(flags.Date); err != nil {
				return nil, errors.Annotate(err, "invalid -date")
			}
		}
		return shape.WSS(ctx, flags.Codes, flags.Fields, date)
	case "wset":
		return shape.WSet(ctx, flags.Report, flags.Options)
	}

	start, end, err := parseRange(flags)
	if err != nil {
		return nil, err
	}
	switch flags.Func {
	case "wsd":
		return shape.WSD(ctx, flags.Codes, flags.Fields, start, end, flags.Options)
	case "wsi":
		return shape.WSI(ctx, flags.Codes, flags.Fields, start, end, flags.Options)
	case "wst":
		return shape.WST(ctx, flags.Codes, flags.Fields, start, end, flags.Options)
	case "tdays":
		days, err := shape.TDays(ctx, db.NewDateFromTime(start), db.NewDateFromTime(end), flags.Options)
		if err != nil {
			return nil, err
		}
		index := make([]table.Value, len(days))
		for i, d := range days {
			index[i] = d
		}
		return table.NewFrame("time", index), nil
	}
	return nil, errors.Reason("unsupported -func %s", flags.Func)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(ctx, flags)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	ctx = wind.UseSource(ctx, wind.NewClient(config.Bridge, config.Key))

	f, err := query(ctx, flags)
	if err != nil {
		return errors.Annotate(err, "failed to query %s", flags.Func)
	}
	logging.Infof(ctx, "%s: %d rows, %d columns", flags.Func, f.NumRows(), f.NumColumns())

	tbl := f.Table()
	switch {
	case flags.Summary:
		tbl = stats.Describe(f)
	case flags.Returns > 0:
		start, end, err := parseRange(flags)
		if err != nil {
			return err
		}
		if tbl, err = stats.DescribeReturns(f, flags.Returns, start, end); err != nil {
			return errors.Annotate(err, "failed to compute returns")
		}
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
