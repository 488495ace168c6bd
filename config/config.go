// Package config loads gridroute settings from TOML.
//
// Every key is optional; missing keys keep the value from Default. Unknown
// keys are rejected so typos surface instead of silently keeping defaults.
//
//	[energy]
//	frequency      = 1000
//	attempt_budget = "20ms"
//	total_budget   = "200ms"
//	target_mode    = true
//	mask_fallback  = true
//	[energy.mask]
//	core = true
//
//	[item]
//	replace_one  = true
//	replace_with = "overflow"   # router | overflow | underflow
//
//	[worker]
//	queue_size = 16
//
//	[log]
//	level  = "debug"            # debug | info | warn | error
//	format = "json"             # text | json
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/gridroute/plan"
	"github.com/katalvlaran/gridroute/router"
	"github.com/katalvlaran/gridroute/worker"
	"github.com/katalvlaran/gridroute/world"
)

// ErrInvalid wraps every decoding and validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the whole settings document.
type Config struct {
	Energy Medium `toml:"energy"`
	Liquid Medium `toml:"liquid"`
	Item   Medium `toml:"item"`
	Worker Worker `toml:"worker"`
	Log    Log    `toml:"log"`
	Server Server `toml:"server"`
}

// Medium holds the router settings of one medium.
type Medium struct {
	Frequency     int           `toml:"frequency"`
	AttemptBudget time.Duration `toml:"attempt_budget"`
	TotalBudget   time.Duration `toml:"total_budget"`
	TargetMode    bool          `toml:"target_mode"`
	MaskFallback  bool          `toml:"mask_fallback"`
	Mask          Mask          `toml:"mask"`
	ReplaceOne    bool          `toml:"replace_one"`
	ReplaceWith   string        `toml:"replace_with"`
}

// Mask toggles the exclusion ring per structure category.
type Mask struct {
	Build  bool `toml:"build"`
	Core   bool `toml:"core"`
	Liquid bool `toml:"liquid"`
	Solid  bool `toml:"solid"`
}

// Worker holds queue settings.
type Worker struct {
	QueueSize int `toml:"queue_size"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Energy: fromRouter(router.DefaultConfig(world.Energy)),
		Liquid: fromRouter(router.DefaultConfig(world.Liquid)),
		Item:   fromRouter(router.DefaultConfig(world.Item)),
		Worker: Worker{QueueSize: worker.DefaultQueueSize},
		Log:    Log{Level: "info", Format: "text"},
		Server: Server{Addr: ":8080"},
	}
}

func fromRouter(c router.Config) Medium {
	return Medium{
		Frequency:     c.Frequency,
		AttemptBudget: c.AttemptBudget,
		TotalBudget:   c.TotalBudget,
		TargetMode:    c.TargetMode,
		MaskFallback:  c.MaskFallback,
		Mask:          Mask(c.Mask),
		ReplaceOne:    c.ReplaceOne,
		ReplaceWith:   c.ReplaceWith.String(),
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads TOML from r over Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("%w: unknown keys %v", ErrInvalid, keys)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	for _, m := range world.Media {
		if _, err := c.Router(m); err != nil {
			return err
		}
	}
	if c.Worker.QueueSize < 1 {
		return fmt.Errorf("%w: worker.queue_size %d", ErrInvalid, c.Worker.QueueSize)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Medium returns the table of m.
func (c Config) Medium(m world.Medium) (Medium, error) {
	switch m {
	case world.Energy:
		return c.Energy, nil
	case world.Liquid:
		return c.Liquid, nil
	case world.Item:
		return c.Item, nil
	}
	return Medium{}, fmt.Errorf("%w: %v", world.ErrUnknownMedium, m)
}

// Router converts the table of m into a validated router.Config.
func (c Config) Router(m world.Medium) (router.Config, error) {
	mc, err := c.Medium(m)
	if err != nil {
		return router.Config{}, err
	}
	with := plan.Router
	if mc.ReplaceWith != "" {
		if with, err = plan.ParseSplitterKind(mc.ReplaceWith); err != nil {
			return router.Config{}, fmt.Errorf("%w: %s.replace_with: %v", ErrInvalid, m, err)
		}
	}
	if with != plan.Router && m != world.Item {
		return router.Config{}, fmt.Errorf("%w: %s.replace_with %q only applies to items", ErrInvalid, m, mc.ReplaceWith)
	}
	rc := router.Config{
		Frequency:     mc.Frequency,
		AttemptBudget: mc.AttemptBudget,
		TotalBudget:   mc.TotalBudget,
		TargetMode:    mc.TargetMode,
		MaskFallback:  mc.MaskFallback,
		Mask:          world.MaskCategories(mc.Mask),
		ReplaceOne:    mc.ReplaceOne && m != world.Energy,
		ReplaceWith:   with,
	}
	if err := rc.Validate(); err != nil {
		return router.Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, m, err)
	}
	return rc, nil
}

// Routers returns the router configuration of every medium.
func (c Config) Routers() (map[world.Medium]router.Config, error) {
	out := make(map[world.Medium]router.Config, len(world.Media))
	for _, m := range world.Media {
		rc, err := c.Router(m)
		if err != nil {
			return nil, err
		}
		out[m] = rc
	}
	return out, nil
}

// level parses Level. "trace" selects router.LevelTrace.
func (l Log) level() (slog.Level, error) {
	if strings.EqualFold(l.Level, "trace") {
		return router.LevelTrace, nil
	}
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return lv, nil
}

// Logger builds a text or JSON slog.Logger writing to w.
func (l Log) Logger(w io.Writer) (*slog.Logger, error) {
	lv, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lv}
	switch strings.ToLower(l.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: log.format %q", ErrInvalid, l.Format)
}
