package interact

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables of the pointer heuristics and the hit tester.
type Config struct {
	// MaxClickDist is the distance the pointer may travel from the press
	// position and still produce a click when released.
	MaxClickDist float32 `toml:"max_click_dist"`
	// MaxClickDuration is how long a press may be held and still produce a click.
	MaxClickDuration Duration `toml:"max_click_duration"`
	// MultiClickInterval is the maximum delay between successive clicks
	// for them to be counted as a double (or triple) click.
	MultiClickInterval Duration `toml:"multi_click_interval"`
	// HitRadius grows every widget rectangle while hit testing,
	// which makes small widgets easier to hit with a touch screen.
	HitRadius float32 `toml:"hit_radius"`
	Debug     bool    `toml:"debug"`

	// Logger receives debug output. Nothing is logged when nil.
	Logger *log.Logger `toml:"-"`
}

// Duration wraps time.Duration so it can be decoded from strings like "800ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		MaxClickDist:       6,
		MaxClickDuration:   Duration{800 * time.Millisecond},
		MultiClickInterval: Duration{300 * time.Millisecond},
	}
}

// LoadConfig reads a TOML configuration file on top of the default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read the config file: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not decode the config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.MaxClickDist < 0:
		return fmt.Errorf("max_click_dist should be positive, got %v", c.MaxClickDist)
	case c.MaxClickDuration.Duration < 0:
		return fmt.Errorf("max_click_duration should be positive, got %v", c.MaxClickDuration)
	case c.MultiClickInterval.Duration < 0:
		return fmt.Errorf("multi_click_interval should be positive, got %v", c.MultiClickInterval)
	case c.HitRadius < 0:
		return fmt.Errorf("hit_radius should be positive, got %v", c.HitRadius)
	}
	return nil
}

func (c Config) logf(format string, v ...any) {
	if c.Debug && c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}
