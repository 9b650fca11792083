// Package config provides configuration loading and access for the trail and its host screens.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Trail     TrailConfig     `yaml:"trail"`
	Screens   ScreensConfig   `yaml:"screens"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	Background RGB `yaml:"background"` // Trail fade colour and page background
}

// RGB is an opaque colour written as [r, g, b] in YAML.
type RGB struct {
	R, G, B uint8
}

// UnmarshalYAML accepts a three element sequence.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var parts []int
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("decoding colour: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("colour needs 3 components, got %d", len(parts))
	}
	for _, v := range parts {
		if v < 0 || v > 255 {
			return fmt.Errorf("colour component %d out of range", v)
		}
	}
	c.R, c.G, c.B = uint8(parts[0]), uint8(parts[1]), uint8(parts[2])
	return nil
}

// MarshalYAML writes the colour back as a sequence.
func (c RGB) MarshalYAML() (interface{}, error) {
	return []int{int(c.R), int(c.G), int(c.B)}, nil
}

// PhysicsConfig holds frame stepping parameters.
type PhysicsConfig struct {
	ReferenceFPS float64 `yaml:"reference_fps"`  // Frame rate the per-tick constants were tuned at
	FixedStep    bool    `yaml:"fixed_step"`     // true = one reference step per frame regardless of dt
	MaxStepScale float64 `yaml:"max_step_scale"` // Clamp for long frames (tab switch, debugger)
	MinStepScale float64 `yaml:"min_step_scale"` // Floor for zero-length frames so every tick ages particles
}

// Range is a closed interval sampled uniformly, written as [min, max] in YAML.
type Range struct {
	Min, Max float64
}

// UnmarshalYAML accepts [min, max] or a single scalar.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("decoding range: %w", err)
		}
		r.Min, r.Max = v, v
		return nil
	}
	var parts []float64
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("decoding range: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("range needs 2 values, got %d", len(parts))
	}
	r.Min, r.Max = parts[0], parts[1]
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return nil
}

// MarshalYAML writes the range back as a sequence.
func (r Range) MarshalYAML() (interface{}, error) {
	return []float64{r.Min, r.Max}, nil
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// KindConfig holds spawn parameters for one particle kind.
type KindConfig struct {
	Jitter          float64 `yaml:"jitter"`           // Spawn offset spread (full width, px)
	VelocityInherit float64 `yaml:"velocity_inherit"` // Share of pointer velocity kept
	VelocityJitter  float64 `yaml:"velocity_jitter"`  // Random velocity spread (full width)
	Decay           Range   `yaml:"decay"`
	Size            Range   `yaml:"size"`
	Hue             Range   `yaml:"hue"`        // degrees
	Saturation      Range   `yaml:"saturation"` // percent
	Lightness       Range   `yaml:"lightness"`  // percent
	Alpha           Range   `yaml:"alpha"`
	ShimmerSpeed    Range   `yaml:"shimmer_speed"`
}

// KindsConfig holds the closed set of particle kinds.
type KindsConfig struct {
	Sparkle KindConfig `yaml:"sparkle"`
	Glow    KindConfig `yaml:"glow"`
}

// ProfileConfig holds the per-screen engine parameters.
// Screens differ only by profile, never by code.
type ProfileConfig struct {
	Cap           int     `yaml:"cap"`            // Live set bound, oldest evicted first
	ThrottleMS    float64 `yaml:"throttle_ms"`    // Minimum gap between accepted pointer samples
	VelocityScale float64 `yaml:"velocity_scale"` // px/ms -> spawn velocity hint
	SpeedDivisor  float64 `yaml:"speed_divisor"`  // |vx|+|vy| per extra particle
	MaxPerSample  int     `yaml:"max_per_sample"`
	StaggerMS     float64 `yaml:"stagger_ms"` // Delay between spawns of one sample
	SparkleChance float64 `yaml:"sparkle_chance"`
	Damping       float64 `yaml:"damping"`    // Velocity factor per reference frame
	FadeAlpha     float64 `yaml:"fade_alpha"` // Background overlay opacity per frame
}

// Throttle returns the sample throttle window.
func (p ProfileConfig) Throttle() time.Duration {
	return time.Duration(p.ThrottleMS * float64(time.Millisecond))
}

// Stagger returns the delay between spawns of one accepted sample.
func (p ProfileConfig) Stagger() time.Duration {
	return time.Duration(p.StaggerMS * float64(time.Millisecond))
}

// TrailConfig holds particle kinds and named engine profiles.
type TrailConfig struct {
	Kinds    KindsConfig              `yaml:"kinds"`
	Profiles map[string]ProfileConfig `yaml:"profiles"`
}

// IconConfig places one floating loader icon. X and Y are fractions of the screen.
type IconConfig struct {
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Delay float64 `yaml:"delay"`
}

// LoaderConfig holds the loading splash timeline.
type LoaderConfig struct {
	DurationSec   float64      `yaml:"duration_sec"`    // Splash is replaced after this
	MorphAtSec    float64      `yaml:"morph_at_sec"`    // airplane -> morphing
	CompleteAtSec float64      `yaml:"complete_at_sec"` // morphing -> complete, counter starts
	CountSec      float64      `yaml:"count_sec"`       // Counter 0 -> 100 duration
	Icons         []IconConfig `yaml:"icons"`
	Profile       string       `yaml:"profile"`
}

// MoodOption is one selectable mood card.
type MoodOption struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Subtext    string `yaml:"subtext"`
	Background []RGB  `yaml:"background"` // Gradient stops, top-left to bottom-right
}

// MoodConfig holds the mood selector parameters.
type MoodConfig struct {
	Moods          []MoodOption `yaml:"moods"`
	Neutral        []RGB        `yaml:"neutral"` // Background before a mood is picked
	ButtonDelaySec float64      `yaml:"button_delay_sec"`
	CardStagger    float64      `yaml:"card_stagger"`
	Profile        string       `yaml:"profile"`
}

// TransitionConfig holds the wipe overlay parameters.
type TransitionConfig struct {
	DurationSec float64 `yaml:"duration_sec"`
	Frequency   float64 `yaml:"frequency"` // Spring angular frequency
	Damping     float64 `yaml:"damping"`   // Spring damping ratio
}

// JourneyConfig holds the journey showcase parameters.
type JourneyConfig struct {
	Chunks     []string `yaml:"chunks"`
	StaggerSec float64  `yaml:"stagger_sec"`
	HoldSec    float64  `yaml:"hold_sec"` // After the last chunk, before moving on
	Rise       float64  `yaml:"rise"`     // px each chunk rises into place
	Profile    string   `yaml:"profile"`
}

// DishConfig is one gallery card. Size is small, medium, wide, tall or large.
type DishConfig struct {
	Category string `yaml:"category"`
	Title    string `yaml:"title"`
	Size     string `yaml:"size"`
}

// GalleryConfig holds the image grid parameters.
type GalleryConfig struct {
	Dishes     []DishConfig `yaml:"dishes"`
	Columns    int          `yaml:"columns"`
	RowHeight  float64      `yaml:"row_height"` // px per grid row
	Gap        float64      `yaml:"gap"`
	StaggerSec float64      `yaml:"stagger_sec"`
	Rise       float64      `yaml:"rise"`
	Profile    string       `yaml:"profile"`
}

// RevealConfig holds the spring used to ease decor into place.
type RevealConfig struct {
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// ScreensConfig holds the host screen timeline.
type ScreensConfig struct {
	Loader     LoaderConfig     `yaml:"loader"`
	Mood       MoodConfig       `yaml:"mood"`
	Transition TransitionConfig `yaml:"transition"`
	Journey    JourneyConfig    `yaml:"journey"`
	Gallery    GalleryConfig    `yaml:"gallery"`
	Reveal     RevealConfig     `yaml:"reveal"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowFrames        int `yaml:"window_frames"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ReferenceFrame time.Duration // 1 / Physics.ReferenceFPS
	ProfileNames   []string      // Sorted profile names
	ScreenW32      float32
	ScreenH32      float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; profiles are replaced per key
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Profile returns the named engine profile. An empty name means the
// screen runs without a trail.
func (c *Config) Profile(name string) (ProfileConfig, bool) {
	if name == "" {
		return ProfileConfig{}, false
	}
	p, ok := c.Trail.Profiles[name]
	return p, ok
}

// validate rejects values that would make the engine misbehave.
func (c *Config) validate() error {
	for name, p := range c.Trail.Profiles {
		if p.Cap < 1 {
			return fmt.Errorf("profile %q: cap must be positive, got %d", name, p.Cap)
		}
		if p.Damping <= 0 || p.Damping > 1 {
			return fmt.Errorf("profile %q: damping must be in (0, 1], got %g", name, p.Damping)
		}
		if p.SparkleChance < 0 || p.SparkleChance > 1 {
			return fmt.Errorf("profile %q: sparkle_chance must be in [0, 1], got %g", name, p.SparkleChance)
		}
	}
	for _, k := range []struct {
		name string
		cfg  KindConfig
	}{{"sparkle", c.Trail.Kinds.Sparkle}, {"glow", c.Trail.Kinds.Glow}} {
		if k.cfg.Decay.Min <= 0 {
			return fmt.Errorf("kind %q: decay must be positive, got %g", k.name, k.cfg.Decay.Min)
		}
	}
	if len(c.Screens.Mood.Moods) == 0 {
		return fmt.Errorf("screens.mood: at least one mood is required")
	}
	if c.Screens.Gallery.Columns < 1 {
		return fmt.Errorf("screens.gallery: columns must be positive, got %d", c.Screens.Gallery.Columns)
	}
	for _, ref := range []string{c.Screens.Loader.Profile, c.Screens.Mood.Profile, c.Screens.Journey.Profile, c.Screens.Gallery.Profile} {
		if ref == "" {
			continue
		}
		if _, ok := c.Trail.Profiles[ref]; !ok {
			return fmt.Errorf("screen references unknown profile %q", ref)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.ReferenceFPS <= 0 {
		c.Physics.ReferenceFPS = 60
	}
	if c.Physics.MaxStepScale <= 0 {
		c.Physics.MaxStepScale = 4
	}
	if c.Physics.MinStepScale <= 0 {
		c.Physics.MinStepScale = 0.05
	}
	c.Physics.MinStepScale = math.Min(c.Physics.MinStepScale, c.Physics.MaxStepScale)
	c.Derived.ReferenceFrame = time.Duration(math.Round(float64(time.Second) / c.Physics.ReferenceFPS))

	for name, p := range c.Trail.Profiles {
		if p.VelocityScale == 0 {
			p.VelocityScale = 10
		}
		if p.SpeedDivisor == 0 {
			p.SpeedDivisor = 5
		}
		if p.MaxPerSample == 0 {
			p.MaxPerSample = 3
		}
		c.Trail.Profiles[name] = p
	}

	c.Derived.ProfileNames = c.Derived.ProfileNames[:0]
	for name := range c.Trail.Profiles {
		c.Derived.ProfileNames = append(c.Derived.ProfileNames, name)
	}
	sort.Strings(c.Derived.ProfileNames)

	if c.Screens.Reveal.Frequency <= 0 {
		c.Screens.Reveal.Frequency = 7
	}
	if c.Screens.Reveal.Damping <= 0 {
		c.Screens.Reveal.Damping = 1
	}

	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
