// Package source loads ring directories, the list of member sites plus
// optional parameter overrides, from files, HTTP endpoints, or MongoDB.
//
// The canonical directory format is TOML:
//
//	title = "CS Webring"
//
//	[forces]
//	link_distance = 80.0
//
//	[colors]
//	accent = "212"
//
//	[[site]]
//	name = "Ada's Homepage"
//	link = "https://ada.example"
//	group = "systems"
//	year = 2023
//
// JSON documents with the same shape are accepted for interop with the
// snapshot tooling. Sources return input data only; layout output never
// flows back through them.
package source

import (
	"context"
	"time"

	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/sim"
	"github.com/matzehuels/webring/pkg/site"
)

// Source yields a ring directory document.
type Source interface {
	Load(ctx context.Context) (*Document, error)
}

// Document is a parsed ring directory.
type Document struct {
	Title  string           `json:"title,omitempty" toml:"title" bson:"title,omitempty"`
	Sites  []site.Site      `json:"sites" toml:"site" bson:"sites"`
	Forces *ForceOverrides  `json:"forces,omitempty" toml:"forces" bson:"forces,omitempty"`
	Camera *CameraOverrides `json:"camera,omitempty" toml:"camera" bson:"camera,omitempty"`
	Colors *Colors          `json:"colors,omitempty" toml:"colors" bson:"colors,omitempty"`
}

// ForceOverrides selectively replaces default force parameters. Nil
// fields keep the default.
type ForceOverrides struct {
	LinkDistance      *float64 `json:"link_distance,omitempty" toml:"link_distance"`
	LinkStrength      *float64 `json:"link_strength,omitempty" toml:"link_strength"`
	ChargeStrength    *float64 `json:"charge_strength,omitempty" toml:"charge_strength"`
	ChargeDistanceMax *float64 `json:"charge_distance_max,omitempty" toml:"charge_distance_max"`
	CollideRadius     *float64 `json:"collide_radius,omitempty" toml:"collide_radius"`
	CollideStrength   *float64 `json:"collide_strength,omitempty" toml:"collide_strength"`
	CollideIterations *int     `json:"collide_iterations,omitempty" toml:"collide_iterations"`
	CenterStrength    *float64 `json:"center_strength,omitempty" toml:"center_strength"`
	AlphaDecay        *float64 `json:"alpha_decay,omitempty" toml:"alpha_decay"`
	VelocityDamping   *float64 `json:"velocity_damping,omitempty" toml:"velocity_damping"`
}

// Apply returns cfg with the non-nil overrides replaced.
func (o *ForceOverrides) Apply(cfg sim.Config) sim.Config {
	if o == nil {
		return cfg
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&cfg.LinkDistance, o.LinkDistance)
	setF(&cfg.LinkStrength, o.LinkStrength)
	setF(&cfg.ChargeStrength, o.ChargeStrength)
	setF(&cfg.ChargeDistanceMax, o.ChargeDistanceMax)
	setF(&cfg.CollideRadius, o.CollideRadius)
	setF(&cfg.CollideStrength, o.CollideStrength)
	setF(&cfg.CenterStrength, o.CenterStrength)
	setF(&cfg.AlphaDecay, o.AlphaDecay)
	setF(&cfg.VelocityDamping, o.VelocityDamping)
	if o.CollideIterations != nil {
		cfg.CollideIterations = *o.CollideIterations
	}
	return cfg
}

// CameraOverrides selectively replaces default camera limits.
type CameraOverrides struct {
	MinScale        *float64 `json:"min_scale,omitempty" toml:"min_scale"`
	MaxScale        *float64 `json:"max_scale,omitempty" toml:"max_scale"`
	FrameDurationMS *int     `json:"frame_duration_ms,omitempty" toml:"frame_duration_ms"`
}

// Apply returns cfg with the non-nil overrides replaced.
func (o *CameraOverrides) Apply(cfg camera.Config) camera.Config {
	if o == nil {
		return cfg
	}
	if o.MinScale != nil {
		cfg.MinScale = *o.MinScale
	}
	if o.MaxScale != nil {
		cfg.MaxScale = *o.MaxScale
	}
	if o.FrameDurationMS != nil {
		cfg.FrameDuration = time.Duration(*o.FrameDurationMS) * time.Millisecond
	}
	return cfg
}

// Colors is the background/foreground/accent set resolved for rendering.
// Values are terminal palette indices or hex colors, passed through to
// lipgloss untouched.
type Colors struct {
	Background string `json:"background,omitempty" toml:"background"`
	Foreground string `json:"foreground,omitempty" toml:"foreground"`
	Accent     string `json:"accent,omitempty" toml:"accent"`
}

// DefaultColors returns the palette used when a directory does not
// declare one.
func DefaultColors() Colors {
	return Colors{
		Background: "0",
		Foreground: "255",
		Accent:     "212",
	}
}

// Resolve fills empty fields from the defaults.
func (c *Colors) Resolve() Colors {
	out := DefaultColors()
	if c == nil {
		return out
	}
	if c.Background != "" {
		out.Background = c.Background
	}
	if c.Foreground != "" {
		out.Foreground = c.Foreground
	}
	if c.Accent != "" {
		out.Accent = c.Accent
	}
	return out
}
