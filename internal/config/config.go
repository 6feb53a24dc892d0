// Package config loads encoder defaults from YAML.
package config

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"geoconv/internal/geom"
)

type Config struct {
	TWKB    TWKB    `yaml:"twkb"`
	WKB     WKB     `yaml:"wkb"`
	GeoJSON GeoJSON `yaml:"geojson"`
}

type TWKB struct {
	Precision  int  `yaml:"precision"`
	ZPrecision int  `yaml:"z_precision"`
	MPrecision int  `yaml:"m_precision"`
	BBox       bool `yaml:"bbox"`
	Size       bool `yaml:"size"`
}

type WKB struct {
	// ByteOrder is "little" or "big".
	ByteOrder string `yaml:"byte_order"`
}

type GeoJSON struct {
	// CRS is "none", "short" or "long".
	CRS         string `yaml:"crs"`
	DefaultSRID uint32 `yaml:"default_srid"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TWKB:    TWKB{Precision: geom.DefaultTWKBPrecision},
		WKB:     WKB{ByteOrder: "little"},
		GeoJSON: GeoJSON{CRS: "none", DefaultSRID: geom.DefaultGeoJSONSRID},
	}
}

// Load reads and validates a config file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if p := c.TWKB.Precision; p < -8 || p > 7 {
		return errors.Newf("twkb.precision %d outside [-8, 7]", p)
	}
	if p := c.TWKB.ZPrecision; p < -4 || p > 3 {
		return errors.Newf("twkb.z_precision %d outside [-4, 3]", p)
	}
	if p := c.TWKB.MPrecision; p < -4 || p > 3 {
		return errors.Newf("twkb.m_precision %d outside [-4, 3]", p)
	}
	if _, err := c.byteOrder(); err != nil {
		return err
	}
	if _, err := c.crsStyle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) byteOrder() (binary.ByteOrder, error) {
	switch strings.ToLower(c.WKB.ByteOrder) {
	case "", "little", "ndr":
		return binary.LittleEndian, nil
	case "big", "xdr":
		return binary.BigEndian, nil
	}
	return nil, errors.Newf("wkb.byte_order %q: want little or big", c.WKB.ByteOrder)
}

func (c *Config) crsStyle() (geom.CRSStyle, error) {
	switch strings.ToLower(c.GeoJSON.CRS) {
	case "", "none":
		return geom.CRSNone, nil
	case "short":
		return geom.CRSShort, nil
	case "long":
		return geom.CRSLong, nil
	}
	return geom.CRSNone, errors.Newf("geojson.crs %q: want none, short or long", c.GeoJSON.CRS)
}

func (c *Config) TWKBOptions() []geom.TWKBOption {
	return []geom.TWKBOption{
		geom.TWKBPrecision(c.TWKB.Precision),
		geom.TWKBZPrecision(c.TWKB.ZPrecision),
		geom.TWKBMPrecision(c.TWKB.MPrecision),
		geom.TWKBBoundingBox(c.TWKB.BBox),
		geom.TWKBSize(c.TWKB.Size),
	}
}

func (c *Config) WKBOptions() []geom.WKBOption {
	order, err := c.byteOrder()
	if err != nil {
		order = binary.LittleEndian
	}
	return []geom.WKBOption{geom.WKBByteOrder(order)}
}

func (c *Config) GeoJSONOptions() []geom.GeoJSONOption {
	style, _ := c.crsStyle()
	return []geom.GeoJSONOption{
		geom.GeoJSONCRS(style),
		geom.GeoJSONDefaultSRID(c.GeoJSON.DefaultSRID),
	}
}

// Options bundles every encoder option for geom.Encode and geom.Decode.
func (c *Config) Options() geom.Options {
	return geom.Options{
		WKB:     c.WKBOptions(),
		TWKB:    c.TWKBOptions(),
		GeoJSON: c.GeoJSONOptions(),
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
