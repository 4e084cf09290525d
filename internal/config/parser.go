package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/shineymark/internal/shape"
	"github.com/example/shineymark/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if uq, err := strconv.Unquote(value); err == nil {
			value = uq
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "style":
			err = setStyleField(&cfg.Style, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := "root section"
			if currentSection != "" {
				section = "section [" + currentSection + "]"
			}
			return nil, fmt.Errorf("error in %s: %w", section, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be checked one key at a time.
func (c *Config) Validate() error {
	if c.Canvas.ZoomMin <= 0 || c.Canvas.ZoomMax < c.Canvas.ZoomMin {
		return fmt.Errorf("invalid zoom range %v..%v", c.Canvas.ZoomMin, c.Canvas.ZoomMax)
	}
	if _, err := shape.ParseColor(c.Style.Stroke); err != nil {
		return fmt.Errorf("style stroke: %w", err)
	}
	if c.Style.Fill != "" {
		if _, err := shape.ParseColor(c.Style.Fill); err != nil {
			return fmt.Errorf("style fill: %w", err)
		}
	}
	return nil
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	switch strings.ToLower(key) {
	case "zoom_min":
		return parsePositive(key, value, &c.ZoomMin)
	case "zoom_max":
		return parsePositive(key, value, &c.ZoomMax)
	case "zoom_step":
		return parsePositive(key, value, &c.ZoomStep)
	case "fit_margin":
		return parsePositive(key, value, &c.FitMargin)
	case "paste_offset":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		c.PasteOffset = v
	case "save_delay_ms":
		return parseMillis(key, value, &c.SaveDelay)
	case "resize_delay_ms":
		return parseMillis(key, value, &c.ResizeDelay)
	case "text_placeholder":
		c.Placeholder = value
	}
	return nil
}

func setStyleField(s *Style, key, value string) error {
	switch strings.ToLower(key) {
	case "stroke":
		s.Stroke = value
	case "stroke_width":
		return parsePositive(key, value, &s.StrokeWidth)
	case "fill":
		s.Fill = value
	case "font_size":
		return parsePositive(key, value, &s.FontSize)
	case "font_family":
		s.FontFamily = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parsePositive(key, value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if v <= 0 {
		return fmt.Errorf("key %s must be positive", key)
	}
	*dst = v
	return nil
}

func parseMillis(key, value string, dst *time.Duration) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if v < 0 {
		return fmt.Errorf("key %s must not be negative", key)
	}
	*dst = time.Duration(v) * time.Millisecond
	return nil
}
