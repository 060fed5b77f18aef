package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholders accepted by notify.found_message.
const (
	PlaceholderURL   = "{url}"
	PlaceholderSteps = "{steps}"
)

// DefaultFoundMessage is the alert sent when slots become visible.
const DefaultFoundMessage = "🚨 *APPOINTMENT AVAILABLE!* 📅\n\n" +
	"The website link is static. Open it and quickly *re-select your service and click NEXT {steps} times* to reach the slot page.\n\n" +
	"*Start Link:* {url}\n\n" +
	"*Status:* Slots are OPEN! Be quick!"

// DefaultImageCaption accompanies the screenshot.
const DefaultImageCaption = "Screenshot confirms slots are open!"

// RenderFoundMessage fills the found-alert template for entryURL.
func (c *Config) RenderFoundMessage(entryURL string) string {
	tmpl := c.Notify.FoundMessage
	if tmpl == "" {
		tmpl = DefaultFoundMessage
	}
	return strings.NewReplacer(
		PlaceholderURL, entryURL,
		PlaceholderSteps, strconv.Itoa(c.Target.Steps),
	).Replace(tmpl)
}

// ImageCaption returns the configured screenshot caption or the default.
func (c *Config) ImageCaption() string {
	if c.Notify.ImageCaption == "" {
		return DefaultImageCaption
	}
	return c.Notify.ImageCaption
}

// AddErrorMarker appends a marker unless an equal one (ignoring case) exists.
func (c *Config) AddErrorMarker(marker string) error {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return fmt.Errorf("error marker cannot be empty")
	}
	for _, existing := range c.ErrorMarkers {
		if strings.EqualFold(existing, marker) {
			return fmt.Errorf("error marker %q already configured", marker)
		}
	}
	c.ErrorMarkers = append(c.ErrorMarkers, marker)
	return nil
}

// RemoveErrorMarker deletes a marker, ignoring case.
func (c *Config) RemoveErrorMarker(marker string) error {
	for i, existing := range c.ErrorMarkers {
		if strings.EqualFold(existing, strings.TrimSpace(marker)) {
			c.ErrorMarkers = append(c.ErrorMarkers[:i], c.ErrorMarkers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("error marker %q not found", marker)
}
