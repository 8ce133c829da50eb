package widgets

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/log"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// patterns memoizes compiled field patterns across remounts. Invalid ones
// are cached as nil, so their warning is logged once per expiry.
var patterns = cache.New(30*time.Minute, time.Hour)

// compilePattern anchors p so it must match the whole input, the way an
// HTML pattern attribute does. Invalid patterns are dropped with a warning.
func compilePattern(p string) *regexp.Regexp {
	if p == "" {
		return nil
	}
	if cached, ok := patterns.Get(p); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile("^(?:" + p + ")$")
	if err != nil {
		log.ErrorErr(log.CatConfig, "invalid pattern ignored", err, "pattern", p)
		re = nil
	}
	patterns.SetDefault(p, re)
	return re
}

// validText applies required, minlength, maxlength and pattern. Length and
// pattern only constrain non-empty input. Length counts grapheme clusters.
func validText(cfg editor.FieldConfig, re *regexp.Regexp, s string) bool {
	if strings.TrimSpace(s) == "" {
		return !cfg.Required
	}
	n := uniseg.GraphemeClusterCount(s)
	if cfg.MinLength > 0 && n < cfg.MinLength {
		return false
	}
	if cfg.MaxLength > 0 && n > cfg.MaxLength {
		return false
	}
	if re != nil && !re.MatchString(s) {
		return false
	}
	return true
}

// validNumber applies required, min, max and step.
func validNumber(cfg editor.FieldConfig, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return !cfg.Required
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	if f < cfg.Min || f > cfg.Max {
		return false
	}
	return onStep(cfg, f)
}

func onStep(cfg editor.FieldConfig, f float64) bool {
	if cfg.Step == "" || strings.EqualFold(cfg.Step, "any") {
		return true
	}
	step, err := strconv.ParseFloat(cfg.Step, 64)
	if err != nil || step <= 0 {
		return true
	}
	q := (f - cfg.Min) / step
	return math.Abs(q-math.Round(q)) < 1e-9
}

// validTime accepts HH:MM or HH:MM:SS.
func validTime(cfg editor.FieldConfig, s string) bool {
	if strings.TrimSpace(s) == "" {
		return !cfg.Required
	}
	return timePattern.MatchString(s)
}
