package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// speedDefaultToken is what a bare --animation-speed parses: the configured
// animation.speed.
const speedDefaultToken = "default"

// speedFlag is an optional-value float flag. It remembers whether it was
// given and whether the value came from the command line or should be taken
// from config.
type speedFlag struct {
	set        bool
	useDefault bool
	value      float64
}

var _ pflag.Value = (*speedFlag)(nil)

func (s *speedFlag) String() string {
	if !s.set || s.useDefault {
		return ""
	}
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}

func (s *speedFlag) Set(raw string) error {
	s.set = true
	if raw == speedDefaultToken {
		s.useDefault = true
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid animation speed %q", raw)
	}
	if v <= 0 {
		return fmt.Errorf("animation speed must be positive, got %s", raw)
	}
	s.useDefault = false
	s.value = v
	return nil
}

func (s *speedFlag) Type() string {
	return "speed"
}

// resolve returns the speed to animate at, or 0 when animation was not
// requested.
func (s *speedFlag) resolve(configured float64) float64 {
	switch {
	case !s.set:
		return 0
	case s.useDefault:
		return configured
	}
	return s.value
}

func (s *speedFlag) reset() {
	*s = speedFlag{}
}
