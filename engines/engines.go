package engines

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-voices/engines/osc"
	"github.com/cwbudde/algo-voices/engines/waveguide"
	"github.com/cwbudde/algo-voices/voices"
)

// Names lists the engines Factory knows.
var Names = []string{"waveguide", "osc", "silence"}

// Factory returns the payload factory for a named engine.
func Factory(name string, sampleRate int) (voices.PayloadFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "waveguide", "":
		return waveguide.Factory(sampleRate), nil
	case "osc":
		return osc.Factory(sampleRate), nil
	case "silence":
		return func(int) voices.Payload { return voices.Silence{} }, nil
	}
	return nil, fmt.Errorf("unknown engine %q (expected one of %s)", name, strings.Join(Names, ", "))
}
