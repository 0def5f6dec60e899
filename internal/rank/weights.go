package rank

// Weights holds the fixed linear-combination coefficients applied to each
// feature factor in contextual_commands to produce rank. The vector is a
// build-time constant, chosen once and never tuned at runtime.
type Weights struct {
	Length              float64
	Age                 float64
	Exit                float64
	RecentFailure       float64
	Dir                 float64
	SelectedDir         float64
	SelectedOccurrences float64
	Occurrences         float64
}

// presets are the named weight vectors selectable via config.Config.Weights.
var presets = map[string]Weights{
	// default favors how often and how recently a command has run, with a
	// smaller boost for directory locality and an explicit selection signal
	// (a command the user has actually picked from the menu before), and a
	// penalty for a command whose last run just failed.
	"default": {
		Occurrences:         0.25,
		Age:                 -0.20,
		Exit:                0.15,
		Dir:                 0.15,
		SelectedOccurrences: 0.10,
		SelectedDir:         0.10,
		Length:              0.03,
		RecentFailure:       -0.02,
	},
	// recency weighs almost entirely on how recently a command last ran,
	// for users who want the list to behave like a straight MRU.
	"recency": {
		Age:                 -0.55,
		Occurrences:         0.15,
		Exit:                0.10,
		Dir:                 0.10,
		SelectedOccurrences: 0.05,
		SelectedDir:         0.05,
	},
	// frequency weighs almost entirely on how often a command has run.
	"frequency": {
		Occurrences:         0.55,
		Age:                 -0.15,
		Exit:                0.10,
		Dir:                 0.10,
		SelectedOccurrences: 0.05,
		SelectedDir:         0.05,
	},
}

// Resolve looks up a named weight preset, defaulting to "default" for an
// empty name. An unknown name also falls back to "default" rather than
// failing the rebuild — a typo in config.yaml should degrade gracefully,
// not break search.
func Resolve(name string) Weights {
	if name == "" {
		name = "default"
	}
	if w, ok := presets[name]; ok {
		return w
	}
	return presets["default"]
}

// Score applies the weight vector to one row's feature factors.
func (w Weights) Score(f Factors) float64 {
	return f.Length*w.Length +
		f.Age*w.Age +
		f.Exit*w.Exit +
		f.RecentFailure*w.RecentFailure +
		f.Dir*w.Dir +
		f.SelectedDir*w.SelectedDir +
		f.SelectedOccurrences*w.SelectedOccurrences +
		f.Occurrences*w.Occurrences
}
