package config

var Presets = map[string]*Config{
	"quick": {
		Systems: 16, Shards: 2, Dt: 1.0 / 60, Duration: 5.0, SampleEvery: 1,
	},
	"standard": {
		Systems: 64, Shards: 4, Dt: 1.0 / 60, Duration: 10.0, SampleEvery: 1,
	},
	"dense": {
		Systems: 256, Shards: 8, Dt: 1.0 / 60, Duration: 10.0, SampleEvery: 2,
	},
	"marathon": {
		Systems: 64, Shards: 4, Dt: 1.0 / 60, Duration: 120.0, SampleEvery: 10,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
