package stores

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/settings"
)

// LoadPreset reads the preset file if configured, defaults are always applied
func LoadPreset() (doc pulse.Preset, err error) {
	if len(settings.Current.PresetFile) > 0 {
		doc, err = LoadPresetFile(settings.Current.PresetFile)
	}
	doc = doc.WithDefaults()
	return
}

func LoadPresetFile(name string) (doc pulse.Preset, err error) {
	var yf *os.File
	yf, err = os.Open(name)
	if err != nil {
		logger().Infow("load preset fail", "file", name, "err", err)
		return
	}
	defer yf.Close()
	err = yaml.NewDecoder(yf).Decode(&doc)
	if err != nil {
		logger().Infow("decode preset fail", "err", err)
		return
	}
	return
}
