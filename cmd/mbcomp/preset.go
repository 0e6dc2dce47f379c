package main

import "github.com/cwbudde/algo-mbcomp/preset"

// PresetDumpCmd writes a preset as TOML to stdout.
type PresetDumpCmd struct {
	From string `type:"existingfile" help:"Normalize this preset instead of dumping the defaults."`
}

func (c *PresetDumpCmd) Run(g *Globals) error {
	store, err := loadStore(c.From)
	if err != nil {
		return err
	}

	return preset.Capture(store).Encode(g.stdout)
}
