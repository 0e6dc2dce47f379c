package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-mbcomp/mbcomp"
	"github.com/cwbudde/algo-mbcomp/params"
	"github.com/cwbudde/algo-mbcomp/preset"
)

// ParamsCmd prints the parameter table.
type ParamsCmd struct {
	Preset string `type:"existingfile" help:"Show values after applying this preset."`
}

func (c *ParamsCmd) Run(g *Globals) error {
	store, err := loadStore(c.Preset)
	if err != nil {
		return err
	}

	fmt.Fprintln(g.stdout, titleStyle.Render(fmt.Sprintf("%d parameters", store.Len())))

	tw := tabwriter.NewWriter(g.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tRANGE\tDEFAULT\tVALUE")
	for _, p := range store.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name(), p.Kind(), describeRange(p), formatDefault(p), p.Format())
	}

	return tw.Flush()
}

func loadStore(presetPath string) (*params.Store, error) {
	store, err := mbcomp.NewStore()
	if err != nil {
		return nil, err
	}

	if presetPath == "" {
		return store, nil
	}

	p, err := preset.Load(presetPath)
	if err != nil {
		return nil, err
	}

	if err := p.Apply(store); err != nil {
		return nil, err
	}

	return store, nil
}

func describeRange(p *params.Parameter) string {
	spec := p.Spec()

	switch spec.Kind {
	case params.KindBool:
		return "Off/On"
	case params.KindChoice:
		labels := make([]string, len(spec.Choices))
		for i, c := range spec.Choices {
			labels[i] = c.Label
		}
		return strings.Join(labels, ",")
	default:
		r := spec.Range
		s := fmt.Sprintf("%g..%g", r.Min, r.Max)
		if spec.Unit != "" {
			s += " " + spec.Unit
		}
		if r.Step > 0 {
			s += fmt.Sprintf(" step %g", r.Step)
		}
		return s
	}
}

func formatDefault(p *params.Parameter) string {
	spec := p.Spec()
	def := p.Default()

	switch spec.Kind {
	case params.KindBool:
		if def != 0 {
			return "On"
		}
		return "Off"
	case params.KindChoice:
		return spec.Choices[int(def)].Label
	default:
		return fmt.Sprintf("%g", def)
	}
}
