// Command sector-map plots which of the eight sectors keep an orientation
// inside the instrument limits while one axis is swept, and saves the plot
// as a PNG.
package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/config"
	"github.com/banshee-data/diffcalc/internal/resolver"
	"github.com/banshee-data/diffcalc/internal/sector"
)

var (
	configPath = flag.String("config", config.DefaultConfigPath, "Instrument config JSON")
	outPath    = flag.String("out", "sector-map.png", "Output PNG path")
	axisName   = flag.String("axis", "omega", "Axis to sweep")
	start      = flag.Float64("start", -180, "Sweep start (deg)")
	stop       = flag.Float64("stop", 180, "Sweep stop (deg)")
	step       = flag.Float64("step", 2, "Sweep step (deg)")
	alpha      = flag.Float64("alpha", 0, "Base alpha (deg)")
	delta      = flag.Float64("delta", 60, "Base delta (deg)")
	gamma      = flag.Float64("gamma", 0, "Base gamma (deg)")
	omega      = flag.Float64("omega", 30, "Base omega (deg)")
	chi        = flag.Float64("chi", 0, "Base chi (deg)")
	phi        = flag.Float64("phi", 0, "Base phi (deg)")
)

// sweep describes one coverage plot.
type sweep struct {
	base              angles.Orientation
	axis              angles.Name
	start, stop, step float64
}

// renderCoverage computes the sector coverage of s and saves it to path.
func renderCoverage(r *resolver.Resolver, s sweep, title, path string) error {
	points, err := r.SectorCoverage(s.base, s.axis, s.start, s.stop, s.step)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("%s (deg)", s.axis)
	p.Y.Label.Text = "Sector"
	p.X.Min, p.X.Max = s.start, s.stop
	p.Y.Min, p.Y.Max = -0.5, sector.NumSectors-0.5

	for n := 0; n < sector.NumSectors; n++ {
		var xys plotter.XYs
		for _, pt := range points {
			for _, passing := range pt.Passing {
				if passing == n {
					xys = append(xys, plotter.XY{X: pt.Value, Y: float64(n)})
				}
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to create scatter for sector %d: %w", n, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(n)
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		ts, _ := sector.TransformsOf(n)
		p.Legend.Add(fmt.Sprintf("%d %v", n, ts), sc)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

func main() {
	flag.Parse()

	cfg, err := config.LoadInstrumentConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	r, err := resolver.FromConfig(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to build resolver: %v", err)
	}
	axis, err := angles.ParseName(*axisName)
	if err != nil {
		log.Fatalf("Invalid axis: %v", err)
	}

	s := sweep{
		base:  angles.Orientation{Alpha: *alpha, Delta: *delta, Gamma: *gamma, Omega: *omega, Chi: *chi, Phi: *phi},
		axis:  axis,
		start: *start,
		stop:  *stop,
		step:  *step,
	}
	title := fmt.Sprintf("%s: sectors within limits", cfg.GetName())
	if err := renderCoverage(r, s, title, *outPath); err != nil {
		log.Fatalf("Failed to render sector map: %v", err)
	}
	log.Printf("wrote %s", *outPath)
}
