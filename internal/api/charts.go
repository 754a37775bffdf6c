package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/diffcalc/internal/angles"
	"github.com/banshee-data/diffcalc/internal/httputil"
	"github.com/banshee-data/diffcalc/internal/sector"
)

// sweepRequest is the orientation and sweep range read from query
// parameters: alpha..phi give the base orientation, axis names the swept
// axis (default omega), start/stop/step the range in degrees.
type sweepRequest struct {
	orientation       angles.Orientation
	axis              angles.Name
	start, stop, step float64
}

func parseSweep(r *http.Request) (sweepRequest, error) {
	q := r.URL.Query()
	req := sweepRequest{axis: angles.Omega, start: -180, stop: 180, step: 5}

	var err error
	for _, n := range angles.CanonicalNames {
		v := q.Get(string(n))
		if v == "" {
			continue
		}
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return req, fmt.Errorf("%w: invalid %s %q", angles.ErrValidation, n, v)
		}
		if req.orientation, err = req.orientation.With(n, f); err != nil {
			return req, err
		}
	}
	if v := q.Get("axis"); v != "" {
		if req.axis, err = angles.ParseName(v); err != nil {
			return req, err
		}
	}
	for key, dst := range map[string]*float64{"start": &req.start, "stop": &req.stop, "step": &req.step} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		if *dst, err = strconv.ParseFloat(v, 64); err != nil {
			return req, fmt.Errorf("%w: invalid %s %q", angles.ErrValidation, key, v)
		}
	}
	return req, nil
}

// showSectorChart renders which sectors keep the orientation inside every
// limit as the chosen axis is swept.
func (s *Server) showSectorChart(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	req, err := parseSweep(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	points, err := s.resolver.SectorCoverage(req.orientation, req.axis, req.start, req.stop, req.step)
	geometryName := s.resolver.Geometry().Name()
	current := s.resolver.Selector().Sector()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := make([]opts.ScatterData, 0, len(points)*sector.NumSectors)
	for _, pt := range points {
		for _, n := range pt.Passing {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.Value, n}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sector coverage", Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sectors within limits", Subtitle: fmt.Sprintf("geometry=%s current=%d base=%s", geometryName, current, req.orientation)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: req.start, Max: req.stop, Name: string(req.axis) + " (deg)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: sector.NumSectors - 1, Name: "sector", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("within limits", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
