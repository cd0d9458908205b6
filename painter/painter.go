package painter

import (
	"image"
	"image/png"
	"log/slog"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/stat"

	perr "github.com/painty/painty/base/errors"
	"github.com/painty/painty/brush"
	"github.com/painty/painty/canvas"
	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/imageops"
	"github.com/painty/painty/ioimg"
	"github.com/painty/painty/kubelkamunk"
	"github.com/painty/painty/mixer"
	"github.com/painty/painty/pathtrace"
	"github.com/painty/painty/vecf"
)

// thinningMedium approximates a clear painting medium: near-zero
// absorption and scattering, so diluting a pigment with it pulls the
// mixture's (K, S) toward transparency without changing its hue.
var thinningMedium = mixer.Paint{K: vecf.Vector3{}, S: vecf.Vec3Scalar(1e-3)}

// stroke records one traced path awaiting application, per spec section
// 4.K step 3f's "Record (path, radius, paint-index)".
type stroke struct {
	path       []vecf.Vector2
	radius     float32
	paintIndex int
}

// Run implements the full stroke-based painter pipeline of spec section
// 4.K: coarse-to-fine over cfg.Convergence.BrushSizes, each stage mixing
// a palette from target, then iterating segment/trace/apply until local
// and global RMS convergence or cfg.Convergence.MaxIterations is spent.
// mask may be nil (unmasked, fully paintable).
func Run(target image.Image, mask image.Image, basePigments *mixer.Palette, cfg Config) (*canvas.Canvas, error) {
	cfg.SetDefaults()
	conv := colorspace.DefaultConverter

	bounds := target.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return nil, perr.Invalid("painter: empty target image")
	}

	targetLinear := ioimg.ToLinearMatrix(target, rows, cols)
	maskMatrix := vecf.NewFloat32Matrix(rows, cols)
	maskMatrix.Fill(1)
	if mask != nil {
		maskMatrix = ioimg.ToMaskMatrix(mask, rows, cols)
	}

	c := canvas.NewWhite(rows, cols)
	c.DryingDuration = cfg.DryingTimeMillis / 1000
	if cfg.CoatCanvas {
		c.SetBackground(target, 0)
	}
	now := float32(0)

	var sample *brush.BrushStrokeSample
	var rawFootprint image.Image
	if cfg.EnableSmudge {
		var err error
		sample, err = brush.LoadBrushStrokeSample(cfg.StrokeSamplePath)
		if err != nil {
			slog.Error("painter: stroke sample load failed, texture brush disabled", "err", err)
		}
	} else if cfg.FootprintPath != "" {
		if f, err := loadRawFootprintImage(cfg.FootprintPath); err != nil {
			slog.Error("painter: footprint load failed, using synthetic disk", "err", err)
		} else {
			rawFootprint = f
		}
	}

	for stageIdx, diameter := range cfg.Convergence.BrushSizes {
		stageBrush := buildBrush(cfg, diameter, sample, rawFootprint)
		now = runStage(c, stageBrush, targetLinear, maskMatrix, basePigments, cfg, diameter, now, conv)
		slog.Info("painter: brush stage complete", "stage", stageIdx, "diameter", diameter)
	}
	return c, nil
}

// buildBrush constructs the brush for one stage: a texture brush reusing
// the loaded stroke sample (its radius-dependent state is reallocated by
// SetRadius), or a fresh footprint brush whose footprint image is resized
// to this stage's diameter, per spec section 6.
func buildBrush(cfg Config, diameter float32, sample *brush.BrushStrokeSample, rawFootprint image.Image) brush.Brush {
	if cfg.EnableSmudge && sample != nil {
		return brush.NewTextureBrush(sample)
	}
	var fp *brush.Footprint
	if rawFootprint != nil {
		fp = brush.NewFootprintFromImage(rawFootprint, int(diameter))
	} else {
		fp = brush.NewUniformFootprint(int(diameter))
	}
	return brush.NewFootprintBrush(fp, true)
}

func loadRawFootprintImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// runStage implements spec section 4.K's per-brush-size pipeline (steps
// 1-3), returning the updated drying clock.
func runStage(c *canvas.Canvas, strokeBrush brush.Brush, targetLinear, mask *vecf.Matrix[float32], basePigments *mixer.Palette, cfg Config, diameter float32, now float32, conv *colorspace.Converter) float32 {
	rows, cols := targetLinear.Rows, targetLinear.Cols

	targetLab := toLab(targetLinear, conv)
	smoothedLab := targetLab.Clone()
	for i := 0; i < cfg.Input.SmoothIterations; i++ {
		tensor := imageops.ComputeStructureTensorField(smoothedLab, imageops.StructureTensorParams{})
		tangent := imageops.EdgeTangentFlow(tensor)
		smoothedLab = imageops.OABF(smoothedLab, tangent, imageops.OABFParams{
			SigmaD: cfg.Input.SigmaSpatial,
			SigmaR: cfg.Input.SigmaColor,
			Passes: 2,
		})
	}

	palette, err := mixer.MixPaletteFromImage(targetLinear, basePigments, cfg.Input.NrColors)
	if err != nil {
		slog.Error("painter: palette mix failed, using base pigments", "err", err)
		palette = basePigments
	}
	if cfg.Input.ThinningVolume > 0 {
		palette = diluteWithMedium(palette, cfg.Input.ThinningVolume)
	}

	radiusScale := clampRadiusScale(diameter, cfg.Stroke)

	for iter := 0; iter < cfg.Convergence.MaxIterations; iter++ {
		canvasLinear := c.Layer.ComposeOnto(c.R0)
		canvasLab := toLab(canvasLinear, conv)

		diff := vecf.NewFloat32Matrix(rows, cols)
		diff.ForEach(func(r, col int, _ float32) {
			d := colorspace.ColorDifference(labAt(smoothedLab, r, col), labAt(canvasLab, r, col))
			diff.SetUnchecked(r, col, d)
		})

		regions, labels := imageops.Segment(smoothedLab, imageops.SuperpixelParams{
			CellWidth:   diameter,
			Seed:        imageops.SeedJitteredGrid,
			ColorWeight: 1,
			ColorDiff:   diff,
			MaxIters:    20,
			RandSeed:    int64(iter + 1),
		})
		rand.New(rand.NewSource(int64(iter + 1))).Shuffle(len(regions), func(i, j int) {
			regions[i], regions[j] = regions[j], regions[i]
		})

		activeRMS := make([]float64, 0, len(regions))
		for _, r := range regions {
			rms := r.RMSDifference(diff)
			r.Active = rms >= cfg.Convergence.RMSLocal && regionMaskMean(r, mask) > 0.5
			if r.Active {
				activeRMS = append(activeRMS, float64(rms))
			}
		}
		if len(activeRMS) == 0 || stat.Mean(activeRMS, nil) < float64(cfg.Convergence.RMSGlobal) {
			break
		}

		tensorParams := imageops.StructureTensorParams{
			InnerBlurSigma: cfg.Orientation.InnerBlurSigma * radiusScale,
			OuterBlurSigma: cfg.Orientation.OuterBlurSigma * radiusScale,
		}
		tensorField := imageops.ComputeStructureTensorField(targetLab, tensorParams)
		tracer := pathtrace.NewTracer(tensorField)

		strokes := traceActiveRegions(regions, labels, diff, mask, smoothedLab, canvasLab, palette, tracer, cfg, conv)
		now = applyStrokes(c, strokeBrush, strokes, palette, cfg.Stroke.ThicknessScale, now)
	}
	return now
}

// traceActiveRegions implements spec section 4.K step 3f: for every
// still-active region, pick a radius, pick the best palette paint, trace
// a path, and optionally block overlapped regions.
func traceActiveRegions(regions []*imageops.Region, labels *vecf.Matrix[int], diff, mask *vecf.Matrix[float32], targetLab, canvasLab *vecf.Matrix[vecf.Vector3], palette *mixer.Palette, tracer *pathtrace.Tracer, cfg Config, conv *colorspace.Converter) []stroke {
	rows, cols := diff.Rows, diff.Cols
	bounds := pathtrace.Rect{Min: vecf.Vec2(0, 0), Max: vecf.Vec2(float32(cols-1), float32(rows-1))}

	var strokes []stroke
	for _, region := range regions {
		if !region.Active {
			continue
		}
		center, rStar := region.InscribedCircle()
		radius, ok := clampOrSkipRadius(rStar, cfg.Stroke)
		if !ok {
			continue
		}

		targetMeanLab := vecToLab(region.MeanColor(targetLab))
		canvasMeanLab := vecToLab(region.MeanColor(canvasLab))
		rt := conv.LabToLinear(targetMeanLab)
		r0 := conv.LabToLinear(canvasMeanLab)
		baseDist := colorspace.CIEDE2000(targetMeanLab, canvasMeanLab)

		paintIdx, ok := bestPaint(palette, rt, r0, baseDist, conv)
		if !ok {
			continue
		}
		chosen := palette.Paints[paintIdx]

		predicate := func(p vecf.Vector2) pathtrace.Verdict {
			row, col := int(p.Y), int(p.X)
			if row < 0 || row >= rows || col < 0 || col >= cols {
				return pathtrace.StopNow
			}
			if mask.AtUnchecked(row, col) < 0.5 {
				return pathtrace.StopNow
			}
			expected := kubelkamunk.Reflectance(chosen.K, chosen.S, r0, 1)
			expectedLab := conv.LinearToLab(expected)
			here := labAt(targetLab, row, col)
			hereCanvas := labAt(canvasLab, row, col)
			currentDiff := colorspace.CIEDE2000(here, hereCanvas)
			expectedDiff := colorspace.CIEDE2000(here, expectedLab)
			if expectedDiff > currentDiff {
				return pathtrace.StopNow
			}
			return pathtrace.Continue
		}

		path := tracer.Trace(center, predicate, pathtrace.TraceOptions{
			MinPoints: cfg.Stroke.MinLength,
			MaxPoints: cfg.Stroke.MaxLength,
			Step:      cfg.Stroke.Step,
			Alpha:     cfg.Stroke.Curvature,
			Bounds:    bounds,
		})
		if len(path) < 1 {
			continue
		}

		if cfg.Stroke.BlockVisitedRegions {
			blockOverlapped(path, labels, regions)
		}
		strokes = append(strokes, stroke{path: path, radius: radius, paintIndex: paintIdx})
	}
	return strokes
}

// bestPaint searches the palette for the paint whose composition onto r0
// at an assumed unit thickness yields the smallest CIEDE2000 distance to
// rt, per spec section 4.K step 3f. Returns ok=false if nothing beats the
// canvas's own current color.
func bestPaint(palette *mixer.Palette, rt, r0 vecf.Vector3, baseDist float32, conv *colorspace.Converter) (int, bool) {
	best := -1
	bestDist := baseDist
	targetLab := conv.LinearToLab(rt)
	for i, paint := range palette.Paints {
		composed := kubelkamunk.Reflectance(paint.K, paint.S, r0, 1)
		d := colorspace.CIEDE2000(targetLab, conv.LinearToLab(composed))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, best >= 0
}

func clampOrSkipRadius(rStar float32, sp StrokeParams) (float32, bool) {
	if sp.ClampBrushRadius {
		return clampF32(rStar, sp.BrushMin, sp.BrushMax), true
	}
	if rStar < sp.BrushMin {
		return 0, false
	}
	if rStar > sp.BrushMax {
		return sp.BrushMax, true
	}
	return rStar, true
}

func clampRadiusScale(diameter float32, sp StrokeParams) float32 {
	r := diameter / 2
	if sp.ClampBrushRadius {
		return clampF32(r, sp.BrushMin, sp.BrushMax)
	}
	return r
}

func clampF32(v, lo, hi float32) float32 {
	if lo > 0 && v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

func blockOverlapped(path []vecf.Vector2, labels *vecf.Matrix[int], regions []*imageops.Region) {
	byLabel := make(map[int]*imageops.Region, len(regions))
	for _, r := range regions {
		byLabel[r.Label] = r
	}
	rows, cols := labels.Rows, labels.Cols
	for _, p := range path {
		row, col := int(p.Y), int(p.X)
		if row < 0 || row >= rows || col < 0 || col >= cols {
			continue
		}
		if r, ok := byLabel[labels.AtUnchecked(row, col)]; ok {
			r.Active = false
		}
	}
}

func regionMaskMean(r *imageops.Region, mask *vecf.Matrix[float32]) float32 {
	if len(r.Pixels) == 0 {
		return 0
	}
	var sum float32
	for _, p := range r.Pixels {
		sum += mask.AtUnchecked(int(p.Y), int(p.X))
	}
	return sum / float32(len(r.Pixels))
}

// applyStrokes implements spec section 4.K step 3g: group recorded
// strokes by paint index, dip the brush once per group, and apply every
// stroke in the group, advancing the drying clock by one tick per
// application so successive strokes within a stage observe drying.
func applyStrokes(c *canvas.Canvas, b brush.Brush, strokes []stroke, palette *mixer.Palette, thicknessScale float32, now float32) float32 {
	byPaint := map[int][]stroke{}
	var order []int
	for _, s := range strokes {
		if _, seen := byPaint[s.paintIndex]; !seen {
			order = append(order, s.paintIndex)
		}
		byPaint[s.paintIndex] = append(byPaint[s.paintIndex], s)
	}

	for _, idx := range order {
		paint := palette.Paints[idx]
		b.Dip(paint.K, paint.S)
		b.SetThicknessScale(thicknessScale)
		for _, s := range byPaint[idx] {
			b.SetRadius(s.radius)
			b.PaintStroke(s.path, c, now)
			now += 1
		}
	}
	return now
}

// diluteWithMedium mixes every paint in palette with thinningMedium at
// volume ratio 1:ratio, per spec section 4.K step 2.
func diluteWithMedium(palette *mixer.Palette, ratio float32) *mixer.Palette {
	medium := mixer.NewPalette([]mixer.Paint{thinningMedium})
	out := make([]mixer.Paint, len(palette.Paints))
	wPaint := 1 / (1 + ratio)
	wMedium := ratio / (1 + ratio)
	for i, p := range palette.Paints {
		pair := mixer.NewPalette([]mixer.Paint{p, medium.Paints[0]})
		mixed, err := mixer.Mix(pair, []float32{wPaint, wMedium}, false)
		if err != nil {
			out[i] = p
			continue
		}
		out[i] = mixed
	}
	return mixer.NewPalette(out)
}

func toLab(linear *vecf.Matrix[vecf.Vector3], conv *colorspace.Converter) *vecf.Matrix[vecf.Vector3] {
	out := vecf.NewVector3Matrix(linear.Rows, linear.Cols)
	linear.ForEach(func(r, c int, v vecf.Vector3) {
		l := conv.LinearToLab(v)
		out.SetUnchecked(r, c, vecf.Vec3(l.L, l.A, l.B))
	})
	return out
}

func labAt(lab *vecf.Matrix[vecf.Vector3], row, col int) colorspace.Lab {
	return vecToLab(lab.AtUnchecked(row, col))
}

func vecToLab(v vecf.Vector3) colorspace.Lab { return colorspace.Lab{L: v.X, A: v.Y, B: v.Z} }
