// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package painter implements the stroke-based painter of spec section
// 4.K: the top-level loop that reproduces a target image by repeatedly
// segmenting the difference between canvas and target into superpixel
// regions, tracing a stroke through each still-active region along the
// target's edge-tangent flow, and applying the traced strokes through a
// brush.Brush, coarse-to-fine across a list of brush sizes.
package painter

// InputParams bundles the per-stage smoothing and palette-extraction
// parameters of spec section 4.K step 1-2, and the §6 "image_params"
// config key.
type InputParams struct {
	// NrColors is the number of palette colors extracted from the
	// original image via the mixer's Aharoni extraction.
	NrColors int `json:"nrColors"`
	// ThinningVolume dilutes every extracted paint with a thinning
	// medium at volume ratio 1:ThinningVolume. Zero disables dilution.
	ThinningVolume float32 `json:"thinningVolume"`
	// SmoothIterations is the number of OABF smoothing passes applied
	// to the CIELab target before difference scoring. Palette
	// extraction reads the unsmoothed image.
	SmoothIterations int `json:"smoothIterations"`
	// SigmaSpatial and SigmaColor are the OABF spatial/color sigmas used
	// by the step-1 smoothing pass (distinct from the orientation
	// bundle's structure-tensor sigmas).
	SigmaSpatial float32 `json:"sigmaSpatial"`
	SigmaColor   float32 `json:"sigmaColor"`
}

// SetDefaults fills zero fields with the spec's named defaults.
func (p *InputParams) SetDefaults() {
	if p.NrColors <= 0 {
		p.NrColors = 6
	}
	if p.SmoothIterations <= 0 {
		p.SmoothIterations = 2
	}
	if p.SigmaSpatial <= 0 {
		p.SigmaSpatial = 3
	}
	if p.SigmaColor <= 0 {
		p.SigmaColor = 10
	}
}

// OrientationParams bundles the structure-tensor smoothing sigmas used
// when recomputing the tangent flow field each iteration (spec section
// 4.K step 3e), named base values that get scaled by the current brush
// radius.
type OrientationParams struct {
	InnerBlurSigma float32 `json:"innerBlurSigma"`
	OuterBlurSigma float32 `json:"outerBlurSigma"`
}

// SetDefaults fills zero fields with the spec's named defaults.
func (p *OrientationParams) SetDefaults() {
	if p.InnerBlurSigma <= 0 {
		p.InnerBlurSigma = 2
	}
	if p.OuterBlurSigma <= 0 {
		p.OuterBlurSigma = 4
	}
}

// StrokeParams bundles the path-tracing and brush-application parameters
// of spec section 4.K step 3f-g, the §6 "stroke_params" config key.
type StrokeParams struct {
	MinLength           int     `json:"minLength"`
	MaxLength           int     `json:"maxLength"`
	Step                float32 `json:"step"`
	Curvature           float32 `json:"curvature"` // alpha, curvature blend in [0, 1]
	ThicknessScale      float32 `json:"thicknessScale"`
	BrushMin            float32 `json:"brushMin"`
	BrushMax            float32 `json:"brushMax"`
	BlockVisitedRegions bool    `json:"blockVisitedRegions"`
	ClampBrushRadius    bool    `json:"clampBrushRadius"`
}

// SetDefaults fills zero fields with the spec's named defaults.
func (p *StrokeParams) SetDefaults() {
	if p.MinLength <= 0 {
		p.MinLength = 4
	}
	if p.MaxLength <= 0 {
		p.MaxLength = 40
	}
	if p.Step <= 0 {
		p.Step = 2
	}
	if p.ThicknessScale <= 0 {
		p.ThicknessScale = 1
	}
	if p.BrushMax <= 0 {
		p.BrushMax = 1e9
	}
}

// ConvergenceParams bundles the brush-size schedule and the local/global
// RMS convergence thresholds of spec section 4.K steps 3d and 4, the §6
// "convergence_params" config key.
type ConvergenceParams struct {
	BrushSizes    []float32 `json:"brushSizes"` // coarse to fine, in pixels (diameter)
	MaxIterations int       `json:"maxIterations"`
	RMSLocal      float32   `json:"rmsLocal"`
	RMSGlobal     float32   `json:"rmsGlobal"`
}

// SetDefaults fills zero fields with the spec's named defaults.
func (p *ConvergenceParams) SetDefaults() {
	if len(p.BrushSizes) == 0 {
		p.BrushSizes = []float32{32, 16, 8, 4}
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = 20
	}
	if p.RMSLocal <= 0 {
		p.RMSLocal = 0.05
	}
	if p.RMSGlobal <= 0 {
		p.RMSGlobal = 0.02
	}
}

// Config is the top-level painter configuration, matching the §6 JSON
// config's top-level keys.
type Config struct {
	DryingTimeMillis float32 `json:"dryingTimeMillis"`
	CoatCanvas       bool    `json:"coatCanvas"`
	EnableSmudge     bool    `json:"enableSmudge"`

	// FootprintPath, if set, loads a grayscale footprint image (spec
	// section 6) instead of the synthetic uniform disk. Used only when
	// EnableSmudge is false.
	FootprintPath string `json:"footprintPath,omitempty"`
	// StrokeSamplePath, if set, loads a brush-stroke sample directory
	// (spec section 6) for the texture brush. Required when EnableSmudge
	// is true.
	StrokeSamplePath string `json:"strokeSamplePath,omitempty"`

	Input       InputParams       `json:"image_params"`
	Orientation OrientationParams `json:"orientation_params"`
	Stroke      StrokeParams      `json:"stroke_params"`
	Convergence ConvergenceParams `json:"convergence_params"`
}

// SetDefaults applies every bundle's SetDefaults.
func (c *Config) SetDefaults() {
	c.Input.SetDefaults()
	c.Orientation.SetDefaults()
	c.Stroke.SetDefaults()
	c.Convergence.SetDefaults()
	if c.DryingTimeMillis <= 0 {
		c.DryingTimeMillis = 15000
	}
}
