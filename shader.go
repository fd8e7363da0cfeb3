package shadergraph

import (
	"fmt"
	"strings"
)

// Markers recognized in a shader template. Each must occupy a line of its own.
const (
	NodesMarker   = "//shadergraph:nodes"
	FeatureMarker = "//shadergraph:feature"
	EndMarker     = "//shadergraph:end"
)

// Optional feature blocks of DefaultShaderTemplate.
const (
	FeatureLighting = "lighting"
	FeatureEmission = "emission"
)

// ShaderTemplate is a Kage program with a single NodesMarker line where
// compiled node code is spliced in. Lines between a FeatureMarker line and
// the following EndMarker line are kept only when that feature is enabled.
type ShaderTemplate struct {
	Source string
}

// DefaultShaderTemplate declares the material variables the material output
// node assigns (albedo, alpha, emission, normal), the ambient uniforms
// (Time, Resolution, Camera), the per-pixel ambient values uv and base
// (straight-alpha source color) and the bool conversion helpers used by
// coercions.
var DefaultShaderTemplate = ShaderTemplate{Source: `//kage:unit pixels
package main

var Time float
var Resolution vec2
var Camera vec2

func sgBoolToFloat(b bool) float {
	if b {
		return 1
	}
	return 0
}

func sgBoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	var albedo vec3 = vec3(1)
	var alpha float = 1
	var emission vec3 = vec3(0)
	var normal vec3 = vec3(0, 0, 1)
	uv := (dst.xy - imageDstOrigin()) / imageDstSize()
	base := imageSrc0At(src)
	if base.a > 0 {
		base.rgb /= base.a
	}
	_ = uv
	_ = base
	//shadergraph:nodes
	_ = normal
	_ = emission
	shade := 1.0
	//shadergraph:feature lighting
	light := normalize(vec3(0.5, -0.5, 1))
	shade = max(dot(normalize(normal), light), 0)*0.8 + 0.2
	//shadergraph:end
	rgb := albedo * shade
	//shadergraph:feature emission
	rgb += emission
	//shadergraph:end
	alpha = clamp(alpha, 0, 1)
	return vec4(clamp(rgb, 0, 1)*alpha, alpha) * color.a
}
`}

// Render splices nodeCode into the template at NodesMarker, indented like
// the marker, and resolves feature blocks against features.
func (t ShaderTemplate) Render(nodeCode string, features map[string]bool) (string, error) {
	var b strings.Builder
	spliced := false
	skipping := ""
	inBlock := false
	lines := strings.Split(t.Source, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, FeatureMarker):
			if inBlock {
				return "", fmt.Errorf("shadergraph: nested feature block at line %d", i+1)
			}
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, FeatureMarker))
			inBlock = true
			if !features[name] {
				skipping = name
			}
			continue
		case trimmed == EndMarker:
			if !inBlock {
				return "", fmt.Errorf("shadergraph: unmatched %s at line %d", EndMarker, i+1)
			}
			inBlock, skipping = false, ""
			continue
		}
		if skipping != "" {
			continue
		}
		if trimmed == NodesMarker {
			if spliced {
				return "", fmt.Errorf("shadergraph: duplicate %s at line %d", NodesMarker, i+1)
			}
			spliced = true
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			for _, codeLine := range strings.Split(strings.TrimRight(nodeCode, "\n"), "\n") {
				if codeLine == "" {
					continue
				}
				b.WriteString(indent)
				b.WriteString(codeLine)
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	if inBlock {
		return "", fmt.Errorf("shadergraph: unterminated feature block")
	}
	if !spliced {
		return "", fmt.Errorf("shadergraph: shader template has no %s line", NodesMarker)
	}
	return b.String(), nil
}
