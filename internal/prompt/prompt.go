package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Params is one set of generation parameters. Zero values mean unset.
type Params struct {
	Prompt         string    `json:"prompt"`
	Steps          int       `json:"steps,omitempty"`
	Width          int       `json:"width,omitempty"`
	Height         int       `json:"height,omitempty"`
	CfgScale       float64   `json:"cfg_scale,omitempty"`
	SamplerName    string    `json:"sampler_name,omitempty"`
	InitImg        string    `json:"init_img,omitempty"`
	Strength       float64   `json:"strength,omitempty"`
	GfpganStrength float64   `json:"gfpgan_strength,omitempty"`
	Upscale        []float64 `json:"upscale,omitempty"`
	Seed           *int64    `json:"seed,omitempty"`
}

// Defaults are the session values used when Params leaves a field unset.
type Defaults struct {
	Steps         int
	Width         int
	Height        int
	CfgScale      float64
	SamplerName   string
	FullPrecision bool
}

// Resolve fills steps, size, cfg scale and sampler from d where p leaves them unset.
func Resolve(p Params, d Defaults) Params {
	p.Steps = lo.Ternary(p.Steps != 0, p.Steps, d.Steps)
	p.Width = lo.Ternary(p.Width != 0, p.Width, d.Width)
	p.Height = lo.Ternary(p.Height != 0, p.Height, d.Height)
	p.CfgScale = lo.Ternary(p.CfgScale != 0, p.CfgScale, d.CfgScale)
	p.SamplerName = lo.Ternary(p.SamplerName != "", p.SamplerName, d.SamplerName)
	return p
}

// Normalize renders p as a prompt string with command line switches, e.g.
//
//	"a kitten" -s50 -W512 -H512 -C7.5 -Ak_lms
func Normalize(p Params, d Defaults) string {
	p = Resolve(p, d)

	switches := []string{
		`"` + p.Prompt + `"`,
		fmt.Sprintf("-s%d", p.Steps),
		fmt.Sprintf("-W%d", p.Width),
		fmt.Sprintf("-H%d", p.Height),
		"-C" + FormatFloat(p.CfgScale),
		"-A" + p.SamplerName,
	}
	if p.InitImg != "" {
		switches = append(switches, "-I"+p.InitImg)
		if p.Strength != 0 {
			switches = append(switches, "-f"+FormatFloat(p.Strength))
		}
	}
	if p.GfpganStrength != 0 {
		switches = append(switches, "-G"+FormatFloat(p.GfpganStrength))
	}
	if len(p.Upscale) > 0 {
		switches = append(switches, "-U "+strings.Join(lo.Map(p.Upscale, func(u float64, _ int) string {
			return FormatFloat(u)
		}), " "))
	}
	if d.FullPrecision {
		switches = append(switches, "-F")
	}
	return strings.Join(switches, " ")
}

// FormatFloat prints floats the way Python's repr does: the shortest decimal
// that round trips, with a trailing ".0" on integral values so 7 prints as
// 7.0, and exponent notation once the decimal exponent is below -4 or at
// least 16, so 1e21 prints as 1e+21.
func FormatFloat(f float64) string {
	e := strconv.FormatFloat(f, 'e', -1, 64)
	if _, exp, ok := strings.Cut(e, "e"); ok && f != 0 {
		if n, err := strconv.Atoi(exp); err == nil && (n < -4 || n >= 16) {
			return e
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
