package models

// Requests for the dashboard HTTP endpoints. Defined in domain for consistency and reuse.
// Pointer fields distinguish "absent" from an explicit zero (tilt_strength=0 is meaningful).

type ForecastRequest struct {
	BaseScale    *float64 `query:"base_scale" json:"base_scale" default:"1.0" validate:"omitempty,gte=0.5,lte=1.5"`
	TiltStrength *float64 `query:"tilt_strength" json:"tilt_strength" default:"1.0" validate:"omitempty,gte=0,lte=2"`
	DFNS         string   `query:"dfns" json:"dfns" validate:"omitempty,min=1,max=16"`
	EQQQ         string   `query:"eqqq" json:"eqqq" validate:"omitempty,min=1,max=16"`
	Notes        *bool    `query:"notes" json:"notes" default:"true"`
}

// Options converts the bound request into domain forecast options.
func (r *ForecastRequest) Options() ForecastOptions {
	opts := ForecastOptions{
		BaseScale:    1.0,
		TiltStrength: 1.0,
		IncludeNotes: true,
	}
	if r.BaseScale != nil {
		opts.BaseScale = *r.BaseScale
	}
	if r.TiltStrength != nil {
		opts.TiltStrength = *r.TiltStrength
	}
	if r.Notes != nil {
		opts.IncludeNotes = *r.Notes
	}
	if r.DFNS != "" || r.EQQQ != "" {
		opts.Overrides = map[string]string{}
		if r.DFNS != "" {
			opts.Overrides["DFNS"] = r.DFNS
		}
		if r.EQQQ != "" {
			opts.Overrides["EQQQ"] = r.EQQQ
		}
	}
	return opts
}
