// Package logos carries module-level identity used by version reporting.
package logos

const (
	Version     = "1.0.0"
	Author      = "Janos Toberling"
	Description = "Digital memory engine and personality framework"
	URL         = "https://github.com/jtoberling/logos"
)
