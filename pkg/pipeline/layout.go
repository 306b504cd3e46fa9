package pipeline

import (
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// GenerateLayout lays out sectors without caching. Options must already
// carry layout defaults.
func GenerateLayout(sectors []rrg.Sector, opts Options) (layout.Layout, error) {
	return layout.Build(sectors, opts.LayoutOptions())
}
