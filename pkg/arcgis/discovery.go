package arcgis

import (
	"context"
	"errors"
	"strings"

	"github.com/geoplatform/arcrest/pkg/types"
)

// SiteDescription is the result of walking a deployment's folder and
// service hierarchy.
type SiteDescription struct {
	// Version is the highest currentVersion any visited folder
	// reported, verbatim (for example "10.81").
	Version string
	// Resources are the discovered services as endpoints of the form
	// "{folder/}name/type", in discovery order.
	Resources []Endpoint
}

type folderVisit struct {
	path  string
	depth int
}

// DescribeSite walks the folder hierarchy breadth-first from the root
// and aggregates every published service. A folder that fails with a
// transport error (commonly access denied) contributes nothing and the
// walk continues; any other failure aborts the walk. Depth is bounded
// by the gateway's discovery depth guard.
func (g *Gateway) DescribeSite(ctx context.Context) (SiteDescription, error) {
	var desc SiteDescription
	var maxVersion float64
	haveVersion := false

	queue := []folderVisit{{path: "", depth: g.maxDepth}}
	for len(queue) > 0 {
		visit := queue[0]
		queue = queue[1:]

		if visit.depth <= 0 {
			g.logger.Warn().Str("path", visit.path).Msg("folder depth limit reached, skipping subtree")
			continue
		}

		var folder types.SiteFolder
		err := g.Get(ctx, NewEndpoint(visit.path), &folder)
		if errors.Is(err, ErrTransport) {
			g.logger.Warn().Str("path", visit.path).Err(err).Msg("folder inaccessible, skipping")
			continue
		}
		if err != nil {
			return SiteDescription{}, err
		}

		// currentVersion is a decimal on the wire (10.9 is newer than
		// 10.81); take the numeric maximum but report it verbatim.
		if raw := folder.CurrentVersion.String(); raw != "" {
			if v, verr := folder.CurrentVersion.Float64(); verr == nil {
				if !haveVersion || v > maxVersion {
					maxVersion = v
					haveVersion = true
					desc.Version = raw
				}
			}
		}

		for _, svc := range folder.Services {
			name := svc.Name
			// Some servers report subfolder services with the folder
			// prefix already applied; avoid doubling it.
			if visit.path != "" && !strings.HasPrefix(name, visit.path+"/") {
				name = visit.path + "/" + name
			}
			desc.Resources = append(desc.Resources, NewEndpoint(name+"/"+svc.Type))
		}

		for _, child := range folder.Folders {
			childPath := child
			if visit.path != "" {
				childPath = visit.path + "/" + child
			}
			queue = append(queue, folderVisit{path: childPath, depth: visit.depth - 1})
		}
	}

	return desc, nil
}
